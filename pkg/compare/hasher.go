package compare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/diskscout/diskscout/pkg/ratelimit"
)

// Chunked hashing configuration
const (
	// DefaultChunkSize is the read size used when none is configured (64KB)
	DefaultChunkSize = 64 * 1024
	// minChunkSize is the smallest accepted read size (4KB)
	minChunkSize = 4 * 1024
)

// ContentHasher streams files through a digest in fixed-size chunks. A file
// that cannot be opened or read yields an absent digest rather than an error;
// context cancellation is the only error that escapes.
type ContentHasher struct {
	algorithm  Algorithm
	chunkSize  int
	limiter    *ratelimit.Limiter
	bufferPool *sync.Pool
}

// NewContentHasher creates a hasher for the given algorithm and chunk size.
// A nil limiter disables read throttling.
func NewContentHasher(algorithm Algorithm, chunkSize int, limiter *ratelimit.Limiter) *ContentHasher {
	if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	return &ContentHasher{
		algorithm: algorithm,
		chunkSize: chunkSize,
		limiter:   limiter,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// Algorithm returns the configured digest algorithm
func (h *ContentHasher) Algorithm() Algorithm {
	return h.algorithm
}

// HashFile returns the lowercase hex digest of the file's content, or an
// empty string when the file cannot be read. The returned error is non-nil
// only for context cancellation.
func (h *ContentHasher) HashFile(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	var reader io.Reader = file
	if h.limiter != nil {
		reader = ratelimit.NewReader(ctx, file, h.limiter)
	}

	hasher := h.algorithm.New()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			return "", nil
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// hashPair computes both sides of a file pair concurrently. Either digest may
// come back absent; an error aborts the pair and is always a context error.
func (h *ContentHasher) hashPair(ctx context.Context, sourcePath, targetPath string) (string, string, error) {
	var sourceHash, targetHash string
	var sourceErr, targetErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceHash, sourceErr = h.HashFile(ctx, sourcePath)
	}()
	go func() {
		defer wg.Done()
		targetHash, targetErr = h.HashFile(ctx, targetPath)
	}()
	wg.Wait()

	if sourceErr != nil {
		return "", "", sourceErr
	}
	if targetErr != nil {
		return "", "", targetErr
	}
	return sourceHash, targetHash, nil
}
