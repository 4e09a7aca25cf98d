package compare

import (
	"crypto/md5"
	"crypto/sha256"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm selects the digest used for deep scans
type Algorithm string

const (
	// AlgorithmSHA256 is the default cryptographic digest
	AlgorithmSHA256 Algorithm = "sha256"
	// AlgorithmBLAKE3 is a faster cryptographic digest
	AlgorithmBLAKE3 Algorithm = "blake3"
	// AlgorithmMD5 is kept for interoperability with existing tooling
	AlgorithmMD5 Algorithm = "md5"
	// AlgorithmXXH64 is a non-cryptographic quick mode for trusted media
	AlgorithmXXH64 Algorithm = "xxh64"
)

// Algorithms lists the supported digest algorithms
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSHA256, AlgorithmBLAKE3, AlgorithmMD5, AlgorithmXXH64}
}

// Valid reports whether the algorithm is supported
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmSHA256, AlgorithmBLAKE3, AlgorithmMD5, AlgorithmXXH64:
		return true
	}
	return false
}

// New returns a fresh hash state for the algorithm. Callers must have
// validated the algorithm; unknown values fall back to SHA-256 so a digest is
// always produced.
func (a Algorithm) New() hash.Hash {
	switch a {
	case AlgorithmBLAKE3:
		return blake3.New()
	case AlgorithmMD5:
		return md5.New()
	case AlgorithmXXH64:
		return xxhash.New()
	default:
		return sha256.New()
	}
}

// HexWidth returns the length of the hex digest the algorithm produces
func (a Algorithm) HexWidth() int {
	return a.New().Size() * 2
}
