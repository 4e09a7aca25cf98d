package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/internal/httpapi"
)

// ServeFlags holds serve command flags
type ServeFlags struct {
	Host string
	Port int
}

var serveFlags ServeFlags

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API",
		Long: `Start a local HTTP server exposing scans, comparisons and snapshots to
the frontend. The server shuts down gracefully on interrupt.`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveFlags.Host, "host", "", "address to bind (overrides config)")
	cmd.Flags().IntVar(&serveFlags.Port, "port", 0, "port to bind (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)

	if serveFlags.Host != "" || serveFlags.Port > 0 {
		host, port := splitListen(cfg.Server.Listen)
		if serveFlags.Host != "" {
			host = serveFlags.Host
		}
		if serveFlags.Port > 0 {
			port = strconv.Itoa(serveFlags.Port)
		}
		cfg.Server.Listen = net.JoinHostPort(host, port)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	server := httpapi.NewServer(cfg, store, logger, Version)
	return server.Run(ctx)
}

// splitListen splits a listen address into host and port
func splitListen(listen string) (string, string) {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "127.0.0.1", "8590"
	}
	return host, port
}
