package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/localbrain/localbrain/pkg/service/mcp"
	"github.com/localbrain/localbrain/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func serveCommand(cfg *config) *cli.Command {
	var (
		transport string
		addr      string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "transport",
			Aliases:     []string{"t"},
			Usage:       "MCP transport (stdio or http)",
			Value:       "stdio",
			Sources:     cli.EnvVars("LOCALBRAIN_TRANSPORT"),
			Destination: &transport,
		},
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address for http transport",
			Value:       ":3000",
			Sources:     cli.EnvVars("LOCALBRAIN_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, globalFlags(cfg)...)
	flags = append(flags, embedderFlags(cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			uc, registry, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := registry.CloseAll(); err != nil {
					logging.From(ctx).Warn("failed to close databases", "error", err)
				}
			}()

			server := mcp.New(uc)

			switch transport {
			case "stdio":
				logging.From(ctx).Info("starting MCP server on stdio")
				return server.ServeStdio(ctx)

			case "http":
				return serveHTTP(ctx, addr, server)

			default:
				return goerr.New("unsupported transport",
					goerr.V("transport", transport),
					goerr.V("supported", []string{"stdio", "http"}))
			}
		},
	}
}

func serveHTTP(ctx context.Context, addr string, server *mcp.Server) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logging.From(ctx).Info("starting MCP server on http", "addr", addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "http server failed")
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "http server shutdown failed")
		}
		return nil
	}
}
