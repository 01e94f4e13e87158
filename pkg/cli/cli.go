package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Missing .env is fine; the environment alone is enough
	_ = godotenv.Load()

	var cfg config
	cmd := &cli.Command{
		Name:  "localbrain",
		Usage: "Personal memory store exposed as MCP tools",
		Commands: []*cli.Command{
			serveCommand(&cfg),
			saveCommand(&cfg),
			fetchCommand(&cfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
