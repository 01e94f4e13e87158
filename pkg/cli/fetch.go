package cli

import (
	"context"

	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func fetchCommand(cfg *config) *cli.Command {
	var (
		limit  int64
		dbURL  string
		vector bool
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of results (default 10, max 50)",
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "db",
			Usage:       "Database URL or path (file: URL or filesystem path)",
			Sources:     cli.EnvVars("dbUrl", "DB_URL", "MEMORY_DB_URL"),
			Destination: &dbURL,
		},
		&cli.BoolFlag{
			Name:        "vector",
			Aliases:     []string{"v"},
			Usage:       "Rank by embedding similarity instead of recency",
			Destination: &vector,
		},
	}
	flags = append(flags, globalFlags(cfg)...)
	flags = append(flags, embedderFlags(cfg)...)

	return &cli.Command{
		Name:      "fetch",
		Usage:     "Search stored memories",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("fetch requires exactly one query argument")
			}

			uc, registry, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer registry.CloseAll()

			results, err := uc.Fetch(ctx, memory.FetchInput{
				Query:           c.Args().First(),
				Limit:           int(limit),
				DBURL:           dbURL,
				UseVectorSearch: vector,
			})
			if err != nil {
				return err
			}

			return printJSON(results)
		},
	}
}
