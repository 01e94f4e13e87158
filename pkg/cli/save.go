package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func saveCommand(cfg *config) *cli.Command {
	var (
		title       string
		source      string
		dbURL       string
		noEmbedding bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Optional short title",
			Destination: &title,
		},
		&cli.StringSliceFlag{
			Name:    "tag",
			Usage:   "Tag to attach (repeatable)",
			Aliases: []string{"g"},
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Origin label for the memory",
			Destination: &source,
		},
		&cli.StringFlag{
			Name:        "db",
			Usage:       "Database URL or path (file: URL or filesystem path)",
			Sources:     cli.EnvVars("dbUrl", "DB_URL", "MEMORY_DB_URL"),
			Destination: &dbURL,
		},
		&cli.BoolFlag{
			Name:        "no-embedding",
			Usage:       "Skip embedding generation",
			Destination: &noEmbedding,
		},
	}
	flags = append(flags, globalFlags(cfg)...)
	flags = append(flags, embedderFlags(cfg)...)

	return &cli.Command{
		Name:      "save",
		Usage:     "Save a memory",
		ArgsUsage: "<content>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("save requires exactly one content argument")
			}

			uc, registry, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer registry.CloseAll()

			input := memory.NewSaveInput(c.Args().First())
			if title != "" {
				input.Title = &title
			}
			if source != "" {
				input.Source = &source
			}
			input.Tags = c.StringSlice("tag")
			input.DBURL = dbURL
			input.GenerateEmbedding = !noEmbedding

			saved, err := uc.Save(ctx, input)
			if err != nil {
				return err
			}

			return printJSON(saved)
		},
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}
