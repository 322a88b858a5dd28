package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/urfave/cli/v3"
)

// CmdGenerateSeed returns the generate-seed command
func CmdGenerateSeed() *cli.Command {
	var (
		outputPath string
		force      bool
	)

	return &cli.Command{
		Name:    "generate-seed",
		Aliases: []string{"g"},
		Usage:   "Generate a seed file template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Usage:       "Output file path",
				Value:       "seed.yaml",
				Destination: &outputPath,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Overwrite existing file",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := os.Stat(outputPath); err == nil && !force {
				return goerr.New("file already exists, use --force to overwrite",
					goerr.V("path", outputPath),
					goerr.T(apperr.ErrTagInvalidInput))
			}

			if err := config.GenerateSeedFile(outputPath); err != nil {
				return err
			}

			ctxlog.From(ctx).Info("seed template generated", "path", outputPath)
			fmt.Fprintf(cmd.Root().Writer, "Seed template generated: %s\n", outputPath)
			fmt.Fprintln(cmd.Root().Writer, "Edit it, then run: jiraconf seed --file", outputPath)
			return nil
		},
	}
}
