package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JayJamieson/csv-loader/pkg/config"
	"github.com/JayJamieson/csv-loader/pkg/loader"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv-loader",
		Short: "Load a CSV file into a SQLite table",
		Long: `csv-loader reads a CSV file with a header row and writes it into a single
table of a SQLite database, replacing any table of the same name.

Exit Codes:
  0  - Success
  1  - Input missing, CSV could not be parsed, or the database write failed
  2  - Invalid flags or configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			reporter := loader.NewConsoleReporter(stdout, cfg.NoColor || !isTerminal(stdout))
			l := loader.New(*cfg,
				loader.WithReporter(reporter),
				loader.WithLogger(loader.NewLogger(stderr, cfg.Verbose)),
			)

			_, err := l.Run(cmd.Context())
			if err != nil {
				reporter.Failure(failureMessage(*cfg, err))
			}
			return err
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&cfg.Input, "input", "i", cfg.Input, "CSV file path or http(s) URL")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "destination SQLite file or libsql URL")
	flags.StringVarP(&cfg.Table, "table", "t", cfg.Table, "destination table name")
	flags.StringVar(&cfg.Engine, "engine", cfg.Engine, "CSV parser engine: native or duckdb")
	flags.BoolVar(&cfg.Verify, "verify", cfg.Verify, "re-count destination rows after writing")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable coloured output")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "write debug logs to stderr")

	return cmd
}

func failureMessage(cfg config.Config, err error) string {
	cause := loader.Cause(err)

	switch loader.KindOf(err) {
	case loader.MissingInput:
		if cfg.IsRemoteInput() {
			return fmt.Sprintf("CSV file '%s' not found: %v", cfg.Input, cause)
		}
		if !errors.Is(cause, os.ErrNotExist) {
			return fmt.Sprintf("CSV file '%s' not found: %v", cfg.Input, cause)
		}
		return fmt.Sprintf("CSV file '%s' not found.", cfg.Input)
	case loader.ParseFailure:
		return fmt.Sprintf("Error loading CSV: %v", cause)
	case loader.PersistenceFailure:
		return fmt.Sprintf("Failed to insert into DB: %v", cause)
	default:
		return err.Error()
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case loader.KindOf(err) != loader.KindNone:
		return exitFailure
	default:
		return exitUsage
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
