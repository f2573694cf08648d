package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/config"
	"github.com/octobees/complaint-helper/api/internal/dataset"
	"github.com/octobees/complaint-helper/api/internal/dto"
	"github.com/octobees/complaint-helper/api/internal/entity"
	"github.com/octobees/complaint-helper/api/internal/repository"
	"github.com/octobees/complaint-helper/api/internal/service/lookup"
)

const loadTimeout = 10 * time.Second

type sourceFlags struct {
	path        string
	databaseURL string
	table       string
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.path, "dataset", os.Getenv("DATASET_PATH"), "JSON, CSV or YAML dataset file (default: bundled directory)")
	cmd.PersistentFlags().StringVar(&f.databaseURL, "database-url", os.Getenv("DATASET_DATABASE_URL"), "read the directory from Postgres instead of a file")
	cmd.PersistentFlags().StringVar(&f.table, "table", envOr("DATASET_TABLE", repository.DefaultCompaniesTable), "Postgres table holding the directory")
}

func (f *sourceFlags) load(ctx context.Context) ([]entity.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	return dataset.Load(ctx, dataset.Options{
		Path:        f.path,
		DatabaseURL: f.databaseURL,
		Table:       f.table,
	})
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	var (
		source   sourceFlags
		logLevel string
	)

	root := &cobra.Command{
		Use:          "lookup",
		Short:        "Resolve company names and check company directories",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		_, err := config.InitLogger(config.LogConfig{Level: strings.ToLower(logLevel), Format: "console"})
		return err
	}
	source.bind(root)
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level written to stderr")

	root.AddCommand(newResolveCmd(&source), newValidateCmd(&source))
	return root
}

func newResolveCmd(source *sourceFlags) *cobra.Command {
	var showMatch bool

	cmd := &cobra.Command{
		Use:   "resolve <company name...>",
		Short: "Print the social handles the API would return for a company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company := strings.TrimSpace(strings.Join(args, " "))
			if company == "" {
				return eris.New("company name is required")
			}

			records, err := source.load(cmd.Context())
			if err != nil {
				return err
			}

			result := lookup.NewResolver(records).Resolve(company)
			if showMatch {
				fmt.Fprintf(cmd.ErrOrStderr(), "outcome=%s match=%s\n", result.Outcome, result.Match)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.NewSocialHandlesResponse(result))
		},
	}
	cmd.Flags().BoolVar(&showMatch, "explain", false, "report how the result was matched on stderr")
	return cmd
}

func newValidateCmd(source *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load a company directory and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := source.load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			warnings := dataset.Lint(records)
			for _, warning := range warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			fmt.Fprintf(out, "%d companies, %d warnings\n", len(records), len(warnings))

			zap.L().Debug("dataset validated", zap.Int("companies", len(records)), zap.Int("warnings", len(warnings)))
			return nil
		},
	}
}
