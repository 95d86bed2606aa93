package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/config"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
)

// options are shared by every subcommand once the root has parsed flags.
type options struct {
	cfg    *config.CLI
	logger *slog.Logger

	catalogURL string
	token      string
	logLevel   string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "perfumectl",
		Short:         "Validate perfume drafts and create them in the catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("catalog") {
				cfg.CatalogBaseURL = opts.catalogURL
				cfg.CatalogPublicFileHost = opts.catalogURL
			}
			if flags.Changed("token") {
				cfg.Token = opts.token
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			opts.cfg = cfg
			opts.logger = logger.NewWithWriter("perfumectl", cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.catalogURL, "catalog", "", "catalog base URL (default $PERFUMECTL_CATALOG_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "catalog bearer token (default $PERFUMECTL_TOKEN)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(validateCmd(opts), createCmd(opts))
	return root
}
