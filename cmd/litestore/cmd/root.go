package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jordanwade90/litestore/config"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "litestore",
	Short: "litestore - SQLite record and file tool",
	Long: `litestore encodes and decodes SQLite records
and dumps the tables of SQLite database files without SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		if path == "" {
			cfg, err = config.Load(nil)
		} else {
			cfg, err = config.LoadConfig(path)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := cfg.Level()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file")
}
