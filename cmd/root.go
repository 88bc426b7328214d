package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/config"
)

var (
	cfg          *config.Config
	sourceFlag   string
	rosterFormat string
)

var rootCmd = &cobra.Command{
	Use:   "roster-cli",
	Short: "Practitioner identity verification against a licensing roster",
	Long: "Matches self-reported practitioner identities against an authoritative roster " +
		"using weighted fuzzy name and address similarity, and classifies each as EXACT, PARTIAL, MULTIPLE or NONE.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if sourceFlag != "" {
			c.Registry.Source = sourceFlag
		}
		if rosterFormat != "" {
			c.Registry.Format = rosterFormat
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "roster source path or URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&rosterFormat, "format", "", "roster format: json, csv, xlsx, yaml, sqlite, postgres (default inferred)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
