package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

var (
	verifyInput       string
	verifyOutput      string
	verifyConcurrency int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a file of applications against the roster",
	Long: "Reads applications from a JSON array or CSV file, verifies each against the roster, " +
		"and writes the results as JSON in input order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("verify"); err != nil {
			return err
		}

		apps, err := readApplications(ctx, verifyInput)
		if err != nil {
			return err
		}

		// Unnamed rows are identified by their 1-based position.
		for i := range apps {
			if apps[i].ApplicationID == "" {
				apps[i].ApplicationID = strconv.Itoa(i + 1)
			}
		}

		reg, err := openRegistry(ctx)
		if err != nil {
			return err
		}

		start := time.Now()
		results := newEngine(reg, verifyConcurrency).VerifyAll(ctx, apps)

		var out io.Writer = cmd.OutOrStdout()
		if verifyOutput != "" {
			f, err := os.Create(verifyOutput)
			if err != nil {
				return eris.Wrap(err, "create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return eris.Wrap(err, "write results")
		}

		summary := model.Summarize(results)
		zap.L().Info("verification complete",
			zap.Int("applications", summary.Total),
			zap.Int("verified", summary.Verified),
			zap.Int("failed", summary.Failed),
			zap.Any("by_verdict", summary.ByVerdict),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyInput, "input", "", "applications file, .json or .csv (required)")
	verifyCmd.Flags().StringVar(&verifyOutput, "output", "", "results file (default stdout)")
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 0, "parallel verifications (default from config)")
	_ = verifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(verifyCmd)
}
