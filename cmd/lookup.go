package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/model"
)

var lookupLimit int

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Search the roster by name",
	Long:  "Lists roster entries whose normalized full name contains the given text.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, err := openRegistry(ctx)
		if err != nil {
			return err
		}

		records := newEngine(reg, 1).FindByName(strings.Join(args, " "), lookupLimit)
		formatRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	lookupCmd.Flags().IntVar(&lookupLimit, "limit", 20, "maximum entries to show (0 = all)")
	rootCmd.AddCommand(lookupCmd)
}

// formatRecords writes a tabular representation of roster records to out.
func formatRecords(out io.Writer, records []model.RosterRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REG NO\tNAME\tADDRESS\tREGISTERED")
	_, _ = fmt.Fprintln(w, "------\t----\t-------\t----------")
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.RegistrationNumber, r.FullName(), r.Address, r.RegistrationDate)
	}
	_ = w.Flush()
}
