package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/store"
)

var (
	importTarget string
	importTable  string
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and convert the roster",
}

var registryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show roster size and field coverage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		stats := computeStats(reg.Records())
		stats.Source = reg.Source()
		stats.LoadedAt = reg.LoadedAt()
		formatStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

var registryImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the roster into a SQLite or Postgres table",
	Long: "Loads the configured roster (any supported source) and replaces the contents of the " +
		"target table with it. The table is created when missing.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, err := openRegistry(ctx)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, importTarget, importTable)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "registry import")
		}
		n, err := st.ReplaceRoster(ctx, reg.Records())
		if err != nil {
			return eris.Wrap(err, "registry import")
		}

		zap.L().Info("roster imported",
			zap.Int64("records", n),
			zap.String("from", reg.Source()),
			zap.String("table", importTable),
		)
		return nil
	},
}

func init() {
	registryImportCmd.Flags().StringVar(&importTarget, "to", "", "target database: sqlite://path, *.db, or postgres:// URL (required)")
	registryImportCmd.Flags().StringVar(&importTable, "table", store.DefaultTable, "target table")
	_ = registryImportCmd.MarkFlagRequired("to")

	registryCmd.AddCommand(registryStatsCmd, registryImportCmd)
	rootCmd.AddCommand(registryCmd)
}

func openStore(ctx context.Context, target, table string) (store.RosterStore, error) {
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return store.NewPostgres(ctx, target, table)
	case strings.HasPrefix(lower, "sqlite://"):
		return store.NewSQLite(target[len("sqlite://"):], table)
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return store.NewSQLite(target, table)
	default:
		return nil, eris.Errorf("unsupported import target %q", target)
	}
}

type rosterStats struct {
	Source          string
	LoadedAt        time.Time
	Records         int
	MissingMiddle   int
	MissingAddress  int
	MissingRegNo    int
	DuplicateRegNos int
}

func computeStats(records []model.RosterRecord) rosterStats {
	s := rosterStats{Records: len(records)}
	seen := make(map[string]int, len(records))
	for _, r := range records {
		if r.MiddleName == "" {
			s.MissingMiddle++
		}
		if r.Address == "" {
			s.MissingAddress++
		}
		if r.RegistrationNumber == "" {
			s.MissingRegNo++
			continue
		}
		seen[r.RegistrationNumber]++
		if seen[r.RegistrationNumber] == 2 {
			s.DuplicateRegNos++
		}
	}
	return s
}

func formatStats(out io.Writer, s rosterStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "source\t%s\n", s.Source)
	_, _ = fmt.Fprintf(w, "loaded\t%s\n", s.LoadedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "records\t%d\n", s.Records)
	_, _ = fmt.Fprintf(w, "missing middle name\t%d\n", s.MissingMiddle)
	_, _ = fmt.Fprintf(w, "missing address\t%d\n", s.MissingAddress)
	_, _ = fmt.Fprintf(w, "missing registration no\t%d\n", s.MissingRegNo)
	_, _ = fmt.Fprintf(w, "duplicate registration nos\t%d\n", s.DuplicateRegNos)
	_ = w.Flush()
}
