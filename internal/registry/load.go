package registry

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/roster-cli/internal/fetcher"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/store"
)

// maxDownloadBytes caps a remote roster download.
const maxDownloadBytes = 256 << 20

// Load reads the whole roster from src. Every failure, including a
// malformed document, is returned as an *UnavailableError. An empty roster
// is valid.
func Load(ctx context.Context, src Source) ([]model.RosterRecord, error) {
	log := zap.L().With(zap.String("component", "registry"), zap.String("source", src.String()))
	start := time.Now()

	records, err := load(ctx, src)
	if err != nil {
		log.Error("registry: roster load failed", zap.Error(err))
		return nil, unavailable(src.String(), err)
	}

	log.Info("registry: roster loaded",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

func load(ctx context.Context, src Source) ([]model.RosterRecord, error) {
	format, err := src.format()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSQLite:
		return loadSQLite(ctx, src)
	case FormatPostgres:
		return loadPostgres(ctx, src)
	}

	if fetcher.IsRemote(src.Location) {
		data, err := download(ctx, src)
		if err != nil {
			return nil, err
		}
		if format == FormatXLSX {
			table, err := fetcher.ReadXLSXTableBytes(data, fetcher.XLSXOptions{SheetName: src.Sheet})
			if err != nil {
				return nil, err
			}
			return recordsFromTable(table)
		}
		return decode(ctx, format, bytes.NewReader(data))
	}

	if format == FormatXLSX {
		table, err := fetcher.ReadXLSXTable(src.Location, fetcher.XLSXOptions{SheetName: src.Sheet})
		if err != nil {
			return nil, err
		}
		return recordsFromTable(table)
	}

	f, err := os.Open(src.Location)
	if err != nil {
		return nil, eris.Wrap(err, "registry: open roster file")
	}
	defer f.Close() //nolint:errcheck

	return decode(ctx, format, f)
}

func decode(ctx context.Context, format Format, r io.Reader) ([]model.RosterRecord, error) {
	switch format {
	case FormatJSON:
		objs, err := fetcher.ReadJSONArray[map[string]any](ctx, r)
		if err != nil {
			return nil, err
		}
		records := make([]model.RosterRecord, 0, len(objs))
		for _, obj := range objs {
			records = append(records, recordFromValues(obj))
		}
		return records, nil
	case FormatCSV:
		table, err := fetcher.ReadCSVTable(ctx, r, fetcher.CSVOptions{LazyQuotes: true})
		if err != nil {
			return nil, err
		}
		return recordsFromTable(table)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return nil, eris.Errorf("registry: format %q cannot be decoded from a stream", format)
	}
}

// recordsFromTable requires at least one name column in the header so a
// wrong file fails loudly instead of yielding blank records.
func recordsFromTable(table *fetcher.Table) ([]model.RosterRecord, error) {
	if !hasNameColumn(table.Header) {
		return nil, eris.Errorf("registry: header has no name column (got %s)", strings.Join(table.Header, ", "))
	}
	return recordsFromRows(table.Maps()), nil
}

func hasNameColumn(header []string) bool {
	for _, h := range header {
		for _, field := range []string{"last_name", "first_name"} {
			for _, alias := range columnAliases[field] {
				if h == alias {
					return true
				}
			}
		}
	}
	return false
}

// decodeYAML accepts a top-level list of records or a mapping holding the
// list under "roster" or "records".
func decodeYAML(r io.Reader) ([]model.RosterRecord, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, eris.New("yaml: empty document")
		}
		return nil, eris.Wrap(err, "yaml: decode roster")
	}

	if m, ok := doc.(map[string]any); ok {
		switch {
		case m["roster"] != nil:
			doc = m["roster"]
		case m["records"] != nil:
			doc = m["records"]
		}
	}

	list, ok := doc.([]any)
	if !ok {
		return nil, eris.Errorf("yaml: expected a list of records, got %T", doc)
	}

	records := make([]model.RosterRecord, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, eris.Errorf("yaml: record %d is %T, not a mapping", i, item)
		}
		records = append(records, recordFromValues(obj))
	}
	return records, nil
}

func download(ctx context.Context, src Source) ([]byte, error) {
	f, err := fetcher.ForURL(src.Location, fetcher.Options{
		Timeout:    src.Timeout,
		MaxRetries: src.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	body, err := f.Download(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(body, maxDownloadBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "registry: read download")
	}
	if len(data) > maxDownloadBytes {
		return nil, eris.Errorf("registry: roster download exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}

func loadSQLite(ctx context.Context, src Source) ([]model.RosterRecord, error) {
	path := sqlitePath(src.Location)
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrap(err, "registry: stat sqlite roster")
		}
	}

	st, err := store.NewSQLite(path, src.Table)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	return st.ListRoster(ctx)
}

func loadPostgres(ctx context.Context, src Source) ([]model.RosterRecord, error) {
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	st, err := store.NewPostgres(ctx, src.Location, src.Table)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	return st.ListRoster(ctx)
}
