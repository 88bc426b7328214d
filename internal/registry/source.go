package registry

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/internal/fetcher"
)

// Format names a roster encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatYAML     Format = "yaml"
	FormatSQLite   Format = "sqlite"
	FormatPostgres Format = "postgres"
)

// Source describes where the roster lives and how to read it.
type Source struct {
	// Location is a file path, an http(s)/ftp URL, a sqlite:// path, or a
	// postgres connection string.
	Location   string
	Format     Format // inferred from Location when empty
	Table      string // sqlite and postgres
	Sheet      string // xlsx; first sheet when empty
	Timeout    time.Duration
	MaxRetries int
}

// SourceFromConfig builds a Source from the registry config block.
func SourceFromConfig(cfg config.RegistryConfig) Source {
	return Source{
		Location:   cfg.Source,
		Format:     Format(strings.ToLower(cfg.Format)),
		Table:      cfg.Table,
		Sheet:      cfg.Sheet,
		Timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
		MaxRetries: cfg.MaxRetries,
	}
}

// String renders the location with any password masked.
func (s Source) String() string {
	u, err := url.Parse(s.Location)
	if err != nil || u.User == nil {
		return s.Location
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func (s Source) format() (Format, error) {
	if s.Format == "yml" {
		return FormatYAML, nil
	}
	if s.Format != "" {
		switch s.Format {
		case FormatJSON, FormatCSV, FormatXLSX, FormatYAML, FormatSQLite, FormatPostgres:
			return s.Format, nil
		}
		return "", eris.Errorf("registry: unknown format %q", s.Format)
	}
	return detectFormat(s.Location)
}

// detectFormat infers the format from a URL scheme or file extension.
func detectFormat(location string) (Format, error) {
	lower := strings.ToLower(strings.TrimSpace(location))
	switch {
	case lower == "":
		return "", eris.New("registry: empty source")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return FormatPostgres, nil
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"):
		return FormatSQLite, nil
	}

	ext := filepath.Ext(lower)
	if fetcher.IsRemote(lower) {
		if u, err := url.Parse(lower); err == nil {
			ext = path.Ext(u.Path)
		}
	}

	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", eris.Errorf("registry: cannot infer format of %q", location)
}

// sqlitePath strips the sqlite:// scheme.
func sqlitePath(location string) string {
	if strings.HasPrefix(strings.ToLower(location), "sqlite://") {
		return location[len("sqlite://"):]
	}
	return location
}
