package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header plus data rows, as read from CSV or XLSX.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable splits the first non-blank row off as the header. Blank rows are
// dropped. A document with no rows at all is an error.
func NewTable(rows [][]string) (*Table, error) {
	var t *Table
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if t == nil {
			header := make([]string, len(row))
			for i, h := range row {
				header[i] = HeaderKey(h)
			}
			t = &Table{Header: header, Rows: make([][]string, 0, len(rows))}
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if t == nil {
		return nil, eris.New("table: missing header row")
	}
	return t, nil
}

// Maps returns each row keyed by its header. Missing cells map to "".
func (t *Table) Maps() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Header))
		for i, key := range t.Header {
			if key == "" {
				continue
			}
			if i < len(row) {
				m[key] = strings.TrimSpace(row[i])
			} else {
				m[key] = ""
			}
		}
		out = append(out, m)
	}
	return out
}

// HeaderKey folds a column title to snake_case: "Last Name" and
// "last-name" both become "last_name".
func HeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "\ufeff")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.' || r == '\t'
	})
	return strings.Join(fields, "_")
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
