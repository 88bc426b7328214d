package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"last_name", "last_name"},
		{"Last Name", "last_name"},
		{"  LAST-NAME ", "last_name"},
		{"Reg. No", "reg_no"},
		{"\ufeffsurname", "surname"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HeaderKey(tt.in), "HeaderKey(%q)", tt.in)
	}
}

func TestNewTable_SkipsBlankRows(t *testing.T) {
	table, err := NewTable([][]string{
		{"", ""},
		{"last_name", "first_name"},
		{"", " "},
		{"AMURAO", "LUIS"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"last_name", "first_name"}, table.Header)
	assert.Equal(t, [][]string{{"AMURAO", "LUIS"}}, table.Rows)
}

func TestNewTable_NoRows(t *testing.T) {
	_, err := NewTable(nil)
	require.Error(t, err)
}

func TestTable_MapsIgnoresUnnamedColumns(t *testing.T) {
	table := &Table{
		Header: []string{"last_name", "", "first_name"},
		Rows:   [][]string{{" AMURAO ", "junk", "LUIS", "extra"}},
	}
	maps := table.Maps()
	require.Len(t, maps, 1)
	assert.Equal(t, map[string]string{"last_name": "AMURAO", "first_name": "LUIS"}, maps[0])
}
