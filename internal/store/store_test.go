package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTable(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: DefaultTable},
		{in: "roster", want: "roster"},
		{in: "prc.practitioners", want: "prc.practitioners"},
		{in: "roster; DROP TABLE x", wantErr: true},
		{in: "1roster", wantErr: true},
		{in: "a.b.c", wantErr: true},
	}
	for _, tt := range tests {
		got, err := checkTable(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
