package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/store"
)

const testRosterJSON = `[
  {"last_name":"AMURAO","first_name":"LUIS","middle_name":"E","address":"Bauan, Batangas","registration_date":"1995-06-01","registration_number":"5"},
  {"last_name":"REYES","first_name":"GUILLERMO","middle_name":"S","address":"Lipa, Batangas","registration_date":"1996-03-15","registration_number":"12"},
  {"last_name":"REYES","first_name":"PEDRO","middle_name":"C","address":"Tanauan, Batangas","registration_date":"1998-02-11","registration_number":"27"}
]`

// writeTemp writes content under dir and returns the path.
func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command in an empty working directory with
// package-level flag state reset.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_LOG_LEVEL", "error")

	sourceFlag, rosterFormat = "", ""
	verifyInput, verifyOutput, verifyConcurrency = "", "", 0
	lookupLimit = 20
	importTarget, importTable = "", store.DefaultTable
	servePort = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}
