package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMonthlyCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,description,merchant,amount,currency,id\n")
	now := time.Now().UTC()
	for i := 6; i >= 1; i-- {
		date := now.AddDate(0, 0, -30*i).Format("2006-01-02")
		fmt.Fprintf(&b, "%s,NETFLIX.COM,Netflix,-15.99,USD,nf-%d\n", date, i)
	}
	path := filepath.Join(dir, "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestImportAndDetect(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "recur.db")
	csvPath := writeMonthlyCSV(t, dir)

	out, err := execute(t, "import", csvPath, "--db", db, "--space", "household", "--account", "checking")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 new transactions")

	out, err = execute(t, "import", csvPath, "--db", db, "--space", "household")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new transactions (6 already known)")

	out, err = execute(t, "detect", "--db", db, "--space", "household", "--format", "json")
	require.NoError(t, err)

	var rows []report.DetectedRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Netflix", rows[0].Merchant)
	assert.Equal(t, "monthly", rows[0].Frequency)
	assert.Equal(t, 6, rows[0].Occurrences)
}

func TestMigrateStatus(t *testing.T) {
	db := filepath.Join(t.TempDir(), "recur.db")

	out, err := execute(t, "migrate", "--db", db, "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")

	out, err = execute(t, "migrate", "--db", db, "--status=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated database from version 0")
}

func TestSourceFor(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "statement.ofx"},
		{path: "statement.QFX"},
		{path: "export.csv"},
		{path: "notes.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			source, err := sourceFor(tt.path, "household", "checking")
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, source)
		})
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"3f2a9c10-aaaa", "3f2b0000-bbbb", "9e0d1111-cccc"}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr bool
	}{
		{name: "full id", prefix: "9e0d1111-cccc", want: "9e0d1111-cccc"},
		{name: "unique prefix", prefix: "9e0d", want: "9e0d1111-cccc"},
		{name: "ambiguous prefix", prefix: "3f2", wantErr: true},
		{name: "unknown", prefix: "ffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(tt.prefix, ids, "pattern")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.qfx", "b.qfx", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files, err := expandFiles([]string{filepath.Join(dir, "*.qfx"), filepath.Join(dir, "a.qfx"), filepath.Join(dir, "c.csv")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.qfx"),
		filepath.Join(dir, "b.qfx"),
		filepath.Join(dir, "c.csv"),
	}, files)

	_, err = expandFiles([]string{filepath.Join(dir, "*.ofx")})
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDate("15/03/2024")
	assert.Error(t, err)
}
