package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jordanwade90/litestore"
	"github.com/jordanwade90/litestore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	out, err := run(t, "encode", `[null, 42, 3.5, "hi"]`)
	require.NoError(t, err)
	assert.Equal(t, "05000107112a400c0000000000006869", strings.TrimSpace(out))

	out, err = run(t, "decode", "05000107112a400c0000000000006869")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"serial_type": 0, "type": "null", "value": null},
		{"serial_type": 1, "type": "integer", "value": 42},
		{"serial_type": 7, "type": "real", "value": 3.5},
		{"serial_type": 17, "type": "text", "value": "hi"}
	]`, out)
}

func TestEncodeWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("record:\n  file_format: 1\n"), 0o644))

	out, err := run(t, "--config", path, "encode", `[1]`)
	require.NoError(t, err)
	assert.Equal(t, "020101", strings.TrimSpace(out), "format 1 stores 1 as an 8-bit integer")

	_, err = run(t, "--config", "", "encode", `[1]`)
	require.NoError(t, err)
}

func TestEncodeDecodeErrors(t *testing.T) {
	_, err := run(t, "encode", `{"not": "an array"}`)
	assert.Error(t, err)

	_, err = run(t, "encode", `[[1, 2]]`)
	assert.True(t, value.IsInvalidArgument(err))

	_, err = run(t, "decode", "zz")
	assert.Error(t, err)

	_, err = run(t, "decode", "7f01")
	assert.True(t, value.IsCorrupt(err))
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	f, err := os.Create(path)
	require.NoError(t, err)

	db, err := litestore.OpenDatabase(f)
	require.NoError(t, err)
	tbl := db.OpenTable()
	s := tbl.OpenStream()
	for _, name := range []string{"ann", "bob"} {
		_, err := s.WriteRow(value.Text(name), value.Int(int64(len(name))))
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())
	require.NoError(t, tbl.Close("people", "CREATE TABLE people(name, n)"))
	require.NoError(t, db.Close())
	require.NoError(t, f.Close())

	out, err := run(t, "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"people"`)

	out, err = run(t, "dump", path, "people")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"values":["ann",3]`)
	assert.Contains(t, lines[1], `"values":["bob",3]`)

	_, err = run(t, "dump", path, "nobody")
	assert.Error(t, err)
}
