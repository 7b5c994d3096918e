package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendsEntries(t *testing.T) {
	dir := t.TempDir()

	Log(dir, "create", 1, "buy milk")
	Log(dir, "complete", 1, "")

	entries := readLog(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, int64(1), entries[0].TaskID)
	assert.Equal(t, "buy milk", entries[0].Detail)
	assert.Equal(t, "complete", entries[1].Action)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestLogIgnoresUnwritableDir(t *testing.T) {
	// Logging must never fail a command, even with a bogus directory.
	Log(filepath.Join(t.TempDir(), "missing", "nested"), "create", 1, "x")
}

func readLog(t *testing.T, dir string) []Entry {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}
