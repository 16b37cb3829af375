// Package golden compares rendered reports against files under testdata/.
// Run the tests with -update to rewrite them.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// Assert compares got with testdata/<name>.golden next to the calling test
// file, rewriting the file first when -update is set.
func Assert(t *testing.T, name, got string) {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	require.True(t, ok, "runtime.Caller failed")
	require.False(t, strings.Contains(name, "..") || strings.ContainsAny(name, `/\`), "invalid golden name %q", name)

	dir := filepath.Join(filepath.Dir(filename), "testdata")
	path := filepath.Join(dir, name+".golden")

	if *update {
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o600))
	}

	want, err := os.ReadFile(path) //nolint:gosec // testdata path controlled by test
	require.NoError(t, err, "missing golden file; run with -update")
	assert.Equal(t, string(want), got, "output differs from %s", path)
}
