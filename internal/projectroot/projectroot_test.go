// SPDX-License-Identifier: AGPL-3.0-or-later
package projectroot

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := filepath.FromSlash("/work/app")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "src", "billing"), 0o755))

	got, err := FindFs(fs, filepath.Join(root, "src", "billing"))
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = FindFs(fs, root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindFs_NearestMarkerWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	outer := filepath.FromSlash("/work/mono")
	inner := filepath.Join(outer, "services", "api")
	require.NoError(t, fs.MkdirAll(filepath.Join(outer, ".git"), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join(inner, ".estimator"), 0o755))

	got, err := FindFs(fs, filepath.Join(inner))
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestFindFs_NotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := FindFs(fs, filepath.FromSlash("/nowhere/at/all"))
	require.ErrorIs(t, err, ErrNotFound)
}
