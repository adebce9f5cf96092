package client

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStore(path)

	raw, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, fs.Save([]byte(`{"id":"x"}`)))
	raw, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x"}`, string(raw))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear(), "clearing twice is fine")
	raw, err = fs.Load()
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	m := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, m.Save(data))
	data[0] = 'z'

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
