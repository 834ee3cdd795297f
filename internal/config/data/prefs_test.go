package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/dao"
)

func TestPrefsStoreDefaults(t *testing.T) {
	s := NewPrefsStore(filepath.Join(t.TempDir(), "prefs.yaml"), Prefs{})

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Prefs{Limit: 10, SortBy: dao.SortCreatedAt, Order: dao.OrderDesc}, p)
}

func TestPrefsStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.yaml")
	s := NewPrefsStore(path, DefaultPrefs())

	require.NoError(t, s.Persist(50, dao.SortName, dao.OrderAsc))
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Prefs{Limit: 50, SortBy: dao.SortName, Order: dao.OrderAsc}, p)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPrefsStoreInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: -2\nsortBy: age\norder: ASC\n"), 0600))

	s := NewPrefsStore(path, Prefs{Limit: 20, SortBy: dao.SortEmail, Order: dao.OrderDesc})
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Prefs{Limit: 20, SortBy: dao.SortEmail, Order: dao.OrderAsc}, p)
}

func TestPrefsStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: [\n"), 0600))

	p, err := NewPrefsStore(path, DefaultPrefs()).Load()
	require.Error(t, err)
	assert.Equal(t, DefaultPrefs(), p)
}

func TestDurationYAML(t *testing.T) {
	type holder struct {
		Timeout Duration `yaml:"timeout"`
	}
	path := filepath.Join(t.TempDir(), "d.yaml")
	require.NoError(t, SaveYAML(path, holder{Timeout: Duration{Duration: 1500000000}}))

	var h holder
	require.NoError(t, LoadYAML(path, &h))
	assert.Equal(t, "1.5s", h.Timeout.String())

	require.NoError(t, os.WriteFile(path, []byte("timeout: soon\n"), 0600))
	require.Error(t, LoadYAML(path, &h))
}
