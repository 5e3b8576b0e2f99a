package clip

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistManagerSetGetDelete(t *testing.T) {
	dir := t.TempDir()
	m, err := NewPlaylistManager(dir)
	require.NoError(t, err)

	p := &Playlist{ID: "show-1", Name: "Main show", Clips: []uuid.UUID{uuid.New(), uuid.New()}}
	require.NoError(t, m.Set(p))

	got, ok := m.Get("show-1")
	require.True(t, ok)
	assert.Equal(t, p.Name, got.Name)

	require.NoError(t, m.Delete("show-1"))
	_, ok = m.Get("show-1")
	assert.False(t, ok)
}

func TestPlaylistManagerLoadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	m, err := NewPlaylistManager(dir)
	require.NoError(t, err)
	require.NoError(t, m.Set(&Playlist{ID: "p1", Name: "one"}))

	m2, err := NewPlaylistManager(dir)
	require.NoError(t, err)
	p, ok := m2.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "one", p.Name)
}

func TestPlaylistManagerDeleteUnknown(t *testing.T) {
	m, err := NewPlaylistManager(t.TempDir())
	require.NoError(t, err)
	err = m.Delete("nope")
	assert.ErrorIs(t, err, ErrPlaylistNotExist)
}

func TestPlaylistNextWrapsAround(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	p := &Playlist{Clips: []uuid.UUID{a, b, c}}

	next, ok := p.Next(a)
	require.True(t, ok)
	assert.Equal(t, b, next)

	next, ok = p.Next(c)
	require.True(t, ok)
	assert.Equal(t, a, next)
}

func TestPlaylistNextEmpty(t *testing.T) {
	p := &Playlist{}
	_, ok := p.Next(uuid.New())
	assert.False(t, ok)
}

func TestPlaylistNextUnknownCurrentReturnsFirst(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p := &Playlist{Clips: []uuid.UUID{a, b}}
	next, ok := p.Next(uuid.New())
	require.True(t, ok)
	assert.Equal(t, a, next)
}

func TestConfigPath(t *testing.T) {
	m := &PlaylistManager{path: "/data/playlists"}
	assert.Equal(t, filepath.Join("/data/playlists", "x.json"), m.configPath("x"))
}
