package clip

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Playlist is an ordered list of clip UUIDs that a player's master layer
// can auto-advance through when a clip's source reports a finite
// duration and its transport signals loop_completed in play-once mode.
type Playlist struct {
	ID    string
	Name  string
	Clips []uuid.UUID

	mu sync.Mutex
}

// PlaylistManager persists playlists to one JSON file per playlist
// under a directory.
type PlaylistManager struct {
	playlists map[string]*Playlist
	path      string
	mu        sync.Mutex
}

// NewPlaylistManager loads every "*.json" playlist file under dir.
func NewPlaylistManager(dir string) (*PlaylistManager, error) {
	files, err := readPlaylistFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("clip: could not read playlist files: %w", err)
	}

	m := &PlaylistManager{path: dir, playlists: map[string]*Playlist{}}
	for _, data := range files {
		var p Playlist
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("clip: could not unmarshal playlist: %w", err)
		}
		m.playlists[p.ID] = &p
	}
	return m, nil
}

func readPlaylistFiles(dir string) ([][]byte, error) {
	var files [][]byte
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("clip: could not read file %v: %w", path, err)
		}
		files = append(files, data)
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}

// Set inserts or replaces a playlist and persists it to disk.
func (m *PlaylistManager) Set(p *Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playlists[p.ID] = p

	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("clip: could not marshal playlist: %w", err)
	}
	if err := os.WriteFile(m.configPath(p.ID), data, 0o600); err != nil {
		return fmt.Errorf("clip: could not write playlist file: %w", err)
	}
	return nil
}

// ErrPlaylistNotExist is returned when a playlist id is unknown.
var ErrPlaylistNotExist = fmt.Errorf("clip: playlist does not exist")

// Delete removes a playlist by id and its backing file.
func (m *PlaylistManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.playlists[id]; !ok {
		return ErrPlaylistNotExist
	}
	delete(m.playlists, id)

	if err := os.Remove(m.configPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Get returns the playlist registered under id.
func (m *PlaylistManager) Get(id string) (*Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	return p, ok
}

// All returns every playlist currently registered.
func (m *PlaylistManager) All() []*Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Playlist, 0, len(m.playlists))
	for _, p := range m.playlists {
		out = append(out, p)
	}
	return out
}

func (m *PlaylistManager) configPath(id string) string {
	return filepath.Join(m.path, id+".json")
}

// Next returns the clip UUID following current in the playlist, wrapping
// to the start, for master-layer auto-advance on loop_completed.
func (p *Playlist) Next(current uuid.UUID) (uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.Clips) == 0 {
		return uuid.Nil, false
	}
	for i, id := range p.Clips {
		if id == current {
			return p.Clips[(i+1)%len(p.Clips)], true
		}
	}
	return p.Clips[0], true
}
