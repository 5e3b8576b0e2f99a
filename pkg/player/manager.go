package player

import "context"

// Manager holds the process's two players ("preview" and "artnet") and
// sequences their lifecycle together.
type Manager struct {
	Preview *Player
	ArtNet  *Player
}

// StartAll starts every player.
func (m *Manager) StartAll(ctx context.Context) error {
	if err := m.Preview.Start(ctx); err != nil {
		return err
	}
	if err := m.ArtNet.Start(ctx); err != nil {
		m.Preview.Stop()
		return err
	}
	return nil
}

// StopAll cancels every player's playback goroutine. Callers wait on the
// shared WaitGroup passed to New for actual exit.
func (m *Manager) StopAll() {
	m.Preview.Stop()
	m.ArtNet.Stop()
}
