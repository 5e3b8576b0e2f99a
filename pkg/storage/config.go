package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Config is the typed representation of config.json, the
// JSON-unmarshalled layer 2 config sitting above ConfigEnv's yaml
// bootstrap layer.
type Config struct {
	App     AppConfig     `json:"app"`
	Paths   PathsConfig   `json:"paths"`
	ArtNet  ArtNetConfig  `json:"artnet"`
	Video   VideoConfig   `json:"video"`
	API     APIConfig     `json:"api"`
	Effects EffectsConfig `json:"effects"`
}

// AppConfig holds logging verbosity and retention settings.
type AppConfig struct {
	ConsoleLogLevel string `json:"console_log_level"`
	FileLogLevel    string `json:"file_log_level"`
	MaxLogFiles     int    `json:"max_log_files"`
}

// PathsConfig holds filesystem search locations.
type PathsConfig struct {
	VideoDir          string   `json:"video_dir"`
	DataDir           string   `json:"data_dir"`
	VideoSources      []string `json:"video_sources"`
	ScriptsDir        string   `json:"scripts_dir"`
	DefaultPointsJSON string   `json:"default_points_json"`
}

// ArtNetConfig holds the default Art-Net destination.
type ArtNetConfig struct {
	TargetIP      string `json:"target_ip"`
	StartUniverse int    `json:"start_universe"`
}

// PlayerResolution selects the preview/canvas render resolution.
type PlayerResolution struct {
	Preset       string `json:"preset"`
	CustomWidth  int    `json:"custom_width,omitempty"`
	CustomHeight int    `json:"custom_height,omitempty"`
	Autosize     string `json:"autosize"`
}

// VideoConfig holds default playback parameters.
type VideoConfig struct {
	DefaultFPS        float64          `json:"default_fps"`
	DefaultBrightness float64          `json:"default_brightness"`
	DefaultSpeed      float64          `json:"default_speed"`
	PlayerResolution  PlayerResolution `json:"player_resolution"`
}

// APIConfig holds the HTTP control surface bind address.
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// EffectsConfig holds effect-chain-wide tunables.
type EffectsConfig struct {
	TransportPositionUpdateInterval int `json:"effects.transport_position_update_interval"`
}

// defaultConfig mirrors the defaults a fresh install should boot with.
func defaultConfig() Config {
	return Config{
		App: AppConfig{
			ConsoleLogLevel: "INFO",
			FileLogLevel:    "WARNING",
			MaxLogFiles:     10,
		},
		ArtNet: ArtNetConfig{
			TargetIP:      "255.255.255.255",
			StartUniverse: 0,
		},
		Video: VideoConfig{
			DefaultFPS:        30,
			DefaultBrightness: 1,
			DefaultSpeed:      1,
			PlayerResolution:  PlayerResolution{Preset: "1080p", Autosize: "fit"},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Effects: EffectsConfig{
			TransportPositionUpdateInterval: 10,
		},
	}
}

// BridgeConfig stores the mutable config.json document and its path,
// mirroring ConfigGeneral's load/get/set shape but over the richer §6
// key set instead of a two-field theme/disk-space document.
type BridgeConfig struct {
	mu     sync.Mutex
	config Config
	path   string
}

// NewBridgeConfig loads config.json from path, generating it with
// defaults if absent.
func NewBridgeConfig(path string) (*BridgeConfig, error) {
	if !dirExist(path) {
		if err := writeJSONFile(path, defaultConfig()); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &BridgeConfig{config: cfg, path: path}, nil
}

// Get returns the current config snapshot.
func (c *BridgeConfig) Get() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Set replaces and persists the config document.
func (c *BridgeConfig) Set(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := writeJSONFile(c.path, cfg); err != nil {
		return err
	}
	c.config = cfg
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// OutputDef, SliceDef and ArtNetObjectDef are the persisted shapes of a
// player's outputs/slices/Art-Net objects within SessionState. They are
// deliberately plain data (no behavior), since SessionState's job is
// serialization, not reconstruction logic — that belongs to pkg/bridge,
// which rehydrates live objects from this snapshot on opt-in reload.
type OutputDef struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

// SliceDef is a persisted output slice assignment.
type SliceDef struct {
	ID       uuid.UUID `json:"id"`
	OutputID uuid.UUID `json:"output_id"`
	Source   string    `json:"source"`
}

// ArtNetObjectDef is a persisted Art-Net object definition.
type ArtNetObjectDef struct {
	ID     uuid.UUID       `json:"id"`
	Params json.RawMessage `json:"params"`
}

// PlaylistDef is a persisted playlist (name to ordered clip-UUID list).
type PlaylistDef struct {
	Name  string      `json:"name"`
	Clips []uuid.UUID `json:"clips"`
}

// AudioAnalyzerState is a persisted snapshot of the audio analyzer's
// running flag and bound device.
type AudioAnalyzerState struct {
	Running bool   `json:"running"`
	Device  string `json:"device"`
}

// PlayerSessionState is one player's persisted session document.
type PlayerSessionState struct {
	Outputs        []OutputDef        `json:"outputs"`
	Slices         []SliceDef         `json:"slices"`
	EnabledOutputs []uuid.UUID        `json:"enabled_outputs"`
	Playlists      []PlaylistDef      `json:"playlists"`
	ArtNetObjects  []ArtNetObjectDef  `json:"artnet_objects"`
	AudioAnalyzer  AudioAnalyzerState `json:"audio_analyzer"`
}

// SessionState is the full on-disk session document: a snapshot per
// player, keyed by player name ("preview", "artnet").
type SessionState struct {
	Players map[string]PlayerSessionState `json:"players"`
}

// SaveSessionState writes state to path as indented JSON, replacing any
// existing snapshot. Reload is always opt-in at the caller (pkg/bridge):
// a fresh install never reads this file unless told to.
func SaveSessionState(path string, state SessionState) error {
	return writeJSONFile(path, state)
}

// LoadSessionState reads and unmarshals a previously saved snapshot.
func LoadSessionState(path string) (SessionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionState{}, err
	}
	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return SessionState{}, err
	}
	return state, nil
}
