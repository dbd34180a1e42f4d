package gamemath

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrGameIDRequired is returned when registering a config without an id.
var ErrGameIDRequired = errors.New("game id required")

// Store keeps parsed game configs by game id and persists the raw documents.
type Store struct {
	mu      sync.RWMutex
	configs map[string]*storedConfig
	dataDir string
}

type storedConfig struct {
	raw json.RawMessage
	cfg *Config
}

func NewStore(dataDir string) *Store {
	if dataDir == "" {
		dataDir = "data"
	}
	s := &Store{
		configs: make(map[string]*storedConfig),
		dataDir: dataDir,
	}
	s.load()
	return s
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, "game_configs.json")
}

type storedEntry struct {
	GameID string          `json:"game_id"`
	Config json.RawMessage `json:"config"`
}

// load re-parses every persisted document; entries that no longer validate are dropped.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path())
	if err != nil {
		return
	}
	var list []storedEntry
	if err := json.Unmarshal(data, &list); err != nil {
		return
	}
	for _, e := range list {
		if e.GameID == "" || len(e.Config) == 0 {
			continue
		}
		cfg, err := Parse(e.Config)
		if err != nil {
			continue
		}
		s.configs[e.GameID] = &storedConfig{raw: e.Config, cfg: cfg}
	}
}

// saveLocked writes the store to disk. Caller must hold s.mu.
func (s *Store) saveLocked() error {
	list := make([]storedEntry, 0, len(s.configs))
	for _, id := range s.idsLocked() {
		list = append(list, storedEntry{GameID: id, Config: s.configs[id].raw})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0644)
}

func (s *Store) idsLocked() []string {
	ids := make([]string, 0, len(s.configs))
	for id := range s.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register parses raw and stores it under gameID. Overwrites if exists.
// Invalid documents are rejected and leave the store untouched.
func (s *Store) Register(gameID string, raw []byte) (*Config, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, ErrGameIDRequired
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	doc := make(json.RawMessage, len(raw))
	copy(doc, raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[gameID] = &storedConfig{raw: doc, cfg: cfg}
	return cfg, s.saveLocked()
}

// Get returns the config registered under gameID, or nil.
func (s *Store) Get(gameID string) *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.configs[gameID]
	if !ok {
		return nil
	}
	return e.cfg
}

// Raw returns the document registered under gameID.
func (s *Store) Raw(gameID string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.configs[gameID]
	if !ok {
		return nil, false
	}
	return e.raw, true
}

// List returns the registered game ids in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idsLocked()
}

// LoadDir registers every *.json file in dir under its base name
// (dir/lucky.json -> "lucky"). It stops at the first invalid document.
func (s *Store) LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)
	var n int
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return n, err
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if _, err := s.Register(id, data); err != nil {
			return n, fmt.Errorf("%s: %w", p, err)
		}
		n++
	}
	return n, nil
}
