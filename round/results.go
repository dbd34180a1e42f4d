package round

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Result records a settled play for audit and replay. A seeded play can be
// regenerated from GameID, Bet and Seed.
type Result struct {
	PlayID                     string              `json:"playId"`
	GameID                     string              `json:"gameId"`
	Bet                        int                 `json:"bet"`
	Reward                     int                 `json:"reward"`
	Matrix                     [][]string          `json:"matrix"`
	AppliedWinningCombinations map[string][]string `json:"applied_winning_combinations"`
	AppliedBonusSymbols        []string            `json:"applied_bonus_symbol"`
	Seed                       *uint64             `json:"seed,omitempty"`
	PlayedAt                   time.Time           `json:"playedAt"`
}

// ResultsStore appends settled plays to data/play_results.json.
type ResultsStore struct {
	mu      sync.Mutex
	dataDir string
}

func NewResultsStore(dataDir string) *ResultsStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &ResultsStore{dataDir: dataDir}
}

func (rs *ResultsStore) path() string {
	return filepath.Join(rs.dataDir, "play_results.json")
}

func (rs *ResultsStore) readLocked() ([]*Result, error) {
	data, err := os.ReadFile(rs.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*Result
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Append adds a settled play to the JSON file.
func (rs *ResultsStore) Append(r *Result) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if err := os.MkdirAll(rs.dataDir, 0755); err != nil {
		return err
	}
	list, err := rs.readLocked()
	if err != nil {
		return err
	}
	list = append(list, r)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rs.path(), data, 0644)
}

// GetByPlayID returns the recorded play, or nil if there is none.
func (rs *ResultsStore) GetByPlayID(playID string) (*Result, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	list, err := rs.readLocked()
	if err != nil {
		return nil, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].PlayID == playID {
			return list[i], nil
		}
	}
	return nil, nil
}
