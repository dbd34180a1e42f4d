package gamemath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// rawConfig mirrors the configuration document. Objects whose key order
// matters are kept raw and walked with decodeObject.
type rawConfig struct {
	Columns       *int            `json:"columns"`
	Rows          *int            `json:"rows"`
	Symbols       json.RawMessage `json:"symbols"`
	Probabilities struct {
		StandardSymbols []struct {
			Column  *int            `json:"column"`
			Row     *int            `json:"row"`
			Symbols json.RawMessage `json:"symbols"`
		} `json:"standard_symbols"`
		BonusSymbols struct {
			Symbols json.RawMessage `json:"symbols"`
		} `json:"bonus_symbols"`
	} `json:"probabilities"`
	WinCombinations json.RawMessage `json:"win_combinations"`
}

type rawSymbol struct {
	RewardMultiplier float64 `json:"reward_multiplier"`
	Type             string  `json:"type"`
	Extra            int     `json:"extra"`
	Impact           string  `json:"impact"`
}

type rawCombination struct {
	RewardMultiplier float64    `json:"reward_multiplier"`
	Count            *int       `json:"count"`
	Group            string     `json:"group"`
	When             string     `json:"when"`
	CoveredAreas     [][]string `json:"covered_areas"`
}

type member struct {
	key   string
	value json.RawMessage
}

// decodeObject returns the members of a JSON object in document order.
func decodeObject(raw json.RawMessage, what string) ([]member, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, invalidf("%s: %v", what, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, invalidf("%s: expected an object", what)
	}
	seen := make(map[string]bool)
	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalidf("%s: %v", what, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, invalidf("%s: expected a key", what)
		}
		if seen[key] {
			return nil, invalidf("%s: duplicate key %q", what, key)
		}
		seen[key] = true
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, invalidf("%s.%s: %v", what, key, err)
		}
		out = append(out, member{key: key, value: v})
	}
	return out, nil
}

func decodeWeights(raw json.RawMessage, what string) ([]Weight, error) {
	members, err := decodeObject(raw, what)
	if err != nil {
		return nil, err
	}
	weights := make([]Weight, 0, len(members))
	for _, m := range members {
		var w int
		if err := json.Unmarshal(m.value, &w); err != nil {
			return nil, invalidf("%s.%s: weight must be an integer", what, m.key)
		}
		weights = append(weights, Weight{Symbol: m.key, Weight: w})
	}
	return weights, nil
}

// ParseCell parses a "row:column" coordinate and checks it against the grid bounds.
func ParseCell(s string, rows, columns int) (Cell, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Cell{}, invalidf("cell %q: want row:column", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cell{}, invalidf("cell %q: row is not a number", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Cell{}, invalidf("cell %q: column is not a number", s)
	}
	if row < 0 || row >= rows || col < 0 || col >= columns {
		return Cell{}, invalidf("cell %q: outside %dx%d grid", s, rows, columns)
	}
	return Cell{Row: row, Column: col}, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return Parse(data)
}

// Parse decodes a configuration document and validates it.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidf("%v", err)
	}
	cfg := &Config{Rows: DefaultRows, Columns: DefaultColumns}
	if raw.Rows != nil {
		cfg.Rows = *raw.Rows
	}
	if raw.Columns != nil {
		cfg.Columns = *raw.Columns
	}
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return nil, invalidf("grid must be at least 1x1, got %dx%d", cfg.Rows, cfg.Columns)
	}

	symbols, err := decodeObject(raw.Symbols, "symbols")
	if err != nil {
		return nil, err
	}
	cfg.symbols = make(map[string]*Symbol, len(symbols))
	declared := make(map[string]string, len(symbols))
	for _, m := range symbols {
		var rs rawSymbol
		if err := json.Unmarshal(m.value, &rs); err != nil {
			return nil, invalidf("symbols.%s: %v", m.key, err)
		}
		if rs.RewardMultiplier < 0 {
			return nil, invalidf("symbols.%s: negative reward_multiplier", m.key)
		}
		s := &Symbol{
			ID:               m.key,
			RewardMultiplier: rs.RewardMultiplier,
			Type:             rs.Type,
			Extra:            rs.Extra,
			Impact:           rs.Impact,
			Bonus:            bonusEffectOf(m.key),
		}
		declared[m.key] = strings.ToLower(rs.Type)
		cfg.Symbols = append(cfg.Symbols, s)
		cfg.symbols[m.key] = s
	}

	for i, p := range raw.Probabilities.StandardSymbols {
		what := fmt.Sprintf("probabilities.standard_symbols[%d]", i)
		if p.Column == nil || p.Row == nil {
			return nil, invalidf("%s: column and row are required", what)
		}
		weights, err := decodeWeights(p.Symbols, what+".symbols")
		if err != nil {
			return nil, err
		}
		cfg.StandardProbabilities = append(cfg.StandardProbabilities, Probability{
			Column:  *p.Column,
			Row:     *p.Row,
			Symbols: weights,
		})
	}
	cfg.BonusProbabilities, err = decodeWeights(raw.Probabilities.BonusSymbols.Symbols, "probabilities.bonus_symbols.symbols")
	if err != nil {
		return nil, err
	}

	combos, err := decodeObject(raw.WinCombinations, "win_combinations")
	if err != nil {
		return nil, err
	}
	cfg.combinations = make(map[string]*WinCombination, len(combos))
	for _, m := range combos {
		var rc rawCombination
		if err := json.Unmarshal(m.value, &rc); err != nil {
			return nil, invalidf("win_combinations.%s: %v", m.key, err)
		}
		wc := &WinCombination{
			ID:               m.key,
			RewardMultiplier: rc.RewardMultiplier,
			Group:            rc.Group,
			When:             rc.When,
		}
		if rc.Count != nil {
			wc.Count = *rc.Count
		}
		for i, area := range rc.CoveredAreas {
			if len(area) == 0 {
				return nil, invalidf("win_combinations.%s: covered_areas[%d] is empty", m.key, i)
			}
			cells := make([]Cell, 0, len(area))
			for _, s := range area {
				c, err := ParseCell(s, cfg.Rows, cfg.Columns)
				if err != nil {
					return nil, fmt.Errorf("win_combinations.%s: %w", m.key, err)
				}
				cells = append(cells, c)
			}
			wc.CoveredAreas = append(wc.CoveredAreas, cells)
		}
		cfg.WinCombinations = append(cfg.WinCombinations, wc)
		cfg.combinations[m.key] = wc
	}

	cfg.resolveKinds(declared)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveKinds tags every symbol as standard or bonus: the table that lists
// it wins, the declared type decides for symbols no table references.
func (c *Config) resolveKinds(declared map[string]string) {
	standard := make(map[string]bool)
	for _, p := range c.StandardProbabilities {
		for _, w := range p.Symbols {
			standard[w.Symbol] = true
		}
	}
	bonus := make(map[string]bool)
	for _, w := range c.BonusProbabilities {
		bonus[w.Symbol] = true
	}
	for _, s := range c.Symbols {
		switch {
		case bonus[s.ID]:
			s.Kind = KindBonus
		case standard[s.ID]:
			s.Kind = KindStandard
		case declared[s.ID] == "bonus":
			s.Kind = KindBonus
		default:
			s.Kind = KindStandard
		}
	}
}

// Validate checks the cross references and weights of a parsed configuration.
func (c *Config) Validate() error {
	for i, p := range c.StandardProbabilities {
		for _, w := range p.Symbols {
			if _, ok := c.symbols[w.Symbol]; !ok {
				return invalidf("probabilities.standard_symbols[%d]: unknown symbol %q", i, w.Symbol)
			}
			if w.Weight < 0 {
				return invalidf("probabilities.standard_symbols[%d]: negative weight for %q", i, w.Symbol)
			}
		}
	}
	for _, w := range c.BonusProbabilities {
		if _, ok := c.symbols[w.Symbol]; !ok {
			return invalidf("probabilities.bonus_symbols: unknown symbol %q", w.Symbol)
		}
		if w.Weight < 0 {
			return invalidf("probabilities.bonus_symbols: negative weight for %q", w.Symbol)
		}
	}
	for _, wc := range c.WinCombinations {
		if wc.When == "" {
			return invalidf("win_combinations.%s: when is required", wc.ID)
		}
		if wc.Count < 0 {
			return invalidf("win_combinations.%s: negative count", wc.ID)
		}
		if wc.RewardMultiplier < 0 {
			return invalidf("win_combinations.%s: negative reward_multiplier", wc.ID)
		}
	}
	if c.TotalStandardWeight()+c.TotalBonusWeight() <= 0 {
		return invalidf("total symbol weight is zero")
	}
	return nil
}
