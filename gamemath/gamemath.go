package gamemath

import (
	"errors"
	"fmt"
	"regexp"
)

// MissSymbol is drawn when weighted selection resolves no symbol. It never wins.
const MissSymbol = "MISS"

// Grid size used when the document omits rows or columns.
const DefaultRows, DefaultColumns = 3, 3

// Win combination triggers understood by the evaluator. Any other value is
// treated as "no extra constraint".
const (
	TriggerSameSymbols   = "same_symbols"
	TriggerLinearSymbols = "linear_symbols"
)

// ErrInvalidConfig marks every configuration error. Such errors are fatal for a play.
var ErrInvalidConfig = errors.New("invalid game config")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// SymbolKind tells standard symbols (position tables) from bonus symbols (global table).
type SymbolKind int

const (
	KindStandard SymbolKind = iota
	KindBonus
)

func (k SymbolKind) String() string {
	if k == KindBonus {
		return "bonus"
	}
	return "standard"
}

// BonusEffect is how a symbol modifies the final reward during the bonus pass.
type BonusEffect int

const (
	BonusNone     BonusEffect = iota // reported only
	BonusMultiply                    // reward × RewardMultiplier
	BonusAdd                         // reward + Extra
)

func (e BonusEffect) String() string {
	switch e {
	case BonusMultiply:
		return "multiply"
	case BonusAdd:
		return "add"
	default:
		return "none"
	}
}

var (
	multiplyMarker = regexp.MustCompile(`(?i)^\d+(\.\d+)?x$`)
	addMarker      = regexp.MustCompile(`^\+\d+$`)
)

// bonusEffectOf resolves the reward effect from the identifier ("10x", "+500").
func bonusEffectOf(id string) BonusEffect {
	switch {
	case multiplyMarker.MatchString(id):
		return BonusMultiply
	case addMarker.MatchString(id):
		return BonusAdd
	default:
		return BonusNone
	}
}

// Symbol is one entry of the symbol table.
type Symbol struct {
	ID               string      `json:"id"`
	RewardMultiplier float64     `json:"reward_multiplier"`
	Type             string      `json:"type,omitempty"`
	Extra            int         `json:"extra,omitempty"`
	Impact           string      `json:"impact,omitempty"` // descriptive only
	Kind             SymbolKind  `json:"-"`
	Bonus            BonusEffect `json:"-"`
}

// Weight pairs a symbol with its selection weight.
type Weight struct {
	Symbol string `json:"symbol"`
	Weight int    `json:"weight"`
}

// Probability holds the standard symbol weights configured for one cell.
type Probability struct {
	Column  int      `json:"column"`
	Row     int      `json:"row"`
	Symbols []Weight `json:"symbols"`
}

// Total is the sum of the entry's weights.
func (p Probability) Total() int {
	var total int
	for _, w := range p.Symbols {
		total += w.Weight
	}
	return total
}

// Cell is a zero-based grid coordinate.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Column)
}

// WinCombination is a named winning rule.
type WinCombination struct {
	ID               string   `json:"id"`
	RewardMultiplier float64  `json:"reward_multiplier"`
	Count            int      `json:"count"`
	Group            string   `json:"group,omitempty"`
	When             string   `json:"when"`
	CoveredAreas     [][]Cell `json:"covered_areas,omitempty"`
}

// Config is the parsed game configuration. It is never mutated after Parse,
// so one value can back any number of concurrent plays.
type Config struct {
	Columns               int
	Rows                  int
	Symbols               []*Symbol // document order
	StandardProbabilities []Probability
	BonusProbabilities    []Weight // document order
	WinCombinations       []*WinCombination

	symbols      map[string]*Symbol
	combinations map[string]*WinCombination
}

// Symbol looks up a symbol by identifier.
func (c *Config) Symbol(id string) (*Symbol, bool) {
	s, ok := c.symbols[id]
	return s, ok
}

// WinCombination looks up a combination by identifier.
func (c *Config) WinCombination(id string) (*WinCombination, bool) {
	w, ok := c.combinations[id]
	return w, ok
}

// IsBonus reports whether id is a configured bonus symbol.
func (c *Config) IsBonus(id string) bool {
	s, ok := c.symbols[id]
	return ok && s.Kind == KindBonus
}

// TotalStandardWeight sums the weights of every standard probability entry.
func (c *Config) TotalStandardWeight() int {
	var total int
	for _, p := range c.StandardProbabilities {
		total += p.Total()
	}
	return total
}

// TotalBonusWeight sums the global bonus weights.
func (c *Config) TotalBonusWeight() int {
	var total int
	for _, w := range c.BonusProbabilities {
		total += w.Weight
	}
	return total
}
