package scratch

import (
	"fmt"
	"strings"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// Matrix is the generated grid, Matrix[row][column].
type Matrix [][]string

// At returns the symbol at c, false when c is outside the grid.
func (m Matrix) At(c gamemath.Cell) (string, bool) {
	if c.Row < 0 || c.Row >= len(m) || c.Column < 0 || c.Column >= len(m[c.Row]) {
		return "", false
	}
	return m[c.Row][c.Column], true
}

func (m Matrix) String() string {
	var b strings.Builder
	for _, row := range m {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// GenerateMatrix fills a Rows×Columns grid, one independent weighted draw per cell.
// A nil src falls back to SecureSource.
func GenerateMatrix(cfg *gamemath.Config, src Source) (Matrix, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no game config", gamemath.ErrInvalidConfig)
	}
	if src == nil {
		src = SecureSource
	}
	d := newDrawer(cfg)
	if d.totalStandard+d.totalBonus <= 0 {
		return nil, fmt.Errorf("%w: total symbol weight is zero", gamemath.ErrInvalidConfig)
	}
	m := make(Matrix, cfg.Rows)
	for r := range m {
		row := make([]string, cfg.Columns)
		for c := range row {
			row[c] = d.draw(src)
		}
		m[r] = row
	}
	return m, nil
}

// drawer holds the weight tables in the order a draw walks them: every
// standard entry with its symbols in symbol-table order, then the bonus table.
type drawer struct {
	standard      [][]gamemath.Weight
	bonus         []gamemath.Weight
	totalStandard int
	totalBonus    int
}

func newDrawer(cfg *gamemath.Config) *drawer {
	d := &drawer{
		standard:      make([][]gamemath.Weight, 0, len(cfg.StandardProbabilities)),
		bonus:         cfg.BonusProbabilities,
		totalStandard: cfg.TotalStandardWeight(),
		totalBonus:    cfg.TotalBonusWeight(),
	}
	for _, p := range cfg.StandardProbabilities {
		byID := make(map[string]int, len(p.Symbols))
		for _, w := range p.Symbols {
			byID[w.Symbol] = w.Weight
		}
		table := make([]gamemath.Weight, 0, len(p.Symbols))
		for _, s := range cfg.Symbols {
			if w, ok := byID[s.ID]; ok {
				table = append(table, gamemath.Weight{Symbol: s.ID, Weight: w})
			}
		}
		d.standard = append(d.standard, table)
	}
	return d
}

func (d *drawer) draw(src Source) string {
	n := src.IntN(d.totalStandard+d.totalBonus) + 1
	if n <= d.totalStandard {
		for _, table := range d.standard {
			for _, w := range table {
				if n <= w.Weight {
					return w.Symbol
				}
				n -= w.Weight
			}
		}
		return gamemath.MissSymbol
	}
	// The bonus walk steps one position per entry regardless of weight.
	rest := n - d.totalStandard
	for _, w := range d.bonus {
		if rest <= 0 {
			return w.Symbol
		}
		rest--
	}
	return gamemath.MissSymbol
}
