package scratch

import (
	"fmt"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// MinOccurrences is how often a symbol must appear before any combination is considered.
const MinOccurrences = 3

// CountSymbols returns how often each symbol occurs in m.
func CountSymbols(m Matrix) map[string]int {
	counts := make(map[string]int)
	for _, row := range m {
		for _, s := range row {
			counts[s]++
		}
	}
	return counts
}

// FindWinningCombinations maps every symbol occurring at least MinOccurrences
// times to the ids of the combinations it satisfies, in configuration order.
// A symbol that satisfies none maps to an empty list.
func FindWinningCombinations(m Matrix, cfg *gamemath.Config) (map[string][]string, error) {
	applied := make(map[string][]string)
	for symbol, count := range CountSymbols(m) {
		if count < MinOccurrences {
			continue
		}
		ids := []string{}
		for _, wc := range cfg.WinCombinations {
			if wc.Count > count {
				continue
			}
			ok, err := qualifies(m, wc, symbol)
			if err != nil {
				return nil, err
			}
			if ok {
				ids = append(ids, wc.ID)
			}
		}
		applied[symbol] = ids
	}
	return applied, nil
}

func qualifies(m Matrix, wc *gamemath.WinCombination, symbol string) (bool, error) {
	switch wc.When {
	case gamemath.TriggerSameSymbols:
		return symbol != gamemath.MissSymbol, nil
	case gamemath.TriggerLinearSymbols:
		for _, area := range wc.CoveredAreas {
			full, err := areaFilledWith(m, area, symbol)
			if err != nil {
				return false, fmt.Errorf("win combination %s: %w", wc.ID, err)
			}
			if full {
				return true, nil
			}
		}
		return false, nil
	default:
		return true, nil
	}
}

func areaFilledWith(m Matrix, area []gamemath.Cell, symbol string) (bool, error) {
	for _, c := range area {
		s, ok := m.At(c)
		if !ok {
			return false, fmt.Errorf("%w: cell %s outside the matrix", gamemath.ErrInvalidConfig, c)
		}
		if s != symbol {
			return false, nil
		}
	}
	return true, nil
}
