package scratch

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// LookupError reports an identifier missing from the config during reward calculation.
// It is not fatal: the offending entry is skipped.
type LookupError struct {
	Kind string // "symbol" or "win combination"
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found in game config", e.Kind, e.ID)
}

// Reward is the outcome of the reward calculation.
type Reward struct {
	Amount       int
	BonusSymbols []string
	Diagnostics  []string
}

// CalculateReward applies the standard pass (win combinations) and then the
// bonus pass (matrix scan) for the given bet. log may be nil.
func CalculateReward(applied map[string][]string, bet int, m Matrix, cfg *gamemath.Config, log *zap.Logger) Reward {
	if log == nil {
		log = zap.NewNop()
	}
	var out Reward
	reported := make(map[string]bool)
	lookupFailed := func(err *LookupError) {
		key := err.Kind + "/" + err.ID
		if reported[key] {
			return
		}
		reported[key] = true
		log.Warn("skipping unknown config entry", zap.String("kind", err.Kind), zap.String("id", err.ID))
		out.Diagnostics = append(out.Diagnostics, err.Error())
	}

	out.Amount = truncate(standardReward(applied, bet, cfg, lookupFailed))
	out.Amount, out.BonusSymbols = applyBonus(out.Amount, m, cfg, lookupFailed)
	if out.BonusSymbols == nil {
		out.BonusSymbols = []string{}
	}
	return out
}

// standardReward sums bet × symbol multiplier × product of combination multipliers
// over every winning symbol. Symbols are visited in sorted order so the float sum is stable.
func standardReward(applied map[string][]string, bet int, cfg *gamemath.Config, lookupFailed func(*LookupError)) float64 {
	symbols := make([]string, 0, len(applied))
	for s := range applied {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var total float64
	for _, id := range symbols {
		sym, ok := cfg.Symbol(id)
		if !ok {
			// MISS pays nothing whether or not the config lists it
			if id != gamemath.MissSymbol {
				lookupFailed(&LookupError{Kind: "symbol", ID: id})
			}
			continue
		}
		base := float64(bet) * sym.RewardMultiplier
		var reward float64
		pos := 0
		for _, wcID := range applied[id] {
			wc, ok := cfg.WinCombination(wcID)
			if !ok {
				lookupFailed(&LookupError{Kind: "win combination", ID: wcID})
				continue
			}
			pos++
			if pos == 1 {
				reward = base * wc.RewardMultiplier
			} else {
				reward *= wc.RewardMultiplier
			}
		}
		total += reward
	}
	return total
}

// applyBonus walks m row by row. Every bonus symbol is reported; multiply and
// add markers change a non-zero reward.
func applyBonus(reward int, m Matrix, cfg *gamemath.Config, lookupFailed func(*LookupError)) (int, []string) {
	var bonus []string
	for _, row := range m {
		for _, id := range row {
			if id == gamemath.MissSymbol {
				continue
			}
			sym, ok := cfg.Symbol(id)
			if !ok {
				lookupFailed(&LookupError{Kind: "symbol", ID: id})
				continue
			}
			if sym.Kind == gamemath.KindBonus {
				bonus = append(bonus, id)
			}
			if reward == 0 {
				continue
			}
			switch sym.Bonus {
			case gamemath.BonusMultiply:
				reward = truncate(float64(reward) * sym.RewardMultiplier)
			case gamemath.BonusAdd:
				if sym.Extra > 0 && reward > math.MaxInt-sym.Extra {
					reward = math.MaxInt
				} else {
					reward += sym.Extra
				}
			}
		}
	}
	return reward, bonus
}

// truncate drops the fraction of f, saturating at the int range.
func truncate(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}
