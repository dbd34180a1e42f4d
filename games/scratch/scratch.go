package scratch

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// ErrInvalidBet is returned for a bet that is not a positive integer or exceeds MaxBet.
var ErrInvalidBet = errors.New("bet amount must be positive")

// MaxBet is the largest accepted bet.
const MaxBet = 1_000_000

func checkBet(bet int) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet > MaxBet {
		return fmt.Errorf("%w: at most %d, got %d", ErrInvalidBet, MaxBet, bet)
	}
	return nil
}

// Outcome is the result of one play.
type Outcome struct {
	Matrix                     Matrix              `json:"matrix"`
	Reward                     int                 `json:"reward"`
	AppliedWinningCombinations map[string][]string `json:"applied_winning_combinations"`
	AppliedBonusSymbols        []string            `json:"applied_bonus_symbol"`
	Diagnostics                []string            `json:"diagnostics,omitempty"`
}

// Play generates a matrix from cfg and settles it for bet.
func Play(cfg *gamemath.Config, bet int, src Source, log *zap.Logger) (*Outcome, error) {
	if err := checkBet(bet); err != nil {
		return nil, err
	}
	m, err := GenerateMatrix(cfg, src)
	if err != nil {
		return nil, err
	}
	return Settle(cfg, bet, m, log)
}

// Settle evaluates an existing matrix. Replays and tests use it directly.
func Settle(cfg *gamemath.Config, bet int, m Matrix, log *zap.Logger) (*Outcome, error) {
	if err := checkBet(bet); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no game config", gamemath.ErrInvalidConfig)
	}
	applied, err := FindWinningCombinations(m, cfg)
	if err != nil {
		return nil, err
	}
	r := CalculateReward(applied, bet, m, cfg, log)
	return &Outcome{
		Matrix:                     m,
		Reward:                     r.Amount,
		AppliedWinningCombinations: applied,
		AppliedBonusSymbols:        r.BonusSymbols,
		Diagnostics:                r.Diagnostics,
	}, nil
}
