package scratch

import (
	"context"
	"errors"
	"runtime"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// ErrInvalidRounds is returned when a simulation asks for no rounds.
var ErrInvalidRounds = errors.New("rounds must be positive")

// SimulationRequest describes a batch of independent plays.
// A zero Seed uses SecureSource; otherwise worker i draws from stream (Seed, i)
// and the same request always yields the same stats.
type SimulationRequest struct {
	Bet     int    `json:"bet"`
	Rounds  int    `json:"rounds"`
	Workers int    `json:"workers,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`
}

// SimulationStats aggregates a simulation run.
type SimulationStats struct {
	Rounds          int             `json:"rounds"`
	Bet             int             `json:"bet"`
	TotalBet        decimal.Decimal `json:"total_bet"`
	TotalWin        decimal.Decimal `json:"total_win"`
	RTP             decimal.Decimal `json:"rtp"`
	HitRate         decimal.Decimal `json:"hit_rate"`
	Wins            int             `json:"wins"`
	MaxReward       int             `json:"max_reward"`
	CombinationHits map[string]int  `json:"combination_hits"`
	BonusHits       map[string]int  `json:"bonus_hits"`
}

type tally struct {
	wins      int
	totalWin  int64
	maxReward int
	combos    map[string]int
	bonus     map[string]int
}

func (t *tally) add(o *Outcome) {
	if o.Reward > 0 {
		t.wins++
	}
	t.totalWin += int64(o.Reward)
	if o.Reward > t.maxReward {
		t.maxReward = o.Reward
	}
	for _, ids := range o.AppliedWinningCombinations {
		for _, id := range ids {
			t.combos[id]++
		}
	}
	for _, id := range o.AppliedBonusSymbols {
		t.bonus[id]++
	}
}

const cancelCheckEvery = 1024

// Simulate runs req.Rounds plays of cfg on a pool of workers and aggregates the outcomes.
func Simulate(ctx context.Context, cfg *gamemath.Config, req SimulationRequest, log *zap.Logger) (*SimulationStats, error) {
	if err := checkBet(req.Bet); err != nil {
		return nil, err
	}
	if req.Rounds <= 0 {
		return nil, ErrInvalidRounds
	}
	if log == nil {
		log = zap.NewNop()
	}
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > req.Rounds {
		workers = req.Rounds
	}

	tallies := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := req.Rounds / workers
		if w < req.Rounds%workers {
			n++
		}
		t := &tallies[w]
		t.combos = make(map[string]int)
		t.bonus = make(map[string]int)
		var src Source = SecureSource
		if req.Seed != 0 {
			src = newStream(req.Seed, uint64(w))
		}
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if i%cancelCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				o, err := Play(cfg, req.Bet, src, log)
				if err != nil {
					return err
				}
				t.add(o)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &SimulationStats{
		Rounds:          req.Rounds,
		Bet:             req.Bet,
		CombinationHits: make(map[string]int),
		BonusHits:       make(map[string]int),
	}
	var totalWin int64
	for _, t := range tallies {
		stats.Wins += t.wins
		totalWin += t.totalWin
		if t.maxReward > stats.MaxReward {
			stats.MaxReward = t.maxReward
		}
		for id, n := range t.combos {
			stats.CombinationHits[id] += n
		}
		for id, n := range t.bonus {
			stats.BonusHits[id] += n
		}
	}
	rounds := decimal.NewFromInt(int64(req.Rounds))
	stats.TotalBet = decimal.NewFromInt(int64(req.Bet)).Mul(rounds)
	stats.TotalWin = decimal.NewFromInt(totalWin)
	stats.RTP = stats.TotalWin.DivRound(stats.TotalBet, 6)
	stats.HitRate = decimal.NewFromInt(int64(stats.Wins)).DivRound(rounds, 6)

	log.Info("simulation finished",
		zap.Int("rounds", req.Rounds),
		zap.Int("workers", workers),
		zap.String("rtp", stats.RTP.String()),
		zap.String("hit_rate", stats.HitRate.String()),
	)
	return stats, nil
}
