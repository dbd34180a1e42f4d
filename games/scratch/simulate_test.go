package scratch

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_SeededIsReproducible(t *testing.T) {
	cfg := loadStandard(t)
	req := SimulationRequest{Bet: 10, Rounds: 2000, Workers: 4, Seed: 99}

	a, err := Simulate(context.Background(), cfg, req, nil)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), cfg, req, nil)
	require.NoError(t, err)

	assert.Equal(t, a.TotalWin.String(), b.TotalWin.String())
	assert.Equal(t, a.CombinationHits, b.CombinationHits)
	assert.Equal(t, a.BonusHits, b.BonusHits)
	assert.Equal(t, a.MaxReward, b.MaxReward)

	assert.Equal(t, 2000, a.Rounds)
	assert.True(t, decimal.NewFromInt(20000).Equal(a.TotalBet))
	assert.LessOrEqual(t, a.Wins, a.Rounds)
	assert.True(t, a.HitRate.LessThanOrEqual(decimal.NewFromInt(1)))
	if a.Wins == 0 {
		assert.True(t, a.TotalWin.IsZero())
	}
}

func TestSimulate_MoreWorkersThanRounds(t *testing.T) {
	cfg := loadStandard(t)
	stats, err := Simulate(context.Background(), cfg, SimulationRequest{Bet: 1, Rounds: 3, Workers: 16}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rounds)
}

func TestSimulate_InvalidRequest(t *testing.T) {
	cfg := loadStandard(t)
	_, err := Simulate(context.Background(), cfg, SimulationRequest{Bet: 0, Rounds: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidBet)
	_, err = Simulate(context.Background(), cfg, SimulationRequest{Bet: 1, Rounds: 0}, nil)
	assert.ErrorIs(t, err, ErrInvalidRounds)
}

func TestSimulate_Cancelled(t *testing.T) {
	cfg := loadStandard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, cfg, SimulationRequest{Bet: 1, Rounds: 10_000, Workers: 2}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
