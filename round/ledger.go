package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
)

// Ledger records plays in Postgres.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS scratch_plays (
	play_id      TEXT PRIMARY KEY,
	game_id      TEXT NOT NULL,
	bet          BIGINT NOT NULL,
	reward       BIGINT NOT NULL,
	matrix       JSONB NOT NULL,
	applied_winning_combinations JSONB NOT NULL,
	applied_bonus_symbol         JSONB NOT NULL,
	seed         NUMERIC(20, 0),
	played_at    TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the plays table if it does not exist.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, schema)
	return err
}

// Append inserts r. Recording the same play id twice is a no-op.
func (l *Ledger) Append(ctx context.Context, r *Result) error {
	matrix, err := json.Marshal(r.Matrix)
	if err != nil {
		return err
	}
	combos, err := json.Marshal(r.AppliedWinningCombinations)
	if err != nil {
		return err
	}
	bonus, err := json.Marshal(r.AppliedBonusSymbols)
	if err != nil {
		return err
	}
	// seeds overflow BIGINT, so they are stored as NUMERIC
	var seed sql.NullString
	if r.Seed != nil {
		seed = sql.NullString{String: strconv.FormatUint(*r.Seed, 10), Valid: true}
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO scratch_plays (play_id, game_id, bet, reward, matrix, applied_winning_combinations, applied_bonus_symbol, seed, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (play_id) DO NOTHING`,
		r.PlayID, r.GameID, r.Bet, r.Reward, string(matrix), string(combos), string(bonus), seed, r.PlayedAt)
	return err
}

// GetByPlayID returns the recorded play, or nil if there is none.
func (l *Ledger) GetByPlayID(ctx context.Context, playID string) (*Result, error) {
	var (
		r                     Result
		matrix, combos, bonus []byte
		seed                  sql.NullString
	)
	err := l.db.QueryRowContext(ctx, `
		SELECT play_id, game_id, bet, reward, matrix, applied_winning_combinations, applied_bonus_symbol, seed::text, played_at
		FROM scratch_plays WHERE play_id = $1`, playID).
		Scan(&r.PlayID, &r.GameID, &r.Bet, &r.Reward, &matrix, &combos, &bonus, &seed, &r.PlayedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(matrix, &r.Matrix); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(combos, &r.AppliedWinningCombinations); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bonus, &r.AppliedBonusSymbols); err != nil {
		return nil, err
	}
	if seed.Valid {
		v, err := strconv.ParseUint(seed.String, 10, 64)
		if err != nil {
			return nil, err
		}
		r.Seed = &v
	}
	return &r, nil
}
