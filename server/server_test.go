package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeopuiu/scratch-game/config"
	"github.com/romeopuiu/scratch-game/games/scratch"
	"github.com/romeopuiu/scratch-game/round"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		DataDir:             t.TempDir(),
		GamesDir:            filepath.Join("..", "configs"),
		DefaultGame:         "standard",
		MaxSimulationRounds: 5000,
	}
	return New(cfg, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"scratch"}`, rec.Body.String())
}

func TestGames(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/scratch/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]string](t, rec)
	assert.Contains(t, list["games"], "standard")

	rec = do(t, h, http.MethodGet, "/scratch/games/standard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]json.RawMessage](t, rec)
	assert.Contains(t, doc, "win_combinations")

	rec = do(t, h, http.MethodGet, "/scratch/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterGame(t *testing.T) {
	h := newTestServer(t)
	tiny := json.RawMessage(`{"rows": 1, "columns": 3, "symbols": {"A": {"reward_multiplier": 2}},
		"probabilities": {"standard_symbols": [{"column": 0, "row": 0, "symbols": {"A": 1}}]},
		"win_combinations": {"three": {"reward_multiplier": 1, "when": "same_symbols", "count": 3}}}`)

	rec := do(t, h, http.MethodPost, "/scratch/games", RegisterGameRequest{GameID: "tiny", Config: tiny})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// a 1x3 grid of A always wins bet × 2
	rec = do(t, h, http.MethodPost, "/scratch/play", PlayRequest{GameID: "tiny", Bet: 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	play := decode[PlayResponse](t, rec)
	assert.Equal(t, 20, play.Reward)
	assert.Equal(t, [][]string{{"A", "A", "A"}}, [][]string(play.Matrix))

	rec = do(t, h, http.MethodPost, "/scratch/games", RegisterGameRequest{GameID: "bad", Config: json.RawMessage(`{"symbols": {}}`)})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "CONFIG_ERROR", decode[APIError](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/scratch/games", RegisterGameRequest{Config: tiny})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/scratch/games", `{"gameId": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlay(t *testing.T) {
	h := newTestServer(t)
	seed := uint64(2024)

	rec := do(t, h, http.MethodPost, "/scratch/play", PlayRequest{Bet: 100, Seed: &seed})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[PlayResponse](t, rec)
	assert.NotEmpty(t, first.PlayID)
	assert.Equal(t, "standard", first.GameID)
	require.Len(t, first.Matrix, 3)

	// output keys follow the documented result shape
	raw := decode[map[string]json.RawMessage](t, rec)
	for _, key := range []string{"matrix", "reward", "applied_winning_combinations", "applied_bonus_symbol"} {
		assert.Contains(t, raw, key)
	}

	rec = do(t, h, http.MethodPost, "/scratch/play", PlayRequest{GameID: "standard", Bet: 100, Seed: &seed})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[PlayResponse](t, rec)
	assert.NotEqual(t, first.PlayID, second.PlayID)
	assert.Equal(t, first.Matrix, second.Matrix, "same seed, same matrix")
	assert.Equal(t, first.Reward, second.Reward)

	rec = do(t, h, http.MethodGet, "/scratch/plays/"+first.PlayID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[round.Result](t, rec)
	assert.Equal(t, first.Reward, stored.Reward)
	assert.Equal(t, 100, stored.Bet)
	require.NotNil(t, stored.Seed)
	assert.Equal(t, seed, *stored.Seed)

	rec = do(t, h, http.MethodGet, "/scratch/plays/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlay_BadRequests(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"zero bet", PlayRequest{Bet: 0}, http.StatusBadRequest},
		{"negative bet", PlayRequest{Bet: -1}, http.StatusBadRequest},
		{"huge bet", PlayRequest{Bet: scratch.MaxBet + 1}, http.StatusBadRequest},
		{"fractional bet", `{"bet": 1.5}`, http.StatusBadRequest},
		{"not json", `{`, http.StatusBadRequest},
		{"unknown game", PlayRequest{GameID: "nope", Bet: 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/scratch/play", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestSimulate(t *testing.T) {
	h := newTestServer(t)
	body := map[string]interface{}{"bet": 10, "rounds": 500, "workers": 2, "seed": 7}

	rec := do(t, h, http.MethodPost, "/scratch/simulate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[map[string]json.RawMessage](t, rec)
	assert.JSONEq(t, `500`, string(stats["rounds"]))
	assert.JSONEq(t, `"5000"`, string(stats["total_bet"]))
	assert.Contains(t, stats, "rtp")

	body["rounds"] = 6000
	rec = do(t, h, http.MethodPost, "/scratch/simulate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body["rounds"] = 0
	rec = do(t, h, http.MethodPost, "/scratch/simulate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ROUNDS", decode[APIError](t, rec).Code)

	body["rounds"] = 10
	body["bet"] = scratch.MaxBet + 1
	rec = do(t, h, http.MethodPost, "/scratch/simulate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BET", decode[APIError](t, rec).Code)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	h := newTestServer(t)
	body := `{"bet": 1, "gameId": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	for _, path := range []string{"/scratch/play", "/scratch/simulate", "/scratch/games"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, path, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPlaysSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataDir: dir, GamesDir: filepath.Join("..", "configs"), DefaultGame: "standard"}

	rec := do(t, New(cfg, nil).Handler(), http.MethodPost, "/scratch/play", PlayRequest{Bet: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	play := decode[PlayResponse](t, rec)

	_, err := os.Stat(filepath.Join(dir, "play_results.json"))
	require.NoError(t, err)

	rec = do(t, New(cfg, nil).Handler(), http.MethodGet, "/scratch/plays/"+play.PlayID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodOptions, "/scratch/play", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
