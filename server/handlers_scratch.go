package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/games/scratch"
	"github.com/romeopuiu/scratch-game/round"
)

const maxBodyBytes = 1 << 20

// PlayRequest is the body of POST /scratch/play. An empty gameId plays the default game.
type PlayRequest struct {
	GameID string  `json:"gameId"`
	Bet    int     `json:"bet"`
	Seed   *uint64 `json:"seed,omitempty"`
}

type PlayResponse struct {
	PlayID string `json:"playId"`
	GameID string `json:"gameId"`
	*scratch.Outcome
}

type RegisterGameRequest struct {
	GameID string          `json:"gameId"`
	Config json.RawMessage `json:"config"`
}

type SimulateRequest struct {
	GameID string `json:"gameId"`
	scratch.SimulationRequest
}

func (s *Server) gameID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.cfg.DefaultGame
	}
	return id
}

func (s *Server) handleGamesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": s.games.List()})
}

func (s *Server) handleGameGet(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.games.Raw(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

// handleGameRegister stores a game config (POST /scratch/games). Invalid documents are rejected with 422.
func (s *Server) handleGameRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterGameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if len(req.Config) == 0 {
		writeError(w, http.StatusBadRequest, "config required", "INVALID_BODY")
		return
	}
	cfg, err := s.games.Register(req.GameID, req.Config)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.log.Info("game config registered",
		zap.String("game_id", strings.TrimSpace(req.GameID)),
		zap.Int("rows", cfg.Rows),
		zap.Int("columns", cfg.Columns),
	)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"gameId":  strings.TrimSpace(req.GameID),
		"message": "game config registered",
	})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if req.Bet <= 0 || req.Bet > scratch.MaxBet {
		writeError(w, http.StatusBadRequest, "bet must be between 1 and "+strconv.Itoa(scratch.MaxBet), "INVALID_BET")
		return
	}
	gameID := s.gameID(req.GameID)
	cfg := s.games.Get(gameID)
	if cfg == nil {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}

	playID := uuid.New().String()
	log := s.log.With(zap.String("play_id", playID), zap.String("game_id", gameID))
	outcome, err := scratch.Play(cfg, req.Bet, sourceFor(req.Seed), log)
	if err != nil {
		log.Error("play failed", zap.Error(err))
		writeGameError(w, err)
		return
	}

	result := &round.Result{
		PlayID:                     playID,
		GameID:                     gameID,
		Bet:                        req.Bet,
		Reward:                     outcome.Reward,
		Matrix:                     outcome.Matrix,
		AppliedWinningCombinations: outcome.AppliedWinningCombinations,
		AppliedBonusSymbols:        outcome.AppliedBonusSymbols,
		Seed:                       req.Seed,
		PlayedAt:                   time.Now().UTC(),
	}
	if err := s.record(r, result); err != nil {
		log.Error("recording play", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record play", "TECHNICAL_ERROR")
		return
	}
	log.Info("play settled", zap.Int("bet", req.Bet), zap.Int("reward", outcome.Reward))
	writeJSON(w, http.StatusOK, PlayResponse{PlayID: playID, GameID: gameID, Outcome: outcome})
}

func (s *Server) record(r *http.Request, result *round.Result) error {
	if err := s.results.Append(result); err != nil {
		return err
	}
	if s.ledger != nil {
		return s.ledger.Append(r.Context(), result)
	}
	return nil
}

func (s *Server) handlePlayGet(w http.ResponseWriter, r *http.Request) {
	playID := r.PathValue("id")
	var (
		result *round.Result
		err    error
	)
	if s.ledger != nil {
		result, err = s.ledger.GetByPlayID(r.Context(), playID)
	} else {
		result, err = s.results.GetByPlayID(playID)
	}
	if err != nil {
		s.log.Error("loading play", zap.String("play_id", playID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load play", "TECHNICAL_ERROR")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "play not found", "PLAY_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if s.cfg.MaxSimulationRounds > 0 && req.Rounds > s.cfg.MaxSimulationRounds {
		writeError(w, http.StatusBadRequest, "rounds exceeds maximum", "INVALID_ROUNDS")
		return
	}
	gameID := s.gameID(req.GameID)
	cfg := s.games.Get(gameID)
	if cfg == nil {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}
	stats, err := scratch.Simulate(r.Context(), cfg, req.SimulationRequest, s.log.With(zap.String("game_id", gameID)))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
