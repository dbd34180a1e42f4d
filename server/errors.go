package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/romeopuiu/scratch-game/gamemath"
	"github.com/romeopuiu/scratch-game/games/scratch"
)

// APIError is the standard error response for the scratch APIs.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errMsg, codeStr string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(APIError{
		Error:   errMsg,
		Code:    codeStr,
		Message: errMsg,
	})
}

// writeGameError maps engine errors to a status: bad config is 422, bad input 400.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamemath.ErrInvalidConfig):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "CONFIG_ERROR")
	case errors.Is(err, gamemath.ErrGameIDRequired):
		writeError(w, http.StatusBadRequest, err.Error(), "GAME_ID_REQUIRED")
	case errors.Is(err, scratch.ErrInvalidBet):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_BET")
	case errors.Is(err, scratch.ErrInvalidRounds):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_ROUNDS")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "TECHNICAL_ERROR")
	}
}
