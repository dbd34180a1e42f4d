package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	scratchgame "github.com/romeopuiu/scratch-game"
	"github.com/romeopuiu/scratch-game/config"
	"github.com/romeopuiu/scratch-game/gamemath"
	"github.com/romeopuiu/scratch-game/games/scratch"
	"github.com/romeopuiu/scratch-game/round"
)

type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	games   *gamemath.Store
	results *round.ResultsStore
	ledger  *round.Ledger // nil when no database is configured
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:     cfg,
		log:     log,
		games:   gamemath.NewStore(cfg.DataDir),
		results: round.NewResultsStore(cfg.DataDir),
	}
	srv.loadGames()
	srv.openLedger()
	return srv
}

// loadGames registers every config document found in GamesDir.
func (s *Server) loadGames() {
	if s.cfg.GamesDir == "" {
		return
	}
	n, err := s.games.LoadDir(s.cfg.GamesDir)
	if err != nil {
		s.log.Error("loading game configs", zap.String("dir", s.cfg.GamesDir), zap.Error(err))
	}
	s.log.Info("game configs loaded", zap.Int("count", n), zap.Strings("games", s.games.List()))
}

func (s *Server) openLedger() {
	db, err := scratchgame.GetDB(s.cfg.DatabaseURL)
	if err != nil {
		s.log.Warn("database unavailable, recording plays to JSON only", zap.Error(err))
		return
	}
	if db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ledger := round.NewLedger(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		s.log.Warn("creating play ledger schema", zap.Error(err))
		return
	}
	s.ledger = ledger
}

// Handler returns the routed and wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /scratch/games", s.handleGamesList)
	mux.HandleFunc("GET /scratch/games/{id}", s.handleGameGet)
	mux.HandleFunc("POST /scratch/games", s.handleGameRegister)
	mux.HandleFunc("POST /scratch/play", s.handlePlay)
	mux.HandleFunc("GET /scratch/plays/{id}", s.handlePlayGet)
	mux.HandleFunc("POST /scratch/simulate", s.handleSimulate)
	return cors(s.requestLogger(mux))
}

func (s *Server) Run() error {
	port := s.cfg.Port
	if port <= 0 {
		port = 8081
	}
	addr := ":" + strconv.Itoa(port)
	s.log.Info("scratch server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs method, path, status and latency for each request (no body or secrets).
func (s *Server) requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "scratch"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// scratch.Source for a request: seeded plays are reproducible.
func sourceFor(seed *uint64) scratch.Source {
	if seed != nil {
		return scratch.NewSeededSource(*seed)
	}
	return scratch.SecureSource
}
