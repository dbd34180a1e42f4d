package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/gamemath"
	"github.com/romeopuiu/scratch-game/games/scratch"
)

type SimulateCmd struct {
	Config  string `arg:"" type:"existingfile" help:"Game config JSON file"`
	Bet     int    `default:"1" help:"Bet per play"`
	Rounds  int    `short:"n" default:"100000" help:"Number of plays"`
	Workers int    `short:"w" help:"Worker goroutines (default GOMAXPROCS)"`
	Seed    uint64 `help:"Seed for reproducible statistics (0 uses crypto/rand)"`
}

func (c *SimulateCmd) Run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(ctx, os.Stdout, log)
}

func (c *SimulateCmd) run(ctx context.Context, w io.Writer, log *zap.Logger) error {
	cfg, err := gamemath.Load(c.Config)
	if err != nil {
		return err
	}
	stats, err := scratch.Simulate(ctx, cfg, scratch.SimulationRequest{
		Bet:     c.Bet,
		Rounds:  c.Rounds,
		Workers: c.Workers,
		Seed:    c.Seed,
	}, log)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
