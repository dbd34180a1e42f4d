package main

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/gamemath"
	"github.com/romeopuiu/scratch-game/games/scratch"
)

// PlayCmd plays one card. Nothing is printed unless the play succeeds.
type PlayCmd struct {
	Config string  `arg:"" type:"existingfile" help:"Game config JSON file"`
	Bet    int     `arg:"" name:"betting-amount" help:"Bet, a positive integer"`
	Seed   *uint64 `help:"Seed for a reproducible matrix"`
}

func (c *PlayCmd) Run(log *zap.Logger) error {
	return c.run(os.Stdout, log)
}

func (c *PlayCmd) run(w io.Writer, log *zap.Logger) error {
	cfg, err := gamemath.Load(c.Config)
	if err != nil {
		return err
	}
	var src scratch.Source = scratch.SecureSource
	if c.Seed != nil {
		src = scratch.NewSeededSource(*c.Seed)
	}
	outcome, err := scratch.Play(cfg, c.Bet, src, log.With(zap.String("config", c.Config)))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
