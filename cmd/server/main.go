package main

import (
	"log"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/config"
	"github.com/romeopuiu/scratch-game/logger"
	"github.com/romeopuiu/scratch-game/server"
)

type CLI struct {
	Config string `short:"c" type:"path" help:"Service config file (default scratch.yaml in ./config or .)"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("scratch-server"),
		kong.Description("HTTP service for the grid scratch card game"),
		kong.UsageOnError(),
	)

	// Load .env so DATABASE_URL is set: cwd .env, or project root .env/.env.local
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../.env.local")

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	srv := server.New(cfg, logger.L())
	if err := srv.Run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
