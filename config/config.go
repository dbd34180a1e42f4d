package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        int    `mapstructure:"port"`
	DataDir     string `mapstructure:"data_dir"`
	GamesDir    string `mapstructure:"games_dir"` // game config documents loaded at startup
	DefaultGame string `mapstructure:"default_game"`
	DatabaseURL string `mapstructure:"database_url"`
	// MaxSimulationRounds caps POST /scratch/simulate.
	MaxSimulationRounds int       `mapstructure:"max_simulation_rounds"`
	Log                 LogConfig `mapstructure:"log"`
}

// LogConfig selects encoding, level and sinks for the logger package.
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"` // json or console
	Output string        `mapstructure:"output"` // stdout, stderr, file or both
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxAge     int    `mapstructure:"max_age"`  // days
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads path (or scratch.yaml from ./config or . when path is empty),
// then SCRATCH_* environment variables. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scratch")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCRATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Prefer PORT (Render, Fly.io, Railway, etc.) then SCRATCH_PORT
	_ = v.BindEnv("port", "PORT", "SCRATCH_PORT")
	_ = v.BindEnv("database_url", "DATABASE_URL", "SCRATCH_DATABASE_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 {
		cfg.Port = 8081
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8081)
	v.SetDefault("data_dir", "data")
	v.SetDefault("games_dir", "configs")
	v.SetDefault("default_game", "standard")
	v.SetDefault("database_url", "")
	v.SetDefault("max_simulation_rounds", 1_000_000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "scratch.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)
}
