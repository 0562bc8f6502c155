// Package battle parses battle command flags and starts the battle service.
package battle

import (
	"context"
	"flag"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	server "github.com/louisbranch/skirmish/internal/services/battle/app"
)

// Config holds battle command configuration.
type Config struct {
	Port int    `env:"SKIRMISH_BATTLE_PORT" envDefault:"8090"`
	Addr string `env:"SKIRMISH_BATTLE_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The battle server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The battle server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the battle API service.
func Run(ctx context.Context, cfg Config) error {
	if _, err := catalog.Default(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBattle, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
