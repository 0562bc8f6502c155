// Package scenario parses scenario command flags and runs Lua battle
// scripts.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	"github.com/louisbranch/skirmish/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	GRPCAddr    string        `env:"SKIRMISH_SCENARIO_GRPC_ADDR"`
	CatalogPath string        `env:"SKIRMISH_CATALOG_PATH"`
	Locale      string        `env:"SKIRMISH_SCENARIO_LOCALE"   envDefault:"en-US"`
	Scenarios   []string      `env:"SKIRMISH_SCENARIO_FILE"`
	Assertions  bool          `env:"SKIRMISH_SCENARIO_ASSERT"   envDefault:"true"`
	Verbose     bool          `env:"SKIRMISH_SCENARIO_VERBOSE"`
	Timeout     time.Duration `env:"SKIRMISH_SCENARIO_TIMEOUT"  envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config. Positional
// arguments are extra scenario files.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	var file string
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "battle server address (empty runs in process)")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "creature catalog file for in-process runs")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "narration locale")
	fs.StringVar(&file, "scenario", "", "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if file != "" {
		cfg.Scenarios = append([]string{file}, cfg.Scenarios...)
	}
	cfg.Scenarios = append(cfg.Scenarios, fs.Args()...)
	return cfg, nil
}

// Run executes every configured scenario and reports all failures.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if len(cfg.Scenarios) == 0 {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	runCfg := scenario.Config{
		GRPCAddr:    cfg.GRPCAddr,
		CatalogPath: cfg.CatalogPath,
		Locale:      cfg.Locale,
		Timeout:     cfg.Timeout,
		Assertions:  mode,
		Verbose:     cfg.Verbose,
		Logger:      logger,
	}

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceScenario, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		var errs []error
		for _, path := range cfg.Scenarios {
			if err := scenario.RunFile(ctx, runCfg, path); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				fmt.Fprintf(out, "FAIL %s\n", path)
				continue
			}
			fmt.Fprintf(out, "ok   %s\n", path)
		}
		return errors.Join(errs...)
	})
}
