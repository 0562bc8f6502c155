package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/battle/narrate"
	platformgrpc "github.com/louisbranch/skirmish/internal/platform/grpc"
	battlegrpc "github.com/louisbranch/skirmish/internal/services/battle/api/grpc/battle"
	"google.golang.org/grpc"
)

// Config controls scenario execution.
type Config struct {
	// GRPCAddr runs scenarios against a battle server. Empty resolves turns
	// in process.
	GRPCAddr string
	// CatalogPath replaces the embedded catalog for in-process runs.
	CatalogPath string
	Locale      string
	Timeout     time.Duration
	Assertions  AssertionMode
	Verbose     bool
	Logger      *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Locale:     "en-US",
		Timeout:    10 * time.Second,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua battle scenarios.
type Runner struct {
	conn       *grpc.ClientConn
	driver     battleDriver
	assertions *Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner prepares a runner backed by the in-process engine, or by the
// battle service when cfg.GRPCAddr is set.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.GRPCAddr != "" {
		conn, err := platformgrpc.Dial(ctx, platformgrpc.DialConfig{
			Addr:    cfg.GRPCAddr,
			Service: battlegrpc.ServiceName,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("dial battle service: %w", err)
		}
		driver := &remoteDriver{client: battlegrpc.NewClient(conn), locale: cfg.Locale}
		r, err := newRunnerWithDeps(cfg, runnerDeps{driver: driver})
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		r.conn = conn
		return r, nil
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	narrator, err := narrate.New(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return newRunnerWithDeps(cfg, runnerDeps{driver: newLocalDriver(cat, narrator)})
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// newRunnerWithDeps builds a Runner from pre-built dependencies.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	if deps.driver == nil {
		return nil, errors.New("battle driver is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Runner{
		driver:     deps.driver,
		assertions: &Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	err := r.driver.close()
	if r.conn != nil {
		return errors.Join(err, r.conn.Close())
	}
	return err
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order. A runner drives one
// battle; use a fresh runner per scenario.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps, seed %d)", scenario.Name, len(scenario.Steps), scenario.Seed)
	state := &scenarioState{}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, scenario, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if failures := r.assertions.Failures(); failures > 0 {
		return fmt.Errorf("%s: %w (%d)", scenario.Name, ErrAssertionsFailed, failures)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
