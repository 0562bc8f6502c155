package scenario

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	battlegrpc "github.com/louisbranch/skirmish/internal/services/battle/api/grpc/battle"
	"github.com/louisbranch/skirmish/internal/storage/sqlite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func newLocalRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	}
	runner, err := NewRunner(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	t.Cleanup(func() { _ = runner.Close() })
	return runner
}

func loadFixture(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenarioFromFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return scenario
}

func TestRunScenarioLocal(t *testing.T) {
	runner := newLocalRunner(t, DefaultConfig())
	if err := runner.RunScenario(context.Background(), loadFixture(t, "opening_tackle.lua")); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioWithCatalogFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CatalogPath = filepath.Join("testdata", "sweep_catalog.yaml")
	for _, name := range []string{"sweep.lua", "target_fainted.lua"} {
		t.Run(name, func(t *testing.T) {
			runner := newLocalRunner(t, cfg)
			if err := runner.RunScenario(context.Background(), loadFixture(t, name)); err != nil {
				t.Fatalf("run scenario: %v", err)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	if err := RunFile(context.Background(), cfg, filepath.Join("testdata", "opening_tackle.lua")); err != nil {
		t.Fatalf("run file: %v", err)
	}
}

func TestVerboseRunNarratesTurns(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Verbose = true
	cfg.Logger = log.New(&out, "", 0)
	runner := newLocalRunner(t, cfg)
	if err := runner.RunScenario(context.Background(), loadFixture(t, "opening_tackle.lua")); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	for _, want := range []string{"scenario start: opening_tackle", "  Turn 1", "  Pyrokit used Tackle.", "  Turn 2", "scenario done: opening_tackle"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("verbose output missing %q:\n%s", want, out.String())
		}
	}
}

func TestVerboseRunNarratesInLocale(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Verbose = true
	cfg.Locale = "pt-BR"
	cfg.Logger = log.New(&out, "", 0)
	runner := newLocalRunner(t, cfg)
	if err := runner.RunScenario(context.Background(), loadFixture(t, "opening_tackle.lua")); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if !strings.Contains(out.String(), "  Turno 1") || !strings.Contains(out.String(), "Pyrokit usou Tackle.") {
		t.Fatalf("expected Portuguese narration:\n%s", out.String())
	}
}

func TestStrictAssertionStopsScenario(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("wrong", 7)
scene:side_a{"pyrokit", "aquaphin", "thornback"}
scene:side_b{"voltmouse", "shellguard", "mossling"}
scene:expect_health(3, 1)
scene:expect_victory("bogus")
return scene
`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	runner := newLocalRunner(t, DefaultConfig())
	err = runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected assertion error")
	}
	if !strings.Contains(err.Error(), "step 3 (expect_health)") || !strings.Contains(err.Error(), "slot 3 health = 85, want 1") {
		t.Fatalf("error = %v", err)
	}
}

func TestLogOnlyAssertionsContinue(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("lenient", 7)
scene:side_a{"pyrokit", "aquaphin", "thornback"}
scene:side_b{"voltmouse", "shellguard", "mossling"}
scene:expect_health(3, 1)
scene:expect_energy("A", 99)
scene:expect_victory("none")
return scene
`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Assertions = AssertionLogOnly
	cfg.Logger = log.New(&out, "", 0)
	runner := newLocalRunner(t, cfg)

	err = runner.RunScenario(context.Background(), scenario)
	if !errors.Is(err, ErrAssertionsFailed) {
		t.Fatalf("error = %v, want ErrAssertionsFailed", err)
	}
	if runner.assertions.Failures() != 2 {
		t.Fatalf("failures = %d, want 2", runner.assertions.Failures())
	}
	if !strings.Contains(out.String(), "assertion failed: side A energy = 0, want 99") {
		t.Fatalf("log output = %q", out.String())
	}
}

func TestMalformedStepsFailInEveryMode(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		want  string
	}{
		{
			name:  "unknown kind",
			steps: []Step{{Kind: "teleport"}},
			want:  `unknown step kind "teleport"`,
		},
		{
			name:  "turn before rosters",
			steps: []Step{{Kind: "turn", Args: map[string]any{}}},
			want:  "both sides must be declared",
		},
		{
			name:  "event before turn",
			steps: []Step{{Kind: "expect_event", Args: map[string]any{"kind": "healed"}}},
			want:  "needs a resolved turn",
		},
		{
			name: "bad side",
			steps: []Step{
				{Kind: "expect_energy", Args: map[string]any{"side": "C", "total": 1}},
			},
			want: `unknown side "C"`,
		},
		{
			name: "bad slot",
			steps: []Step{
				{Kind: "expect_health", Args: map[string]any{"slot": 6, "health": 1}},
			},
			want: "slot must be 0-5",
		},
		{
			name: "roster after start",
			steps: []Step{
				{Kind: "side_a", Args: map[string]any{"creatures": []any{"pyrokit", "aquaphin", "thornback"}}},
				{Kind: "side_b", Args: map[string]any{"creatures": []any{"voltmouse", "shellguard", "mossling"}}},
				{Kind: "turn", Args: map[string]any{}},
				{Kind: "side_a", Args: map[string]any{"creatures": []any{"pyrokit"}}},
			},
			want: "fixed once the battle starts",
		},
		{
			name: "malformed intent",
			steps: []Step{
				{Kind: "side_a", Args: map[string]any{"creatures": []any{"pyrokit", "aquaphin", "thornback"}}},
				{Kind: "side_b", Args: map[string]any{"creatures": []any{"voltmouse", "shellguard", "mossling"}}},
				{Kind: "turn", Args: map[string]any{"a": []any{map[string]any{"move": 3}}}},
			},
			want: "intent 1 actor is required",
		},
		{
			name: "unknown creature",
			steps: []Step{
				{Kind: "side_a", Args: map[string]any{"creatures": []any{"ghost", "aquaphin", "thornback"}}},
				{Kind: "side_b", Args: map[string]any{"creatures": []any{"voltmouse", "shellguard", "mossling"}}},
				{Kind: "turn", Args: map[string]any{}},
			},
			want: "side A",
		},
		{
			name: "engine contract violation",
			steps: []Step{
				{Kind: "side_a", Args: map[string]any{"creatures": []any{"pyrokit", "aquaphin", "thornback"}}},
				{Kind: "side_b", Args: map[string]any{"creatures": []any{"voltmouse", "shellguard", "mossling"}}},
				{Kind: "turn", Args: map[string]any{"a": []any{map[string]any{"actor": 3, "move": 0}}}},
			},
			want: engine.ErrWrongSide.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Assertions = AssertionLogOnly
			runner := newLocalRunner(t, cfg)
			err := runner.RunScenario(context.Background(), &Scenario{Name: tt.name, Steps: tt.steps})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRunScenarioRequiresScenario(t *testing.T) {
	runner := newLocalRunner(t, DefaultConfig())
	if err := runner.RunScenario(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil scenario")
	}
}

// blockingDriver holds every call until the step context ends.
type blockingDriver struct{}

func (blockingDriver) start(ctx context.Context, _, _ []string, _ uint64) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingDriver) turn(ctx context.Context, _, _ []engine.Intent) (turnResult, error) {
	<-ctx.Done()
	return turnResult{}, ctx.Err()
}

func (blockingDriver) snapshot(ctx context.Context) (snapshot, error) {
	<-ctx.Done()
	return snapshot{}, ctx.Err()
}

func (blockingDriver) close() error { return nil }

func TestStepTimeoutCancelsStep(t *testing.T) {
	runner, err := newRunnerWithDeps(Config{Timeout: 20 * time.Millisecond}, runnerDeps{driver: blockingDriver{}})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	err = runner.RunScenario(context.Background(), loadFixture(t, "opening_tackle.lua"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if !strings.Contains(err.Error(), "step 3 (turn)") {
		t.Fatalf("error = %v, want failure on the first turn", err)
	}
}

func TestNewRunnerWithDepsDefaults(t *testing.T) {
	if _, err := newRunnerWithDeps(Config{}, runnerDeps{}); err == nil {
		t.Fatal("expected error without a driver")
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	runner, err := newRunnerWithDeps(Config{}, runnerDeps{driver: &localDriver{catalog: cat}})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if runner.timeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", runner.timeout)
	}
	if runner.logger == nil {
		t.Fatal("expected default logger")
	}
}

func TestNewRunnerRejectsBadCatalog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewRunner(context.Background(), cfg); err == nil {
		t.Fatal("expected catalog error")
	}
}

func TestRunScenarioRemote(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "battles.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	battlegrpc.RegisterBattleServiceServer(server, battlegrpc.NewService(store, cat))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var out bytes.Buffer
	driver := &remoteDriver{client: battlegrpc.NewClient(conn), locale: "en-US"}
	runner, err := newRunnerWithDeps(Config{Verbose: true, Logger: log.New(&out, "", 0)}, runnerDeps{driver: driver})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.RunScenario(context.Background(), loadFixture(t, "opening_tackle.lua")); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if driver.battleID == "" {
		t.Fatal("expected a battle to be created")
	}
	if !strings.Contains(out.String(), "Pyrokit used Tackle.") {
		t.Fatalf("expected server narration:\n%s", out.String())
	}
}
