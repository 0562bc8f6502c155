package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadScenarioBuildsSteps(t *testing.T) {
	scenario, err := LoadScenarioFromFile(filepath.Join("testdata", "opening_tackle.lua"))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "opening_tackle" {
		t.Fatalf("name = %q, want opening_tackle", scenario.Name)
	}
	if scenario.Seed != 7 {
		t.Fatalf("seed = %d, want 7", scenario.Seed)
	}
	if len(scenario.Steps) != 12 {
		t.Fatalf("steps = %d, want 12", len(scenario.Steps))
	}

	side := scenario.Steps[0]
	if side.Kind != "side_a" {
		t.Fatalf("step kind = %q, want side_a", side.Kind)
	}
	if got := readStringSlice(side.Args, "creatures"); strings.Join(got, ",") != "pyrokit,aquaphin,thornback" {
		t.Fatalf("side_a creatures = %v", got)
	}

	turn := scenario.Steps[2]
	if turn.Kind != "turn" {
		t.Fatalf("step kind = %q, want turn", turn.Kind)
	}
	intents, err := readIntents(turn.Args, "a")
	if err != nil {
		t.Fatalf("read intents: %v", err)
	}
	if len(intents) != 1 || intents[0].Actor != 0 || intents[0].Move != 3 || len(intents[0].Targets) != 1 || intents[0].Targets[0] != 3 {
		t.Fatalf("intents = %+v", intents)
	}

	health := scenario.Steps[5]
	if health.Kind != "expect_health" || health.Args["slot"] != 3 || health.Args["health"] != 75 {
		t.Fatalf("expect_health step = %+v", health)
	}
}

func TestScenarioSeedAcceptsDecimalString(t *testing.T) {
	scenario, err := LoadScenarioFromFile(filepath.Join("testdata", "sweep.lua"))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Seed != ^uint64(0) {
		t.Fatalf("seed = %d, want max uint64", scenario.Seed)
	}
}

func TestScenarioNameDefaultsToFileName(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new()`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "scenario" {
		t.Fatalf("name = %q, want scenario", scenario.Name)
	}
	if scenario.Seed != 0 {
		t.Fatalf("seed = %d, want 0", scenario.Seed)
	}
}

func TestExpectEventCountDefaultsToOne(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("events")
scene:expect_event("healed")
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if len(scenario.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(scenario.Steps))
	}
	if scenario.Steps[0].Args["count"] != 1 {
		t.Fatalf("count = %v, want 1", scenario.Steps[0].Args["count"])
	}
}

func TestEmptyTurnHasNoIntents(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("idle")
scene:turn{a = {}, b = {}}
scene:turn()
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	for _, step := range scenario.Steps {
		for _, key := range []string{"a", "b"} {
			intents, err := readIntents(step.Args, key)
			if err != nil {
				t.Fatalf("read %s intents: %v", key, err)
			}
			if len(intents) != 0 {
				t.Fatalf("%s intents = %+v, want none", key, intents)
			}
		}
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{name: "no return", script: `local scene = Scenario.new("x")`, want: "must return Scenario"},
		{name: "wrong return", script: `return {}`, want: "must return Scenario"},
		{name: "negative seed", script: `return Scenario.new("x", -1)`, want: "run lua"},
		{name: "fractional seed", script: `return Scenario.new("x", 1.5)`, want: "run lua"},
		{name: "bad string seed", script: `return Scenario.new("x", "seven")`, want: "run lua"},
		{name: "side needs table", script: `local s = Scenario.new("x"); s:side_a("pyrokit"); return s`, want: "run lua"},
		{name: "health needs slot", script: `local s = Scenario.new("x"); s:expect_health(); return s`, want: "run lua"},
		{name: "syntax", script: `return Scenario.new(`, want: "load lua"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenarioFromFile(writeScenarioFixture(t, tt.script))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func writeScenarioFixture(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.lua")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write scenario fixture: %v", err)
	}
	return path
}
