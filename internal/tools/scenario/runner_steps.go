package scenario

import (
	"context"
	"strings"

	"github.com/louisbranch/skirmish/internal/battle/engine"
)

func (r *Runner) runStep(ctx context.Context, scenario *Scenario, state *scenarioState, step Step) error {
	switch step.Kind {
	case "side_a":
		return r.runSideStep(state, engine.SideA, step)
	case "side_b":
		return r.runSideStep(state, engine.SideB, step)
	case "turn":
		return r.runTurnStep(ctx, scenario, state, step)
	case "expect_health":
		return r.runExpectHealthStep(ctx, scenario, state, step)
	case "expect_victory":
		return r.runExpectVictoryStep(ctx, scenario, state, step)
	case "expect_event":
		return r.runExpectEventStep(state, step)
	case "expect_energy":
		return r.runExpectEnergyStep(ctx, scenario, state, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runSideStep(state *scenarioState, side engine.Side, step Step) error {
	if state.started {
		return r.failf("side %s roster is fixed once the battle starts", side)
	}
	creatures := readStringSlice(step.Args, "creatures")
	if len(creatures) == 0 {
		return r.failf("side %s roster is empty", side)
	}
	if side == engine.SideA {
		state.sideA = creatures
	} else {
		state.sideB = creatures
	}
	return nil
}

func (r *Runner) runTurnStep(ctx context.Context, scenario *Scenario, state *scenarioState, step Step) error {
	if err := r.ensureStarted(ctx, scenario, state); err != nil {
		return err
	}
	intentsA, err := readIntents(step.Args, "a")
	if err != nil {
		return r.failf("side A intents: %v", err)
	}
	intentsB, err := readIntents(step.Args, "b")
	if err != nil {
		return r.failf("side B intents: %v", err)
	}

	result, err := r.driver.turn(ctx, intentsA, intentsB)
	if err != nil {
		return err
	}
	state.turns++
	state.lastEvents = result.Events
	for _, line := range result.Narration {
		r.logf("  %s", line)
	}
	return nil
}

func (r *Runner) runExpectHealthStep(ctx context.Context, scenario *Scenario, state *scenarioState, step Step) error {
	slot, ok := readInt(step.Args, "slot")
	if !ok || slot < 0 || slot >= engine.SlotCount {
		return r.failf("expect_health slot must be 0-%d", engine.SlotCount-1)
	}
	want, ok := readInt(step.Args, "health")
	if !ok {
		return r.failf("expect_health health is required")
	}
	snap, err := r.currentSnapshot(ctx, scenario, state)
	if err != nil {
		return err
	}
	if got := snap.Health[slot]; got != want {
		return r.assertf("slot %d health = %d, want %d", slot, got, want)
	}
	return nil
}

func (r *Runner) runExpectVictoryStep(ctx context.Context, scenario *Scenario, state *scenarioState, step Step) error {
	want, err := parseVictory(requiredString(step.Args, "victory"))
	if err != nil {
		return r.failf("%v", err)
	}
	snap, err := r.currentSnapshot(ctx, scenario, state)
	if err != nil {
		return err
	}
	if snap.Victory != want {
		return r.assertf("victory = %s, want %s", snap.Victory, want)
	}
	return nil
}

// runExpectEventStep counts events of one kind in the most recent turn.
func (r *Runner) runExpectEventStep(state *scenarioState, step Step) error {
	kind := strings.TrimSpace(requiredString(step.Args, "kind"))
	if kind == "" {
		return r.failf("expect_event kind is required")
	}
	if state.turns == 0 {
		return r.failf("expect_event needs a resolved turn")
	}
	want := optionalInt(step.Args, "count", 1)
	got := 0
	for _, ev := range state.lastEvents {
		if string(ev.Kind) == kind {
			got++
		}
	}
	if got != want {
		return r.assertf("turn %d %s events = %d, want %d", state.turns, kind, got, want)
	}
	return nil
}

func (r *Runner) runExpectEnergyStep(ctx context.Context, scenario *Scenario, state *scenarioState, step Step) error {
	side, err := parseSide(requiredString(step.Args, "side"))
	if err != nil {
		return r.failf("%v", err)
	}
	want, ok := readInt(step.Args, "total")
	if !ok {
		return r.failf("expect_energy total is required")
	}
	snap, err := r.currentSnapshot(ctx, scenario, state)
	if err != nil {
		return err
	}
	if got := snap.Energy[side]; got != want {
		return r.assertf("side %s energy = %d, want %d", side, got, want)
	}
	return nil
}
