package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/skirmish/internal/battle/engine"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

// ensureStarted creates the battle on the first step that needs one.
func (r *Runner) ensureStarted(ctx context.Context, scenario *Scenario, state *scenarioState) error {
	if state.started {
		return nil
	}
	if len(state.sideA) == 0 || len(state.sideB) == 0 {
		return r.failf("both sides must be declared before the battle starts")
	}
	if err := r.driver.start(ctx, state.sideA, state.sideB, scenario.Seed); err != nil {
		return err
	}
	state.started = true
	r.logf("battle start: %s vs %s", strings.Join(state.sideA, ","), strings.Join(state.sideB, ","))
	return nil
}

func (r *Runner) currentSnapshot(ctx context.Context, scenario *Scenario, state *scenarioState) (snapshot, error) {
	if err := r.ensureStarted(ctx, scenario, state); err != nil {
		return snapshot{}, err
	}
	return r.driver.snapshot(ctx)
}

// readIntents decodes a list of {actor, move, targets} tables.
func readIntents(args map[string]any, key string) ([]engine.Intent, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		if m, isMap := value.(map[string]any); isMap && len(m) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%s must be a list of intents", key)
	}
	intents := make([]engine.Intent, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("intent %d must be a table", i+1)
		}
		actor, ok := readInt(entry, "actor")
		if !ok {
			return nil, fmt.Errorf("intent %d actor is required", i+1)
		}
		moveIndex, ok := readInt(entry, "move")
		if !ok {
			return nil, fmt.Errorf("intent %d move is required", i+1)
		}
		targets, err := readIntSlice(entry, "targets")
		if err != nil {
			return nil, fmt.Errorf("intent %d: %w", i+1, err)
		}
		intents = append(intents, engine.Intent{Actor: actor, Move: moveIndex, Targets: targets})
	}
	return intents, nil
}

func readIntSlice(args map[string]any, key string) ([]int, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case int:
		return []int{v}, nil
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := item.(int)
			if !ok {
				return nil, fmt.Errorf("%s must contain integers", key)
			}
			out = append(out, n)
		}
		return out, nil
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%s must be a list of integers", key)
}

func parseSide(value string) (engine.Side, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "A", "SIDE_A":
		return engine.SideA, nil
	case "B", "SIDE_B":
		return engine.SideB, nil
	default:
		return 0, fmt.Errorf("unknown side %q", value)
	}
}

func parseVictory(value string) (engine.Victory, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "a", "side_a":
		return engine.SideAWins, nil
	case "b", "side_b":
		return engine.SideBWins, nil
	case "draw":
		return engine.Draw, nil
	case "none", "undetermined":
		return engine.Undetermined, nil
	default:
		return "", fmt.Errorf("unknown victory %q", value)
	}
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	result, ok := value.(string)
	if !ok {
		return ""
	}
	return result
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func readStringSlice(args map[string]any, key string) []string {
	value, ok := args[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}
