package engine

import "fmt"

// Intent is a request for one fighter to use one move.
type Intent struct {
	Actor   int   `json:"actor"`
	Move    int   `json:"move"`
	Targets []int `json:"targets,omitempty"`
}

// checkIntents rejects intents that break the API contract. It runs before
// any state is touched.
func checkIntents(side Side, intents []Intent) error {
	if len(intents) > FightersPerSide {
		return fmt.Errorf("side %s: %d intents: %w", side, len(intents), ErrTooManyIntents)
	}
	seen := map[int]bool{}
	for i, in := range intents {
		if err := checkIntent(side, in); err != nil {
			return fmt.Errorf("side %s intent %d: %w", side, i, err)
		}
		if seen[in.Actor] {
			return fmt.Errorf("side %s intent %d: actor %d: %w", side, i, in.Actor, ErrDuplicateActor)
		}
		seen[in.Actor] = true
	}
	return nil
}

// checkIntent applies the slot, index and side contract to one intent.
func checkIntent(side Side, in Intent) error {
	if side != SideA && side != SideB {
		return fmt.Errorf("side %d: %w", int(side), ErrWrongSide)
	}
	if !validSlot(in.Actor) {
		return fmt.Errorf("actor %d: %w", in.Actor, ErrSlotOutOfRange)
	}
	if in.Move < 0 || in.Move >= MovesPerFighter {
		return fmt.Errorf("move %d: %w", in.Move, ErrMoveOutOfRange)
	}
	for _, target := range in.Targets {
		if !validSlot(target) {
			return fmt.Errorf("target %d: %w", target, ErrSlotOutOfRange)
		}
	}
	if SideOf(in.Actor) != side {
		return fmt.Errorf("actor %d: %w", in.Actor, ErrWrongSide)
	}
	return nil
}
