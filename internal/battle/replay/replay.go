// Package replay re-resolves a journal against its initial state.
package replay

import (
	"errors"
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/journal"
)

var (
	// ErrDiverged reports a replayed turn whose state hash differs from the
	// recorded one.
	ErrDiverged = errors.New("replay diverged")
	// ErrTurnOrder reports a journal whose turn numbers skip or repeat.
	ErrTurnOrder = errors.New("journal turn out of order")
)

// DivergenceError identifies the first turn that replayed differently.
type DivergenceError struct {
	Turn int
	Want string
	Got  string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("turn %d: state hash %s, recorded %s", e.Turn, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrDiverged.
func (e *DivergenceError) Unwrap() error {
	return ErrDiverged
}

// Replay resolves every recorded turn from the initial state and checks
// each resulting state hash. It returns the last state that matched along
// with any error.
func Replay(initial engine.State, turns []journal.TurnRecord) (engine.State, error) {
	s := initial
	for _, rec := range turns {
		if rec.Turn != s.Turn {
			return s, fmt.Errorf("%w: recorded turn %d, battle at turn %d", ErrTurnOrder, rec.Turn, s.Turn)
		}
		next, got, err := journal.Record(s, rec.IntentsA, rec.IntentsB)
		if err != nil {
			return s, fmt.Errorf("replay turn %d: %w", rec.Turn, err)
		}
		if got.StateHash != rec.StateHash {
			return s, &DivergenceError{Turn: rec.Turn, Want: rec.StateHash, Got: got.StateHash}
		}
		s = next
	}
	return s, nil
}
