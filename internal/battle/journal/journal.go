// Package journal records resolved turns as content-addressed entries.
//
// A journal is the battle's seed and rosters plus one TurnRecord per
// resolved turn. Each record carries the hash of the state the turn
// produced so a replay can detect the first turn that diverges.
package journal

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/engine"
)

// TurnRecord is one resolved turn.
type TurnRecord struct {
	Turn      int             `json:"turn"`
	IntentsA  []engine.Intent `json:"intents_a"`
	IntentsB  []engine.Intent `json:"intents_b"`
	Events    []engine.Event  `json:"events"`
	StateHash string          `json:"state_hash"`
}

// StateHash returns the content hash of a battle state.
func StateHash(s engine.State) (string, error) {
	hash, err := ContentHash(s)
	if err != nil {
		return "", fmt.Errorf("hash state: %w", err)
	}
	return hash, nil
}

// Record resolves one turn and returns the next state with its journal
// entry. The turn number is the one the intents were submitted for.
func Record(before engine.State, intentsA, intentsB []engine.Intent) (engine.State, TurnRecord, error) {
	next, events, err := engine.ResolveTurn(before, intentsA, intentsB)
	if err != nil {
		return before, TurnRecord{}, err
	}
	hash, err := StateHash(next)
	if err != nil {
		return before, TurnRecord{}, err
	}
	return next, TurnRecord{
		Turn:      before.Turn,
		IntentsA:  intentsA,
		IntentsB:  intentsB,
		Events:    events,
		StateHash: hash,
	}, nil
}
