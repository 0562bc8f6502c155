package engine

import (
	"testing"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

func strike(id string, amount int, tags ...move.Tag) move.Move {
	return move.Move{
		ID:      id,
		Name:    id,
		Target:  move.OneEnemy,
		Tags:    move.NewTagSet(tags...),
		Effects: []move.EffectSpec{{Op: move.OpDamage, Amount: amount}},
	}
}

func guard(id string, kind effect.Kind, magnitude, duration int, tags ...move.Tag) move.Move {
	return move.Move{
		ID:     id,
		Name:   id,
		Target: move.Self,
		Tags:   move.NewTagSet(tags...),
		Effects: []move.EffectSpec{{
			Op: move.OpApply, Kind: kind, Amount: magnitude, Duration: duration,
		}},
	}
}

func idle() move.Move {
	return move.Move{
		ID:      "idle",
		Name:    "idle",
		Target:  move.Self,
		Effects: []move.EffectSpec{{Op: move.OpHeal}},
	}
}

func fighter(id string, health, speed int, moves ...move.Move) FighterSpec {
	for len(moves) < MovesPerFighter {
		moves = append(moves, idle())
	}
	return FighterSpec{CreatureID: id, MaxHealth: health, Speed: speed, Moves: moves}
}

func roster(prefix string, moves ...move.Move) Roster {
	return Roster{
		fighter(prefix+"1", 100, 30, moves...),
		fighter(prefix+"2", 100, 20, moves...),
		fighter(prefix+"3", 100, 10, moves...),
	}
}

func newBattle(t *testing.T, a, b Roster, opts Options) State {
	t.Helper()
	s, err := New(a, b, opts)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	return s
}

func resolve(t *testing.T, s State, a, b []Intent) (State, []Event) {
	t.Helper()
	next, events, err := ResolveTurn(s, a, b)
	if err != nil {
		t.Fatalf("resolve turn %d: %v", s.Turn, err)
	}
	return next, events
}

func eventsOf(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func rejection(t *testing.T, events []Event, actor int) RejectReason {
	t.Helper()
	for _, e := range events {
		if e.Kind == EventActionRejected && e.Actor == actor {
			return e.Reason
		}
	}
	t.Fatalf("no rejection for actor %d in %v", actor, events)
	return ""
}

func fullPools(n int) [2]energy.Pool {
	var pool energy.Pool
	for i := range pool {
		pool[i] = n
	}
	return [2]energy.Pool{pool, pool}
}
