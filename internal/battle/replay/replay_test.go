package replay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/journal"
)

func newBattle(t *testing.T) engine.State {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	a, err := c.Roster([]string{"pyrokit", "mossling", "shellguard"})
	if err != nil {
		t.Fatalf("roster a: %v", err)
	}
	b, err := c.Roster([]string{"cinderwing", "thornback", "stormhound"})
	if err != nil {
		t.Fatalf("roster b: %v", err)
	}
	return engine.MustNew(a, b, engine.Options{Seed: 2024})
}

// record plays a few turns of tackles, which cost no energy.
func record(t *testing.T, s engine.State, turns int) (engine.State, []journal.TurnRecord) {
	t.Helper()
	var recs []journal.TurnRecord
	for range turns {
		a := []engine.Intent{{Actor: 0, Move: 3, Targets: []int{4}}}
		b := []engine.Intent{{Actor: 4, Move: 3, Targets: []int{0}}}
		next, rec, err := journal.Record(s, a, b)
		if err != nil {
			t.Fatalf("record turn %d: %v", s.Turn, err)
		}
		recs = append(recs, rec)
		s = next
	}
	return s, recs
}

func TestReplayMatches(t *testing.T) {
	initial := newBattle(t)
	final, recs := record(t, initial, 4)

	got, err := Replay(initial, recs)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reflect.DeepEqual(got, final) {
		t.Fatal("replayed state differs from recorded state")
	}
}

func TestReplayDetectsDivergence(t *testing.T) {
	initial := newBattle(t)
	_, recs := record(t, initial, 3)
	recs[1].StateHash = "00000000000000000000000000000000"

	got, err := Replay(initial, recs)
	var div *DivergenceError
	if !errors.As(err, &div) {
		t.Fatalf("error = %v, want DivergenceError", err)
	}
	if div.Turn != 2 {
		t.Fatalf("diverged turn = %d, want 2", div.Turn)
	}
	if !errors.Is(err, ErrDiverged) {
		t.Fatal("divergence should match ErrDiverged")
	}
	if got.Turn != 2 {
		t.Fatalf("last matching state turn = %d, want 2", got.Turn)
	}
}

func TestReplayDifferentSeedDiverges(t *testing.T) {
	initial := newBattle(t)
	_, recs := record(t, initial, 2)

	other := initial
	other.Seed = 7
	if _, err := Replay(other, recs); !errors.Is(err, ErrDiverged) {
		t.Fatalf("error = %v, want ErrDiverged", err)
	}
}

func TestReplayTurnOrder(t *testing.T) {
	initial := newBattle(t)
	_, recs := record(t, initial, 2)
	recs[0], recs[1] = recs[1], recs[0]

	if _, err := Replay(initial, recs); !errors.Is(err, ErrTurnOrder) {
		t.Fatalf("error = %v, want ErrTurnOrder", err)
	}
}
