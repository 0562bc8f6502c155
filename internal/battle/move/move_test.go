package move

import (
	"errors"
	"testing"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
)

func validMove() Move {
	return Move{
		ID:       "ember",
		Name:     "Ember",
		Cost:     energy.Cost{energy.Fire: 1},
		Cooldown: 1,
		Target:   OneEnemy,
		Tags:     NewTagSet(Special, Ranged),
		Effects:  []EffectSpec{{Op: OpDamage, Amount: 20}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Move)
		valid  bool
	}{
		{"valid", func(*Move) {}, true},
		{"missing id", func(m *Move) { m.ID = " " }, false},
		{"negative cost", func(m *Move) { m.Cost[energy.Water] = -1 }, false},
		{"negative cooldown", func(m *Move) { m.Cooldown = -1 }, false},
		{"unknown shape", func(m *Move) { m.Target = TargetShape(99) }, false},
		{"no effects", func(m *Move) { m.Effects = nil }, false},
		{"chance too high", func(m *Move) {
			m.Effects = []EffectSpec{{Op: OpApply, Kind: effect.Stun, Chance: 101}}
		}, false},
		{"custom without tag", func(m *Move) {
			m.Effects = []EffectSpec{{Op: OpApply, Kind: effect.Custom, Duration: 1}}
		}, false},
		{"energize unknown currency", func(m *Move) {
			m.Effects = []EffectSpec{{Op: OpEnergize, Amount: 1, Currency: energy.Currency(9)}}
		}, false},
		{"apply stun", func(m *Move) {
			m.Effects = []EffectSpec{{Op: OpApply, Kind: effect.Stun, Duration: 1, Chance: 50}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMove()
			tt.mutate(&m)
			err := m.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("error = %v, want %v", err, ErrInvalidMove)
			}
		})
	}
}

func TestPrioritized(t *testing.T) {
	m := validMove()
	if m.Prioritized() {
		t.Fatal("plain move reported as prioritized")
	}
	m.Tags = NewTagSet(Instant)
	if !m.Prioritized() {
		t.Fatal("instant move not prioritized")
	}
	m.Tags = NewTagSet(Priority, Melee)
	if !m.Prioritized() {
		t.Fatal("priority move not prioritized")
	}
}

func TestNewTagSetDeduplicatesAndSorts(t *testing.T) {
	set := NewTagSet(Ranged, Melee, Ranged)
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	if set[0] != Melee || set[1] != Ranged {
		t.Fatalf("set = %v, want [melee ranged]", set)
	}
}

func TestParsers(t *testing.T) {
	if shape, err := ParseTargetShape("All-Enemies"); err != nil || shape != AllEnemies {
		t.Fatalf("ParseTargetShape = %v, %v", shape, err)
	}
	if op, err := ParseOp("energize"); err != nil || op != OpEnergize {
		t.Fatalf("ParseOp = %v, %v", op, err)
	}
	if r, err := ParseRecipient(""); err != nil || r != Targets {
		t.Fatalf("ParseRecipient(empty) = %v, %v", r, err)
	}
	if _, err := ParseTag("sneaky"); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}
