package engine

import (
	"testing"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

func TestBuildQueue(t *testing.T) {
	jab := strike("jab", 10)
	quick := strike("quick", 10, move.Priority)
	s := newBattle(t, roster("a", jab, quick), roster("b", jab, quick), Options{Seed: 41})

	plan := func(actor, moveIndex int) Plan {
		p, rej := validate(s, SideOf(actor), Intent{Actor: actor, Move: moveIndex, Targets: []int{(actor + 3) % SlotCount}})
		if rej != nil {
			t.Fatalf("validate slot %d: %v", actor, rej)
		}
		return p
	}

	tests := []struct {
		name  string
		setup func(*State)
		plans []Plan
		want  []int
	}{
		{
			name:  "speed then slot",
			plans: []Plan{plan(5, 0), plan(4, 0), plan(1, 0), plan(3, 0), plan(0, 0)},
			want:  []int{0, 3, 1, 4, 5},
		},
		{
			name:  "priority first",
			plans: []Plan{plan(0, 0), plan(5, 1), plan(3, 0)},
			want:  []int{5, 0, 3},
		},
		{
			name: "haste counts",
			setup: func(s *State) {
				s.Fighters[2].Effects = effect.Set{{Kind: effect.Haste, Magnitude: 25, Remaining: 1}}
			},
			plans: []Plan{plan(0, 0), plan(2, 0), plan(4, 0)},
			want:  []int{2, 0, 4},
		},
		{
			name: "slow counts",
			setup: func(s *State) {
				s.Fighters[0].Effects = effect.Set{{Kind: effect.Slow, Magnitude: 15, Remaining: 1}}
			},
			plans: []Plan{plan(0, 0), plan(4, 0), plan(5, 0)},
			want:  []int{4, 0, 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := s.Clone()
			if tc.setup != nil {
				tc.setup(&state)
			}
			queue := buildQueue(state, tc.plans)
			if len(queue) != len(tc.want) {
				t.Fatalf("queue length = %d, want %d", len(queue), len(tc.want))
			}
			for i, p := range queue {
				if p.Intent.Actor != tc.want[i] {
					t.Fatalf("queue[%d] = slot %d, want %d", i, p.Intent.Actor, tc.want[i])
				}
			}
		})
	}
}
