package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

func TestValidate(t *testing.T) {
	jab := strike("jab", 10)
	wave := move.Move{
		ID:      "wave",
		Name:    "wave",
		Target:  move.AllEnemies,
		Effects: []move.EffectSpec{{Op: move.OpDamage, Amount: 5}},
	}
	brace := guard("brace", effect.Reduce, 5, 2, move.Defensive)
	costly := strike("costly", 10)
	costly.Cost[energy.Fire] = 2
	costly.Cost[energy.Water] = 1

	base := newBattle(t, roster("a", jab, wave, brace, costly), roster("b"), Options{Seed: 31})

	tests := []struct {
		name        string
		setup       func(*State)
		intent      Intent
		wantReason  RejectReason
		wantTargets []int
	}{
		{
			name:        "one enemy",
			intent:      Intent{Actor: 0, Move: 0, Targets: []int{4}},
			wantTargets: []int{4},
		},
		{
			name: "dead actor wins over stun",
			setup: func(s *State) {
				s.Fighters[0].Health = 0
				s.Fighters[0].Effects = effect.Set{{Kind: effect.Stun, Remaining: 1}}
			},
			intent:     Intent{Actor: 0, Move: 0, Targets: []int{4}},
			wantReason: RejectActorDead,
		},
		{
			name:       "stunned",
			setup:      func(s *State) { s.Fighters[0].Effects = effect.Set{{Kind: effect.Stun, Remaining: 1}} },
			intent:     Intent{Actor: 0, Move: 0, Targets: []int{4}},
			wantReason: RejectStunned,
		},
		{
			name:       "trapped blocks defensive moves",
			setup:      func(s *State) { s.Fighters[0].Effects = effect.Set{{Kind: effect.Trap, Remaining: 1}} },
			intent:     Intent{Actor: 0, Move: 2},
			wantReason: RejectTrapped,
		},
		{
			name:        "trapped allows attacks",
			setup:       func(s *State) { s.Fighters[0].Effects = effect.Set{{Kind: effect.Trap, Remaining: 1}} },
			intent:      Intent{Actor: 0, Move: 0, Targets: []int{3}},
			wantTargets: []int{3},
		},
		{
			name:       "cooldown wins over energy",
			setup:      func(s *State) { s.Fighters[0].Cooldowns[3] = 1 },
			intent:     Intent{Actor: 0, Move: 3, Targets: []int{3}},
			wantReason: RejectOnCooldown,
		},
		{
			name:       "ally for one enemy",
			intent:     Intent{Actor: 0, Move: 0, Targets: []int{1}},
			wantReason: RejectInvalidTarget,
		},
		{
			name:       "two targets for one enemy",
			intent:     Intent{Actor: 0, Move: 0, Targets: []int{3, 4}},
			wantReason: RejectInvalidTarget,
		},
		{
			name:       "missing target",
			intent:     Intent{Actor: 0, Move: 0},
			wantReason: RejectInvalidTarget,
		},
		{
			name:       "dead enemy",
			setup:      func(s *State) { s.Fighters[4].Health = 0 },
			intent:     Intent{Actor: 0, Move: 0, Targets: []int{4}},
			wantReason: RejectTargetDead,
		},
		{
			name:       "self move with a target",
			intent:     Intent{Actor: 0, Move: 2, Targets: []int{3}},
			wantReason: RejectInvalidTarget,
		},
		{
			name:        "self move naming self",
			intent:      Intent{Actor: 1, Move: 2, Targets: []int{1}},
			wantTargets: []int{1},
		},
		{
			name:        "all enemies skips the dead",
			setup:       func(s *State) { s.Fighters[4].Health = 0 },
			intent:      Intent{Actor: 0, Move: 1, Targets: []int{4}},
			wantTargets: []int{3, 5},
		},
		{
			name: "all enemies with none alive",
			setup: func(s *State) {
				for _, slot := range SideB.Slots() {
					s.Fighters[slot].Health = 0
				}
			},
			intent:     Intent{Actor: 0, Move: 1},
			wantReason: RejectNoLegalTargets,
		},
		{
			name:       "insufficient energy",
			setup:      func(s *State) { s.Pools[SideA] = energy.Pool{2, 0, 0, 0, 0} },
			intent:     Intent{Actor: 0, Move: 3, Targets: []int{3}},
			wantReason: RejectInsufficientEnergy,
		},
		{
			name:        "wildcard covers the shortfall",
			setup:       func(s *State) { s.Pools[SideA] = energy.Pool{2, 0, 0, 0, 1} },
			intent:      Intent{Actor: 0, Move: 3, Targets: []int{3}},
			wantTargets: []int{3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base.Clone()
			if tc.setup != nil {
				tc.setup(&s)
			}
			plan, rej, err := Validate(s, SideOf(tc.intent.Actor), tc.intent)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if tc.wantReason != "" {
				if rej == nil {
					t.Fatalf("plan = %+v, want rejection %s", plan, tc.wantReason)
				}
				if rej.Reason != tc.wantReason {
					t.Fatalf("reason = %s, want %s", rej.Reason, tc.wantReason)
				}
				return
			}
			if rej != nil {
				t.Fatalf("unexpected rejection: %v", rej)
			}
			if !reflect.DeepEqual(plan.Targets, tc.wantTargets) {
				t.Fatalf("targets = %v, want %v", plan.Targets, tc.wantTargets)
			}
		})
	}
}

func TestValidateOneAllyIncludesSelf(t *testing.T) {
	mend := move.Move{
		ID:      "mend",
		Name:    "mend",
		Target:  move.OneAlly,
		Effects: []move.EffectSpec{{Op: move.OpHeal, Amount: 10}},
	}
	s := newBattle(t, roster("a"), roster("b", mend), Options{Seed: 32})

	plan, rej := validate(s, SideB, Intent{Actor: 5, Move: 0, Targets: []int{5}})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if !reflect.DeepEqual(plan.Targets, []int{5}) {
		t.Fatalf("targets = %v, want [5]", plan.Targets)
	}

	_, rej = validate(s, SideB, Intent{Actor: 5, Move: 0, Targets: []int{0}})
	if rej == nil || rej.Reason != RejectInvalidTarget {
		t.Fatalf("rejection = %v, want invalid_target", rej)
	}
}

func TestValidateContractErrors(t *testing.T) {
	s := newBattle(t, roster("a", strike("jab", 10)), roster("b", strike("jab", 10)), Options{Seed: 33})

	tests := []struct {
		name   string
		side   Side
		intent Intent
		want   error
	}{
		{name: "actor out of range", side: SideA, intent: Intent{Actor: 7}, want: ErrSlotOutOfRange},
		{name: "negative actor", side: SideA, intent: Intent{Actor: -1}, want: ErrSlotOutOfRange},
		{name: "move out of range", side: SideA, intent: Intent{Actor: 0, Move: 9}, want: ErrMoveOutOfRange},
		{name: "target out of range", side: SideA, intent: Intent{Actor: 0, Targets: []int{6}}, want: ErrSlotOutOfRange},
		{name: "actor on the other side", side: SideA, intent: Intent{Actor: 3, Targets: []int{4}}, want: ErrWrongSide},
		{name: "unknown side", side: Side(2), intent: Intent{Actor: 0, Targets: []int{3}}, want: ErrWrongSide},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, rej, err := Validate(s, tc.side, tc.intent)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if rej != nil || plan.Targets != nil {
				t.Fatalf("plan = %+v, rejection = %v, want neither", plan, rej)
			}
		})
	}
}

func TestRejectionError(t *testing.T) {
	if got := (&Rejection{Reason: RejectStunned}).Error(); got != "stunned" {
		t.Fatalf("error = %q, want stunned", got)
	}
	if got := reject(RejectOnCooldown, "%d turns", 2).Error(); got != "on_cooldown: 2 turns" {
		t.Fatalf("error = %q", got)
	}
}
