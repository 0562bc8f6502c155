package engine

import (
	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

// Plan is a validated intent with its targets resolved.
type Plan struct {
	Side    Side
	Intent  Intent
	Move    move.Move
	Targets []int
}

// Validate checks one intent against the current state. A broken slot,
// index or side contract returns an error; otherwise the checks run in a
// fixed order and the first failure becomes the rejection.
func Validate(s State, side Side, in Intent) (Plan, *Rejection, error) {
	if err := checkIntent(side, in); err != nil {
		return Plan{}, nil, err
	}
	plan, rej := validate(s, side, in)
	return plan, rej, nil
}

// validate assumes the intent already passed checkIntent.
func validate(s State, side Side, in Intent) (Plan, *Rejection) {
	actor := s.Fighters[in.Actor]
	if !actor.Alive() {
		return Plan{}, reject(RejectActorDead, "%s has fainted", actor.ID)
	}

	m := actor.Moves[in.Move]
	if m.ID == "" {
		return Plan{}, reject(RejectMoveUnavailable, "%s has no move in slot %d", actor.ID, in.Move)
	}
	if actor.Effects.Has(effect.Stun) && !m.Has(move.Instant) {
		return Plan{}, reject(RejectStunned, "%s is stunned", actor.ID)
	}
	if actor.Effects.Has(effect.Trap) && m.Has(move.Defensive) {
		return Plan{}, reject(RejectTrapped, "%s is trapped", actor.ID)
	}

	if cd := actor.Cooldowns[in.Move]; cd > 0 {
		return Plan{}, reject(RejectOnCooldown, "%s on cooldown for %d turns", m.ID, cd)
	}

	targets, rej := resolveTargets(s, side, in, m.Target)
	if rej != nil {
		return Plan{}, rej
	}

	if !energy.CanAfford(s.Pools[side], m.Cost) {
		return Plan{}, reject(RejectInsufficientEnergy, "side %s cannot pay for %s", side, m.ID)
	}

	return Plan{Side: side, Intent: in, Move: m, Targets: targets}, nil
}

func resolveTargets(s State, side Side, in Intent, shape move.TargetShape) ([]int, *Rejection) {
	if shape == move.Self {
		if len(in.Targets) == 0 || (len(in.Targets) == 1 && in.Targets[0] == in.Actor) {
			return []int{in.Actor}, nil
		}
		return nil, reject(RejectInvalidTarget, "self moves cannot target %v", in.Targets)
	}
	if shape.Single() {
		want := side
		if shape == move.OneEnemy {
			want = side.Opponent()
		}
		if len(in.Targets) != 1 {
			return nil, reject(RejectInvalidTarget, "%s needs exactly one target, got %d", shape, len(in.Targets))
		}
		target := in.Targets[0]
		if SideOf(target) != want {
			return nil, reject(RejectInvalidTarget, "slot %d is not on side %s", target, want)
		}
		if !s.Fighters[target].Alive() {
			return nil, reject(RejectTargetDead, "%s has fainted", s.Fighters[target].ID)
		}
		return []int{target}, nil
	}

	var targets []int
	switch shape {
	case move.AllEnemies:
		targets = s.aliveOn(side.Opponent())
	case move.AllAllies:
		targets = s.aliveOn(side)
	case move.AllCharacters:
		targets = s.aliveAll()
	default:
		return nil, reject(RejectMoveUnavailable, "unknown target shape %s", shape)
	}
	if len(targets) == 0 {
		return nil, reject(RejectNoLegalTargets, "no living fighters for %s", shape)
	}
	return targets, nil
}
