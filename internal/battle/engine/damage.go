package engine

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

const (
	defaultReflectPercent = 50
	defaultCounterPercent = 50
)

// applySpec applies one effect spec of an executing move to one recipient.
func (t *turnContext) applySpec(plan Plan, spec move.EffectSpec, recipient int) {
	actor := plan.Intent.Actor
	hostile := SideOf(recipient) != plan.Side
	target := &t.state.Fighters[recipient]

	if hostile && target.Effects.Has(effect.Invulnerable) && !plan.Move.Has(move.Bypassing) {
		t.blocked(plan, spec, recipient)
		return
	}

	switch spec.Op {
	case move.OpDamage:
		if spec.Amount <= 0 {
			return
		}
		if hostile {
			t.hit(plan, recipient, spec.Amount)
			return
		}
		dealt := t.damage(recipient, spec.Amount)
		t.emit(Event{
			Kind:    EventDamageDealt,
			Actor:   actor,
			Target:  recipient,
			Amount:  dealt,
			Move:    plan.Move.ID,
			Message: fmt.Sprintf("%s took %d damage", target.Name, dealt),
		})
		t.fainted(recipient, dealt)

	case move.OpHeal:
		healed := t.heal(recipient, spec.Amount)
		t.emit(Event{
			Kind:    EventHealed,
			Actor:   actor,
			Target:  recipient,
			Amount:  healed,
			Move:    plan.Move.ID,
			Message: fmt.Sprintf("%s recovered %d health", target.Name, healed),
		})

	case move.OpApply:
		if spec.NeedsRoll() {
			var landed bool
			landed, t.state.RNG = t.state.RNG.Chance(spec.Chance)
			if !landed {
				return
			}
		}
		target.Effects = target.Effects.Apply(effect.Effect{
			Kind:      spec.Kind,
			Tag:       spec.Tag,
			Magnitude: spec.Amount,
			Remaining: spec.Duration,
			Source:    t.state.Fighters[actor].ID,
		})
		t.emit(Event{
			Kind:    EventEffectApplied,
			Actor:   actor,
			Target:  recipient,
			Amount:  spec.Amount,
			Move:    plan.Move.ID,
			Effect:  spec.Kind.String(),
			Tag:     spec.Tag,
			Message: fmt.Sprintf("%s is affected by %s", target.Name, effectLabel(spec.Kind, spec.Tag)),
		})

	case move.OpCleanse, move.OpDispel:
		match := effect.Kind.Harmful
		if spec.Op == move.OpDispel {
			match = effect.Kind.Helpful
		}
		kept, removed := target.Effects.Remove(func(e effect.Effect) bool {
			return match(e.Kind)
		})
		target.Effects = kept
		for _, e := range removed {
			t.emit(Event{
				Kind:    EventEffectExpired,
				Actor:   actor,
				Target:  recipient,
				Move:    plan.Move.ID,
				Effect:  e.Kind.String(),
				Tag:     e.Tag,
				Message: fmt.Sprintf("%s was removed from %s", effectLabel(e.Kind, e.Tag), target.Name),
			})
		}

	case move.OpEnergize:
		side := SideOf(recipient)
		t.state.Pools[side] = energy.Grant(t.state.Pools[side], spec.Currency, spec.Amount)
	}
}

func (t *turnContext) blocked(plan Plan, spec move.EffectSpec, recipient int) {
	name := t.state.Fighters[recipient].Name
	e := Event{
		Kind:    EventEffectApplied,
		Actor:   plan.Intent.Actor,
		Target:  recipient,
		Move:    plan.Move.ID,
		Blocked: true,
		Message: fmt.Sprintf("%s had no effect on %s", plan.Move.Name, name),
	}
	switch spec.Op {
	case move.OpDamage:
		e.Kind = EventDamageDealt
	case move.OpApply:
		e.Effect = spec.Kind.String()
		e.Tag = spec.Tag
	}
	t.emit(e)
}

// hit runs the damage pipeline for a hostile damage spec: attack modifiers,
// bleed and reduction, the one point floor, reflection, counter and
// destiny bond.
func (t *turnContext) hit(plan Plan, target, base int) {
	attacker := plan.Intent.Actor
	a := t.state.Fighters[attacker]
	d := t.state.Fighters[target]

	amount := max(0, base*(100+a.Stats().Attack)/100)
	amount += d.Effects.Sum(effect.Bleed)
	if !plan.Move.Has(move.Bypassing) {
		amount -= d.Stats().Defense
	}
	amount = max(1, amount)

	reflected := 0
	if d.Effects.Has(effect.Reflect) && !plan.Move.Has(move.Mental) {
		reflected = amount * percentOr(d.Effects.Max(effect.Reflect), defaultReflectPercent) / 100
		amount -= reflected
	}

	dealt := t.damage(target, amount)
	t.emit(Event{
		Kind:    EventDamageDealt,
		Actor:   attacker,
		Target:  target,
		Amount:  dealt,
		Move:    plan.Move.ID,
		Message: fmt.Sprintf("%s took %d damage", d.Name, dealt),
	})
	defenderFainted := t.fainted(target, dealt)

	if reflected > 0 && t.state.Fighters[attacker].Alive() {
		back := t.damage(attacker, reflected)
		t.emit(Event{
			Kind:    EventDamageDealt,
			Actor:   target,
			Target:  attacker,
			Amount:  back,
			Move:    plan.Move.ID,
			Effect:  effect.Reflect.String(),
			Message: fmt.Sprintf("%s reflected %d damage", d.Name, back),
		})
		t.fainted(attacker, back)
	}

	if dealt > 0 && plan.Move.Has(move.Melee) && d.Effects.Has(effect.Counter) && t.state.Fighters[attacker].Alive() {
		amount := max(1, dealt*percentOr(d.Effects.Max(effect.Counter), defaultCounterPercent)/100)
		back := t.damage(attacker, amount)
		t.emit(Event{
			Kind:    EventDamageDealt,
			Actor:   target,
			Target:  attacker,
			Amount:  back,
			Move:    plan.Move.ID,
			Effect:  effect.Counter.String(),
			Message: fmt.Sprintf("%s countered for %d damage", d.Name, back),
		})
		t.fainted(attacker, back)
	}

	if defenderFainted && d.Effects.Has(effect.DestinyBond) && t.state.Fighters[attacker].Alive() {
		back := t.damage(attacker, t.state.Fighters[attacker].Health)
		t.emit(Event{
			Kind:    EventDamageDealt,
			Actor:   target,
			Target:  attacker,
			Amount:  back,
			Move:    plan.Move.ID,
			Effect:  effect.DestinyBond.String(),
			Message: fmt.Sprintf("%s took %s down with it", d.Name, a.Name),
		})
		t.fainted(attacker, back)
	}
}

// damage lowers health without going below zero and returns the amount
// actually removed.
func (t *turnContext) damage(slot, amount int) int {
	f := &t.state.Fighters[slot]
	dealt := min(max(0, amount), f.Health)
	f.Health -= dealt
	return dealt
}

// heal raises health up to the maximum and returns the amount restored.
func (t *turnContext) heal(slot, amount int) int {
	f := &t.state.Fighters[slot]
	healed := min(max(0, amount), f.MaxHealth-f.Health)
	f.Health += healed
	return healed
}

// fainted emits FighterFainted when the last damage step took the fighter
// to zero. A fighter already at zero deals no damage and never faints twice.
func (t *turnContext) fainted(slot, dealt int) bool {
	f := t.state.Fighters[slot]
	if dealt == 0 || f.Alive() {
		return false
	}
	t.emit(Event{
		Kind:    EventFighterFainted,
		Actor:   -1,
		Target:  slot,
		Message: fmt.Sprintf("%s fainted", f.Name),
	})
	return true
}

func percentOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return min(value, 100)
}

func effectLabel(kind effect.Kind, tag string) string {
	if kind == effect.Custom && tag != "" {
		return tag
	}
	return kind.String()
}
