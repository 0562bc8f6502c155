package engine

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

// turnContext carries the working state of one ResolveTurn call.
type turnContext struct {
	state  State
	events []Event
}

// ResolveTurn runs one full turn and returns the next state with its event
// log. Contract violations return an error and leave s untouched; rejected
// intents are logged instead. A decided battle returns ErrBattleOver.
func ResolveTurn(s State, intentsA, intentsB []Intent) (State, []Event, error) {
	if s.Victory.Decided() {
		return s, nil, ErrBattleOver
	}
	if err := checkIntents(SideA, intentsA); err != nil {
		return s, nil, err
	}
	if err := checkIntents(SideB, intentsB); err != nil {
		return s, nil, err
	}

	t := &turnContext{state: s.Clone()}
	if t.state.Victory == "" {
		t.state.Victory = Undetermined
	}
	t.startTurn()
	plans := t.validate(intentsA, intentsB)
	for _, plan := range buildQueue(t.state, plans) {
		t.execute(plan)
	}
	t.endTurn()
	t.checkVictory()
	checkInvariants(&t.state)
	return t.state, t.events, nil
}

func (t *turnContext) emit(e Event) {
	e.Turn = t.state.Turn
	if e.Actor >= 0 && e.ActorID == "" {
		e.ActorID = t.state.Fighters[e.Actor].ID
	}
	if e.Target >= 0 && e.TargetID == "" {
		e.TargetID = t.state.Fighters[e.Target].ID
	}
	t.events = append(t.events, e)
}

// startTurn grants each side one unit per living fighter, side A first,
// drawing every unit's currency from the battle RNG.
func (t *turnContext) startTurn() {
	for _, side := range [2]Side{SideA, SideB} {
		units := energy.Generation(t.state.Turn, t.state.AliveCount(side))
		for range units {
			var pick int
			pick, t.state.RNG = t.state.RNG.NextInt(len(energy.Named))
			t.state.Pools[side] = energy.Grant(t.state.Pools[side], energy.Named[pick], 1)
		}
	}
}

func (t *turnContext) validate(intentsA, intentsB []Intent) []Plan {
	var plans []Plan
	for side, intents := range [2][]Intent{intentsA, intentsB} {
		for _, in := range intents {
			plan, rej := validate(t.state, Side(side), in)
			if rej != nil {
				t.rejected(in, rej)
				continue
			}
			plans = append(plans, plan)
		}
	}
	return plans
}

func (t *turnContext) rejected(in Intent, rej *Rejection) {
	actor := t.state.Fighters[in.Actor]
	target := -1
	if len(in.Targets) == 1 {
		target = in.Targets[0]
	}
	t.emit(Event{
		Kind:    EventActionRejected,
		Actor:   in.Actor,
		Target:  target,
		Move:    actor.Moves[in.Move].ID,
		Reason:  rej.Reason,
		Message: fmt.Sprintf("%s cannot act: %s", actor.Name, rej.Error()),
	})
}

// execute re-validates a queued plan against the current state, then pays
// for it and applies its effect specs in order.
func (t *turnContext) execute(queued Plan) {
	plan, rej := validate(t.state, queued.Side, queued.Intent)
	if rej != nil {
		t.rejected(queued.Intent, rej)
		return
	}

	pool, err := energy.Spend(t.state.Pools[plan.Side], plan.Move.Cost)
	if err != nil {
		t.rejected(plan.Intent, reject(RejectInsufficientEnergy, "%v", err))
		return
	}
	t.state.Pools[plan.Side] = pool

	actor := &t.state.Fighters[plan.Intent.Actor]
	actor.Cooldowns[plan.Intent.Move] = plan.Move.Cooldown + 1

	target := -1
	if len(plan.Targets) == 1 {
		target = plan.Targets[0]
	}
	t.emit(Event{
		Kind:    EventMoveUsed,
		Actor:   plan.Intent.Actor,
		Target:  target,
		Move:    plan.Move.ID,
		Message: fmt.Sprintf("%s used %s", actor.Name, plan.Move.Name),
	})

	for _, spec := range plan.Move.Effects {
		for _, recipient := range t.recipients(plan, spec.Target) {
			t.applySpec(plan, spec, recipient)
		}
	}
}

// recipients resolves a spec's recipients at the moment it applies.
// Fighters that fainted earlier in the same move are skipped.
func (t *turnContext) recipients(plan Plan, r move.Recipient) []int {
	var candidates []int
	switch r {
	case move.User:
		candidates = []int{plan.Intent.Actor}
	case move.UserAllies:
		candidates = t.state.aliveOn(plan.Side)
	case move.UserEnemies:
		candidates = t.state.aliveOn(plan.Side.Opponent())
	default:
		candidates = plan.Targets
	}
	var alive []int
	for _, slot := range candidates {
		if t.state.Fighters[slot].Alive() {
			alive = append(alive, slot)
		}
	}
	return alive
}

// endTurn ticks every living fighter in slot order and then decrements all
// cooldowns.
func (t *turnContext) endTurn() {
	for slot := range t.state.Fighters {
		f := &t.state.Fighters[slot]
		if !f.Alive() {
			continue
		}
		effects, result := f.Effects.Tick()
		f.Effects = effects
		for _, e := range result.Heals {
			healed := t.heal(slot, e.Magnitude)
			t.emit(Event{
				Kind:    EventHealed,
				Actor:   -1,
				Target:  slot,
				Amount:  healed,
				Effect:  e.Kind.String(),
				Message: fmt.Sprintf("%s recovered %d health", f.Name, healed),
			})
		}
		for _, e := range result.Damages {
			if !f.Alive() {
				break
			}
			dealt := t.damage(slot, e.Magnitude)
			t.emit(Event{
				Kind:    EventDamageDealt,
				Actor:   -1,
				Target:  slot,
				Amount:  dealt,
				Effect:  e.Kind.String(),
				Message: fmt.Sprintf("%s took %d damage from %s", f.Name, dealt, e.Kind),
			})
			t.fainted(slot, dealt)
		}
		for _, e := range result.Expired {
			t.emit(Event{
				Kind:    EventEffectExpired,
				Actor:   -1,
				Target:  slot,
				Effect:  e.Kind.String(),
				Tag:     e.Tag,
				Message: fmt.Sprintf("%s wore off %s", e.Kind, f.Name),
			})
		}
	}
	for slot := range t.state.Fighters {
		f := &t.state.Fighters[slot]
		for i, cd := range f.Cooldowns {
			f.Cooldowns[i] = max(0, cd-1)
		}
	}
}

// checkVictory decides the battle or advances the turn counter.
func (t *turnContext) checkVictory() {
	aliveA := t.state.AliveCount(SideA)
	aliveB := t.state.AliveCount(SideB)
	switch {
	case aliveA == 0 && aliveB == 0:
		t.state.Victory = Draw
	case aliveA == 0:
		t.state.Victory = SideBWins
	case aliveB == 0:
		t.state.Victory = SideAWins
	default:
		t.state.Turn++
		return
	}
	t.emit(Event{
		Kind:    EventVictoryDeclared,
		Actor:   -1,
		Target:  -1,
		Victory: t.state.Victory,
		Message: victoryMessage(t.state.Victory),
	})
}

func victoryMessage(v Victory) string {
	switch v {
	case SideAWins:
		return "side A wins"
	case SideBWins:
		return "side B wins"
	case Draw:
		return "the battle ends in a draw"
	default:
		return "the battle continues"
	}
}
