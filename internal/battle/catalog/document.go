package catalog

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

type document struct {
	Moves     []moveDoc     `yaml:"moves"`
	Creatures []creatureDoc `yaml:"creatures"`
}

type moveDoc struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Cost     map[string]int `yaml:"cost"`
	Cooldown int            `yaml:"cooldown"`
	Target   string         `yaml:"target"`
	Tags     []string       `yaml:"tags"`
	Effects  []effectDoc    `yaml:"effects"`
}

type effectDoc struct {
	Op       string `yaml:"op"`
	Target   string `yaml:"target"`
	Amount   int    `yaml:"amount"`
	Kind     string `yaml:"kind"`
	Duration int    `yaml:"duration"`
	Tag      string `yaml:"tag"`
	Chance   int    `yaml:"chance"`
	Currency string `yaml:"currency"`
}

type creatureDoc struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Health int      `yaml:"health"`
	Speed  int      `yaml:"speed"`
	Moves  []string `yaml:"moves"`
}

func (d moveDoc) build() (move.Move, error) {
	m := move.Move{
		ID:       d.ID,
		Name:     d.Name,
		Cooldown: d.Cooldown,
	}
	if m.Name == "" {
		m.Name = d.ID
	}
	for name, amount := range d.Cost {
		c, err := energy.ParseCurrency(name)
		if err != nil {
			return move.Move{}, err
		}
		m.Cost[c] = amount
	}
	shape, err := move.ParseTargetShape(d.Target)
	if err != nil {
		return move.Move{}, err
	}
	m.Target = shape

	tags := make([]move.Tag, 0, len(d.Tags))
	for _, name := range d.Tags {
		tag, err := move.ParseTag(name)
		if err != nil {
			return move.Move{}, err
		}
		tags = append(tags, tag)
	}
	m.Tags = move.NewTagSet(tags...)

	for i, ed := range d.Effects {
		spec, err := ed.build()
		if err != nil {
			return move.Move{}, fmt.Errorf("effect %d: %w", i, err)
		}
		m.Effects = append(m.Effects, spec)
	}
	if err := m.Validate(); err != nil {
		return move.Move{}, err
	}
	return m, nil
}

func (d effectDoc) build() (move.EffectSpec, error) {
	op, err := move.ParseOp(d.Op)
	if err != nil {
		return move.EffectSpec{}, err
	}
	recipient, err := move.ParseRecipient(d.Target)
	if err != nil {
		return move.EffectSpec{}, err
	}
	spec := move.EffectSpec{
		Op:       op,
		Target:   recipient,
		Amount:   d.Amount,
		Duration: d.Duration,
		Tag:      d.Tag,
		Chance:   d.Chance,
	}
	if d.Kind != "" {
		kind, err := effect.ParseKind(d.Kind)
		if err != nil {
			return move.EffectSpec{}, err
		}
		spec.Kind = kind
	} else if op == move.OpApply {
		return move.EffectSpec{}, fmt.Errorf("apply requires a kind")
	}
	if d.Currency != "" {
		currency, err := energy.ParseCurrency(d.Currency)
		if err != nil {
			return move.EffectSpec{}, err
		}
		spec.Currency = currency
	} else if op == move.OpEnergize {
		return move.EffectSpec{}, fmt.Errorf("energize requires a currency")
	}
	return spec, nil
}

func (d creatureDoc) build() (Creature, error) {
	if d.ID == "" {
		return Creature{}, fmt.Errorf("id is required")
	}
	if d.Health <= 0 {
		return Creature{}, fmt.Errorf("health must be positive")
	}
	if len(d.Moves) != engine.MovesPerFighter {
		return Creature{}, fmt.Errorf("has %d moves, want %d", len(d.Moves), engine.MovesPerFighter)
	}
	cr := Creature{
		ID:        d.ID,
		Name:      d.Name,
		MaxHealth: d.Health,
		Speed:     d.Speed,
	}
	if cr.Name == "" {
		cr.Name = d.ID
	}
	copy(cr.Moves[:], d.Moves)
	return cr, nil
}
