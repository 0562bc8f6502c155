package engine

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

const (
	// FightersPerSide is the fixed roster size.
	FightersPerSide = 3
	// SlotCount is the number of global fighter slots.
	SlotCount = 2 * FightersPerSide
	// MovesPerFighter is the fixed move set size.
	MovesPerFighter = 4
)

// Side identifies one of the two teams.
type Side int

const (
	SideA Side = iota
	SideB
)

// String returns "A" or "B".
func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Slots returns the global slots of the side in order.
func (s Side) Slots() [FightersPerSide]int {
	base := int(s) * FightersPerSide
	return [FightersPerSide]int{base, base + 1, base + 2}
}

// SideOf returns the side owning a global slot.
func SideOf(slot int) Side {
	return Side(slot / FightersPerSide)
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < SlotCount
}

// FighterSpec describes a fighter at battle construction.
type FighterSpec struct {
	CreatureID string
	Name       string
	MaxHealth  int
	// Health defaults to MaxHealth when zero.
	Health int
	Speed  int
	Moves  []move.Move
}

// Roster is one side's fighters in slot order.
type Roster []FighterSpec

// Fighter is one creature in battle.
type Fighter struct {
	ID         string                     `json:"id"`
	CreatureID string                     `json:"creature_id"`
	Name       string                     `json:"name"`
	Slot       int                        `json:"slot"`
	Health     int                        `json:"health"`
	MaxHealth  int                        `json:"max_health"`
	Speed      int                        `json:"speed"`
	Moves      [MovesPerFighter]move.Move `json:"moves"`
	Cooldowns  [MovesPerFighter]int       `json:"cooldowns"`
	Effects    effect.Set                 `json:"effects"`
}

// Alive reports whether the fighter has health left.
func (f Fighter) Alive() bool {
	return f.Health > 0
}

// Side returns the fighter's team.
func (f Fighter) Side() Side {
	return SideOf(f.Slot)
}

// Stats derives the fighter's stat modifiers from its effects.
func (f Fighter) Stats() effect.StatModifiers {
	return f.Effects.Modifiers()
}

// EffectiveSpeed is base speed plus temporary modifiers.
func (f Fighter) EffectiveSpeed() int {
	return f.Speed + f.Stats().Speed
}

func (f Fighter) clone() Fighter {
	f.Effects = f.Effects.Clone()
	return f
}

func newFighter(spec FighterSpec, slot int) (Fighter, error) {
	if spec.CreatureID == "" {
		return Fighter{}, fmt.Errorf("%w: slot %d has no creature id", ErrInvalidRoster, slot)
	}
	if spec.MaxHealth <= 0 {
		return Fighter{}, fmt.Errorf("%w: %s max health must be positive", ErrInvalidRoster, spec.CreatureID)
	}
	if spec.Health < 0 || spec.Health > spec.MaxHealth {
		return Fighter{}, fmt.Errorf("%w: %s health %d outside 0-%d", ErrInvalidRoster, spec.CreatureID, spec.Health, spec.MaxHealth)
	}
	if len(spec.Moves) != MovesPerFighter {
		return Fighter{}, fmt.Errorf("%w: %s has %d moves, want %d", ErrInvalidRoster, spec.CreatureID, len(spec.Moves), MovesPerFighter)
	}

	f := Fighter{
		ID:         fmt.Sprintf("%s#%d", spec.CreatureID, slot),
		CreatureID: spec.CreatureID,
		Name:       spec.Name,
		Slot:       slot,
		Health:     spec.Health,
		MaxHealth:  spec.MaxHealth,
		Speed:      spec.Speed,
	}
	if f.Name == "" {
		f.Name = spec.CreatureID
	}
	if f.Health == 0 {
		f.Health = f.MaxHealth
	}
	for i, m := range spec.Moves {
		if err := m.Validate(); err != nil {
			return Fighter{}, fmt.Errorf("%w: %s move %d: %w", ErrInvalidRoster, spec.CreatureID, i, err)
		}
		f.Moves[i] = m
	}
	return f, nil
}
