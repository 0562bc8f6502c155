// Package move defines immutable move catalog entries.
//
// A Move carries its energy cost, cooldown, headline target shape, tag set
// and an ordered list of effect specs. Moves are shared between fighters and
// must never be modified after construction.
package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/skirmish/internal/battle/energy"
)

// ErrInvalidMove reports a malformed catalog entry.
var ErrInvalidMove = errors.New("invalid move")

// TargetShape is the headline targeting rule of a move.
type TargetShape int

const (
	Self TargetShape = iota
	OneEnemy
	AllEnemies
	OneAlly
	AllAllies
	AllCharacters

	shapeCount
)

var shapeNames = [...]string{"self", "one_enemy", "all_enemies", "one_ally", "all_allies", "all_characters"}

// String returns the snake_case shape name.
func (t TargetShape) String() string {
	if t < 0 || t >= shapeCount {
		return fmt.Sprintf("shape(%d)", int(t))
	}
	return shapeNames[t]
}

// Valid reports whether t is a known shape.
func (t TargetShape) Valid() bool {
	return t >= 0 && t < shapeCount
}

// Single reports whether the shape names exactly one declared target.
func (t TargetShape) Single() bool {
	return t == OneEnemy || t == OneAlly
}

// ParseTargetShape parses a shape name.
func ParseTargetShape(value string) (TargetShape, error) {
	normalized := normalize(value)
	for i, name := range shapeNames {
		if name == normalized {
			return TargetShape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target shape %q", value)
}

// MarshalText encodes the shape by name.
func (t TargetShape) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a shape name.
func (t *TargetShape) UnmarshalText(text []byte) error {
	parsed, err := ParseTargetShape(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Move is a catalog entry.
type Move struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Cost     energy.Cost  `json:"cost"`
	Cooldown int          `json:"cooldown"`
	Target   TargetShape  `json:"target"`
	Tags     TagSet       `json:"tags"`
	Effects  []EffectSpec `json:"effects"`
}

// Has reports whether the move carries tag.
func (m Move) Has(tag Tag) bool {
	return m.Tags.Has(tag)
}

// Prioritized reports whether the move resolves ahead of regular actions.
func (m Move) Prioritized() bool {
	return m.Tags.Has(Priority) || m.Tags.Has(Instant)
}

// Validate checks the entry for construction-time programmer errors.
func (m Move) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMove)
	}
	if !m.Cost.Valid() {
		return fmt.Errorf("%w: %s has a negative cost", ErrInvalidMove, m.ID)
	}
	if m.Cooldown < 0 {
		return fmt.Errorf("%w: %s has a negative cooldown", ErrInvalidMove, m.ID)
	}
	if !m.Target.Valid() {
		return fmt.Errorf("%w: %s has unknown target shape %d", ErrInvalidMove, m.ID, int(m.Target))
	}
	if len(m.Effects) == 0 {
		return fmt.Errorf("%w: %s has no effects", ErrInvalidMove, m.ID)
	}
	for i, spec := range m.Effects {
		if err := spec.validate(); err != nil {
			return fmt.Errorf("%w: %s effect %d: %v", ErrInvalidMove, m.ID, i, err)
		}
	}
	return nil
}

func normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer("-", "_", " ", "_").Replace(value)
}
