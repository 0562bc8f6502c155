// Package effect models status effects attached to a fighter.
//
// Effects form a closed sum type: one Effect struct discriminated by Kind
// with a magnitude/duration payload. Set holds a fighter's active effects and
// implements stacking, end-of-turn ticking and the queries the damage
// pipeline relies on. Set methods never modify their receiver.
package effect

import (
	"fmt"
	"strings"
)

// Kind discriminates an effect.
type Kind int

const (
	Stun Kind = iota
	Invulnerable
	Strengthen
	Weaken
	Reduce
	Bleed
	Afflict
	Heal
	Counter
	Reflect
	DestinyBond
	Trap
	Haste
	Slow
	Custom

	kindCount
)

var kindNames = [...]string{
	"stun",
	"invulnerable",
	"strengthen",
	"weaken",
	"reduce",
	"bleed",
	"afflict",
	"heal",
	"counter",
	"reflect",
	"destiny_bond",
	"trap",
	"haste",
	"slow",
	"custom",
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind parses a kind name. Dashes and spaces are accepted in place of
// underscores.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for i, name := range kindNames {
		if name == normalized {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", value)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid effect kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Stackable reports whether repeated applications add instances instead of
// refreshing a single one.
func (k Kind) Stackable() bool {
	switch k {
	case Afflict, Bleed, Heal:
		return true
	default:
		return false
	}
}

// Harmful reports whether a cleanse removes the kind.
func (k Kind) Harmful() bool {
	switch k {
	case Stun, Weaken, Bleed, Afflict, Trap, Slow:
		return true
	default:
		return false
	}
}

// Helpful reports whether a dispel removes the kind.
func (k Kind) Helpful() bool {
	switch k {
	case Invulnerable, Strengthen, Reduce, Heal, Counter, Reflect, DestinyBond, Haste:
		return true
	default:
		return false
	}
}

// Effect is one active instance.
type Effect struct {
	Kind      Kind   `json:"kind"`
	Tag       string `json:"tag,omitempty"`
	Magnitude int    `json:"magnitude"`
	// Remaining is the number of end-of-turn ticks left; 0 expires at the next tick.
	Remaining int    `json:"remaining"`
	Source    string `json:"source,omitempty"`
}

func (e Effect) key() (Kind, string) {
	return e.Kind, e.Tag
}

// StatModifiers are the net stat adjustments derived from active effects.
type StatModifiers struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}
