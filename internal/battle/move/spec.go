package move

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/effect"
	"github.com/louisbranch/skirmish/internal/battle/energy"
)

// Op is the operation an effect spec performs.
type Op int

const (
	OpDamage Op = iota
	OpHeal
	OpApply
	OpCleanse
	OpDispel
	OpEnergize

	opCount
)

var opNames = [...]string{"damage", "heal", "apply", "cleanse", "dispel", "energize"}

// String returns the op name.
func (o Op) String() string {
	if o < 0 || o >= opCount {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp parses an op name.
func ParseOp(value string) (Op, error) {
	normalized := normalize(value)
	for i, name := range opNames {
		if name == normalized {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect op %q", value)
}

// MarshalText encodes the op by name.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an op name.
func (o *Op) UnmarshalText(text []byte) error {
	parsed, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Recipient selects who an effect spec lands on, relative to the user.
type Recipient int

const (
	// Targets uses the move's resolved headline targets.
	Targets Recipient = iota
	User
	UserAllies
	UserEnemies

	recipientCount
)

var recipientNames = [...]string{"targets", "user", "user_allies", "user_enemies"}

// String returns the recipient name.
func (r Recipient) String() string {
	if r < 0 || r >= recipientCount {
		return fmt.Sprintf("recipient(%d)", int(r))
	}
	return recipientNames[r]
}

// ParseRecipient parses a recipient name. An empty value means Targets.
func ParseRecipient(value string) (Recipient, error) {
	normalized := normalize(value)
	if normalized == "" {
		return Targets, nil
	}
	for i, name := range recipientNames {
		if name == normalized {
			return Recipient(i), nil
		}
	}
	return 0, fmt.Errorf("unknown recipient %q", value)
}

// MarshalText encodes the recipient by name.
func (r Recipient) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a recipient name.
func (r *Recipient) UnmarshalText(text []byte) error {
	parsed, err := ParseRecipient(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// EffectSpec is one template applied when a move resolves.
type EffectSpec struct {
	Op     Op        `json:"op"`
	Target Recipient `json:"target"`
	// Amount is damage, healing, effect magnitude or energy granted.
	Amount int `json:"amount"`
	// Kind and Duration apply to OpApply.
	Kind     effect.Kind `json:"kind"`
	Duration int         `json:"duration"`
	// Tag names the custom effect for Kind Custom.
	Tag string `json:"tag,omitempty"`
	// Chance is the percent chance an OpApply lands; 0 means always.
	Chance   int             `json:"chance,omitempty"`
	Currency energy.Currency `json:"currency"`
}

func (s EffectSpec) validate() error {
	if s.Op < 0 || s.Op >= opCount {
		return fmt.Errorf("unknown op %d", int(s.Op))
	}
	if s.Target < 0 || s.Target >= recipientCount {
		return fmt.Errorf("unknown recipient %d", int(s.Target))
	}
	if s.Amount < 0 {
		return fmt.Errorf("negative amount %d", s.Amount)
	}
	if s.Chance < 0 || s.Chance > 100 {
		return fmt.Errorf("chance %d outside 0-100", s.Chance)
	}
	switch s.Op {
	case OpApply:
		if !s.Kind.Valid() {
			return fmt.Errorf("apply requires a valid kind")
		}
		if s.Duration < 0 {
			return fmt.Errorf("negative duration %d", s.Duration)
		}
		if s.Kind == effect.Custom && s.Tag == "" {
			return fmt.Errorf("custom effects require a tag")
		}
	case OpEnergize:
		if !s.Currency.Valid() {
			return fmt.Errorf("energize requires a valid currency")
		}
	}
	return nil
}

// NeedsRoll reports whether an apply spec lands on a chance roll.
func (s EffectSpec) NeedsRoll() bool {
	return s.Op == OpApply && s.Chance > 0 && s.Chance < 100
}
