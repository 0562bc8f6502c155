// Package narrate renders battle events as localized sentences.
package narrate

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/move"
	i18ncatalog "github.com/louisbranch/skirmish/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const namespace = "battle"

// MoveLookup resolves a move id to its catalog entry.
type MoveLookup interface {
	Move(id string) (move.Move, error)
}

// Narrator turns events into text for one locale.
type Narrator struct {
	locale  string
	printer *message.Printer
	names   map[string]string
	moves   MoveLookup
}

// New returns a narrator for the best match of the given locale
// preferences, falling back to en-US.
func New(preferences ...string) (*Narrator, error) {
	return NewFromBundle(i18ncatalog.Default(), preferences...)
}

// NewFromBundle is New over an explicit message bundle.
func NewFromBundle(bundle *i18ncatalog.Bundle, preferences ...string) (*Narrator, error) {
	builder, err := bundle.Builder(namespace)
	if err != nil {
		return nil, fmt.Errorf("build narration catalog: %w", err)
	}
	locale := bundle.Match(preferences...)
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Narrator{
		locale:  locale,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// WithState returns a copy that names fighters by their display name in s
// instead of their slot id.
func (n *Narrator) WithState(s engine.State) *Narrator {
	cp := *n
	cp.names = make(map[string]string, len(s.Fighters))
	for _, f := range s.Fighters {
		cp.names[f.ID] = f.Name
	}
	return &cp
}

// WithMoves returns a copy that prints move names from moves.
func (n *Narrator) WithMoves(moves MoveLookup) *Narrator {
	cp := *n
	cp.moves = moves
	return &cp
}

// Locale is the negotiated locale.
func (n *Narrator) Locale() string {
	return n.locale
}

// Render returns one line per event. Events whose kind is unknown render
// their Message field verbatim.
func (n *Narrator) Render(events []engine.Event) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, n.Line(ev))
	}
	return lines
}

// Turn renders a turn heading.
func (n *Narrator) Turn(turn int) string {
	return n.printer.Sprintf("battle.turn", turn)
}

// Line renders a single event.
func (n *Narrator) Line(ev engine.Event) string {
	p := n.printer
	switch ev.Kind {
	case engine.EventMoveUsed:
		return p.Sprintf("battle.move_used", n.fighter(ev.ActorID), n.move(ev.Move))
	case engine.EventDamageDealt:
		if ev.Blocked {
			return p.Sprintf("battle.blocked", n.fighter(ev.TargetID))
		}
		if ev.Effect != "" {
			return p.Sprintf("battle.damage_dealt.effect", n.fighter(ev.TargetID), ev.Amount, n.effect(ev.Effect))
		}
		return p.Sprintf("battle.damage_dealt", n.fighter(ev.TargetID), ev.Amount)
	case engine.EventHealed:
		return p.Sprintf("battle.healed", n.fighter(ev.TargetID), ev.Amount)
	case engine.EventEffectApplied:
		if ev.Blocked {
			return p.Sprintf("battle.blocked", n.fighter(ev.TargetID))
		}
		return p.Sprintf("battle.effect_applied", n.fighter(ev.TargetID), n.effect(ev.Effect))
	case engine.EventEffectExpired:
		return p.Sprintf("battle.effect_expired", n.fighter(ev.TargetID), n.effect(ev.Effect))
	case engine.EventActionRejected:
		return p.Sprintf("battle.action_rejected", n.fighter(ev.ActorID), p.Sprintf("battle.reject."+string(ev.Reason)))
	case engine.EventFighterFainted:
		return p.Sprintf("battle.fighter_fainted", n.fighter(ev.TargetID))
	case engine.EventVictoryDeclared:
		return p.Sprintf("battle.victory." + string(ev.Victory))
	default:
		return ev.Message
	}
}

func (n *Narrator) effect(kind string) string {
	return n.printer.Sprintf("battle.effect." + kind)
}

func (n *Narrator) fighter(id string) string {
	if name, ok := n.names[id]; ok && name != "" {
		return name
	}
	return id
}

func (n *Narrator) move(id string) string {
	if n.moves == nil {
		return id
	}
	m, err := n.moves.Move(id)
	if err != nil || m.Name == "" {
		return id
	}
	return m.Name
}
