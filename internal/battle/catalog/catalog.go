// Package catalog loads creature and move definitions from YAML.
//
// The engine treats the catalog as an already-validated lookup table, so
// every definition is checked here at load time: moves must pass
// move.Validate and every creature must name exactly four known moves.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/move"
)

var (
	// ErrUnknownCreature reports a creature id missing from the catalog.
	ErrUnknownCreature = errors.New("unknown creature")
	// ErrUnknownMove reports a move id missing from the catalog.
	ErrUnknownMove = errors.New("unknown move")
	// ErrInvalidCatalog reports a malformed catalog document.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

//go:embed default.yaml
var defaultYAML []byte

// Creature is a fighter template.
type Creature struct {
	ID        string
	Name      string
	MaxHealth int
	Speed     int
	Moves     [engine.MovesPerFighter]string
}

// Catalog is an immutable set of moves and creatures.
type Catalog struct {
	moves     map[string]move.Move
	creatures map[string]Creature
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML)
})

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// LoadFile parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		moves:     make(map[string]move.Move, len(doc.Moves)),
		creatures: make(map[string]Creature, len(doc.Creatures)),
	}
	for i, md := range doc.Moves {
		m, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %w", ErrInvalidCatalog, i, md.ID, err)
		}
		if _, dup := c.moves[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate move %s", ErrInvalidCatalog, m.ID)
		}
		c.moves[m.ID] = m
	}
	for i, cd := range doc.Creatures {
		cr, err := cd.build()
		if err != nil {
			return nil, fmt.Errorf("%w: creature %d (%s): %w", ErrInvalidCatalog, i, cd.ID, err)
		}
		if _, dup := c.creatures[cr.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate creature %s", ErrInvalidCatalog, cr.ID)
		}
		for _, id := range cr.Moves {
			if _, ok := c.moves[id]; !ok {
				return nil, fmt.Errorf("%w: creature %s: %w %q", ErrInvalidCatalog, cr.ID, ErrUnknownMove, id)
			}
		}
		c.creatures[cr.ID] = cr
	}
	return c, nil
}

// Move returns a move by id.
func (c *Catalog) Move(id string) (move.Move, error) {
	m, ok := c.moves[id]
	if !ok {
		return move.Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, id)
	}
	return m, nil
}

// Creature returns a creature template by id.
func (c *Catalog) Creature(id string) (Creature, error) {
	cr, ok := c.creatures[id]
	if !ok {
		return Creature{}, fmt.Errorf("%w: %q", ErrUnknownCreature, id)
	}
	return cr, nil
}

// Fighter builds the engine template for a creature.
func (c *Catalog) Fighter(id string) (engine.FighterSpec, error) {
	cr, err := c.Creature(id)
	if err != nil {
		return engine.FighterSpec{}, err
	}
	spec := engine.FighterSpec{
		CreatureID: cr.ID,
		Name:       cr.Name,
		MaxHealth:  cr.MaxHealth,
		Speed:      cr.Speed,
		Moves:      make([]move.Move, 0, len(cr.Moves)),
	}
	for _, moveID := range cr.Moves {
		m, err := c.Move(moveID)
		if err != nil {
			return engine.FighterSpec{}, err
		}
		spec.Moves = append(spec.Moves, m)
	}
	return spec, nil
}

// Roster builds one side's roster from creature ids in slot order.
func (c *Catalog) Roster(ids []string) (engine.Roster, error) {
	roster := make(engine.Roster, 0, len(ids))
	for _, id := range ids {
		spec, err := c.Fighter(id)
		if err != nil {
			return nil, err
		}
		roster = append(roster, spec)
	}
	return roster, nil
}
