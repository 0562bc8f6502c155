package engine

import (
	"fmt"

	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/rng"
)

// Victory is the battle outcome.
type Victory string

const (
	Undetermined Victory = "undetermined"
	SideAWins    Victory = "side_a"
	SideBWins    Victory = "side_b"
	Draw         Victory = "draw"
)

// Decided reports whether the battle has ended.
func (v Victory) Decided() bool {
	return v != "" && v != Undetermined
}

// Options configures a new battle.
type Options struct {
	Seed uint64
	// StartingPools seeds each side's pool, indexed by Side.
	StartingPools [2]energy.Pool
}

// State is the battle aggregate. Treat it as a value: ResolveTurn never
// modifies the state it is given.
type State struct {
	Fighters [SlotCount]Fighter `json:"fighters"`
	Pools    [2]energy.Pool     `json:"pools"`
	Turn     int                `json:"turn"`
	Victory  Victory            `json:"victory"`
	Seed     uint64             `json:"seed"`
	RNG      rng.Source         `json:"rng"`
}

// New builds a battle from two rosters of exactly three fighters.
func New(a, b Roster, opts Options) (State, error) {
	s := State{
		Turn:    1,
		Victory: Undetermined,
		Seed:    opts.Seed,
		RNG:     rng.New(opts.Seed),
		Pools:   opts.StartingPools,
	}
	for side, roster := range [2]Roster{a, b} {
		if len(roster) != FightersPerSide {
			return State{}, fmt.Errorf("%w: side %s has %d fighters, want %d", ErrInvalidRoster, Side(side), len(roster), FightersPerSide)
		}
		for i, spec := range roster {
			slot := side*FightersPerSide + i
			f, err := newFighter(spec, slot)
			if err != nil {
				return State{}, err
			}
			s.Fighters[slot] = f
		}
	}
	for side, pool := range s.Pools {
		for c, v := range pool {
			if v < 0 {
				return State{}, fmt.Errorf("%w: side %s starts with negative %s", ErrInvalidRoster, Side(side), energy.Currency(c))
			}
		}
	}
	return s, nil
}

// MustNew is New for rosters built from a trusted catalog. It panics on a
// malformed roster.
func MustNew(a, b Roster, opts Options) State {
	s, err := New(a, b, opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Clone returns a deep copy that shares only immutable move definitions.
func (s State) Clone() State {
	out := s
	for i := range out.Fighters {
		out.Fighters[i] = s.Fighters[i].clone()
	}
	return out
}

// Pool returns a side's energy pool.
func (s State) Pool(side Side) energy.Pool {
	return s.Pools[side]
}

// AliveCount counts a side's living fighters.
func (s State) AliveCount(side Side) int {
	n := 0
	for _, slot := range side.Slots() {
		if s.Fighters[slot].Alive() {
			n++
		}
	}
	return n
}

func (s State) aliveOn(side Side) []int {
	var slots []int
	for _, slot := range side.Slots() {
		if s.Fighters[slot].Alive() {
			slots = append(slots, slot)
		}
	}
	return slots
}

func (s State) aliveAll() []int {
	return append(s.aliveOn(SideA), s.aliveOn(SideB)...)
}
