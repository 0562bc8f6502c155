package scenario

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/narrate"
	battlegrpc "github.com/louisbranch/skirmish/internal/services/battle/api/grpc/battle"
)

var errNotStarted = errors.New("battle not started")

// localDriver resolves turns in process.
type localDriver struct {
	catalog  *catalog.Catalog
	narrator *narrate.Narrator
	state    engine.State
	started  bool
}

func newLocalDriver(cat *catalog.Catalog, narrator *narrate.Narrator) *localDriver {
	return &localDriver{catalog: cat, narrator: narrator.WithMoves(cat)}
}

func (d *localDriver) start(ctx context.Context, sideA, sideB []string, seed uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := d.catalog.Roster(sideA)
	if err != nil {
		return fmt.Errorf("side A: %w", err)
	}
	b, err := d.catalog.Roster(sideB)
	if err != nil {
		return fmt.Errorf("side B: %w", err)
	}
	state, err := engine.New(a, b, engine.Options{Seed: seed})
	if err != nil {
		return err
	}
	d.state = state
	d.started = true
	return nil
}

func (d *localDriver) turn(ctx context.Context, intentsA, intentsB []engine.Intent) (turnResult, error) {
	if !d.started {
		return turnResult{}, errNotStarted
	}
	if err := ctx.Err(); err != nil {
		return turnResult{}, err
	}
	resolved := d.state.Turn
	next, events, err := engine.ResolveTurn(d.state, intentsA, intentsB)
	if err != nil {
		return turnResult{}, err
	}
	d.state = next
	narrator := d.narrator.WithState(next)
	lines := append([]string{narrator.Turn(resolved)}, narrator.Render(events)...)
	return turnResult{Events: events, Narration: lines}, nil
}

func (d *localDriver) snapshot(context.Context) (snapshot, error) {
	if !d.started {
		return snapshot{}, errNotStarted
	}
	snap := snapshot{Turn: d.state.Turn, Victory: d.state.Victory}
	for slot, f := range d.state.Fighters {
		snap.Health[slot] = f.Health
	}
	for side := range snap.Energy {
		snap.Energy[side] = d.state.Pool(engine.Side(side)).Total()
	}
	return snap, nil
}

func (d *localDriver) close() error {
	return nil
}

// remoteDriver runs the battle through the battle service.
type remoteDriver struct {
	client   *battlegrpc.Client
	locale   string
	battleID string
}

func (d *remoteDriver) start(ctx context.Context, sideA, sideB []string, seed uint64) error {
	b, err := d.client.CreateBattle(ctx, battlegrpc.CreateBattleRequest{
		SideA:  sideA,
		SideB:  sideB,
		Seed:   strconv.FormatUint(seed, 10),
		Locale: d.locale,
	})
	if err != nil {
		return fmt.Errorf("create battle: %w", err)
	}
	d.battleID = b.ID
	return nil
}

func (d *remoteDriver) turn(ctx context.Context, intentsA, intentsB []engine.Intent) (turnResult, error) {
	if d.battleID == "" {
		return turnResult{}, errNotStarted
	}
	resp, err := d.client.SubmitTurn(ctx, battlegrpc.SubmitTurnRequest{
		BattleID: d.battleID,
		IntentsA: intentsA,
		IntentsB: intentsB,
		Locale:   d.locale,
	})
	if err != nil {
		return turnResult{}, fmt.Errorf("submit turn: %w", err)
	}
	return turnResult{Events: resp.Events, Narration: resp.Narration}, nil
}

func (d *remoteDriver) snapshot(ctx context.Context) (snapshot, error) {
	if d.battleID == "" {
		return snapshot{}, errNotStarted
	}
	b, err := d.client.GetBattle(ctx, d.battleID)
	if err != nil {
		return snapshot{}, fmt.Errorf("get battle: %w", err)
	}
	snap := snapshot{Turn: b.Turn, Victory: engine.Victory(b.Victory)}
	for _, f := range b.Fighters {
		if f.Slot >= 0 && f.Slot < engine.SlotCount {
			snap.Health[f.Slot] = f.Health
		}
	}
	for side, pool := range b.Pools {
		for _, amount := range pool {
			snap.Energy[side] += amount
		}
	}
	return snap, nil
}

func (d *remoteDriver) close() error {
	return nil
}
