package battle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/skirmish/internal/battle/energy"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/storage"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Requests and responses travel as google.protobuf.Struct messages whose
// fields mirror the JSON encoding of the types below. 64-bit values are
// carried as decimal strings since Struct numbers are doubles.

// CreateBattleRequest starts a battle from two rosters of creature ids.
type CreateBattleRequest struct {
	SideA []string `json:"side_a"`
	SideB []string `json:"side_b"`
	// Seed is optional; a random seed is drawn when empty.
	Seed   string `json:"seed,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// SubmitTurnRequest resolves one turn of a battle.
type SubmitTurnRequest struct {
	BattleID string `json:"battle_id"`
	// Turn, when set, must equal the battle's current turn.
	Turn     int             `json:"turn,omitempty"`
	IntentsA []engine.Intent `json:"intents_a,omitempty"`
	IntentsB []engine.Intent `json:"intents_b,omitempty"`
	Locale   string          `json:"locale,omitempty"`
}

// GetBattleRequest fetches one battle.
type GetBattleRequest struct {
	BattleID string `json:"battle_id"`
	Locale   string `json:"locale,omitempty"`
}

// ListBattlesRequest pages through battles.
type ListBattlesRequest struct {
	Filter    string `json:"filter,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// ReplayBattleRequest re-resolves a battle's journal.
type ReplayBattleRequest struct {
	BattleID string `json:"battle_id"`
	Locale   string `json:"locale,omitempty"`
}

// FighterView is the public state of one fighter.
type FighterView struct {
	Slot       int          `json:"slot"`
	ID         string       `json:"id"`
	CreatureID string       `json:"creature_id"`
	Name       string       `json:"name"`
	Health     int          `json:"health"`
	MaxHealth  int          `json:"max_health"`
	Cooldowns  []int        `json:"cooldowns"`
	Effects    []EffectView `json:"effects,omitempty"`
	Moves      []string     `json:"moves"`
}

// EffectView is one active effect.
type EffectView struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
	Remaining int    `json:"remaining"`
	Tag       string `json:"tag,omitempty"`
}

// Battle is the public view of a stored battle.
type Battle struct {
	ID        string            `json:"id"`
	Seed      string            `json:"seed"`
	SideA     []string          `json:"side_a"`
	SideB     []string          `json:"side_b"`
	Turn      int               `json:"turn"`
	Victory   string            `json:"victory"`
	StateHash string            `json:"state_hash"`
	Pools     [2]map[string]int `json:"pools"`
	Fighters  []FighterView     `json:"fighters,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BattleResponse wraps a single battle.
type BattleResponse struct {
	Battle Battle `json:"battle"`
}

// SubmitTurnResponse carries the new battle head and what happened.
type SubmitTurnResponse struct {
	Battle    Battle         `json:"battle"`
	Events    []engine.Event `json:"events"`
	Narration []string       `json:"narration"`
}

// ListBattlesResponse is one page of battles without fighter detail.
type ListBattlesResponse struct {
	Battles       []Battle `json:"battles"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

// ReplayBattleResponse reports a successful journal replay.
type ReplayBattleResponse struct {
	Battle Battle `json:"battle"`
	Turns  int    `json:"turns"`
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func parseSeed(value string) (uint64, error) {
	seed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed %q: %w", value, err)
	}
	return seed, nil
}

func poolView(p energy.Pool) map[string]int {
	out := make(map[string]int, len(p))
	for i, amount := range p {
		out[energy.Currency(i).String()] = amount
	}
	return out
}

func battleView(record storage.BattleRecord, s *engine.State) Battle {
	view := Battle{
		ID:        record.ID,
		Seed:      formatSeed(record.Seed),
		SideA:     record.SideA,
		SideB:     record.SideB,
		Turn:      record.Turn,
		Victory:   record.Victory,
		StateHash: record.StateHash,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if s == nil {
		return view
	}
	view.Pools = [2]map[string]int{poolView(s.Pools[engine.SideA]), poolView(s.Pools[engine.SideB])}
	view.Fighters = make([]FighterView, 0, len(s.Fighters))
	for _, f := range s.Fighters {
		fv := FighterView{
			Slot:       f.Slot,
			ID:         f.ID,
			CreatureID: f.CreatureID,
			Name:       f.Name,
			Health:     f.Health,
			MaxHealth:  f.MaxHealth,
			Cooldowns:  f.Cooldowns[:],
			Moves:      make([]string, 0, len(f.Moves)),
		}
		for _, m := range f.Moves {
			fv.Moves = append(fv.Moves, m.ID)
		}
		for _, e := range f.Effects {
			fv.Effects = append(fv.Effects, EffectView{
				Kind:      e.Kind.String(),
				Magnitude: e.Magnitude,
				Remaining: e.Remaining,
				Tag:       e.Tag,
			})
		}
		view.Fighters = append(view.Fighters, fv)
	}
	return view
}
