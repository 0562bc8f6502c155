// Package storage defines persistence contracts for battles and their turn
// journals.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a battle id is already taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrTurnConflict indicates a turn appended out of sequence.
	ErrTurnConflict = errors.New("turn out of sequence")
)

// BattleRecord is the persisted head of one battle.
type BattleRecord struct {
	ID    string
	Seed  uint64
	SideA []string
	SideB []string
	// InitialState and State are JSON encoded engine states.
	InitialState []byte
	State        []byte
	StateHash    string
	Turn         int
	Victory      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TurnRecord is one journal entry of a battle.
type TurnRecord struct {
	BattleID  string
	Turn      int
	StateHash string
	// Payload is the JSON encoded journal entry.
	Payload   []byte
	CreatedAt time.Time
}

// ListBattlesQuery selects one page of battles.
type ListBattlesQuery struct {
	// Filter is an AIP-160 expression over victory, turn, created_at and
	// updated_at.
	Filter    string
	PageSize  int
	PageToken string
}

// BattlePage is one page of battles ordered by id.
type BattlePage struct {
	Battles       []BattleRecord
	NextPageToken string
}

// BattleStore persists battles.
type BattleStore interface {
	PutBattle(ctx context.Context, battle BattleRecord) error
	GetBattle(ctx context.Context, id string) (BattleRecord, error)
	ListBattles(ctx context.Context, query ListBattlesQuery) (BattlePage, error)
}

// TurnStore persists battle journals.
type TurnStore interface {
	// AppendTurn stores the turn and moves the battle head forward in one
	// transaction. The battle's stored turn must equal turn.Turn.
	AppendTurn(ctx context.Context, battle BattleRecord, turn TurnRecord) error
	ListTurns(ctx context.Context, battleID string) ([]TurnRecord, error)
}

// Store is the full persistence surface of the battle service.
type Store interface {
	BattleStore
	TurnStore
	Close() error
}
