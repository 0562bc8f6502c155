// Package sqlite provides the SQLite-backed battle store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/louisbranch/skirmish/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/skirmish/internal/storage"
	"github.com/louisbranch/skirmish/internal/storage/filter"
	"github.com/louisbranch/skirmish/internal/storage/sqlite/migrations"
)

const battleColumns = `id, seed, side_a, side_b, initial_state, state, state_hash, turn, victory, created_at, updated_at`

// Store persists battles and their turn journals in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite battle store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutBattle inserts a new battle.
func (s *Store) PutBattle(ctx context.Context, battle storage.BattleRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	battle.ID = strings.TrimSpace(battle.ID)
	if battle.ID == "" {
		return fmt.Errorf("battle id is required")
	}
	if len(battle.State) == 0 || len(battle.InitialState) == 0 {
		return fmt.Errorf("battle state is required")
	}
	if battle.CreatedAt.IsZero() {
		battle.CreatedAt = s.now()
	}
	if battle.UpdatedAt.IsZero() {
		battle.UpdatedAt = battle.CreatedAt
	}
	sideA, err := json.Marshal(battle.SideA)
	if err != nil {
		return fmt.Errorf("encode side a: %w", err)
	}
	sideB, err := json.Marshal(battle.SideB)
	if err != nil {
		return fmt.Errorf("encode side b: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO battles (`+battleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		battle.ID,
		int64(battle.Seed),
		string(sideA),
		string(sideB),
		battle.InitialState,
		battle.State,
		battle.StateHash,
		battle.Turn,
		battle.Victory,
		toMillis(battle.CreatedAt),
		toMillis(battle.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put battle: %w", err)
	}
	return nil
}

// GetBattle returns one battle by id.
func (s *Store) GetBattle(ctx context.Context, id string) (storage.BattleRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.BattleRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.BattleRecord{}, fmt.Errorf("battle id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+battleColumns+` FROM battles WHERE id = ?`, id)
	battle, err := scanBattle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BattleRecord{}, storage.ErrNotFound
		}
		return storage.BattleRecord{}, fmt.Errorf("get battle: %w", err)
	}
	return battle, nil
}

// ListBattles returns one page of battles ordered by id.
func (s *Store) ListBattles(ctx context.Context, query storage.ListBattlesQuery) (storage.BattlePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.BattlePage{}, err
	}
	if query.PageSize <= 0 {
		return storage.BattlePage{}, fmt.Errorf("page size must be greater than zero")
	}
	cond, err := filter.ParseBattleFilter(query.Filter)
	if err != nil {
		return storage.BattlePage{}, err
	}

	var where []string
	var params []any
	if !cond.Empty() {
		where = append(where, cond.Clause)
		params = append(params, cond.Params...)
	}
	if token := strings.TrimSpace(query.PageToken); token != "" {
		where = append(where, "id > ?")
		params = append(params, token)
	}
	stmt := `SELECT ` + battleColumns + ` FROM battles`
	if len(where) > 0 {
		stmt += ` WHERE ` + strings.Join(where, " AND ")
	}
	stmt += ` ORDER BY id ASC LIMIT ?`
	params = append(params, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, stmt, params...)
	if err != nil {
		return storage.BattlePage{}, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	page := storage.BattlePage{Battles: make([]storage.BattleRecord, 0, query.PageSize)}
	for rows.Next() {
		battle, err := scanBattle(rows)
		if err != nil {
			return storage.BattlePage{}, fmt.Errorf("list battles: %w", err)
		}
		page.Battles = append(page.Battles, battle)
	}
	if err := rows.Err(); err != nil {
		return storage.BattlePage{}, fmt.Errorf("list battles: %w", err)
	}
	if len(page.Battles) > query.PageSize {
		page.NextPageToken = page.Battles[query.PageSize-1].ID
		page.Battles = page.Battles[:query.PageSize]
	}
	return page, nil
}

// AppendTurn stores one journal entry and advances the battle head.
func (s *Store) AppendTurn(ctx context.Context, battle storage.BattleRecord, turn storage.TurnRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if battle.ID == "" || turn.BattleID != battle.ID {
		return fmt.Errorf("turn battle id %q does not match battle %q", turn.BattleID, battle.ID)
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now()
	}
	if battle.UpdatedAt.IsZero() {
		battle.UpdatedAt = turn.CreatedAt
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append turn: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT turn FROM battles WHERE id = ?`, battle.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read battle turn: %w", err)
	}
	if current != turn.Turn {
		return fmt.Errorf("%w: battle %s is at turn %d, got turn %d", storage.ErrTurnConflict, battle.ID, current, turn.Turn)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO battle_turns (battle_id, turn, state_hash, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		turn.BattleID, turn.Turn, turn.StateHash, turn.Payload, toMillis(turn.CreatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: turn %d already recorded", storage.ErrTurnConflict, turn.Turn)
		}
		return fmt.Errorf("insert turn: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE battles SET state = ?, state_hash = ?, turn = ?, victory = ?, updated_at = ? WHERE id = ?`,
		battle.State, battle.StateHash, battle.Turn, battle.Victory, toMillis(battle.UpdatedAt), battle.ID,
	); err != nil {
		return fmt.Errorf("update battle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append turn: %w", err)
	}
	return nil
}

// ListTurns returns a battle's journal in turn order.
func (s *Store) ListTurns(ctx context.Context, battleID string) ([]storage.TurnRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT battle_id, turn, state_hash, payload, created_at
		   FROM battle_turns
		  WHERE battle_id = ?
		  ORDER BY turn ASC`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []storage.TurnRecord
	for rows.Next() {
		var turn storage.TurnRecord
		var createdAt int64
		if err := rows.Scan(&turn.BattleID, &turn.Turn, &turn.StateHash, &turn.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("list turns: %w", err)
		}
		turn.CreatedAt = fromMillis(createdAt)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return turns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBattle(row rowScanner) (storage.BattleRecord, error) {
	var battle storage.BattleRecord
	var seed, createdAt, updatedAt int64
	var sideA, sideB string
	if err := row.Scan(
		&battle.ID,
		&seed,
		&sideA,
		&sideB,
		&battle.InitialState,
		&battle.State,
		&battle.StateHash,
		&battle.Turn,
		&battle.Victory,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.BattleRecord{}, err
	}
	if err := json.Unmarshal([]byte(sideA), &battle.SideA); err != nil {
		return storage.BattleRecord{}, fmt.Errorf("decode side a: %w", err)
	}
	if err := json.Unmarshal([]byte(sideB), &battle.SideB); err != nil {
		return storage.BattleRecord{}, fmt.Errorf("decode side b: %w", err)
	}
	battle.Seed = uint64(seed)
	battle.CreatedAt = fromMillis(createdAt)
	battle.UpdatedAt = fromMillis(updatedAt)
	return battle, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
