// Package battle implements the skirmish.battle.v1.BattleService gRPC API.
package battle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/skirmish/internal/battle/catalog"
	"github.com/louisbranch/skirmish/internal/battle/engine"
	"github.com/louisbranch/skirmish/internal/battle/journal"
	"github.com/louisbranch/skirmish/internal/battle/narrate"
	"github.com/louisbranch/skirmish/internal/battle/replay"
	"github.com/louisbranch/skirmish/internal/id"
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/platform/grpc/pagination"
	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/storage"
	"github.com/louisbranch/skirmish/internal/storage/filter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultListBattlesPageSize = 20
	maxListBattlesPageSize     = 100

	instrumentationName = "github.com/louisbranch/skirmish/internal/services/battle"
)

// Service exposes BattleService operations over a battle store.
type Service struct {
	store   storage.Store
	catalog *catalog.Catalog
	locks   keyedMutex
	clock   func() time.Time
	newID   func() (string, error)
	newSeed func() (uint64, error)
	tracer  trace.Tracer
	logger  *log.Logger
}

var _ BattleServiceServer = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides battle id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) { s.newID = newID }
}

// WithSeedSource overrides the seed used when a request has none.
func WithSeedSource(newSeed func() (uint64, error)) Option {
	return func(s *Service) { s.newSeed = newSeed }
}

// WithLogger sets the logger for internal failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a battle service backed by store and the creature
// catalog.
func NewService(store storage.Store, cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: cat,
		clock:   time.Now,
		newID:   id.NewID,
		newSeed: random.NewSeed,
		tracer:  otel.Tracer(instrumentationName),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBattle implements BattleServiceServer.
func (s *Service) CreateBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateBattleRequest
	return s.serve(ctx, methodCreateBattle, in, &req, func(ctx context.Context) (any, error) {
		battle, err := s.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return BattleResponse{Battle: battle}, nil
	}, func() string { return req.Locale })
}

// SubmitTurn implements BattleServiceServer.
func (s *Service) SubmitTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SubmitTurnRequest
	return s.serve(ctx, methodSubmitTurn, in, &req, func(ctx context.Context) (any, error) {
		return s.Submit(ctx, req)
	}, func() string { return req.Locale })
}

// GetBattle implements BattleServiceServer.
func (s *Service) GetBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GetBattleRequest
	return s.serve(ctx, methodGetBattle, in, &req, func(ctx context.Context) (any, error) {
		battle, err := s.Get(ctx, req.BattleID)
		if err != nil {
			return nil, err
		}
		return BattleResponse{Battle: battle}, nil
	}, func() string { return req.Locale })
}

// ListBattles implements BattleServiceServer.
func (s *Service) ListBattles(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListBattlesRequest
	return s.serve(ctx, methodListBattles, in, &req, func(ctx context.Context) (any, error) {
		return s.List(ctx, req)
	}, func() string { return req.Locale })
}

// ReplayBattle implements BattleServiceServer.
func (s *Service) ReplayBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ReplayBattleRequest
	return s.serve(ctx, methodReplayBattle, in, &req, func(ctx context.Context) (any, error) {
		return s.Replay(ctx, req.BattleID)
	}, func() string { return req.Locale })
}

// serve decodes the request, runs call inside a span and converts the
// result or error back to the wire.
func (s *Service) serve(ctx context.Context, method string, in *structpb.Struct, req any, call func(context.Context) (any, error), locale func() string) (*structpb.Struct, error) {
	if s == nil || s.store == nil || s.catalog == nil {
		return nil, apperrors.GRPCStatus(apperrors.New(apperrors.CodeUnknown, "battle service is not configured"), "")
	}
	ctx, span := s.tracer.Start(ctx, "BattleService/"+method)
	defer span.End()
	if err := fromStruct(in, req); err != nil {
		derr := apperrors.WithMetadata(apperrors.CodeInvalidArgument, err.Error(), map[string]string{"Detail": err.Error()})
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, apperrors.GRPCStatus(derr, requestLocale(ctx, ""))
	}

	resp, err := call(ctx)
	if err != nil {
		derr := domainError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(derr.Code))
		if derr.Code == apperrors.CodeUnknown {
			s.logger.Printf("battle %s: %v", method, err)
		}
		return nil, apperrors.GRPCStatus(derr, requestLocale(ctx, locale()))
	}
	out, err := toStruct(resp)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, apperrors.GRPCStatus(err, "")
	}
	return out, nil
}

// Create starts and stores a new battle.
func (s *Service) Create(ctx context.Context, req CreateBattleRequest) (Battle, error) {
	rosters := [2]engine.Roster{}
	for side, ids := range [2][]string{req.SideA, req.SideB} {
		if len(ids) != engine.FightersPerSide {
			return Battle{}, apperrors.Wrap(apperrors.CodeBattleInvalidRoster,
				fmt.Sprintf("side %s has %d creatures", engine.Side(side), len(ids)), engine.ErrInvalidRoster)
		}
		for _, creatureID := range ids {
			if _, err := s.catalog.Creature(creatureID); err != nil {
				return Battle{}, apperrors.WrapWithMetadata(apperrors.CodeCatalogUnknownCreature,
					err.Error(), map[string]string{"Creature": creatureID}, err)
			}
		}
		roster, err := s.catalog.Roster(ids)
		if err != nil {
			return Battle{}, err
		}
		rosters[side] = roster
	}

	var seed uint64
	var err error
	if strings.TrimSpace(req.Seed) != "" {
		seed, err = parseSeed(strings.TrimSpace(req.Seed))
		if err != nil {
			return Battle{}, apperrors.WrapWithMetadata(apperrors.CodeInvalidArgument, err.Error(),
				map[string]string{"Detail": err.Error()}, err)
		}
	} else if seed, err = s.newSeed(); err != nil {
		return Battle{}, err
	}

	state, err := engine.New(rosters[0], rosters[1], engine.Options{Seed: seed})
	if err != nil {
		return Battle{}, err
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return Battle{}, fmt.Errorf("encode state: %w", err)
	}
	hash, err := journal.StateHash(state)
	if err != nil {
		return Battle{}, err
	}
	battleID, err := s.newID()
	if err != nil {
		return Battle{}, err
	}

	now := s.clock().UTC()
	record := storage.BattleRecord{
		ID:           battleID,
		Seed:         seed,
		SideA:        req.SideA,
		SideB:        req.SideB,
		InitialState: encoded,
		State:        encoded,
		StateHash:    hash,
		Turn:         state.Turn,
		Victory:      string(state.Victory),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("battle.id", battleID))
	if err := s.store.PutBattle(ctx, record); err != nil {
		return Battle{}, fmt.Errorf("store battle: %w", err)
	}
	return battleView(record, &state), nil
}

// Submit resolves one turn and appends it to the battle journal.
func (s *Service) Submit(ctx context.Context, req SubmitTurnRequest) (SubmitTurnResponse, error) {
	battleID := strings.TrimSpace(req.BattleID)
	if battleID == "" {
		return SubmitTurnResponse{}, missingBattleID()
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("battle.id", battleID))

	unlock := s.locks.Lock(battleID)
	defer unlock()

	record, state, err := s.load(ctx, battleID)
	if err != nil {
		return SubmitTurnResponse{}, err
	}
	if state.Victory.Decided() {
		return SubmitTurnResponse{}, apperrors.WrapWithMetadata(apperrors.CodeBattleFinished,
			"battle already decided", map[string]string{"BattleID": battleID}, engine.ErrBattleOver)
	}
	if req.Turn != 0 && req.Turn != record.Turn {
		return SubmitTurnResponse{}, apperrors.WrapWithMetadata(apperrors.CodeBattleTurnConflict,
			fmt.Sprintf("battle at turn %d, submitted for turn %d", record.Turn, req.Turn),
			map[string]string{"BattleID": battleID, "Turn": strconv.Itoa(req.Turn)}, storage.ErrTurnConflict)
	}

	next, entry, err := journal.Record(state, req.IntentsA, req.IntentsB)
	if err != nil {
		return SubmitTurnResponse{}, err
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return SubmitTurnResponse{}, fmt.Errorf("encode turn: %w", err)
	}
	encoded, err := json.Marshal(next)
	if err != nil {
		return SubmitTurnResponse{}, fmt.Errorf("encode state: %w", err)
	}

	now := s.clock().UTC()
	record.State = encoded
	record.StateHash = entry.StateHash
	record.Turn = next.Turn
	record.Victory = string(next.Victory)
	record.UpdatedAt = now
	if err := s.store.AppendTurn(ctx, record, storage.TurnRecord{
		BattleID:  battleID,
		Turn:      entry.Turn,
		StateHash: entry.StateHash,
		Payload:   payload,
		CreatedAt: now,
	}); err != nil {
		if errors.Is(err, storage.ErrTurnConflict) {
			return SubmitTurnResponse{}, apperrors.WrapWithMetadata(apperrors.CodeBattleTurnConflict, err.Error(),
				map[string]string{"BattleID": battleID, "Turn": strconv.Itoa(entry.Turn)}, err)
		}
		return SubmitTurnResponse{}, fmt.Errorf("append turn: %w", err)
	}

	narrator, err := narrate.New(requestLocale(ctx, req.Locale))
	if err != nil {
		return SubmitTurnResponse{}, err
	}
	events := entry.Events
	if events == nil {
		events = []engine.Event{}
	}
	return SubmitTurnResponse{
		Battle:    battleView(record, &next),
		Events:    events,
		Narration: narrator.WithState(next).WithMoves(s.catalog).Render(events),
	}, nil
}

// Get returns the current head of a battle.
func (s *Service) Get(ctx context.Context, battleID string) (Battle, error) {
	battleID = strings.TrimSpace(battleID)
	if battleID == "" {
		return Battle{}, missingBattleID()
	}
	record, state, err := s.load(ctx, battleID)
	if err != nil {
		return Battle{}, err
	}
	return battleView(record, &state), nil
}

// List returns a page of battles matching an optional filter.
func (s *Service) List(ctx context.Context, req ListBattlesRequest) (ListBattlesResponse, error) {
	pageSize := pagination.ClampPageSize(req.PageSize, pagination.PageSizeConfig{
		Default: defaultListBattlesPageSize,
		Max:     maxListBattlesPageSize,
	})
	cursor, err := pagination.DecodeToken(req.PageToken)
	if err != nil {
		return ListBattlesResponse{}, err
	}
	page, err := s.store.ListBattles(ctx, storage.ListBattlesQuery{
		Filter:    req.Filter,
		PageSize:  pageSize,
		PageToken: cursor,
	})
	if err != nil {
		return ListBattlesResponse{}, err
	}
	resp := ListBattlesResponse{
		Battles:       make([]Battle, 0, len(page.Battles)),
		NextPageToken: pagination.EncodeToken(page.NextPageToken),
	}
	for _, record := range page.Battles {
		resp.Battles = append(resp.Battles, battleView(record, nil))
	}
	return resp, nil
}

// Replay re-resolves the stored journal from the initial state and checks
// that it reproduces the stored head.
func (s *Service) Replay(ctx context.Context, battleID string) (ReplayBattleResponse, error) {
	battleID = strings.TrimSpace(battleID)
	if battleID == "" {
		return ReplayBattleResponse{}, missingBattleID()
	}
	record, err := s.store.GetBattle(ctx, battleID)
	if err != nil {
		return ReplayBattleResponse{}, err
	}
	var initial engine.State
	if err := json.Unmarshal(record.InitialState, &initial); err != nil {
		return ReplayBattleResponse{}, fmt.Errorf("decode initial state: %w", err)
	}
	rows, err := s.store.ListTurns(ctx, battleID)
	if err != nil {
		return ReplayBattleResponse{}, err
	}
	turns := make([]journal.TurnRecord, 0, len(rows))
	for _, row := range rows {
		var entry journal.TurnRecord
		if err := json.Unmarshal(row.Payload, &entry); err != nil {
			return ReplayBattleResponse{}, fmt.Errorf("decode turn %d: %w", row.Turn, err)
		}
		turns = append(turns, entry)
	}

	final, err := replay.Replay(initial, turns)
	if err != nil {
		if errors.Is(err, replay.ErrDiverged) || errors.Is(err, replay.ErrTurnOrder) {
			// final is the last state that still matched.
			return ReplayBattleResponse{}, apperrors.WrapWithMetadata(apperrors.CodeReplayDiverged, err.Error(),
				map[string]string{"BattleID": battleID, "Turn": strconv.Itoa(final.Turn)}, err)
		}
		return ReplayBattleResponse{}, err
	}
	hash, err := journal.StateHash(final)
	if err != nil {
		return ReplayBattleResponse{}, err
	}
	if hash != record.StateHash {
		err := &replay.DivergenceError{Turn: record.Turn, Want: record.StateHash, Got: hash}
		return ReplayBattleResponse{}, apperrors.WrapWithMetadata(apperrors.CodeReplayDiverged, err.Error(),
			map[string]string{"BattleID": battleID, "Turn": strconv.Itoa(record.Turn)}, err)
	}
	return ReplayBattleResponse{Battle: battleView(record, &final), Turns: len(turns)}, nil
}

func (s *Service) load(ctx context.Context, battleID string) (storage.BattleRecord, engine.State, error) {
	record, err := s.store.GetBattle(ctx, battleID)
	if err != nil {
		return storage.BattleRecord{}, engine.State{}, err
	}
	var state engine.State
	if err := json.Unmarshal(record.State, &state); err != nil {
		return storage.BattleRecord{}, engine.State{}, fmt.Errorf("decode state: %w", err)
	}
	return record, state, nil
}

func missingBattleID() error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "battle id is required",
		map[string]string{"Detail": "battle_id is required"})
}

// domainError maps package sentinels to coded domain errors.
func domainError(err error) *apperrors.Error {
	var de *apperrors.Error
	if errors.As(err, &de) {
		return de
	}
	detail := map[string]string{"Detail": err.Error()}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, err.Error(), err)
	case errors.Is(err, storage.ErrTurnConflict):
		return apperrors.Wrap(apperrors.CodeBattleTurnConflict, err.Error(), err)
	case errors.Is(err, engine.ErrBattleOver):
		return apperrors.Wrap(apperrors.CodeBattleFinished, err.Error(), err)
	case errors.Is(err, engine.ErrInvalidRoster):
		return apperrors.Wrap(apperrors.CodeBattleInvalidRoster, err.Error(), err)
	case errors.Is(err, engine.ErrSlotOutOfRange),
		errors.Is(err, engine.ErrMoveOutOfRange),
		errors.Is(err, engine.ErrWrongSide),
		errors.Is(err, engine.ErrDuplicateActor),
		errors.Is(err, engine.ErrTooManyIntents):
		return apperrors.WrapWithMetadata(apperrors.CodeBattleInvalidIntent, err.Error(), detail, err)
	case errors.Is(err, catalog.ErrUnknownCreature):
		return apperrors.Wrap(apperrors.CodeCatalogUnknownCreature, err.Error(), err)
	case errors.Is(err, catalog.ErrUnknownMove):
		return apperrors.Wrap(apperrors.CodeCatalogUnknownMove, err.Error(), err)
	case errors.Is(err, filter.ErrInvalidFilter):
		return apperrors.Wrap(apperrors.CodeInvalidFilter, err.Error(), err)
	case errors.Is(err, pagination.ErrInvalidPageToken):
		return apperrors.WrapWithMetadata(apperrors.CodeInvalidArgument, err.Error(), detail, err)
	case errors.Is(err, replay.ErrDiverged), errors.Is(err, replay.ErrTurnOrder):
		return apperrors.Wrap(apperrors.CodeReplayDiverged, err.Error(), err)
	default:
		return apperrors.Wrap(apperrors.CodeUnknown, err.Error(), err)
	}
}

// requestLocale prefers the request field and falls back to the
// accept-language metadata header.
func requestLocale(ctx context.Context, requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("accept-language"); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
