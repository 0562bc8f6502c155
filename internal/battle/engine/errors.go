package engine

import "errors"

var (
	// ErrInvalidRoster reports a side without exactly three well-formed fighters.
	ErrInvalidRoster = errors.New("invalid roster")
	// ErrSlotOutOfRange reports a fighter slot outside 0–5.
	ErrSlotOutOfRange = errors.New("slot out of range")
	// ErrMoveOutOfRange reports a move index outside 0–3.
	ErrMoveOutOfRange = errors.New("move index out of range")
	// ErrWrongSide reports an intent submitted for the other side's fighter.
	ErrWrongSide = errors.New("actor belongs to the other side")
	// ErrDuplicateActor reports two intents for the same fighter in one turn.
	ErrDuplicateActor = errors.New("duplicate actor")
	// ErrTooManyIntents reports more than one intent per fighter on a side.
	ErrTooManyIntents = errors.New("too many intents")
	// ErrBattleOver reports a turn submitted after the victory was decided.
	ErrBattleOver = errors.New("battle is over")
)
