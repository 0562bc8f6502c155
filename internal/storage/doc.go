// Package storage declares the persistence contracts for battles.
//
// A battle row holds the rosters and seed that created it. Each resolved
// turn is appended to a journal keyed by battle id and turn number, so a
// battle can always be rebuilt by replaying its journal from the seed.
// The sqlite subpackage is the only implementation.
//
// # Error Types
//
//   - ErrNotFound: the battle or turn does not exist.
//   - ErrAlreadyExists: a battle id was reused.
//   - ErrTurnConflict: a turn was appended out of sequence.
package storage
