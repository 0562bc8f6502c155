// Package engine resolves battle turns.
//
// A battle is a State value holding six fighters in fixed global slots
// (0–2 side A, 3–5 side B), one energy pool per side, the turn counter, the
// victory status and the random source. ResolveTurn is a pure function of
// its inputs: it clones the state, runs one full turn and returns the new
// state with an ordered event log. Calling it twice with equal inputs yields
// equal outputs.
//
// Turn phases:
//
//   - StartTurn grants energy to both sides.
//   - Validate checks every intent; failures become ActionRejected events.
//   - BuildQueue orders surviving actions by priority tag, speed and slot.
//   - Execute re-validates and resolves each action in order.
//   - EndTurn ticks effects and decrements cooldowns.
//   - CheckVictory decides the outcome or advances the turn counter.
//
// Expected conditions (dead targets, missing energy, cooldowns, stuns) never
// produce errors. Errors are reserved for callers that break the API
// contract, and are returned before any state is touched.
package engine
