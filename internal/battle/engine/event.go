package engine

import "fmt"

// EventKind is the closed set of log entry kinds.
type EventKind string

const (
	EventMoveUsed        EventKind = "move_used"
	EventDamageDealt     EventKind = "damage_dealt"
	EventHealed          EventKind = "healed"
	EventEffectApplied   EventKind = "effect_applied"
	EventEffectExpired   EventKind = "effect_expired"
	EventActionRejected  EventKind = "action_rejected"
	EventFighterFainted  EventKind = "fighter_fainted"
	EventVictoryDeclared EventKind = "victory_declared"
)

// RejectReason explains why an intent was dropped.
type RejectReason string

const (
	RejectActorDead          RejectReason = "actor_dead"
	RejectMoveUnavailable    RejectReason = "move_unavailable"
	RejectStunned            RejectReason = "stunned"
	RejectTrapped            RejectReason = "trapped"
	RejectOnCooldown         RejectReason = "on_cooldown"
	RejectInvalidTarget      RejectReason = "invalid_target"
	RejectTargetDead         RejectReason = "target_dead"
	RejectNoLegalTargets     RejectReason = "no_legal_targets"
	RejectInsufficientEnergy RejectReason = "insufficient_energy"
)

// Rejection is a validation failure for a single intent.
type Rejection struct {
	Reason RejectReason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

func reject(reason RejectReason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Event is one structured log entry. Actor and Target are global slots, or
// -1 when absent.
type Event struct {
	Turn     int       `json:"turn"`
	Kind     EventKind `json:"kind"`
	Actor    int       `json:"actor"`
	Target   int       `json:"target"`
	ActorID  string    `json:"actor_id,omitempty"`
	TargetID string    `json:"target_id,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	Move     string    `json:"move,omitempty"`
	// Effect is the effect kind name for effect events.
	Effect string       `json:"effect,omitempty"`
	Tag    string       `json:"tag,omitempty"`
	Reason RejectReason `json:"reason,omitempty"`
	// Blocked marks a hit or effect stopped by invulnerability.
	Blocked bool    `json:"blocked,omitempty"`
	Victory Victory `json:"victory,omitempty"`
	Message string  `json:"message"`
}
