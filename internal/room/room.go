package room

import (
	"time"

	"github.com/scrabless/scrabless-server/internal/auth"
)

// State is the room lifecycle phase.
type State string

const (
	// StateWaiting means the owner is alone and a guest may join.
	StateWaiting State = "waiting"
	// StateActive means a guest joined; the transition happens exactly once.
	StateActive State = "active"
)

// Room pairs two players. Guest.ID is empty while the room is waiting.
type Room struct {
	ID        string
	Owner     auth.Identity
	Guest     auth.Identity
	State     State
	CreatedAt time.Time
}

// HasGuest reports whether a guest has joined.
func (r *Room) HasGuest() bool {
	return r.Guest.ID != ""
}

// IsParticipant reports whether userID is the owner or the guest.
func (r *Room) IsParticipant(userID string) bool {
	return r.Owner.ID == userID || (r.HasGuest() && r.Guest.ID == userID)
}
