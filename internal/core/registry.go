package core

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/scrabless/scrabless-server/internal/proto"
)

// CloseReasonSuperseded is the reason a stale handle receives when the same
// user opens a new connection.
const CloseReasonSuperseded = "superseded by new connection"

// RoomLookup resolves a room's participants for broadcasts. The room
// directory implements it.
type RoomLookup interface {
	Participants(roomID string) []string
}

// Registry maps a user id to its single live channel handle. Registering a
// new handle for a user evicts the previous one; connection liveness never
// affects room lifetime.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
	rooms   RoomLookup
	log     *zerolog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(rooms RoomLookup, logger *zerolog.Logger) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		rooms:   rooms,
		log:     logger,
	}
}

// Add stores the handle for its user, closing any prior handle first.
func (r *Registry) Add(client *Client) {
	r.mu.Lock()
	prev := r.clients[client.UserID]
	r.clients[client.UserID] = client
	r.mu.Unlock()

	if prev != nil {
		prev.Close(CloseReasonSuperseded)
		r.log.Info().Str("user_id", client.UserID).Msg("evicted stale connection")
	}
	r.log.Debug().Str("user_id", client.UserID).Msg("client connected")
}

// Remove deletes the mapping, but only if it still points at this handle;
// an evicted connection must not unregister its successor.
func (r *Registry) Remove(client *Client) {
	r.mu.Lock()
	if current, ok := r.clients[client.UserID]; ok && current == client {
		delete(r.clients, client.UserID)
	}
	r.mu.Unlock()
	r.log.Debug().Str("user_id", client.UserID).Msg("client disconnected")
}

// Get returns the live handle for the user, if any.
func (r *Registry) Get(userID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[userID]
	return c, ok
}

// SendToUser delivers best-effort: false means the recipient is unreachable,
// which is a normal outcome, not an error.
func (r *Registry) SendToUser(userID string, msg proto.Outbound) bool {
	client, ok := r.Get(userID)
	if !ok {
		return false
	}
	return client.Send(msg)
}

// BroadcastToRoom sends to every participant of the room except
// excludeUserID (pass "" to exclude nobody).
func (r *Registry) BroadcastToRoom(roomID string, msg proto.Outbound, excludeUserID string) {
	for _, userID := range r.rooms.Participants(roomID) {
		if userID == excludeUserID {
			continue
		}
		r.SendToUser(userID, msg)
	}
}
