package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/proto"
	"github.com/scrabless/scrabless-server/internal/room"
)

// RoomHandlers glues the directory, engine and registry together for the
// two room lifecycle transitions.
type RoomHandlers struct {
	directory *room.Directory
	engine    *game.Engine
	registry  *core.Registry
	pusher    *snapshotPusher
	limiter   *rateLimiter
	log       *zerolog.Logger
}

// NewRoomHandlers creates the room lifecycle handlers.
func NewRoomHandlers(directory *room.Directory, engine *game.Engine, registry *core.Registry, pusher *snapshotPusher, createLimit int, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		directory: directory,
		engine:    engine,
		registry:  registry,
		pusher:    pusher,
		limiter:   newRateLimiter(createLimit),
		log:       logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoomResponse is returned from POST /create-room.
type CreateRoomResponse struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ParticipantResponse is a room participant in API responses.
type ParticipantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FriendRoomResponse is returned from GET /friend-room.
type FriendRoomResponse struct {
	Role    string               `json:"role"`
	State   string               `json:"state"`
	Message string               `json:"message"`
	Owner   ParticipantResponse  `json:"owner"`
	Guest   *ParticipantResponse `json:"guest,omitempty"`
}

// CreateRoom handles room creation.
// POST /create-room
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	if !h.limiter.allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many rooms created, slow down"})
		return
	}

	roomID := h.directory.Create(identity)
	c.JSON(http.StatusOK, CreateRoomResponse{
		RoomID:  roomID,
		Message: "Successfully created room",
	})
}

// FriendRoom resolves the caller's relationship to a room and, for a
// legitimate new guest, performs the join: room flips to active, the owner
// is notified, the game is dealt, and both participants get the initial
// snapshot pushed over their channels.
// GET /friend-room?roomId=
func (h *RoomHandlers) FriendRoom(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing roomId"})
		return
	}

	r, found := h.directory.Get(roomID)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room does not exist"})
		return
	}

	// Owner checking their own room.
	if r.Owner.ID == identity.ID {
		message := "Waiting for guest"
		if r.State == room.StateActive {
			message = "Room is active"
		}
		c.JSON(http.StatusOK, roomResponse("owner", r, message))
		return
	}

	joined, transitioned, err := h.directory.Join(roomID, identity)
	switch {
	case errors.Is(err, room.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room does not exist"})
		return
	case errors.Is(err, room.ErrRoomFull):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "room is already full"})
		return
	case err != nil:
		h.log.Warn().Err(err).Str("room_id", roomID).Str("user_id", identity.ID).Msg("join failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not join room"})
		return
	}

	// Only the request that performed the waiting-to-active transition deals
	// the game and notifies; a rejoin, concurrent or later, changes nothing.
	if !transitioned {
		c.JSON(http.StatusOK, roomResponse("guest", joined, "Successfully rejoined room"))
		return
	}

	// Join committed; notify the owner best-effort before dealing.
	h.registry.SendToUser(joined.Owner.ID, proto.Outbound{
		Type:      proto.OutboundTypeGuestJoined,
		GuestID:   identity.ID,
		GuestName: identity.Name,
	})

	if _, err := h.engine.Create(joined); err != nil && !errors.Is(err, game.ErrGameExists) {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to create game")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	// The room can be torn down between the join commit and the deal (its
	// owner creating a replacement room, say). The removal hook reaps games
	// it saw; a game dealt after the removal needs this re-check.
	if _, ok := h.directory.Get(roomID); !ok {
		h.engine.Delete(roomID)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room does not exist"})
		return
	}

	h.pusher.pushGameStart(roomID)

	c.JSON(http.StatusOK, roomResponse("guest", joined, "Successfully joined room"))
}

func roomResponse(role string, r room.Room, message string) FriendRoomResponse {
	resp := FriendRoomResponse{
		Role:    role,
		State:   string(r.State),
		Message: message,
		Owner:   ParticipantResponse{ID: r.Owner.ID, Name: r.Owner.Name},
	}
	if r.HasGuest() {
		resp.Guest = &ParticipantResponse{ID: r.Guest.ID, Name: r.Guest.Name}
	}
	return resp
}

// UserHandlers serves identity lookups.
type UserHandlers struct {
	log *zerolog.Logger
}

// NewUserHandlers creates the user handlers.
func NewUserHandlers(logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{log: logger}
}

// UserResponse is the caller's own identity.
type UserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User returns the resolved identity of the caller.
// GET /user
func (h *UserHandlers) User(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, UserResponse{ID: identity.ID, Name: identity.Name})
}
