package core

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/proto"
	"github.com/scrabless/scrabless-server/internal/room"
)

// Router dispatches authenticated inbound channel messages. Requests that
// would reveal whether a room exists to a non-participant are dropped
// silently; rule violations by legitimate participants get an explicit
// error reply.
type Router struct {
	directory *room.Directory
	engine    *game.Engine
	registry  *Registry
	log       *zerolog.Logger
}

// NewRouter builds a message router over the given services.
func NewRouter(directory *room.Directory, engine *game.Engine, registry *Registry, logger *zerolog.Logger) *Router {
	return &Router{
		directory: directory,
		engine:    engine,
		registry:  registry,
		log:       logger,
	}
}

// Handle processes one inbound message from client. Unknown types are
// logged and ignored; the connection stays open.
func (rt *Router) Handle(client *Client, inbound proto.Inbound) {
	switch inbound.Type {
	case proto.InboundTypeRequestGameState:
		rt.handleRequestGameState(client, inbound)
	case proto.InboundTypePlayWord:
		rt.handlePlayWord(client, inbound)
	case proto.InboundTypePassTurn:
		rt.handlePassTurn(client, inbound)
	default:
		rt.log.Warn().Str("user_id", client.UserID).Str("type", inbound.Type).Msg("unknown message type")
	}
}

// authorize resolves the room and checks the caller is a participant of an
// active room. Failure is silent by design: replying would leak room
// existence to probes.
func (rt *Router) authorize(client *Client, roomID string) bool {
	if roomID == "" {
		client.Send(proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: proto.ErrCodeBadRequest},
		})
		return false
	}
	r, ok := rt.directory.Get(roomID)
	if !ok {
		rt.log.Debug().Str("user_id", client.UserID).Str("room_id", roomID).Msg("request for unknown room dropped")
		return false
	}
	if r.State != room.StateActive || !r.IsParticipant(client.UserID) {
		rt.log.Debug().Str("user_id", client.UserID).Str("room_id", roomID).Msg("unauthorized room request dropped")
		return false
	}
	return true
}

func (rt *Router) handleRequestGameState(client *Client, inbound proto.Inbound) {
	if !rt.authorize(client, inbound.RoomID) {
		return
	}

	state, ok := rt.engine.Get(inbound.RoomID)
	if !ok {
		// Room was removed between lookup and here; clients apply their own
		// timeout, so no reply.
		rt.log.Debug().Str("room_id", inbound.RoomID).Msg("game state requested for missing game")
		return
	}

	client.Send(proto.Outbound{
		Type:      proto.OutboundTypeGameState,
		GameState: &state,
	})
}

func (rt *Router) handlePlayWord(client *Client, inbound proto.Inbound) {
	if !rt.authorize(client, inbound.RoomID) {
		return
	}

	state, err := rt.engine.PlayWord(inbound.RoomID, client.UserID, inbound.Placements)
	if err != nil {
		rt.replyMoveError(client, inbound.RoomID, err)
		return
	}

	rt.registry.BroadcastToRoom(inbound.RoomID, proto.Outbound{
		Type:      proto.OutboundTypeGameState,
		GameState: &state,
	}, "")
}

func (rt *Router) handlePassTurn(client *Client, inbound proto.Inbound) {
	if !rt.authorize(client, inbound.RoomID) {
		return
	}

	state, err := rt.engine.PassTurn(inbound.RoomID, client.UserID)
	if err != nil {
		rt.replyMoveError(client, inbound.RoomID, err)
		return
	}

	rt.registry.BroadcastToRoom(inbound.RoomID, proto.Outbound{
		Type:      proto.OutboundTypeGameState,
		GameState: &state,
	}, "")
}

func (rt *Router) replyMoveError(client *Client, roomID string, err error) {
	var code string
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		code = proto.ErrCodeNotYourTurn
	case errors.Is(err, game.ErrBadPlacement):
		code = proto.ErrCodeBadPlacement
	case errors.Is(err, game.ErrTilesNotInHand):
		code = proto.ErrCodeTilesNotInHand
	case errors.Is(err, game.ErrInvalidWord):
		code = proto.ErrCodeInvalidWord
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrNotParticipant):
		// Same silence as authorize: nothing to reveal.
		rt.log.Debug().Str("user_id", client.UserID).Str("room_id", roomID).Err(err).Msg("move for missing game dropped")
		return
	default:
		code = proto.ErrCodeBadRequest
	}

	client.Send(proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, RoomID: roomID},
	})
}
