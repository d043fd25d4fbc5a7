package proto

import "github.com/scrabless/scrabless-server/internal/game"

const (
	// InboundTypeRequestGameState asks for the current snapshot of a room.
	InboundTypeRequestGameState = "request_game_state"
	// InboundTypePlayWord submits a word placement.
	InboundTypePlayWord = "play_word"
	// InboundTypePassTurn hands the turn to the opponent.
	InboundTypePassTurn = "pass_turn"

	OutboundTypeGameState   = "game_state"
	OutboundTypeGameStart   = "game_start"
	OutboundTypeGuestJoined = "guest_joined"
	OutboundTypeError       = "error"
)

// Inbound is a message arriving over the persistent channel. Fields beyond
// Type are populated per message type.
type Inbound struct {
	Type       string           `json:"type"`
	RoomID     string           `json:"roomId,omitempty"`
	Placements []game.Placement `json:"placements,omitempty"`
}

// Outbound is a message sent to a client over the persistent channel.
type Outbound struct {
	Type        string            `json:"type"`
	GameState   *game.GameState   `json:"gameState,omitempty"`
	PlayerState *game.PlayerState `json:"playerState,omitempty"`
	GuestID     string            `json:"guestId,omitempty"`
	GuestName   string            `json:"guestName,omitempty"`
	Error       *Error            `json:"error,omitempty"`
}

// Error is the explicit channel-level error reply.
type Error struct {
	Code   string `json:"code"`
	RoomID string `json:"roomId,omitempty"`
}

// Error codes for channel replies.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotYourTurn    = "not_your_turn"
	ErrCodeBadPlacement   = "invalid_placement"
	ErrCodeTilesNotInHand = "tiles_not_in_hand"
	ErrCodeInvalidWord    = "invalid_word"
)
