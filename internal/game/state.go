package game

import "github.com/scrabless/scrabless-server/internal/room"

// PlayerState is one participant's view-independent game data. Hands are
// mutated only by the engine (initial deal and move resolution).
type PlayerState struct {
	UserID string   `json:"userId"`
	Name   string   `json:"name"`
	Hand   []Letter `json:"hand"`
	Score  int      `json:"score"`
}

// GameState is the authoritative per-room snapshot. One exists per active
// room, created exactly once at activation and keyed by room id.
type GameState struct {
	Room    room.Room               `json:"room"`
	Players map[string]*PlayerState `json:"players"`
	Pouch   []Letter                `json:"letters"`
	Turn    string                  `json:"turn"`
	Board   Board                   `json:"board"`
}

// Opponent returns the other participant's id.
func (g *GameState) Opponent(userID string) string {
	if g.Room.Owner.ID == userID {
		return g.Room.Guest.ID
	}
	return g.Room.Owner.ID
}

// clone deep-copies the state so callers never alias engine-owned slices.
func (g *GameState) clone() GameState {
	players := make(map[string]*PlayerState, len(g.Players))
	for id, p := range g.Players {
		hand := make([]Letter, len(p.Hand))
		copy(hand, p.Hand)
		players[id] = &PlayerState{
			UserID: p.UserID,
			Name:   p.Name,
			Hand:   hand,
			Score:  p.Score,
		}
	}
	pouch := make([]Letter, len(g.Pouch))
	copy(pouch, g.Pouch)
	return GameState{
		Room:    g.Room,
		Players: players,
		Pouch:   pouch,
		Turn:    g.Turn,
		Board:   g.Board.clone(),
	}
}
