package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/scrabless/scrabless-server/internal/room"
)

var (
	// ErrGameNotFound is returned when no game exists for the room id.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameExists is returned when a game was already dealt for the room id.
	ErrGameExists = errors.New("game already exists")
	// ErrNotParticipant is returned when the caller is not in the game.
	ErrNotParticipant = errors.New("not a participant")
	// ErrNotYourTurn is returned when a move arrives out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrBadPlacement is returned for geometrically invalid placements.
	ErrBadPlacement = errors.New("invalid placement")
	// ErrTilesNotInHand is returned when a move uses tiles the player lacks.
	ErrTilesNotInHand = errors.New("tiles not in hand")
	// ErrInvalidWord is returned when the dictionary rejects the word.
	ErrInvalidWord = errors.New("word not in dictionary")
)

// Placement puts one tile from the mover's hand onto an empty cell.
type Placement struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter Letter `json:"letter"`
}

// Engine owns every GameState and mediates all mutations to them.
type Engine struct {
	mu    sync.Mutex
	games map[string]*GameState
	rng   *rand.Rand // guarded by mu
	dict  Dictionary
	log   *zerolog.Logger
}

// NewEngine creates an engine drawing randomness from rng and checking
// words against dict.
func NewEngine(rng *rand.Rand, dict Dictionary, logger *zerolog.Logger) *Engine {
	return &Engine{
		games: make(map[string]*GameState),
		rng:   rng,
		dict:  dict,
		log:   logger,
	}
}

// Create deals a fresh game for an active room: shuffled 100-tile pouch,
// seven tiles to the owner then the guest, first turn chosen uniformly.
// Calling it for a room without a guest is a caller contract violation;
// it must not be called before join. A game is dealt at most once per room
// id; a second call gets ErrGameExists and the dealt game stays untouched.
func (e *Engine) Create(r room.Room) (GameState, error) {
	if !r.HasGuest() {
		return GameState{}, fmt.Errorf("create game for room %s: room has no guest", r.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.games[r.ID]; ok {
		return GameState{}, ErrGameExists
	}

	pouch := NewPouch()
	shuffle(e.rng, pouch)

	owner := &PlayerState{UserID: r.Owner.ID, Name: r.Owner.Name}
	guest := &PlayerState{UserID: r.Guest.ID, Name: r.Guest.Name}
	owner.Hand, pouch = drawTo(owner.Hand, pouch)
	guest.Hand, pouch = drawTo(guest.Hand, pouch)

	turn := r.Owner.ID
	if e.rng.Intn(2) == 1 {
		turn = r.Guest.ID
	}

	state := &GameState{
		Room: r,
		Players: map[string]*PlayerState{
			r.Owner.ID: owner,
			r.Guest.ID: guest,
		},
		Pouch: pouch,
		Turn:  turn,
		Board: NewBoard(),
	}
	e.games[r.ID] = state

	e.log.Info().Str("room_id", r.ID).Str("first_turn", turn).Msg("game created")
	return state.clone(), nil
}

// Get returns a snapshot of the game for the room id.
func (e *Engine) Get(roomID string) (GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.games[roomID]
	if !ok {
		return GameState{}, false
	}
	return state.clone(), true
}

// Delete removes the game for the room id. No-op if absent.
func (e *Engine) Delete(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.games, roomID)
}

// PassTurn hands the turn to the opponent without mutating anything else.
func (e *Engine) PassTurn(roomID, userID string) (GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.games[roomID]
	if !ok {
		return GameState{}, ErrGameNotFound
	}
	if _, ok := state.Players[userID]; !ok {
		return GameState{}, ErrNotParticipant
	}
	if state.Turn != userID {
		return GameState{}, ErrNotYourTurn
	}

	state.Turn = state.Opponent(userID)
	return state.clone(), nil
}

// PlayWord validates and commits a move: tiles come out of the mover's hand
// onto empty cells forming one contiguous line, the word must pass the
// dictionary, bonuses are applied, the hand is topped back up to seven
// (clamped to the pouch) and the turn flips.
func (e *Engine) PlayWord(roomID, userID string, placements []Placement) (GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.games[roomID]
	if !ok {
		return GameState{}, ErrGameNotFound
	}
	player, ok := state.Players[userID]
	if !ok {
		return GameState{}, ErrNotParticipant
	}
	if state.Turn != userID {
		return GameState{}, ErrNotYourTurn
	}
	if err := validatePlacements(state.Board, placements); err != nil {
		return GameState{}, err
	}
	if !removeFromHand(player, placements) {
		return GameState{}, ErrTilesNotInHand
	}

	// Hand mutation is committed below; from here on the move succeeds or
	// the hand is restored before returning.
	words := resolveWords(state.Board, placements)
	score := 0
	for _, w := range words {
		if !e.dict.IsValidWord(w.word) {
			restoreHand(player, placements)
			return GameState{}, ErrInvalidWord
		}
		score += w.score
	}

	for _, p := range placements {
		state.Board[p.Row][p.Col].Letter = p.Letter
	}
	player.Score += score
	player.Hand, state.Pouch = drawTo(player.Hand, state.Pouch)
	state.Turn = state.Opponent(userID)

	e.log.Info().
		Str("room_id", roomID).
		Str("user_id", userID).
		Str("word", words[0].word).
		Int("score", score).
		Int("pouch_left", len(state.Pouch)).
		Msg("word played")
	return state.clone(), nil
}

// validatePlacements checks bounds, emptiness, duplicates and that the new
// tiles form a single row or column contiguous once existing tiles are
// counted in.
func validatePlacements(board Board, placements []Placement) error {
	if len(placements) == 0 {
		return ErrBadPlacement
	}

	seen := make(map[coord]bool, len(placements))
	for _, p := range placements {
		if _, ok := letterTable[p.Letter]; !ok {
			return ErrBadPlacement
		}
		if !board.InBounds(p.Row, p.Col) || board.Occupied(p.Row, p.Col) {
			return ErrBadPlacement
		}
		c := coord{p.Row, p.Col}
		if seen[c] {
			return ErrBadPlacement
		}
		seen[c] = true
	}

	sameRow, sameCol := true, true
	for _, p := range placements[1:] {
		if p.Row != placements[0].Row {
			sameRow = false
		}
		if p.Col != placements[0].Col {
			sameCol = false
		}
	}
	if !sameRow && !sameCol {
		return ErrBadPlacement
	}

	// Walk the line between the two extremes; every cell must hold either an
	// existing tile or one of the new placements.
	line := append([]Placement(nil), placements...)
	if sameRow {
		sort.Slice(line, func(i, j int) bool { return line[i].Col < line[j].Col })
		row := line[0].Row
		for col := line[0].Col; col <= line[len(line)-1].Col; col++ {
			if !board.Occupied(row, col) && !seen[coord{row, col}] {
				return ErrBadPlacement
			}
		}
	} else {
		sort.Slice(line, func(i, j int) bool { return line[i].Row < line[j].Row })
		col := line[0].Col
		for row := line[0].Row; row <= line[len(line)-1].Row; row++ {
			if !board.Occupied(row, col) && !seen[coord{row, col}] {
				return ErrBadPlacement
			}
		}
	}
	return nil
}

// placedWord is one word formed by a move, with its bonused score.
type placedWord struct {
	word  string
	score int
}

// resolveWords collects every word a move forms: the main word along the
// placed line plus a perpendicular cross-word through each placement that
// touches existing tiles. All of them are dictionary-checked and scored.
func resolveWords(board Board, placements []Placement) []placedWord {
	placed := make(map[coord]Letter, len(placements))
	for _, p := range placements {
		placed[coord{p.Row, p.Col}] = p.Letter
	}

	dr, dc := 0, 1
	if len(placements) > 1 && placements[0].Col == placements[1].Col {
		dr, dc = 1, 0
	}

	words := []placedWord{scanWord(board, placed, placements[0].Row, placements[0].Col, dr, dc)}
	for _, p := range placements {
		if cross := scanWord(board, placed, p.Row, p.Col, dc, dr); len(cross.word) > 1 {
			words = append(words, cross)
		}
	}

	// A single tile joining a line only perpendicular to the scan axis leaves
	// a one-letter "main" word; the cross-words are the real words then.
	if len(words) > 1 && len(words[0].word) == 1 {
		words = words[1:]
	}
	return words
}

// scanWord walks the complete word running through (row, col) along
// (dr, dc), existing tiles and new placements included. Letter bonuses apply
// to newly placed tiles only; a word bonus under a new tile multiplies every
// word that runs through it.
func scanWord(board Board, placed map[coord]Letter, row, col, dr, dc int) placedWord {
	for {
		pr, pc := row-dr, col-dc
		if !board.InBounds(pr, pc) {
			break
		}
		if !board.Occupied(pr, pc) && placed[coord{pr, pc}] == "" {
			break
		}
		row, col = pr, pc
	}

	var word strings.Builder
	score, wordMultiplier := 0, 1
	for board.InBounds(row, col) {
		letter := board[row][col].Letter
		isNew := false
		if l, ok := placed[coord{row, col}]; ok {
			letter = l
			isNew = true
		}
		if letter == "" {
			break
		}

		value := LetterValue(letter)
		if isNew {
			switch board[row][col].Bonus {
			case BonusDoubleLetter:
				value *= 2
			case BonusTripleLetter:
				value *= 3
			case BonusDoubleWord:
				wordMultiplier *= 2
			case BonusTripleWord:
				wordMultiplier *= 3
			}
		}
		score += value
		word.WriteString(string(letter))
		row, col = row+dr, col+dc
	}

	return placedWord{word: word.String(), score: score * wordMultiplier}
}

// removeFromHand takes the placed letters out of the hand, returning false
// (and leaving the hand untouched) if any are missing.
func removeFromHand(player *PlayerState, placements []Placement) bool {
	hand := make([]Letter, len(player.Hand))
	copy(hand, player.Hand)

	for _, p := range placements {
		found := false
		for i, l := range hand {
			if l == p.Letter {
				hand = append(hand[:i], hand[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	player.Hand = hand
	return true
}

func restoreHand(player *PlayerState, placements []Placement) {
	for _, p := range placements {
		player.Hand = append(player.Hand, p.Letter)
	}
}
