package room

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scrabless/scrabless-server/internal/auth"
	"github.com/scrabless/scrabless-server/internal/clock"
)

var (
	// ErrNotFound is returned when a room id is unknown.
	ErrNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a third party tries to join an active room.
	ErrRoomFull = errors.New("room is already full")
	// ErrOwnerJoin is returned when the owner tries to join their own room as guest.
	ErrOwnerJoin = errors.New("owner cannot join own room")
)

// Directory is the in-memory room registry. It is the sole writer of room
// records; all operations are serialized by one mutex so the join transition
// and the reverse index stay consistent under concurrent handlers.
type Directory struct {
	mu         sync.Mutex
	rooms      map[string]*Room  // room id -> room
	userToRoom map[string]string // user id -> room id
	maxAge     time.Duration
	clock      clock.Clock
	onRemove   func(roomID string)
	log        *zerolog.Logger
}

// NewDirectory creates an empty directory. maxAge bounds how long a waiting
// room survives between Cleanup sweeps.
func NewDirectory(maxAge time.Duration, clk clock.Clock, logger *zerolog.Logger) *Directory {
	return &Directory{
		rooms:      make(map[string]*Room),
		userToRoom: make(map[string]string),
		maxAge:     maxAge,
		clock:      clk,
		log:        logger,
	}
}

// OnRemove registers fn to run, under the directory lock, every time a room
// is removed for any reason. The engine hooks in here so a removed room's
// game goes with it. Must be called before the directory is shared.
func (d *Directory) OnRemove(fn func(roomID string)) {
	d.onRemove = fn
}

// Create allocates a waiting room owned by owner and returns its id.
// Any room the owner is already tracked in is removed first, so a user is
// reachable from at most one room at a time.
func (d *Directory) Create(owner auth.Identity) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.removeUserRoomsLocked(owner.ID)

	roomID := uuid.NewString()
	d.rooms[roomID] = &Room{
		ID:        roomID,
		Owner:     owner,
		State:     StateWaiting,
		CreatedAt: d.clock.Now(),
	}
	d.userToRoom[owner.ID] = roomID

	d.log.Info().Str("room_id", roomID).Str("owner_id", owner.ID).Str("owner_name", owner.Name).Msg("room created")
	return roomID
}

// Get returns a snapshot of the room, or false if it does not exist.
func (d *Directory) Get(roomID string) (Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rooms[roomID]
	if !ok {
		return Room{}, false
	}
	return *r, true
}

// Join records guest in the room and flips it to active. The transition
// happens at most once; transitioned reports whether this call performed it,
// so two concurrent identical joins agree on which one activated the room.
// A guest re-joining a room that already records them is not an error.
func (d *Directory) Join(roomID string, guest auth.Identity) (Room, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rooms[roomID]
	if !ok {
		return Room{}, false, ErrNotFound
	}
	if r.Owner.ID == guest.ID {
		return *r, false, ErrOwnerJoin
	}
	// Idempotent rejoin: compare to the recorded guest before ruling "full".
	if r.HasGuest() && r.Guest.ID == guest.ID {
		return *r, false, nil
	}
	if r.State != StateWaiting {
		return *r, false, ErrRoomFull
	}

	r.Guest = guest
	r.State = StateActive
	d.userToRoom[guest.ID] = roomID

	d.log.Info().Str("room_id", roomID).Str("guest_id", guest.ID).Str("guest_name", guest.Name).Msg("guest joined room")
	return *r, true, nil
}

// RemoveUserRooms deletes the room the user is tracked in, if any, along
// with both reverse-index entries. Idempotent.
func (d *Directory) RemoveUserRooms(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeUserRoomsLocked(userID)
}

func (d *Directory) removeUserRoomsLocked(userID string) {
	roomID, ok := d.userToRoom[userID]
	if !ok {
		return
	}
	r, ok := d.rooms[roomID]
	if !ok {
		delete(d.userToRoom, userID)
		return
	}

	delete(d.userToRoom, r.Owner.ID)
	if r.HasGuest() {
		delete(d.userToRoom, r.Guest.ID)
	}
	delete(d.rooms, roomID)
	if d.onRemove != nil {
		d.onRemove(roomID)
	}
	d.log.Info().Str("room_id", roomID).Msg("room removed")
}

// Participants returns the user ids currently in the room. Used by the
// connection registry for room broadcasts.
func (d *Directory) Participants(roomID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rooms[roomID]
	if !ok {
		return nil
	}
	ids := []string{r.Owner.ID}
	if r.HasGuest() {
		ids = append(ids, r.Guest.ID)
	}
	return ids
}

// Cleanup removes waiting rooms older than the directory's max age.
// Active rooms are never reaped here. Returns the ids of removed rooms.
func (d *Directory) Cleanup() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	var removed []string
	for roomID, r := range d.rooms {
		if r.State == StateWaiting && now.Sub(r.CreatedAt) > d.maxAge {
			removed = append(removed, roomID)
			d.removeUserRoomsLocked(r.Owner.ID)
		}
	}
	return removed
}

// Len reports the number of tracked rooms.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms)
}
