package http

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/proto"
)

// snapshotPusher delivers the initial game_start snapshot to both
// participants. A joining guest's channel handshake usually races the join
// request, so delivery retries on a short interval until it lands or the
// attempt budget runs out; each attempt re-fetches state instead of closing
// over it.
type snapshotPusher struct {
	engine   *game.Engine
	registry *core.Registry
	attempts int
	interval time.Duration
	log      *zerolog.Logger
}

func newSnapshotPusher(engine *game.Engine, registry *core.Registry, attempts int, interval time.Duration, logger *zerolog.Logger) *snapshotPusher {
	if attempts <= 0 {
		attempts = 1
	}
	return &snapshotPusher{
		engine:   engine,
		registry: registry,
		attempts: attempts,
		interval: interval,
		log:      logger,
	}
}

// pushGameStart sends each participant their own PlayerState. It runs in
// its own goroutine and gives up quietly when the game disappears or a
// recipient never connects; delivery is best-effort by contract.
func (p *snapshotPusher) pushGameStart(roomID string) {
	go func() {
		delivered := make(map[string]bool)

		for attempt := 0; attempt < p.attempts; attempt++ {
			if attempt > 0 {
				time.Sleep(p.interval)
			}

			state, ok := p.engine.Get(roomID)
			if !ok {
				return
			}

			remaining := 0
			for userID, player := range state.Players {
				if delivered[userID] {
					continue
				}
				ps := *player
				if p.registry.SendToUser(userID, proto.Outbound{
					Type:        proto.OutboundTypeGameStart,
					PlayerState: &ps,
				}) {
					delivered[userID] = true
				} else {
					remaining++
				}
			}
			if remaining == 0 {
				return
			}
		}

		p.log.Warn().Str("room_id", roomID).Msg("game start push exhausted retries")
	}()
}
