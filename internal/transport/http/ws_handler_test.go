package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/proto"
)

func wsURL(ts *testServer) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dialWS(t *testing.T, ctx context.Context, ts *testServer, cookie string) *websocket.Conn {
	t.Helper()

	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}
	conn, _, err := websocket.Dial(ctx, wsURL(ts), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })
	return conn
}

func (s *session) cookieHeader() string {
	return s.cookie.Name + "=" + s.cookie.Value
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()
	var msg proto.Outbound
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// waitRegistered blocks until the user's channel handle is live; the
// handshake completes asynchronously from the dialer's point of view.
func waitRegistered(t *testing.T, ts *testServer, userID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := ts.registry.Get(userID); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never registered a connection", userID)
}

func expectClose(t *testing.T, ctx context.Context, conn *websocket.Conn, want websocket.StatusCode) websocket.CloseError {
	t.Helper()
	var msg proto.Outbound
	err := wsjson.Read(ctx, conn, &msg)
	if err == nil {
		t.Fatalf("expected the server to close the connection, got message %+v", msg)
	}
	var closeErr websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected a close error, got %v", err)
	}
	if closeErr.Code != want {
		t.Errorf("expected close code %d, got %d (%q)", want, closeErr.Code, closeErr.Reason)
	}
	return closeErr
}

func TestWSRejectsMissingCredential(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts, "")
	expectClose(t, ctx, conn, StatusNoCredential)
}

func TestWSRejectsInvalidCredential(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts, credentialCookie+"=garbage")
	expectClose(t, ctx, conn, StatusInvalidCredential)
}

func TestWSGameStateRequest(t *testing.T) {
	ts := newTestServer(t)
	owner := newSession(t, ts)
	guest := newSession(t, ts)

	roomID := owner.createRoom(t, ts)
	guest.do(t, http.MethodGet, ts.URL+"/friend-room?roomId="+roomID).Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts, owner.cookieHeader())
	waitRegistered(t, ts, owner.id)

	if err := wsjson.Write(ctx, conn, proto.Inbound{
		Type:   proto.InboundTypeRequestGameState,
		RoomID: roomID,
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// The join already queued a game_start push; skip to the reply.
	for {
		msg := readOutbound(t, ctx, conn)
		if msg.Type == proto.OutboundTypeGameStart {
			continue
		}
		if msg.Type != proto.OutboundTypeGameState {
			t.Fatalf("expected game_state, got %q", msg.Type)
		}
		if msg.GameState == nil || len(msg.GameState.Players) != 2 {
			t.Fatalf("snapshot incomplete: %+v", msg.GameState)
		}
		if len(msg.GameState.Pouch) != game.PouchSize-2*game.HandSize {
			t.Errorf("expected %d tiles in pouch, got %d", game.PouchSize-2*game.HandSize, len(msg.GameState.Pouch))
		}
		return
	}
}

func TestWSJoinPushesGameStart(t *testing.T) {
	ts := newTestServer(t)
	owner := newSession(t, ts)
	guest := newSession(t, ts)

	roomID := owner.createRoom(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ownerConn := dialWS(t, ctx, ts, owner.cookieHeader())
	guestConn := dialWS(t, ctx, ts, guest.cookieHeader())
	waitRegistered(t, ts, owner.id)
	waitRegistered(t, ts, guest.id)

	guest.do(t, http.MethodGet, ts.URL+"/friend-room?roomId="+roomID).Body.Close()

	// Owner is told about the guest first, then dealt in.
	msg := readOutbound(t, ctx, ownerConn)
	if msg.Type != proto.OutboundTypeGuestJoined {
		t.Fatalf("expected guest_joined, got %q", msg.Type)
	}
	if msg.GuestID != guest.id || msg.GuestName != guest.name {
		t.Errorf("guest_joined names the wrong guest: %+v", msg)
	}

	msg = readOutbound(t, ctx, ownerConn)
	if msg.Type != proto.OutboundTypeGameStart {
		t.Fatalf("expected game_start, got %q", msg.Type)
	}
	if msg.PlayerState == nil || msg.PlayerState.UserID != owner.id {
		t.Fatalf("game_start should carry the recipient's own state: %+v", msg.PlayerState)
	}
	if len(msg.PlayerState.Hand) != game.HandSize {
		t.Errorf("expected a dealt hand of %d, got %d", game.HandSize, len(msg.PlayerState.Hand))
	}

	msg = readOutbound(t, ctx, guestConn)
	if msg.Type != proto.OutboundTypeGameStart {
		t.Fatalf("guest expected game_start, got %q", msg.Type)
	}
	if msg.PlayerState == nil || msg.PlayerState.UserID != guest.id {
		t.Errorf("guest got someone else's state: %+v", msg.PlayerState)
	}
}

func TestWSGameStartReachesLateConnector(t *testing.T) {
	ts := newTestServer(t)
	owner := newSession(t, ts)
	guest := newSession(t, ts)

	roomID := owner.createRoom(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// The guest joins over HTTP before opening the channel; the pusher
	// retries until the connection lands.
	guest.do(t, http.MethodGet, ts.URL+"/friend-room?roomId="+roomID).Body.Close()
	guestConn := dialWS(t, ctx, ts, guest.cookieHeader())

	msg := readOutbound(t, ctx, guestConn)
	if msg.Type != proto.OutboundTypeGameStart {
		t.Fatalf("expected game_start, got %q", msg.Type)
	}
	if msg.PlayerState == nil || msg.PlayerState.UserID != guest.id {
		t.Errorf("wrong recipient state: %+v", msg.PlayerState)
	}
}

func TestWSNewConnectionEvictsOld(t *testing.T) {
	ts := newTestServer(t)
	s := newSession(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	first := dialWS(t, ctx, ts, s.cookieHeader())
	waitRegistered(t, ts, s.id)
	_ = dialWS(t, ctx, ts, s.cookieHeader())

	closeErr := expectClose(t, ctx, first, websocket.StatusNormalClosure)
	if closeErr.Reason != core.CloseReasonSuperseded {
		t.Errorf("expected reason %q, got %q", core.CloseReasonSuperseded, closeErr.Reason)
	}
}
