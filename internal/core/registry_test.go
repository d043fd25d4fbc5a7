package core

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/scrabless/scrabless-server/internal/proto"
)

type staticRooms map[string][]string

func (s staticRooms) Participants(roomID string) []string { return s[roomID] }

func newTestRegistry(rooms RoomLookup) *Registry {
	logger := zerolog.Nop()
	if rooms == nil {
		rooms = staticRooms{}
	}
	return NewRegistry(rooms, &logger)
}

func receive(t *testing.T, c *Client) proto.Outbound {
	t.Helper()
	select {
	case msg := <-c.Events():
		return msg
	default:
		t.Fatal("expected a queued message")
		return proto.Outbound{}
	}
}

func TestAddEvictsPreviousHandle(t *testing.T) {
	reg := newTestRegistry(nil)

	first := NewClient("u-1", "happy-red")
	second := NewClient("u-1", "happy-red")

	reg.Add(first)
	reg.Add(second)

	select {
	case <-first.Done():
	default:
		t.Fatal("first handle should be closed after eviction")
	}
	if got := first.CloseReason(); got != CloseReasonSuperseded {
		t.Errorf("expected close reason %q, got %q", CloseReasonSuperseded, got)
	}

	current, ok := reg.Get("u-1")
	if !ok || current != second {
		t.Error("registry should hold the new handle")
	}
}

func TestRemoveOnlyUnregistersOwnHandle(t *testing.T) {
	reg := newTestRegistry(nil)

	first := NewClient("u-1", "happy-red")
	second := NewClient("u-1", "happy-red")
	reg.Add(first)
	reg.Add(second)

	// The evicted connection's deferred cleanup fires after its successor
	// registered; it must not knock the successor out.
	reg.Remove(first)
	if _, ok := reg.Get("u-1"); !ok {
		t.Fatal("successor handle was unregistered by its predecessor")
	}

	reg.Remove(second)
	if _, ok := reg.Get("u-1"); ok {
		t.Fatal("handle should be gone after its own removal")
	}
}

func TestSendToUser(t *testing.T) {
	reg := newTestRegistry(nil)
	client := NewClient("u-1", "happy-red")
	reg.Add(client)

	if !reg.SendToUser("u-1", proto.Outbound{Type: proto.OutboundTypeGuestJoined}) {
		t.Error("send to a registered user should succeed")
	}
	if msg := receive(t, client); msg.Type != proto.OutboundTypeGuestJoined {
		t.Errorf("unexpected message type %q", msg.Type)
	}

	if reg.SendToUser("u-ghost", proto.Outbound{}) {
		t.Error("send to an absent user should report unreachable")
	}
}

func TestSendToClosedHandleFails(t *testing.T) {
	reg := newTestRegistry(nil)
	client := NewClient("u-1", "happy-red")
	reg.Add(client)
	client.Close("test shutdown")

	if reg.SendToUser("u-1", proto.Outbound{}) {
		t.Error("send to a closed handle should report unreachable")
	}
}

func TestBroadcastToRoomExcludes(t *testing.T) {
	rooms := staticRooms{"room-1": {"u-owner", "u-guest"}}
	reg := newTestRegistry(rooms)

	owner := NewClient("u-owner", "happy-red")
	guest := NewClient("u-guest", "clever-blue")
	reg.Add(owner)
	reg.Add(guest)

	reg.BroadcastToRoom("room-1", proto.Outbound{Type: proto.OutboundTypeGameState}, "u-owner")

	if msg := receive(t, guest); msg.Type != proto.OutboundTypeGameState {
		t.Errorf("guest got %q", msg.Type)
	}
	select {
	case msg := <-owner.Events():
		t.Errorf("excluded owner received %q", msg.Type)
	default:
	}
}

func TestBroadcastSkipsOfflineParticipants(t *testing.T) {
	rooms := staticRooms{"room-1": {"u-owner", "u-guest"}}
	reg := newTestRegistry(rooms)

	owner := NewClient("u-owner", "happy-red")
	reg.Add(owner)

	// The guest has no live connection; broadcast is best effort.
	reg.BroadcastToRoom("room-1", proto.Outbound{Type: proto.OutboundTypeGameState}, "")

	if msg := receive(t, owner); msg.Type != proto.OutboundTypeGameState {
		t.Errorf("owner got %q", msg.Type)
	}
}

func TestClientSendAfterCloseAndFullQueue(t *testing.T) {
	client := NewClient("u-1", "happy-red")

	for i := 0; ; i++ {
		if !client.Send(proto.Outbound{Type: proto.OutboundTypeGameState}) {
			// Queue is bounded; a slow consumer must not block senders.
			break
		}
		if i > 1024 {
			t.Fatal("outbound queue looks unbounded")
		}
	}

	client.Close("bye")
	client.Close("ignored second reason")
	if client.CloseReason() != "bye" {
		t.Errorf("close reason should stick to the first call, got %q", client.CloseReason())
	}
	if client.Send(proto.Outbound{}) {
		t.Error("send after close should fail")
	}
}
