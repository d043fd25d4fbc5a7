package core

import (
	"sync"

	"github.com/scrabless/scrabless-server/internal/proto"
)

// Client is one live persistent-channel handle. The transport's write loop
// drains Events; the registry owns the at-most-one-per-user invariant.
type Client struct {
	UserID string
	Name   string

	events chan proto.Outbound

	closeOnce   sync.Once
	done        chan struct{}
	closeReason string
}

// NewClient constructs a client handle with a buffered outbound queue.
func NewClient(userID, name string) *Client {
	return &Client{
		UserID: userID,
		Name:   name,
		events: make(chan proto.Outbound, 16),
		done:   make(chan struct{}),
	}
}

// Send queues a message for delivery. Returns false if the handle is closed
// or the queue is full; callers treat false as "recipient unreachable".
func (c *Client) Send(msg proto.Outbound) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- msg:
		return true
	default:
		// Slow consumer; do not block senders.
		return false
	}
}

// Events exposes the outbound queue for the transport write loop.
func (c *Client) Events() <-chan proto.Outbound {
	return c.events
}

// Close marks the handle dead with a reason. Idempotent.
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		c.closeReason = reason
		close(c.done)
	})
}

// Done is closed when the handle has been shut down or evicted.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// CloseReason returns the reason passed to Close, once Done is closed.
func (c *Client) CloseReason() string {
	return c.closeReason
}
