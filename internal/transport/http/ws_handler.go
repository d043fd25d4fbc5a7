package http

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/auth"
	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/proto"
)

// Close codes for handshake authentication failures. Distinct codes let the
// client tell "never had a credential" from "credential rejected".
const (
	StatusNoCredential      websocket.StatusCode = 4001
	StatusInvalidCredential websocket.StatusCode = 4002
)

// WSHandler upgrades connections, authenticates the handshake and bridges
// the socket to a core.Client registered in the connection registry.
type WSHandler struct {
	resolver *auth.Service
	registry *core.Registry
	router   *core.Router
	log      *zerolog.Logger
}

// NewWSHandler builds the persistent-channel handler.
func NewWSHandler(resolver *auth.Service, registry *core.Registry, router *core.Router, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		resolver: resolver,
		registry: registry,
		router:   router,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// The browser does not surface cookies through the ws API, so the
	// credential rides in on the handshake request's Cookie header. No
	// reissue is possible mid-handshake; failure closes the connection.
	identity, status, reason := h.authenticate(r)
	if status != 0 {
		h.log.Warn().Str("reason", reason).Msg("ws handshake rejected")
		conn.Close(status, reason)
		return
	}

	client := core.NewClient(identity.ID, identity.Name)
	h.registry.Add(client)
	defer h.registry.Remove(client)

	h.log.Info().Str("user_id", identity.ID).Str("name", identity.Name).Msg("user connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	// Eviction by a newer connection closes with its reason; everything
	// else is a transport-level disconnect.
	select {
	case <-client.Done():
		conn.Close(websocket.StatusNormalClosure, client.CloseReason())
		return
	default:
	}
	client.Close("closing")

	status = websocket.StatusNormalClosure
	reason = "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			h.log.Warn().Err(err).Str("user_id", identity.ID).Msg("ws connection closed with error")
		}
	}
	conn.Close(status, reason)
}

// authenticate resolves the handshake credential. A zero status means
// success.
func (h *WSHandler) authenticate(r *stdhttp.Request) (auth.Identity, websocket.StatusCode, string) {
	cookie, err := r.Cookie(credentialCookie)
	if err != nil || cookie.Value == "" {
		return auth.Identity{}, StatusNoCredential, "no credential"
	}
	identity, err := h.resolver.Resolve(cookie.Value)
	if err != nil {
		return auth.Identity{}, StatusInvalidCredential, "invalid credential"
	}
	return identity, 0, ""
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		h.router.Handle(client, inbound)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event := <-client.Events():
			if err := wsjson.Write(ctx, conn, event); err != nil {
				h.log.Error().Err(err).Str("user_id", client.UserID).Msg("write ws event")
				return err
			}
		case <-client.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
