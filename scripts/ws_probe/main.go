package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/scrabless/scrabless-server/internal/proto"
)

// ws_probe exercises a running server end to end: mint a session over HTTP,
// create a room, open the channel with the session cookie and request the
// game state for the room.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_probe: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:3000", "HTTP base URL of the server")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Any authenticated endpoint mints a session cookie on first contact.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *base+"/user", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("get /user: %w", err)
	}
	defer resp.Body.Close()

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "userToken" {
			cookie = c.Name + "=" + c.Value
		}
	}
	if cookie == "" {
		return fmt.Errorf("no userToken cookie in /user response")
	}

	var user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("decode /user: %w", err)
	}
	fmt.Printf("session: id=%s name=%s\n", user.ID, user.Name)

	createReq, err := http.NewRequestWithContext(ctx, http.MethodPost, *base+"/create-room", nil)
	if err != nil {
		return err
	}
	createReq.Header.Set("Cookie", cookie)
	createResp, err := http.DefaultClient.Do(createReq)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	defer createResp.Body.Close()

	var created struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(createResp.Body).Decode(&created); err != nil {
		return fmt.Errorf("decode create-room: %w", err)
	}
	fmt.Printf("room: %s\n", created.RoomID)

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": []string{cookie}},
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{
		Type:   proto.InboundTypeRequestGameState,
		RoomID: created.RoomID,
	}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	// The room is still waiting, so the server stays silent; any reply
	// before the timeout is worth printing.
	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		fmt.Println("no reply before timeout (expected for a waiting room)")
		return nil
	}
	fmt.Printf("reply: type=%s\n", outbound.Type)
	return nil
}
