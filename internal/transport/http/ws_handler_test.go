package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/dmarkin/roomcast-server/internal/config"
	"github.com/dmarkin/roomcast-server/internal/core"
	"github.com/dmarkin/roomcast-server/internal/proto"
)

// outboundFrame mirrors proto.Outbound with a raw payload for assertions.
type outboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil, nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		AllowedOrigins:    []string{"*"},
	}, &logger, nil)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// readUntilEvent discards frames until one with the wanted event name arrives.
func readUntilEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) outboundFrame {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read waiting for %q: %v", event, err)
		}
		if frame.Event == event {
			return frame
		}
	}
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestPresenceEndpoint(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dialWS(t, ctx, ts)

	var snapshot struct {
		Users []proto.PresenceUser `json:"users"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := ts.Client().Get(ts.URL + "/api/presence")
		if err != nil {
			t.Fatalf("presence request failed: %v", err)
		}
		err = json.NewDecoder(resp.Body).Decode(&snapshot)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode presence: %v", err)
		}
		if len(snapshot.Users) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("presence never showed the connection: %+v", snapshot)
}

func TestWebSocketSessionRoundTrip(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	send(t, ctx, connA, proto.InboundTypeNewUser, "u1")
	send(t, ctx, connA, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: "r1", Username: "Alice"})
	frame := readUntilEvent(t, ctx, connA, proto.EventNameRoomUsers)

	var roomA proto.EventRoomUsers
	if err := json.Unmarshal(frame.Data, &roomA); err != nil {
		t.Fatalf("decode roomUsers: %v", err)
	}
	if roomA.RoomID != "r1" || len(roomA.Users) != 1 || roomA.Users[0].Username != "Alice" {
		t.Fatalf("unexpected room snapshot: %+v", roomA)
	}

	send(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: "r1", Username: "Bob"})
	frame = readUntilEvent(t, ctx, connB, proto.EventNameRoomUsers)

	var roomB proto.EventRoomUsers
	if err := json.Unmarshal(frame.Data, &roomB); err != nil {
		t.Fatalf("decode roomUsers: %v", err)
	}
	if len(roomB.Users) != 2 || roomB.Users[0].Username != "Alice" || roomB.Users[1].Username != "Bob" {
		t.Fatalf("unexpected room snapshot: %+v", roomB)
	}

	send(t, ctx, connA, proto.InboundTypeSendMessage, proto.SendMessageData{RoomID: "r1", User: "Alice", Text: "hi"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		frame = readUntilEvent(t, ctx, conn, proto.EventNameMessage)
		var msg proto.EventMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.ID == "" || msg.Author != "Alice" || msg.Text != "hi" || msg.RoomID != "r1" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
}

func TestWebSocketUnknownTypeGetsErrorFrame(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	send(t, ctx, conn, "dance", struct{}{})

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read: %v", err)
		}
		if frame.Type == proto.OutboundTypeError {
			if frame.Error == nil || frame.Error.Code != proto.ErrCodeInvalidMessage {
				t.Fatalf("unexpected error frame: %+v", frame)
			}
			return
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := startTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/health", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "http://example.com")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}
