package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dmarkin/roomcast-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	userID := flag.String("user-id", "smoke-user", "user id to announce with newUser")
	username := flag.String("username", "Smokey", "display name for joinRoom")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		return wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw})
	}

	if err := send(proto.InboundTypeNewUser, *userID); err != nil {
		return err
	}
	if err := send(proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room, Username: *username}); err != nil {
		return err
	}
	if err := waitEvent(ctx, conn, proto.EventNameRoomUsers); err != nil {
		return fmt.Errorf("join not confirmed: %w", err)
	}
	fmt.Printf("joined %s as %s\n", *room, *username)

	if err := send(proto.InboundTypeSendMessage, proto.SendMessageData{RoomID: *room, User: *username, Text: *text}); err != nil {
		return err
	}
	if err := waitEvent(ctx, conn, proto.EventNameMessage); err != nil {
		return fmt.Errorf("message not echoed: %w", err)
	}
	fmt.Println("message round trip ok")

	return nil
}

func waitEvent(ctx context.Context, conn *websocket.Conn, event string) error {
	for {
		var frame struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return err
		}
		if frame.Event == event {
			fmt.Printf("<- %s %s\n", frame.Event, string(frame.Data))
			return nil
		}
	}
}
