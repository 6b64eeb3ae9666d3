package http

import (
	"encoding/json"

	"github.com/dmarkin/roomcast-server/internal/core"
	"github.com/dmarkin/roomcast-server/internal/proto"
)

// inboundToCommand maps a wire message to a core command. A nil command with
// a nil protocol error means the message should be silently dropped; the
// core additionally ignores commands with missing required fields.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeNewUser:
		userID, ok := decodeStringPayload(inbound.Data, "userId")
		if !ok {
			return nil, nil
		}
		return &core.Command{
			Kind:   core.CommandIdentify,
			UserID: userID,
		}, nil
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			Room:     join.RoomID,
			Username: join.Username,
			Email:    join.Email,
			UserID:   join.UserID,
		}, nil
	case proto.InboundTypeLeaveRoom:
		roomID, ok := decodeStringPayload(inbound.Data, "roomId")
		if !ok {
			return nil, nil
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: roomID,
		}, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil
		}
		return &core.Command{
			Kind:     core.CommandSendMessage,
			Room:     msg.RoomID,
			Username: msg.User,
			Text:     msg.Text,
		}, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

// decodeStringPayload accepts either a bare JSON string or an object with
// the given key; clients have been observed to send both shapes. A field
// holding a non-string value counts as absent, matching the coerce-to-empty
// handling of the struct-shaped payloads.
func decodeStringPayload(raw json.RawMessage, key string) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	if field, ok := obj[key]; ok {
		if err := json.Unmarshal(field, &s); err == nil {
			return s, true
		}
	}
	return "", true
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUsersOnline:
		users := make([]proto.PresenceUser, 0, len(event.Users))
		for _, u := range event.Users {
			users = append(users, proto.PresenceUser{
				ConnectionID: u.ConnID,
				UserID:       u.UserID,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUsersOnline,
			Data:  users,
		}
	case core.EventRoomUsers:
		users := make([]proto.RoomUser, 0, len(event.Members))
		for _, m := range event.Members {
			users = append(users, proto.RoomUser{
				ConnectionID: m.ConnID,
				Username:     m.Username,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomUsers,
			Data: proto.EventRoomUsers{
				RoomID: event.Room,
				Users:  users,
			},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data: proto.EventMessage{
				ID:     event.Message.ID,
				RoomID: event.Message.Room,
				Author: event.Message.Author,
				Text:   event.Message.Text,
				TS:     event.Message.CreatedAt.Unix(),
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
