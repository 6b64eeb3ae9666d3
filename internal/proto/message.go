package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeNewUser     = "newUser"
	InboundTypeJoinRoom    = "joinRoom"
	InboundTypeLeaveRoom   = "leaveRoom"
	InboundTypeSendMessage = "sendMessage"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameUsersOnline = "usersOnline"
	EventNameRoomUsers   = "roomUsers"
	EventNameMessage     = "message"

	ErrCodeInvalidMessage = "invalid_message"
)

// NewUserData declares the connection's user identity.
type NewUserData struct {
	UserID string `json:"userId"`
}

// JoinRoomData requests membership in a room.
type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// LeaveRoomData requests leaving a room.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	RoomID string `json:"roomId"`
	User   string `json:"user"`
	Text   string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// PresenceUser is one entry of the global presence snapshot.
type PresenceUser struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
}

// EventRoomUsers carries a room's member list.
type EventRoomUsers struct {
	RoomID string     `json:"roomId"`
	Users  []RoomUser `json:"users"`
}

// RoomUser is one member of a room snapshot.
type RoomUser struct {
	ConnectionID string `json:"connectionId"`
	Username     string `json:"username"`
}

// EventMessage is a relayed chat message.
type EventMessage struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Author string `json:"author"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
