package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandIdentify attaches a user identity to the connection.
	CommandIdentify CommandKind = iota
	// CommandJoinRoom subscribes the client to a room and records membership.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandSendMessage relays a chat message to room subscribers.
	CommandSendMessage
)

// Command represents an action requested by a client. Fields are filled per
// kind; absent fields stay empty and the handlers decide what that means.
type Command struct {
	Kind     CommandKind
	Room     string
	UserID   string // identify; optional on join
	Username string // display name on join, author on sendMessage
	Email    string // optional contact on join, forwarded to the notifier
	Text     string // message body
}
