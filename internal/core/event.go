package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUsersOnline carries the full global presence snapshot.
	EventUsersOnline EventKind = iota
	// EventRoomUsers carries the member list of a single room.
	EventRoomUsers
	// EventMessage carries a chat message relayed to a room.
	EventMessage
)

// Event is sent to clients to describe what happened in the system.
// Snapshots are copies taken after the mutation that triggered them.
type Event struct {
	Kind    EventKind
	Room    string
	Users   []PresenceEntry // EventUsersOnline
	Members []Member        // EventRoomUsers
	Message Message         // EventMessage
}
