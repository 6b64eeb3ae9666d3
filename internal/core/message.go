package core

import "time"

// Message is the domain model for a relayed chat message. It is transient:
// after the fan-out only the transcript sink keeps a trace of it.
type Message struct {
	ID        string
	Room      string
	Author    string
	Text      string
	CreatedAt time.Time
}
