package core

// Client is one live connection as seen by the core layer. The transport
// owns the underlying channel; the core only holds the identifier and the
// two queues bridging the two layers.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub on unregister so the command pump exits.
	done chan struct{}
}

// NewClient constructs a client with initialized queues.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
		done:     make(chan struct{}),
	}
}

// Deliver queues an event for the client. Returns false if the event was
// dropped because the client cannot keep up.
func (c *Client) Deliver(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
