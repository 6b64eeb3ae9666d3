package core

// Member is one membership record inside a room. Repeated joins by the same
// connection stack up; each record keeps the display name given at join time.
type Member struct {
	ConnID   string
	Username string
}

// Room groups the clients subscribed to the same broadcast scope. The member
// list and the subscriber set are tracked separately: membership is the
// application-level bookkeeping, subscription is what broadcasts target.
type Room struct {
	Name        string
	members     []Member
	subscribers map[*Client]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:        name,
		subscribers: make(map[*Client]struct{}),
	}
}

// Subscribe registers the client for room broadcasts. Idempotent.
func (r *Room) Subscribe(c *Client) {
	r.subscribers[c] = struct{}{}
}

// Unsubscribe removes the client from the broadcast set. Idempotent.
func (r *Room) Unsubscribe(c *Client) {
	delete(r.subscribers, c)
}

// AddMember appends a membership record. Duplicates are not collapsed;
// insertion order is preserved.
func (r *Room) AddMember(connID, username string) {
	r.members = append(r.members, Member{ConnID: connID, Username: username})
}

// RemoveMember deletes every membership record for the connection. Returns
// true if any record was removed.
func (r *Room) RemoveMember(connID string) bool {
	kept := r.members[:0]
	removed := false
	for _, m := range r.members {
		if m.ConnID == connID {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	r.members = kept
	return removed
}

// Members returns a copy of the member list in insertion order.
func (r *Room) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Broadcast sends an event to all subscribed clients.
func (r *Room) Broadcast(event *Event) {
	for client := range r.subscribers {
		// Drop if slow consumer.
		client.Deliver(event)
	}
}

// Empty returns true once the room has no members and no subscribers.
func (r *Room) Empty() bool {
	return len(r.members) == 0 && len(r.subscribers) == 0
}
