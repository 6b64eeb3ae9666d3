package core

// PresenceEntry ties a connection to the user identity it claimed, if any.
// UserID stays empty until the connection identifies itself; duplicate
// UserID values across entries are allowed.
type PresenceEntry struct {
	ConnID string
	UserID string
}

// registry tracks global presence in connection arrival order. It is owned
// by the hub loop and needs no locking of its own.
type registry struct {
	entries []PresenceEntry
}

func newRegistry() *registry {
	return &registry{}
}

// add inserts an unidentified entry for the connection. At most one entry
// per connection: re-adding an existing connection is a no-op.
func (r *registry) add(connID string) {
	for _, e := range r.entries {
		if e.ConnID == connID {
			return
		}
	}
	r.entries = append(r.entries, PresenceEntry{ConnID: connID})
}

// identify overwrites the entry's user identity in place, inserting a fresh
// entry when the connection is unknown.
func (r *registry) identify(connID, userID string) {
	for i := range r.entries {
		if r.entries[i].ConnID == connID {
			r.entries[i].UserID = userID
			return
		}
	}
	r.entries = append(r.entries, PresenceEntry{ConnID: connID, UserID: userID})
}

// remove drops the entry for the connection, if present.
func (r *registry) remove(connID string) {
	for i, e := range r.entries {
		if e.ConnID == connID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns a copy of all entries in insertion order.
func (r *registry) snapshot() []PresenceEntry {
	out := make([]PresenceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *registry) size() int {
	return len(r.entries)
}
