package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// clientCommand tags a command with the connection that issued it.
type clientCommand struct {
	client *Client
	cmd    *Command
}

type membersQuery struct {
	room  string
	reply chan []Member
}

// Hub owns the presence registry and the room table. All mutation happens on
// the Run goroutine, so every read-modify-broadcast sequence is atomic with
// respect to the others and broadcasts never observe a half-applied change.
// Side effects (transcript append, backend notify) leave the loop through
// the job runner and never stall it.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	presenceQ  chan chan []PresenceEntry
	membersQ   chan membersQuery

	clients  map[*Client]struct{}
	presence *registry
	rooms    map[string]*Room

	sink     TranscriptSink
	notifier ParticipantNotifier
	jobs     JobRunner
	stats    Stats
	log      zerolog.Logger
}

// NewHub constructs the hub. Any collaborator may be nil: a nil sink or
// notifier disables that side effect, a nil job runner falls back to plain
// goroutines, nil stats and logger are no-ops.
func NewHub(sink TranscriptSink, notifier ParticipantNotifier, jobs JobRunner, stats Stats, logger *zerolog.Logger) *Hub {
	if stats == nil {
		stats = noopStats{}
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		presenceQ:  make(chan chan []PresenceEntry),
		membersQ:   make(chan membersQuery),
		clients:    make(map[*Client]struct{}),
		presence:   newRegistry(),
		rooms:      make(map[string]*Room),
		sink:       sink,
		notifier:   notifier,
		jobs:       jobs,
		stats:      stats,
		log:        lg,
	}
}

// RegisterClient hands a freshly accepted connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient tells the hub the connection's channel closed. The
// transport must call this exactly once per registered client.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Presence returns a copy of the global presence table.
func (h *Hub) Presence(ctx context.Context) []PresenceEntry {
	reply := make(chan []PresenceEntry, 1)
	select {
	case h.presenceQ <- reply:
	case <-ctx.Done():
		return nil
	}
	select {
	case snap := <-reply:
		return snap
	case <-ctx.Done():
		return nil
	}
}

// RoomMembers returns a copy of the room's member list, empty if the room
// is unknown.
func (h *Hub) RoomMembers(ctx context.Context, room string) []Member {
	reply := make(chan []Member, 1)
	select {
	case h.membersQ <- membersQuery{room: room, reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case members := <-reply:
		return members
	case <-ctx.Done():
		return nil
	}
}

// Run processes hub traffic until the context is canceled. One command is
// handled to completion before the next begins.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		case reply := <-h.presenceQ:
			reply <- h.presence.snapshot()
		case q := <-h.membersQ:
			if room, ok := h.rooms[q.room]; ok {
				q.reply <- room.Members()
			} else {
				q.reply <- []Member{}
			}
		}
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	if _, ok := h.clients[c]; ok {
		return
	}
	h.clients[c] = struct{}{}
	h.presence.add(c.ID)
	h.stats.ConnectionsActive(len(h.clients))
	h.broadcastPresence()
	go h.pump(ctx, c)
	h.log.Debug().Str("conn_id", c.ID).Int("online", h.presence.size()).Msg("client registered")
}

// pump forwards the client's commands into the hub loop until the client is
// unregistered or the hub stops.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleUnregister treats a disconnect as an implicit leave from every room
// the client is a member of. Each affected room gets exactly one broadcast.
func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.done)
	h.presence.remove(c.ID)
	for name, room := range h.rooms {
		wasMember := room.RemoveMember(c.ID)
		room.Unsubscribe(c)
		if wasMember {
			h.broadcastRoom(room)
		}
		if room.Empty() {
			delete(h.rooms, name)
		}
	}
	h.stats.ConnectionsActive(len(h.clients))
	h.stats.RoomsActive(len(h.rooms))
	h.broadcastPresence()
	h.log.Debug().Str("conn_id", c.ID).Int("online", h.presence.size()).Msg("client unregistered")
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	if _, ok := h.clients[c]; !ok {
		// Command raced with unregister; the tables no longer know the
		// connection, so there is nothing consistent to do with it.
		return
	}
	switch cmd.Kind {
	case CommandIdentify:
		h.handleIdentify(c, cmd)
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd)
	case CommandSendMessage:
		h.handleMessage(c, cmd)
	}
}

func (h *Hub) handleIdentify(c *Client, cmd *Command) {
	if cmd.UserID == "" {
		// Empty identity changes nothing and triggers nothing.
		return
	}
	h.presence.identify(c.ID, cmd.UserID)
	h.broadcastPresence()
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if cmd.Room == "" || cmd.Username == "" {
		h.log.Debug().Str("conn_id", c.ID).Msg("join without room or username ignored")
		return
	}
	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
		h.stats.RoomsActive(len(h.rooms))
	}
	room.Subscribe(c)
	room.AddMember(c.ID, cmd.Username)
	h.broadcastRoom(room)

	if h.notifier != nil && cmd.Email != "" {
		p := Participation{
			Room:     cmd.Room,
			UserID:   cmd.UserID,
			Username: cmd.Username,
			Email:    cmd.Email,
		}
		h.submit("notify_join", func() {
			if err := h.notifier.NotifyJoin(context.Background(), p); err != nil {
				h.log.Warn().Err(err).Str("room", p.Room).Msg("participant notification failed")
			}
		})
	}
}

func (h *Hub) handleLeave(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		// Unknown room behaves like an empty one: the leaver still receives
		// the (empty) member list.
		c.Deliver(&Event{Kind: EventRoomUsers, Room: cmd.Room, Members: []Member{}})
		return
	}
	room.Unsubscribe(c)
	room.RemoveMember(c.ID)
	h.broadcastRoom(room)
	if room.Empty() {
		delete(h.rooms, cmd.Room)
		h.stats.RoomsActive(len(h.rooms))
	}
}

// handleMessage stamps and fans out a chat message. Fields arrive as-is:
// an empty author or text is relayed, not rejected.
func (h *Hub) handleMessage(c *Client, cmd *Command) {
	msg := Message{
		ID:        uuid.NewString(),
		Room:      cmd.Room,
		Author:    cmd.Username,
		Text:      cmd.Text,
		CreatedAt: time.Now(),
	}
	if room, ok := h.rooms[cmd.Room]; ok {
		room.Broadcast(&Event{Kind: EventMessage, Room: cmd.Room, Message: msg})
	}
	h.stats.MessageRelayed()

	if h.sink != nil {
		entry := TranscriptEntry{
			Room:      msg.Room,
			Author:    msg.Author,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}
		h.submit("transcript_append", func() {
			if err := h.sink.Append(context.Background(), entry); err != nil {
				h.log.Warn().Err(err).Str("room", entry.Room).Msg("transcript append failed")
			}
		})
	}
}

func (h *Hub) broadcastPresence() {
	ev := &Event{Kind: EventUsersOnline, Users: h.presence.snapshot()}
	for c := range h.clients {
		c.Deliver(ev)
	}
}

func (h *Hub) broadcastRoom(room *Room) {
	room.Broadcast(&Event{Kind: EventRoomUsers, Room: room.Name, Members: room.Members()})
}

func (h *Hub) submit(name string, fn func()) {
	if h.jobs == nil {
		go fn()
		return
	}
	if !h.jobs.Submit(fn) {
		h.stats.SideJobDropped()
		h.log.Warn().Str("job", name).Msg("side job queue full, dropping")
	}
}
