package core

import "testing"

func TestRoomMembersStackAndPreserveOrder(t *testing.T) {
	r := NewRoom("r1")
	r.AddMember("a", "Alice")
	r.AddMember("b", "Bob")
	r.AddMember("a", "Alice")

	members := r.Members()
	if len(members) != 3 {
		t.Fatalf("expected stacked records, got %+v", members)
	}
	if members[0].ConnID != "a" || members[1].ConnID != "b" || members[2].ConnID != "a" {
		t.Fatalf("insertion order lost: %+v", members)
	}
}

func TestRoomRemoveMemberDropsAllRecords(t *testing.T) {
	r := NewRoom("r1")
	r.AddMember("a", "Alice")
	r.AddMember("b", "Bob")
	r.AddMember("a", "Alice")

	if !r.RemoveMember("a") {
		t.Fatal("expected removal to report a change")
	}
	if r.RemoveMember("a") {
		t.Fatal("second removal must be a no-op")
	}

	members := r.Members()
	if len(members) != 1 || members[0].ConnID != "b" {
		t.Fatalf("unexpected members: %+v", members)
	}
}

func TestRoomEmpty(t *testing.T) {
	r := NewRoom("r1")
	if !r.Empty() {
		t.Fatal("new room should be empty")
	}

	c := NewClient("a")
	r.Subscribe(c)
	if r.Empty() {
		t.Fatal("subscribed room is not empty")
	}

	r.Unsubscribe(c)
	r.AddMember("a", "Alice")
	if r.Empty() {
		t.Fatal("room with members is not empty")
	}

	r.RemoveMember("a")
	if !r.Empty() {
		t.Fatal("drained room should be empty")
	}
}

func TestRoomBroadcastDropsSlowConsumer(t *testing.T) {
	r := NewRoom("r1")
	fast := NewClient("fast")
	slow := &Client{ID: "slow", Events: make(chan *Event)} // no buffer, nobody reading
	r.Subscribe(fast)
	r.Subscribe(slow)

	r.Broadcast(&Event{Kind: EventRoomUsers, Room: "r1"})

	select {
	case <-fast.Events:
	default:
		t.Fatal("fast consumer should have received the event")
	}
}
