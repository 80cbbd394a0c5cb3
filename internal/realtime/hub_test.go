package realtime

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func frame(event, projectID string) ClientFrame {
	data, _ := json.Marshal(projectID)
	return ClientFrame{Event: event, Data: data}
}

func TestHub_RegisterJoinsUserRoom(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	s := hub.Register("u1")

	if s.ID == "" {
		t.Fatalf("expected session id")
	}
	if hub.Members("u1") != 1 {
		t.Fatalf("expected session in its user room")
	}
	if !reflect.DeepEqual(s.Rooms(), []string{"u1"}) {
		t.Fatalf("unexpected rooms %v", s.Rooms())
	}
}

func TestSession_HandleJoinAndLeave(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	s := hub.Register("u1")

	if !s.Handle(frame(EventJoinComments, "p1")) {
		t.Fatalf("expected join to be handled")
	}
	if hub.Members("comment_p1") != 1 {
		t.Fatalf("expected session in comment room")
	}

	if s.Handle(frame("dance", "p1")) {
		t.Fatalf("unknown events must be ignored")
	}
	if s.Handle(ClientFrame{Event: EventJoinComments, Data: json.RawMessage(`42`)}) {
		t.Fatalf("non-string payload must be ignored")
	}

	s.Handle(frame(EventLeaveComments, "p1"))
	if hub.Members("comment_p1") != 0 {
		t.Fatalf("expected session to leave comment room")
	}
}

func TestSession_JoinGuard(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	s := hub.Register("u1", WithJoinGuard(func(projectID string) bool { return projectID == "public" }))

	if s.Handle(frame(EventJoinComments, "private")) {
		t.Fatalf("guarded join must be refused")
	}
	if hub.Members(CommentRoom("private")) != 0 {
		t.Fatalf("refused session must not be in the room")
	}
	if !s.Handle(frame(EventJoinComments, "public")) || hub.Members(CommentRoom("public")) != 1 {
		t.Fatalf("allowed join must be applied")
	}
}

func TestHub_RemoveLeavesEveryRoom(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	s := hub.Register("u1")
	s.Handle(frame(EventJoinComments, "p1"))
	s.Handle(frame(EventJoinComments, "p2"))

	s.Close()
	s.Close()

	for _, room := range []string{"u1", "comment_p1", "comment_p2"} {
		if n := hub.Members(room); n != 0 {
			t.Fatalf("room %s still has %d members", room, n)
		}
	}
	if hub.Sessions() != 0 {
		t.Fatalf("expected no sessions, got %d", hub.Sessions())
	}
	select {
	case <-s.Done():
	default:
		t.Fatalf("expected done to be closed")
	}

	s.Handle(frame(EventJoinComments, "p3"))
	if hub.Members("comment_p3") != 0 {
		t.Fatalf("closed session must not join rooms")
	}
}

func TestHub_BroadcastDropsForFullOutbox(t *testing.T) {
	hub := NewHub(1, zerolog.Nop())
	slow := hub.Register("u1")
	fast := hub.Register("u2")
	slow.Handle(frame(EventJoinComments, "p1"))
	fast.Handle(frame(EventJoinComments, "p1"))

	if d, x := hub.Broadcast("comment_p1", Frame{Event: EventNewComment, Data: "first"}); d != 2 || x != 0 {
		t.Fatalf("expected 2 delivered, got %d delivered %d dropped", d, x)
	}
	<-fast.Outbox()

	d, x := hub.Broadcast("comment_p1", Frame{Event: EventNewComment, Data: "second"})
	if d != 1 || x != 1 {
		t.Fatalf("expected 1 delivered 1 dropped, got %d/%d", d, x)
	}
	if got := (<-fast.Outbox()).Data; got != "second" {
		t.Fatalf("fast member got %v", got)
	}
	if got := (<-slow.Outbox()).Data; got != "first" {
		t.Fatalf("slow member got %v", got)
	}
}

func TestHub_BroadcastOnlyReachesRoom(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	watcher := hub.Register("u1")
	other := hub.Register("u2")
	watcher.Handle(frame(EventJoinComments, "p1"))
	other.Handle(frame(EventJoinComments, "p2"))

	hub.Broadcast("comment_p1", Frame{Event: EventNewComment, Data: "x"})

	select {
	case <-other.Outbox():
		t.Fatalf("frame leaked to another room")
	default:
	}
	if len(watcher.Outbox()) != 1 {
		t.Fatalf("expected watcher to receive the frame")
	}
}

func TestHub_ShutdownClosesSessions(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	a := hub.Register("u1")
	b := hub.Register("u2")
	b.Handle(frame(EventJoinComments, "p1"))

	hub.Shutdown()

	if hub.Sessions() != 0 || hub.Members("comment_p1") != 0 {
		t.Fatalf("expected hub to be empty after shutdown")
	}
	for _, s := range []*Session{a, b} {
		select {
		case <-s.Done():
		default:
			t.Fatalf("session %s still open", s.ID)
		}
	}
}
