package realtime

import (
	"encoding/json"
	"sort"
	"strings"
)

// Session is one authenticated client connection. Its room set and closed
// flag are guarded by the owning hub's lock.
type Session struct {
	ID     string
	UserID string

	hub    *Hub
	guard  JoinGuard
	rooms  map[string]struct{}
	send   chan Frame
	done   chan struct{}
	closed bool
}

// ClientFrame is a message received from a client. Data carries a project id.
type ClientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbox yields frames queued for this session.
func (s *Session) Outbox() <-chan Frame { return s.send }

// Done is closed once the session has been removed from the hub.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close removes the session from every room. It is safe to call more than once.
func (s *Session) Close() { s.hub.Remove(s) }

// Rooms returns the rooms the session has joined, sorted.
func (s *Session) Rooms() []string {
	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()

	out := make([]string, 0, len(s.rooms))
	for room := range s.rooms {
		out = append(out, room)
	}
	sort.Strings(out)
	return out
}

// Handle applies a client frame. Unknown events, malformed payloads and joins
// refused by the session's guard are ignored and reported as false.
func (s *Session) Handle(f ClientFrame) bool {
	var projectID string
	if err := json.Unmarshal(f.Data, &projectID); err != nil {
		return false
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return false
	}

	switch f.Event {
	case EventJoinComments:
		if s.guard != nil && !s.guard(projectID) {
			return false
		}
		s.hub.Join(s, CommentRoom(projectID))
	case EventLeaveComments:
		s.hub.Leave(s, CommentRoom(projectID))
	default:
		return false
	}
	return true
}
