// Package realtime pushes new comments to connected websocket clients.
//
// A Hub groups sessions into named rooms. Every session joins the room named
// after its user id on registration and may join one comment room per
// project it is watching. Broadcasts are best effort: a member whose outbox
// is full misses the event and nothing is retried.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultOutbox = 32

// Event names exchanged with clients.
const (
	EventJoinComments  = "comment"
	EventLeaveComments = "leave"
	EventNewComment    = "newComment"
)

// Frame is a message sent to a client.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// CommentRoom is the room that receives new comments for a project.
func CommentRoom(projectID string) string {
	return "comment_" + projectID
}

type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Session]struct{}
	sessions map[string]*Session
	outbox   int
	logger   zerolog.Logger
}

// NewHub creates a hub whose sessions buffer up to outbox frames each.
func NewHub(outbox int, logger zerolog.Logger) *Hub {
	if outbox <= 0 {
		outbox = defaultOutbox
	}
	return &Hub{
		rooms:    make(map[string]map[*Session]struct{}),
		sessions: make(map[string]*Session),
		outbox:   outbox,
		logger:   logger.With().Str("component", "realtime_hub").Logger(),
	}
}

// JoinGuard decides whether a session may follow a project's comments.
type JoinGuard func(projectID string) bool

// SessionOption customizes a session at registration.
type SessionOption func(*Session)

// WithJoinGuard makes comment room joins subject to guard.
func WithJoinGuard(guard JoinGuard) SessionOption {
	return func(s *Session) { s.guard = guard }
}

// Register creates a session for an authenticated user and joins it to the
// user's own room.
func (h *Hub) Register(userID string, opts ...SessionOption) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		hub:    h,
		rooms:  make(map[string]struct{}),
		send:   make(chan Frame, h.outbox),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.joinLocked(s, userID)
	h.mu.Unlock()

	h.logger.Debug().Str("session_id", s.ID).Str("user_id", userID).Msg("session registered")
	return s
}

// Join adds s to room. It is a no-op for closed sessions.
func (h *Hub) Join(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	h.joinLocked(s, room)
}

func (h *Hub) joinLocked(s *Session, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
	s.rooms[room] = struct{}{}
}

func (h *Hub) Leave(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s, room)
}

func (h *Hub) leaveLocked(s *Session, room string) {
	delete(s.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Remove closes s and takes it out of every room it joined.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	for room := range s.rooms {
		h.leaveLocked(s, room)
	}
	delete(h.sessions, s.ID)
	s.closed = true
	close(s.done)
}

// Broadcast offers f to every member of room without blocking. It returns how
// many members received the frame and how many had a full outbox.
func (h *Hub) Broadcast(room string, f Frame) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.rooms[room] {
		select {
		case s.send <- f:
			delivered++
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn().Str("room", room).Int("dropped", dropped).Msg("outbox full, event dropped")
	}
	return delivered, dropped
}

// Members returns the number of sessions in room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Sessions returns the number of open sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown closes every open session. Their write pumps send a close frame
// and the connections are released.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	open := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.RUnlock()

	for _, s := range open {
		h.Remove(s)
	}
}
