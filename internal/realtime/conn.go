package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/api/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// Serve pumps frames between conn and s until either side goes away. It
// blocks until the connection is closed and always removes s from the hub.
func Serve(conn *websocket.Conn, s *Session, logger zerolog.Logger) {
	log := logger.With().Str("session_id", s.ID).Str("user_id", s.UserID).Logger()

	metrics.RealtimeConnections.Inc()
	defer metrics.RealtimeConnections.Dec()

	go writePump(conn, s, log)
	readPump(conn, s, log)
}

// readPump owns reads on conn. When it returns the session is closed, which
// in turn stops the write pump.
func readPump(conn *websocket.Conn, s *Session, log zerolog.Logger) {
	defer func() {
		s.Close()
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("connection closed unexpectedly")
			}
			return
		}

		var f ClientFrame
		if err := json.Unmarshal(data, &f); err != nil || !s.Handle(f) {
			log.Debug().Str("event", f.Event).Msg("ignored client frame")
		}
	}
}

func writePump(conn *websocket.Conn, s *Session, log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-s.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case f := <-s.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				log.Debug().Err(err).Msg("write failed")
				s.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.Close()
				return
			}
		}
	}
}
