package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

// handleRunStream upgrades the request to a WebSocket connection and
// streams RunStatus updates for the named run until the run finishes or
// the client disconnects.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("run_id", id).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if current, ok := s.broadcaster.Status(id); ok {
		if err := writeStatus(conn, current); err != nil {
			return
		}
		if current.Done {
			return
		}
	}

	ch := s.broadcaster.Subscribe(id)
	defer s.broadcaster.Unsubscribe(id, ch)

	for status := range ch {
		if err := writeStatus(conn, status); err != nil {
			return
		}
		if status.Done {
			return
		}
	}
}

func writeStatus(conn *websocket.Conn, status RunStatus) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
