package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/agentloom/agentloom/registry"
)

// wsClose pairs a close code with a reason for the final control frame.
type wsClose struct {
	code   int
	reason string
}

// handleWS streams one run over a WebSocket: the client sends a single run
// request, receives every orchestration event as its own JSON message, and
// then a normal close frame. Closing the socket early cancels the run.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	closeWith := func(c wsClose) {
		msg := websocket.FormatCloseMessage(c.code, c.reason)
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	}

	var req runRequest
	if err := conn.ReadJSON(&req); err != nil {
		closeWith(wsClose{websocket.CloseInvalidFramePayloadData, "invalid run request"})
		return
	}
	if req.UserID == "" {
		req.UserID = "default_user"
	}

	cfg, err := s.registry.Workflow(req.Workflow)
	if err != nil {
		reason := "internal error"
		if errors.Is(err, registry.ErrWorkflowNotFound) {
			reason = err.Error()
		}
		closeWith(wsClose{websocket.ClosePolicyViolation, reason})
		return
	}

	runID, events := s.dispatcher.Run(r.Context(), cfg, req.UserID, req.Input)
	s.logger.Info("websocket run started", "run_id", runID, "workflow", cfg.Name, "user_id", req.UserID)

	// Cancel the run if the peer closes the socket before the stream ends.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				_ = s.dispatcher.Cancel(runID)
				return
			}
		}
	}()

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Debug("websocket client went away", "run_id", runID, "error", err)
			return
		}
	}

	closeWith(wsClose{websocket.CloseNormalClosure, "run complete"})
}
