package http

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/couchcryptid/impact-map/internal/app"
	"github.com/couchcryptid/impact-map/internal/scene"
)

const streamWriteTimeout = 5 * time.Second

// Frame is one message on the scene stream.
type Frame struct {
	Scene *scene.Snapshot `json:"scene,omitempty"`
	State app.State       `json:"state"`
}

// handleSceneStream pushes a frame on connect and after every change to the
// scene or the controller state. Changes arriving faster than
// streamInterval are merged into one frame.
func (s *Server) handleSceneStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow() //nolint:errcheck // best effort after a normal close

	s.metrics.SceneSubscribers.Inc()
	defer s.metrics.SceneSubscribers.Dec()

	// The client never sends; CloseRead handles control frames and cancels
	// ctx when the connection goes away.
	ctx := conn.CloseRead(r.Context())

	var sceneCh <-chan struct{}
	sc := s.controller.Scene()
	if sc != nil {
		ch, unsubscribe := sc.Subscribe()
		defer unsubscribe()
		sceneCh = ch
	}
	stateCh, unsubscribe := s.controller.Subscribe()
	defer unsubscribe()

	s.logger.Debug("scene stream opened", "remote", r.RemoteAddr)

	for {
		if err := s.writeFrame(ctx, conn, sc); err != nil {
			s.logger.Debug("scene stream closed", "remote", r.RemoteAddr, "error", err)
			return
		}

		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // closing anyway
			return
		case <-sceneCh:
		case <-stateCh:
		}

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.streamInterval):
		}
	}
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, sc *scene.Scene) error {
	frame := Frame{State: s.controller.State()}
	if sc != nil {
		snap := sc.Snapshot()
		frame.Scene = &snap
	}

	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, frame)
}
