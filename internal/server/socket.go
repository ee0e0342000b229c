package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hatparty/internal/rooms"
	"hatparty/internal/wshub"
)

const (
	sendBuffer = 256
	readLimit  = 64 << 10
)

// handleSocket upgrades the request and attaches the connection to the room
// named in the path, opening the room on first use.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("room")
	if code == "" {
		code = r.PathValue("code")
	}
	room, err := s.Rooms.GetOrCreate(code)
	if errors.Is(err, rooms.ErrStoreClosed) {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.Log.Error("opening room", zap.String("room", code), zap.Error(err))
		http.Error(w, "failed to open room", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	var limiter *rate.Limiter
	if s.MessageRate > 0 {
		limiter = rate.NewLimiter(s.MessageRate, s.MessageBurst)
	}
	id := uuid.NewString()
	client := wshub.NewClient(id, conn, sendBuffer, limiter)
	log := s.Log.With(zap.String("room", room.Code), zap.String("conn", id))

	if err := room.Connect(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "room closed")
		return
	}
	log.Info("connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// Send is closed when the room stops
		client.WritePump(ctx)
		cancel()
	}()

	err = client.ReadPump(ctx,
		func(data []byte) { room.Message(id, data) },
		func(reason string) { s.Metrics.Dropped(reason) },
	)
	room.Disconnect(id)
	log.Info("connection closed", zap.Stringer("status", websocket.CloseStatus(err)))

	conn.Close(websocket.StatusNormalClosure, "")
}
