package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hatparty/internal/analytics"
	"hatparty/internal/broadcast"
	"hatparty/internal/db"
	"hatparty/internal/game"
	"hatparty/internal/metrics"
	"hatparty/internal/rooms"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	sseBuffer           = 64
)

type Server struct {
	Rooms       *rooms.Store
	Broadcaster *broadcast.Broadcaster
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	DB          *db.DB             // nil if no database configured
	Queries     *analytics.Queries // nil if no database configured

	// per-connection inbound frame limit; zero disables it
	MessageRate  rate.Limit
	MessageBurst int
}

type roomInfo struct {
	game.Summary
	Connections int `json:"connections"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) roomInfo(room *rooms.Room) (roomInfo, error) {
	sum, err := room.Summary()
	if err != nil {
		return roomInfo{}, err
	}
	return roomInfo{Summary: sum, Connections: room.Hub.Count()}, nil
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.Rooms.Create()
	if err != nil {
		s.Log.Error("creating room", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"code": room.Code})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	list := []roomInfo{}
	for _, room := range s.Rooms.List() {
		info, err := s.roomInfo(room)
		if err != nil {
			// swept while listing
			continue
		}
		list = append(list, info)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	room := s.Rooms.Get(r.PathValue("code"))
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	info, err := s.roomInfo(room)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleRoomHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "history requires a database")
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	history, err := s.DB.RoomHistory(rooms.NormalizeCode(r.PathValue("code")), limit)
	if err != nil {
		s.Log.Error("loading room history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleMatchRecap(w http.ResponseWriter, r *http.Request) {
	if s.Queries == nil {
		writeError(w, http.StatusServiceUnavailable, "match recaps require a database")
		return
	}
	recap, err := s.Queries.GetMatchRecap(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		s.Log.Error("loading match recap", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load match")
		return
	}
	writeJSON(w, http.StatusOK, recap)
}

// handleEvents streams lifecycle events as server-sent events. ?room=CODE
// narrows the feed to one room.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.Broadcaster == nil {
		writeError(w, http.StatusServiceUnavailable, "event feed disabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	filter := rooms.NormalizeCode(r.URL.Query().Get("room"))

	msgChan := s.Broadcaster.Subscribe(sseBuffer)
	defer s.Broadcaster.Unsubscribe(msgChan)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-msgChan:
			if !ok {
				return
			}
			if filter != "" && ev.RoomCode != filter {
				continue
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\n", ev.Kind)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": len(s.Rooms.List())})
}
