package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The debug server is a local development surface.
	CheckOrigin: func(*http.Request) bool { return true },
}

// DebugServer exposes a local HTTP surface over the running engine:
// status, live config, transposition table stats and the analysis
// websocket. It never touches protocol stdout.
type DebugServer struct {
	store *ConfigStore
	proto *Protocol
	hub   *Hub
}

func NewDebugServer(store *ConfigStore, proto *Protocol, hub *Hub) *DebugServer {
	return &DebugServer{store: store, proto: proto, hub: hub}
}

func (s *DebugServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/status", s.handleStatus)
		r.Get("/config", s.handleGetConfig)
		r.Post("/config", s.handleSetConfig)
		r.Get("/cache/tt", s.handleTTStats)
		r.Get("/cache/tt/entries", s.handleTTEntries)
		r.Delete("/cache/tt", s.handleTTClear)
		r.Get("/heatmap", s.handleHeatmap)
	})
	r.Get("/ws/analysis", s.handleAnalysisWS)
	return r
}

// ListenAndServe runs the server; intended for a goroutine.
func (s *DebugServer) ListenAndServe(addr string) {
	log.Printf("[debug] listening on %s", addr)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		log.Printf("[debug] server stopped: %v", err)
	}
}

func (s *DebugServer) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

func (s *DebugServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.proto.Status())
}

func (s *DebugServer) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Get())
}

func (s *DebugServer) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	config := s.store.Get()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.store.Update(config)
	writeJSON(w, http.StatusOK, config)
}

func (s *DebugServer) handleTTStats(w http.ResponseWriter, _ *http.Request) {
	tt := s.proto.TT()
	if tt == nil {
		writeJSON(w, http.StatusOK, map[string]int{"entries": 0, "capacity": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"entries":  tt.Count(),
		"capacity": tt.Capacity(),
	})
}

func (s *DebugServer) handleTTEntries(w http.ResponseWriter, r *http.Request) {
	tt := s.proto.TT()
	if tt == nil {
		writeJSON(w, http.StatusOK, []TTEntry{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, tt.TopEntries(limit))
}

func (s *DebugServer) handleHeatmap(w http.ResponseWriter, _ *http.Request) {
	board, round, ok := s.proto.BoardSnapshot()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"started": false})
		return
	}
	heat := BuildHeatMap(board, round, s.store.Get())
	rows := make([][]float32, heat.Height())
	for y := 0; y < heat.Height(); y++ {
		rows[y] = make([]float32, heat.Width())
		for x := 0; x < heat.Width(); x++ {
			rows[y][x] = heat.ImportanceAt(x, y)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"started":    true,
		"round":      round,
		"importance": rows,
	})
}

func (s *DebugServer) handleTTClear(w http.ResponseWriter, _ *http.Request) {
	if tt := s.proto.TT(); tt != nil {
		tt.Clear()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *DebugServer) handleAnalysisWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[debug] ws upgrade: %v", err)
		return
	}
	client := NewClient(s.hub, conn)
	s.hub.register <- client
	go client.writePump()
	go client.readPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
