package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/engine"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/serialstudio"
)

// HTTPServer exposes dashboard state over HTTP: discovery, the latest
// document as plain JSON, a WebSocket frame stream, and a health summary.
type HTTPServer struct {
	mgr      *engine.Manager
	log      *slog.Logger
	upgrader websocket.Upgrader
	srv      *http.Server
}

// NewHTTPServer builds the server and its routes.
func NewHTTPServer(addr string, mgr *engine.Manager, log *slog.Logger) *HTTPServer {
	h := &HTTPServer{
		mgr: mgr,
		log: log,
		upgrader: websocket.Upgrader{
			// Frames are broadcast-only; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/dashboards", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/dashboards/{name}.json", h.handleDocument).Methods(http.MethodGet)
	r.HandleFunc("/ws/{name}", h.handleWS).Methods(http.MethodGet)

	h.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h
}

// Serve runs the HTTP server until Close.
func (h *HTTPServer) Serve() error {
	h.log.Info("http server listening", "addr", h.srv.Addr)
	err := h.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts the server down immediately.
func (h *HTTPServer) Close() {
	h.srv.Close()
}

// Handler exposes the router, mainly for tests.
func (h *HTTPServer) Handler() http.Handler {
	return h.srv.Handler
}

type healthEntry struct {
	Name         string  `json:"name"`
	Cycles       int     `json:"cycles"`
	Errors       int     `json:"errors"`
	DroppedSlots int     `json:"dropped_slots"`
	LastCycle    string  `json:"last_cycle,omitempty"`
	AvgCycleMs   float64 `json:"avg_cycle_ms"`
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	infos := h.mgr.List()
	entries := make([]healthEntry, 0, len(infos))
	for _, info := range infos {
		e := healthEntry{
			Name:         info.Name,
			Cycles:       info.Cycles,
			Errors:       info.Errors,
			DroppedSlots: info.DroppedSlots,
			AvgCycleMs:   float64(info.AvgCycle.Microseconds()) / 1000,
		}
		if !info.LastCycle.IsZero() {
			e.LastCycle = info.LastCycle.Format(time.RFC3339)
		}
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "dashboards": entries})
}

func (h *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	names := h.mgr.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// handleDocument serves the latest document with the socket framing
// stripped, so it is directly loadable as a Serial Studio project file.
func (h *HTTPServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mgr.Get(mux.Vars(r)["name"])
	if !ok {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	frame := s.LatestFrame()
	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	payload, ok := serialstudio.StripFrame(frame)
	if !ok {
		http.Error(w, "malformed frame", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// handleWS streams framed documents to a WebSocket client, one frame per
// message, starting with the latest.
func (h *HTTPServer) handleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mgr.Get(mux.Vars(r)["name"])
	if !ok {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	// Reader goroutine only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if frame := s.LatestFrame(); frame != nil {
		if err := h.writeFrame(conn, frame); err != nil {
			return
		}
	}

	for {
		select {
		case frame, open := <-sub:
			if !open {
				return
			}
			if err := h.writeFrame(conn, frame); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *HTTPServer) writeFrame(conn *websocket.Conn, frame []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
