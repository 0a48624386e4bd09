// Package api exposes the decoder's observable state over HTTP: a JSON
// snapshot endpoint, build metadata, and debug routes with a live SSE tail
// of engine iterations.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/touchtone/internal/dtmf"
	"github.com/banshee-data/touchtone/internal/version"
)

// Decoder is the engine surface the server reads from. Snapshots come from
// State; the SSE tail uses the subscriber fan-out.
type Decoder interface {
	State() dtmf.Snapshot
	Subscribe() (string, <-chan dtmf.Snapshot)
	Unsubscribe(string)
}

// Server serves decoder state over HTTP.
type Server struct {
	decoder Decoder
}

// NewServer creates a Server reading from the given decoder.
func NewServer(d Decoder) *Server {
	return &Server{decoder: d}
}

// ServeMux returns the route table for the server, including the debug
// routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.stateHandler)
	mux.HandleFunc("/api/version", s.versionHandler)
	s.attachDebugRoutes(mux)
	return mux
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.decoder.State()); err != nil {
		http.Error(w, "Failed to encode state", http.StatusInternalServerError)
	}
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

// attachDebugRoutes attaches debugging endpoints served at /debug/. These
// are accessible only over localhost/via Tailscale and are not publicly
// accessible.
func (s *Server) attachDebugRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	// Live tail of engine iterations as Server-Sent Events. One event per
	// decoded chunk; slow clients miss events rather than stalling the
	// decode loop.
	debug.HandleSilentFunc("tail", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Disable buffering for nginx

		id, c := s.decoder.Subscribe()
		defer s.decoder.Unsubscribe(id)

		// Send initial ping to establish connection
		io.WriteString(w, ": ping\n\n")
		flusher.Flush()

		for {
			select {
			case snap, ok := <-c:
				if !ok {
					return
				}
				payload, err := json.Marshal(snap)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	})
}
