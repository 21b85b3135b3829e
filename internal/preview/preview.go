// Package preview serves generated floors over websocket so layout
// changes can be inspected live while tuning a configuration.
package preview

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/towerforge/internal/config"
	"github.com/lawnchairsociety/towerforge/internal/floorgen"
	"github.com/lawnchairsociety/towerforge/internal/logger"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// Request asks for one floor by number.
type Request struct {
	Floor int `json:"floor"`
}

// Response carries one generated floor, serialized as YAML, or an
// error message when generation failed.
type Response struct {
	Floor  int    `json:"floor"`
	Seed   int64  `json:"seed,omitempty"`
	Rooms  int    `json:"rooms,omitempty"`
	Layout string `json:"layout,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server generates floors on demand for connected preview clients.
type Server struct {
	cfg *config.PreviewConfig
	gen *floorgen.Generator
}

// NewServer creates a preview server around a generator.
func NewServer(cfg *config.PreviewConfig, gen *floorgen.Generator) *Server {
	return &Server{cfg: cfg, gen: gen}
}

// Start listens for websocket connections. It blocks until the
// listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)

	logger.Info("preview server listening", "addr", s.cfg.ListenAddr)
	if err := http.ListenAndServe(s.cfg.ListenAddr, mux); err != nil {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

// handleUpgrade upgrades an HTTP connection to websocket and runs the
// request loop.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if !s.cfg.IsOriginAllowed(origin, r.Host) {
				logger.Warning("preview connection rejected", "origin", origin, "host", r.Host)
				return false
			}
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}
	logger.Debug("preview client connected", "remote", conn.RemoteAddr())

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("preview client read failed", "error", err)
			}
			return
		}
		if err := conn.WriteJSON(s.respond(req)); err != nil {
			logger.Debug("preview client write failed", "error", err)
			return
		}
	}
}

// respond generates the requested floor and packages it for the client.
func (s *Server) respond(req Request) Response {
	floor, err := s.gen.Generate(req.Floor)
	if err != nil {
		return Response{Floor: req.Floor, Error: err.Error()}
	}
	return serialize(floor)
}

func serialize(floor *world.Floor) Response {
	layout, err := floorgen.Marshal(floor)
	if err != nil {
		return Response{Floor: floor.Number, Error: err.Error()}
	}
	return Response{
		Floor:  floor.Number,
		Seed:   floor.Seed,
		Rooms:  len(floor.Rooms),
		Layout: string(layout),
	}
}
