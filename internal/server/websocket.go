package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scantools/zxbridge"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// StreamConfig updates the decode parameters of a stream. Clients
// send it as a text message; omitted fields keep their current value.
type StreamConfig struct {
	Type       string  `json:"type"` // must be "config"
	TryHarder  *bool   `json:"tryHarder,omitempty"`
	Formats    *string `json:"formats,omitempty"`
	MaxSymbols *int    `json:"maxSymbols,omitempty"`
}

// StreamResult is the per-frame response on a decode stream.
type StreamResult struct {
	Type             string                `json:"type"` // "result" or "error"
	Results          []zxbridge.ReadResult `json:"results,omitempty"`
	Count            int                   `json:"count"`
	ProcessingTimeMS int64                 `json:"processing_time_ms"`
	Error            string                `json:"error,omitempty"`
}

// streamHandler upgrades the connection to a WebSocket over which the
// client streams image frames (binary messages) and receives one
// result set per frame. Intended for live camera scanning where a new
// frame arrives several times per second.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("Decode stream established", "remote_addr", r.RemoteAddr)
	s.handleStream(conn)
}

func (s *Server) handleStream(conn *websocket.Conn) {
	// Per-connection decode parameters, seeded from server defaults.
	tryHarder := s.defaultTryHarder
	formats := s.defaultFormats
	maxSymbols := s.defaultMaxSymbols

	// Drop hung connections.
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("Decode stream error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		websocketMessagesTotal.WithLabelValues("received").Inc()

		switch messageType {
		case websocket.TextMessage:
			var cfg StreamConfig
			if err := json.Unmarshal(data, &cfg); err != nil || cfg.Type != "config" {
				s.writeStream(conn, StreamResult{Type: "error", Error: "invalid config message"})
				continue
			}
			if cfg.TryHarder != nil {
				tryHarder = *cfg.TryHarder
			}
			if cfg.Formats != nil {
				formats = *cfg.Formats
			}
			if cfg.MaxSymbols != nil && *cfg.MaxSymbols > 0 {
				maxSymbols = *cfg.MaxSymbols
			}

		case websocket.BinaryMessage:
			start := time.Now()
			results := s.reader.ReadBarcodesFromImage(data, tryHarder, formats, maxSymbols)
			duration := time.Since(start)

			status := "success"
			if len(results) == 1 && results[0].Error != "" {
				status = "error"
			}
			decodeRequestsTotal.WithLabelValues("websocket", status).Inc()
			decodeDuration.WithLabelValues("websocket").Observe(duration.Seconds())
			symbolsDecoded.WithLabelValues("websocket").Observe(float64(len(results)))

			s.writeStream(conn, StreamResult{
				Type:             "result",
				Results:          results,
				Count:            len(results),
				ProcessingTimeMS: duration.Milliseconds(),
			})
		}
	}
}

func (s *Server) writeStream(conn *websocket.Conn, result StreamResult) {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("Failed to marshal stream result", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to write stream result", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
