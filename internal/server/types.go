// Package server exposes the barcode decode bridge over HTTP: a
// JSON decode endpoint, a WebSocket frame stream for live scanning,
// health and format discovery endpoints, and Prometheus metrics.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scantools/zxbridge"
)

// Config holds server configuration plus the decode defaults applied
// when a request does not override them.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int

	DefaultTryHarder  bool
	DefaultFormats    string
	DefaultMaxSymbols int
	ReturnErrors      bool
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	reader            *zxbridge.Reader
	corsOrigin        string
	maxUploadMB       int64
	defaultTryHarder  bool
	defaultFormats    string
	defaultMaxSymbols int
}

// NewServer creates a decode server from the configuration.
func NewServer(config Config) *Server {
	reader := zxbridge.NewReader()
	reader.ReturnErrors = config.ReturnErrors

	maxSymbols := config.DefaultMaxSymbols
	if maxSymbols < 1 {
		maxSymbols = 1
	}

	return &Server{
		reader:            reader,
		corsOrigin:        config.CORSOrigin,
		maxUploadMB:       config.MaxUploadMB,
		defaultTryHarder:  config.DefaultTryHarder,
		defaultFormats:    config.DefaultFormats,
		defaultMaxSymbols: maxSymbols,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/decode", s.corsMiddleware(s.decodeHandler))
	mux.HandleFunc("/ws", s.streamHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type FormatsResponse struct {
	Formats []string `json:"formats"`
	Count   int      `json:"count"`
}

type DecodeResponse struct {
	Results          []zxbridge.ReadResult `json:"results"`
	Count            int                   `json:"count"`
	ProcessingTimeMS int64                 `json:"processing_time_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
