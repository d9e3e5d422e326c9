// Package server exposes the object counting pipeline over HTTP.
package server

import (
	"fmt"
	"image"
	"net/http"

	"github.com/MeKo-Tech/blobcount/internal/counter"
)

// counterInterface defines the methods the server needs from a pipeline.
type counterInterface interface {
	Process(img image.Image) (*counter.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	counter     counterInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host          string
	Port          int
	CORSOrigin    string
	MaxUploadMB   int64
	TimeoutSec    int
	CounterConfig counter.Config
}

// DefaultConfig returns server defaults around the default pipeline.
func DefaultConfig() Config {
	return Config{
		Host:          "localhost",
		Port:          8080,
		CORSOrigin:    "*",
		MaxUploadMB:   20,
		TimeoutSec:    60,
		CounterConfig: counter.DefaultConfig(),
	}
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// CountResponse wraps a counting result or an error for JSON transport.
type CountResponse struct {
	Success bool            `json:"success"`
	Result  *counter.Result `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewServer creates a counting server instance.
func NewServer(config Config) (*Server, error) {
	c, err := counter.New(config.CounterConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid counter configuration: %w", err)
	}

	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 20
	}
	if config.CORSOrigin == "" {
		config.CORSOrigin = "*"
	}

	return &Server{
		counter:     c,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.recoverMiddleware(s.corsMiddleware(s.healthHandler)))
	mux.HandleFunc("/v1/count", s.recoverMiddleware(s.corsMiddleware(s.countHandler)))
	mux.Handle("/metrics", metricsHandler())
}
