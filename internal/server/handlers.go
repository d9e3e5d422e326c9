package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/MeKo-Tech/blobcount/internal/version"
)

const formatText = "text"

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}

// countHandler processes counting requests for a single uploaded image.
func (s *Server) countHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "body too large") ||
			strings.Contains(strings.ToLower(err.Error()), "request body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	if s.counter == nil {
		s.writeErrorResponse(w, "counting pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	res, err := s.counter.Process(img)
	countProcessingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		countRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("counting failed: %v", err), http.StatusInternalServerError)
		return
	}
	countRequestsTotal.WithLabelValues("ok").Inc()
	objectsDetected.Observe(float64(res.TotalObjects))

	// Output format: default json; allow 'format' in query or form.
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	switch format {
	case formatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "objects: %d\n", res.TotalObjects)
		if res.TotalObjects > 0 {
			fmt.Fprintf(w, "mean area: %.2f\nmedian area: %.2f\nmin area: %d\nmax area: %d\nstddev: %.2f\n",
				res.Statistics.MeanArea, res.Statistics.MedianArea,
				res.Statistics.MinArea, res.Statistics.MaxArea, res.Statistics.StdDevArea)
		}
	case "annotated":
		if res.Annotated == nil {
			http.Error(w, "annotation unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, res.Annotated)
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CountResponse{Success: true, Result: res}); err != nil {
			slog.Error("failed to encode count response", "error", err)
		}
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := CountResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
