package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/scantools/zxbridge"
	"github.com/scantools/zxbridge/internal/version"
)

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
	s.writeJSON(w, response)
}

// formatsHandler lists the supported symbology names.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names := zxbridge.FormatNames()
	s.writeJSON(w, FormatsResponse{Formats: names, Count: len(names)})
}

// decodeHandler decodes barcodes from an uploaded image. The image
// arrives either as the "image" field of a multipart form or as the
// raw request body; decode parameters come from query or form values.
//
// Decode failures are reported inside the result records, never as
// HTTP errors: the response is always a well-formed result set. HTTP
// errors are reserved for transport problems.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.readImagePayload(w, r)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("http", "error").Inc()
		return // error response already written
	}
	uploadSizeBytes.Observe(float64(len(data)))

	tryHarder, formats, maxSymbols := s.decodeParams(r)

	start := time.Now()
	results := s.reader.ReadBarcodesFromImage(data, tryHarder, formats, maxSymbols)
	duration := time.Since(start)

	status := "success"
	if len(results) == 1 && results[0].Error != "" {
		status = "error"
	}
	decodeRequestsTotal.WithLabelValues("http", status).Inc()
	decodeDuration.WithLabelValues("http").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("http").Observe(float64(len(results)))

	s.writeJSON(w, DecodeResponse{
		Results:          results,
		Count:            len(results),
		ProcessingTimeMS: duration.Milliseconds(),
	})
}

// readImagePayload extracts the image bytes from a multipart form or
// the raw request body, enforcing the upload size cap.
func (s *Server) readImagePayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			s.writeErrorResponse(w, "Failed to read request body", http.StatusRequestEntityTooLarge)
			return nil, err
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, err
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, fmt.Errorf("file too large: %d bytes", header.Size)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, err
	}
	return data, nil
}

// decodeParams resolves request decode parameters, falling back to
// the server defaults.
func (s *Server) decodeParams(r *http.Request) (tryHarder bool, formats string, maxSymbols int) {
	tryHarder = s.defaultTryHarder
	formats = s.defaultFormats
	maxSymbols = s.defaultMaxSymbols

	get := func(key string) string {
		if v := r.URL.Query().Get(key); v != "" {
			return v
		}
		// Form values are only populated for multipart requests;
		// raw-body uploads carry parameters in the query string.
		if r.MultipartForm != nil {
			if vs := r.MultipartForm.Value[key]; len(vs) > 0 {
				return vs[0]
			}
		}
		return ""
	}

	if v := get("tryHarder"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			tryHarder = b
		}
	}
	if v := get("formats"); v != "" {
		formats = v
	}
	if v := get("maxSymbols"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxSymbols = n
		}
	}
	return tryHarder, formats, maxSymbols
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
