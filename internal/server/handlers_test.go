package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scantools/zxbridge"
	"github.com/scantools/zxbridge/internal/testutil"
)

func testConfig() Config {
	return Config{
		Host:              "localhost",
		Port:              8080,
		CORSOrigin:        "*",
		MaxUploadMB:       10,
		TimeoutSec:        10,
		DefaultMaxSymbols: 1,
	}
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewServer(testConfig()).SetupRoutes(mux)
	return mux
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestFormatsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp FormatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Formats), resp.Count)
	assert.Contains(t, resp.Formats, "QR_CODE")
}

func TestDecodeHandlerRawBody(t *testing.T) {
	data := testutil.QRPNG(t, "raw body", 200, 200)
	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader(data))
	req.Header.Set("Content-Type", "image/png")

	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "QR_CODE", resp.Results[0].Format)
	assert.Equal(t, "raw body", resp.Results[0].Text)
	assert.Empty(t, resp.Results[0].Error)
}

func multipartBody(t *testing.T, fieldValues map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fieldValues {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", "frame.png")
	require.NoError(t, err)
	_, err = fw.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDecodeHandlerMultipart(t *testing.T) {
	body, contentType := multipartBody(t,
		map[string]string{"maxSymbols": "3", "formats": "QR_CODE"},
		testutil.QRPNG(t, "multipart", 200, 200))

	req := httptest.NewRequest(http.MethodPost, "/decode", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "multipart", resp.Results[0].Text)
}

func TestDecodeHandlerBadImageIsStillWellFormed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader([]byte("not an image")))
	req.Header.Set("Content-Type", "application/octet-stream")

	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, req)

	// Decode failures live inside the result set, not in the HTTP status.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, zxbridge.ErrImageLoadText, resp.Results[0].Error)
}

func TestDecodeHandlerNothingFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/decode?maxSymbols=5",
		bytes.NewReader(testutil.BlankPNG(t, 100, 100)))
	req.Header.Set("Content-Type", "image/png")

	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Results)
}

func TestDecodeHandlerMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decode", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDecodeHandlerMissingMultipartFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("formats", "QR_CODE"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/decode", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/decode", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
