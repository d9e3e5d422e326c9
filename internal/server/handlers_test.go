package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/blobcount/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(DefaultConfig())
	require.NoError(t, err)
	return s
}

// multipartImage builds a multipart body with the given scene encoded as PNG.
func multipartImage(t *testing.T, img image.Image, extraFields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("image", "upload.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, img))

	for k, v := range extraFields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func sceneWithRectangles(n int) image.Image {
	scene := testutil.DefaultSceneConfig()
	for i := range n {
		scene.Shapes = append(scene.Shapes, testutil.Rectangle{X: 15 + i*55, Y: 40, W: 25, H: 25})
	}
	return testutil.GenerateScene(scene)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCountHandler_JSONDefault(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartImage(t, sceneWithRectangles(2), nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/count", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])

	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, result["total_objetos"])
	assert.Contains(t, result, "estatisticas")
	assert.Contains(t, result, "objetos_detectados")
}

func TestCountHandler_TextFormat(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartImage(t, sceneWithRectangles(1), map[string]string{"format": "text"})
	req := httptest.NewRequest(http.MethodPost, "/v1/count", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "objects: 1")
	assert.Contains(t, rec.Body.String(), "mean area:")
}

func TestCountHandler_AnnotatedFormatReturnsPNG(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartImage(t, sceneWithRectangles(1), map[string]string{"format": "annotated"})
	req := httptest.NewRequest(http.MethodPost, "/v1/count", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	decoded, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
}

func TestCountHandler_MissingFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/count", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "No image file provided")
}

func TestCountHandler_InvalidImage(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "bad.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("definitely not a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/count", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/count", nil)
	rec := httptest.NewRecorder()
	s.countHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t)

	handler := s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/v1/count", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRecoverMiddleware(t *testing.T) {
	s := newTestServer(t)

	handler := s.recoverMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/count", nil)
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() { handler(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t)

	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = metrics.Body.Close() }()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestNewServer_InvalidCounterConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CounterConfig.MinArea = -1
	_, err := NewServer(cfg)
	assert.Error(t, err)
}
