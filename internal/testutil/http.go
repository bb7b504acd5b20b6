package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// HTTPTestHelper provides utilities for HTTP testing
type HTTPTestHelper struct {
	t      *testing.T
	router http.Handler
}

// NewHTTPTestHelper creates a new HTTP test helper around router
func NewHTTPTestHelper(t *testing.T, router http.Handler) *HTTPTestHelper {
	gin.SetMode(gin.TestMode)
	return &HTTPTestHelper{t: t, router: router}
}

// PostJSON performs a POST request with JSON payload
func (h *HTTPTestHelper) PostJSON(url string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(h.t, err, "Failed to marshal JSON payload")

	return h.PostRaw(url, body)
}

// PostRaw performs a POST request with a raw JSON body
func (h *HTTPTestHelper) PostRaw(url string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	require.NoError(h.t, err, "Failed to create HTTP request")
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// GetJSON performs a GET request expecting JSON response
func (h *HTTPTestHelper) GetJSON(url string) *httptest.ResponseRecorder {
	return h.GetWithHeaders(url, map[string]string{"Accept": "application/json"})
}

// GetWithHeaders performs a GET request with custom headers
func (h *HTTPTestHelper) GetWithHeaders(url string, headers map[string]string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(h.t, err, "Failed to create HTTP request")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// AssertJSONResponse asserts that the response is valid JSON and unmarshals it
func (h *HTTPTestHelper) AssertJSONResponse(recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code: %s", recorder.Body.String())
	require.Equal(h.t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"), "Expected JSON content type")

	err := json.Unmarshal(recorder.Body.Bytes(), target)
	require.NoError(h.t, err, "Failed to unmarshal JSON response")
}

// AssertErrorResponse asserts that the response contains an error
func (h *HTTPTestHelper) AssertErrorResponse(recorder *httptest.ResponseRecorder, expectedStatus int, expectedErrorSubstring string) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code: %s", recorder.Body.String())

	var errorResponse map[string]interface{}
	err := json.Unmarshal(recorder.Body.Bytes(), &errorResponse)
	require.NoError(h.t, err, "Failed to unmarshal error response")

	errorMessage, exists := errorResponse["error"]
	require.True(h.t, exists, "Expected error field in response")
	require.Contains(h.t, errorMessage, expectedErrorSubstring, "Error message should contain expected substring")
}

// MockHTTPServer provides a mock HTTP server for testing external API calls
type MockHTTPServer struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
}

// NewMockHTTPServer creates a new mock HTTP server
func NewMockHTTPServer() *MockHTTPServer {
	mock := &MockHTTPServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", mock.routeRequest)

	mock.server = httptest.NewServer(mux)
	return mock
}

// URL returns the mock server URL
func (m *MockHTTPServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockHTTPServer) Close() {
	m.server.Close()
}

// On registers a handler for a specific path
func (m *MockHTTPServer) On(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// OnJSON registers a handler that responds with status and a JSON body
func (m *MockHTTPServer) OnJSON(path string, status int, body interface{}) {
	m.On(path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// routeRequest routes requests to registered handlers
func (m *MockHTTPServer) routeRequest(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	handler, exists := m.handlers[r.URL.Path]
	m.mu.RUnlock()

	if exists {
		handler(w, r)
		return
	}

	// Default handler returns 404
	http.NotFound(w, r)
}

// WriteJSON writes body as a JSON response
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(body)
	_, _ = w.Write(data)
}

// SpotifyTokenResponse creates a mock Spotify token response
func SpotifyTokenResponse() map[string]interface{} {
	return map[string]interface{}{
		"access_token":  "mock-access-token",
		"refresh_token": "mock-refresh-token",
		"token_type":    "Bearer",
		"expires_in":    3600,
	}
}
