package router

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(body string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", text("list"))
	r.GET("/api/v1/runs/*/outcomes", text("outcomes"))
	r.GET("/api/v1/runs/*", text("one"))
	r.POST("/api/v1/update", text("update"))
	r.Prefix("/swagger/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "swagger")
	}))

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v1/runs", http.StatusOK, "list"},
		{http.MethodGet, "/api/v1/runs/abc", http.StatusOK, "one"},
		{http.MethodGet, "/api/v1/runs/abc/outcomes", http.StatusOK, "outcomes"},
		{http.MethodPost, "/api/v1/update", http.StatusOK, "update"},
		{http.MethodGet, "/swagger/index.html", http.StatusOK, "swagger"},
		{http.MethodGet, "/api/v1/update", http.StatusMethodNotAllowed, ""},
		{http.MethodDelete, "/api/v1/runs/abc", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound, ""},
		{http.MethodGet, "/api/v1/runs/a/b/c", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestMatchWildcardRoute(t *testing.T) {
	assert.True(t, matchWildcardRoute("/runs/1", "/runs/*"))
	assert.True(t, matchWildcardRoute("/runs/1/", "/runs/*"))
	assert.False(t, matchWildcardRoute("/runs", "/runs/*"))
	assert.False(t, matchWildcardRoute("/runs/1/x", "/runs/*"))
	assert.False(t, matchWildcardRoute("/jobs/1", "/runs/*"))
}

func TestRouter_StartStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	r := New()
	r.GET("/ping", text("pong"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
