// Package testserver provides a configurable HTTP test server for E2E tests.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Server wraps httptest.Server with additional utilities.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*RecordedRequest
}

// RecordedRequest stores request details for verification.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Time    time.Time
}

// New creates a test server with the given routes.
func New(routes map[string]http.HandlerFunc) *Server {
	mux := http.NewServeMux()
	s := &Server{
		requests: make([]*RecordedRequest, 0),
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	s.Server = httptest.NewServer(s.recording(mux))
	return s
}

// recording wraps the mux to record requests.
func (s *Server) recording(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Headers: r.Header.Clone(),
			Time:    time.Now(),
		})
		s.mu.Unlock()
		h.ServeHTTP(w, r)
	})
}

// APIURL returns the base URL to configure the client with.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// LastRequest returns the last recorded request.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// Requests returns all recorded requests.
func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// CountPath returns how many requests hit path.
func (s *Server) CountPath(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// ClearRequests clears recorded requests.
func (s *Server) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = s.requests[:0]
}
