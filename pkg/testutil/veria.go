package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeVeria is an httptest stand-in for the screening API. It replies with a
// fixed status and body and records every request it receives.
type FakeVeria struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []RecordedRequest
}

// RecordedRequest is one request seen by FakeVeria.
type RecordedRequest struct {
	Method string
	Header http.Header
	Body   string
}

// NewFakeVeria starts a fake screening API that answers status and body.
func NewFakeVeria(t *testing.T, status int, body string) *FakeVeria {
	t.Helper()
	f := &FakeVeria{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Reply changes the canned response.
func (f *FakeVeria) Reply(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Requests returns a copy of the recorded requests.
func (f *FakeVeria) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

func (f *FakeVeria) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{Method: r.Method, Header: r.Header.Clone(), Body: string(raw)})
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
