package routes

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"task-api/config"
	"task-api/models"
)

func TestHealth_Connected(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	m := decodeMap(t, w)
	if m["status"] != "healthy" || m["database"] != "connected" {
		t.Fatalf("body=%s", w.Body.String())
	}
	ts, _ := m["timestamp"].(string)
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Fatalf("timestamp=%q: %v", ts, err)
	}
	if _, ok := m["error"]; ok {
		t.Fatalf("unexpected error field: %s", w.Body.String())
	}
}

func TestHealth_Disconnected(t *testing.T) {
	srv := newTestServer(t)

	// Sever the storage connection.
	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w := do(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	m := decodeMap(t, w)
	if m["status"] != "unhealthy" || m["database"] != "disconnected" {
		t.Fatalf("body=%s", w.Body.String())
	}
	if e, _ := m["error"].(string); e == "" {
		t.Fatalf("expected error detail: %s", w.Body.String())
	}
	if _, ok := m["timestamp"]; !ok {
		t.Fatalf("missing timestamp: %s", w.Body.String())
	}

	// Readiness does not depend on the store.
	if w := do(t, srv, http.MethodGet, "/ready", ""); w.Code != http.StatusOK {
		t.Fatalf("ready status=%d", w.Code)
	}
}

type pingStore struct {
	TaskStore
	err error
}

func (p pingStore) Ping(ctx context.Context) error { return p.err }

func TestHealth_PingError(t *testing.T) {
	srv := NewWithStore(pingStore{err: errors.Join(models.ErrStoreUnavailable, errors.New("dial tcp: connection refused"))}, config.Config{Testing: true})

	w := do(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestReady(t *testing.T) {
	srv := NewWithStore(pingStore{err: errors.New("down")}, config.Config{Testing: true})

	w := do(t, srv, http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decodeMap(t, w)["status"]; got != "ready" {
		t.Fatalf("status=%v", got)
	}
}
