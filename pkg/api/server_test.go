package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSource struct {
	processed int64
	sessions  int64
}

func (f *fakeSource) ProcessedCount() int64 { return f.processed }
func (f *fakeSource) SessionCount() int64   { return f.sessions }

func newTestHandler(apiKey string) http.Handler {
	s := NewServer("127.0.0.1:0", apiKey, "alice", &fakeSource{processed: 5, sessions: 2}, 1)
	return s.httpServer.Handler
}

// The public health endpoint is the orchestration surface: it must carry the
// processed count and the authorized user without a token.
func TestHealthIsPublic(t *testing.T) {
	h := newTestHandler("secret")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if body["processed"] != float64(5) {
		t.Errorf("processed = %v, want 5", body["processed"])
	}
	if body["authorized_user"] != "alice" {
		t.Errorf("authorized_user = %v", body["authorized_user"])
	}
}

func TestStatusRequiresToken(t *testing.T) {
	h := newTestHandler("secret")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestStatusWithToken(t *testing.T) {
	h := newTestHandler("secret")

	for _, set := range []func(*http.Request){
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") },
		func(r *http.Request) { r.Header.Set("X-API-Key", "secret") },
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		set(req)
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["processed"] != float64(5) {
			t.Errorf("processed = %v, want 5", body["processed"])
		}
		if body["sessions"] != float64(2) {
			t.Errorf("sessions = %v, want 2", body["sessions"])
		}
		if body["channels"] != float64(1) {
			t.Errorf("channels = %v, want 1", body["channels"])
		}
		if body["authorized_user"] != "alice" {
			t.Errorf("authorized_user = %v", body["authorized_user"])
		}
	}
}

func TestEmptyKeyDisablesAuth(t *testing.T) {
	h := newTestHandler("")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestTokenValid(t *testing.T) {
	if tokenValid("", "secret") || tokenValid("secret", "") {
		t.Error("empty tokens must never validate")
	}
	if tokenValid("nope", "secret") {
		t.Error("mismatched token validated")
	}
	if !tokenValid("secret", "secret") {
		t.Error("matching token rejected")
	}
}
