package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(Config{Store: s}), s
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_Health_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServer_Bindings_List(t *testing.T) {
	srv, s := newTestServer(t)
	s.Bindings().SeedDefaults()

	req := httptest.NewRequest(http.MethodGet, "/api/bindings", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Bindings []struct {
			Fingers    int    `json:"fingers"`
			ActionName string `json:"action_name"`
		} `json:"bindings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Bindings) != 6 {
		t.Fatalf("got %d bindings, want 6", len(body.Bindings))
	}
	if body.Bindings[0].Fingers != 0 || body.Bindings[0].ActionName != "pause" {
		t.Errorf("first binding = %+v", body.Bindings[0])
	}
}

func TestServer_Bindings_CreateUpdateDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create
	payload := `{"fingers": 5, "plugin_name": "mediakeys", "action_name": "play"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID == "" {
		t.Fatal("created binding has no ID")
	}
	if !created.Enabled {
		t.Error("binding should default to enabled")
	}

	// Duplicate finger count conflicts
	req = httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(payload))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}

	// Update
	update := `{"fingers": 5, "plugin_name": "mediakeys", "action_name": "pause", "enabled": false}`
	req = httptest.NewRequest(http.MethodPut, "/api/bindings/"+created.ID, bytes.NewBufferString(update))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/bindings/"+created.ID, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bindings/"+created.ID, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestServer_Bindings_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing fingers", `{"plugin_name": "mediakeys", "action_name": "play"}`},
		{"fingers out of range", `{"fingers": 6, "plugin_name": "mediakeys", "action_name": "play"}`},
		{"negative fingers", `{"fingers": -1, "plugin_name": "mediakeys", "action_name": "play"}`},
		{"missing plugin", `{"fingers": 1, "action_name": "next"}`},
		{"missing action", `{"fingers": 1, "plugin_name": "mediakeys"}`},
		{"bad json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(tt.payload))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServer_Events_List(t *testing.T) {
	srv, s := newTestServer(t)

	s.Events().Append(&store.Event{Fingers: 5, Action: "play", Success: true})
	s.Events().Append(&store.Event{Fingers: 0, Action: "pause", Success: false})

	req := httptest.NewRequest(http.MethodGet, "/api/events?limit=10", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Events []struct {
			Action  string `json:"action"`
			Success bool   `json:"success"`
		} `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(body.Events))
	}
}

func TestServer_Events_BadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events?limit=zero", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStreamHandler_Publish(t *testing.T) {
	h := NewStreamHandler()

	if h.latestFrame() != nil {
		t.Error("latest frame should start nil")
	}

	h.Publish([]byte("jpeg-bytes"))
	if string(h.latestFrame()) != "jpeg-bytes" {
		t.Errorf("latest frame = %q", h.latestFrame())
	}

	h.Publish([]byte("newer"))
	if string(h.latestFrame()) != "newer" {
		t.Error("Publish should replace the latest frame")
	}
}
