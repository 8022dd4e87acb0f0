package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sumnatarya/Synapse/pkg/pipeline"
	"github.com/sumnatarya/Synapse/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil, logger), st, logger)
}

func testTreeJSON() string {
	return `{
		"name": "Physics",
		"children": [
			{"name": "Mechanics", "children": [{"name": "Kinematics"}]},
			{"name": "Optics"}
		]
	}`
}

func createMap(t *testing.T, ts *httptest.Server, name string) store.Map {
	t.Helper()
	body := fmt.Sprintf(`{"name": %q, "tree": %s}`, name, testTreeJSON())
	res, err := http.Post(ts.URL+"/api/maps/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST map: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("POST map status = %d, want 201", res.StatusCode)
	}
	var m store.Map
	if err := json.NewDecoder(res.Body).Decode(&m); err != nil {
		t.Fatalf("decode map: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
}

func TestMapLifecycle(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	m := createMap(t, ts, "physics")
	if m.ID == "" {
		t.Fatal("expected map ID")
	}

	// Get
	res, err := http.Get(ts.URL + "/api/maps/" + m.ID + "/")
	if err != nil {
		t.Fatalf("GET map: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d, want 200", res.StatusCode)
	}

	// List
	res, err = http.Get(ts.URL + "/api/maps/")
	if err != nil {
		t.Fatalf("GET maps: %v", err)
	}
	var maps []store.Map
	if err := json.NewDecoder(res.Body).Decode(&maps); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	res.Body.Close()
	if len(maps) != 1 {
		t.Errorf("got %d maps, want 1", len(maps))
	}

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/maps/"+m.ID+"/", nil)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE map: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", res.StatusCode)
	}

	// Gone
	res, err = http.Get(ts.URL + "/api/maps/" + m.ID + "/")
	if err != nil {
		t.Fatalf("GET deleted map: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted status = %d, want 404", res.StatusCode)
	}
}

func TestCreateMapRejectsInvalid(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/maps/", "application/json",
		strings.NewReader(`{"name": "", "tree": {"name": "x"}}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", res.StatusCode)
	}
}

func TestMapSVG(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	m := createMap(t, ts, "physics")
	res, err := http.Get(ts.URL + "/api/maps/" + m.ID + "/svg?width=800&height=600&q=kine")
	if err != nil {
		t.Fatalf("GET svg: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(res.Body)
	if !bytes.Contains(body, []byte("<svg")) || !bytes.Contains(body, []byte("Kinematics")) {
		t.Error("svg body missing expected content")
	}
}

func TestMapLayout(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	m := createMap(t, ts, "physics")
	res, err := http.Get(ts.URL + "/api/maps/" + m.ID + "/layout?width=800&height=600")
	if err != nil {
		t.Fatalf("GET layout: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	var payload struct {
		TreeHash  string `json:"tree_hash"`
		Truncated bool   `json:"truncated"`
		Layout    struct {
			Positions []struct{ X, Y float64 } `json:"positions"`
		} `json:"layout"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(payload.Layout.Positions) != 4 {
		t.Errorf("got %d positions, want 4", len(payload.Layout.Positions))
	}
	if payload.TreeHash == "" {
		t.Error("expected tree hash")
	}
}

func TestRenderInline(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	body := fmt.Sprintf(`{"tree": %s, "formats": ["dot"]}`, testTreeJSON())
	res, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST render: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	out, _ := io.ReadAll(res.Body)
	if !bytes.Contains(out, []byte("digraph")) {
		t.Error("dot output missing digraph header")
	}
}

func TestRenderRequiresTree(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST render: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
}
