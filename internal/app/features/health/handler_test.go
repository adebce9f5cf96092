package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/storyhub/internal/app/features/health"
	"github.com/dalemusser/storyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func serve(t *testing.T, h *health.Handler) response {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), zap.NewNop())

	resp := serve(t, h)
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if resp.Database != "connected" {
		t.Errorf("database: got %q, want %q", resp.Database, "connected")
	}
}

type downDB struct{}

func (downDB) Ping(context.Context, *readpref.ReadPref) error { return errors.New("no reachable servers") }

func TestServe_DatabaseDown_StillOK(t *testing.T) {
	h := &health.Handler{DB: downDB{}, Log: zap.NewNop()}

	resp := serve(t, h)
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if resp.Database != "disconnected" {
		t.Errorf("database: got %q, want %q", resp.Database, "disconnected")
	}
}

func TestServe_NoClient(t *testing.T) {
	h := health.NewHandler(nil, zap.NewNop())
	if resp := serve(t, h); resp.Database != "disconnected" {
		t.Errorf("database: got %q, want disconnected", resp.Database)
	}
}
