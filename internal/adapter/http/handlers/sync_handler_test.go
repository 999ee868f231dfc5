package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubReconcileRunner struct {
	merged int
	err    error
	calls  int
}

func (s *stubReconcileRunner) RunOnce(context.Context) (int, error) {
	s.calls++
	return s.merged, s.err
}

func TestSyncHandler_RefreshNow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		runner := &stubReconcileRunner{merged: 3}
		h := NewSyncHandler(runner)

		r := gin.New()
		r.POST("/v1/sync/refresh", h.RefreshNow)

		req := httptest.NewRequest(http.MethodPost, "/v1/sync/refresh", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if runner.calls != 1 {
			t.Fatalf("expected 1 pass, got %d", runner.calls)
		}
		var got map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid response json: %v", err)
		}
		if got["merged"].(float64) != 3 {
			t.Fatalf("expected 3 merged, got %v", got["merged"])
		}
	})

	t.Run("pass failure", func(t *testing.T) {
		runner := &stubReconcileRunner{err: errors.New("remote down")}
		h := NewSyncHandler(runner)

		r := gin.New()
		r.POST("/v1/sync/refresh", h.RefreshNow)

		req := httptest.NewRequest(http.MethodPost, "/v1/sync/refresh", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}
