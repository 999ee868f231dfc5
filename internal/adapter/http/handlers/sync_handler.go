package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	response "brcargo_quotes/internal/adapter/http/dto/response"
	"brcargo_quotes/pkg"

	"github.com/gin-gonic/gin"
)

// IReconcileRunner is the slice of the reconciler exposed over HTTP.
type IReconcileRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

type SyncHandler struct {
	reconciler IReconcileRunner
}

func NewSyncHandler(reconciler IReconcileRunner) *SyncHandler {
	return &SyncHandler{reconciler: reconciler}
}

// RefreshNow runs an on-demand reconciliation pass and reports how many
// quotations were merged.
func (h *SyncHandler) RefreshNow(c *gin.Context) {
	merged, err := h.reconciler.RunOnce(c.Request.Context())
	if err != nil {
		log.Printf("[sync][handler] refresh failed err=%v", err)
		appErr := pkg.NewDomainError("SYNC_FAILED", "Reconciliation pass failed", err, http.StatusBadGateway)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.SyncRefreshResponse{Merged: merged, GeneratedAt: time.Now().UTC()})
}
