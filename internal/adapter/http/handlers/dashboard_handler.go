package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	response "brcargo_quotes/internal/adapter/http/dto/response"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/metrics"
	"brcargo_quotes/internal/usecase/interfaces"
	"brcargo_quotes/pkg"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	sseBufferSize       = 32
)

// DashboardHandler serves the aggregated read side: metrics, transport
// status, archived history and the live event stream.

type DashboardHandler struct {
	aggregator *metrics.Aggregator
	transport  interfaces.ITransportStatusReader
	archive    interfaces.IQuotationArchive
	bus        *events.Bus
}

func NewDashboardHandler(aggregator *metrics.Aggregator, transport interfaces.ITransportStatusReader, archive interfaces.IQuotationArchive, bus *events.Bus) *DashboardHandler {
	return &DashboardHandler{
		aggregator: aggregator,
		transport:  transport,
		archive:    archive,
		bus:        bus,
	}
}

// GetMetrics returns the current dashboard snapshot.
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromMetricsSnapshot(h.aggregator.Snapshot()))
}

// GetTransportStatus reports the current transport health.
func (h *DashboardHandler) GetTransportStatus(c *gin.Context) {
	c.JSON(http.StatusOK, response.TransportStatusResponse{
		Status:      string(h.transport.Status()),
		GeneratedAt: time.Now().UTC(),
	})
}

// GetHistory lists retired quotations from the archive.
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	limit := int32(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		limit = int32(parsed)
	}

	archived, err := h.archive.ListArchived(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[dashboard][handler] history read failed err=%v", err)
		appErr := pkg.NewDomainError("ARCHIVE_UNAVAILABLE", "Archive unreachable", err, http.StatusBadGateway)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromArchivedQuotations(archived))
}

type sseEvent struct {
	name    string
	payload any
}

// StreamEvents bridges the in-process bus onto a server-sent events stream.
// A slow consumer drops events instead of blocking publishers.
func (h *DashboardHandler) StreamEvents(c *gin.Context) {
	ch := make(chan sseEvent, sseBufferSize)
	forward := func(name string) events.Handler {
		return func(payload any) {
			select {
			case ch <- sseEvent{name: name, payload: payload}:
			default:
			}
		}
	}

	subs := []events.Subscription{
		h.bus.Subscribe(events.TopicQuotationChanged, forward(string(events.TopicQuotationChanged))),
		h.bus.Subscribe(events.TopicTransportStatus, forward(string(events.TopicTransportStatus))),
		h.bus.Subscribe(events.TopicSyncConflict, forward(string(events.TopicSyncConflict))),
	}
	defer func() {
		for _, sub := range subs {
			h.bus.Unsubscribe(sub)
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case evt := <-ch:
			c.SSEvent(evt.name, evt.payload)
			return true
		case <-keepalive.C:
			c.SSEvent("keepalive", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
