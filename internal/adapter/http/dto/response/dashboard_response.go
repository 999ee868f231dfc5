package response

import (
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/metrics"
)

type ResponseTimeResponse struct {
	Samples  int    `json:"samples"`
	MinMS    int64  `json:"min_ms"`
	MedianMS int64  `json:"median_ms"`
	P95MS    int64  `json:"p95_ms"`
	Min      string `json:"min"`
	Median   string `json:"median"`
	P95      string `json:"p95"`
}

// MetricsResponse is the dashboard charting payload.
type MetricsResponse struct {
	GeneratedAt         time.Time            `json:"generated_at"`
	WindowEvents        int                  `json:"window_events"`
	CountsByStatus      map[string]int       `json:"counts_by_status"`
	CountsByOutcome     map[string]int       `json:"counts_by_outcome"`
	ResponseTime        ResponseTimeResponse `json:"response_time"`
	ThroughputPerMinute float64              `json:"throughput_per_minute"`
}

func FromMetricsSnapshot(s metrics.Snapshot) MetricsResponse {
	byStatus := make(map[string]int, len(s.CountsByStatus))
	for status, n := range s.CountsByStatus {
		byStatus[string(status)] = n
	}
	byOutcome := make(map[string]int, len(s.CountsByOutcome))
	for outcome, n := range s.CountsByOutcome {
		byOutcome[string(outcome)] = n
	}
	return MetricsResponse{
		GeneratedAt:         s.GeneratedAt,
		WindowEvents:        s.WindowEvents,
		CountsByStatus:      byStatus,
		CountsByOutcome:     byOutcome,
		ResponseTime:        fromResponseTimeStats(s.ResponseTime),
		ThroughputPerMinute: s.ThroughputPerMinute,
	}
}

func fromResponseTimeStats(s metrics.ResponseTimeStats) ResponseTimeResponse {
	return ResponseTimeResponse{
		Samples:  s.Samples,
		MinMS:    s.Min.Milliseconds(),
		MedianMS: s.Median.Milliseconds(),
		P95MS:    s.P95.Milliseconds(),
		Min:      s.Min.String(),
		Median:   s.Median.String(),
		P95:      s.P95.String(),
	}
}

// TransportStatusResponse reports the current transport health.
type TransportStatusResponse struct {
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`
}

// HistoryResponse lists retired quotations read back from the archive.
type HistoryResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	Count      int                 `json:"count"`
}

func FromArchivedQuotations(qs []entities.Quotation) HistoryResponse {
	mapped := FromQuotations(qs)
	return HistoryResponse{Quotations: mapped, Count: len(mapped)}
}

// SyncRefreshResponse reports the result of an on-demand reconciliation pass.
type SyncRefreshResponse struct {
	Merged      int       `json:"merged"`
	GeneratedAt time.Time `json:"generated_at"`
}
