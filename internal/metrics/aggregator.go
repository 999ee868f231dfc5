package metrics

import (
	"sort"
	"sync"
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
)

// ResponseTimeStats is the distribution of supplier response times
// (responded_at - submitted_at) over the current window.
type ResponseTimeStats struct {
	Samples int           `json:"samples"`
	Min     time.Duration `json:"min"`
	Median  time.Duration `json:"median"`
	P95     time.Duration `json:"p95"`
}

// Snapshot is an immutable point-in-time read for dashboard charting. It is
// recomputed from the event window on every call, never persisted.
type Snapshot struct {
	GeneratedAt         time.Time                           `json:"generated_at"`
	WindowEvents        int                                 `json:"window_events"`
	CountsByStatus      map[entities.QuotationStatus]int    `json:"counts_by_status"`
	CountsByOutcome     map[entities.QuotationOutcome]int   `json:"counts_by_outcome"`
	ResponseTime        ResponseTimeStats                   `json:"response_time"`
	ThroughputPerMinute float64                             `json:"throughput_per_minute"`
}

type entry struct {
	at time.Time
	q  entities.Quotation
}

// Aggregator keeps a bounded window of quotation-changed events (last K events
// and last T duration) and derives dashboard metrics from it. Pruning happens
// lazily on Record and Snapshot; no background timer is needed for
// correctness.
type Aggregator struct {
	mu        sync.Mutex
	maxEvents int
	maxAge    time.Duration
	window    []entry

	now func() time.Time
}

const (
	DefaultWindowSize = 500
	DefaultWindowTTL  = 30 * time.Minute
)

func NewAggregator(maxEvents int, maxAge time.Duration) *Aggregator {
	if maxEvents <= 0 {
		maxEvents = DefaultWindowSize
	}
	if maxAge <= 0 {
		maxAge = DefaultWindowTTL
	}
	return &Aggregator{maxEvents: maxEvents, maxAge: maxAge, now: time.Now}
}

// Attach subscribes the aggregator to quotation-changed events on bus.
func (a *Aggregator) Attach(bus *events.Bus) events.Subscription {
	return bus.Subscribe(events.TopicQuotationChanged, func(payload any) {
		if evt, ok := payload.(events.QuotationChanged); ok {
			a.Record(evt)
		}
	})
}

func (a *Aggregator) Record(evt events.QuotationChanged) {
	at := evt.At
	if at.IsZero() {
		at = a.now()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if evt.PreviousID != "" && evt.PreviousID != evt.Quotation.ID {
		// Submit re-keyed the quotation; fold earlier entries onto the new id
		// so the draft and its confirmed form count as one quotation.
		for i := range a.window {
			if a.window[i].q.ID == evt.PreviousID {
				a.window[i].q.ID = evt.Quotation.ID
			}
		}
	}
	a.window = append(a.window, entry{at: at, q: evt.Quotation})
	a.pruneLocked(a.now())
}

// Snapshot recomputes every metric fresh from the window: status counts from
// the latest event per quotation id, response-time distribution, and
// throughput over the effective window span.
func (a *Aggregator) Snapshot() Snapshot {
	now := a.now()

	a.mu.Lock()
	a.pruneLocked(now)
	window := make([]entry, len(a.window))
	copy(window, a.window)
	a.mu.Unlock()

	snap := Snapshot{
		GeneratedAt:     now,
		WindowEvents:    len(window),
		CountsByStatus:  make(map[entities.QuotationStatus]int),
		CountsByOutcome: make(map[entities.QuotationOutcome]int),
	}
	if len(window) == 0 {
		return snap
	}

	latest := make(map[string]entities.Quotation, len(window))
	for _, e := range window {
		latest[e.q.ID] = e.q
	}
	var samples []time.Duration
	for _, q := range latest {
		snap.CountsByStatus[q.Status()]++
		if outcome := q.Outcome(); outcome != "" {
			snap.CountsByOutcome[outcome]++
		}
		if q.SubmittedAt.IsZero() {
			continue
		}
		for _, r := range q.Responses {
			if r.Decision == entities.ResponseDecisionPending || r.RespondedAt.IsZero() {
				continue
			}
			if d := r.RespondedAt.Sub(q.SubmittedAt); d >= 0 {
				samples = append(samples, d)
			}
		}
	}
	snap.ResponseTime = distribution(samples)

	span := now.Sub(window[0].at)
	if span < time.Second {
		span = time.Second
	}
	snap.ThroughputPerMinute = float64(len(window)) / span.Minutes()
	return snap
}

func (a *Aggregator) pruneLocked(now time.Time) {
	horizon := now.Add(-a.maxAge)
	drop := 0
	for drop < len(a.window) && a.window[drop].at.Before(horizon) {
		drop++
	}
	if overflow := len(a.window) - drop - a.maxEvents; overflow > 0 {
		drop += overflow
	}
	if drop > 0 {
		a.window = append(a.window[:0:0], a.window[drop:]...)
	}
}

func distribution(samples []time.Duration) ResponseTimeStats {
	if len(samples) == 0 {
		return ResponseTimeStats{}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return ResponseTimeStats{
		Samples: len(samples),
		Min:     samples[0],
		Median:  percentile(samples, 0.50),
		P95:     percentile(samples, 0.95),
	}
}

// percentile uses the nearest-rank method on an already sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(float64(len(sorted))*p+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
