package syncer

import (
	"context"
	"log"
	"sync"
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/usecase/interfaces"
)

const DefaultInterval = 30 * time.Second

// IQuotationMerger is the slice of the quotation store the reconciler needs.
type IQuotationMerger interface {
	ApplyRemote(ctx context.Context, remote entities.Quotation) (bool, error)
	KnownRemoteIDs() []string
}

// Cursor is the reconciliation watermark. It only moves forward, and only
// after a pass completed against the bulk endpoint, so a failed pass re-reads
// the same window instead of skipping changes.
type Cursor struct {
	mu    sync.Mutex
	since time.Time
}

func (c *Cursor) Since() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.since
}

func (c *Cursor) Advance(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.since) {
		c.since = t
	}
}

// Reconciler periodically pulls remote changes and merges them into the local
// store. Passes never overlap: the ticker loop and TriggerNow both funnel into
// RunOnce, which serializes on passMu.
type Reconciler struct {
	gateway  interfaces.IRemoteGateway
	store    IQuotationMerger
	bus      *events.Bus
	interval time.Duration

	passMu sync.Mutex
	cursor Cursor

	healthMu sync.Mutex
	health   events.TransportHealth

	trigger chan struct{}
}

func NewReconciler(gateway interfaces.IRemoteGateway, store IQuotationMerger, bus *events.Bus, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reconciler{
		gateway:  gateway,
		store:    store,
		bus:      bus,
		interval: interval,
		health:   events.TransportHealthy,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the background loop. It stops when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	if r.bus != nil {
		r.bus.Subscribe(events.TopicTransportStatus, func(payload any) {
			evt, ok := payload.(events.TransportStatusChanged)
			if !ok {
				return
			}
			r.healthMu.Lock()
			r.health = evt.Status
			r.healthMu.Unlock()
		})
	}
	go r.loop(ctx)
}

// TriggerNow schedules an immediate pass without waiting for the ticker. It
// never blocks; a pass already pending absorbs the request.
func (r *Reconciler) TriggerNow() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Reconciler) loop(ctx context.Context) {
	timer := time.NewTimer(r.currentInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-r.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		if _, err := r.RunOnce(ctx); err != nil {
			log.Printf("[syncer][loop] pass failed err=%v", err)
		}
		timer.Reset(r.currentInterval())
	}
}

// currentInterval backs off to twice the base period while the transport is
// degraded or on the fallback, to avoid hammering a struggling service.
func (r *Reconciler) currentInterval() time.Duration {
	r.healthMu.Lock()
	defer r.healthMu.Unlock()
	if r.health != events.TransportHealthy {
		return r.interval * 2
	}
	return r.interval
}

// RunOnce executes a single reconciliation pass and reports how many
// quotations were merged. When the bulk changed-since read fails it degrades
// to fetching every known quotation individually, without advancing the
// cursor.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	passStart := time.Now().UTC()
	since := r.cursor.Since()

	changed, err := r.gateway.ListChangedSince(ctx, since)
	if err != nil {
		log.Printf("[syncer][pass] bulk read failed, falling back to per-id fetch err=%v", err)
		return r.reconcilePerID(ctx)
	}

	merged := 0
	for _, q := range changed {
		applied, err := r.store.ApplyRemote(ctx, q)
		if err != nil {
			log.Printf("[syncer][pass] merge failed id=%s err=%v", q.ID, err)
			continue
		}
		if applied {
			merged++
		}
	}

	r.cursor.Advance(passStart)
	if merged > 0 {
		log.Printf("[syncer][pass] merged=%d scanned=%d since=%s", merged, len(changed), since.Format(time.RFC3339))
	}
	return merged, nil
}

func (r *Reconciler) reconcilePerID(ctx context.Context) (int, error) {
	ids := r.store.KnownRemoteIDs()
	merged := 0
	var lastErr error
	for _, id := range ids {
		q, err := r.gateway.FetchQuotation(ctx, id)
		if err != nil {
			log.Printf("[syncer][per-id] fetch failed id=%s err=%v", id, err)
			lastErr = err
			continue
		}
		applied, err := r.store.ApplyRemote(ctx, q)
		if err != nil {
			log.Printf("[syncer][per-id] merge failed id=%s err=%v", id, err)
			lastErr = err
			continue
		}
		if applied {
			merged++
		}
	}
	return merged, lastErr
}
