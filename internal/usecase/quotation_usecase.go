package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/usecase/interfaces"
)

var (
	ErrQuotationNotFound  = errors.New("quotation not found")
	ErrInvalidRequesterID = errors.New("invalid requester id")
	ErrEmptyItems         = errors.New("quotation has no line items")
	ErrInvalidLineItem    = errors.New("invalid line item")
	ErrNoInvitedCompanies = errors.New("no invited companies")
	ErrInvalidCompanyID   = errors.New("invalid company id")
	ErrCompanyNotInvited  = errors.New("company not invited to this quotation")
	ErrInvalidDecision    = errors.New("invalid response decision")
	ErrInvalidPrice       = errors.New("invalid response price")

	// ErrInvalidTransition marks an operation that is not legal from the
	// quotation's current status. Usage error, never retried.
	ErrInvalidTransition = errors.New("invalid quotation transition")

	// ErrStaleRemoteResult marks an async remote confirmation that arrived
	// after a newer local transition already advanced the version. The result
	// is dropped, never applied.
	ErrStaleRemoteResult = errors.New("stale remote result dropped")
)

// InvalidTransitionError reports which operation was attempted from which
// status.
type InvalidTransitionError struct {
	QuotationID string
	From        entities.QuotationStatus
	Op          string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s quotation %s while %s", e.Op, e.QuotationID, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// IQuotationUseCase exposes the quotation lifecycle intents consumed by the
// HTTP facade.
//
// Transition map:
//   - CreateQuotation  -> draft (temp id, version 0)
//   - Submit           -> sent (remote id + version 1 on confirmation)
//   - RecordResponse   -> partially_responded / fully_responded
//   - Finalize         -> finalized (terminal, archived)
//   - Cancel           -> cancelled (terminal, archived, idempotent)

type IQuotationUseCase interface {
	CreateQuotation(ctx context.Context, requesterID string, items []entities.LineItem, invitedCompanyIDs []string) (entities.Quotation, error)
	Submit(ctx context.Context, id string) (entities.Quotation, error)
	RecordResponse(ctx context.Context, id, companyID string, decision entities.ResponseDecision, price float64, notes string) (entities.Quotation, error)
	Finalize(ctx context.Context, id, companyID string) (entities.Quotation, error)
	Cancel(ctx context.Context, id string) (entities.Quotation, error)
	GetByID(ctx context.Context, id string) (entities.Quotation, error)
	List(ctx context.Context) ([]entities.Quotation, error)
}

// QuotationUseCase is the in-memory authoritative client-side store. It
// exclusively owns all Quotation instances: every mutation goes through a
// transition method, under a per-quotation flight lock so at most one
// transition per id is ever in flight (remote call included).
type QuotationUseCase struct {
	gateway interfaces.IRemoteGateway
	archive interfaces.IQuotationArchive
	bus     *events.Bus

	mu         sync.Mutex
	quotations map[string]*entities.Quotation
	aliases    map[string]string
	flights    map[string]*sync.Mutex
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

func NewQuotationUseCase(gateway interfaces.IRemoteGateway, archive interfaces.IQuotationArchive, bus *events.Bus) *QuotationUseCase {
	return &QuotationUseCase{
		gateway:    gateway,
		archive:    archive,
		bus:        bus,
		quotations: make(map[string]*entities.Quotation),
		aliases:    make(map[string]string),
		flights:    make(map[string]*sync.Mutex),
	}
}

func (u *QuotationUseCase) CreateQuotation(ctx context.Context, requesterID string, items []entities.LineItem, invitedCompanyIDs []string) (entities.Quotation, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return entities.Quotation{}, ErrInvalidRequesterID
	}
	if len(items) == 0 {
		return entities.Quotation{}, ErrEmptyItems
	}
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 {
			return entities.Quotation{}, ErrInvalidLineItem
		}
	}
	invited := make([]string, 0, len(invitedCompanyIDs))
	seen := make(map[string]bool, len(invitedCompanyIDs))
	for _, id := range invitedCompanyIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return entities.Quotation{}, ErrInvalidCompanyID
		}
		if !seen[id] {
			seen[id] = true
			invited = append(invited, id)
		}
	}
	if len(invited) == 0 {
		return entities.Quotation{}, ErrNoInvitedCompanies
	}

	now := time.Now().UTC()
	q := &entities.Quotation{
		ID:                entities.TempIDPrefix + uuid.NewString(),
		RequesterID:       requesterID,
		Items:             append([]entities.LineItem(nil), items...),
		InvitedCompanyIDs: invited,
		Responses:         make(map[string]entities.Response),
		Version:           0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	u.mu.Lock()
	u.quotations[q.ID] = q
	u.mu.Unlock()

	log.Printf("[quotation][usecase] draft created id=%s requester=%s items=%d invited=%d", q.ID, requesterID, len(items), len(invited))
	u.publishChanged(*q, events.OriginLocal, "")
	return q.Clone(), nil
}

// Submit dispatches a draft to the remote service. On confirmation the
// temporary id is replaced by the remote id and the version becomes 1.
func (u *QuotationUseCase) Submit(ctx context.Context, id string) (entities.Quotation, error) {
	flight := u.flightLock(id)
	flight.Lock()
	defer flight.Unlock()

	q, err := u.lookup(id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if status := q.Status(); status != entities.QuotationStatusDraft {
		return entities.Quotation{}, &InvalidTransitionError{QuotationID: q.ID, From: status, Op: "submit"}
	}
	if len(q.Items) == 0 {
		return entities.Quotation{}, ErrEmptyItems
	}

	sentVersion := q.Version
	conf, err := u.gateway.CreateQuotation(ctx, q.Clone())
	if err != nil {
		log.Printf("[quotation][usecase] submit failed id=%s err=%v", q.ID, err)
		return entities.Quotation{}, err
	}

	u.mu.Lock()
	if q.Version != sentVersion {
		u.mu.Unlock()
		return entities.Quotation{}, ErrStaleRemoteResult
	}
	tempID := q.ID
	delete(u.quotations, tempID)
	if existing, ok := u.quotations[conf.ID]; ok {
		// Reconciliation adopted the confirmed quotation before we got here
		// (it holds the remote id's flight lock, not the temp id's). Its copy
		// is at least as new as the confirmation, so keep it and just bind
		// the alias; the adoption already published the change.
		u.aliases[tempID] = conf.ID
		snapshot := existing.Clone()
		u.mu.Unlock()
		log.Printf("[quotation][usecase] submit confirmed already-adopted quotation temp_id=%s remote_id=%s version=%d", tempID, conf.ID, snapshot.Version)
		return snapshot, nil
	}
	q.ID = conf.ID
	q.Version = conf.Version
	now := time.Now().UTC()
	q.SubmittedAt = now
	q.UpdatedAt = now
	u.quotations[q.ID] = q
	u.aliases[tempID] = q.ID
	u.mu.Unlock()

	log.Printf("[quotation][usecase] submitted temp_id=%s remote_id=%s version=%d", tempID, q.ID, q.Version)
	u.publishChanged(*q, events.OriginLocal, tempID)
	return q.Clone(), nil
}

// RecordResponse writes (or overwrites) one company's response. The latest
// response per company wins; each accepted call advances the version by one.
func (u *QuotationUseCase) RecordResponse(ctx context.Context, id, companyID string, decision entities.ResponseDecision, price float64, notes string) (entities.Quotation, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return entities.Quotation{}, ErrInvalidCompanyID
	}
	if !decision.Valid() || decision == entities.ResponseDecisionPending {
		return entities.Quotation{}, ErrInvalidDecision
	}
	if decision == entities.ResponseDecisionAccepted && price <= 0 {
		return entities.Quotation{}, ErrInvalidPrice
	}

	flight := u.flightLock(id)
	flight.Lock()
	defer flight.Unlock()

	q, err := u.lookup(id)
	if err != nil {
		return entities.Quotation{}, err
	}
	status := q.Status()
	if status != entities.QuotationStatusSent && status != entities.QuotationStatusPartiallyResponded {
		return entities.Quotation{}, &InvalidTransitionError{QuotationID: q.ID, From: status, Op: "respond"}
	}
	if !q.IsInvited(companyID) {
		return entities.Quotation{}, ErrCompanyNotInvited
	}

	sentVersion := q.Version
	resp := entities.Response{
		CompanyID:   companyID,
		Decision:    decision,
		Price:       price,
		Notes:       strings.TrimSpace(notes),
		RespondedAt: time.Now().UTC(),
		Version:     sentVersion + 1,
	}
	newVersion, err := u.gateway.PushResponse(ctx, q.ID, resp, sentVersion)
	if err != nil {
		log.Printf("[quotation][usecase] respond failed id=%s company=%s err=%v", q.ID, companyID, err)
		return entities.Quotation{}, err
	}
	if newVersion <= sentVersion {
		newVersion = sentVersion + 1
	}

	u.mu.Lock()
	if q.Version != sentVersion {
		u.mu.Unlock()
		return entities.Quotation{}, ErrStaleRemoteResult
	}
	q.Responses[companyID] = resp
	q.Version = newVersion
	q.UpdatedAt = time.Now().UTC()
	u.mu.Unlock()

	log.Printf("[quotation][usecase] response recorded id=%s company=%s decision=%s version=%d status=%s",
		q.ID, companyID, decision, q.Version, q.Status())
	u.publishChanged(*q, events.OriginLocal, "")
	return q.Clone(), nil
}

// Finalize closes the quotation on the chosen company. Only legal once that
// company holds an accepted response; freezes all further response mutation.
func (u *QuotationUseCase) Finalize(ctx context.Context, id, companyID string) (entities.Quotation, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return entities.Quotation{}, ErrInvalidCompanyID
	}

	flight := u.flightLock(id)
	flight.Lock()
	defer flight.Unlock()

	q, err := u.lookup(id)
	if err != nil {
		return entities.Quotation{}, err
	}
	status := q.Status()
	if status != entities.QuotationStatusPartiallyResponded && status != entities.QuotationStatusFullyResponded {
		return entities.Quotation{}, &InvalidTransitionError{QuotationID: q.ID, From: status, Op: "finalize"}
	}
	if r, ok := q.Responses[companyID]; !ok || r.Decision != entities.ResponseDecisionAccepted {
		return entities.Quotation{}, &InvalidTransitionError{QuotationID: q.ID, From: status, Op: "finalize"}
	}

	sentVersion := q.Version
	newVersion, err := u.gateway.PushFinalize(ctx, q.ID, companyID, sentVersion)
	if err != nil {
		log.Printf("[quotation][usecase] finalize failed id=%s company=%s err=%v", q.ID, companyID, err)
		return entities.Quotation{}, err
	}
	if newVersion <= sentVersion {
		newVersion = sentVersion + 1
	}

	u.mu.Lock()
	if q.Version != sentVersion {
		u.mu.Unlock()
		return entities.Quotation{}, ErrStaleRemoteResult
	}
	now := time.Now().UTC()
	q.ChosenCompanyID = companyID
	q.FinalizedAt = now
	q.UpdatedAt = now
	q.Version = newVersion
	u.mu.Unlock()

	log.Printf("[quotation][usecase] finalized id=%s company=%s version=%d", q.ID, companyID, q.Version)
	u.archiveRetired(ctx, q.Clone())
	u.publishChanged(*q, events.OriginLocal, "")
	return q.Clone(), nil
}

// Cancel is legal from any state before finalized and idempotent: cancelling
// an already-cancelled quotation returns the same terminal snapshot without a
// new version or a duplicate event.
func (u *QuotationUseCase) Cancel(ctx context.Context, id string) (entities.Quotation, error) {
	flight := u.flightLock(id)
	flight.Lock()
	defer flight.Unlock()

	q, err := u.lookup(id)
	if err != nil {
		return entities.Quotation{}, err
	}
	status := q.Status()
	if status == entities.QuotationStatusCancelled {
		return q.Clone(), nil
	}
	if status == entities.QuotationStatusFinalized {
		return entities.Quotation{}, &InvalidTransitionError{QuotationID: q.ID, From: status, Op: "cancel"}
	}

	sentVersion := q.Version
	newVersion := sentVersion + 1
	if !q.IsTempID() {
		// Unsubmitted drafts exist only locally; everything else must be
		// cancelled at the source of truth or reconciliation would revive it.
		remoteVersion, err := u.gateway.PushCancel(ctx, q.ID, sentVersion)
		if err != nil {
			log.Printf("[quotation][usecase] cancel failed id=%s err=%v", q.ID, err)
			return entities.Quotation{}, err
		}
		if remoteVersion > sentVersion {
			newVersion = remoteVersion
		}
	}

	u.mu.Lock()
	if q.Version != sentVersion {
		u.mu.Unlock()
		return entities.Quotation{}, ErrStaleRemoteResult
	}
	now := time.Now().UTC()
	q.CancelledAt = now
	q.UpdatedAt = now
	q.Version = newVersion
	u.mu.Unlock()

	log.Printf("[quotation][usecase] cancelled id=%s version=%d", q.ID, q.Version)
	u.archiveRetired(ctx, q.Clone())
	u.publishChanged(*q, events.OriginLocal, "")
	return q.Clone(), nil
}

func (u *QuotationUseCase) GetByID(_ context.Context, id string) (entities.Quotation, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	q, err := u.lookupLocked(id)
	if err != nil {
		return entities.Quotation{}, err
	}
	return q.Clone(), nil
}

func (u *QuotationUseCase) List(_ context.Context) ([]entities.Quotation, error) {
	u.mu.Lock()
	out := make([]entities.Quotation, 0, len(u.quotations))
	for _, q := range u.quotations {
		out = append(out, q.Clone())
	}
	u.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// KnownRemoteIDs lists confirmed quotation ids for per-id reconciliation.
func (u *QuotationUseCase) KnownRemoteIDs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ids := make([]string, 0, len(u.quotations))
	for id, q := range u.quotations {
		if !q.IsTempID() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ApplyRemote merges one remote quotation under last-writer-wins with version
// check:
//   - remote ahead  -> remote wins wholesale, quotation-changed (origin remote)
//   - local ahead   -> defer to the in-flight local push, no overwrite
//   - equal version -> content must match, otherwise a sync-conflict event
//
// Unknown quotations are adopted into the store. Returns whether the store
// changed.
func (u *QuotationUseCase) ApplyRemote(ctx context.Context, remote entities.Quotation) (bool, error) {
	if remote.ID == "" {
		return false, ErrQuotationNotFound
	}
	flight := u.flightLock(remote.ID)
	flight.Lock()
	defer flight.Unlock()

	u.mu.Lock()
	local, ok := u.quotations[remote.ID]
	if !ok {
		adopted := remote.Clone()
		if adopted.Responses == nil {
			adopted.Responses = make(map[string]entities.Response)
		}
		u.quotations[remote.ID] = &adopted
		u.mu.Unlock()
		log.Printf("[quotation][usecase] adopted remote quotation id=%s version=%d", remote.ID, remote.Version)
		u.publishChanged(adopted, events.OriginRemote, "")
		return true, nil
	}

	switch {
	case remote.Version > local.Version:
		wasRetired := local.Retired()
		merged := remote.Clone()
		if merged.Responses == nil {
			merged.Responses = make(map[string]entities.Response)
		}
		*local = merged
		u.mu.Unlock()
		log.Printf("[quotation][usecase] remote wins id=%s version=%d status=%s", merged.ID, merged.Version, merged.Status())
		if !wasRetired && merged.Retired() {
			u.archiveRetired(ctx, merged.Clone())
		}
		u.publishChanged(merged, events.OriginRemote, "")
		return true, nil

	case remote.Version < local.Version:
		u.mu.Unlock()
		log.Printf("[quotation][usecase] local ahead, deferring to in-flight push id=%s local=%d remote=%d", remote.ID, local.Version, remote.Version)
		return false, nil

	default:
		conflict := !local.EquivalentContent(remote)
		localVersion := local.Version
		u.mu.Unlock()
		if conflict {
			log.Printf("[quotation][usecase] sync conflict id=%s version=%d", remote.ID, localVersion)
			u.bus.Publish(events.TopicSyncConflict, events.SyncConflict{
				QuotationID:   remote.ID,
				LocalVersion:  localVersion,
				RemoteVersion: remote.Version,
				Detail:        "same version with diverging content",
				At:            time.Now().UTC(),
			})
		}
		return false, nil
	}
}

func (u *QuotationUseCase) lookup(id string) (*entities.Quotation, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lookupLocked(id)
}

func (u *QuotationUseCase) lookupLocked(id string) (*entities.Quotation, error) {
	if target, ok := u.aliases[id]; ok {
		id = target
	}
	q, ok := u.quotations[id]
	if !ok {
		return nil, ErrQuotationNotFound
	}
	return q, nil
}

// flightLock returns the per-quotation mutex that serializes transitions.
func (u *QuotationUseCase) flightLock(id string) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	if target, ok := u.aliases[id]; ok {
		id = target
	}
	m, ok := u.flights[id]
	if !ok {
		m = &sync.Mutex{}
		u.flights[id] = m
	}
	return m
}

// publishChanged emits the post-transition snapshot. previousID is non-empty
// only when the transition re-keyed the quotation (submit confirmation).
func (u *QuotationUseCase) publishChanged(q entities.Quotation, origin, previousID string) {
	if u.bus == nil {
		return
	}
	u.bus.Publish(events.TopicQuotationChanged, events.QuotationChanged{
		Quotation:  q.Clone(),
		Origin:     origin,
		PreviousID: previousID,
		At:         time.Now().UTC(),
	})
}

func (u *QuotationUseCase) archiveRetired(ctx context.Context, q entities.Quotation) {
	if u.archive == nil {
		return
	}
	if err := u.archive.Archive(ctx, q); err != nil {
		log.Printf("[quotation][usecase] archive failed id=%s err=%v", q.ID, err)
	}
}
