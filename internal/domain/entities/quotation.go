package entities

import (
	"strings"
	"time"
)

// QuotationStatus represents the lifecycle of a quotation request.
//
// Domain notes:
//   - The in-memory store is the client-side source of truth; the remote
//     quotation service is the system-wide source of truth.
//   - Status is never written directly: it is always recomputed from the
//     response set plus the finalize/cancel marks.

type QuotationStatus string

const (
	QuotationStatusDraft              QuotationStatus = "draft"
	QuotationStatusSent               QuotationStatus = "sent"
	QuotationStatusPartiallyResponded QuotationStatus = "partially_responded"
	QuotationStatusFullyResponded     QuotationStatus = "fully_responded"
	QuotationStatusFinalized          QuotationStatus = "finalized"
	QuotationStatusCancelled          QuotationStatus = "cancelled"
)

// QuotationOutcome refines fully_responded once every invited company has a
// non-pending decision: all accepted, all denied, or a mix.

type QuotationOutcome string

const (
	QuotationOutcomeAccepted QuotationOutcome = "accepted"
	QuotationOutcomeDenied   QuotationOutcome = "denied"
	QuotationOutcomeMixed    QuotationOutcome = "mixed"
)

type ResponseDecision string

const (
	ResponseDecisionPending  ResponseDecision = "pending"
	ResponseDecisionAccepted ResponseDecision = "accepted"
	ResponseDecisionDenied   ResponseDecision = "denied"
)

func (d ResponseDecision) Valid() bool {
	switch d {
	case ResponseDecisionPending, ResponseDecisionAccepted, ResponseDecisionDenied:
		return true
	}
	return false
}

// LineItem is one requested line of a quotation (description + quantity + unit).
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

// Response is one supplier company's answer to a quotation. It is owned by
// the quotation it belongs to and has no independent lifecycle; the latest
// response per company wins.
type Response struct {
	CompanyID   string           `json:"company_id"`
	Decision    ResponseDecision `json:"decision"`
	Price       float64          `json:"price"`
	Notes       string           `json:"notes,omitempty"`
	RespondedAt time.Time        `json:"responded_at"`
	Version     int64            `json:"version"`
}

// TempIDPrefix marks locally created quotations awaiting remote confirmation.
const TempIDPrefix = "tmp-"

// Quotation is a request for priced responses from one or more supplier
// companies.
//
// Versioning:
//   - Version 0 while the quotation is a local draft.
//   - The remote service assigns version 1 on submit confirmation, and every
//     accepted transition afterwards increments it by exactly 1 (optimistic
//     concurrency against the remote boundary).
type Quotation struct {
	ID                string              `json:"id"`
	RequesterID       string              `json:"requester_id"`
	Items             []LineItem          `json:"items"`
	InvitedCompanyIDs []string            `json:"invited_company_ids"`
	Responses         map[string]Response `json:"responses"`
	ChosenCompanyID   string              `json:"chosen_company_id,omitempty"`
	Version           int64               `json:"version"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	SubmittedAt       time.Time           `json:"submitted_at,omitempty"`
	FinalizedAt       time.Time           `json:"finalized_at,omitempty"`
	CancelledAt       time.Time           `json:"cancelled_at,omitempty"`
}

func (q Quotation) IsTempID() bool {
	return strings.HasPrefix(q.ID, TempIDPrefix)
}

func (q Quotation) IsCancelled() bool { return !q.CancelledAt.IsZero() }
func (q Quotation) IsFinalized() bool { return !q.FinalizedAt.IsZero() }
func (q Quotation) IsSubmitted() bool { return !q.SubmittedAt.IsZero() }

// Retired reports whether the quotation reached a terminal state and must be
// archived rather than deleted.
func (q Quotation) Retired() bool {
	return q.IsFinalized() || q.IsCancelled()
}

// RespondedCount counts invited companies with a non-pending decision.
func (q Quotation) RespondedCount() int {
	n := 0
	for _, companyID := range q.InvitedCompanyIDs {
		if r, ok := q.Responses[companyID]; ok && r.Decision != ResponseDecisionPending {
			n++
		}
	}
	return n
}

func (q Quotation) IsInvited(companyID string) bool {
	for _, id := range q.InvitedCompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// Status derives the lifecycle state as a pure function of the response set
// plus the explicit submit/finalize/cancel marks. Cancel beats everything,
// finalize beats response-derived states.
func (q Quotation) Status() QuotationStatus {
	switch {
	case q.IsCancelled():
		return QuotationStatusCancelled
	case q.IsFinalized():
		return QuotationStatusFinalized
	case !q.IsSubmitted():
		return QuotationStatusDraft
	}

	responded := q.RespondedCount()
	switch {
	case responded == 0:
		return QuotationStatusSent
	case responded < len(q.InvitedCompanyIDs):
		return QuotationStatusPartiallyResponded
	default:
		return QuotationStatusFullyResponded
	}
}

// Outcome classifies a fully responded quotation by its decisions. It returns
// "" until every invited company has a non-pending decision.
func (q Quotation) Outcome() QuotationOutcome {
	if len(q.InvitedCompanyIDs) == 0 || q.RespondedCount() < len(q.InvitedCompanyIDs) {
		return ""
	}
	accepted, denied := 0, 0
	for _, companyID := range q.InvitedCompanyIDs {
		switch q.Responses[companyID].Decision {
		case ResponseDecisionAccepted:
			accepted++
		case ResponseDecisionDenied:
			denied++
		}
	}
	switch {
	case denied == 0:
		return QuotationOutcomeAccepted
	case accepted == 0:
		return QuotationOutcomeDenied
	default:
		return QuotationOutcomeMixed
	}
}

// Clone returns a deep copy. Snapshots handed to the bus, the aggregator and
// the HTTP layer are always clones so no consumer can mutate store state.
func (q Quotation) Clone() Quotation {
	cp := q
	if q.Items != nil {
		cp.Items = make([]LineItem, len(q.Items))
		copy(cp.Items, q.Items)
	}
	if q.InvitedCompanyIDs != nil {
		cp.InvitedCompanyIDs = make([]string, len(q.InvitedCompanyIDs))
		copy(cp.InvitedCompanyIDs, q.InvitedCompanyIDs)
	}
	if q.Responses != nil {
		cp.Responses = make(map[string]Response, len(q.Responses))
		for k, v := range q.Responses {
			cp.Responses[k] = v
		}
	}
	return cp
}

// EquivalentContent compares everything except bookkeeping timestamps. The
// reconciler uses it to detect same-version/different-content anomalies.
func (q Quotation) EquivalentContent(other Quotation) bool {
	if q.ID != other.ID || q.RequesterID != other.RequesterID ||
		q.ChosenCompanyID != other.ChosenCompanyID ||
		q.Status() != other.Status() ||
		len(q.Items) != len(other.Items) ||
		len(q.InvitedCompanyIDs) != len(other.InvitedCompanyIDs) ||
		len(q.Responses) != len(other.Responses) {
		return false
	}
	for i, it := range q.Items {
		if it != other.Items[i] {
			return false
		}
	}
	for i, id := range q.InvitedCompanyIDs {
		if id != other.InvitedCompanyIDs[i] {
			return false
		}
	}
	for companyID, r := range q.Responses {
		o, ok := other.Responses[companyID]
		if !ok || o.Decision != r.Decision || o.Price != r.Price || o.Notes != r.Notes {
			return false
		}
	}
	return true
}
