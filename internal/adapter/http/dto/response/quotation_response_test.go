package response

import (
	"testing"
	"time"

	"brcargo_quotes/internal/domain/entities"
)

func TestFromQuotation(t *testing.T) {
	now := time.Now().UTC()
	q := entities.Quotation{
		ID:                "q-1",
		RequesterID:       "req-1",
		Items:             []entities.LineItem{{Description: "pallets", Quantity: 4, Unit: "un"}},
		InvitedCompanyIDs: []string{"co-1", "co-2"},
		Responses: map[string]entities.Response{
			"co-2": {CompanyID: "co-2", Decision: entities.ResponseDecisionDenied, RespondedAt: now},
			"co-1": {CompanyID: "co-1", Decision: entities.ResponseDecisionAccepted, Price: 120, RespondedAt: now},
		},
		ChosenCompanyID: "co-1",
		Version:         4,
		CreatedAt:       now,
		UpdatedAt:       now,
		SubmittedAt:     now,
		FinalizedAt:     now,
	}

	res := FromQuotation(q)
	if res.ID != "q-1" || res.Status != "finalized" {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
	if res.Outcome != "mixed" {
		t.Fatalf("expected mixed outcome, got %q", res.Outcome)
	}
	if len(res.Responses) != 2 || res.Responses[0].CompanyID != "co-1" {
		t.Fatalf("expected responses sorted by company id, got %+v", res.Responses)
	}
	if res.SubmittedAt == nil || res.FinalizedAt == nil || res.CancelledAt != nil {
		t.Fatalf("unexpected optional timestamps: %+v", res)
	}
	if res.Version != 4 {
		t.Fatalf("expected version 4, got %d", res.Version)
	}
}

func TestFromQuotation_DraftOmitsOptionalFields(t *testing.T) {
	q := entities.Quotation{
		ID:                entities.TempIDPrefix + "abc",
		RequesterID:       "req-1",
		Items:             []entities.LineItem{{Description: "pallets", Quantity: 1}},
		InvitedCompanyIDs: []string{"co-1"},
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	res := FromQuotation(q)
	if res.Status != "draft" || res.Outcome != "" {
		t.Fatalf("unexpected draft mapping: %+v", res)
	}
	if res.SubmittedAt != nil || res.FinalizedAt != nil || res.CancelledAt != nil {
		t.Fatalf("expected nil optional timestamps, got %+v", res)
	}
	if len(res.Responses) != 0 {
		t.Fatalf("expected empty responses, got %+v", res.Responses)
	}
}
