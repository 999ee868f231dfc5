package request

import (
	"testing"

	"brcargo_quotes/internal/domain/entities"
)

func TestCreateQuotationRequest_ToLineItems(t *testing.T) {
	r := CreateQuotationRequest{
		RequesterID: "req-1",
		Items: []LineItemRequest{
			{Description: "  pallets  ", Quantity: 4, Unit: " un "},
			{Description: "containers", Quantity: 2},
		},
	}

	items := r.ToLineItems()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Description != "pallets" || items[0].Unit != "un" {
		t.Fatalf("expected trimmed fields, got %+v", items[0])
	}
	if items[1].Quantity != 2 || items[1].Unit != "" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestRespondRequest_ResolveDecision(t *testing.T) {
	cases := map[string]entities.ResponseDecision{
		"accepted":   entities.ResponseDecisionAccepted,
		" ACCEPTED ": entities.ResponseDecisionAccepted,
		"Denied":     entities.ResponseDecisionDenied,
		"maybe":      entities.ResponseDecision("maybe"),
	}
	for raw, want := range cases {
		if got := (RespondRequest{Decision: raw}).ResolveDecision(); got != want {
			t.Fatalf("decision %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestFinalizeRequest_ResolveCompanyID(t *testing.T) {
	if got := (FinalizeRequest{CompanyID: "  co-1  "}).ResolveCompanyID(); got != "co-1" {
		t.Fatalf("expected trimmed company id, got %q", got)
	}
}
