package entities

import (
	"testing"
	"time"
)

func testQuotation() Quotation {
	now := time.Now().UTC()
	return Quotation{
		ID:                "q-1",
		RequesterID:       "req-1",
		Items:             []LineItem{{Description: "pallets", Quantity: 10, Unit: "un"}},
		InvitedCompanyIDs: []string{"co-1", "co-2"},
		Responses:         map[string]Response{},
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
		SubmittedAt:       now,
	}
}

func TestQuotation_StatusDerivation(t *testing.T) {
	t.Run("draft before submit", func(t *testing.T) {
		q := testQuotation()
		q.SubmittedAt = time.Time{}
		if got := q.Status(); got != QuotationStatusDraft {
			t.Fatalf("expected draft, got %s", got)
		}
	})

	t.Run("sent with no responses", func(t *testing.T) {
		q := testQuotation()
		if got := q.Status(); got != QuotationStatusSent {
			t.Fatalf("expected sent, got %s", got)
		}
	})

	t.Run("pending decision does not count as responded", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionPending}
		if got := q.Status(); got != QuotationStatusSent {
			t.Fatalf("expected sent, got %s", got)
		}
	})

	t.Run("partially responded", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted, Price: 100}
		if got := q.Status(); got != QuotationStatusPartiallyResponded {
			t.Fatalf("expected partially_responded, got %s", got)
		}
	})

	t.Run("fully responded once all invited answered", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted, Price: 100}
		q.Responses["co-2"] = Response{CompanyID: "co-2", Decision: ResponseDecisionDenied}
		if got := q.Status(); got != QuotationStatusFullyResponded {
			t.Fatalf("expected fully_responded, got %s", got)
		}
	})

	t.Run("uninvited response does not affect completeness", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-9"] = Response{CompanyID: "co-9", Decision: ResponseDecisionAccepted}
		if got := q.Status(); got != QuotationStatusSent {
			t.Fatalf("expected sent, got %s", got)
		}
	})

	t.Run("finalize beats responses", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted}
		q.FinalizedAt = time.Now().UTC()
		if got := q.Status(); got != QuotationStatusFinalized {
			t.Fatalf("expected finalized, got %s", got)
		}
	})

	t.Run("cancel beats everything", func(t *testing.T) {
		q := testQuotation()
		q.FinalizedAt = time.Now().UTC()
		q.CancelledAt = time.Now().UTC()
		if got := q.Status(); got != QuotationStatusCancelled {
			t.Fatalf("expected cancelled, got %s", got)
		}
	})
}

func TestQuotation_Outcome(t *testing.T) {
	cases := []struct {
		name string
		co1  ResponseDecision
		co2  ResponseDecision
		want QuotationOutcome
	}{
		{name: "all accepted", co1: ResponseDecisionAccepted, co2: ResponseDecisionAccepted, want: QuotationOutcomeAccepted},
		{name: "all denied", co1: ResponseDecisionDenied, co2: ResponseDecisionDenied, want: QuotationOutcomeDenied},
		{name: "mixed", co1: ResponseDecisionAccepted, co2: ResponseDecisionDenied, want: QuotationOutcomeMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := testQuotation()
			q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: tc.co1}
			q.Responses["co-2"] = Response{CompanyID: "co-2", Decision: tc.co2}
			if got := q.Outcome(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	t.Run("empty until fully responded", func(t *testing.T) {
		q := testQuotation()
		q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted}
		if got := q.Outcome(); got != "" {
			t.Fatalf("expected empty outcome, got %s", got)
		}
	})
}

func TestQuotation_Clone(t *testing.T) {
	q := testQuotation()
	q.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted, Price: 50}

	cp := q.Clone()
	cp.Items[0].Quantity = 99
	cp.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionDenied}
	cp.InvitedCompanyIDs[0] = "other"

	if q.Items[0].Quantity != 10 {
		t.Fatalf("clone leaked items mutation")
	}
	if q.Responses["co-1"].Decision != ResponseDecisionAccepted {
		t.Fatalf("clone leaked responses mutation")
	}
	if q.InvitedCompanyIDs[0] != "co-1" {
		t.Fatalf("clone leaked invited list mutation")
	}
}

func TestQuotation_EquivalentContent(t *testing.T) {
	a := testQuotation()
	a.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted, Price: 100}
	b := a.Clone()
	b.UpdatedAt = b.UpdatedAt.Add(time.Hour)

	if !a.EquivalentContent(b) {
		t.Fatalf("expected timestamps to be ignored")
	}

	b.Responses["co-1"] = Response{CompanyID: "co-1", Decision: ResponseDecisionAccepted, Price: 120}
	if a.EquivalentContent(b) {
		t.Fatalf("expected price change to be detected")
	}
}

func TestQuotation_TempID(t *testing.T) {
	q := Quotation{ID: TempIDPrefix + "abc"}
	if !q.IsTempID() {
		t.Fatalf("expected temp id")
	}
	q.ID = "remote-1"
	if q.IsTempID() {
		t.Fatalf("expected confirmed id")
	}
}
