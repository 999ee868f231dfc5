package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/infrastructure/remote"
	"brcargo_quotes/internal/usecase/interfaces"
	mock_interfaces "brcargo_quotes/internal/usecase/interfaces/mocks"
)

type storeFixture struct {
	uc        *QuotationUseCase
	gateway   *mock_interfaces.MockIRemoteGateway
	archive   *mock_interfaces.MockIQuotationArchive
	bus       *events.Bus
	changed   *[]events.QuotationChanged
	conflicts *[]events.SyncConflict
}

func newStoreFixture(t *testing.T) storeFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	gateway := mock_interfaces.NewMockIRemoteGateway(ctrl)
	archive := mock_interfaces.NewMockIQuotationArchive(ctrl)
	bus := events.NewBus()

	changed := &[]events.QuotationChanged{}
	bus.Subscribe(events.TopicQuotationChanged, func(payload any) {
		*changed = append(*changed, payload.(events.QuotationChanged))
	})
	conflicts := &[]events.SyncConflict{}
	bus.Subscribe(events.TopicSyncConflict, func(payload any) {
		*conflicts = append(*conflicts, payload.(events.SyncConflict))
	})

	return storeFixture{
		uc:        NewQuotationUseCase(gateway, archive, bus),
		gateway:   gateway,
		archive:   archive,
		bus:       bus,
		changed:   changed,
		conflicts: conflicts,
	}
}

var defaultItems = []entities.LineItem{
	{Description: "pallets of machine parts", Quantity: 12, Unit: "un"},
	{Description: "refrigerated containers", Quantity: 2, Unit: "un"},
}

func (f storeFixture) createDraft(t *testing.T) entities.Quotation {
	t.Helper()
	q, err := f.uc.CreateQuotation(context.Background(), "req-1", defaultItems, []string{"co-1", "co-2"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return q
}

func (f storeFixture) submitted(t *testing.T) entities.Quotation {
	t.Helper()
	draft := f.createDraft(t)
	f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
		Return(interfaces.RemoteConfirmation{ID: "q-1", Version: 1}, nil)
	q, err := f.uc.Submit(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return q
}

func TestQuotationUseCase_CreateQuotation(t *testing.T) {
	t.Run("invalid requester", func(t *testing.T) {
		f := newStoreFixture(t)
		_, err := f.uc.CreateQuotation(context.Background(), "   ", defaultItems, []string{"co-1"})
		if !errors.Is(err, ErrInvalidRequesterID) {
			t.Fatalf("expected ErrInvalidRequesterID, got %v", err)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		f := newStoreFixture(t)
		_, err := f.uc.CreateQuotation(context.Background(), "req-1", nil, []string{"co-1"})
		if !errors.Is(err, ErrEmptyItems) {
			t.Fatalf("expected ErrEmptyItems, got %v", err)
		}
	})

	t.Run("invalid line item", func(t *testing.T) {
		f := newStoreFixture(t)
		_, err := f.uc.CreateQuotation(context.Background(), "req-1", []entities.LineItem{{Description: "x", Quantity: 0}}, []string{"co-1"})
		if !errors.Is(err, ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})

	t.Run("no invited companies", func(t *testing.T) {
		f := newStoreFixture(t)
		_, err := f.uc.CreateQuotation(context.Background(), "req-1", defaultItems, nil)
		if !errors.Is(err, ErrNoInvitedCompanies) {
			t.Fatalf("expected ErrNoInvitedCompanies, got %v", err)
		}
	})

	t.Run("draft with temp id and version 0", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.createDraft(t)
		if !q.IsTempID() {
			t.Fatalf("expected temp id, got %s", q.ID)
		}
		if q.Version != 0 {
			t.Fatalf("expected version 0, got %d", q.Version)
		}
		if q.Status() != entities.QuotationStatusDraft {
			t.Fatalf("expected draft, got %s", q.Status())
		}
		if len(*f.changed) != 1 {
			t.Fatalf("expected 1 event, got %d", len(*f.changed))
		}
	})

	t.Run("duplicate invited companies are collapsed", func(t *testing.T) {
		f := newStoreFixture(t)
		q, err := f.uc.CreateQuotation(context.Background(), "req-1", defaultItems, []string{"co-1", "co-1", "co-2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.InvitedCompanyIDs) != 2 {
			t.Fatalf("expected deduped invite list, got %v", q.InvitedCompanyIDs)
		}
	})
}

func TestQuotationUseCase_Submit(t *testing.T) {
	t.Run("confirms remote id and version 1", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)

		f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q entities.Quotation) (interfaces.RemoteConfirmation, error) {
				if q.ID != draft.ID || len(q.Items) != 2 {
					t.Fatalf("unexpected quotation pushed: %+v", q)
				}
				return interfaces.RemoteConfirmation{ID: "q-1", Version: 1}, nil
			})

		q, err := f.uc.Submit(context.Background(), draft.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "q-1" || q.Version != 1 {
			t.Fatalf("expected remote id and version 1, got id=%s version=%d", q.ID, q.Version)
		}
		if q.Status() != entities.QuotationStatusSent {
			t.Fatalf("expected sent, got %s", q.Status())
		}

		// Temp id keeps resolving after confirmation.
		byTemp, err := f.uc.GetByID(context.Background(), draft.ID)
		if err != nil || byTemp.ID != "q-1" {
			t.Fatalf("expected temp id alias, got %+v err=%v", byTemp, err)
		}
	})

	t.Run("event carries the replaced temp id", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)
		f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
			Return(interfaces.RemoteConfirmation{ID: "q-1", Version: 1}, nil)

		if _, err := f.uc.Submit(context.Background(), draft.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(*f.changed) != 2 {
			t.Fatalf("expected 2 events, got %d", len(*f.changed))
		}
		evt := (*f.changed)[1]
		if evt.Quotation.ID != "q-1" || evt.PreviousID != draft.ID {
			t.Fatalf("expected re-key event from %s to q-1, got id=%s previous=%s", draft.ID, evt.Quotation.ID, evt.PreviousID)
		}
	})

	t.Run("reconciliation adopting the confirmed id first wins", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)

		adopted := entities.Quotation{
			ID:                "q-1",
			RequesterID:       "req-1",
			Items:             append([]entities.LineItem(nil), defaultItems...),
			InvitedCompanyIDs: []string{"co-1", "co-2"},
			Responses: map[string]entities.Response{
				"co-1": {CompanyID: "co-1", Decision: entities.ResponseDecisionAccepted, Price: 900, RespondedAt: time.Now().UTC(), Version: 3},
			},
			Version:     3,
			SubmittedAt: time.Now().UTC(),
		}
		f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ entities.Quotation) (interfaces.RemoteConfirmation, error) {
				// A reconciliation pass lands the freshly created quotation
				// before the confirmation reaches the store. It locks the
				// remote id's flight, not the temp id's, so it gets there
				// first.
				if _, err := f.uc.ApplyRemote(ctx, adopted); err != nil {
					t.Fatalf("apply remote failed: %v", err)
				}
				return interfaces.RemoteConfirmation{ID: "q-1", Version: 1}, nil
			})

		q, err := f.uc.Submit(context.Background(), draft.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "q-1" || q.Version != 3 {
			t.Fatalf("expected the adopted copy returned, got id=%s version=%d", q.ID, q.Version)
		}

		stored, err := f.uc.GetByID(context.Background(), "q-1")
		if err != nil || stored.Version != 3 {
			t.Fatalf("expected store to keep the newer adopted copy, got %+v err=%v", stored, err)
		}
		if _, ok := stored.Responses["co-1"]; !ok {
			t.Fatalf("expected adopted response preserved, got %+v", stored.Responses)
		}
		byTemp, err := f.uc.GetByID(context.Background(), draft.ID)
		if err != nil || byTemp.ID != "q-1" {
			t.Fatalf("expected temp id alias bound, got %+v err=%v", byTemp, err)
		}

		// Draft creation plus the adoption; the confirmation must not publish
		// a duplicate stale-version event.
		if len(*f.changed) != 2 {
			t.Fatalf("expected 2 events, got %d", len(*f.changed))
		}
		if last := (*f.changed)[1]; last.Origin != events.OriginRemote || last.Quotation.Version != 3 {
			t.Fatalf("expected last event to be the remote adoption, got %+v", last)
		}
	})

	t.Run("rejected from non-draft", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		_, err := f.uc.Submit(context.Background(), q.ID)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("gateway failure keeps draft intact", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)
		f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
			Return(interfaces.RemoteConfirmation{}, &remote.NetworkError{Op: "POST", URL: "/quotations", Err: errors.New("boom")})

		_, err := f.uc.Submit(context.Background(), draft.ID)
		if !errors.Is(err, remote.ErrUnavailable) {
			t.Fatalf("expected unavailable error, got %v", err)
		}
		q, err := f.uc.GetByID(context.Background(), draft.ID)
		if err != nil || q.Status() != entities.QuotationStatusDraft || q.Version != 0 {
			t.Fatalf("expected untouched draft, got %+v err=%v", q, err)
		}
	})
}

func TestQuotationUseCase_RecordResponse(t *testing.T) {
	t.Run("company not invited", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		_, err := f.uc.RecordResponse(context.Background(), q.ID, "co-9", entities.ResponseDecisionAccepted, 100, "")
		if !errors.Is(err, ErrCompanyNotInvited) {
			t.Fatalf("expected ErrCompanyNotInvited, got %v", err)
		}
	})

	t.Run("pending is not a recordable decision", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		_, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionPending, 0, "")
		if !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("expected ErrInvalidDecision, got %v", err)
		}
	})

	t.Run("accepted requires positive price", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		_, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 0, "")
		if !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("rejected on draft", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)
		_, err := f.uc.RecordResponse(context.Background(), draft.ID, "co-1", entities.ResponseDecisionAccepted, 100, "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("status progression sent -> partially -> fully", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		q1, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 100, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q1.Status() != entities.QuotationStatusPartiallyResponded || q1.Version != 2 {
			t.Fatalf("expected partially_responded v2, got %s v%d", q1.Status(), q1.Version)
		}

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(2)).Return(int64(3), nil)
		q2, err := f.uc.RecordResponse(context.Background(), q.ID, "co-2", entities.ResponseDecisionDenied, 0, "too far")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q2.Status() != entities.QuotationStatusFullyResponded || q2.Version != 3 {
			t.Fatalf("expected fully_responded v3, got %s v%d", q2.Status(), q2.Version)
		}
	})

	t.Run("latest response per company wins", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		if _, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 100, ""); err != nil {
			t.Fatalf("first response failed: %v", err)
		}

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(2)).Return(int64(3), nil)
		updated, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionDenied, 0, "changed our mind")
		if err != nil {
			t.Fatalf("second response failed: %v", err)
		}
		if len(updated.Responses) != 1 {
			t.Fatalf("expected a single response for co-1, got %d", len(updated.Responses))
		}
		if updated.Responses["co-1"].Decision != entities.ResponseDecisionDenied {
			t.Fatalf("expected latest decision retained, got %s", updated.Responses["co-1"].Decision)
		}
		if updated.Version != 3 {
			t.Fatalf("expected one increment per accepted call, got v%d", updated.Version)
		}
	})

	t.Run("version conflict surfaced verbatim", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).
			Return(int64(0), &remote.VersionConflictError{Path: "/quotations/q-1/responses/co-1", ExpectedVersion: 1})

		_, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 100, "")
		if !errors.Is(err, remote.ErrVersionConflict) {
			t.Fatalf("expected version conflict, got %v", err)
		}
		// Local state untouched: caller must re-fetch and re-decide.
		cur, _ := f.uc.GetByID(context.Background(), q.ID)
		if cur.Version != 1 || len(cur.Responses) != 0 {
			t.Fatalf("expected untouched quotation, got %+v", cur)
		}
	})
}

func TestQuotationUseCase_Finalize(t *testing.T) {
	t.Run("requires accepted response from chosen company", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		if _, err := f.uc.RecordResponse(context.Background(), q.ID, "co-2", entities.ResponseDecisionDenied, 0, ""); err != nil {
			t.Fatalf("respond failed: %v", err)
		}

		_, err := f.uc.Finalize(context.Background(), q.ID, "co-2")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for denied company, got %v", err)
		}
		_, err = f.uc.Finalize(context.Background(), q.ID, "co-1")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for silent company, got %v", err)
		}
	})

	t.Run("rejected on sent quotation", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		_, err := f.uc.Finalize(context.Background(), q.ID, "co-1")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("archive failure does not fail the transition", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		if _, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 80, ""); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		f.gateway.EXPECT().PushFinalize(gomock.Any(), "q-1", "co-1", int64(2)).Return(int64(3), nil)
		f.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(errors.New("dynamo down"))

		got, err := f.uc.Finalize(context.Background(), q.ID, "co-1")
		if err != nil {
			t.Fatalf("expected finalize to succeed, got %v", err)
		}
		if got.Status() != entities.QuotationStatusFinalized {
			t.Fatalf("expected finalized, got %s", got.Status())
		}
	})
}

// Full lifecycle: create -> submit -> two responses -> finalize, version 4.
func TestQuotationUseCase_LifecycleScenario(t *testing.T) {
	f := newStoreFixture(t)
	draft := f.createDraft(t)

	f.gateway.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).
		Return(interfaces.RemoteConfirmation{ID: "q-1", Version: 1}, nil)
	f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
	f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(2)).Return(int64(3), nil)
	f.gateway.EXPECT().PushFinalize(gomock.Any(), "q-1", "co-1", int64(3)).Return(int64(4), nil)
	f.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(nil)

	ctx := context.Background()
	if _, err := f.uc.Submit(ctx, draft.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.uc.RecordResponse(ctx, "q-1", "co-1", entities.ResponseDecisionAccepted, 100, ""); err != nil {
		t.Fatalf("respond co-1: %v", err)
	}
	afterResponses, err := f.uc.RecordResponse(ctx, "q-1", "co-2", entities.ResponseDecisionDenied, 0, "")
	if err != nil {
		t.Fatalf("respond co-2: %v", err)
	}
	if afterResponses.Status() != entities.QuotationStatusFullyResponded {
		t.Fatalf("expected fully_responded, got %s", afterResponses.Status())
	}

	final, err := f.uc.Finalize(ctx, "q-1", "co-1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if final.Status() != entities.QuotationStatusFinalized {
		t.Fatalf("expected finalized, got %s", final.Status())
	}
	if final.Version != 4 {
		t.Fatalf("expected version 4, got %d", final.Version)
	}
	if final.ChosenCompanyID != "co-1" {
		t.Fatalf("expected co-1 chosen, got %s", final.ChosenCompanyID)
	}

	// One event per accepted transition: create, submit, 2 responses, finalize.
	if len(*f.changed) != 5 {
		t.Fatalf("expected 5 events, got %d", len(*f.changed))
	}
	versions := []int64{0, 1, 2, 3, 4}
	for i, evt := range *f.changed {
		if evt.Quotation.Version != versions[i] {
			t.Fatalf("event %d: expected version %d, got %d", i, versions[i], evt.Quotation.Version)
		}
	}
}

func TestQuotationUseCase_Cancel(t *testing.T) {
	t.Run("cancel is idempotent", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		f.gateway.EXPECT().PushCancel(gomock.Any(), "q-1", int64(1)).Return(int64(2), nil)
		f.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(nil)

		first, err := f.uc.Cancel(context.Background(), q.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		second, err := f.uc.Cancel(context.Background(), q.ID)
		if err != nil {
			t.Fatalf("second cancel: %v", err)
		}
		if first.Status() != entities.QuotationStatusCancelled || second.Status() != entities.QuotationStatusCancelled {
			t.Fatalf("expected cancelled, got %s / %s", first.Status(), second.Status())
		}
		if first.Version != second.Version {
			t.Fatalf("expected same terminal version, got %d / %d", first.Version, second.Version)
		}

		cancelEvents := 0
		for _, evt := range *f.changed {
			if evt.Quotation.Status() == entities.QuotationStatusCancelled {
				cancelEvents++
			}
		}
		if cancelEvents != 1 {
			t.Fatalf("expected exactly 1 cancel event, got %d", cancelEvents)
		}
	})

	t.Run("draft cancel is local only", func(t *testing.T) {
		f := newStoreFixture(t)
		draft := f.createDraft(t)
		f.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(nil)

		got, err := f.uc.Cancel(context.Background(), draft.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got.Status() != entities.QuotationStatusCancelled || got.Version != 1 {
			t.Fatalf("expected cancelled v1, got %s v%d", got.Status(), got.Version)
		}
	})

	t.Run("cancel after finalize rejected", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		f.gateway.EXPECT().PushFinalize(gomock.Any(), "q-1", "co-1", int64(2)).Return(int64(3), nil)
		f.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(nil)
		if _, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 90, ""); err != nil {
			t.Fatalf("respond: %v", err)
		}
		if _, err := f.uc.Finalize(context.Background(), q.ID, "co-1"); err != nil {
			t.Fatalf("finalize: %v", err)
		}

		_, err := f.uc.Cancel(context.Background(), q.ID)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestQuotationUseCase_ApplyRemote(t *testing.T) {
	t.Run("remote ahead wins wholesale", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		remoteCopy := q.Clone()
		remoteCopy.Version = 3
		remoteCopy.Responses["co-1"] = entities.Response{CompanyID: "co-1", Decision: entities.ResponseDecisionAccepted, Price: 95}

		applied, err := f.uc.ApplyRemote(context.Background(), remoteCopy)
		if err != nil || !applied {
			t.Fatalf("expected merge, got applied=%v err=%v", applied, err)
		}
		cur, _ := f.uc.GetByID(context.Background(), "q-1")
		if cur.Version != 3 || cur.Responses["co-1"].Price != 95 {
			t.Fatalf("expected remote copy merged, got %+v", cur)
		}
		last := (*f.changed)[len(*f.changed)-1]
		if last.Origin != events.OriginRemote {
			t.Fatalf("expected remote origin event, got %s", last.Origin)
		}
	})

	t.Run("never overwrites a local version ahead of remote", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)
		f.gateway.EXPECT().PushResponse(gomock.Any(), "q-1", gomock.Any(), int64(1)).Return(int64(2), nil)
		if _, err := f.uc.RecordResponse(context.Background(), q.ID, "co-1", entities.ResponseDecisionAccepted, 100, ""); err != nil {
			t.Fatalf("respond: %v", err)
		}

		stale := q.Clone()
		stale.Version = 1
		applied, err := f.uc.ApplyRemote(context.Background(), stale)
		if err != nil || applied {
			t.Fatalf("expected deferral, got applied=%v err=%v", applied, err)
		}
		cur, _ := f.uc.GetByID(context.Background(), "q-1")
		if cur.Version != 2 || len(cur.Responses) != 1 {
			t.Fatalf("expected local state preserved, got %+v", cur)
		}
	})

	t.Run("equal version with diverging content reports conflict", func(t *testing.T) {
		f := newStoreFixture(t)
		q := f.submitted(t)

		diverged := q.Clone()
		diverged.Responses["co-1"] = entities.Response{CompanyID: "co-1", Decision: entities.ResponseDecisionAccepted, Price: 1}

		applied, err := f.uc.ApplyRemote(context.Background(), diverged)
		if err != nil || applied {
			t.Fatalf("expected no merge, got applied=%v err=%v", applied, err)
		}
		if len(*f.conflicts) != 1 || (*f.conflicts)[0].QuotationID != "q-1" {
			t.Fatalf("expected one sync-conflict event, got %+v", *f.conflicts)
		}
	})

	t.Run("unknown quotation is adopted", func(t *testing.T) {
		f := newStoreFixture(t)
		unknown := entities.Quotation{ID: "q-77", Version: 2, InvitedCompanyIDs: []string{"co-1"}}

		applied, err := f.uc.ApplyRemote(context.Background(), unknown)
		if err != nil || !applied {
			t.Fatalf("expected adoption, got applied=%v err=%v", applied, err)
		}
		got, err := f.uc.GetByID(context.Background(), "q-77")
		if err != nil || got.Version != 2 {
			t.Fatalf("expected adopted quotation, got %+v err=%v", got, err)
		}
	})
}
