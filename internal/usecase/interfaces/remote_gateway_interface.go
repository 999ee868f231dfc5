package interfaces

import (
	"context"
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
)

// RemoteConfirmation is the remote service's answer to a quotation creation:
// the authoritative id plus the first version.
type RemoteConfirmation struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// IRemoteGateway abstracts the remote quotation service boundary. The store
// pushes every accepted transition through it; the reconciler pulls remote
// state back. Implementations own retry/fallback/timeout behavior and must
// surface version conflicts verbatim.
type IRemoteGateway interface {
	CreateQuotation(ctx context.Context, q entities.Quotation) (RemoteConfirmation, error)
	PushResponse(ctx context.Context, quotationID string, r entities.Response, expectedVersion int64) (int64, error)
	PushFinalize(ctx context.Context, quotationID, companyID string, expectedVersion int64) (int64, error)
	PushCancel(ctx context.Context, quotationID string, expectedVersion int64) (int64, error)
	FetchQuotation(ctx context.Context, id string) (entities.Quotation, error)
	ListChangedSince(ctx context.Context, since time.Time) ([]entities.Quotation, error)
}

// ITransportStatusReader exposes transport health for the dashboard.
type ITransportStatusReader interface {
	Status() events.TransportHealth
}
