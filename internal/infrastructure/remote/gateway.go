package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/usecase/interfaces"
)

// Gateway maps the IRemoteGateway operations onto the resilient transport
// client. Wire shapes follow the remote quotation API:
//
//	POST /quotations                                  -> {id, version}
//	POST /quotations/{id}/responses/{companyId}       -> {version} | 409
//	POST /quotations/{id}/finalize                    -> {version} | 409
//	POST /quotations/{id}/cancel                      -> {version} | 409
//	GET  /quotations/{id}                             -> full quotation
//	GET  /quotations?since=<cursor>                   -> {quotations: [...]}
type Gateway struct {
	client *Client
}

var _ interfaces.IRemoteGateway = (*Gateway)(nil)
var _ interfaces.ITransportStatusReader = (*Gateway)(nil)

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Status() events.TransportHealth { return g.client.Status() }

type createQuotationPayload struct {
	ClientRef         string              `json:"client_ref"`
	RequesterID       string              `json:"requester_id"`
	Items             []entities.LineItem `json:"items"`
	InvitedCompanyIDs []string            `json:"invited_company_ids"`
}

type versionPayload struct {
	Version int64 `json:"version"`
}

func (g *Gateway) CreateQuotation(ctx context.Context, q entities.Quotation) (interfaces.RemoteConfirmation, error) {
	// The temp id doubles as idempotency key: a retried or failed-over create
	// of the same draft must not mint two remote quotations.
	payload, err := g.client.Do(ctx, Operation{
		Method: http.MethodPost,
		Path:   "/quotations",
		Payload: createQuotationPayload{
			ClientRef:         q.ID,
			RequesterID:       q.RequesterID,
			Items:             q.Items,
			InvitedCompanyIDs: q.InvitedCompanyIDs,
		},
		IdempotencyKey: q.ID,
		Idempotent:     true,
	})
	if err != nil {
		return interfaces.RemoteConfirmation{}, err
	}
	var conf interfaces.RemoteConfirmation
	if err := json.Unmarshal(payload, &conf); err != nil {
		return interfaces.RemoteConfirmation{}, fmt.Errorf("decoding create confirmation: %w", err)
	}
	if conf.ID == "" {
		return interfaces.RemoteConfirmation{}, fmt.Errorf("remote create returned empty id")
	}
	return conf, nil
}

func (g *Gateway) PushResponse(ctx context.Context, quotationID string, r entities.Response, expectedVersion int64) (int64, error) {
	type respondPayload struct {
		Decision entities.ResponseDecision `json:"decision"`
		Price    float64                   `json:"price"`
		Notes    string                    `json:"notes,omitempty"`
		Version  int64                     `json:"version"`
	}
	return g.pushVersioned(ctx, Operation{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/quotations/%s/responses/%s", url.PathEscape(quotationID), url.PathEscape(r.CompanyID)),
		Payload: respondPayload{
			Decision: r.Decision,
			Price:    r.Price,
			Notes:    r.Notes,
			Version:  expectedVersion,
		},
		// Latest-response-per-company-wins makes a replayed respond a no-op
		// remotely, so failover is safe when keyed per attempt version.
		IdempotencyKey: fmt.Sprintf("resp-%s-%s-v%d", quotationID, r.CompanyID, expectedVersion),
		Idempotent:     true,

		ExpectedVersion: expectedVersion,
	})
}

func (g *Gateway) PushFinalize(ctx context.Context, quotationID, companyID string, expectedVersion int64) (int64, error) {
	type finalizePayload struct {
		CompanyID string `json:"company_id"`
		Version   int64  `json:"version"`
	}
	return g.pushVersioned(ctx, Operation{
		Method:          http.MethodPost,
		Path:            fmt.Sprintf("/quotations/%s/finalize", url.PathEscape(quotationID)),
		Payload:         finalizePayload{CompanyID: companyID, Version: expectedVersion},
		IdempotencyKey:  fmt.Sprintf("fin-%s-v%d", quotationID, expectedVersion),
		Idempotent:      true,
		ExpectedVersion: expectedVersion,
	})
}

func (g *Gateway) PushCancel(ctx context.Context, quotationID string, expectedVersion int64) (int64, error) {
	return g.pushVersioned(ctx, Operation{
		Method:          http.MethodPost,
		Path:            fmt.Sprintf("/quotations/%s/cancel", url.PathEscape(quotationID)),
		Payload:         versionPayload{Version: expectedVersion},
		IdempotencyKey:  fmt.Sprintf("cancel-%s-v%d", quotationID, expectedVersion),
		Idempotent:      true,
		ExpectedVersion: expectedVersion,
	})
}

func (g *Gateway) pushVersioned(ctx context.Context, op Operation) (int64, error) {
	payload, err := g.client.Do(ctx, op)
	if err != nil {
		return 0, err
	}
	var out versionPayload
	if err := json.Unmarshal(payload, &out); err != nil {
		return 0, fmt.Errorf("decoding version confirmation: %w", err)
	}
	return out.Version, nil
}

func (g *Gateway) FetchQuotation(ctx context.Context, id string) (entities.Quotation, error) {
	payload, err := g.client.Do(ctx, Operation{
		Method:     http.MethodGet,
		Path:       "/quotations/" + url.PathEscape(id),
		Idempotent: true,
		CacheKey:   "quotation:" + id,
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	var q entities.Quotation
	if err := json.Unmarshal(payload, &q); err != nil {
		return entities.Quotation{}, fmt.Errorf("decoding quotation %s: %w", id, err)
	}
	return q, nil
}

func (g *Gateway) ListChangedSince(ctx context.Context, since time.Time) ([]entities.Quotation, error) {
	path := "/quotations"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	}
	payload, err := g.client.Do(ctx, Operation{
		Method:     http.MethodGet,
		Path:       path,
		Idempotent: true,
		CacheKey:   "quotations:changed",
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Quotations []entities.Quotation `json:"quotations"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding changed quotations: %w", err)
	}
	return out.Quotations, nil
}
