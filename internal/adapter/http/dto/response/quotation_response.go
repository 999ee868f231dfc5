package response

import (
	"sort"
	"time"

	"brcargo_quotes/internal/domain/entities"
)

type LineItemResponse struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
}

type CompanyResponse struct {
	CompanyID   string    `json:"company_id"`
	Decision    string    `json:"decision"`
	Price       float64   `json:"price,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	RespondedAt time.Time `json:"responded_at"`
}

type QuotationResponse struct {
	ID                string             `json:"id"`
	RequesterID       string             `json:"requester_id"`
	Status            string             `json:"status"`
	Outcome           string             `json:"outcome,omitempty"`
	Items             []LineItemResponse `json:"items"`
	InvitedCompanyIDs []string           `json:"invited_company_ids"`
	Responses         []CompanyResponse  `json:"responses"`
	ChosenCompanyID   string             `json:"chosen_company_id,omitempty"`
	Version           int64              `json:"version"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	SubmittedAt       *time.Time         `json:"submitted_at,omitempty"`
	FinalizedAt       *time.Time         `json:"finalized_at,omitempty"`
	CancelledAt       *time.Time         `json:"cancelled_at,omitempty"`
}

func FromQuotation(q entities.Quotation) QuotationResponse {
	items := make([]LineItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, LineItemResponse{Description: it.Description, Quantity: it.Quantity, Unit: it.Unit})
	}

	responses := make([]CompanyResponse, 0, len(q.Responses))
	for _, r := range q.Responses {
		responses = append(responses, CompanyResponse{
			CompanyID:   r.CompanyID,
			Decision:    string(r.Decision),
			Price:       r.Price,
			Notes:       r.Notes,
			RespondedAt: r.RespondedAt,
		})
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].CompanyID < responses[j].CompanyID })

	return QuotationResponse{
		ID:                q.ID,
		RequesterID:       q.RequesterID,
		Status:            string(q.Status()),
		Outcome:           string(q.Outcome()),
		Items:             items,
		InvitedCompanyIDs: q.InvitedCompanyIDs,
		Responses:         responses,
		ChosenCompanyID:   q.ChosenCompanyID,
		Version:           q.Version,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
		SubmittedAt:       optionalTime(q.SubmittedAt),
		FinalizedAt:       optionalTime(q.FinalizedAt),
		CancelledAt:       optionalTime(q.CancelledAt),
	}
}

func FromQuotations(qs []entities.Quotation) []QuotationResponse {
	out := make([]QuotationResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuotation(q))
	}
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
