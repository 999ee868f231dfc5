package request

import (
	"strings"

	"brcargo_quotes/internal/domain/entities"
)

type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	Unit        string  `json:"unit"`
}

// CreateQuotationRequest is the payload accepted by POST /quotations.
type CreateQuotationRequest struct {
	RequesterID       string            `json:"requester_id" binding:"required"`
	Items             []LineItemRequest `json:"items" binding:"required"`
	InvitedCompanyIDs []string          `json:"invited_company_ids" binding:"required"`
}

func (r CreateQuotationRequest) ToLineItems() []entities.LineItem {
	items := make([]entities.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Unit:        strings.TrimSpace(it.Unit),
		})
	}
	return items
}

// RespondRequest records one transport company's answer.
type RespondRequest struct {
	Decision string  `json:"decision" binding:"required"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

func (r RespondRequest) ResolveDecision() entities.ResponseDecision {
	return entities.ResponseDecision(strings.ToLower(strings.TrimSpace(r.Decision)))
}

type FinalizeRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
}

func (r FinalizeRequest) ResolveCompanyID() string {
	return strings.TrimSpace(r.CompanyID)
}
