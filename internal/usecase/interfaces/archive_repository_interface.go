package interfaces

import (
	"context"

	"brcargo_quotes/internal/domain/entities"
)

// IQuotationArchive abstracts DynamoDB persistence for retired quotations.
//
// Quotations are archived (never deleted) once they reach a terminal state;
// the dashboard history view reads from here.
type IQuotationArchive interface {
	Archive(ctx context.Context, q entities.Quotation) error
	ListArchived(ctx context.Context, limit int32) ([]entities.Quotation, error)
}
