package repository

import (
	"context"
	"time"

	"brcargo_quotes/internal/domain/entities"
	"brcargo_quotes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultArchiveTableName = "quotations_archive"

type archivedLineItem struct {
	Description string  `dynamodbav:"description"`
	Quantity    float64 `dynamodbav:"quantity"`
	Unit        string  `dynamodbav:"unit,omitempty"`
}

type archivedResponse struct {
	CompanyID   string  `dynamodbav:"company_id"`
	Decision    string  `dynamodbav:"decision"`
	Price       float64 `dynamodbav:"price,omitempty"`
	Notes       string  `dynamodbav:"notes,omitempty"`
	RespondedAt string  `dynamodbav:"responded_at"`
	Version     int64   `dynamodbav:"version"`
}

type archivedQuotationItem struct {
	ID                string             `dynamodbav:"id"`
	RequesterID       string             `dynamodbav:"requester_id"`
	Status            string             `dynamodbav:"status"`
	Outcome           string             `dynamodbav:"outcome,omitempty"`
	Items             []archivedLineItem `dynamodbav:"items"`
	InvitedCompanyIDs []string           `dynamodbav:"invited_company_ids"`
	Responses         []archivedResponse `dynamodbav:"responses,omitempty"`
	ChosenCompanyID   string             `dynamodbav:"chosen_company_id,omitempty"`
	Version           int64              `dynamodbav:"version"`
	CreatedAt         string             `dynamodbav:"created_at"`
	UpdatedAt         string             `dynamodbav:"updated_at"`
	SubmittedAt       string             `dynamodbav:"submitted_at,omitempty"`
	FinalizedAt       string             `dynamodbav:"finalized_at,omitempty"`
	CancelledAt       string             `dynamodbav:"cancelled_at,omitempty"`
	ArchivedAt        string             `dynamodbav:"archived_at"`
}

// QuotationArchiveDynamoRepository keeps retired quotations in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Writes are idempotent puts: re-archiving the same terminal snapshot simply
// overwrites it, so a retried finalize or cancel never fails here.

type QuotationArchiveDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuotationArchive = (*QuotationArchiveDynamoRepository)(nil)

func NewQuotationArchiveDynamoRepository(ddb *dynamodb.Client) *QuotationArchiveDynamoRepository {
	return &QuotationArchiveDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTATIONS_ARCHIVE_TABLE", defaultArchiveTableName),
	}
}

func (r *QuotationArchiveDynamoRepository) Archive(ctx context.Context, q entities.Quotation) error {
	av, err := attributevalue.MarshalMap(toArchivedItem(q))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *QuotationArchiveDynamoRepository) ListArchived(ctx context.Context, limit int32) ([]entities.Quotation, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	out, err := r.ddb.Scan(ctx, input)
	if err != nil {
		return nil, err
	}

	quotations := make([]entities.Quotation, 0, len(out.Items))
	for _, raw := range out.Items {
		var it archivedQuotationItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		quotations = append(quotations, fromArchivedItem(it))
	}
	return quotations, nil
}

func toArchivedItem(q entities.Quotation) archivedQuotationItem {
	items := make([]archivedLineItem, 0, len(q.Items))
	for _, li := range q.Items {
		items = append(items, archivedLineItem{Description: li.Description, Quantity: li.Quantity, Unit: li.Unit})
	}
	responses := make([]archivedResponse, 0, len(q.Responses))
	for _, resp := range q.Responses {
		responses = append(responses, archivedResponse{
			CompanyID:   resp.CompanyID,
			Decision:    string(resp.Decision),
			Price:       resp.Price,
			Notes:       resp.Notes,
			RespondedAt: formatArchiveTime(resp.RespondedAt),
			Version:     resp.Version,
		})
	}
	return archivedQuotationItem{
		ID:                q.ID,
		RequesterID:       q.RequesterID,
		Status:            string(q.Status()),
		Outcome:           string(q.Outcome()),
		Items:             items,
		InvitedCompanyIDs: q.InvitedCompanyIDs,
		Responses:         responses,
		ChosenCompanyID:   q.ChosenCompanyID,
		Version:           q.Version,
		CreatedAt:         formatArchiveTime(q.CreatedAt),
		UpdatedAt:         formatArchiveTime(q.UpdatedAt),
		SubmittedAt:       formatArchiveTime(q.SubmittedAt),
		FinalizedAt:       formatArchiveTime(q.FinalizedAt),
		CancelledAt:       formatArchiveTime(q.CancelledAt),
		ArchivedAt:        time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func fromArchivedItem(it archivedQuotationItem) entities.Quotation {
	items := make([]entities.LineItem, 0, len(it.Items))
	for _, li := range it.Items {
		items = append(items, entities.LineItem{Description: li.Description, Quantity: li.Quantity, Unit: li.Unit})
	}
	responses := make(map[string]entities.Response, len(it.Responses))
	for _, resp := range it.Responses {
		responses[resp.CompanyID] = entities.Response{
			CompanyID:   resp.CompanyID,
			Decision:    entities.ResponseDecision(resp.Decision),
			Price:       resp.Price,
			Notes:       resp.Notes,
			RespondedAt: parseArchiveTime(resp.RespondedAt),
			Version:     resp.Version,
		}
	}
	return entities.Quotation{
		ID:                it.ID,
		RequesterID:       it.RequesterID,
		Items:             items,
		InvitedCompanyIDs: it.InvitedCompanyIDs,
		Responses:         responses,
		ChosenCompanyID:   it.ChosenCompanyID,
		Version:           it.Version,
		CreatedAt:         parseArchiveTime(it.CreatedAt),
		UpdatedAt:         parseArchiveTime(it.UpdatedAt),
		SubmittedAt:       parseArchiveTime(it.SubmittedAt),
		FinalizedAt:       parseArchiveTime(it.FinalizedAt),
		CancelledAt:       parseArchiveTime(it.CancelledAt),
	}
}

func formatArchiveTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseArchiveTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
