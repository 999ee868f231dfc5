package handlers

import (
	"errors"
	"log"
	"net/http"

	request "brcargo_quotes/internal/adapter/http/dto/request"
	response "brcargo_quotes/internal/adapter/http/dto/response"
	"brcargo_quotes/internal/infrastructure/remote"
	"brcargo_quotes/internal/usecase"
	"brcargo_quotes/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotationPayload = pkg.NewDomainErrorSimple("INVALID_QUOTATION_INPUT", "Invalid quotation payload", http.StatusBadRequest)
)

// QuotationHandler exposes the quotation lifecycle over HTTP.

type QuotationHandler struct {
	usecase usecase.IQuotationUseCase
}

func NewQuotationHandler(uc usecase.IQuotationUseCase) *QuotationHandler {
	return &QuotationHandler{usecase: uc}
}

// CreateQuotation registers a local draft. The returned id is temporary until
// the draft is submitted.
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var payload request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}

	q, err := h.usecase.CreateQuotation(c.Request.Context(), payload.RequesterID, payload.ToLineItems(), payload.InvitedCompanyIDs)
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromQuotation(q))
}

// SubmitQuotation dispatches a draft to the remote quotation service.
func (h *QuotationHandler) SubmitQuotation(c *gin.Context) {
	id := c.Param("id")
	log.Printf("[quotation][handler] submit start id=%s", id)

	q, err := h.usecase.Submit(c.Request.Context(), id)
	if err != nil {
		log.Printf("[quotation][handler] submit failed id=%s err=%v", id, err)
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[quotation][handler] submit success temp_id=%s id=%s version=%d", id, q.ID, q.Version)

	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// RecordResponse records one invited company's answer.
func (h *QuotationHandler) RecordResponse(c *gin.Context) {
	id := c.Param("id")
	companyID := c.Param("company_id")

	var payload request.RespondRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}

	q, err := h.usecase.RecordResponse(c.Request.Context(), id, companyID, payload.ResolveDecision(), payload.Price, payload.Notes)
	if err != nil {
		log.Printf("[quotation][handler] respond failed id=%s company=%s err=%v", id, companyID, err)
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// FinalizeQuotation closes the quotation on the chosen company.
func (h *QuotationHandler) FinalizeQuotation(c *gin.Context) {
	id := c.Param("id")

	var payload request.FinalizeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}

	q, err := h.usecase.Finalize(c.Request.Context(), id, payload.ResolveCompanyID())
	if err != nil {
		log.Printf("[quotation][handler] finalize failed id=%s err=%v", id, err)
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// CancelQuotation cancels the quotation. Repeating the call returns the same
// terminal snapshot.
func (h *QuotationHandler) CancelQuotation(c *gin.Context) {
	id := c.Param("id")

	q, err := h.usecase.Cancel(c.Request.Context(), id)
	if err != nil {
		log.Printf("[quotation][handler] cancel failed id=%s err=%v", id, err)
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// GetQuotation resolves by remote id or by the temporary id issued at draft
// time.
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	id := c.Param("id")

	q, err := h.usecase.GetByID(c.Request.Context(), id)
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// ListQuotations returns every live quotation, newest first.
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	qs, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotations(qs))
}

func mapQuotationError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequesterID),
		errors.Is(err, usecase.ErrEmptyItems),
		errors.Is(err, usecase.ErrInvalidLineItem),
		errors.Is(err, usecase.ErrNoInvitedCompanies),
		errors.Is(err, usecase.ErrInvalidCompanyID),
		errors.Is(err, usecase.ErrInvalidDecision),
		errors.Is(err, usecase.ErrInvalidPrice):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuotationNotFound):
		return pkg.NewDomainErrorSimple("QUOTATION_NOT_FOUND", "Quotation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCompanyNotInvited):
		return pkg.NewDomainErrorSimple("COMPANY_NOT_INVITED", "Company was not invited to this quotation", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", "Operation not allowed in the current status", err, http.StatusUnprocessableEntity)
	case errors.Is(err, remote.ErrVersionConflict):
		return pkg.NewDomainError("VERSION_CONFLICT", "Quotation changed remotely, refresh and retry", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrStaleRemoteResult):
		return pkg.NewDomainError("STALE_RESULT", "A newer local change superseded this operation", err, http.StatusConflict)
	case errors.Is(err, remote.ErrUnavailable):
		return pkg.NewDomainError("REMOTE_UNAVAILABLE", "Quotation service unreachable", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
