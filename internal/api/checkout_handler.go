package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/Concierge/internal/checkout"
)

// SubmitTransaction отправляет платёж выбранным методом.
// POST /api/v1/checkout/transactions
func (h *Handler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Method == "" {
		BadRequest(w, "method is required")
		return
	}

	// Processor собирается на каждый запрос: контактные данные
	// приходят в теле, слот результата общий для всех отправок.
	proc := checkout.NewProcessor(checkout.ProcessorConfig{
		Client: h.wpcom,
		Data: &checkout.StaticData{
			Contact: checkout.ContactInfo{
				CountryCode: req.Contact.CountryCode,
				PostalCode:  req.Contact.PostalCode,
				State:       req.Contact.State,
			},
			Site:   req.SiteID,
			Domain: req.DomainDetails,
		},
		Slot:      h.slot,
		Tokenizer: h.tokenizer,
		Logger:    h.logger,
	})

	result, err := proc.Submit(r.Context(), SubmitRequestFromTransaction(&req))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownPaymentMethod),
			errors.Is(err, checkout.ErrUnknownPaymentPartner):
			BadRequest(w, err.Error())
		case errors.Is(err, checkout.ErrNotImplemented):
			InvalidState(w, err.Error())
		default:
			InternalError(w, h.logger, err)
		}
		return
	}

	Success(w, TransactionResponse{Result: result})
}

// LatestTransaction возвращает результат последней успешной отправки.
// GET /api/v1/checkout/transactions/latest
func (h *Handler) LatestTransaction(w http.ResponseWriter, r *http.Request) {
	result, ok := h.slot.Latest()
	if !ok {
		NotFound(w, "no committed transaction result")
		return
	}

	Success(w, TransactionResponse{Result: result})
}

// ClearTransaction очищает слот результата.
// DELETE /api/v1/checkout/transactions/latest
func (h *Handler) ClearTransaction(w http.ResponseWriter, r *http.Request) {
	h.slot.Clear()
	NoContent(w)
}
