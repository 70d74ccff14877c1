/**
 * @description
 * This file contains the HTTP handlers for payment method and payment method
 * type administration.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

// CreatePaymentMethodHandler registers a payment method under a dealer.
func (h *DepositHandlers) CreatePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreatePaymentMethodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.TotalLimit <= 0 || payload.PaymentMinLimit < 0 || payload.PaymentMaxLimit < payload.PaymentMinLimit {
		h.writeError(w, http.StatusBadRequest, "Invalid limit configuration")
		return
	}

	method, err := h.service.CreatePaymentMethod(r.Context(), payload)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=create_payment_method err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusCreated, "Payment method created.", method)
}

// GetPaymentMethodHandler retrieves one payment method by id.
func (h *DepositHandlers) GetPaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment method id")
		return
	}

	method, err := h.service.GetPaymentMethod(r.Context(), id)
	if err != nil {
		status, message := mapServiceError(err)
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment method retrieved.", method)
}

// ListPaymentMethodsHandler pages through payment methods. Admins see all of
// them; an optional userId query parameter narrows to one owner.
func (h *DepositHandlers) ListPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r, h.defaultPageSize)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ownerID *uuid.UUID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid userId")
			return
		}
		ownerID = &parsed
	}

	page, err := h.service.ListPaymentMethods(r.Context(), ownerID, opts)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=list_payment_methods err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment methods retrieved.", page)
}

// UpdatePaymentMethodHandler merges the payload into a stored payment method.
func (h *DepositHandlers) UpdatePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment method id")
		return
	}

	var payload domain.UpdatePaymentMethodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method, err := h.service.UpdatePaymentMethod(r.Context(), id, payload)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=update_payment_method payment_method_id=%s err=%v", id, err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment method updated.", method)
}

// DeletePaymentMethodHandler removes a payment method.
func (h *DepositHandlers) DeletePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment method id")
		return
	}

	if err := h.service.DeletePaymentMethod(r.Context(), id); err != nil {
		status, message := mapServiceError(err)
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment method deleted.", nil)
}

// CreatePaymentMethodTypeHandler registers a payment method type.
func (h *DepositHandlers) CreatePaymentMethodTypeHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreatePaymentMethodTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" {
		h.writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	methodType, err := h.service.CreatePaymentMethodType(r.Context(), payload)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=create_payment_method_type err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusCreated, "Payment method type created.", methodType)
}

// ListPaymentMethodTypesHandler pages through payment method types.
func (h *DepositHandlers) ListPaymentMethodTypesHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r, h.defaultPageSize)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.ListPaymentMethodTypes(r.Context(), opts)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=list_payment_method_types err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment method types retrieved.", page)
}

// DeletePaymentMethodTypeHandler removes a payment method type.
func (h *DepositHandlers) DeletePaymentMethodTypeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment method type id")
		return
	}

	if err := h.service.DeletePaymentMethodType(r.Context(), id); err != nil {
		status, message := mapServiceError(err)
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment method type deleted.", nil)
}
