/**
 * @description
 * This file contains the HTTP handlers for the deposit endpoints: the scoped
 * listing with its status summary, single-record retrieval, creation, update,
 * deletion, and the two funding-account lookups.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

// ListDepositsHandler handles the scoped, paginated deposit listing.
func (h *DepositHandlers) ListDepositsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipal(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	query, err := parseDepositQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := parseListOptions(r, h.defaultPageSize)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.ListDeposits(r.Context(), principal, query, opts)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=list_deposits err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Deposits retrieved.", result)
}

// GetDepositHandler retrieves a single deposit by id.
func (h *DepositHandlers) GetDepositHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid deposit id")
		return
	}

	deposit, err := h.service.GetDeposit(r.Context(), id)
	if err != nil {
		status, message := mapServiceError(err)
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Deposit retrieved.", deposit)
}

// CreateDepositHandler records a new deposit.
func (h *DepositHandlers) CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	deposit, err := h.service.CreateDeposit(r.Context(), req)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=create_deposit err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusCreated, "Deposit created.", deposit)
}

// UpdateDepositHandler merges the payload into a stored deposit. The caller
// processing the record is stamped from the authenticated principal when the
// payload does not name one.
func (h *DepositHandlers) UpdateDepositHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid deposit id")
		return
	}

	var payload domain.UpdateDepositPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Amount != nil && *payload.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	if payload.ProcessedBy == nil && payload.Status != nil {
		if principal, ok := GetPrincipal(r.Context()); ok && principal.UserDetail != nil {
			processedBy := principal.UserDetail.ID
			payload.ProcessedBy = &processedBy
		}
	}

	deposit, err := h.service.UpdateDeposit(r.Context(), id, payload)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=update_deposit deposit_id=%s err=%v", id, err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Deposit updated.", deposit)
}

// DeleteDepositHandler removes a deposit.
func (h *DepositHandlers) DeleteDepositHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid deposit id")
		return
	}

	if err := h.service.DeleteDeposit(r.Context(), id); err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=delete_deposit deposit_id=%s err=%v", id, err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Deposit deleted.", nil)
}

// GetPaymentAccountHandler selects the funding account for an incoming
// deposit. Expects amount and typeId query parameters.
func (h *DepositHandlers) GetPaymentAccountHandler(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	typeID, err := uuid.Parse(r.URL.Query().Get("typeId"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid typeId")
		return
	}

	account, err := h.service.GetPaymentAccount(r.Context(), amount, typeID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=payment_account err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Payment account selected.", account)
}

// GetDealerWithdrawalAccountHandler picks the dealer account a withdrawal
// pays out from.
func (h *DepositHandlers) GetDealerWithdrawalAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetDealerWithdrawalAccount(r.Context())
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=dealer_withdrawal_account err=%v", err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Withdrawal account selected.", account)
}
