/**
 * @description
 * This file contains the HTTP handlers for the polymorphic account endpoints.
 * Callers address accounts by id plus a numeric model code selecting the
 * institution, personal, or institution-user collection.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/paydesk/deposit-service/internal/domain"
)

// parseAccountModel decodes the model query parameter shared by the account
// endpoints.
func parseAccountModel(r *http.Request) (domain.AccountModel, bool) {
	code, err := strconv.Atoi(r.URL.Query().Get("model"))
	if err != nil {
		return 0, false
	}
	model := domain.AccountModel(code)
	return model, model.Valid()
}

// GetAccountHandler retrieves one account from the addressed collection.
func (h *DepositHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	model, ok := parseAccountModel(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid account model")
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	account, err := h.service.GetAccount(r.Context(), model, id)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=get_account model=%d account_id=%s err=%v", model, id, err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Account retrieved.", account)
}

// UpdateAccountHandler merges the payload into the addressed account.
func (h *DepositHandlers) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	model, ok := parseAccountModel(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid account model")
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	var payload domain.UpdateAccountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), model, id, payload)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=update_account model=%d account_id=%s err=%v", model, id, err)
		}
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Account updated.", account)
}

// DeleteAccountHandler removes the addressed account.
func (h *DepositHandlers) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	model, ok := parseAccountModel(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid account model")
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), model, id); err != nil {
		status, message := mapServiceError(err)
		h.writeError(w, status, message)
		return
	}

	h.writeJSON(w, http.StatusOK, "Account deleted.", nil)
}
