/**
 * @description
 * This file contains the shared plumbing for the deposit-service's HTTP
 * handlers: the response envelope every endpoint wraps its payload in, the
 * error-to-status mapping, and the query parameter parsers.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/app"
	"github.com/paydesk/deposit-service/internal/domain"
	"github.com/paydesk/deposit-service/internal/store"
)

// DepositHandlers holds the application service that handlers will use.
type DepositHandlers struct {
	service         *app.Service
	defaultPageSize int
}

// NewDepositHandlers creates a new instance of DepositHandlers.
func NewDepositHandlers(service *app.Service, defaultPageSize int) *DepositHandlers {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &DepositHandlers{service: service, defaultPageSize: defaultPageSize}
}

// envelope is the uniform response body: a numeric code mirroring the HTTP
// status, a human-readable message, and the payload.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON is a helper for writing enveloped JSON responses.
func (h *DepositHandlers) writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Code: status, Message: message, Data: data})
}

// writeError is a helper for writing enveloped JSON error responses.
func (h *DepositHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, message, nil)
}

// mapServiceError translates service and store errors into HTTP status codes
// with client-safe messages.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrScopeUnresolved):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, store.ErrDepositNotFound):
		return http.StatusNotFound, "Deposit not found."
	case errors.Is(err, store.ErrPaymentMethodNotFound):
		return http.StatusNotFound, "No suitable payment method found."
	case errors.Is(err, store.ErrPaymentMethodTypeNotFound):
		return http.StatusNotFound, "Payment method type not found."
	case errors.Is(err, store.ErrPaymentMethodLimitExceeded):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, store.ErrNoWithdrawalDealerAvailable):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, store.ErrDealerNotFound):
		return http.StatusNotFound, "Dealer not found."
	case errors.Is(err, store.ErrInstitutionNotFound):
		return http.StatusNotFound, "Institution not found."
	case errors.Is(err, store.ErrPersonalNotFound):
		return http.StatusNotFound, "Personal account not found."
	case errors.Is(err, store.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found."
	case errors.Is(err, store.ErrUnknownAccountModel):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Could not process request."
}

// parseUUIDParam extracts and parses a UUID URL parameter.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// parseListOptions decodes the shared pagination and sorting query parameters.
// sortBy is "field:direction"; the default sort is createdAt:desc.
func parseListOptions(r *http.Request, defaultLimit int) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		Limit:     defaultLimit,
		Page:      1,
		SortField: "createdAt",
		SortDesc:  true,
	}
	query := r.URL.Query()

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = limit
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return opts, errors.New("invalid page")
		}
		opts.Page = page
	}
	if raw := query.Get("sortBy"); raw != "" {
		field, direction, _ := strings.Cut(raw, ":")
		switch strings.ToLower(direction) {
		case "", "desc":
			opts.SortDesc = true
		case "asc":
			opts.SortDesc = false
		default:
			return opts, errors.New("invalid sortBy direction")
		}
		opts.SortField = field
	}
	return opts, nil
}

// parseDepositQuery decodes the caller-supplied listing criteria.
func parseDepositQuery(r *http.Request) (app.DepositQuery, error) {
	var dq app.DepositQuery
	query := r.URL.Query()

	if raw := query.Get("senderId"); raw != "" {
		senderID, err := uuid.Parse(raw)
		if err != nil {
			return dq, errors.New("invalid senderId")
		}
		dq.SenderID = &senderID
	}
	// The receiver of a deposit is the servicing dealer.
	if raw := query.Get("receiverId"); raw != "" {
		receiverID, err := uuid.Parse(raw)
		if err != nil {
			return dq, errors.New("invalid receiverId")
		}
		dq.ServiceProviderID = &receiverID
	}
	if raw := query.Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return dq, errors.New("invalid status")
		}
		status := domain.DepositStatus(code)
		dq.Status = &status
	}
	if raw := query.Get("transactionType"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return dq, errors.New("invalid transactionType")
		}
		transactionType := domain.TransactionType(code)
		dq.TransactionType = &transactionType
	}
	if raw := query.Get("typeId"); raw != "" {
		typeID, err := uuid.Parse(raw)
		if err != nil {
			return dq, errors.New("invalid typeId")
		}
		dq.TypeID = &typeID
	}
	dq.SearchTerm = query.Get("searchTerm")

	if raw := query.Get("minDate"); raw != "" {
		minDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return dq, errors.New("invalid minDate")
		}
		dq.MinDate = &minDate
	}
	if raw := query.Get("maxDate"); raw != "" {
		maxDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return dq, errors.New("invalid maxDate")
		}
		dq.MaxDate = &maxDate
	}
	return dq, nil
}
