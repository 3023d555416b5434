// Package handlers contains the HTTP handlers. Each handler is thin: decode
// the request, call the workspace service or the board, encode the result or
// map the domain error to a status code.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
	"github.com/remcenter/repairdesk-backend/internal/domain/allocation"
	"github.com/remcenter/repairdesk-backend/internal/importer"
	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

// Base provides shared functionality for all handlers.
type Base struct {
	svc *service.WorkspaceService
}

// NewBase creates a new base handler around the workspace service.
func NewBase(svc *service.WorkspaceService) *Base {
	return &Base{svc: svc}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// Decode parses the JSON body into dst, writing a validation error response
// on failure.
func (b *Base) Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// WriteDomainError maps domain and storage errors onto HTTP statuses.
func (b *Base) WriteDomainError(w http.ResponseWriter, err error) {
	var insufficient *allocation.InsufficientItemsError
	var missingCols *importer.MissingColumnsError

	switch {
	case errors.As(err, &insufficient):
		b.WriteError(w, http.StatusConflict,
			dto.InsufficientItemsError(insufficient.Error(), insufficient.Available))
	case errors.As(err, &missingCols):
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError(missingCols.Error()))
	case errors.Is(err, allocation.ErrPositionNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("position"))
	case errors.Is(err, allocation.ErrItemNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("item"))
	case errors.Is(err, storage.ErrNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("record"))
	case errors.Is(err, allocation.ErrEmptyGroup),
		errors.Is(err, importer.ErrNoRecords),
		errors.Is(err, service.ErrNoCounterparty),
		errors.Is(err, service.ErrNoDocument),
		errors.Is(err, service.ErrNothingToSave):
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
	case errors.Is(err, storage.ErrDuplicateName),
		errors.Is(err, allocation.ErrDuplicateWorkType),
		errors.Is(err, allocation.ErrBoardNotEmpty):
		b.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
	default:
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
