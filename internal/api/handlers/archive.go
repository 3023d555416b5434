package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
)

// ArchiveHandler serves save-to-archive and load-for-editing flows.
type ArchiveHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewArchiveHandler creates an archive handler.
func NewArchiveHandler(svc *service.WorkspaceService) *ArchiveHandler {
	return &ArchiveHandler{Base: NewBase(svc), svc: svc}
}

// SaveAll archives every position under the selected counterparty and
// document. Partial failures come back as 207 with the per-position list.
func (h *ArchiveHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SaveAll()
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	status := http.StatusOK
	if len(result.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	h.WriteJSON(w, status, result)
}

// List returns the archive headers, newest export first.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.ListSavedPositions()
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, positions)
}

// Get returns one archive entry with its items. This also backs the shared
// QR view.
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	header, items, err := h.svc.GetSavedPosition(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.SavedPositionResponse{Position: *header, Items: items})
}

// Delete removes an archive entry.
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSavedPosition(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "position deleted"})
}

// Load replaces the board with the listed archive entries.
func (h *ArchiveHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadArchiveRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("ids is required"))
		return
	}
	if err := h.svc.LoadSavedPositions(req.IDs, req.Confirm); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "positions loaded"})
}

// LoadGroup replaces the board with everything saved under a document.
func (h *ArchiveHandler) LoadGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadGroupRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.DocumentName == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("documentName is required"))
		return
	}
	if err := h.svc.LoadSavedGroup(req.DocumentName, req.Confirm); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "positions loaded"})
}
