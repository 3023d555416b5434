package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
)

// TemplatesHandler serves board template save, list, load and delete.
type TemplatesHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewTemplatesHandler creates a templates handler.
func NewTemplatesHandler(svc *service.WorkspaceService) *TemplatesHandler {
	return &TemplatesHandler{Base: NewBase(svc), svc: svc}
}

// List returns the stored templates, newest first.
func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates()
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, templates)
}

// Save snapshots the current board under a unique name.
func (h *TemplatesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveTemplateRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}
	if err := h.svc.SaveTemplate(req.Name, req.Description); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.MessageResponse{Message: "template saved"})
}

// Load replaces the board with a template's positions. Board positions not
// yet saved are only discarded with ?confirm=true.
func (h *TemplatesHandler) Load(w http.ResponseWriter, r *http.Request) {
	confirm := r.URL.Query().Get("confirm") == "true"
	if err := h.svc.LoadTemplate(chi.URLParam(r, "id"), confirm); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "template loaded"})
}

// Delete removes a template.
func (h *TemplatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTemplate(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "template deleted"})
}
