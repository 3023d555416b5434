package handlers

import (
	"net/http"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
	"github.com/remcenter/repairdesk-backend/internal/importer"
)

// ReferencesHandler serves counterparties, billing documents, the current
// workspace selection and the billing line import.
type ReferencesHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewReferencesHandler creates a references handler.
func NewReferencesHandler(svc *service.WorkspaceService) *ReferencesHandler {
	return &ReferencesHandler{Base: NewBase(svc), svc: svc}
}

// ListCounterparties returns active counterparties ordered by name.
func (h *ReferencesHandler) ListCounterparties(w http.ResponseWriter, r *http.Request) {
	counterparties, err := h.svc.Repo().ListCounterparties()
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, counterparties)
}

// ImportCounterparties bulk-imports counterparties from a workbook. Rows
// whose INN or name is already known are skipped.
func (h *ReferencesHandler) ImportCounterparties(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	counterparties, err := importer.ImportCounterparties(file, h.svc.Logger())
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	inserted, err := h.svc.Repo().CreateCounterparties(counterparties)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: inserted})
}

// ListDocuments returns active billing documents, optionally filtered by
// the counterparty query parameter.
func (h *ReferencesHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.svc.Repo().ListUpdDocuments(r.URL.Query().Get("counterparty"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, documents)
}

// ImportDocuments bulk-imports billing documents from a workbook.
func (h *ReferencesHandler) ImportDocuments(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	documents, err := importer.ImportUpdDocuments(file, h.svc.Logger())
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	inserted, err := h.svc.Repo().CreateUpdDocuments(documents)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: inserted})
}

// GetSelection returns the current counterparty and document selection.
func (h *ReferencesHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, dto.SelectionResponse{
		Counterparty: h.svc.SelectedCounterparty(),
		Document:     h.svc.SelectedDocument(),
	})
}

// SelectCounterparty sets or clears the counterparty selection.
func (h *ReferencesHandler) SelectCounterparty(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectCounterpartyRequest
	if !h.Decode(w, r, &req) {
		return
	}
	h.svc.SelectCounterparty(req.Counterparty)
	h.GetSelection(w, r)
}

// SelectDocument sets or clears the document selection. A bare document
// name creates a provisional selection without a catalog entry.
func (h *ReferencesHandler) SelectDocument(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectDocumentRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Document != nil {
		h.svc.SelectDocument(req.Document)
	} else {
		h.svc.SetDocumentName(req.DocumentName)
	}
	h.GetSelection(w, r)
}

// ImportItems loads billing lines from a workbook into the pool.
func (h *ReferencesHandler) ImportItems(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	imported, err := h.svc.ImportItems(file)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: imported})
}
