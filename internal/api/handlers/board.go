package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
)

// BoardHandler serves workspace state and the allocation operations.
type BoardHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewBoardHandler creates a board handler.
func NewBoardHandler(svc *service.WorkspaceService) *BoardHandler {
	return &BoardHandler{Base: NewBase(svc), svc: svc}
}

// Get returns the full workspace state.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board := h.svc.Board()
	h.WriteJSON(w, http.StatusOK, dto.BoardResponse{
		Positions:    board.Positions(),
		Pool:         board.Pool(),
		PoolGroups:   board.GroupedPool(),
		Counterparty: h.svc.SelectedCounterparty(),
		Document:     h.svc.SelectedDocument(),
	})
}

// Summary returns the header rollup.
func (h *BoardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.svc.Board().Summarize())
}

// Clear wipes the board and the selections.
func (h *BoardHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearAll()
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "workspace cleared"})
}

// CreatePosition adds an empty position.
func (h *BoardHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	pos := h.svc.Board().CreatePosition()
	h.WriteJSON(w, http.StatusCreated, dto.PositionResponse{Position: pos})
}

// CreateFromGroup fans a pool group out into one position per item.
func (h *BoardHandler) CreateFromGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.GroupRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positions, err := h.svc.Board().CreatePositionsFromGroup(req.Group)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.PositionsResponse{Positions: positions})
}

// CreateCombined pulls every item sharing the group's base name into one
// position.
func (h *BoardHandler) CreateCombined(w http.ResponseWriter, r *http.Request) {
	var req dto.GroupRequest
	if !h.Decode(w, r, &req) {
		return
	}
	pos, err := h.svc.Board().CreateCombinedPositionFromGroup(req.Group)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.PositionResponse{Position: pos})
}

// Move transfers a display group between the pool and positions.
func (h *BoardHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.TargetPositionID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("targetPositionId is required"))
		return
	}
	if err := h.svc.Board().MoveToPosition(req.Group, req.FromPositionID, req.TargetPositionID); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.Get(w, r)
}

// ReturnToPool sends items from a position back to the pool.
func (h *BoardHandler) ReturnToPool(w http.ResponseWriter, r *http.Request) {
	var req dto.ReturnToPoolRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positionID := chi.URLParam(r, "id")
	if err := h.svc.Board().ReturnToPool(positionID, req.ItemIDs); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.Get(w, r)
}

// Delete removes a position, returning its items to the pool.
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Board().DeletePosition(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.Get(w, r)
}

// Clone duplicates a position right after its source.
func (h *BoardHandler) Clone(w http.ResponseWriter, r *http.Request) {
	pos, err := h.svc.Board().ClonePosition(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.PositionResponse{Position: pos})
}

// Resize grows or shrinks how many items a group spans inside a position.
func (h *BoardHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req dto.ResizeRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.NewCount < 1 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("newCount must be at least 1"))
		return
	}
	if err := h.svc.Board().ResizeGroupQuantity(chi.URLParam(r, "id"), req.Group, req.NewCount); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.Get(w, r)
}

// SetService renames a position's service label.
func (h *BoardHandler) SetService(w http.ResponseWriter, r *http.Request) {
	var req dto.SetServiceRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if err := h.svc.Board().SetService(chi.URLParam(r, "id"), req.Service); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.Get(w, r)
}
