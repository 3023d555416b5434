package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
	"github.com/remcenter/repairdesk-backend/internal/domain/allocation"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// ItemsHandler serves item-level mutations: price and hour edits, catalog
// substitutions and new-item entry points.
type ItemsHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewItemsHandler creates an items handler.
func NewItemsHandler(svc *service.WorkspaceService) *ItemsHandler {
	return &ItemsHandler{Base: NewBase(svc), svc: svc}
}

// EditPrice re-prices one item, preserving its VAT ratio.
func (h *ItemsHandler) EditPrice(w http.ResponseWriter, r *http.Request) {
	var req dto.EditPriceRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positionID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if err := h.svc.Board().EditPrice(positionID, itemID, req.Revenue); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// EditHours changes the hour count of a labor card, keeping its rate.
func (h *ItemsHandler) EditHours(w http.ResponseWriter, r *http.Request) {
	var req dto.EditHoursRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positionID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if err := h.svc.Board().EditLaborHours(positionID, itemID, req.Hours); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// SubstituteBearing rewrites a group as a bearing replacement.
func (h *ItemsHandler) SubstituteBearing(w http.ResponseWriter, r *http.Request) {
	var req dto.SubstituteBearingRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positionID := chi.URLParam(r, "id")
	if err := h.svc.Board().SubstituteBearing(positionID, req.Group, req.Bearing); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// SubstituteMotor rewrites a group as a motor repair.
func (h *ItemsHandler) SubstituteMotor(w http.ResponseWriter, r *http.Request) {
	var req dto.SubstituteMotorRequest
	if !h.Decode(w, r, &req) {
		return
	}
	positionID := chi.URLParam(r, "id")
	if err := h.svc.Board().SubstituteMotor(positionID, req.Group, req.Motor); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// SubstituteWire rewrites a group as winding wire of a given length.
func (h *ItemsHandler) SubstituteWire(w http.ResponseWriter, r *http.Request) {
	var req dto.SubstituteWireRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Length <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("length must be positive"))
		return
	}
	positionID := chi.URLParam(r, "id")
	if err := h.svc.Board().SubstituteWire(positionID, req.Group, req.Wire, req.Length); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// SubstituteEmployee rewrites a group as an individual's labor.
func (h *ItemsHandler) SubstituteEmployee(w http.ResponseWriter, r *http.Request) {
	var req dto.SubstituteEmployeeRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Hours <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("hours must be positive"))
		return
	}
	positionID := chi.URLParam(r, "id")
	if err := h.svc.Board().SubstituteEmployee(positionID, req.Group, req.Employee, req.Hours); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.writePosition(w, positionID)
}

// CreateManual creates a hand-entered item in a position or, with no
// position id, in the pool. The selected document is stamped on the item.
func (h *ItemsHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualItemRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}
	if !req.Type.Valid() {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("type must be one of Доходы, Расходы"))
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	input := allocation.ManualItemInput{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Type:        req.Type,
		Description: req.Description,
		WorkType:    req.WorkType,
		Document:    h.svc.DocumentName(),
	}

	var (
		item repair.RepairItem
		err  error
	)
	if req.PositionID == "" {
		item = h.svc.Board().AddManualItemToPool(input)
	} else {
		item, err = h.svc.Board().AddManualItem(req.PositionID, input)
	}
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.ItemResponse{Item: item})
}

// CreateFromCatalog creates a pool item from exactly one catalog entity.
func (h *ItemsHandler) CreateFromCatalog(w http.ResponseWriter, r *http.Request) {
	var req dto.CatalogItemRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("quantity must be positive"))
		return
	}

	document := h.svc.DocumentName()
	board := h.svc.Board()

	var item repair.RepairItem
	switch {
	case req.Bearing != nil:
		item = board.AddBearingItem(*req.Bearing, req.Quantity, document)
	case req.Motor != nil:
		item = board.AddMotorItem(*req.Motor, req.Quantity, document)
	case req.Wire != nil:
		item = board.AddWireItem(*req.Wire, req.Quantity, document)
	case req.Employee != nil:
		item = board.AddEmployeeItem(*req.Employee, req.Quantity, document)
	default:
		h.WriteError(w, http.StatusBadRequest,
			dto.ValidationError("one of bearing, motor, wire, employee is required"))
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.ItemResponse{Item: item})
}

func (h *ItemsHandler) writePosition(w http.ResponseWriter, positionID string) {
	pos, err := h.svc.Board().Position(positionID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.PositionResponse{Position: pos})
}
