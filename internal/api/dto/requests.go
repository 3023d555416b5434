// Package dto defines the request and response shapes of the HTTP API.
// Domain types with stable JSON tags (items, positions, groups) are embedded
// directly; everything else gets an explicit struct here.
package dto

import (
	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/grouping"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

// GroupRequest operations carry the group exactly as the client displays it;
// the board resolves the grouped ids against live state.
type GroupRequest struct {
	Group grouping.Group `json:"group"`
}

// MoveRequest moves a display group between collections. Empty
// FromPositionID means the pool.
type MoveRequest struct {
	Group            grouping.Group `json:"group"`
	FromPositionID   string         `json:"fromPositionId,omitempty"`
	TargetPositionID string         `json:"targetPositionId"`
}

// ReturnToPoolRequest sends the listed items back to the pool.
type ReturnToPoolRequest struct {
	ItemIDs []string `json:"itemIds"`
}

// ResizeRequest changes how many items a display group spans.
type ResizeRequest struct {
	Group    grouping.Group `json:"group"`
	NewCount int            `json:"newCount"`
}

// SetServiceRequest renames a position's service label.
type SetServiceRequest struct {
	Service string `json:"service"`
}

// EditPriceRequest re-prices a single item.
type EditPriceRequest struct {
	Revenue float64 `json:"revenue"`
}

// EditHoursRequest changes the hour count of a labor card.
type EditHoursRequest struct {
	Hours float64 `json:"hours"`
}

// SubstituteBearingRequest swaps a group's identity to a bearing replacement.
type SubstituteBearingRequest struct {
	Group   grouping.Group  `json:"group"`
	Bearing catalog.Bearing `json:"bearing"`
}

// SubstituteMotorRequest swaps a group's identity to a motor repair.
type SubstituteMotorRequest struct {
	Group grouping.Group `json:"group"`
	Motor catalog.Motor  `json:"motor"`
}

// SubstituteWireRequest swaps a group's identity to winding wire. Length
// replaces the group's quantity.
type SubstituteWireRequest struct {
	Group  grouping.Group `json:"group"`
	Wire   catalog.Wire   `json:"wire"`
	Length float64        `json:"length"`
}

// SubstituteEmployeeRequest swaps a group's identity to an individual's
// labor. Hours replace the group's quantity.
type SubstituteEmployeeRequest struct {
	Group    grouping.Group             `json:"group"`
	Employee catalog.IndividualEmployee `json:"employee"`
	Hours    float64                    `json:"hours"`
}

// ManualItemRequest creates a hand-entered item. Empty PositionID targets
// the pool.
type ManualItemRequest struct {
	PositionID  string                   `json:"positionId,omitempty"`
	Name        string                   `json:"name"`
	Price       float64                  `json:"price"`
	Quantity    float64                  `json:"quantity"`
	Type        repair.IncomeExpenseType `json:"type"`
	Description string                   `json:"description,omitempty"`
	WorkType    string                   `json:"workType,omitempty"`
}

// CatalogItemRequest creates a pool item from a catalog entity. Quantity is
// pieces for bearings and motors, meters for wire, hours for labor.
type CatalogItemRequest struct {
	Bearing  *catalog.Bearing            `json:"bearing,omitempty"`
	Motor    *catalog.Motor              `json:"motor,omitempty"`
	Wire     *catalog.Wire               `json:"wire,omitempty"`
	Employee *catalog.IndividualEmployee `json:"employee,omitempty"`
	Quantity float64                     `json:"quantity"`
}

// SaveTemplateRequest snapshots the board under a name.
type SaveTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LoadArchiveRequest loads saved positions back onto the board. Confirm
// acknowledges discarding positions still on the board.
type LoadArchiveRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm,omitempty"`
}

// LoadGroupRequest loads every position saved under a document.
type LoadGroupRequest struct {
	DocumentName string `json:"documentName"`
	Confirm      bool   `json:"confirm,omitempty"`
}

// SelectCounterpartyRequest sets or clears the counterparty tag.
type SelectCounterpartyRequest struct {
	Counterparty *storage.Counterparty `json:"counterparty"`
}

// SelectDocumentRequest sets the UPD document tag: a full register entry, a
// manually typed name, or neither to clear.
type SelectDocumentRequest struct {
	Document     *storage.UpdDocument `json:"document,omitempty"`
	DocumentName string               `json:"documentName,omitempty"`
}
