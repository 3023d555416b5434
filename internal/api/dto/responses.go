package dto

import (
	"github.com/remcenter/repairdesk-backend/internal/domain/allocation"
	"github.com/remcenter/repairdesk-backend/internal/domain/grouping"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

// BoardResponse is the full workspace state.
type BoardResponse struct {
	Positions    []allocation.Position `json:"positions"`
	Pool         []repair.RepairItem   `json:"pool"`
	PoolGroups   []grouping.Group      `json:"poolGroups"`
	Counterparty *storage.Counterparty `json:"counterparty,omitempty"`
	Document     *storage.UpdDocument  `json:"document,omitempty"`
}

// PositionResponse wraps a single position.
type PositionResponse struct {
	Position allocation.Position `json:"position"`
}

// PositionsResponse wraps a position list.
type PositionsResponse struct {
	Positions []allocation.Position `json:"positions"`
}

// ItemResponse wraps a single created or mutated item.
type ItemResponse struct {
	Item repair.RepairItem `json:"item"`
}

// ImportResponse reports how many records an upload yielded.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// SavedPositionResponse is one archive entry with its items.
type SavedPositionResponse struct {
	Position storage.SavedPosition `json:"position"`
	Items    []repair.RepairItem   `json:"items"`
}

// SelectionResponse is the workspace counterparty/document state.
type SelectionResponse struct {
	Counterparty *storage.Counterparty `json:"counterparty"`
	Document     *storage.UpdDocument  `json:"document"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
