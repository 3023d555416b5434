package storage

import (
	"time"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// SavedPosition is the archive header for one exported work order. The item
// payloads live in saved_position_items.
type SavedPosition struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Service          string    `json:"service"`
	PositionNumber   int       `json:"position_number"`
	TotalPrice       float64   `json:"total_price"`
	TotalIncome      float64   `json:"total_income"`
	TotalExpense     float64   `json:"total_expense"`
	ItemsCount       int       `json:"items_count"`
	ExportDate       time.Time `json:"export_date"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	DocumentName     string    `json:"document_name,omitempty"`
	UpdStatus        string    `json:"upd_status,omitempty"`
	URL              string    `json:"url,omitempty"`
}

// SavedPositionItem is one archived repair item. The full item is stored as
// JSON; position name and income/expense type are lifted into columns for
// querying.
type SavedPositionItem struct {
	ID                string            `json:"id"`
	CreatedAt         time.Time         `json:"created_at"`
	PositionID        string            `json:"position_id"`
	PositionName      string            `json:"position_name"`
	IncomeExpenseType string            `json:"income_expense_type"`
	ItemData          repair.RepairItem `json:"item_data"`
	ItemJSON          string            `json:"-"` // For DB storage
}

// Template is a reusable board snapshot header.
type Template struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// TemplateItem is one item of a template. OriginalPositionID and
// OriginalServiceName record which position the item came from so that
// loading the template reconstructs the same position boundaries; items
// saved without them fall back to singleton positions on load.
type TemplateItem struct {
	ID                  string            `json:"id"`
	CreatedAt           time.Time         `json:"created_at"`
	TemplateID          string            `json:"template_id"`
	ItemData            repair.RepairItem `json:"item_data"`
	OriginalPositionID  string            `json:"original_position_id,omitempty"`
	OriginalServiceName string            `json:"original_service_name,omitempty"`
	ItemJSON            string            `json:"-"` // For DB storage
}

// Counterparty is a customer or vendor identity, used as a pass-through tag
// on saved positions. INN is the natural key for import deduplication, name
// the fallback for counterparties without one.
type Counterparty struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	INN           string    `json:"inn,omitempty"`
	KPP           string    `json:"kpp,omitempty"`
	Address       string    `json:"address,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdDocument is a billing document reference. Document name is the natural
// key for import deduplication.
type UpdDocument struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	DocumentName     string    `json:"document_name"`
	DocumentDate     string    `json:"document_date,omitempty"`
	Status           string    `json:"status,omitempty"`
	IsActive         bool      `json:"is_active"`
}
