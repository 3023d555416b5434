package storage

import (
	"errors"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

var (
	// ErrNotFound is returned when a lookup by id matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName is returned when saving a template whose name is
	// already taken.
	ErrDuplicateName = errors.New("name already exists")
)

// Repository defines the complete storage interface. This allows swapping
// implementations (SQLite, PostgreSQL, ...) and makes testing with mocks
// straightforward.
type Repository interface {
	ArchiveRepository
	TemplateRepository
	CatalogRepository
	ReferenceRepository
	Close() error
}

// ArchiveRepository persists exported positions.
type ArchiveRepository interface {
	// SavePosition writes the position header and all its items as one
	// all-or-nothing unit. The caller assigns pos.ID and pos.URL up front.
	SavePosition(pos *SavedPosition, items []repair.RepairItem) error

	// ListSavedPositions returns archive headers, newest export first.
	ListSavedPositions() ([]SavedPosition, error)

	// GetSavedPosition retrieves one header by id (ErrNotFound when absent).
	GetSavedPosition(id string) (*SavedPosition, error)

	// GetSavedPositionItems returns the archived items of a position.
	GetSavedPositionItems(positionID string) ([]SavedPositionItem, error)

	// ListSavedPositionsByDocument returns headers saved under a document,
	// ordered by position number.
	ListSavedPositionsByDocument(documentName string) ([]SavedPosition, error)

	// DeleteSavedPosition removes the header and its items.
	DeleteSavedPosition(id string) error
}

// TemplateRepository persists reusable board snapshots.
type TemplateRepository interface {
	// SaveTemplate writes the template and its items atomically.
	// Returns ErrDuplicateName when the name is taken.
	SaveTemplate(tmpl *Template, items []TemplateItem) error

	// ListTemplates returns templates, newest first.
	ListTemplates() ([]Template, error)

	// GetTemplateItems returns the items of a template.
	GetTemplateItems(templateID string) ([]TemplateItem, error)

	// DeleteTemplate removes the template and its items.
	DeleteTemplate(id string) error
}

// CatalogRepository persists the substitution catalogs. The bulk Create
// variants deduplicate against existing records by the entity's natural key
// (designation / name / brand+cross-section) and return how many rows were
// actually inserted; import deduplication is this layer's responsibility,
// not the allocation core's.
type CatalogRepository interface {
	ListBearings(onlyActive bool) ([]catalog.Bearing, error)
	CreateBearing(b *catalog.Bearing) error
	CreateBearings(bearings []catalog.Bearing) (int, error)

	ListMotors(onlyActive bool) ([]catalog.Motor, error)
	CreateMotor(m *catalog.Motor) error
	CreateMotors(motors []catalog.Motor) (int, error)

	ListWires(onlyActive bool) ([]catalog.Wire, error)
	CreateWire(w *catalog.Wire) error
	CreateWires(wires []catalog.Wire) (int, error)

	ListEmployees(onlyActive bool) ([]catalog.IndividualEmployee, error)
	CreateEmployee(e *catalog.IndividualEmployee) error
}

// ReferenceRepository persists counterparties and billing documents.
type ReferenceRepository interface {
	ListCounterparties() ([]Counterparty, error)
	CreateCounterparties(counterparties []Counterparty) (int, error)

	// ListUpdDocuments returns active documents, optionally filtered by
	// counterparty name.
	ListUpdDocuments(counterpartyName string) ([]UpdDocument, error)
	CreateUpdDocuments(documents []UpdDocument) (int, error)
}
