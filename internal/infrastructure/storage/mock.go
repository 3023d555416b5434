package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	positions     map[string]*SavedPosition
	positionItems map[string][]SavedPositionItem // Keyed by position id
	templates     map[string]*Template
	templateItems map[string][]TemplateItem // Keyed by template id
	bearings      []catalog.Bearing
	motors        []catalog.Motor
	wires         []catalog.Wire
	employees     []catalog.IndividualEmployee
	counterparts  []Counterparty
	documents     []UpdDocument

	// Hooks for test assertions
	SavePositionCalled bool
	LastSavedPosition  *SavedPosition
	LastSavedItems     []repair.RepairItem
	SaveTemplateCalled bool
	LastSavedTemplate  *Template
	DeletePositionIDs  []string

	// Error injection for testing error paths
	SavePositionErr error
	SaveTemplateErr error
	ListArchiveErr  error
	ListCatalogErr  error
	ListRefsErr     error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		positions:     make(map[string]*SavedPosition),
		positionItems: make(map[string][]SavedPositionItem),
		templates:     make(map[string]*Template),
		templateItems: make(map[string][]TemplateItem),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) SavePosition(pos *SavedPosition, items []repair.RepairItem) error {
	m.SavePositionCalled = true
	m.LastSavedPosition = pos
	m.LastSavedItems = items
	if m.SavePositionErr != nil {
		return m.SavePositionErr
	}

	copied := *pos
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	copied.ItemsCount = len(items)
	m.positions[pos.ID] = &copied

	stored := make([]SavedPositionItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, SavedPositionItem{
			ID:                uuid.New().String(),
			CreatedAt:         time.Now(),
			PositionID:        pos.ID,
			PositionName:      it.PositionName,
			IncomeExpenseType: string(it.IncomeExpenseType),
			ItemData:          it,
		})
	}
	m.positionItems[pos.ID] = stored
	return nil
}

func (m *MockRepository) ListSavedPositions() ([]SavedPosition, error) {
	if m.ListArchiveErr != nil {
		return nil, m.ListArchiveErr
	}
	out := make([]SavedPosition, 0, len(m.positions))
	for _, pos := range m.positions {
		out = append(out, *pos)
	}
	sortPositionsNewestFirst(out)
	return out, nil
}

func (m *MockRepository) GetSavedPosition(id string) (*SavedPosition, error) {
	pos, ok := m.positions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *pos
	return &copied, nil
}

func (m *MockRepository) GetSavedPositionItems(positionID string) ([]SavedPositionItem, error) {
	items := m.positionItems[positionID]
	out := make([]SavedPositionItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MockRepository) ListSavedPositionsByDocument(documentName string) ([]SavedPosition, error) {
	if m.ListArchiveErr != nil {
		return nil, m.ListArchiveErr
	}
	var out []SavedPosition
	for _, pos := range m.positions {
		if pos.DocumentName == documentName {
			out = append(out, *pos)
		}
	}
	sortPositionsByNumber(out)
	return out, nil
}

func (m *MockRepository) DeleteSavedPosition(id string) error {
	m.DeletePositionIDs = append(m.DeletePositionIDs, id)
	if _, ok := m.positions[id]; !ok {
		return ErrNotFound
	}
	delete(m.positions, id)
	delete(m.positionItems, id)
	return nil
}

func (m *MockRepository) SaveTemplate(tmpl *Template, items []TemplateItem) error {
	m.SaveTemplateCalled = true
	m.LastSavedTemplate = tmpl
	if m.SaveTemplateErr != nil {
		return m.SaveTemplateErr
	}
	for _, existing := range m.templates {
		if existing.Name == tmpl.Name {
			return ErrDuplicateName
		}
	}
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = time.Now()
	}
	copied := *tmpl
	m.templates[tmpl.ID] = &copied

	stored := make([]TemplateItem, 0, len(items))
	for _, it := range items {
		it.ID = uuid.New().String()
		it.TemplateID = tmpl.ID
		stored = append(stored, it)
	}
	m.templateItems[tmpl.ID] = stored
	return nil
}

func (m *MockRepository) ListTemplates() ([]Template, error) {
	out := make([]Template, 0, len(m.templates))
	for _, tmpl := range m.templates {
		out = append(out, *tmpl)
	}
	return out, nil
}

func (m *MockRepository) GetTemplateItems(templateID string) ([]TemplateItem, error) {
	items := m.templateItems[templateID]
	out := make([]TemplateItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MockRepository) DeleteTemplate(id string) error {
	if _, ok := m.templates[id]; !ok {
		return ErrNotFound
	}
	delete(m.templates, id)
	delete(m.templateItems, id)
	return nil
}

func (m *MockRepository) ListBearings(onlyActive bool) ([]catalog.Bearing, error) {
	if m.ListCatalogErr != nil {
		return nil, m.ListCatalogErr
	}
	var out []catalog.Bearing
	for _, b := range m.bearings {
		if onlyActive && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *MockRepository) CreateBearing(b *catalog.Bearing) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	m.bearings = append(m.bearings, *b)
	return nil
}

func (m *MockRepository) CreateBearings(bearings []catalog.Bearing) (int, error) {
	inserted := 0
	for _, b := range bearings {
		if m.hasBearing(b.Designation) {
			continue
		}
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		m.bearings = append(m.bearings, b)
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasBearing(designation string) bool {
	for _, b := range m.bearings {
		if b.Designation == designation {
			return true
		}
	}
	return false
}

func (m *MockRepository) ListMotors(onlyActive bool) ([]catalog.Motor, error) {
	if m.ListCatalogErr != nil {
		return nil, m.ListCatalogErr
	}
	var out []catalog.Motor
	for _, mo := range m.motors {
		if onlyActive && !mo.IsActive {
			continue
		}
		out = append(out, mo)
	}
	return out, nil
}

func (m *MockRepository) CreateMotor(mo *catalog.Motor) error {
	if mo.ID == "" {
		mo.ID = uuid.New().String()
	}
	m.motors = append(m.motors, *mo)
	return nil
}

func (m *MockRepository) CreateMotors(motors []catalog.Motor) (int, error) {
	inserted := 0
	for _, mo := range motors {
		if m.hasMotor(mo.Name) {
			continue
		}
		if mo.ID == "" {
			mo.ID = uuid.New().String()
		}
		m.motors = append(m.motors, mo)
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasMotor(name string) bool {
	for _, mo := range m.motors {
		if mo.Name == name {
			return true
		}
	}
	return false
}

func (m *MockRepository) ListWires(onlyActive bool) ([]catalog.Wire, error) {
	if m.ListCatalogErr != nil {
		return nil, m.ListCatalogErr
	}
	var out []catalog.Wire
	for _, w := range m.wires {
		if onlyActive && !w.IsActive {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (m *MockRepository) CreateWire(w *catalog.Wire) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	m.wires = append(m.wires, *w)
	return nil
}

func (m *MockRepository) CreateWires(wires []catalog.Wire) (int, error) {
	inserted := 0
	for _, w := range wires {
		if m.hasWire(w.Brand, w.CrossSection) {
			continue
		}
		if w.ID == "" {
			w.ID = uuid.New().String()
		}
		m.wires = append(m.wires, w)
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasWire(brand string, crossSection float64) bool {
	for _, w := range m.wires {
		if w.Brand == brand && w.CrossSection == crossSection {
			return true
		}
	}
	return false
}

func (m *MockRepository) ListEmployees(onlyActive bool) ([]catalog.IndividualEmployee, error) {
	if m.ListCatalogErr != nil {
		return nil, m.ListCatalogErr
	}
	var out []catalog.IndividualEmployee
	for _, e := range m.employees {
		if onlyActive && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MockRepository) CreateEmployee(e *catalog.IndividualEmployee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	m.employees = append(m.employees, *e)
	return nil
}

func (m *MockRepository) ListCounterparties() ([]Counterparty, error) {
	if m.ListRefsErr != nil {
		return nil, m.ListRefsErr
	}
	var out []Counterparty
	for _, c := range m.counterparts {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateCounterparties(counterparties []Counterparty) (int, error) {
	inserted := 0
	for _, c := range counterparties {
		if m.hasCounterparty(c) {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		m.counterparts = append(m.counterparts, c)
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasCounterparty(c Counterparty) bool {
	for _, existing := range m.counterparts {
		if c.INN != "" && existing.INN == c.INN {
			return true
		}
		if c.INN == "" && strings.EqualFold(existing.Name, c.Name) {
			return true
		}
	}
	return false
}

func (m *MockRepository) ListUpdDocuments(counterpartyName string) ([]UpdDocument, error) {
	if m.ListRefsErr != nil {
		return nil, m.ListRefsErr
	}
	var out []UpdDocument
	for _, d := range m.documents {
		if !d.IsActive {
			continue
		}
		if counterpartyName != "" && d.CounterpartyName != counterpartyName {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MockRepository) CreateUpdDocuments(documents []UpdDocument) (int, error) {
	inserted := 0
	for _, d := range documents {
		if m.hasDocument(d.DocumentName) {
			continue
		}
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		m.documents = append(m.documents, d)
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasDocument(name string) bool {
	for _, d := range m.documents {
		if d.DocumentName == name {
			return true
		}
	}
	return false
}

func sortPositionsNewestFirst(positions []SavedPosition) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].ExportDate.After(positions[j].ExportDate)
	})
}

func sortPositionsByNumber(positions []SavedPosition) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PositionNumber < positions[j].PositionNumber
	})
}
