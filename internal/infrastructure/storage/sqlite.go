// Package storage provides SQLite persistence for the repair desk: the
// archive of exported positions, board templates, substitution catalogs and
// counterparty/document references. Repair items are stored as JSON payloads
// with the queryable fields lifted into columns.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// Storage implements Repository using SQLite
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new SQLite storage instance
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// --- Archive ---

// SavePosition writes the header and its items in one transaction.
func (s *Storage) SavePosition(pos *SavedPosition, items []repair.RepairItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if pos.CreatedAt.IsZero() {
		pos.CreatedAt = time.Now()
	}
	pos.ItemsCount = len(items)

	_, err = tx.Exec(`
		INSERT INTO saved_positions
			(id, created_at, service, position_number, total_price, total_income,
			 total_expense, items_count, export_date, counterparty_name,
			 document_name, upd_status, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, pos.ID, pos.CreatedAt, pos.Service, pos.PositionNumber, pos.TotalPrice,
		pos.TotalIncome, pos.TotalExpense, pos.ItemsCount, pos.ExportDate,
		pos.CounterpartyName, pos.DocumentName, pos.UpdStatus, pos.URL)
	if err != nil {
		return fmt.Errorf("failed to insert position header: %w", err)
	}

	for i := range items {
		payload, err := json.Marshal(items[i])
		if err != nil {
			return fmt.Errorf("failed to marshal item %s: %w", items[i].ID, err)
		}

		_, err = tx.Exec(`
			INSERT INTO saved_position_items
				(id, created_at, position_id, position_name, income_expense_type, item_json)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), time.Now(), pos.ID, items[i].PositionName,
			items[i].IncomeExpenseType, string(payload))
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", items[i].ID, err)
		}
	}

	return tx.Commit()
}

// ListSavedPositions returns all archive headers, newest export first.
func (s *Storage) ListSavedPositions() ([]SavedPosition, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, service, position_number, total_price, total_income,
		       total_expense, items_count, export_date, counterparty_name,
		       document_name, upd_status, url
		FROM saved_positions
		ORDER BY export_date DESC, position_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSavedPositions(rows)
}

// GetSavedPosition retrieves one header by id.
func (s *Storage) GetSavedPosition(id string) (*SavedPosition, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, service, position_number, total_price, total_income,
		       total_expense, items_count, export_date, counterparty_name,
		       document_name, upd_status, url
		FROM saved_positions
		WHERE id = ?
	`, id)

	pos, err := scanSavedPosition(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved position: %w", err)
	}
	return pos, nil
}

// GetSavedPositionItems returns the archived items of a position.
func (s *Storage) GetSavedPositionItems(positionID string) ([]SavedPositionItem, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, position_id, position_name, income_expense_type, item_json
		FROM saved_position_items
		WHERE position_id = ?
		ORDER BY created_at ASC
	`, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query position items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []SavedPositionItem
	for rows.Next() {
		var item SavedPositionItem
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.PositionID,
			&item.PositionName, &item.IncomeExpenseType, &item.ItemJSON); err != nil {
			return nil, fmt.Errorf("failed to scan position item: %w", err)
		}
		if err := json.Unmarshal([]byte(item.ItemJSON), &item.ItemData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListSavedPositionsByDocument returns headers saved under a document.
func (s *Storage) ListSavedPositionsByDocument(documentName string) ([]SavedPosition, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, service, position_number, total_price, total_income,
		       total_expense, items_count, export_date, counterparty_name,
		       document_name, upd_status, url
		FROM saved_positions
		WHERE document_name = ?
		ORDER BY position_number ASC
	`, documentName)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions by document: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSavedPositions(rows)
}

// DeleteSavedPosition removes a header; items cascade.
func (s *Storage) DeleteSavedPosition(id string) error {
	result, err := s.db.Exec(`DELETE FROM saved_positions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved position: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSavedPositions(rows *sql.Rows) ([]SavedPosition, error) {
	var positions []SavedPosition
	for rows.Next() {
		var pos SavedPosition
		var counterparty, document, status, url sql.NullString
		if err := rows.Scan(&pos.ID, &pos.CreatedAt, &pos.Service, &pos.PositionNumber,
			&pos.TotalPrice, &pos.TotalIncome, &pos.TotalExpense, &pos.ItemsCount,
			&pos.ExportDate, &counterparty, &document, &status, &url); err != nil {
			return nil, fmt.Errorf("failed to scan saved position: %w", err)
		}
		pos.CounterpartyName = counterparty.String
		pos.DocumentName = document.String
		pos.UpdStatus = status.String
		pos.URL = url.String
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func scanSavedPosition(row *sql.Row) (*SavedPosition, error) {
	var pos SavedPosition
	var counterparty, document, status, url sql.NullString
	err := row.Scan(&pos.ID, &pos.CreatedAt, &pos.Service, &pos.PositionNumber,
		&pos.TotalPrice, &pos.TotalIncome, &pos.TotalExpense, &pos.ItemsCount,
		&pos.ExportDate, &counterparty, &document, &status, &url)
	if err != nil {
		return nil, err
	}
	pos.CounterpartyName = counterparty.String
	pos.DocumentName = document.String
	pos.UpdStatus = status.String
	pos.URL = url.String
	return &pos, nil
}

// --- Templates ---

// SaveTemplate writes the template and its items in one transaction.
func (s *Storage) SaveTemplate(tmpl *Template, items []TemplateItem) error {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates WHERE name = ?`, tmpl.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check template name: %w", err)
	}
	if exists > 0 {
		return ErrDuplicateName
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO templates (id, created_at, name, description)
		VALUES (?, ?, ?, ?)
	`, tmpl.ID, tmpl.CreatedAt, tmpl.Name, tmpl.Description)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	for i := range items {
		payload, err := json.Marshal(items[i].ItemData)
		if err != nil {
			return fmt.Errorf("failed to marshal template item: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO template_items
				(id, created_at, template_id, item_json, original_position_id, original_service_name)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), time.Now(), tmpl.ID, string(payload),
			items[i].OriginalPositionID, items[i].OriginalServiceName)
		if err != nil {
			return fmt.Errorf("failed to insert template item: %w", err)
		}
	}

	return tx.Commit()
}

// ListTemplates returns all templates, newest first.
func (s *Storage) ListTemplates() ([]Template, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, name, description
		FROM templates
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []Template
	for rows.Next() {
		var tmpl Template
		var description sql.NullString
		if err := rows.Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.Name, &description); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tmpl.Description = description.String
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

// GetTemplateItems returns the items of a template, oldest first so load
// order matches save order.
func (s *Storage) GetTemplateItems(templateID string) ([]TemplateItem, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, template_id, item_json, original_position_id, original_service_name
		FROM template_items
		WHERE template_id = ?
		ORDER BY created_at ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query template items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []TemplateItem
	for rows.Next() {
		var item TemplateItem
		var originalID, originalService sql.NullString
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.TemplateID,
			&item.ItemJSON, &originalID, &originalService); err != nil {
			return nil, fmt.Errorf("failed to scan template item: %w", err)
		}
		item.OriginalPositionID = originalID.String
		item.OriginalServiceName = originalService.String
		if err := json.Unmarshal([]byte(item.ItemJSON), &item.ItemData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteTemplate removes a template; items cascade.
func (s *Storage) DeleteTemplate(id string) error {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Catalogs ---

// ListBearings returns bearings, optionally only active ones.
func (s *Storage) ListBearings(onlyActive bool) ([]catalog.Bearing, error) {
	query := `SELECT id, designation, price_per_unit, is_active, created_at FROM bearings`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY designation ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bearings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bearings []catalog.Bearing
	for rows.Next() {
		var b catalog.Bearing
		if err := rows.Scan(&b.ID, &b.Designation, &b.PricePerUnit, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bearing: %w", err)
		}
		bearings = append(bearings, b)
	}
	return bearings, rows.Err()
}

// CreateBearing inserts a single bearing.
func (s *Storage) CreateBearing(b *catalog.Bearing) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO bearings (id, designation, price_per_unit, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.Designation, b.PricePerUnit, b.IsActive, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bearing: %w", err)
	}
	return nil
}

// CreateBearings bulk-inserts bearings, skipping existing designations.
// Returns the number of rows actually inserted.
func (s *Storage) CreateBearings(bearings []catalog.Bearing) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range bearings {
		b := &bearings[i]
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		result, err := tx.Exec(`
			INSERT OR IGNORE INTO bearings (id, designation, price_per_unit, is_active, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, b.ID, b.Designation, b.PricePerUnit, b.IsActive, time.Now())
		if err != nil {
			return 0, fmt.Errorf("failed to insert bearing %q: %w", b.Designation, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListMotors returns motors, optionally only active ones.
func (s *Storage) ListMotors(onlyActive bool) ([]catalog.Motor, error) {
	query := `SELECT id, name, power_kw, rpm, price_per_unit, is_active, created_at FROM motors`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query motors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var motors []catalog.Motor
	for rows.Next() {
		var m catalog.Motor
		if err := rows.Scan(&m.ID, &m.Name, &m.PowerKW, &m.RPM, &m.PricePerUnit, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan motor: %w", err)
		}
		motors = append(motors, m)
	}
	return motors, rows.Err()
}

// CreateMotor inserts a single motor.
func (s *Storage) CreateMotor(m *catalog.Motor) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO motors (id, name, power_kw, rpm, price_per_unit, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.PowerKW, m.RPM, m.PricePerUnit, m.IsActive, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert motor: %w", err)
	}
	return nil
}

// CreateMotors bulk-inserts motors, skipping existing names.
func (s *Storage) CreateMotors(motors []catalog.Motor) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range motors {
		m := &motors[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		result, err := tx.Exec(`
			INSERT OR IGNORE INTO motors (id, name, power_kw, rpm, price_per_unit, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, m.ID, m.Name, m.PowerKW, m.RPM, m.PricePerUnit, m.IsActive, time.Now())
		if err != nil {
			return 0, fmt.Errorf("failed to insert motor %q: %w", m.Name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListWires returns wires, optionally only active ones.
func (s *Storage) ListWires(onlyActive bool) ([]catalog.Wire, error) {
	query := `SELECT id, brand, cross_section, price_per_meter, is_active, created_at FROM wires`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY brand ASC, cross_section ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wires: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wires []catalog.Wire
	for rows.Next() {
		var w catalog.Wire
		if err := rows.Scan(&w.ID, &w.Brand, &w.CrossSection, &w.PricePerMeter, &w.IsActive, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wire: %w", err)
		}
		wires = append(wires, w)
	}
	return wires, rows.Err()
}

// CreateWire inserts a single wire.
func (s *Storage) CreateWire(w *catalog.Wire) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO wires (id, brand, cross_section, price_per_meter, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.ID, w.Brand, w.CrossSection, w.PricePerMeter, w.IsActive, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert wire: %w", err)
	}
	return nil
}

// CreateWires bulk-inserts wires, skipping existing brand plus cross-section
// pairs.
func (s *Storage) CreateWires(wires []catalog.Wire) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range wires {
		w := &wires[i]
		if w.ID == "" {
			w.ID = uuid.New().String()
		}
		result, err := tx.Exec(`
			INSERT OR IGNORE INTO wires (id, brand, cross_section, price_per_meter, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, w.ID, w.Brand, w.CrossSection, w.PricePerMeter, w.IsActive, time.Now())
		if err != nil {
			return 0, fmt.Errorf("failed to insert wire %q: %w", w.Brand, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListEmployees returns individual employees, optionally only active ones.
func (s *Storage) ListEmployees(onlyActive bool) ([]catalog.IndividualEmployee, error) {
	query := `SELECT id, full_name, job_title, hourly_rate, description, is_active, created_at FROM individual_employees`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY full_name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []catalog.IndividualEmployee
	for rows.Next() {
		var e catalog.IndividualEmployee
		var jobTitle, description sql.NullString
		if err := rows.Scan(&e.ID, &e.FullName, &jobTitle, &e.HourlyRate, &description, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.JobTitle = jobTitle.String
		e.Description = description.String
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// CreateEmployee inserts a single employee.
func (s *Storage) CreateEmployee(e *catalog.IndividualEmployee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO individual_employees (id, full_name, job_title, hourly_rate, description, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.FullName, e.JobTitle, e.HourlyRate, e.Description, e.IsActive, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// --- References ---

// ListCounterparties returns active counterparties ordered by name.
func (s *Storage) ListCounterparties() ([]Counterparty, error) {
	rows, err := s.db.Query(`
		SELECT id, name, inn, kpp, address, contact_person, phone, email,
		       description, is_active, created_at
		FROM counterparties
		WHERE is_active = 1
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counterparties []Counterparty
	for rows.Next() {
		var c Counterparty
		var inn, kpp, address, contact, phone, email, description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &inn, &kpp, &address, &contact,
			&phone, &email, &description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty: %w", err)
		}
		c.INN = inn.String
		c.KPP = kpp.String
		c.Address = address.String
		c.ContactPerson = contact.String
		c.Phone = phone.String
		c.Email = email.String
		c.Description = description.String
		counterparties = append(counterparties, c)
	}
	return counterparties, rows.Err()
}

// CreateCounterparties bulk-inserts counterparties. Records with an INN are
// deduplicated by it; records without one are deduplicated by name against
// existing rows.
func (s *Storage) CreateCounterparties(counterparties []Counterparty) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range counterparties {
		c := &counterparties[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}

		if c.INN == "" {
			var exists int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM counterparties WHERE name = ?`, c.Name).Scan(&exists); err != nil {
				return 0, fmt.Errorf("failed to check counterparty %q: %w", c.Name, err)
			}
			if exists > 0 {
				continue
			}
		}

		result, err := tx.Exec(`
			INSERT OR IGNORE INTO counterparties
				(id, name, inn, kpp, address, contact_person, phone, email, description, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.Name, c.INN, c.KPP, c.Address, c.ContactPerson, c.Phone,
			c.Email, c.Description, c.IsActive, time.Now())
		if err != nil {
			return 0, fmt.Errorf("failed to insert counterparty %q: %w", c.Name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListUpdDocuments returns active documents, optionally filtered by
// counterparty name, newest first.
func (s *Storage) ListUpdDocuments(counterpartyName string) ([]UpdDocument, error) {
	query := `
		SELECT id, created_at, counterparty_name, document_name, document_date, status, is_active
		FROM upd_documents
		WHERE is_active = 1`
	args := []any{}
	if counterpartyName != "" {
		query += ` AND counterparty_name = ?`
		args = append(args, counterpartyName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var documents []UpdDocument
	for rows.Next() {
		var d UpdDocument
		var counterparty, date, status sql.NullString
		if err := rows.Scan(&d.ID, &d.CreatedAt, &counterparty, &d.DocumentName,
			&date, &status, &d.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.CounterpartyName = counterparty.String
		d.DocumentDate = date.String
		d.Status = status.String
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// CreateUpdDocuments bulk-inserts documents, skipping existing names.
func (s *Storage) CreateUpdDocuments(documents []UpdDocument) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range documents {
		d := &documents[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		result, err := tx.Exec(`
			INSERT OR IGNORE INTO upd_documents
				(id, created_at, counterparty_name, document_name, document_date, status, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, d.ID, time.Now(), d.CounterpartyName, d.DocumentName, d.DocumentDate,
			d.Status, d.IsActive)
		if err != nil {
			return 0, fmt.Errorf("failed to insert document %q: %w", d.DocumentName, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
