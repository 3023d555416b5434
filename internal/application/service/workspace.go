// Package service wires the allocation board to persistence and import. One
// WorkspaceService holds the live board, the counterparty and UPD document
// selection, and drives save, template and archive flows against the
// repository.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/remcenter/repairdesk-backend/internal/domain/allocation"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
	"github.com/remcenter/repairdesk-backend/internal/importer"
	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

// DefaultUpdStatus is stamped on saved positions when the selected document
// carries no status of its own.
const DefaultUpdStatus = "УПД проведены"

var (
	// ErrNoCounterparty is returned by SaveAll when no counterparty is selected.
	ErrNoCounterparty = errors.New("no counterparty selected")

	// ErrNoDocument is returned by SaveAll when no UPD document is selected.
	ErrNoDocument = errors.New("no UPD document selected")

	// ErrNothingToSave is returned when the board holds no positions.
	ErrNothingToSave = errors.New("nothing to save")
)

// WorkspaceService owns the board and the workspace-level selection state.
type WorkspaceService struct {
	board   *allocation.Board
	repo    storage.Repository
	logger  *slog.Logger
	baseURL string

	mu           sync.Mutex
	counterparty *storage.Counterparty
	document     *storage.UpdDocument
}

// NewWorkspaceService creates a workspace around an empty board. baseURL is
// the public origin recorded in share URLs.
func NewWorkspaceService(repo storage.Repository, logger *slog.Logger, baseURL string) *WorkspaceService {
	return &WorkspaceService{
		board:   allocation.NewBoard(logger),
		repo:    repo,
		logger:  logger,
		baseURL: baseURL,
	}
}

// Board exposes the live allocation board for direct operations.
func (s *WorkspaceService) Board() *allocation.Board {
	return s.board
}

// Repo exposes the repository for read-mostly reference endpoints.
func (s *WorkspaceService) Repo() storage.Repository {
	return s.repo
}

// Logger exposes the service logger for import warnings.
func (s *WorkspaceService) Logger() *slog.Logger {
	return s.logger
}

// --- selection state ---

// SelectedCounterparty returns the current counterparty selection, nil when
// none is chosen.
func (s *WorkspaceService) SelectedCounterparty() *storage.Counterparty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counterparty
}

// SelectCounterparty sets (or clears, with nil) the counterparty tag.
func (s *WorkspaceService) SelectCounterparty(c *storage.Counterparty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counterparty = c
}

// SelectedDocument returns the current UPD document selection.
func (s *WorkspaceService) SelectedDocument() *storage.UpdDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// SelectDocument sets (or clears, with nil) the UPD document tag.
func (s *WorkspaceService) SelectDocument(d *storage.UpdDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = d
}

// SetDocumentName records a manually typed document name as a provisional
// document without touching the register.
func (s *WorkspaceService) SetDocumentName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		s.document = nil
		return
	}
	s.document = &storage.UpdDocument{DocumentName: name, IsActive: true}
}

// DocumentName returns the selected document name, empty when none.
func (s *WorkspaceService) DocumentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return ""
	}
	return s.document.DocumentName
}

// ClearAll wipes the board and the selection state.
func (s *WorkspaceService) ClearAll() {
	s.board.Reset()
	s.mu.Lock()
	s.counterparty = nil
	s.document = nil
	s.mu.Unlock()
}

// --- import ---

// ImportItems parses a ledger workbook into the pool. When no document is
// selected yet, the first imported item with a source document tag promotes
// it to the provisional selection.
func (s *WorkspaceService) ImportItems(r io.Reader) (int, error) {
	items, err := importer.ImportItems(r, s.logger)
	if err != nil {
		return 0, err
	}

	s.board.AddToPool(items)

	s.mu.Lock()
	if s.document == nil {
		for _, it := range items {
			if it.Analytics1 != "" {
				s.document = &storage.UpdDocument{DocumentName: it.Analytics1, IsActive: true}
				s.logger.Info("adopted document from imported items", "document", it.Analytics1)
				break
			}
		}
	}
	s.mu.Unlock()

	s.logger.Info("imported items into pool", "count", len(items))
	return len(items), nil
}

// --- archive save ---

// PositionFailure describes one position that could not be saved.
type PositionFailure struct {
	PositionID string `json:"positionId"`
	Service    string `json:"service"`
	Error      string `json:"error"`
}

// SaveResult reports the outcome of SaveAll.
type SaveResult struct {
	Saved    int               `json:"saved"`
	Failures []PositionFailure `json:"failures,omitempty"`
}

// SaveAll archives every position on the board under the selected
// counterparty and document. Each position is one all-or-nothing write; the
// result lists any that failed. When everything saves, the board and the
// selections are cleared.
func (s *WorkspaceService) SaveAll() (SaveResult, error) {
	s.mu.Lock()
	counterparty := s.counterparty
	document := s.document
	s.mu.Unlock()

	if counterparty == nil {
		return SaveResult{}, ErrNoCounterparty
	}
	if document == nil || document.DocumentName == "" {
		return SaveResult{}, ErrNoDocument
	}

	positions := s.board.Positions()
	if len(positions) == 0 {
		return SaveResult{}, ErrNothingToSave
	}

	status := document.Status
	if status == "" {
		status = DefaultUpdStatus
	}

	var result SaveResult
	exportDate := time.Now()
	for _, pos := range positions {
		id := uuid.New().String()
		header := &storage.SavedPosition{
			ID:               id,
			Service:          pos.Service,
			PositionNumber:   pos.PositionNumber,
			TotalPrice:       pos.TotalPrice,
			TotalIncome:      pos.TotalIncome,
			TotalExpense:     pos.TotalExpense,
			ExportDate:       exportDate,
			CounterpartyName: counterparty.Name,
			DocumentName:     document.DocumentName,
			UpdStatus:        status,
			URL:              fmt.Sprintf("%s/qr-view/%s", s.baseURL, id),
		}
		if err := s.repo.SavePosition(header, pos.Items); err != nil {
			s.logger.Error("failed to save position",
				"position", pos.ID, "service", pos.Service, "error", err)
			result.Failures = append(result.Failures, PositionFailure{
				PositionID: pos.ID,
				Service:    pos.Service,
				Error:      err.Error(),
			})
			continue
		}
		result.Saved++
	}

	if len(result.Failures) == 0 {
		s.ClearAll()
		s.logger.Info("saved all positions", "count", result.Saved,
			"document", document.DocumentName)
	}
	return result, nil
}

// --- archive load ---

// ListSavedPositions returns the archive headers.
func (s *WorkspaceService) ListSavedPositions() ([]storage.SavedPosition, error) {
	return s.repo.ListSavedPositions()
}

// GetSavedPosition returns one archive entry with its items.
func (s *WorkspaceService) GetSavedPosition(id string) (*storage.SavedPosition, []repair.RepairItem, error) {
	header, err := s.repo.GetSavedPosition(id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.GetSavedPositionItems(id)
	if err != nil {
		return nil, nil, err
	}
	items := make([]repair.RepairItem, len(rows))
	for i, row := range rows {
		items[i] = row.ItemData
	}
	return header, items, nil
}

// DeleteSavedPosition removes one archive entry.
func (s *WorkspaceService) DeleteSavedPosition(id string) error {
	return s.repo.DeleteSavedPosition(id)
}

// guardReplace rejects replacing a board that still holds positions unless
// the caller confirmed losing them.
func (s *WorkspaceService) guardReplace(confirm bool) error {
	if !confirm && len(s.board.Positions()) > 0 {
		return allocation.ErrBoardNotEmpty
	}
	return nil
}

// LoadSavedPositions replaces the board with archived positions for editing.
// Positions keep a link to their archive entry, the pool is emptied, and the
// counterparty and document tags are restored from the first header.
func (s *WorkspaceService) LoadSavedPositions(ids []string, confirm bool) error {
	if len(ids) == 0 {
		return errors.New("no positions to load")
	}
	if err := s.guardReplace(confirm); err != nil {
		return err
	}

	var (
		positions []allocation.Position
		first     *storage.SavedPosition
	)
	for _, id := range ids {
		header, items, err := s.GetSavedPosition(id)
		if err != nil {
			return fmt.Errorf("loading position %s: %w", id, err)
		}
		if first == nil {
			first = header
		}
		positions = append(positions, allocation.Position{
			ID:             "loaded-" + uuid.NewString(),
			OriginalID:     header.ID,
			Service:        header.Service,
			PositionNumber: header.PositionNumber,
			Items:          items,
		})
	}

	s.board.Load(positions, nil)

	s.mu.Lock()
	if first.CounterpartyName != "" {
		s.counterparty = &storage.Counterparty{Name: first.CounterpartyName, IsActive: true}
	} else {
		s.counterparty = nil
	}
	if first.DocumentName != "" {
		s.document = &storage.UpdDocument{
			DocumentName:     first.DocumentName,
			CounterpartyName: first.CounterpartyName,
			Status:           first.UpdStatus,
			IsActive:         true,
		}
	} else {
		s.document = nil
	}
	s.mu.Unlock()

	s.logger.Info("loaded positions from archive", "count", len(positions))
	return nil
}

// LoadSavedGroup loads every archived position saved under a document.
func (s *WorkspaceService) LoadSavedGroup(documentName string, confirm bool) error {
	headers, err := s.repo.ListSavedPositionsByDocument(documentName)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return storage.ErrNotFound
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	return s.LoadSavedPositions(ids, confirm)
}

// --- templates ---

// SaveTemplate snapshots the current positions under a unique name. Each
// item records its source position so loading restores the same boundaries.
func (s *WorkspaceService) SaveTemplate(name, description string) error {
	if name == "" {
		return errors.New("template name is required")
	}
	positions := s.board.Positions()
	if len(positions) == 0 {
		return ErrNothingToSave
	}

	var items []storage.TemplateItem
	for _, pos := range positions {
		for _, it := range pos.Items {
			items = append(items, storage.TemplateItem{
				ItemData:            it,
				OriginalPositionID:  pos.ID,
				OriginalServiceName: pos.Service,
			})
		}
	}

	tmpl := &storage.Template{Name: name, Description: description}
	if err := s.repo.SaveTemplate(tmpl, items); err != nil {
		return err
	}
	s.logger.Info("saved template", "name", name, "items", len(items))
	return nil
}

// ListTemplates returns the stored templates.
func (s *WorkspaceService) ListTemplates() ([]storage.Template, error) {
	return s.repo.ListTemplates()
}

// DeleteTemplate removes a template.
func (s *WorkspaceService) DeleteTemplate(id string) error {
	return s.repo.DeleteTemplate(id)
}

// LoadTemplate replaces the board with a template's positions. Items are
// regrouped by their recorded source position; items saved without that tag
// become singleton positions. Archive links and selections are cleared since
// a template is a fresh start.
func (s *WorkspaceService) LoadTemplate(templateID string, confirm bool) error {
	if err := s.guardReplace(confirm); err != nil {
		return err
	}
	rows, err := s.repo.GetTemplateItems(templateID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return storage.ErrNotFound
	}

	type bucket struct {
		service string
		items   []repair.RepairItem
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		key := row.OriginalPositionID
		service := row.OriginalServiceName
		if key == "" || service == "" {
			// Old templates lack position tags; keep such items alone.
			key = "untagged-" + uuid.NewString()
			service = repair.BaseName(row.ItemData.PositionName)
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{service: service}
			buckets[key] = b
			order = append(order, key)
		}
		b.items = append(b.items, row.ItemData)
	}

	positions := make([]allocation.Position, 0, len(order))
	for i, key := range order {
		b := buckets[key]
		positions = append(positions, allocation.Position{
			ID:             "template-loaded-" + uuid.NewString(),
			Service:        b.service,
			PositionNumber: i + 1,
			Items:          b.items,
		})
	}

	s.board.Load(positions, nil)

	s.mu.Lock()
	s.counterparty = nil
	s.document = nil
	s.mu.Unlock()

	s.logger.Info("loaded template", "template", templateID, "positions", len(positions))
	return nil
}
