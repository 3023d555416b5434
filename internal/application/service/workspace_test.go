package service

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/remcenter/repairdesk-backend/internal/domain/allocation"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*WorkspaceService, *storage.MockRepository) {
	repo := storage.NewMockRepository()
	return NewWorkspaceService(repo, testLogger(), "http://localhost:8080"), repo
}

func testItem(name string, ieType repair.IncomeExpenseType, revenue float64) repair.RepairItem {
	id := repair.NewItemID("item")
	it := repair.RepairItem{
		ID:                id,
		PositionName:      repair.AppendIDSuffix(name, id),
		IncomeExpenseType: ieType,
		Quantity:          1,
		UniqueKey:         repair.MakeUniqueKey(id, name),
		Analytics8:        name,
	}
	it.SetRevenue(revenue)
	return it
}

func loadBoard(s *WorkspaceService, positions ...allocation.Position) {
	s.Board().Load(positions, nil)
}

func positionWith(service string, number int, items ...repair.RepairItem) allocation.Position {
	return allocation.Position{
		ID:             "position-test-" + service,
		Service:        service,
		PositionNumber: number,
		Items:          items,
	}
}

func TestSaveAll_RequiresSelections(t *testing.T) {
	s, _ := newTestService()
	loadBoard(s, positionWith("Ремонт насоса", 1, testItem("Ремонт", repair.TypeIncome, 100)))

	_, err := s.SaveAll()
	assert.ErrorIs(t, err, ErrNoCounterparty)

	s.SelectCounterparty(&storage.Counterparty{Name: "ООО Ромашка"})
	_, err = s.SaveAll()
	assert.ErrorIs(t, err, ErrNoDocument)

	s.SetDocumentName("УПД-42")
	s.Board().Reset()
	_, err = s.SaveAll()
	assert.ErrorIs(t, err, ErrNothingToSave)
}

func TestSaveAll_Success_ClearsWorkspace(t *testing.T) {
	s, repo := newTestService()
	loadBoard(s,
		positionWith("Ремонт насоса", 1,
			testItem("Ремонт двигателя", repair.TypeIncome, 5000),
			testItem("Замена подшипника 6305", repair.TypeExpense, -1200)),
		positionWith("Перемотка", 2,
			testItem("Перемотка статора", repair.TypeIncome, 3000)),
	)
	s.SelectCounterparty(&storage.Counterparty{Name: "ООО Ромашка"})
	s.SelectDocument(&storage.UpdDocument{DocumentName: "УПД-42"})

	result, err := s.SaveAll()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Empty(t, result.Failures)

	require.True(t, repo.SavePositionCalled)
	saved, err := repo.ListSavedPositions()
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, pos := range saved {
		assert.Equal(t, "ООО Ромашка", pos.CounterpartyName)
		assert.Equal(t, "УПД-42", pos.DocumentName)
		assert.Equal(t, DefaultUpdStatus, pos.UpdStatus)
		assert.Contains(t, pos.URL, "/qr-view/"+pos.ID)
	}

	// Successful save clears the board and selections.
	assert.Empty(t, s.Board().Positions())
	assert.Empty(t, s.Board().Pool())
	assert.Nil(t, s.SelectedCounterparty())
	assert.Nil(t, s.SelectedDocument())
}

func TestSaveAll_Failure_KeepsWorkspace(t *testing.T) {
	s, repo := newTestService()
	repo.SavePositionErr = assert.AnError

	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))
	s.SelectCounterparty(&storage.Counterparty{Name: "ООО Ромашка"})
	s.SetDocumentName("УПД-42")

	result, err := s.SaveAll()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Ремонт", result.Failures[0].Service)

	// Nothing is cleared so staff can retry.
	assert.Len(t, s.Board().Positions(), 1)
	assert.NotNil(t, s.SelectedCounterparty())
}

func TestSaveAll_KeepsDocumentStatus(t *testing.T) {
	s, repo := newTestService()
	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))
	s.SelectCounterparty(&storage.Counterparty{Name: "ООО Ромашка"})
	s.SelectDocument(&storage.UpdDocument{DocumentName: "УПД-42", Status: "Черновик"})

	_, err := s.SaveAll()
	require.NoError(t, err)
	assert.Equal(t, "Черновик", repo.LastSavedPosition.UpdStatus)
}

func TestImportItems_AdoptsDocumentFromAnalytics(t *testing.T) {
	s, _ := newTestService()

	wb := itemsWorkbook(t, [][]any{
		{"Аналитика 8", "Доходы/Расходы", "Выручка", "Аналитика 1"},
		{"Ремонт насоса", "Доходы", "5000", "УПД-99"},
		{"Провод", "Расходы", "-100", ""},
	})

	count, err := s.ImportItems(wb)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, s.Board().Pool(), 2)

	require.NotNil(t, s.SelectedDocument())
	assert.Equal(t, "УПД-99", s.DocumentName())
}

func TestImportItems_KeepsExplicitSelection(t *testing.T) {
	s, _ := newTestService()
	s.SetDocumentName("УПД-1")

	wb := itemsWorkbook(t, [][]any{
		{"Аналитика 8", "Доходы/Расходы", "Выручка", "Аналитика 1"},
		{"Ремонт насоса", "Доходы", "5000", "УПД-99"},
	})

	_, err := s.ImportItems(wb)
	require.NoError(t, err)
	assert.Equal(t, "УПД-1", s.DocumentName())
}

func TestTemplate_SaveAndLoad_RestoresPositionBoundaries(t *testing.T) {
	s, repo := newTestService()
	loadBoard(s,
		positionWith("Ремонт насоса", 1,
			testItem("Ремонт двигателя", repair.TypeIncome, 5000),
			testItem("Замена подшипника 6305", repair.TypeExpense, -1200)),
		positionWith("Перемотка", 2,
			testItem("Перемотка статора", repair.TypeIncome, 3000)),
	)

	require.NoError(t, s.SaveTemplate("Типовой ремонт", "описание"))
	require.True(t, repo.SaveTemplateCalled)

	templates, err := s.ListTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 1)

	// Dirty the workspace before loading.
	s.SelectCounterparty(&storage.Counterparty{Name: "кто-то"})
	s.Board().Reset()

	require.NoError(t, s.LoadTemplate(templates[0].ID, false))

	positions := s.Board().Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "Ремонт насоса", positions[0].Service)
	assert.Len(t, positions[0].Items, 2)
	assert.Equal(t, "Перемотка", positions[1].Service)
	assert.Len(t, positions[1].Items, 1)
	assert.InDelta(t, 5000, positions[0].TotalIncome, 1e-9)
	assert.InDelta(t, 1200, positions[0].TotalExpense, 1e-9)

	// Templates never carry archive links or selections.
	assert.Empty(t, positions[0].OriginalID)
	assert.Nil(t, s.SelectedCounterparty())
	assert.Nil(t, s.SelectedDocument())
}

func TestLoadTemplate_UntaggedItemsBecomeSingletons(t *testing.T) {
	s, repo := newTestService()

	items := []storage.TemplateItem{
		{ItemData: testItem("Ремонт двигателя", repair.TypeIncome, 5000)},
		{ItemData: testItem("Провод", repair.TypeExpense, -100)},
	}
	require.NoError(t, repo.SaveTemplate(&storage.Template{Name: "Старый шаблон"}, items))

	templates, err := repo.ListTemplates()
	require.NoError(t, err)
	require.NoError(t, s.LoadTemplate(templates[0].ID, false))

	positions := s.Board().Positions()
	require.Len(t, positions, 2)
	for _, pos := range positions {
		assert.Len(t, pos.Items, 1)
	}
	assert.Equal(t, "Ремонт двигателя", positions[0].Service)
}

func TestLoadTemplate_GuardsUnsavedBoard(t *testing.T) {
	s, repo := newTestService()

	items := []storage.TemplateItem{
		{ItemData: testItem("Ремонт двигателя", repair.TypeIncome, 5000)},
	}
	require.NoError(t, repo.SaveTemplate(&storage.Template{Name: "Шаблон"}, items))
	templates, err := repo.ListTemplates()
	require.NoError(t, err)

	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))

	assert.ErrorIs(t, s.LoadTemplate(templates[0].ID, false), allocation.ErrBoardNotEmpty)
	require.NoError(t, s.LoadTemplate(templates[0].ID, true))
	assert.Len(t, s.Board().Positions(), 1)
}

func TestSaveTemplate_DuplicateName(t *testing.T) {
	s, _ := newTestService()
	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))

	require.NoError(t, s.SaveTemplate("Имя", ""))

	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))
	assert.ErrorIs(t, s.SaveTemplate("Имя", ""), storage.ErrDuplicateName)
}

func TestLoadSavedPositions_RestoresTags(t *testing.T) {
	s, repo := newTestService()

	header := &storage.SavedPosition{
		ID:               "saved-1",
		Service:          "Ремонт насоса",
		PositionNumber:   3,
		CounterpartyName: "ООО Ромашка",
		DocumentName:     "УПД-42",
		UpdStatus:        "УПД проведены",
	}
	require.NoError(t, repo.SavePosition(header, []repair.RepairItem{
		testItem("Ремонт двигателя", repair.TypeIncome, 5000),
	}))

	require.NoError(t, s.LoadSavedPositions([]string{"saved-1"}, false))

	positions := s.Board().Positions()
	require.Len(t, positions, 1)
	assert.Equal(t, "saved-1", positions[0].OriginalID)
	assert.Equal(t, 1, positions[0].PositionNumber)
	assert.InDelta(t, 5000, positions[0].TotalIncome, 1e-9)

	require.NotNil(t, s.SelectedCounterparty())
	assert.Equal(t, "ООО Ромашка", s.SelectedCounterparty().Name)
	assert.Equal(t, "УПД-42", s.DocumentName())
}

func TestLoadSavedGroup(t *testing.T) {
	s, repo := newTestService()

	for i, id := range []string{"saved-a", "saved-b"} {
		header := &storage.SavedPosition{
			ID:             id,
			Service:        "услуга",
			PositionNumber: i + 1,
			DocumentName:   "УПД-7",
		}
		require.NoError(t, repo.SavePosition(header, []repair.RepairItem{
			testItem("Ремонт", repair.TypeIncome, 100),
		}))
	}

	require.NoError(t, s.LoadSavedGroup("УПД-7", false))
	assert.Len(t, s.Board().Positions(), 2)

	assert.ErrorIs(t, s.LoadSavedGroup("УПД-нет", false), storage.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	s, _ := newTestService()
	loadBoard(s, positionWith("Ремонт", 1, testItem("Ремонт", repair.TypeIncome, 100)))
	s.SelectCounterparty(&storage.Counterparty{Name: "ООО Ромашка"})
	s.SetDocumentName("УПД-42")

	s.ClearAll()

	assert.Empty(t, s.Board().Positions())
	assert.Empty(t, s.Board().Pool())
	assert.Nil(t, s.SelectedCounterparty())
	assert.Empty(t, s.DocumentName())
}

// itemsWorkbook builds an xlsx stream for import tests.
func itemsWorkbook(t *testing.T, rows [][]any) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}
