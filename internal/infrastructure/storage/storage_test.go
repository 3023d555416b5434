package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	tmpFile.Close()
	return tmpFile.Name()
}

func openTempStorage(t *testing.T) *Storage {
	tmpDB := createTempDB(t)
	t.Cleanup(func() { os.Remove(tmpDB) })

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleItem(id, name string, ieType repair.IncomeExpenseType, revenue float64) repair.RepairItem {
	it := repair.RepairItem{
		ID:                id,
		PositionName:      name,
		IncomeExpenseType: ieType,
		Quantity:          1,
	}
	it.SetRevenue(revenue)
	return it
}

func TestStorage_SaveAndGetPosition_WithItems(t *testing.T) {
	store := openTempStorage(t)

	export := time.Now().Truncate(time.Second)
	pos := &SavedPosition{
		ID:               "position-abc",
		Service:          "Ремонт насоса",
		PositionNumber:   1,
		TotalPrice:       2500,
		TotalIncome:      5000,
		TotalExpense:     2500,
		ExportDate:       export,
		CounterpartyName: "ООО Ромашка",
		DocumentName:     "УПД-42",
		URL:              "http://localhost:8080/qr-view/position-abc",
	}
	items := []repair.RepairItem{
		sampleItem("item-1", "Ремонт двигателя", repair.TypeIncome, 5000),
		sampleItem("item-2", "Замена подшипника 6305", repair.TypeExpense, -2500),
	}

	require.NoError(t, store.SavePosition(pos, items))

	retrieved, err := store.GetSavedPosition("position-abc")
	require.NoError(t, err)
	assert.Equal(t, "Ремонт насоса", retrieved.Service)
	assert.Equal(t, 2, retrieved.ItemsCount)
	assert.Equal(t, "УПД-42", retrieved.DocumentName)
	assert.Equal(t, "http://localhost:8080/qr-view/position-abc", retrieved.URL)

	saved, err := store.GetSavedPositionItems("position-abc")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Ремонт двигателя", saved[0].ItemData.PositionName)
	assert.Equal(t, string(repair.TypeExpense), saved[1].IncomeExpenseType)
	assert.InDelta(t, -2500, saved[1].ItemData.Revenue, 1e-9)
	assert.InDelta(t, -2000, saved[1].ItemData.SumWithoutVAT, 1e-9)
}

func TestStorage_GetSavedPosition_NotFound(t *testing.T) {
	store := openTempStorage(t)

	_, err := store.GetSavedPosition("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListSavedPositionsByDocument(t *testing.T) {
	store := openTempStorage(t)

	for i, id := range []string{"position-b", "position-a"} {
		pos := &SavedPosition{
			ID:             id,
			Service:        "услуга",
			PositionNumber: 2 - i,
			ExportDate:     time.Now(),
			DocumentName:   "УПД-7",
		}
		require.NoError(t, store.SavePosition(pos, nil))
	}
	other := &SavedPosition{ID: "position-c", Service: "x", PositionNumber: 1, ExportDate: time.Now(), DocumentName: "УПД-8"}
	require.NoError(t, store.SavePosition(other, nil))

	got, err := store.ListSavedPositionsByDocument("УПД-7")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "position-a", got[0].ID)
	assert.Equal(t, "position-b", got[1].ID)
}

func TestStorage_DeleteSavedPosition_CascadesItems(t *testing.T) {
	store := openTempStorage(t)

	pos := &SavedPosition{ID: "position-del", Service: "x", PositionNumber: 1, ExportDate: time.Now()}
	items := []repair.RepairItem{sampleItem("item-1", "Ремонт", repair.TypeIncome, 100)}
	require.NoError(t, store.SavePosition(pos, items))

	require.NoError(t, store.DeleteSavedPosition("position-del"))

	_, err := store.GetSavedPosition("position-del")
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := store.GetSavedPositionItems("position-del")
	require.NoError(t, err)
	assert.Empty(t, saved)

	assert.ErrorIs(t, store.DeleteSavedPosition("position-del"), ErrNotFound)
}

func TestStorage_SaveTemplate_DuplicateName(t *testing.T) {
	store := openTempStorage(t)

	items := []TemplateItem{
		{ItemData: sampleItem("item-1", "Ремонт", repair.TypeIncome, 100), OriginalPositionID: "position-1", OriginalServiceName: "услуга"},
	}
	require.NoError(t, store.SaveTemplate(&Template{Name: "Типовой ремонт"}, items))

	err := store.SaveTemplate(&Template{Name: "Типовой ремонт"}, items)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestStorage_TemplateRoundTrip(t *testing.T) {
	store := openTempStorage(t)

	tmpl := &Template{Name: "Насос с обмоткой", Description: "две позиции"}
	items := []TemplateItem{
		{ItemData: sampleItem("item-1", "Ремонт двигателя", repair.TypeIncome, 5000), OriginalPositionID: "position-1", OriginalServiceName: "Ремонт насоса"},
		{ItemData: sampleItem("item-2", "ПЭТВ-2 1.25 мм² (10 м)", repair.TypeExpense, -900), OriginalPositionID: "position-1", OriginalServiceName: "Ремонт насоса"},
	}
	require.NoError(t, store.SaveTemplate(tmpl, items))
	require.NotEmpty(t, tmpl.ID)

	list, err := store.ListTemplates()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Насос с обмоткой", list[0].Name)

	loaded, err := store.GetTemplateItems(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "position-1", loaded[0].OriginalPositionID)
	assert.Equal(t, "Ремонт насоса", loaded[1].OriginalServiceName)
	assert.InDelta(t, -900, loaded[1].ItemData.Revenue, 1e-9)

	require.NoError(t, store.DeleteTemplate(tmpl.ID))
	list, err = store.ListTemplates()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStorage_CreateBearings_DeduplicatesByDesignation(t *testing.T) {
	store := openTempStorage(t)

	first := []catalog.Bearing{
		{Designation: "6305-2RS", PricePerUnit: 350, IsActive: true},
		{Designation: "6204", PricePerUnit: 120, IsActive: true},
	}
	inserted, err := store.CreateBearings(first)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	second := []catalog.Bearing{
		{Designation: "6305-2RS", PricePerUnit: 999, IsActive: true},
		{Designation: "6310", PricePerUnit: 500, IsActive: true},
	}
	inserted, err = store.CreateBearings(second)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	bearings, err := store.ListBearings(true)
	require.NoError(t, err)
	require.Len(t, bearings, 3)
	// The original price survives the duplicate import.
	for _, b := range bearings {
		if b.Designation == "6305-2RS" {
			assert.InDelta(t, 350, b.PricePerUnit, 1e-9)
		}
	}
}

func TestStorage_CreateWires_DeduplicatesByBrandAndSection(t *testing.T) {
	store := openTempStorage(t)

	inserted, err := store.CreateWires([]catalog.Wire{
		{Brand: "ПЭТВ-2", CrossSection: 1.25, PricePerMeter: 90, IsActive: true},
		{Brand: "ПЭТВ-2", CrossSection: 0.8, PricePerMeter: 60, IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.CreateWires([]catalog.Wire{
		{Brand: "ПЭТВ-2", CrossSection: 1.25, PricePerMeter: 100, IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestStorage_ListCatalogs_OnlyActive(t *testing.T) {
	store := openTempStorage(t)

	require.NoError(t, store.CreateMotor(&catalog.Motor{Name: "АИР80", PowerKW: 1.5, RPM: 1500, PricePerUnit: 4000, IsActive: true}))
	require.NoError(t, store.CreateMotor(&catalog.Motor{Name: "АИР100", PowerKW: 3, RPM: 3000, PricePerUnit: 7000, IsActive: false}))

	active, err := store.ListMotors(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "АИР80", active[0].Name)

	all, err := store.ListMotors(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStorage_CreateCounterparties_DeduplicatesByINN(t *testing.T) {
	store := openTempStorage(t)

	inserted, err := store.CreateCounterparties([]Counterparty{
		{Name: "ООО Ромашка", INN: "7701234567", IsActive: true},
		{Name: "ИП Иванов", IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.CreateCounterparties([]Counterparty{
		{Name: "ООО Ромашка (новое имя)", INN: "7701234567", IsActive: true},
		{Name: "ИП Иванов", IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	list, err := store.ListCounterparties()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStorage_UpdDocuments_FilterByCounterparty(t *testing.T) {
	store := openTempStorage(t)

	inserted, err := store.CreateUpdDocuments([]UpdDocument{
		{DocumentName: "УПД-1", CounterpartyName: "ООО Ромашка", IsActive: true},
		{DocumentName: "УПД-2", CounterpartyName: "ИП Иванов", IsActive: true},
		{DocumentName: "УПД-1", CounterpartyName: "ООО Ромашка", IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	docs, err := store.ListUpdDocuments("ООО Ромашка")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "УПД-1", docs[0].DocumentName)

	all, err := store.ListUpdDocuments("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStorage_Migrations_Idempotent(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again; all are already applied.
	store, err = NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	applied, err := store.getAppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, len(allMigrations))
}
