package importer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildWorkbook serializes a header row plus data rows into xlsx bytes.
func buildWorkbook(t *testing.T, rows [][]any) io.Reader {
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

func TestImportItems(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Аналитика 8", "Доходы/Расходы", "Выручка", "Сумма без НДС", "НДС", "Количество", "Аналитика 1"},
		{"Ремонт насоса", "Доходы", "5000", "4000", "1000", "1", "УПД-42"},
		{"Замена подшипника 6305", "Расходы", "-1 250,50", "", "", "2", ""},
		{"", "", "", "", "", "", ""},
		{"Что-то", "Неизвестно", "100", "", "", "", ""},
		{"Плохая цена", "Доходы", "abc", "", "", "", ""},
	})

	items, err := ImportItems(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, repair.TypeIncome, first.IncomeExpenseType)
	assert.InDelta(t, 5000, first.Revenue, 1e-9)
	assert.InDelta(t, 4000, first.SumWithoutVAT, 1e-9)
	assert.InDelta(t, 1000, first.VATAmount, 1e-9)
	assert.Equal(t, "УПД-42", first.Analytics1)
	assert.Equal(t, "Ремонт насоса", first.Analytics8)
	// Display name carries the generated id suffix.
	assert.Equal(t, "Ремонт насоса", repair.BaseName(first.PositionName))
	assert.NotEqual(t, first.PositionName, first.Analytics8)

	second := items[1]
	assert.Equal(t, repair.TypeExpense, second.IncomeExpenseType)
	assert.InDelta(t, -1250.50, second.Revenue, 1e-9)
	// Missing VAT columns fall back to the default split.
	assert.InDelta(t, -1000.40, second.SumWithoutVAT, 1e-6)
	assert.InDelta(t, -250.10, second.VATAmount, 1e-6)
	assert.InDelta(t, 2, second.Quantity, 1e-9)
	assert.Equal(t, repair.CategoryBearing, second.Category)
}

func TestImportItems_MissingRequiredColumn(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Аналитика 8", "Выручка"},
		{"Ремонт насоса", "5000"},
	})

	_, err := ImportItems(wb, testLogger())
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Columns, "type")
}

func TestImportItems_NoUsableRows(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Аналитика 8", "Доходы/Расходы", "Выручка"},
		{"Что-то", "Мусор", "100"},
	})

	_, err := ImportItems(wb, testLogger())
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestImportItems_SubstringHeaderMatch(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Аналитика 8 (наименование)", "Тип Доходы/Расходы", "Выручка, руб"},
		{"Ремонт", "Доходы", "100"},
	})

	items, err := ImportItems(wb, testLogger())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestImportMotors(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Название", "Мощность, кВт", "Обороты", "Цена за ед"},
		{"АИР80В2", "2,2", "3000", "4 500"},
		{"Без оборотов", "1.5", "", "100"},
	})

	motors, err := ImportMotors(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, motors, 1)
	assert.Equal(t, "АИР80В2", motors[0].Name)
	assert.InDelta(t, 2.2, motors[0].PowerKW, 1e-9)
	assert.Equal(t, 3000, motors[0].RPM)
	assert.InDelta(t, 4500, motors[0].PricePerUnit, 1e-9)
	assert.True(t, motors[0].IsActive)
}

func TestImportBearings(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Обозначение", "Цена"},
		{"6305-2RS", "350,00"},
		{"", "100"},
	})

	bearings, err := ImportBearings(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, bearings, 1)
	assert.Equal(t, "6305-2RS", bearings[0].Designation)
	assert.InDelta(t, 350, bearings[0].PricePerUnit, 1e-9)
}

func TestImportWires(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Марка", "Сечение", "Цена за метр"},
		{"ПЭТВ-2", "1,25", "90"},
		{"Без сечения", "", "60"},
	})

	wires, err := ImportWires(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, wires, 1)
	assert.Equal(t, "ПЭТВ-2", wires[0].Brand)
	assert.InDelta(t, 1.25, wires[0].CrossSection, 1e-9)
}

func TestImportCounterparties(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Наименование в программе", "ИНН", "Телефон"},
		{"ООО Ромашка", "7701234567", "+7 900 000-00-00"},
		{"ИП Иванов", "", ""},
		{"", "123", ""},
	})

	counterparties, err := ImportCounterparties(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, counterparties, 2)
	assert.Equal(t, "7701234567", counterparties[0].INN)
	assert.Empty(t, counterparties[1].INN)
}

func TestImportUpdDocuments(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Дата", "Документ", "Контрагент"},
		{"15.03.2025 10:30:00", "УПД-42", "ООО Ромашка"},
		{"", "УПД-43", ""},
	})

	documents, err := ImportUpdDocuments(wb, testLogger())
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "УПД-42", documents[0].DocumentName)
	assert.Equal(t, "ООО Ромашка", documents[0].CounterpartyName)
	assert.Contains(t, documents[0].DocumentDate, "2025-03-15")
}

func TestImportUpdDocuments_MissingColumns(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"Дата", "Документ"},
		{"15.03.2025", "УПД-42"},
	})

	_, err := ImportUpdDocuments(wb, testLogger())
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"counterparty"}, missing.Columns)
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.56", 1234.56, true},
		{"1 234,56", 1234.56, true},
		{"-1 250,50", -1250.50, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := parseMoney(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestParseDocumentDate(t *testing.T) {
	assert.Contains(t, parseDocumentDate("15.03.2025 10:30:00"), "2025-03-15T10:30:00")
	assert.Contains(t, parseDocumentDate("15.03.2025"), "2025-03-15")
	assert.Empty(t, parseDocumentDate("когда-нибудь"))
	assert.Empty(t, parseDocumentDate(""))
}
