package importer

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// itemColumns maps the ledger export headers. Only the label, the
// income/expense marker and the revenue are mandatory; everything else is
// pass-through detail.
var itemRequiredColumns = map[string][]string{
	"name":    {"Аналитика 8", "Наименование", "Позиция"},
	"type":    {"Доходы/Расходы", "Тип"},
	"revenue": {"Выручка", "Сумма"},
}

// ImportItems parses a ledger export into repair items. Rows with an
// unknown income/expense marker or an unparseable revenue cell are skipped
// with a warning; items get fresh ids and a consistent VAT split.
func ImportItems(r io.Reader, logger *slog.Logger) ([]repair.RepairItem, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(itemRequiredColumns)
	if err != nil {
		return nil, err
	}

	colSumWithoutVAT := s.columnIndex("Сумма без НДС")
	colVAT := s.columnIndex("НДС", "Сумма НДС")
	colQuantity := s.columnIndex("Количество")
	colWorkType := s.columnIndex("Вид работ")
	colSalaryGoods := s.columnIndex("Зарплата/Товары", "Зарплата")
	colYear := s.columnIndex("Год")
	colMonth := s.columnIndex("Месяц")
	colQuarter := s.columnIndex("Квартал")
	colDate := s.columnIndex("Дата")
	colDebit := s.columnIndex("Счет Дт")
	colCredit := s.columnIndex("Счет Кт")
	analytics := make([]int, 7)
	for i := range analytics {
		analytics[i] = s.columnIndex("Аналитика " + strconv.Itoa(i+1))
	}

	var items []repair.RepairItem
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 2

		name := cell(row, required["name"])
		if name == "" {
			logger.Warn("skipping row without item name", "row", rowNum)
			continue
		}

		ieType := repair.IncomeExpenseType(cell(row, required["type"]))
		if !ieType.Valid() {
			logger.Warn("skipping row with unknown income/expense type",
				"row", rowNum, "value", string(ieType))
			continue
		}

		revenue, err := parseMoney(cell(row, required["revenue"]))
		if err != nil {
			logger.Warn("skipping row with bad revenue cell", "row", rowNum, "error", err)
			continue
		}

		id := repair.NewItemID("imported")
		base := repair.BaseName(name)
		item := repair.RepairItem{
			ID:                id,
			PositionName:      repair.AppendIDSuffix(base, id),
			IncomeExpenseType: ieType,
			Revenue:           revenue,
			Quantity:          1,
			WorkType:          cell(row, colWorkType),
			SalaryGoods:       cell(row, colSalaryGoods),
			UniqueKey:         repair.MakeUniqueKey(id, base),
			Date:              cell(row, colDate),
			Quarter:           cell(row, colQuarter),
			DebitAccount:      cell(row, colDebit),
			CreditAccount:     cell(row, colCredit),
			Analytics8:        base,
		}
		item.Category = repair.Classify(item)

		if qty, err := parseOptionalMoney(cell(row, colQuantity)); err == nil && qty > 0 {
			item.Quantity = qty
		}
		if year, err := strconv.Atoi(cell(row, colYear)); err == nil {
			item.Year = year
		}
		if month, err := strconv.Atoi(cell(row, colMonth)); err == nil {
			item.Month = month
		}

		sumWithoutVAT, errSum := parseOptionalMoney(cell(row, colSumWithoutVAT))
		vat, errVAT := parseOptionalMoney(cell(row, colVAT))
		if errSum == nil && errVAT == nil && (sumWithoutVAT != 0 || vat != 0) {
			item.SumWithoutVAT = sumWithoutVAT
			item.VATAmount = vat
		}
		if !item.SplitConsistent() {
			item.SumWithoutVAT, item.VATAmount = repair.DefaultSplit(revenue)
		}

		extra := [7]*string{
			&item.Analytics1, &item.Analytics2, &item.Analytics3, &item.Analytics4,
			&item.Analytics5, &item.Analytics6, &item.Analytics7,
		}
		for j, col := range analytics {
			*extra[j] = cell(row, col)
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrNoRecords
	}
	return items, nil
}
