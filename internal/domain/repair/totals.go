package repair

import "math"

// Totals is the income/expense/price rollup of an item set. TotalPrice is
// signed, so expenses subtract naturally; TotalExpense is reported as a
// positive magnitude even though expense revenue is stored negative.
type Totals struct {
	TotalPrice   float64 `json:"totalPrice"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
}

// CalculateTotals recomputes the rollup from scratch. It is re-run after
// every structural or value mutation; totals are never patched incrementally.
func CalculateTotals(items []RepairItem) Totals {
	var t Totals
	for _, it := range items {
		t.TotalPrice += it.Revenue
		switch it.IncomeExpenseType {
		case TypeIncome:
			t.TotalIncome += it.Revenue
		case TypeExpense:
			t.TotalExpense += math.Abs(it.Revenue)
		}
	}
	return t
}

// Add combines two rollups (used for the global header summary).
func (t Totals) Add(o Totals) Totals {
	return Totals{
		TotalPrice:   t.TotalPrice + o.TotalPrice,
		TotalIncome:  t.TotalIncome + o.TotalIncome,
		TotalExpense: t.TotalExpense + o.TotalExpense,
	}
}
