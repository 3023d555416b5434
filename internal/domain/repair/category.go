package repair

import "strings"

// Category is the explicit classification of an item, set at creation time.
// Imported legacy rows arrive without it, so Classify falls back to the
// substring conventions the historical data encodes in its free-text fields.
// The substring checks live only here; all dispatch goes through Category.
type Category string

const (
	CategoryGoods   Category = "goods"
	CategoryBearing Category = "bearing"
	CategoryMotor   Category = "motor"
	CategoryWire    Category = "wire"
	CategoryLabor   Category = "labor"
)

// Legacy markers found in imported data.
const (
	markerBearing = "подшипника"
	markerMotor   = "двигателя"
	markerWire    = "провод"
	markerSalary  = "зарплата"
)

// Classify returns the item's category, deriving it from legacy text fields
// when the explicit field is unset.
func Classify(it RepairItem) Category {
	if it.Category != "" {
		return it.Category
	}
	name := strings.ToLower(it.PositionName)
	salaryGoods := strings.ToLower(it.SalaryGoods)
	switch {
	case strings.Contains(name, laborMarker) || strings.Contains(salaryGoods, markerSalary):
		return CategoryLabor
	case strings.Contains(name, markerWire) || strings.Contains(salaryGoods, markerWire):
		return CategoryWire
	case strings.Contains(name, markerBearing):
		return CategoryBearing
	case strings.Contains(name, markerMotor):
		return CategoryMotor
	default:
		return CategoryGoods
	}
}

// CopiesFromPool reports whether items of this category behave as reusable
// catalog templates when dragged out of the pool: they are duplicated into
// the target position and stay available in the pool.
func (c Category) CopiesFromPool() bool {
	return c == CategoryLabor || c == CategoryWire
}

// IsLaborCard reports whether the item is an editable labor card: labor
// marker in the name, expense-typed, and salary-classified.
func IsLaborCard(it RepairItem) bool {
	return strings.Contains(strings.ToLower(it.PositionName), laborMarker) &&
		it.IncomeExpenseType == TypeExpense &&
		strings.Contains(strings.ToLower(it.SalaryGoods), markerSalary)
}
