// Package repair defines the line-item entity of the repair desk and the
// derivation rules that keep its computed fields consistent: the VAT split,
// the generated display name with its trailing id suffix, and the unique
// rendering key.
package repair

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IncomeExpenseType drives sign conventions for revenue and totals.
// The values match the imported ledger data verbatim.
type IncomeExpenseType string

const (
	TypeIncome  IncomeExpenseType = "Доходы"
	TypeExpense IncomeExpenseType = "Расходы"
)

// Valid reports whether t is one of the two known types.
func (t IncomeExpenseType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// RepairItem is one billable line. Revenue is the source of truth for money;
// SumWithoutVAT and VATAmount are derived and must satisfy
// SumWithoutVAT + VATAmount == Revenue within floating rounding.
type RepairItem struct {
	ID                string            `json:"id"`
	PositionName      string            `json:"positionName"`
	IncomeExpenseType IncomeExpenseType `json:"incomeExpenseType"`
	Revenue           float64           `json:"revenue"`
	SumWithoutVAT     float64           `json:"sumWithoutVAT"`
	VATAmount         float64           `json:"vatAmount"`
	Quantity          float64           `json:"quantity"`
	WorkType          string            `json:"workType"`
	SalaryGoods       string            `json:"salaryGoods"`
	UniqueKey         string            `json:"uniqueKey"`
	Category          Category          `json:"category,omitempty"`

	// Accounting pass-through fields copied from the import source.
	Year          int    `json:"year,omitempty"`
	Month         int    `json:"month,omitempty"`
	Quarter       string `json:"quarter,omitempty"`
	Date          string `json:"date,omitempty"`
	DebitAccount  string `json:"debitAccount,omitempty"`
	CreditAccount string `json:"creditAccount,omitempty"`

	// Opaque analytics columns. Analytics1 carries the source document name,
	// Analytics8 mirrors the human label shown on cards (PositionName minus
	// the id suffix).
	Analytics1 string `json:"analytics1"`
	Analytics2 string `json:"analytics2"`
	Analytics3 string `json:"analytics3"`
	Analytics4 string `json:"analytics4"`
	Analytics5 string `json:"analytics5"`
	Analytics6 string `json:"analytics6"`
	Analytics7 string `json:"analytics7"`
	Analytics8 string `json:"analytics8"`
}

// NewItemID returns a fresh item id. The prefix records what created the item
// ("manual", "cloned", "bearing", ...) and is purely diagnostic; uniqueness
// comes from the UUID.
func NewItemID(prefix string) string {
	if prefix == "" {
		prefix = "item"
	}
	return prefix + "-" + uuid.NewString()
}

// MakeUniqueKey builds the human-diffable list identity for an item from its
// id and descriptive label. It must be regenerated whenever the label changes.
func MakeUniqueKey(id, label string) string {
	return id + "-" + slugify(label)
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Rename points the item at a new base label, keeping the id suffix, the
// card label mirror and the unique key in sync. Money fields are untouched.
func (it *RepairItem) Rename(baseLabel string) {
	it.PositionName = AppendIDSuffix(baseLabel, it.ID)
	it.Analytics8 = baseLabel
	it.UniqueKey = MakeUniqueKey(it.ID, baseLabel)
}

// FormatQuantity renders a quantity the way card labels embed it: integers
// without a decimal point, fractions as-is.
func FormatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}
