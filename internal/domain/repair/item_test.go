package repair_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips uuid-style suffix", "Замена подшипника X_ID_abc-123", "Замена подшипника X"},
		{"strips numeric suffix", "Замена подшипника X_ID_1", "Замена подшипника X"},
		{"no suffix unchanged", "Замена подшипника X", "Замена подшипника X"},
		{"suffix not at end unchanged", "X_ID_1 again", "X_ID_1 again"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repair.BaseName(tt.input))
		})
	}
}

func TestBaseName_Idempotent(t *testing.T) {
	inputs := []string{
		"Замена подшипника 6204 (2 шт)_ID_abc",
		"plain name",
		"_ID_x",
		"Оплата труда иванов (5 ч)_ID_9",
	}
	for _, in := range inputs {
		once := repair.BaseName(in)
		assert.Equal(t, once, repair.BaseName(once), "input %q", in)
	}
}

func TestAppendIDSuffix_NeverStacks(t *testing.T) {
	name := repair.AppendIDSuffix("Ремонт", "id1")
	assert.Equal(t, "Ремонт_ID_id1", name)

	renamed := repair.AppendIDSuffix(name, "id2")
	assert.Equal(t, "Ремонт_ID_id2", renamed)
}

func TestParseLaborName(t *testing.T) {
	t.Run("parses cyrillic employee and integer hours", func(t *testing.T) {
		employee, hours, ok := repair.ParseLaborName("Оплата труда иванов (5 ч)_ID_9")
		require.True(t, ok)
		assert.Equal(t, "иванов", employee)
		assert.Equal(t, 5.0, hours)
	})

	t.Run("parses fractional hours", func(t *testing.T) {
		_, hours, ok := repair.ParseLaborName("Оплата труда петров п.п. (2.5 ч)")
		require.True(t, ok)
		assert.Equal(t, 2.5, hours)
	})

	t.Run("rejects non-labor names", func(t *testing.T) {
		_, _, ok := repair.ParseLaborName("Замена подшипника 6204 (2 шт)")
		assert.False(t, ok)
	})
}

func TestSetLaborHours_SymmetricWithParse(t *testing.T) {
	name := "Оплата труда иванов (5 ч)_ID_9"
	updated := repair.SetLaborHours(name, 8)

	assert.Contains(t, updated, "(8 ч)")
	assert.True(t, strings.HasSuffix(updated, "_ID_9"))

	_, hours, ok := repair.ParseLaborName(updated)
	require.True(t, ok)
	assert.Equal(t, 8.0, hours)
}

func TestSetRevenue(t *testing.T) {
	t.Run("preserves custom ratio", func(t *testing.T) {
		it := repair.RepairItem{Revenue: 1000, SumWithoutVAT: 800, VATAmount: 200}
		it.SetRevenue(500)

		assert.InDelta(t, 500.0, it.Revenue, repair.Epsilon)
		assert.InDelta(t, 400.0, it.SumWithoutVAT, repair.Epsilon)
		assert.InDelta(t, 100.0, it.VATAmount, repair.Epsilon)
	})

	t.Run("preserves non-default ratio", func(t *testing.T) {
		it := repair.RepairItem{Revenue: 1000, SumWithoutVAT: 1000, VATAmount: 0}
		it.SetRevenue(250)

		assert.InDelta(t, 250.0, it.SumWithoutVAT, repair.Epsilon)
		assert.InDelta(t, 0.0, it.VATAmount, repair.Epsilon)
	})

	t.Run("falls back to default split on zero prior revenue", func(t *testing.T) {
		it := repair.RepairItem{}
		it.SetRevenue(100)

		assert.InDelta(t, 80.0, it.SumWithoutVAT, repair.Epsilon)
		assert.InDelta(t, 20.0, it.VATAmount, repair.Epsilon)
	})

	t.Run("split stays consistent", func(t *testing.T) {
		it := repair.RepairItem{Revenue: -333.33, SumWithoutVAT: -266.664, VATAmount: -66.666}
		it.SetRevenue(-127.5)
		assert.True(t, it.SplitConsistent())
	})
}

func TestRename(t *testing.T) {
	it := repair.RepairItem{ID: "abc", PositionName: "Старое имя_ID_abc", Analytics8: "Старое имя"}
	it.Rename("Новое имя")

	assert.Equal(t, "Новое имя_ID_abc", it.PositionName)
	assert.Equal(t, "Новое имя", it.Analytics8)
	assert.Equal(t, "abc-новое-имя", it.UniqueKey)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		item     repair.RepairItem
		expected repair.Category
	}{
		{
			"explicit category wins",
			repair.RepairItem{Category: repair.CategoryMotor, PositionName: "Замена подшипника"},
			repair.CategoryMotor,
		},
		{
			"legacy bearing by name",
			repair.RepairItem{PositionName: "Замена подшипника 6204_ID_1"},
			repair.CategoryBearing,
		},
		{
			"legacy motor by name",
			repair.RepairItem{PositionName: "Ремонт электродвигателя АИР_ID_2"},
			repair.CategoryMotor,
		},
		{
			"legacy wire by salary-goods tag",
			repair.RepairItem{PositionName: "ПЭТВ-2 1.32 мм²_ID_3", SalaryGoods: "Провода"},
			repair.CategoryWire,
		},
		{
			"legacy labor by salary-goods tag",
			repair.RepairItem{PositionName: "Оплата труда иванов (5 ч)_ID_4", SalaryGoods: "Зарплата"},
			repair.CategoryLabor,
		},
		{
			"plain goods",
			repair.RepairItem{PositionName: "Крыльчатка_ID_5", SalaryGoods: "Товары"},
			repair.CategoryGoods,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repair.Classify(tt.item))
		})
	}
}

func TestCategory_CopiesFromPool(t *testing.T) {
	assert.True(t, repair.CategoryLabor.CopiesFromPool())
	assert.True(t, repair.CategoryWire.CopiesFromPool())
	assert.False(t, repair.CategoryBearing.CopiesFromPool())
	assert.False(t, repair.CategoryMotor.CopiesFromPool())
	assert.False(t, repair.CategoryGoods.CopiesFromPool())
}

func TestIsLaborCard(t *testing.T) {
	labor := repair.RepairItem{
		PositionName:      "Оплата труда иванов (5 ч)_ID_9",
		IncomeExpenseType: repair.TypeExpense,
		SalaryGoods:       "Зарплата",
	}
	assert.True(t, repair.IsLaborCard(labor))

	incomeTyped := labor
	incomeTyped.IncomeExpenseType = repair.TypeIncome
	assert.False(t, repair.IsLaborCard(incomeTyped))

	notSalary := labor
	notSalary.SalaryGoods = "Товары"
	assert.False(t, repair.IsLaborCard(notSalary))
}

func TestCalculateTotals(t *testing.T) {
	items := []repair.RepairItem{
		{Revenue: 1000, IncomeExpenseType: repair.TypeIncome},
		{Revenue: -300, IncomeExpenseType: repair.TypeExpense},
		{Revenue: -200, IncomeExpenseType: repair.TypeExpense},
	}

	totals := repair.CalculateTotals(items)

	assert.InDelta(t, 500.0, totals.TotalPrice, repair.Epsilon)
	assert.InDelta(t, 1000.0, totals.TotalIncome, repair.Epsilon)
	assert.InDelta(t, 500.0, totals.TotalExpense, repair.Epsilon)
}

func TestCalculateTotals_Empty(t *testing.T) {
	totals := repair.CalculateTotals(nil)
	assert.Zero(t, totals.TotalPrice)
	assert.Zero(t, totals.TotalIncome)
	assert.Zero(t, totals.TotalExpense)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "5", repair.FormatQuantity(5))
	assert.Equal(t, "2.5", repair.FormatQuantity(2.5))
	assert.Equal(t, "0.125", repair.FormatQuantity(0.125))
}
