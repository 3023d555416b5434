package grouping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcenter/repairdesk-backend/internal/domain/grouping"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

func item(id, name string, typ repair.IncomeExpenseType, revenue, qty float64) repair.RepairItem {
	return repair.RepairItem{
		ID:                id,
		PositionName:      name,
		IncomeExpenseType: typ,
		Revenue:           revenue,
		Quantity:          qty,
	}
}

func TestGroupByBaseName(t *testing.T) {
	items := []repair.RepairItem{
		item("1", "Замена подшипника X_ID_1", repair.TypeExpense, -100, 1),
		item("2", "Замена подшипника X_ID_2", repair.TypeExpense, -100, 1),
		item("3", "Замена подшипника X_ID_3", repair.TypeIncome, 250, 1),
		item("4", "Ремонт статора_ID_4", repair.TypeIncome, 500, 2),
	}

	groups := grouping.GroupByBaseName(items)
	require.Len(t, groups, 3)

	// Same base name, opposite types form separate groups.
	expense := groups[0]
	assert.Equal(t, []string{"1", "2"}, expense.GroupedIDs)
	assert.Equal(t, repair.TypeExpense, expense.IncomeExpenseType)
	assert.InDelta(t, -200.0, expense.Revenue, repair.Epsilon)
	assert.InDelta(t, 2.0, expense.Quantity, repair.Epsilon)

	income := groups[1]
	assert.Equal(t, []string{"3"}, income.GroupedIDs)
	assert.Equal(t, repair.TypeIncome, income.IncomeExpenseType)

	other := groups[2]
	assert.Equal(t, []string{"4"}, other.GroupedIDs)
}

func TestGroupByBaseName_Deterministic(t *testing.T) {
	items := []repair.RepairItem{
		item("b", "Б_ID_b", repair.TypeIncome, 1, 1),
		item("a", "А_ID_a", repair.TypeIncome, 1, 1),
		item("b2", "Б_ID_b2", repair.TypeIncome, 1, 1),
	}

	first := grouping.GroupByBaseName(items)
	second := grouping.GroupByBaseName(items)
	assert.Equal(t, first, second)

	// First-occurrence order.
	require.Len(t, first, 2)
	assert.Equal(t, "b", first[0].ID)
	assert.Equal(t, "a", first[1].ID)
}

func TestGroupByBaseName_Empty(t *testing.T) {
	assert.Empty(t, grouping.GroupByBaseName(nil))
}

func TestUngroup_RoundTrip(t *testing.T) {
	items := []repair.RepairItem{
		item("1", "Замена подшипника X_ID_1", repair.TypeExpense, -100, 1),
		item("2", "Замена подшипника X_ID_2", repair.TypeExpense, -100, 1),
		item("3", "Ремонт статора_ID_3", repair.TypeIncome, 500, 1),
	}

	groups := grouping.GroupByBaseName(items)
	for _, g := range groups {
		resolved := grouping.Ungroup(g, items)

		var want []string
		for _, it := range items {
			if grouping.BaseName(it.PositionName) == grouping.BaseName(g.PositionName) &&
				it.IncomeExpenseType == g.IncomeExpenseType {
				want = append(want, it.ID)
			}
		}

		var got []string
		for _, it := range resolved {
			got = append(got, it.ID)
		}
		assert.ElementsMatch(t, want, got)
	}
}

func TestUngroup_PartialGroup(t *testing.T) {
	items := []repair.RepairItem{
		item("1", "X_ID_1", repair.TypeExpense, -100, 1),
		item("2", "X_ID_2", repair.TypeExpense, -100, 1),
	}
	groups := grouping.GroupByBaseName(items)
	require.Len(t, groups, 1)

	// One item has since moved elsewhere.
	shrunk := items[:1]
	resolved := grouping.Ungroup(groups[0], shrunk)

	require.Len(t, resolved, 1)
	assert.Equal(t, "1", resolved[0].ID)
}

func TestUngroup_EmptySource(t *testing.T) {
	g := grouping.Group{GroupedIDs: []string{"1", "2"}}
	assert.Empty(t, grouping.Ungroup(g, nil))
}
