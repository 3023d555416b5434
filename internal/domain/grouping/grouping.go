// Package grouping collapses flat item collections into similarity groups for
// display and selection. Groups are always recomputed from the live item
// collection and never cached, so grouped ids cannot go stale after a move.
package grouping

import (
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// Group is a transient aggregation of items sharing a base name and
// income/expense type. GroupedIDs reference items in whatever collection the
// group was computed from; resolving them back may yield a partial group if
// items have since moved.
type Group struct {
	ID                string                   `json:"id"`
	PositionName      string                   `json:"positionName"`
	IncomeExpenseType repair.IncomeExpenseType `json:"incomeExpenseType"`
	GroupedIDs        []string                 `json:"groupedIds"`
	Quantity          float64                  `json:"quantity"`
	Revenue           float64                  `json:"revenue"`
	SumWithoutVAT     float64                  `json:"sumWithoutVAT"`
	VATAmount         float64                  `json:"vatAmount"`
	WorkType          string                   `json:"workType"`
	SalaryGoods       string                   `json:"salaryGoods"`
	Analytics8        string                   `json:"analytics8"`
}

// BaseName is the similarity key of an item name: the name with its trailing
// id suffix stripped.
func BaseName(name string) string {
	return repair.BaseName(name)
}

type groupKey struct {
	base string
	typ  repair.IncomeExpenseType
}

// GroupByBaseName partitions items by (base name, income/expense type).
// Output order is the order of first occurrence in the input, which makes the
// result deterministic for identical input. The representative fields of a
// group come from its first item.
func GroupByBaseName(items []repair.RepairItem) []Group {
	var order []groupKey
	byKey := make(map[groupKey]*Group)

	for _, it := range items {
		key := groupKey{base: BaseName(it.PositionName), typ: it.IncomeExpenseType}
		g, exists := byKey[key]
		if !exists {
			g = &Group{
				ID:                it.ID,
				PositionName:      it.PositionName,
				IncomeExpenseType: it.IncomeExpenseType,
				WorkType:          it.WorkType,
				SalaryGoods:       it.SalaryGoods,
				Analytics8:        it.Analytics8,
			}
			byKey[key] = g
			order = append(order, key)
		}
		g.GroupedIDs = append(g.GroupedIDs, it.ID)
		g.Quantity += it.Quantity
		g.Revenue += it.Revenue
		g.SumWithoutVAT += it.SumWithoutVAT
		g.VATAmount += it.VATAmount
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// Ungroup resolves a group back to live items by filtering source for the
// group's ids, preserving source order. A result shorter than GroupedIDs
// means some items no longer live in source; callers treat that as a partial
// group, not an error.
func Ungroup(g Group, source []repair.RepairItem) []repair.RepairItem {
	ids := make(map[string]bool, len(g.GroupedIDs))
	for _, id := range g.GroupedIDs {
		ids[id] = true
	}

	var items []repair.RepairItem
	for _, it := range source {
		if ids[it.ID] {
			items = append(items, it)
		}
	}
	return items
}
