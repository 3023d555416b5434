// Package allocation owns the bipartition of repair items between the
// unallocated pool and the list of positions, and every operation that moves
// items across that boundary. Each operation runs under the board mutex and
// applies its pool and position writes as one transition computed from a
// single snapshot, so an item is always in exactly one place. Totals are
// recomputed from live items after every mutation, never maintained
// incrementally.
package allocation

import (
	"log/slog"
	"sync"

	"github.com/remcenter/repairdesk-backend/internal/domain/grouping"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// Board is the stateful allocation core.
type Board struct {
	mu         sync.Mutex
	pool       []repair.RepairItem
	positions  []Position
	nextNumber int
	logger     *slog.Logger
}

// NewBoard creates an empty board.
func NewBoard(logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{nextNumber: 1, logger: logger}
}

// Pool returns a copy of the unallocated items.
func (b *Board) Pool() []repair.RepairItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]repair.RepairItem, len(b.pool))
	copy(out, b.pool)
	return out
}

// Positions returns a deep copy of the current positions.
func (b *Board) Positions() []Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyPositions()
}

func (b *Board) copyPositions() []Position {
	out := make([]Position, len(b.positions))
	for i, p := range b.positions {
		out[i] = p.clone()
	}
	return out
}

// Position returns a copy of one position.
func (b *Board) Position(id string) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.find(id)
	if p == nil {
		return Position{}, ErrPositionNotFound
	}
	return p.clone(), nil
}

func (b *Board) find(id string) *Position {
	for i := range b.positions {
		if b.positions[i].ID == id {
			return &b.positions[i]
		}
	}
	return nil
}

// AddToPool appends items to the unallocated pool.
func (b *Board) AddToPool(items []repair.RepairItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pool = append(b.pool, items...)
}

// GroupedPool returns the pool collapsed into similarity groups, recomputed
// from the live pool on every call.
func (b *Board) GroupedPool() []grouping.Group {
	return grouping.GroupByBaseName(b.Pool())
}

// CreatePosition appends an empty position with the next sequential number.
func (b *Board) CreatePosition() Position {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := newPosition("", b.nextNumber, nil)
	b.positions = append(b.positions, p)
	b.nextNumber++
	b.logger.Debug("position created", "id", p.ID, "number", p.PositionNumber)
	return p.clone()
}

// CreatePositionsFromGroup fans a pool group out into one new single-item
// position per underlying item, numbered sequentially from the current max.
func (b *Board) CreatePositionsFromGroup(g grouping.Group) ([]Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := grouping.Ungroup(g, b.pool)
	if len(items) == 0 {
		return nil, ErrEmptyGroup
	}

	created := make([]Position, 0, len(items))
	for _, it := range items {
		p := newPosition(repair.BaseName(it.PositionName), b.nextNumber, []repair.RepairItem{it})
		created = append(created, p)
		b.nextNumber++
	}

	b.positions = append(b.positions, created...)
	b.pool = removeByID(b.pool, g.GroupedIDs)

	b.logger.Info("positions created from group", "base", repair.BaseName(g.PositionName), "count", len(created))
	return created, nil
}

// CreateCombinedPositionFromGroup aggregates every pool item matching the
// group's base name, regardless of income/expense type, into one new
// position.
func (b *Board) CreateCombinedPositionFromGroup(g grouping.Group) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := repair.BaseName(g.PositionName)
	var related []repair.RepairItem
	var relatedIDs []string
	for _, it := range b.pool {
		if repair.BaseName(it.PositionName) == base {
			related = append(related, it)
			relatedIDs = append(relatedIDs, it.ID)
		}
	}
	if len(related) == 0 {
		return Position{}, ErrEmptyGroup
	}

	p := newPosition(base, b.nextNumber, related)
	b.positions = append(b.positions, p)
	b.nextNumber++
	b.pool = removeByID(b.pool, relatedIDs)

	b.logger.Info("combined position created", "base", base, "items", len(related))
	return p.clone(), nil
}

// MoveToPosition moves the group's underlying items into the target
// position. When fromPositionID is set the items come out of that position;
// otherwise the group is resolved against the pool. Pool items whose category
// behaves as a reusable template (labor, wire) are copied rather than moved:
// the pool keeps the originals and the target receives duplicates under
// fresh ids, so every id still lives in exactly one place.
func (b *Board) MoveToPosition(g grouping.Group, fromPositionID, targetPositionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	target := b.find(targetPositionID)
	if target == nil {
		return ErrPositionNotFound
	}

	if fromPositionID != "" {
		source := b.find(fromPositionID)
		if source == nil {
			return ErrPositionNotFound
		}
		moved := grouping.Ungroup(g, source.Items)
		if len(moved) == 0 {
			return ErrEmptyGroup
		}
		source.Items = removeByID(source.Items, g.GroupedIDs)
		source.recalc()
		target.Items = append(target.Items, moved...)
		target.recalc()
		return nil
	}

	moved := grouping.Ungroup(g, b.pool)
	if len(moved) == 0 {
		return ErrEmptyGroup
	}

	category := repair.Classify(moved[0])
	if category.CopiesFromPool() {
		copies := make([]repair.RepairItem, len(moved))
		for i, it := range moved {
			copies[i] = duplicateItem(it)
		}
		target.Items = append(target.Items, copies...)
		b.logger.Debug("group copied from pool", "category", category, "items", len(copies))
	} else {
		target.Items = append(target.Items, moved...)
		b.pool = removeByID(b.pool, g.GroupedIDs)
	}
	target.recalc()
	return nil
}

// ReturnToPool removes the named items from a position and appends them to
// the pool. A position emptied by this operation is pruned from the list;
// the remaining positions keep their numbers (no renumbering on this path).
func (b *Board) ReturnToPool(positionID string, itemIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	source := b.find(positionID)
	if source == nil {
		return ErrPositionNotFound
	}

	var returned []repair.RepairItem
	for _, it := range source.Items {
		if containsID(itemIDs, it.ID) {
			returned = append(returned, it)
		}
	}
	if len(returned) == 0 {
		return ErrEmptyGroup
	}

	source.Items = removeByID(source.Items, itemIDs)
	source.recalc()
	b.pool = append(b.pool, returned...)

	if len(source.Items) == 0 {
		kept := b.positions[:0:0]
		for _, p := range b.positions {
			if len(p.Items) > 0 {
				kept = append(kept, p)
			}
		}
		b.positions = kept
	}
	return nil
}

// DeletePosition returns all of a position's items to the pool, removes the
// position and renumbers the remaining ones densely from 1.
func (b *Board) DeletePosition(positionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doomed := b.find(positionID)
	if doomed == nil {
		return ErrPositionNotFound
	}

	b.pool = append(b.pool, doomed.Items...)

	kept := make([]Position, 0, len(b.positions)-1)
	for _, p := range b.positions {
		if p.ID != positionID {
			kept = append(kept, p)
		}
	}
	b.positions = kept
	b.renumber()
	return nil
}

// ClonePosition duplicates a position's items under freshly generated ids
// with regenerated names and unique keys, inserts the clone right after the
// source and renumbers densely. The clone's service label is marked as a
// copy.
func (b *Board) ClonePosition(positionID string) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sourceIdx := -1
	for i, p := range b.positions {
		if p.ID == positionID {
			sourceIdx = i
			break
		}
	}
	if sourceIdx == -1 {
		return Position{}, ErrPositionNotFound
	}
	source := b.positions[sourceIdx]

	items := make([]repair.RepairItem, len(source.Items))
	for i, it := range source.Items {
		items[i] = duplicateItem(it)
	}

	cloned := newPosition(source.Service+" (копия)", 0, items)

	b.positions = append(b.positions, Position{})
	copy(b.positions[sourceIdx+2:], b.positions[sourceIdx+1:])
	b.positions[sourceIdx+1] = cloned
	b.renumber()

	b.logger.Info("position cloned", "source", positionID, "clone", cloned.ID)
	return b.positions[sourceIdx+1].clone(), nil
}

// ResizeGroupQuantity grows or shrinks the number of items a position holds
// for one similarity group. Growing pulls matching pool items (same base
// name and same income/expense type) and aborts when the pool cannot supply
// enough; shrinking returns items to the pool from the tail, balancing
// removals across income and expense sub-groups when the base name has both.
func (b *Board) ResizeGroupQuantity(positionID string, g grouping.Group, newCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.find(positionID)
	if pos == nil {
		return ErrPositionNotFound
	}

	current := len(g.GroupedIDs)
	base := repair.BaseName(g.PositionName)

	switch {
	case newCount > current:
		need := newCount - current
		var available []repair.RepairItem
		for _, it := range b.pool {
			if repair.BaseName(it.PositionName) == base && it.IncomeExpenseType == g.IncomeExpenseType {
				available = append(available, it)
			}
		}
		if len(available) < need {
			return &InsufficientItemsError{Requested: need, Available: len(available)}
		}

		moved := available[:need]
		movedIDs := make([]string, len(moved))
		for i, it := range moved {
			movedIDs[i] = it.ID
		}
		b.pool = removeByID(b.pool, movedIDs)
		pos.Items = append(pos.Items, moved...)
		pos.recalc()

	case newCount < current:
		removeCount := current - newCount

		var sameName, income, expense []repair.RepairItem
		for _, it := range pos.Items {
			if repair.BaseName(it.PositionName) == base {
				sameName = append(sameName, it)
				if it.IncomeExpenseType == repair.TypeIncome {
					income = append(income, it)
				} else {
					expense = append(expense, it)
				}
			}
		}

		var back []repair.RepairItem
		if len(income) > 0 && len(expense) > 0 {
			back = append(back, tail(income, removeCount)...)
			back = append(back, tail(expense, removeCount)...)
		} else {
			back = tail(sameName, removeCount)
		}

		backIDs := make([]string, len(back))
		for i, it := range back {
			backIDs[i] = it.ID
		}
		pos.Items = removeByID(pos.Items, backIDs)
		pos.recalc()
		b.pool = append(b.pool, back...)
	}

	return nil
}

// SetService updates a position's service label.
func (b *Board) SetService(positionID, service string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.find(positionID)
	if p == nil {
		return ErrPositionNotFound
	}
	p.Service = service
	return nil
}

// Reset clears the board completely.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pool = nil
	b.positions = nil
	b.nextNumber = 1
}

// Load replaces the board state with the given positions and pool, ordering
// positions by their stored numbers and renumbering densely. Totals are
// recomputed from the loaded items, never trusted from the stored headers.
func (b *Board) Load(positions []Position, pool []repair.RepairItem) {
	b.mu.Lock()
	defer b.mu.Unlock()

	loaded := make([]Position, len(positions))
	for i, p := range positions {
		loaded[i] = p.clone()
	}
	for i := range loaded {
		for j := i + 1; j < len(loaded); j++ {
			if loaded[j].PositionNumber < loaded[i].PositionNumber {
				loaded[i], loaded[j] = loaded[j], loaded[i]
			}
		}
	}
	for i := range loaded {
		loaded[i].recalc()
	}

	b.positions = loaded
	b.pool = make([]repair.RepairItem, len(pool))
	copy(b.pool, pool)
	b.renumber()
}

// Summary is the header rollup across the whole board.
type Summary struct {
	PositionCount   int     `json:"positionCount"`
	AllocatedItems  int     `json:"allocatedItems"`
	PoolItems       int     `json:"poolItems"`
	PoolGroups      int     `json:"poolGroups"`
	TotalValue      float64 `json:"totalValue"`
	TotalIncome     float64 `json:"totalIncome"`
	TotalExpense    float64 `json:"totalExpense"`
}

// Summarize recomputes the global rollup from the live state.
func (b *Board) Summarize() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Summary{
		PositionCount: len(b.positions),
		PoolItems:     len(b.pool),
		PoolGroups:    len(grouping.GroupByBaseName(b.pool)),
	}
	for _, p := range b.positions {
		s.AllocatedItems += len(p.Items)
		s.TotalValue += p.TotalPrice
		s.TotalIncome += p.TotalIncome
		s.TotalExpense += p.TotalExpense
	}
	return s
}

// renumber normalizes position numbers to a dense 1..N and resets the next
// sequential number accordingly.
func (b *Board) renumber() {
	for i := range b.positions {
		b.positions[i].PositionNumber = i + 1
	}
	b.nextNumber = len(b.positions) + 1
}

// duplicateItem copies an item under a fresh id, regenerating the name
// suffix and unique key and keeping everything else.
func duplicateItem(it repair.RepairItem) repair.RepairItem {
	dup := it
	dup.ID = repair.NewItemID("cloned")
	dup.PositionName = repair.AppendIDSuffix(repair.BaseName(it.PositionName), dup.ID)
	dup.UniqueKey = repair.MakeUniqueKey(dup.ID, it.Analytics8)
	return dup
}

func removeByID(items []repair.RepairItem, ids []string) []repair.RepairItem {
	out := items[:0:0]
	for _, it := range items {
		if !containsID(ids, it.ID) {
			out = append(out, it)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// tail returns the last n items of s (all of s when n >= len(s)).
func tail(s []repair.RepairItem, n int) []repair.RepairItem {
	if n >= len(s) {
		n = len(s)
	}
	return s[len(s)-n:]
}
