package allocation

import (
	"fmt"
	"math"
	"time"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/domain/grouping"
	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// EditPrice sets a new revenue on one item of a position, preserving the
// item's prior VAT split ratios, and recomputes the position totals.
func (b *Board) EditPrice(positionID, itemID string, newRevenue float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.find(positionID)
	if pos == nil {
		return ErrPositionNotFound
	}
	for i := range pos.Items {
		if pos.Items[i].ID == itemID {
			pos.Items[i].SetRevenue(newRevenue)
			pos.recalc()
			return nil
		}
	}
	return ErrItemNotFound
}

// EditLaborHours changes the hour count on a labor card. The hourly rate is
// derived from the current revenue and the hour count embedded in the name;
// the new revenue is rate × hours, expense-signed and VAT-exempt, and the
// name is rewritten with the new count. Items that are not labor cards, or
// whose name does not parse, are left unchanged.
func (b *Board) EditLaborHours(positionID, itemID string, newHours float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.find(positionID)
	if pos == nil {
		return ErrPositionNotFound
	}
	for i := range pos.Items {
		it := &pos.Items[i]
		if it.ID != itemID {
			continue
		}
		if !repair.IsLaborCard(*it) {
			return nil
		}
		_, oldHours, ok := repair.ParseLaborName(it.PositionName)
		if !ok || oldHours <= 0 {
			return nil
		}
		rate := math.Abs(it.Revenue) / oldHours
		if rate <= 0 {
			return nil
		}

		it.SetRevenueExempt(-(rate * newHours))
		it.PositionName = repair.SetLaborHours(it.PositionName, newHours)
		it.Analytics8 = repair.SetLaborHours(it.Analytics8, newHours)
		it.Quantity = newHours
		pos.recalc()
		return nil
	}
	return ErrItemNotFound
}

// Substitution sign rules, one explicit rule per catalog category: bearings
// and motors follow the item's stored income/expense type; wire and labor
// always produce expense-signed revenue, labor additionally VAT-exempt.

// SubstituteBearing replaces the descriptive identity of every grouped item
// in the position with the bearing's, repricing from the item's existing
// quantity. Item ids and position membership are untouched.
func (b *Board) SubstituteBearing(positionID string, g grouping.Group, bearing catalog.Bearing) error {
	return b.substitute(positionID, g, func(it *repair.RepairItem) {
		qty := it.Quantity
		amount := bearing.PricePerUnit * qty
		revenue := amount
		if it.IncomeExpenseType == repair.TypeExpense {
			revenue = -amount
		}
		it.Revenue = revenue
		it.SumWithoutVAT, it.VATAmount = repair.DefaultSplit(revenue)
		applyIdentity(it, bearing.ItemLabel(qty), bearing.KeyFragment(qty), repair.CategoryBearing)
	})
}

// SubstituteMotor replaces grouped items with a motor's identity, repricing
// from the existing quantity.
func (b *Board) SubstituteMotor(positionID string, g grouping.Group, motor catalog.Motor) error {
	return b.substitute(positionID, g, func(it *repair.RepairItem) {
		qty := it.Quantity
		amount := motor.PricePerUnit * qty
		revenue := amount
		if it.IncomeExpenseType == repair.TypeExpense {
			revenue = -amount
		}
		it.Revenue = revenue
		it.SumWithoutVAT, it.VATAmount = repair.DefaultSplit(revenue)
		applyIdentity(it, motor.ItemLabel(qty), motor.KeyFragment(qty), repair.CategoryMotor)
	})
}

// SubstituteWire replaces grouped items with a wire's identity. Wire carries
// an explicit new length that overrides the existing quantity, and is always
// expense-signed.
func (b *Board) SubstituteWire(positionID string, g grouping.Group, wire catalog.Wire, length float64) error {
	return b.substitute(positionID, g, func(it *repair.RepairItem) {
		revenue := -(wire.PricePerMeter * length)
		it.Revenue = revenue
		it.SumWithoutVAT, it.VATAmount = repair.DefaultSplit(revenue)
		it.Quantity = length
		applyIdentity(it, wire.ItemLabel(length), wire.KeyFragment(length), repair.CategoryWire)
	})
}

// SubstituteEmployee replaces grouped items with an employee's identity at an
// explicit new hour count. Labor is expense-signed and VAT-exempt.
func (b *Board) SubstituteEmployee(positionID string, g grouping.Group, employee catalog.IndividualEmployee, hours float64) error {
	return b.substitute(positionID, g, func(it *repair.RepairItem) {
		it.SetRevenueExempt(-(employee.HourlyRate * hours))
		it.Quantity = hours
		applyIdentity(it, employee.ItemLabel(hours), employee.KeyFragment(hours), repair.CategoryLabor)
	})
}

func (b *Board) substitute(positionID string, g grouping.Group, apply func(*repair.RepairItem)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.find(positionID)
	if pos == nil {
		return ErrPositionNotFound
	}

	touched := false
	for i := range pos.Items {
		if containsID(g.GroupedIDs, pos.Items[i].ID) {
			apply(&pos.Items[i])
			touched = true
		}
	}
	if !touched {
		return ErrEmptyGroup
	}
	pos.recalc()
	return nil
}

// applyIdentity rewrites the descriptive fields of an item for a new catalog
// identity, keeping the item id.
func applyIdentity(it *repair.RepairItem, label, keyFragment string, category repair.Category) {
	it.PositionName = repair.AppendIDSuffix(label, it.ID)
	it.Analytics8 = label
	it.UniqueKey = it.ID + "-" + keyFragment
	it.Category = category
}

// ManualItemInput describes a brand-new item entered by hand.
type ManualItemInput struct {
	Name        string
	Price       float64
	Quantity    float64
	Type        repair.IncomeExpenseType
	Description string
	WorkType    string
	Document    string
}

// AddManualItem synthesizes a new goods item with the fixed default VAT
// split and appends it to the given position. A non-empty work type must be
// unique within the position.
func (b *Board) AddManualItem(positionID string, input ManualItemInput) (repair.RepairItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.find(positionID)
	if pos == nil {
		return repair.RepairItem{}, ErrPositionNotFound
	}
	if input.WorkType != "" && pos.HasWorkType(input.WorkType) {
		return repair.RepairItem{}, ErrDuplicateWorkType
	}

	it := newManualItem(input)
	pos.Items = append(pos.Items, it)
	pos.recalc()
	return it, nil
}

// AddManualItemToPool synthesizes a new goods item into the pool.
func (b *Board) AddManualItemToPool(input ManualItemInput) repair.RepairItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	it := newManualItem(input)
	b.pool = append(b.pool, it)
	return it
}

func newManualItem(input ManualItemInput) repair.RepairItem {
	id := repair.NewItemID("manual")
	amount := input.Price * input.Quantity
	revenue := amount
	if input.Type == repair.TypeExpense {
		revenue = -amount
	}
	withoutVAT, vat := repair.DefaultSplit(revenue)

	now := time.Now()
	it := repair.RepairItem{
		ID:                id,
		IncomeExpenseType: input.Type,
		Revenue:           revenue,
		SumWithoutVAT:     withoutVAT,
		VATAmount:         vat,
		Quantity:          input.Quantity,
		WorkType:          input.WorkType,
		SalaryGoods:       "Товары",
		Category:          repair.CategoryGoods,
		Year:              now.Year(),
		Month:             int(now.Month()),
		Quarter:           quarterOf(now),
		Date:              now.Format("2006-01-02"),
		Analytics1:        input.Document,
		Analytics2:        input.Description,
	}
	it.Rename(input.Name)
	return it
}

// AddBearingItem creates a pool item for a bearing replacement.
func (b *Board) AddBearingItem(bearing catalog.Bearing, qty float64, document string) repair.RepairItem {
	revenue := -(bearing.PricePerUnit * qty)
	return b.addCatalogItem("bearing", bearing.ItemLabel(qty), bearing.KeyFragment(qty),
		repair.CategoryBearing, "Товары", revenue, qty, document, false)
}

// AddMotorItem creates a pool item for a motor repair (income-signed).
func (b *Board) AddMotorItem(motor catalog.Motor, qty float64, document string) repair.RepairItem {
	revenue := motor.PricePerUnit * qty
	return b.addCatalogItem("motor", motor.ItemLabel(qty), motor.KeyFragment(qty),
		repair.CategoryMotor, "Товары", revenue, qty, document, false)
}

// AddWireItem creates a pool item for a wire run of the given length.
func (b *Board) AddWireItem(wire catalog.Wire, length float64, document string) repair.RepairItem {
	revenue := -(wire.PricePerMeter * length)
	return b.addCatalogItem("wire", wire.ItemLabel(length), wire.KeyFragment(length),
		repair.CategoryWire, "Провода", revenue, length, document, false)
}

// AddEmployeeItem creates a pool labor card for an employee and hour count.
func (b *Board) AddEmployeeItem(employee catalog.IndividualEmployee, hours float64, document string) repair.RepairItem {
	revenue := -(employee.HourlyRate * hours)
	return b.addCatalogItem("emp", employee.ItemLabel(hours), employee.KeyFragment(hours),
		repair.CategoryLabor, "Зарплата", revenue, hours, document, true)
}

func (b *Board) addCatalogItem(idPrefix, label, keyFragment string, category repair.Category,
	salaryGoods string, revenue, qty float64, document string, vatExempt bool) repair.RepairItem {

	b.mu.Lock()
	defer b.mu.Unlock()

	id := repair.NewItemID(idPrefix)
	typ := repair.TypeExpense
	if revenue >= 0 {
		typ = repair.TypeIncome
	}

	it := repair.RepairItem{
		ID:                id,
		PositionName:      repair.AppendIDSuffix(label, id),
		IncomeExpenseType: typ,
		Quantity:          qty,
		SalaryGoods:       salaryGoods,
		Category:          category,
		UniqueKey:         id + "-" + keyFragment,
		Analytics1:        document,
		Analytics8:        label,
	}
	if vatExempt {
		it.SetRevenueExempt(revenue)
	} else {
		it.Revenue = revenue
		it.SumWithoutVAT, it.VATAmount = repair.DefaultSplit(revenue)
	}

	b.pool = append(b.pool, it)
	return it
}

func quarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}
