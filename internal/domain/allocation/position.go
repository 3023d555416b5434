package allocation

import (
	"github.com/google/uuid"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// DefaultServiceLabel is the placeholder shown on a freshly created position
// until staff type a service name.
const DefaultServiceLabel = "Нажмите для ввода услуги"

// Position is a priced, numbered work order: an ordered set of repair items
// with totals derived from them. PositionNumber is a display ordering that is
// re-normalized to a dense 1..N after inserts, deletes and reorders; it is
// not a stored identity.
type Position struct {
	ID             string              `json:"id"`
	OriginalID     string              `json:"originalId,omitempty"`
	Service        string              `json:"service"`
	PositionNumber int                 `json:"positionNumber"`
	Items          []repair.RepairItem `json:"items"`
	repair.Totals
}

func newPosition(service string, number int, items []repair.RepairItem) Position {
	if service == "" {
		service = DefaultServiceLabel
	}
	return Position{
		ID:             "position-" + uuid.NewString(),
		Service:        service,
		PositionNumber: number,
		Items:          items,
		Totals:         repair.CalculateTotals(items),
	}
}

// recalc re-derives the totals from the current item list.
func (p *Position) recalc() {
	p.Totals = repair.CalculateTotals(p.Items)
}

// hasItem reports whether the position currently holds the item id.
func (p *Position) hasItem(id string) bool {
	for _, it := range p.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// HasWorkType reports whether any item in the position carries the work type.
func (p *Position) HasWorkType(workType string) bool {
	for _, it := range p.Items {
		if it.WorkType == workType {
			return true
		}
	}
	return false
}

// clone returns a deep copy of the position.
func (p Position) clone() Position {
	items := make([]repair.RepairItem, len(p.Items))
	copy(items, p.Items)
	p.Items = items
	return p
}
