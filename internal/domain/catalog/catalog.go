// Package catalog holds the reference entities staff substitute into repair
// cards: bearings, motors, wire and individual employees. Each entity knows
// how to render the card label and unique-key fragment for a given quantity,
// so the naming conventions live next to the data they describe.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/remcenter/repairdesk-backend/internal/domain/repair"
)

// Bearing is a replacement bearing priced per piece.
type Bearing struct {
	ID           string    `json:"id"`
	Designation  string    `json:"designation"`
	PricePerUnit float64   `json:"price_per_unit"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemLabel renders the card label for a bearing replacement of qty pieces.
func (b Bearing) ItemLabel(qty float64) string {
	return fmt.Sprintf("Замена подшипника %s (%s шт)", b.Designation, repair.FormatQuantity(qty))
}

// KeyFragment is the descriptive part of the unique key.
func (b Bearing) KeyFragment(qty float64) string {
	return fmt.Sprintf("%s-%spcs", slug(b.Designation), repair.FormatQuantity(qty))
}

// Motor is an electric motor priced per piece.
type Motor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PowerKW      float64   `json:"power_kw"`
	RPM          int       `json:"rpm"`
	PricePerUnit float64   `json:"price_per_unit"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m Motor) ItemLabel(qty float64) string {
	return fmt.Sprintf("Ремонт электродвигателя %s %sкВт*%d об/мин (%s шт)",
		m.Name, repair.FormatQuantity(m.PowerKW), m.RPM, repair.FormatQuantity(qty))
}

func (m Motor) KeyFragment(qty float64) string {
	return fmt.Sprintf("%s-%skw-%drpm-%spcs",
		slug(m.Name), repair.FormatQuantity(m.PowerKW), m.RPM, repair.FormatQuantity(qty))
}

// Wire is winding wire priced per meter; quantity on wire cards is a length.
type Wire struct {
	ID            string    `json:"id"`
	Brand         string    `json:"brand"`
	CrossSection  float64   `json:"cross_section"`
	PricePerMeter float64   `json:"price_per_meter"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (w Wire) ItemLabel(length float64) string {
	return fmt.Sprintf("%s %s мм² (%s м)",
		w.Brand, repair.FormatQuantity(w.CrossSection), repair.FormatQuantity(length))
}

func (w Wire) KeyFragment(length float64) string {
	return fmt.Sprintf("%s-%smm-%sm",
		slug(w.Brand), repair.FormatQuantity(w.CrossSection), repair.FormatQuantity(length))
}

// IndividualEmployee is a worker with a personal hourly rate; quantity on
// labor cards is an hour count.
type IndividualEmployee struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	JobTitle    string    `json:"job_title"`
	HourlyRate  float64   `json:"hourly_rate"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e IndividualEmployee) ItemLabel(hours float64) string {
	return repair.LaborName(e.FullName, hours)
}

func (e IndividualEmployee) KeyFragment(hours float64) string {
	return fmt.Sprintf("%s-%sh", slug(e.FullName), repair.FormatQuantity(hours))
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
