package repair

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Position names carry a synthetic "_ID_<token>" suffix so that items created
// from the same card can be told apart while still grouping by their base
// name. The suffix is the only piece of structured state encoded in the name
// that the grouping algorithm depends on; everything else on a card is a
// rendered view of the item's fields.

var idSuffixRe = regexp.MustCompile(`_ID_[a-zA-Z0-9-]+$`)

// BaseName strips the trailing id suffix from a position name, if present.
// Idempotent: BaseName(BaseName(s)) == BaseName(s).
func BaseName(name string) string {
	return idSuffixRe.ReplaceAllString(name, "")
}

// AppendIDSuffix attaches the id suffix to a base label. Any existing suffix
// is replaced, never stacked.
func AppendIDSuffix(base, id string) string {
	return BaseName(base) + "_ID_" + id
}

// Labor cards embed their hour count in the display name:
// "Оплата труда <имя> (<N> ч)". The pattern is read and written only through
// ParseLaborName / SetLaborHours so the two stay symmetric.

const laborMarker = "оплата труда"

var (
	laborNameRe  = regexp.MustCompile(`(?i)оплата труда (.+?) \((\d+(?:[.,]\d+)?)\s*ч\)`)
	laborHoursRe = regexp.MustCompile(`\((\d+(?:[.,]\d+)?)\s*ч\)`)
)

// ParseLaborName extracts the employee name and hour count from a labor card
// name. ok is false when the name does not follow the labor pattern.
func ParseLaborName(name string) (employee string, hours float64, ok bool) {
	m := laborNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	h, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], h, true
}

// SetLaborHours rewrites the embedded hour count in a labor card name,
// leaving the rest of the name untouched. Returns the name unchanged when no
// hour fragment is present.
func SetLaborHours(name string, hours float64) string {
	return laborHoursRe.ReplaceAllString(name, fmt.Sprintf("(%s ч)", FormatQuantity(hours)))
}

// LaborName builds a labor card label for an employee and hour count.
func LaborName(employee string, hours float64) string {
	return fmt.Sprintf("Оплата труда %s (%s ч)", strings.ToLower(employee), FormatQuantity(hours))
}
