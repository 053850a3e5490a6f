package merge

import (
	"regexp"
	"strconv"
	"strings"
)

// Column widths merged values must stay within.
const (
	MaxQuantityLen = 80
	MaxNotesLen    = 2000
)

var quantityPattern = regexp.MustCompile(`^([0-9.,]+)\s*(\p{L}+)?$`)

// parseQuantity splits a quantity like "2", "1,5 kg" or "100g" into a number
// and an optional unit. Decimal commas are accepted.
func parseQuantity(raw string) (value float64, unit string, ok bool) {
	match := quantityPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0, "", false
	}
	return value, strings.ToLower(match[2]), true
}

func formatNumber(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Quantities combines a group of quantity strings. The whole group decides
// the rule: when every non-empty entry parses as a number and all units
// agree (no unit counts as a unit), the numbers are summed; failing that,
// entries that are all plain numbers are summed; anything else joins the
// non-empty entries with " + ". The result never exceeds MaxQuantityLen
// runes.
func Quantities(quantities []string) string {
	var qs []string
	for _, q := range quantities {
		if q = strings.TrimSpace(q); q != "" {
			qs = append(qs, q)
		}
	}
	if len(qs) == 0 {
		return ""
	}
	if len(qs) == 1 {
		return clampQuantity(qs[0])
	}

	var (
		total  float64
		unit   string
		parsed = true
	)
	for i, q := range qs {
		value, u, ok := parseQuantity(q)
		if !ok || (i > 0 && u != unit) {
			parsed = false
			break
		}
		unit = u
		total += value
	}
	if parsed {
		sum := formatNumber(total)
		if unit != "" {
			sum += " " + unit
		}
		return clampQuantity(sum)
	}

	total = 0
	for _, q := range qs {
		value, err := strconv.ParseFloat(strings.ReplaceAll(q, ",", "."), 64)
		if err != nil {
			return clampQuantity(strings.Join(qs, " + "))
		}
		total += value
	}
	return clampQuantity(formatNumber(total))
}

func clampQuantity(q string) string {
	return clampRunes(q, MaxQuantityLen)
}

// Notes joins a group of notes fields with " ; ", skipping blank entries.
func Notes(notes []string) string {
	var parts []string
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return clampRunes(strings.Join(parts, " ; "), MaxNotesLen)
}

func clampRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
