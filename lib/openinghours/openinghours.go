// Package openinghours turns the free-text opening hours found on shop pages
// (e.g. "Montag-Freitag: 9-18 Uhr; Samstag: 10-14 Uhr") into a fixed
// seven-day schedule.
//
// Parsing never fails: anything that cannot be understood degrades to either
// the closed marker or the verbatim text of the rule it came from.
package openinghours

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"
)

const (
	Closed         = "Geschlossen"
	nullMarker     = "null"
	notApplicable  = "N/A"
	slotDelimiter  = " & "
	slotJoiner     = " und "
	rangeSeparator = " - "
)

// applied one after another to the whole input before it is split into rules
var rewrites = [][2]string{
	{" Uhr", ""},
	{" bis ", "-"},
	{" und ", slotDelimiter},
}

var daySeparator = regexp.MustCompile(`[,-]`)

// Parse normalizes raw into a Schedule.
func Parse(raw string) Schedule {
	return ParseDetailed(raw).Schedule
}

// Normalize is Parse followed by serialization, this is the value written
// into the "Öffnungszeiten" column.
func Normalize(raw string) string {
	return Parse(raw).String()
}

// Result is a Schedule along with how each day's value was obtained.
type Result struct {
	Schedule Schedule
	Status   [7]DayStatus
}

func allClosed() Result {
	var r Result
	for i := range r.Schedule {
		r.Schedule[i] = Closed
	}
	return r
}

// ParseDetailed is Parse but it also reports, per day, whether the value
// was parsed, copied verbatim or left closed.
func ParseDetailed(raw string) Result {
	result := allClosed()
	if raw == "" || strings.ToLower(raw) == nullMarker || raw == notApplicable {
		return result
	}

	for _, rw := range rewrites {
		raw = strings.ReplaceAll(raw, rw[0], rw[1])
	}

	for _, rule := range strings.Split(raw, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		daysPart, timesPart, ok := splitRule(rule)
		if !ok {
			continue
		}

		times := parseTimes(timesPart)
		value, status := times.render()
		for _, day := range parseDays(daysPart) {
			result.Schedule[day] = value
			result.Status[day] = status
		}
	}

	return result
}

// splitRule splits "<days>: <times>" at the first colon. Any whitespace
// after the colon is skipped, line breaks included, and the times part ends
// at the next line break.
func splitRule(rule string) (days, times string, ok bool) {
	days, rest, found := strings.Cut(rule, ":")
	if !found || days == "" {
		return "", "", false
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return "", "", false
	}
	line, _, _ := strings.Cut(rest, "\n")
	return strings.TrimSpace(days), strings.TrimSpace(line), true
}

// outcome of parsing the times part of a single rule
type timesOutcome struct {
	slots []string
	// the unparsed times text, used when no slot could be parsed
	fallback string
}

func (t timesOutcome) render() (string, DayStatus) {
	if len(t.slots) > 0 {
		return strings.Join(t.slots, slotJoiner), StatusParsed
	}
	if t.fallback != "" {
		return t.fallback, StatusVerbatim
	}
	return Closed, StatusClosed
}

func parseTimes(timesPart string) timesOutcome {
	out := timesOutcome{fallback: timesPart}
	for _, slot := range strings.Split(timesPart, slotDelimiter) {
		start, end, ok := strings.Cut(slot, "-")
		if !ok {
			continue
		}
		startNorm, err := normalizeTime(start)
		if err != nil {
			continue
		}
		endNorm, err := normalizeTime(end)
		if err != nil {
			continue
		}
		out.slots = append(out.slots, startNorm+rangeSeparator+endNorm)
	}
	return out
}

// normalizeTime turns "9", "9.30" or "14" into "09:00", "09:30", "14:00".
func normalizeTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty time")
	}

	if strings.Contains(value, ".") {
		parts := strings.Split(value, ".")
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid time %q", value)
		}
		h, err := parseNumber(parts[0])
		if err != nil {
			return "", err
		}
		m, err := parseNumber(parts[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%02d:%02d", h, m), nil
	}

	h, err := parseNumber(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:00", h), nil
}

// parseNumber reads a decimal integer of any size with an optional sign.
// Digits may come from any script ("９", "١٠") and single underscores may
// separate them ("1_0").
func parseNumber(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	rest := value

	var digits strings.Builder
	if strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "-") {
		digits.WriteByte(rest[0])
		rest = rest[1:]
	}

	count := 0
	afterDigit := false
	for _, r := range rest {
		switch {
		case r == '_' && afterDigit:
			afterDigit = false
		case unicode.IsDigit(r):
			digits.WriteByte(byte('0' + digitValue(r)))
			afterDigit = true
			count++
		default:
			return nil, fmt.Errorf("invalid number %q", value)
		}
	}
	if count == 0 || !afterDigit {
		return nil, fmt.Errorf("invalid number %q", value)
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return n, nil
}

// decimal digits are laid out in runs of ten starting at zero, so the value
// is the distance to the start of the run
func digitValue(r rune) int {
	n := 0
	for unicode.IsDigit(r - rune(n) - 1) {
		n++
	}
	return n % 10
}

// parseDays expands a days part into the weekdays it selects.
//
// Only "A-B" with exactly two valid names in non-decreasing order is
// expanded as a range. Every other form (including a range inside a comma
// list such as "Montag, Dienstag-Freitag") selects just the tokens that are
// themselves weekday names.
func parseDays(daysPart string) []Weekday {
	tokens := daySeparator.Split(daysPart, -1)
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}

	if strings.Contains(daysPart, "-") && len(tokens) == 2 {
		start, startOk := LookupWeekday(tokens[0])
		end, endOk := LookupWeekday(tokens[1])
		if startOk && endOk && start <= end {
			days := make([]Weekday, 0, end-start+1)
			for d := start; d <= end; d++ {
				days = append(days, d)
			}
			return days
		}
	}

	var days []Weekday
	for _, t := range tokens {
		day, ok := LookupWeekday(t)
		if ok {
			days = append(days, day)
		}
	}
	return days
}
