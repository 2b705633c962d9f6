package openinghours

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Weekday int

const (
	Montag Weekday = iota
	Dienstag
	Mittwoch
	Donnerstag
	Freitag
	Samstag
	Sonntag
)

var weekdayNames = [7]string{
	"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag",
}

// Weekdays lists every day in canonical order.
var Weekdays = [7]Weekday{Montag, Dienstag, Mittwoch, Donnerstag, Freitag, Samstag, Sonntag}

func (d Weekday) String() string {
	if d < Montag || d > Sonntag {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// LookupWeekday matches the exact (case-sensitive) german weekday name.
func LookupWeekday(name string) (Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), true
		}
	}
	return 0, false
}

type DayStatus int

const (
	// no rule touched the day
	StatusClosed DayStatus = iota
	// at least one time slot was understood
	StatusParsed
	// the rule's times could not be understood and were copied as-is
	StatusVerbatim
)

func (s DayStatus) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusParsed:
		return "parsed"
	case StatusVerbatim:
		return "verbatim"
	}
	return fmt.Sprintf("DayStatus(%d)", int(s))
}

// Schedule holds the value of each weekday, indexed by Weekday.
type Schedule [7]string

func (s Schedule) Get(day Weekday) string {
	return s[day]
}

func encodeString(buf *bytes.Buffer, value string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(value)
	if err != nil {
		return err
	}
	// Encode always terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// MarshalJSON writes the days as an object in canonical weekday order, using
// the `", "` and `": "` separators of the existing CSV exports.
func (s Schedule) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('{')
	for i, day := range Weekdays {
		if i > 0 {
			buf.WriteString(", ")
		}
		err := encodeString(buf, day.String())
		if err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		err = encodeString(buf, s[day])
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var days map[string]string
	err := json.Unmarshal(data, &days)
	if err != nil {
		return err
	}
	if len(days) != len(Weekdays) {
		return fmt.Errorf("schedule: expected %d days, got %d", len(Weekdays), len(days))
	}
	var out Schedule
	for name, value := range days {
		day, ok := LookupWeekday(name)
		if !ok {
			return fmt.Errorf("schedule: unknown day %q", name)
		}
		out[day] = value
	}
	*s = out
	return nil
}

func (s Schedule) String() string {
	out, err := s.MarshalJSON()
	if err != nil {
		// only strings are encoded, this cannot fail
		panic(err)
	}
	return string(out)
}
