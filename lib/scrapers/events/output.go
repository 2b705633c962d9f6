package events

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"cityscrape/lib/timezone"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

func WriteJSON(w io.Writer, events []Event) error {
	if events == nil {
		events = []Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(events)
}

// FileName is the name of the json output, runs with a limit are marked as
// test runs.
func FileName(maxEvents int, at time.Time) string {
	if maxEvents > 0 {
		return fmt.Sprintf("saarbruecken_events_TEST_%d_items_%s.json", maxEvents, timezone.Timestamp(at))
	}
	return fmt.Sprintf("saarbruecken_events_%s.json", timezone.Timestamp(at))
}

var (
	dateRegex = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)
	timeRegex = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Start finds the first date in Datum, with the time following it if there
// is one. allDay is true if only the date is known.
func (e Event) Start() (start time.Time, allDay bool, ok bool) {
	loc := dateRegex.FindStringSubmatchIndex(e.Datum)
	if loc == nil {
		return time.Time{}, false, false
	}
	day, err := time.ParseInLocation("02.01.2006", e.Datum[loc[2]:loc[3]], timezone.Location)
	if err != nil {
		return time.Time{}, false, false
	}

	clock := timeRegex.FindStringSubmatch(e.Datum[loc[1]:])
	if clock == nil {
		return day, true, true
	}
	hour, _ := strconv.Atoi(clock[1])
	minute, _ := strconv.Atoi(clock[2])
	if hour > 23 || minute > 59 {
		return day, true, true
	}
	start = time.Date(
		day.Year(), day.Month(), day.Day(),
		hour, minute, 0, 0,
		timezone.Location,
	)
	return start, false, true
}

// UID is stable for the detail page so reimports update the same event.
func (e Event) UID() string {
	key := e.URL
	if key == "" {
		key = e.Name + "|" + e.Datum
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// WriteICS writes every event with a recognizable date as a VEVENT and
// returns how many were written.
func WriteICS(w io.Writer, events []Event, now time.Time) (int, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//cityscrape//saarbruecken events//DE")
	cal.SetXWRCalName("Saarbrücken Events")
	cal.SetXWRTimezone(timezone.Location.String())

	written := 0
	for _, e := range events {
		start, allDay, ok := e.Start()
		if !ok {
			continue
		}
		vevent := cal.AddEvent(e.UID())
		vevent.SetDtStampTime(now)
		if allDay {
			vevent.SetAllDayStartAt(start)
		} else {
			vevent.SetStartAt(start)
		}
		vevent.SetSummary(e.Name)
		if e.Ort != "" {
			vevent.SetLocation(e.Ort)
		}
		if e.Beschreibung != "" {
			vevent.SetDescription(e.Beschreibung)
		}
		if e.URL != "" {
			vevent.SetURL(e.URL)
		}
		written++
	}

	_, err := io.WriteString(w, cal.Serialize())
	return written, err
}
