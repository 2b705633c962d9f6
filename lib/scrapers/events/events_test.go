package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"cityscrape/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	ics "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) []byte {
	contents, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return contents
}

func parseFixture(t testing.TB, name string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(readFixture(t, name)))
	require.NoError(t, err)
	return doc
}

func mustParse(t testing.TB, link string) *url.URL {
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u
}

func TestStartURL(t *testing.T) {
	now := time.Date(2025, 7, 12, 9, 0, 0, 0, timezone.Location)
	require.Equal(
		t,
		"https://tourismus.saarbruecken.de/events?fav_list=&q=&category=&range_date=12.07.2025+-+31.12.2026",
		StartURL(DefaultBaseUrl+"/", now),
	)
}

func TestParseList(t *testing.T) {
	page := mustParse(t, "https://tourismus.saarbruecken.de/events?page=1")
	events, next := ParseList(parseFixture(t, "list_1.html"), page)

	require.Equal(t, "https://tourismus.saarbruecken.de/events?page=2", next)
	require.Len(t, events, 5)
	require.Equal(t, Event{
		URL:   "https://tourismus.saarbruecken.de/event/altstadtfest",
		Name:  "Altstadtfest",
		Art:   "Fest",
		Ort:   "St. Johanner Markt",
		Datum: "Sa, 12.07.2025",
	}, events[0])
	require.Equal(t, "So, 13.07.2025", events[1].Datum)
	require.Equal(t, "Jazz im Park", events[1].Name)
	require.Equal(t, "", events[2].Art)
	require.Equal(t, "", events[4].URL)

	_, next = ParseList(parseFixture(t, "detail.html"), page)
	require.Equal(t, "", next)
}

func TestParseDetail(t *testing.T) {
	page := mustParse(t, "https://tourismus.saarbruecken.de/event/altstadtfest")
	event := Event{URL: page.String(), Name: "Altstadtfest", Art: "Fest"}
	ParseDetail(parseFixture(t, "detail.html"), page, &event)

	expected := Event{
		URL:              "https://tourismus.saarbruecken.de/event/altstadtfest",
		Name:             "Altstadtfest 2025",
		Art:              "Fest und Musik",
		Ort:              "St. Johanner Markt\n66111 Saarbrücken",
		Datum:            "Sa, 12.07.2025 20:00 Uhr",
		Telefon:          "0681 938090",
		Website:          "https://tourismus.saarbruecken.de/altstadtfest",
		Bild:             "https://tourismus.saarbruecken.de/media/altstadtfest.jpg",
		Beschreibung:     "Drei Tage Musik in der Altstadt.\n\nProgramm",
		Ticketvorverkauf: "12 €",
	}
	if diff := cmp.Diff(expected, event); diff != "" {
		t.Fatal(diff)
	}

	event = Event{Name: "Kino"}
	ParseDetail(parseFixture(t, "detail_interchange.html"), page, &event)
	require.Equal(t, "Sommerkino", event.Name)
	require.Equal(t, "https://cdn.example/kino-small.jpg", event.Bild)
	require.Equal(t, "", event.Beschreibung)
}

type eventServer struct {
	*httptest.Server
	lock     sync.Mutex
	requests []string
}

func (s *eventServer) requested() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.requests...)
}

func newEventServer(t *testing.T) *eventServer {
	pages := map[string][]byte{
		"/event/altstadtfest": readFixture(t, "detail.html"),
		"/event/kino":         readFixture(t, "detail_interchange.html"),
		"/event/unnamed":      []byte("<html><body><p>Nichts</p></body></html>"),
	}
	list1 := readFixture(t, "list_1.html")
	list2 := readFixture(t, "list_2.html")

	srv := &eventServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.lock.Lock()
		srv.requests = append(srv.requests, r.URL.RequestURI())
		srv.lock.Unlock()

		switch r.URL.Path {
		case "/events":
			if r.URL.Query().Get("page") == "2" {
				w.Write(list2)
				return
			}
			if r.URL.Query().Get("range_date") != "12.07.2025 - 31.12.2026" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write(list1)
		case "/event/jazz":
			w.Header().Set("location", "/events/archiv")
			w.WriteHeader(http.StatusFound)
		default:
			page, ok := pages[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write(page)
		}
	}))
	return srv
}

var runTime = time.Date(2025, 7, 12, 9, 0, 0, 0, timezone.Location)

func TestRun(t *testing.T) {
	srv := newEventServer(t)
	defer srv.Close()

	scraper, err := NewScraper(Options{BaseUrl: srv.URL})
	require.NoError(t, err)

	events, err := scraper.Run(context.Background(), runTime)
	require.NoError(t, err)

	names := []string{}
	for _, e := range events {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"Altstadtfest 2025", "Jazz im Park", "Sommerkino"}, names)

	// redirected detail pages keep what the list showed
	require.Equal(t, Event{
		URL:   srv.URL + "/event/jazz",
		Name:  "Jazz im Park",
		Art:   "Konzert",
		Ort:   "Ludwigspark",
		Datum: "So, 13.07.2025",
	}, events[1])
	require.Equal(t, srv.URL+"/altstadtfest", events[0].Website)

	requests := srv.requested()
	require.NotContains(t, requests, "/events/archiv")
	altstadtfest := 0
	for _, r := range requests {
		if strings.HasPrefix(r, "/event/altstadtfest") {
			altstadtfest++
		}
	}
	require.Equal(t, 1, altstadtfest)
}

type transcripts struct {
	lock     sync.Mutex
	messages []string
}

func (o *transcripts) Write(id, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages = append(o.messages, contents)
}

func TestRunWithTranscripts(t *testing.T) {
	srv := newEventServer(t)
	defer srv.Close()

	output := &transcripts{}
	scraper, err := NewScraper(Options{BaseUrl: srv.URL, Output: output})
	require.NoError(t, err)

	events, err := scraper.Run(context.Background(), runTime)
	require.NoError(t, err)
	require.Len(t, events, 3)

	require.Len(t, output.messages, len(srv.requested()))
	redirect := false
	for _, transcript := range output.messages {
		require.Contains(t, transcript, "---- REQUEST ----")
		if strings.Contains(transcript, "302 Found") {
			require.Contains(t, transcript, "-> /events/archiv")
			redirect = true
		}
	}
	require.True(t, redirect)
}

func TestRunMaxEvents(t *testing.T) {
	srv := newEventServer(t)
	defer srv.Close()

	scraper, err := NewScraper(Options{BaseUrl: srv.URL, MaxEvents: 1})
	require.NoError(t, err)

	events, err := scraper.Run(context.Background(), runTime)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Altstadtfest 2025", events[0].Name)

	for _, r := range srv.requested() {
		require.NotEqual(t, "/events?page=2", r)
		require.NotEqual(t, "/event/jazz", r)
	}
}

func TestRunCancelled(t *testing.T) {
	srv := newEventServer(t)
	defer srv.Close()

	scraper, err := NewScraper(Options{BaseUrl: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events, err := scraper.Run(ctx, runTime)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, events)
	require.Empty(t, srv.requested())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	require.Equal(t, "[]\n", buf.String())

	buf.Reset()
	err := WriteJSON(&buf, []Event{{URL: "https://x", Name: "Kunst & Kultur", Ort: "Saarbrücken"}})
	require.NoError(t, err)
	expected := `[
    {
        "Name": "Kunst & Kultur",
        "Art": "",
        "Ort": "Saarbrücken",
        "Datum": "",
        "Telefon": "",
        "Website": "",
        "Bild": "",
        "Beschreibung": "",
        "Ticketvorverkauf": ""
    }
]
`
	require.Equal(t, expected, buf.String())

	var decoded []Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "", decoded[0].URL)
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	require.Equal(t, "saarbruecken_events_20250701_100000.json", FileName(0, at))
	require.Equal(t, "saarbruecken_events_TEST_30_items_20250701_100000.json", FileName(30, at))
}

func TestStart(t *testing.T) {
	cases := []struct {
		datum  string
		start  time.Time
		allDay bool
		ok     bool
	}{
		{
			datum: "Sa, 12.07.2025 20:00 Uhr",
			start: time.Date(2025, 7, 12, 20, 0, 0, 0, timezone.Location),
			ok:    true,
		},
		{
			datum: "12.07.2025 - 14.07.2025, 9:30 Uhr",
			start: time.Date(2025, 7, 12, 9, 30, 0, 0, timezone.Location),
			ok:    true,
		},
		{
			datum:  "So, 13.07.2025",
			start:  time.Date(2025, 7, 13, 0, 0, 0, 0, timezone.Location),
			allDay: true,
			ok:     true,
		},
		{datum: "ganzjährig"},
		{datum: "31.02.2025"},
	}

	for _, test := range cases {
		start, allDay, ok := Event{Datum: test.datum}.Start()
		require.Equal(t, test.ok, ok, test.datum)
		require.Equal(t, test.allDay, allDay, test.datum)
		require.True(t, test.start.Equal(start), test.datum)
	}
}

func TestWriteICS(t *testing.T) {
	events := []Event{
		{URL: "https://tourismus.saarbruecken.de/event/altstadtfest", Name: "Altstadtfest", Datum: "Sa, 12.07.2025 20:00 Uhr", Ort: "Markt"},
		{URL: "https://tourismus.saarbruecken.de/event/jazz", Name: "Jazz im Park", Datum: "So, 13.07.2025"},
		{Name: "Ohne Datum", Datum: "demnächst"},
	}

	var buf bytes.Buffer
	written, err := WriteICS(&buf, events, runTime)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 2)

	require.Equal(t, "20250712T180000Z", parsed[0].GetProperty(ics.ComponentPropertyDtStart).Value)
	require.Equal(t, "Altstadtfest", parsed[0].GetProperty(ics.ComponentPropertySummary).Value)
	require.Equal(
		t,
		uuid.NewSHA1(uuid.NameSpaceURL, []byte(events[0].URL)).String(),
		parsed[0].GetProperty(ics.ComponentPropertyUniqueId).Value,
	)
	require.Equal(t, "20250713", parsed[1].GetProperty(ics.ComponentPropertyDtStart).Value)
	require.Equal(t, events[1].UID(), Event{URL: events[1].URL, Name: "renamed"}.UID())
}
