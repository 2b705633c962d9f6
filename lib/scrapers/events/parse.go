package events

import (
	"net/url"
	"regexp"
	"strings"

	"cityscrape/lib/htmlutil"
	"cityscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Event struct {
	// detail page of the event, empty if the list entry had no link
	URL string `json:"-"`

	Name             string `json:"Name"`
	Art              string `json:"Art"`
	Ort              string `json:"Ort"`
	Datum            string `json:"Datum"`
	Telefon          string `json:"Telefon"`
	Website          string `json:"Website"`
	Bild             string `json:"Bild"`
	Beschreibung     string `json:"Beschreibung"`
	Ticketvorverkauf string `json:"Ticketvorverkauf"`
}

func iconText(item *goquery.Selection, icon string) string {
	span := item.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), icon)
	}).First()
	return htmlutil.FollowingText(span)
}

// ParseList returns the events of a list page with the fields shown in the
// list, and the absolute url of the next page or "" on the last page.
func ParseList(doc *goquery.Document, page *url.URL) ([]Event, string) {
	var events []Event
	doc.Find("div.event-item").Each(func(_ int, item *goquery.Selection) {
		event := Event{
			Name:  strings.TrimSpace(htmlutil.OwnText(item.Find("div.event-content h3").First())),
			Datum: textutil.CleanDate(htmlutil.OwnText(item.Find("div.event-date span.day").First())),
			Art:   iconText(item, "sb-movie-ticket"),
			Ort:   iconText(item, "sb-location"),
		}
		href, ok := item.Find("a.btn-wide").First().Attr("href")
		if ok && strings.TrimSpace(href) != "" {
			event.URL = htmlutil.Resolve(page, href)
		}
		events = append(events, event)
	})

	next := ""
	href, ok := doc.Find("li.next a").First().Attr("href")
	if ok && strings.TrimSpace(href) != "" {
		next = htmlutil.Resolve(page, href)
	}
	return events, next
}

var interchangeImage = regexp.MustCompile(`\[(https?://[^,]+),`)

func parseImage(doc *goquery.Document) string {
	for _, selector := range []string{`meta[name="og:image"]`, `meta[property="og:image"]`} {
		content, ok := doc.Find(selector).First().Attr("content")
		if ok && strings.TrimSpace(content) != "" {
			return content
		}
	}
	interchange, _ := doc.Find("div.thumbnail img").First().Attr("data-interchange")
	match := interchangeImage.FindStringSubmatch(interchange)
	if match != nil {
		return match[1]
	}
	return ""
}

// ParseDetail fills in event with what the detail page provides, fields
// the page does not have keep their value from the list page.
func ParseDetail(doc *goquery.Document, page *url.URL, event *Event) {
	name := strings.TrimSpace(htmlutil.OwnText(doc.Find("h1.headline").First()))
	if name != "" {
		event.Name = name
	}

	dts := doc.Find("dl.dl-horizontal dt")
	dds := doc.Find("dl.dl-horizontal dd")
	dts.Each(func(i int, dt *goquery.Selection) {
		if i >= dds.Length() {
			return
		}
		label := strings.TrimSpace(dt.Text())
		dd := dds.Eq(i)

		switch {
		case strings.Contains(label, "Art:"):
			if text := htmlutil.CollapsedText(dd); text != "" {
				event.Art = text
			}
		case strings.Contains(label, "Ort:"):
			if text := strings.Join(htmlutil.TextLines(dd), "\n"); text != "" {
				event.Ort = text
			}
		case strings.Contains(label, "Datum:"):
			if text := textutil.CleanDate(htmlutil.CollapsedText(dd)); text != "" {
				event.Datum = text
			}
		case strings.Contains(label, "Telefon:"):
			if text := strings.TrimSpace(dd.Find("a").First().Text()); text != "" {
				event.Telefon = text
			}
		case strings.Contains(label, "Internet:"):
			href, _ := dd.Find("a").First().Attr("href")
			if href = strings.TrimSpace(href); href != "" {
				event.Website = htmlutil.Resolve(page, href)
			}
		case strings.Contains(label, "Ticketvorverkauf:"):
			if text := htmlutil.CollapsedText(dd); text != "" {
				event.Ticketvorverkauf = text
			}
		}
	})

	if image := parseImage(doc); image != "" {
		event.Bild = htmlutil.Resolve(page, image)
	}

	var paragraphs []string
	doc.Find("section.cmp.content div.small-12.cell").Children().Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(htmlutil.GetText(s.Nodes[0]))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		event.Beschreibung = strings.Join(paragraphs, "\n\n")
	}
}
