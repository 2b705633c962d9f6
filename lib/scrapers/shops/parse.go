package shops

import (
	"net/url"
	"strings"

	"cityscrape/lib/htmlutil"
	"cityscrape/lib/openinghours"
	"cityscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Shop struct {
	// detail page the shop was scraped from, not part of the csv
	URL string

	Name                 string
	Kategorien           string
	Adresse              string
	Kontaktinformationen string
	Oeffnungszeiten      string
	WebsiteURL           string
	Beschreibung         string
	ImageSourceURLs      string
}

func trimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func parseName(doc *goquery.Selection) string {
	h1 := doc.Find("div.component-visit-top-bar").First().Find("h1").First()
	if h1.Length() > 0 {
		return trimmedText(h1)
	}

	label := doc.Find(".map-entry-data > div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return trimmedText(s) == "Name"
	}).First()
	strong := label.NextAllFiltered("div").First().Find("strong").First()
	if strong.Length() > 0 {
		return trimmedText(strong)
	}
	return textutil.Null
}

func parseCategories(doc *goquery.Selection) string {
	var categories []string
	doc.Find("div.goods").First().Find("div.component-tag").Each(func(_ int, tag *goquery.Selection) {
		text := trimmedText(tag.Find("a").First())
		if text != "" {
			categories = append(categories, text)
		}
	})
	return textutil.JoinOrNull(categories, ", ")
}

// entryValue returns the label and the <strong> value of a map entry row,
// ok is false if the row does not have both.
func entryValue(row *goquery.Selection) (label string, value *goquery.Selection, ok bool) {
	labelDiv := row.Find("div").First()
	if labelDiv.Length() == 0 {
		return "", nil, false
	}
	value = labelDiv.NextAllFiltered("div").First().Find("strong").First()
	if value.Length() == 0 {
		return "", nil, false
	}
	return trimmedText(labelDiv), value, true
}

func parseContact(doc *goquery.Selection, shop *Shop) {
	shop.Adresse = textutil.Null
	shop.Kontaktinformationen = textutil.Null
	shop.WebsiteURL = textutil.Null

	doc.Find(".map-holder .data-container .map-entry .map-entry-data").Each(func(_ int, row *goquery.Selection) {
		label, value, ok := entryValue(row)
		if !ok {
			return
		}
		text := trimmedText(value)
		link, hasLink := value.Find("a").First().Attr("href")
		switch label {
		case "Adresse":
			shop.Adresse = text
		case "Telefon":
			shop.Kontaktinformationen = text
			if hasLink {
				shop.Kontaktinformationen = strings.ReplaceAll(link, "tel:", "")
			}
		case "Website":
			shop.WebsiteURL = text
			if hasLink {
				shop.WebsiteURL = link
			}
		}
	})
}

// openingHoursText joins the rows of the first "Öffnungszeiten" entry into
// the "<day>: <times>; ..." form the normalizer expects.
func openingHoursText(doc *goquery.Selection) string {
	entry := doc.Find(".map-holder .data-container .map-entry").FilterFunction(func(_ int, s *goquery.Selection) bool {
		h2 := s.Find("h2").First()
		return h2.Length() > 0 && strings.Contains(h2.Text(), "Öffnungszeiten")
	}).First()

	var rules []string
	entry.Find("div.map-entry-data").Each(func(_ int, row *goquery.Selection) {
		day, value, ok := entryValue(row)
		if !ok {
			return
		}
		rules = append(rules, day+": "+trimmedText(value))
	})
	return textutil.JoinOrNull(rules, "; ")
}

func parseDescription(doc *goquery.Selection) string {
	cell := doc.Find("div.ump.grid-container.component-text").First().Find("div.cell.small-12").First()
	if cell.Length() == 0 {
		return textutil.Null
	}
	description := strings.Join(htmlutil.OwnTextParts(cell), " ")
	if description == "" {
		description = textutil.CollapseWhitespace(strings.Join(htmlutil.TextLines(cell), " "))
	}
	return textutil.OrNull(description)
}

func parseImages(doc *goquery.Selection, base *url.URL) string {
	var images []string
	doc.Find("div.component-company-detail").First().
		Find(`a[data-rel^="sb-lightbox:imageset"][href]`).
		Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			images = append(images, htmlutil.Resolve(base, href))
		})
	return textutil.JoinOrNull(images, ", ")
}

// ParseShop extracts a shop from its detail page, relative links are
// resolved against base. Fields that cannot be found are "null".
func ParseShop(doc *goquery.Document, base *url.URL) Shop {
	root := doc.Selection
	shop := Shop{
		Name:            parseName(root),
		Kategorien:      parseCategories(root),
		Oeffnungszeiten: openinghours.Normalize(openingHoursText(root)),
		Beschreibung:    parseDescription(root),
		ImageSourceURLs: parseImages(root, base),
	}
	parseContact(root, &shop)
	return shop
}
