package events

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cityscrape/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("cityscrape.lib.scrapers.events")

const (
	DefaultBaseUrl  = "https://tourismus.saarbruecken.de"
	DefaultInterval = time.Second
)

// StartURL lists every event from today until the end of next year.
func StartURL(baseUrl string, now time.Time) string {
	return fmt.Sprintf(
		"%s/events?fav_list=&q=&category=&range_date=%s+-+31.12.%d",
		strings.TrimSuffix(baseUrl, "/"),
		now.Format("02.01.2006"),
		now.Year()+1,
	)
}

type Options struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// stop after this many events, 0 means no limit
	MaxEvents int
	// minimum time between two requests
	Interval         time.Duration
	BrowserTransport bool
	Output           restyutil.InstrumentOutput
}

type Scraper struct {
	list      *resty.Client
	detail    *resty.Client
	baseUrl   string
	maxEvents int
}

func NewScraper(opts Options) (Scraper, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	clientOpts := restyutil.ClientOptions{
		BaseUrl:          opts.BaseUrl,
		Interval:         opts.Interval,
		BrowserTransport: opts.BrowserTransport,
		Tracer:           tracer,
		Output:           opts.Output,
	}
	list, err := restyutil.NewClient(clientOpts)
	if err != nil {
		return Scraper{}, err
	}
	clientOpts.NoRedirects = true
	detail, err := restyutil.NewClient(clientOpts)
	if err != nil {
		return Scraper{}, err
	}
	return Scraper{
		list:      list,
		detail:    detail,
		baseUrl:   opts.BaseUrl,
		maxEvents: opts.MaxEvents,
	}, nil
}

func normalize(link string) string {
	normalized, err := purell.NormalizeURLString(
		link,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	if err != nil {
		return link
	}
	return normalized
}

// detail pages answer moved events with a redirect, those keep the
// fields from the list page
func acceptable(status int) bool {
	return (status >= 200 && status < 300) ||
		status == http.StatusMovedPermanently ||
		status == http.StatusFound
}

func fetch(ctx context.Context, client *resty.Client, link string) (*goquery.Document, *url.URL, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, nil, err
	}
	if !acceptable(res.StatusCode()) {
		return nil, nil, fmt.Errorf("get %s: http status %d", link, res.StatusCode())
	}
	page := res.RawResponse.Request.URL
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, nil, err
	}
	return doc, page, nil
}

type crawl struct {
	Scraper
	visited map[string]struct{}
	events  []Event
}

func (c *crawl) visit(link string) bool {
	key := normalize(link)
	if _, ok := c.visited[key]; ok {
		return false
	}
	c.visited[key] = struct{}{}
	return true
}

func (c *crawl) full() bool {
	return c.maxEvents > 0 && len(c.events) >= c.maxEvents
}

func (c *crawl) scrapeDetail(ctx context.Context, event Event) {
	ctx, span := tracer.Start(ctx, "scrapeDetail")
	defer span.End()
	span.SetAttributes(attribute.String("url", event.URL))

	doc, page, err := fetch(ctx, c.detail, event.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		slog.WarnContext(ctx, "failed to fetch event", "url", event.URL, "err", err)
		return
	}
	ParseDetail(doc, page, &event)

	if event.Name == "" {
		slog.WarnContext(ctx, "event has no name, skipping", "url", event.URL)
		return
	}
	slog.DebugContext(ctx, "scraped event", "name", event.Name, "url", event.URL)
	c.events = append(c.events, event)
}

// Run follows the list pages starting at today's listing and scrapes the
// detail page of every event. The events collected so far are returned
// together with the error if the context is cancelled.
func (s Scraper) Run(ctx context.Context, now time.Time) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	c := &crawl{Scraper: s, visited: map[string]struct{}{}}
	next := StartURL(s.baseUrl, now)
	for next != "" && !c.full() {
		if err := ctx.Err(); err != nil {
			return c.events, err
		}
		if !c.visit(next) {
			slog.DebugContext(ctx, "list page already visited", "url", next)
			break
		}

		doc, page, err := fetch(ctx, s.list, next)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch list page", "url", next, "err", err)
			break
		}
		items, nextPage := ParseList(doc, page)
		slog.InfoContext(ctx, "parsed list page", "url", next, "events", len(items), "total", len(c.events))

		for _, item := range items {
			if c.full() {
				break
			}
			if err := ctx.Err(); err != nil {
				return c.events, err
			}
			if item.URL == "" || !c.visit(item.URL) {
				continue
			}
			c.scrapeDetail(ctx, item)
		}
		next = nextPage
	}

	span.SetAttributes(attribute.Int("events", len(c.events)))
	return c.events, nil
}
