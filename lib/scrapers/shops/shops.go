package shops

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"cityscrape/lib/htmlutil"
	"cityscrape/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("cityscrape.lib.scrapers.shops")

const (
	DefaultBaseUrl = "https://einkaufen.saarbruecken.de"
	DefaultPages   = 41
)

type Options struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to DefaultPages
	Pages int
	// minimum time between two requests
	Interval         time.Duration
	BrowserTransport bool
	Output           restyutil.InstrumentOutput
}

type Scraper struct {
	client *resty.Client
	base   *url.URL
	pages  int
}

func NewScraper(opts Options) (Scraper, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Pages <= 0 {
		opts.Pages = DefaultPages
	}
	base, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Scraper{}, err
	}
	client, err := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:          opts.BaseUrl,
		Interval:         opts.Interval,
		BrowserTransport: opts.BrowserTransport,
		Tracer:           tracer,
		Output:           opts.Output,
	})
	if err != nil {
		return Scraper{}, err
	}
	return Scraper{client: client, base: base, pages: opts.Pages}, nil
}

func (s Scraper) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s: http status %d", link, res.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// ScrapePage returns the absolute urls of the shop detail pages linked on a
// listing page.
func (s Scraper) ScrapePage(ctx context.Context, page int) ([]string, error) {
	ctx, span := tracer.Start(ctx, "ScrapePage")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	doc, err := s.fetch(ctx, fmt.Sprintf("/shopping?page=%d", page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}

	var links []string
	doc.Find("div.component-card-image-left").Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		links = append(links, htmlutil.Resolve(s.base, href))
	})
	return links, nil
}

func (s Scraper) ScrapeShop(ctx context.Context, link string) (Shop, error) {
	ctx, span := tracer.Start(ctx, "ScrapeShop")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	doc, err := s.fetch(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch shop")
		return Shop{}, err
	}
	shop := ParseShop(doc, s.base)
	shop.URL = link
	return shop, nil
}

// ScrapeAll walks every listing page and scrapes each linked shop. Pages
// and shops that fail are logged and skipped, only a cancelled context
// stops the scrape early.
func (s Scraper) ScrapeAll(ctx context.Context) ([]Shop, error) {
	ctx, span := tracer.Start(ctx, "ScrapeAll")
	defer span.End()

	var shops []Shop
	for page := 1; page <= s.pages; page++ {
		if err := ctx.Err(); err != nil {
			return shops, err
		}
		slog.InfoContext(ctx, "scraping page", "page", page)

		links, err := s.ScrapePage(ctx, page)
		if err != nil {
			slog.WarnContext(ctx, "failed to scrape page", "page", page, "err", err)
			continue
		}
		if len(links) == 0 {
			if page < s.pages {
				slog.WarnContext(ctx, "no shops on page before the last page", "page", page)
			} else {
				slog.InfoContext(ctx, "no shops on the last page", "page", page)
			}
		}

		for _, link := range links {
			shop, err := s.ScrapeShop(ctx, link)
			if err != nil {
				slog.WarnContext(ctx, "could not retrieve shop", "url", link, "err", err)
				continue
			}
			slog.DebugContext(ctx, "scraped shop", "name", shop.Name, "url", link)
			shops = append(shops, shop)
		}
	}

	span.SetAttributes(attribute.Int("shops", len(shops)))
	return shops, nil
}
