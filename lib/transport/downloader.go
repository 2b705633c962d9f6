package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cityscrape/lib/scrapers/overpass"
	"cityscrape/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("cityscrape.lib.transport")

type Querier interface {
	Query(ctx context.Context, query string) ([]overpass.Element, error)
}

type Downloader struct {
	Client Querier
	Cities CitiesConfig
	// time waited between two overpass queries
	Pause time.Duration
}

func NewDownloader(client Querier, cities CitiesConfig) Downloader {
	return Downloader{
		Client: client,
		Cities: cities,
		Pause:  time.Second * 2,
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run downloads every category for each of the given cities. A failed query
// is logged and counts as zero elements.
func (d Downloader) Run(ctx context.Context, keys []string) (Collection, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var features []Feature
	first := true
	for _, key := range keys {
		city, ok := d.Cities.Cities[key]
		if !ok {
			return Collection{}, fmt.Errorf("unknown city %s", key)
		}
		slog.InfoContext(
			ctx, "downloading city",
			"city", city.Name,
			"country", city.Country,
			"transport_authority", city.TransportAuthority,
			"bbox", city.BBox.String(),
		)

		for _, category := range overpass.Categories {
			if !first {
				err := wait(ctx, d.Pause)
				if err != nil {
					return Collection{}, err
				}
			}
			first = false

			elements, err := d.Client.Query(ctx, overpass.BuildQuery(category, city.BBox))
			if err != nil {
				slog.WarnContext(
					ctx, "overpass query failed",
					"city", key,
					"category", category.Description(),
					"err", err,
				)
				continue
			}

			mapped := 0
			for _, e := range elements {
				feature, ok := ToFeature(category, e, city)
				if !ok {
					continue
				}
				features = append(features, feature)
				mapped++
			}
			slog.InfoContext(
				ctx, "loaded category",
				"city", key,
				"category", category.Description(),
				"elements", len(elements),
				"features", mapped,
			)
		}
	}

	span.SetAttributes(attribute.Int("features", len(features)))
	return NewCollection(features, timezone.Now()), nil
}
