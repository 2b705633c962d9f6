package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cityscrape/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("cityscrape.lib.scrapers.overpass")

const DefaultEndpoint = "http://overpass-api.de/api/interpreter"

var ErrNoElements = errors.New("overpass: response has no elements")

// StatusError is returned when the interpreter answers with anything but 200.
type StatusError struct {
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("overpass: http status %d", e.Status)
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *LatLon           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Position returns the coordinates of a node, or the center of a way when
// the query asked for `out center`. A coordinate of exactly 0 is treated as
// missing.
func (e Element) Position() (lat, lon float64, ok bool) {
	lat, lon = e.Lat, e.Lon
	if lat == 0 && e.Center != nil {
		lat = e.Center.Lat
	}
	if lon == 0 && e.Center != nil {
		lon = e.Center.Lon
	}
	return lat, lon, lat != 0 && lon != 0
}

// Tag returns the tag value or "" if it is not set.
func (e Element) Tag(key string) string {
	return e.Tags[key]
}

type response struct {
	Elements []Element `json:"elements"`
}

type Client struct {
	http     *resty.Client
	endpoint string
}

type ClientOptions struct {
	// defaults to DefaultEndpoint
	Endpoint string
	Output   restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client, err := restyutil.NewClient(restyutil.ClientOptions{
		Timeout: time.Second * 60,
		Tracer:  tracer,
		Output:  opts.Output,
	})
	if err != nil {
		return Client{}, err
	}
	return Client{http: client, endpoint: endpoint}, nil
}

// Query posts the query text to the interpreter and returns the elements of
// the answer.
func (c Client) Query(ctx context.Context, query string) ([]Element, error) {
	ctx, span := tracer.Start(ctx, "Query")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "text/plain; charset=utf-8").
		SetBody(query).
		Post(c.endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err = StatusError{Status: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var parsed response
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse response")
		return nil, fmt.Errorf("overpass: parse response: %w", err)
	}
	if parsed.Elements == nil {
		span.SetStatus(codes.Error, ErrNoElements.Error())
		return nil, ErrNoElements
	}

	span.SetAttributes(attribute.Int("elements", len(parsed.Elements)))
	slog.DebugContext(ctx, "overpass query finished", "elements", len(parsed.Elements))
	return parsed.Elements, nil
}
