package overpass

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

var trier = BBox{South: 49.72, West: 6.62, North: 49.78, East: 6.68}

func TestBuildQuery(t *testing.T) {
	expected := `[out:json][timeout:60];
(
  node["amenity"="parking"](49.72,6.62,49.78,6.68);
  way["amenity"="parking"](49.72,6.62,49.78,6.68);
  node["park_ride"="yes"](49.72,6.62,49.78,6.68);
  way["park_ride"="yes"](49.72,6.62,49.78,6.68);
);
out center;
`
	require.Equal(t, expected, BuildQuery(Parking, trier))

	expected = `[out:json][timeout:60];
(
  node["amenity"="taxi"](49.72,6.62,49.78,6.68);
);
out body;
`
	require.Equal(t, expected, BuildQuery(TaxiStands, trier))

	for _, c := range Categories {
		require.NotEmpty(t, selectors[c], c.String())
		require.NotEqual(t, c.String(), c.Description())
	}
}

func TestPosition(t *testing.T) {
	cases := []struct {
		element Element
		lat     float64
		lon     float64
		ok      bool
	}{
		{element: Element{Lat: 49.7, Lon: 6.6}, lat: 49.7, lon: 6.6, ok: true},
		{element: Element{Center: &LatLon{Lat: 49.1, Lon: 6.2}}, lat: 49.1, lon: 6.2, ok: true},
		{element: Element{Lat: 49.7}, lat: 49.7, lon: 0, ok: false},
		{element: Element{}, ok: false},
	}
	for _, test := range cases {
		lat, lon, ok := test.element.Position()
		require.Equal(t, test.ok, ok)
		require.Equal(t, test.lat, lat)
		require.Equal(t, test.lon, lon)
	}
}

func TestQuery(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("content-type", "application/json")
			w.Write([]byte(`{"version":0.6,"elements":[
				{"type":"node","id":1,"lat":49.75,"lon":6.64,"tags":{"name":"Hauptbahnhof"}},
				{"type":"way","id":2,"center":{"lat":49.76,"lon":6.65}}
			]}`))
		case "/empty":
			w.Write([]byte(`{"elements":[]}`))
		case "/missing":
			w.Write([]byte(`{"remark":"runtime error"}`))
		case "/garbage":
			w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	query := BuildQuery(BusStops, trier)

	client, err := NewClient(ClientOptions{Endpoint: srv.URL + "/ok"})
	require.NoError(t, err)
	elements, err := client.Query(ctx, query)
	require.NoError(t, err)
	require.Equal(t, query, received)
	require.Len(t, elements, 2)
	require.Equal(t, "Hauptbahnhof", elements[0].Tag("name"))
	require.Equal(t, "", elements[1].Tag("name"))
	_, _, ok := elements[1].Position()
	require.True(t, ok)

	client, err = NewClient(ClientOptions{Endpoint: srv.URL + "/empty"})
	require.NoError(t, err)
	elements, err = client.Query(ctx, query)
	require.NoError(t, err)
	require.Empty(t, elements)

	client, err = NewClient(ClientOptions{Endpoint: srv.URL + "/missing"})
	require.NoError(t, err)
	_, err = client.Query(ctx, query)
	require.ErrorIs(t, err, ErrNoElements)

	client, err = NewClient(ClientOptions{Endpoint: srv.URL + "/garbage"})
	require.NoError(t, err)
	_, err = client.Query(ctx, query)
	require.Error(t, err)

	client, err = NewClient(ClientOptions{Endpoint: srv.URL + "/busy"})
	require.NoError(t, err)
	_, err = client.Query(ctx, query)
	require.ErrorContains(t, err, "429")
	var status StatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, http.StatusTooManyRequests, status.Status)
}
