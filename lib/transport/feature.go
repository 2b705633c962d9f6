package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"cityscrape/lib/scrapers/overpass"
)

type Property struct {
	Key   string
	Value any
}

// Properties keeps the insertion order of the keys when encoded.
type Properties []Property

func (p Properties) Get(key string) (any, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}

// Text returns the property formatted as text, "" when it is missing.
func (p Properties) Text(key string) string {
	value, ok := p.Get(key)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return fmt.Sprint(value)
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	encode := func(v any) ([]byte, error) {
		buf.Reset()
		err := enc.Encode(v)
		if err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}

	out := []byte{'{'}
	for i, prop := range p {
		if i > 0 {
			out = append(out, ',')
		}
		key, err := encode(prop.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, key...)
		out = append(out, ':')
		value, err := encode(prop.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, value...)
	}
	return append(out, '}'), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}
	var props Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var value any
		err = dec.Decode(&value)
		if err != nil {
			return err
		}
		if num, ok := value.(json.Number); ok {
			if n, err := num.Int64(); err == nil {
				value = n
			} else {
				value = num.String()
			}
		}
		props = append(props, Property{Key: key, Value: value})
	}
	*p = props
	return nil
}

type Geometry struct {
	Type string `json:"type"`
	// longitude, latitude
	Coordinates [2]float64 `json:"coordinates"`
}

type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

func (f Feature) Name() string     { return f.Properties.Text("name") }
func (f Feature) Kind() string     { return f.Properties.Text("type") }
func (f Feature) City() string     { return f.Properties.Text("city") }
func (f Feature) Country() string  { return f.Properties.Text("country") }
func (f Feature) Operator() string { return f.Properties.Text("operator") }
func (f Feature) Lon() float64     { return f.Geometry.Coordinates[0] }
func (f Feature) Lat() float64     { return f.Geometry.Coordinates[1] }

func (f Feature) OsmID() int64 {
	value, _ := f.Properties.Get("osm_id")
	id, _ := value.(int64)
	return id
}

const Source = "OpenStreetMap"

func nameOr(e overpass.Element, fallback string) string {
	if name, ok := e.Tags["name"]; ok {
		return name
	}
	return fallback
}

// ToFeature maps an element of the given category to a GeoJSON point for
// city. Elements without a position and bike elements of an unknown
// amenity are dropped.
func ToFeature(category overpass.Category, e overpass.Element, city City) (Feature, bool) {
	lat, lon, ok := e.Position()
	if !ok {
		return Feature{}, false
	}

	id := strconv.FormatInt(e.ID, 10)
	props := Properties{}
	add := func(key string, value any) {
		props = append(props, Property{Key: key, Value: value})
	}
	common := func(name, kind string) {
		add("name", name)
		add("type", kind)
		add("source", Source)
		add("city", city.Name)
		add("country", city.Country)
		add("operator", e.Tag("operator"))
	}

	switch category {
	case overpass.BusStops:
		fallback := "Haltestelle " + id
		if ref, ok := e.Tags["ref"]; ok {
			fallback = ref
		}
		common(nameOr(e, fallback), "Bushaltestelle")
		add("network", e.Tag("network"))
		add("ref", e.Tag("ref"))
		add("shelter", e.Tag("shelter"))
		add("wheelchair", e.Tag("wheelchair"))
	case overpass.TrainStations:
		common(nameOr(e, "Bahnhof "+id), "Bahnhof")
		add("railway", e.Tag("railway"))
		add("public_transport", e.Tag("public_transport"))
		add("wheelchair", e.Tag("wheelchair"))
	case overpass.Parking:
		kind := "Parkplatz"
		if e.Tag("park_ride") == "yes" {
			kind = "Park+Ride"
		}
		common(nameOr(e, "Parkplatz "+id), kind)
		add("capacity", e.Tag("capacity"))
		add("fee", e.Tag("fee"))
		add("wheelchair", e.Tag("wheelchair"))
		add("surface", e.Tag("surface"))
	case overpass.BikeInfrastructure:
		var kind string
		switch e.Tag("amenity") {
		case "bicycle_parking":
			kind = "Fahrradparkplatz"
		case "bicycle_rental":
			kind = "Fahrradverleih"
		case "charging_station":
			kind = "E-Bike Ladestation"
		default:
			return Feature{}, false
		}
		common(nameOr(e, kind+" "+id), kind)
		add("capacity", e.Tag("capacity"))
		add("fee", e.Tag("fee"))
		add("covered", e.Tag("covered"))
	case overpass.EVCharging:
		common(nameOr(e, "E-Auto Ladestation "+id), "E-Auto Ladestation")
		add("network", e.Tag("network"))
		add("capacity", e.Tag("capacity"))
		add("fee", e.Tag("fee"))
		socket, ok := e.Tags["socket:type2"]
		if !ok {
			socket = e.Tag("socket:type3")
		}
		add("socket", socket)
	case overpass.TaxiStands:
		common(nameOr(e, "Taxistand "+id), "Taxistand")
		add("phone", e.Tag("phone"))
	default:
		return Feature{}, false
	}
	add("osm_id", e.ID)

	return Feature{
		Type:       "Feature",
		Properties: props,
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: [2]float64{lon, lat},
		},
	}, true
}
