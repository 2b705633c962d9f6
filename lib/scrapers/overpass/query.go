package overpass

import (
	"fmt"
	"strconv"
	"strings"
)

type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func (b BBox) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(b.South, 'f', -1, 64),
		strconv.FormatFloat(b.West, 'f', -1, 64),
		strconv.FormatFloat(b.North, 'f', -1, 64),
		strconv.FormatFloat(b.East, 'f', -1, 64),
	}, ",")
}

func (b BBox) Valid() bool {
	return b.South < b.North && b.West < b.East
}

type Category int

const (
	BusStops Category = iota
	TrainStations
	Parking
	BikeInfrastructure
	EVCharging
	TaxiStands
)

// Categories is the order in which a city is downloaded.
var Categories = []Category{
	BusStops,
	TrainStations,
	Parking,
	BikeInfrastructure,
	EVCharging,
	TaxiStands,
}

func (c Category) String() string {
	switch c {
	case BusStops:
		return "bus_stops"
	case TrainStations:
		return "train_stations"
	case Parking:
		return "parking"
	case BikeInfrastructure:
		return "bike_infrastructure"
	case EVCharging:
		return "ev_charging"
	case TaxiStands:
		return "taxi_stands"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Description is the german name of the category used in progress output.
func (c Category) Description() string {
	switch c {
	case BusStops:
		return "Bushaltestellen"
	case TrainStations:
		return "Bahnhöfe und Bahnhaltestellen"
	case Parking:
		return "Parkplätze"
	case BikeInfrastructure:
		return "Fahrrad-Infrastruktur"
	case EVCharging:
		return "E-Auto Ladestationen"
	case TaxiStands:
		return "Taxistände"
	}
	return c.String()
}

var selectors = map[Category][]string{
	BusStops: {
		`node["highway"="bus_stop"]`,
		`node["public_transport"="stop_position"]`,
		`node["public_transport"="platform"]`,
	},
	TrainStations: {
		`node["railway"="station"]`,
		`node["railway"="halt"]`,
		`node["public_transport"="station"]`,
	},
	Parking: {
		`node["amenity"="parking"]`,
		`way["amenity"="parking"]`,
		`node["park_ride"="yes"]`,
		`way["park_ride"="yes"]`,
	},
	BikeInfrastructure: {
		`node["amenity"="bicycle_parking"]`,
		`node["amenity"="bicycle_rental"]`,
		`node["amenity"="charging_station"]["motorcar"!="yes"]`,
	},
	EVCharging: {
		`node["amenity"="charging_station"]["motorcar"="yes"]`,
		`node["amenity"="charging_station"][!"bicycle"]`,
	},
	TaxiStands: {
		`node["amenity"="taxi"]`,
	},
}

// BuildQuery renders the Overpass QL union for every selector of the
// category, restricted to bbox.
func BuildQuery(category Category, bbox BBox) string {
	var sb strings.Builder
	sb.WriteString("[out:json][timeout:60];\n(\n")
	area := bbox.String()
	for _, selector := range selectors[category] {
		fmt.Fprintf(&sb, "  %s(%s);\n", selector, area)
	}
	sb.WriteString(");\n")
	// ways only have a position if the center is requested
	if category == Parking {
		sb.WriteString("out center;\n")
	} else {
		sb.WriteString("out body;\n")
	}
	return sb.String()
}
