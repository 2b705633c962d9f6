package transport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cityscrape/lib/timezone"
	"cityscrape/lib/util/serviceutil"
)

const (
	collectionSource  = "OpenStreetMap via Overpass API"
	collectionProject = "Quattropole Cities"
)

type Metadata struct {
	Generated     string                    `json:"generated"`
	Source        string                    `json:"source"`
	Project       string                    `json:"project"`
	Cities        []string                  `json:"cities"`
	TotalFeatures int                       `json:"total_features"`
	StatsByCity   map[string]map[string]int `json:"stats_by_city"`
	StatsByType   map[string]int            `json:"stats_by_type"`
}

type Collection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Metadata Metadata  `json:"metadata"`
}

func NewCollection(features []Feature, generated time.Time) Collection {
	meta := Metadata{
		Generated:     generated.In(timezone.Location).Format(time.RFC3339),
		Source:        collectionSource,
		Project:       collectionProject,
		Cities:        []string{},
		TotalFeatures: len(features),
		StatsByCity:   map[string]map[string]int{},
		StatsByType:   map[string]int{},
	}
	for _, f := range features {
		city := f.City()
		stats, ok := meta.StatsByCity[city]
		if !ok {
			stats = map[string]int{}
			meta.StatsByCity[city] = stats
			meta.Cities = append(meta.Cities, city)
		}
		stats[f.Kind()]++
		meta.StatsByType[f.Kind()]++
	}
	if features == nil {
		features = []Feature{}
	}
	return Collection{
		Type:     "FeatureCollection",
		Features: features,
		Metadata: meta,
	}
}

func WriteGeoJSON(w io.Writer, c Collection) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

var csvHeader = []string{"Name", "Typ", "Stadt", "Land", "Längengrad", "Breitengrad", "Quelle", "Operator", "Details"}

var detailKeys = []string{"capacity", "fee", "wheelchair", "network", "ref"}

func details(f Feature) string {
	var parts []string
	for _, key := range detailKeys {
		value := f.Properties.Text(key)
		if value != "" {
			parts = append(parts, key+": "+value)
		}
	}
	return strings.Join(parts, "; ")
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func WriteCSV(w io.Writer, features []Feature) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	writer.UseCRLF = true

	err := writer.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, f := range features {
		err = writer.Write([]string{
			f.Name(),
			f.Kind(),
			f.City(),
			f.Country(),
			formatCoordinate(f.Lon()),
			formatCoordinate(f.Lat()),
			f.Properties.Text("source"),
			f.Operator(),
			details(f),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FileBase is the file name shared by the geojson and csv output of a run,
// without the extension.
func FileBase(keys []string, at time.Time) string {
	suffix := "all"
	if len(keys) <= 2 {
		suffix = strings.Join(keys, "_")
	}
	return fmt.Sprintf("quattropole_%s_%s", suffix, timezone.Timestamp(at))
}

// Save writes the collection as geojson and csv to <outDir>/quattropole and
// returns the written paths. Nothing is written for an empty collection.
func Save(outDir string, keys []string, c Collection, at time.Time) ([]string, error) {
	if len(c.Features) == 0 {
		slog.Warn("no transport features to save")
		return nil, nil
	}

	dir := filepath.Join(outDir, "quattropole")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	base := filepath.Join(dir, FileBase(keys, at))

	geojsonPath := base + ".geojson"
	err = serviceutil.CreateFile(geojsonPath, func(w io.Writer) error {
		return WriteGeoJSON(w, c)
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", geojsonPath, err)
	}

	csvPath := base + ".csv"
	err = serviceutil.CreateFile(csvPath, func(w io.Writer) error {
		return WriteCSV(w, c.Features)
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", csvPath, err)
	}

	return []string{geojsonPath, csvPath}, nil
}
