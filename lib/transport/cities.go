package transport

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"cityscrape/lib/configutil"
	"cityscrape/lib/scrapers/overpass"
)

type City struct {
	Name               string        `json:"name"`
	Country            string        `json:"country"`
	TransportAuthority string        `json:"transport_authority"`
	BBox               overpass.BBox `json:"bbox"`
}

type CitiesConfig struct {
	Cities map[string]City `json:"cities"`
}

//go:embed cities.json5
var defaultCities []byte

func DefaultCities() (CitiesConfig, error) {
	return configutil.Parse[CitiesConfig](defaultCities)
}

// LoadCities returns the builtin cities, with the cities from `path` (and
// its .local variant) added on top. An empty path only returns the
// builtin ones.
func LoadCities(path string) (CitiesConfig, error) {
	config, err := DefaultCities()
	if err != nil {
		return CitiesConfig{}, fmt.Errorf("parse builtin cities: %w", err)
	}
	if path != "" {
		config, err = configutil.Overlay(config, path)
		if err != nil {
			return CitiesConfig{}, err
		}
	}
	for key, city := range config.Cities {
		if !city.BBox.Valid() {
			return CitiesConfig{}, fmt.Errorf("city %s has an invalid bbox %s", key, city.BBox)
		}
	}
	return config, nil
}

func (c CitiesConfig) Keys() []string {
	keys := make([]string, 0, len(c.Cities))
	for key := range c.Cities {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// ResolveCities expands "all" (or no arguments at all) to every configured
// city and rejects unknown keys.
func (c CitiesConfig) ResolveCities(args []string) ([]string, error) {
	if len(args) == 0 || slices.Contains(args, "all") {
		return c.Keys(), nil
	}

	var unknown []string
	var keys []string
	for _, key := range args {
		key = strings.ToLower(strings.TrimSpace(key))
		if _, ok := c.Cities[key]; !ok {
			unknown = append(unknown, key)
			continue
		}
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf(
			"unknown cities %s, available: %s",
			strings.Join(unknown, ", "),
			strings.Join(c.Keys(), ", "),
		)
	}
	return keys, nil
}
