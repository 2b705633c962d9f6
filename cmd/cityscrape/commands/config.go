package commands

import (
	"os"
	"time"

	"cityscrape/lib/configutil"
	"cityscrape/lib/scrapers/events"
	"cityscrape/lib/scrapers/overpass"
	"cityscrape/lib/scrapers/shops"
)

type OverpassConfig struct {
	Endpoint string `json:"endpoint"`
	// pause between two queries
	PauseMs int `json:"pause_ms"`
}

type ShopsConfig struct {
	BaseUrl    string `json:"base_url"`
	Pages      int    `json:"pages"`
	IntervalMs int    `json:"interval_ms"`
}

type EventsConfig struct {
	BaseUrl    string `json:"base_url"`
	IntervalMs int    `json:"interval_ms"`
	MaxEvents  int    `json:"max_events"`
}

type Config struct {
	Out string `json:"out"`
	// send html requests through a transport that mimics a browser's tls
	// handshake
	BrowserTransport bool           `json:"browser_transport"`
	Overpass         OverpassConfig `json:"overpass"`
	Shops            ShopsConfig    `json:"shops"`
	Events           EventsConfig   `json:"events"`
}

func defaultConfig() Config {
	return Config{
		Out: "data",
		Overpass: OverpassConfig{
			Endpoint: overpass.DefaultEndpoint,
			PauseMs:  2000,
		},
		Shops: ShopsConfig{
			BaseUrl: shops.DefaultBaseUrl,
			Pages:   shops.DefaultPages,
		},
		Events: EventsConfig{
			BaseUrl:    events.DefaultBaseUrl,
			IntervalMs: int(events.DefaultInterval / time.Millisecond),
		},
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// loadConfig reads the config file (and its .local variant) on top of the
// defaults, then applies the endpoint overrides from the environment.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.Overlay(defaultConfig(), path)
	if err != nil {
		return Config{}, err
	}

	overrides := []struct {
		env    string
		target *string
	}{
		{env: "CITYSCRAPE_OVERPASS_URL", target: &cfg.Overpass.Endpoint},
		{env: "CITYSCRAPE_SHOPS_URL", target: &cfg.Shops.BaseUrl},
		{env: "CITYSCRAPE_EVENTS_URL", target: &cfg.Events.BaseUrl},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.env); ok && value != "" {
			*o.target = value
		}
	}
	return cfg, nil
}
