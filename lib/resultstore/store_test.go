package resultstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cityscrape/lib/resultstore/db"
	"cityscrape/lib/scrapers/events"
	"cityscrape/lib/scrapers/overpass"
	"cityscrape/lib/scrapers/shops"
	"cityscrape/lib/testutil"
	"cityscrape/lib/timezone"
	"cityscrape/lib/transport"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore(testutil.SetupDB(t, db.Schema))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Empty(t, runs)

	city := transport.City{Name: "Trier", Country: "Deutschland"}
	feature, ok := transport.ToFeature(overpass.TaxiStands, overpass.Element{ID: 42, Lat: 49.75, Lon: 6.64}, city)
	require.True(t, ok)

	first := time.Date(2025, 7, 1, 8, 0, 0, 0, timezone.Location)
	transportRun := NewRun(KindTransport, first)
	require.NoError(t, store.SaveFeatures(ctx, transportRun, []transport.Feature{feature, feature}))

	shopRun := NewRun(KindShops, first.Add(time.Hour))
	shopRun.FinishedAt = first.Add(2 * time.Hour)
	require.NoError(t, store.SaveShops(ctx, shopRun, []shops.Shop{{Name: "Kaffeehaus", URL: "https://x/shop/1"}}))

	eventRun := NewRun(KindEvents, first.Add(3*time.Hour))
	require.NoError(t, store.SaveEvents(ctx, eventRun, []events.Event{
		{Name: "Altstadtfest", URL: "https://x/event/1"},
		{Name: "Jazz im Park", URL: "https://x/event/2"},
		{Name: "Sommerkino"},
	}))

	runs, err = store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	require.Equal(t, eventRun.ID, runs[0].ID)
	require.Equal(t, KindEvents, runs[0].Kind)
	require.Equal(t, 3, runs[0].Items)

	require.Equal(t, shopRun.ID, runs[1].ID)
	require.Equal(t, 1, runs[1].Items)
	require.True(t, shopRun.StartedAt.Equal(runs[1].StartedAt))
	require.True(t, shopRun.FinishedAt.Equal(runs[1].FinishedAt))

	require.Equal(t, transportRun.ID, runs[2].ID)
	require.Equal(t, 2, runs[2].Items)

	// a run id can only be stored once, the whole transaction is rolled back
	err = store.SaveShops(ctx, shopRun, []shops.Shop{{Name: "Doppelt"}})
	require.Error(t, err)
	runs, err = store.Runs(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, runs[1].Items)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "results.db")
	store, err := Open(ctx, path)
	require.NoError(t, err)
	run := NewRun(KindEvents, timezone.Now())
	require.NoError(t, store.SaveEvents(ctx, run, []events.Event{{Name: "Altstadtfest"}}))
	require.NoError(t, store.Close())

	// reopening keeps the data and does not fail on the existing schema
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run.ID, runs[0].ID)

	memory, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer memory.Close()
	runs, err = memory.Runs(ctx)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("libsql://cityscrape.turso.io"))
	require.True(t, isRemote("http://127.0.0.1:8080"))
	require.False(t, isRemote("results.db"))
	require.False(t, isRemote(":memory:"))
}
