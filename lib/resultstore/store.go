package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cityscrape/lib/resultstore/db"
	"cityscrape/lib/scrapers/events"
	"cityscrape/lib/scrapers/shops"
	"cityscrape/lib/timezone"
	"cityscrape/lib/transport"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("cityscrape.lib.resultstore")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func isRemote(dsn string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

func openSqlite(path string) (*sql.DB, error) {
	if path == ":memory:" {
		return sql.Open("sqlite", path)
	}
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer
	database.SetMaxOpenConns(1)
	_, err = database.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, errors.Join(err, database.Close())
	}
	return database, nil
}

// Open connects to a libsql server for libsql:// and http(s):// urls,
// anything else is used as the path of a local sqlite file. The schema is
// created if it does not exist yet.
func Open(ctx context.Context, dsn string) (Store, error) {
	if dsn == "" {
		return Store{}, fmt.Errorf("a database was not specified")
	}

	var database *sql.DB
	var err error
	if isRemote(dsn) {
		database, err = sql.Open("libsql", dsn)
	} else {
		database, err = openSqlite(dsn)
	}
	if err != nil {
		return Store{}, err
	}
	if isRemote(dsn) || dsn == ":memory:" {
		database.SetMaxOpenConns(1)
	}

	for _, stmt := range db.Statements() {
		_, err = database.ExecContext(ctx, stmt)
		if err != nil {
			return Store{}, errors.Join(fmt.Errorf("apply schema: %w", err), database.Close())
		}
	}
	return NewStore(database), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type Run struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	// number of rows stored for the run
	Items int
}

const (
	KindTransport = "transport"
	KindShops     = "shops"
	KindEvents    = "events"
)

func NewRun(kind string, started time.Time) Run {
	return Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: started,
	}
}

func (s Store) save(ctx context.Context, run Run, insert func(qry *db.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	finished := run.FinishedAt
	if finished.IsZero() {
		finished = timezone.Now()
	}
	err = txqry.CreateRun(ctx, db.CreateRunParams{
		ID:         run.ID,
		Kind:       run.Kind,
		StartedAt:  run.StartedAt.Unix(),
		FinishedAt: finished.Unix(),
	})
	if err != nil {
		return err
	}
	err = insert(txqry)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s Store) SaveFeatures(ctx context.Context, run Run, features []transport.Feature) error {
	ctx, span := tracer.Start(ctx, "SaveFeatures")
	defer span.End()
	span.SetAttributes(attribute.Int("count", len(features)))

	return s.save(ctx, run, func(qry *db.Queries) error {
		for _, f := range features {
			properties, err := json.Marshal(f.Properties)
			if err != nil {
				return err
			}
			err = qry.CreateTransportFeature(ctx, db.CreateTransportFeatureParams{
				RunID:      run.ID,
				OsmID:      f.OsmID(),
				Name:       f.Name(),
				Kind:       f.Kind(),
				City:       f.City(),
				Country:    f.Country(),
				Operator:   f.Operator(),
				Lon:        f.Lon(),
				Lat:        f.Lat(),
				Properties: string(properties),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s Store) SaveShops(ctx context.Context, run Run, list []shops.Shop) error {
	ctx, span := tracer.Start(ctx, "SaveShops")
	defer span.End()
	span.SetAttributes(attribute.Int("count", len(list)))

	return s.save(ctx, run, func(qry *db.Queries) error {
		for _, shop := range list {
			err := qry.CreateShop(ctx, db.CreateShopParams{
				RunID:        run.ID,
				Url:          shop.URL,
				Name:         shop.Name,
				Categories:   shop.Kategorien,
				Address:      shop.Adresse,
				Contact:      shop.Kontaktinformationen,
				OpeningHours: shop.Oeffnungszeiten,
				Website:      shop.WebsiteURL,
				Description:  shop.Beschreibung,
				Images:       shop.ImageSourceURLs,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s Store) SaveEvents(ctx context.Context, run Run, list []events.Event) error {
	ctx, span := tracer.Start(ctx, "SaveEvents")
	defer span.End()
	span.SetAttributes(attribute.Int("count", len(list)))

	return s.save(ctx, run, func(qry *db.Queries) error {
		for _, e := range list {
			err := qry.CreateEvent(ctx, db.CreateEventParams{
				RunID:            run.ID,
				Uid:              e.UID(),
				Url:              e.URL,
				Name:             e.Name,
				Art:              e.Art,
				Ort:              e.Ort,
				Datum:            e.Datum,
				Telefon:          e.Telefon,
				Website:          e.Website,
				Bild:             e.Bild,
				Beschreibung:     e.Beschreibung,
				Ticketvorverkauf: e.Ticketvorverkauf,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Runs lists every stored run, the most recent first.
func (s Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.qry.GetRuns(ctx)
	if err != nil {
		return nil, err
	}
	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = Run{
			ID:         r.ID,
			Kind:       r.Kind,
			StartedAt:  time.Unix(r.StartedAt, 0).In(timezone.Location),
			FinishedAt: time.Unix(r.FinishedAt, 0).In(timezone.Location),
			Items:      int(r.Items),
		}
	}
	return runs, nil
}
