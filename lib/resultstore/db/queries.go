package db

import (
	"context"
)

const createRun = `insert into run(id, kind, started_at, finished_at) values (?, ?, ?, ?)`

type CreateRunParams struct {
	ID         string
	Kind       string
	StartedAt  int64
	FinishedAt int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun, arg.ID, arg.Kind, arg.StartedAt, arg.FinishedAt)
	return err
}

const createTransportFeature = `insert into transport_feature(
    run_id, osm_id, name, kind, city, country, operator, lon, lat, properties
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateTransportFeatureParams struct {
	RunID      string
	OsmID      int64
	Name       string
	Kind       string
	City       string
	Country    string
	Operator   string
	Lon        float64
	Lat        float64
	Properties string
}

func (q *Queries) CreateTransportFeature(ctx context.Context, arg CreateTransportFeatureParams) error {
	_, err := q.db.ExecContext(
		ctx, createTransportFeature,
		arg.RunID, arg.OsmID, arg.Name, arg.Kind, arg.City, arg.Country,
		arg.Operator, arg.Lon, arg.Lat, arg.Properties,
	)
	return err
}

const createShop = `insert into shop(
    run_id, url, name, categories, address, contact, opening_hours, website, description, images
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateShopParams struct {
	RunID        string
	Url          string
	Name         string
	Categories   string
	Address      string
	Contact      string
	OpeningHours string
	Website      string
	Description  string
	Images       string
}

func (q *Queries) CreateShop(ctx context.Context, arg CreateShopParams) error {
	_, err := q.db.ExecContext(
		ctx, createShop,
		arg.RunID, arg.Url, arg.Name, arg.Categories, arg.Address, arg.Contact,
		arg.OpeningHours, arg.Website, arg.Description, arg.Images,
	)
	return err
}

const createEvent = `insert into event(
    run_id, uid, url, name, art, ort, datum, telefon, website, bild, beschreibung, ticketvorverkauf
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateEventParams struct {
	RunID            string
	Uid              string
	Url              string
	Name             string
	Art              string
	Ort              string
	Datum            string
	Telefon          string
	Website          string
	Bild             string
	Beschreibung     string
	Ticketvorverkauf string
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(
		ctx, createEvent,
		arg.RunID, arg.Uid, arg.Url, arg.Name, arg.Art, arg.Ort, arg.Datum,
		arg.Telefon, arg.Website, arg.Bild, arg.Beschreibung, arg.Ticketvorverkauf,
	)
	return err
}

const getRuns = `select
    run.id, run.kind, run.started_at, run.finished_at,
    (select count(*) from transport_feature where run_id = run.id) +
    (select count(*) from shop where run_id = run.id) +
    (select count(*) from event where run_id = run.id) as items
from run
order by run.started_at desc, run.id`

type GetRunsRow struct {
	ID         string
	Kind       string
	StartedAt  int64
	FinishedAt int64
	Items      int64
}

func (q *Queries) GetRuns(ctx context.Context) ([]GetRunsRow, error) {
	rows, err := q.db.QueryContext(ctx, getRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRunsRow
	for rows.Next() {
		var i GetRunsRow
		if err := rows.Scan(&i.ID, &i.Kind, &i.StartedAt, &i.FinishedAt, &i.Items); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
