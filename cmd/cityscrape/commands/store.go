package commands

import (
	"context"
	"log/slog"

	"cityscrape/lib/resultstore"
	"cityscrape/lib/util/serviceutil"
)

// saveRun stores the results of a run in the database given with --db, it
// does nothing when the flag is empty. An interrupted scrape is still saved.
func saveRun(ctx context.Context, dsn string, run resultstore.Run, save func(ctx context.Context, store resultstore.Store) error) {
	if dsn == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	store, err := resultstore.Open(ctx, dsn)
	if err != nil {
		serviceutil.Fatal("failed to open result database", err)
	}
	defer store.Close()

	err = save(ctx, store)
	if err != nil {
		serviceutil.Fatal("failed to save results", err)
	}
	slog.InfoContext(ctx, "saved results", "db", dsn, "run", run.ID, "kind", run.Kind)
}
