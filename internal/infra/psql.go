package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
)

// Postgres opens the archive database and creates its tables. It returns a
// nil *bun.DB when no DSN is configured.
func Postgres(conf *appconfig.Config, lc fx.Lifecycle) (*bun.DB, error) {
	if conf.PostgresDSN == "" {
		log.Info().
			Str("evt.name", "infra.postgres.disabled").
			Msg("postgres is disabled: no dsn configured; closed production days will not be archived")
		return nil, nil
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.PostgresDSN)))
	pgdb.SetMaxOpenConns(conf.PostgresMaxOpenConns)
	pgdb.SetMaxIdleConns(conf.PostgresMaxIdleConns)
	pgdb.SetConnMaxLifetime(conf.PostgresConnMaxLifeTime)
	pgdb.SetConnMaxIdleTime(conf.PostgresConnMaxIdleTime)

	db := bun.NewDB(pgdb, pgdialect.New())
	if conf.DevMode {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(conf.BunDebugVerbose),
		))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("infra: postgres: failed to ping database")
		return nil, err
	}

	if err := createSchema(ctx, db); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*model.ArchivedDay)(nil),
		(*model.ShiftSummary)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, "infra: postgres: failed to create table")
		}
	}

	_, err := db.NewCreateIndex().
		Model((*model.ArchivedDay)(nil)).
		Index("archived_days_anchor_mode_uniq").
		Unique().
		IfNotExists().
		Column("anchor", "mode").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "infra: postgres: failed to create index")
	}

	_, err = db.NewCreateIndex().
		Model((*model.ShiftSummary)(nil)).
		Index("shift_summaries_anchor_mode_idx").
		IfNotExists().
		Column("anchor", "mode").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "infra: postgres: failed to create index")
	}
	return nil
}
