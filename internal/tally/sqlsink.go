package tally

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migmysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migsqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	sqlite3drv "github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"

	"github.com/alexjago/nparty/internal/interner"
	"github.com/alexjago/nparty/pkg/log"
)

//go:embed migrations/*
var migrationFiles embed.FS

// SQLSink persists the same booth x combo matrix the CSV sink writes into
// a SQLite or MySQL table, one row per (scenario, division, booth) with
// the combo-index-ordered counts packed as a JSON array. This keeps the
// schema stable across scenarios with different group counts, where a
// dynamic-width column-per-combo table would need migrating per scenario.
type SQLSink struct {
	db     *sqlx.DB
	driver string
}

type queryTiming struct{}

type timedHooks struct{}

func (timedHooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	return context.WithValue(ctx, queryTiming{}, time.Now()), nil
}

func (timedHooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	if start, ok := ctx.Value(queryTiming{}).(time.Time); ok {
		if d := time.Since(start); d > 50*time.Millisecond {
			log.Debugf("tally: slow query (%s): %s", d, query)
		}
	}
	return ctx, nil
}

var sqliteHooksRegistered bool

// OpenSQLSink opens (and migrates) a tally database. driver is "sqlite3"
// or "mysql", matching the scenario's DB_DRIVER config option.
func OpenSQLSink(driver, dsn string) (*SQLSink, error) {
	var dbHandle *sqlx.DB
	var err error

	switch driver {
	case "sqlite3":
		if !sqliteHooksRegistered {
			sql.Register("sqlite3_nparty", sqlhooks.Wrap(&sqlite3drv.SQLiteDriver{}, timedHooks{}))
			sqliteHooksRegistered = true
		}
		dbHandle, err = sqlx.Open("sqlite3_nparty", fmt.Sprintf("%s?_foreign_keys=on", dsn))
		if err == nil {
			dbHandle.SetMaxOpenConns(1)
		}
	case "mysql":
		dbHandle, err = sqlx.Open("mysql", fmt.Sprintf("%s?multiStatements=true", dsn))
		if err == nil {
			dbHandle.SetConnMaxLifetime(3 * time.Minute)
			dbHandle.SetMaxOpenConns(10)
		}
	default:
		return nil, fmt.Errorf("tally: unsupported DB driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("tally: open %s: %w", driver, err)
	}

	if err := migrateUp(driver, dbHandle.DB); err != nil {
		dbHandle.Close()
		return nil, err
	}

	return &SQLSink{db: dbHandle, driver: driver}, nil
}

func migrateUp(driver string, db *sql.DB) error {
	var m *migrate.Migrate
	var err error

	switch driver {
	case "sqlite3":
		inst, ierr := migsqlite3.WithInstance(db, &migsqlite3.Config{})
		if ierr != nil {
			return fmt.Errorf("tally: migration driver: %w", ierr)
		}
		src, serr := iofs.New(migrationFiles, "migrations/sqlite3")
		if serr != nil {
			return fmt.Errorf("tally: migration source: %w", serr)
		}
		defer src.Close()
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", inst)
	case "mysql":
		inst, ierr := migmysql.WithInstance(db, &migmysql.Config{})
		if ierr != nil {
			return fmt.Errorf("tally: migration driver: %w", ierr)
		}
		src, serr := iofs.New(migrationFiles, "migrations/mysql")
		if serr != nil {
			return fmt.Errorf("tally: migration source: %w", serr)
		}
		defer src.Close()
		m, err = migrate.NewWithInstance("iofs", src, "mysql", inst)
	default:
		return fmt.Errorf("tally: unsupported DB driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("tally: migrate init: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("tally: migrate up: %w", err)
	}
	return nil
}

// WriteScenario upserts every booth row of t under scenarioName.
func (s *SQLSink) WriteScenario(scenarioName string, t *Tally, names *interner.Table) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	for _, k := range t.Keys() {
		counts, merr := json.Marshal(t.Row(k))
		if merr != nil {
			tx.Rollback()
			return merr
		}
		sqlStr, args, berr := sq.Replace("npp_booth_tally").
			Columns("scenario", "division", "booth", "counts").
			Values(scenarioName, names.Lookup(k.Division), names.Lookup(k.Booth), string(counts)).
			ToSql()
		if berr != nil {
			tx.Rollback()
			return berr
		}
		if _, eerr := tx.Exec(sqlStr, args...); eerr != nil {
			tx.Rollback()
			return eerr
		}
	}
	return tx.Commit()
}

// Close releases the underlying database connection.
func (s *SQLSink) Close() error {
	return s.db.Close()
}
