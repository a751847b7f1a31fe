// Package testutil opens throwaway SQLite databases carrying the same tables
// as migrations/001_init.sql, so repository code runs unchanged in tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const schema = `
CREATE TABLE debt_records (
	id                TEXT PRIMARY KEY,
	code              TEXT NOT NULL UNIQUE,
	kind              TEXT NOT NULL,
	counterparty_id   TEXT NOT NULL,
	counterparty_name TEXT NOT NULL,
	total_amount      INTEGER NOT NULL CHECK (total_amount > 0),
	paid_amount       INTEGER NOT NULL DEFAULT 0 CHECK (paid_amount >= 0),
	remaining_amount  INTEGER NOT NULL CHECK (remaining_amount >= 0),
	due_date          DATETIME,
	status            TEXT NOT NULL,
	note              TEXT NOT NULL DEFAULT '',
	version           INTEGER NOT NULL DEFAULT 1,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL,
	deleted_at        DATETIME,
	CHECK (remaining_amount = total_amount - paid_amount)
);

CREATE TABLE receipt_payments (
	id                TEXT PRIMARY KEY,
	code              TEXT NOT NULL UNIQUE,
	payment_date      DATETIME NOT NULL,
	expense_type      TEXT NOT NULL,
	expense_type_name TEXT NOT NULL DEFAULT '',
	payment_object    TEXT NOT NULL DEFAULT '',
	amount            INTEGER NOT NULL CHECK (amount > 0),
	payment_method    INTEGER NOT NULL,
	status            TEXT NOT NULL,
	notes             TEXT NOT NULL DEFAULT '',
	supplier_id       TEXT NOT NULL DEFAULT '',
	debt_record_id    TEXT REFERENCES debt_records (id),
	transaction_id    TEXT,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE TABLE payment_transactions (
	id                 TEXT PRIMARY KEY,
	code               TEXT NOT NULL UNIQUE,
	debt_record_id     TEXT REFERENCES debt_records (id),
	receipt_payment_id TEXT,
	amount             INTEGER NOT NULL CHECK (amount > 0),
	payment_method     INTEGER NOT NULL,
	status             INTEGER NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	processed_at       DATETIME NOT NULL,
	created_at         DATETIME NOT NULL
);
`

// NewSQLiteDB returns an in-memory database with the schema applied. It is
// limited to one connection because every new connection to :memory: would
// open a separate empty database.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}
