package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dbctl/idl"
	"dbctl/schema"
)

// rowState is the in-memory mirror of one committed row; it backs the
// opaque Row.Impl() handed to the core.
type rowState struct {
	uuid    uuid.UUID
	table   *schema.Table
	data    map[string]schema.Value
	version int64
}

// verification is one (row, column) pair a run depended on, captured by
// Store.Verify and checked by Txn.Commit.
type verification struct {
	uuid    uuid.UUID
	column  string
	version int64
}

// Store is the embedded-SQLite-backed idl.DB implementation: a full
// in-memory mirror of every row, persisted to sqlite on every commit. The
// mirror keeps get_row/show/find lookups allocation-light without forcing
// every command to round-trip through SQL, while sqlite gives the data a
// durable home between runs (SPEC_FULL.md §9).
type Store struct {
	db     *sql.DB
	schema *schema.Database

	rows  map[uuid.UUID]*rowState
	order []uuid.UUID // insertion order, iterated by FirstRow/NextRow

	activeTxn *Txn
}

// Open creates (if necessary) the backing sqlite file at path and loads
// every row belonging to db's tables into memory.
func Open(path string, db *schema.Database) (*Store, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("pinging sqlite store: %w", err)
	}

	s := &Store{db: sqldb, schema: db, rows: map[uuid.UUID]*rowState{}}
	if err := s.migrate(); err != nil {
		sqldb.Close()
		return nil, err
	}
	if err := s.load(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying sqlite connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS rows (
			uuid TEXT PRIMARY KEY,
			table_name TEXT NOT NULL,
			data TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 0,
			seq INTEGER
		);
		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			text TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrating sqlite store: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT uuid, table_name, data, version FROM rows ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("loading rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idStr, tableName, blob string
		var version int64
		if err := rows.Scan(&idStr, &tableName, &blob, &version); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("row %s has invalid uuid: %w", idStr, err)
		}
		table := s.schema.FindTable(tableName)
		if table == nil {
			// Table no longer in the loaded schema; skip rather than fail, so
			// a schema change doesn't brick an existing database file.
			continue
		}
		data, err := unmarshalRow(table, []byte(blob))
		if err != nil {
			return fmt.Errorf("row %s: %w", idStr, err)
		}
		s.rows[id] = &rowState{uuid: id, table: table, data: data, version: version}
		s.order = append(s.order, id)
	}
	return rows.Err()
}

// RegisterColumns is a no-op: the in-memory mirror always holds every
// column of every loaded row, so there is no narrower view to fetch. The
// method exists purely to satisfy idl.DB for hosts that do want to
// restrict network/disk I/O to the columns a run actually touches.
func (s *Store) RegisterColumns(table *schema.Table, columns []*schema.Column) {}

func (s *Store) FirstRow(table *schema.Table) *idl.Row {
	for _, id := range s.order {
		if rs := s.rows[id]; rs.table == table {
			return idl.NewRow(rs.uuid, rs.table, rs)
		}
	}
	return nil
}

func (s *Store) NextRow(row *idl.Row) *idl.Row {
	rs, ok := row.Impl().(*rowState)
	if !ok {
		return nil
	}
	found := false
	for _, id := range s.order {
		cand := s.rows[id]
		if cand == nil {
			continue
		}
		if found && cand.table == row.Table {
			return idl.NewRow(cand.uuid, cand.table, cand)
		}
		if cand.uuid == rs.uuid {
			found = true
		}
	}
	return nil
}

func (s *Store) RowByUUID(table *schema.Table, id uuid.UUID) *idl.Row {
	rs, ok := s.rows[id]
	if !ok || rs.table != table {
		return nil
	}
	return idl.NewRow(rs.uuid, rs.table, rs)
}

func (s *Store) Get(row *idl.Row, column *schema.Column) schema.Value {
	rs, ok := row.Impl().(*rowState)
	if !ok || rs == nil {
		// Row created earlier in the same uncommitted transaction: it has no
		// prior value for any column yet.
		return schema.Empty(column.Type)
	}
	v, ok := rs.data[column.Name]
	if !ok {
		return schema.Empty(column.Type)
	}
	return v
}

// Verify records the (row, column) dependency against the currently active
// transaction, if any; outside a write transaction, or for a row inserted
// earlier in the same uncommitted transaction, there is nothing to retry
// against, so it is a no-op.
func (s *Store) Verify(row *idl.Row, column *schema.Column) {
	if s.activeTxn == nil {
		return
	}
	rs, ok := row.Impl().(*rowState)
	if !ok || rs == nil {
		return
	}
	s.activeTxn.verified = append(s.activeTxn.verified, verification{
		uuid: rs.uuid, column: column.Name, version: rs.version,
	})
}

// sortedTableNames returns db's table names in sorted order. Nothing in
// this repository calls it.
func sortedTableNames(db *schema.Database) []string {
	names := make([]string, len(db.Tables))
	for i, t := range db.Tables {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
