// Package idl defines the seam between the core command library and the
// host-owned database client session (spec.md §6). The core never talks to
// a concrete database; it only calls these interfaces, which the store
// package implements on top of an embedded SQLite-backed JSON store.
package idl

import (
	"github.com/google/uuid"

	"dbctl/schema"
)

// Row is one record: a stable UUID, its table class, and the datum values
// the core reads and writes through Get/Write.
type Row struct {
	UUID  uuid.UUID
	Table *schema.Table

	impl any // opaque handle the DB implementation attaches to a row
}

// NewRow is used by DB implementations to construct rows they hand back to
// the core; impl is opaque to the core and round-tripped back into Get,
// Write, Delete and Verify.
func NewRow(id uuid.UUID, table *schema.Table, impl any) *Row {
	return &Row{UUID: id, Table: table, impl: impl}
}

func (r *Row) Impl() any { return r.impl }

// DB is the read side of the host's database client: row iteration, lookup
// by UUID, and the minimal-schema-view registration done during pre-run.
type DB interface {
	// RegisterColumns declares that the upcoming run needs these columns of
	// this table fetched; called during every command's pre-run pass.
	RegisterColumns(table *schema.Table, columns []*schema.Column)

	// FirstRow returns an arbitrary first row of table, or nil if it is
	// empty. Together with NextRow this lets the core do a full table scan
	// without depending on a concrete storage representation.
	FirstRow(table *schema.Table) *Row

	// NextRow returns the row after row in the same iteration order
	// FirstRow started, or nil when iteration is exhausted.
	NextRow(row *Row) *Row

	// RowByUUID looks a row up directly, or returns nil if no such row
	// exists in table.
	RowByUUID(table *schema.Table, id uuid.UUID) *Row

	// Get reads the current value of column on row.
	Get(row *Row, column *schema.Column) schema.Value

	// Verify records that the run depends on column's current value on
	// row; if another session commits a conflicting write first, the
	// eventual Txn.Commit surfaces ErrRetry and the host re-runs the
	// stream (spec.md §5).
	Verify(row *Row, column *schema.Column)
}

// Txn is the writable transaction handle passed to mutating commands; it is
// nil for read-only streams (spec.md §6).
type Txn interface {
	// Insert allocates a new row in table. If id is non-nil the row's
	// final UUID is forced to *id (used when a symbol already reserved
	// one); otherwise a fresh UUID is minted and returned as the row's
	// dummy UUID until Commit.
	Insert(table *schema.Table, id *uuid.UUID) *Row

	// Write stages a column write on row for the next Commit.
	Write(row *Row, column *schema.Column, v schema.Value)

	// Delete stages row's deletion.
	Delete(row *Row)

	// InsertUUID resolves a dummy UUID returned by an earlier Insert call
	// (within the same transaction) to its real, committed UUID. Used by
	// the "create" command's post-run hook (spec.md §4.6).
	InsertUUID(dummy uuid.UUID) (real uuid.UUID, ok bool)

	// SetComment attaches a human-readable commit comment, the concrete
	// form of the "comment" command's forwarded text (SPEC_FULL.md §10).
	SetComment(text string)
}
