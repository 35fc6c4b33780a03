package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dbctl/idl"
	"dbctl/schema"
)

// ErrRetry is returned by Commit when a verified (row, column) pair was
// modified by an intervening commit; the host re-runs the whole command
// stream against a fresh read, per spec.md §5.
var ErrRetry = errors.New("store: verification failed, retry the transaction")

type pendingInsert struct {
	dummy uuid.UUID
	final *uuid.UUID // the caller-supplied id, or nil; Commit then mints one into dummyToReal
	table *schema.Table
}

type write struct {
	row    uuid.UUID // dummy uuid if the row was inserted in this txn
	column *schema.Column
	value  schema.Value
}

// Txn stages inserts, writes, and deletes for one command stream's write
// pass and applies them atomically in Commit, matching the transactional
// "verify, then write" model spec.md §5 describes.
type Txn struct {
	store *Store

	inserts     []*pendingInsert
	insertByDup map[uuid.UUID]*pendingInsert
	writes      []write
	deletes     map[uuid.UUID]bool
	comment     string
	verified    []verification

	dummyToReal map[uuid.UUID]uuid.UUID
}

// Begin opens a write transaction. Only one Txn may be active on a Store
// at a time (spec.md §5's single-threaded model); Begin panics if one
// already is, since that indicates a host bug rather than a recoverable
// condition.
func (s *Store) Begin() *Txn {
	if s.activeTxn != nil {
		panic("store: transaction already active")
	}
	t := &Txn{
		store:       s,
		insertByDup: map[uuid.UUID]*pendingInsert{},
		deletes:     map[uuid.UUID]bool{},
	}
	s.activeTxn = t
	return t
}

// Insert implements idl.Txn.Insert: it stages a new row and returns it
// under a dummy UUID. If id is non-nil (a symbol already reserved one),
// that value is also the eventual committed UUID; otherwise the real UUID
// is minted fresh in Commit and exposed through InsertUUID.
func (t *Txn) Insert(table *schema.Table, id *uuid.UUID) *idl.Row {
	dummy := uuid.New()
	if id != nil {
		dummy = *id
	}
	p := &pendingInsert{dummy: dummy, final: id, table: table}
	t.inserts = append(t.inserts, p)
	t.insertByDup[dummy] = p
	return idl.NewRow(dummy, table, (*rowState)(nil))
}

// Write implements idl.Txn.Write: it stages a column write, keyed by the
// row's current UUID (dummy if inserted this transaction, real otherwise).
func (t *Txn) Write(row *idl.Row, column *schema.Column, v schema.Value) {
	t.writes = append(t.writes, write{row: row.UUID, column: column, value: v})
}

// Delete implements idl.Txn.Delete.
func (t *Txn) Delete(row *idl.Row) {
	t.deletes[row.UUID] = true
}

// InsertUUID implements idl.Txn.InsertUUID, looked up after Commit has run.
func (t *Txn) InsertUUID(dummy uuid.UUID) (uuid.UUID, bool) {
	real, ok := t.dummyToReal[dummy]
	return real, ok
}

// SetComment implements idl.Txn.SetComment.
func (t *Txn) SetComment(text string) {
	t.comment = text
}

// Discard abandons the transaction without applying any staged change,
// releasing the store's single-active-transaction slot. Used by the host's
// retry loop when wait-until sets try_again before the stream commits.
func (t *Txn) Discard() {
	if t.store.activeTxn == t {
		t.store.activeTxn = nil
	}
}

// Commit verifies every (row, column) dependency recorded during the run
// against the store's current state, then — only if all verifications
// still hold — applies every staged insert, write, and delete, persisting
// the result to sqlite. A failed verification leaves the store untouched
// and returns ErrRetry.
func (t *Txn) Commit() error {
	defer func() { t.store.activeTxn = nil }()

	for _, v := range t.verified {
		rs, ok := t.store.rows[v.uuid]
		if !ok || rs.version != v.version {
			return ErrRetry
		}
	}

	t.dummyToReal = make(map[uuid.UUID]uuid.UUID, len(t.inserts))
	for _, p := range t.inserts {
		final := p.dummy
		if p.final != nil {
			final = *p.final
		} else {
			final = uuid.New()
		}
		t.dummyToReal[p.dummy] = final
		t.store.rows[final] = &rowState{uuid: final, table: p.table, data: map[string]schema.Value{}}
		t.store.order = append(t.store.order, final)
	}

	touched := map[uuid.UUID]bool{}
	for _, w := range t.writes {
		final := w.row
		if r, ok := t.dummyToReal[w.row]; ok {
			final = r
		}
		rs, ok := t.store.rows[final]
		if !ok {
			return fmt.Errorf("store: write to unknown row %s", final)
		}
		rs.data[w.column.Name] = w.value
		touched[final] = true
	}
	for id := range touched {
		t.store.rows[id].version++
	}

	for id := range t.deletes {
		final := id
		if r, ok := t.dummyToReal[id]; ok {
			final = r
		}
		delete(t.store.rows, final)
	}
	if len(t.deletes) > 0 {
		filtered := t.store.order[:0:0]
		for _, id := range t.store.order {
			if _, gone := t.store.rows[id]; gone {
				filtered = append(filtered, id)
			}
		}
		t.store.order = filtered
	}

	return t.persist()
}

func (t *Txn) persist() error {
	tx, err := t.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning sqlite transaction: %w", err)
	}
	defer tx.Rollback()

	for id := range t.deletes {
		final := id
		if r, ok := t.dummyToReal[id]; ok {
			final = r
		}
		if _, err := tx.Exec(`DELETE FROM rows WHERE uuid = ?`, final.String()); err != nil {
			return fmt.Errorf("deleting row %s: %w", final, err)
		}
	}

	touched := map[uuid.UUID]bool{}
	for _, w := range t.writes {
		final := w.row
		if r, ok := t.dummyToReal[w.row]; ok {
			final = r
		}
		touched[final] = true
	}
	for _, p := range t.inserts {
		touched[t.dummyToReal[p.dummy]] = true
	}
	for id := range touched {
		rs, ok := t.store.rows[id]
		if !ok {
			continue
		}
		blob, err := marshalRow(rs.data)
		if err != nil {
			return fmt.Errorf("encoding row %s: %w", id, err)
		}
		_, err = tx.Exec(`
			INSERT INTO rows (uuid, table_name, data, version, seq)
			VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM rows))
			ON CONFLICT(uuid) DO UPDATE SET data = excluded.data, version = excluded.version
		`, id.String(), rs.table.Name, string(blob), rs.version)
		if err != nil {
			return fmt.Errorf("writing row %s: %w", id, err)
		}
	}

	if t.comment != "" {
		_, err := tx.Exec(`INSERT INTO comments (created_at, text) VALUES (?, ?)`,
			time.Now().UTC().Format(time.RFC3339Nano), t.comment)
		if err != nil {
			return fmt.Errorf("recording comment: %w", err)
		}
	}

	return tx.Commit()
}
