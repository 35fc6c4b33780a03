// Package resolve implements the row resolver of spec.md §4.4: turning a
// record identifier typed by a user (a UUID, a singleton-table dot, or a
// schema-declared index name) into a concrete *idl.Row.
package resolve

import (
	"github.com/google/uuid"

	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/schema"
)

// GetRow implements get_row(table, record_id, must_exist) from spec.md
// §4.4.
//
//  1. If record_id parses as a UUID, a hit in table is returned
//     immediately.
//  2. Otherwise every row-id index on table is tried in declared order; see
//     matchIndex for the two index shapes.
//  3. If no index matched: must_exist means this is fatal, otherwise nil,
//     nil is returned (the caller silently no-ops, per --if-exists).
func GetRow(db idl.DB, table *schema.Table, recordID string, mustExist bool) (*idl.Row, error) {
	if id, err := uuid.Parse(recordID); err == nil {
		if row := db.RowByUUID(table, id); row != nil {
			return row, nil
		}
	}

	for _, idx := range table.Indexes {
		row, err := matchIndex(db, idx, table, recordID)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
	}

	if mustExist {
		return nil, cmderr.Resolve("no row %q in table %s", recordID, table.Name)
	}
	return nil, nil
}

// matchIndex tries one row-id index, returning (row, nil) on a match,
// (nil, nil) when this index simply doesn't apply to recordID, or
// (nil, err) on a fatal ambiguity.
func matchIndex(db idl.DB, idx schema.RowIDIndex, table *schema.Table, recordID string) (*idl.Row, error) {
	var referrer *idl.Row

	if idx.NameColumn == nil {
		if recordID != "." {
			return nil, nil
		}
		first := db.FirstRow(idx.ReferrerTable)
		if first == nil || db.NextRow(first) != nil {
			return nil, nil
		}
		referrer = first
	} else {
		for row := db.FirstRow(idx.ReferrerTable); row != nil; row = db.NextRow(row) {
			v := db.Get(row, idx.NameColumn)
			if len(v.Keys) != 1 || v.Keys[0].Type != schema.TypeString || v.Keys[0].Str != recordID {
				continue
			}
			if referrer != nil {
				return nil, cmderr.Resolve("multiple rows in table %s match %q", idx.ReferrerTable.Name, recordID)
			}
			referrer = row
		}
		if referrer == nil {
			return nil, nil
		}
	}

	if idx.UUIDColumn == nil {
		return referrer, nil
	}

	// Reading the indirection column through a live row establishes a
	// dependency the transaction layer verifies on commit, so a concurrent
	// mutation of the index triggers a retry instead of a stale resolve.
	db.Verify(referrer, idx.UUIDColumn)
	v := db.Get(referrer, idx.UUIDColumn)
	if len(v.Keys) != 1 || v.Keys[0].Type != schema.TypeUUID {
		return nil, nil
	}
	return db.RowByUUID(table, v.Keys[0].UUID), nil
}
