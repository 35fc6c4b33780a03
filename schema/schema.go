// Package schema holds the schema classes the core command library treats
// as read-only input from the host: table classes, column classes, the
// {key, value, n_min, n_max} datum-type triple, and the row-id indexes that
// let a user name a record by something other than its UUID.
//
// Table and Column identity is by pointer. Once a *Table or *Column has been
// produced by Load (or constructed by a host directly), the rest of this
// module never compares them by name again.
package schema

import "fmt"

// AtomicType is one of the five OVSDB-style scalar types a Column or a map
// key/value may hold.
type AtomicType int

const (
	TypeInteger AtomicType = iota
	TypeReal
	TypeBoolean
	TypeString
	TypeUUID
)

func (t AtomicType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "string"
	case TypeUUID:
		return "uuid"
	default:
		return fmt.Sprintf("atomic-type(%d)", int(t))
	}
}

// UnboundedMax marks a DatumType's NMax as unlimited ("UINT_MAX" in the
// original C). Using a dedicated sentinel instead of a magic constant keeps
// the widening rule in expr legible.
const UnboundedMax = ^uint(0)

// DatumType is the {key, value, n_min, n_max} triple from spec.md §3. Value
// is only meaningful when HasValue is true (a map column); otherwise the
// column holds a set (NMax != 1) or a scalar (NMax == 1).
type DatumType struct {
	Key      AtomicType
	KeyRefTable *Table // non-nil when Key is TypeUUID and refers to a table

	HasValue   bool
	Value      AtomicType
	ValueRefTable *Table

	NMin uint
	NMax uint
}

// IsScalar reports whether a column of this type holds exactly one value.
func (t DatumType) IsScalar() bool { return !t.HasValue && t.NMax == 1 }

// IsSet reports whether a column of this type holds a set (not a map).
func (t DatumType) IsSet() bool { return !t.HasValue }

// IsMap reports whether a column of this type holds a key/value map.
func (t DatumType) IsMap() bool { return t.HasValue }

// Widened returns a copy of t with NMax raised to UnboundedMax, used by expr
// when parsing the right-hand side VALUE of a condition (spec.md §4.3:
// "Value widening").
func (t DatumType) Widened() DatumType {
	t.NMax = UnboundedMax
	return t
}

// KeysOnly returns a copy of t with the value half dropped, used by the
// mutation engine's "remove KEY" retry path on a column parse failure
// (spec.md §4.6, cmd_remove).
func (t DatumType) KeysOnly() DatumType {
	t.HasValue = false
	t.Value = 0
	t.ValueRefTable = nil
	return t
}

// Column is a column class: a name, a datum type, and whether the core may
// write to it.
type Column struct {
	Name     string
	Type     DatumType
	Mutable  bool
}

// RowIDIndex is one entry of a table's row-id index list (spec.md §3): a
// path through at most two tables that lets a record be named by a string
// instead of a UUID.
//
// ReferrerTable is always set. A nil NameColumn means "the singleton row of
// ReferrerTable" (record_id must be "."). A nil UUIDColumn means the
// referrer row itself is the result; otherwise UUIDColumn names the column
// on the referrer row holding the target's UUID.
type RowIDIndex struct {
	ReferrerTable *Table
	NameColumn    *Column
	UUIDColumn    *Column
}

// Table is a table class.
type Table struct {
	Name    string
	Columns []*Column
	IsRoot  bool
	Indexes []RowIDIndex
}

// FindColumn returns the column with this exact name, or nil. Name
// resolution with best-unique-prefix matching lives in internal/match; this
// is the exact-name fast path used once a name has already been resolved.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Database is the full schema: every table class known to the host.
type Database struct {
	Name   string
	Tables []*Table
}

// FindTable returns the table with this exact name, or nil.
func (db *Database) FindTable(name string) *Table {
	for _, t := range db.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
