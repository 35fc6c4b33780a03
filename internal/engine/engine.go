// Package engine implements the mutation engine of spec.md §4.6: the
// read/modify/write primitives behind set, add, remove, clear, create, and
// destroy, including cardinality checks, mutability checks, and map-key
// union semantics.
package engine

import (
	"github.com/google/uuid"

	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/internal/expr"
	"dbctl/internal/match"
	"dbctl/schema"
)

func checkMutable(column *schema.Column, table *schema.Table) error {
	if !column.Mutable {
		return cmderr.Semantic("cannot modify read-only column %s in table %s", column.Name, table.Name)
	}
	return nil
}

// Set implements "set COL[:KEY]=VALUE": no key overwrites the whole datum;
// with a key, the {key: value} pair is unioned into the current map,
// replacing any prior value at that key (spec.md §4.6, and §5's "later
// same-key clauses overwrite earlier ones via the map-union rule").
func Set(db idl.DB, txn idl.Txn, table *schema.Table, row *idl.Row, clause expr.Clause) error {
	column, err := match.Column(table, clause.Column)
	if err != nil {
		return err
	}
	if err := checkMutable(column, table); err != nil {
		return err
	}
	if clause.HasKey && !column.Type.IsMap() {
		return cmderr.Semantic("%s is not a map column, but key %q was specified", column.Name, clause.Key)
	}
	if !clause.HasOp || clause.Op != expr.OpEq {
		return cmderr.Parse("set clause %q must have the form COLUMN[:KEY]=VALUE", clause.Column)
	}

	if !clause.HasKey {
		v, err := schema.ParseValue(column.Type, clause.Value)
		if err != nil {
			return cmderr.Parse("%s", err)
		}
		db.Verify(row, column)
		txn.Write(row, column, v)
		return nil
	}

	key, err := schema.ParseAtom(column.Type.Key, clause.Key)
	if err != nil {
		return cmderr.Parse("%s", err)
	}
	val, err := schema.ParseAtom(column.Type.Value, clause.Value)
	if err != nil {
		return cmderr.Parse("%s", err)
	}

	cur := db.Get(row, column).Clone()
	cur = cur.Union(schema.Value{IsMap: true, Pairs: []schema.Pair{{Key: key, Value: val}}}, true)
	if err := checkCardinality(cur, column.Type, table, column); err != nil {
		return err
	}
	db.Verify(row, column)
	txn.Write(row, column, cur)
	return nil
}

// Add implements "add TABLE REC COL VALUE+": each VALUE is parsed with the
// column's key type but n_min=1,n_max=unbounded, then unioned (no
// replacement) into the current datum; exceeding n_max is fatal.
func Add(db idl.DB, txn idl.Txn, table *schema.Table, row *idl.Row, column *schema.Column, values []string) error {
	if err := checkMutable(column, table); err != nil {
		return err
	}
	cur := db.Get(row, column).Clone()
	addType := column.Type
	addType.NMin = 1
	addType.NMax = schema.UnboundedMax
	for _, raw := range values {
		v, err := schema.ParseValue(addType, raw)
		if err != nil {
			return cmderr.Parse("%s", err)
		}
		cur = cur.Union(v, false)
	}
	if column.Type.NMax != schema.UnboundedMax && uint(cur.Len()) > column.Type.NMax {
		return cmderr.Semantic(
			"\"add\" operation would put %d %s in column %s of table %s but the maximum number is %d",
			cur.Len(), elementWord(column.Type), column.Name, table.Name, column.Type.NMax)
	}
	db.Verify(row, column)
	txn.Write(row, column, cur)
	return nil
}

// Remove implements "remove TABLE REC COL (VALUE|KEY=VALUE|KEY)+": each
// argument is parsed against the full column type first; on failure, if
// the column is a map, it is retried as a bare key (value type forced to
// VOID), matching the original's fallback in cmd_remove. Falling below
// n_min is fatal.
func Remove(db idl.DB, txn idl.Txn, table *schema.Table, row *idl.Row, column *schema.Column, values []string) error {
	if err := checkMutable(column, table); err != nil {
		return err
	}
	cur := db.Get(row, column).Clone()
	rmType := column.Type
	rmType.NMin = 1
	rmType.NMax = schema.UnboundedMax

	for _, raw := range values {
		rm, err := schema.ParseValue(rmType, raw)
		if err != nil {
			if !column.Type.IsMap() {
				return cmderr.Parse("%s", err)
			}
			keysOnly := rmType.KeysOnly()
			rm, err = schema.ParseValue(keysOnly, raw)
			if err != nil {
				return cmderr.Parse("%s", err)
			}
		}
		cur = cur.Subtract(rm)
	}
	if uint(cur.Len()) < column.Type.NMin {
		return cmderr.Semantic(
			"\"remove\" operation would put %d %s in column %s of table %s but the minimum number is %d",
			cur.Len(), elementWord(column.Type), column.Name, table.Name, column.Type.NMin)
	}
	db.Verify(row, column)
	txn.Write(row, column, cur)
	return nil
}

// Clear implements "clear TABLE REC COL+": writes the empty datum. A
// column whose n_min > 0 can never legally hold zero elements, so clearing
// it is fatal.
func Clear(db idl.DB, txn idl.Txn, table *schema.Table, row *idl.Row, column *schema.Column) error {
	if err := checkMutable(column, table); err != nil {
		return err
	}
	if column.Type.NMin > 0 {
		return cmderr.Semantic(
			"\"clear\" operation cannot be applied to column %s of table %s, which is not allowed to be empty",
			column.Name, table.Name)
	}
	db.Verify(row, column)
	txn.Write(row, column, schema.Empty(column.Type))
	return nil
}

// Create implements "create TABLE (COL[:KEY]=VALUE)*": allocates a new row
// (from the symbol table's reserved UUID if one was supplied, otherwise a
// fresh one), inserts it, and applies each clause the same way Set does.
// It returns the row so the caller can print its (dummy) UUID and later
// rewrite it via idl.Txn.InsertUUID in the post-run hook.
func Create(db idl.DB, txn idl.Txn, table *schema.Table, id *uuid.UUID, clauses []expr.Clause) (*idl.Row, error) {
	row := txn.Insert(table, id)
	for _, c := range clauses {
		if err := Set(db, txn, table, row, c); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Destroy implements "destroy TABLE (REC+|--all)": deletes each resolved
// row, or every row in table.
func Destroy(txn idl.Txn, rows []*idl.Row) {
	for _, row := range rows {
		txn.Delete(row)
	}
}

func checkCardinality(v schema.Value, t schema.DatumType, table *schema.Table, column *schema.Column) error {
	n := uint(v.Len())
	if n < t.NMin {
		return cmderr.Semantic("column %s of table %s requires at least %d value(s), has %d", column.Name, table.Name, t.NMin, n)
	}
	if t.NMax != schema.UnboundedMax && n > t.NMax {
		return cmderr.Semantic("column %s of table %s allows at most %d value(s), would have %d", column.Name, table.Name, t.NMax, n)
	}
	return nil
}

func elementWord(t schema.DatumType) string {
	if t.HasValue {
		return "pairs"
	}
	return "values"
}
