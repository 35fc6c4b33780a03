package expr

import (
	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/internal/match"
	"dbctl/schema"
)

// Resolved is a Clause with its column looked up against a table and its
// VALUE (and, for a map column, KEY) parsed into typed schema.Values.
type Resolved struct {
	Column *schema.Column
	HasKey bool
	Key    schema.Atom
	HasOp  bool
	Op     Op
	Value  schema.Value
}

// Resolve looks up c.Column on table and parses c.Key/c.Value against the
// column's DatumType, per spec.md §4.3's bare/map/set forms. The column's
// n_max is temporarily widened to unbounded while parsing VALUE so a set
// literal may appear on the right of any operator ("Value widening").
func Resolve(table *schema.Table, c Clause) (Resolved, error) {
	column, err := match.Column(table, c.Column)
	if err != nil {
		return Resolved{}, err
	}

	r := Resolved{Column: column, HasOp: c.HasOp, Op: c.Op}

	if c.HasKey && !column.Type.IsMap() {
		return Resolved{}, cmderr.Semantic("%s is not a map column, but key %q was specified", column.Name, c.Key)
	}

	if c.HasKey {
		key, err := schema.ParseAtom(column.Type.Key, c.Key)
		if err != nil {
			return Resolved{}, cmderr.Parse("%s", err)
		}
		r.HasKey = true
		r.Key = key
	}

	if !c.HasOp {
		return r, nil
	}

	valueType := column.Type.Widened()
	if c.HasKey {
		valueType = schema.DatumType{Key: column.Type.Value, NMin: 0, NMax: schema.UnboundedMax}
	}
	v, err := schema.ParseValue(valueType, c.Value)
	if err != nil {
		return Resolved{}, cmderr.Parse("%s", err)
	}
	r.Value = v
	return r, nil
}

// have reads the "have" side of a comparison off row, per spec.md §4.3:
// the full column datum, or, when a key is present, the singleton
// {value_at_key} (or the empty set when the key is absent).
func have(db idl.DB, row *idl.Row, r Resolved) (schema.Value, bool) {
	full := db.Get(row, r.Column)
	if !r.HasKey {
		return full, true
	}
	val, ok := full.AtKey(r.Key)
	if !ok {
		return schema.Value{}, false
	}
	return schema.Value{Keys: []schema.Atom{val}}, true
}

// Satisfied evaluates one resolved condition against row, implementing
// spec.md §4.3's "Comparison semantics" paragraph.
func Satisfied(db idl.DB, row *idl.Row, r Resolved) bool {
	haveVal, present := have(db, row, r)
	if r.HasKey && !present {
		// "for non-set operators a missing key short-circuits to false"
		if !r.Op.IsSetOp() {
			return false
		}
		haveVal = schema.Value{}
	}

	switch r.Op {
	case OpEq, OpSetEq:
		return haveVal.Compare3Way(r.Value) == 0
	case OpNe, OpSetNe:
		return haveVal.Compare3Way(r.Value) != 0
	case OpLt:
		return haveVal.Compare3Way(r.Value) < 0
	case OpGt:
		return haveVal.Compare3Way(r.Value) > 0
	case OpLe:
		return haveVal.Compare3Way(r.Value) <= 0
	case OpGe:
		return haveVal.Compare3Way(r.Value) >= 0
	case OpSetLt:
		return r.Value.Len() > haveVal.Len() && r.Value.IncludesAll(haveVal)
	case OpSetGt:
		return haveVal.Len() > r.Value.Len() && haveVal.IncludesAll(r.Value)
	case OpSetLe:
		return r.Value.IncludesAll(haveVal)
	case OpSetGe:
		return haveVal.IncludesAll(r.Value)
	default:
		return false
	}
}
