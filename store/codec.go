// Package store implements idl.DB and idl.Txn on an embedded
// modernc.org/sqlite database: one JSON-typed row table plus a per-row
// version counter used for the optimistic verify/retry scheme of
// spec.md §5.
package store

import (
	"encoding/json"
	"fmt"

	"dbctl/schema"
)

// encodeValue turns a Value into a JSON-friendly shape built from each
// Atom's canonical String() form, so the same quoting/formatting rules
// schema.ParseAtom already knows how to reverse are reused for decoding
// instead of duplicating per-type (de)serialization here.
func encodeValue(v schema.Value) any {
	if v.IsMap {
		pairs := make([][2]string, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = [2]string{p.Key.String(), p.Value.String()}
		}
		return pairs
	}
	keys := make([]string, len(v.Keys))
	for i, k := range v.Keys {
		keys[i] = k.String()
	}
	return keys
}

// decodeValue is encodeValue's inverse, reparsing each stored atom string
// against the column's declared type.
func decodeValue(t schema.DatumType, raw json.RawMessage) (schema.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return schema.Empty(t), nil
	}
	if t.HasValue {
		var pairs [][2]string
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return schema.Value{}, fmt.Errorf("decoding map column: %w", err)
		}
		v := schema.Value{IsMap: true}
		for _, kv := range pairs {
			key, err := schema.ParseAtom(t.Key, kv[0])
			if err != nil {
				return schema.Value{}, err
			}
			val, err := schema.ParseAtom(t.Value, kv[1])
			if err != nil {
				return schema.Value{}, err
			}
			v.Pairs = append(v.Pairs, schema.Pair{Key: key, Value: val})
		}
		return v.Normalize(), nil
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return schema.Value{}, fmt.Errorf("decoding set column: %w", err)
	}
	v := schema.Value{}
	for _, k := range keys {
		a, err := schema.ParseAtom(t.Key, k)
		if err != nil {
			return schema.Value{}, err
		}
		v.Keys = append(v.Keys, a)
	}
	return v.Normalize(), nil
}

// rowDatum is the on-disk shape of one row's data blob: column name to its
// encoded Value.
type rowDatum map[string]any

func marshalRow(data map[string]schema.Value) ([]byte, error) {
	out := make(rowDatum, len(data))
	for name, v := range data {
		out[name] = encodeValue(v)
	}
	return json.Marshal(out)
}

func unmarshalRow(table *schema.Table, blob []byte) (map[string]schema.Value, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("decoding row blob: %w", err)
	}
	out := make(map[string]schema.Value, len(raw))
	for _, col := range table.Columns {
		r, ok := raw[col.Name]
		if !ok {
			out[col.Name] = schema.Empty(col.Type)
			continue
		}
		v, err := decodeValue(col.Type, r)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		out[col.Name] = v
	}
	return out, nil
}
