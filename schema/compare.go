package schema

import "strings"

// Compare3Way implements ovsdb_datum_compare_3way: lexicographic comparison
// of two normalized Values of the same type, element by element.
func (v Value) Compare3Way(other Value) int {
	if v.IsMap {
		n := min(len(v.Pairs), len(other.Pairs))
		for i := 0; i < n; i++ {
			if c := v.Pairs[i].Key.Compare(other.Pairs[i].Key); c != 0 {
				return c
			}
			if c := v.Pairs[i].Value.Compare(other.Pairs[i].Value); c != 0 {
				return c
			}
		}
		return compareLen(len(v.Pairs), len(other.Pairs))
	}
	n := min(len(v.Keys), len(other.Keys))
	for i := 0; i < n; i++ {
		if c := v.Keys[i].Compare(other.Keys[i]); c != 0 {
			return c
		}
	}
	return compareLen(len(v.Keys), len(other.Keys))
}

func compareLen(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// AtKey returns the value stored under key in a map Value (or key itself,
// for a set Value, treating membership as "value at key"), and whether key
// was present at all.
func (v Value) AtKey(key Atom) (Atom, bool) {
	return v.containsKey(key)
}

// containsKey reports whether a set Value contains key, or a map Value
// contains an entry with this key (ignoring its value).
func (v Value) containsKey(key Atom) (Atom, bool) {
	if v.IsMap {
		for _, p := range v.Pairs {
			if p.Key.Compare(key) == 0 {
				return p.Value, true
			}
		}
		return Atom{}, false
	}
	for _, k := range v.Keys {
		if k.Compare(key) == 0 {
			return k, true
		}
	}
	return Atom{}, false
}

// IncludesAll reports whether every element (key, or key/value pair) of sub
// is present in v — the building block for the {<=}/{>=}/{<}/{>} operators.
func (v Value) IncludesAll(sub Value) bool {
	if v.IsMap {
		for _, p := range sub.Pairs {
			val, ok := v.containsKey(p.Key)
			if !ok || val.Compare(p.Value) != 0 {
				return false
			}
		}
		return true
	}
	for _, k := range sub.Keys {
		if _, ok := v.containsKey(k); !ok {
			return false
		}
	}
	return true
}

// Union merges other into v in place, following OVSDB's "union" semantics:
// a key already present keeps its prior value (replace=false) or takes
// other's value (replace=true). Used by "add" (replace=false) and by "set
// COL:KEY=VALUE" (replace=true).
func (v Value) Union(other Value, replace bool) Value {
	if v.IsMap {
		for _, p := range other.Pairs {
			found := false
			for i, e := range v.Pairs {
				if e.Key.Compare(p.Key) == 0 {
					found = true
					if replace {
						v.Pairs[i].Value = p.Value
					}
					break
				}
			}
			if !found {
				v.Pairs = append(v.Pairs, p)
			}
		}
	} else {
		for _, k := range other.Keys {
			if _, ok := v.containsKey(k); !ok {
				v.Keys = append(v.Keys, k)
			}
		}
	}
	return v.Normalize()
}

// Subtract removes every element of other from v in place. When v is a map,
// a map other removes matching key/value pairs and a non-map other is a
// "keys only" set that removes entries by key (the "remove" path in
// spec.md §4.6).
func (v Value) Subtract(other Value) Value {
	if v.IsMap {
		keep := v.Pairs[:0:0]
		for _, e := range v.Pairs {
			remove := false
			if other.IsMap {
				for _, p := range other.Pairs {
					if e.Key.Compare(p.Key) == 0 && e.Value.Compare(p.Value) == 0 {
						remove = true
						break
					}
				}
			} else {
				for _, k := range other.Keys {
					if e.Key.Compare(k) == 0 {
						remove = true
						break
					}
				}
			}
			if !remove {
				keep = append(keep, e)
			}
		}
		v.Pairs = keep
	} else {
		keep := v.Keys[:0:0]
		for _, k := range v.Keys {
			remove := false
			for _, rk := range other.Keys {
				if k.Compare(rk) == 0 {
					remove = true
					break
				}
			}
			if !remove {
				keep = append(keep, k)
			}
		}
		v.Keys = keep
	}
	return v
}

// Clone returns a deep-enough copy of v (the backing slices are copied, the
// Atoms are value types already).
func (v Value) Clone() Value {
	out := Value{IsMap: v.IsMap}
	if v.IsMap {
		out.Pairs = append([]Pair(nil), v.Pairs...)
	} else {
		out.Keys = append([]Atom(nil), v.Keys...)
	}
	return out
}

// IsDefault reports whether v is the empty/default datum for t, used by the
// show walker to skip printing unset columns.
func (v Value) IsDefault(t DatumType) bool {
	return v.Len() == 0
}

// String renders v the way the database's canonical formatter would: a bare
// atom for a scalar, "[a, b, c]" for a set, "{k=v, ...}" for a map.
func (v Value) String() string {
	if v.IsMap {
		parts := make([]string, len(v.Pairs))
		for i, p := range v.Pairs {
			parts[i] = p.Key.String() + "=" + p.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if len(v.Keys) == 1 {
		return v.Keys[0].String()
	}
	parts := make([]string, len(v.Keys))
	for i, k := range v.Keys {
		parts[i] = k.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
