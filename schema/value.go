package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Atom is a single scalar value of one of the five AtomicTypes.
//
// Only the field matching Type is meaningful; the others are zero.
type Atom struct {
	Type AtomicType
	Int  int64
	Real float64
	Bool bool
	Str  string
	UUID uuid.UUID
}

func IntAtom(v int64) Atom    { return Atom{Type: TypeInteger, Int: v} }
func RealAtom(v float64) Atom { return Atom{Type: TypeReal, Real: v} }
func BoolAtom(v bool) Atom    { return Atom{Type: TypeBoolean, Bool: v} }
func StringAtom(v string) Atom { return Atom{Type: TypeString, Str: v} }
func UUIDAtom(v uuid.UUID) Atom { return Atom{Type: TypeUUID, UUID: v} }

// Compare implements the 3-way lexicographic order used by scalar relops
// and by set/map canonicalization. Atoms must share a Type.
func (a Atom) Compare(b Atom) int {
	switch a.Type {
	case TypeInteger:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case TypeReal:
		switch {
		case a.Real < b.Real:
			return -1
		case a.Real > b.Real:
			return 1
		default:
			return 0
		}
	case TypeBoolean:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	case TypeString:
		return strings.Compare(a.Str, b.Str)
	case TypeUUID:
		return strings.Compare(a.UUID.String(), b.UUID.String())
	default:
		return 0
	}
}

func (a Atom) String() string {
	switch a.Type {
	case TypeInteger:
		return strconv.FormatInt(a.Int, 10)
	case TypeReal:
		return strconv.FormatFloat(a.Real, 'g', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(a.Bool)
	case TypeString:
		return strconv.Quote(a.Str)
	case TypeUUID:
		return a.UUID.String()
	default:
		return fmt.Sprintf("<invalid atom %d>", int(a.Type))
	}
}

// Pair is one key/value entry of a map-typed Value.
type Pair struct {
	Key   Atom
	Value Atom
}

// Value is the in-memory datum for one column read or write: a sorted
// multiset of keys (for a set) or a sorted list of key/value Pairs (for a
// map). Sets store their elements in Keys with Pairs left empty, and vice
// versa; a column's DatumType determines which is active.
type Value struct {
	IsMap bool
	Keys  []Atom
	Pairs []Pair
}

// Empty returns the zero-length Value appropriate for a column's type,
// used by "clear".
func Empty(t DatumType) Value {
	return Value{IsMap: t.HasValue}
}

// Len returns the number of keys (set) or pairs (map) — the "n" from the
// spec's cardinality checks.
func (v Value) Len() int {
	if v.IsMap {
		return len(v.Pairs)
	}
	return len(v.Keys)
}

// Normalize sorts Keys (or Pairs by key) in place and returns the receiver,
// establishing the canonical order comparisons and to-string rendering
// depend on.
func (v Value) Normalize() Value {
	if v.IsMap {
		sort.Slice(v.Pairs, func(i, j int) bool {
			return v.Pairs[i].Key.Compare(v.Pairs[j].Key) < 0
		})
	} else {
		sort.Slice(v.Keys, func(i, j int) bool {
			return v.Keys[i].Compare(v.Keys[j]) < 0
		})
	}
	return v
}
