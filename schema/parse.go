package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseAtom parses one bare token (no brackets) into an Atom of type typ.
// Quoted strings follow Go's double-quoted string lexical rules; everything
// else is a bare identifier/number.
func ParseAtom(typ AtomicType, token string) (Atom, error) {
	switch typ {
	case TypeInteger:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return Atom{}, fmt.Errorf("%q is not an integer", token)
		}
		return IntAtom(n), nil
	case TypeReal:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Atom{}, fmt.Errorf("%q is not a real number", token)
		}
		return RealAtom(f), nil
	case TypeBoolean:
		switch token {
		case "true":
			return BoolAtom(true), nil
		case "false":
			return BoolAtom(false), nil
		default:
			return Atom{}, fmt.Errorf("%q is not a boolean (expected true or false)", token)
		}
	case TypeString:
		if strings.HasPrefix(token, `"`) {
			s, err := strconv.Unquote(token)
			if err != nil {
				return Atom{}, fmt.Errorf("%q is not a valid quoted string", token)
			}
			return StringAtom(s), nil
		}
		return StringAtom(token), nil
	case TypeUUID:
		id, err := uuid.Parse(token)
		if err != nil {
			return Atom{}, fmt.Errorf("%q is not a valid UUID", token)
		}
		return UUIDAtom(id), nil
	default:
		return Atom{}, fmt.Errorf("unknown atomic type %d", int(typ))
	}
}

// splitSetLiteral splits a "[a, b, c]" token list into its comma-separated
// element tokens, or returns a single-element slice containing token
// unchanged if it isn't bracketed.
func splitSetLiteral(token string) []string {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) >= 2 && trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' {
		inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		if inner == "" {
			return nil
		}
		return splitTopLevel(inner, ',')
	}
	return []string{token}
}

// splitTopLevel splits s on sep, ignoring occurrences inside double-quoted
// substrings.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if i == 0 || s[i-1] != '\\' {
				inQuote = !inQuote
			}
		case sep:
			if !inQuote {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

// ParseValue parses a VALUE token against a column's (possibly widened)
// DatumType, enforcing n_min/n_max and producing a normalized Value.
//
// Map types expect "{key=value, ...}" or, for KeysOnly()-forced types used
// by "remove", a set-literal of bare keys. Set types accept either a single
// bare atom or a "[a, b, c]" literal.
func ParseValue(t DatumType, token string) (Value, error) {
	if t.HasValue {
		return parseMapValue(t, token)
	}
	return parseSetValue(t, token)
}

func parseSetValue(t DatumType, token string) (Value, error) {
	elems := splitSetLiteral(token)
	v := Value{}
	for _, e := range elems {
		a, err := ParseAtom(t.Key, e)
		if err != nil {
			return Value{}, err
		}
		if _, dup := v.containsKey(a); dup {
			continue
		}
		v.Keys = append(v.Keys, a)
	}
	v = v.Normalize()
	if err := checkCardinality(t, v.Len()); err != nil {
		return Value{}, err
	}
	return v, nil
}

func parseMapValue(t DatumType, token string) (Value, error) {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	v := Value{IsMap: true}
	if trimmed == "" {
		if err := checkCardinality(t, 0); err != nil {
			return Value{}, err
		}
		return v, nil
	}
	for _, entry := range splitTopLevel(trimmed, ',') {
		kv := splitTopLevel(entry, '=')
		if len(kv) != 2 {
			return Value{}, fmt.Errorf("%q is not a valid key=value map entry", entry)
		}
		key, err := ParseAtom(t.Key, kv[0])
		if err != nil {
			return Value{}, err
		}
		val, err := ParseAtom(t.Value, kv[1])
		if err != nil {
			return Value{}, err
		}
		v.Pairs = append(v.Pairs, Pair{Key: key, Value: val})
	}
	v = v.Normalize()
	if err := checkCardinality(t, v.Len()); err != nil {
		return Value{}, err
	}
	return v, nil
}

func checkCardinality(t DatumType, n int) error {
	if uint(n) < t.NMin {
		return fmt.Errorf("at least %d value(s) required, got %d", t.NMin, n)
	}
	if t.NMax != UnboundedMax && uint(n) > t.NMax {
		return fmt.Errorf("at most %d value(s) allowed, got %d", t.NMax, n)
	}
	return nil
}
