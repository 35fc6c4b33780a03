// Package expr implements the COLUMN[:KEY][OP VALUE] expression grammar of
// spec.md §4.3, shared by find, wait-until, and the assignment clauses of
// set/create.
package expr

import (
	"strconv"
	"strings"

	"dbctl/internal/cmderr"
)

// Op is one of the twelve relational/set-comparison operators. Operators
// are tried longest-string-first so "<=" never parses as "<" followed by a
// stray "=value" (spec.md §9's "Longest-operator match" design note).
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "!="
	OpLt      Op = "<"
	OpGt      Op = ">"
	OpLe      Op = "<="
	OpGe      Op = ">="
	OpSetEq   Op = "{=}"
	OpSetNe   Op = "{!=}"
	OpSetLt   Op = "{<}"
	OpSetGt   Op = "{>}"
	OpSetLe   Op = "{<=}"
	OpSetGe   Op = "{>=}"
)

// operators is sorted by descending length so the longest match always
// wins; within equal lengths, order is otherwise insignificant.
var operators = []Op{
	OpSetEq, OpSetNe, OpSetLt, OpSetGt, OpSetLe, OpSetGe, // len 3-4, longest first below
	OpLe, OpGe, OpNe,
	OpEq, OpLt, OpGt,
}

func init() {
	// Enforce the invariant at package init instead of hand-sorting above,
	// so a future edit to the operator list can't silently break
	// longest-match order.
	sortByDescendingLength(operators)
}

func sortByDescendingLength(ops []Op) {
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0 && len(ops[j]) > len(ops[j-1]); j-- {
			ops[j], ops[j-1] = ops[j-1], ops[j]
		}
	}
}

// IsSetOp reports whether op is one of the six "{...}" set/multiset
// operators.
func (op Op) IsSetOp() bool {
	switch op {
	case OpSetEq, OpSetNe, OpSetLt, OpSetGt, OpSetLe, OpSetGe:
		return true
	default:
		return false
	}
}

// Clause is the parsed shape of one COLUMN[:KEY][OP VALUE] argument, before
// the column/key have been resolved against a schema.
type Clause struct {
	Column string
	HasKey bool
	Key    string
	HasOp  bool
	Op     Op
	Value  string // raw, unparsed remainder; typed by the caller against the column's DatumType
}

// Parse splits arg into Clause per spec.md §4.3. The OP/VALUE suffix is
// optional: get uses a bare "COLUMN[:KEY]"; find/wait-until and
// set/create require it (validated by the caller, not here, since the
// allowed operator set differs by command).
func Parse(arg string) (Clause, error) {
	col, rest, err := readToken(arg)
	if err != nil {
		return Clause{}, err
	}
	if col == "" {
		return Clause{}, cmderr.Parse("%q: missing column name", arg)
	}
	c := Clause{Column: col}

	if strings.HasPrefix(rest, ":") {
		c.HasKey = true
		key, r2, err := readToken(rest[1:])
		if err != nil {
			return Clause{}, err
		}
		if key == "" {
			return Clause{}, cmderr.Parse("%q: missing key after ':'", arg)
		}
		c.Key = key
		rest = r2
	}

	if rest == "" {
		return c, nil
	}

	op, ok := matchOperator(rest)
	if !ok {
		return Clause{}, cmderr.Parse("%q: expected relational operator", arg)
	}
	c.HasOp = true
	c.Op = op
	c.Value = rest[len(op):]
	return c, nil
}

// matchOperator returns the longest operator that prefixes s.
func matchOperator(s string) (Op, bool) {
	for _, op := range operators {
		if strings.HasPrefix(s, string(op)) {
			return op, true
		}
	}
	return "", false
}

// readToken reads one bare identifier or double-quoted string token from
// the front of s, returning the token's text (unquoted) and the remainder.
func readToken(s string) (string, string, error) {
	if s == "" {
		return "", "", nil
	}
	if s[0] == '"' {
		for i := 1; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == '"' {
				tok, err := strconv.Unquote(s[:i+1])
				if err != nil {
					return "", "", cmderr.Parse("%q: invalid quoted token", s)
				}
				return tok, s[i+1:], nil
			}
		}
		return "", "", cmderr.Parse("%q: unterminated quoted token", s)
	}
	i := 0
	for i < len(s) && isBareChar(s[i]) {
		i++
	}
	return s[:i], s[i:], nil
}

func isBareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.':
		return true
	default:
		return false
	}
}
