// Package symtab implements the symbol table of spec.md §4.5: a per-stream
// map from "@name" handles to row UUIDs that may not exist in the database
// yet.
package symtab

import (
	"strings"

	"github.com/google/uuid"

	"dbctl/internal/cmderr"
)

// Symbol is one "@name" binding.
type Symbol struct {
	Name string
	UUID uuid.UUID

	// Created is set the first time any command claims this id (via
	// create --id= or get --id=). A second claim is fatal.
	Created bool

	// StrongRef suppresses "unreferenced symbol" warnings performed by the
	// host after the stream completes.
	StrongRef bool
}

// Table is the arena of symbols live for one command stream.
type Table struct {
	byName map[string]*Symbol
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// Lookup returns the symbol named id, or nil if it has never been
// referenced.
func (t *Table) Lookup(id string) *Symbol {
	return t.byName[id]
}

// Insert returns the symbol named id, creating an unbound one (a fresh
// random UUID, Created=false) the first time id is seen.
func (t *Table) Insert(id string) (*Symbol, error) {
	if !strings.HasPrefix(id, "@") {
		return nil, cmderr.Symbol("row id %q does not begin with \"@\"", id)
	}
	if s, ok := t.byName[id]; ok {
		return s, nil
	}
	s := &Symbol{Name: id, UUID: uuid.New()}
	t.byName[id] = s
	return s, nil
}

// CreateSymbol is the entry point used by --id= handlers (spec.md §4.5): it
// inserts (or reuses) the symbol and marks it Created, failing if it was
// already claimed by an earlier command in this stream. isNew reports
// whether the symbol did not exist prior to this call.
func (t *Table) CreateSymbol(id string) (sym *Symbol, isNew bool, err error) {
	if !strings.HasPrefix(id, "@") {
		return nil, false, cmderr.Symbol("row id %q does not begin with \"@\"", id)
	}
	isNew = t.byName[id] == nil
	s, err := t.Insert(id)
	if err != nil {
		return nil, false, err
	}
	if s.Created {
		return nil, false, cmderr.Symbol("row id %q may only be specified on one --id option", id)
	}
	s.Created = true
	return s, isNew, nil
}

// Unreferenced returns every symbol that was bound (Created) but never
// marked StrongRef — candidates for the host's "unreferenced symbol"
// warning pass.
func (t *Table) Unreferenced() []*Symbol {
	var out []*Symbol
	for _, s := range t.byName {
		if s.Created && !s.StrongRef {
			out = append(out, s)
		}
	}
	return out
}
