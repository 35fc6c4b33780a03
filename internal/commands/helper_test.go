package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbctl/idl"
	"dbctl/internal/registry"
	"dbctl/internal/symtab"
	"dbctl/schema"
	"dbctl/store"
)

// testSchema returns a Root(name, ports: set<Port>)/Port(name, tags: set<integer>)
// schema shaped like the demo schema embedded in cmd/dbctl, used across this
// package's command tests.
func testSchema() (*schema.Database, *schema.Table, *schema.Table) {
	portName := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}, Mutable: true}
	tags := &schema.Column{Name: "tags", Type: schema.DatumType{Key: schema.TypeInteger, NMax: schema.UnboundedMax}, Mutable: true}
	port := &schema.Table{Name: "Port", Columns: []*schema.Column{portName, tags}}
	port.Indexes = []schema.RowIDIndex{{ReferrerTable: port, NameColumn: portName}}

	rootName := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}, Mutable: true}
	ports := &schema.Column{Name: "ports", Type: schema.DatumType{
		Key: schema.TypeUUID, KeyRefTable: port, NMin: 0, NMax: schema.UnboundedMax,
	}, Mutable: true}
	root := &schema.Table{Name: "Root", IsRoot: true, Columns: []*schema.Column{rootName, ports}}
	root.Indexes = []schema.RowIDIndex{{ReferrerTable: root}}

	db := &schema.Database{Name: "test", Tables: []*schema.Table{root, port}}
	return db, root, port
}

// newTestContext opens a fresh in-memory store and wraps it in an idl.Context,
// optionally inside an active write transaction.
func newTestContext(t *testing.T, write bool) (*idl.Context, *store.Store, *schema.Database) {
	t.Helper()
	db, _, _ := testSchema()
	s, err := store.Open(":memory:", db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := &idl.Context{Schema: db, DB: s, Symtab: symtab.New()}
	if write {
		ctx.Txn = s.Begin()
	}
	return ctx, s, db
}

// newCommand builds a registry.Command for the named syntax with the given
// positional args and options, looked up from a registry populated with
// RegisterBuiltins.
func newCommand(t *testing.T, name string, args []string, opts map[string]string) *registry.Command {
	t.Helper()
	reg := registry.New()
	RegisterBuiltins(reg)
	syn := reg.Lookup(name)
	require.NotNil(t, syn)
	if opts == nil {
		opts = map[string]string{}
	}
	return &registry.Command{Syntax: syn, Args: args, Options: opts}
}

// createPort inserts and commits a Port row named by nameVal, returning the
// committed row looked up under its final UUID.
func createPort(t *testing.T, s *store.Store, port *schema.Table, portName *schema.Column, nameVal string) *idl.Row {
	t.Helper()
	txn := s.Begin()
	row := txn.Insert(port, nil)
	txn.Write(row, portName, schema.Value{Keys: []schema.Atom{schema.StringAtom(nameVal)}})
	require.NoError(t, txn.Commit())
	final, ok := txn.InsertUUID(row.UUID)
	require.True(t, ok)
	return s.RowByUUID(port, final)
}
