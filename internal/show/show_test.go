package show

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbctl/idl"
	"dbctl/schema"
)

type fakeDB struct {
	rows   []*idl.Row
	values map[*idl.Row]map[*schema.Column]schema.Value
}

func newFakeDB() *fakeDB {
	return &fakeDB{values: map[*idl.Row]map[*schema.Column]schema.Value{}}
}

func (f *fakeDB) add(table *schema.Table) *idl.Row {
	row := idl.NewRow(uuid.New(), table, nil)
	f.rows = append(f.rows, row)
	f.values[row] = map[*schema.Column]schema.Value{}
	return row
}

func (f *fakeDB) set(row *idl.Row, col *schema.Column, v schema.Value) {
	f.values[row][col] = v
}

func (f *fakeDB) RegisterColumns(*schema.Table, []*schema.Column) {}

func (f *fakeDB) FirstRow(table *schema.Table) *idl.Row {
	for _, r := range f.rows {
		if r.Table == table {
			return r
		}
	}
	return nil
}

func (f *fakeDB) NextRow(row *idl.Row) *idl.Row {
	found := false
	for _, r := range f.rows {
		if found && r.Table == row.Table {
			return r
		}
		if r == row {
			found = true
		}
	}
	return nil
}

func (f *fakeDB) RowByUUID(table *schema.Table, id uuid.UUID) *idl.Row {
	for _, r := range f.rows {
		if r.Table == table && r.UUID == id {
			return r
		}
	}
	return nil
}

func (f *fakeDB) Get(row *idl.Row, col *schema.Column) schema.Value {
	return f.values[row][col]
}

func (f *fakeDB) Verify(*idl.Row, *schema.Column) {}

func TestShowWalksNestedSetReference(t *testing.T) {
	portName := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}}
	port := &schema.Table{Name: "Port", Columns: []*schema.Column{portName}}

	ports := &schema.Column{Name: "ports", Type: schema.DatumType{
		Key: schema.TypeUUID, KeyRefTable: port, NMax: schema.UnboundedMax,
	}}
	root := &schema.Table{Name: "Root", IsRoot: true, Columns: []*schema.Column{ports}}

	db := newFakeDB()
	rootRow := db.add(root)
	portRow := db.add(port)
	db.set(portRow, portName, schema.Value{Keys: []schema.Atom{schema.StringAtom("p1")}})
	db.set(rootRow, ports, schema.Value{Keys: []schema.Atom{schema.UUIDAtom(portRow.UUID)}})

	w := &Walker{DB: db, Tables: []TableDesc{
		{Table: root, Columns: []*schema.Column{ports}},
		{Table: port, NameColumn: portName},
	}}

	var out strings.Builder
	w.Show(&out)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, rootRow.UUID.String(), lines[0])
	assert.Equal(t, "    Port \"p1\"", lines[1])
}

func TestShowSkipsDefaultColumns(t *testing.T) {
	name := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}}
	table := &schema.Table{Name: "Port", Columns: []*schema.Column{name}}
	db := newFakeDB()
	db.add(table)

	w := &Walker{DB: db, Tables: []TableDesc{{Table: table, NameColumn: name}}}

	var out strings.Builder
	w.Show(&out)
	assert.NotContains(t, out.String(), "name:")
}

func TestShowWeakRefBacklink(t *testing.T) {
	rootName := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}}
	root := &schema.Table{Name: "Root", Columns: []*schema.Column{rootName}}

	rootRef := &schema.Column{Name: "root", Type: schema.DatumType{Key: schema.TypeUUID, KeyRefTable: root, NMax: 1}}
	refName := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}}
	ref := &schema.Table{Name: "Ref", Columns: []*schema.Column{refName, rootRef}}

	db := newFakeDB()
	rootRow := db.add(root)
	db.set(rootRow, rootName, schema.Value{Keys: []schema.Atom{schema.StringAtom("r1")}})
	refRow := db.add(ref)
	db.set(refRow, refName, schema.Value{Keys: []schema.Atom{schema.StringAtom("child")}})
	db.set(refRow, rootRef, schema.Value{Keys: []schema.Atom{schema.UUIDAtom(rootRow.UUID)}})

	w := &Walker{DB: db, Tables: []TableDesc{
		{Table: root, NameColumn: rootName, WeakRef: &WeakRef{Table: ref, NameColumn: refName, WrefColumn: rootRef}},
	}}

	var out strings.Builder
	w.Show(&out)
	assert.Contains(t, out.String(), "Ref \"child\"")
}
