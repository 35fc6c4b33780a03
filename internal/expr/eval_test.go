package expr

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbctl/idl"
	"dbctl/schema"
)

type fakeDB struct {
	values map[*schema.Column]schema.Value
}

func (f *fakeDB) RegisterColumns(*schema.Table, []*schema.Column) {}
func (f *fakeDB) FirstRow(*schema.Table) *idl.Row                 { return nil }
func (f *fakeDB) NextRow(*idl.Row) *idl.Row                       { return nil }
func (f *fakeDB) RowByUUID(*schema.Table, uuid.UUID) *idl.Row     { return nil }
func (f *fakeDB) Get(row *idl.Row, col *schema.Column) schema.Value {
	return f.values[col]
}
func (f *fakeDB) Verify(*idl.Row, *schema.Column) {}

func testTable() (*schema.Table, *schema.Column, *schema.Column) {
	name := &schema.Column{Name: "name", Type: schema.DatumType{Key: schema.TypeString, NMax: 1}}
	ids := &schema.Column{Name: "external_ids", Type: schema.DatumType{
		Key: schema.TypeString, HasValue: true, Value: schema.TypeString, NMax: schema.UnboundedMax,
	}}
	table := &schema.Table{Name: "Port", Columns: []*schema.Column{name, ids}}
	return table, name, ids
}

func TestResolveScalar(t *testing.T) {
	table, _, _ := testTable()
	c, err := Parse(`name="p1"`)
	require.NoError(t, err)
	r, err := Resolve(table, c)
	require.NoError(t, err)
	assert.Equal(t, OpEq, r.Op)
	assert.Equal(t, "p1", r.Value.Keys[0].Str)
}

func TestResolveKeyOnNonMapColumn(t *testing.T) {
	table, _, _ := testTable()
	c, err := Parse(`name:x="p1"`)
	require.NoError(t, err)
	_, err = Resolve(table, c)
	assert.Error(t, err)
}

func TestResolveMapKey(t *testing.T) {
	table, _, _ := testTable()
	c, err := Parse(`external_ids:role="spine"`)
	require.NoError(t, err)
	r, err := Resolve(table, c)
	require.NoError(t, err)
	assert.True(t, r.HasKey)
	assert.Equal(t, "role", r.Key.Str)
}

func TestSatisfiedScalarEq(t *testing.T) {
	table, name, _ := testTable()
	db := &fakeDB{values: map[*schema.Column]schema.Value{
		name: {Keys: []schema.Atom{schema.StringAtom("p1")}},
	}}
	c, _ := Parse(`name="p1"`)
	r, err := Resolve(table, c)
	require.NoError(t, err)
	row := idl.NewRow(uuid.New(), table, nil)
	assert.True(t, Satisfied(db, row, r))
}

func TestSatisfiedMapKeyMissingShortCircuits(t *testing.T) {
	table, _, ids := testTable()
	db := &fakeDB{values: map[*schema.Column]schema.Value{
		ids: {IsMap: true},
	}}
	c, _ := Parse(`external_ids:role="spine"`)
	r, err := Resolve(table, c)
	require.NoError(t, err)
	row := idl.NewRow(uuid.New(), table, nil)
	assert.False(t, Satisfied(db, row, r))
}

func TestSatisfiedSetOperators(t *testing.T) {
	name := &schema.Column{Name: "tags", Type: schema.DatumType{Key: schema.TypeInteger, NMax: schema.UnboundedMax}}
	table := &schema.Table{Name: "T", Columns: []*schema.Column{name}}
	db := &fakeDB{values: map[*schema.Column]schema.Value{
		name: {Keys: []schema.Atom{schema.IntAtom(1), schema.IntAtom(2), schema.IntAtom(3)}},
	}}
	row := idl.NewRow(uuid.New(), table, nil)

	c, _ := Parse("tags{>=}[1,2]")
	r, err := Resolve(table, c)
	require.NoError(t, err)
	assert.True(t, Satisfied(db, row, r))

	c, _ = Parse("tags{<}[1,2]")
	r, err = Resolve(table, c)
	require.NoError(t, err)
	assert.False(t, Satisfied(db, row, r))
}
