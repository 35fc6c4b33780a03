package schema

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomCompare(t *testing.T) {
	assert.Equal(t, 0, IntAtom(5).Compare(IntAtom(5)))
	assert.Equal(t, -1, IntAtom(1).Compare(IntAtom(2)))
	assert.Equal(t, 1, RealAtom(2.5).Compare(RealAtom(1.5)))
	assert.Equal(t, -1, BoolAtom(false).Compare(BoolAtom(true)))
	assert.Equal(t, 0, StringAtom("a").Compare(StringAtom("a")))
}

func TestAtomString(t *testing.T) {
	assert.Equal(t, "5", IntAtom(5).String())
	assert.Equal(t, "true", BoolAtom(true).String())
	assert.Equal(t, `"hi"`, StringAtom("hi").String())
}

func TestParseAtom(t *testing.T) {
	a, err := ParseAtom(TypeInteger, "42")
	require.NoError(t, err)
	assert.Equal(t, IntAtom(42), a)

	_, err = ParseAtom(TypeInteger, "nope")
	assert.Error(t, err)

	a, err = ParseAtom(TypeString, `"hello world"`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", a.Str)

	id := uuid.New()
	a, err = ParseAtom(TypeUUID, id.String())
	require.NoError(t, err)
	assert.Equal(t, id, a.UUID)
}

func TestParseValueSet(t *testing.T) {
	dt := DatumType{Key: TypeInteger, NMin: 0, NMax: UnboundedMax}
	v, err := ParseValue(dt, "[3, 1, 2]")
	require.NoError(t, err)
	assert.Equal(t, []Atom{IntAtom(1), IntAtom(2), IntAtom(3)}, v.Keys)
}

func TestParseValueSetDuplicatesCollapse(t *testing.T) {
	dt := DatumType{Key: TypeInteger, NMin: 0, NMax: UnboundedMax}
	v, err := ParseValue(dt, "[1, 1, 2]")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
}

func TestParseValueScalarCardinality(t *testing.T) {
	dt := DatumType{Key: TypeInteger, NMin: 1, NMax: 1}
	_, err := ParseValue(dt, "[1, 2]")
	assert.Error(t, err)
}

func TestParseValueMap(t *testing.T) {
	dt := DatumType{Key: TypeString, HasValue: true, Value: TypeInteger, NMin: 0, NMax: UnboundedMax}
	v, err := ParseValue(dt, "{b=2, a=1}")
	require.NoError(t, err)
	require.Len(t, v.Pairs, 2)
	assert.Equal(t, "a", v.Pairs[0].Key.Str)
	assert.Equal(t, "b", v.Pairs[1].Key.Str)
}

func TestValueUnionReplace(t *testing.T) {
	a := Value{IsMap: true, Pairs: []Pair{{Key: StringAtom("k"), Value: IntAtom(1)}}}
	b := Value{IsMap: true, Pairs: []Pair{{Key: StringAtom("k"), Value: IntAtom(2)}}}
	out := a.Union(b, true)
	assert.Equal(t, int64(2), out.Pairs[0].Value.Int)
}

func TestValueUnionNoReplace(t *testing.T) {
	a := Value{IsMap: true, Pairs: []Pair{{Key: StringAtom("k"), Value: IntAtom(1)}}}
	b := Value{IsMap: true, Pairs: []Pair{{Key: StringAtom("k"), Value: IntAtom(2)}}}
	out := a.Union(b, false)
	assert.Equal(t, int64(1), out.Pairs[0].Value.Int)
}

func TestValueSubtractSet(t *testing.T) {
	v := Value{Keys: []Atom{IntAtom(1), IntAtom(2), IntAtom(3)}}
	rm := Value{Keys: []Atom{IntAtom(2)}}
	out := v.Subtract(rm)
	assert.Equal(t, []Atom{IntAtom(1), IntAtom(3)}, out.Keys)
}

func TestValueIncludesAll(t *testing.T) {
	v := Value{Keys: []Atom{IntAtom(1), IntAtom(2), IntAtom(3)}}.Normalize()
	sub := Value{Keys: []Atom{IntAtom(2), IntAtom(3)}}.Normalize()
	assert.True(t, v.IncludesAll(sub))
	assert.False(t, sub.IncludesAll(v))
}

func TestValueCompare3Way(t *testing.T) {
	a := Value{Keys: []Atom{IntAtom(1), IntAtom(2)}}
	b := Value{Keys: []Atom{IntAtom(1), IntAtom(2), IntAtom(3)}}
	assert.Equal(t, -1, a.Compare3Way(b))
	assert.Equal(t, 1, b.Compare3Way(a))
	assert.Equal(t, 0, a.Compare3Way(a))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "5", Value{Keys: []Atom{IntAtom(5)}}.String())
	assert.Equal(t, "[1, 2]", Value{Keys: []Atom{IntAtom(1), IntAtom(2)}}.String())
	m := Value{IsMap: true, Pairs: []Pair{{Key: StringAtom("a"), Value: IntAtom(1)}}}
	assert.Equal(t, `{"a"=1}`, m.String())
}
