package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRequiresAtPrefix(t *testing.T) {
	tab := New()
	_, err := tab.Insert("noat")
	assert.Error(t, err)
}

func TestInsertReusesSameSymbol(t *testing.T) {
	tab := New()
	a, err := tab.Insert("@x")
	require.NoError(t, err)
	b, err := tab.Insert("@x")
	require.NoError(t, err)
	assert.Equal(t, a.UUID, b.UUID)
}

func TestLookupUnknownReturnsNil(t *testing.T) {
	tab := New()
	assert.Nil(t, tab.Lookup("@never"))
}

func TestCreateSymbolMarksCreated(t *testing.T) {
	tab := New()
	sym, isNew, err := tab.CreateSymbol("@p")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, sym.Created)
}

func TestCreateSymbolTwiceFails(t *testing.T) {
	tab := New()
	_, _, err := tab.CreateSymbol("@p")
	require.NoError(t, err)
	_, _, err = tab.CreateSymbol("@p")
	assert.Error(t, err)
}

func TestCreateSymbolAfterInsertIsNotNew(t *testing.T) {
	tab := New()
	_, err := tab.Insert("@p")
	require.NoError(t, err)
	_, isNew, err := tab.CreateSymbol("@p")
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestUnreferencedSkipsStrongRef(t *testing.T) {
	tab := New()
	sym, _, err := tab.CreateSymbol("@p")
	require.NoError(t, err)
	sym.StrongRef = true
	assert.Empty(t, tab.Unreferenced())

	sym2, _, err := tab.CreateSymbol("@q")
	require.NoError(t, err)
	assert.Equal(t, []*Symbol{sym2}, tab.Unreferenced())
}
