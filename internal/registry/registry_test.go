package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOptionUnknown(t *testing.T) {
	s := &Syntax{Name: "get", Options: "if-exists"}
	err := s.CheckOption("nope", false)
	assert.Error(t, err)
}

func TestCheckOptionWantsValueButNoneGiven(t *testing.T) {
	s := &Syntax{Name: "list", Options: "columns="}
	err := s.CheckOption("columns", false)
	assert.Error(t, err)
}

func TestCheckOptionValueless(t *testing.T) {
	s := &Syntax{Name: "get", Options: "if-exists"}
	assert.NoError(t, s.CheckOption("if-exists", false))
}

func TestMightWriteToDB(t *testing.T) {
	r := New()
	r.Register(&Syntax{Name: "get", Mode: ReadOnly})
	r.Register(&Syntax{Name: "set", Mode: ReadWrite})

	assert.False(t, r.MightWriteToDB([]string{"get", "Port", "p1", "name"}))
	assert.True(t, r.MightWriteToDB([]string{"get", "Port", "p1", "name", "--", "set", "Port", "p1", "name=p2"}))
}

func TestAddCmdOptionsConflict(t *testing.T) {
	r := New()
	r.Register(&Syntax{Name: "get", Options: "id"})
	r.Register(&Syntax{Name: "create", Options: "id="})

	_, err := r.AddCmdOptions(nil, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOptionConflict))
}

func TestAddCmdOptionsNoConflict(t *testing.T) {
	r := New()
	r.Register(&Syntax{Name: "get", Options: "if-exists,id="})
	r.Register(&Syntax{Name: "create", Options: "id="})

	opts, err := r.AddCmdOptions(nil, 1)
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestLookupUnknown(t *testing.T) {
	r := New()
	assert.Nil(t, r.Lookup("nope"))
}
