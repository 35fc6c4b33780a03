package cmdparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbctl/internal/registry"
)

func TestSplitOnDoubleDash(t *testing.T) {
	cmds := Split([]string{"get", "Port", "p1", "--", "set", "Port", "p1", "name=p2"})
	require.Len(t, cmds, 2)
	assert.Equal(t, []string{"get", "Port", "p1"}, cmds[0])
	assert.Equal(t, []string{"set", "Port", "p1", "name=p2"}, cmds[1])
}

func TestSplitNoSeparator(t *testing.T) {
	cmds := Split([]string{"list", "Port"})
	require.Len(t, cmds, 1)
}

func testRegistry() *registry.Registry {
	r := registry.New()
	r.Register(&registry.Syntax{Name: "get", MinArgs: 2, MaxArgs: 10, Options: "if-exists,id="})
	r.Register(&registry.Syntax{Name: "list", MinArgs: 1, MaxArgs: 10})
	return r
}

func TestParseStreamBasic(t *testing.T) {
	r := testRegistry()
	cmds, err := ParseStream(r, []string{"get", "Port", "p1", "name"}, nil)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "get", cmds[0].Syntax.Name)
	assert.Equal(t, []string{"get", "Port", "p1", "name"}, cmds[0].Args)
}

func TestParseStreamWithOptions(t *testing.T) {
	r := testRegistry()
	cmds, err := ParseStream(r, []string{"--if-exists", "get", "Port", "p1", "name"}, nil)
	require.NoError(t, err)
	v, ok := cmds[0].Option("if-exists")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestParseStreamUnknownCommand(t *testing.T) {
	r := testRegistry()
	_, err := ParseStream(r, []string{"frobnicate", "Port"}, nil)
	assert.Error(t, err)
}

func TestParseStreamDuplicateOption(t *testing.T) {
	r := testRegistry()
	_, err := ParseStream(r, []string{"--if-exists", "--if-exists", "get", "Port", "p1", "name"}, nil)
	assert.Error(t, err)
}

func TestParseStreamWrongArgCount(t *testing.T) {
	r := testRegistry()
	_, err := ParseStream(r, []string{"get", "Port"}, nil)
	assert.Error(t, err)
}

func TestParseStreamUnknownOption(t *testing.T) {
	r := testRegistry()
	_, err := ParseStream(r, []string{"--bogus", "get", "Port", "p1", "name"}, nil)
	assert.Error(t, err)
}

func TestParseStreamMultipleCommands(t *testing.T) {
	r := testRegistry()
	cmds, err := ParseStream(r, []string{"get", "Port", "p1", "name", "--", "list", "Port"}, nil)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "list", cmds[1].Syntax.Name)
}

func TestParseStreamLocalOptionsGoToFirstCommand(t *testing.T) {
	r := testRegistry()
	local := map[string]string{"id": "@p"}
	cmds, err := ParseStream(r, []string{"get", "Port", "p1", "name"}, local)
	require.NoError(t, err)
	v, ok := cmds[0].Option("id")
	assert.True(t, ok)
	assert.Equal(t, "@p", v)
}
