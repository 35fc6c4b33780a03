// Package commands wires the generic CLI surface of spec.md §6
// (get/list/find/set/add/remove/clear/create/destroy/wait-until/show/
// comment) to the engine, resolve, expr, and show packages behind
// registry.Syntax entries.
package commands

import (
	"fmt"
	"strings"

	"dbctl/idl"
	"dbctl/internal/match"
	"dbctl/internal/registry"
	"dbctl/internal/resolve"
	"dbctl/internal/show"
	"dbctl/schema"
)

// RegisterBuiltins registers every generic command from spec.md §6's CLI
// surface table except "show", which is only registered when the host
// supplies a show-table description list (see RegisterShow).
func RegisterBuiltins(reg *registry.Registry) {
	reg.Register(&registry.Syntax{
		Name: "comment", MinArgs: 0, MaxArgs: 1 << 20, Mode: registry.ReadWrite,
		Run: runComment,
	})
	reg.Register(&registry.Syntax{
		Name: "get", MinArgs: 2, MaxArgs: 1 << 20, Options: "if-exists,id=", Mode: registry.ReadOnly,
		PreRun: preGet, Run: runGet,
	})
	reg.Register(&registry.Syntax{
		Name: "list", MinArgs: 1, MaxArgs: 1 << 20, Options: "if-exists,columns=,oneline", Mode: registry.ReadOnly,
		PreRun: preList, Run: runList,
	})
	reg.Register(&registry.Syntax{
		Name: "find", MinArgs: 1, MaxArgs: 1 << 20, Options: "columns=,oneline", Mode: registry.ReadOnly,
		PreRun: preFind, Run: runFind,
	})
	reg.Register(&registry.Syntax{
		Name: "set", MinArgs: 3, MaxArgs: 1 << 20, Options: "if-exists", Mode: registry.ReadWrite,
		PreRun: preSet, Run: runSet,
	})
	reg.Register(&registry.Syntax{
		Name: "add", MinArgs: 4, MaxArgs: 1 << 20, Options: "if-exists", Mode: registry.ReadWrite,
		PreRun: preAddRemove, Run: runAdd,
	})
	reg.Register(&registry.Syntax{
		Name: "remove", MinArgs: 4, MaxArgs: 1 << 20, Options: "if-exists", Mode: registry.ReadWrite,
		PreRun: preAddRemove, Run: runRemove,
	})
	reg.Register(&registry.Syntax{
		Name: "clear", MinArgs: 3, MaxArgs: 1 << 20, Options: "if-exists", Mode: registry.ReadWrite,
		PreRun: preClear, Run: runClear,
	})
	reg.Register(&registry.Syntax{
		Name: "create", MinArgs: 1, MaxArgs: 1 << 20, Options: "id=", Mode: registry.ReadWrite,
		PreRun: preCreate, Run: runCreate, PostRun: postCreate,
	})
	reg.Register(&registry.Syntax{
		Name: "destroy", MinArgs: 1, MaxArgs: 1 << 20, Options: "if-exists,all", Mode: registry.ReadWrite,
		PreRun: preDestroy, Run: runDestroy,
	})
	reg.Register(&registry.Syntax{
		Name: "wait-until", MinArgs: 2, MaxArgs: 1 << 20, Mode: registry.ReadOnly,
		PreRun: preWaitUntil, Run: runWaitUntil,
	})
}

// RegisterShow registers the "show" command, populated with the host's
// walker description list. It does nothing (no command is registered) when
// tables is empty, matching spec.md §6's "registered only if show_tables
// given".
func RegisterShow(reg *registry.Registry, tables []show.TableDesc) {
	if len(tables) == 0 {
		return
	}
	reg.Register(&registry.Syntax{
		Name: "show", MinArgs: 0, MaxArgs: 0, Mode: registry.ReadOnly,
		Run: func(ctx *idl.Context, cmd *registry.Command) error {
			w := &show.Walker{DB: ctx.DB, Tables: tables}
			w.Show(&ctx.Output)
			return nil
		},
	})
}

func runComment(ctx *idl.Context, cmd *registry.Command) error {
	if ctx.Txn != nil {
		ctx.Txn.SetComment(strings.Join(cmd.Args[1:], " "))
	}
	return nil
}

func mustExist(cmd *registry.Command) bool {
	_, present := cmd.Option("if-exists")
	return !present
}

func resolveTable(ctx *idl.Context, name string) (*schema.Table, error) {
	return match.Table(ctx.Schema, name)
}

func resolveRow(ctx *idl.Context, table *schema.Table, recordID string, must bool) (*idl.Row, error) {
	return resolve.GetRow(ctx.DB, table, recordID, must)
}

func registerTableColumns(ctx *idl.Context, table *schema.Table) {
	ctx.DB.RegisterColumns(table, table.Columns)
	for _, idx := range table.Indexes {
		cols := []*schema.Column{}
		if idx.NameColumn != nil {
			cols = append(cols, idx.NameColumn)
		}
		if idx.UUIDColumn != nil {
			cols = append(cols, idx.UUIDColumn)
		}
		ctx.DB.RegisterColumns(idx.ReferrerTable, cols)
	}
}

func splitColumns(spec string) []string {
	spec = strings.ReplaceAll(spec, ",", " ")
	return strings.Fields(spec)
}

func formatRowUUID(r *idl.Row) string {
	return fmt.Sprintf("%s\n", r.UUID.String())
}
