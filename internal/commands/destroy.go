package commands

import (
	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/internal/engine"
	"dbctl/internal/registry"
)

func preDestroy(ctx *idl.Context, cmd *registry.Command) error {
	_, err := resolveTable(ctx, cmd.Args[1])
	return err
}

func runDestroy(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	_, all := cmd.Option("all")
	must := mustExist(cmd)

	if all {
		if len(cmd.Args) > 2 {
			return cmderr.Semantic("\"destroy\" command cannot combine \"--all\" with records to destroy")
		}
		if !must {
			return cmderr.Semantic("\"destroy\" command cannot combine \"--all\" with \"--if-exists\"")
		}
		var rows []*idl.Row
		for row := ctx.DB.FirstRow(table); row != nil; row = ctx.DB.NextRow(row) {
			rows = append(rows, row)
		}
		engine.Destroy(ctx.Txn, rows)
		ctx.Invalidate()
		return nil
	}

	var rows []*idl.Row
	for _, raw := range cmd.Args[2:] {
		recID, err := expandSymbols(ctx, raw)
		if err != nil {
			return err
		}
		row, err := resolveRow(ctx, table, recID, must)
		if err != nil {
			return err
		}
		if row != nil {
			rows = append(rows, row)
		}
	}
	engine.Destroy(ctx.Txn, rows)
	ctx.Invalidate()
	return nil
}
