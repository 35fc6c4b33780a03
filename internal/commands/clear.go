package commands

import (
	"dbctl/idl"
	"dbctl/internal/engine"
	"dbctl/internal/match"
	"dbctl/internal/registry"
)

func preClear(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	for _, name := range cmd.Args[3:] {
		if _, err := match.Column(table, name); err != nil {
			return err
		}
	}
	return nil
}

func runClear(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	row, err := resolveRow(ctx, table, cmd.Args[2], mustExist(cmd))
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	for _, name := range cmd.Args[3:] {
		column, err := match.Column(table, name)
		if err != nil {
			return err
		}
		if err := engine.Clear(ctx.DB, ctx.Txn, table, row, column); err != nil {
			return err
		}
	}
	ctx.Invalidate()
	return nil
}
