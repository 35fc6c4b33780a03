package commands

import (
	"dbctl/idl"
	"dbctl/internal/engine"
	"dbctl/internal/match"
	"dbctl/internal/registry"
)

func preAddRemove(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	_, err = match.Column(table, cmd.Args[3])
	return err
}

func runAdd(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	column, err := match.Column(table, cmd.Args[3])
	if err != nil {
		return err
	}
	recID, err := expandSymbols(ctx, cmd.Args[2])
	if err != nil {
		return err
	}
	row, err := resolveRow(ctx, table, recID, mustExist(cmd))
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	values, err := expandSymbolsAll(ctx, cmd.Args[4:])
	if err != nil {
		return err
	}
	if err := engine.Add(ctx.DB, ctx.Txn, table, row, column, values); err != nil {
		return err
	}
	ctx.Invalidate()
	return nil
}

func runRemove(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	column, err := match.Column(table, cmd.Args[3])
	if err != nil {
		return err
	}
	recID, err := expandSymbols(ctx, cmd.Args[2])
	if err != nil {
		return err
	}
	row, err := resolveRow(ctx, table, recID, mustExist(cmd))
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	values, err := expandSymbolsAll(ctx, cmd.Args[4:])
	if err != nil {
		return err
	}
	if err := engine.Remove(ctx.DB, ctx.Txn, table, row, column, values); err != nil {
		return err
	}
	ctx.Invalidate()
	return nil
}
