package commands

import (
	"dbctl/idl"
	"dbctl/internal/engine"
	"dbctl/internal/expr"
	"dbctl/internal/match"
	"dbctl/internal/registry"
)

func preSet(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	for _, arg := range cmd.Args[3:] {
		clause, err := expr.Parse(arg)
		if err != nil {
			return err
		}
		if _, err := match.Column(table, clause.Column); err != nil {
			return err
		}
	}
	return nil
}

func runSet(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
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

	for _, raw := range cmd.Args[3:] {
		arg, err := expandSymbols(ctx, raw)
		if err != nil {
			return err
		}
		clause, err := expr.Parse(arg)
		if err != nil {
			return err
		}
		if err := engine.Set(ctx.DB, ctx.Txn, table, row, clause); err != nil {
			return err
		}
	}
	ctx.Invalidate()
	return nil
}
