package commands

import (
	"dbctl/idl"
	"dbctl/internal/expr"
	"dbctl/internal/registry"
)

func preWaitUntil(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	_, err = parseConditions(ctx, table, cmd.Args[3:])
	return err
}

// runWaitUntil implements spec.md §4.8: identical condition parsing to
// find, operating on one resolved record. must_exist is effectively false
// here (a missing row sets try_again rather than failing), and --if-exists
// is not a valid option on this command (enforced by its Syntax.Options
// being empty).
func runWaitUntil(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	recID, err := expandSymbols(ctx, cmd.Args[2])
	if err != nil {
		return err
	}
	row, err := resolveRow(ctx, table, recID, false)
	if err != nil {
		return err
	}
	if row == nil {
		ctx.TryAgain = true
		return nil
	}

	conds, err := parseConditions(ctx, table, cmd.Args[3:])
	if err != nil {
		return err
	}
	for _, c := range conds {
		if !expr.Satisfied(ctx.DB, row, c) {
			ctx.TryAgain = true
			return nil
		}
	}
	return nil
}
