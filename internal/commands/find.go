package commands

import (
	"dbctl/idl"
	"dbctl/internal/expr"
	"dbctl/internal/registry"
	"dbctl/schema"
)

func parseConditions(ctx *idl.Context, table *schema.Table, args []string) ([]expr.Resolved, error) {
	out := make([]expr.Resolved, 0, len(args))
	for _, raw := range args {
		arg, err := expandSymbols(ctx, raw)
		if err != nil {
			return nil, err
		}
		clause, err := expr.Parse(arg)
		if err != nil {
			return nil, err
		}
		r, err := expr.Resolve(table, clause)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func preFind(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	_, err = parseConditions(ctx, table, cmd.Args[2:])
	return err
}

func runFind(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	spec, _ := cmd.Option("columns")
	cols, err := resolveColumnSpec(table, spec)
	if err != nil {
		return err
	}
	conds, err := parseConditions(ctx, table, cmd.Args[2:])
	if err != nil {
		return err
	}

	var matches []*idl.Row
	for row := ctx.DB.FirstRow(table); row != nil; row = ctx.DB.NextRow(row) {
		ok := true
		for _, c := range conds {
			if !expr.Satisfied(ctx.DB, row, c) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, row)
		}
	}

	_, oneline := cmd.Option("oneline")
	writeTable(ctx, cols, matches, oneline)
	return nil
}
