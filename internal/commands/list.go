package commands

import (
	"strings"

	"dbctl/idl"
	"dbctl/internal/match"
	"dbctl/internal/registry"
	"dbctl/schema"
)

// resolveColumnSpec parses a --columns= CSV/space list into concrete
// columns; nil/empty means "every column of table" (with "_uuid" first),
// and an explicit list may itself include "_uuid" as a pseudo-column
// (represented here as a nil *schema.Column).
func resolveColumnSpec(table *schema.Table, spec string) ([]*schema.Column, error) {
	if strings.TrimSpace(spec) == "" {
		cols := make([]*schema.Column, 0, len(table.Columns)+1)
		cols = append(cols, nil)
		cols = append(cols, table.Columns...)
		return cols, nil
	}
	var out []*schema.Column
	for _, name := range splitColumns(spec) {
		if isUUIDPseudoColumn(name) {
			out = append(out, nil)
			continue
		}
		c, err := match.Column(table, name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func preList(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	spec, _ := cmd.Option("columns")
	cols, err := resolveColumnSpec(table, spec)
	if err != nil {
		return err
	}
	filtered := cols[:0:0]
	for _, c := range cols {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	ctx.DB.RegisterColumns(table, filtered)
	return nil
}

func runList(ctx *idl.Context, cmd *registry.Command) error {
	must := mustExist(cmd)
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	spec, _ := cmd.Option("columns")
	cols, err := resolveColumnSpec(table, spec)
	if err != nil {
		return err
	}

	oneline := false
	if _, ok := cmd.Option("oneline"); ok {
		oneline = true
	}

	var rows []*idl.Row
	if len(cmd.Args) > 2 {
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
	} else {
		for row := ctx.DB.FirstRow(table); row != nil; row = ctx.DB.NextRow(row) {
			rows = append(rows, row)
		}
	}

	writeTable(ctx, cols, rows, oneline)
	return nil
}

// writeTable renders rows as a tab-separated table with a header row, or,
// when oneline is set, as one space-joined line per row with no header
// (the --oneline compact mode from original_source/lib/db-ctl-base.c's
// table formatter).
func writeTable(ctx *idl.Context, cols []*schema.Column, rows []*idl.Row, oneline bool) {
	cellsOf := func(row *idl.Row) []string {
		cells := make([]string, len(cols))
		for i, c := range cols {
			if c == nil {
				cells[i] = row.UUID.String()
			} else {
				cells[i] = ctx.DB.Get(row, c).String()
			}
		}
		return cells
	}

	if oneline {
		for _, row := range rows {
			ctx.Output.WriteString(strings.Join(cellsOf(row), " "))
			ctx.Output.WriteString("\n")
		}
		return
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		if c == nil {
			headers[i] = "_uuid"
		} else {
			headers[i] = c.Name
		}
	}
	ctx.Output.WriteString(strings.Join(headers, "\t"))
	ctx.Output.WriteString("\n")

	for _, row := range rows {
		ctx.Output.WriteString(strings.Join(cellsOf(row), "\t"))
		ctx.Output.WriteString("\n")
	}
}
