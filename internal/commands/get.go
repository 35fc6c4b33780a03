package commands

import (
	"strings"

	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/internal/expr"
	"dbctl/internal/match"
	"dbctl/internal/registry"
	"dbctl/schema"
)

func isUUIDPseudoColumn(name string) bool {
	lower := strings.ToLower(name)
	return lower == "_uuid" || lower == "-uuid"
}

func preGet(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	registerTableColumns(ctx, table)
	for _, arg := range cmd.Args[3:] {
		if isUUIDPseudoColumn(arg) {
			continue
		}
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

func runGet(ctx *idl.Context, cmd *registry.Command) error {
	id, hasID := cmd.Option("id")
	must := mustExist(cmd)

	if hasID && !must {
		return cmderr.Semantic("--if-exists and --id may not be specified together")
	}

	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	recID, err := expandSymbols(ctx, cmd.Args[2])
	if err != nil {
		return err
	}
	row, err := resolveRow(ctx, table, recID, must)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	if hasID {
		sym, isNew, err := ctx.Symtab.CreateSymbol(id)
		if err != nil {
			return err
		}
		if !isNew {
			return cmderr.Symbol("row id %q specified on \"get\" command was used before it was defined", id)
		}
		sym.UUID = row.UUID
		sym.StrongRef = true
	}

	for _, arg := range cmd.Args[3:] {
		if isUUIDPseudoColumn(arg) {
			ctx.Output.WriteString(formatRowUUID(row))
			continue
		}

		clause, err := expr.Parse(arg)
		if err != nil {
			return err
		}
		column, err := match.Column(table, clause.Column)
		if err != nil {
			return err
		}

		ctx.DB.Verify(row, column)
		datum := ctx.DB.Get(row, column)

		if clause.HasKey {
			if !column.Type.IsMap() {
				return cmderr.Semantic("cannot specify key to get for non-map column %s", column.Name)
			}
			key, err := schema.ParseAtom(column.Type.Key, clause.Key)
			if err != nil {
				return cmderr.Parse("%s", err)
			}
			val, found := datum.AtKey(key)
			if !found {
				if must {
					return cmderr.Resolve("no key %q in %s record %q column %s", clause.Key, table.Name, cmd.Args[2], column.Name)
				}
				ctx.Output.WriteString("\n")
				continue
			}
			ctx.Output.WriteString(val.String())
			ctx.Output.WriteString("\n")
			continue
		}

		ctx.Output.WriteString(datum.String())
		ctx.Output.WriteString("\n")
	}
	return nil
}
