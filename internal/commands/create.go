package commands

import (
	"strings"

	"github.com/google/uuid"

	"dbctl/idl"
	"dbctl/internal/engine"
	"dbctl/internal/expr"
	"dbctl/internal/match"
	"dbctl/internal/registry"
)

// dummyUUIDKey stashes the dummy UUID runCreate assigned to the new row in
// cmd.Options, under a key no real "--name" option can ever produce, so
// postCreate can find and rewrite it once the transaction commits.
const dummyUUIDKey = "\x00dummy-uuid"

func preCreate(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}
	for _, arg := range cmd.Args[2:] {
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

func runCreate(ctx *idl.Context, cmd *registry.Command) error {
	table, err := resolveTable(ctx, cmd.Args[1])
	if err != nil {
		return err
	}

	var id *uuid.UUID
	if symID, hasID := cmd.Option("id"); hasID {
		sym, _, err := ctx.Symtab.CreateSymbol(symID)
		if err != nil {
			return err
		}
		if table.IsRoot {
			sym.StrongRef = true
		}
		u := sym.UUID
		id = &u
	}

	clauses := make([]expr.Clause, 0, len(cmd.Args)-2)
	for _, raw := range cmd.Args[2:] {
		arg, err := expandSymbols(ctx, raw)
		if err != nil {
			return err
		}
		clause, err := expr.Parse(arg)
		if err != nil {
			return err
		}
		clauses = append(clauses, clause)
	}

	row, err := engine.Create(ctx.DB, ctx.Txn, table, id, clauses)
	if err != nil {
		return err
	}

	cmd.Options[dummyUUIDKey] = row.UUID.String()
	ctx.Output.WriteString(row.UUID.String())
	ctx.Output.WriteString("\n")
	ctx.Invalidate()
	return nil
}

// postCreate rewrites the dummy UUID printed by runCreate into the
// transaction-assigned final UUID, matching post_create in db-ctl-base.c.
func postCreate(ctx *idl.Context, cmd *registry.Command) error {
	dummy, ok := cmd.Options[dummyUUIDKey]
	if !ok || ctx.Txn == nil {
		return nil
	}
	u, err := uuid.Parse(dummy)
	if err != nil {
		return nil
	}
	real, ok := ctx.Txn.InsertUUID(u)
	if !ok {
		return nil
	}
	out := strings.Replace(ctx.Output.String(), dummy, real.String(), 1)
	ctx.Output.Reset()
	ctx.Output.WriteString(out)
	return nil
}
