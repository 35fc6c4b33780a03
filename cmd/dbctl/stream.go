package main

import (
	"errors"
	"fmt"
	"io"

	"dbctl/idl"
	"dbctl/internal/cmderr"
	"dbctl/internal/cmdparse"
	"dbctl/internal/registry"
	"dbctl/internal/symtab"
	"dbctl/schema"
	"dbctl/store"
)

// RunStream executes one "command [-- command]..." stream against db,
// looping the whole stream over from a fresh Context whenever wait-until
// sets TryAgain or the commit hits a verify conflict — the concrete form
// of the retry loop spec.md §5 describes, mirroring the teacher's
// internal/apply package's separate pre-flight/execute passes even though
// the domain differs (SPEC_FULL.md §5).
func RunStream(reg *registry.Registry, db *store.Store, sch *schema.Database, argv []string, dryRun bool, out io.Writer) error {
	for {
		cmds, err := cmdparse.ParseStream(reg, argv, nil)
		if err != nil {
			return err
		}

		var txn *store.Txn
		if reg.MightWriteToDB(argv) {
			txn = db.Begin()
		}
		ctx := &idl.Context{Schema: sch, DB: db, Symtab: symtab.New()}
		if txn != nil {
			ctx.Txn = txn
		}

		runErr := runPass(ctx, cmds, func(s *registry.Syntax) registry.Hook { return s.PreRun })
		if runErr == nil {
			runErr = runPass(ctx, cmds, func(s *registry.Syntax) registry.Hook { return s.Run })
		}
		if runErr != nil {
			if txn != nil {
				txn.Discard()
			}
			return runErr
		}

		if ctx.TryAgain {
			if txn != nil {
				txn.Discard()
			}
			continue
		}

		if txn != nil {
			if dryRun {
				txn.Discard()
				fmt.Fprintln(out, "--dry-run: transaction not committed")
			} else if err := txn.Commit(); err != nil {
				if errors.Is(err, store.ErrRetry) {
					continue
				}
				return err
			}
		}

		// Post-run hooks run once the transaction has committed, so that
		// create's hook can resolve its final UUID through InsertUUID.
		if err := runPass(ctx, cmds, func(s *registry.Syntax) registry.Hook { return s.PostRun }); err != nil {
			return err
		}

		warnUnreferencedSymbols(ctx.Symtab)

		_, err = io.WriteString(out, ctx.Output.String())
		return err
	}
}

// warnUnreferencedSymbols implements the host-side "unreferenced symbol"
// warning spec.md §4.5 describes: any symbol a command bound with --id but
// never marked strong_ref (a non-root "create --id=@x" whose row nothing
// else references) becomes unreachable once the stream ends.
func warnUnreferencedSymbols(syms *symtab.Table) {
	for _, sym := range syms.Unreferenced() {
		cmderr.Warn("row id %q was created but no reference to it was inserted anywhere", sym.Name)
	}
}

func runPass(ctx *idl.Context, cmds []*registry.Command, pick func(*registry.Syntax) registry.Hook) error {
	for _, cmd := range cmds {
		hook := pick(cmd.Syntax)
		if hook == nil {
			continue
		}
		if err := hook(ctx, cmd); err != nil {
			return err
		}
		if ctx.TryAgain {
			return nil
		}
	}
	return nil
}
