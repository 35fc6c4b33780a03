package commands

import (
	"regexp"

	"dbctl/idl"
)

// symbolRef matches an "@name" token anywhere inside a record-id or VALUE
// argument, e.g. the bare "@p" in `set Root . ports=@p`.
var symbolRef = regexp.MustCompile(`@[A-Za-z0-9_.-]+`)

// expandSymbols substitutes every "@name" occurrence in arg with the
// symbol's (possibly still-dummy) UUID, inserting a fresh unbound symbol
// the first time a name is seen. This lets a VALUE or record-id argument
// forward-reference a row a later "create --id=@name" will allocate,
// matching spec.md §4.5.
func expandSymbols(ctx *idl.Context, arg string) (string, error) {
	var firstErr error
	out := symbolRef.ReplaceAllStringFunc(arg, func(name string) string {
		if firstErr != nil {
			return name
		}
		sym, err := ctx.Symtab.Insert(name)
		if err != nil {
			firstErr = err
			return name
		}
		return sym.UUID.String()
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// expandSymbolsAll applies expandSymbols to every element of args.
func expandSymbolsAll(ctx *idl.Context, args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		e, err := expandSymbols(ctx, a)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
