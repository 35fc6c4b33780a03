package main

import (
	"os"

	"golang.org/x/term"

	"dbctl/internal/cmderr"
	"dbctl/internal/registry"
	"dbctl/schema"
)

// warnInteractiveMisuse implements the two non-fatal warnings spec.md §7
// names explicitly: "get" with no column arguments on a terminal (the
// output would silently be just the row's existence), and "create" on a
// non-root table without "--id" (the new row becomes unreachable once the
// stream ends, since nothing else references it).
func warnInteractiveMisuse(cmds []*registry.Command, sch *schema.Database) {
	isTTY := term.IsTerminal(int(os.Stdin.Fd()))

	for _, cmd := range cmds {
		switch cmd.Syntax.Name {
		case "get":
			if isTTY && len(cmd.Args) == 3 {
				cmderr.Warn("\"get\" with no columns named will print nothing; did you mean to list columns?")
			}
		case "create":
			if _, hasID := cmd.Option("id"); hasID {
				continue
			}
			table := sch.FindTable(cmd.Args[1])
			if table != nil && !table.IsRoot {
				cmderr.Warn("creating a row in non-root table %q without \"--id\" leaves it unreferenced", table.Name)
			}
		}
	}
}
