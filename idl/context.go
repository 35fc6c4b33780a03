package idl

import (
	"strings"

	"dbctl/internal/symtab"
	"dbctl/schema"
)

// Context is the per-command-stream state threaded through pre-run, run,
// and post-run (spec.md §5's "Shared resources" paragraph): the DB client
// handle, the write transaction (nil for read-only streams), the symbol
// table, the output buffer, and the try_again flag wait-until sets.
type Context struct {
	Schema *schema.Database
	DB     DB
	Txn    Txn // nil on a read-only stream
	Symtab *symtab.Table

	Output strings.Builder

	// TryAgain is set by wait-until when its condition is unmet; the host
	// is expected to discard this Context, re-poll the database, and
	// re-run the whole command stream from scratch.
	TryAgain bool

	// InvalidateCache is the optional host callback fired after any
	// mutating command completes its last clause.
	InvalidateCache func()
}

// Invalidate calls the host's cache-invalidation hook, if one was
// registered.
func (c *Context) Invalidate() {
	if c.InvalidateCache != nil {
		c.InvalidateCache()
	}
}
