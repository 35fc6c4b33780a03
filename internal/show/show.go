// Package show implements the cycle-guarded show walker of spec.md §4.9: a
// data-driven, name-column-anchored traversal of the inter-table UUID
// reference graph.
package show

import (
	"fmt"
	"io"
	"strings"

	"dbctl/idl"
	"dbctl/schema"
)

// WeakRef describes a back-link: rows of Table whose WrefColumn points at
// the row currently being shown are printed one indent level deeper.
type WeakRef struct {
	Table      *schema.Table
	NameColumn *schema.Column
	WrefColumn *schema.Column
}

// TableDesc is one entry of the host-supplied table-description list.
type TableDesc struct {
	Table      *schema.Table
	NameColumn *schema.Column   // nil: print the row's UUID instead of a name
	Columns    []*schema.Column // display columns walked for nested references
	WeakRef    *WeakRef
}

// Walker holds the table-description list and does the traversal.
type Walker struct {
	DB     idl.DB
	Tables []TableDesc
}

func (w *Walker) findByTable(t *schema.Table) *TableDesc {
	for i := range w.Tables {
		if w.Tables[i].Table == t {
			return &w.Tables[i]
		}
	}
	return nil
}

// Show runs the walker over every row of the first described table,
// writing indented text to out. Per spec.md §4.9 and §8, the `seen` set
// must be empty once Show returns; that invariant is asserted here instead
// of merely hoped for.
func (w *Walker) Show(out io.Writer) {
	if len(w.Tables) == 0 {
		return
	}
	seen := map[string]bool{}
	first := w.Tables[0].Table
	for row := w.DB.FirstRow(first); row != nil; row = w.DB.NextRow(row) {
		w.row(out, row, 0, seen)
	}
	if len(seen) != 0 {
		panic("show: seen set not empty after top-level call")
	}
}

func (w *Walker) row(out io.Writer, r *idl.Row, level int, seen map[string]bool) {
	desc := w.findByTable(r.Table)
	indent := strings.Repeat("    ", level)

	if desc != nil && desc.NameColumn != nil {
		name := w.DB.Get(r, desc.NameColumn)
		fmt.Fprintf(out, "%s%s %s\n", indent, desc.Table.Name, name.String())
	} else {
		fmt.Fprintf(out, "%s%s\n", indent, r.UUID.String())
	}

	if desc == nil || seen[desc.Table.Name] {
		return
	}

	seen[desc.Table.Name] = true
	for _, col := range desc.Columns {
		w.column(out, r, col, level, seen)
	}
	w.weakRefs(out, desc, r, level)
	delete(seen, desc.Table.Name)
}

func (w *Walker) column(out io.Writer, r *idl.Row, col *schema.Column, level int, seen map[string]bool) {
	v := w.DB.Get(r, col)
	indent := strings.Repeat("    ", level+1)

	if col.Type.Key == schema.TypeUUID && col.Type.KeyRefTable != nil {
		if ref := w.findByTable(col.Type.KeyRefTable); ref != nil {
			for _, k := range v.Keys {
				if refRow := w.DB.RowByUUID(ref.Table, k.UUID); refRow != nil {
					w.row(out, refRow, level+1, seen)
				}
			}
			return
		}
	}

	if col.Type.IsMap() && col.Type.Value == schema.TypeUUID && col.Type.ValueRefTable != nil {
		if ref := w.findByTable(col.Type.ValueRefTable); ref != nil && ref.NameColumn != nil {
			fmt.Fprintf(out, "%s%s:\n", indent, col.Name)
			for _, p := range v.Pairs {
				refRow := w.DB.RowByUUID(ref.Table, p.Value.UUID)
				name := `"<null>"`
				if refRow != nil {
					name = w.DB.Get(refRow, ref.NameColumn).String()
				}
				fmt.Fprintf(out, "%s    %s=%s\n", indent, p.Key.String(), name)
			}
			return
		}
	}

	if !v.IsDefault(col.Type) {
		fmt.Fprintf(out, "%s%s: %s\n", indent, col.Name, v.String())
	}
}

func (w *Walker) weakRefs(out io.Writer, desc *TableDesc, cur *idl.Row, level int) {
	if desc.WeakRef == nil {
		return
	}
	wr := desc.WeakRef
	indent := strings.Repeat("    ", level+1)
	for row := w.DB.FirstRow(wr.Table); row != nil; row = w.DB.NextRow(row) {
		v := w.DB.Get(row, wr.WrefColumn)
		if len(v.Keys) == 0 || v.Keys[0].Type != schema.TypeUUID || v.Keys[0].UUID != cur.UUID {
			continue
		}
		name := w.DB.Get(row, wr.NameColumn)
		fmt.Fprintf(out, "%s%s %s\n", indent, wr.Table.Name, name.String())
	}
}
