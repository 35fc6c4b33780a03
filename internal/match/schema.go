package match

import (
	"dbctl/schema"
	"dbctl/internal/cmderr"
)

// Table resolves a user-typed table name against db's tables.
func Table(db *schema.Database, name string) (*schema.Table, error) {
	names := make([]string, len(db.Tables))
	for i, t := range db.Tables {
		names[i] = t.Name
	}
	i, err := Best(name, names)
	if err != nil {
		switch err {
		case ErrNoMatch:
			return nil, cmderr.Resolve("%s is not a valid table name", name)
		default:
			return nil, cmderr.Resolve("%s matches multiple table names", name)
		}
	}
	return db.Tables[i], nil
}

// Column resolves a user-typed column name against table's columns.
func Column(table *schema.Table, name string) (*schema.Column, error) {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}
	i, err := Best(name, names)
	if err != nil {
		switch err {
		case ErrNoMatch:
			return nil, cmderr.Resolve("%s is not a valid column name for table %s", name, table.Name)
		default:
			return nil, cmderr.Resolve("%s matches multiple columns in table %s", name, table.Name)
		}
	}
	return table.Columns[i], nil
}
