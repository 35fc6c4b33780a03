package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"dbctl/internal/show"
	"dbctl/schema"
)

//go:embed schema_demo.toml
var demoSchemaTOML []byte

// loadSchema decodes the schema at path, or the embedded demo schema
// (Root(name, ports: set<Port>), Port(name)) when path is empty.
func loadSchema(path string) (*schema.Database, error) {
	if path == "" {
		return schema.Load(strings.NewReader(string(demoSchemaTOML)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schema %s: %w", path, err)
	}
	defer f.Close()
	db, err := schema.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", path, err)
	}
	return db, nil
}

// demoShowTables builds the show-walker description for the embedded demo
// schema; a custom --schema file has no such description, so "show" is
// simply not registered for it (spec.md §6: "registered only if
// show_tables given").
func demoShowTables(db *schema.Database) []show.TableDesc {
	root := db.FindTable("Root")
	port := db.FindTable("Port")
	if root == nil || port == nil {
		return nil
	}
	portName := port.FindColumn("name")
	ports := root.FindColumn("ports")
	if portName == nil || ports == nil {
		return nil
	}
	return []show.TableDesc{
		{Table: root, Columns: []*schema.Column{ports}},
		{Table: port, NameColumn: portName},
	}
}
