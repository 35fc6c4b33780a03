package schema

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// tomlDatabase mirrors the on-disk TOML schema-definition format. It is the
// intermediate decode target; Load resolves string references (refTable,
// refererTable, ...) into pointer-identity Table/Column classes once every
// table has been registered, the same two-pass shape the teacher's
// internal/parser/toml package uses to resolve foreign-key targets.
type tomlDatabase struct {
	Name   string       `toml:"name"`
	Tables []tomlTable  `toml:"tables"`
}

type tomlTable struct {
	Name    string        `toml:"name"`
	IsRoot  bool          `toml:"is_root"`
	Columns []tomlColumn  `toml:"columns"`
	Indexes []tomlRowID   `toml:"indexes"`
}

type tomlColumn struct {
	Name          string `toml:"name"`
	Key           string `toml:"key"`
	KeyRefTable   string `toml:"key_ref_table"`
	Value         string `toml:"value"`
	ValueRefTable string `toml:"value_ref_table"`
	NMin          uint   `toml:"n_min"`
	// NMax is signed so a schema file can spell "unbounded" as -1; 0 (the
	// zero value for an omitted field) means "ordinary scalar", i.e. 1.
	NMax    int  `toml:"n_max"`
	Mutable bool `toml:"mutable"`
}

type tomlRowID struct {
	ReferrerTable string `toml:"referrer_table"`
	NameColumn    string `toml:"name_column"`
	UUIDColumn    string `toml:"uuid_column"`
}

func parseAtomicType(s string) (AtomicType, error) {
	switch s {
	case "integer":
		return TypeInteger, nil
	case "real":
		return TypeReal, nil
	case "boolean":
		return TypeBoolean, nil
	case "string":
		return TypeString, nil
	case "uuid":
		return TypeUUID, nil
	default:
		return 0, fmt.Errorf("unknown atomic type %q", s)
	}
}

// Load decodes a TOML schema-definition document into a *Database, wiring
// every UUID-typed column's reference and every row-id index to their
// target *Table/*Column by pointer, per spec.md §9's "schema class
// pointers" design note.
func Load(r io.Reader) (*Database, error) {
	var raw tomlDatabase
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}

	db := &Database{Name: raw.Name}
	for _, rt := range raw.Tables {
		db.Tables = append(db.Tables, &Table{Name: rt.Name, IsRoot: rt.IsRoot})
	}

	for i, rt := range raw.Tables {
		table := db.Tables[i]
		for _, rc := range rt.Columns {
			col, err := buildColumn(db, rc)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", rt.Name, rc.Name, err)
			}
			table.Columns = append(table.Columns, col)
		}
	}

	for i, rt := range raw.Tables {
		table := db.Tables[i]
		for _, ri := range rt.Indexes {
			idx, err := buildIndex(db, ri)
			if err != nil {
				return nil, fmt.Errorf("table %s index: %w", rt.Name, err)
			}
			table.Indexes = append(table.Indexes, idx)
		}
	}

	return db, nil
}

func buildColumn(db *Database, rc tomlColumn) (*Column, error) {
	key, err := parseAtomicType(rc.Key)
	if err != nil {
		return nil, err
	}
	dt := DatumType{Key: key, NMin: rc.NMin}
	switch {
	case rc.NMax < 0:
		dt.NMax = UnboundedMax
	case rc.NMax == 0:
		dt.NMax = 1
	default:
		dt.NMax = uint(rc.NMax)
	}
	if rc.KeyRefTable != "" {
		ref := db.FindTable(rc.KeyRefTable)
		if ref == nil {
			return nil, fmt.Errorf("key_ref_table %q not found", rc.KeyRefTable)
		}
		dt.KeyRefTable = ref
	}
	if rc.Value != "" {
		val, err := parseAtomicType(rc.Value)
		if err != nil {
			return nil, err
		}
		dt.HasValue = true
		dt.Value = val
		if rc.ValueRefTable != "" {
			ref := db.FindTable(rc.ValueRefTable)
			if ref == nil {
				return nil, fmt.Errorf("value_ref_table %q not found", rc.ValueRefTable)
			}
			dt.ValueRefTable = ref
		}
	}
	return &Column{Name: rc.Name, Type: dt, Mutable: rc.Mutable}, nil
}

func buildIndex(db *Database, ri tomlRowID) (RowIDIndex, error) {
	referrer := db.FindTable(ri.ReferrerTable)
	if referrer == nil {
		return RowIDIndex{}, fmt.Errorf("referrer_table %q not found", ri.ReferrerTable)
	}
	idx := RowIDIndex{ReferrerTable: referrer}
	if ri.NameColumn != "" {
		col := referrer.FindColumn(ri.NameColumn)
		if col == nil {
			return RowIDIndex{}, fmt.Errorf("name_column %q not found on %q", ri.NameColumn, ri.ReferrerTable)
		}
		idx.NameColumn = col
	}
	if ri.UUIDColumn != "" {
		col := referrer.FindColumn(ri.UUIDColumn)
		if col == nil {
			return RowIDIndex{}, fmt.Errorf("uuid_column %q not found on %q", ri.UUIDColumn, ri.ReferrerTable)
		}
		idx.UUIDColumn = col
	}
	return idx, nil
}
