// Package load builds migration plans from declarative YAML schema
// files. A file declares tables and their columns; the loader resolves
// column types, derives table names from entity names when necessary
// and produces a schema.Plan ready for rendering against any supported
// dialect.
package load

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlkit/dialect/sql/schema"
	"github.com/syssam/sqlkit/schema/field"
)

// File is the root of a schema document.
type File struct {
	Tables []TableSpec `yaml:"tables"`
}

// TableSpec declares one table. Name takes precedence; when omitted the
// table name is derived from Entity by snake-casing and pluralizing it
// (User becomes users, OrderLine becomes order_lines).
type TableSpec struct {
	Name    string       `yaml:"name,omitempty"`
	Entity  string       `yaml:"entity,omitempty"`
	Columns []ColumnSpec `yaml:"columns"`
}

// TableName resolves the declared or derived table name.
func (t TableSpec) TableName() string {
	if t.Name != "" {
		return t.Name
	}
	return inflect.Pluralize(inflect.Underscore(t.Entity))
}

// RefSpec names the target of a foreign key.
type RefSpec struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

// ColumnSpec declares one column.
type ColumnSpec struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	PrimaryKey    bool     `yaml:"primary_key,omitempty"`
	AutoIncrement bool     `yaml:"auto_increment,omitempty"`
	Required      bool     `yaml:"required,omitempty"`
	Unique        bool     `yaml:"unique,omitempty"`
	Index         bool     `yaml:"index,omitempty"`
	UniqueIndex   bool     `yaml:"unique_index,omitempty"`
	References    *RefSpec `yaml:"references,omitempty"`
}

// Parse unmarshals a YAML schema document and builds its plan.
func Parse(data []byte) (*schema.Plan, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sqlkit: parse schema: %w", err)
	}
	return Build(&f)
}

// ParseFile reads and parses a YAML schema file.
func ParseFile(path string) (*schema.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sqlkit: read schema: %w", err)
	}
	return Parse(data)
}

// Build converts a parsed file into a migration plan.
func Build(f *File) (*schema.Plan, error) {
	p := &schema.Plan{}
	for _, t := range f.Tables {
		name := t.TableName()
		if name == "" {
			return nil, fmt.Errorf("sqlkit: table with neither name nor entity")
		}
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("sqlkit: table %s declares no columns", name)
		}
		ct := p.CreateTable(name)
		for _, c := range t.Columns {
			if err := addColumn(ct, name, c); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func addColumn(ct *schema.CreateTable, table string, c ColumnSpec) error {
	if c.Name == "" {
		return fmt.Errorf("sqlkit: table %s has an unnamed column", table)
	}
	if c.AutoIncrement {
		if !c.PrimaryKey {
			return fmt.Errorf("sqlkit: table %s column %s: auto_increment requires primary_key", table, c.Name)
		}
		ct.PrimaryKeyWithAutoIncrement(c.Name)
		return nil
	}
	def, err := ParseType(c.Type)
	if err != nil {
		return fmt.Errorf("sqlkit: table %s column %s: %w", table, c.Name, err)
	}
	switch {
	case c.PrimaryKey:
		ct.PrimaryKey(c.Name, def)
	case c.References != nil:
		if c.References.Table == "" || c.References.Column == "" {
			return fmt.Errorf("sqlkit: table %s column %s: incomplete reference", table, c.Name)
		}
		ct.ForeignKey(c.Name, def, c.References.Table, c.References.Column)
	case c.Required:
		ct.RequiredColumn(c.Name, def)
	default:
		ct.Column(c.Name, def)
	}
	switch {
	case c.Unique:
		ct.Unique()
	case c.UniqueIndex:
		ct.UniqueIndex()
	case c.Index:
		ct.Index()
	}
	return nil
}

// ParseType resolves a type expression such as "bigint", "varchar(64)"
// or "decimal(10,2)" into a column type definition.
func ParseType(s string) (field.TypeDef, error) {
	base, args, err := splitType(s)
	if err != nil {
		return field.TypeDef{}, err
	}
	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("type %s wants %d argument(s), got %d", base, n, len(args))
		}
		return nil
	}
	switch base {
	case "bool", "boolean", "bit":
		return field.Bool(), need(0)
	case "char":
		return field.Char(arg(args, 0)), need(1)
	case "varchar":
		return field.Varchar(arg(args, 0)), need(1)
	case "nchar":
		return field.NChar(arg(args, 0)), need(1)
	case "nvarchar":
		return field.NVarchar(arg(args, 0)), need(1)
	case "text":
		if len(args) == 1 {
			return field.Text(args[0]), nil
		}
		return field.Text(0), need(0)
	case "smallint":
		return field.SmallInt(), need(0)
	case "int", "integer":
		return field.Int(), need(0)
	case "bigint":
		return field.BigInt(), need(0)
	case "real", "float", "double":
		return field.Real(), need(0)
	case "decimal", "numeric":
		if err := need(2); err != nil {
			return field.TypeDef{}, err
		}
		return field.Decimal(args[0], args[1]), nil
	case "date":
		return field.Date(), need(0)
	case "time":
		return field.Time(), need(0)
	case "datetime":
		return field.DateTime(), need(0)
	case "timestamp":
		return field.Timestamp(), need(0)
	case "guid", "uuid":
		return field.GUID(), need(0)
	}
	return field.TypeDef{}, fmt.Errorf("unknown type %q", s)
}

func arg(args []int, i int) int {
	if i < len(args) {
		return args[i]
	}
	return 0
}

// splitType breaks "decimal(10,2)" into its base name and arguments.
func splitType(s string) (string, []int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil, fmt.Errorf("missing type")
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("malformed type %q", s)
	}
	base := strings.TrimSpace(s[:open])
	var args []int
	for _, part := range strings.Split(s[open+1:len(s)-1], ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return "", nil, fmt.Errorf("malformed type %q", s)
		}
		args = append(args, n)
	}
	return base, args, nil
}
