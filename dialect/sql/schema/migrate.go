// Package schema builds migration plans: ordered create/alter/drop
// steps rendered into dialect-specific DDL text. The rendered text is
// the wire contract; callers persist and diff it, so rendering is
// deterministic given identical input.
package schema

import (
	"strings"

	"github.com/syssam/sqlkit/dialect"
	"github.com/syssam/sqlkit/dialect/sql"
	"github.com/syssam/sqlkit/schema/field"
)

// PrimaryKeyKind tags how a column participates in the primary key.
type PrimaryKeyKind uint8

// Primary key kinds.
const (
	PKNone PrimaryKeyKind = iota
	PKManual
	PKAuto
)

// ForeignKey is a reference to a column of another table. The rendered
// constraint is named deterministically FK_<column>.
type ForeignKey struct {
	Table  string
	Column string
}

// Column is one column declaration of a create-table step. Declaration
// order is preserved and is the order emitted in DDL.
type Column struct {
	Name          string
	Def           field.TypeDef
	PrimaryKey    PrimaryKeyKind
	Required      bool
	Unique        bool
	Indexed       bool
	UniqueIndexed bool
	ForeignKey    *ForeignKey
}

// Step is one migration step, rendered independently.
type Step interface {
	Render(f sql.Formatter) (string, error)
}

// Plan is an ordered sequence of migration steps.
type Plan struct {
	steps []Step
}

// Steps returns the plan's steps in order.
func (p *Plan) Steps() []Step { return p.steps }

// CreateTable appends a create-table step and returns its builder.
func (p *Plan) CreateTable(name string) *CreateTable {
	ct := NewCreateTable(name)
	p.steps = append(p.steps, ct)
	return ct
}

// AlterTable appends an alter-table step and returns its builder.
func (p *Plan) AlterTable(name string) *AlterTable {
	at := NewAlterTable(name)
	p.steps = append(p.steps, at)
	return at
}

// DropTable appends a drop-table step.
func (p *Plan) DropTable(name string) *Plan {
	p.steps = append(p.steps, DropTable(name))
	return p
}

// Render renders every step for the given engine, concatenated in plan
// order with one statement block per line group.
func (p *Plan) Render(kind dialect.ServerKind) (string, error) {
	f, err := sql.FormatterFor(kind)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, step := range p.steps {
		text, err := step.Render(f)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// CreateTable builds one create-table step: an ordered list of column
// declarations plus the index statements derived from them.
type CreateTable struct {
	name    string
	columns []*Column
}

// NewCreateTable returns a create-table builder for the named table.
func NewCreateTable(name string) *CreateTable {
	return &CreateTable{name: name}
}

// Name returns the table name.
func (ct *CreateTable) Name() string { return ct.name }

// Columns returns the column declarations in order.
func (ct *CreateTable) Columns() []*Column { return ct.columns }

func (ct *CreateTable) add(c *Column) *CreateTable {
	ct.columns = append(ct.columns, c)
	return ct
}

// Column appends a nullable column.
func (ct *CreateTable) Column(name string, def field.TypeDef) *CreateTable {
	return ct.add(&Column{Name: name, Def: def})
}

// RequiredColumn appends a NOT NULL column.
func (ct *CreateTable) RequiredColumn(name string, def field.TypeDef) *CreateTable {
	return ct.add(&Column{Name: name, Def: def, Required: true})
}

// PrimaryKey appends a manually-valued primary key column. Multiple
// calls build a composite key.
func (ct *CreateTable) PrimaryKey(name string, def field.TypeDef) *CreateTable {
	return ct.add(&Column{Name: name, Def: def, PrimaryKey: PKManual, Required: true})
}

// PrimaryKeyWithAutoIncrement appends an auto-increment integer primary
// key column. The concrete type and identity syntax come from the
// dialect formatter.
func (ct *CreateTable) PrimaryKeyWithAutoIncrement(name string) *CreateTable {
	return ct.add(&Column{Name: name, Def: field.Int(), PrimaryKey: PKAuto, Required: true})
}

// ForeignKey appends a column referencing refTable.refColumn.
func (ct *CreateTable) ForeignKey(name string, def field.TypeDef, refTable, refColumn string) *CreateTable {
	return ct.add(&Column{
		Name:       name,
		Def:        def,
		ForeignKey: &ForeignKey{Table: refTable, Column: refColumn},
	})
}

// last returns the most recently declared column. The position-dependent
// modifiers below apply to it; calling them before any column is
// declared is a caller error.
func (ct *CreateTable) last() *Column {
	if len(ct.columns) == 0 {
		panic("sqlkit: column modifier called before any column was declared")
	}
	return ct.columns[len(ct.columns)-1]
}

// Unique adds a UNIQUE constraint to the last declared column.
func (ct *CreateTable) Unique() *CreateTable {
	ct.last().Unique = true
	return ct
}

// Index requests a secondary index on the last declared column.
func (ct *CreateTable) Index() *CreateTable {
	ct.last().Indexed = true
	return ct
}

// UniqueIndex requests a unique secondary index on the last declared
// column.
func (ct *CreateTable) UniqueIndex() *CreateTable {
	c := ct.last()
	c.Indexed = true
	c.UniqueIndexed = true
	return ct
}

// Render renders the CREATE TABLE statement followed by one CREATE
// INDEX statement per indexed column. Primary key columns never get a
// separate index; they are already implicitly indexed.
func (ct *CreateTable) Render(f sql.Formatter) (string, error) {
	var defs []string
	var pks []string
	for _, c := range ct.columns {
		switch c.PrimaryKey {
		case PKAuto:
			defs = append(defs, f.AutoIncrementColumn(c.Name))
			continue
		case PKManual:
			pks = append(pks, sql.Quote(c.Name))
		}
		line := sql.Quote(c.Name) + " " + f.ColumnType(c.Def)
		if c.Required {
			line += " NOT NULL"
		}
		if c.Unique {
			line += " UNIQUE"
		}
		defs = append(defs, line)
	}
	if len(pks) > 0 {
		defs = append(defs, "PRIMARY KEY("+strings.Join(pks, ", ")+")")
	}
	for _, c := range ct.columns {
		if c.ForeignKey == nil {
			continue
		}
		defs = append(defs, `CONSTRAINT "FK_`+c.Name+`" FOREIGN KEY (`+sql.Quote(c.Name)+
			") REFERENCES "+sql.Quote(c.ForeignKey.Table)+" ("+sql.Quote(c.ForeignKey.Column)+")")
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE " + sql.Quote(ct.name) + " (\n")
	for i, def := range defs {
		sb.WriteString("    " + def)
		if i < len(defs)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(");")

	for _, c := range ct.columns {
		if !c.Indexed || c.PrimaryKey != PKNone {
			continue
		}
		sb.WriteByte('\n')
		sb.WriteString(indexStatement(ct.name, c.Name, c.UniqueIndexed))
	}
	return sb.String(), nil
}

// indexStatement renders a secondary index with the deterministic
// <table>_<column>_index name.
func indexStatement(table, column string, unique bool) string {
	kw := "CREATE INDEX "
	if unique {
		kw = "CREATE UNIQUE INDEX "
	}
	return kw + sql.Quote(IndexName(table, column)) + " ON " + sql.Quote(table) +
		" (" + sql.Quote(column) + ");"
}

// IndexName returns the deterministic name of the secondary index on
// the given table column.
func IndexName(table, column string) string {
	return table + "_" + column + "_index"
}

// alterKind tags one alter-table command.
type alterKind uint8

const (
	alterRenameTable alterKind = iota
	alterAddColumn
	alterRenameColumn
	alterDropColumn
	alterAddIndex
	alterDropIndex
)

type alterCmd struct {
	kind     alterKind
	name     string // column or new table name
	newName  string
	def      field.TypeDef
	required bool
	unique   bool
}

// AlterTable builds one alter-table step: an ordered list of tagged
// commands, each rendered as its own statement.
type AlterTable struct {
	name string
	cmds []alterCmd
}

// NewAlterTable returns an alter-table builder for the named table.
func NewAlterTable(name string) *AlterTable {
	return &AlterTable{name: name}
}

// RenameTo renames the table.
func (at *AlterTable) RenameTo(name string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterRenameTable, newName: name})
	return at
}

// AddColumn adds a nullable column.
func (at *AlterTable) AddColumn(name string, def field.TypeDef) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterAddColumn, name: name, def: def})
	return at
}

// AddRequiredColumn adds a NOT NULL column.
func (at *AlterTable) AddRequiredColumn(name string, def field.TypeDef) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterAddColumn, name: name, def: def, required: true})
	return at
}

// RenameColumn renames a column.
func (at *AlterTable) RenameColumn(old, new string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterRenameColumn, name: old, newName: new})
	return at
}

// DropColumn removes a column.
func (at *AlterTable) DropColumn(name string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterDropColumn, name: name})
	return at
}

// AddIndex creates a secondary index on the named column.
func (at *AlterTable) AddIndex(column string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterAddIndex, name: column})
	return at
}

// AddUniqueIndex creates a unique secondary index on the named column.
func (at *AlterTable) AddUniqueIndex(column string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterAddIndex, name: column, unique: true})
	return at
}

// DropIndex drops the standard-named index of the given column.
func (at *AlterTable) DropIndex(column string) *AlterTable {
	at.cmds = append(at.cmds, alterCmd{kind: alterDropIndex, name: column})
	return at
}

// Render renders each command as its own statement, in order.
func (at *AlterTable) Render(f sql.Formatter) (string, error) {
	stmts := make([]string, 0, len(at.cmds))
	for _, cmd := range at.cmds {
		switch cmd.kind {
		case alterRenameTable:
			if f.Kind() == dialect.MSSQL {
				stmts = append(stmts, "EXEC sp_rename '"+at.name+"', '"+cmd.newName+"';")
			} else {
				stmts = append(stmts, "ALTER TABLE "+sql.Quote(at.name)+" RENAME TO "+sql.Quote(cmd.newName)+";")
			}
		case alterAddColumn:
			line := "ALTER TABLE " + sql.Quote(at.name) + " " + f.AddColumnKeyword() + " " +
				sql.Quote(cmd.name) + " " + f.ColumnType(cmd.def)
			if cmd.required {
				line += " NOT NULL"
			}
			stmts = append(stmts, line+";")
		case alterRenameColumn:
			stmts = append(stmts, f.RenameColumn(at.name, cmd.name, cmd.newName))
		case alterDropColumn:
			stmts = append(stmts, "ALTER TABLE "+sql.Quote(at.name)+" DROP COLUMN "+sql.Quote(cmd.name)+";")
		case alterAddIndex:
			stmts = append(stmts, indexStatement(at.name, cmd.name, cmd.unique))
		case alterDropIndex:
			stmts = append(stmts, f.DropIndex(at.name, IndexName(at.name, cmd.name)))
		}
	}
	return strings.Join(stmts, "\n"), nil
}

// DropTable is a drop-table step.
type DropTable string

// Render renders the DROP TABLE statement.
func (d DropTable) Render(sql.Formatter) (string, error) {
	return "DROP TABLE " + sql.Quote(string(d)) + ";", nil
}
