// Package sql provides the dialect-neutral composed-query builder and
// the per-dialect formatters that render it into SQL text.
package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/sqlkit/bind"
)

// Kind is the finalized shape of a composed query.
type Kind uint8

// Query kinds.
const (
	KindInvalid Kind = iota
	KindSelectAll
	KindSelectFirst
	KindSelectRange
	KindSelectCount
	KindInsert
	KindUpdate
	KindDelete
)

// BoolCond is a boolean comparison kept out of the main condition
// string. Boolean literal syntax differs per dialect, so these resolve
// at render time rather than build time.
type BoolCond struct {
	Column  string
	Op      string // "=" or "<>"
	Value   bool
	Junctor string // "AND" or "OR"
	Negated bool
}

// ComposedQuery is the dialect-neutral intermediate representation of a
// finalized query. Once built by a terminal method its kind is fixed;
// formatters render it without mutating it, so rendering is
// deterministic given identical input.
type ComposedQuery struct {
	Kind      Kind
	Table     string
	Alias     string
	Columns   []string
	Joins     []string // prerendered clause fragments
	Where     string
	BoolConds []BoolCond
	GroupBy   []string
	OrderBy   []string
	Offset    int
	Limit     int
	Distinct  bool

	// SetColumns and SetExprs describe INSERT/UPDATE assignments in
	// declaration order. Values holds bound input values in
	// parameter-position order: assignment values first, condition values
	// after them.
	SetColumns []string
	SetExprs   []string
	Values     []*bind.Value
}

// Quote renders an identifier with uniform double-quote delimiters,
// splitting qualified names on the dot.
func Quote(ident string) string {
	if ident == "*" {
		return ident
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, ".")
}

// Literal renders v as an inlined SQL literal. Strings quote with
// doubled single quotes; numerics render bare; temporals use the
// "2006-01-02 15:04:05" layout; nil renders NULL.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return "'" + x.Format("2006-01-02 15:04:05") + "'"
	case uuid.UUID:
		return "'" + x.String() + "'"
	case bind.Numeric:
		return x.String()
	case *bind.Value:
		if x.IsNull() {
			return "NULL"
		}
		switch x.Kind() {
		case bind.KindBool:
			return Literal(x.Bool())
		case bind.KindInt16, bind.KindInt32, bind.KindInt64:
			return strconv.FormatInt(x.Int64(), 10)
		case bind.KindUint16, bind.KindUint32, bind.KindUint64:
			return strconv.FormatUint(x.Uint64(), 10)
		case bind.KindFloat32, bind.KindFloat64:
			return strconv.FormatFloat(x.Float64(), 'g', -1, 64)
		case bind.KindNumeric:
			return x.Numeric().String()
		case bind.KindDate:
			return "'" + x.Time().Format("2006-01-02") + "'"
		case bind.KindTime:
			return "'" + x.Time().Format("15:04:05") + "'"
		case bind.KindDateTime:
			return "'" + x.Time().Format("2006-01-02 15:04:05") + "'"
		case bind.KindGUID:
			return "'" + x.GUID().String() + "'"
		}
		return "'" + strings.ReplaceAll(x.String(), "'", "''") + "'"
	}
	return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
}

// conditions is the condition-building state shared by the SELECT,
// UPDATE and DELETE builders. The type parameter is the concrete builder
// so every mutator returns it for fluent chaining.
type conditions[T any] struct {
	self  T
	table string

	cond      strings.Builder
	boolConds []BoolCond

	// parameterized selects placeholder emission; values collects the
	// bound inputs in position order.
	parameterized bool
	values        []*bind.Value

	// or and not apply to the next condition only, then reset.
	or  bool
	not bool
}

// Or makes the next condition join with OR instead of AND.
func (c *conditions[T]) Or() T {
	c.or = true
	return c.self
}

// Not negates the next condition.
func (c *conditions[T]) Not() T {
	c.not = true
	return c.self
}

// junctor consumes the pending OR flag.
func (c *conditions[T]) junctor() string {
	j := "AND"
	if c.or {
		j = "OR"
	}
	c.or = false
	return j
}

// negated consumes the pending NOT flag.
func (c *conditions[T]) negated() bool {
	n := c.not
	c.not = false
	return n
}

// append joins expr onto the condition string with the pending junctor
// and negation.
func (c *conditions[T]) append(expr string) {
	j, n := c.junctor(), c.negated()
	if c.cond.Len() > 0 {
		c.cond.WriteString(" " + j + " ")
	}
	if n {
		expr = "NOT (" + expr + ")"
	}
	c.cond.WriteString(expr)
}

// expr renders the right-hand side of a comparison: a placeholder in
// parameterized mode, an inlined literal otherwise.
func (c *conditions[T]) expr(v any) string {
	if !c.parameterized {
		return Literal(v)
	}
	bv, err := bind.NewFromAny(v)
	if err != nil {
		// Fall back to a literal for unbindable values rather than
		// silently dropping the condition.
		return Literal(v)
	}
	c.values = append(c.values, bv)
	return "?"
}

// Where appends a comparison. The two-argument form compares for
// equality; the three-argument form takes an explicit operator:
//
//	q.Where("age", ">=", 18).Where("name", "Bob")
//
// Boolean equality/inequality comparisons are routed to a side list and
// rendered with the dialect's boolean literal at format time.
func (c *conditions[T]) Where(column string, args ...any) T {
	var op string
	var v any
	switch len(args) {
	case 1:
		op, v = "=", args[0]
	case 2:
		s, ok := args[0].(string)
		if !ok {
			panic("sqlkit: Where operator must be a string")
		}
		op, v = s, args[1]
	default:
		panic("sqlkit: Where expects (column, value) or (column, op, value)")
	}
	if b, ok := v.(bool); ok && (op == "=" || op == "<>") {
		c.boolConds = append(c.boolConds, BoolCond{
			Column:  column,
			Op:      op,
			Value:   b,
			Junctor: c.junctor(),
			Negated: c.negated(),
		})
		return c.self
	}
	c.append(Quote(column) + " " + op + " " + c.expr(v))
	return c.self
}

// WhereColumn appends a column-to-column comparison. The right column
// may be qualified ("other.col"); an unqualified name refers to the
// builder's own table.
func (c *conditions[T]) WhereColumn(column, op, other string) T {
	c.append(Quote(column) + " " + op + " " + Quote(c.qualify(other)))
	return c.self
}

// WhereIn appends an IN-list comparison. An empty list renders a
// never-true condition instead of invalid SQL.
func (c *conditions[T]) WhereIn(column string, values ...any) T {
	if len(values) == 0 {
		c.append("1 = 0")
		return c.self
	}
	exprs := make([]string, len(values))
	for i, v := range values {
		exprs[i] = c.expr(v)
	}
	c.append(Quote(column) + " IN (" + strings.Join(exprs, ", ") + ")")
	return c.self
}

// WhereNull appends an IS NULL test.
func (c *conditions[T]) WhereNull(column string) T {
	c.append(Quote(column) + " IS NULL")
	return c.self
}

// WhereNotNull appends an IS NOT NULL test.
func (c *conditions[T]) WhereNotNull(column string) T {
	c.append(Quote(column) + " IS NOT NULL")
	return c.self
}

// WhereGroup wraps the conditions added by fn in parentheses. When fn
// adds nothing the group is rolled back and the condition string is left
// untouched. Boolean equality comparisons added inside fn join the
// statement's boolean side list individually and are not parenthesized;
// when the group contains only boolean comparisons, a pending Or or Not
// carries over to the first of them.
func (c *conditions[T]) WhereGroup(fn func(T)) T {
	j, n := c.junctor(), c.negated()
	saved := c.cond.String()
	savedBools := len(c.boolConds)
	c.cond.Reset()
	fn(c.self)
	inner := c.cond.String()
	c.cond.Reset()
	c.cond.WriteString(saved)
	if inner == "" && len(c.boolConds) == savedBools {
		return c.self
	}
	if inner != "" {
		expr := "(" + inner + ")"
		if n {
			expr = "NOT " + expr
		}
		if c.cond.Len() > 0 {
			c.cond.WriteString(" " + j + " ")
		}
		c.cond.WriteString(expr)
	} else if len(c.boolConds) > savedBools {
		bc := &c.boolConds[savedBools]
		bc.Junctor = j
		if n {
			bc.Negated = !bc.Negated
		}
	}
	return c.self
}

// qualify prefixes an unqualified column with the builder's table.
func (c *conditions[T]) qualify(column string) string {
	if strings.Contains(column, ".") {
		return column
	}
	return c.table + "." + column
}

// snapshot copies the condition state into q.
func (c *conditions[T]) snapshot(q *ComposedQuery) {
	q.Where = c.cond.String()
	q.BoolConds = append([]BoolCond(nil), c.boolConds...)
	q.Values = append(q.Values, c.values...)
}

// Query is the table-selected entry state of the builder. A verb method
// consumes it and returns the kind-specific builder.
type Query struct {
	table         string
	alias         string
	parameterized bool
}

// Table starts a query against the named table in inlined-literal mode.
func Table(name string) *Query {
	return &Query{table: name}
}

// As sets the table alias.
func (q *Query) As(alias string) *Query {
	q.alias = alias
	return q
}

// WithArgs switches the builder to parameterized mode: condition and
// assignment values become placeholders collected in position order on
// the finalized query.
func (q *Query) WithArgs() *Query {
	q.parameterized = true
	return q
}

// Select starts a SELECT over the given columns; none means "*".
func (q *Query) Select(columns ...string) *Selector {
	s := &Selector{table: q.table, alias: q.alias, columns: columns}
	s.conditions.self = s
	s.conditions.table = q.table
	s.conditions.parameterized = q.parameterized
	return s
}

// Insert starts an INSERT.
func (q *Query) Insert() *Inserter {
	return &Inserter{table: q.table, parameterized: q.parameterized}
}

// Update starts an UPDATE.
func (q *Query) Update() *Updater {
	u := &Updater{table: q.table}
	u.conditions.self = u
	u.conditions.table = q.table
	u.conditions.parameterized = q.parameterized
	u.parameterized = q.parameterized
	return u
}

// Delete starts a DELETE.
func (q *Query) Delete() *Deleter {
	d := &Deleter{table: q.table}
	d.conditions.self = d
	d.conditions.table = q.table
	d.conditions.parameterized = q.parameterized
	return d
}

// Selector builds SELECT queries. Terminal methods fix the query kind
// and capture the builder state into an immutable ComposedQuery.
type Selector struct {
	conditions[*Selector]
	table    string
	alias    string
	columns  []string
	joins    []string
	orderBy  []string
	groupBy  []string
	distinct bool
}

// Distinct marks the selection DISTINCT.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// OrderBy appends ascending ORDER BY columns.
func (s *Selector) OrderBy(columns ...string) *Selector {
	for _, col := range columns {
		s.orderBy = append(s.orderBy, Quote(col))
	}
	return s
}

// OrderByDesc appends a descending ORDER BY column.
func (s *Selector) OrderByDesc(column string) *Selector {
	s.orderBy = append(s.orderBy, Quote(column)+" DESC")
	return s
}

// GroupBy appends GROUP BY columns.
func (s *Selector) GroupBy(columns ...string) *Selector {
	for _, col := range columns {
		s.groupBy = append(s.groupBy, Quote(col))
	}
	return s
}

// join renders one join clause. An unqualified left column refers to
// the selector's own table; the right column is qualified with the
// joined table when bare.
func (s *Selector) join(kind, table, left, right string) *Selector {
	if !strings.Contains(left, ".") {
		left = s.table + "." + left
	}
	if !strings.Contains(right, ".") {
		right = table + "." + right
	}
	s.joins = append(s.joins,
		kind+" JOIN "+Quote(table)+" ON "+Quote(left)+" = "+Quote(right))
	return s
}

// InnerJoin appends an INNER JOIN clause.
func (s *Selector) InnerJoin(table, left, right string) *Selector {
	return s.join("INNER", table, left, right)
}

// LeftJoin appends a LEFT OUTER JOIN clause.
func (s *Selector) LeftJoin(table, left, right string) *Selector {
	return s.join("LEFT OUTER", table, left, right)
}

// RightJoin appends a RIGHT OUTER JOIN clause.
func (s *Selector) RightJoin(table, left, right string) *Selector {
	return s.join("RIGHT OUTER", table, left, right)
}

// FullJoin appends a FULL OUTER JOIN clause.
func (s *Selector) FullJoin(table, left, right string) *Selector {
	return s.join("FULL OUTER", table, left, right)
}

func (s *Selector) finalize(kind Kind) *ComposedQuery {
	q := &ComposedQuery{
		Kind:     kind,
		Table:    s.table,
		Alias:    s.alias,
		Columns:  append([]string(nil), s.columns...),
		Joins:    append([]string(nil), s.joins...),
		GroupBy:  append([]string(nil), s.groupBy...),
		OrderBy:  append([]string(nil), s.orderBy...),
		Distinct: s.distinct,
	}
	s.snapshot(q)
	return q
}

// All finalizes as a plain SELECT over every matching row.
func (s *Selector) All() *ComposedQuery {
	return s.finalize(KindSelectAll)
}

// First finalizes as a SELECT limited to the first n rows.
func (s *Selector) First(n int) *ComposedQuery {
	q := s.finalize(KindSelectFirst)
	q.Limit = n
	return q
}

// Range finalizes as a paginated SELECT. Dialects that render the range
// with OFFSET/FETCH require a non-empty ORDER BY; formatting without one
// fails with ErrMissingOrderBy.
func (s *Selector) Range(offset, limit int) *ComposedQuery {
	q := s.finalize(KindSelectRange)
	q.Offset = offset
	q.Limit = limit
	return q
}

// Count finalizes as a SELECT COUNT(*).
func (s *Selector) Count() *ComposedQuery {
	return s.finalize(KindSelectCount)
}

// Inserter builds INSERT statements.
type Inserter struct {
	table         string
	parameterized bool
	columns       []string
	exprs         []string
	values        []*bind.Value
}

// Set appends one column assignment in declaration order.
func (i *Inserter) Set(column string, v any) *Inserter {
	i.columns = append(i.columns, column)
	if i.parameterized {
		if bv, err := bind.NewFromAny(v); err == nil {
			i.values = append(i.values, bv)
			i.exprs = append(i.exprs, "?")
			return i
		}
	}
	i.exprs = append(i.exprs, Literal(v))
	return i
}

// SetNull appends a NULL assignment.
func (i *Inserter) SetNull(column string) *Inserter {
	i.columns = append(i.columns, column)
	i.exprs = append(i.exprs, "NULL")
	return i
}

// Query finalizes as an INSERT ComposedQuery.
func (i *Inserter) Query() *ComposedQuery {
	return &ComposedQuery{
		Kind:       KindInsert,
		Table:      i.table,
		SetColumns: append([]string(nil), i.columns...),
		SetExprs:   append([]string(nil), i.exprs...),
		Values:     append([]*bind.Value(nil), i.values...),
	}
}

// Updater builds UPDATE statements. Assignment values precede condition
// values in the finalized parameter order.
type Updater struct {
	conditions[*Updater]
	table         string
	parameterized bool
	columns       []string
	exprs         []string
	setValues     []*bind.Value
}

// Set appends one column assignment.
func (u *Updater) Set(column string, v any) *Updater {
	u.columns = append(u.columns, column)
	if u.parameterized {
		if bv, err := bind.NewFromAny(v); err == nil {
			u.setValues = append(u.setValues, bv)
			u.exprs = append(u.exprs, "?")
			return u
		}
	}
	u.exprs = append(u.exprs, Literal(v))
	return u
}

// SetNull appends a NULL assignment.
func (u *Updater) SetNull(column string) *Updater {
	u.columns = append(u.columns, column)
	u.exprs = append(u.exprs, "NULL")
	return u
}

// Query finalizes as an UPDATE ComposedQuery.
func (u *Updater) Query() *ComposedQuery {
	q := &ComposedQuery{
		Kind:       KindUpdate,
		Table:      u.table,
		SetColumns: append([]string(nil), u.columns...),
		SetExprs:   append([]string(nil), u.exprs...),
		Values:     append([]*bind.Value(nil), u.setValues...),
	}
	u.snapshot(q)
	return q
}

// Deleter builds DELETE statements.
type Deleter struct {
	conditions[*Deleter]
	table string
}

// Query finalizes as a DELETE ComposedQuery.
func (d *Deleter) Query() *ComposedQuery {
	q := &ComposedQuery{Kind: KindDelete, Table: d.table}
	d.snapshot(q)
	return q
}
