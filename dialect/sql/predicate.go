package sql

import "strings"

// PredicateFunc is a constraint for predicate functions, allowing typed
// field helpers to produce any predicate type based on func(*Selector).
type PredicateFunc interface {
	~func(*Selector)
}

// Predicate is the default predicate type applied to a Selector.
type Predicate func(*Selector)

// Apply runs the given predicates against the selector.
func (s *Selector) Apply(ps ...Predicate) *Selector {
	for _, p := range ps {
		p(s)
	}
	return s
}

// FieldEQ returns a predicate testing field equality.
func FieldEQ(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, v) }
}

// FieldNEQ returns a predicate testing field inequality.
func FieldNEQ(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, "<>", v) }
}

// FieldGT returns a greater-than predicate.
func FieldGT(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, ">", v) }
}

// FieldGTE returns a greater-or-equal predicate.
func FieldGTE(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, ">=", v) }
}

// FieldLT returns a less-than predicate.
func FieldLT(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, "<", v) }
}

// FieldLTE returns a less-or-equal predicate.
func FieldLTE(name string, v any) Predicate {
	return func(s *Selector) { s.Where(name, "<=", v) }
}

// FieldIn returns an IN-list predicate.
func FieldIn(name string, vs ...any) Predicate {
	return func(s *Selector) { s.WhereIn(name, vs...) }
}

// FieldNotIn returns a negated IN-list predicate.
func FieldNotIn(name string, vs ...any) Predicate {
	return func(s *Selector) { s.Not().WhereIn(name, vs...) }
}

// FieldIsNull returns an IS NULL predicate.
func FieldIsNull(name string) Predicate {
	return func(s *Selector) { s.WhereNull(name) }
}

// FieldNotNull returns an IS NOT NULL predicate.
func FieldNotNull(name string) Predicate {
	return func(s *Selector) { s.WhereNotNull(name) }
}

// escapeLike escapes the LIKE metacharacters in a literal fragment.
func escapeLike(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "%", `\%`)
	return strings.ReplaceAll(v, "_", `\_`)
}

// FieldContains returns a substring-match predicate.
func FieldContains(name, v string) Predicate {
	return func(s *Selector) { s.Where(name, "LIKE", "%"+escapeLike(v)+"%") }
}

// FieldHasPrefix returns a prefix-match predicate.
func FieldHasPrefix(name, v string) Predicate {
	return func(s *Selector) { s.Where(name, "LIKE", escapeLike(v)+"%") }
}

// FieldHasSuffix returns a suffix-match predicate.
func FieldHasSuffix(name, v string) Predicate {
	return func(s *Selector) { s.Where(name, "LIKE", "%"+escapeLike(v)) }
}

// StringField is a generic string field providing type-safe predicate
// methods, so consumers define predicates once instead of per field:
//
//	var Email = sql.StringField[myPredicate]("email")
//	query.Apply(sql.Predicate(Email.EQ("bob@example.com")))
type StringField[P PredicateFunc] string

// Name returns the field name.
func (f StringField[P]) Name() string { return string(f) }

// EQ tests equality with the given value.
func (f StringField[P]) EQ(v string) P { return P(FieldEQ(string(f), v)) }

// NEQ tests inequality with the given value.
func (f StringField[P]) NEQ(v string) P { return P(FieldNEQ(string(f), v)) }

// GT tests strict ordering above the given value.
func (f StringField[P]) GT(v string) P { return P(FieldGT(string(f), v)) }

// GTE tests ordering at or above the given value.
func (f StringField[P]) GTE(v string) P { return P(FieldGTE(string(f), v)) }

// LT tests strict ordering below the given value.
func (f StringField[P]) LT(v string) P { return P(FieldLT(string(f), v)) }

// LTE tests ordering at or below the given value.
func (f StringField[P]) LTE(v string) P { return P(FieldLTE(string(f), v)) }

// In tests membership in the given list.
func (f StringField[P]) In(vs ...string) P {
	anys := make([]any, len(vs))
	for i, v := range vs {
		anys[i] = v
	}
	return P(FieldIn(string(f), anys...))
}

// NotIn tests non-membership in the given list.
func (f StringField[P]) NotIn(vs ...string) P {
	anys := make([]any, len(vs))
	for i, v := range vs {
		anys[i] = v
	}
	return P(FieldNotIn(string(f), anys...))
}

// Contains tests for the given substring.
func (f StringField[P]) Contains(v string) P { return P(FieldContains(string(f), v)) }

// HasPrefix tests for the given prefix.
func (f StringField[P]) HasPrefix(v string) P { return P(FieldHasPrefix(string(f), v)) }

// HasSuffix tests for the given suffix.
func (f StringField[P]) HasSuffix(v string) P { return P(FieldHasSuffix(string(f), v)) }

// IsNull tests for SQL NULL.
func (f StringField[P]) IsNull() P { return P(FieldIsNull(string(f))) }

// Numeric constrains the Go types usable with NumberField.
type Numeric interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// NumberField is a generic numeric field with type-safe predicates.
type NumberField[P PredicateFunc, V Numeric] string

// Name returns the field name.
func (f NumberField[P, V]) Name() string { return string(f) }

// EQ tests equality with the given value.
func (f NumberField[P, V]) EQ(v V) P { return P(FieldEQ(string(f), v)) }

// NEQ tests inequality with the given value.
func (f NumberField[P, V]) NEQ(v V) P { return P(FieldNEQ(string(f), v)) }

// GT tests strict ordering above the given value.
func (f NumberField[P, V]) GT(v V) P { return P(FieldGT(string(f), v)) }

// GTE tests ordering at or above the given value.
func (f NumberField[P, V]) GTE(v V) P { return P(FieldGTE(string(f), v)) }

// LT tests strict ordering below the given value.
func (f NumberField[P, V]) LT(v V) P { return P(FieldLT(string(f), v)) }

// LTE tests ordering at or below the given value.
func (f NumberField[P, V]) LTE(v V) P { return P(FieldLTE(string(f), v)) }

// In tests membership in the given list.
func (f NumberField[P, V]) In(vs ...V) P {
	anys := make([]any, len(vs))
	for i, v := range vs {
		anys[i] = v
	}
	return P(FieldIn(string(f), anys...))
}

// BoolField is a generic boolean field. Its comparisons route through
// the side list so boolean literal syntax resolves per dialect.
type BoolField[P PredicateFunc] string

// Name returns the field name.
func (f BoolField[P]) Name() string { return string(f) }

// EQ tests equality with the given value.
func (f BoolField[P]) EQ(v bool) P { return P(FieldEQ(string(f), v)) }

// NEQ tests inequality with the given value.
func (f BoolField[P]) NEQ(v bool) P { return P(FieldNEQ(string(f), v)) }
