package bind

import (
	"fmt"
	"time"

	"github.com/syssam/sqlkit/dialect"
)

// Wire text layouts for temporal kinds. Parsing tries the listed layouts
// in order; rendering always uses the first.
var (
	dateLayouts = []string{"2006-01-02"}
	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04:05",
	}
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// timeCodec handles KindDate, KindTime and KindDateTime.
type timeCodec struct {
	kind Kind
}

func (c timeCodec) Kind() Kind { return c.kind }

func (c timeCodec) sqlType() SQLType {
	switch c.kind {
	case KindDate:
		return SQLDate
	case KindTime:
		return SQLTime
	}
	return SQLTimestamp
}

func (c timeCodec) layouts() []string {
	switch c.kind {
	case KindDate:
		return dateLayouts
	case KindTime:
		return timeLayouts
	}
	return dateTimeLayouts
}

// normalize strips the variant-irrelevant parts of t.
func (c timeCodec) normalize(t time.Time) time.Time {
	switch c.kind {
	case KindDate:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case KindTime:
		return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t
}

func (c timeCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: c.sqlType(), Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = c.normalize(v.Time())
	}
	return Error(h, h.BindParameter(index, p))
}

func (c timeCodec) parse(text []byte) (time.Time, error) {
	s := string(text)
	for _, layout := range c.layouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return c.normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("sqlkit: malformed %s literal %q", c.kind, s)
}

func (c timeCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, c.sqlType(), func(text []byte) error {
		t, err := c.parse(text)
		if err != nil {
			return err
		}
		v.setTime(t)
		return nil
	})
}

func (c timeCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		t, err := c.parse(text)
		if err != nil {
			return err
		}
		v.setTime(t)
		return nil
	})
}

func (c timeCodec) Inspect(v *Value) string { return v.Inspect() }
