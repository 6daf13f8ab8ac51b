package arel

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// timestampLayout is used for time.Time literals, always in UTC.
const timestampLayout = "2006-01-02 15:04:05.999999"

func (c *compiler) literal(v any) error {
	s, err := c.quoteValue(v)
	if err != nil {
		return err
	}
	c.sql.WriteString(s)
	return nil
}

// quoteValue renders a native value as a SQL literal.
func (c *compiler) quoteValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case SQLLiteral:
		return string(v), nil
	case driver.Valuer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL", nil
		}
		val, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("%w: %T: %w", ErrTypeMismatch, v, err)
		}
		return c.quoteValue(val)
	case time.Time:
		return c.dialect.QuoteString(v.UTC().Format(timestampLayout)), nil
	case []byte:
		return c.dialect.QuoteString(string(v)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL", nil
		}
		return c.quoteValue(rv.Elem().Interface())
	case reflect.Bool:
		return c.boolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v has no SQL representation", ErrTypeMismatch, f)
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		return strconv.FormatFloat(f, 'g', -1, bits), nil
	case reflect.String:
		return c.dialect.QuoteString(rv.String()), nil
	default:
		return "", fmt.Errorf("%w: cannot render %T as SQL", ErrTypeMismatch, v)
	}
}

func (c *compiler) boolean(b bool) string {
	switch {
	case c.caps.BooleanLiterals && b:
		return "TRUE"
	case c.caps.BooleanLiterals:
		return "FALSE"
	case b:
		return "1"
	default:
		return "0"
	}
}
