package arel

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/dbml"
)

// columnFamily groups DBML column types by how values are coerced.
type columnFamily int

const (
	familyOther columnFamily = iota
	familyInteger
	familyNumeric
	familyBoolean
	familyText
	familyTemporal
)

var columnFamilies = map[string]columnFamily{
	"int": familyInteger, "integer": familyInteger, "int2": familyInteger, "int4": familyInteger,
	"int8": familyInteger, "smallint": familyInteger, "bigint": familyInteger, "tinyint": familyInteger,
	"serial": familyInteger, "bigserial": familyInteger, "smallserial": familyInteger,

	"numeric": familyNumeric, "decimal": familyNumeric, "real": familyNumeric, "float": familyNumeric,
	"float4": familyNumeric, "float8": familyNumeric, "double": familyNumeric,
	"double precision": familyNumeric, "money": familyNumeric,

	"bool": familyBoolean, "boolean": familyBoolean,

	"text": familyText, "varchar": familyText, "char": familyText, "character": familyText,
	"character varying": familyText, "citext": familyText, "uuid": familyText,
	"nvarchar": familyText, "nchar": familyText,

	"timestamp": familyTemporal, "timestamptz": familyTemporal, "date": familyTemporal,
	"datetime": familyTemporal, "datetime2": familyTemporal, "time": familyTemporal,
}

// timeLayouts are tried in order when a string is cast to a temporal column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SchemaCaster is a TypeCaster driven by a DBML table definition. Values
// are coerced by the declared column type; types it does not recognize
// (json, arrays, vectors) pass through unchanged.
type SchemaCaster struct {
	table   string
	columns map[string]string
}

// NewSchemaCaster builds a caster for one DBML table.
func NewSchemaCaster(table *dbml.Table) *SchemaCaster {
	c := &SchemaCaster{table: table.Name, columns: make(map[string]string)}
	for _, col := range table.Columns {
		c.columns[col.Name] = col.Type
	}
	return c
}

// TypeCastForDatabase coerces value for column.
func (c *SchemaCaster) TypeCastForDatabase(column string, value any) (any, error) {
	typ, ok := c.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found in table %q", ErrInvalidArgument, column, c.table)
	}
	if value == nil {
		return nil, nil
	}
	if _, ok := value.(driver.Valuer); ok {
		return value, nil
	}

	var (
		out any
		err error
	)
	switch familyOf(typ) {
	case familyInteger:
		out, err = castInteger(value)
	case familyNumeric:
		out, err = castNumeric(value)
	case familyBoolean:
		out, err = castBoolean(value)
	case familyText:
		out, err = castText(value)
	case familyTemporal:
		out, err = castTemporal(value)
	default:
		return value, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: column %q.%q (%s) cannot hold %T: %w", ErrTypeMismatch, c.table, column, typ, value, err)
	}
	return out, nil
}

func familyOf(typ string) columnFamily {
	t := strings.ToLower(strings.TrimSpace(typ))
	if strings.HasSuffix(t, "[]") {
		return familyOther
	}
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if strings.HasPrefix(t, "timestamp") {
		return familyTemporal
	}
	return columnFamilies[t]
}

func castInteger(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%v is not integral", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("%v overflows int64", f)
		}
		return int64(f), nil
	case reflect.String:
		return strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
	default:
		return nil, fmt.Errorf("unsupported kind %s", rv.Kind())
	}
}

func castNumeric(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
	default:
		return nil, fmt.Errorf("unsupported kind %s", rv.Kind())
	}
}

func castBoolean(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Int() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, fmt.Errorf("%d is not 0 or 1", rv.Int())
	case reflect.String:
		return strconv.ParseBool(strings.TrimSpace(rv.String()))
	default:
		return nil, fmt.Errorf("unsupported kind %s", rv.Kind())
	}
}

func castText(v any) (any, error) {
	switch s := v.(type) {
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", rv.Kind())
	}
}

func castTemporal(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("%q is not a recognized timestamp", t)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
