package querydoc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zoobzio/arel"
	"github.com/zoobzio/dbml"
)

// Statement is a built document ready to compile for a dialect.
type Statement interface {
	Compile(d arel.Dialect) (string, error)
}

// relation is anything a column reference can resolve against.
type relation interface {
	arel.Node
	Get(column string) *arel.Attribute
}

var refPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Build turns the document into a select or insert manager.
func (d *Document) Build() (Statement, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	b, err := newBuilder(d.Tables)
	if err != nil {
		return nil, err
	}
	if d.Select != nil {
		m, err := b.selectManager(d.Select)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := b.insertManager(d.Insert)
	if err != nil {
		return nil, err
	}
	return m, nil
}

type builder struct {
	catalog *arel.Catalog
	tables  map[string]*arel.Table
}

func newBuilder(schema map[string]map[string]string) (*builder, error) {
	b := &builder{tables: make(map[string]*arel.Table)}
	if len(schema) == 0 {
		return b, nil
	}

	project := dbml.NewProject("querydoc")
	for _, name := range sortedKeys(schema) {
		table := dbml.NewTable(name)
		columns := schema[name]
		for _, col := range sortedKeys(columns) {
			table.AddColumn(dbml.NewColumn(col, columns[col]))
		}
		project.AddTable(table)
	}

	catalog, err := arel.NewFromDBML(project)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	b.catalog = catalog
	return b, nil
}

// table returns one shared *arel.Table per name so aliases are registered
// in a single place.
func (b *builder) table(name string) (*arel.Table, error) {
	if b.catalog != nil {
		t, err := b.catalog.TryTable(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return t, nil
	}
	if t, ok := b.tables[name]; ok {
		return t, nil
	}
	t, err := arel.TryNewTable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	b.tables[name] = t
	return t, nil
}

func (b *builder) selectManager(s *Select) (*arel.SelectManager, error) {
	if s.From == "" {
		return nil, fmt.Errorf("%w: select needs a from table", ErrInvalidDocument)
	}

	sc := &scope{b: b, rels: make(map[string]relation), bases: make(map[string]string)}
	from, err := sc.add(s.From, s.Alias)
	if err != nil {
		return nil, err
	}

	m := arel.NewSelectManager(from)
	if s.Distinct {
		m.Distinct()
	}

	for i, j := range s.Joins {
		if err := sc.join(m, j); err != nil {
			return nil, fmt.Errorf("join %d: %w", i, err)
		}
	}

	for _, p := range s.Project {
		n, err := sc.expr(p)
		if err != nil {
			return nil, err
		}
		m.Project(n)
	}

	where, err := sc.conditions(s.Where)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	for _, p := range where {
		m.Where(p)
	}

	for _, g := range s.Group {
		n, err := sc.expr(g)
		if err != nil {
			return nil, err
		}
		m.Group(n)
	}

	having, err := sc.conditions(s.Having)
	if err != nil {
		return nil, fmt.Errorf("having: %w", err)
	}
	for _, p := range having {
		m.Having(p)
	}

	for _, o := range s.Order {
		n, err := sc.ordering(o)
		if err != nil {
			return nil, err
		}
		m.Order(n)
	}

	if s.Offset != nil {
		m.Skip(*s.Offset)
	}
	if s.Limit != nil {
		m.Take(*s.Limit)
	}

	if s.Lock != "" {
		mode, err := lockMode(s.Lock)
		if err != nil {
			return nil, err
		}
		m.Lock(mode)
	}

	if err := m.Err(); err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	return m, nil
}

func (b *builder) insertManager(in *Insert) (*arel.InsertManager, error) {
	if in.Into == "" {
		return nil, fmt.Errorf("%w: insert needs an into table", ErrInvalidDocument)
	}
	t, err := b.table(in.Into)
	if err != nil {
		return nil, err
	}

	forms := 0
	for _, set := range []bool{in.Raw != "", in.Select != nil, len(in.Values) > 0} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return nil, fmt.Errorf("%w: insert needs exactly one of raw, select, or values", ErrInvalidDocument)
	}

	columns := make([]*arel.Attribute, 0, len(in.Columns))
	for _, col := range in.Columns {
		if b.catalog != nil && !b.catalog.HasColumn(in.Into, col) {
			return nil, fmt.Errorf("%w: unknown column %s.%s", ErrInvalidDocument, in.Into, col)
		}
		columns = append(columns, t.Get(col))
	}

	m := arel.NewInsertManager().Into(t)
	switch {
	case in.Raw != "":
		if len(columns) > 0 {
			return nil, fmt.Errorf("%w: raw inserts take no columns", ErrInvalidDocument)
		}
		m.Insert(in.Raw)

	case in.Select != nil:
		sm, err := b.selectManager(in.Select)
		if err != nil {
			return nil, fmt.Errorf("insert select: %w", err)
		}
		if len(columns) > 0 {
			m.Columns(columns...)
		}
		m.Select(sm)

	default:
		if len(in.Values) != len(columns) {
			return nil, fmt.Errorf("%w: %d values for %d columns", ErrInvalidDocument, len(in.Values), len(columns))
		}
		assignments := make([]arel.Assignment, len(columns))
		for i, col := range columns {
			assignments[i] = col.Assign(in.Values[i])
		}
		m.Insert(assignments)
	}

	if err := m.Err(); err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}
	return m, nil
}

// scope tracks the relations visible to one select.
type scope struct {
	b     *builder
	rels  map[string]relation
	bases map[string]string
	def   string
}

func (sc *scope) add(table, alias string) (relation, error) {
	if table == "" {
		return nil, fmt.Errorf("%w: missing table name", ErrInvalidDocument)
	}
	t, err := sc.b.table(table)
	if err != nil {
		return nil, err
	}

	var rel relation = t
	key := table
	if alias != "" && alias != table {
		a, err := t.LookupAlias(alias)
		if err != nil {
			if a, err = t.AliasAs(alias); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
			}
		}
		rel = a
		key = alias
	}

	if _, dup := sc.rels[key]; dup {
		return nil, fmt.Errorf("%w: %q is used twice; give it an alias", ErrInvalidDocument, key)
	}
	sc.rels[key] = rel
	sc.bases[key] = table
	if sc.def == "" {
		sc.def = key
	}
	return rel, nil
}

func (sc *scope) join(m *arel.SelectManager, j Join) error {
	if j.Raw != "" {
		if j.Table != "" || len(j.On) > 0 {
			return fmt.Errorf("%w: raw joins take no table or on", ErrInvalidDocument)
		}
		m.StringJoin(j.Raw)
		return nil
	}

	kind, err := joinKind(j.Kind)
	if err != nil {
		return err
	}
	rel, err := sc.add(j.Table, j.Alias)
	if err != nil {
		return err
	}
	m.Join(rel, kind)

	if len(j.On) == 0 {
		return nil
	}
	on, err := sc.conditions(j.On)
	if err != nil {
		return fmt.Errorf("on: %w", err)
	}
	m.On(on...)
	return nil
}

// column resolves "rel.col", or a bare "col" against the FROM relation.
func (sc *scope) column(ref string) (*arel.Attribute, error) {
	ref = strings.TrimSpace(ref)
	if !refPattern.MatchString(ref) {
		return nil, fmt.Errorf("%w: %q is not a column reference", ErrInvalidDocument, ref)
	}
	key, col := sc.def, ref
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		key, col = ref[:i], ref[i+1:]
	}
	rel, ok := sc.rels[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown relation %q in %q", ErrInvalidDocument, key, ref)
	}
	if sc.b.catalog != nil && !sc.b.catalog.HasColumn(sc.bases[key], col) {
		return nil, fmt.Errorf("%w: unknown column %s.%s", ErrInvalidDocument, sc.bases[key], col)
	}
	return rel.Get(col), nil
}

// expr resolves a projection or grouping entry. Anything that is not a
// column reference is passed through as literal SQL.
func (sc *scope) expr(s string) (arel.Node, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidDocument)
	case s == "*":
		return arel.Star, nil
	case refPattern.MatchString(s):
		return sc.column(s)
	default:
		return arel.Lit(s), nil
	}
}

func (sc *scope) ordering(s string) (arel.Node, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty order entry", ErrInvalidDocument)
	}

	var dir arel.Direction
	switch strings.ToUpper(fields[len(fields)-1]) {
	case "ASC":
		dir = arel.Ascending
	case "DESC":
		dir = arel.Descending
	}
	if dir != "" {
		if len(fields) == 1 {
			return nil, fmt.Errorf("%w: order entry %q has no expression", ErrInvalidDocument, s)
		}
		fields = fields[:len(fields)-1]
	}

	n, err := sc.expr(strings.Join(fields, " "))
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return n, nil
	}
	return &arel.Ordering{Expr: n, Direction: dir}, nil
}

func (sc *scope) conditions(cs []Condition) ([]arel.Node, error) {
	out := make([]arel.Node, 0, len(cs))
	for i, c := range cs {
		n, err := sc.condition(c)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (sc *scope) condition(c Condition) (arel.Node, error) {
	switch {
	case c.Raw != "":
		if c.Left != "" || len(c.Any) > 0 {
			return nil, fmt.Errorf("%w: raw conditions stand alone", ErrInvalidDocument)
		}
		return arel.Lit(c.Raw), nil

	case len(c.Any) > 0:
		if c.Left != "" {
			return nil, fmt.Errorf("%w: any groups stand alone", ErrInvalidDocument)
		}
		alts, err := sc.conditions(c.Any)
		if err != nil {
			return nil, err
		}
		if len(alts) == 1 {
			return alts[0], nil
		}
		acc := alts[0]
		for _, n := range alts[1:] {
			acc = arel.NewOr(acc, n)
		}
		return acc, nil

	case c.Left != "":
		return sc.comparison(c)
	}
	return nil, fmt.Errorf("%w: condition needs raw, any, or left", ErrInvalidDocument)
}

func (sc *scope) comparison(c Condition) (arel.Node, error) {
	left, err := sc.column(c.Left)
	if err != nil {
		return nil, err
	}

	op := strings.ToLower(strings.Join(strings.Fields(c.Op), " "))
	if op == "" {
		op = "="
	}

	if op == "in" || op == "not in" {
		if c.Right != "" || c.Value != nil {
			return nil, fmt.Errorf("%w: %s takes values", ErrInvalidDocument, op)
		}
		if op == "in" {
			return left.In(c.Values...), nil
		}
		return left.NotIn(c.Values...), nil
	}

	if c.Values != nil {
		return nil, fmt.Errorf("%w: values only apply to in and not in", ErrInvalidDocument)
	}
	var right any = c.Value
	if c.Right != "" {
		if c.Value != nil {
			return nil, fmt.Errorf("%w: right and value are mutually exclusive", ErrInvalidDocument)
		}
		attr, err := sc.column(c.Right)
		if err != nil {
			return nil, err
		}
		right = attr
	}

	switch op {
	case "=", "==":
		return left.Eq(right), nil
	case "!=", "<>":
		return left.NotEq(right), nil
	case ">":
		return left.Gt(right), nil
	case ">=":
		return left.Gteq(right), nil
	case "<":
		return left.Lt(right), nil
	case "<=":
		return left.Lteq(right), nil
	case "like":
		return left.Matches(right), nil
	case "not like":
		return left.DoesNotMatch(right), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidDocument, c.Op)
}

func joinKind(s string) (arel.JoinKind, error) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "", "inner":
		return arel.InnerJoin, nil
	case "left", "outer", "left outer":
		return arel.OuterJoin, nil
	case "right", "right outer":
		return arel.RightOuterJoin, nil
	case "full", "full outer":
		return arel.FullOuterJoin, nil
	}
	return 0, fmt.Errorf("%w: unknown join kind %q", ErrInvalidDocument, s)
}

func lockMode(s string) (arel.LockMode, error) {
	mode := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	mode = strings.TrimPrefix(mode, "FOR ")
	switch mode {
	case "UPDATE":
		return arel.ForUpdate, nil
	case "SHARE":
		return arel.ForShare, nil
	case "NO KEY UPDATE":
		return arel.ForNoKeyUpdate, nil
	case "KEY SHARE":
		return arel.ForKeyShare, nil
	}
	return "", fmt.Errorf("%w: unknown lock mode %q", ErrInvalidDocument, s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
