package arel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/arel/internal/render"
)

// Compile renders n as SQL for dialect d. A nil dialect means ANSI.
// Rendering either succeeds completely or returns an error; partial SQL
// is never returned.
func Compile(d Dialect, n Node) (string, error) {
	if d == nil {
		d = ANSI
	}
	c := &compiler{dialect: d, caps: d.Capabilities()}
	if err := Accept(c, n); err != nil {
		return "", err
	}
	return c.sql.String(), nil
}

// ToSQL renders n as ANSI SQL.
func ToSQL(n Node) (string, error) {
	return Compile(ANSI, n)
}

// compiler is the rendering Visitor.
type compiler struct {
	dialect Dialect
	sql     strings.Builder
	caps    render.Capabilities
}

var _ Visitor = (*compiler)(nil)

var comparisonOperators = map[Operator]bool{
	OpEq:           true,
	OpNotEq:        true,
	OpLt:           true,
	OpLteq:         true,
	OpGt:           true,
	OpGteq:         true,
	OpMatches:      true,
	OpDoesNotMatch: true,
}

func (c *compiler) unsupported(feature string, hint ...string) error {
	return fmt.Errorf("%w: %w", ErrInvalidState, render.NewUnsupportedFeatureError(c.dialect.Name(), feature, hint...))
}

func (c *compiler) quote(name string) string {
	return c.dialect.QuoteIdentifier(name)
}

// list renders nodes separated by sep.
func (c *compiler) list(nodes []Node, sep string) error {
	for i, n := range nodes {
		if i > 0 {
			c.sql.WriteString(sep)
		}
		if err := Accept(c, n); err != nil {
			return err
		}
	}
	return nil
}

// operand renders n, parenthesizing a bare sub-select.
func (c *compiler) operand(n Node) error {
	if stmt, ok := n.(*SelectStatement); ok {
		c.sql.WriteByte('(')
		if err := c.VisitSelectStatement(stmt); err != nil {
			return err
		}
		c.sql.WriteByte(')')
		return nil
	}
	return Accept(c, n)
}

func (c *compiler) VisitTable(t *Table) error {
	c.sql.WriteString(c.quote(t.name))
	if alias, ok := t.TableAlias(); ok {
		c.sql.WriteByte(' ')
		c.sql.WriteString(c.quote(alias))
	}
	return nil
}

func (c *compiler) VisitTableAlias(a *TableAlias) error {
	if a.Name == "" {
		return fmt.Errorf("%w: table alias has no name", ErrInvalidArgument)
	}
	switch r := a.Relation.(type) {
	case *Table:
		if r == nil {
			return fmt.Errorf("%w: alias %q has no relation", ErrInvalidState, a.Name)
		}
		c.sql.WriteString(c.quote(r.name))
	case nil:
		return fmt.Errorf("%w: alias %q has no relation", ErrInvalidState, a.Name)
	default:
		if err := c.operand(r); err != nil {
			return err
		}
	}
	c.sql.WriteByte(' ')
	c.sql.WriteString(c.quote(a.Name))
	return nil
}

func (c *compiler) VisitAttribute(a *Attribute) error {
	switch r := a.Relation.(type) {
	case nil:
	case *Table:
		if alias, ok := r.TableAlias(); ok {
			c.sql.WriteString(c.quote(alias))
		} else {
			c.sql.WriteString(c.quote(r.name))
		}
		c.sql.WriteByte('.')
	case *TableAlias:
		c.sql.WriteString(c.quote(r.Name))
		c.sql.WriteByte('.')
	default:
		return fmt.Errorf("%w: attribute %q belongs to %T, not a relation", ErrInvalidArgument, a.Name, r)
	}
	c.sql.WriteString(c.quote(a.Name))
	return nil
}

func (c *compiler) VisitSQLLiteral(l SQLLiteral) error {
	c.sql.WriteString(string(l))
	return nil
}

func (c *compiler) VisitCasted(n *Casted) error {
	value := n.Value
	if n.Attribute != nil && value != nil {
		if caster := casterFor(n.Attribute.Relation); caster != nil {
			cast, err := caster.TypeCastForDatabase(n.Attribute.Name, value)
			if err != nil {
				if errors.Is(err, ErrTypeMismatch) {
					return err
				}
				return fmt.Errorf("%w: column %q: %w", ErrTypeMismatch, n.Attribute.Name, err)
			}
			value = cast
		}
	}
	return c.literal(value)
}

func (c *compiler) VisitQuoted(n *Quoted) error {
	return c.literal(n.Value)
}

func (c *compiler) VisitComparison(n *Comparison) error {
	if !comparisonOperators[n.Op] {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidArgument, n.Op)
	}
	if err := Accept(c, n.Left); err != nil {
		return err
	}
	if isNil(n.Right) {
		switch n.Op {
		case OpEq:
			c.sql.WriteString(" IS NULL")
		case OpNotEq:
			c.sql.WriteString(" IS NOT NULL")
		default:
			return fmt.Errorf("%w: operator %s cannot compare against NULL", ErrInvalidArgument, n.Op)
		}
		return nil
	}
	c.sql.WriteByte(' ')
	c.sql.WriteString(string(n.Op))
	c.sql.WriteByte(' ')
	return c.operand(n.Right)
}

func (c *compiler) VisitIn(n *In) error {
	if len(n.Values) == 0 {
		if n.Negated {
			c.sql.WriteString("1=1")
		} else {
			c.sql.WriteString("1=0")
		}
		return nil
	}
	if err := Accept(c, n.Left); err != nil {
		return err
	}
	if n.Negated {
		c.sql.WriteString(" NOT IN (")
	} else {
		c.sql.WriteString(" IN (")
	}
	if err := c.list(n.Values, ", "); err != nil {
		return err
	}
	c.sql.WriteByte(')')
	return nil
}

func (c *compiler) VisitAnd(n *And) error {
	if len(n.Children) == 0 {
		return fmt.Errorf("%w: AND with no predicates", ErrInvalidArgument)
	}
	return c.list(n.Children, " AND ")
}

// VisitOr parenthesizes the disjunction so it keeps its precedence when
// conjoined with sibling predicates.
func (c *compiler) VisitOr(n *Or) error {
	c.sql.WriteByte('(')
	if err := Accept(c, n.Left); err != nil {
		return err
	}
	c.sql.WriteString(" OR ")
	if err := Accept(c, n.Right); err != nil {
		return err
	}
	c.sql.WriteByte(')')
	return nil
}

func (c *compiler) VisitNot(n *Not) error {
	c.sql.WriteString("NOT (")
	if err := Accept(c, n.Expr); err != nil {
		return err
	}
	c.sql.WriteByte(')')
	return nil
}

func (c *compiler) VisitGrouping(n *Grouping) error {
	c.sql.WriteByte('(')
	if err := Accept(c, n.Expr); err != nil {
		return err
	}
	c.sql.WriteByte(')')
	return nil
}

func (c *compiler) VisitOrdering(n *Ordering) error {
	if err := Accept(c, n.Expr); err != nil {
		return err
	}
	switch n.Direction {
	case "":
	case Ascending, Descending:
		c.sql.WriteByte(' ')
		c.sql.WriteString(string(n.Direction))
	default:
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, n.Direction)
	}
	return nil
}

func (c *compiler) VisitJoin(j *Join) error {
	var keyword string
	switch j.Kind {
	case StringJoin:
		return Accept(c, j.Left)
	case InnerJoin:
		keyword = "INNER JOIN"
	case OuterJoin:
		keyword = "LEFT OUTER JOIN"
	case FullOuterJoin:
		if !c.caps.FullOuterJoin {
			return c.unsupported("FULL OUTER JOIN")
		}
		keyword = "FULL OUTER JOIN"
	case RightOuterJoin:
		if !c.caps.RightOuterJoin {
			return c.unsupported("RIGHT OUTER JOIN", "swap the operands and use a LEFT OUTER JOIN")
		}
		keyword = "RIGHT OUTER JOIN"
	default:
		return fmt.Errorf("%w: unknown join kind %s", ErrInvalidArgument, j.Kind)
	}

	c.sql.WriteString(keyword)
	c.sql.WriteByte(' ')
	if err := c.operand(j.Right); err != nil {
		return err
	}
	if j.On != nil {
		c.sql.WriteByte(' ')
		return c.VisitOn(j.On)
	}
	return nil
}

func (c *compiler) VisitOn(n *On) error {
	c.sql.WriteString("ON ")
	return Accept(c, n.Expr)
}

func (c *compiler) VisitSelectCore(core *SelectCore) error {
	c.sql.WriteString("SELECT")
	if core.Distinct {
		c.sql.WriteString(" DISTINCT")
	}
	if len(core.Projections) > 0 {
		c.sql.WriteByte(' ')
		if err := c.list(core.Projections, ", "); err != nil {
			return err
		}
	}

	if !isNil(core.From) {
		c.sql.WriteString(" FROM ")
		if err := c.operand(core.From); err != nil {
			return err
		}
	}

	for _, j := range core.Joins {
		c.sql.WriteByte(' ')
		if err := c.VisitJoin(j); err != nil {
			return err
		}
	}

	// WHERE clause
	if len(core.Wheres) > 0 {
		c.sql.WriteString(" WHERE ")
		if err := c.list(core.Wheres, " AND "); err != nil {
			return err
		}
	}

	// GROUP BY clause
	if len(core.Groups) > 0 {
		c.sql.WriteString(" GROUP BY ")
		if err := c.list(core.Groups, ", "); err != nil {
			return err
		}
	}

	// HAVING clause
	if len(core.Havings) > 0 {
		c.sql.WriteString(" HAVING ")
		if err := c.list(core.Havings, " AND "); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) VisitSelectStatement(s *SelectStatement) error {
	if len(s.Cores) == 0 {
		return fmt.Errorf("%w: select statement has no cores", ErrInvalidState)
	}
	for i, core := range s.Cores {
		if i > 0 {
			c.sql.WriteByte(' ')
		}
		if err := c.VisitSelectCore(core); err != nil {
			return err
		}
	}

	// ORDER BY clause
	if len(s.Orders) > 0 {
		c.sql.WriteString(" ORDER BY ")
		if err := c.list(s.Orders, ", "); err != nil {
			return err
		}
	}

	if err := c.paginate(s); err != nil {
		return err
	}

	if s.Lock != nil {
		c.sql.WriteByte(' ')
		return c.VisitLock(s.Lock)
	}
	return nil
}

// paginate writes the offset and limit in the dialect's shape.
func (c *compiler) paginate(s *SelectStatement) error {
	if s.Offset == nil && s.Limit == nil {
		return nil
	}

	switch c.caps.Pagination {
	case render.PaginationOffsetFetch:
		if c.caps.FetchRequiresOrder && len(s.Orders) == 0 {
			return c.unsupported("OFFSET/FETCH without ORDER BY",
				"add an ORDER BY clause when using Skip or Take")
		}
		offset := 0
		if s.Offset != nil {
			offset = s.Offset.Count
		}
		c.sql.WriteString(" OFFSET ")
		c.sql.WriteString(strconv.Itoa(offset))
		c.sql.WriteString(" ROWS")
		if s.Limit != nil {
			c.sql.WriteString(" FETCH NEXT ")
			c.sql.WriteString(strconv.Itoa(s.Limit.Count))
			c.sql.WriteString(" ROWS ONLY")
		}

	case render.PaginationLimitOffset:
		if s.Limit != nil {
			c.sql.WriteByte(' ')
			if err := c.VisitLimit(s.Limit); err != nil {
				return err
			}
		} else if c.caps.UnboundedLimit != "" {
			c.sql.WriteString(" LIMIT ")
			c.sql.WriteString(c.caps.UnboundedLimit)
		}
		if s.Offset != nil {
			c.sql.WriteByte(' ')
			if err := c.VisitOffset(s.Offset); err != nil {
				return err
			}
		}

	default:
		if s.Offset != nil {
			c.sql.WriteByte(' ')
			if err := c.VisitOffset(s.Offset); err != nil {
				return err
			}
		}
		if s.Limit != nil {
			c.sql.WriteByte(' ')
			if err := c.VisitLimit(s.Limit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) VisitLimit(n *Limit) error {
	c.sql.WriteString("LIMIT ")
	c.sql.WriteString(strconv.Itoa(n.Count))
	return nil
}

func (c *compiler) VisitOffset(n *Offset) error {
	c.sql.WriteString("OFFSET ")
	c.sql.WriteString(strconv.Itoa(n.Count))
	return nil
}

func (c *compiler) VisitLock(n *Lock) error {
	mode := n.Mode
	if mode == "" {
		mode = ForUpdate
	}
	var level render.RowLockingLevel
	switch mode {
	case ForUpdate, ForShare:
		level = render.RowLockingBasic
	case ForNoKeyUpdate, ForKeyShare:
		level = render.RowLockingFull
	default:
		return fmt.Errorf("%w: unknown lock mode %q", ErrInvalidArgument, mode)
	}
	if !c.caps.SupportsLock(level) {
		return c.unsupported(string(mode))
	}
	c.sql.WriteString(string(mode))
	return nil
}

func (c *compiler) VisitInsertStatement(s *InsertStatement) error {
	if isNil(s.Relation) {
		return fmt.Errorf("%w: insert has no target relation", ErrInvalidState)
	}
	hasValues := !isNil(s.Values)
	hasSelect := s.Select != nil
	if hasValues && hasSelect {
		return fmt.Errorf("%w: insert has both values and a select", ErrInvalidState)
	}
	if !hasValues && !hasSelect {
		return fmt.Errorf("%w: insert has neither values nor a select", ErrInvalidState)
	}

	c.sql.WriteString("INSERT INTO ")
	switch r := s.Relation.(type) {
	case *Table:
		c.sql.WriteString(c.quote(r.name))
	case *TableAlias:
		t, ok := r.Relation.(*Table)
		if !ok || t == nil {
			return fmt.Errorf("%w: cannot insert into alias %q of %T", ErrInvalidArgument, r.Name, r.Relation)
		}
		c.sql.WriteString(c.quote(t.name))
	default:
		return fmt.Errorf("%w: cannot insert into %T", ErrInvalidArgument, r)
	}

	if len(s.Columns) > 0 {
		c.sql.WriteString(" (")
		for i, col := range s.Columns {
			if i > 0 {
				c.sql.WriteString(", ")
			}
			c.sql.WriteString(c.quote(col.Name))
		}
		c.sql.WriteByte(')')
		if v, ok := s.Values.(*Values); ok && len(v.Exprs) != len(s.Columns) {
			return fmt.Errorf("%w: %d values for %d columns", ErrInvalidArgument, len(v.Exprs), len(s.Columns))
		}
	}

	c.sql.WriteByte(' ')
	if hasSelect {
		return c.VisitSelectStatement(s.Select)
	}
	return Accept(c, s.Values)
}

func (c *compiler) VisitValues(v *Values) error {
	if len(v.Exprs) == 0 {
		return fmt.Errorf("%w: VALUES with no expressions", ErrInvalidArgument)
	}
	c.sql.WriteString("VALUES (")
	if err := c.list(v.Exprs, ", "); err != nil {
		return err
	}
	c.sql.WriteByte(')')
	return nil
}
