package arel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b are structurally identical trees. Tables
// compare by name and explicit alias; casters and alias caches are not
// part of a table's identity.
func Equal(a, b Node) bool {
	ka, errA := structuralKey(a)
	kb, errB := structuralKey(b)
	if errA != nil || errB != nil {
		return false
	}
	return ka == kb
}

// Hash returns a structural hash of n, consistent with Equal.
func Hash(n Node) (uint64, error) {
	key, err := structuralKey(n)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64String(key), nil
}

func structuralKey(n Node) (string, error) {
	if isNil(n) {
		return "nil", nil
	}
	k := &keyWriter{}
	if err := Accept(k, n); err != nil {
		return "", err
	}
	return k.b.String(), nil
}

// keyWriter serializes a tree to a canonical, type-tagged string.
type keyWriter struct {
	b strings.Builder
}

var _ Visitor = (*keyWriter)(nil)

func (k *keyWriter) open(tag string) { k.b.WriteString(tag); k.b.WriteByte('(') }
func (k *keyWriter) close()          { k.b.WriteByte(')') }

func (k *keyWriter) str(s string) {
	k.b.WriteString(strconv.Quote(s))
	k.b.WriteByte(' ')
}

func (k *keyWriter) node(n Node) error {
	if isNil(n) {
		k.b.WriteString("nil ")
		return nil
	}
	if err := Accept(k, n); err != nil {
		return err
	}
	k.b.WriteByte(' ')
	return nil
}

func (k *keyWriter) nodes(ns []Node) error {
	k.open("list")
	for _, n := range ns {
		if err := k.node(n); err != nil {
			return err
		}
	}
	k.close()
	k.b.WriteByte(' ')
	return nil
}

func (k *keyWriter) attributes(as []*Attribute) error {
	k.open("cols")
	for _, a := range as {
		if err := k.node(a); err != nil {
			return err
		}
	}
	k.close()
	k.b.WriteByte(' ')
	return nil
}

func (k *keyWriter) VisitTable(t *Table) error {
	k.open("table")
	k.str(t.name)
	k.str(t.alias)
	k.close()
	return nil
}

func (k *keyWriter) VisitTableAlias(a *TableAlias) error {
	k.open("alias")
	k.str(a.Name)
	if err := k.node(a.Relation); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitAttribute(a *Attribute) error {
	k.open("attr")
	k.str(a.Name)
	if err := k.node(a.Relation); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitSQLLiteral(l SQLLiteral) error {
	k.open("lit")
	k.str(string(l))
	k.close()
	return nil
}

func (k *keyWriter) VisitCasted(c *Casted) error {
	k.open("casted")
	k.str(fmt.Sprintf("%T:%v", c.Value, c.Value))
	if c.Attribute != nil {
		if err := k.node(c.Attribute); err != nil {
			return err
		}
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitQuoted(q *Quoted) error {
	k.open("quoted")
	k.str(fmt.Sprintf("%T:%v", q.Value, q.Value))
	k.close()
	return nil
}

func (k *keyWriter) VisitComparison(c *Comparison) error {
	k.open("cmp")
	k.str(string(c.Op))
	if err := k.node(c.Left); err != nil {
		return err
	}
	if err := k.node(c.Right); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitIn(n *In) error {
	k.open("in")
	k.str(strconv.FormatBool(n.Negated))
	if err := k.node(n.Left); err != nil {
		return err
	}
	if err := k.nodes(n.Values); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitAnd(n *And) error {
	k.open("and")
	if err := k.nodes(n.Children); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitOr(n *Or) error {
	k.open("or")
	if err := k.node(n.Left); err != nil {
		return err
	}
	if err := k.node(n.Right); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitNot(n *Not) error {
	k.open("not")
	if err := k.node(n.Expr); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitGrouping(n *Grouping) error {
	k.open("group")
	if err := k.node(n.Expr); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitOrdering(n *Ordering) error {
	k.open("order")
	k.str(string(n.Direction))
	if err := k.node(n.Expr); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitJoin(j *Join) error {
	k.open("join")
	k.str(j.Kind.String())
	if err := k.node(j.Left); err != nil {
		return err
	}
	if err := k.node(j.Right); err != nil {
		return err
	}
	if j.On != nil {
		if err := k.node(j.On); err != nil {
			return err
		}
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitOn(n *On) error {
	k.open("on")
	if err := k.node(n.Expr); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitSelectCore(c *SelectCore) error {
	k.open("core")
	k.str(strconv.FormatBool(c.Distinct))
	if err := k.node(c.From); err != nil {
		return err
	}
	joins := make([]Node, len(c.Joins))
	for i, j := range c.Joins {
		joins[i] = j
	}
	for _, list := range [][]Node{c.Projections, joins, c.Wheres, c.Groups, c.Havings} {
		if err := k.nodes(list); err != nil {
			return err
		}
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitSelectStatement(s *SelectStatement) error {
	k.open("select")
	cores := make([]Node, len(s.Cores))
	for i, c := range s.Cores {
		cores[i] = c
	}
	if err := k.nodes(cores); err != nil {
		return err
	}
	if err := k.nodes(s.Orders); err != nil {
		return err
	}
	for _, n := range []Node{s.Offset, s.Limit, s.Lock} {
		if err := k.node(n); err != nil {
			return err
		}
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitLimit(n *Limit) error {
	k.open("limit")
	k.str(strconv.Itoa(n.Count))
	k.close()
	return nil
}

func (k *keyWriter) VisitOffset(n *Offset) error {
	k.open("offset")
	k.str(strconv.Itoa(n.Count))
	k.close()
	return nil
}

func (k *keyWriter) VisitLock(n *Lock) error {
	k.open("lock")
	k.str(string(n.Mode))
	k.close()
	return nil
}

func (k *keyWriter) VisitInsertStatement(s *InsertStatement) error {
	k.open("insert")
	if err := k.node(s.Relation); err != nil {
		return err
	}
	if err := k.attributes(s.Columns); err != nil {
		return err
	}
	if err := k.node(s.Values); err != nil {
		return err
	}
	var sel Node
	if s.Select != nil {
		sel = s.Select
	}
	if err := k.node(sel); err != nil {
		return err
	}
	k.close()
	return nil
}

func (k *keyWriter) VisitValues(v *Values) error {
	k.open("values")
	if err := k.nodes(v.Exprs); err != nil {
		return err
	}
	if err := k.attributes(v.Columns); err != nil {
		return err
	}
	k.close()
	return nil
}
