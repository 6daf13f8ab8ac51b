package arel_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/zoobzio/arel"
)

// tableCollector records every base table a tree references.
type tableCollector struct {
	seen map[string]int
}

func (c *tableCollector) walk(nodes ...arel.Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := arel.Accept(c, n); err != nil {
			return err
		}
	}
	return nil
}

func (c *tableCollector) VisitTable(t *arel.Table) error {
	c.seen[t.Name()]++
	return nil
}
func (c *tableCollector) VisitTableAlias(a *arel.TableAlias) error { return c.walk(a.Relation) }
func (c *tableCollector) VisitAttribute(*arel.Attribute) error { return nil }
func (c *tableCollector) VisitSQLLiteral(arel.SQLLiteral) error { return nil }
func (c *tableCollector) VisitCasted(*arel.Casted) error { return nil }
func (c *tableCollector) VisitQuoted(*arel.Quoted) error { return nil }
func (c *tableCollector) VisitComparison(n *arel.Comparison) error {
	return c.walk(n.Left, n.Right)
}
func (c *tableCollector) VisitIn(n *arel.In) error {
	if err := c.walk(n.Left); err != nil {
		return err
	}
	return c.walk(n.Values...)
}
func (c *tableCollector) VisitAnd(n *arel.And) error { return c.walk(n.Children...) }
func (c *tableCollector) VisitOr(n *arel.Or) error { return c.walk(n.Left, n.Right) }
func (c *tableCollector) VisitNot(n *arel.Not) error { return c.walk(n.Expr) }
func (c *tableCollector) VisitGrouping(n *arel.Grouping) error { return c.walk(n.Expr) }
func (c *tableCollector) VisitOrdering(n *arel.Ordering) error { return c.walk(n.Expr) }
func (c *tableCollector) VisitJoin(n *arel.Join) error {
	if err := c.walk(n.Right); err != nil {
		return err
	}
	if n.On != nil {
		return c.walk(n.On)
	}
	return nil
}
func (c *tableCollector) VisitOn(n *arel.On) error { return c.walk(n.Expr) }
func (c *tableCollector) VisitSelectCore(n *arel.SelectCore) error {
	if err := c.walk(n.From); err != nil {
		return err
	}
	for _, j := range n.Joins {
		if err := c.walk(j); err != nil {
			return err
		}
	}
	return c.walk(n.Wheres...)
}
func (c *tableCollector) VisitSelectStatement(n *arel.SelectStatement) error {
	for _, core := range n.Cores {
		if err := c.walk(core); err != nil {
			return err
		}
	}
	return nil
}
func (c *tableCollector) VisitLimit(*arel.Limit) error { return nil }
func (c *tableCollector) VisitOffset(*arel.Offset) error { return nil }
func (c *tableCollector) VisitLock(*arel.Lock) error { return nil }
func (c *tableCollector) VisitInsertStatement(n *arel.InsertStatement) error {
	if err := c.walk(n.Relation); err != nil {
		return err
	}
	if n.Select != nil {
		return c.walk(n.Select)
	}
	return nil
}
func (c *tableCollector) VisitValues(*arel.Values) error { return nil }

func (c *tableCollector) names() []string {
	out := make([]string, 0, len(c.seen))
	for name := range c.seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func TestAccept_CustomVisitor(t *testing.T) {
	users := arel.NewTable("users")
	posts := arel.NewTable("posts")
	tags := arel.NewTable("tags")

	sub := tags.Project(tags.Get("post_id")).Where(tags.Get("name").Eq("go"))
	m := users.Project(users.Get("id")).
		Join(posts.Alias()).On(users.Get("id").Eq(posts.Get("user_id"))).
		Where(posts.Get("id").In(sub))

	c := &tableCollector{seen: map[string]int{}}
	if err := arel.Accept(c, m.AST()); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	got := c.names()
	want := []string{"posts", "tags", "users"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}

func TestAccept_NilNode(t *testing.T) {
	c := &tableCollector{seen: map[string]int{}}
	if err := arel.Accept(c, nil); !errors.Is(err, arel.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if err := arel.Accept(c, (*arel.Table)(nil)); !errors.Is(err, arel.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for typed nil, got %v", err)
	}
}
