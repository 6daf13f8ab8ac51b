// Package querydoc loads YAML query documents and builds them into arel
// statements.
//
// A document holds exactly one statement:
//
//	tables:            # optional; enables schema-driven casting
//	  users: {id: bigint, active: boolean}
//	select:
//	  from: users
//	  alias: u
//	  project: [u.id, "COUNT(*)"]
//	  joins:
//	    - {table: posts, alias: p, kind: left, on: [{left: u.id, op: "=", right: p.user_id}]}
//	  where:
//	    - {left: u.active, op: "=", value: true}
//	  order: [u.id desc]
//	  limit: 10
package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned for documents that parse but cannot be built.
var ErrInvalidDocument = errors.New("invalid query document")

// Document is the root of a query file.
type Document struct {
	Tables map[string]map[string]string `yaml:"tables"`
	Select *Select                       `yaml:"select"`
	Insert *Insert                       `yaml:"insert"`
}

// Select describes a SELECT statement.
type Select struct {
	From     string      `yaml:"from"`
	Alias    string      `yaml:"alias"`
	Distinct bool        `yaml:"distinct"`
	Project  []string    `yaml:"project"`
	Joins    []Join      `yaml:"joins"`
	Where    []Condition `yaml:"where"`
	Group    []string    `yaml:"group"`
	Having   []Condition `yaml:"having"`
	Order    []string    `yaml:"order"`
	Offset   *int        `yaml:"offset"`
	Limit    *int        `yaml:"limit"`
	Lock     string      `yaml:"lock"`
}

// Join describes one join. Raw joins carry a literal fragment instead of a
// table.
type Join struct {
	Table string      `yaml:"table"`
	Alias string      `yaml:"alias"`
	Kind  string      `yaml:"kind"`
	On    []Condition `yaml:"on"`
	Raw   string      `yaml:"raw"`
}

// Condition is a predicate. Exactly one form is used: Raw, Any (an OR
// group), or Left/Op with one of Right, Values, or Value. A comparison with
// neither Right nor Values compares against Value, where a missing value
// means NULL.
type Condition struct {
	Raw    string      `yaml:"raw"`
	Any    []Condition `yaml:"any"`
	Left   string      `yaml:"left"`
	Op     string      `yaml:"op"`
	Right  string      `yaml:"right"`
	Value  any         `yaml:"value"`
	Values []any       `yaml:"values"`
}

// Insert describes an INSERT statement.
type Insert struct {
	Into    string   `yaml:"into"`
	Columns []string `yaml:"columns"`
	Values  []any    `yaml:"values"`
	Raw     string   `yaml:"raw"`
	Select  *Select  `yaml:"select"`
}

// Parse decodes a document, rejecting unknown keys.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("parsing query document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query document: %w", err)
	}
	return Parse(data)
}

// IsQuery reports whether the document returns rows.
func (d *Document) IsQuery() bool {
	return d.Select != nil
}

func (d *Document) validate() error {
	switch {
	case d.Select == nil && d.Insert == nil:
		return fmt.Errorf("%w: expected a select or insert section", ErrInvalidDocument)
	case d.Select != nil && d.Insert != nil:
		return fmt.Errorf("%w: select and insert are mutually exclusive", ErrInvalidDocument)
	}
	return nil
}
