package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/schema"
)

// visit marks used by the depth-first resolution.
const (
	unvisited = iota
	inProgress
	done
)

// Graph holds the schema together with its resolved creation order. Nodes is
// a permutation of the schema's tables in which every table referenced by a
// foreign key appears at or before the tables referencing it, as far as the
// dependency edges allow. Cyclic edges are broken at the first re-visited
// table and reported as diagnostics, never as errors.
type Graph struct {
	Schema *schema.Schema
	// Nodes is the resolved creation order.
	Nodes []*schema.Table

	order       map[string]int
	explanation string
	diags       []Diagnostic
}

// NewGraph validates the schema and resolves the table creation order.
// A nil or empty schema is the one fatal input here.
func NewGraph(sc *schema.Schema) (*Graph, error) {
	if sc == nil || len(sc.Tables) == 0 {
		return nil, ErrEmptySchema
	}
	if err := sc.Validate(); err != nil {
		return nil, NewSchemaError("", "", "definition rejected", err)
	}
	g := &Graph{
		Schema: sc,
		order:  make(map[string]int, len(sc.Tables)),
	}
	g.resolve()
	return g, nil
}

// resolve runs a depth-first topological sort over the ReferencingTo edges.
// Tables are visited in input order and ties keep input order, so the same
// input always yields the same output.
func (g *Graph) resolve() {
	marks := make(map[string]int, len(g.Schema.Tables))
	var explain []string

	var visit func(t *schema.Table, via string)
	visit = func(t *schema.Table, via string) {
		switch marks[t.Name] {
		case done:
			return
		case inProgress:
			g.diags = append(g.diags, warnf(t.Name, "",
				"cyclic dependency detected via %s; breaking the cycle at %s", via, t.Name))
			return
		}
		marks[t.Name] = inProgress
		var deps []string
		for _, ref := range t.ReferencingTo {
			if ref == t.Name {
				// Self-references never affect creation order.
				continue
			}
			dep := g.Schema.Table(ref)
			if dep == nil {
				g.diags = append(g.diags, warnf(t.Name, "",
					"references unknown table %q; edge ignored", ref))
				continue
			}
			visit(dep, t.Name)
			deps = append(deps, ref)
		}
		marks[t.Name] = done
		g.Nodes = append(g.Nodes, t)
		g.order[t.Name] = len(g.Nodes)
		if len(deps) == 0 {
			explain = append(explain, fmt.Sprintf("%3d. %s (no dependencies)", len(g.Nodes), t.Name))
		} else {
			explain = append(explain, fmt.Sprintf("%3d. %s (after %s)", len(g.Nodes), t.Name, strings.Join(deps, ", ")))
		}
	}

	for _, t := range g.Schema.Tables {
		visit(t, "")
	}
	g.explanation = strings.Join(explain, "\n")
}

// Order returns the 1-based position of the named table in the resolved
// sequence, or 0 for an unknown table.
func (g *Graph) Order(table string) int {
	return g.order[table]
}

// Explanation returns a human-readable description of the chosen order,
// intended for operator visibility only.
func (g *Graph) Explanation() string {
	return g.explanation
}

// Diagnostics returns the findings recorded during resolution.
func (g *Graph) Diagnostics() []Diagnostic {
	return g.diags
}
