package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// CommentGenerator emits one COMMENT ON COLUMN statement per field carrying
// documentation text. Tables without any commented field contribute nothing.
type CommentGenerator struct{}

// SectionName returns the section header label.
func (g *CommentGenerator) SectionName() string { return "COMMENTS" }

// SectionDescription returns the one-line header description.
func (g *CommentGenerator) SectionDescription() string {
	return "Column documentation"
}

// Generate renders the comment statements for t, or nothing when no field
// has a comment.
func (g *CommentGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	var stmts []string
	for _, f := range t.Fields {
		if strings.TrimSpace(f.Comment) == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s;",
			ident(t.Name), ident(f.Name), quoteString(f.Comment)))
	}
	if len(stmts) == 0 {
		return nil, nil
	}
	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        strings.Join(stmts, "\n") + "\n",
	}, nil
}
