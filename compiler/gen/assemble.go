package gen

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/sqlforge/schema"
)

const (
	banner        = "-- ============================================================"
	sectionMarker = "-- >>> "
)

var titleCaser = cases.Title(language.English)

// Assembler sequences a header banner, the non-empty section bodies and a
// footer banner into one complete script. It is a pure function of the
// config and its inputs; one instance serves all tables of a run.
type Assembler struct {
	cfg     *Config
	dialect string
}

// NewAssembler returns an assembler stamping the given dialect name and the
// run metadata from cfg into every header.
func NewAssembler(cfg *Config, dialect string) *Assembler {
	return &Assembler{cfg: cfg, dialect: dialect}
}

// Assemble renders the complete script for one table from its sections.
// Sections must already be filtered to the applicable (non-nil) ones.
func (a *Assembler) Assemble(t *schema.Table, sections []*Section) string {
	var b strings.Builder
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = titleCaser.String(strings.ToLower(s.Name))
	}

	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "-- Table:      %s\n", strings.ToUpper(t.Name))
	fmt.Fprintf(&b, "-- Dialect:    %s\n", a.dialect)
	fmt.Fprintf(&b, "-- Generated:  %s\n", a.cfg.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "-- Run:        %s\n", a.cfg.RunID)
	fmt.Fprintf(&b, "-- Author:     %s\n", a.cfg.Author)
	fmt.Fprintf(&b, "-- License:    %s\n", a.cfg.License)
	fmt.Fprintf(&b, "-- Sections:   %s\n", strings.Join(names, ", "))
	b.WriteString(banner + "\n")

	for _, s := range sections {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s%s: %s\n", sectionMarker, s.Name, s.Description)
		b.WriteString(strings.TrimRight(s.Body, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n" + banner + "\n")
	fmt.Fprintf(&b, "-- End of script for %s\n", strings.ToUpper(t.Name))
	b.WriteString(banner + "\n")
	return b.String()
}

// Verify runs the structural self-check over an assembled script. Violations
// are reported as warnings and never abort generation: the script is still
// returned to the caller as-is.
func (a *Assembler) Verify(table, artifact, content string, sections int) []Diagnostic {
	var diags []Diagnostic
	if strings.Count(content, banner) < 4 {
		diags = append(diags, warnf(table, artifact, "missing header or footer banner"))
	}
	if sections >= 2 && strings.Count(content, sectionMarker) < 2 {
		diags = append(diags, warnf(table, artifact, "expected at least two section markers, found %d",
			strings.Count(content, sectionMarker)))
	}
	if strings.Contains(content, "CREATE TABLE") && !hasIndentation(content) {
		diags = append(diags, warnf(table, artifact, "table-creation statement carries no indented lines"))
	}
	return diags
}

// hasIndentation reports if any line in the script starts with whitespace.
func hasIndentation(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			return true
		}
	}
	return false
}
