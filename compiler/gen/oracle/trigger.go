package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// eventCodes are the timing/operation abbreviations encoded in trigger names.
var eventCodes = map[schema.TriggerEvent]string{
	schema.BeforeInsert:       "bi",
	schema.BeforeUpdate:       "bu",
	schema.BeforeInsertUpdate: "biu",
	schema.AfterInsert:        "ai",
	schema.AfterUpdate:        "au",
	schema.AfterInsertUpdate:  "aiu",
}

// TriggerGenerator emits row triggers for fields with enabled triggers.
// Fields are grouped by (event, condition) so a table emits one trigger per
// distinct group rather than one per field, which keeps the trigger count
// minimal and the firing order unambiguous.
type TriggerGenerator struct{}

// SectionName returns the section header label.
func (g *TriggerGenerator) SectionName() string { return "TRIGGERS" }

// SectionDescription returns the one-line header description.
func (g *TriggerGenerator) SectionDescription() string {
	return "Automatic field assignments"
}

// triggerGroup collects the fields sharing one (event, condition) pair,
// preserving field declaration order.
type triggerGroup struct {
	event     schema.TriggerEvent
	condition string
	fields    []*schema.Field
}

// Generate renders one CREATE OR REPLACE TRIGGER per group.
func (g *TriggerGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	var groups []*triggerGroup
	index := make(map[string]*triggerGroup)
	for _, f := range t.Fields {
		if !f.HasTrigger() {
			continue
		}
		key := string(f.Trigger.Event) + "\x00" + f.Trigger.Condition
		grp, ok := index[key]
		if !ok {
			grp = &triggerGroup{event: f.Trigger.Event, condition: f.Trigger.Condition}
			index[key] = grp
			groups = append(groups, grp)
		}
		grp.fields = append(grp.fields, f)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	var stmts []string
	for _, grp := range groups {
		stmts = append(stmts, g.render(t, grp))
	}
	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        strings.Join(stmts, "\n"),
	}, nil
}

// render emits one trigger. The name encodes the timing/operation code and,
// when a condition is present, a short stable suffix derived from it so two
// groups on the same event never collide.
func (g *TriggerGenerator) render(t *schema.Table, grp *triggerGroup) string {
	code := eventCodes[grp.event]
	qualifier := code
	if grp.condition != "" {
		qualifier = code + "_" + condSuffix(grp.condition)
	}
	name := synthName(t.Name, qualifier, "trg")

	timing := "BEFORE"
	if !grp.event.Before() {
		timing = "AFTER"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE TRIGGER %s\n", name)
	fmt.Fprintf(&b, "%s %s ON %s\n", timing, strings.Join(grp.event.Operations(), " OR "), ident(t.Name))
	b.WriteString("FOR EACH ROW\n")
	if grp.condition != "" {
		fmt.Fprintf(&b, "WHEN (%s)\n", grp.condition)
	}
	b.WriteString("BEGIN\n")
	for _, f := range grp.fields {
		fmt.Fprintf(&b, "    :NEW.%s := %s;\n", ident(f.Name), actionExpr(f.Trigger.Action))
	}
	b.WriteString("END;\n/\n")
	return b.String()
}
