package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// seedRows is the number of synthetic rows per table. 22 exceeds the default
// page size of the generated get-many procedure, so seeded schemas exercise
// pagination out of the box.
const seedRows = 22

// statusVocab is the fixed vocabulary used for status-like text fields
// without a declared allowed-value set. Its size fixes the cycle length.
var statusVocab = []string{
	"NEW", "PENDING", "ACTIVE", "ON_HOLD", "APPROVED",
	"REJECTED", "SUSPENDED", "ARCHIVED", "CLOSED", "EXPIRED",
}

// firstNames is the cycle used for person-name-like text fields.
var firstNames = []string{
	"Alice", "Bruno", "Carla", "Dmitri", "Elena", "Farid",
	"Greta", "Hiro", "Ingrid", "Jonas", "Keiko",
}

// DataGenerator produces synthetic insert statements for a table. Primary
// keys take the row index, foreign keys cycle over the referenced table's
// own synthetic keys, allowed-value fields cycle their declared list, and
// everything else is shaped by type category and a small set of
// name-pattern heuristics. Live-default and triggered columns are omitted
// entirely since the database populates them itself.
type DataGenerator struct{}

// SectionName returns the section header label.
func (g *DataGenerator) SectionName() string { return "SEED DATA" }

// SectionDescription returns the one-line header description.
func (g *DataGenerator) SectionDescription() string {
	return "Synthetic rows for development and pagination testing"
}

// Generate renders the insert statements for t, or "not applicable" when the
// table has no primary key to address rows by.
func (g *DataGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	if !t.HasPrimaryKey() {
		return nil, nil
	}

	var cols []*schema.Field
	for _, f := range t.Fields {
		if f.HasTrigger() {
			continue
		}
		if f.HasDefault() && schema.IsLiveDefault(f.Default) {
			continue
		}
		cols = append(cols, f)
	}
	names := make([]string, len(cols))
	for i, f := range cols {
		names[i] = ident(f.Name)
	}

	var b strings.Builder
	for row := 1; row <= seedRows; row++ {
		values := make([]string, len(cols))
		for i, f := range cols {
			values[i] = seedValue(f, row)
		}
		fmt.Fprintf(&b, "INSERT INTO %s (%s)\nVALUES (%s);\n",
			ident(t.Name), strings.Join(names, ", "), strings.Join(values, ", "))
	}
	b.WriteString("\nCOMMIT;\n")

	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        b.String(),
	}, nil
}

// seedValue synthesizes the literal for one field of one row.
func seedValue(f *schema.Field, row int) string {
	switch {
	case f.PrimaryKey:
		return fmt.Sprintf("%d", row)
	case f.IsForeignKey:
		// Lands on a key the referenced table's own seed script emits.
		return fmt.Sprintf("%d", ((row-1)%seedRows)+1)
	case f.HasAllowedValues():
		return checkLiteral(f.AllowedValues[(row-1)%len(f.AllowedValues)])
	}

	switch typeCategoryOf(f.Type) {
	case categoryNumber:
		return numberValue(f, row)
	case categoryDate:
		return fmt.Sprintf("TO_DATE('2024-01-01', 'YYYY-MM-DD') + %d", row)
	case categoryBoolean:
		return fmt.Sprintf("%d", row%2)
	}
	return textValue(f, row)
}

// numberValue shapes numeric seed values by field-name hints.
func numberValue(f *schema.Field, row int) string {
	name := strings.ToLower(f.Name)
	switch {
	case strings.Contains(name, "price") || strings.Contains(name, "amount") || strings.Contains(name, "total"):
		return fmt.Sprintf("%d.99", row*25)
	case strings.Contains(name, "quantity") || strings.Contains(name, "count"):
		return fmt.Sprintf("%d", row)
	case strings.Contains(name, "age"):
		return fmt.Sprintf("%d", 20+row)
	case strings.Contains(name, "year"):
		return fmt.Sprintf("%d", 2000+row)
	}
	return fmt.Sprintf("%d", row*10)
}

// textValue shapes text seed values by field-name hints, trimmed to the
// declared column size when the type carries one.
func textValue(f *schema.Field, row int) string {
	name := strings.ToLower(f.Name)
	var v string
	switch {
	case strings.Contains(name, "email"):
		v = fmt.Sprintf("user%d@example.com", row)
	case strings.Contains(name, "phone"):
		v = fmt.Sprintf("+1-555-01%02d", row)
	case strings.Contains(name, "status") || strings.Contains(name, "state"):
		v = statusVocab[(row-1)%len(statusVocab)]
	case strings.Contains(name, "name"):
		v = firstNames[(row-1)%len(firstNames)]
	case strings.Contains(name, "url") || strings.Contains(name, "link"):
		v = fmt.Sprintf("https://example.com/item/%d", row)
	case strings.Contains(name, "code"):
		v = fmt.Sprintf("CODE-%03d", row)
	case strings.Contains(name, "city"):
		v = fmt.Sprintf("City %d", row)
	case strings.Contains(name, "country"):
		v = "US"
	case strings.Contains(name, "description") || strings.Contains(name, "comment") || strings.Contains(name, "note"):
		v = fmt.Sprintf("Sample %s for row %d", ident(f.Name), row)
	default:
		v = fmt.Sprintf("%s %d", ident(f.Name), row)
	}
	if size := typeSize(f.Type); size > 0 && len(v) > size {
		v = v[:size]
	}
	return quoteString(v)
}
