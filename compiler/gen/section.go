package gen

import (
	"fmt"

	"github.com/syssam/sqlforge/schema"
)

// Section is one named chunk of generated script text, produced by a single
// section generator for a single table.
type Section struct {
	// Name is the section header label, e.g. "TABLE DEFINITION".
	Name string
	// Description is the one-line explanation stamped next to the label.
	Description string
	// Body is the generated script text, without the section header.
	Body string
	// Warnings are non-fatal findings raised while producing the section,
	// e.g. a foreign-key constraint skipped for an unresolvable reference.
	// The pipeline records them as diagnostics.
	Warnings []string
}

// SectionGenerator is the single capability every generator shares. Generate
// returns (nil, nil) when the section contributes nothing for the table; that
// is an expected outcome, not an error. Generators are stateless with respect
// to the schema and safe for concurrent use across tables.
type SectionGenerator interface {
	SectionName() string
	SectionDescription() string
	Generate(t *schema.Table) (*Section, error)
}

// Dialect is the generator set for one target syntax family. The pipeline
// holds one and never needs to know the concrete section kinds behind it.
type Dialect interface {
	// Name returns the dialect name, e.g. "oracle".
	Name() string
	// TableGenerators returns the generators whose sections combine into the
	// per-table creation script, in emission order.
	TableGenerators() []SectionGenerator
	// ViewGenerator produces the read-oriented view script.
	ViewGenerator() SectionGenerator
	// DataGenerator produces the synthetic seed-data script.
	DataGenerator() SectionGenerator
	// PackageGenerator produces the CRUD access-code package script.
	PackageGenerator() SectionGenerator
	// Ident renders a schema name as the dialect's object identifier. File
	// names go through it so they match the object names inside the scripts.
	Ident(name string) string
}

// Category groups artifacts by the kind of script they hold. The persistence
// layer maps each category to a directory.
type Category string

// Artifact categories.
const (
	CategoryTables   Category = "tables"
	CategoryViews    Category = "views"
	CategoryData     Category = "data"
	CategoryPackages Category = "packages"
)

// Artifact is one complete generated script, tagged with everything the
// persistence layer needs to name and place the file without re-deriving
// the resolved order.
type Artifact struct {
	Category    Category
	SubCategory string
	FileName    string
	// Order is the table's 1-based position in the resolved sequence.
	Order   int
	Content string
}

// fileName builds the creation-ordered file name for an artifact, e.g.
// "001_customers.sql". The numeric prefix encodes the resolved order so
// scripts run safely when executed alphabetically.
func fileName(order int, table, suffix string) string {
	if suffix != "" {
		return fmt.Sprintf("%03d_%s_%s.sql", order, table, suffix)
	}
	return fmt.Sprintf("%03d_%s.sql", order, table)
}
