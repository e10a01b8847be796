package oracle

import (
	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/schema"
)

// Dialect is the Oracle generator set. Generators that need cross-table
// lookups (constraint targets, join projections) share the read-only schema
// fixed at construction, so the whole set is safe to run concurrently.
type Dialect struct {
	table       *TableGenerator
	constraints *ConstraintGenerator
	triggers    *TriggerGenerator
	comments    *CommentGenerator
	view        *ViewGenerator
	data        *DataGenerator
	pkg         *PackageGenerator
}

// New builds the generator set over the given schema.
func New(sc *schema.Schema) *Dialect {
	return &Dialect{
		table:       &TableGenerator{},
		constraints: &ConstraintGenerator{schema: sc},
		triggers:    &TriggerGenerator{},
		comments:    &CommentGenerator{},
		view:        &ViewGenerator{},
		data:        &DataGenerator{},
		pkg:         &PackageGenerator{schema: sc},
	}
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return dialect.Oracle }

// TableGenerators returns the sections of the combined table script, in
// emission order.
func (d *Dialect) TableGenerators() []gen.SectionGenerator {
	return []gen.SectionGenerator{d.table, d.constraints, d.triggers, d.comments}
}

// ViewGenerator returns the read-view generator.
func (d *Dialect) ViewGenerator() gen.SectionGenerator { return d.view }

// DataGenerator returns the seed-data generator.
func (d *Dialect) DataGenerator() gen.SectionGenerator { return d.data }

// PackageGenerator returns the CRUD package generator.
func (d *Dialect) PackageGenerator() gen.SectionGenerator { return d.pkg }

// Ident renders a schema name as the Oracle object identifier, so file names
// match the CREATE statements they contain.
func (d *Dialect) Ident(name string) string { return ident(name) }

// Compile-time checks that every generator satisfies the shared capability.
var (
	_ gen.Dialect          = (*Dialect)(nil)
	_ gen.SectionGenerator = (*TableGenerator)(nil)
	_ gen.SectionGenerator = (*ConstraintGenerator)(nil)
	_ gen.SectionGenerator = (*TriggerGenerator)(nil)
	_ gen.SectionGenerator = (*CommentGenerator)(nil)
	_ gen.SectionGenerator = (*ViewGenerator)(nil)
	_ gen.SectionGenerator = (*DataGenerator)(nil)
	_ gen.SectionGenerator = (*PackageGenerator)(nil)
)
