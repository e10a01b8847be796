package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// Pagination bounds baked into every generated get-many procedure.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PackageGenerator emits the two-part CRUD access package (specification and
// body) for a table: create, update, delete, get-one and a paginated,
// searchable get-many. Tables without a primary key have no addressable row
// and produce no package.
type PackageGenerator struct {
	schema *schema.Schema
}

// SectionName returns the section header label.
func (g *PackageGenerator) SectionName() string { return "CRUD PACKAGE" }

// SectionDescription returns the one-line header description.
func (g *PackageGenerator) SectionDescription() string {
	return "Create, read, update and delete procedures"
}

// fkJoin is one resolvable foreign-key reference of the table, with the
// display columns the get-one projection pulls in through the join. Display
// columns come from the referenced table's own field list, never from an
// external allow-list.
type fkJoin struct {
	field   *schema.Field
	ref     *schema.Table
	refCol  *schema.Field
	alias   string
	display []*schema.Field
}

// Generate renders the package specification and body for t, or "not
// applicable" when the table has no primary key.
func (g *PackageGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	pk := t.PKField()
	if pk == nil {
		return nil, nil
	}

	var warnings []string
	joins := g.resolveJoins(t, &warnings)

	var b strings.Builder
	g.renderSpec(&b, t, pk)
	b.WriteString("\n")
	g.renderBody(&b, t, pk, joins)

	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        b.String(),
		Warnings:    warnings,
	}, nil
}

// resolveJoins collects the table's resolvable foreign keys and their
// schema-derived display columns.
func (g *PackageGenerator) resolveJoins(t *schema.Table, warnings *[]string) []fkJoin {
	var joins []fkJoin
	for _, f := range t.ForeignKeys() {
		if f.ForeignKey == nil || f.ForeignKey.ReferencedTable == "" {
			continue
		}
		ref := g.schema.Table(f.ForeignKey.ReferencedTable)
		if ref == nil {
			*warnings = append(*warnings, fmt.Sprintf(
				"get-one join for %s.%s skipped: referenced table %q does not exist",
				t.Name, f.Name, f.ForeignKey.ReferencedTable))
			continue
		}
		refCol := ref.Field(f.ForeignKey.ReferencedColumn)
		if refCol == nil {
			*warnings = append(*warnings, fmt.Sprintf(
				"get-one join for %s.%s skipped: referenced column %q does not exist on %q",
				t.Name, f.Name, f.ForeignKey.ReferencedColumn, ref.Name))
			continue
		}
		joins = append(joins, fkJoin{
			field:   f,
			ref:     ref,
			refCol:  refCol,
			alias:   fmt.Sprintf("r%d", len(joins)+1),
			display: ref.DisplayFields(),
		})
	}
	return joins
}

// procNames derives the procedure names for a table. When the table name is
// already singular, the list procedure gets a _list suffix so the two read
// procedures never collide.
func procNames(t *schema.Table) (create, update, del, getOne, getMany string) {
	s := singular(t.Name)
	plural := ident(t.Name)
	many := "get_" + plural
	if plural == s {
		many = "get_" + s + "_list"
	}
	return "create_" + s, "update_" + s, "delete_" + s, "get_" + s, many
}

// inputFields returns the fields the create and update procedures accept:
// everything except system-managed columns, with the primary key first.
func inputFields(t *schema.Table, pk *schema.Field) []*schema.Field {
	fields := []*schema.Field{pk}
	for _, f := range t.Fields {
		if f == pk || f.SystemManaged() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func paramName(f *schema.Field) string { return "p_" + ident(f.Name) }

// paramDecl renders one procedure parameter anchored to the column type.
func paramDecl(t *schema.Table, f *schema.Field) string {
	return fmt.Sprintf("%s IN %s.%s%%TYPE", paramName(f), ident(t.Name), ident(f.Name))
}

// renderSpec emits the package specification.
func (g *PackageGenerator) renderSpec(b *strings.Builder, t *schema.Table, pk *schema.Field) {
	pkgName := synthName(t.Name, "", "pkg")
	create, update, del, getOne, getMany := procNames(t)
	inputs := inputFields(t, pk)

	fmt.Fprintf(b, "CREATE OR REPLACE PACKAGE %s AS\n\n", pkgName)

	procs := []string{create}
	if len(inputs) > 1 {
		procs = append(procs, update)
	}
	for _, proc := range procs {
		fmt.Fprintf(b, "    PROCEDURE %s(\n", proc)
		for i, f := range inputs {
			fmt.Fprintf(b, "        %s", paramDecl(t, f))
			if i < len(inputs)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("    );\n\n")
	}

	fmt.Fprintf(b, "    PROCEDURE %s(\n        %s\n    );\n\n", del, paramDecl(t, pk))

	fmt.Fprintf(b, "    PROCEDURE %s(\n        %s,\n        o_result OUT SYS_REFCURSOR\n    );\n\n",
		getOne, paramDecl(t, pk))

	fmt.Fprintf(b, "    PROCEDURE %s(\n", getMany)
	fmt.Fprintf(b, "        p_page IN NUMBER DEFAULT 1,\n")
	fmt.Fprintf(b, "        p_page_size IN NUMBER DEFAULT %d,\n", defaultPageSize)
	fmt.Fprintf(b, "        p_sort_by IN VARCHAR2 DEFAULT '%s',\n", ident(pk.Name))
	fmt.Fprintf(b, "        p_sort_order IN VARCHAR2 DEFAULT 'ASC',\n")
	fmt.Fprintf(b, "        p_search_query IN VARCHAR2 DEFAULT NULL,\n")
	fmt.Fprintf(b, "        p_search_type IN VARCHAR2 DEFAULT 'contains',\n")
	fmt.Fprintf(b, "        o_result OUT SYS_REFCURSOR,\n")
	fmt.Fprintf(b, "        o_total_pages OUT NUMBER\n")
	fmt.Fprintf(b, "    );\n\n")

	fmt.Fprintf(b, "END %s;\n/\n", pkgName)
}

// renderBody emits the package body.
func (g *PackageGenerator) renderBody(b *strings.Builder, t *schema.Table, pk *schema.Field, joins []fkJoin) {
	pkgName := synthName(t.Name, "", "pkg")
	create, update, del, getOne, getMany := procNames(t)
	inputs := inputFields(t, pk)
	validate := "validate_" + singular(t.Name)

	fmt.Fprintf(b, "CREATE OR REPLACE PACKAGE BODY %s AS\n\n", pkgName)

	g.renderValidate(b, t, pk, inputs, joins, validate)
	g.renderCreate(b, t, inputs, create, validate)
	if len(inputs) > 1 {
		g.renderUpdate(b, t, pk, inputs, update, validate)
	}
	g.renderDelete(b, t, pk, del)
	g.renderGetOne(b, t, pk, joins, getOne)
	g.renderGetMany(b, t, pk, getMany)

	fmt.Fprintf(b, "END %s;\n/\n", pkgName)
}

// renderValidate emits the private validation procedure shared by create and
// update: required non-nullable fields, declared maximum lengths, and
// foreign-key existence checks.
func (g *PackageGenerator) renderValidate(b *strings.Builder, t *schema.Table, pk *schema.Field, inputs []*schema.Field, joins []fkJoin, name string) {
	fmt.Fprintf(b, "    PROCEDURE %s(\n", name)
	for i, f := range inputs {
		fmt.Fprintf(b, "        %s", paramDecl(t, f))
		if i < len(inputs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ) AS\n")
	if len(joins) > 0 {
		b.WriteString("        v_count NUMBER;\n")
	}
	b.WriteString("    BEGIN\n")

	for _, f := range inputs {
		if f.Nullable || f.IsAudit() {
			continue
		}
		fmt.Fprintf(b, "        IF %s IS NULL THEN\n", paramName(f))
		fmt.Fprintf(b, "            RAISE_APPLICATION_ERROR(-20001, '%s is required');\n", ident(f.Name))
		b.WriteString("        END IF;\n")
	}

	for _, f := range inputs {
		if typeCategoryOf(f.Type) != categoryText {
			continue
		}
		size := typeSize(f.Type)
		if size == 0 {
			continue
		}
		fmt.Fprintf(b, "        IF LENGTH(%s) > %d THEN\n", paramName(f), size)
		fmt.Fprintf(b, "            RAISE_APPLICATION_ERROR(-20002, '%s exceeds maximum length of %d');\n", ident(f.Name), size)
		b.WriteString("        END IF;\n")
	}

	for _, j := range joins {
		fmt.Fprintf(b, "        IF %s IS NOT NULL THEN\n", paramName(j.field))
		fmt.Fprintf(b, "            SELECT COUNT(*) INTO v_count FROM %s WHERE %s = %s;\n",
			ident(j.ref.Name), ident(j.refCol.Name), paramName(j.field))
		b.WriteString("            IF v_count = 0 THEN\n")
		fmt.Fprintf(b, "                RAISE_APPLICATION_ERROR(-20003, '%s references a missing row in %s');\n",
			ident(j.field.Name), ident(j.ref.Name))
		b.WriteString("            END IF;\n")
		b.WriteString("        END IF;\n")
	}

	fmt.Fprintf(b, "    END %s;\n\n", name)
}

// renderCreate emits the insert procedure.
func (g *PackageGenerator) renderCreate(b *strings.Builder, t *schema.Table, inputs []*schema.Field, name, validate string) {
	cols := make([]string, len(inputs))
	vals := make([]string, len(inputs))
	args := make([]string, len(inputs))
	for i, f := range inputs {
		cols[i] = ident(f.Name)
		vals[i] = paramName(f)
		args[i] = paramName(f)
	}

	fmt.Fprintf(b, "    PROCEDURE %s(\n", name)
	for i, f := range inputs {
		fmt.Fprintf(b, "        %s", paramDecl(t, f))
		if i < len(inputs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ) AS\n    BEGIN\n")
	fmt.Fprintf(b, "        %s(%s);\n", validate, strings.Join(args, ", "))
	fmt.Fprintf(b, "        INSERT INTO %s (%s)\n        VALUES (%s);\n",
		ident(t.Name), strings.Join(cols, ", "), strings.Join(vals, ", "))
	b.WriteString("        COMMIT;\n")
	fmt.Fprintf(b, "    END %s;\n\n", name)
}

// renderUpdate emits the update procedure. Callers skip it when the primary
// key is the table's only input field: an UPDATE with an empty SET list is
// invalid PL/SQL.
func (g *PackageGenerator) renderUpdate(b *strings.Builder, t *schema.Table, pk *schema.Field, inputs []*schema.Field, name, validate string) {
	args := make([]string, len(inputs))
	for i, f := range inputs {
		args[i] = paramName(f)
	}

	fmt.Fprintf(b, "    PROCEDURE %s(\n", name)
	for i, f := range inputs {
		fmt.Fprintf(b, "        %s", paramDecl(t, f))
		if i < len(inputs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ) AS\n    BEGIN\n")
	fmt.Fprintf(b, "        %s(%s);\n", validate, strings.Join(args, ", "))
	fmt.Fprintf(b, "        UPDATE %s\n        SET ", ident(t.Name))
	var sets []string
	for _, f := range inputs {
		if f == pk {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", ident(f.Name), paramName(f)))
	}
	b.WriteString(strings.Join(sets, ",\n            "))
	fmt.Fprintf(b, "\n        WHERE %s = %s;\n", ident(pk.Name), paramName(pk))
	b.WriteString("        COMMIT;\n")
	fmt.Fprintf(b, "    END %s;\n\n", name)
}

// renderDelete emits the delete procedure.
func (g *PackageGenerator) renderDelete(b *strings.Builder, t *schema.Table, pk *schema.Field, name string) {
	fmt.Fprintf(b, "    PROCEDURE %s(\n        %s\n    ) AS\n    BEGIN\n", name, paramDecl(t, pk))
	fmt.Fprintf(b, "        DELETE FROM %s WHERE %s = %s;\n", ident(t.Name), ident(pk.Name), paramName(pk))
	b.WriteString("        COMMIT;\n")
	fmt.Fprintf(b, "    END %s;\n\n", name)
}

// renderGetOne emits the single-record read. Resolvable foreign keys join in
// the referenced row's display columns, aliased with the referenced table's
// singular name.
func (g *PackageGenerator) renderGetOne(b *strings.Builder, t *schema.Table, pk *schema.Field, joins []fkJoin, name string) {
	fmt.Fprintf(b, "    PROCEDURE %s(\n        %s,\n        o_result OUT SYS_REFCURSOR\n    ) AS\n    BEGIN\n",
		name, paramDecl(t, pk))
	b.WriteString("        OPEN o_result FOR\n")
	b.WriteString("            SELECT t.*")
	for _, j := range joins {
		for _, d := range j.display {
			fmt.Fprintf(b, ",\n                %s.%s AS %s_%s",
				j.alias, ident(d.Name), singular(j.ref.Name), ident(d.Name))
		}
	}
	fmt.Fprintf(b, "\n            FROM %s t", ident(t.Name))
	for _, j := range joins {
		fmt.Fprintf(b, "\n            LEFT JOIN %s %s ON %s.%s = t.%s",
			ident(j.ref.Name), j.alias, j.alias, ident(j.refCol.Name), ident(j.field.Name))
	}
	fmt.Fprintf(b, "\n            WHERE t.%s = %s;\n", ident(pk.Name), paramName(pk))
	fmt.Fprintf(b, "    END %s;\n\n", name)
}

// renderGetMany emits the paginated, searchable list read. The sort column
// is validated against the table's own columns before it reaches dynamic
// SQL, page and page size are clamped to a valid positive range, and the
// total page count comes from a count query sharing the same filter.
func (g *PackageGenerator) renderGetMany(b *strings.Builder, t *schema.Table, pk *schema.Field, name string) {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = quoteString(ident(f.Name))
	}

	var searchable []string
	for _, f := range t.Fields {
		if typeCategoryOf(f.Type) == categoryText {
			searchable = append(searchable, ident(f.Name))
		}
	}
	where := ":search IS NULL"
	binds := []string{"p_search_query"}
	for _, col := range searchable {
		where += fmt.Sprintf(" OR LOWER(%s) LIKE :pattern", col)
		binds = append(binds, "v_pattern")
	}

	fmt.Fprintf(b, "    PROCEDURE %s(\n", name)
	fmt.Fprintf(b, "        p_page IN NUMBER DEFAULT 1,\n")
	fmt.Fprintf(b, "        p_page_size IN NUMBER DEFAULT %d,\n", defaultPageSize)
	fmt.Fprintf(b, "        p_sort_by IN VARCHAR2 DEFAULT '%s',\n", ident(pk.Name))
	fmt.Fprintf(b, "        p_sort_order IN VARCHAR2 DEFAULT 'ASC',\n")
	fmt.Fprintf(b, "        p_search_query IN VARCHAR2 DEFAULT NULL,\n")
	fmt.Fprintf(b, "        p_search_type IN VARCHAR2 DEFAULT 'contains',\n")
	fmt.Fprintf(b, "        o_result OUT SYS_REFCURSOR,\n")
	fmt.Fprintf(b, "        o_total_pages OUT NUMBER\n")
	fmt.Fprintf(b, "    ) AS\n")
	fmt.Fprintf(b, "        v_page NUMBER := GREATEST(NVL(p_page, 1), 1);\n")
	fmt.Fprintf(b, "        v_page_size NUMBER := LEAST(GREATEST(NVL(p_page_size, %d), 1), %d);\n", defaultPageSize, maxPageSize)
	fmt.Fprintf(b, "        v_sort_by VARCHAR2(%d) := LOWER(NVL(p_sort_by, '%s'));\n", maxIdent, ident(pk.Name))
	fmt.Fprintf(b, "        v_sort_order VARCHAR2(4) := UPPER(NVL(p_sort_order, 'ASC'));\n")
	fmt.Fprintf(b, "        v_pattern VARCHAR2(4000);\n")
	fmt.Fprintf(b, "        v_total NUMBER;\n")
	fmt.Fprintf(b, "    BEGIN\n")
	fmt.Fprintf(b, "        IF v_sort_by NOT IN (%s) THEN\n", strings.Join(cols, ", "))
	fmt.Fprintf(b, "            RAISE_APPLICATION_ERROR(-20004, 'invalid sort column: ' || v_sort_by);\n")
	fmt.Fprintf(b, "        END IF;\n")
	fmt.Fprintf(b, "        IF v_sort_order NOT IN ('ASC', 'DESC') THEN\n")
	fmt.Fprintf(b, "            v_sort_order := 'ASC';\n")
	fmt.Fprintf(b, "        END IF;\n")
	fmt.Fprintf(b, "        v_pattern := CASE LOWER(NVL(p_search_type, 'contains'))\n")
	fmt.Fprintf(b, "            WHEN 'exact' THEN LOWER(p_search_query)\n")
	fmt.Fprintf(b, "            WHEN 'starts_with' THEN LOWER(p_search_query) || '%%'\n")
	fmt.Fprintf(b, "            ELSE '%%' || LOWER(p_search_query) || '%%'\n")
	fmt.Fprintf(b, "        END;\n")
	fmt.Fprintf(b, "        EXECUTE IMMEDIATE\n")
	fmt.Fprintf(b, "            'SELECT COUNT(*) FROM %s WHERE %s'\n", ident(t.Name), where)
	fmt.Fprintf(b, "            INTO v_total USING %s;\n", strings.Join(binds, ", "))
	fmt.Fprintf(b, "        o_total_pages := CEIL(v_total / v_page_size);\n")
	fmt.Fprintf(b, "        OPEN o_result FOR\n")
	fmt.Fprintf(b, "            'SELECT * FROM %s WHERE %s'\n", ident(t.Name), where)
	fmt.Fprintf(b, "            || ' ORDER BY ' || v_sort_by || ' ' || v_sort_order\n")
	fmt.Fprintf(b, "            || ' OFFSET :off ROWS FETCH NEXT :lim ROWS ONLY'\n")
	fmt.Fprintf(b, "            USING %s, (v_page - 1) * v_page_size, v_page_size;\n", strings.Join(binds, ", "))
	fmt.Fprintf(b, "    END %s;\n\n", name)
}
