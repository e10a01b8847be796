package oracle

import (
	"github.com/syssam/sqlforge/schema"
)

// testSchema builds the two-table fixture shared across generator tests.
func testSchema() *schema.Schema {
	return &schema.Schema{
		Dialect: "oracle",
		Tables: []*schema.Table{
			{
				Name: "customers",
				Fields: []*schema.Field{
					{Name: "id", Type: "NUMBER", PrimaryKey: true},
					{Name: "name", Type: "VARCHAR2(100)", Comment: "Customer name"},
					{Name: "email", Type: "VARCHAR2(150)", Nullable: true, Unique: true},
					{Name: "status", Type: "VARCHAR2(20)", Nullable: true, AllowedValues: []string{"ACTIVE", "INACTIVE"}},
					{Name: "created_at", Type: "DATE", Nullable: true, Default: "current timestamp"},
					{Name: "updated_at", Type: "DATE", Nullable: true, Trigger: &schema.Trigger{
						Enabled: true, Event: schema.BeforeInsertUpdate, Action: "current timestamp",
					}},
				},
			},
			{
				Name: "orders",
				Fields: []*schema.Field{
					{Name: "id", Type: "NUMBER", PrimaryKey: true},
					{Name: "customer_id", Type: "NUMBER", IsForeignKey: true, ForeignKey: &schema.ForeignKey{
						ReferencedTable: "customers", ReferencedColumn: "id",
					}},
					{Name: "total", Type: "NUMBER(10,2)", Nullable: true},
					{Name: "placed_on", Type: "DATE", Nullable: true},
				},
				ReferencingTo: []string{"customers"},
			},
		},
	}
}
