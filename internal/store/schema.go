package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names. They match the tables written by the original
// application so a legacy database reads with the same queries.
const (
	TableUsers   = "users"
	TableResults = "results"

	colID            = "id"
	colEmail         = "email"
	colProfession    = "profession"
	colCreatedAt     = "created_at"
	colUserID        = "user_id"
	colAnalytical    = "analytical_score"
	colCommunication = "communication_score"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colEmail, Type: field.TypeString, Unique: true, Size: 254},
		{Name: colProfession, Type: field.TypeString},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       TableUsers,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// ResultsColumns holds the columns for the "results" table.
	ResultsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colAnalytical, Type: field.TypeFloat64},
		{Name: colCommunication, Type: field.TypeFloat64},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: colUserID, Type: field.TypeInt64},
	}
	// ResultsTable holds the schema information for the "results" table.
	ResultsTable = &schema.Table{
		Name:       TableResults,
		Columns:    ResultsColumns,
		PrimaryKey: []*schema.Column{ResultsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "results_users_results",
				Columns:    []*schema.Column{ResultsColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "result_user_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{ResultsColumns[4], ResultsColumns[3]},
			},
			{
				Name:    "result_created_at",
				Unique:  false,
				Columns: []*schema.Column{ResultsColumns[3]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		ResultsTable,
	}
)

func init() {
	ResultsTable.ForeignKeys[0].RefTable = UsersTable
}
