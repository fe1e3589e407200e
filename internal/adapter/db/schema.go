package db

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	usersTable   = "users"
	lessonsTable = "lessons"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "image", Type: field.TypeString, Default: ""},
		{Name: "lesson_ids", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       usersTable,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}
	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "address", Type: field.TypeString},
		{Name: "lat", Type: field.TypeFloat64},
		{Name: "lng", Type: field.TypeFloat64},
		{Name: "image", Type: field.TypeString},
		{Name: "creator_id", Type: field.TypeUUID},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       lessonsTable,
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lessons_users_lessons",
				Columns:    []*schema.Column{LessonsColumns[7]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "lesson_creator_id",
				Unique:  false,
				Columns: []*schema.Column{LessonsColumns[7]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		LessonsTable,
	}
)

var (
	userColumns   = []string{"id", "name", "email", "image", "lesson_ids", "created_at", "updated_at"}
	lessonColumns = []string{"id", "title", "description", "address", "lat", "lng", "image", "creator_id", "created_at", "updated_at"}
)

func init() {
	LessonsTable.ForeignKeys[0].RefTable = UsersTable
}
