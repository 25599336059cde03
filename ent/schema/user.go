package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// User is a respondent, identified by normalized email.
type User struct {
	ent.Schema
}

func (User) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id"),
		field.String("email").
			Unique().
			NotEmpty().
			MaxLen(254).
			Comment("Lower-cased, trimmed address"),
		field.String("profession").
			Comment("Profession given at first registration"),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("results", Result.Type),
	}
}
