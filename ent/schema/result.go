package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Result is one completed assessment. The profile is not stored; it is
// derived from the two scores when read.
type Result struct {
	ent.Schema
}

func (Result) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Result) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id"),
		field.Float("analytical_score").
			Min(0).Max(1),
		field.Float("communication_score").
			Min(0).Max(1),
		field.Int64("user_id"),
	}
}

func (Result) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("user", User.Type).
			Ref("results").
			Field("user_id").
			Unique().
			Required(),
	}
}

func (Result) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "created_at"),
		index.Fields("created_at"),
	}
}
