package coach

import "github.com/abhisek/profiler/internal/llm"

// FocusAreas is the number of focus areas a plan contains.
const FocusAreas = 3

// PlanSchema constrains the generated plan.
var PlanSchema = &llm.Schema{
	Name:        "development-plan",
	Description: "A short development plan for a data professional",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two sentences on where the respondent stands and what to build next",
			},
			"focus_areas": map[string]any{
				"type":     "array",
				"minItems": FocusAreas,
				"maxItems": FocusAreas,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short name of the focus area (3-6 words)",
						},
						"axis": map[string]any{
							"type": "string",
							"enum": []any{"analytical", "communication"},
						},
						"actions": map[string]any{
							"type":        "array",
							"minItems":    1,
							"maxItems":    3,
							"items":       map[string]any{"type": "string"},
							"description": "Concrete actions for the next month (8-15 words each)",
						},
					},
					"required":             []any{"title", "axis", "actions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "focus_areas"},
		"additionalProperties": false,
	},
}
