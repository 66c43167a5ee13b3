package content

import "github.com/abhisek/assess/internal/llm"

// QuestionSchema defines the JSON schema for question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "assessment-question",
	Description: "A single assessment question with its correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question prompt shown to the student, in plain text",
			},
			"question_type": map[string]any{
				"type":        "string",
				"enum":        []any{"multiple_choice", "true_false", "short_answer"},
				"description": "How the student answers",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 4 options for multiple_choice, exactly [\"True\",\"False\"] for true_false, empty for short_answer",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "The correct answer. For multiple choice: the text of the correct option.",
			},
			"learning_objectives": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "What answering this question demonstrates",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "One-line note on what the question probes",
			},
		},
		"required":             []any{"question_text", "question_type", "options", "correct_answer", "learning_objectives", "description"},
		"additionalProperties": false,
	},
}

// GradeSchema defines the JSON schema for grading responses.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "An objective grade for a student answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is correct overall",
			},
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Fractional credit from 0 to 1; partial credit allowed",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short constructive feedback for the student",
			},
		},
		"required":             []any{"is_correct", "score", "feedback"},
		"additionalProperties": false,
	},
}

// StudyPlanSchema defines the JSON schema for study plan responses.
var StudyPlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A weekly study plan targeting the student's weakest topics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One-paragraph summary of what to focus on",
			},
			"lessons": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type": "string",
						},
						"topic": map[string]any{
							"type": "string",
						},
						"suggested_duration_minutes": map[string]any{
							"type":    "integer",
							"minimum": 5,
						},
						"week": map[string]any{
							"type":    "integer",
							"minimum": 1,
						},
						"details": map[string]any{
							"type": "string",
						},
					},
					"required":             []any{"title", "topic", "suggested_duration_minutes", "week", "details"},
					"additionalProperties": false,
				},
				"description": "Lessons ordered by ascending mastery, week numbers starting at 1",
			},
		},
		"required":             []any{"summary", "lessons"},
		"additionalProperties": false,
	},
}
