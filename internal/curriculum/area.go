package curriculum

// Area represents a single knowledge area in the curriculum: one unit of
// subject x topic x optional subtopic at a grade level, with prerequisite
// edges to other areas.
type Area struct {
	ID                 string   `json:"id"`
	Subject            string   `json:"subject"`
	Topic              string   `json:"topic"`
	Subtopic           string   `json:"subtopic,omitempty"`
	GradeLevel         int      `json:"grade_level"`
	DifficultyOrder    int      `json:"difficulty_order"`
	Prerequisites      []string `json:"prerequisites,omitempty"`
	Description        string   `json:"description,omitempty"`
	LearningObjectives []string `json:"learning_objectives,omitempty"`
}

// Label returns the display label for an area: the topic, qualified by the
// subtopic when one is set.
func (a Area) Label() string {
	if a.Subtopic != "" {
		return a.Topic + " / " + a.Subtopic
	}
	return a.Topic
}
