package content

import (
	"fmt"
	"sort"
	"strings"
)

const questionSystemPrompt = `You are an educational question generator for school assessments.

Rules:
- Generate a single question for the given subject, topic, grade and difficulty.
- Use plain text. No LaTeX, no markup.
- The question must be clear, self-contained, and age-appropriate for the grade.
- The correct answer must be unambiguous.
- For multiple_choice, provide exactly 4 options where exactly one is correct. Distractors should reflect plausible mistakes, not random values.
- For true_false, the options must be exactly ["True", "False"].
- For short_answer, leave options empty and keep the expected answer to a few words.`

// strictReprompt is appended on the second attempt after an unparseable
// response.
const strictReprompt = `

IMPORTANT: your previous output did not match the required JSON schema. Return ONLY a single JSON object that conforms exactly to the schema. No prose, no code fences, no explanations.`

const gradeSystemPrompt = `You are an objective grader for school assessments.

Rules:
- Grade the student's answer against the correct answer.
- For multiple choice and true/false, award full credit only for the correct option.
- For short answers, accept equivalent phrasings; award fractional credit for partially correct answers.
- Feedback must be short, specific, and encouraging. Never reveal more of the solution than needed.`

const studyPlanSystemPrompt = `You are a study planner. Given a student's mastery per topic, produce a weekly study plan.

Rules:
- Cover ONLY the topics listed in the request, in the order given (weakest first).
- Assign week numbers starting at 1, one lesson per week in order.
- Each lesson needs a concrete, actionable details field with practice suggestions.`

// buildQuestionMessage constructs the user message for question generation.
func buildQuestionMessage(req QuestionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	fmt.Fprintf(&b, "Grade level: %d\n", req.GradeLevel)
	fmt.Fprintf(&b, "Topic: %s\n", req.Area.Label())
	if req.Area.Description != "" {
		fmt.Fprintf(&b, "Topic description: %s\n", req.Area.Description)
	}
	if len(req.Area.LearningObjectives) > 0 {
		fmt.Fprintf(&b, "Learning objectives: %s\n", strings.Join(req.Area.LearningObjectives, "; "))
	}
	fmt.Fprintf(&b, "Target difficulty: %s\n", req.Difficulty)

	return b.String()
}

// buildGradeMessage constructs the user message for grading.
func buildGradeMessage(q *Question, studentAnswer string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	fmt.Fprintf(&b, "Question type: %s\n", q.Type)
	if len(q.Options) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(q.Options, " | "))
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", q.CorrectAnswer)
	fmt.Fprintf(&b, "Student answer: %s\n", studentAnswer)

	return b.String()
}

// buildStudyPlanMessage constructs the user message for study plan
// generation. Topics are listed weakest first so the model assigns week 1 to
// the lowest-mastery topic.
func buildStudyPlanMessage(masteryMap map[string]float64, subject string, gradeLevel, topN int) string {
	weakest := weakestTopics(masteryMap, topN)

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Grade level: %d\n", gradeLevel)
	b.WriteString("Topics to cover, weakest first:\n")
	for i, t := range weakest {
		fmt.Fprintf(&b, "%d. %s (mastery %.2f)\n", i+1, t.topic, t.mastery)
	}
	return b.String()
}

type topicMastery struct {
	topic   string
	mastery float64
}

// weakestTopics returns the topN lowest-mastery topics, ascending by mastery
// with topic name as a deterministic tiebreaker.
func weakestTopics(masteryMap map[string]float64, topN int) []topicMastery {
	topics := make([]topicMastery, 0, len(masteryMap))
	for topic, m := range masteryMap {
		topics = append(topics, topicMastery{topic: topic, mastery: m})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].mastery != topics[j].mastery {
			return topics[i].mastery < topics[j].mastery
		}
		return topics[i].topic < topics[j].topic
	})
	if topN > 0 && len(topics) > topN {
		topics = topics[:topN]
	}
	return topics
}
