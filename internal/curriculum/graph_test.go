package curriculum

import (
	"strings"
	"testing"
)

func testAreas() []Area {
	return []Area{
		{ID: "m-count", Subject: "Mathematics", Topic: "Counting", GradeLevel: 1, DifficultyOrder: 1},
		{ID: "m-add", Subject: "Mathematics", Topic: "Addition", GradeLevel: 2, DifficultyOrder: 2, Prerequisites: []string{"m-count"}},
		{ID: "m-mult", Subject: "Mathematics", Topic: "Multiplication", GradeLevel: 3, DifficultyOrder: 3, Prerequisites: []string{"m-add"}},
		{ID: "s-matter", Subject: "Science", Topic: "States of Matter", GradeLevel: 2, DifficultyOrder: 1},
	}
}

func TestNew_BuildsIndices(t *testing.T) {
	g, err := New(testAreas())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(g.All()); got != 4 {
		t.Errorf("len(All()) = %d, want 4", got)
	}

	a, err := g.Area("m-add")
	if err != nil {
		t.Fatalf("Area(m-add): %v", err)
	}
	if a.Topic != "Addition" {
		t.Errorf("topic = %q, want Addition", a.Topic)
	}

	roots := g.Roots()
	if len(roots) != 2 {
		t.Fatalf("len(Roots()) = %d, want 2", len(roots))
	}

	prereqs := g.Prerequisites("m-mult")
	if len(prereqs) != 1 || prereqs[0].ID != "m-add" {
		t.Errorf("Prerequisites(m-mult) = %v, want [m-add]", prereqs)
	}
}

func TestNew_TopologicalOrder(t *testing.T) {
	g, err := New(testAreas())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := map[string]int{}
	for i, a := range g.TopologicalOrder() {
		pos[a.ID] = i
	}
	for _, a := range testAreas() {
		for _, prereqID := range a.Prerequisites {
			if pos[prereqID] >= pos[a.ID] {
				t.Errorf("prerequisite %s at %d not before %s at %d",
					prereqID, pos[prereqID], a.ID, pos[a.ID])
			}
		}
	}
}

func TestBySubject_CaseInsensitiveAndOrdered(t *testing.T) {
	g, err := New(testAreas())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	areas := g.BySubject("mathematics")
	if len(areas) != 3 {
		t.Fatalf("BySubject(mathematics) returned %d areas, want 3", len(areas))
	}
	for i := 1; i < len(areas); i++ {
		if areas[i-1].DifficultyOrder > areas[i].DifficultyOrder {
			t.Errorf("areas out of difficulty order: %s before %s", areas[i-1].ID, areas[i].ID)
		}
	}

	if got := g.BySubject("History"); got != nil {
		t.Errorf("BySubject(History) = %v, want nil", got)
	}
}

func TestNew_RejectsCycle(t *testing.T) {
	areas := []Area{
		{ID: "a", Subject: "Math", Topic: "A", GradeLevel: 1, DifficultyOrder: 1},
		{ID: "b", Subject: "Math", Topic: "B", GradeLevel: 1, DifficultyOrder: 2, Prerequisites: []string{"c"}},
		{ID: "c", Subject: "Math", Topic: "C", GradeLevel: 1, DifficultyOrder: 3, Prerequisites: []string{"b"}},
	}
	_, err := New(areas)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("New with cycle: error = %v, want cycle error", err)
	}
}

func TestNew_RejectsSelfReference(t *testing.T) {
	areas := []Area{
		{ID: "a", Subject: "Math", Topic: "A", GradeLevel: 1, DifficultyOrder: 1, Prerequisites: []string{"a"}},
	}
	_, err := New(areas)
	if err == nil || !strings.Contains(err.Error(), "itself") {
		t.Fatalf("New with self-reference: error = %v, want self-reference error", err)
	}
}

func TestNew_RejectsDanglingPrerequisite(t *testing.T) {
	areas := []Area{
		{ID: "a", Subject: "Math", Topic: "A", GradeLevel: 1, DifficultyOrder: 1},
		{ID: "b", Subject: "Math", Topic: "B", GradeLevel: 1, DifficultyOrder: 2, Prerequisites: []string{"ghost"}},
	}
	_, err := New(areas)
	if err == nil || !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("New with dangling prereq: error = %v, want nonexistent-prerequisite error", err)
	}
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	areas := []Area{
		{ID: "a", Subject: "Math", Topic: "A", GradeLevel: 1, DifficultyOrder: 1},
		{ID: "a", Subject: "Math", Topic: "A again", GradeLevel: 1, DifficultyOrder: 2},
	}
	_, err := New(areas)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("New with duplicate IDs: error = %v, want duplicate error", err)
	}
}

func TestNew_CollectsAllProblems(t *testing.T) {
	areas := []Area{
		{ID: "", Subject: "Math", Topic: "A", GradeLevel: 1, DifficultyOrder: 1},
		{ID: "b", Subject: "", Topic: "B", GradeLevel: 0, DifficultyOrder: 2},
	}
	_, err := New(areas)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"empty ID", "empty subject", "grade level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoad_DocumentAndBareArray(t *testing.T) {
	doc := `{"version": 1, "areas": [
		{"id": "a", "subject": "Math", "topic": "A", "grade_level": 1, "difficulty_order": 1}
	]}`
	g, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load(document): %v", err)
	}
	if len(g.All()) != 1 {
		t.Errorf("len = %d, want 1", len(g.All()))
	}

	arr := `[{"id": "a", "subject": "Math", "topic": "A", "grade_level": 1, "difficulty_order": 1}]`
	g, err = Load(strings.NewReader(arr))
	if err != nil {
		t.Fatalf("Load(array): %v", err)
	}
	if len(g.All()) != 1 {
		t.Errorf("len = %d, want 1", len(g.All()))
	}
}

func TestLoad_RejectsEmptyAndInvalid(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"version": 1, "areas": []}`)); err == nil {
		t.Error("Load with no areas: want error")
	}
	if _, err := Load(strings.NewReader(`not json`)); err == nil {
		t.Error("Load with invalid JSON: want error")
	}
}

func TestSeed_IsValid(t *testing.T) {
	g := Seed()
	if len(g.All()) == 0 {
		t.Fatal("seed curriculum is empty")
	}
	if len(g.BySubject("Mathematics")) == 0 {
		t.Error("seed has no Mathematics areas")
	}
	if len(g.BySubject("Science")) == 0 {
		t.Error("seed has no Science areas")
	}
}
