package curriculum

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Graph holds the curriculum DAG with precomputed indices.
// A Graph is immutable after construction and safe for concurrent reads.
type Graph struct {
	areas     []Area
	byID      map[string]*Area
	bySubject map[string][]Area
	roots     []Area
	topoOrder []Area
	topoIndex map[string]int
}

// New constructs a Graph from a slice of areas. The prerequisite relation is
// validated at construction: duplicate IDs, self-references, dangling
// prerequisites, and cycles are all rejected.
func New(areas []Area) (*Graph, error) {
	if err := validateAreas(areas); err != nil {
		return nil, err
	}

	g := &Graph{
		areas:     slices.Clone(areas),
		byID:      make(map[string]*Area, len(areas)),
		bySubject: make(map[string][]Area),
		topoIndex: make(map[string]int, len(areas)),
	}

	for i := range g.areas {
		g.byID[g.areas[i].ID] = &g.areas[i]
	}

	// Topological sort (Kahn's algorithm). Validation already guaranteed
	// acyclicity, so every area appears in the order.
	inDegree := make(map[string]int, len(areas))
	dependents := make(map[string][]string)
	for i := range g.areas {
		inDegree[g.areas[i].ID] = len(g.areas[i].Prerequisites)
		for _, prereqID := range g.areas[i].Prerequisites {
			dependents[prereqID] = append(dependents[prereqID], g.areas[i].ID)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	// Sort initial queue for deterministic ordering.
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		g.topoOrder = append(g.topoOrder, *g.byID[id])

		deps := slices.Clone(dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	for i, a := range g.topoOrder {
		g.topoIndex[a.ID] = i
	}

	for i := range g.areas {
		if len(g.areas[i].Prerequisites) == 0 {
			g.roots = append(g.roots, g.areas[i])
		}
	}

	// Group by subject, ordered by difficulty_order then topological position.
	subjectGroups := make(map[string][]Area)
	for i := range g.areas {
		key := subjectKey(g.areas[i].Subject)
		subjectGroups[key] = append(subjectGroups[key], g.areas[i])
	}
	for subject, group := range subjectGroups {
		sorted := slices.Clone(group)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].DifficultyOrder != sorted[j].DifficultyOrder {
				return sorted[i].DifficultyOrder < sorted[j].DifficultyOrder
			}
			return g.topoIndex[sorted[i].ID] < g.topoIndex[sorted[j].ID]
		})
		g.bySubject[subject] = sorted
	}

	return g, nil
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// Area returns an area by ID, or an error if not found.
func (g *Graph) Area(id string) (Area, error) {
	a, ok := g.byID[id]
	if !ok {
		return Area{}, fmt.Errorf("knowledge area not found: %q", id)
	}
	return *a, nil
}

// All returns all areas in the graph.
func (g *Graph) All() []Area {
	return slices.Clone(g.areas)
}

// BySubject returns all areas for a subject (case-insensitive), ordered by
// difficulty_order then topological position.
func (g *Graph) BySubject(subject string) []Area {
	return slices.Clone(g.bySubject[subjectKey(subject)])
}

// Roots returns all areas with no prerequisites.
func (g *Graph) Roots() []Area {
	return slices.Clone(g.roots)
}

// Prerequisites returns the direct prerequisite areas for an area ID.
func (g *Graph) Prerequisites(id string) []Area {
	a, ok := g.byID[id]
	if !ok {
		return nil
	}
	result := make([]Area, 0, len(a.Prerequisites))
	for _, prereqID := range a.Prerequisites {
		if p, ok := g.byID[prereqID]; ok {
			result = append(result, *p)
		}
	}
	return result
}

// TopologicalOrder returns all areas in a valid topological order.
func (g *Graph) TopologicalOrder() []Area {
	return slices.Clone(g.topoOrder)
}

// Subjects returns the distinct subjects present in the graph, sorted.
func (g *Graph) Subjects() []string {
	subjects := make([]string, 0, len(g.bySubject))
	for s := range g.bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}
