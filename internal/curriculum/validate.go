package curriculum

import (
	"fmt"
	"strings"
)

// validateAreas performs all structural checks on the given area set.
// Returns a combined error describing all problems found, or nil if valid.
func validateAreas(areas []Area) error {
	var errs []string

	idSet := make(map[string]bool, len(areas))
	for _, a := range areas {
		if a.ID == "" {
			errs = append(errs, "area with empty ID")
			continue
		}
		if idSet[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate area ID: %q", a.ID))
		}
		idSet[a.ID] = true
	}

	for _, a := range areas {
		if a.Subject == "" {
			errs = append(errs, fmt.Sprintf("area %q has empty subject", a.ID))
		}
		if a.Topic == "" {
			errs = append(errs, fmt.Sprintf("area %q has empty topic", a.ID))
		}
		if a.GradeLevel <= 0 {
			errs = append(errs, fmt.Sprintf("area %q: grade level must be > 0, got %d", a.ID, a.GradeLevel))
		}
		if a.DifficultyOrder <= 0 {
			errs = append(errs, fmt.Sprintf("area %q: difficulty order must be > 0, got %d", a.ID, a.DifficultyOrder))
		}
		for _, prereqID := range a.Prerequisites {
			if prereqID == a.ID {
				errs = append(errs, fmt.Sprintf("area %q lists itself as a prerequisite", a.ID))
				continue
			}
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("area %q references nonexistent prerequisite %q", a.ID, prereqID))
			}
		}
	}

	// Cycle check using Kahn's algorithm: any node left with in-degree > 0
	// after processing is part of a cycle.
	inDegree := make(map[string]int, len(areas))
	adjList := make(map[string][]string)
	for _, a := range areas {
		inDegree[a.ID] = len(a.Prerequisites)
		for _, prereqID := range a.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], a.ID)
		}
	}

	var queue []string
	for _, a := range areas {
		if inDegree[a.ID] == 0 {
			queue = append(queue, a.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(areas) {
		var cycleNodes []string
		for _, a := range areas {
			if inDegree[a.ID] > 0 {
				cycleNodes = append(cycleNodes, a.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving areas: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(areas) > 0 {
		hasRoot := false
		for _, a := range areas {
			if len(a.Prerequisites) == 0 {
				hasRoot = true
				break
			}
		}
		if !hasRoot {
			errs = append(errs, "no root areas found (at least one area must have no prerequisites)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
