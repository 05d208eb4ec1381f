package planning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CycleDetector validates that stage dependencies form a directed acyclic
// graph. It runs independently of the reference pass: the downward-only rule
// already implies acyclicity when ids are sequential, but plans with
// non-sequential ids must still be caught.
type CycleDetector struct{}

// Name returns the validator identifier.
func (d *CycleDetector) Name() string {
	return "cycle_detector"
}

// Priority returns 3 (runs after uniqueness and references).
func (d *CycleDetector) Priority() int {
	return 3
}

// Validate checks for cycles among the plan's resolvable dependency edges.
// Edges pointing at undefined stages are excluded (they cannot be graphed and
// are already reported as unknown dependencies); forward and self edges stay
// in, which is what lets a mutual dependency between two stages surface as a
// cycle rather than disappear behind the ordering rule.
func (d *CycleDetector) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	known := firstOccurrenceIndex(plan)

	// Adjacency over ids, restricted to resolvable targets. Duplicate
	// declarations collapse onto the first occurrence.
	graph := make(map[int][]int, len(known))
	for id, idx := range known {
		for _, dep := range plan.Stages[idx].DependsOn {
			if _, exists := known[dep]; exists {
				graph[id] = append(graph[id], dep)
			}
		}
	}

	visited := make(map[int]bool, len(known))
	recStack := make(map[int]bool, len(known))
	var path []int

	var dfs func(node int)
	dfs = func(node int) {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, neighbor := range graph[node] {
			if !visited[neighbor] {
				dfs(neighbor)
			} else if recStack[neighbor] {
				// Back edge node→neighbor closes a cycle. Extract the
				// cycle from the current path and keep traversing, so
				// every back edge in the plan is reported.
				cycleStart := 0
				for i, p := range path {
					if p == neighbor {
						cycleStart = i
						break
					}
				}
				cycle := append(append([]int{}, path[cycleStart:]...), neighbor)

				result.Violations = append(result.Violations, Violation{
					Kind:      KindCyclicDependency,
					StageID:   node,
					RelatedID: neighbor,
					Detail: fmt.Sprintf("Stages form a dependency cycle: %s",
						formatCycle(cycle)),
					stageIndex: known[node],
				})
			}
		}

		recStack[node] = false
		path = path[:len(path)-1] // Backtrack
	}

	// Roots in declaration order keeps traversal, and therefore the
	// report, deterministic.
	for i, stage := range plan.Stages {
		if known[stage.ID] != i {
			continue // duplicate declaration, collapsed above
		}
		if !visited[stage.ID] {
			path = path[:0]
			dfs(stage.ID)
		}
	}

	return result
}

// formatCycle renders a cycle path such as "1 → 2 → 1".
func formatCycle(cycle []int) string {
	parts := make([]string, len(cycle))
	for i, id := range cycle {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " → ")
}
