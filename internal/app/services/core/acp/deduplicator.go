package acp

import (
	"fauxhr-service/internal/app/models"
	"time"
)

// Deduplicate collapses items that share a business identifier, directly or
// through a chain of shared identifiers, into their most recently updated
// member. Items without lastUpdated rank oldest; ties keep the first seen.
// Output order follows the first member of each cluster.
func Deduplicate[T any](items []T, identifiers func(T) []models.Identifier, lastUpdated func(T) *time.Time) []T {
	if len(items) <= 1 {
		return items
	}

	// indices holding each system|value, in input order
	holders := make(map[string][]int)
	for i, item := range items {
		for _, identifier := range identifiers(item) {
			if identifier.System == "" || identifier.Value == "" {
				continue
			}
			key := identifier.System + "|" + identifier.Value
			holders[key] = append(holders[key], i)
		}
	}

	adjacency := make([][]int, len(items))
	for _, indices := range holders {
		for i := 1; i < len(indices); i++ {
			a, b := indices[i-1], indices[i]
			if a == b {
				continue
			}
			adjacency[a] = append(adjacency[a], b)
			adjacency[b] = append(adjacency[b], a)
		}
	}

	visited := make([]bool, len(items))
	result := make([]T, 0, len(items))
	for start := range items {
		if visited[start] {
			continue
		}

		best := start
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if preferred(current, best, lastUpdated(items[current]), lastUpdated(items[best])) {
				best = current
			}
			for _, next := range adjacency[current] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		result = append(result, items[best])
	}
	return result
}

// preferred ranks by lastUpdated, then by input position.
func preferred(candidateIndex, bestIndex int, candidate, best *time.Time) bool {
	if newer(candidate, best) {
		return true
	}
	if newer(best, candidate) {
		return false
	}
	return candidateIndex < bestIndex
}

func newer(candidate, current *time.Time) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return candidate.After(*current)
}
