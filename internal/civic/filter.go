package civic

import "sort"

// Sort enumerates supported list orderings.
type Sort string

const (
	// SortUpvotes orders by upvote count descending. Default.
	SortUpvotes Sort = "upvotes"
	// SortRecent orders by creation time descending.
	SortRecent Sort = "recent"
	// SortNear is resolved server-side against the caller's location. A
	// local evaluation has no device position and falls back to upvotes.
	SortNear Sort = "near"
)

// ListFilter mirrors the query parameters of the issue listing endpoint.
// The zero value selects everything sorted by upvotes.
type ListFilter struct {
	Status   Status
	Category Category
	Sort     Sort
	Limit    int
}

// Apply filters, sorts, and limits a slice of issues. Sorting is stable so
// ties keep their original order. The same routine backs both the demo
// server and the offline fallback, keeping their orderings identical.
func (f ListFilter) Apply(issues []Issue) []Issue {
	filtered := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if f.Status != "" && issue.Status != f.Status {
			continue
		}
		if f.Category != "" && issue.Category != f.Category {
			continue
		}
		filtered = append(filtered, issue)
	}

	switch f.Sort {
	case SortRecent:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Upvotes > filtered[j].Upvotes
		})
	}

	if f.Limit > 0 && len(filtered) > f.Limit {
		filtered = filtered[:f.Limit]
	}
	return filtered
}
