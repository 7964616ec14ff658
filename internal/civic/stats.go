package civic

// Stats is the aggregate banner shown on the dashboard.
type Stats struct {
	TotalReports     int      `json:"totalReports"`
	ResolvedThisWeek int      `json:"resolvedThisWeek"`
	ActiveIssues     int      `json:"activeIssues"`
	TopCategory      Category `json:"topCategory"`
}

// ComputeStats derives the aggregate counters from an issue set. Ties on
// the top category keep the first category reached in input order, which
// keeps the result deterministic for a fixed dataset.
func ComputeStats(issues []Issue) Stats {
	stats := Stats{TotalReports: len(issues), TopCategory: CategoryOther}

	counts := make(map[Category]int)
	order := make([]Category, 0, 8)
	for _, issue := range issues {
		if issue.Status != StatusResolved {
			stats.ActiveIssues++
		} else {
			stats.ResolvedThisWeek++
		}
		if _, seen := counts[issue.Category]; !seen {
			order = append(order, issue.Category)
		}
		counts[issue.Category]++
	}

	best := 0
	for _, category := range order {
		if counts[category] > best {
			best = counts[category]
			stats.TopCategory = category
		}
	}
	return stats
}
