package helprequest

import (
	"sort"
	"strings"
)

// Sort keys accepted by Query.
const (
	SortByTime     = "time"
	SortByPriority = "priority"
)

// Query filters all by a case-insensitive substring match of text against
// title+description, then orders the matches by sortBy, descending. Ties keep
// the order they had in all. The input slice is not modified.
func Query(all []*HelpRequest, text, sortBy string) ([]*HelpRequest, error) {
	if sortBy == "" {
		sortBy = SortByTime
	}
	var less func(a, b *HelpRequest) bool
	switch sortBy {
	case SortByTime:
		less = func(a, b *HelpRequest) bool { return a.Time > b.Time }
	case SortByPriority:
		less = func(a, b *HelpRequest) bool { return a.Priority > b.Priority }
	default:
		return nil, &ValidationError{Field: "sort_by", Reason: "must be one of priority, time"}
	}

	needle := strings.ToLower(text)
	out := make([]*HelpRequest, 0, len(all))
	for _, r := range all {
		if needle == "" || strings.Contains(strings.ToLower(r.Title+r.Description), needle) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}
