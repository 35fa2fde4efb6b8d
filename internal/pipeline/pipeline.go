package pipeline

import (
	"sort"

	"readlist/internal/feedapi"
)

// Direction selects the publication-date sort order.
type Direction string

const (
	Newest Direction = "newest"
	Oldest Direction = "oldest"
)

// ReadChecker reports whether an article identifier is read. Satisfied by
// *readstate.Store.
type ReadChecker interface {
	IsRead(link string) bool
}

// Apply filters the full collection down to the ordered subset to display.
// An empty category yields an empty result: the UI shows the category
// placeholder instead of an unfiltered dump. The input is never mutated and
// the sort is stable, so articles with equal dates keep their relative order.
func Apply(articles []feedapi.Article, category string, unreadOnly bool, dir Direction, reads ReadChecker) []feedapi.Article {
	if category == "" {
		return nil
	}

	filtered := make([]feedapi.Article, 0, len(articles))
	for _, article := range articles {
		if article.Category != category {
			continue
		}
		if unreadOnly && reads != nil && reads.IsRead(article.Link) {
			continue
		}
		filtered = append(filtered, article)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		// Zero times sort as the oldest possible value in both directions.
		a, b := filtered[i].PublishedAt, filtered[j].PublishedAt
		if dir == Oldest {
			return a.Before(b)
		}
		return a.After(b)
	})
	return filtered
}
