package search

import (
	"context"

	"github.com/briefwise/briefwise/pkg/utils/keyword"
)

// Curated searches a fixed corpus loaded from configuration. A result
// matches when its title or snippet contains any question token.
type Curated struct {
	corpus []Result
}

var _ Backend = &Curated{}

// NewCurated creates a Curated backend over corpus. The slice is copied.
func NewCurated(corpus []Result) *Curated {
	copied := make([]Result, len(corpus))
	copy(copied, corpus)
	return &Curated{corpus: copied}
}

func (c *Curated) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	filter := keyword.NewFilter(query)
	var results []Result
	for _, r := range c.corpus {
		if !filter.Match(r.Title, r.Snippet) {
			continue
		}
		results = append(results, r)
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}
