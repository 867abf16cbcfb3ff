package engine

import (
	"sort"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// Outcome is the reconciled result of a run.
type Outcome struct {
	// Succeeded holds deduplicated results without a failure classification.
	Succeeded []*models.Place

	// Failed holds deduplicated results with a failure classification.
	Failed []*models.Place

	// Columns is the sorted union of field names observed across Succeeded,
	// plus the url column.
	Columns []string

	// Received counts every result handed to the aggregator, duplicates included.
	Received int

	Elapsed time.Duration
}

// Total returns the number of unique targets in the outcome.
func (o *Outcome) Total() int {
	return len(o.Succeeded) + len(o.Failed)
}

// Aggregator merges per-target results keyed by identifier. A later result
// for the same identifier overwrites the earlier one; the key keeps the
// position of its first insertion.
//
// Aggregator is not safe for concurrent use: the scheduler feeds it only
// after a batch barrier.
type Aggregator struct {
	results  *orderedmap.OrderedMap[string, *models.Place]
	received int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		results: orderedmap.New[string, *models.Place](),
	}
}

// Add merges results in iteration order. Nil entries are ignored.
func (a *Aggregator) Add(places ...*models.Place) {
	for _, p := range places {
		if p == nil {
			continue
		}
		a.received++
		a.results.Set(p.URL, p)
	}
}

// Len returns the number of unique identifiers seen so far.
func (a *Aggregator) Len() int {
	return a.results.Len()
}

// Outcome partitions the deduplicated results into success and failure sets.
func (a *Aggregator) Outcome(elapsed time.Duration) *Outcome {
	out := &Outcome{
		Received: a.received,
		Elapsed:  elapsed,
	}

	seen := map[string]struct{}{models.ColumnURL: {}}
	for pair := a.results.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value
		if p.Failed() {
			out.Failed = append(out.Failed, p)
			continue
		}
		out.Succeeded = append(out.Succeeded, p)
		for f := range p.Fields {
			seen[string(f)] = struct{}{}
		}
	}

	out.Columns = make([]string, 0, len(seen))
	for c := range seen {
		out.Columns = append(out.Columns, c)
	}
	sort.Strings(out.Columns)
	return out
}
