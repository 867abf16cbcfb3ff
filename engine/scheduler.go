package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// Extractor produces exactly one result per target.
type Extractor interface {
	Extract(ctx context.Context, target string) *models.Place
}

// Scheduler runs targets in fixed-size batches. Every target of a batch is
// launched concurrently (the extractor's limiter bounds how many actually
// run), and the next batch starts only after all of them have returned.
// Batches therefore never overlap in time.
type Scheduler struct {
	extractor Extractor
	batchSize int
	logger    *slog.Logger
}

// NewScheduler creates a Scheduler. batchSize < 1 is treated as 1.
func NewScheduler(ex Extractor, batchSize int, logger *slog.Logger) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		extractor: ex,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Batches cuts targets into contiguous slices of at most size entries.
func Batches(targets []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	batches := make([][]string, 0, (len(targets)+size-1)/size)
	for i := 0; i < len(targets); i += size {
		batches = append(batches, targets[i:min(i+size, len(targets))])
	}
	return batches
}

// Run processes all targets and returns the reconciled outcome.
func (s *Scheduler) Run(ctx context.Context, targets []string) *Outcome {
	start := time.Now()
	agg := NewAggregator()
	s.RunInto(ctx, targets, agg)
	return agg.Outcome(time.Since(start))
}

// RunInto processes all targets, merging each batch into agg once the batch
// has fully completed.
func (s *Scheduler) RunInto(ctx context.Context, targets []string, agg *Aggregator) {
	batches := Batches(targets, s.batchSize)
	for i, batch := range batches {
		s.logger.Info("processing batch",
			"batch", i+1,
			"of", len(batches),
			"size", len(batch),
		)
		// Merging after the barrier keeps the aggregator single-threaded.
		agg.Add(s.RunBatch(ctx, batch)...)
	}
}

// RunBatch launches one extraction per target and waits for all of them.
// Results are returned in completion order.
func (s *Scheduler) RunBatch(ctx context.Context, batch []string) []*models.Place {
	results := make(chan *models.Place, len(batch))
	var wg sync.WaitGroup

	for _, target := range batch {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			results <- s.extractOne(ctx, target)
		}(target)
	}

	wg.Wait()
	close(results)

	out := make([]*models.Place, 0, len(batch))
	for p := range results {
		out = append(out, p)
	}
	return out
}

// extractOne guarantees a result for the target even if the extractor
// misbehaves.
func (s *Scheduler) extractOne(ctx context.Context, target string) (place *models.Place) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extraction panicked", "url", target, "panic", r)
			place = models.NewFailedPlace(target, models.FallbackLabel(target),
				models.NewScrapeError(models.ErrCodeBrowserCrash, fmt.Sprintf("extraction panicked: %v", r), nil))
		}
	}()

	place = s.extractor.Extract(ctx, target)
	if place == nil {
		place = models.NewFailedPlace(target, models.FallbackLabel(target),
			models.NewScrapeError(models.ErrCodeNavigation, "extractor returned no result", nil))
	}
	return place
}
