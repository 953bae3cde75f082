package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/Kentroth/instasheets-replacement/internal/shopify"
)

// Source yields the run's order stream.
type Source interface {
	Orders(ctx context.Context) iter.Seq[shopify.Order]
}

// Stats summarizes one pipeline pass.
type Stats struct {
	Fetched     int // orders read from the source
	Matched     int // orders passing the tag-date filter
	Skipped     int // matched orders dropped for a bad fulfillment date
	TabsWritten int
	RowsWritten int
	Pruned      int
}

func (s Stats) String() string {
	return fmt.Sprintf("fetched=%d matched=%d skipped=%d tabs=%d rows=%d pruned=%d",
		s.Fetched, s.Matched, s.Skipped, s.TabsWritten, s.RowsWritten, s.Pruned)
}

// Runner sequences the full pass: stream, filter, format, bucket, then the
// ensure/upload/prune tab protocol.
type Runner struct {
	src             Source
	formatter       *Formatter
	syncer          *Syncer
	matchWindowDays int

	now func() time.Time
}

func NewRunner(src Source, formatter *Formatter, syncer *Syncer, matchWindowDays int) *Runner {
	return &Runner{
		src:             src,
		formatter:       formatter,
		syncer:          syncer,
		matchWindowDays: matchWindowDays,
		now:             time.Now,
	}
}

// Run executes one batch pass and returns its stats. Per-record problems are
// logged and skipped; destination failures outside the retryable rate-limit
// class abort the run.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	now := r.now()
	buckets := Buckets{}

	log.Println("Filtering matching orders...")
	for o := range r.src.Orders(ctx) {
		stats.Fetched++
		log.Printf("order #%d tags: %q", o.OrderNumber, o.Tags)

		if !InScope(o, now, r.matchWindowDays) {
			continue
		}
		stats.Matched++

		row := r.formatter.Format(o)
		date, err := CanonicalDate(row[colDate])
		if err != nil {
			stats.Skipped++
			log.Printf("skipping order #%d: %v", o.OrderNumber, err)
			continue
		}
		log.Printf("  match: order #%d for date %s", o.OrderNumber, date)
		buckets.Add(date, row)
	}
	log.Printf("Total matching orders: %d", stats.Matched)

	dates := buckets.Dates()

	log.Println("Ensuring destination tabs...")
	ready, err := r.syncer.EnsureTabs(ctx, dates)
	if err != nil {
		return stats, err
	}

	log.Println("Uploading to Google Sheets...")
	stats.TabsWritten, stats.RowsWritten, err = r.syncer.UploadAll(ctx, buckets, ready)
	if err != nil {
		return stats, err
	}

	log.Println("Pruning stale tabs...")
	stats.Pruned = r.syncer.Prune(ctx, dates, now)

	return stats, nil
}
