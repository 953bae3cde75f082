package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Kentroth/instasheets-replacement/internal/sheets"
)

// TemplateTab is the reserved worksheet every date tab is cloned from. It is
// never written to and never pruned.
const TemplateTab = "template"

// Destination is the slice of the spreadsheet API the synchronizer needs.
// *sheets.Client satisfies it; tests use a fake.
type Destination interface {
	Tabs(ctx context.Context) ([]sheets.Tab, error)
	Clear(ctx context.Context, title string) error
	Write(ctx context.Context, title string, values [][]interface{}) error
	Duplicate(ctx context.Context, sheetID int64, title string) (int64, error)
	BatchDelete(ctx context.Context, sheetIDs []int64) error
}

// Syncer mirrors date buckets into destination tabs: ensure every tab exists
// first, then upload in date order, then prune stale tabs.
type Syncer struct {
	dst           Destination
	retentionDays int
	attempts      int
	backoff       time.Duration
	pause         time.Duration

	sleep func(time.Duration)
}

func NewSyncer(dst Destination, retentionDays, attempts int, backoff, pause time.Duration) *Syncer {
	return &Syncer{
		dst:           dst,
		retentionDays: retentionDays,
		attempts:      attempts,
		backoff:       backoff,
		pause:         pause,
		sleep:         time.Sleep,
	}
}

// EnsureTabs clones the template for every date that has no tab yet, before
// any upload starts, so upload order never depends on creation order. It
// returns the set of dates whose tab exists afterwards. A missing template
// is a degraded state: creation is skipped with a log line and the run
// continues with whatever tabs already exist.
func (s *Syncer) EnsureTabs(ctx context.Context, dates []string) (map[string]bool, error) {
	tabs, err := s.dst.Tabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destination tabs: %w", err)
	}

	existing := make(map[string]bool, len(tabs))
	var templateID int64
	templateFound := false
	for _, t := range tabs {
		existing[t.Title] = true
		if t.Title == TemplateTab {
			templateID = t.ID
			templateFound = true
		}
	}

	ready := make(map[string]bool, len(dates))
	for _, date := range dates {
		if existing[date] {
			ready[date] = true
			continue
		}
		if !templateFound {
			log.Printf("sheets: template tab not found, cannot create tab %q", date)
			continue
		}
		log.Printf("sheets: tab %q not found, duplicating template", date)
		if _, err := s.dst.Duplicate(ctx, templateID, date); err != nil {
			log.Printf("sheets: failed to create tab %q: %v", date, err)
			continue
		}
		ready[date] = true
	}
	return ready, nil
}

// Upload replaces a tab's contents with the header plus the bucket's rows.
// Rate-limit rejections are retried up to the attempt bound with a fixed
// backoff; any other error aborts the run.
func (s *Syncer) Upload(ctx context.Context, date string, rows []Row) error {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(Header))
	for _, row := range rows {
		values = append(values, toCells(row))
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := s.replaceTab(ctx, date, values)
		if err == nil {
			log.Printf("sheets: uploaded %d rows to tab %q", len(values), date)
			return nil
		}
		if !sheets.IsRateLimit(err) {
			return err
		}
		lastErr = err
		log.Printf("sheets: rate limit hit for %q (attempt %d/%d), retrying in %v", date, attempt, s.attempts, s.backoff)
		s.sleep(s.backoff)
	}
	return fmt.Errorf("upload to %q rate limited after %d attempts: %w", date, s.attempts, lastErr)
}

func (s *Syncer) replaceTab(ctx context.Context, title string, values [][]interface{}) error {
	if err := s.dst.Clear(ctx, title); err != nil {
		return err
	}
	return s.dst.Write(ctx, title, values)
}

// UploadAll writes every ready bucket in ascending date order with a fixed
// pause between tabs. It returns tab and data-row counts.
func (s *Syncer) UploadAll(ctx context.Context, buckets Buckets, ready map[string]bool) (tabs, rows int, err error) {
	dates := buckets.Dates()
	for _, date := range dates {
		if !ready[date] {
			log.Printf("sheets: skipping upload for %q, tab unavailable", date)
			continue
		}
		if tabs > 0 {
			s.sleep(s.pause)
		}
		if err := s.Upload(ctx, date, buckets[date]); err != nil {
			return tabs, rows, err
		}
		tabs++
		rows += len(buckets[date])
	}
	return tabs, rows, nil
}

// Prune batch-deletes every data tab whose date fell out of the retention
// window and is not part of this run's valid set. The template and tabs with
// non-date titles are untouched. Deletion is best effort: a failure is
// logged, not propagated.
func (s *Syncer) Prune(ctx context.Context, validDates []string, now time.Time) int {
	tabs, err := s.dst.Tabs(ctx)
	if err != nil {
		log.Printf("sheets: prune skipped, cannot list tabs: %v", err)
		return 0
	}

	valid := make(map[string]bool, len(validDates))
	for _, d := range validDates {
		valid[d] = true
	}
	cutoff := dateOnly(now).AddDate(0, 0, -s.retentionDays)

	var doomed []int64
	for _, t := range tabs {
		if t.Title == TemplateTab || valid[t.Title] {
			continue
		}
		d, err := time.Parse(canonicalLayout, t.Title)
		if err != nil {
			continue
		}
		if d.Before(cutoff) {
			log.Printf("sheets: pruning stale tab %q", t.Title)
			doomed = append(doomed, t.ID)
		}
	}

	if len(doomed) == 0 {
		return 0
	}
	if err := s.dst.BatchDelete(ctx, doomed); err != nil {
		log.Printf("sheets: prune failed: %v", err)
		return 0
	}
	return len(doomed)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
