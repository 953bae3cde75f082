package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// canonicalLayout is the bucket key and destination tab title format.
const canonicalLayout = "2006-01-02"

var errEmptyDate = errors.New("empty fulfillment date")

// CanonicalDate resolves a raw fulfillment date to the YYYY-MM-DD bucket
// key. Slashes are normalized to hyphens; year-first is tried before
// month-first. An unresolvable value is a per-record condition the caller
// skips, never a run failure.
func CanonicalDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyDate
	}
	norm := strings.ReplaceAll(raw, "/", "-")
	for _, layout := range []string{canonicalLayout, "01-02-2006"} {
		if d, err := time.Parse(layout, norm); err == nil {
			return d.Format(canonicalLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized fulfillment date %q", raw)
}

// Buckets groups formatted rows by canonical fulfillment date. Buckets live
// for a single run only.
type Buckets map[string][]Row

func (b Buckets) Add(date string, row Row) {
	b[date] = append(b[date], row)
}

// Dates returns the bucket keys in ascending order; uploads follow this
// ordering.
func (b Buckets) Dates() []string {
	dates := make([]string, 0, len(b))
	for d := range b {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
