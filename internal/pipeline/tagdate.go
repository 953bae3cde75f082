package pipeline

import (
	"regexp"
	"strings"
	"time"
)

// Order tags carry the fulfillment date as free text, e.g.
// "03-07-2025, corporate, rush". The pattern tolerates slashes too.
var tagDatePattern = regexp.MustCompile(`\d{2}[-/]\d{2}[-/]\d{4}`)

// ExtractTagDate scans an order's comma-separated tag string, in tag order,
// for the first tag containing a parseable MM-DD-YYYY (or MM/DD/YYYY) date.
// A tag whose date-like substring fails to parse (say "13-45-2025") does not
// stop the scan; later tags are still considered. The second return is false
// when no tag yields a date.
func ExtractTagDate(tags string) (time.Time, bool) {
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		for _, m := range tagDatePattern.FindAllString(tag, -1) {
			d, err := time.Parse("01-02-2006", strings.ReplaceAll(m, "/", "-"))
			if err != nil {
				continue
			}
			return d, true
		}
	}
	return time.Time{}, false
}
