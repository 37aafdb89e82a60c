package history

import (
	"strings"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

// Filter keeps records where any field contains term, ignoring case.
// Order is preserved; an empty term keeps everything.
func Filter(records []models.HistoryRecord, term string) []models.HistoryRecord {
	lower := strings.ToLower(term)
	if lower == "" {
		return records
	}

	out := make([]models.HistoryRecord, 0, len(records))
	for _, r := range records {
		if r.Matches(lower) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns the page-th slice of size rows. Out of range pages are
// empty.
func Paginate(records []models.HistoryRecord, page, size int) []models.HistoryRecord {
	if size <= 0 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(records) {
		return []models.HistoryRecord{}
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// LastPage is the highest page index that shows at least one row, or zero.
func LastPage(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count - 1) / size
}
