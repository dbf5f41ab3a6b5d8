package application

import (
	"fmt"
	"strings"

	"github.com/imagevault/imagevault/catalog/domain"
)

// Page is one slice of a listing or search result. TotalCount is the size of
// the full matching set before slicing, so callers can compute page counts.
type Page struct {
	Items      []*domain.ImageRecord
	TotalCount int
	PageNumber int
	PageSize   int
}

// TotalPages returns the number of pages the full result set spans.
func (p *Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// validatePageArgs rejects pagination parameters that would make the page
// math dishonest upstream; nothing is clamped silently.
func validatePageArgs(page, pageSize int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative", domain.ErrInvalidArgument)
	}
	if pageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

// paginate slices an already-ordered result set. Arguments must have been
// validated with validatePageArgs.
func paginate(images []*domain.ImageRecord, page, pageSize int) *Page {
	total := len(images)

	start := page * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Page{
		Items:      images[start:end],
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
	}
}

// filterByQuery keeps the records matching the query. An empty or
// whitespace-only query matches everything. Matching is a case-insensitive
// OR-substring over title, description, and tag names; owner usernames join
// in only for catalog-wide queries. Ordering is untouched: matches stay
// newest first, with no relevance ranking.
func filterByQuery(images []*domain.ImageRecord, query string, includeOwner bool) []*domain.ImageRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return images
	}

	matched := make([]*domain.ImageRecord, 0, len(images))
	for _, img := range images {
		if matchesQuery(img, q, includeOwner) {
			matched = append(matched, img)
		}
	}
	return matched
}

func matchesQuery(img *domain.ImageRecord, q string, includeOwner bool) bool {
	if strings.Contains(strings.ToLower(img.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(img.Description), q) {
		return true
	}
	for _, tag := range img.Tags {
		// Tag names are stored normalized (already lower-case).
		if strings.Contains(tag.Name, q) {
			return true
		}
	}
	if includeOwner && strings.Contains(strings.ToLower(img.OwnerName), q) {
		return true
	}
	return false
}
