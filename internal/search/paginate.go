package search

import (
	"context"
	"time"

	"github.com/tidebay/tidebay/internal/torrents"
)

// Result is a uniform paged listing, regardless of which backend produced
// it.
type Result struct {
	Items      []torrents.Torrent `json:"items"`
	Page       int                `json:"page"`
	PerPage    int                `json:"perPage"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"totalPages"`
}

// HasPrev reports whether there is a page before this one.
func (r *Result) HasPrev() bool { return r.Page > 1 }

// HasNext reports whether there is a page after this one.
func (r *Result) HasNext() bool { return r.Page < r.TotalPages }

// First returns the 1-based ordinal of the first item on the page, or 0 if
// the page is empty.
func (r *Result) First() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	return int64(r.Page-1)*int64(r.PerPage) + 1
}

// Last returns the 1-based ordinal of the last item on the page, inclusive,
// or 0 if the page is empty.
func (r *Result) Last() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	last := int64(r.Page) * int64(r.PerPage)
	if last > r.Total {
		return r.Total
	}
	return last
}

// Paginator shapes backend results into uniform paged listings, applying
// the result cap policy and consulting the count cache when one is
// configured.
type Paginator struct {
	cache    *CountCache
	cacheTTL time.Duration
}

// NewPaginator creates a paginator. cache may be nil to disable count
// caching.
func NewPaginator(cache *CountCache, cacheTTL time.Duration) *Paginator {
	return &Paginator{cache: cache, cacheTTL: cacheTTL}
}

// CheckPage validates a requested page number against the cap policy before
// any query executes. Privileged viewers (admins, owners viewing their own
// listing) bypass the cap.
func (p *Paginator) CheckPage(page, maxPage int, privileged bool) error {
	if page < 1 {
		return NewNotFoundError("page out of range")
	}
	if maxPage > 0 && !privileged && page > maxPage {
		return NewPageLimitError(maxPage)
	}
	return nil
}

// Assemble shapes fetched items plus a total into a Result. The total is
// clamped to the page cap for unprivileged viewers and never reported below
// the number of items actually returned, which defends against a stale
// cached undercount. An empty page other than page 1 is a not-found
// condition.
func (p *Paginator) Assemble(items []torrents.Torrent, total int64, page, perPage, maxPage int, privileged bool) (*Result, error) {
	if maxPage > 0 && !privileged {
		if capped := int64(maxPage) * int64(perPage); total > capped {
			total = capped
		}
	}
	if n := int64(len(items)); total < n {
		total = n
	}

	if len(items) == 0 && page != 1 {
		return nil, NewNotFoundError("page out of range")
	}
	if items == nil {
		items = []torrents.Torrent{}
	}

	return &Result{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pageCount(total, perPage),
	}, nil
}

// Feed shapes a feed (RSS-style) listing: first-page items only, no total
// computed.
func (p *Paginator) Feed(items []torrents.Torrent, perPage int) *Result {
	if items == nil {
		items = []torrents.Torrent{}
	}
	return &Result{
		Items:   items,
		Page:    1,
		PerPage: perPage,
		Total:   int64(len(items)),
	}
}

// Count returns the number of records matching the count function,
// consulting the cache when configured. Cache misses fall through to a live
// count; the cache never becomes a correctness dependency.
func (p *Paginator) Count(ctx context.Context, key string, count func(context.Context) (int64, error)) (int64, error) {
	if p.cache == nil || p.cacheTTL <= 0 {
		return count(ctx)
	}
	if total, ok := p.cache.Get(key); ok {
		return total, nil
	}
	total, err := count(ctx)
	if err != nil {
		return 0, err
	}
	p.cache.Put(key, total, p.cacheTTL)
	return total, nil
}

// pageCount computes the number of pages a total spans.
func pageCount(total int64, perPage int) int {
	if perPage == 0 || total == 0 {
		return 0
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	if pages < 1 {
		pages = 1
	}
	return int(pages)
}
