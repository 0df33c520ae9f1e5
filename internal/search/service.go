package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidebay/tidebay/internal/category"
	"github.com/tidebay/tidebay/internal/config"
	"github.com/tidebay/tidebay/internal/torrents"
)

// RecordStore is the relational backend collaborator: it executes a
// composed filter/sort specification and a parallel count of the same
// filters.
type RecordStore interface {
	Fetch(ctx context.Context, q *RelationalQuery, limit, offset int) ([]torrents.Torrent, error)
	Count(ctx context.Context, q *RelationalQuery) (int64, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// IndexStore is the full-text index backend collaborator. The returned
// total may itself be capped by the index engine.
type IndexStore interface {
	Search(ctx context.Context, q *IndexQuery) (*IndexResult, error)
}

// IndexResult is one page of ranked hits plus the total-hits figure.
type IndexResult struct {
	Hits  []torrents.Torrent
	Total int64
}

// Service executes search requests against whichever backend is
// configured.
type Service struct {
	records   RecordStore
	index     IndexStore // nil when the index backend is disabled
	cats      *category.Taxonomy
	paginator *Paginator
	cfg       config.SearchConfig
	highlight bool
	logger    zerolog.Logger
}

// NewService creates a search service. index may be nil, in which case all
// searches run against the record store.
func NewService(records RecordStore, index IndexStore, cats *category.Taxonomy, cfg config.SearchConfig, highlight bool, logger zerolog.Logger) *Service {
	var cache *CountCache
	ttl := time.Duration(cfg.CountCacheTTL) * time.Second
	if ttl > 0 {
		cache = NewCountCache(cfg.CountCacheSize, ttl)
	}
	return &Service{
		records:   records,
		index:     index,
		cats:      cats,
		paginator: NewPaginator(cache, ttl),
		cfg:       cfg,
		highlight: highlight,
		logger:    logger.With().Str("component", "search").Logger(),
	}
}

// Search validates and executes a search request for the given viewer.
func (s *Service) Search(ctx context.Context, req Request, viewer Viewer) (*Result, error) {
	params, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	if params.TargetUserID > 0 {
		ok, err := s.records.UserExists(ctx, params.TargetUserID)
		if err != nil {
			return nil, NewBackendError("user lookup failed", err)
		}
		if !ok {
			return nil, NewNotFoundError("no such user")
		}
	}

	var parsed *ParsedTerm
	if params.Term != "" {
		p := ParseTerm(params.Term)
		parsed = &p
	}

	vis := ResolveVisibility(viewer, params.TargetUserID, params.Feed)
	privileged := viewer.Admin || (params.TargetUserID > 0 && viewer.ID == params.TargetUserID)

	s.logger.Debug().
		Str("term", params.Term).
		Int("page", params.Page).
		Bool("feed", params.Feed).
		Int64("targetUser", params.TargetUserID).
		Bool("indexBackend", s.index != nil).
		Msg("executing search")

	if s.index != nil {
		return s.searchIndex(ctx, params, parsed, vis, privileged)
	}
	return s.searchRelational(ctx, params, parsed, vis, privileged)
}

// searchIndex runs the request against the full-text index engine, which
// returns hits and total in a single round trip.
func (s *Service) searchIndex(ctx context.Context, params *Params, parsed *ParsedTerm, vis Visibility, privileged bool) (*Result, error) {
	q := BuildIndexQuery(params, parsed, vis, s.highlight)

	if params.Feed {
		q.From, q.Size = 0, s.feedLimit()
		res, err := s.index.Search(ctx, q)
		if err != nil {
			return nil, NewBackendError("index search failed", err)
		}
		return s.paginator.Feed(res.Hits, q.Size), nil
	}

	if err := s.paginator.CheckPage(params.Page, s.cfg.MaxPages, privileged); err != nil {
		return nil, err
	}

	// Slice the request window out of the capped result set. A page that
	// starts past the cap comes back empty and is reported out of range.
	from := (params.Page - 1) * params.PerPage
	to := params.Page * params.PerPage
	if s.cfg.MaxResults > 0 && to > s.cfg.MaxResults {
		to = s.cfg.MaxResults
	}
	q.From = from
	if to > from {
		q.Size = to - from
	}

	res, err := s.index.Search(ctx, q)
	if err != nil {
		return nil, NewBackendError("index search failed", err)
	}

	total := res.Total
	if s.cfg.MaxResults > 0 && total > int64(s.cfg.MaxResults) {
		total = int64(s.cfg.MaxResults)
	}
	return s.paginator.Assemble(res.Hits, total, params.Page, params.PerPage, s.cfg.MaxPages, privileged)
}

// searchRelational runs the request against the record store, counting
// separately (and through the count cache when enabled).
func (s *Service) searchRelational(ctx context.Context, params *Params, parsed *ParsedTerm, vis Visibility, privileged bool) (*Result, error) {
	q := BuildRelationalQuery(params, parsed, vis)

	if params.Feed {
		items, err := s.records.Fetch(ctx, q, s.feedLimit(), 0)
		if err != nil {
			return nil, NewBackendError("record fetch failed", err)
		}
		return s.paginator.Feed(items, s.feedLimit()), nil
	}

	if err := s.paginator.CheckPage(params.Page, s.cfg.MaxPages, privileged); err != nil {
		return nil, err
	}

	total, err := s.paginator.Count(ctx, q.CountKey(), func(ctx context.Context) (int64, error) {
		return s.records.Count(ctx, q)
	})
	if err != nil {
		return nil, NewBackendError("record count failed", err)
	}

	items, err := s.records.Fetch(ctx, q, params.PerPage, (params.Page-1)*params.PerPage)
	if err != nil {
		return nil, NewBackendError("record fetch failed", err)
	}

	return s.paginator.Assemble(items, total, params.Page, params.PerPage, s.cfg.MaxPages, privileged)
}

// normalize validates a raw request and applies defaults, producing the
// Params consumed by the builders.
func (s *Service) normalize(req Request) (*Params, error) {
	p := &Params{
		Term:         strings.TrimSpace(req.Term),
		Feed:         req.Feed,
		TargetUserID: req.TargetUserID,
	}

	sortKey := strings.ToLower(req.Sort)
	if sortKey == "" {
		sortKey = "id"
	}
	if _, ok := sortFields[sortKey]; !ok {
		return nil, NewValidationError("unknown sort key " + req.Sort)
	}
	p.SortKey = sortKey

	switch strings.ToLower(req.Order) {
	case "", "desc":
		p.Desc = true
	case "asc":
		p.Desc = false
	default:
		return nil, NewValidationError("unknown sort order " + req.Order)
	}

	// Feeds always list newest first, whatever was asked for.
	if p.Feed {
		p.SortKey = "id"
		p.Desc = true
	}

	quality, err := ParseQualityFilter(req.Quality)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	p.Quality = quality

	if req.Category != "" {
		mainID, subID, err := category.ParseSpec(req.Category)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		if mainID == 0 && subID != 0 {
			return nil, NewValidationError("sub-category requires a main category")
		}
		if err := s.cats.Resolve(mainID, subID); err != nil {
			return nil, NewValidationError(err.Error())
		}
		p.MainCategory, p.SubCategory = mainID, subID
	}

	p.Page = req.Page
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page > MaxPageNumber {
		return nil, NewValidationError("page number out of bounds")
	}

	p.PerPage = req.PerPage
	if p.PerPage <= 0 {
		p.PerPage = s.cfg.PerPage
	}
	if s.cfg.MaxPerPage > 0 && p.PerPage > s.cfg.MaxPerPage {
		p.PerPage = s.cfg.MaxPerPage
	}

	return p, nil
}

// feedLimit returns the number of items a feed view serves.
func (s *Service) feedLimit() int {
	if s.cfg.FeedLimit > 0 {
		return s.cfg.FeedLimit
	}
	return s.cfg.PerPage
}
