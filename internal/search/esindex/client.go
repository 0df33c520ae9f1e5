// Package esindex implements the index-store collaborator over the HTTP
// search API of the full-text index engine.
package esindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidebay/tidebay/internal/config"
	"github.com/tidebay/tidebay/internal/search"
	"github.com/tidebay/tidebay/internal/torrents"
)

var (
	ErrNotConfigured = errors.New("index engine URL is not configured")
	ErrEngine        = errors.New("index engine error")
)

// Client talks to the index engine's _search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	index      string
	logger     zerolog.Logger
}

// NewClient creates a new index client.
func NewClient(cfg config.ElasticConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		baseURL: cfg.URL,
		index:   cfg.Index,
		logger:  logger.With().Str("component", "esindex").Logger(),
	}
}

// torrentDoc is an indexed torrent document.
type torrentDoc struct {
	ID             int64  `json:"id"`
	DisplayName    string `json:"display_name"`
	Filesize       int64  `json:"filesize"`
	UploaderID     int64  `json:"uploader_id"`
	MainCategoryID int    `json:"main_category_id"`
	SubCategoryID  int    `json:"sub_category_id"`
	CommentCount   int    `json:"comment_count"`
	SeedCount      int    `json:"seed_count"`
	LeechCount     int    `json:"leech_count"`
	DownloadCount  int    `json:"download_count"`
	Anonymous      bool   `json:"anonymous"`
	Hidden         bool   `json:"hidden"`
	Trusted        bool   `json:"trusted"`
	Remake         bool   `json:"remake"`
	Complete       bool   `json:"complete"`
	Deleted        bool   `json:"deleted"`
	CreatedTime    int64  `json:"created_time"`
}

// searchResponse is the subset of the engine's response the client needs.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source torrentDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search executes a structured query and returns ranked hits plus the
// engine's total-hits figure.
func (c *Client) Search(ctx context.Context, q *search.IndexQuery) (*search.IndexResult, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(buildBody(q))
	if err != nil {
		return nil, fmt.Errorf("failed to encode index query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Index engine returned an error")
		return nil, fmt.Errorf("%w: status %d", ErrEngine, resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode index response: %w", err)
	}

	result := &search.IndexResult{
		Total: decoded.Hits.Total.Value,
		Hits:  make([]torrents.Torrent, 0, len(decoded.Hits.Hits)),
	}
	for _, hit := range decoded.Hits.Hits {
		result.Hits = append(result.Hits, docToTorrent(hit.Source))
	}
	return result, nil
}

// buildBody wraps the builder's clause lists into a full search request
// body.
func buildBody(q *search.IndexQuery) map[string]any {
	boolQuery := map[string]any{}
	if len(q.Must) > 0 {
		boolQuery["must"] = q.Must
	}
	if len(q.MustNot) > 0 {
		boolQuery["must_not"] = q.MustNot
	}
	if len(q.Filter) > 0 {
		boolQuery["filter"] = q.Filter
	}

	order := "asc"
	if q.Desc {
		order = "desc"
	}

	body := map[string]any{
		"query":            map[string]any{"bool": boolQuery},
		"sort":             []any{map[string]any{q.SortField: map[string]any{"order": order}}},
		"from":             q.From,
		"size":             q.Size,
		"track_total_hits": true,
	}
	if q.Highlight {
		body["highlight"] = map[string]any{
			"tags_schema": "styled",
			"fields":      map[string]any{"display_name": map[string]any{}},
		}
	}
	return body
}

func docToTorrent(doc torrentDoc) torrents.Torrent {
	t := torrents.Torrent{
		ID:             doc.ID,
		DisplayName:    doc.DisplayName,
		Filesize:       doc.Filesize,
		UploaderID:     doc.UploaderID,
		MainCategoryID: doc.MainCategoryID,
		SubCategoryID:  doc.SubCategoryID,
		CommentCount:   doc.CommentCount,
		SeedCount:      doc.SeedCount,
		LeechCount:     doc.LeechCount,
		DownloadCount:  doc.DownloadCount,
	}
	if doc.CreatedTime > 0 {
		t.CreatedAt = time.Unix(doc.CreatedTime, 0).UTC()
	}
	t.SetFlag(torrents.FlagAnonymous, doc.Anonymous)
	t.SetFlag(torrents.FlagHidden, doc.Hidden)
	t.SetFlag(torrents.FlagTrusted, doc.Trusted)
	t.SetFlag(torrents.FlagRemake, doc.Remake)
	t.SetFlag(torrents.FlagComplete, doc.Complete)
	t.SetFlag(torrents.FlagDeleted, doc.Deleted)
	return t
}
