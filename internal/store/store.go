// Package store implements the record-store collaborator on SQLite: it
// executes composed relational search queries and owns the seed operations
// used to populate the index.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidebay/tidebay/internal/search"
	"github.com/tidebay/tidebay/internal/torrents"
)

// Store provides torrent and user persistence.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New creates a new store.
func New(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

const torrentColumns = `t.id, t.display_name, t.filesize, t.flags,
	COALESCE(t.uploader_id, 0), t.main_category_id, t.sub_category_id,
	t.comment_count, COALESCE(s.seed_count, 0), COALESCE(s.leech_count, 0),
	COALESCE(s.download_count, 0), t.created_at`

const torrentFrom = ` FROM torrents t LEFT JOIN statistics s ON s.torrent_id = t.id`

// whereClause renders the query's predicate list once; the same clause and
// arguments serve both the item query and the count query.
func whereClause(q *search.RelationalQuery) (string, []any) {
	if len(q.Preds) == 0 {
		return "", nil
	}
	exprs := make([]string, len(q.Preds))
	var args []any
	for i, p := range q.Preds {
		exprs[i] = p.Expr
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

// Fetch returns one window of torrents matching the query, in its sort
// order.
func (s *Store) Fetch(ctx context.Context, q *search.RelationalQuery, limit, offset int) ([]torrents.Torrent, error) {
	where, args := whereClause(q)

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	// Secondary id ordering keeps pages stable when the sort column ties.
	query := "SELECT " + torrentColumns + torrentFrom + where +
		fmt.Sprintf(" ORDER BY %s %s, t.id DESC LIMIT ? OFFSET ?", q.SortColumn, dir)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("torrent query failed: %w", err)
	}
	defer rows.Close()

	var items []torrents.Torrent
	for rows.Next() {
		var t torrents.Torrent
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.DisplayName, &t.Filesize, &t.Flags,
			&t.UploaderID, &t.MainCategoryID, &t.SubCategoryID,
			&t.CommentCount, &t.SeedCount, &t.LeechCount, &t.DownloadCount,
			&createdAt); err != nil {
			return nil, fmt.Errorf("torrent scan failed: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		items = append(items, t)
	}
	return items, rows.Err()
}

// Count returns the exact number of torrents matching the query's filters.
func (s *Store) Count(ctx context.Context, q *search.RelationalQuery) (int64, error) {
	where, args := whereClause(q)

	var total int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+torrentFrom+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("torrent count failed: %w", err)
	}
	return total, nil
}

// UserExists reports whether a user id resolves to an account.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user lookup failed: %w", err)
	}
	return true, nil
}

// CreateUser inserts a user account and returns its id.
func (s *Store) CreateUser(ctx context.Context, username string, admin bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, admin) VALUES (?, ?)`, username, admin)
	if err != nil {
		return 0, fmt.Errorf("user insert failed: %w", err)
	}
	return res.LastInsertId()
}

// CreateTorrent inserts a torrent and its statistics row, returning the new
// id. A zero CreatedAt defaults to now; a zero UploaderID stores NULL.
func (s *Store) CreateTorrent(ctx context.Context, t *torrents.Torrent) (int64, error) {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var uploader any
	if t.UploaderID > 0 {
		uploader = t.UploaderID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO torrents (display_name, filesize, flags, uploader_id,
			main_category_id, sub_category_id, comment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.DisplayName, t.Filesize, t.Flags, uploader,
		t.MainCategoryID, t.SubCategoryID, t.CommentCount, createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("torrent insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO statistics (torrent_id, seed_count, leech_count, download_count)
		VALUES (?, ?, ?, ?)`,
		id, t.SeedCount, t.LeechCount, t.DownloadCount)
	if err != nil {
		return 0, fmt.Errorf("statistics insert failed: %w", err)
	}

	t.ID = id
	return id, nil
}
