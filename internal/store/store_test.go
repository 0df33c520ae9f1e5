package store

import (
	"context"
	"testing"
	"time"

	"github.com/tidebay/tidebay/internal/search"
	"github.com/tidebay/tidebay/internal/testutil"
	"github.com/tidebay/tidebay/internal/torrents"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(db.Close)
	return New(db.Conn, db.Logger)
}

func idQuery(preds ...search.Predicate) *search.RelationalQuery {
	return &search.RelationalQuery{Preds: preds, SortColumn: "t.id", Desc: true}
}

func TestCreateAndFetchTorrent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	uploader, err := st.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tor := &torrents.Torrent{
		DisplayName:    "archive volume one",
		Filesize:       1 << 30,
		UploaderID:     uploader,
		MainCategoryID: 1,
		SubCategoryID:  2,
		SeedCount:      12,
		LeechCount:     3,
		DownloadCount:  40,
		CreatedAt:      created,
	}
	id, err := st.CreateTorrent(ctx, tor)
	if err != nil {
		t.Fatalf("CreateTorrent: %v", err)
	}
	if id < 1 || tor.ID != id {
		t.Fatalf("CreateTorrent id = %d, struct id = %d", id, tor.ID)
	}

	items, err := st.Fetch(ctx, idQuery(), 10, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Fetch returned %d items, want 1", len(items))
	}

	got := items[0]
	if got.DisplayName != tor.DisplayName {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName, tor.DisplayName)
	}
	if got.UploaderID != uploader {
		t.Errorf("UploaderID = %d, want %d", got.UploaderID, uploader)
	}
	if got.SeedCount != 12 || got.LeechCount != 3 || got.DownloadCount != 40 {
		t.Errorf("statistics = %d/%d/%d, want 12/3/40",
			got.SeedCount, got.LeechCount, got.DownloadCount)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestFetchAnonymousUploaderStoredAsNull(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tor := &torrents.Torrent{
		DisplayName:    "orphan record",
		MainCategoryID: 1,
		SubCategoryID:  1,
	}
	if _, err := st.CreateTorrent(ctx, tor); err != nil {
		t.Fatalf("CreateTorrent: %v", err)
	}

	items, err := st.Fetch(ctx, idQuery(), 10, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].UploaderID != 0 {
		t.Errorf("UploaderID = %d, want 0 for NULL uploader", items[0].UploaderID)
	}
}

func TestFetchWindowAndOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tor := &torrents.Torrent{
			DisplayName:    "windowed record",
			MainCategoryID: 1,
			SubCategoryID:  1,
		}
		if _, err := st.CreateTorrent(ctx, tor); err != nil {
			t.Fatalf("CreateTorrent: %v", err)
		}
	}

	items, err := st.Fetch(ctx, idQuery(), 2, 2)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Fetch returned %d items, want 2", len(items))
	}
	// Descending ids 5..1; the second window holds 3 and 2.
	if items[0].ID != 3 || items[1].ID != 2 {
		t.Errorf("window ids = [%d %d], want [3 2]", items[0].ID, items[1].ID)
	}
}

func TestFetchFullTextPredicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	names := []string{
		"winter mountain expedition",
		"summer mountain hike",
		"winter city walk",
	}
	for _, name := range names {
		tor := &torrents.Torrent{
			DisplayName:    name,
			MainCategoryID: 1,
			SubCategoryID:  1,
		}
		if _, err := st.CreateTorrent(ctx, tor); err != nil {
			t.Fatalf("CreateTorrent: %v", err)
		}
	}

	q := idQuery(search.Predicate{
		Expr: "t.id IN (SELECT rowid FROM torrent_names WHERE torrent_names MATCH ?)",
		Args: []any{`"winter" AND "mountain"`},
	})
	items, err := st.Fetch(ctx, q, 10, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].DisplayName != "winter mountain expedition" {
		t.Errorf("match returned %d items, want the winter mountain record", len(items))
	}

	total, err := st.Count(ctx, q)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 1 {
		t.Errorf("Count = %d, want 1", total)
	}
}

func TestCountMatchesFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		flags := 0
		if i%2 == 0 {
			flags = torrents.FlagHidden
		}
		tor := &torrents.Torrent{
			DisplayName:    "counted record",
			Flags:          flags,
			MainCategoryID: 1,
			SubCategoryID:  1,
		}
		if _, err := st.CreateTorrent(ctx, tor); err != nil {
			t.Fatalf("CreateTorrent: %v", err)
		}
	}

	q := idQuery(search.Predicate{Expr: "(t.flags & ?) = 0", Args: []any{torrents.FlagHidden}})
	total, err := st.Count(ctx, q)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 2 {
		t.Errorf("Count = %d, want 2", total)
	}
}

func TestUserExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	ok, err := st.UserExists(ctx, id)
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if !ok {
		t.Error("UserExists = false for an existing user")
	}

	ok, err = st.UserExists(ctx, id+100)
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if ok {
		t.Error("UserExists = true for a missing user")
	}
}
