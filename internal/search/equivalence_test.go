package search_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/tidebay/tidebay/internal/search"
	"github.com/tidebay/tidebay/internal/store"
	"github.com/tidebay/tidebay/internal/testutil"
	"github.com/tidebay/tidebay/internal/torrents"
)

// The two query builders must suppress exactly the same records for any
// combination of viewer, listing target and filters. The relational variant
// runs against a real database; the index variant's filter clauses are
// evaluated directly over the same fixtures.

func matchesFilters(tor *torrents.Torrent, filters []map[string]any) bool {
	for _, clause := range filters {
		if !matchesClause(tor, clause) {
			return false
		}
	}
	return true
}

func matchesClause(tor *torrents.Torrent, clause map[string]any) bool {
	if term, ok := clause["term"].(map[string]any); ok {
		for field, want := range term {
			return fieldEquals(tor, field, want)
		}
	}
	if boolClause, ok := clause["bool"].(map[string]any); ok {
		should, ok := boolClause["should"].([]any)
		if !ok {
			return false
		}
		for _, sub := range should {
			if matchesClause(tor, sub.(map[string]any)) {
				return true
			}
		}
		return false
	}
	return false
}

func fieldEquals(tor *torrents.Torrent, field string, want any) bool {
	switch field {
	case "uploader_id":
		return tor.UploaderID == want.(int64)
	case "deleted":
		return tor.Deleted() == want.(bool)
	case "hidden":
		return tor.Hidden() == want.(bool)
	case "anonymous":
		return tor.Anonymous() == want.(bool)
	case "remake":
		return tor.Remake() == want.(bool)
	case "trusted":
		return tor.Trusted() == want.(bool)
	case "complete":
		return tor.Complete() == want.(bool)
	case "main_category_id":
		return tor.MainCategoryID == want.(int)
	case "sub_category_id":
		return tor.SubCategoryID == want.(int)
	default:
		return false
	}
}

func TestBackendFilterEquivalence(t *testing.T) {
	db := testutil.NewTestDB(t)
	t.Cleanup(db.Close)
	st := store.New(db.Conn, db.Logger)
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	bob, err := st.CreateUser(ctx, "bob", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	flagSets := []int{
		0,
		torrents.FlagHidden,
		torrents.FlagAnonymous,
		torrents.FlagHidden | torrents.FlagAnonymous,
		torrents.FlagRemake,
		torrents.FlagTrusted,
		torrents.FlagComplete,
		torrents.FlagDeleted,
		torrents.FlagHidden | torrents.FlagTrusted,
		torrents.FlagDeleted | torrents.FlagHidden,
	}
	categories := []struct{ main, sub int }{{1, 1}, {1, 2}, {2, 1}}

	var fixtures []torrents.Torrent
	n := 0
	for _, uploader := range []int64{alice, bob} {
		for _, flags := range flagSets {
			cat := categories[n%len(categories)]
			tor := torrents.Torrent{
				DisplayName:    fmt.Sprintf("fixture %d", n),
				UploaderID:     uploader,
				Flags:          flags,
				MainCategoryID: cat.main,
				SubCategoryID:  cat.sub,
			}
			if _, err := st.CreateTorrent(ctx, &tor); err != nil {
				t.Fatalf("CreateTorrent: %v", err)
			}
			fixtures = append(fixtures, tor)
			n++
		}
	}

	viewers := map[string]search.Viewer{
		"anonymous": {},
		"alice":     {ID: alice},
		"admin":     {ID: 99, Admin: true},
	}
	qualities := []search.QualityFilter{
		search.QualityAny, search.QualityNoRemakes,
		search.QualityTrusted, search.QualityComplete,
	}
	catSpecs := []struct{ main, sub int }{{0, 0}, {1, 0}, {1, 2}}

	for viewerName, viewer := range viewers {
		for _, target := range []int64{0, bob} {
			for _, feed := range []bool{false, true} {
				for _, quality := range qualities {
					for _, cat := range catSpecs {
						name := fmt.Sprintf("%s/u=%d/feed=%v/q=%d/c=%d_%d",
							viewerName, target, feed, quality, cat.main, cat.sub)
						t.Run(name, func(t *testing.T) {
							params := &search.Params{
								SortKey:      "id",
								Desc:         true,
								MainCategory: cat.main,
								SubCategory:  cat.sub,
								Quality:      quality,
								TargetUserID: target,
							}
							vis := search.ResolveVisibility(viewer, target, feed)

							rq := search.BuildRelationalQuery(params, nil, vis)
							items, err := st.Fetch(ctx, rq, len(fixtures)+1, 0)
							if err != nil {
								t.Fatalf("Fetch: %v", err)
							}
							relational := itemIDs(items)
							sort.Slice(relational, func(i, j int) bool { return relational[i] < relational[j] })

							iq := search.BuildIndexQuery(params, nil, vis, false)
							var index []int64
							for i := range fixtures {
								if matchesFilters(&fixtures[i], iq.Filter) {
									index = append(index, fixtures[i].ID)
								}
							}

							if len(relational) != len(index) {
								t.Fatalf("relational ids %v, index ids %v", relational, index)
							}
							for i := range relational {
								if relational[i] != index[i] {
									t.Fatalf("relational ids %v, index ids %v", relational, index)
								}
							}

							count, err := st.Count(ctx, rq)
							if err != nil {
								t.Fatalf("Count: %v", err)
							}
							if count != int64(len(relational)) {
								t.Errorf("Count = %d, want %d", count, len(relational))
							}
						})
					}
				}
			}
		}
	}
}
