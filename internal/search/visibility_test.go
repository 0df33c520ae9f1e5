package search

import "testing"

func TestResolveVisibility(t *testing.T) {
	tests := []struct {
		name       string
		viewer     Viewer
		targetUser int64
		feed       bool
		want       Visibility
	}{
		{
			name:   "admin sees everything",
			viewer: Viewer{ID: 9, Admin: true},
			want:   Visibility{},
		},
		{
			name:       "admin sees everything on target listings too",
			viewer:     Viewer{ID: 9, Admin: true},
			targetUser: 2,
			want:       Visibility{},
		},
		{
			name:   "anonymous general view hides hidden",
			viewer: Viewer{},
			want:   Visibility{ExcludeDeleted: true, ExcludeHidden: true},
		},
		{
			name:   "logged-in general view sees own hidden records",
			viewer: Viewer{ID: 5},
			want:   Visibility{ExcludeDeleted: true, HiddenUnlessOwnerID: 5},
		},
		{
			name:   "logged-in feed falls back to public only",
			viewer: Viewer{ID: 5},
			feed:   true,
			want:   Visibility{ExcludeDeleted: true, ExcludeHidden: true},
		},
		{
			name:       "own listing shows hidden and anonymous",
			viewer:     Viewer{ID: 5},
			targetUser: 5,
			want:       Visibility{ExcludeDeleted: true},
		},
		{
			name:       "own listing feed still hides hidden and anonymous",
			viewer:     Viewer{ID: 5},
			targetUser: 5,
			feed:       true,
			want:       Visibility{ExcludeDeleted: true, ExcludeHidden: true, ExcludeAnonymous: true},
		},
		{
			name:       "someone else's listing hides hidden and anonymous",
			viewer:     Viewer{ID: 5},
			targetUser: 2,
			want:       Visibility{ExcludeDeleted: true, ExcludeHidden: true, ExcludeAnonymous: true},
		},
		{
			name:       "anonymous viewer on a listing hides hidden and anonymous",
			viewer:     Viewer{},
			targetUser: 2,
			want:       Visibility{ExcludeDeleted: true, ExcludeHidden: true, ExcludeAnonymous: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVisibility(tt.viewer, tt.targetUser, tt.feed)
			if got != tt.want {
				t.Errorf("ResolveVisibility = %+v, want %+v", got, tt.want)
			}
		})
	}
}
