package search

// Visibility is the record-visibility policy for one search call. Both query
// builders consult the same resolved policy, so the two backends always
// suppress the same records.
type Visibility struct {
	// ExcludeDeleted hides soft-deleted records. Never set for admins.
	ExcludeDeleted bool

	// ExcludeHidden and ExcludeAnonymous suppress hidden/anonymous records
	// unconditionally.
	ExcludeHidden    bool
	ExcludeAnonymous bool

	// HiddenUnlessOwnerID, when non-zero, shows hidden records only if they
	// were uploaded by this user. Used for logged-in general-view browsing.
	HiddenUnlessOwnerID int64
}

// ResolveVisibility computes the visibility policy for a viewer.
//
// Admins see everything. For everyone else deleted records are always
// hidden. In a target-user view (someone's listing page), hidden and
// anonymous records are visible only to the owner themselves, and never on
// feed views. In the general view, logged-in browser users see hidden
// records they own; anonymous viewers and feeds see only public records.
func ResolveVisibility(viewer Viewer, targetUserID int64, feed bool) Visibility {
	var vis Visibility
	if viewer.Admin {
		return vis
	}

	vis.ExcludeDeleted = true

	if targetUserID > 0 {
		if viewer.ID != targetUserID || feed {
			vis.ExcludeHidden = true
			vis.ExcludeAnonymous = true
		}
		return vis
	}

	if viewer.LoggedIn() && !feed {
		vis.HiddenUnlessOwnerID = viewer.ID
	} else {
		vis.ExcludeHidden = true
	}
	return vis
}
