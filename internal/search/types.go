// Package search implements the listing and search core of the torrent
// index: term parsing, visibility rules, the index and relational query
// builders, pagination and count caching.
package search

import (
	"fmt"
	"math"
)

// MaxPageNumber is the absolute upper bound on requested page numbers.
const MaxPageNumber = math.MaxUint32

// QualityFilter selects the coarse trust/completeness classification.
type QualityFilter int

// Quality filter values, matching the wire values "0".."3".
const (
	QualityAny QualityFilter = iota
	QualityNoRemakes
	QualityTrusted
	QualityComplete
)

// ParseQualityFilter parses the wire form of a quality filter.
// An empty string means no filter.
func ParseQualityFilter(s string) (QualityFilter, error) {
	switch s {
	case "", "0":
		return QualityAny, nil
	case "1":
		return QualityNoRemakes, nil
	case "2":
		return QualityTrusted, nil
	case "3":
		return QualityComplete, nil
	default:
		return QualityAny, fmt.Errorf("unknown quality filter %q", s)
	}
}

// Viewer identifies who is performing the search. The zero value is an
// anonymous viewer.
type Viewer struct {
	ID    int64
	Admin bool
}

// LoggedIn reports whether the viewer is an authenticated user.
func (v Viewer) LoggedIn() bool { return v.ID > 0 }

// Request is a raw search request as received from the web layer.
type Request struct {
	Term         string
	Category     string // "main_sub" spec; empty means no filter
	Quality      string // "0".."3"; empty means no filter
	Sort         string
	Order        string
	Page         int
	PerPage      int
	Feed         bool
	TargetUserID int64
}

// Params is a validated, normalized search request consumed by the query
// builders.
type Params struct {
	Term         string
	MainCategory int
	SubCategory  int
	Quality      QualityFilter
	SortKey      string
	Desc         bool
	Page         int
	PerPage      int
	Feed         bool
	TargetUserID int64
}

// sortField maps a canonical sort key to its backend-native fields.
type sortField struct {
	index  string // index engine document field
	column string // relational sort column
}

var sortFields = map[string]sortField{
	"id":        {index: "id", column: "t.id"},
	"size":      {index: "filesize", column: "t.filesize"},
	"comments":  {index: "comment_count", column: "t.comment_count"},
	"seeders":   {index: "seed_count", column: "s.seed_count"},
	"leechers":  {index: "leech_count", column: "s.leech_count"},
	"downloads": {index: "download_count", column: "s.download_count"},
}
