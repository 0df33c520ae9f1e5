package search

// The index-variant query builder. It emits the clause lists of an index
// engine bool query (must / must_not / filter) as wire-shaped maps; the
// index store client is responsible for wrapping them into a request body.

// fullwordMinLen is the word length above which the secondary fullword
// field starts matching. Tuning constant, mirrored in the index mapping.
const fullwordMinLen = 15

// IndexQuery is a structured query against the full-text index engine.
type IndexQuery struct {
	Must    []map[string]any
	MustNot []map[string]any
	Filter  []map[string]any

	SortField string
	Desc      bool
	From      int
	Size      int
	Highlight bool
}

// phraseMatch returns an exact phrase-match clause on the display name for
// a quoted literal.
func phraseMatch(literal string) map[string]any {
	return map[string]any{
		"match_phrase": map[string]any{
			"display_name.exact": map[string]any{
				"query":    literal,
				"analyzer": "exact_analyzer",
			},
		},
	}
}

// phraseAlternatives returns a should-block matching any of the group's
// alternative literals.
func phraseAlternatives(group PhraseGroup) map[string]any {
	should := make([]any, 0, len(group.Alternatives))
	for _, alt := range group.Alternatives {
		should = append(should, phraseMatch(alt))
	}
	return map[string]any{
		"bool": map[string]any{"should": should},
	}
}

// termFilter returns an exact term filter clause.
func termFilter(field string, value any) map[string]any {
	return map[string]any{
		"term": map[string]any{field: value},
	}
}

// residualMatch returns the general full-text clause for the unquoted
// remainder of the search terms.
func residualMatch(text string) map[string]any {
	return map[string]any{
		"simple_query_string": map[string]any{
			// Query both fields, latter for words with >fullwordMinLen chars
			"fields":           []string{"display_name", "display_name.fullword"},
			"analyzer":         "my_search_analyzer",
			"default_operator": "AND",
			"query":            text,
		},
	}
}

// BuildIndexQuery translates a normalized request into an index engine
// query implementing the same category, quality and visibility filtering as
// the relational builder. parsed may be nil when the request has no term.
func BuildIndexQuery(p *Params, parsed *ParsedTerm, vis Visibility, highlight bool) *IndexQuery {
	q := &IndexQuery{
		SortField: sortFields[p.SortKey].index,
		Desc:      p.Desc,
		Highlight: highlight,
	}

	if parsed != nil && !parsed.Empty() {
		for _, lit := range parsed.Required {
			q.Must = append(q.Must, phraseMatch(lit))
		}
		for _, lit := range parsed.Excluded {
			q.MustNot = append(q.MustNot, phraseMatch(lit))
		}
		for _, group := range parsed.Groups {
			if group.Negated {
				q.MustNot = append(q.MustNot, phraseAlternatives(group))
			} else {
				q.Must = append(q.Must, phraseAlternatives(group))
			}
		}
		if parsed.Residual != "" {
			q.Must = append(q.Must, residualMatch(parsed.Residual))
		}
	}

	if p.TargetUserID > 0 {
		q.Filter = append(q.Filter, termFilter("uploader_id", p.TargetUserID))
	}
	if vis.ExcludeDeleted {
		q.Filter = append(q.Filter, termFilter("deleted", false))
	}
	if vis.ExcludeHidden {
		q.Filter = append(q.Filter, termFilter("hidden", false))
	}
	if vis.ExcludeAnonymous {
		q.Filter = append(q.Filter, termFilter("anonymous", false))
	}
	if vis.HiddenUnlessOwnerID > 0 {
		q.Filter = append(q.Filter, map[string]any{
			"bool": map[string]any{
				"should": []any{
					termFilter("hidden", false),
					termFilter("uploader_id", vis.HiddenUnlessOwnerID),
				},
			},
		})
	}

	if p.MainCategory > 0 {
		q.Filter = append(q.Filter, termFilter("main_category_id", p.MainCategory))
		if p.SubCategory > 0 {
			q.Filter = append(q.Filter, termFilter("sub_category_id", p.SubCategory))
		}
	}

	switch p.Quality {
	case QualityNoRemakes:
		q.Filter = append(q.Filter, termFilter("remake", false))
	case QualityTrusted:
		q.Filter = append(q.Filter, termFilter("trusted", true))
	case QualityComplete:
		q.Filter = append(q.Filter, termFilter("complete", true))
	}

	return q
}
