package search

import (
	"fmt"
	"strings"

	"github.com/tidebay/tidebay/internal/torrents"
)

// The relational-variant query builder. It emits a single predicate list
// that the record store applies identically to the item query and the count
// query, replacing the need to mirror every filter onto two query objects.

// minTokenLen is the shortest residual token worth a full-text predicate.
// Tuning constant inherited from the tokenizer the index engine uses.
const minTokenLen = 2

// Predicate is one SQL condition with its bind arguments.
type Predicate struct {
	Expr string
	Args []any
}

// RelationalQuery is a composed filter/sort specification for the record
// store. Predicates reference the torrents table as t and the statistics
// table as s.
type RelationalQuery struct {
	Preds      []Predicate
	SortColumn string
	Desc       bool
}

// CountKey fingerprints the count query's shape for the count cache. The
// sort column is excluded: ordering does not change the count.
func (q *RelationalQuery) CountKey() string {
	var b strings.Builder
	for _, p := range q.Preds {
		b.WriteString(p.Expr)
		for _, a := range p.Args {
			fmt.Fprintf(&b, "|%v", a)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// BuildRelationalQuery translates a normalized request into record store
// predicates. parsed may be nil when the request has no term.
func BuildRelationalQuery(p *Params, parsed *ParsedTerm, vis Visibility) *RelationalQuery {
	q := &RelationalQuery{
		SortColumn: sortFields[p.SortKey].column,
		Desc:       p.Desc,
	}
	add := func(expr string, args ...any) {
		q.Preds = append(q.Preds, Predicate{Expr: expr, Args: args})
	}

	if p.TargetUserID > 0 {
		add("t.uploader_id = ?", p.TargetUserID)
	}
	if vis.ExcludeDeleted {
		add("(t.flags & ?) = 0", torrents.FlagDeleted)
	}
	switch {
	case vis.ExcludeHidden && vis.ExcludeAnonymous:
		add("(t.flags & ?) = 0", torrents.FlagHidden|torrents.FlagAnonymous)
	case vis.ExcludeHidden:
		add("(t.flags & ?) = 0", torrents.FlagHidden)
	}
	if vis.HiddenUnlessOwnerID > 0 {
		add("((t.flags & ?) = 0 OR t.uploader_id = ?)", torrents.FlagHidden, vis.HiddenUnlessOwnerID)
	}

	if p.MainCategory > 0 {
		add("t.main_category_id = ?", p.MainCategory)
		if p.SubCategory > 0 {
			add("t.sub_category_id = ?", p.SubCategory)
		}
	}

	switch p.Quality {
	case QualityNoRemakes:
		add("(t.flags & ?) = 0", torrents.FlagRemake)
	case QualityTrusted:
		add("(t.flags & ?) != 0", torrents.FlagTrusted)
	case QualityComplete:
		add("(t.flags & ?) != 0", torrents.FlagComplete)
	}

	if parsed != nil && !parsed.Empty() {
		if match := matchExpression(parsed); match != "" {
			add("t.id IN (SELECT rowid FROM torrent_names WHERE torrent_names MATCH ?)", match)
		}
		for _, lit := range parsed.Excluded {
			add("t.id NOT IN (SELECT rowid FROM torrent_names WHERE torrent_names MATCH ?)", ftsPhrase(lit))
		}
		for _, group := range parsed.Groups {
			if group.Negated {
				add("t.id NOT IN (SELECT rowid FROM torrent_names WHERE torrent_names MATCH ?)",
					ftsAlternatives(group.Alternatives))
			}
		}
	}

	return q
}

// matchExpression combines the positive term constraints into one FTS match
// expression: required phrases, non-negated OR-groups and residual tokens
// of at least minTokenLen characters, all AND-combined.
func matchExpression(parsed *ParsedTerm) string {
	var parts []string
	for _, lit := range parsed.Required {
		parts = append(parts, ftsPhrase(lit))
	}
	for _, group := range parsed.Groups {
		if !group.Negated {
			parts = append(parts, ftsAlternatives(group.Alternatives))
		}
	}
	for _, token := range strings.Fields(parsed.Residual) {
		if len(token) >= minTokenLen {
			parts = append(parts, ftsPhrase(token))
		}
	}
	return strings.Join(parts, " AND ")
}

// ftsAlternatives renders an OR-group as a parenthesized FTS disjunction.
func ftsAlternatives(alternatives []string) string {
	quoted := make([]string, len(alternatives))
	for i, alt := range alternatives {
		quoted[i] = ftsPhrase(alt)
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

// ftsPhrase quotes a literal for the FTS match syntax, so user input can
// never smuggle in query operators.
func ftsPhrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
