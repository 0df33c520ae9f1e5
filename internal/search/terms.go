package search

import (
	"regexp"
	"strings"
)

// Quoted-literal matching for search terms. Groups of quoted phrases joined
// by | (optionally negated as a whole) are matched before single phrases so
// that "a"|"b" is never counted as two independent literals.
var (
	quotedLiteralRe = regexp.MustCompile(`(-)?"(.+?)"`)
	quotedGroupRe   = regexp.MustCompile(`(-)?(".+?"(?:\|".+?")+)`)
)

// PhraseGroup is a set of alternative literal phrases; matching any one
// satisfies the group. A negated group excludes records matching any
// alternative.
type PhraseGroup struct {
	Negated      bool
	Alternatives []string
}

// ParsedTerm is the result of parsing raw query text: literal phrases that
// must or must not match, OR-groups of alternatives, and the residual
// free-text left over for general-purpose matching.
type ParsedTerm struct {
	Required []string
	Excluded []string
	Groups   []PhraseGroup
	Residual string
}

// Empty reports whether the parse produced no constraints at all.
func (p *ParsedTerm) Empty() bool {
	return len(p.Required) == 0 && len(p.Excluded) == 0 &&
		len(p.Groups) == 0 && p.Residual == ""
}

// ParseTerm parses raw query text like
//
//	foo bar "hello world" -"exclude this" -"either"|"or"
//
// into required/excluded literal phrases, OR-groups and residual text.
// Unmatched quotes are left in the residual text rather than erroring.
func ParseTerm(raw string) ParsedTerm {
	var parsed ParsedTerm
	seenRequired := make(map[string]bool)
	seenExcluded := make(map[string]bool)

	// Pass 1: grab [-]"foo"|"bar"[|"baz"...] groups.
	rest := quotedGroupRe.ReplaceAllStringFunc(raw, func(span string) string {
		m := quotedGroupRe.FindStringSubmatch(span)
		group := PhraseGroup{Negated: m[1] == "-"}
		for _, lit := range quotedLiteralRe.FindAllStringSubmatch(m[2], -1) {
			group.Alternatives = append(group.Alternatives, lit[2])
		}
		parsed.Groups = append(parsed.Groups, group)
		return ""
	})

	// Pass 2: grab remaining [-]"foo" literals.
	rest = quotedLiteralRe.ReplaceAllStringFunc(rest, func(span string) string {
		m := quotedLiteralRe.FindStringSubmatch(span)
		if m[1] == "-" {
			if !seenExcluded[m[2]] {
				seenExcluded[m[2]] = true
				parsed.Excluded = append(parsed.Excluded, m[2])
			}
		} else {
			if !seenRequired[m[2]] {
				seenRequired[m[2]] = true
				parsed.Required = append(parsed.Required, m[2])
			}
		}
		return ""
	})

	parsed.Residual = strings.TrimSpace(rest)
	return parsed
}
