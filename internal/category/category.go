// Package category holds the torrent category taxonomy and resolves the
// "main_sub" category specs used by search requests.
package category

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultTaxonomy []byte

// Main is a top-level category with its sub-categories.
type Main struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Subs []Sub  `yaml:"subcategories" json:"subcategories"`
}

// Sub is a sub-category scoped to its parent main category.
type Sub struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Taxonomy is the full category tree, indexed for resolution.
type Taxonomy struct {
	mains []Main
	byID  map[int]*Main
}

// Load parses a taxonomy from YAML.
func Load(data []byte) (*Taxonomy, error) {
	var mains []Main
	if err := yaml.Unmarshal(data, &mains); err != nil {
		return nil, fmt.Errorf("failed to parse category taxonomy: %w", err)
	}

	t := &Taxonomy{
		mains: mains,
		byID:  make(map[int]*Main, len(mains)),
	}
	for i := range t.mains {
		t.byID[t.mains[i].ID] = &t.mains[i]
	}
	return t, nil
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := Load(defaultTaxonomy)
	if err != nil {
		// The embedded file is part of the build; failing to parse it is a bug.
		panic(err)
	}
	return t
}

// Mains returns the top-level categories in declaration order.
func (t *Taxonomy) Mains() []Main {
	return t.mains
}

// Main resolves a main category by id.
func (t *Taxonomy) Main(id int) (*Main, bool) {
	m, ok := t.byID[id]
	return m, ok
}

// Sub resolves a sub-category by the (main, sub) id pair.
func (t *Taxonomy) Sub(mainID, subID int) (*Sub, bool) {
	m, ok := t.byID[mainID]
	if !ok {
		return nil, false
	}
	for i := range m.Subs {
		if m.Subs[i].ID == subID {
			return &m.Subs[i], true
		}
	}
	return nil, false
}

var specRe = regexp.MustCompile(`^(\d+)_(\d+)$`)

// ParseSpec splits a "main_sub" category spec into its id pair.
// "0_0" means no category filter.
func ParseSpec(spec string) (mainID, subID int, err error) {
	m := specRe.FindStringSubmatch(spec)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed category spec %q", spec)
	}
	mainID, _ = strconv.Atoi(m[1])
	subID, _ = strconv.Atoi(m[2])
	return mainID, subID, nil
}

// Resolve validates an id pair against the taxonomy. A zero main id means no
// filter (the sub id is ignored); a non-zero main with zero sub filters the
// whole main category; both non-zero require an exact sub-category.
func (t *Taxonomy) Resolve(mainID, subID int) error {
	if mainID <= 0 {
		return nil
	}
	if subID > 0 {
		if _, ok := t.Sub(mainID, subID); !ok {
			return fmt.Errorf("unknown sub-category %d_%d", mainID, subID)
		}
		return nil
	}
	if _, ok := t.Main(mainID); !ok {
		return fmt.Errorf("unknown category %d", mainID)
	}
	return nil
}
