package pipeline

import (
	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Selection is the user's filter state. A nil slice means the default
// selection (every observed value); a non-nil empty slice means every option
// was deselected.
type Selection struct {
	Priorities []string `json:"priorities" yaml:"priorities"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Options are the values offered by the two filter controls: the distinct
// present values of each column in first-appearance order, empty when the
// column is absent.
type Options struct {
	Priorities []string `json:"priorities" yaml:"priorities"`
	Categories []string `json:"categories" yaml:"categories"`
}

// OptionsOf lists the filter options observed in t.
func OptionsOf(t *table.Table) Options {
	return Options{
		Priorities: nonNil(t.Distinct(ColPriority)),
		Categories: nonNil(t.Distinct(ColCategory)),
	}
}

// Resolve replaces default (nil) dimensions with every option. Explicit
// selections, including empty ones, are kept as given.
func (s Selection) Resolve(opts Options) Selection {
	out := Selection{
		Priorities: append([]string{}, s.Priorities...),
		Categories: append([]string{}, s.Categories...),
	}
	if s.Priorities == nil {
		out.Priorities = append([]string{}, opts.Priorities...)
	}
	if s.Categories == nil {
		out.Categories = append([]string{}, opts.Categories...)
	}
	return out
}

// Apply narrows t to rows whose priority and category are both selected.
// When either column is absent, or either resolved selection is empty, the
// result is an unfiltered copy: no selection means everything, never nothing.
// Absent cells never match a selection. The result never aliases t.
func Apply(t *table.Table, shape Shape, sel Selection) *table.Table {
	if !shape.HasPriority || !shape.HasCategory {
		return t.Clone()
	}
	sel = sel.Resolve(OptionsOf(t))
	if len(sel.Priorities) == 0 || len(sel.Categories) == 0 {
		return t.Clone()
	}

	priorities := toSet(sel.Priorities)
	categories := toSet(sel.Categories)
	return t.Filter(func(i int) bool {
		p := t.Cell(i, ColPriority)
		c := t.Cell(i, ColCategory)
		return p.Valid && c.Valid && priorities[p.Raw] && categories[c.Raw]
	})
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
