package main

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

// filterFlags are the selection flags shared by report, export and charts.
type filterFlags struct {
	priorities   []string
	categories   []string
	nonePriority bool
	noneCategory bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVar(&f.priorities, "priority", nil, "priority to include (repeatable; default all)")
	fl.StringArrayVar(&f.categories, "category", nil, "product category to include (repeatable; default all)")
	fl.BoolVar(&f.nonePriority, "none-priority", false, "deselect every priority")
	fl.BoolVar(&f.noneCategory, "none-category", false, "deselect every product category")
}

// selection maps the flags to a Selection. Unset flags keep the default.
func (f *filterFlags) selection() pipeline.Selection {
	return pipeline.Selection{
		Priorities: pick(f.priorities, f.nonePriority),
		Categories: pick(f.categories, f.noneCategory),
	}
}

func pick(values []string, none bool) []string {
	if none {
		return []string{}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// selectionFromQuery reads the repeatable priority and category parameters.
// An absent parameter keeps the default; a lone empty value ("priority=")
// deselects everything. Values are matched exactly as sent.
func selectionFromQuery(q url.Values) pipeline.Selection {
	return pipeline.Selection{
		Priorities: queryValues(q, "priority"),
		Categories: queryValues(q, "category"),
	}
}

func queryValues(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
