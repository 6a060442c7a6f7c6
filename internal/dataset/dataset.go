// Package dataset loads the four dashboard input tables from CSV or XLSX
// files, either from a directory or from a ZIP bundle.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/delivery-optimizer/internal/config"
	"github.com/sells-group/delivery-optimizer/internal/monitoring"
	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Dataset names one of the four input tables.
type Dataset string

const (
	Orders   Dataset = "orders"
	Delivery Dataset = "delivery_performance"
	Vehicles Dataset = "vehicle_fleet"
	Costs    Dataset = "cost_breakdown"
)

// KeyColumn is the order identifier shared by orders and delivery performance.
const KeyColumn = "Order_ID"

// Kind classifies a load failure.
type Kind string

const (
	KindNotFound Kind = "not_found"
	KindParse    Kind = "parse"
)

// LoadError reports a fatal failure to read one dataset.
type LoadError struct {
	Kind    Kind
	Dataset Dataset
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dataset: %s %s (%s): %v", e.Dataset, e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// KindOf returns the LoadError kind in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// Paths locates the input files. File names are relative to Dir, or to the
// root of Bundle when a ZIP bundle is set (entries may sit in a subfolder).
type Paths struct {
	Dir      string
	Bundle   string
	Orders   string
	Delivery string
	Vehicles string
	Costs    string
}

// PathsFromConfig maps the data section of the config.
func PathsFromConfig(cfg config.DataConfig) Paths {
	return Paths{
		Dir:      cfg.Dir,
		Bundle:   cfg.Bundle,
		Orders:   cfg.Orders,
		Delivery: cfg.Delivery,
		Vehicles: cfg.Vehicles,
		Costs:    cfg.Costs,
	}
}

func (p Paths) name(d Dataset) string {
	switch d {
	case Orders:
		return p.Orders
	case Delivery:
		return p.Delivery
	case Vehicles:
		return p.Vehicles
	default:
		return p.Costs
	}
}

// Sources holds the loaded tables. They are never modified after Load.
type Sources struct {
	Orders   *table.Table
	Delivery *table.Table
	Vehicles *table.Table
	Costs    *table.Table
}

// Info summarizes one loaded table.
type Info struct {
	Name    Dataset  `json:"name" yaml:"name"`
	Rows    int      `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Describe returns the shape of each table in load order.
func (s *Sources) Describe() []Info {
	out := make([]Info, 0, 4)
	for _, d := range []struct {
		name Dataset
		t    *table.Table
	}{{Orders, s.Orders}, {Delivery, s.Delivery}, {Vehicles, s.Vehicles}, {Costs, s.Costs}} {
		out = append(out, Info{Name: d.name, Rows: d.t.Len(), Columns: d.t.Columns()})
	}
	return out
}

// Loader reads the four datasets.
type Loader struct {
	paths   Paths
	metrics *monitoring.Collector
}

// NewLoader creates a Loader. metrics may be nil.
func NewLoader(paths Paths, metrics *monitoring.Collector) *Loader {
	return &Loader{paths: paths, metrics: metrics}
}

// Load reads all four files concurrently. The first failure cancels the rest
// and is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context) (*Sources, error) {
	src, err := l.open()
	if err != nil {
		return nil, err
	}
	defer src.Close() //nolint:errcheck

	var out Sources
	targets := []struct {
		name Dataset
		dst  **table.Table
	}{
		{Orders, &out.Orders},
		{Delivery, &out.Delivery},
		{Vehicles, &out.Vehicles},
		{Costs, &out.Costs},
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, tgt := range targets {
		g.Go(func() error {
			t, err := l.loadOne(gCtx, src, tgt.name)
			if err != nil {
				return err
			}
			*tgt.dst = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &out, nil
}

func (l *Loader) open() (source, error) {
	if l.paths.Bundle == "" {
		return dirSource{dir: l.paths.Dir}, nil
	}
	zs, err := openZipSource(l.paths.Bundle)
	if err != nil {
		kind := KindParse
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, &LoadError{Kind: kind, Dataset: "bundle", Path: l.paths.Bundle, Err: err}
	}
	return zs, nil
}

func (l *Loader) loadOne(ctx context.Context, src source, d Dataset) (*table.Table, error) {
	name := l.paths.name(d)
	start := time.Now()

	t, err := readTable(ctx, src, name)
	if err != nil {
		kind := KindParse
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, &LoadError{Kind: kind, Dataset: d, Path: src.Describe(name), Err: err}
	}

	if (d == Orders || d == Delivery) && !t.Has(KeyColumn) {
		return nil, &LoadError{
			Kind:    KindParse,
			Dataset: d,
			Path:    src.Describe(name),
			Err:     eris.Errorf("missing required column %q", KeyColumn),
		}
	}

	elapsed := time.Since(start)
	l.metrics.ObserveLoad(string(d), t.Len(), elapsed)
	zap.L().Debug("dataset loaded",
		zap.String("dataset", string(d)),
		zap.String("path", src.Describe(name)),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns())),
		zap.Duration("elapsed", elapsed),
	)
	return t, nil
}

func readTable(ctx context.Context, src source, name string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		data, err := src.ReadAll(name)
		if err != nil {
			return nil, err
		}
		return readXLSX(data)
	default:
		rc, err := src.Open(name)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck
		return table.ReadCSV(ctx, rc, table.CSVOptions{})
	}
}
