package label

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Policy decides what Aggregate does when a file fails to read.
type Policy int

const (
	// PolicyUnset is rejected; callers must choose.
	PolicyUnset Policy = iota
	// FailFast cancels the remaining reads at the first failure. Of the
	// files that failed before the reads stopped, the one earliest in input
	// order is returned; with Concurrency 1 that is the first bad input.
	FailFast
	// CollectAndContinue records failures in Aggregation.Errors and merges
	// the files that could be read.
	CollectAndContinue
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case CollectAndContinue:
		return "collect"
	default:
		return "unset"
	}
}

// ParsePolicy accepts "fail-fast" and "collect" (or "collect-and-continue").
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fail-fast", "failfast", "fail_fast":
		return FailFast, nil
	case "collect", "collect-and-continue", "collect_and_continue":
		return CollectAndContinue, nil
	default:
		return PolicyUnset, fmt.Errorf("unknown aggregation policy %q", name)
	}
}

// Key decides which tiers of different files are combined.
type Key int

const (
	// KeyByName combines tiers with the same name.
	KeyByName Key = iota
	// KeyByIndex combines tiers at the same position.
	KeyByIndex
)

type AggregateOptions struct {
	Policy Policy
	Key    Key
	// Concurrency limits parallel reads; 0 means runtime.NumCPU().
	Concurrency int
	ReadOptions []ReadOption
}

// Source is the provenance of an aggregated label.
type Source struct {
	Path string
	// Base is the file name without directory or extension.
	Base  string
	Ext   string
	Index int // position in the input paths
}

type Row struct {
	Label  *Label
	Source Source
}

// CombinedTier gathers the labels of same-keyed tiers across files, in
// input file order and then tier order.
type CombinedTier struct {
	Key  string
	Kind Kind
	Rows []Row
}

type Aggregation struct {
	Tiers  []*CombinedTier
	Errors []*FileError
}

// Tier returns the combined tier with the given key.
func (a *Aggregation) Tier(key string) (*CombinedTier, error) {
	for _, t := range a.Tiers {
		if t.Key == key {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: no combined tier %q", ErrNotFound, key)
}

// Aggregate reads every path with format and merges their tiers. An empty
// format picks each file's format from its extension.
//
// Files are parsed in parallel; the merge runs serially in input order so
// the result does not depend on scheduling.
func Aggregate(
	ctx context.Context,
	paths []string,
	format Format,
	opts AggregateOptions,
) (*Aggregation, error) {
	if opts.Policy != FailFast && opts.Policy != CollectAndContinue {
		return nil, fmt.Errorf("aggregation policy must be set, got %s", opts.Policy)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	sets := make([]*Set, len(paths))
	failures := make([]*FileError, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var (
				s   *Set
				err error
			)
			if format == "" {
				s, err = Open(path, opts.ReadOptions...)
			} else {
				s, err = Read(path, format, opts.ReadOptions...)
			}
			if err != nil {
				fe := &FileError{Path: path, Index: i, Err: err}
				failures[i] = fe
				if opts.Policy == FailFast {
					return fe
				}
				return nil
			}
			sets[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// lowest index, not whichever read failed first
		if opts.Policy == FailFast {
			for _, fe := range failures {
				if fe != nil {
					return nil, fe
				}
			}
		}
		return nil, err
	}

	agg := &Aggregation{}
	byKey := make(map[string]*CombinedTier)
	for i, s := range sets {
		if failures[i] != nil {
			agg.Errors = append(agg.Errors, failures[i])
			continue
		}
		src := newSource(paths[i], i)
		for ti, t := range s.tiers {
			key := t.Name()
			if opts.Key == KeyByIndex {
				key = strconv.Itoa(ti)
			}
			ct, ok := byKey[key]
			if !ok {
				ct = &CombinedTier{Key: key, Kind: t.Kind()}
				byKey[key] = ct
				agg.Tiers = append(agg.Tiers, ct)
			}
			for _, l := range t.All() {
				ct.Rows = append(ct.Rows, Row{Label: l, Source: src})
			}
		}
	}
	return agg, nil
}

func newSource(path string, index int) Source {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return Source{
		Path:  path,
		Base:  strings.TrimSuffix(name, ext),
		Ext:   ext,
		Index: index,
	}
}
