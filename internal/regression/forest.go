package regression

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// ForestName identifies the random forest in reports
const ForestName = "RandomForest"

// ForestOptions controls how the ensemble is grown
type ForestOptions struct {
	Trees           int
	MaxFeatures     int // predictors searched per split, 0 means all
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxDepth        int // 0 means unbounded
	Seed            int64
	Workers         int // 0 means runtime.NumCPU()
}

// DefaultForestOptions returns 100 fully grown trees seeded with 42
func DefaultForestOptions() ForestOptions {
	return ForestOptions{
		Trees:           100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

func (o ForestOptions) validate(features int) error {
	switch {
	case o.Trees < 1:
		return fmt.Errorf("trees must be positive, got %d", o.Trees)
	case o.MaxFeatures < 0 || o.MaxFeatures > features:
		return fmt.Errorf("max features must be between 0 and %d, got %d", features, o.MaxFeatures)
	case o.MinSamplesSplit < 2:
		return fmt.Errorf("min samples split must be at least 2, got %d", o.MinSamplesSplit)
	case o.MinSamplesLeaf < 1:
		return fmt.Errorf("min samples leaf must be at least 1, got %d", o.MinSamplesLeaf)
	case o.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", o.MaxDepth)
	}
	return nil
}

// RandomForest is an ensemble of regression trees grown on bootstrap samples
type RandomForest struct {
	Target   model.Field
	Features []model.Field
	Options  ForestOptions

	trees       []*tree
	importances []float64
}

// FitForest grows opts.Trees trees. Every tree draws its seed from a master
// source before any tree is built, so the result does not depend on Workers.
func FitForest(ctx context.Context, train *model.Table, target model.Field, features []model.Field, opts ForestOptions) (*RandomForest, error) {
	if err := checkTraining(ForestName, train, target, features); err != nil {
		return nil, err
	}
	if err := opts.validate(len(features)); err != nil {
		return nil, &model.FitError{Model: ForestName, Reason: err.Error()}
	}

	n := train.Len()
	x := make([][]float64, n)
	y := make([]float64, n)
	for i, obs := range train.Rows {
		x[i] = featureRow(obs, features, make([]float64, 0, len(features)))
		y[i] = obs.Values[target]
	}

	master := rand.New(rand.NewSource(opts.Seed))
	seeds := make([]int64, opts.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	trees := make([]*tree, opts.Trees)
	perTree := make([][]float64, opts.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range seeds {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i]))
			sample := make([]int, n)
			for k := range sample {
				sample[k] = rng.Intn(n)
			}
			b := newTreeBuilder(x, y, opts, rng)
			trees[i] = b.grow(sample)
			perTree[i] = b.importance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &model.FitError{Model: ForestName, Reason: "interrupted", Err: err}
	}

	rf := &RandomForest{
		Target:      target,
		Features:    append([]model.Field(nil), features...),
		Options:     opts,
		trees:       trees,
		importances: averageImportances(perTree, len(features)),
	}

	log.Debug().
		Str("component", "forest").
		Int("trees", opts.Trees).
		Int("workers", workers).
		Int64("seed", opts.Seed).
		Int("rows", n).
		Msg("Fitted random forest")
	return rf, nil
}

// averageImportances normalises each tree's impurity decrease, then averages
func averageImportances(perTree [][]float64, p int) []float64 {
	out := make([]float64, p)
	for _, imp := range perTree {
		var total float64
		for _, v := range imp {
			total += v
		}
		if total == 0 {
			continue
		}
		for j, v := range imp {
			out[j] += v / total
		}
	}

	var total float64
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}

// Name implements Model
func (rf *RandomForest) Name() string { return ForestName }

// Size returns the number of trees
func (rf *RandomForest) Size() int { return len(rf.trees) }

// Predict averages the tree predictions for every row of t
func (rf *RandomForest) Predict(t *model.Table) []float64 {
	out := make([]float64, t.Len())
	x := make([]float64, 0, len(rf.Features))
	for i, obs := range t.Rows {
		x = featureRow(obs, rf.Features, x)
		var sum float64
		for _, tr := range rf.trees {
			sum += tr.predict(x)
		}
		out[i] = sum / float64(len(rf.trees))
	}
	return out
}

// Importances returns the normalised impurity-based importance of each predictor
func (rf *RandomForest) Importances() []model.Importance {
	out := make([]model.Importance, len(rf.Features))
	for j, f := range rf.Features {
		out[j] = model.Importance{Field: f, Value: rf.importances[j]}
	}
	return out
}
