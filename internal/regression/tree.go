package regression

import (
	"math/rand"
	"sort"
)

// node is one vertex of a regression tree; Feature < 0 marks a leaf
type node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// tree stores its nodes flat, root first
type tree struct {
	nodes []node
}

func (t *tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// treeBuilder grows one tree by recursive binary splitting on squared error
type treeBuilder struct {
	x           [][]float64
	y           []float64
	maxFeatures int
	minSplit    int
	minLeaf     int
	maxDepth    int
	rng         *rand.Rand

	nodes      []node
	importance []float64
	order      []int
}

func newTreeBuilder(x [][]float64, y []float64, opts ForestOptions, rng *rand.Rand) *treeBuilder {
	p := len(x[0])
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > p {
		maxFeatures = p
	}
	return &treeBuilder{
		x:           x,
		y:           y,
		maxFeatures: maxFeatures,
		minSplit:    opts.MinSamplesSplit,
		minLeaf:     opts.MinSamplesLeaf,
		maxDepth:    opts.MaxDepth,
		rng:         rng,
		importance:  make([]float64, p),
	}
}

// grow builds a tree over the sample indices, which may repeat
func (b *treeBuilder) grow(sample []int) *tree {
	b.order = make([]int, len(sample))
	b.build(sample, 0)
	return &tree{nodes: b.nodes}
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

func (b *treeBuilder) build(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: -1})

	n := len(idx)
	var sum float64
	lo, hi := b.y[idx[0]], b.y[idx[0]]
	for _, i := range idx {
		v := b.y[i]
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	mean := sum / float64(n)
	b.nodes[id].Value = mean

	if n < b.minSplit || n < 2*b.minLeaf || lo == hi || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	best, ok := b.bestSplit(idx, mean)
	if !ok {
		return id
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.x[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	b.importance[best.feature] += best.gain

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id] = node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      l,
		Right:     r,
		Value:     mean,
	}
	return id
}

// bestSplit scans a random subset of features for the threshold with the
// lowest summed squared error of the two children. Targets are centred on
// the node mean so the running sums stay small.
func (b *treeBuilder) bestSplit(idx []int, mean float64) (split, bool) {
	n := len(idx)
	var parentSSE float64
	for _, i := range idx {
		d := b.y[i] - mean
		parentSSE += d * d
	}

	best := split{feature: -1}
	bestSSE := parentSSE
	found := false

	features := b.rng.Perm(len(b.importance))[:b.maxFeatures]
	order := b.order[:n]
	for _, f := range features {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][f] < b.x[order[c]][f] })

		if b.x[order[0]][f] == b.x[order[n-1]][f] {
			continue
		}

		var totalSum, totalSq float64
		for _, i := range order {
			d := b.y[i] - mean
			totalSum += d
			totalSq += d * d
		}

		var leftSum, leftSq float64
		for k := 1; k < n; k++ {
			d := b.y[order[k-1]] - mean
			leftSum += d
			leftSq += d * d

			if k < b.minLeaf || n-k < b.minLeaf {
				continue
			}
			prev, next := b.x[order[k-1]][f], b.x[order[k]][f]
			if prev == next {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(k)) + (rightSq - rightSum*rightSum/float64(n-k))
			if !found || sse < bestSSE {
				threshold := prev + (next-prev)/2
				if threshold >= next {
					threshold = prev
				}
				best = split{feature: f, threshold: threshold}
				bestSSE = sse
				found = true
			}
		}
	}

	if !found {
		return best, false
	}
	best.gain = parentSSE - bestSSE
	if best.gain < 0 {
		best.gain = 0
	}
	return best, true
}
