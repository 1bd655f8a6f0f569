package recommend

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/yungbote/peerpath/internal/platform/apierr"
)

// DefaultNeighbors is the number of peers consulted when no k is configured.
const DefaultNeighbors = 10

type Neighbor struct {
	Row      int
	Distance float64
}

// Index is an exact cosine-distance nearest neighbour index over encoded samples.
type Index struct {
	vectors [][]float64
	norms   []float64
	width   int
}

func NewIndex(vectors [][]float64) (*Index, error) {
	if len(vectors) == 0 {
		return nil, apierr.Configuration("cannot build index over zero vectors")
	}
	width := len(vectors[0])
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != width {
			return nil, apierr.Configuration("vector %d has width %d, want %d", i, len(v), width)
		}
		if !finite(v) {
			return nil, apierr.Configuration("vector %d has a non-finite component", i)
		}
		norms[i] = floats.Norm(v, 2)
	}
	return &Index{vectors: vectors, norms: norms, width: width}, nil
}

func (ix *Index) Len() int { return len(ix.vectors) }

func (ix *Index) Width() int { return ix.width }

// Query returns the k rows closest to v, nearest first. Equal distances keep row order.
// k larger than the population is clamped to it.
func (ix *Index) Query(v []float64, k int) ([]Neighbor, error) {
	if len(v) != ix.width {
		return nil, apierr.Configuration("query vector has width %d, index width is %d", len(v), ix.width)
	}
	if !finite(v) {
		return nil, apierr.Configuration("query vector has a non-finite component")
	}
	if k <= 0 {
		return nil, apierr.Configuration("k must be positive, got %d", k)
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	qn := floats.Norm(v, 2)
	out := make([]Neighbor, len(ix.vectors))
	for i, row := range ix.vectors {
		out[i] = Neighbor{Row: i, Distance: cosineDistance(v, qn, row, ix.norms[i])}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Distance < out[b].Distance
	})
	return out[:k], nil
}

// A zero vector has similarity 0 with everything, so its distance is 1.
func cosineDistance(a []float64, an float64, b []float64, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 1
	}
	sim := floats.Dot(a, b) / (an * bn)
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return 1 - sim
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
