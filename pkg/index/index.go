// Package index implements a flat inner-product vector index over
// transcript units, persisted as plain files so a processed call survives
// process restarts. Vectors are L2-normalized on build and on query, which
// makes the inner product a cosine similarity.
package index

import (
	"fmt"
	"math"
	"sort"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
)

// Unit is one indexed piece of transcript text with its attribution.
type Unit struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Metadata keys attached to every unit.
const (
	MetaSpeakerName = "speaker_name"
	MetaSpeakerRaw  = "speaker_raw"
	MetaRole        = "role"
	MetaSection     = "section"
)

// SearchResult is one search hit with its cosine similarity score.
type SearchResult struct {
	Unit  Unit
	Score float32
}

// Index holds normalized vectors and their units. It is immutable after
// Build; re-processing a transcript replaces the whole index.
type Index struct {
	dim     int
	vectors [][]float32
	units   []Unit

	// Call-level info written alongside the index artifacts.
	Company string
	Date    string
}

// Build creates an index from parallel vectors and units. Every vector
// must share the same dimensionality; vectors are copied and normalized.
func Build(vectors [][]float32, units []Unit) (*Index, error) {
	if len(vectors) != len(units) {
		return nil, fmt.Errorf("%w: %d vectors for %d units", ecaerrors.ErrValidation, len(vectors), len(units))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no units to index", ecaerrors.ErrValidation)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional vector", ecaerrors.ErrValidation)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ecaerrors.ErrValidation, i, len(v), dim)
		}
		normalized[i] = normalize(v)
	}

	unitsCopy := make([]Unit, len(units))
	copy(unitsCopy, units)

	return &Index{
		dim:     dim,
		vectors: normalized,
		units:   unitsCopy,
	}, nil
}

// Len returns the number of indexed units.
func (ix *Index) Len() int {
	return len(ix.units)
}

// Dim returns the vector dimensionality.
func (ix *Index) Dim() int {
	return ix.dim
}

// Units returns the indexed units in insertion order.
func (ix *Index) Units() []Unit {
	return ix.units
}

// Search returns the topK most similar units for the query vector,
// highest score first. Fewer results are returned when the index is
// smaller than topK.
func (ix *Index) Search(query []float32, topK int) ([]SearchResult, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", ecaerrors.ErrValidation, len(query), ix.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	q := normalize(query)
	results := make([]SearchResult, len(ix.vectors))
	for i, v := range ix.vectors {
		results[i] = SearchResult{Unit: ix.units[i], Score: dot(q, v)}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// normalize returns a unit-length copy of v. A zero vector is returned
// unchanged rather than divided by zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
