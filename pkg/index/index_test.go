package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
)

func unit(id, content string) Unit {
	return Unit{ID: id, Content: content, Metadata: map[string]string{MetaSpeakerName: id}}
}

func TestBuild_ValidatesInput(t *testing.T) {
	_, err := Build(nil, nil)
	require.Error(t, err)
	assert.True(t, ecaerrors.IsValidation(err), "empty index")

	_, err = Build([][]float32{{1, 0}}, []Unit{unit("a", "x"), unit("b", "y")})
	require.Error(t, err, "length mismatch")

	_, err = Build([][]float32{{1, 0}, {1, 0, 0}}, []Unit{unit("a", "x"), unit("b", "y")})
	require.Error(t, err, "dimension mismatch")
}

func TestBuild_NormalizesVectors(t *testing.T) {
	ix, err := Build([][]float32{{3, 4}}, []Unit{unit("a", "x")})
	require.NoError(t, err)

	assert.InDelta(t, 0.6, float64(ix.vectors[0][0]), 1e-6)
	assert.InDelta(t, 0.8, float64(ix.vectors[0][1]), 1e-6)
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	// Magnitude must not matter, only direction.
	vectors := [][]float32{
		{10, 0},  // aligned with query
		{1, 1},   // 45 degrees off
		{0, 0.5}, // orthogonal
	}
	units := []Unit{unit("aligned", "a"), unit("diagonal", "b"), unit("orthogonal", "c")}

	ix, err := Build(vectors, units)
	require.NoError(t, err)

	results, err := ix.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "aligned", results[0].Unit.ID)
	assert.Equal(t, "diagonal", results[1].Unit.ID)
	assert.Equal(t, "orthogonal", results[2].Unit.ID)

	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
	assert.InDelta(t, math.Sqrt2/2, float64(results[1].Score), 1e-6)
	assert.InDelta(t, 0.0, float64(results[2].Score), 1e-6)
}

func TestSearch_TopKClamped(t *testing.T) {
	ix, err := Build([][]float32{{1, 0}, {0, 1}}, []Unit{unit("a", "x"), unit("b", "y")})
	require.NoError(t, err)

	results, err := ix.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = ix.Search([]float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	ix, err := Build([][]float32{{1, 0}}, []Unit{unit("a", "x")})
	require.NoError(t, err)

	_, err = ix.Search([]float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.True(t, ecaerrors.IsValidation(err))
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, v)
}
