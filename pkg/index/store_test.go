package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), 2, time.Millisecond, logging.NewNopLogger())
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	vectors := [][]float32{{1, 0}, {0, 1}}
	units := []Unit{
		{ID: "u1", Content: "We grew revenue.", Metadata: map[string]string{
			MetaSpeakerName: "Jane Doe", MetaRole: "management", MetaSection: "opening_remarks",
		}},
		{ID: "u2", Content: "What about margins?", Metadata: map[string]string{
			MetaSpeakerName: "RAVI", MetaRole: "investor", MetaSection: "qa",
		}},
	}
	ix, err := Build(vectors, units)
	require.NoError(t, err)
	ix.Company = "Acme Corp"
	ix.Date = "2024-05-14"
	return ix
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	require.False(t, s.Exists())

	require.NoError(t, s.Save(buildTestIndex(t)))
	require.True(t, s.Exists())

	loaded, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 2, loaded.Dim())
	assert.Equal(t, "Acme Corp", loaded.Company)
	assert.Equal(t, "2024-05-14", loaded.Date)
	assert.Equal(t, "We grew revenue.", loaded.Units()[0].Content)
	assert.Equal(t, "Jane Doe", loaded.Units()[0].Metadata[MetaSpeakerName])

	// Loaded index must be searchable.
	results, err := loaded.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u2", results[0].Unit.ID)
}

func TestStore_LoadMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.Load()
	assert.True(t, ecaerrors.IsNoIndex(err))
}

func TestStore_PartialArtifactsCountAsAbsent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildTestIndex(t)))
	require.NoError(t, os.Remove(filepath.Join(s.Dir(), contentsFile)))

	assert.False(t, s.Exists())
	_, err := s.Load()
	assert.True(t, ecaerrors.IsNoIndex(err))
}

func TestStore_SaveReplacesExisting(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildTestIndex(t)))

	replacement, err := Build([][]float32{{1, 1}}, []Unit{{ID: "only", Content: "new"}})
	require.NoError(t, err)
	replacement.Company = "Other Inc"
	require.NoError(t, s.Save(replacement))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, "Other Inc", loaded.Company)
}

func TestStore_ClearRemovesEverything(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildTestIndex(t)))

	require.NoError(t, s.Clear(context.Background()))
	assert.False(t, s.Exists())

	for _, name := range artifactNames() {
		_, err := os.Stat(filepath.Join(s.Dir(), name))
		assert.True(t, os.IsNotExist(err), name)
	}
}

func TestStore_ClearNothingToDo(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.Clear(context.Background()))
}

func TestStore_ClearCancelled(t *testing.T) {
	// A directory artifact cannot be removed with os.Remove while
	// non-empty, which forces retries; cancelling the context between
	// attempts must abort the clear.
	s := testStore(t)
	require.NoError(t, s.Save(buildTestIndex(t)))

	stubborn := filepath.Join(s.Dir(), vectorsFile)
	require.NoError(t, os.Remove(stubborn))
	require.NoError(t, os.MkdirAll(filepath.Join(stubborn, "child"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Clear(ctx)
	require.Error(t, err)
}
