package index

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

// Artifact filenames within the index directory. meta.txt is the small
// human-readable summary: line one is the company, line two the call date.
const (
	vectorsFile  = "index.gob"
	metadataFile = "metadata.json"
	contentsFile = "contents.json"
	metaFile     = "meta.txt"
)

// indexBlob is the gob-encoded vector payload.
type indexBlob struct {
	Dim     int
	Vectors [][]float32
}

// Store persists one index to a directory and loads it back.
type Store struct {
	dir    string
	logger logging.Logger

	// Clear retry tuning.
	clearMaxAttempts    int
	clearInitialBackoff time.Duration
}

// NewStore creates a store rooted at dir. A nil logger is replaced with a
// no-op logger; non-positive retry settings fall back to defaults.
func NewStore(dir string, maxAttempts int, initialBackoff time.Duration, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if initialBackoff <= 0 {
		initialBackoff = 500 * time.Millisecond
	}
	return &Store{
		dir:                 dir,
		logger:              logger.With(logging.F("component", "index-store")),
		clearMaxAttempts:    maxAttempts,
		clearInitialBackoff: initialBackoff,
	}
}

// Dir returns the index directory.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether a persisted index is present. All artifacts must
// exist; a partial set (an interrupted save or clear) counts as absent.
func (s *Store) Exists() bool {
	for _, name := range artifactNames() {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Save writes every index artifact, replacing whatever is there.
func (s *Store) Save(ix *Index) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	blob := indexBlob{Dim: ix.dim, Vectors: ix.vectors}
	f, err := os.Create(filepath.Join(s.dir, vectorsFile))
	if err != nil {
		return fmt.Errorf("create %s: %w", vectorsFile, err)
	}
	if err := gob.NewEncoder(f).Encode(blob); err != nil {
		f.Close()
		return fmt.Errorf("encode vectors: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", vectorsFile, err)
	}

	type unitMeta struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	metas := make([]unitMeta, len(ix.units))
	contents := make([]string, len(ix.units))
	for i, u := range ix.units {
		metas[i] = unitMeta{ID: u.ID, Metadata: u.Metadata}
		contents[i] = u.Content
	}

	if err := writeJSON(filepath.Join(s.dir, metadataFile), metas); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(s.dir, contentsFile), contents); err != nil {
		return err
	}

	meta := ix.Company + "\n" + ix.Date + "\n"
	if err := os.WriteFile(filepath.Join(s.dir, metaFile), []byte(meta), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", metaFile, err)
	}

	s.logger.Info("index saved",
		logging.F("dir", s.dir),
		logging.F("units", ix.Len()),
		logging.F("dim", ix.Dim()))
	return nil
}

// Load reads the persisted index. ErrNoIndex is returned when no complete
// index is present.
func (s *Store) Load() (*Index, error) {
	if !s.Exists() {
		return nil, ecaerrors.ErrNoIndex
	}

	f, err := os.Open(filepath.Join(s.dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", vectorsFile, err)
	}
	defer f.Close()

	var blob indexBlob
	if err := gob.NewDecoder(f).Decode(&blob); err != nil {
		return nil, fmt.Errorf("decode vectors: %w", err)
	}

	var metas []struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := readJSON(filepath.Join(s.dir, metadataFile), &metas); err != nil {
		return nil, err
	}

	var contents []string
	if err := readJSON(filepath.Join(s.dir, contentsFile), &contents); err != nil {
		return nil, err
	}

	if len(blob.Vectors) != len(metas) || len(metas) != len(contents) {
		return nil, fmt.Errorf("index artifacts disagree: %d vectors, %d metadata entries, %d contents",
			len(blob.Vectors), len(metas), len(contents))
	}

	units := make([]Unit, len(metas))
	for i, m := range metas {
		units[i] = Unit{ID: m.ID, Content: contents[i], Metadata: m.Metadata}
	}

	ix := &Index{
		dim:     blob.Dim,
		vectors: blob.Vectors,
		units:   units,
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", metaFile, err)
	}
	lines := strings.SplitN(strings.TrimRight(string(raw), "\n"), "\n", 2)
	if len(lines) > 0 {
		ix.Company = lines[0]
	}
	if len(lines) > 1 {
		ix.Date = lines[1]
	}

	return ix, nil
}

// Clear removes every index artifact. Removals that fail are retried with
// an increasing delay; if some artifacts are gone and others remain after
// all attempts, ErrPartialClear is returned and the index must be treated
// as unusable. Clearing an absent index is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	remaining := map[string]bool{}
	for _, name := range artifactNames() {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err == nil {
			remaining[path] = true
		}
	}
	if len(remaining) == 0 {
		return nil
	}

	total := len(remaining)
	backoff := s.clearInitialBackoff

	for attempt := 1; attempt <= s.clearMaxAttempts; attempt++ {
		for path := range remaining {
			if err := os.Remove(path); err == nil || os.IsNotExist(err) {
				delete(remaining, path)
			} else {
				s.logger.Warn("failed to remove index artifact",
					logging.F("path", path),
					logging.F("attempt", attempt),
					logging.Err(err))
			}
		}
		if len(remaining) == 0 {
			s.logger.Info("index cleared", logging.F("dir", s.dir))
			return nil
		}
		if attempt == s.clearMaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("clear cancelled: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff += s.clearInitialBackoff
	}

	if len(remaining) == total {
		return fmt.Errorf("%w: no artifacts could be removed", ecaerrors.ErrIndexLocked)
	}
	return fmt.Errorf("%w: %d of %d artifacts remain", ecaerrors.ErrPartialClear, len(remaining), total)
}

func artifactNames() []string {
	return []string{vectorsFile, metadataFile, contentsFile, metaFile}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}
