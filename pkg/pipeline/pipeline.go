// Package pipeline drives end-to-end transcript processing: text
// extraction, segmentation, speaker attribution, embedding, indexing,
// and topic analysis.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vishwa0198/earnings-call-analyzer/pkg/ai"
	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/extract"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/topics"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/transcript"
)

// UnknownDate is persisted in meta.txt when no call date was found.
const UnknownDate = "Unknown"

// Analysis is the summary of one processed transcript.
type Analysis struct {
	Metadata transcript.Metadata

	OpeningText string
	QAText      string

	OpeningChunks []transcript.MappedChunk
	QAChunks      []transcript.MappedChunk
	QAPairs       []transcript.QAPair

	OpeningTopics topics.SectionTopics
	QATopics      topics.SectionTopics

	UnitsIndexed int
	Elapsed      time.Duration
}

// Options tunes the processing pipeline.
type Options struct {
	// FirstPages is how many leading pages feed metadata extraction.
	FirstPages int

	// FuzzyThreshold is the roster match cutoff passed to MapRoles.
	FuzzyThreshold int

	// SkipTopics disables topic extraction even when an extractor is set.
	SkipTopics bool
}

// Processor runs the full pipeline. The topic extractor is optional;
// everything else is required.
type Processor struct {
	embedder ai.Embedder
	store    *index.Store
	topics   *topics.Extractor
	opts     Options
	metrics  *Metrics
	logger   logging.Logger
}

// NewProcessor creates a Processor. Nil metrics and logger are replaced
// with no-op equivalents; zero option fields get defaults.
func NewProcessor(embedder ai.Embedder, store *index.Store, topicExtractor *topics.Extractor, opts Options, metrics *Metrics, logger logging.Logger) *Processor {
	if opts.FirstPages <= 0 {
		opts.FirstPages = 2
	}
	if opts.FuzzyThreshold <= 0 {
		opts.FuzzyThreshold = transcript.DefaultFuzzyThreshold
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{
		embedder: embedder,
		store:    store,
		topics:   topicExtractor,
		opts:     opts,
		metrics:  metrics,
		logger:   logger.With(logging.F("component", "pipeline")),
	}
}

// Process analyzes one extracted transcript and persists the resulting
// index, replacing any previous one. Metadata extraction works on cleaned
// first-page text; chunking works on the original line-delimited text,
// which the heuristics depend on.
func (p *Processor) Process(ctx context.Context, doc *extract.Document) (*Analysis, error) {
	start := time.Now()

	analysis, err := p.process(ctx, doc)
	if p.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		p.metrics.TranscriptsProcessedTotal.WithLabelValues(status).Inc()
		p.metrics.ProcessingSeconds.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	analysis.Elapsed = time.Since(start)
	p.logger.Info("transcript processed",
		logging.F("company", analysis.Metadata.Company),
		logging.F("units", analysis.UnitsIndexed),
		logging.F("qa_pairs", len(analysis.QAPairs)),
		logging.F("elapsed", analysis.Elapsed))
	return analysis, nil
}

func (p *Processor) process(ctx context.Context, doc *extract.Document) (*Analysis, error) {
	if doc == nil || doc.PageCount() == 0 {
		return nil, fmt.Errorf("%w: empty document", ecaerrors.ErrValidation)
	}

	// Re-processing replaces the previous call outright.
	if p.store.Exists() {
		p.logger.Info("clearing previous index before processing")
		if err := p.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear previous index: %w", err)
		}
	}

	fullText := doc.FullText()
	if k := transcript.FindCallStart(fullText); k > 0 {
		fullText = fullText[k:]
	}

	firstPages := cleanPages(doc.Pages, p.opts.FirstPages)
	company := transcript.ExtractCompany(firstPages)
	date, dateFound := transcript.ExtractDate(firstPages)
	participants := transcript.ExtractParticipants(firstPages)

	meta := transcript.Metadata{
		Company:      company,
		Date:         date,
		DateFound:    dateFound,
		Participants: participants,
	}

	openingText, qaText := transcript.SplitQA(fullText)

	names := make([]string, len(participants))
	for i, pt := range participants {
		names[i] = pt.Name
	}

	openingMapped := p.mapSection(transcript.SplitSpeakerChunks(openingText), names, transcript.SectionOpeningRemarks)
	qaMapped := p.mapSection(transcript.SplitSpeakerChunks(qaText), names, transcript.SectionQA)
	qaPairs := transcript.PairQuestionsAnswers(qaMapped)
	if p.metrics != nil {
		p.metrics.QAPairsTotal.Add(float64(len(qaPairs)))
	}

	units, contents := toUnits(append(append([]transcript.MappedChunk{}, openingMapped...), qaMapped...))
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: transcript produced no speaker chunks", ecaerrors.ErrValidation)
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed transcript units: %w", err)
	}

	ix, err := index.Build(vectors, units)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	ix.Company = company
	ix.Date = formatDate(date, dateFound)

	if err := p.store.Save(ix); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	if p.metrics != nil {
		p.metrics.UnitsIndexedTotal.Add(float64(len(units)))
	}

	analysis := &Analysis{
		Metadata:      meta,
		OpeningText:   openingText,
		QAText:        qaText,
		OpeningChunks: openingMapped,
		QAChunks:      qaMapped,
		QAPairs:       qaPairs,
		UnitsIndexed:  len(units),
	}

	if p.topics != nil && !p.opts.SkipTopics {
		analysis.OpeningTopics = p.topics.ProcessSection(ctx, openingText, transcript.SectionOpeningRemarks, company)
		analysis.QATopics = p.topics.ProcessSection(ctx, qaText, transcript.SectionQA, company)
	}

	return analysis, nil
}

func (p *Processor) mapSection(chunks []transcript.SpeakerChunk, names []string, section transcript.Section) []transcript.MappedChunk {
	mapped := transcript.MapRoles(chunks, names, p.opts.FuzzyThreshold)
	for i := range mapped {
		mapped[i].Section = section
	}
	if p.metrics != nil {
		p.metrics.ChunksTotal.WithLabelValues(string(section)).Add(float64(len(mapped)))
	}
	return mapped
}

// toUnits converts mapped chunks to index units with fresh IDs, returning
// the parallel content slice handed to the embedder.
func toUnits(chunks []transcript.MappedChunk) ([]index.Unit, []string) {
	units := make([]index.Unit, 0, len(chunks))
	contents := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		units = append(units, index.Unit{
			ID:      uuid.NewString(),
			Content: c.Text,
			Metadata: map[string]string{
				index.MetaSpeakerName: c.SpeakerName,
				index.MetaSpeakerRaw:  c.SpeakerRaw,
				index.MetaRole:        string(c.Role),
				index.MetaSection:     string(c.Section),
			},
		})
		contents = append(contents, c.Text)
	}
	return units, contents
}

// cleanPages normalizes the first n pages and joins them, the text view
// metadata extraction runs on.
func cleanPages(pages []string, n int) string {
	if n > len(pages) {
		n = len(pages)
	}
	cleaned := make([]string, 0, n)
	for _, page := range pages[:n] {
		cleaned = append(cleaned, transcript.CleanText(page))
	}
	return strings.Join(cleaned, "\n")
}

func formatDate(date time.Time, found bool) string {
	if !found {
		return UnknownDate
	}
	return date.Format("2006-01-02")
}
