// Package retrieval answers questions about a processed transcript by
// retrieving the most relevant indexed units and grounding a chat
// completion on them.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/vishwa0198/earnings-call-analyzer/pkg/ai"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

// Confidence bands derived from the average relevance score of the
// retrieved units.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

const systemPrompt = "You are a financial analyst expert at answering questions about earnings call transcripts. Always base your answers on the provided context."

// degradedAnswer is returned when retrieval succeeded but the completion
// call failed; the sources are still useful.
const degradedAnswer = "Sorry, I couldn't generate an answer at this time."

// Answer is the result of one question.
type Answer struct {
	Text       string
	Sources    []index.SearchResult
	Confidence string
	AvgScore   float32
}

// Engine ties an index to the embedding and completion clients.
type Engine struct {
	index     *index.Index
	embedder  ai.Embedder
	completer ai.Completer
	topK      int
	logger    logging.Logger
}

// NewEngine creates an engine over a loaded index. topK defaults to 5
// when non-positive; a nil logger is replaced with a no-op logger.
func NewEngine(ix *index.Index, embedder ai.Embedder, completer ai.Completer, topK int, logger logging.Logger) *Engine {
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		index:     ix,
		embedder:  embedder,
		completer: completer,
		topK:      topK,
		logger:    logger.With(logging.F("component", "retrieval")),
	}
}

// Ask embeds the question, retrieves the topK most relevant units, and
// generates a grounded answer. A completion failure degrades to a stock
// low-confidence answer with the sources intact rather than erroring;
// an embedding failure is a real error since nothing can be retrieved.
func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	queryVec, err := e.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	sources, err := e.index.Search(queryVec, e.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	avg := averageScore(sources)
	answer := &Answer{
		Sources:    sources,
		Confidence: confidenceBand(avg),
		AvgScore:   avg,
	}

	text, err := e.completer.Complete(ctx, systemPrompt, buildPrompt(sources, question))
	if err != nil {
		e.logger.Warn("completion failed, returning degraded answer", logging.Err(err))
		answer.Text = degradedAnswer
		answer.Confidence = ConfidenceLow
		answer.AvgScore = 0
		return answer, nil
	}

	answer.Text = strings.TrimSpace(text)
	return answer, nil
}

// buildPrompt assembles the grounded user prompt from the retrieved
// units and the question.
func buildPrompt(sources []index.SearchResult, question string) string {
	contexts := make([]string, len(sources))
	for i, src := range sources {
		contexts[i] = src.Unit.Content
	}

	var b strings.Builder
	b.WriteString("Based on the following context from an earnings call transcript, answer the question.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contexts, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Answer based ONLY on the provided context\n")
	b.WriteString("- Cite specific speakers when possible\n")
	b.WriteString("- Include relevant metrics and data points\n")
	b.WriteString("- If the answer is not in the context, say so clearly\n")
	b.WriteString("- Be concise but comprehensive\n")
	return b.String()
}

func averageScore(sources []index.SearchResult) float32 {
	if len(sources) == 0 {
		return 0
	}
	var sum float32
	for _, s := range sources {
		sum += s.Score
	}
	return sum / float32(len(sources))
}

func confidenceBand(avg float32) string {
	switch {
	case avg > 0.8:
		return ConfidenceHigh
	case avg > 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
