// Package ai provides the embedding and completion clients used to index
// transcripts and answer questions about them. Callers depend on the small
// Embedder and Completer interfaces; the OpenAI implementation lives behind
// them so tests can substitute fakes.
package ai

import "context"

// Embedder converts text into dense vectors.
type Embedder interface {
	// EmbedDocuments embeds a batch of transcript units in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single user question.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Completer produces a chat completion from a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
