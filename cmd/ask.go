package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/retrieval"
)

// askSource is one retrieved chunk backing an answer.
type askSource struct {
	Speaker string  `json:"speaker" yaml:"speaker"`
	Role    string  `json:"role" yaml:"role"`
	Section string  `json:"section" yaml:"section"`
	Snippet string  `json:"snippet" yaml:"snippet"`
	Score   float32 `json:"score" yaml:"score"`
}

// askResult is the machine-friendly rendering of one answer.
type askResult struct {
	Question   string      `json:"question" yaml:"question"`
	Answer     string      `json:"answer" yaml:"answer"`
	Confidence string      `json:"confidence" yaml:"confidence"`
	AvgScore   float32     `json:"avg_score" yaml:"avg_score"`
	Sources    []askSource `json:"sources" yaml:"sources"`
}

// NewAskCommand creates the `eca ask` command. It answers a question about
// the processed transcript using retrieval-augmented generation.
func NewAskCommand(deps *Deps) *cobra.Command {
	var (
		showHistory bool
		topK        int
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about the processed transcript",
		Long: `Ask embeds the question, retrieves the most similar transcript chunks from
the index, and generates an answer grounded in those chunks. Each exchange is
appended to a conversation history file next to the index; --history shows
the most recent exchanges instead of asking.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showHistory {
				return runAskHistory(deps)
			}
			return runAsk(cmd, deps, args, topK)
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "show recent questions and answers")
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of chunks to retrieve (0 uses the configured default)")

	return cmd
}

func runAsk(cmd *cobra.Command, deps *Deps, args []string, topK int) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: a question is required", ecaerrors.ErrValidation)
	}

	store, err := deps.indexStore()
	if err != nil {
		return err
	}
	ix, err := store.Load()
	if err != nil {
		if ecaerrors.IsNoIndex(err) {
			return fmt.Errorf("%w: no transcript has been processed yet (run `eca process` first)", err)
		}
		return err
	}
	if err := deps.openAI(); err != nil {
		return err
	}

	if topK <= 0 {
		topK = deps.Config.Index.TopK
	}
	engine := retrieval.NewEngine(ix, deps.Embedder, deps.Completer, topK, deps.log())

	answer, err := engine.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}

	entry := historyEntry{
		Question:   question,
		Answer:     answer.Text,
		Confidence: answer.Confidence,
		AskedAt:    time.Now().UTC(),
	}
	if err := appendHistory(store.Dir(), entry); err != nil {
		deps.log().Warn("failed to record history", logging.Err(err))
	}

	res := askResult{
		Question:   question,
		Answer:     answer.Text,
		Confidence: answer.Confidence,
		AvgScore:   answer.AvgScore,
		Sources:    toAskSources(answer.Sources),
	}
	return deps.printResult(res, func(w io.Writer) {
		printAskText(w, res)
	})
}

func runAskHistory(deps *Deps) error {
	store, err := deps.indexStore()
	if err != nil {
		return err
	}
	entries, err := loadHistory(store.Dir())
	if err != nil {
		return err
	}
	recent := lastEntries(entries, historyShowLimit)

	return deps.printResult(recent, func(w io.Writer) {
		if len(recent) == 0 {
			fmt.Fprintln(w, "No questions asked yet.")
			return
		}
		for _, e := range recent {
			fmt.Fprintf(w, "[%s] Q: %s\n", e.AskedAt.Format(time.RFC3339), e.Question)
			fmt.Fprintf(w, "A (%s): %s\n\n", e.Confidence, e.Answer)
		}
	})
}

func toAskSources(results []index.SearchResult) []askSource {
	sources := make([]askSource, 0, len(results))
	for _, r := range results {
		sources = append(sources, askSource{
			Speaker: r.Unit.Metadata[index.MetaSpeakerName],
			Role:    r.Unit.Metadata[index.MetaRole],
			Section: r.Unit.Metadata[index.MetaSection],
			Snippet: snippet(r.Unit.Content, 200),
			Score:   r.Score,
		})
	}
	return sources
}

// snippet squeezes whitespace and caps the text at n bytes, backing up to a
// rune boundary so multi-byte characters are never split.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func printAskText(w io.Writer, res askResult) {
	fmt.Fprintln(w, res.Answer)
	fmt.Fprintf(w, "\nConfidence: %s (avg similarity %.2f)\n", res.Confidence, res.AvgScore)
	if len(res.Sources) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSources:")
	for i, s := range res.Sources {
		fmt.Fprintf(w, "  %d. %s (%s, %s, score %.2f)\n", i+1, s.Speaker, s.Role, s.Section, s.Score)
		fmt.Fprintf(w, "     %s\n", s.Snippet)
	}
}
