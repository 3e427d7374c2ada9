package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/extract"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/pipeline"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/topics"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/transcript"
)

// processResult is the machine-friendly summary of one processing run.
type processResult struct {
	Company       string                   `json:"company" yaml:"company"`
	Date          string                   `json:"date" yaml:"date"`
	Participants  []transcript.Participant `json:"participants" yaml:"participants"`
	OpeningChunks int                      `json:"opening_chunks" yaml:"opening_chunks"`
	QAChunks      int                      `json:"qa_chunks" yaml:"qa_chunks"`
	QAPairs       int                      `json:"qa_pairs" yaml:"qa_pairs"`
	UnitsIndexed  int                      `json:"units_indexed" yaml:"units_indexed"`
	ElapsedMS     int64                    `json:"elapsed_ms" yaml:"elapsed_ms"`
	OpeningTopics []topics.Topic           `json:"opening_topics,omitempty" yaml:"opening_topics,omitempty"`
	QATopics      []topics.Topic           `json:"qa_topics,omitempty" yaml:"qa_topics,omitempty"`
}

// NewProcessCommand creates the `eca process` command. It parses a transcript,
// embeds the speaker chunks into the vector index, and extracts topics.
// Processing replaces any previously indexed transcript.
func NewProcessCommand(deps *Deps) *cobra.Command {
	var (
		demo       bool
		skipTopics bool
	)

	cmd := &cobra.Command{
		Use:   "process [transcript.pdf]",
		Short: "Parse, index, and analyze an earnings call transcript",
		Long: `Process reads an earnings call transcript PDF, splits it into opening
remarks and Q&A, attributes each chunk to a speaker, embeds the chunks into
the on-disk vector index, and extracts the main topics per section.

Any previously processed transcript is cleared first; the index always holds
exactly one call. Use --demo to process the bundled sample transcript.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, deps, args, demo, skipTopics)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "process the bundled sample transcript")
	cmd.Flags().BoolVar(&skipTopics, "skip-topics", false, "skip topic extraction")

	return cmd
}

func runProcess(cmd *cobra.Command, deps *Deps, args []string, demo, skipTopics bool) error {
	if deps.Config == nil {
		return fmt.Errorf("%w: no configuration loaded", ecaerrors.ErrValidation)
	}

	doc, err := loadDocument(deps, args, demo)
	if err != nil {
		return err
	}

	store, err := deps.indexStore()
	if err != nil {
		return err
	}
	if err := deps.openAI(); err != nil {
		return err
	}

	var extractor *topics.Extractor
	if !skipTopics {
		extractor = topics.NewExtractor(deps.Completer, deps.log())
	}

	opts := pipeline.Options{
		FirstPages:     deps.Config.Parser.FirstPages,
		FuzzyThreshold: deps.Config.Parser.FuzzyThreshold,
		SkipTopics:     skipTopics,
	}
	proc := pipeline.NewProcessor(deps.Embedder, store, extractor, opts, deps.metrics(), deps.log())

	analysis, err := proc.Process(cmd.Context(), doc)
	if err != nil {
		return err
	}

	res := summarize(analysis)
	return deps.printResult(res, func(w io.Writer) {
		printProcessText(w, res)
	})
}

// loadDocument resolves the input transcript. --demo reads the configured
// plain-text sample; otherwise the single positional argument names a PDF
// (or a .txt file, read page-per-form-feed).
func loadDocument(deps *Deps, args []string, demo bool) (*extract.Document, error) {
	if demo {
		if deps.Config.DemoFile == "" {
			return nil, fmt.Errorf("%w: no demo_file configured", ecaerrors.ErrValidation)
		}
		return extract.ReadText(deps.Config.DemoFile)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: a transcript path is required (or pass --demo)", ecaerrors.ErrValidation)
	}
	path := args[0]
	if strings.HasSuffix(strings.ToLower(path), ".txt") {
		return extract.ReadText(path)
	}
	return extract.ReadPDF(path)
}

func summarize(a *pipeline.Analysis) processResult {
	date := pipeline.UnknownDate
	if a.Metadata.DateFound {
		date = a.Metadata.Date.Format("2006-01-02")
	}
	return processResult{
		Company:       a.Metadata.Company,
		Date:          date,
		Participants:  a.Metadata.Participants,
		OpeningChunks: len(a.OpeningChunks),
		QAChunks:      len(a.QAChunks),
		QAPairs:       len(a.QAPairs),
		UnitsIndexed:  a.UnitsIndexed,
		ElapsedMS:     a.Elapsed.Milliseconds(),
		OpeningTopics: a.OpeningTopics.Topics,
		QATopics:      a.QATopics.Topics,
	}
}

func printProcessText(w io.Writer, res processResult) {
	fmt.Fprintf(w, "Processed transcript for %s (%s)\n", res.Company, res.Date)
	fmt.Fprintf(w, "Participants: %d\n", len(res.Participants))
	for _, p := range res.Participants {
		if p.Title != "" {
			fmt.Fprintf(w, "  - %s, %s\n", p.Name, p.Title)
		} else {
			fmt.Fprintf(w, "  - %s\n", p.Name)
		}
	}
	fmt.Fprintf(w, "Opening remarks: %d chunks\n", res.OpeningChunks)
	fmt.Fprintf(w, "Q&A: %d chunks, %d question/answer pairs\n", res.QAChunks, res.QAPairs)
	fmt.Fprintf(w, "Indexed %d units in %dms\n", res.UnitsIndexed, res.ElapsedMS)

	printTopicsText(w, "Opening remarks topics", res.OpeningTopics)
	printTopicsText(w, "Q&A topics", res.QATopics)
}

func printTopicsText(w io.Writer, heading string, list []topics.Topic) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for i, t := range list {
		fmt.Fprintf(w, "  %d. %s", i+1, t.Topic)
		if t.Description != "" {
			fmt.Fprintf(w, " - %s", t.Description)
		}
		fmt.Fprintln(w)
		if t.Summary != "" {
			fmt.Fprintf(w, "     %s\n", t.Summary)
		}
	}
}
