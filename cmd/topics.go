package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/topics"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/transcript"
)

// topicsResult holds the per-section extraction output.
type topicsResult struct {
	Company       string         `json:"company" yaml:"company"`
	OpeningTopics []topics.Topic `json:"opening_topics,omitempty" yaml:"opening_topics,omitempty"`
	QATopics      []topics.Topic `json:"qa_topics,omitempty" yaml:"qa_topics,omitempty"`
}

// NewTopicsCommand creates the `eca topics` command. It re-runs topic
// extraction over the indexed transcript, rebuilding each section's text from
// the stored chunks.
func NewTopicsCommand(deps *Deps) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Extract the main topics from the processed transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopics(cmd, deps, section)
		},
	}

	cmd.Flags().StringVar(&section, "section", "all", "section to analyze: opening, qa, or all")

	return cmd
}

func runTopics(cmd *cobra.Command, deps *Deps, section string) error {
	wantOpening, wantQA, err := parseSectionFlag(section)
	if err != nil {
		return err
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

	extractor := topics.NewExtractor(deps.Completer, deps.log())
	res := topicsResult{Company: ix.Company}

	if wantOpening {
		text := sectionText(ix.Units(), transcript.SectionOpeningRemarks)
		if text != "" {
			st := extractor.ProcessSection(cmd.Context(), text, transcript.SectionOpeningRemarks, ix.Company)
			res.OpeningTopics = st.Topics
		}
	}
	if wantQA {
		text := sectionText(ix.Units(), transcript.SectionQA)
		if text != "" {
			st := extractor.ProcessSection(cmd.Context(), text, transcript.SectionQA, ix.Company)
			res.QATopics = st.Topics
		}
	}

	return deps.printResult(res, func(w io.Writer) {
		fmt.Fprintf(w, "Topics for %s\n", res.Company)
		printTopicsText(w, "Opening remarks", res.OpeningTopics)
		printTopicsText(w, "Q&A", res.QATopics)
		if len(res.OpeningTopics) == 0 && len(res.QATopics) == 0 {
			fmt.Fprintln(w, "No topics extracted.")
		}
	})
}

func parseSectionFlag(section string) (opening, qa bool, err error) {
	switch strings.ToLower(section) {
	case "opening":
		return true, false, nil
	case "qa":
		return false, true, nil
	case "all", "":
		return true, true, nil
	default:
		return false, false, fmt.Errorf("%w: unknown section %q (want opening, qa, or all)", ecaerrors.ErrValidation, section)
	}
}

// sectionText rebuilds a section's text from its indexed chunks, one
// speaker-prefixed line per chunk.
func sectionText(units []index.Unit, section transcript.Section) string {
	var b strings.Builder
	for _, u := range units {
		if u.Metadata[index.MetaSection] != string(section) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if speaker := u.Metadata[index.MetaSpeakerName]; speaker != "" {
			b.WriteString(speaker)
			b.WriteString(": ")
		}
		b.WriteString(u.Content)
	}
	return b.String()
}
