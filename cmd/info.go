package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/transcript"
)

// charsPerMinute is a rough speaking rate used to estimate section duration
// from text length.
const charsPerMinute = 200

// sectionStats summarizes one section of the indexed transcript.
type sectionStats struct {
	Section          string `json:"section" yaml:"section"`
	Chunks           int    `json:"chunks" yaml:"chunks"`
	Chars            int    `json:"chars" yaml:"chars"`
	EstimatedMinutes int    `json:"estimated_minutes" yaml:"estimated_minutes"`
}

// speakerStats counts indexed chunks per speaker.
type speakerStats struct {
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Chunks int    `json:"chunks" yaml:"chunks"`
}

// infoResult describes the currently indexed transcript.
type infoResult struct {
	Company  string         `json:"company" yaml:"company"`
	Date     string         `json:"date" yaml:"date"`
	Units    int            `json:"units" yaml:"units"`
	IndexDir string         `json:"index_dir" yaml:"index_dir"`
	Sections []sectionStats `json:"sections" yaml:"sections"`
	Speakers []speakerStats `json:"speakers" yaml:"speakers"`
}

// NewInfoCommand creates the `eca info` command. It reports what is currently
// indexed without touching the OpenAI API.
func NewInfoCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show details of the processed transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(deps)
		},
	}
}

func runInfo(deps *Deps) error {
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

	res := infoResult{
		Company:  ix.Company,
		Date:     ix.Date,
		Units:    ix.Len(),
		IndexDir: store.Dir(),
		Sections: collectSectionStats(ix.Units()),
		Speakers: collectSpeakerStats(ix.Units()),
	}

	return deps.printResult(res, func(w io.Writer) {
		printInfoText(w, res)
	})
}

func collectSectionStats(units []index.Unit) []sectionStats {
	order := []transcript.Section{transcript.SectionOpeningRemarks, transcript.SectionQA}
	byName := make(map[string]*sectionStats)
	var stats []sectionStats

	for _, section := range order {
		stats = append(stats, sectionStats{Section: string(section)})
	}
	for i := range stats {
		byName[stats[i].Section] = &stats[i]
	}

	for _, u := range units {
		s, ok := byName[u.Metadata[index.MetaSection]]
		if !ok {
			continue
		}
		s.Chunks++
		s.Chars += len(u.Content)
	}
	for i := range stats {
		stats[i].EstimatedMinutes = stats[i].Chars / charsPerMinute
	}
	return stats
}

func collectSpeakerStats(units []index.Unit) []speakerStats {
	type key struct{ name, role string }
	counts := make(map[key]int)
	for _, u := range units {
		k := key{
			name: u.Metadata[index.MetaSpeakerName],
			role: u.Metadata[index.MetaRole],
		}
		counts[k]++
	}

	stats := make([]speakerStats, 0, len(counts))
	for k, n := range counts {
		stats = append(stats, speakerStats{Name: k.name, Role: k.role, Chunks: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Chunks != stats[j].Chunks {
			return stats[i].Chunks > stats[j].Chunks
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

func printInfoText(w io.Writer, res infoResult) {
	fmt.Fprintf(w, "Company:   %s\n", res.Company)
	fmt.Fprintf(w, "Call date: %s\n", res.Date)
	fmt.Fprintf(w, "Indexed:   %d units in %s\n", res.Units, res.IndexDir)

	fmt.Fprintln(w, "\nSections:")
	for _, s := range res.Sections {
		fmt.Fprintf(w, "  %-16s %3d chunks, %6d chars, ~%d min\n",
			s.Section, s.Chunks, s.Chars, s.EstimatedMinutes)
	}

	fmt.Fprintln(w, "\nSpeakers:")
	for _, s := range res.Speakers {
		fmt.Fprintf(w, "  %-24s %-12s %d chunks\n", s.Name, s.Role, s.Chunks)
	}
}
