// Package topics extracts key business topics from transcript sections
// and generates a short summary per topic.
package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vishwa0198/earnings-call-analyzer/pkg/ai"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/transcript"
)

const maxTopics = 5

// Per-request text caps, matching prompt budgets rather than model limits.
const (
	extractTextCap = 3000
	summaryTextCap = 2000
)

const (
	extractSystemPrompt = "You are a financial analyst expert at extracting key business topics from earnings call transcripts. Focus on specific, actionable business themes."
	summarySystemPrompt = "You are a financial analyst expert at creating concise, business-focused summaries from earnings call content."
)

// jsonArrayRe finds the first JSON array in a model response that may be
// wrapped in prose or code fences.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// Topic is one extracted theme with its summary.
type Topic struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Summary     string `json:"summary,omitempty"`
}

// SectionTopics is the topic analysis of one transcript section.
type SectionTopics struct {
	Section transcript.Section
	Topics  []Topic
}

// Extractor runs topic extraction and summarization through a Completer.
type Extractor struct {
	completer ai.Completer
	logger    logging.Logger
}

// NewExtractor creates an Extractor. A nil logger is replaced with a
// no-op logger.
func NewExtractor(completer ai.Completer, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Extractor{
		completer: completer,
		logger:    logger.With(logging.F("component", "topics")),
	}
}

// ProcessSection extracts up to five topics from a section and generates
// a summary for each. Extraction failure yields an empty topic list, and
// a failed summary becomes a placeholder; neither is an error, so one bad
// API call never sinks the whole analysis.
func (e *Extractor) ProcessSection(ctx context.Context, sectionText string, section transcript.Section, company string) SectionTopics {
	result := SectionTopics{Section: section}

	raw, err := e.completer.Complete(ctx, extractSystemPrompt, extractPrompt(sectionText, section, company))
	if err != nil {
		e.logger.Warn("topic extraction failed",
			logging.F("section", string(section)),
			logging.Err(err))
		return result
	}

	topics := ParseTopicsResponse(raw)
	for i := range topics {
		topics[i].Summary = e.summarize(ctx, topics[i].Topic, sectionText, section, company)
	}
	result.Topics = topics
	return result
}

func (e *Extractor) summarize(ctx context.Context, topic, sectionText string, section transcript.Section, company string) string {
	text, err := e.completer.Complete(ctx, summarySystemPrompt, summaryPrompt(topic, sectionText, section, company))
	if err != nil {
		e.logger.Warn("topic summary failed",
			logging.F("topic", topic),
			logging.Err(err))
		return fmt.Sprintf("Summary for %s could not be generated at this time.", topic)
	}
	return strings.TrimSpace(text)
}

// extractPrompt builds the section-specific extraction prompt.
func extractPrompt(text string, section transcript.Section, company string) string {
	var focus string
	if section == transcript.SectionOpeningRemarks {
		focus = `Focus on:
- Financial performance metrics and results
- Strategic initiatives and business updates
- Market conditions and outlook
- Operational highlights
- Forward-looking statements and guidance`
	} else {
		focus = `Focus on:
- Analyst concerns and questions
- Management responses and clarifications
- Financial guidance and outlook
- Strategic priorities and challenges
- Market opportunities and risks`
	}

	sectionName := "opening remarks"
	if section != transcript.SectionOpeningRemarks {
		sectionName = "Q&A section"
	}

	return fmt.Sprintf(`Analyze the following %s from %s's earnings call and extract 3-5 key business topics.

%s

Avoid generic topics. Be specific to the company and industry.

Text to analyze:
%s

Return the topics as a JSON array with this format:
[
    {"topic": "Topic Name", "description": "Brief description of the topic"},
    {"topic": "Topic Name", "description": "Brief description of the topic"}
]`, sectionName, company, focus, truncate(text, extractTextCap))
}

func summaryPrompt(topic, text string, section transcript.Section, company string) string {
	return fmt.Sprintf(`Generate a 2-4 sentence business-focused summary for the topic %q from %s's earnings call %s section.

Requirements:
- Include specific metrics, data points, and insights
- Capture management perspectives and forward-looking statements
- Maintain factual accuracy from the source content
- Focus on business implications and strategic importance

Section text to analyze:
%s

Return only the summary text, no additional formatting.`, topic, company, string(section), truncate(text, summaryTextCap))
}

// ParseTopicsResponse extracts topics from a model response: the first
// JSON array if one parses, otherwise a line-by-line fallback. At most
// five topics are returned.
func ParseTopicsResponse(response string) []Topic {
	if m := jsonArrayRe.FindString(response); m != "" {
		var topics []Topic
		if err := json.Unmarshal([]byte(m), &topics); err == nil {
			if len(topics) > maxTopics {
				topics = topics[:maxTopics]
			}
			return topics
		}
	}
	return parseTopicsManually(response)
}

// parseTopicsManually scavenges "name: description" lines mentioning
// topic or description from a response that was not valid JSON.
func parseTopicsManually(response string) []Topic {
	var topics []Topic
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "topic") && !strings.Contains(lower, "description") {
			continue
		}
		name, desc, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = stripQuotes(strings.TrimSpace(name))
		desc = stripQuotes(strings.TrimSpace(desc))
		if name == "" || desc == "" {
			continue
		}
		topics = append(topics, Topic{Topic: name, Description: desc})
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}

func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	return strings.ReplaceAll(s, "'", "")
}

// truncate caps s at n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
