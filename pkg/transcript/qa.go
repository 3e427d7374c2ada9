package transcript

import (
	"regexp"
	"strings"
)

// Question detection patterns.
var (
	questionIndicatorRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\?`),
		regexp.MustCompile(`(?i)\b(question|ask|wondering|curious|inquire)\b`),
		regexp.MustCompile(`(?i)\b(what|how|why|when|where|which|who)\b.*\?`),
		regexp.MustCompile(`(?i)\b(can you|could you|would you|do you)\b`),
	}

	// Broader second-pass patterns, checked after role.
	questionExtraRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(analyst|question|ask|wondering|curious|inquire)\b`),
		regexp.MustCompile(`(?i)\b(what|how|why|when|where|which|who)\b.*\?`),
		regexp.MustCompile(`(?i)\b(can you|could you|would you|do you)\b`),
		regexp.MustCompile(`(?i)\b(first|next|follow-up)\s+(question|one)\b`),
	}

	// Company/role mention patterns for question context, tried in order.
	questionCompanyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)from\s+([A-Z][A-Za-z\s&]+)`),
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+)\s+analyst`),
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+)\s+here`),
	}
)

// IsQuestionBlock reports whether a chunk counts as a question: any question
// indicator in the text, or the investor role by itself.
//
// Role alone being sufficient is deliberate — nearly every investor chunk is
// treated as a question even when it is syntactically a statement, and
// downstream pairing depends on that over-classification. Do not tighten
// this without revisiting PairQuestionsAnswers.
func IsQuestionBlock(chunk MappedChunk) bool {
	for _, re := range questionIndicatorRes {
		if re.MatchString(chunk.Text) {
			return true
		}
	}
	if chunk.Role == RoleInvestor {
		return true
	}
	for _, re := range questionExtraRes {
		if re.MatchString(chunk.Text) {
			return true
		}
	}
	return false
}

// PairQuestionsAnswers scans role-mapped Q&A chunks in order and groups each
// detected question with the answer chunks that follow it. Answer collection
// stops at the next question or at a moderator chunk whose text mentions
// "question" (the handoff to the next Q&A round); the moderator chunk itself
// is not collected. Non-question chunks outside any pair are skipped — they
// remain available upstream for indexing, just unpaired.
func PairQuestionsAnswers(chunks []MappedChunk) []QAPair {
	var pairs []QAPair

	i := 0
	for i < len(chunks) {
		block := chunks[i]
		if !IsQuestionBlock(block) {
			i++
			continue
		}

		var answers []MappedChunk
		j := i + 1
		for j < len(chunks) {
			next := chunks[j]
			if IsQuestionBlock(next) {
				break
			}
			if next.Role == RoleModerator && strings.Contains(strings.ToLower(next.Text), "question") {
				break
			}
			answers = append(answers, next)
			j++
		}

		answerSpeakers := make([]string, len(answers))
		for k, a := range answers {
			answerSpeakers[k] = a.SpeakerName
		}

		pairs = append(pairs, QAPair{
			Question:        block,
			Answers:         answers,
			QuestionContext: ExtractQuestionContext(block),
			QuestionSpeaker: block.SpeakerName,
			AnswerSpeakers:  answerSpeakers,
		})
		i = j
	}

	return pairs
}

// ExtractQuestionContext recovers best-effort asker context from a question
// chunk: the mentioned company (defaults to "Unknown") and the asker's role
// (defaults to "Analyst", refined to Investor or Fund Manager when the text
// says so).
func ExtractQuestionContext(question MappedChunk) QuestionContext {
	ctx := QuestionContext{
		Speaker: question.SpeakerName,
		Company: "Unknown",
		Role:    "Analyst",
	}

	for _, re := range questionCompanyRes {
		if m := re.FindStringSubmatch(question.Text); m != nil {
			ctx.Company = strings.TrimSpace(m[1])
			break
		}
	}

	lower := strings.ToLower(question.Text)
	switch {
	case strings.Contains(lower, "analyst"):
		ctx.Role = "Analyst"
	case strings.Contains(lower, "investor"):
		ctx.Role = "Investor"
	case strings.Contains(lower, "fund"):
		ctx.Role = "Fund Manager"
	}

	return ctx
}
