// Package transcript recovers structure from earnings-call transcript text:
// call boundaries, metadata, speaker-attributed chunks, speaker roles, and
// question/answer pairs. Everything here is pattern-driven and best-effort;
// when a heuristic finds nothing the functions return documented fallback
// values rather than errors.
package transcript

import "time"

// Role is the coarse classification of a speaker.
type Role string

const (
	RoleModerator  Role = "moderator"
	RoleManagement Role = "management"
	RoleInvestor   Role = "investor"
)

// Section tags which portion of the call a chunk belongs to.
type Section string

const (
	SectionOpeningRemarks Section = "opening_remarks"
	SectionQA             Section = "qa"
)

// UnknownSpeaker is the sentinel label for text that appears before any
// speaker line is identified.
const UnknownSpeaker = "UNKNOWN"

// Participant is one management attendee recovered from the roster on the
// first pages. Title is always a term from the management title vocabulary.
type Participant struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	FullLine string `json:"full_line"`
}

// SpeakerChunk is a contiguous run of text attributed to one raw speaker
// label, before role resolution. Text is never empty; SpeakerRaw is either a
// detected label or UnknownSpeaker.
type SpeakerChunk struct {
	SpeakerRaw string `json:"speaker_raw"`
	Text       string `json:"text"`
}

// MappedChunk is a SpeakerChunk resolved against the participant roster.
// SpeakerName is the canonical roster name for management chunks and the raw
// label otherwise. Section is attached by the caller after mapping.
type MappedChunk struct {
	SpeakerName string  `json:"speaker_name"`
	SpeakerRaw  string  `json:"speaker_raw"`
	Role        Role    `json:"role"`
	Text        string  `json:"text"`
	Section     Section `json:"section,omitempty"`
}

// QuestionContext is best-effort context recovered from a question's text.
type QuestionContext struct {
	Speaker string `json:"speaker"`
	Company string `json:"company"`
	Role    string `json:"role"`
}

// QAPair groups a detected question with the answer chunks that follow it, up
// to the next question or a moderator handoff.
type QAPair struct {
	Question        MappedChunk     `json:"question"`
	Answers         []MappedChunk   `json:"answers"`
	QuestionContext QuestionContext `json:"question_context"`
	QuestionSpeaker string          `json:"question_speaker"`
	AnswerSpeakers  []string        `json:"answer_speakers"`
}

// Metadata is what the first pages yield about the call itself.
type Metadata struct {
	Company      string        `json:"company"`
	Date         time.Time     `json:"date"`
	DateFound    bool          `json:"date_found"`
	Participants []Participant `json:"participants"`
}
