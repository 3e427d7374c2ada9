package transcript

import (
	"regexp"
	"strings"
)

// Speaker line regular expressions. The primary shape is a short run of
// uppercase letters, digits, spaces and light punctuation followed by a
// :, - or em-dash separator and a message; the alternate shape relaxes the
// label to mixed case for transcripts that don't capitalize speaker names.
var (
	speakerLineRe    = regexp.MustCompile(`^([A-Z][A-Z0-9 .\-]{2,60})[:\-—]\s*(.+)`)
	speakerLineAltRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 .\-]{2,60})[:\-—]\s*(.+)`)

	// Recovery shapes for lines that look like mislabeled speaker lines:
	// proper label with separator, relaxed label with separator, or a label
	// run directly followed by a capitalized message.
	likelySpeakerRes = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z][A-Z0-9 .\-]{2,60}[:\-—]`),
		regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 .\-]{2,60}[:\-—]`),
		regexp.MustCompile(`^[A-Z][A-Z0-9 .\-]{2,60}\s+[A-Z]`),
	}

	speakerExtractRes = []*regexp.Regexp{
		speakerLineRe,
		speakerLineAltRe,
		regexp.MustCompile(`^([A-Z][A-Z0-9 .\-]{2,60})\s+([A-Z].+)`),
	}
)

// SplitSpeakerChunks segments line-delimited transcript text into contiguous
// speaker-attributed chunks.
//
// Each non-blank line either opens a new chunk (speaker label detected),
// continues the current chunk, or — when no chunk is open — goes through a
// recovery heuristic that tries to split a probable mislabeled speaker line.
// Text with no detectable speaker at all comes back as a single chunk
// attributed to UnknownSpeaker. Blank lines never start, terminate, or join
// a chunk.
func SplitSpeakerChunks(text string) []SpeakerChunk {
	var chunks []SpeakerChunk
	var cur *SpeakerChunk

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		m := speakerLineRe.FindStringSubmatch(line)
		if m == nil {
			m = speakerLineAltRe.FindStringSubmatch(line)
		}

		if m != nil {
			if cur != nil {
				chunks = append(chunks, *cur)
			}
			cur = &SpeakerChunk{
				SpeakerRaw: strings.TrimSpace(m[1]),
				Text:       strings.TrimSpace(m[2]),
			}
			continue
		}

		if cur != nil {
			// Continuation: the most common case.
			cur.Text += "\n" + line
			continue
		}

		if isLikelySpeakerLine(line) {
			if speaker, message, ok := extractSpeakerFromLine(line); ok {
				cur = &SpeakerChunk{SpeakerRaw: speaker, Text: message}
				continue
			}
		}
		cur = &SpeakerChunk{SpeakerRaw: UnknownSpeaker, Text: line}
	}

	if cur != nil {
		chunks = append(chunks, *cur)
	}
	return chunks
}

// isLikelySpeakerLine reports whether a line that failed the primary speaker
// patterns still looks like a speaker line.
func isLikelySpeakerLine(line string) bool {
	for _, re := range likelySpeakerRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// extractSpeakerFromLine attempts to split a probable speaker line into its
// speaker and message using the extraction patterns in order. ok is false
// when no pattern yields a split.
func extractSpeakerFromLine(line string) (speaker, message string, ok bool) {
	for _, re := range speakerExtractRes {
		if m := re.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}
