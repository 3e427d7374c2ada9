package transcript

import (
	"regexp"
	"strings"
)

// Text cleanup regular expressions, applied in order by CleanText.
var (
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	pageNumberRe    = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	nonASCIIRe      = regexp.MustCompile(`[^\x00-\x7F]+`)
	// Uppercase label with a :, - or em-dash separator, rewritten toward the
	// "LABEL: " shape downstream regexes expect. The label group admits
	// spaces, so a spaced separator keeps one space before the colon
	// ("LABEL : "); em-dashes never reach this pass because the non-ASCII
	// replacement runs first.
	speakerSepRe = regexp.MustCompile(`([A-Z][A-Z0-9 .\-]{2,60})\s*[:\-—]\s*`)
)

// CleanText normalizes raw extracted page text: collapses whitespace runs,
// drops page-number-only lines, replaces non-ASCII runs with a space, turns
// form feeds into newlines, and rewrites speaker-label separators toward
// "LABEL: ". A separator preceded by a space comes out as "LABEL : ", and an
// em-dash separator is consumed by the non-ASCII pass before the rewrite sees
// it; downstream label regexes tolerate both forms.
//
// Non-ASCII removal is lossy; transcripts with non-Latin names lose them
// here. Apply CleanText per page before metadata and boundary search, but
// keep the original line-delimited text for speaker chunking, which depends
// on line structure.
func CleanText(text string) string {
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	text = pageNumberRe.ReplaceAllString(text, "")
	text = nonASCIIRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = speakerSepRe.ReplaceAllString(text, "${1}: ")
	return strings.TrimSpace(text)
}
