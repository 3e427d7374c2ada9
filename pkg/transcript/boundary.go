package transcript

import "regexp"

// Boundary pattern lists. Order is priority: the first pattern in the list
// that matches anywhere in the text wins, even if a later-listed pattern
// occurs earlier in the text. This lets specific signals (an exact section
// heading) outrank weak generic ones ("Operator:") regardless of position.
// Do not switch these scans to earliest-offset semantics.
var (
	callStartPatterns = compileAll(
		`Ladies and gentlemen, welcome to`,
		`Good morning and welcome to`,
		`Good afternoon and welcome to`,
		`Thank you for joining us`,
		`Welcome to.*earnings call`,
		`Welcome to.*conference call`,
		`Thank you for joining.*earnings`,
		`Thank you for joining.*conference`,
	)

	qaSplitPatterns = compileAll(
		`Questions and Answers`,
		`Question-and-Answer`,
		`\bQ&A\b`,
		`Operator:`,
		`We will now open the line for questions`,
		`First question is from`,
		`our first question`,
		`first question`,
		`Now we will open the floor for questions`,
		`Let's open the floor for questions`,
		`We'll now open the floor for questions`,
		`Now we'll take questions`,
		`Let's take some questions`,
		`We'll take some questions`,
		`Questions from the floor`,
		`Questions from analysts`,
		`Analyst questions`,
		`Investor questions`,
	)
)

// compileAll compiles the given expressions case-insensitively, preserving
// list order.
func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return patterns
}

// FindCallStart returns the character offset where the conference call
// proper begins, or 0 when no greeting pattern matches (no trimming).
func FindCallStart(text string) int {
	for _, p := range callStartPatterns {
		if loc := p.FindStringIndex(text); loc != nil {
			return loc[0]
		}
	}
	return 0
}

// SplitQA splits text into opening remarks and the Q&A portion at the first
// Q&A-transition pattern, in list order. When nothing matches, the whole text
// is opening remarks and the Q&A portion is empty. For a split at offset k,
// opening+qa == text exactly.
func SplitQA(text string) (opening, qa string) {
	for _, p := range qaSplitPatterns {
		if loc := p.FindStringIndex(text); loc != nil {
			return text[:loc[0]], text[loc[0]:]
		}
	}
	return text, ""
}
