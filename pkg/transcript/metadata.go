package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// UnknownCompany is the fallback when no company line can be identified.
const UnknownCompany = "Unknown Company"

// Metadata extraction regular expressions.
var (
	legalSuffixRe = regexp.MustCompile(`(?i)\b(Inc|Corp|Corporation|LLC|Limited|PLC|Co\.)\b`)

	monthDateRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),\s*(\d{4})\b`)

	numericDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)

	leadingNameRe = regexp.MustCompile(`^([^,]+)`)
)

// managementTitles is the closed vocabulary of roster titles, scanned in
// order; the first title matching a line wins.
var managementTitles = []string{
	"CEO", "CFO", "President", "Chief Executive Officer", "Chief Financial Officer",
	"COO", "Chief Operating Officer", "CTO", "Chief Technology Officer",
	"VP", "Vice President", "Director", "Chairman", "Chair", "Head of",
	"Managing Director", "Executive Vice President", "Senior Vice President",
}

// managementTitleRes holds one word-boundary pattern per vocabulary term,
// same order as managementTitles.
var managementTitleRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(managementTitles))
	for i, title := range managementTitles {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(title) + `\b`)
	}
	return res
}()

// ExtractCompany recovers the company name from first-pages text: the first
// non-empty line carrying a legal-entity suffix or written in all uppercase
// (length 3-79), else the first non-empty line, else UnknownCompany.
func ExtractCompany(firstPages string) string {
	for _, line := range strings.Split(firstPages, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if legalSuffixRe.MatchString(line) || (isAllUpper(line) && len(line) > 2 && len(line) < 80) {
			return line
		}
	}
	for _, line := range strings.Split(firstPages, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return UnknownCompany
}

// isAllUpper reports whether s contains at least one letter and no lowercase
// letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// ExtractDate finds the call date: a full month-name date first, then a
// slash-delimited numeric date. Unparseable matches are swallowed and treated
// as no match; the second return value is false when no date was found.
func ExtractDate(text string) (time.Time, bool) {
	if m := monthDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseMonthDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseNumericDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseMonthDate(monthName, dayStr, yearStr string) (time.Time, bool) {
	month := monthByName(monthName)
	if month == 0 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (February 30 becomes March 2); reject
	// anything that did not round-trip.
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// parseNumericDate parses month/day/year. Two-digit years pivot at 70
// (69 -> 2069, 70 -> 1970), matching the time package's convention.
func parseNumericDate(monthStr, dayStr, yearStr string) (time.Time, bool) {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	year, err := strconv.Atoi(yearStr)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	switch len(yearStr) {
	case 2:
		if year < 70 {
			year += 2000
		} else {
			year += 1900
		}
	case 4:
	default:
		// Three-digit years are ambiguous; treat as unparseable.
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func monthByName(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m
		}
	}
	return 0
}

// ExtractParticipants scans first-pages text line by line against the
// management title vocabulary. A line matching any title yields one
// Participant whose name is the text before the first comma; scanning of
// titles stops at the first match for that line.
func ExtractParticipants(firstPages string) []Participant {
	var participants []Participant
	for _, line := range strings.Split(firstPages, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for i, titleRe := range managementTitleRes {
			if !titleRe.MatchString(line) {
				continue
			}
			if m := leadingNameRe.FindStringSubmatch(line); m != nil {
				participants = append(participants, Participant{
					Name:     strings.TrimSpace(m[1]),
					Title:    managementTitles[i],
					FullLine: line,
				})
			}
			break
		}
	}
	return participants
}
