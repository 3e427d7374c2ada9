package transcript

import (
	"sort"
	"strings"

	"github.com/adrg/strutil/metrics"
)

// DefaultFuzzyThreshold is the 0-100 similarity score a raw speaker label
// must exceed to be mapped onto a roster participant.
const DefaultFuzzyThreshold = 75

// indelLev measures edit distance where a substitution costs as much as an
// insert plus a delete. Normalizing that distance over the combined string
// length gives the classic token_sort_ratio scale, on which the 75
// threshold was calibrated ("MS. JANE DOE" vs "Jane Doe" scores 80).
var indelLev = func() *metrics.Levenshtein {
	m := metrics.NewLevenshtein()
	m.ReplaceCost = 2
	return m
}()

// TokenSortRatio scores the similarity of two strings on a 0-100 scale,
// insensitive to token order and case: tokens are lowercased and sorted
// before comparison, so "MS. JANE DOE" and "Doe Jane MS." score identically.
func TokenSortRatio(a, b string) float64 {
	as, bs := sortTokens(a), sortTokens(b)
	total := len(as) + len(bs)
	if total == 0 {
		return 100
	}
	dist := indelLev.Distance(as, bs)
	return float64(total-dist) / float64(total) * 100
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// BestRosterMatch returns the participant name with the highest token-sort
// similarity to the raw speaker label, and its score. Ties keep the earliest
// roster entry. An empty roster yields ("", 0).
func BestRosterMatch(raw string, participantNames []string) (string, float64) {
	bestName := ""
	bestScore := -1.0
	for _, name := range participantNames {
		if score := TokenSortRatio(raw, name); score > bestScore {
			bestName = name
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return bestName, bestScore
}

// MapRoles resolves each chunk's raw speaker label to a role.
//
// Labels equal to OPERATOR or MODERATOR (case-insensitive, trimmed) become
// moderators. Otherwise the label is fuzzy-matched against the roster: a
// best score above threshold makes the chunk management, attributed to the
// canonical roster name; anything else — including every label when the
// roster is empty — is an investor under its raw label.
//
// Matching is greedy per chunk with no global assignment: two distinct raw
// labels may resolve to the same roster name. Mapping is deterministic and
// idempotent for a fixed chunk list and roster. Section tags are attached by
// the caller.
func MapRoles(chunks []SpeakerChunk, participantNames []string, threshold int) []MappedChunk {
	mapped := make([]MappedChunk, 0, len(chunks))
	for _, c := range chunks {
		mapped = append(mapped, mapRole(c, participantNames, threshold))
	}
	return mapped
}

func mapRole(c SpeakerChunk, participantNames []string, threshold int) MappedChunk {
	raw := c.SpeakerRaw

	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "OPERATOR", "MODERATOR":
		return MappedChunk{SpeakerName: raw, SpeakerRaw: raw, Role: RoleModerator, Text: c.Text}
	}

	if len(participantNames) > 0 {
		if name, score := BestRosterMatch(raw, participantNames); score > float64(threshold) {
			return MappedChunk{SpeakerName: name, SpeakerRaw: raw, Role: RoleManagement, Text: c.Text}
		}
	}
	return MappedChunk{SpeakerName: raw, SpeakerRaw: raw, Role: RoleInvestor, Text: c.Text}
}
