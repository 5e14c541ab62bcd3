package knowledge

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/vidgraph/backend/pkg/common"
)

// RawMention is one candidate entity occurrence pulled out of a key point.
// Deduplication across mentions is the resolver's job; the extractor emits
// one mention per phrase position.
type RawMention struct {
	NormalizedPhrase string
	DisplayLabel     string
	Type             common.EntityType
	Description      string
	DocumentID       string
	KeyPointIndex    int
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "has": {}, "have": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "this": {}, "that": {},
	"they": {}, "them": {}, "their": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "about": {}, "after": {}, "before": {},
	"between": {}, "into": {}, "through": {}, "during": {}, "how": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {}, "than": {},
	"then": {}, "these": {}, "those": {}, "very": {}, "also": {}, "just": {},
	"like": {}, "your": {}, "from": {}, "because": {}, "being": {}, "does": {},
	"using": {}, "used": {}, "uses": {},
}

// Entity type assignment is a first-match walk over this table; the order is
// part of the contract (technology beats feature beats tool beats person,
// concept is the fallback).
var typeRules = []struct {
	entityType common.EntityType
	keywords   []string
}{
	{common.EntityTypeTechnology, []string{"version", "update", "release", "ai", "model", "api"}},
	{common.EntityTypeFeature, []string{"feature", "capability", "functionality", "mode"}},
	{common.EntityTypeTool, []string{"tool", "platform", "service", "application"}},
	{common.EntityTypePerson, []string{"author", "creator", "developer"}},
}

var (
	wordPattern    = regexp.MustCompile(`[a-z0-9]+`)
	versionPattern = regexp.MustCompile(`\d+(\.\d+)+|\bv\d+\b`)
	acronymPattern = regexp.MustCompile(`\b[A-Z]{2,}\b`)
)

var domainStems = map[string]struct{}{
	"api": {}, "sdk": {}, "llm": {}, "ai": {}, "ml": {},
}

// ExtractMentions pulls candidate entity mentions out of one document's key
// points. It never fails: a document with empty or malformed key points
// yields zero mentions.
func ExtractMentions(doc common.VideoDocument) []RawMention {
	var mentions []RawMention
	for idx, keyPoint := range doc.KeyPoints {
		keyPoint = strings.TrimSpace(keyPoint)
		if keyPoint == "" {
			continue
		}
		mentions = append(mentions, extractFromKeyPoint(doc.ID, idx, keyPoint)...)
	}
	return mentions
}

func extractFromKeyPoint(documentID string, keyPointIndex int, text string) []RawMention {
	lower := strings.ToLower(text)
	tokens := wordPattern.FindAllString(lower, -1)

	surviving := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		surviving = append(surviving, tok)
	}
	if len(surviving) == 0 {
		return nil
	}

	var mentions []RawMention
	emit := func(phrase string) {
		label, ok := keepPhrase(phrase, text)
		if !ok {
			return
		}
		mentions = append(mentions, RawMention{
			NormalizedPhrase: normalizePhrase(phrase),
			DisplayLabel:     label,
			Type:             classifyEntity(lower, phrase),
			Description:      text,
			DocumentID:       documentID,
			KeyPointIndex:    keyPointIndex,
		})
	}

	for i := range surviving {
		emit(surviving[i])
		if i+1 < len(surviving) {
			emit(surviving[i] + " " + surviving[i+1])
		}
		if i+2 < len(surviving) {
			emit(surviving[i] + " " + surviving[i+1] + " " + surviving[i+2])
		}
	}
	return mentions
}

// keepPhrase decides whether a candidate phrase looks like a real entity and
// returns its display form. Unigrams survive only when the original text
// carries them with an uppercase letter, a proxy for proper nouns and
// technical names. Multi-word phrases additionally survive on the technical
// term heuristic.
func keepPhrase(phrase, original string) (string, bool) {
	found, ok := findOriginalForm(phrase, original)
	words := strings.Count(phrase, " ") + 1

	if words == 1 {
		if ok && hasUpper(found) {
			return found, true
		}
		return "", false
	}

	if ok && allWordsCapitalized(found) {
		return found, true
	}
	if isTechnicalPhrase(phrase, original) {
		if ok {
			return found, true
		}
		return titleCase(phrase), true
	}
	return "", false
}

// findOriginalForm locates the phrase inside the original key point text,
// case-insensitively, and returns the verbatim substring of the first
// occurrence that lines up with token boundaries. Matches nested inside a
// longer word ("api" inside "Rapid") are skipped. The phrase tokens must be
// adjacent in the original (separated by a single space) for the match to
// succeed. Comparison works on runes so multibyte text ahead of the match
// cannot shift the returned slice.
func findOriginalForm(phrase, original string) (string, bool) {
	origRunes := []rune(original)
	phraseRunes := []rune(phrase)
	n, m := len(origRunes), len(phraseRunes)
	if m == 0 {
		return "", false
	}
	for start := 0; start+m <= n; start++ {
		if !foldEqual(origRunes[start:start+m], phraseRunes) {
			continue
		}
		if start > 0 && isWordRune(origRunes[start-1]) {
			continue
		}
		if end := start + m; end < n && isWordRune(origRunes[end]) {
			continue
		}
		return string(origRunes[start : start+m]), true
	}
	return "", false
}

func foldEqual(window, phrase []rune) bool {
	for i, r := range phrase {
		if unicode.ToLower(window[i]) != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isTechnicalPhrase(phrase, original string) bool {
	if versionPattern.MatchString(phrase) {
		return true
	}
	phraseTokens := strings.Fields(phrase)
	for _, acronym := range acronymPattern.FindAllString(original, -1) {
		lowered := strings.ToLower(acronym)
		for _, tok := range phraseTokens {
			if tok == lowered {
				return true
			}
		}
	}
	for _, tok := range phraseTokens {
		if _, ok := domainStems[tok]; ok {
			return true
		}
	}
	return false
}

func classifyEntity(lowerText, phrase string) common.EntityType {
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerText, kw) || strings.Contains(phrase, kw) {
				return rule.entityType
			}
		}
	}
	return common.EntityTypeConcept
}

func normalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

func hasUpper(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func allWordsCapitalized(s string) bool {
	for _, w := range strings.Fields(s) {
		if w == "" {
			continue
		}
		c := w[0]
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func titleCase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
