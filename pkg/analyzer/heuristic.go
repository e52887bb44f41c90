package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// Heuristic is the regex-based TextAnalyzer implementation.
type Heuristic struct{}

// NewHeuristic creates the default heuristic analyzer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var (
	headingLineRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markupRe      = regexp.MustCompile("[*_`~#]")

	capRunRe    = regexp.MustCompile(`\b[A-Z][A-Za-z'-]*(?:\s+[A-Z][A-Za-z'-]*)+\b`)
	quotedRe    = regexp.MustCompile(`"([^"\n]{2,})"`)
	curlyQuotRe = regexp.MustCompile(`“([^”\n]{2,})”`)
	boldRe      = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	italicRe    = regexp.MustCompile(`\*([^*\n]+)\*|\b_([^_\n]+)_\b`)

	ofPhraseRe  = regexp.MustCompile(`\b[A-Z][A-Za-z'-]*(?:\s+[a-z]+)*\s+of\s+(?:the\s+)?[A-Z][A-Za-z'-]*(?:\s+[A-Z][A-Za-z'-]*)*`)
	capPairRe   = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+s?\b`)
	definedAsRe = regexp.MustCompile(`(?:known as|called|termed)\s+(?:the\s+)?["“]?([A-Z][A-Za-z'-]*(?:\s+[A-Za-z'-]+){0,4})`)
	labelLineRe = regexp.MustCompile(`(?m)^([A-Z][A-Za-z0-9' -]{2,47}):`)

	listLineRe  = regexp.MustCompile(`^(?:[-*+]\s|\d+[.)]\s)`)
	quoteLineRe = regexp.MustCompile(`^>`)
)

// sentenceStopWords are capitalized words that carry no entity signal.
var sentenceStopWords = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"It": {}, "Its": {}, "He": {}, "She": {}, "They": {}, "We": {}, "You": {}, "I": {},
	"If": {}, "In": {}, "On": {}, "At": {}, "By": {}, "For": {}, "From": {}, "With": {},
	"And": {}, "But": {}, "Or": {}, "Not": {}, "As": {}, "Is": {}, "Are": {}, "Was": {},
	"Were": {}, "Be": {}, "Been": {}, "To": {}, "Of": {}, "Their": {}, "His": {}, "Her": {},
	"Our": {}, "Your": {}, "My": {}, "When": {}, "While": {}, "Where": {}, "What": {},
	"Who": {}, "How": {}, "Why": {}, "Then": {}, "There": {}, "Here": {}, "Also": {},
	"Some": {}, "Many": {}, "Most": {}, "Each": {}, "Every": {}, "All": {}, "Any": {},
	"After": {}, "Before": {}, "During": {}, "Over": {}, "Under": {}, "Between": {},
}

const (
	maxEntities = 25
	maxConcepts = 15
)

// Extract derives entities, concepts, content type and importance from text.
func (h *Heuristic) Extract(text string) Analysis {
	lines := strings.Split(text, "\n")

	properNouns := properNounWords(lines)
	emphasized := emphasizedSpans(text)
	quoteRatio, listRatio := lineRatios(lines)

	return Analysis{
		Entities:    h.entities(text, lines, properNouns, emphasized),
		Concepts:    h.concepts(text, lines),
		ContentType: classify(quoteRatio, listRatio),
		Importance:  importance(text, len(properNouns), len(emphasized), quoteRatio, listRatio),
	}
}

// entities collects proper names from six passes, insertion order,
// duplicates collapsed, capped at 25.
func (h *Heuristic) entities(text string, lines []string, properNouns, emphasized []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= maxEntities {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	// (a) heading text, markup stripped
	for _, m := range headingLineRe.FindAllStringSubmatch(text, -1) {
		add(stripMarkup(m[1]))
	}

	// (b) capitalized words away from sentence starts
	for _, w := range properNouns {
		add(w)
	}

	// (c) runs of two or more consecutive capitalized words
	for _, m := range capRunRe.FindAllString(text, -1) {
		add(m)
	}

	// (d) standalone title-case lines
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if len(t) >= 4 && len(t) < 50 && isTitleCaseLine(t) {
			add(t)
		}
	}

	// (e) quoted substrings
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range curlyQuotRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	// (f) emphasized spans, markers stripped
	for _, span := range emphasized {
		add(span)
	}

	return out
}

// concepts collects named ideas from four passes, capped at 15.
func (h *Heuristic) concepts(text string, lines []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= maxConcepts {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	// (a) heading text when reasonably sized
	for _, m := range headingLineRe.FindAllStringSubmatch(text, -1) {
		t := stripEmoji(stripMarkup(m[1]))
		if len(t) >= 4 && len(t) < 50 {
			add(t)
		}
	}

	// (b) "X of Y" phrases
	for _, m := range ofPhraseRe.FindAllString(text, -1) {
		add(m)
	}

	// capitalized pairs
	for _, m := range capPairRe.FindAllString(text, -1) {
		add(m)
	}

	// explicit definitions: "known as / called / termed X"
	for _, m := range definedAsRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	// line-start labels ending in a colon
	for _, line := range lines {
		if m := labelLineRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			add(m[1])
		}
	}

	return out
}

// classify maps quote/list line ratios to a content type.
func classify(quoteRatio, listRatio float64) string {
	switch {
	case quoteRatio > 0.5:
		return ContentTypeQuote
	case listRatio > 0.4:
		return ContentTypeList
	case quoteRatio > 0.1 || listRatio > 0.1:
		return ContentTypeMixed
	default:
		return ContentTypeNarrative
	}
}

// importance scores a block from 0.1 to 1.0. Proper-noun density and
// emphasis raise it, very short text lowers it.
func importance(text string, properNouns, emphasized int, quoteRatio, listRatio float64) float64 {
	score := 0.5

	score += min(0.3, 0.02*float64(properNouns))
	score += min(0.2, 0.05*float64(emphasized))

	if quoteRatio > 0.2 {
		score += 0.15
	}
	if listRatio > 0.3 {
		score += 0.1
	}
	if len(text) < 100 {
		score -= 0.2
	}

	if score < 0.1 {
		score = 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// properNounWords returns every capitalized word that is not at a
// sentence start and not a stop word, in order of appearance. Duplicate
// occurrences are kept: the count feeds the importance score.
func properNounWords(lines []string) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		for i, raw := range words {
			w := strings.Trim(raw, `.,;:!?"'()[]{}*_`+"`")
			if !isCapitalizedWord(w) {
				continue
			}
			if i == 0 || endsSentence(words[i-1]) {
				continue
			}
			if _, stop := sentenceStopWords[w]; stop {
				continue
			}
			out = append(out, w)
		}
	}
	return out
}

// emphasizedSpans returns bold and italic span contents, markers stripped.
func emphasizedSpans(text string) []string {
	var out []string
	for _, m := range boldRe.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	// remove bold spans so the single-asterisk pattern doesn't re-match them
	stripped := boldRe.ReplaceAllString(text, "")
	for _, m := range italicRe.FindAllStringSubmatch(stripped, -1) {
		span := m[1]
		if span == "" {
			span = m[2]
		}
		if s := strings.TrimSpace(span); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// lineRatios computes the quote-line and list-line ratios over the
// non-empty lines of a block.
func lineRatios(lines []string) (quoteRatio, listRatio float64) {
	var total, quote, list int
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		total++
		if quoteLineRe.MatchString(t) {
			quote++
		}
		if listLineRe.MatchString(t) {
			list++
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(quote) / float64(total), float64(list) / float64(total)
}

func isCapitalizedWord(w string) bool {
	if len(w) < 2 {
		return false
	}
	runes := []rune(w)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

// titleConnectors may appear lowercase inside a title-case line.
var titleConnectors = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "a": {}, "an": {}, "in": {}, "for": {}, "to": {}, "&": {},
}

func isTitleCaseLine(line string) bool {
	if strings.ContainsAny(line, ".!?") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for i, w := range words {
		if _, ok := titleConnectors[w]; ok && i > 0 {
			continue
		}
		r := []rune(w)[0]
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func endsSentence(w string) bool {
	return strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") ||
		strings.HasSuffix(w, "?") || strings.HasSuffix(w, ":")
}

func stripMarkup(s string) string {
	s = linkRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(markupRe.ReplaceAllString(s, ""))
}

func stripEmoji(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > unicode.MaxASCII && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Ensure Heuristic implements TextAnalyzer
var _ TextAnalyzer = (*Heuristic)(nil)
