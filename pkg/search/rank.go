package search

import (
	"strings"

	"github.com/thornmill/loreindex/pkg/analyzer"
	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/store"
)

// Scoring bonuses. Exact matches outrank substring matches, titles
// outrank entities, entities outrank concepts.
const (
	entityExactBonus    = 0.4
	entitySubstrBonus   = 0.2
	conceptExactBonus   = 0.35
	conceptSubstrBonus  = 0.15
	titleExactBonus     = 0.5
	titleSubstrBonus    = 0.3
	sectionPathBonus    = 0.25
	sourceFileBonus     = 0.2
	phraseTitleBonus    = 0.4
	phraseEntityBonus   = 0.3
	phraseConceptBonus  = 0.25
	textTermBonus       = 0.1
	textPhraseBonus     = 0.15
	importanceWeight    = 0.1
	shortChunkPenalty   = 0.1
	minScore            = 0.001
	maxScore            = 2.0
	minTermLen          = 3
	shortChunkThreshold = 100
)

// compositeScore seeds at the base similarity 1/(1+distance) and layers
// metadata-driven heuristic boosts on top.
func compositeScore(r store.Hit, meta chunk.Metadata, query string) float64 {
	score := r.Similarity

	phrase := strings.ToLower(strings.TrimSpace(query))
	terms := queryTerms(phrase)

	entities := lowered(meta.Entities)
	concepts := lowered(meta.Concepts)
	title := strings.ToLower(meta.SectionTitle)
	sectionPath := strings.ToLower(meta.SectionPath)
	sourceFile := strings.ToLower(meta.SourceFile)
	text := strings.ToLower(r.Text)

	// Per-term bonuses, with the whole phrase treated as one more term.
	for _, t := range append(terms, phrase) {
		score += matchBonus(entities, t, entityExactBonus, entitySubstrBonus)
		score += matchBonus(concepts, t, conceptExactBonus, conceptSubstrBonus)

		if title != "" {
			if title == t {
				score += titleExactBonus
			} else if strings.Contains(title, t) {
				score += titleSubstrBonus
			}
		}
		if sectionPath != "" && strings.Contains(sectionPath, t) {
			score += sectionPathBonus
		}
		if sourceFile != "" && strings.Contains(sourceFile, t) {
			score += sourceFileBonus
		}
	}

	// Phrase-level bonuses for the full query.
	if title != "" && strings.Contains(title, phrase) {
		score += phraseTitleBonus
	}
	if anyContains(entities, phrase) {
		score += phraseEntityBonus
	}
	if anyContains(concepts, phrase) {
		score += phraseConceptBonus
	}

	// Raw-text bonuses: per term, then the whole phrase.
	for _, t := range terms {
		if strings.Contains(text, t) {
			score += textTermBonus
		}
	}
	if strings.Contains(text, phrase) {
		score += textPhraseBonus
	}

	score += meta.ImportanceScore * importanceWeight
	score += contentTypeBonus(meta.ContentType)

	if len(r.Text) < shortChunkThreshold && meta.ImportanceScore < 0.7 {
		score -= shortChunkPenalty
	}

	return clampScore(score)
}

// queryTerms splits the lowercase query into terms longer than two runes.
func queryTerms(phrase string) []string {
	var terms []string
	for _, t := range strings.Fields(phrase) {
		t = strings.Trim(t, `.,;:!?"'`)
		if len([]rune(t)) >= minTermLen {
			terms = append(terms, t)
		}
	}
	return terms
}

// matchBonus awards the exact bonus when any value equals the term, or
// the substring bonus when any value contains it. At most one bonus per
// term per field.
func matchBonus(values []string, term string, exact, substr float64) float64 {
	matched := 0.0
	for _, v := range values {
		if v == term {
			return exact
		}
		if matched == 0 && strings.Contains(v, term) {
			matched = substr
		}
	}
	return matched
}

func contentTypeBonus(contentType string) float64 {
	switch contentType {
	case analyzer.ContentTypeQuote:
		return 0.1
	case analyzer.ContentTypeList:
		return 0.05
	case analyzer.ContentTypeMixed:
		return 0.03
	default:
		return 0
	}
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func clampScore(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
