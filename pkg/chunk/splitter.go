package chunk

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultTokenBudget is the default per-chunk token estimate budget.
	DefaultTokenBudget = 400

	// MinTokenBudget and MaxTokenBudget bound the configurable budget.
	MinTokenBudget = 300
	MaxTokenBudget = 500

	// DefaultOverlapRatio is the default fraction of a committed block's
	// trailing text reused to seed the next block.
	DefaultOverlapRatio = 0.15

	// MinOverlapRatio and MaxOverlapRatio bound the configurable ratio.
	MinOverlapRatio = 0.10
	MaxOverlapRatio = 0.20
)

var (
	paragraphRe  = regexp.MustCompile(`\n[ \t]*\n`)
	listMarkerRe = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]\s|\d+[.)]\s)`)
)

// Splitter decides whether a section fits in one chunk or must be split
// into size-bounded blocks with controlled overlap.
type Splitter struct {
	TokenBudget  int
	OverlapRatio float64
}

// NewSplitter creates a Splitter with the given budget and overlap ratio,
// validating both against their allowed ranges. Zero values select the
// defaults.
func NewSplitter(tokenBudget int, overlapRatio float64) (*Splitter, error) {
	if tokenBudget == 0 {
		tokenBudget = DefaultTokenBudget
	}
	if overlapRatio == 0 {
		overlapRatio = DefaultOverlapRatio
	}
	if tokenBudget < MinTokenBudget || tokenBudget > MaxTokenBudget {
		return nil, fmt.Errorf("token budget %d outside [%d, %d]", tokenBudget, MinTokenBudget, MaxTokenBudget)
	}
	if overlapRatio < MinOverlapRatio || overlapRatio > MaxOverlapRatio {
		return nil, fmt.Errorf("overlap ratio %.2f outside [%.2f, %.2f]", overlapRatio, MinOverlapRatio, MaxOverlapRatio)
	}
	return &Splitter{TokenBudget: tokenBudget, OverlapRatio: overlapRatio}, nil
}

// EstimateTokens approximates the token count of a text block:
// ceil(chars/4), bumped for pipe-heavy tables and list-marker lines,
// which tokenize denser than plain prose.
func EstimateTokens(text string) int {
	est := (len(text) + 3) / 4

	pipes := strings.Count(text, "|")
	est += pipes / 2

	listLines := len(listMarkerRe.FindAllString(text, -1))
	est += listLines * 2

	return est
}

// Split breaks one section's text into blocks that fit the token budget.
// A section under budget comes back as a single block. Otherwise the text
// is accumulated paragraph by paragraph; each committed block seeds the
// next with its trailing OverlapRatio fraction of characters. A section
// with no blank-line split point yields one oversized block.
func (s *Splitter) Split(text string) []string {
	if EstimateTokens(text) <= s.TokenBudget {
		return []string{text}
	}

	paragraphs := paragraphRe.Split(text, -1)

	var blocks []string
	var buf string

	for _, para := range paragraphs {
		if strings.TrimSpace(para) == "" {
			continue
		}

		if buf == "" {
			buf = para
			continue
		}

		candidate := buf + "\n\n" + para
		if EstimateTokens(candidate) > s.TokenBudget {
			blocks = append(blocks, buf)
			overlap := s.overlapTail(buf)
			if overlap != "" {
				buf = overlap + "\n\n" + para
			} else {
				buf = para
			}
			continue
		}

		buf = candidate
	}

	if strings.TrimSpace(buf) != "" {
		blocks = append(blocks, buf)
	}

	if len(blocks) == 0 {
		return []string{text}
	}
	return blocks
}

// overlapTail returns the trailing OverlapRatio fraction of a committed
// block, by character count, or "" when the fragment trims to nothing.
func (s *Splitter) overlapTail(block string) string {
	runes := []rune(block)
	n := int(float64(len(runes)) * s.OverlapRatio)
	if n <= 0 {
		return ""
	}
	return strings.TrimSpace(string(runes[len(runes)-n:]))
}
