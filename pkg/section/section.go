// Package section parses a document into an ordered sequence of
// hierarchical sections keyed by a slug path derived from its headings.
//
// The parser tracks a heading-context stack of at most three levels
// (H1, H2, H3). Fenced code blocks suspend heading recognition entirely:
// headings inside a fence do not alter context and fence content is kept
// verbatim in the current section buffer. Non-heading lines are appended
// verbatim, so lists, tables and quotes survive untouched until the
// size-driven splitter runs.
package section

import (
	"regexp"
	"strings"
	"unicode"
)

// Section is a heading-delimited region of a source document.
type Section struct {
	// Path is the slug path for the section, e.g. "major-rites/sync-days".
	// A document without headings yields a single section with path "intro".
	Path string

	// Title is the deepest active heading's text, markup stripped.
	Title string

	// ParentTitle is the next heading level up, when present.
	ParentTitle string

	// Text is the section body, verbatim.
	Text string
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markupRe  = regexp.MustCompile("[*_`~]")
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Parse splits raw document text into ordered sections.
func Parse(text string) []Section {
	var (
		sections   []Section
		buf        []string
		h1, h2, h3 string
		inFence    bool
	)

	flush := func() {
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if body == "" {
			return
		}
		sections = append(sections, Section{
			Path:        contextPath(h1, h2, h3),
			Title:       contextTitle(h1, h2, h3),
			ParentTitle: contextParent(h1, h2, h3),
			Text:        body,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			buf = append(buf, line)
			continue
		}
		if inFence {
			buf = append(buf, line)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) <= 3 {
			flush()
			title := CleanHeading(m[2])
			switch len(m[1]) {
			case 1:
				// H1 resets the whole context
				h1, h2, h3 = title, "", ""
			case 2:
				h2, h3 = title, ""
			case 3:
				h3 = title
			}
			continue
		}

		buf = append(buf, line)
	}

	flush()
	return sections
}

// contextPath builds the slug path from the active heading context.
// Precedence: h2/h3, then h1/h3 when no H2 is active, then the deepest
// single heading, then "intro".
func contextPath(h1, h2, h3 string) string {
	switch {
	case h2 != "" && h3 != "":
		return Slugify(h2) + "/" + Slugify(h3)
	case h3 != "" && h1 != "":
		return Slugify(h1) + "/" + Slugify(h3)
	case h2 != "":
		return Slugify(h2)
	case h3 != "":
		return Slugify(h3)
	case h1 != "":
		return Slugify(h1)
	default:
		return "intro"
	}
}

// contextTitle returns the deepest active heading's text.
func contextTitle(h1, h2, h3 string) string {
	switch {
	case h3 != "":
		return h3
	case h2 != "":
		return h2
	default:
		return h1
	}
}

// contextParent returns the next heading level up from the current title.
func contextParent(h1, h2, h3 string) string {
	switch {
	case h3 != "":
		if h2 != "" {
			return h2
		}
		return h1
	case h2 != "":
		return h1
	default:
		return ""
	}
}

// CleanHeading strips link syntax and emphasis markers from heading text.
func CleanHeading(s string) string {
	s = linkRe.ReplaceAllString(s, "$1")
	s = markupRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Slugify normalizes heading text into a URL/path-safe identifier:
// markup stripped, links resolved to their visible text, leading symbols
// dropped, lowercased, whitespace collapsed to hyphens, and anything
// outside letters/digits/slash/colon/hyphen removed. An empty result
// slugs to "section".
func Slugify(s string) string {
	s = CleanHeading(s)

	// Drop leading symbols (emoji, punctuation) before the first letter or digit.
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	s = strings.ToLower(s)
	s = spaceRe.ReplaceAllString(s, "-")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '/' || r == ':' || r == '-' {
			b.WriteRune(r)
		}
	}
	s = strings.Trim(b.String(), "-/")

	if s == "" {
		return "section"
	}
	return s
}
