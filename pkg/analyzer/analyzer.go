// Package analyzer derives metadata from chunk text: named entities,
// recurring concepts, a content-type classification, and an importance
// score. The heuristic implementation is pure and deterministic; it sits
// behind the TextAnalyzer capability so a future NLP-backed extractor can
// replace it without touching the splitter or the store.
package analyzer

// Content type classifications for a chunk.
const (
	ContentTypeNarrative = "narrative"
	ContentTypeList      = "list"
	ContentTypeQuote     = "quote"
	ContentTypeMixed     = "mixed"
)

// Analysis is the derived metadata for one block of text.
type Analysis struct {
	// Entities are proper names found in the text, insertion order,
	// capped at 25.
	Entities []string

	// Concepts are recurring named ideas, capped at 15.
	Concepts []string

	// ContentType is one of the ContentType* constants.
	ContentType string

	// Importance is a score in [0.1, 1.0].
	Importance float64
}

// TextAnalyzer extracts metadata from a block of text.
type TextAnalyzer interface {
	Extract(text string) Analysis
}
