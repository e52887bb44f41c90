package search

// Filters narrow a search by exact metadata match and minimum importance.
// Zero values mean "not applied".
type Filters struct {
	Universe      string  `json:"universe,omitempty"`
	Species       string  `json:"species,omitempty"`
	Subspecies    string  `json:"subspecies,omitempty"`
	ContentType   string  `json:"content_type,omitempty"`
	MinImportance float64 `json:"min_importance,omitempty"`
}

// Empty reports whether no filter is active.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// Hit is a single ranked search result.
type Hit struct {
	ID             string   `json:"id"`
	RelevanceScore float64  `json:"relevance_score"`
	Distance       float64  `json:"distance"`
	Path           string   `json:"path"`
	Section        string   `json:"section"`
	Title          string   `json:"title"`
	ContentType    string   `json:"content_type"`
	Importance     float64  `json:"importance"`
	Entities       []string `json:"entities"`
	Concepts       []string `json:"concepts"`

	// Chunk is the chunk text, truncated for display. FullChunk carries
	// the untruncated text only when truncation happened.
	Chunk     string `json:"chunk"`
	FullChunk string `json:"full_chunk,omitempty"`
}

// Output is the search response envelope.
type Output struct {
	Query            string  `json:"query"`
	ResultsRequested int     `json:"results_requested"`
	ResultsFound     int     `json:"results_found"`
	FiltersApplied   Filters `json:"filters_applied"`
	Hits             []Hit   `json:"hits"`
}
