package chunk

import (
	"github.com/thornmill/loreindex/pkg/analyzer"
	"github.com/thornmill/loreindex/pkg/section"
)

// Source carries the document-level attributes stamped onto every chunk
// assembled from that document.
type Source struct {
	File       string
	Universe   string
	Species    string
	Subspecies string
	Aliases    []string
}

// Assembler combines sectionizer output, the size splitter and the text
// analyzer into immutable Chunk records.
type Assembler struct {
	splitter *Splitter
	analyzer analyzer.TextAnalyzer
}

// NewAssembler wires a splitter and an analyzer into an assembler.
func NewAssembler(splitter *Splitter, textAnalyzer analyzer.TextAnalyzer) *Assembler {
	return &Assembler{
		splitter: splitter,
		analyzer: textAnalyzer,
	}
}

// Assemble produces chunks for every section of a document. Metadata is
// recomputed per block rather than inherited from the whole section,
// since splitting changes local statistics. Blocks of a section that
// actually split (two or more blocks) share a parent_chunk_id tag; a
// section that fits in one chunk gets none.
func (a *Assembler) Assemble(src Source, sections []section.Section) []Chunk {
	var chunks []Chunk

	for _, sec := range sections {
		blocks := a.splitter.Split(sec.Text)
		split := len(blocks) > 1

		for i, block := range blocks {
			subIndex := -1
			if split {
				subIndex = i
			}

			// The section title is prepended for analysis signal only;
			// the stored chunk text stays the raw block.
			analysisText := block
			if sec.Title != "" {
				analysisText = sec.Title + "\n\n" + block
			}
			an := a.analyzer.Extract(analysisText)

			meta := Metadata{
				Universe:        src.Universe,
				Species:         src.Species,
				Subspecies:      src.Subspecies,
				SourceFile:      src.File,
				SectionPath:     sec.Path,
				SectionTitle:    sec.Title,
				ParentSection:   sec.ParentTitle,
				Entities:        an.Entities,
				Concepts:        an.Concepts,
				ContentType:     an.ContentType,
				ImportanceScore: an.Importance,
				Aliases:         src.Aliases,
			}
			if split {
				meta.ParentChunkID = ParentID(src.File, sec.Path)
			}

			chunks = append(chunks, Chunk{
				ID:       ID(src.File, sec.Path, subIndex),
				Text:     block,
				Metadata: meta,
			})
		}
	}

	return chunks
}
