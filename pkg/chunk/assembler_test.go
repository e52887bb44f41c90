package chunk_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/analyzer"
	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/section"
)

var _ = Describe("Assembler", func() {
	var (
		assembler *chunk.Assembler
		src       chunk.Source
	)

	BeforeEach(func() {
		splitter, err := chunk.NewSplitter(0, 0)
		Expect(err).NotTo(HaveOccurred())
		assembler = chunk.NewAssembler(splitter, analyzer.NewHeuristic())

		src = chunk.Source{
			File:       "races/thornfolk.md",
			Universe:   "verdant-reach",
			Species:    "thornfolk",
			Subspecies: "grovekeeper",
			Aliases:    []string{"thorn folk", "briarkin"},
		}
	})

	Context("with a section that fits in one chunk", func() {
		sections := []section.Section{{
			Path:  "major-rites/sync-days",
			Title: "Sync Days",
			Text:  "Twice a year the groves align and the elders gather.",
		}}

		It("produces a single chunk with the unsplit ID", func() {
			chunks := assembler.Assemble(src, sections)

			Expect(chunks).To(HaveLen(1))
			Expect(chunks[0].ID).To(Equal(chunk.ID(src.File, "major-rites/sync-days", -1)))
		})

		It("leaves parent_chunk_id unset", func() {
			chunks := assembler.Assemble(src, sections)

			Expect(chunks[0].Metadata.ParentChunkID).To(BeEmpty())
		})

		It("stamps document attributes onto the metadata", func() {
			chunks := assembler.Assemble(src, sections)

			meta := chunks[0].Metadata
			Expect(meta.Universe).To(Equal("verdant-reach"))
			Expect(meta.Species).To(Equal("thornfolk"))
			Expect(meta.Subspecies).To(Equal("grovekeeper"))
			Expect(meta.SourceFile).To(Equal("races/thornfolk.md"))
			Expect(meta.SectionPath).To(Equal("major-rites/sync-days"))
			Expect(meta.SectionTitle).To(Equal("Sync Days"))
			Expect(meta.Aliases).To(Equal([]string{"thorn folk", "briarkin"}))
		})

		It("does not prepend the title to the stored chunk text", func() {
			chunks := assembler.Assemble(src, sections)

			Expect(chunks[0].Text).To(Equal(sections[0].Text))
		})
	})

	Context("with a section that splits", func() {
		var sections []section.Section

		BeforeEach(func() {
			para := strings.TrimSpace(strings.Repeat("wander ", 70))
			body := strings.Join([]string{para, para, para, para, para, para}, "\n\n")
			sections = []section.Section{{
				Path:  "migrations",
				Title: "Migrations",
				Text:  body,
			}}
		})

		It("gives every block the shared parent tag", func() {
			chunks := assembler.Assemble(src, sections)
			Expect(len(chunks)).To(BeNumerically(">=", 2))

			want := chunk.ParentID(src.File, "migrations")
			for _, c := range chunks {
				Expect(c.Metadata.ParentChunkID).To(Equal(want))
			}
		})

		It("derives block IDs from the sub-index", func() {
			chunks := assembler.Assemble(src, sections)

			for i, c := range chunks {
				Expect(c.ID).To(Equal(chunk.ID(src.File, "migrations", i)))
			}
		})

		It("reproduces identical chunks on a second pass", func() {
			first := assembler.Assemble(src, sections)
			second := assembler.Assemble(src, sections)

			Expect(second).To(Equal(first))
		})
	})
})
