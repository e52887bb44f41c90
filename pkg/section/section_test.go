package section_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/section"
)

func TestSection(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Section Suite")
}

var _ = Describe("Parse", func() {
	Context("with nested headings", func() {
		doc := `# Thornfolk Culture

An introduction to thornfolk society.

## Major Rites

The rites govern the turning of seasons.

### Sync Days

Twice a year the groves align.

## Daily Life

Mornings begin before the frost lifts.
`

		It("keys each section by its heading slug path", func() {
			sections := section.Parse(doc)

			paths := make([]string, len(sections))
			for i, s := range sections {
				paths[i] = s.Path
			}
			Expect(paths).To(Equal([]string{
				"thornfolk-culture",
				"major-rites",
				"major-rites/sync-days",
				"daily-life",
			}))
		})

		It("sets the title to the deepest active heading", func() {
			sections := section.Parse(doc)

			Expect(sections[2].Title).To(Equal("Sync Days"))
			Expect(sections[2].ParentTitle).To(Equal("Major Rites"))
		})

		It("keeps section bodies verbatim", func() {
			sections := section.Parse(doc)

			Expect(sections[2].Text).To(Equal("Twice a year the groves align."))
		})
	})

	Context("with no headings", func() {
		It("yields a single section with path intro", func() {
			sections := section.Parse("Just some prose.\n\nMore prose.")

			Expect(sections).To(HaveLen(1))
			Expect(sections[0].Path).To(Equal("intro"))
			Expect(sections[0].Title).To(BeEmpty())
		})
	})

	Context("with an H1 and H3 but no H2", func() {
		It("builds the path from the H1 and H3 slugs", func() {
			sections := section.Parse("# World\n\n### Deep Cut\n\nBody text.")

			Expect(sections).To(HaveLen(1))
			Expect(sections[0].Path).To(Equal("world/deep-cut"))
			Expect(sections[0].ParentTitle).To(Equal("World"))
		})
	})

	Context("when a new H1 appears", func() {
		It("resets the H2 and H3 context", func() {
			sections := section.Parse("## Old Chapter\n\nfirst\n\n# New Book\n\nsecond")

			Expect(sections).To(HaveLen(2))
			Expect(sections[0].Path).To(Equal("old-chapter"))
			Expect(sections[1].Path).To(Equal("new-book"))
		})
	})

	Context("inside a fenced code block", func() {
		It("does not treat hash lines as headings", func() {
			doc := "## Scripts\n\n```\n# not a heading\necho hi\n```\n\nafter"
			sections := section.Parse(doc)

			Expect(sections).To(HaveLen(1))
			Expect(sections[0].Path).To(Equal("scripts"))
			Expect(sections[0].Text).To(ContainSubstring("# not a heading"))
		})

		It("handles tilde fences the same way", func() {
			doc := "## Notes\n\n~~~\n### fenced\n~~~\n\ndone"
			sections := section.Parse(doc)

			Expect(sections).To(HaveLen(1))
			Expect(sections[0].Text).To(ContainSubstring("### fenced"))
		})
	})

	Context("with headings deeper than H3", func() {
		It("treats them as ordinary content", func() {
			sections := section.Parse("## Depths\n\n#### Too Deep\n\nbody")

			Expect(sections).To(HaveLen(1))
			Expect(sections[0].Path).To(Equal("depths"))
			Expect(sections[0].Text).To(ContainSubstring("#### Too Deep"))
		})
	})

	It("drops sections whose body is empty", func() {
		sections := section.Parse("# Empty\n\n# Full\n\ncontent")

		Expect(sections).To(HaveLen(1))
		Expect(sections[0].Path).To(Equal("full"))
	})
})

var _ = Describe("Slugify", func() {
	It("lowercases and hyphenates", func() {
		Expect(section.Slugify("Major Rites")).To(Equal("major-rites"))
	})

	It("strips emphasis markers and resolves links", func() {
		Expect(section.Slugify("**The** [Vale](https://example.com)")).To(Equal("the-vale"))
	})

	It("drops leading symbols before the first letter", func() {
		Expect(section.Slugify("🌲 Grove Keepers")).To(Equal("grove-keepers"))
	})

	It("collapses runs of whitespace", func() {
		Expect(section.Slugify("a   b\tc")).To(Equal("a-b-c"))
	})

	It("falls back to section when nothing survives", func() {
		Expect(section.Slugify("!!!")).To(Equal("section"))
	})
})
