package chunk_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/chunk"
)

// paragraph builds a blank-line separated body of n paragraphs, each
// roughly 125 estimated tokens.
func paragraphs(n int) string {
	para := strings.TrimSpace(strings.Repeat("wander ", 70))
	parts := make([]string, n)
	for i := range parts {
		parts[i] = para
	}
	return strings.Join(parts, "\n\n")
}

var _ = Describe("NewSplitter", func() {
	It("selects defaults for zero values", func() {
		s, err := chunk.NewSplitter(0, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.TokenBudget).To(Equal(chunk.DefaultTokenBudget))
		Expect(s.OverlapRatio).To(Equal(chunk.DefaultOverlapRatio))
	})

	It("rejects a budget below the minimum", func() {
		_, err := chunk.NewSplitter(chunk.MinTokenBudget-1, 0)

		Expect(err).To(HaveOccurred())
	})

	It("rejects a budget above the maximum", func() {
		_, err := chunk.NewSplitter(chunk.MaxTokenBudget+1, 0)

		Expect(err).To(HaveOccurred())
	})

	It("rejects an overlap ratio outside its range", func() {
		_, err := chunk.NewSplitter(0, 0.25)
		Expect(err).To(HaveOccurred())

		_, err = chunk.NewSplitter(0, 0.05)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("EstimateTokens", func() {
	It("rounds characters divided by four upward", func() {
		Expect(chunk.EstimateTokens("abcd")).To(Equal(1))
		Expect(chunk.EstimateTokens("abcde")).To(Equal(2))
	})

	It("weights table pipes extra", func() {
		plain := chunk.EstimateTokens("aaaa aaaa")
		piped := chunk.EstimateTokens("aa|a aa|a")

		Expect(piped).To(BeNumerically(">", plain))
	})

	It("weights list-marker lines extra", func() {
		plain := chunk.EstimateTokens("alpha beta\ngamma delta")
		listed := chunk.EstimateTokens("- alpha be\n- mma delta")

		Expect(listed).To(BeNumerically(">", plain))
	})
})

var _ = Describe("Split", func() {
	var splitter *chunk.Splitter

	BeforeEach(func() {
		var err error
		splitter, err = chunk.NewSplitter(0, 0)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when the section fits the budget", func() {
		It("returns a single untouched block", func() {
			text := "A short section.\n\nWith two paragraphs."

			Expect(splitter.Split(text)).To(Equal([]string{text}))
		})
	})

	Context("when the section exceeds the budget", func() {
		It("splits on paragraph boundaries", func() {
			blocks := splitter.Split(paragraphs(6))

			Expect(len(blocks)).To(BeNumerically(">=", 2))
		})

		It("seeds each block with the previous block's tail", func() {
			blocks := splitter.Split(paragraphs(6))
			Expect(len(blocks)).To(BeNumerically(">=", 2))

			runes := []rune(blocks[0])
			n := int(float64(len(runes)) * splitter.OverlapRatio)
			tail := strings.TrimSpace(string(runes[len(runes)-n:]))

			Expect(blocks[1]).To(HavePrefix(tail))
		})

		It("keeps committed blocks near the budget", func() {
			blocks := splitter.Split(paragraphs(8))

			for _, b := range blocks[:len(blocks)-1] {
				Expect(chunk.EstimateTokens(b)).To(BeNumerically("<=", splitter.TokenBudget))
			}
		})
	})

	Context("when an oversized section has no blank-line split point", func() {
		It("returns one oversized block", func() {
			text := strings.TrimSpace(strings.Repeat("endless ", 300))

			blocks := splitter.Split(text)

			Expect(blocks).To(Equal([]string{text}))
		})
	})
})
