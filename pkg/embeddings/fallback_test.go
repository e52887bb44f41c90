package embeddings_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/embeddings"
	testutils "github.com/thornmill/loreindex/pkg/utils/test"
)

func TestEmbeddings(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Embeddings Suite")
}

var _ = Describe("Fallback", func() {
	var (
		primary  *testutils.MockEmbedder
		fallback *testutils.MockEmbedder
		ctx      context.Context
	)

	BeforeEach(func() {
		primary = testutils.NewMockEmbedder()
		fallback = testutils.NewMockEmbedder()
		fallback.Default = []float32{9, 9, 9}
		ctx = context.Background()
	})

	Context("when the primary succeeds", func() {
		It("never touches the fallback", func() {
			f := embeddings.NewFallback(primary, fallback, zap.NewNop())

			vec, err := f.Embed(ctx, "text")

			Expect(err).NotTo(HaveOccurred())
			Expect(vec).To(Equal(primary.Default))
			Expect(fallback.Calls).To(BeEmpty())
		})
	})

	Context("when the primary fails", func() {
		BeforeEach(func() {
			primary.FailAll = true
		})

		It("retries once on the fallback", func() {
			f := embeddings.NewFallback(primary, fallback, zap.NewNop())

			vec, err := f.Embed(ctx, "text")

			Expect(err).NotTo(HaveOccurred())
			Expect(vec).To(Equal([]float32{9, 9, 9}))
			Expect(fallback.Calls).To(HaveLen(1))
		})

		It("retries whole batches", func() {
			f := embeddings.NewFallback(primary, fallback, zap.NewNop())

			vecs, err := f.EmbedBatch(ctx, []string{"a", "b"})

			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(HaveLen(2))
			Expect(fallback.Calls).To(HaveLen(2))
		})

		It("returns the primary's error when both fail", func() {
			fallback.FailAll = true
			f := embeddings.NewFallback(primary, fallback, zap.NewNop())

			_, err := f.Embed(ctx, "text")

			Expect(err).To(MatchError(ContainSubstring("mock embedding failure")))
		})
	})

	Context("without a fallback provider", func() {
		It("passes primary errors straight through", func() {
			primary.FailAll = true
			f := embeddings.NewFallback(primary, nil, zap.NewNop())

			_, err := f.Embed(ctx, "text")

			Expect(err).To(HaveOccurred())
		})
	})
})
