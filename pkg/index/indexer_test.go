package index_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/analyzer"
	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/index"
	"github.com/thornmill/loreindex/pkg/store"
	testutils "github.com/thornmill/loreindex/pkg/utils/test"
)

func TestIndex(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Index Suite")
}

const thornfolkDoc = `---
universe: verdant-reach
species: thornfolk
aliases:
  - thorn folk
---
# Thornfolk

An old people of the vale.

## Major Rites

### Sync Days

Twice a year the groves align.
`

func newIndexer(st store.Store) *index.Indexer {
	splitter, err := chunk.NewSplitter(0, 0)
	Expect(err).NotTo(HaveOccurred())
	assembler := chunk.NewAssembler(splitter, analyzer.NewHeuristic())
	return index.NewIndexer(assembler, testutils.NewMockEmbedder(), st, zap.NewNop())
}

var _ = Describe("Indexer", func() {
	var (
		root string
		st   *testutils.MockStore
		ix   *index.Indexer
		ctx  context.Context
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		st = testutils.NewMockStore()
		ix = newIndexer(st)
		ctx = context.Background()

		err := os.WriteFile(filepath.Join(root, "thornfolk.md"), []byte(thornfolkDoc), 0o644)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("IndexDir", func() {
		It("indexes every chunk of every document", func() {
			result, err := ix.IndexDir(ctx, root)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Documents).To(Equal(1))
			Expect(result.Chunks).To(Equal(2))
			Expect(st.Upserted).To(HaveLen(2))
		})

		It("stores deterministic chunk IDs keyed by the relative path", func() {
			_, err := ix.IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			ids := []string{st.Upserted[0].ChunkID, st.Upserted[1].ChunkID}
			Expect(ids).To(ConsistOf(
				chunk.ID("thornfolk.md", "thornfolk", -1),
				chunk.ID("thornfolk.md", "major-rites/sync-days", -1),
			))
		})

		It("produces identical rows on a second run", func() {
			_, err := ix.IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())
			firstIDs := []string{st.Upserted[0].ChunkID, st.Upserted[1].ChunkID}

			fresh := testutils.NewMockStore()
			_, err = newIndexer(fresh).IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			Expect([]string{fresh.Upserted[0].ChunkID, fresh.Upserted[1].ChunkID}).To(Equal(firstIDs))
		})

		It("serializes front matter attributes into the stored metadata", func() {
			_, err := ix.IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			var meta chunk.Metadata
			Expect(json.Unmarshal([]byte(st.Upserted[0].MetadataJSON), &meta)).To(Succeed())
			Expect(meta.Universe).To(Equal("verdant-reach"))
			Expect(meta.Species).To(Equal("thornfolk"))
			Expect(meta.Aliases).To(Equal([]string{"thorn folk"}))
			Expect(meta.SourceFile).To(Equal("thornfolk.md"))
		})

		It("pins the store dimension from the first batch", func() {
			_, err := ix.IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			dim, err := st.Dimension(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dim).To(Equal(3))
		})

		It("aborts when the pinned dimension does not match", func() {
			Expect(st.SetDimension(ctx, 8)).To(Succeed())

			_, err := ix.IndexDir(ctx, root)

			Expect(err).To(MatchError(store.ErrDimensionMismatch))
			Expect(st.Upserted).To(BeEmpty())
		})

		It("writes nothing when embedding fails", func() {
			embedder := testutils.NewMockEmbedder()
			embedder.FailAll = true
			splitter, err := chunk.NewSplitter(0, 0)
			Expect(err).NotTo(HaveOccurred())
			failing := index.NewIndexer(chunk.NewAssembler(splitter, analyzer.NewHeuristic()), embedder, st, zap.NewNop())

			_, err = failing.IndexDir(ctx, root)

			Expect(err).To(HaveOccurred())
			Expect(st.Upserted).To(BeEmpty())
		})

		It("hashes chunk text for change detection", func() {
			_, err := ix.IndexDir(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			for _, row := range st.Upserted {
				Expect(row.ContentHash).To(Equal(chunk.ContentHash(row.Text)))
			}
		})
	})

	Describe("IndexDocument batching", func() {
		It("splits a large document into multiple upsert batches", func() {
			var big string
			for i := 0; i < 20; i++ {
				big += "## Heading " + string(rune('A'+i)) + "\n\nsome body text\n\n"
			}
			err := os.WriteFile(filepath.Join(root, "big.md"), []byte(big), 0o644)
			Expect(err).NotTo(HaveOccurred())

			_, err = ix.IndexDir(ctx, root)

			Expect(err).NotTo(HaveOccurred())
			Expect(st.UpsertBatches).To(BeNumerically(">=", 2))
		})
	})
})
