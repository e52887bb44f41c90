package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/embeddings"
	"github.com/thornmill/loreindex/pkg/embeddings/ollama"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2, 0.3}},
			})
		}
	})

	JustBeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)
	})

	newEmbedder := func() *ollama.Embedder {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: server.URL,
			Model:   "nomic-embed-text",
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("posts the batch to /api/embed with the configured model", func() {
		var gotPath string
		var gotBody map[string]any
		handler = func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1}, {2}},
			})
		}

		vecs, err := newEmbedder().EmbedBatch(ctx, []string{"one", "two"})

		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(HaveLen(2))
		Expect(gotPath).To(Equal("/api/embed"))
		Expect(gotBody["model"]).To(Equal("nomic-embed-text"))
		Expect(gotBody["input"]).To(Equal([]any{"one", "two"}))
	})

	It("embeds a single text", func() {
		vec, err := newEmbedder().Embed(ctx, "hello")

		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0.1, 0.2, 0.3}))
	})

	It("wraps non-200 responses in ErrEmbedding", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}

		_, err := newEmbedder().Embed(ctx, "hello")

		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("rejects a count mismatch", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1}},
			})
		}

		_, err := newEmbedder().EmbedBatch(ctx, []string{"one", "two"})

		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("rejects zero-length vectors", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{}},
			})
		}

		_, err := newEmbedder().Embed(ctx, "hello")

		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("returns nothing for an empty batch", func() {
		vecs, err := newEmbedder().EmbedBatch(ctx, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(BeNil())
	})
})
