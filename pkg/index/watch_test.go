package index_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	testutils "github.com/thornmill/loreindex/pkg/utils/test"
)

var _ = Describe("Watch", func() {
	var (
		root   string
		st     *testutils.MockStore
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		st = testutils.NewMockStore()
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)
	})

	It("re-indexes a newly created document", func() {
		done := make(chan error, 1)
		go func() {
			done <- newIndexer(st).Watch(ctx, root)
		}()

		// Give the watcher a moment to register the root directory.
		time.Sleep(100 * time.Millisecond)

		err := os.WriteFile(filepath.Join(root, "new.md"), []byte("# Fresh\n\nfresh body"), 0o644)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() (int64, error) {
			return st.Count(context.Background())
		}, 5*time.Second, 50*time.Millisecond).Should(BeNumerically(">", 0))

		cancel()
		Eventually(done, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
	})

	It("ignores files with non-indexable extensions", func() {
		done := make(chan error, 1)
		go func() {
			done <- newIndexer(st).Watch(ctx, root)
		}()

		time.Sleep(100 * time.Millisecond)

		err := os.WriteFile(filepath.Join(root, "image.png"), []byte{0x89}, 0o644)
		Expect(err).NotTo(HaveOccurred())

		Consistently(func() (int64, error) {
			return st.Count(context.Background())
		}, 500*time.Millisecond, 50*time.Millisecond).Should(BeZero())

		cancel()
		Eventually(done, 2*time.Second).Should(Receive())
	})

	It("returns when the context is cancelled", func() {
		done := make(chan error, 1)
		go func() {
			done <- newIndexer(st).Watch(ctx, root)
		}()

		cancel()

		Eventually(done, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
	})
})
