package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/config"
)

var _ = Describe("LoadRuntime", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeConfig := func(content string) {
		path := filepath.Join(dir, "config.toml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	It("returns defaults when no config file exists", func() {
		cfg, err := config.LoadRuntime(dir)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(cfg.Chunking.TokenBudget).To(Equal(defaults.Chunking.TokenBudget))
		Expect(cfg.Embedding.Model).To(Equal(defaults.Embedding.Model))
		Expect(cfg.Search.DefaultTopK).To(Equal(defaults.Search.DefaultTopK))
	})

	It("layers config file values over defaults", func() {
		writeConfig(`
[chunking]
token_budget = 320

[embedding]
model = "custom-model"
`)

		cfg, err := config.LoadRuntime(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Chunking.TokenBudget).To(Equal(320))
		Expect(cfg.Embedding.Model).To(Equal("custom-model"))

		// Untouched sections keep their defaults.
		defaults := config.NewDefaultConfig()
		Expect(cfg.Chunking.OverlapRatio).To(Equal(defaults.Chunking.OverlapRatio))
		Expect(cfg.Storage.SQLitePath).To(Equal(defaults.Storage.SQLitePath))
	})

	It("layers environment variables over the config file", func() {
		writeConfig(`
[embedding]
model = "from-file"
`)
		GinkgoT().Setenv("LOREINDEX_EMBEDDING_MODEL", "from-env")
		GinkgoT().Setenv("LOREINDEX_STORAGE_SQLITE_PATH", "/env/lore.db")

		cfg, err := config.LoadRuntime(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Embedding.Model).To(Equal("from-env"))
		Expect(cfg.Storage.SQLitePath).To(Equal("/env/lore.db"))
	})

	It("rejects out-of-range chunking values from the file", func() {
		writeConfig(`
[chunking]
token_budget = 900
`)

		_, err := config.LoadRuntime(dir)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("token_budget"))
	})
})
