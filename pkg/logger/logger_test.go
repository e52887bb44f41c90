package logger_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thornmill/loreindex/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("NewLoggerWithWriters", func() {
	It("writes to the provided writer", func() {
		var buf bytes.Buffer
		log := logger.NewLoggerWithWriters(false, &buf)

		log.Info("index run starting")

		Expect(buf.String()).To(ContainSubstring("index run starting"))
	})

	It("suppresses debug output at the default level", func() {
		var buf bytes.Buffer
		log := logger.NewLoggerWithWriters(false, &buf)

		log.Debug("hidden detail")

		Expect(buf.String()).To(BeEmpty())
	})

	It("emits debug output when enabled", func() {
		var buf bytes.Buffer
		log := logger.NewLoggerWithWriters(true, &buf)

		log.Debug("visible detail")

		Expect(buf.String()).To(ContainSubstring("visible detail"))
	})

	It("fans out to multiple writers", func() {
		var a, b bytes.Buffer
		log := logger.NewLoggerWithWriters(false, &a, &b)

		log.Info("fanned out")

		Expect(a.String()).To(ContainSubstring("fanned out"))
		Expect(b.String()).To(ContainSubstring("fanned out"))
	})
})
