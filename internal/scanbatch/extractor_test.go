package scanbatch_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cardsnap/internal/scanbatch"
	"cardsnap/pkg/logger"
)

var _ = Describe("Extractor", func() {
	var (
		tempDir   string
		extractor *scanbatch.Extractor
		ctx       context.Context
	)

	BeforeEach(func() {
		tempDir = filepath.Join(GinkgoT().TempDir(), "pages")
		ctx = context.Background()

		log := logger.New(
			logger.WithOutput(GinkgoWriter),
			logger.WithPrefix("[scanbatch-test] "),
		)

		var err error
		extractor, err = scanbatch.NewExtractor(tempDir, log)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the temp directory and Cleanup removes it", func() {
		Expect(tempDir).To(BeADirectory())
		Expect(extractor.Cleanup()).To(Succeed())
		Expect(tempDir).NotTo(BeADirectory())
	})

	It("rejects a missing file", func() {
		_, err := extractor.ExtractPages(ctx, filepath.Join(tempDir, "nope.pdf"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a file that is not a PDF", func() {
		bogus := filepath.Join(tempDir, "scan.pdf")
		Expect(os.WriteFile(bogus, []byte("not a pdf at all"), 0644)).To(Succeed())

		_, err := extractor.ExtractPages(ctx, bogus)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not a usable PDF"))
	})

	DescribeTable("page image naming",
		func(pdfPath string, pageNum int, expected string) {
			Expect(scanbatch.PageImageName(pdfPath, pageNum)).To(Equal(expected))
		},
		Entry("first page", "/scans/conference.pdf", 0, "conference_page000.png"),
		Entry("double digits", "batch.pdf", 12, "batch_page012.png"),
		Entry("nested path", "/a/b/cards scan.pdf", 3, "cards scan_page003.png"),
	)
})
