package scanner_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cardsnap/internal/scanner"
	"cardsnap/pkg/logger"
)

var _ = Describe("Scanner", func() {
	var (
		testDir    string
		testLogger *logger.Logger
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "scanner-test-*")
		Expect(err).NotTo(HaveOccurred())

		testLogger = logger.New(
			logger.WithOutput(GinkgoWriter),
			logger.WithPrefix("[test] "),
		)
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(testDir)
	})

	Context("when scanning an empty directory", func() {
		It("should return an error", func() {
			s := scanner.New(testLogger)
			_, err := s.FindPhotos(ctx, testDir)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no card photos found"))
		})
	})

	Context("when scanning a directory with photos", func() {
		BeforeEach(func() {
			for i := 1; i <= 3; i++ {
				err := os.WriteFile(
					filepath.Join(testDir, fmt.Sprintf("card%d.jpg", i)),
					[]byte("dummy image content"),
					0644,
				)
				Expect(err).NotTo(HaveOccurred())
			}

			err := os.WriteFile(
				filepath.Join(testDir, "notes.txt"),
				[]byte("text file"),
				0644,
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should find only photo files", func() {
			s := scanner.New(testLogger)
			photos, err := s.FindPhotos(ctx, testDir)

			Expect(err).NotTo(HaveOccurred())
			Expect(photos).To(HaveLen(3))

			for _, photo := range photos {
				Expect(photo.AbsolutePath).To(HaveSuffix(".jpg"))
			}
		})
	})

	Context("when scanning nested directories", func() {
		BeforeEach(func() {
			nestedDir := filepath.Join(testDir, "conference", "day2")
			err := os.MkdirAll(nestedDir, 0755)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.WriteFile(
				filepath.Join(testDir, "front.png"),
				[]byte("dummy image content"),
				0644,
			)).To(Succeed())

			Expect(os.WriteFile(
				filepath.Join(nestedDir, "back.jpeg"),
				[]byte("dummy image content"),
				0644,
			)).To(Succeed())
		})

		It("should find photos recursively with relative paths", func() {
			s := scanner.New(testLogger)
			photos, err := s.FindPhotos(ctx, testDir)

			Expect(err).NotTo(HaveOccurred())
			Expect(photos).To(HaveLen(2))

			var relPaths []string
			for _, photo := range photos {
				relPaths = append(relPaths, photo.RelativePath)
			}
			Expect(relPaths).To(ContainElement(filepath.Join("conference", "day2", "back.jpeg")))
		})
	})

	Context("when the context is cancelled", func() {
		It("should stop scanning", func() {
			Expect(os.WriteFile(
				filepath.Join(testDir, "card.jpg"),
				[]byte("dummy image content"),
				0644,
			)).To(Succeed())

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			s := scanner.New(testLogger)
			_, err := s.FindPhotos(cancelled, testDir)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	DescribeTable("photo extension filtering",
		func(name string, expected bool) {
			Expect(scanner.IsCardPhoto(name)).To(Equal(expected))
		},
		Entry("jpg", "card.jpg", true),
		Entry("jpeg", "card.jpeg", true),
		Entry("png", "card.PNG", true),
		Entry("webp", "card.webp", true),
		Entry("pdf", "card.pdf", false),
		Entry("text", "card.txt", false),
		Entry("no extension", "card", false),
	)
})
