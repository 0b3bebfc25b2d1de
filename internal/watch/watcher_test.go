package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cardsnap/internal/watch"
	"cardsnap/pkg/logger"
)

var _ = Describe("Watcher", func() {
	var (
		testDir  string
		uploaded chan string
		watcher  *watch.Watcher
		ctx      context.Context
	)

	BeforeEach(func() {
		testDir = GinkgoT().TempDir()
		uploaded = make(chan string, 16)
		ctx = context.Background()

		log := logger.New(
			logger.WithOutput(GinkgoWriter),
			logger.WithPrefix("[watch-test] "),
		)

		var err error
		watcher, err = watch.New(testDir, 200*time.Millisecond,
			func(ctx context.Context, path string) {
				uploaded <- path
			}, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(watcher.Start(ctx)).To(Succeed())
	})

	AfterEach(func() {
		watcher.Stop()
	})

	It("uploads a new photo once it settles", func() {
		photoPath := filepath.Join(testDir, "new-card.jpg")
		Expect(os.WriteFile(photoPath, []byte("jpeg bytes"), 0644)).To(Succeed())

		Eventually(uploaded, 3*time.Second).Should(Receive(Equal(photoPath)))
	})

	It("ignores non-photo files", func() {
		Expect(os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("text"), 0644)).To(Succeed())

		Consistently(uploaded, time.Second).ShouldNot(Receive())
	})

	It("skips files that vanish before settling", func() {
		photoPath := filepath.Join(testDir, "fleeting.png")
		Expect(os.WriteFile(photoPath, []byte("png bytes"), 0644)).To(Succeed())
		Expect(os.Remove(photoPath)).To(Succeed())

		Consistently(uploaded, time.Second).ShouldNot(Receive())
	})

	It("can be stopped twice without blocking", func() {
		watcher.Stop()
		watcher.Stop()
	})
})
