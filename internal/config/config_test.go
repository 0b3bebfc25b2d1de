package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cardsnap/internal/config"
)

var _ = Describe("Config", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		os.Unsetenv(config.EnvAPIBaseURL)
	})

	AfterEach(func() {
		os.Unsetenv(config.EnvAPIBaseURL)
	})

	It("applies defaults when the config file is missing", func() {
		cfg, err := config.Load(filepath.Join(tmpDir, "does-not-exist.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIBaseURL).To(Equal("http://localhost:8000"))
		Expect(cfg.PhotoSourceDir).To(Equal("./photos"))
		Expect(cfg.RequestTimeout).To(Equal(60))
		Expect(cfg.WatchDebounce).To(Equal(500))
	})

	It("reads values from the yaml file", func() {
		path := filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(path, []byte(
			"api_base_url: http://cards.internal:9000\n"+
				"photo_source_dir: /srv/scans\n"+
				"request_timeout_seconds: 120\n"+
				"watch_debounce_ms: 250\n"),
			0644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIBaseURL).To(Equal("http://cards.internal:9000"))
		Expect(cfg.PhotoSourceDir).To(Equal("/srv/scans"))
		Expect(cfg.RequestTimeout).To(Equal(120))
		Expect(cfg.WatchDebounce).To(Equal(250))
	})

	It("lets the environment override the API base URL", func() {
		path := filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(path, []byte("api_base_url: http://from-file:8000\n"), 0644)).To(Succeed())
		Expect(os.Setenv(config.EnvAPIBaseURL, "http://from-env:8000")).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIBaseURL).To(Equal("http://from-env:8000"))
	})

	It("rejects malformed yaml", func() {
		path := filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(path, []byte("api_base_url: [unclosed\n"), 0644)).To(Succeed())

		_, err := config.Load(path)
		Expect(err).To(HaveOccurred())
	})
})
