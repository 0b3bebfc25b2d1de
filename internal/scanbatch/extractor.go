package scanbatch

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"cardsnap/pkg/logger"
)

// Extractor turns a scan-sheet PDF (a flatbed scan with one business card
// per page) into page images ready for upload.
type Extractor struct {
	tempDir string
	logger  *logger.Logger
}

func NewExtractor(tempDir string, logger *logger.Logger) (*Extractor, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &Extractor{
		tempDir: tempDir,
		logger:  logger,
	}, nil
}

// ExtractPages renders every page of pdfPath to a PNG in the temp
// directory and returns the image paths in page order.
func (e *Extractor) ExtractPages(ctx context.Context, pdfPath string) ([]string, error) {
	if err := pdfapi.ValidateFile(pdfPath, nil); err != nil {
		return nil, fmt.Errorf("not a usable PDF: %w", err)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []string

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum, err)
		}

		imagePath := filepath.Join(e.tempDir, PageImageName(pdfPath, pageNum))

		f, err := os.Create(imagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to save page %d: %w", pageNum, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to save page %d: %w", pageNum, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to save page %d: %w", pageNum, err)
		}

		e.logger.Debug("Rendered page %d to %s", pageNum, imagePath)
		pages = append(pages, imagePath)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found in %s", pdfPath)
	}

	e.logger.Info("Extracted %d card pages from %s", len(pages), filepath.Base(pdfPath))
	return pages, nil
}

// PageImageName builds a stable image filename for one page of a scan sheet.
func PageImageName(pdfPath string, pageNum int) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return fmt.Sprintf("%s_page%03d.png", base, pageNum)
}

func (e *Extractor) Cleanup() error {
	return os.RemoveAll(e.tempDir)
}
