package ocr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/studykit/pdfparse/internal/common"
)

// ISO language codes to tesseract traineddata names.
var tesseractLangs = map[string]string{
	"en": "eng",
	"ar": "ara",
	"de": "deu",
	"fr": "fra",
	"es": "spa",
	"it": "ita",
}

// TesseractProvider is the local OCR engine. Images are preprocessed before
// recognition when enabled; the hosted provider receives originals.
type TesseractProvider struct {
	tessdataDir   string
	preprocess    bool
	clientFactory func() *gosseract.Client
}

func NewTesseractProvider(cfg common.OCRConfig) *TesseractProvider {
	return &TesseractProvider{
		tessdataDir:   cfg.TessdataDir,
		preprocess:    cfg.Preprocess,
		clientFactory: gosseract.NewClient,
	}
}

func (p *TesseractProvider) Name() string { return "tesseract" }

func (p *TesseractProvider) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

func (p *TesseractProvider) Recognize(ctx context.Context, img []byte, language string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if p.preprocess {
		if enhanced, err := Preprocess(img); err == nil {
			img = enhanced
		}
	}

	c := p.clientFactory()
	defer c.Close()

	if p.tessdataDir != "" {
		if err := c.SetTessdataPrefix(p.tessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(tesseractLang(language)); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func tesseractLang(language string) string {
	if mapped, ok := tesseractLangs[strings.ToLower(language)]; ok {
		return mapped
	}
	if language == "" {
		return "eng"
	}
	return language
}
