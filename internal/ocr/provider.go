// Package ocr runs page images through an ordered provider chain. Providers
// are tried in order on every call; the first non-empty result wins and a
// fully exhausted chain yields empty text rather than an error, so one bad
// page never fails a document.
package ocr

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/studykit/pdfparse/internal/cache"
)

// Provider recognizes text in a single page image.
type Provider interface {
	Name() string
	// Available is re-checked on every call: credentials and binaries can
	// appear or disappear while the process runs.
	Available() bool
	Recognize(ctx context.Context, img []byte, language string) (string, error)
}

// Result carries recognized text and which provider produced it.
type Result struct {
	Text   string
	Method string
}

// Chain is an ordered OCR provider list with a per-image result cache.
type Chain struct {
	providers []Provider
	cache     *cache.OCRCache
	logger    *slog.Logger
}

func NewChain(providers []Provider, ocrCache *cache.OCRCache, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{providers: providers, cache: ocrCache, logger: logger}
}

// Enabled reports whether any provider could serve a request right now.
func (c *Chain) Enabled() bool {
	for _, p := range c.providers {
		if p.Available() {
			return true
		}
	}
	return false
}

// Recognize runs img through the chain. Identical image bytes with the same
// language hit the cache and skip the providers entirely.
func (c *Chain) Recognize(ctx context.Context, img []byte, language string) Result {
	key := cache.OCRKey(hashImage(img), language)
	if c.cache != nil {
		if text, ok := c.cache.Get(key); ok {
			return Result{Text: text, Method: "cache"}
		}
	}

	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		text, err := p.Recognize(ctx, img, language)
		if err != nil {
			c.logger.Warn("ocr.provider.failed", "provider", p.Name(), "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.logger.Debug("ocr.provider.empty", "provider", p.Name())
			continue
		}
		if c.cache != nil {
			c.cache.Put(key, text)
		}
		return Result{Text: text, Method: p.Name()}
	}

	c.logger.Warn("ocr.chain.exhausted", "providers", len(c.providers), "language", language)
	return Result{}
}

func hashImage(img []byte) string {
	sum := md5.Sum(img)
	return hex.EncodeToString(sum[:])
}
