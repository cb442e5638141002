package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/studykit/pdfparse/internal/cache"
)

type fakeProvider struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Recognize(ctx context.Context, img []byte, language string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	first := &fakeProvider{name: "vision", available: true, text: "hello from vision"}
	second := &fakeProvider{name: "tesseract", available: true, text: "hello from tesseract"}
	chain := NewChain([]Provider{first, second}, nil, nil)

	res := chain.Recognize(context.Background(), []byte("img"), "en")
	if res.Text != "hello from vision" || res.Method != "vision" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if second.calls != 0 {
		t.Error("second provider should not run when first succeeds")
	}
}

func TestChainFallsThroughFailures(t *testing.T) {
	failing := &fakeProvider{name: "vision", available: true, err: errors.New("quota exceeded")}
	empty := &fakeProvider{name: "blank", available: true, text: "   "}
	working := &fakeProvider{name: "tesseract", available: true, text: "recovered text"}
	chain := NewChain([]Provider{failing, empty, working}, nil, nil)

	res := chain.Recognize(context.Background(), []byte("img"), "en")
	if res.Text != "recovered text" || res.Method != "tesseract" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestChainSkipsUnavailable(t *testing.T) {
	offline := &fakeProvider{name: "vision", available: false, text: "should not appear"}
	online := &fakeProvider{name: "tesseract", available: true, text: "local text"}
	chain := NewChain([]Provider{offline, online}, nil, nil)

	res := chain.Recognize(context.Background(), []byte("img"), "en")
	if res.Method != "tesseract" {
		t.Fatalf("unexpected method: %+v", res)
	}
	if offline.calls != 0 {
		t.Error("unavailable provider should never be called")
	}
}

func TestChainExhaustionYieldsEmpty(t *testing.T) {
	failing := &fakeProvider{name: "vision", available: true, err: errors.New("down")}
	chain := NewChain([]Provider{failing}, nil, nil)

	res := chain.Recognize(context.Background(), []byte("img"), "en")
	if res.Text != "" || res.Method != "" {
		t.Fatalf("exhausted chain must yield empty result, got %+v", res)
	}
}

func TestChainCachesResults(t *testing.T) {
	p := &fakeProvider{name: "tesseract", available: true, text: "cached once"}
	chain := NewChain([]Provider{p}, cache.NewOCRCache(10), nil)

	img := []byte("same image bytes")
	first := chain.Recognize(context.Background(), img, "en")
	second := chain.Recognize(context.Background(), img, "en")

	if first.Text != "cached once" || second.Text != "cached once" {
		t.Fatalf("unexpected texts: %q / %q", first.Text, second.Text)
	}
	if second.Method != "cache" {
		t.Errorf("second call should hit the cache, got %q", second.Method)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}

	// Different language is a different key.
	chain.Recognize(context.Background(), img, "de")
	if p.calls != 2 {
		t.Errorf("language change should miss the cache, calls = %d", p.calls)
	}
}

func TestChainEnabled(t *testing.T) {
	if NewChain(nil, nil, nil).Enabled() {
		t.Error("empty chain should not be enabled")
	}
	chain := NewChain([]Provider{
		&fakeProvider{name: "a", available: false},
		&fakeProvider{name: "b", available: true},
	}, nil, nil)
	if !chain.Enabled() {
		t.Error("chain with an available provider should be enabled")
	}
}
