package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/studykit/pdfparse/internal/common"
)

// VisionProvider recognizes text via a hosted vision API. It is placed ahead
// of the local engine in the chain when credentials are configured, and
// drops out of rotation when they are not.
type VisionProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

func NewVisionProvider(cfg common.OCRConfig, logger *slog.Logger) *VisionProvider {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.VisionTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VisionProvider{
		endpoint: cfg.VisionEndpoint,
		apiKey:   cfg.VisionAPIKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (p *VisionProvider) Name() string { return "vision" }

func (p *VisionProvider) Available() bool {
	return p.endpoint != "" && p.apiKey != ""
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (p *VisionProvider) Recognize(ctx context.Context, img []byte, language string) (string, error) {
	body := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(img)},
			Features: []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: visionImageContext{
				LanguageHints: languageHints(language),
			},
		}},
	}

	raw, status, err := p.sendJSON(ctx, body)
	if err != nil {
		return "", common.NewRetryableError("VISION_HTTP", fmt.Sprintf("vision request failed (status %d)", status), err)
	}

	var parsed visionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return "", fmt.Errorf("vision response empty")
	}
	if msg := parsed.Responses[0].Error.Message; msg != "" {
		return "", fmt.Errorf("vision annotation error: %s", msg)
	}
	return parsed.Responses[0].FullTextAnnotation.Text, nil
}

// sendJSON posts the request and returns the raw response body. Non-2xx
// statuses are errors; the body is still returned for diagnostics.
func (p *VisionProvider) sendJSON(ctx context.Context, body any) ([]byte, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	url := p.endpoint + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug("ocr.vision.request", "req_id", reqID, "content_length", len(bs))

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("ocr.vision.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, err
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			p.logger.Warn("ocr.vision.body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	p.logger.Debug("ocr.vision.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

func languageHints(language string) []string {
	if language == "" {
		return nil
	}
	return []string{language}
}
