package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/szigetelo/backoffice/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// RendererClient is the HTTP client for the HTML to PDF rendering service
type RendererClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewRendererClient(cfg *config.Config, log *zap.Logger) *RendererClient {
	timeout := time.Duration(cfg.Renderer.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &RendererClient{
		BaseURL: strings.TrimRight(cfg.Renderer.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: log,
	}
}

// Enabled reports whether a renderer is configured. Without one documents stay HTML.
func (c *RendererClient) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

type RenderRequest struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// RenderPDF converts html into a PDF document.
func (c *RendererClient) RenderPDF(ctx context.Context, html []byte, filename string) ([]byte, error) {
	endpoint := c.BaseURL + "/render/pdf"

	body, err := sonic.Marshal(RenderRequest{HTML: string(html), Filename: filename, Format: "A4"})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/pdf")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("render_pdf request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("renderer returned an empty document")
	}
	return respBody, nil
}
