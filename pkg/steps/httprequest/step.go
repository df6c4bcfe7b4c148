// Package httprequest implements the http_request step: an outbound HTTP
// call with templated URL, headers and body.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/template"
)

const defaultTimeoutMs = 30000

// Handler performs one HTTP request per execution. Success is "call
// completed": a non-2xx response is returned as data, only a transport error
// or timeout fails the step.
type Handler struct {
	url          string
	method       string
	headers      map[string]string
	body         string
	timeout      time.Duration
	allowedHosts map[string]bool
	client       *http.Client
}

func NewHandler(config map[string]any, allowedHosts []string) (*Handler, error) {
	rawURL, _ := config["url"].(string)
	if rawURL == "" {
		return nil, errors.New("missing required field 'url'")
	}

	method := http.MethodGet
	if m, ok := config["method"].(string); ok && m != "" {
		method = strings.ToUpper(m)
	}

	headers := make(map[string]string)
	if headersConfig, ok := config["headers"].(map[string]any); ok {
		for k, v := range headersConfig {
			if strVal, ok := v.(string); ok {
				headers[k] = strVal
			}
		}
	}

	body, _ := config["body"].(string)

	timeout := defaultTimeoutMs * time.Millisecond
	if t, ok := config["timeout_ms"].(float64); ok && t > 0 {
		timeout = time.Duration(t) * time.Millisecond
	}

	var hosts map[string]bool
	if len(allowedHosts) > 0 {
		hosts = make(map[string]bool, len(allowedHosts))
		for _, h := range allowedHosts {
			hosts[strings.ToLower(h)] = true
		}
	}

	return &Handler{
		url:          rawURL,
		method:       method,
		headers:      headers,
		body:         body,
		timeout:      timeout,
		allowedHosts: hosts,
		client:       &http.Client{},
	}, nil
}

func (h *Handler) Execute(ctx context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	renderedURL := template.Interpolate(h.url, execCtx.Data)

	parsed, err := url.Parse(renderedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", renderedURL, err)
	}

	if h.allowedHosts != nil && !h.allowedHosts[strings.ToLower(parsed.Hostname())] {
		return nil, fmt.Errorf("host %q is not in the outbound allow-list", parsed.Hostname())
	}

	var bodyReader io.Reader

	renderedBody := ""
	if h.body != "" {
		renderedBody = template.Interpolate(h.body, execCtx.Data)
		bodyReader = strings.NewReader(renderedBody)
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, h.method, renderedURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range h.headers {
		req.Header.Set(key, template.Interpolate(value, execCtx.Data))
	}

	if renderedBody != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			return nil, fmt.Errorf("request timed out after %s: %w", h.timeout, err)
		}

		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Structured body when it parses, raw text otherwise.
	var parsedBody any = string(respBody)

	var jsonBody any
	if err := json.Unmarshal(respBody, &jsonBody); err == nil {
		parsedBody = jsonBody
	}

	respHeaders := make(map[string]any, len(resp.Header))
	for key := range resp.Header {
		respHeaders[key] = resp.Header.Get(key)
	}

	return map[string]any{
		"status":     resp.StatusCode,
		"statusText": http.StatusText(resp.StatusCode),
		"body":       parsedBody,
		"headers":    respHeaders,
	}, nil
}
