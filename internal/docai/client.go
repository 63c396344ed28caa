// Package docai wraps a hosted document-analysis service. Analysis is
// asynchronous on the service side: a submit call returns an operation URL
// which is polled until the result is ready.
package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Mode selects the analysis model.
type Mode string

const (
	// ModeLayout extracts text with layout structure, used for summaries.
	ModeLayout Mode = "prebuilt-layout"
	// ModeRead extracts plain text, used for translation.
	ModeRead Mode = "prebuilt-read"
)

const apiVersion = "2023-07-31"

// Client calls the document-analysis REST API.
type Client struct {
	endpoint     string
	key          string
	client       *http.Client
	pollInterval time.Duration
}

// NewClient creates a document-analysis client for the given endpoint.
func NewClient(endpoint, key string) *Client {
	return &Client{
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		key:          key,
		client:       &http.Client{},
		pollInterval: 2 * time.Second,
	}
}

// Line is one extracted line of text.
type Line struct {
	Content string `json:"content"`
}

// Page is one analyzed page.
type Page struct {
	Lines []Line `json:"lines"`
}

// Result is the outcome of an analysis.
type Result struct {
	Pages []Page
}

// Text concatenates all extracted lines, in page order, one per line.
func (r *Result) Text() string {
	var sb strings.Builder
	for _, page := range r.Pages {
		for _, line := range page.Lines {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(line.Content)
		}
	}
	return sb.String()
}

type analyzeRequest struct {
	URLSource string `json:"urlSource"`
}

type analyzeResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Pages []Page `json:"pages"`
	} `json:"analyzeResult"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze runs the given model over the document at url and returns the
// extracted pages. It blocks until the service reports a terminal status.
func (c *Client) Analyze(ctx context.Context, url string, mode Mode) (*Result, error) {
	opURL, err := c.submit(ctx, url, mode)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, opURL)
}

func (c *Client) submit(ctx context.Context, url string, mode Mode) (string, error) {
	body, err := json.Marshal(analyzeRequest{URLSource: url})
	if err != nil {
		return "", fmt.Errorf("marshal analyze request: %w", err)
	}

	submitURL := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		c.endpoint, mode, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("analyze submit returned status %d: %s", resp.StatusCode, string(respBody))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("analyze submit returned no Operation-Location header")
	}
	return opURL, nil
}

func (c *Client) poll(ctx context.Context, opURL string) (*Result, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("poll request failed: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read poll response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("poll returned status %d: %s", resp.StatusCode, string(respBody))
		}

		var result analyzeResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("unmarshal poll response: %w", err)
		}

		switch result.Status {
		case "succeeded":
			return &Result{Pages: result.AnalyzeResult.Pages}, nil
		case "failed":
			return nil, fmt.Errorf("analysis failed: %s: %s", result.Error.Code, result.Error.Message)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
