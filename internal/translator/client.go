// Package translator wraps a hosted machine-translation service: language
// detection and text translation, plus a local glossary substitution pass
// for domain terms the service gets wrong.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultEndpoint = "https://api.cognitive.microsofttranslator.com"

// Client calls the translation REST API.
type Client struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
}

// NewClient creates a translation client. An empty endpoint uses the public
// service endpoint.
func NewClient(endpoint, key, region string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		key:      key,
		region:   region,
		client:   &http.Client{},
	}
}

type textItem struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Language string `json:"language"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Detect returns the detected language code for text.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	url := c.endpoint + "/detect?api-version=3.0"

	var results []detectResponse
	if err := c.post(ctx, url, []textItem{{Text: text}}, &results); err != nil {
		return "", fmt.Errorf("language detection failed: %w", err)
	}
	if len(results) == 0 || results[0].Language == "" {
		return "", fmt.Errorf("language detection returned no language")
	}
	return results[0].Language, nil
}

// Translate translates text into the target language.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	url := c.endpoint + "/translate?api-version=3.0&to=" + target

	var results []translateResponse
	if err := c.post(ctx, url, []textItem{{Text: text}}, &results); err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return "", fmt.Errorf("translation returned no result")
	}
	return results[0].Translations[0].Text, nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	if c.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
