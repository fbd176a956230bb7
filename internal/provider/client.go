package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Client calls the parsing API directly with a resolved credential.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client
}

// NewClient wraps a resolved credential into a ready-to-use client. Returns
// nil when the credential is empty; callers treat a nil client as "direct
// path unavailable". Performs no I/O.
func NewClient(baseURL, collection, credential string, timeout time.Duration) *Client {
	if strings.TrimSpace(credential) == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(credential)})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = timeout
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: httpClient,
	}
}

// Parse uploads the document and waits for the parsed result.
func (c *Client) Parse(ctx context.Context, data []byte, fileName string) (*ParseResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.WriteField("fileName", fileName); err != nil {
		return nil, err
	}
	if err := writer.WriteField("collection", c.collection); err != nil {
		return nil, err
	}
	if err := writer.WriteField("wait", "true"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/documents", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("parser request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("parser status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed ParseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parser response decode: %w", err)
	}
	return &parsed, nil
}

func truncate(raw []byte, n int) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
