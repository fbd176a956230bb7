package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProxyClient invokes the server-side parse function. The function holds its
// own upstream credential and returns an already-normalized profile object.
type ProxyClient struct {
	url        string
	httpClient *http.Client
}

func NewProxyClient(url string, timeout time.Duration) *ProxyClient {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProxyClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type proxyRequest struct {
	FileBase64 string `json:"fileBase64"`
	FileName   string `json:"fileName"`
	MediaType  string `json:"mediaType"`
}

// Parse sends the document as base64 and returns the raw profile object the
// function produced. The object is decoded by the caller; a response that is
// not a JSON object, or that carries an "error" field, is a provider failure.
func (c *ProxyClient) Parse(ctx context.Context, data []byte, fileName, mediaType string) (json.RawMessage, error) {
	payload, err := json.Marshal(proxyRequest{
		FileBase64: base64.StdEncoding.EncodeToString(data),
		FileName:   fileName,
		MediaType:  mediaType,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("parse function timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("parse function status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse function response is not a JSON object: %w", err)
	}
	if errRaw, ok := envelope["error"]; ok {
		var msg string
		if json.Unmarshal(errRaw, &msg) != nil {
			msg = string(errRaw)
		}
		return nil, fmt.Errorf("parse function error: %s", msg)
	}
	return json.RawMessage(raw), nil
}
