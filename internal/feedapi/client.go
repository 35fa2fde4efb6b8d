package feedapi

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

// MalformedResponseError reports a server payload that fails shape
// validation. Callers treat it as a blocking failure rather than rendering
// partial data.
type MalformedResponseError struct {
	Endpoint string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListArticles fetches the full article collection. The server may return a
// bare JSON array or a {"data": [...]} envelope; both are accepted.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/feeds", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list articles request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list articles failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read articles response: %w", err)
	}
	return decodeArticles(payload)
}

func decodeArticles(payload []byte) ([]Article, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, &MalformedResponseError{Endpoint: "/api/feeds", Reason: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		var articles []Article
		if err := json.Unmarshal(trimmed, &articles); err != nil {
			return nil, &MalformedResponseError{Endpoint: "/api/feeds", Reason: err.Error()}
		}
		return articles, nil
	case '{':
		var envelope struct {
			Data []Article `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, &MalformedResponseError{Endpoint: "/api/feeds", Reason: err.Error()}
		}
		if envelope.Data == nil {
			return nil, &MalformedResponseError{Endpoint: "/api/feeds", Reason: "object envelope without data array"}
		}
		return envelope.Data, nil
	default:
		return nil, &MalformedResponseError{Endpoint: "/api/feeds", Reason: "body is neither array nor object"}
	}
}

// ListReadLinks fetches the server's confirmed read set.
func (c *Client) ListReadLinks(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/articles/read", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list read articles request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list read articles failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		ReadArticles []string `json:"read_articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &MalformedResponseError{Endpoint: "/api/articles/read", Reason: err.Error()}
	}
	return result.ReadArticles, nil
}

// ToggleRead flips the read status of one article server-side and returns
// the new authoritative value.
func (c *Client) ToggleRead(ctx context.Context, link string) (bool, error) {
	body, err := json.Marshal(map[string]string{"link": link})
	if err != nil {
		return false, fmt.Errorf("encode toggle request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/articles/read", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("toggle read request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("toggle read failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		IsRead *bool  `json:"is_read"`
		Link   string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &MalformedResponseError{Endpoint: "/api/articles/read", Reason: err.Error()}
	}
	if result.IsRead == nil {
		return false, &MalformedResponseError{Endpoint: "/api/articles/read", Reason: "missing is_read field"}
	}
	return *result.IsRead, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
