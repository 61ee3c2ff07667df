package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAffirmationURL = "https://www.affirmations.dev/"
	DefaultMotivationURL  = "https://zenquotes.io/api/random"

	// zenquotes devuelve este autor cuando se supera su limite gratuito.
	zenQuotesRateLimitAuthor = "zenquotes.io"
)

var errEmptyQuote = errors.New("empty quote")

// AffirmationClient consulta affirmations.dev.
type AffirmationClient struct {
	url    string
	client *http.Client
}

func NewAffirmationClient(url string) *AffirmationClient {
	if url == "" {
		url = DefaultAffirmationURL
	}
	return &AffirmationClient{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *AffirmationClient) Fetch(ctx context.Context) (string, error) {
	body, err := getBody(ctx, c.client, c.url)
	if err != nil {
		return "", err
	}
	var resp struct {
		Affirmation string `json:"affirmation"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal affirmation: %w", err)
	}
	if strings.TrimSpace(resp.Affirmation) == "" {
		return "", errEmptyQuote
	}
	return resp.Affirmation, nil
}

// ZenQuotesClient consulta zenquotes.io y devuelve la frase con su autor.
type ZenQuotesClient struct {
	url    string
	client *http.Client
}

func NewZenQuotesClient(url string) *ZenQuotesClient {
	if url == "" {
		url = DefaultMotivationURL
	}
	return &ZenQuotesClient{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *ZenQuotesClient) Fetch(ctx context.Context) (string, error) {
	body, err := getBody(ctx, c.client, c.url)
	if err != nil {
		return "", err
	}
	var quotes []struct {
		Quote  string `json:"q"`
		Author string `json:"a"`
	}
	if err := json.Unmarshal(body, &quotes); err != nil {
		return "", fmt.Errorf("unmarshal quote: %w", err)
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Quote) == "" {
		return "", errEmptyQuote
	}
	q := quotes[0]
	if strings.EqualFold(strings.TrimSpace(q.Author), zenQuotesRateLimitAuthor) {
		return "", fmt.Errorf("zenquotes rate limited")
	}
	if strings.TrimSpace(q.Author) == "" {
		return q.Quote, nil
	}
	return fmt.Sprintf("%s — %s", q.Quote, q.Author), nil
}

func getBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("support http error: status=%d", resp.StatusCode)
	}
	return body, nil
}
