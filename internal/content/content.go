// Package content fetches text and images from the public APIs behind the
// bot's fun commands. Calls are stateless; transient failures are retried
// when the client is built with a resilience guard.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edgard/morningbot/internal/resilience"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx upstream response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrEmptyResponse is returned when the upstream answered without usable content.
	ErrEmptyResponse = errors.New("empty response")
)

// StatusError reports a non-2xx upstream response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.Code)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) hold for every StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Retryable reports whether err is worth retrying: transport failures,
// throttling, and upstream 5xx responses.
func Retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= http.StatusInternalServerError
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 1 << 20

// Endpoints holds the URLs of the content APIs.
type Endpoints struct {
	CatURL        string
	DictionaryURL string
	FactsURL      string
	WeatherURL    string
}

// Service names used for per-API circuit breakers.
const (
	ServiceCat        = "cat"
	ServiceDictionary = "dictionary"
	ServiceFacts      = "facts"
	ServiceWeather    = "weather"
)

// Client talks to the content APIs.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	guard      *resilience.Guard
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithGuard routes every request through guard, one breaker per API.
func WithGuard(guard *resilience.Guard) Option {
	return func(c *Client) {
		c.guard = guard
	}
}

// NewClient creates a content client whose requests time out after timeout.
func NewClient(endpoints Endpoints, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoints:  endpoints,
		logger:     logger.With("component", "content_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type catImage struct {
	URL string `json:"url"`
}

// CatImageURL returns the URL of a random cat picture.
func (c *Client) CatImageURL(ctx context.Context) (string, error) {
	var images []catImage
	if err := c.getJSON(ctx, ServiceCat, c.endpoints.CatURL, &images); err != nil {
		return "", fmt.Errorf("failed to fetch cat image: %w", err)
	}
	if len(images) == 0 || images[0].URL == "" {
		return "", fmt.Errorf("failed to fetch cat image: %w", ErrEmptyResponse)
	}
	return images[0].URL, nil
}

type dictionaryEntry struct {
	Meanings []struct {
		Definitions []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Define returns the first definition of every meaning of word, in API order.
func (c *Client) Define(ctx context.Context, word string) ([]string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, fmt.Errorf("failed to define word: %w", ErrEmptyResponse)
	}

	endpoint := strings.TrimRight(c.endpoints.DictionaryURL, "/") + "/" + url.PathEscape(word)
	var entries []dictionaryEntry
	if err := c.getJSON(ctx, ServiceDictionary, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("failed to define %q: %w", word, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("failed to define %q: %w", word, ErrEmptyResponse)
	}

	var definitions []string
	for _, meaning := range entries[0].Meanings {
		if len(meaning.Definitions) == 0 || meaning.Definitions[0].Definition == "" {
			continue
		}
		definitions = append(definitions, meaning.Definitions[0].Definition)
	}
	if len(definitions) == 0 {
		return nil, fmt.Errorf("failed to define %q: %w", word, ErrEmptyResponse)
	}
	return definitions, nil
}

type uselessFact struct {
	Text string `json:"text"`
}

// UselessFact returns a random useless fact.
func (c *Client) UselessFact(ctx context.Context) (string, error) {
	var fact uselessFact
	if err := c.getJSON(ctx, ServiceFacts, c.endpoints.FactsURL, &fact); err != nil {
		return "", fmt.Errorf("failed to fetch useless fact: %w", err)
	}
	if fact.Text == "" {
		return "", fmt.Errorf("failed to fetch useless fact: %w", ErrEmptyResponse)
	}
	return fact.Text, nil
}

// Weather returns the plain text weather report.
func (c *Client) Weather(ctx context.Context) (string, error) {
	body, err := c.get(ctx, ServiceWeather, c.endpoints.WeatherURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch weather: %w", err)
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("failed to fetch weather: %w", ErrEmptyResponse)
	}
	return text, nil
}

// RawURL rewrites a GitHub file page URL into its raw content URL.
func RawURL(fileURL string) string {
	rewritten := strings.ReplaceAll(strings.TrimSpace(fileURL), "github.com", "raw.githubusercontent.com")
	return strings.ReplaceAll(rewritten, "/blob/", "/")
}

func (c *Client) getJSON(ctx context.Context, service, endpoint string, dest any) error {
	body, err := c.get(ctx, service, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, service, endpoint string) ([]byte, error) {
	if c.guard == nil {
		return c.fetch(ctx, endpoint)
	}

	var body []byte
	err := c.guard.Do(ctx, service, func(ctx context.Context) error {
		var err error
		body, err = c.fetch(ctx, endpoint)
		return err
	})
	return body, err
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "morningbot")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Content request finished",
		"host", req.URL.Host,
		"status", resp.StatusCode,
		"duration", time.Since(startTime))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
