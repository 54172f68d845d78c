package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiantruijens/movie-tui/internal/movie"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	DefaultTimeout = 12 * time.Second

	userAgent    = "movie-tui/1.0 (+https://github.com/sebastiantruijens/movie-tui)"
	maxErrorBody = 64 << 10
)

// Error classes. Returned errors wrap exactly one of these.
var (
	ErrNetwork   = errors.New("tmdb: network error")
	ErrProvider  = errors.New("tmdb: provider error")
	ErrMalformed = errors.New("tmdb: malformed response")
)

// Options configures a Client
type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client handles interactions with the TMDB API.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	timeout     time.Duration
	http        *http.Client
	logger      *slog.Logger
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		accessToken: opts.AccessToken,
		timeout:     opts.Timeout,
		http:        opts.HTTPClient,
		logger:      opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// listResponse is the envelope shared by popular, search and discover.
// Error payloads carry success=false and a status message instead.
type listResponse struct {
	Results       []movie.Movie `json:"results"`
	Success       *bool         `json:"success"`
	StatusCode    int           `json:"status_code"`
	StatusMessage string        `json:"status_message"`
}

// Video is one entry of the /movie/{id}/videos response.
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type videosResponse struct {
	Results []Video `json:"results"`
}

// Popular returns the provider's popular ranking.
func (c *Client) Popular(ctx context.Context) ([]movie.Movie, error) {
	return c.list(ctx, "/movie/popular", nil)
}

// Search returns movies matching the title query. A blank query is the
// same as Popular.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Popular(ctx)
	}
	return c.list(ctx, "/search/movie", url.Values{"query": {query}})
}

// Discover returns movies tagged with the genre.
func (c *Client) Discover(ctx context.Context, genreID int) ([]movie.Movie, error) {
	return c.list(ctx, "/discover/movie", url.Values{"with_genres": {strconv.Itoa(genreID)}})
}

// TrailerKey returns the key of the first YouTube trailer for the movie.
// Any failure is reported as absent.
func (c *Client) TrailerKey(ctx context.Context, movieID int) (string, bool) {
	var resp videosResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, &resp); err != nil {
		c.logger.Debug("trailer lookup failed", "movie_id", movieID, "error", err)
		return "", false
	}
	return FirstTrailer(resp.Results)
}

// FirstTrailer picks the first video hosted on YouTube and typed Trailer.
func FirstTrailer(videos []Video) (string, bool) {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" && v.Key != "" {
			return v.Key, true
		}
	}
	return "", false
}

// YouTubeURL builds the watch URL for a trailer key.
func YouTubeURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

func (c *Client) list(ctx context.Context, path string, params url.Values) ([]movie.Movie, error) {
	var resp listResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrProvider, resp.StatusMessage, resp.StatusCode)
	}
	if resp.Results == nil {
		return []movie.Movie{}, nil
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if params == nil {
		params = url.Values{}
	}
	if c.accessToken == "" && c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	c.logger.Debug("tmdb request", "path", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("tmdb response", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: GET %s returned status %d: %s",
			ErrProvider, path, resp.StatusCode, summarizeBody(resp.Header.Get("Content-Type"), body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: read %s: %w", ErrNetwork, path, err)
		}
		return fmt.Errorf("%w: decode %s: %w", ErrMalformed, path, err)
	}
	return nil
}

// summarizeBody turns an error body into a one-line message. JSON
// payloads yield their status_message, HTML pages (gateways, proxies)
// their <title>.
func summarizeBody(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "empty body"
	}

	var payload listResponse
	if json.Unmarshal(body, &payload) == nil && payload.StatusMessage != "" {
		return payload.StatusMessage
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(body, []byte("<")) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err == nil {
			title := strings.TrimSpace(doc.Find("title").First().Text())
			if title == "" {
				title = strings.TrimSpace(doc.Find("h1").First().Text())
			}
			if title != "" {
				return title
			}
		}
	}

	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
