package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// VideoMetadata is what the watch page yields about a video before any AI
// processing happens.
type VideoMetadata struct {
	ID       string
	Title    string
	Author   string
	Category string
}

// Client fetches video metadata and transcripts from the platform's public
// endpoints.
type Client struct {
	http *http.Client

	// Base URLs are configurable for tests.
	watchBaseURL     string
	timedTextBaseURL string
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithBaseURLs overrides the watch page and timedtext endpoints.
func WithBaseURLs(watch, timedText string) ClientOption {
	return func(c *Client) {
		c.watchBaseURL = watch
		c.timedTextBaseURL = timedText
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:             &http.Client{Timeout: 30 * time.Second},
		watchBaseURL:     "https://www.youtube.com/watch",
		timedTextBaseURL: "https://video.google.com/timedtext",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video id out of the usual URL
// shapes (watch?v=, youtu.be/, /shorts/, /embed/) or accepts a bare id.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid video url %q: %w", raw, err)
	}

	if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
		return id, nil
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 {
		candidate := parts[len(parts)-1]
		if videoIDPattern.MatchString(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no video id found in %q", raw)
}

// FetchMetadata loads the watch page and scrapes title, channel and genre
// from its meta tags.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	pageURL := c.watchBaseURL + "?v=" + url.QueryEscape(videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing watch page: %w", err)
	}

	meta := &VideoMetadata{ID: videoID}
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		meta.Title = v
	} else if v, ok := doc.Find(`meta[name="title"]`).Attr("content"); ok {
		meta.Title = v
	}
	if v, ok := doc.Find(`link[itemprop="name"]`).Attr("content"); ok {
		meta.Author = v
	}
	if v, ok := doc.Find(`meta[itemprop="genre"]`).Attr("content"); ok {
		meta.Category = v
	}

	if meta.Title == "" {
		return nil, fmt.Errorf("watch page for %s carries no title metadata", videoID)
	}
	return meta, nil
}

type timedTextDocument struct {
	Texts []timedTextEntry `xml:"text"`
}

type timedTextEntry struct {
	Body string `xml:",chardata"`
}

// FetchTranscript loads the timedtext captions for a video and returns them
// joined as plain text. An empty transcript is not an error; videos without
// captions are still ingestible from their metadata.
func (c *Client) FetchTranscript(ctx context.Context, videoID, language string) (string, error) {
	if language == "" {
		language = "en"
	}
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", c.timedTextBaseURL, url.QueryEscape(language), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", nil
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("parsing timedtext: %w", err)
	}

	var lines []string
	for _, entry := range doc.Texts {
		line := strings.TrimSpace(html.UnescapeString(entry.Body))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " "), nil
}
