// Package rag talks to the external retrieval sidecar that maintains its
// own LLM-built knowledge graph over the ingested videos. The sidecar is
// the retrieval backend for chat answers; the engine in pkg/knowledge stays
// the source of truth for the browsable graph.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vidgraph/backend/pkg/common"
)

// QueryMode selects the sidecar's retrieval strategy.
type QueryMode string

const (
	ModeNaive  QueryMode = "naive"
	ModeLocal  QueryMode = "local"
	ModeGlobal QueryMode = "global"
	ModeHybrid QueryMode = "hybrid"
)

// Client is an HTTP client for the sidecar's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

type sidecarResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Answer  string `json:"answer,omitempty"`
}

// InsertVideo pushes one video's content to the sidecar. The document is
// assembled transcript-first: the full transcript is the primary signal,
// key points are secondary.
func (c *Client) InsertVideo(ctx context.Context, doc common.VideoDocument) error {
	payload := map[string]any{
		"video_id":      doc.ID,
		"title":         doc.Title,
		"author":        doc.Author,
		"transcription": doc.Transcript,
		"keyPoints":     doc.KeyPoints,
	}
	var resp sidecarResponse
	if err := c.post(ctx, "/insert", payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("rag insert failed for %s: %s", doc.ID, resp.Error)
	}
	return nil
}

// Query asks the sidecar a question and returns the answer text.
func (c *Client) Query(ctx context.Context, question string, mode QueryMode) (string, error) {
	if mode == "" {
		mode = ModeHybrid
	}
	payload := map[string]any{
		"query": question,
		"mode":  string(mode),
	}
	var resp sidecarResponse
	if err := c.post(ctx, "/query", payload, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("rag query failed: %s", resp.Error)
	}
	return resp.Answer, nil
}

// GraphNode and GraphEdge mirror the sidecar's visualization payload.
type GraphNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type GraphEdge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Relation    string  `json:"relation"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats struct {
		TotalNodes int `json:"total_nodes"`
		TotalEdges int `json:"total_edges"`
	} `json:"stats"`
}

// GetGraph fetches the sidecar's own graph for visualization alongside the
// engine-built one.
func (c *Client) GetGraph(ctx context.Context) (*GraphData, error) {
	var resp struct {
		sidecarResponse
		GraphData
	}
	if err := c.post(ctx, "/get_graph", map[string]any{}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("rag graph fetch failed: %s", resp.Error)
	}
	return &resp.GraphData, nil
}

// Clear wipes the sidecar's stored graph.
func (c *Client) Clear(ctx context.Context) error {
	var resp sidecarResponse
	if err := c.post(ctx, "/clear", map[string]any{}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("rag clear failed: %s", resp.Error)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rag sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rag sidecar returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
