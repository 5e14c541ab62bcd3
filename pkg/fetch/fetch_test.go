package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "watch url",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short url",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "shorts url",
			input: "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed url",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare id",
			input: "dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch url with extra params",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:    "no id",
			input:   "https://www.youtube.com/feed/subscriptions",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchMetadata(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
		<meta property="og:title" content="Go Concurrency Patterns">
		<link itemprop="name" content="GopherCon">
		<meta itemprop="genre" content="Science &amp; Technology">
	</head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	meta, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Title != "Go Concurrency Patterns" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Author != "GopherCon" {
		t.Errorf("author = %q", meta.Author)
	}
	if meta.Category != "Science & Technology" {
		t.Errorf("category = %q", meta.Category)
	}
}

func TestFetchMetadataMissingTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head></head><body></body></html>`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	if _, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ"); err == nil {
		t.Fatal("expected error for page without title")
	}
}

func TestFetchTranscript(t *testing.T) {
	transcript := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
	<text start="0" dur="2.5">Welcome to the channel</text>
	<text start="2.5" dur="3.1">today we cover React &amp; GraphQL</text>
	<text start="5.6" dur="1.0">  </text>
</transcript>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lang") != "en" {
			t.Errorf("lang = %q, want en", r.URL.Query().Get("lang"))
		}
		w.Write([]byte(transcript))
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	got, err := client.FetchTranscript(context.Background(), "dQw4w9WgXcQ", "")
	if err != nil {
		t.Fatalf("FetchTranscript() error = %v", err)
	}
	want := "Welcome to the channel today we cover React & GraphQL"
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}

func TestFetchTranscriptEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No captions: the endpoint answers 200 with an empty body.
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	got, err := client.FetchTranscript(context.Background(), "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("FetchTranscript() error = %v", err)
	}
	if got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
}
