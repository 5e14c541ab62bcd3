package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func testS3Client(t *testing.T, handler http.Handler) *s3.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("test", "test", ""),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
		o.UsePathStyle = true
	})
}

func TestGetTranscript(t *testing.T) {
	t.Setenv("AWS_BUCKET", "videos")

	var gotPath, gotMethod string
	client := testS3Client(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		io.WriteString(w, "welcome to the video")
	}))

	transcript, err := GetTranscript(context.Background(), client, "abc123")
	if err != nil {
		t.Fatalf("GetTranscript() error = %v", err)
	}
	if transcript != "welcome to the video" {
		t.Errorf("transcript = %q, want %q", transcript, "welcome to the video")
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/videos/transcripts/abc123.txt" {
		t.Errorf("path = %s, want /videos/transcripts/abc123.txt", gotPath)
	}
}

func TestGetTranscriptMissing(t *testing.T) {
	t.Setenv("AWS_BUCKET", "videos")

	client := testS3Client(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := GetTranscript(context.Background(), client, "missing"); err == nil {
		t.Fatal("expected error for missing transcript")
	}
}

func TestPutTranscript(t *testing.T) {
	t.Setenv("AWS_BUCKET", "videos")

	var gotPath, gotContentType, gotBody string
	client := testS3Client(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))

	if err := PutTranscript(context.Background(), client, "abc123", "hello"); err != nil {
		t.Fatalf("PutTranscript() error = %v", err)
	}
	if gotPath != "/videos/transcripts/abc123.txt" {
		t.Errorf("path = %s, want /videos/transcripts/abc123.txt", gotPath)
	}
	if gotContentType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", gotContentType)
	}
	// Newer SDKs wrap the payload in aws-chunked framing with checksum
	// trailers, so only assert the transcript made it into the body.
	if !strings.Contains(gotBody, "hello") {
		t.Errorf("body = %q, want it to contain %q", gotBody, "hello")
	}
}
