package ai

import (
	"fmt"
	"strings"
)

// KeyPointsResult is the structured output of a summarization request.
type KeyPointsResult struct {
	KeyPoints []string `json:"key_points" jsonschema_description:"Short, self-contained statements covering the chunk's main points"`
	Category  string   `json:"category" jsonschema_description:"One or two word topic category for the content"`
}

// SummarizeChunkPrompt builds the prompt that turns one transcript chunk
// into key points. Each key point must be a short standalone sentence;
// downstream entity extraction depends on names being written out rather
// than referred to by pronoun.
func SummarizeChunkPrompt(title, author, chunk string) string {
	var b strings.Builder
	b.WriteString("You are summarizing a segment of a video transcript into key points.\n\n")
	fmt.Fprintf(&b, "Video title: %s\n", title)
	if author != "" {
		fmt.Fprintf(&b, "Channel: %s\n", author)
	}
	b.WriteString(`
Rules:
- Produce 3 to 8 key points, each a single short sentence.
- Name technologies, tools, products and people explicitly in every key point that mentions them. Never use "it" or "this tool" in place of a name.
- Keep the original casing of names (React, useState, API).
- Only state what the transcript segment actually says.
- Suggest a one or two word category for the video's topic.

Transcript segment:
`)
	b.WriteString(chunk)
	return b.String()
}

// MergeKeyPointsPrompt asks the model to collapse per-chunk key points into
// one ordered list for the whole video.
func MergeKeyPointsPrompt(title string, chunkPoints [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "These key points were produced per segment of the video %q, in order.\n", title)
	b.WriteString(`Merge them into one list of at most 15 key points for the whole video:
- Keep the original order of topics.
- Drop duplicates, keep the more specific wording.
- Keep every key point a single short sentence with names written out.

Segment key points:
`)
	for i, points := range chunkPoints {
		fmt.Fprintf(&b, "\nSegment %d:\n", i+1)
		for _, p := range points {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

// ChatSystemPrompt grounds the assistant in the retrieved context for a
// conversation about one video or the whole collection.
func ChatSystemPrompt(subject, context string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant answering questions about ")
	fmt.Fprintf(&b, "%s.\n", subject)
	b.WriteString(`Answer from the provided context. When the context does not cover the question, say so instead of guessing.

Context:
`)
	b.WriteString(context)
	return b.String()
}
