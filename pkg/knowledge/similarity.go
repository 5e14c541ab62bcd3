package knowledge

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vidgraph/backend/pkg/common"
)

const (
	// Term vectors keep only the most frequent terms so that long
	// transcripts do not dominate the cosine with noise words.
	termVectorSize = 100

	minTermLength = 3

	// How much of the transcript feeds the term vector when key points
	// are available; the prefix keeps the vector anchored to the intro.
	transcriptPrefixLength = 500

	themeWeight = 0.2

	similarityEmitThreshold   = 0.2
	similarityStrongThreshold = 0.5
	strongThemeCount          = 2
)

// BuildTextSimilarity links document pairs by vocabulary overlap. Two
// signals contribute: cosine similarity over per-document term-frequency
// vectors, and the number of themes shared between the documents' key
// points. The larger of the two scores wins, so a pair with low cosine but
// several named themes in common still registers.
func BuildTextSimilarity(documents []common.VideoDocument) []common.Edge {
	vectors := make(map[string]map[string]float64, len(documents))
	themes := make(map[string]map[string]struct{}, len(documents))
	for _, doc := range documents {
		vectors[doc.ID] = termVector(doc)
		themes[doc.ID] = themeKeywords(doc)
	}

	ids := make([]string, 0, len(documents))
	for _, doc := range documents {
		ids = append(ids, doc.ID)
	}
	sort.Strings(ids)

	var edges []common.Edge
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			cos := cosineSimilarity(vectors[ids[i]], vectors[ids[j]])
			shared := sharedThemes(themes[ids[i]], themes[ids[j]])

			score := math.Max(cos, themeWeight*float64(len(shared)))
			if score <= similarityEmitThreshold && len(shared) == 0 {
				continue
			}

			tier := "moderate"
			if score > similarityStrongThreshold || len(shared) >= strongThemeCount {
				tier = "strong"
			}
			edges = append(edges, common.Edge{
				ID:           fmt.Sprintf("%s|%s|%s|text", ids[i], common.EdgeKindDocumentSimilarity, ids[j]),
				Source:       ids[i],
				Target:       ids[j],
				Kind:         common.EdgeKindDocumentSimilarity,
				Weight:       score,
				Tier:         tier,
				SharedThemes: shared,
				Reason:       similarityReason(cos, shared),
			})
		}
	}
	return edges
}

func similarityReason(cos float64, shared []string) string {
	if len(shared) == 0 {
		return fmt.Sprintf("vocabulary overlap (cosine %.2f)", cos)
	}
	return fmt.Sprintf("shared themes: %s", strings.Join(shared, ", "))
}

// termVector builds a sparse term-frequency map for a document. Key points
// are the preferred signal; the transcript contributes a prefix when key
// points exist, or its full text otherwise. Only the top terms by frequency
// are retained.
func termVector(doc common.VideoDocument) map[string]float64 {
	var text string
	if len(doc.KeyPoints) > 0 {
		text = strings.Join(doc.KeyPoints, " ")
		if doc.Transcript != "" {
			prefix := doc.Transcript
			if len(prefix) > transcriptPrefixLength {
				prefix = prefix[:transcriptPrefixLength]
			}
			text += " " + prefix
		}
	} else {
		text = doc.Transcript
	}

	counts := make(map[string]float64)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(word) <= minTermLength {
			continue
		}
		counts[word]++
	}
	if len(counts) <= termVectorSize {
		return counts
	}

	type termCount struct {
		term  string
		count float64
	}
	ranked := make([]termCount, 0, len(counts))
	for term, count := range counts {
		ranked = append(ranked, termCount{term, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})

	top := make(map[string]float64, termVectorSize)
	for _, tc := range ranked[:termVectorSize] {
		top[tc.term] = tc.count
	}
	return top
}

// themeKeywords extracts the stop-word-filtered keyword set from a
// document's key points.
func themeKeywords(doc common.VideoDocument) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, kp := range doc.KeyPoints {
		for _, word := range wordPattern.FindAllString(strings.ToLower(kp), -1) {
			if len(word) <= minTermLength {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			keywords[word] = struct{}{}
		}
	}
	return keywords
}

func sharedThemes(a, b map[string]struct{}) []string {
	var shared []string
	for k := range a {
		if _, ok := b[k]; ok {
			shared = append(shared, k)
		}
	}
	sort.Strings(shared)
	return shared
}

// cosineSimilarity computes the cosine of two sparse term vectors over the
// union of their keys. A zero-magnitude vector on either side yields 0.
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot, magA, magB float64
	for term, av := range a {
		magA += av * av
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		magB += bv * bv
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
