package knowledge

import (
	"math"
	"reflect"
	"testing"

	"github.com/vidgraph/backend/pkg/common"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{
			name: "empty vectors",
			a:    map[string]float64{},
			b:    map[string]float64{},
			want: 0,
		},
		{
			name: "zero magnitude is not an error",
			a:    map[string]float64{},
			b:    map[string]float64{"word": 3},
			want: 0,
		},
		{
			name: "identical vectors",
			a:    map[string]float64{"react": 2, "hooks": 1},
			b:    map[string]float64{"react": 2, "hooks": 1},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    map[string]float64{"react": 1},
			b:    map[string]float64{"django": 1},
			want: 0,
		},
		{
			name: "partial overlap",
			a:    map[string]float64{"react": 1, "state": 1},
			b:    map[string]float64{"react": 1, "props": 1},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTermVector(t *testing.T) {
	doc := common.VideoDocument{
		ID:        "d1",
		KeyPoints: []string{"React hooks simplify state", "React hooks compose"},
	}

	vec := termVector(doc)

	want := map[string]float64{
		"react": 2, "hooks": 2, "simplify": 1, "state": 1, "compose": 1,
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("termVector() = %v, want %v", vec, want)
	}
}

func TestTermVectorFallsBackToTranscript(t *testing.T) {
	doc := common.VideoDocument{
		ID:         "d1",
		Transcript: "welcome back today react",
	}

	vec := termVector(doc)

	if vec["react"] != 1 || vec["welcome"] != 1 {
		t.Errorf("transcript terms missing from vector: %v", vec)
	}
}

func TestTermVectorCapsSize(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += " term" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+i%7))
	}
	doc := common.VideoDocument{ID: "d1", Transcript: long}

	vec := termVector(doc)

	if len(vec) > termVectorSize {
		t.Errorf("vector has %d terms, cap is %d", len(vec), termVectorSize)
	}
}

func TestBuildTextSimilarity(t *testing.T) {
	tests := []struct {
		name         string
		docs         []common.VideoDocument
		wantEdges    int
		wantTier     string
		wantThemes   []string
		wantMinScore float64
	}{
		{
			name: "no signal no edge",
			docs: []common.VideoDocument{
				{ID: "d1"},
				{ID: "d2"},
			},
			wantEdges: 0,
		},
		{
			name: "unrelated documents",
			docs: []common.VideoDocument{
				{ID: "d1", KeyPoints: []string{"sourdough starter maintenance"}},
				{ID: "d2", KeyPoints: []string{"kubernetes ingress routing"}},
			},
			wantEdges: 0,
		},
		{
			name: "two shared themes force strong despite low cosine",
			docs: []common.VideoDocument{
				{ID: "d1", KeyPoints: []string{"Kubernetes networking overview explained today"}},
				{ID: "d2", KeyPoints: []string{"Kubernetes networking deep dive session"}},
			},
			wantEdges:    1,
			wantTier:     "strong",
			wantThemes:   []string{"kubernetes", "networking"},
			wantMinScore: 0.4,
		},
		{
			name: "one shared theme is moderate",
			docs: []common.VideoDocument{
				{ID: "d1", KeyPoints: []string{"Python basics"}},
				{ID: "d2", KeyPoints: []string{"Python tricks"}},
			},
			wantEdges:    1,
			wantTier:     "moderate",
			wantThemes:   []string{"python"},
			wantMinScore: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := BuildTextSimilarity(tt.docs)
			if len(edges) != tt.wantEdges {
				t.Fatalf("got %d edges, want %d: %+v", len(edges), tt.wantEdges, edges)
			}
			if tt.wantEdges == 0 {
				return
			}
			e := edges[0]
			if e.Kind != common.EdgeKindDocumentSimilarity {
				t.Errorf("kind = %s", e.Kind)
			}
			if e.Tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", e.Tier, tt.wantTier)
			}
			if !reflect.DeepEqual(e.SharedThemes, tt.wantThemes) {
				t.Errorf("shared themes = %v, want %v", e.SharedThemes, tt.wantThemes)
			}
			if e.Weight < tt.wantMinScore {
				t.Errorf("weight = %v, want at least %v", e.Weight, tt.wantMinScore)
			}
		})
	}
}

func TestBuildTextSimilarityHighCosine(t *testing.T) {
	docs := []common.VideoDocument{
		{ID: "d1", KeyPoints: []string{"machine learning fundamentals machine learning"}},
		{ID: "d2", KeyPoints: []string{"machine learning fundamentals course"}},
	}

	edges := BuildTextSimilarity(docs)

	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if edges[0].Tier != "strong" {
		t.Errorf("tier = %s, want strong", edges[0].Tier)
	}
}
