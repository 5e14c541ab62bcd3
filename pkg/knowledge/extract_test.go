package knowledge

import (
	"reflect"
	"testing"

	"github.com/vidgraph/backend/pkg/common"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name        string
		doc         common.VideoDocument
		wantLabels  []string
		wantMissing []string
	}{
		{
			name: "no key points yields nothing",
			doc:  common.VideoDocument{ID: "d1"},
		},
		{
			name: "blank key points are skipped",
			doc:  common.VideoDocument{ID: "d1", KeyPoints: []string{"", "   "}},
		},
		{
			name: "proper nouns survive, lowercase words do not",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"React is a JavaScript library"},
			},
			wantLabels:  []string{"React", "JavaScript"},
			wantMissing: []string{"library"},
		},
		{
			name: "mixed-case identifier counts as uppercase",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"useState manages state"},
			},
			wantLabels:  []string{"useState"},
			wantMissing: []string{"manages", "state"},
		},
		{
			name: "capitalized bigram survives",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"Apache Kafka handles streams"},
			},
			wantLabels:  []string{"Apache Kafka"},
			wantMissing: []string{"handles streams"},
		},
		{
			name: "domain stem rescues uncapitalized phrase",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"the api gateway routes requests"},
			},
			wantLabels:  []string{"api gateway"},
			wantMissing: []string{"gateway routes"},
		},
		{
			name: "acronym survives inside a longer leading word",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"Rapid API growth"},
			},
			wantLabels:  []string{"API", "Rapid"},
			wantMissing: []string{"growth"},
		},
		{
			name: "acronym rescues phrase",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"REST endpoints return JSON"},
			},
			wantLabels: []string{"REST", "JSON"},
		},
		{
			name: "version number rescues phrase",
			doc: common.VideoDocument{
				ID:        "d1",
				KeyPoints: []string{"Python 3.12 ships faster interpreter"},
			},
			wantLabels: []string{"Python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := ExtractMentions(tt.doc)

			labels := make(map[string]bool)
			phrases := make(map[string]bool)
			for _, m := range mentions {
				labels[m.DisplayLabel] = true
				phrases[m.NormalizedPhrase] = true
			}
			for _, want := range tt.wantLabels {
				if !labels[want] {
					t.Errorf("missing expected mention %q, got %v", want, keys(labels))
				}
			}
			for _, missing := range tt.wantMissing {
				if labels[missing] || phrases[normalizePhrase(missing)] {
					t.Errorf("unexpected mention %q", missing)
				}
			}
			if len(tt.wantLabels) == 0 && len(tt.wantMissing) == 0 && len(mentions) != 0 {
				t.Errorf("expected no mentions, got %v", mentions)
			}
		})
	}
}

func TestFindOriginalForm(t *testing.T) {
	tests := []struct {
		name     string
		phrase   string
		original string
		want     string
		wantOK   bool
	}{
		{
			name:     "nested occurrence is skipped for the standalone one",
			phrase:   "state",
			original: "useState manages state",
			want:     "state",
			wantOK:   true,
		},
		{
			name:     "acronym found past a word that contains it",
			phrase:   "api",
			original: "Rapid API growth",
			want:     "API",
			wantOK:   true,
		},
		{
			name:     "only nested occurrences means no match",
			phrase:   "api",
			original: "Rapid growth",
		},
		{
			name:     "multibyte text ahead of the match",
			phrase:   "graphql",
			original: "🎥 recap of GraphQL",
			want:     "GraphQL",
			wantOK:   true,
		},
		{
			name:     "bigram tokens must stay adjacent",
			phrase:   "apache kafka",
			original: "Apache  Kafka streams",
		},
		{
			name:     "bigram verbatim form",
			phrase:   "apache kafka",
			original: "Apache Kafka streams",
			want:     "Apache Kafka",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findOriginalForm(tt.phrase, tt.original)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("findOriginalForm(%q, %q) = (%q, %v), want (%q, %v)",
					tt.phrase, tt.original, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractMentionsPositions(t *testing.T) {
	doc := common.VideoDocument{
		ID: "d1",
		KeyPoints: []string{
			"React basics",
			"React hooks",
		},
	}

	mentions := ExtractMentions(doc)

	var positions []int
	for _, m := range mentions {
		if m.NormalizedPhrase == "react" {
			positions = append(positions, m.KeyPointIndex)
			if m.DocumentID != "d1" {
				t.Errorf("DocumentID = %q, want d1", m.DocumentID)
			}
		}
	}
	if !reflect.DeepEqual(positions, []int{0, 1}) {
		t.Errorf("react mention positions = %v, want [0 1]", positions)
	}
}

func TestClassifyEntity(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   common.EntityType
	}{
		{
			name:   "technology keyword in text",
			text:   "the new model update shipped",
			phrase: "gemini",
			want:   common.EntityTypeTechnology,
		},
		{
			name:   "technology outranks feature",
			text:   "this api adds a new feature",
			phrase: "gateway",
			want:   common.EntityTypeTechnology,
		},
		{
			name:   "feature keyword",
			text:   "dark mode looks great",
			phrase: "dark mode",
			want:   common.EntityTypeFeature,
		},
		{
			name:   "tool keyword",
			text:   "a deployment platform for teams",
			phrase: "vercel",
			want:   common.EntityTypeTool,
		},
		{
			name:   "person keyword",
			text:   "the creator walks through the code",
			phrase: "guido",
			want:   common.EntityTypePerson,
		},
		{
			name:   "concept fallback",
			text:   "closures capture scope",
			phrase: "closures",
			want:   common.EntityTypeConcept,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyEntity(tt.text, tt.phrase); got != tt.want {
				t.Errorf("classifyEntity(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
			}
		})
	}
}

func keys(m map[string]bool) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
