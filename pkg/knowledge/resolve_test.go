package knowledge

import (
	"reflect"
	"testing"

	"github.com/vidgraph/backend/pkg/common"
)

func TestResolveEntities(t *testing.T) {
	tests := []struct {
		name     string
		mentions []RawMention
		want     []common.Entity
	}{
		{
			name:     "no mentions",
			mentions: nil,
			want:     []common.Entity{},
		},
		{
			name: "single mention becomes entity",
			mentions: []RawMention{
				{NormalizedPhrase: "react", DisplayLabel: "React", Type: common.EntityTypeConcept, Description: "React renders UIs", DocumentID: "d1", KeyPointIndex: 0},
			},
			want: []common.Entity{
				{
					ID:              "react",
					Label:           "React",
					Type:            common.EntityTypeConcept,
					Description:     "React renders UIs",
					SourceDocuments: []string{"d1"},
					Mentions:        []common.Mention{{DocumentID: "d1", KeyPointIndex: 0}},
				},
			},
		},
		{
			name: "same phrase across documents merges",
			mentions: []RawMention{
				{NormalizedPhrase: "api", DisplayLabel: "API", Type: common.EntityTypeTechnology, Description: "API basics", DocumentID: "d1", KeyPointIndex: 0},
				{NormalizedPhrase: "api", DisplayLabel: "API", Type: common.EntityTypeTechnology, Description: "API versioning", DocumentID: "d2", KeyPointIndex: 2},
			},
			want: []common.Entity{
				{
					ID:              "api",
					Label:           "API",
					Type:            common.EntityTypeTechnology,
					Description:     "API basics\n\nAPI versioning",
					SourceDocuments: []string{"d1", "d2"},
					Mentions: []common.Mention{
						{DocumentID: "d1", KeyPointIndex: 0},
						{DocumentID: "d2", KeyPointIndex: 2},
					},
				},
			},
		},
		{
			name: "repeated description is not appended twice",
			mentions: []RawMention{
				{NormalizedPhrase: "api", DisplayLabel: "API", Description: "API basics", DocumentID: "d1", KeyPointIndex: 0},
				{NormalizedPhrase: "api", DisplayLabel: "API", Description: "API basics", DocumentID: "d1", KeyPointIndex: 3},
			},
			want: []common.Entity{
				{
					ID:              "api",
					Label:           "API",
					Description:     "API basics",
					SourceDocuments: []string{"d1"},
					Mentions: []common.Mention{
						{DocumentID: "d1", KeyPointIndex: 0},
						{DocumentID: "d1", KeyPointIndex: 3},
					},
				},
			},
		},
		{
			name: "empty phrase is dropped",
			mentions: []RawMention{
				{NormalizedPhrase: "", DisplayLabel: "???", DocumentID: "d1"},
			},
			want: []common.Entity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveEntities(tt.mentions)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveEntities() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveEntitiesOrderIndependent(t *testing.T) {
	mentions := []RawMention{
		{NormalizedPhrase: "react", DisplayLabel: "React", Description: "React renders UIs", DocumentID: "d2", KeyPointIndex: 1},
		{NormalizedPhrase: "api", DisplayLabel: "API", Description: "API design", DocumentID: "d1", KeyPointIndex: 0},
		{NormalizedPhrase: "react", DisplayLabel: "React", Description: "React hooks explained", DocumentID: "d1", KeyPointIndex: 2},
		{NormalizedPhrase: "api", DisplayLabel: "API", Description: "API versioning", DocumentID: "d2", KeyPointIndex: 0},
	}
	reversed := make([]RawMention, len(mentions))
	for i, m := range mentions {
		reversed[len(mentions)-1-i] = m
	}

	a := ResolveEntities(mentions)
	b := ResolveEntities(reversed)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("resolution depends on mention order:\n%+v\nvs\n%+v", a, b)
	}
}

func TestResolveEntitiesDoesNotMutateInput(t *testing.T) {
	mentions := []RawMention{
		{NormalizedPhrase: "b", DisplayLabel: "B", DocumentID: "d1", KeyPointIndex: 1},
		{NormalizedPhrase: "a", DisplayLabel: "A", DocumentID: "d1", KeyPointIndex: 0},
	}
	ResolveEntities(mentions)

	if mentions[0].NormalizedPhrase != "b" || mentions[1].NormalizedPhrase != "a" {
		t.Errorf("input slice was reordered: %+v", mentions)
	}
}
