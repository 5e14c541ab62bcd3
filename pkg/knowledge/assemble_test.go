package knowledge

import (
	"reflect"
	"testing"

	"github.com/vidgraph/backend/pkg/common"
)

func testDocuments() []common.VideoDocument {
	return []common.VideoDocument{
		{
			ID:       "d1",
			Title:    "API Design Basics",
			Category: "engineering",
			KeyPoints: []string{
				"The API contract matters",
				"REST beats ad-hoc endpoints",
			},
		},
		{
			ID:       "d2",
			Title:    "API Versioning",
			Category: "engineering",
			KeyPoints: []string{
				"The API surface should stay small",
			},
		},
		{
			ID:       "d3",
			Title:    "Sourdough Bread",
			Category: "cooking",
			KeyPoints: []string{
				"knead gently overnight",
			},
		},
	}
}

func TestAssembleDeterministic(t *testing.T) {
	docs := testDocuments()
	reversed := []common.VideoDocument{docs[2], docs[1], docs[0]}

	a := Assemble(docs)
	b := Assemble(reversed)

	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Errorf("node sets differ under input reordering")
	}
	if !reflect.DeepEqual(a.Edges, b.Edges) {
		t.Errorf("edge sets differ under input reordering")
	}
	if !reflect.DeepEqual(a.Stats, b.Stats) {
		t.Errorf("stats differ under input reordering")
	}
}

func TestAssembleCrossDocumentLinkage(t *testing.T) {
	snapshot := Assemble(testDocuments())

	api := snapshot.Node("api")
	if api == nil {
		t.Fatal("entity node 'api' missing")
	}
	if api.Kind != common.NodeKindEntity {
		t.Errorf("kind = %s", api.Kind)
	}
	if !reflect.DeepEqual(api.Entity.SourceDocuments, []string{"d1", "d2"}) {
		t.Errorf("source documents = %v, want [d1 d2]", api.Entity.SourceDocuments)
	}

	appears := map[string]bool{}
	var docSim []common.Edge
	for _, e := range snapshot.Edges {
		if e.Kind == common.EdgeKindAppearsIn && e.Source == "api" {
			appears[e.Target] = true
		}
		if e.Kind == common.EdgeKindDocumentSimilarity &&
			((e.Source == "d1" && e.Target == "d2") || (e.Source == "d2" && e.Target == "d1")) {
			docSim = append(docSim, e)
		}
	}
	if !appears["d1"] || !appears["d2"] {
		t.Errorf("appears-in edges missing, got %v", appears)
	}
	if len(docSim) == 0 {
		t.Fatal("no document-similarity edge between d1 and d2")
	}
	foundSharedEntities := false
	for _, e := range docSim {
		if e.Tier != "strong" && e.Tier != "moderate" {
			t.Errorf("tier = %q", e.Tier)
		}
		if e.SharedEntities >= 1 {
			foundSharedEntities = true
		}
	}
	if !foundSharedEntities {
		t.Error("no similarity edge carries sharedEntities >= 1")
	}
}

func TestAssembleUnrelatedDocumentStaysIsolated(t *testing.T) {
	snapshot := Assemble(testDocuments())

	if snapshot.Node("d3") == nil {
		t.Fatal("d3 must still be a node")
	}
	for _, e := range snapshot.Edges {
		if e.Source == "d3" || e.Target == "d3" {
			t.Errorf("unexpected edge touching d3: %+v", e)
		}
	}
}

func TestAssembleEmptySignalDocument(t *testing.T) {
	docs := []common.VideoDocument{
		{ID: "d1", Title: "Empty"},
		{ID: "d2", Title: "React Talk", KeyPoints: []string{"React renders fast"}},
	}

	snapshot := Assemble(docs)

	if snapshot.Node("d1") == nil {
		t.Fatal("empty document must still become a node")
	}
	for _, e := range snapshot.Edges {
		if e.Source == "d1" || e.Target == "d1" {
			t.Errorf("empty document must not contribute edges: %+v", e)
		}
	}
}

func TestAssembleNoDanglingEdges(t *testing.T) {
	snapshot := Assemble(testDocuments())

	ids := make(map[string]struct{})
	for _, n := range snapshot.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range snapshot.Edges {
		if _, ok := ids[e.Source]; !ok {
			t.Errorf("edge %s has dangling source %s", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			t.Errorf("edge %s has dangling target %s", e.ID, e.Target)
		}
	}
}

func TestAssembleStats(t *testing.T) {
	snapshot := Assemble(testDocuments())

	s := snapshot.Stats
	if s.NodeCount != len(snapshot.Nodes) {
		t.Errorf("node count = %d, nodes = %d", s.NodeCount, len(snapshot.Nodes))
	}
	if s.EdgeCount != len(snapshot.Edges) {
		t.Errorf("edge count = %d, edges = %d", s.EdgeCount, len(snapshot.Edges))
	}
	if s.DocumentNodes != 3 {
		t.Errorf("document nodes = %d, want 3", s.DocumentNodes)
	}
	if s.DocumentNodes+s.EntityNodes != s.NodeCount {
		t.Errorf("node kind counts do not add up: %+v", s)
	}
	total := 0
	for _, count := range s.EdgesByKind {
		total += count
	}
	if total != s.EdgeCount {
		t.Errorf("edges by kind sum to %d, want %d", total, s.EdgeCount)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	snapshot := Assemble(nil)

	if len(snapshot.Nodes) != 0 || len(snapshot.Edges) != 0 {
		t.Errorf("empty input must yield empty snapshot, got %+v", snapshot)
	}
	if snapshot.Stats.NodeCount != 0 || snapshot.Stats.EdgeCount != 0 {
		t.Errorf("stats not zero: %+v", snapshot.Stats)
	}
}
