package knowledge

import (
	"sort"

	"github.com/vidgraph/backend/pkg/common"
)

// Assemble runs the full pipeline over a document set and returns a fresh
// snapshot: extraction, identity resolution, all edge builders, dangling
// edge filtering and stats. The result is deterministic for a fixed
// document set regardless of input order, and independent of any previous
// snapshot.
func Assemble(documents []common.VideoDocument) *common.GraphSnapshot {
	docs := make([]common.VideoDocument, len(documents))
	copy(docs, documents)
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	var mentions []RawMention
	for _, doc := range docs {
		mentions = append(mentions, ExtractMentions(doc)...)
	}
	entities := ResolveEntities(mentions)

	var edges []common.Edge
	edges = append(edges, BuildCoOccurrences(entities)...)
	edges = append(edges, BuildAppearsIn(entities)...)
	edges = append(edges, BuildSharedEntitySimilarity(docs, entities)...)
	edges = append(edges, BuildTextSimilarity(docs)...)

	nodes := make([]common.Node, 0, len(docs)+len(entities))
	nodeIDs := make(map[string]struct{}, len(docs)+len(entities))
	for i := range docs {
		nodes = append(nodes, common.Node{
			ID:       docs[i].ID,
			Kind:     common.NodeKindDocument,
			Label:    docs[i].Title,
			Document: &docs[i],
		})
		nodeIDs[docs[i].ID] = struct{}{}
	}
	for i := range entities {
		nodes = append(nodes, common.Node{
			ID:     entities[i].ID,
			Kind:   common.NodeKindEntity,
			Label:  entities[i].Label,
			Entity: &entities[i],
		})
		nodeIDs[entities[i].ID] = struct{}{}
	}

	// Edges pointing at anything outside the node set are dropped, never
	// passed through.
	kept := edges[:0]
	for _, e := range edges {
		if _, ok := nodeIDs[e.Source]; !ok {
			continue
		}
		if _, ok := nodeIDs[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })

	return &common.GraphSnapshot{
		Nodes: nodes,
		Edges: kept,
		Stats: computeStats(nodes, kept),
	}
}

// computeStats counts the final node and edge sets, after filtering.
func computeStats(nodes []common.Node, edges []common.Edge) common.GraphStats {
	stats := common.GraphStats{
		NodeCount:   len(nodes),
		EdgeCount:   len(edges),
		EdgesByKind: make(map[common.EdgeKind]int),
	}
	for _, n := range nodes {
		switch n.Kind {
		case common.NodeKindDocument:
			stats.DocumentNodes++
		case common.NodeKindEntity:
			stats.EntityNodes++
		}
	}
	for _, e := range edges {
		stats.EdgesByKind[e.Kind]++
	}
	return stats
}
