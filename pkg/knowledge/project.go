package knowledge

import (
	"fmt"
	"math"
	"sort"

	"github.com/vidgraph/backend/pkg/common"
)

const sequenceWeight = 0.5

// CoOccurrenceProjection derives an entity-only view from a base snapshot.
// A pair counter tracks, per unordered entity pair, how many documents the
// pair co-occurs in; the edge weight is min(count/3, 1). Entities left with
// no edge are pruned. The base snapshot is never modified.
func CoOccurrenceProjection(base *common.GraphSnapshot) *common.GraphSnapshot {
	entitiesByDoc := make(map[string][]*common.Entity)
	for i := range base.Nodes {
		n := &base.Nodes[i]
		if n.Kind != common.NodeKindEntity || n.Entity == nil {
			continue
		}
		seen := make(map[string]struct{})
		for _, m := range n.Entity.Mentions {
			if _, dup := seen[m.DocumentID]; dup {
				continue
			}
			seen[m.DocumentID] = struct{}{}
			entitiesByDoc[m.DocumentID] = append(entitiesByDoc[m.DocumentID], n.Entity)
		}
	}

	counts := make(map[[2]string]int)
	for docID, entities := range entitiesByDoc {
		for i := 0; i < len(entities); i++ {
			for j := i + 1; j < len(entities); j++ {
				if !coOccursIn(docID, entities[i], entities[j]) {
					continue
				}
				a, b := entities[i].ID, entities[j].ID
				if b < a {
					a, b = b, a
				}
				counts[[2]string{a, b}]++
			}
		}
	}

	edges := make([]common.Edge, 0, len(counts))
	connected := make(map[string]struct{})
	for pair, count := range counts {
		edges = append(edges, common.Edge{
			ID:     fmt.Sprintf("%s|%s|%s", pair[0], common.EdgeKindCoOccurs, pair[1]),
			Source: pair[0],
			Target: pair[1],
			Kind:   common.EdgeKindCoOccurs,
			Weight: math.Min(float64(count)/3.0, 1.0),
			Reason: fmt.Sprintf("co-occur in %d documents", count),
		})
		connected[pair[0]] = struct{}{}
		connected[pair[1]] = struct{}{}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	var nodes []common.Node
	for _, n := range base.Nodes {
		if n.Kind != common.NodeKindEntity {
			continue
		}
		if _, ok := connected[n.ID]; !ok {
			continue
		}
		nodes = append(nodes, n)
	}

	return &common.GraphSnapshot{
		Category: base.Category,
		Nodes:    nodes,
		Edges:    edges,
		Stats:    computeStats(nodes, edges),
	}
}

// coOccursIn reports whether two entities are mentioned within the
// co-occurrence window of each other in the given document.
func coOccursIn(docID string, a, b *common.Entity) bool {
	for _, ma := range a.Mentions {
		if ma.DocumentID != docID {
			continue
		}
		for _, mb := range b.Mentions {
			if mb.DocumentID != docID {
				continue
			}
			d := ma.KeyPointIndex - mb.KeyPointIndex
			if d < 0 {
				d = -d
			}
			if d <= coOccurrenceWindow {
				return true
			}
		}
	}
	return false
}

// SequenceProjection orders document nodes by the caller-supplied comparator
// and chains consecutive documents with fixed-weight sequence edges. Every
// original document-entity edge is re-attached unchanged; entity nodes pass
// through untouched. The base snapshot is never modified.
func SequenceProjection(base *common.GraphSnapshot, less func(a, b *common.VideoDocument) bool) *common.GraphSnapshot {
	var docNodes []common.Node
	var entityNodes []common.Node
	for _, n := range base.Nodes {
		switch n.Kind {
		case common.NodeKindDocument:
			docNodes = append(docNodes, n)
		case common.NodeKindEntity:
			entityNodes = append(entityNodes, n)
		}
	}
	sort.SliceStable(docNodes, func(i, j int) bool {
		return less(docNodes[i].Document, docNodes[j].Document)
	})

	var edges []common.Edge
	for i := 0; i+1 < len(docNodes); i++ {
		edges = append(edges, common.Edge{
			ID:     fmt.Sprintf("%s|%s|%s", docNodes[i].ID, common.EdgeKindSequence, docNodes[i+1].ID),
			Source: docNodes[i].ID,
			Target: docNodes[i+1].ID,
			Kind:   common.EdgeKindSequence,
			Weight: sequenceWeight,
			Reason: "next in sequence",
		})
	}

	docIDs := make(map[string]struct{}, len(docNodes))
	for _, n := range docNodes {
		docIDs[n.ID] = struct{}{}
	}
	entityIDs := make(map[string]struct{}, len(entityNodes))
	for _, n := range entityNodes {
		entityIDs[n.ID] = struct{}{}
	}
	for _, e := range base.Edges {
		if isDocEntityEdge(e, docIDs, entityIDs) {
			edges = append(edges, e)
		}
	}

	nodes := make([]common.Node, 0, len(docNodes)+len(entityNodes))
	nodes = append(nodes, docNodes...)
	nodes = append(nodes, entityNodes...)

	return &common.GraphSnapshot{
		Category: base.Category,
		Nodes:    nodes,
		Edges:    edges,
		Stats:    computeStats(nodes, edges),
	}
}

func isDocEntityEdge(e common.Edge, docIDs, entityIDs map[string]struct{}) bool {
	_, srcEntity := entityIDs[e.Source]
	_, dstDoc := docIDs[e.Target]
	if srcEntity && dstDoc {
		return true
	}
	_, srcDoc := docIDs[e.Source]
	_, dstEntity := entityIDs[e.Target]
	return srcDoc && dstEntity
}
