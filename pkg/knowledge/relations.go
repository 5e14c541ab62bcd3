package knowledge

import (
	"fmt"
	"sort"

	"github.com/vidgraph/backend/pkg/common"
)

const (
	// Mentions further apart than this (by key point index) do not co-occur.
	coOccurrenceWindow = 2

	appearsInWeight = 0.8

	// Shared-entity Jaccard above this makes the document pair "strong".
	sharedEntityStrongRatio = 0.3
)

// BuildCoOccurrences derives weighted co-occurrence edges between entities
// mentioned close together within the same document. Weight is 1/(distance+1)
// where distance is the absolute key point index difference.
//
// When an entity pair qualifies at several distances within one document,
// the first qualifying pair in (key point, entity id) order wins; weights do
// not accumulate across repeats.
func BuildCoOccurrences(entities []common.Entity) []common.Edge {
	type occurrence struct {
		entityID string
		index    int
	}

	byDocument := make(map[string][]occurrence)
	for _, e := range entities {
		for _, m := range e.Mentions {
			byDocument[m.DocumentID] = append(byDocument[m.DocumentID], occurrence{
				entityID: e.ID,
				index:    m.KeyPointIndex,
			})
		}
	}

	documentIDs := make([]string, 0, len(byDocument))
	for id := range byDocument {
		documentIDs = append(documentIDs, id)
	}
	sort.Strings(documentIDs)

	var edges []common.Edge
	seen := make(map[string]struct{})

	for _, docID := range documentIDs {
		occurrences := byDocument[docID]
		sort.Slice(occurrences, func(i, j int) bool {
			if occurrences[i].index != occurrences[j].index {
				return occurrences[i].index < occurrences[j].index
			}
			return occurrences[i].entityID < occurrences[j].entityID
		})

		for i := 0; i < len(occurrences); i++ {
			for j := i + 1; j < len(occurrences); j++ {
				a, b := occurrences[i], occurrences[j]
				if a.entityID == b.entityID {
					continue
				}
				distance := b.index - a.index
				if distance < 0 {
					distance = -distance
				}
				if distance > coOccurrenceWindow {
					continue
				}

				src, dst := a.entityID, b.entityID
				if dst < src {
					src, dst = dst, src
				}
				key := src + "|" + dst
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				edges = append(edges, common.Edge{
					ID:        fmt.Sprintf("%s|%s|%s", src, common.EdgeKindCoOccurs, dst),
					Source:    src,
					Target:    dst,
					Kind:      common.EdgeKindCoOccurs,
					Weight:    1.0 / float64(distance+1),
					Proximity: distance,
					Reason:    fmt.Sprintf("mentioned %d key points apart", distance),
				})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}

// BuildAppearsIn emits appears-in edges for every entity spanning more than
// one document. For each unordered pair of that entity's source documents,
// both documents receive their own edge; the pairwise redundancy is part of
// the contract because downstream stats and degree counts depend on edge
// cardinality.
func BuildAppearsIn(entities []common.Entity) []common.Edge {
	var edges []common.Edge
	for _, e := range entities {
		if len(e.SourceDocuments) <= 1 {
			continue
		}

		docs := make([]string, len(e.SourceDocuments))
		copy(docs, e.SourceDocuments)
		sort.Strings(docs)

		for i := 0; i < len(docs); i++ {
			for j := i + 1; j < len(docs); j++ {
				edges = append(edges, common.Edge{
					ID:     fmt.Sprintf("%s|%s|%s|%s", e.ID, common.EdgeKindAppearsIn, docs[i], docs[j]),
					Source: e.ID,
					Target: docs[i],
					Kind:   common.EdgeKindAppearsIn,
					Weight: appearsInWeight,
					Reason: fmt.Sprintf("%q also appears in %s", e.Label, docs[j]),
				})
				edges = append(edges, common.Edge{
					ID:     fmt.Sprintf("%s|%s|%s|%s", e.ID, common.EdgeKindAppearsIn, docs[j], docs[i]),
					Source: e.ID,
					Target: docs[j],
					Kind:   common.EdgeKindAppearsIn,
					Weight: appearsInWeight,
					Reason: fmt.Sprintf("%q also appears in %s", e.Label, docs[i]),
				})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}

// BuildSharedEntitySimilarity links document pairs whose entity sets overlap,
// scored by the Jaccard ratio of their entity id sets. Pairs with an empty
// intersection get no edge.
func BuildSharedEntitySimilarity(documents []common.VideoDocument, entities []common.Entity) []common.Edge {
	entitySets := make(map[string]map[string]struct{}, len(documents))
	for _, doc := range documents {
		entitySets[doc.ID] = make(map[string]struct{})
	}
	for _, e := range entities {
		for _, docID := range e.SourceDocuments {
			if set, ok := entitySets[docID]; ok {
				set[e.ID] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(documents))
	for _, doc := range documents {
		ids = append(ids, doc.ID)
	}
	sort.Strings(ids)

	var edges []common.Edge
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			ratio, shared := jaccard(entitySets[ids[i]], entitySets[ids[j]])
			if shared == 0 {
				continue
			}

			tier := "moderate"
			if ratio > sharedEntityStrongRatio {
				tier = "strong"
			}
			edges = append(edges, common.Edge{
				ID:             fmt.Sprintf("%s|%s|%s|entities", ids[i], common.EdgeKindDocumentSimilarity, ids[j]),
				Source:         ids[i],
				Target:         ids[j],
				Kind:           common.EdgeKindDocumentSimilarity,
				Weight:         ratio,
				Tier:           tier,
				SharedEntities: shared,
				Reason:         fmt.Sprintf("%d shared entities (jaccard %.2f)", shared, ratio),
			})
		}
	}
	return edges
}

// jaccard returns |a∩b| / |a∪b| and the intersection size. Two empty sets
// yield ratio 0.
func jaccard(a, b map[string]struct{}) (float64, int) {
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0, 0
	}
	return float64(intersection) / float64(union), intersection
}
