package common

import "time"

// VideoDocument is the immutable record the knowledge engine reads for one
// ingested video. It is owned by the document store; the engine never mutates
// it and treats missing key points or transcript text as "no signal" rather
// than an error.
type VideoDocument struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Category   string    `json:"category"`
	KeyPoints  []string  `json:"key_points"`
	Transcript string    `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntityType is the coarse classification assigned to an extracted entity.
type EntityType string

const (
	EntityTypeConcept      EntityType = "concept"
	EntityTypeTechnology   EntityType = "technology"
	EntityTypeFeature      EntityType = "feature"
	EntityTypeTool         EntityType = "tool"
	EntityTypePerson       EntityType = "person"
	EntityTypeOrganization EntityType = "organization"
)

// Mention records one occurrence of an entity phrase inside a document,
// positioned by key point index. Mentions drive proximity-weighted
// co-occurrence edges.
type Mention struct {
	DocumentID    string `json:"document_id"`
	KeyPointIndex int    `json:"key_point_index"`
}

// Entity is a canonical, deduplicated concept aggregated from one or more
// key point mentions across the collection.
//
// The ID is the normalized phrase itself (case-folded, whitespace-collapsed),
// so entity identity is a pure function of its text and rebuilds produce
// stable ids.
type Entity struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	Type            EntityType `json:"type"`
	Description     string     `json:"description"`
	SourceDocuments []string   `json:"source_documents"`
	Mentions        []Mention  `json:"mentions"`
}

// EdgeKind identifies how an edge was derived.
type EdgeKind string

const (
	EdgeKindCoOccurs           EdgeKind = "co-occurs"
	EdgeKindAppearsIn          EdgeKind = "appears-in"
	EdgeKindDocumentSimilarity EdgeKind = "document-similarity"
	EdgeKindSequence           EdgeKind = "sequence"
)

// Edge is a derived, weighted link between two snapshot nodes. Edges are
// never mutated in place; every rebuild recomputes the full edge set.
//
// Tier is set for document-similarity edges ("strong" or "moderate").
// SharedThemes, SharedEntities and Proximity are kind-specific metadata and
// are zero-valued for kinds that do not use them.
type Edge struct {
	ID             string   `json:"id"`
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Kind           EdgeKind `json:"kind"`
	Weight         float64  `json:"weight"`
	Tier           string   `json:"tier,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	SharedThemes   []string `json:"shared_themes,omitempty"`
	SharedEntities int      `json:"shared_entities,omitempty"`
	Proximity      int      `json:"proximity,omitempty"`
}

// NodeKind distinguishes document nodes from entity nodes.
type NodeKind string

const (
	NodeKindDocument NodeKind = "document"
	NodeKindEntity   NodeKind = "entity"
)

// Node is one vertex of a graph snapshot. Exactly one of Document or Entity
// is set, matching Kind.
type Node struct {
	ID       string         `json:"id"`
	Kind     NodeKind       `json:"kind"`
	Label    string         `json:"label"`
	Document *VideoDocument `json:"document,omitempty"`
	Entity   *Entity        `json:"entity,omitempty"`
}

// GraphStats summarizes the final node and edge sets of a snapshot. Counts
// are taken after dangling-edge filtering, never from pre-filter totals.
type GraphStats struct {
	NodeCount     int              `json:"node_count"`
	EdgeCount     int              `json:"edge_count"`
	DocumentNodes int              `json:"document_nodes"`
	EntityNodes   int              `json:"entity_nodes"`
	EdgesByKind   map[EdgeKind]int `json:"edges_by_kind"`
}

// GraphSnapshot is one complete, immutable result of a graph rebuild.
// A snapshot is superseded wholesale by the next rebuild; readers always see
// either the fully-old or fully-new snapshot.
type GraphSnapshot struct {
	Category string     `json:"category,omitempty"`
	Nodes    []Node     `json:"nodes"`
	Edges    []Edge     `json:"edges"`
	Stats    GraphStats `json:"stats"`
}

// Node returns the node with the given id, or nil when the id is not part of
// the snapshot.
func (s *GraphSnapshot) Node(id string) *Node {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}
