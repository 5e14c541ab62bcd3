package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vidgraph/backend/pkg/common"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/store"
)

// Engine owns the current graph snapshot. Rebuilds load documents, run the
// pure assembly pipeline and atomically swap the published snapshot; a
// failed rebuild leaves the previous snapshot live. Readers never see a
// partial graph.
type Engine struct {
	source  store.DocumentSource
	budget  time.Duration
	current atomic.Pointer[common.GraphSnapshot]

	rebuildLock sync.Mutex
}

type EngineOption func(*Engine)

// WithRebuildBudget caps the wall clock time a rebuild may spend loading
// documents before it fails.
func WithRebuildBudget(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.budget = d
	}
}

func NewEngine(source store.DocumentSource, opts ...EngineOption) *Engine {
	e := &Engine{
		source: source,
		budget: 2 * time.Minute,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Rebuild recomputes the graph from the document source, optionally scoped
// to a single category, and publishes the result. It returns the new
// snapshot, or an error with the previous snapshot left in place.
func (e *Engine) Rebuild(ctx context.Context, category string) (snapshot *common.GraphSnapshot, err error) {
	e.rebuildLock.Lock()
	defer e.rebuildLock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
			err = fmt.Errorf("graph rebuild failed: %v", r)
			logger.Error("[Knowledge][Rebuild] Assembly panicked, keeping previous snapshot", "err", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	start := time.Now()
	docs, err := e.source.ListDocuments(ctx, store.DocumentFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("graph rebuild failed: %w", err)
	}

	snapshot = Assemble(docs)
	snapshot.Category = category
	e.current.Store(snapshot)

	logger.Info("[Knowledge][Rebuild] Published new snapshot",
		"category", category,
		"documents", len(docs),
		"nodes", snapshot.Stats.NodeCount,
		"edges", snapshot.Stats.EdgeCount,
		"took", time.Since(start))
	return snapshot, nil
}

// Snapshot returns the currently published snapshot, rebuilding once if
// none has been published yet.
func (e *Engine) Snapshot(ctx context.Context) (*common.GraphSnapshot, error) {
	if s := e.current.Load(); s != nil {
		return s, nil
	}
	return e.Rebuild(ctx, "")
}

// RelatedDocument pairs an edge touching a document with the peer
// document's display metadata.
type RelatedDocument struct {
	Edge common.Edge           `json:"edge"`
	Peer *common.VideoDocument `json:"peer,omitempty"`
}

// RelatedDocuments lists the document-similarity and appears-in edges
// associated with one document, each with the peer document attached. It is
// a read over the current snapshot, not a recomputation.
func (e *Engine) RelatedDocuments(ctx context.Context, documentID string) ([]RelatedDocument, error) {
	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Node(documentID) == nil {
		return nil, store.ErrNotFound
	}

	var related []RelatedDocument
	for _, edge := range snapshot.Edges {
		switch edge.Kind {
		case common.EdgeKindDocumentSimilarity:
			peerID := ""
			if edge.Source == documentID {
				peerID = edge.Target
			} else if edge.Target == documentID {
				peerID = edge.Source
			}
			if peerID == "" {
				continue
			}
			related = append(related, RelatedDocument{Edge: edge, Peer: documentOf(snapshot, peerID)})
		case common.EdgeKindAppearsIn:
			if edge.Target != documentID {
				continue
			}
			// The trailing edge id segment names the other document of
			// the pair this edge was emitted for.
			parts := strings.Split(edge.ID, "|")
			var peer *common.VideoDocument
			if len(parts) == 4 {
				peer = documentOf(snapshot, parts[3])
			}
			related = append(related, RelatedDocument{Edge: edge, Peer: peer})
		}
	}
	return related, nil
}

func documentOf(s *common.GraphSnapshot, id string) *common.VideoDocument {
	if n := s.Node(id); n != nil {
		return n.Document
	}
	return nil
}
