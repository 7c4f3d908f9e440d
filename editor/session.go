package editor

import (
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
)

// Backend is the persistence collaborator. Implementations talk to the graph
// service; the session never sees a transport.
type Backend interface {
	// FetchGraph loads the document stored under key, plus its physics
	// preference and metadata bag.
	FetchGraph(ctx context.Context, key string) (doc *graph.Document, physics bool, meta graph.Metadata, err error)
	// ReplaceGraph overwrites the document stored under key.
	ReplaceGraph(ctx context.Context, key string, doc *graph.Document) error
	// DeleteGraph removes the document stored under key.
	DeleteGraph(ctx context.Context, key string) error
}

// Session owns the open graph: the canonical collections, the active cache
// key, and every operation that crosses to the backend. Backend failures
// surface their message verbatim through the alerter and leave in-memory
// state untouched; destructive operations are confirmation-gated.
//
// Loads are applied in arrival order with no fencing: a stale response that
// lands after a newer one wins. Accepted risk for a single local editor.
type Session struct {
	Nodes *DataSet[graph.Node]
	Edges *DataSet[graph.Edge]

	highlight *HighlightEngine
	converter *render.Converter
	renderer  Renderer
	backend   Backend
	alerts    Alerter
	confirms  Confirmer
	logger    *zap.Logger

	key  string
	meta graph.Metadata
}

// NewSession returns a session over empty collections with its own
// highlight engine.
func NewSession(
	converter *render.Converter,
	renderer Renderer,
	backend Backend,
	alerts Alerter,
	confirms Confirmer,
	logger *zap.Logger,
) *Session {
	nodes := NewNodeSet()
	edges := NewEdgeSet()
	return &Session{
		Nodes:     nodes,
		Edges:     edges,
		highlight: NewHighlightEngine(nodes, edges),
		converter: converter,
		renderer:  renderer,
		backend:   backend,
		alerts:    alerts,
		confirms:  confirms,
		logger:    logger,
	}
}

// Highlight returns the session's highlight engine.
func (s *Session) Highlight() *HighlightEngine {
	return s.highlight
}

// Key returns the active cache key, or "".
func (s *Session) Key() string {
	return s.key
}

// SetKey changes the active cache key without loading.
func (s *Session) SetKey(key string) {
	s.key = key
}

// Metadata returns the metadata bag of the last successful load.
func (s *Session) Metadata() graph.Metadata {
	return s.meta
}

// Load fetches the active key's document and replaces the in-memory
// collections with its render form. Without a key it only alerts. A fetch
// failure alerts the backend's message verbatim and changes nothing.
func (s *Session) Load(ctx context.Context) error {
	if s.key == "" {
		s.alerts.Alert("No graph selected. Open the editor with a cache key.")
		return nil
	}

	doc, physics, meta, err := s.backend.FetchGraph(ctx, s.key)
	if err != nil {
		s.alerts.Alert(err.Error())
		return err
	}

	nodes, edges := s.converter.ToRender(doc)
	s.converter.EnsureUniqueIDs(nodes, edges)

	s.highlight.Reset()
	s.Nodes.Replace(nodes)
	s.Edges.Replace(edges)
	s.meta = meta
	s.renderer.SetPhysics(physics)

	s.logger.Info("graph loaded",
		zap.String("cache_key", s.key),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)),
		zap.Bool("physics", physics))
	return nil
}

// Save converts the collections back to document form and replaces the
// backend copy. Without an active key it alerts and never touches the
// network.
func (s *Session) Save(ctx context.Context) error {
	if s.key == "" {
		s.alerts.Alert("No cache key is active; nothing was saved.")
		return nil
	}

	doc := s.converter.ToDocument(s.Nodes.All(), s.Edges.All())
	if err := s.backend.ReplaceGraph(ctx, s.key, doc); err != nil {
		s.alerts.Alert(err.Error())
		return err
	}
	s.alerts.Alert("Graph saved.")
	s.logger.Info("graph saved",
		zap.String("cache_key", s.key),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)))
	return nil
}

// Delete removes the backend copy after confirmation, then clears the
// collections and the active key.
func (s *Session) Delete(ctx context.Context) error {
	if s.key == "" {
		s.alerts.Alert("No cache key is active; nothing to delete.")
		return nil
	}
	if !s.confirms.Confirm("Delete this graph permanently?") {
		return nil
	}

	if err := s.backend.DeleteGraph(ctx, s.key); err != nil {
		s.alerts.Alert(err.Error())
		return err
	}
	s.highlight.Reset()
	s.Nodes.Clear()
	s.Edges.Clear()
	s.meta = nil
	s.logger.Info("graph deleted", zap.String("cache_key", s.key))
	s.key = ""
	return nil
}

// Refresh reloads the active key, discarding in-memory edits. That loss is
// the operation's contract, not an accident.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Clear empties the collections after confirmation. The backend copy and the
// active key survive.
func (s *Session) Clear() {
	if !s.confirms.Confirm("Clear the canvas? The stored graph is not affected.") {
		return
	}
	s.highlight.Reset()
	s.Nodes.Clear()
	s.Edges.Clear()
}

// Export writes the collections as an indented JSON document. Purely local.
func (s *Session) Export(w io.Writer) error {
	doc := s.converter.ToDocument(s.Nodes.All(), s.Edges.All())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
