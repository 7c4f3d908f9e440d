package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

// Rendering defaults applied when the stored document omits visual fields.
const (
	DefaultNodeSize  = 25
	DefaultEdgeWidth = 2
	DefaultArrows    = "to"
)

// Converter translates between the stored document form and the render form
// consumed by the visualization surface. Conversion is lossless for
// extraction data: the originalData payload rides through both directions
// untouched.
type Converter struct {
	colors *ColorAssigner
	logger *zap.Logger

	now    func() time.Time
	suffix func() string
}

// NewConverter returns a converter using the given assigner for color
// defaults.
func NewConverter(colors *ColorAssigner, logger *zap.Logger) *Converter {
	return &Converter{
		colors: colors,
		logger: logger,
		now:    time.Now,
		suffix: func() string { return uuid.NewString()[:8] },
	}
}

// SynthesizeEdgeID builds a fresh collision-resistant edge id from the
// endpoints, the current time and a random suffix. Used for edges created
// without an id, both at conversion time and interactively.
func (c *Converter) SynthesizeEdgeID(from, to string) string {
	return fmt.Sprintf("edge_%s_%s_%d_%s", from, to, c.now().UnixMilli(), c.suffix())
}

// ToRender produces display-ready nodes and edges from a stored document.
// Nodes without an id are skipped with a warning. Edges referencing a missing
// endpoint are skipped with a warning. Missing visual fields get defaults:
// label from id, size 25, width 2, arrows "to", and a category-derived color
// for elements without an explicit one.
func (c *Converter) ToRender(doc *graph.Document) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, 0, len(doc.Nodes))
	ids := make(map[string]struct{}, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			c.logger.Warn("skipping node without id", zap.String("label", n.Label))
			continue
		}
		ids[n.ID] = struct{}{}
		nodes = append(nodes, c.renderNode(n))
	}

	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		if _, ok := ids[e.From]; !ok {
			c.logger.Warn("skipping edge with missing source",
				zap.String("edge_id", e.ID), zap.String("from", e.From))
			continue
		}
		if _, ok := ids[e.To]; !ok {
			c.logger.Warn("skipping edge with missing target",
				zap.String("edge_id", e.ID), zap.String("to", e.To))
			continue
		}
		edges = append(edges, c.renderEdge(e))
	}
	return nodes, edges
}

func (c *Converter) renderNode(n graph.Node) graph.Node {
	out := n
	out.Original = n.Original.Clone()
	out.Color = n.Color.Clone()

	if out.Label == "" {
		out.Label = out.ID
	}
	if out.Size == 0 {
		out.Size = DefaultNodeSize
	}
	category := NodeCategory(&out)
	if out.Title == "" {
		out.Title = fmt.Sprintf("%s (%s)", out.Label, category)
	}
	if !out.Color.HasExplicitColor() {
		out.Color = graph.NewColor(c.nodeColor(out.Label, category))
	}
	return out
}

func (c *Converter) renderEdge(e graph.Edge) graph.Edge {
	out := e
	out.Original = e.Original.Clone()
	out.Color = e.Color.Clone()

	if out.ID == "" {
		out.ID = c.SynthesizeEdgeID(out.From, out.To)
	}
	category := EdgeCategory(&out)
	if out.Label == "" && category != UnknownEdgeCategory {
		out.Label = category
	}
	if out.Width == 0 {
		out.Width = DefaultEdgeWidth
	}
	if out.Arrows == "" {
		out.Arrows = DefaultArrows
	}
	if !out.Color.HasExplicitColor() {
		out.Color = graph.NewColor(c.edgeColor(out.Label, category))
	}
	return out
}

func (c *Converter) nodeColor(label, category string) string {
	if category == UnknownNodeCategory {
		return c.colors.ColorForUnknown(label, category)
	}
	return c.colors.NodeColor(category)
}

func (c *Converter) edgeColor(label, category string) string {
	if category == UnknownEdgeCategory {
		return c.colors.ColorForUnknown(label, category)
	}
	return c.colors.EdgeColor(category)
}

// NodeCategory resolves a node's category for coloring and filtering, in
// priority order: extraction type, extraction "type" property, the
// parenthesized suffix of the title, the wire-level type field, and finally
// the reserved unknown bucket.
func NodeCategory(n *graph.Node) string {
	if n.Original != nil && n.Original.Type != "" {
		return n.Original.Type
	}
	if t, ok := n.Original.Property("type"); ok && t != "" {
		return t
	}
	if t := titleCategory(n.Title); t != "" {
		return t
	}
	if n.Type != "" {
		return n.Type
	}
	return UnknownNodeCategory
}

// EdgeCategory resolves an edge's relation category: extraction type, then
// the wire-level type, then the label, then the reserved unknown bucket.
func EdgeCategory(e *graph.Edge) string {
	if e.Original != nil && e.Original.Type != "" {
		return e.Original.Type
	}
	if e.Type != "" {
		return e.Type
	}
	if e.Label != "" {
		return e.Label
	}
	return UnknownEdgeCategory
}

// titleCategory extracts the category from a "Name (category)" title.
func titleCategory(title string) string {
	open := strings.LastIndex(title, "(")
	if open < 0 || !strings.HasSuffix(title, ")") {
		return ""
	}
	return strings.TrimSpace(title[open+1 : len(title)-1])
}

// ToDocument projects render-form collections back into a stored document.
// Only the persisted fields are carried; transient display state never
// reaches disk.
func (c *Converter) ToDocument(nodes []graph.Node, edges []graph.Edge) *graph.Document {
	doc := &graph.Document{
		Nodes: make([]graph.Node, 0, len(nodes)),
		Edges: make([]graph.Edge, 0, len(edges)),
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, graph.Node{
			ID:       n.ID,
			Label:    n.Label,
			Title:    n.Title,
			Type:     n.Type,
			Color:    n.Color.Clone(),
			Size:     n.Size,
			X:        n.X,
			Y:        n.Y,
			Original: n.Original.Clone(),
		})
	}
	for _, e := range edges {
		doc.Edges = append(doc.Edges, graph.Edge{
			ID:       e.ID,
			From:     e.From,
			To:       e.To,
			Label:    e.Label,
			Title:    e.Title,
			Type:     e.Type,
			Color:    e.Color.Clone(),
			Width:    e.Width,
			Arrows:   e.Arrows,
			Original: e.Original.Clone(),
		})
	}
	return doc
}

// EnsureUniqueIDs repairs duplicate ids in render-form collections before
// they are handed to a renderer that keys elements by id. The first
// occurrence of an id always keeps it; later occurrences get a numeric
// suffix (id_2, id_3, ...). Edges without an id get edge_{from}_{to} first,
// then the same suffixing. Every rename is logged.
func (c *Converter) EnsureUniqueIDs(nodes []graph.Node, edges []graph.Edge) {
	seen := make(map[string]struct{}, len(nodes)+len(edges))

	for i := range nodes {
		id := uniqueID(nodes[i].ID, seen)
		if id != nodes[i].ID {
			c.logger.Warn("renamed duplicate node id",
				zap.String("from", nodes[i].ID), zap.String("to", id))
			nodes[i].ID = id
		}
		seen[id] = struct{}{}
	}

	edgeSeen := make(map[string]struct{}, len(edges))
	for i := range edges {
		base := edges[i].ID
		if base == "" {
			base = fmt.Sprintf("edge_%s_%s", edges[i].From, edges[i].To)
		}
		id := uniqueID(base, edgeSeen)
		if id != edges[i].ID {
			if edges[i].ID != "" {
				c.logger.Warn("renamed duplicate edge id",
					zap.String("from", edges[i].ID), zap.String("to", id))
			}
			edges[i].ID = id
		}
		edgeSeen[id] = struct{}{}
	}
}

func uniqueID(base string, seen map[string]struct{}) string {
	if _, taken := seen[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
	}
}
