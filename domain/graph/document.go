package graph

import (
	"go.uber.org/zap"
)

// Original carries the knowledge-extraction payload a node or edge was built
// from. It survives every conversion untouched so that saving an edited graph
// never loses extraction data.
type Original struct {
	Type       string                 `json:"type,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Clone deep-copies the payload.
func (o *Original) Clone() *Original {
	if o == nil {
		return nil
	}
	out := &Original{Type: o.Type}
	if o.Properties != nil {
		out.Properties = cloneFields(o.Properties)
	}
	return out
}

// Property returns a named string property.
func (o *Original) Property(name string) (string, bool) {
	if o == nil || o.Properties == nil {
		return "", false
	}
	s, ok := o.Properties[name].(string)
	return s, ok
}

// Position is a 2D layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is the wire representation of a graph node, shared by the document
// store and the rendering surface.
type Node struct {
	ID       string     `json:"id"`
	Label    string     `json:"label,omitempty"`
	Title    string     `json:"title,omitempty"`
	Type     string     `json:"type,omitempty"`
	Color    *ColorSpec `json:"color,omitempty"`
	Size     float64    `json:"size,omitempty"`
	X        *float64   `json:"x,omitempty"`
	Y        *float64   `json:"y,omitempty"`
	Original *Original  `json:"originalData,omitempty"`
}

// Edge is the wire representation of a directed relation between two nodes.
type Edge struct {
	ID       string     `json:"id,omitempty"`
	From     string     `json:"from"`
	To       string     `json:"to"`
	Label    string     `json:"label,omitempty"`
	Title    string     `json:"title,omitempty"`
	Type     string     `json:"type,omitempty"`
	Color    *ColorSpec `json:"color,omitempty"`
	Width    float64    `json:"width,omitempty"`
	Arrows   string     `json:"arrows,omitempty"`
	Original *Original  `json:"originalData,omitempty"`
}

// Document is a stored graph: the unit the cache store persists and the
// editor loads.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Metadata is the free-form provenance bag stored next to a document
// (novel/chapter names, extraction model, chunking parameters, timestamps).
type Metadata map[string]interface{}

// PlaceholderMetadata is returned when a graph has no stored metadata, so
// listing and display code never has to branch on absence.
func PlaceholderMetadata() Metadata {
	return Metadata{
		"novel_name":   "unknown",
		"chapter_name": "unknown",
		"model_name":   "unknown",
		"schema_name":  "unknown",
	}
}

// String returns a named string entry, or the fallback.
func (m Metadata) String(key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Normalize drops structurally unusable elements: nodes without an id, and
// edges whose endpoints are not both present. Each drop is logged at Warn with
// enough context to find the bad element in the source file. Duplicate-id
// repair is a rendering concern and lives in the converter, not here.
func (d *Document) Normalize(logger *zap.Logger) {
	kept := d.Nodes[:0]
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			logger.Warn("dropping node without id", zap.String("label", n.Label))
			continue
		}
		ids[n.ID] = struct{}{}
		kept = append(kept, n)
	}
	d.Nodes = kept

	keptEdges := d.Edges[:0]
	for _, e := range d.Edges {
		if _, ok := ids[e.From]; !ok {
			logger.Warn("dropping edge with missing source node",
				zap.String("edge_id", e.ID), zap.String("from", e.From))
			continue
		}
		if _, ok := ids[e.To]; !ok {
			logger.Warn("dropping edge with missing target node",
				zap.String("edge_id", e.ID), zap.String("to", e.To))
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	d.Edges = keptEdges
}

// NodeIDs returns the set of node ids in the document.
func (d *Document) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
