package editor

import (
	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

// Dim opacities. Edges fade harder than nodes so the focused neighborhood's
// own edges stay readable against the background.
const (
	NodeDimAlpha = 0.2
	EdgeDimAlpha = 0.1
)

// HighlightEngine dims everything outside a focus node's one-hop
// neighborhood. Pre-dim colors are snapshotted into a shadow map so a reset
// restores every element exactly; the shadow map holds an element if and
// only if that element is currently dimmed.
type HighlightEngine struct {
	nodes *DataSet[graph.Node]
	edges *DataSet[graph.Edge]

	focus  string
	shadow map[string]*graph.ColorSpec
}

// NewHighlightEngine returns an engine over the given collections.
func NewHighlightEngine(nodes *DataSet[graph.Node], edges *DataSet[graph.Edge]) *HighlightEngine {
	return &HighlightEngine{
		nodes:  nodes,
		edges:  edges,
		shadow: make(map[string]*graph.ColorSpec),
	}
}

// FocusedNode returns the current focus node id, or "".
func (h *HighlightEngine) FocusedNode() string {
	return h.focus
}

// Dimmed reports how many elements are currently dimmed.
func (h *HighlightEngine) Dimmed() int {
	return len(h.shadow)
}

// Toggle focuses the node, or resets when it is already the focus.
func (h *HighlightEngine) Toggle(nodeID string) {
	if h.focus == nodeID {
		h.Reset()
		return
	}
	h.Focus(nodeID)
}

// Focus dims every node outside nodeID's one-hop neighborhood and every edge
// not directly incident to nodeID. Elements already dimmed from a previous
// focus that are relevant now get their exact original color back; relevant
// elements never dimmed stay untouched.
func (h *HighlightEngine) Focus(nodeID string) {
	relevant := map[string]struct{}{nodeID: {}}
	incident := map[string]struct{}{}
	for _, e := range h.edges.All() {
		if e.From == nodeID {
			relevant[e.To] = struct{}{}
			incident[e.ID] = struct{}{}
		}
		if e.To == nodeID {
			relevant[e.From] = struct{}{}
			incident[e.ID] = struct{}{}
		}
	}

	for _, n := range h.nodes.All() {
		key := "node:" + n.ID
		if _, ok := relevant[n.ID]; ok {
			h.restoreNode(n, key)
			continue
		}
		if _, dimmed := h.shadow[key]; !dimmed {
			h.shadow[key] = n.Color.Clone()
			n.Color = n.Color.WithAlpha(NodeDimAlpha)
			h.nodes.Update(n)
		}
	}

	for _, e := range h.edges.All() {
		key := "edge:" + e.ID
		if _, ok := incident[e.ID]; ok {
			h.restoreEdge(e, key)
			continue
		}
		if _, dimmed := h.shadow[key]; !dimmed {
			h.shadow[key] = e.Color.Clone()
			e.Color = e.Color.WithAlpha(EdgeDimAlpha)
			h.edges.Update(e)
		}
	}

	h.focus = nodeID
}

// Reset restores every dimmed element and clears the focus. No-op when
// nothing is focused.
func (h *HighlightEngine) Reset() {
	if h.focus == "" {
		return
	}
	for _, n := range h.nodes.All() {
		h.restoreNode(n, "node:"+n.ID)
	}
	for _, e := range h.edges.All() {
		h.restoreEdge(e, "edge:"+e.ID)
	}
	// Entries for elements deleted while dimmed have nothing left to
	// restore; drop them with the rest.
	h.shadow = make(map[string]*graph.ColorSpec)
	h.focus = ""
}

// Forget drops shadow entries for elements that no longer exist, keeping the
// map aligned with the live collections after deletions.
func (h *HighlightEngine) Forget(nodeIDs, edgeIDs []string) {
	for _, id := range nodeIDs {
		delete(h.shadow, "node:"+id)
	}
	for _, id := range edgeIDs {
		delete(h.shadow, "edge:"+id)
	}
}

func (h *HighlightEngine) restoreNode(n graph.Node, key string) {
	original, dimmed := h.shadow[key]
	if !dimmed {
		return
	}
	n.Color = original
	h.nodes.Update(n)
	delete(h.shadow, key)
}

func (h *HighlightEngine) restoreEdge(e graph.Edge, key string) {
	original, dimmed := h.shadow[key]
	if !dimmed {
		return
	}
	e.Color = original
	h.edges.Update(e)
	delete(h.shadow, key)
}
