package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

// FormatText renders a document as plain text: a node list ordered by the
// sequence number recorded during extraction, followed by a relation list.
// Categories named in hidden are excluded, along with every relation touching
// a hidden node. Matching is case-insensitive.
func FormatText(doc *graph.Document, hidden []string) string {
	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		if h = normalizeCategory(h); h != "" {
			hiddenSet[h] = struct{}{}
		}
	}

	type entry struct {
		node graph.Node
		seq  float64
		has  bool
	}

	visible := make(map[string]struct{}, len(doc.Nodes))
	entries := make([]entry, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		category := NodeCategory(&n)
		if _, ok := hiddenSet[normalizeCategory(category)]; ok {
			continue
		}
		visible[n.ID] = struct{}{}
		e := entry{node: n}
		e.seq, e.has = sequenceNumber(&n)
		entries = append(entries, e)
	}

	// Sequenced nodes first, by sequence; the rest keep document order.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.has != b.has {
			return a.has
		}
		return a.has && a.seq < b.seq
	})

	var b strings.Builder
	b.WriteString("Nodes:\n")
	for _, e := range entries {
		name := e.node.Label
		if name == "" {
			name = e.node.ID
		}
		if e.has {
			fmt.Fprintf(&b, "[%d] %s (%s)\n", int(e.seq), name, NodeCategory(&e.node))
		} else {
			fmt.Fprintf(&b, "%s (%s)\n", name, NodeCategory(&e.node))
		}
	}

	names := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.Label != "" {
			names[n.ID] = n.Label
		} else {
			names[n.ID] = n.ID
		}
	}

	b.WriteString("\nRelations:\n")
	for _, e := range doc.Edges {
		if _, ok := visible[e.From]; !ok {
			continue
		}
		if _, ok := visible[e.To]; !ok {
			continue
		}
		fmt.Fprintf(&b, "%s --(%s)--> %s\n", names[e.From], EdgeCategory(&e), names[e.To])
	}
	return b.String()
}

func sequenceNumber(n *graph.Node) (float64, bool) {
	if n.Original == nil || n.Original.Properties == nil {
		return 0, false
	}
	switch v := n.Original.Properties["sequence_number"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
