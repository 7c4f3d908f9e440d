package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

func seqNode(id, label, category string, seq float64) graph.Node {
	return graph.Node{
		ID:    id,
		Label: label,
		Original: &graph.Original{
			Type:       category,
			Properties: map[string]interface{}{"sequence_number": seq},
		},
	}
}

func TestFormatTextOrdersBySequence(t *testing.T) {
	doc := &graph.Document{
		Nodes: []graph.Node{
			seqNode("b", "Bob", "Person", 2),
			seqNode("a", "Alice", "Person", 1),
			{ID: "c", Label: "Castle", Original: &graph.Original{Type: "Location"}},
		},
		Edges: []graph.Edge{
			{From: "a", To: "b", Original: &graph.Original{Type: "knows"}},
		},
	}

	got := FormatText(doc, nil)
	want := "Nodes:\n" +
		"[1] Alice (Person)\n" +
		"[2] Bob (Person)\n" +
		"Castle (Location)\n" +
		"\nRelations:\n" +
		"Alice --(knows)--> Bob\n"
	assert.Equal(t, want, got)
}

func TestFormatTextHidesCategoriesAndTheirRelations(t *testing.T) {
	doc := &graph.Document{
		Nodes: []graph.Node{
			seqNode("a", "Alice", "Person", 1),
			seqNode("c", "Castle", "Location", 2),
		},
		Edges: []graph.Edge{
			{From: "a", To: "c", Original: &graph.Original{Type: "located_in"}},
		},
	}

	got := FormatText(doc, []string{"Location"})
	assert.Contains(t, got, "Alice (Person)")
	assert.NotContains(t, got, "Castle")
	assert.NotContains(t, got, "located_in")
}

func TestFormatTextFallsBackToIDs(t *testing.T) {
	doc := &graph.Document{
		Nodes: []graph.Node{{ID: "n1"}, {ID: "n2"}},
		Edges: []graph.Edge{{From: "n1", To: "n2"}},
	}

	got := FormatText(doc, nil)
	assert.Contains(t, got, "n1 (unknown)")
	assert.Contains(t, got, "n1 --(unknown relation)--> n2")
}
