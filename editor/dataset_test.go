package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

func TestDataSetAddGetRemove(t *testing.T) {
	s := NewNodeSet()
	s.Add(graph.Node{ID: "a", Label: "A"})
	s.Add(graph.Node{ID: "b", Label: "B"})

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Label)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, s.IDs())
}

func TestDataSetAddReplacesExisting(t *testing.T) {
	s := NewNodeSet()
	s.Add(graph.Node{ID: "a", Label: "old"})
	s.Add(graph.Node{ID: "a", Label: "new"})

	assert.Equal(t, 1, s.Len())
	got, _ := s.Get("a")
	assert.Equal(t, "new", got.Label)
}

func TestDataSetUpdateRequiresExisting(t *testing.T) {
	s := NewEdgeSet()
	assert.False(t, s.Update(graph.Edge{ID: "e"}))

	s.Add(graph.Edge{ID: "e", From: "a", To: "b"})
	assert.True(t, s.Update(graph.Edge{ID: "e", From: "b", To: "a"}))
	got, _ := s.Get("e")
	assert.Equal(t, "b", got.From)
}

func TestDataSetAllPreservesInsertionOrder(t *testing.T) {
	s := NewNodeSet()
	for _, id := range []string{"c", "a", "b"} {
		s.Add(graph.Node{ID: id})
	}
	var ids []string
	for _, n := range s.All() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestDataSetReplaceAndClear(t *testing.T) {
	s := NewNodeSet()
	s.Add(graph.Node{ID: "old"})
	s.Replace([]graph.Node{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, []string{"x", "y"}, s.IDs())

	s.Clear()
	assert.Zero(t, s.Len())
	_, ok := s.Get("x")
	assert.False(t, ok)
}
