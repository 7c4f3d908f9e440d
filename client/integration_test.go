package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/editor"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
	"github.com/fredgeoO/novel-learning-tools/interfaces/http/rest"
)

type nullRenderer struct{}

func (nullRenderer) Positions([]string) map[string]graph.Position { return nil }
func (nullRenderer) SetPhysics(bool)                              {}
func (nullRenderer) ViewportSize() (int, int)                     { return 800, 600 }

// Full loop: file store behind the REST service, this client in front, the
// editor session on top.
func TestSessionAgainstRealService(t *testing.T) {
	logger := zap.NewNop()
	store, err := filestore.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	doc := &graph.Document{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alice", Original: &graph.Original{Type: "Person"}},
			{ID: "b", Label: "Bob", Original: &graph.Original{Type: "Person"}},
		},
		Edges: []graph.Edge{{ID: "e", From: "a", To: "b", Original: &graph.Original{Type: "knows"}}},
	}
	require.NoError(t, store.SaveDocument("ch1", doc, graph.Metadata{"novel_name": "dune"}))

	converter := render.NewConverter(render.NewColorAssigner(), logger)
	srv := httptest.NewServer(rest.NewRouter(store, converter, logger, false, 1<<20).Setup())
	defer srv.Close()

	backend := New(srv.URL, logger)
	session := editor.NewSession(
		render.NewConverter(render.NewColorAssigner(), logger),
		nullRenderer{},
		backend,
		editor.AlertFunc(func(string) {}),
		editor.ConfirmFunc(func(string) bool { return true }),
		logger,
	)
	session.SetKey("ch1")

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	assert.Equal(t, 2, session.Nodes.Len())
	assert.Equal(t, 1, session.Edges.Len())
	assert.Equal(t, "dune", session.Metadata().String("novel_name", ""))

	// Edit locally, save, and verify the stored document changed.
	n, _ := session.Nodes.Get("a")
	n.Label = "Alicia"
	session.Nodes.Update(n)
	require.NoError(t, session.Save(ctx))

	stored, err := store.LoadDocument("ch1")
	require.NoError(t, err)
	var labels []string
	for _, node := range stored.Nodes {
		labels = append(labels, node.Label)
	}
	assert.Contains(t, labels, "Alicia")

	// Delete through the session removes the files on disk.
	require.NoError(t, session.Delete(ctx))
	_, err = store.LoadDocument("ch1")
	assert.Error(t, err)
	assert.Empty(t, session.Key())
}
