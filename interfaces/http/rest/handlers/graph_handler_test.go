package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newTestServer(t *testing.T) (*httptest.Server, *filestore.Store) {
	t.Helper()
	logger := zap.NewNop()
	store, err := filestore.NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	converter := render.NewConverter(render.NewColorAssigner(), logger)
	h := NewGraphHandler(store, converter, logger, 1<<20)

	r := chi.NewRouter()
	r.Get("/api/graph-data", h.GetGraphData)
	r.Get("/api/graphs", h.ListGraphs)
	r.Get("/api/novel-chapter-structure", h.GetNovelChapterStructure)
	r.Get("/api/filtered-graphs", h.GetFilteredGraphs)
	r.Route("/api/graph/{key}", func(r chi.Router) {
		r.Put("/", h.ReplaceGraph)
		r.Delete("/", h.DeleteGraph)
		r.Get("/metadata", h.GetMetadata)
		r.Get("/text", h.GetText)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func seedGraph(t *testing.T, store *filestore.Store, key string) {
	t.Helper()
	doc := &graph.Document{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alice", Original: &graph.Original{Type: "Person"}},
			{ID: "b", Label: "Castle", Original: &graph.Original{Type: "Location"}},
		},
		Edges: []graph.Edge{{ID: "e", From: "a", To: "b", Original: &graph.Original{Type: "located_in"}}},
	}
	require.NoError(t, store.SaveDocument(key, doc, graph.Metadata{
		"novel_name": "dune", "chapter_name": "ch1", "created_at": "2026-01-01",
	}))
}

func TestGetGraphData(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "abc")

	resp, err := http.Get(srv.URL + "/api/graph-data?cache_key=abc&physics=false")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var payload struct {
		Data     graph.Document `json:"data"`
		Physics  bool           `json:"physics"`
		Metadata graph.Metadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Len(t, payload.Data.Nodes, 2)
	assert.False(t, payload.Physics)
	assert.Equal(t, "dune", payload.Metadata.String("novel_name", ""))
}

func TestGetGraphDataRequiresCacheKey(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/graph-data")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "cache_key")
}

func TestGetGraphDataUnknownKeyIs404Envelope(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/graph-data?cache_key=ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestPutThenGetRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"nodes": [{"id": "x", "label": "X", "color": "#123456", "size": 25}],
		"edges": []
	}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/graph/fresh", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeEnvelope(t, resp).Success)

	resp, err = http.Get(srv.URL + "/api/graph-data?cache_key=fresh")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var payload struct {
		Data graph.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Len(t, payload.Data.Nodes, 1)
	assert.Equal(t, "#123456", payload.Data.Nodes[0].Color.Scalar())
}

func TestPutRejectsMissingCollections(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/graph/bad", bytes.NewBufferString(`{"nodes": []}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, decodeEnvelope(t, resp).Success)
}

func TestDeleteGraph(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "abc")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/graph/abc", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMetadataFallsBackToPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/graph/ghost/metadata")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var meta graph.Metadata
	require.NoError(t, json.Unmarshal(env.Data, &meta))
	assert.Equal(t, "unknown", meta.String("novel_name", ""))
}

func TestGetTextWithHiddenTypes(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "abc")

	resp, err := http.Get(srv.URL + "/api/graph/abc/text?hidden_types=Location")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var payload struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Contains(t, payload.Content, "Alice (Person)")
	assert.NotContains(t, payload.Content, "Castle")
}

func TestListGraphsKeyedByCacheKey(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "g1")
	seedGraph(t, store, "g2")

	resp, err := http.Get(srv.URL + "/api/graphs")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var listing map[string]filestore.ListEntry
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.Len(t, listing, 2)
	assert.Equal(t, "dune", listing["g1"].Filters["novel_name"])
}

func TestNovelChapterStructure(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "g1")

	resp, err := http.Get(srv.URL + "/api/novel-chapter-structure")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var structure map[string][]string
	require.NoError(t, json.Unmarshal(env.Data, &structure))
	assert.Equal(t, []string{"ch1"}, structure["dune"])
}

func TestFilteredGraphs(t *testing.T) {
	srv, store := newTestServer(t)
	seedGraph(t, store, "g1")
	doc := &graph.Document{Nodes: []graph.Node{{ID: "n"}}, Edges: []graph.Edge{}}
	require.NoError(t, store.SaveDocument("other", doc, graph.Metadata{
		"novel_name": "ring", "chapter_name": "ch9",
	}))

	resp, err := http.Get(fmt.Sprintf("%s/api/filtered-graphs?novel=dune&chapter=ch1", srv.URL))
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var filtered []filestore.ListEntry
	require.NoError(t, json.Unmarshal(env.Data, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "g1", filtered[0].CacheKey)
}
