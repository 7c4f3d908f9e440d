package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
)

type fakeRenderer struct {
	positions map[string]graph.Position
	physics   []bool
	width     int
	height    int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		positions: map[string]graph.Position{},
		width:     800,
		height:    600,
	}
}

func (r *fakeRenderer) Positions(ids []string) map[string]graph.Position {
	out := map[string]graph.Position{}
	for _, id := range ids {
		if p, ok := r.positions[id]; ok {
			out[id] = p
		}
	}
	return out
}

func (r *fakeRenderer) SetPhysics(enabled bool)     { r.physics = append(r.physics, enabled) }
func (r *fakeRenderer) ViewportSize() (int, int)    { return r.width, r.height }

type fakeSurface struct {
	width   float64
	height  float64
	shown   []Point
	kinds   []MenuKind
	targets []string
	hides   int
}

func (s *fakeSurface) Size(MenuKind) (float64, float64) { return s.width, s.height }

func (s *fakeSurface) Show(kind MenuKind, target string, at Point) {
	s.kinds = append(s.kinds, kind)
	s.targets = append(s.targets, target)
	s.shown = append(s.shown, at)
}

func (s *fakeSurface) Hide() { s.hides++ }

type fakeLabelEditor struct {
	opened  []TargetKind
	targets []string
	current []string
}

func (l *fakeLabelEditor) Open(kind TargetKind, target, current string) {
	l.opened = append(l.opened, kind)
	l.targets = append(l.targets, target)
	l.current = append(l.current, current)
}

type fakeAlerter struct{ messages []string }

func (a *fakeAlerter) Alert(message string) { a.messages = append(a.messages, message) }

type fakeConfirmer struct{ answer bool }

func (c *fakeConfirmer) Confirm(string) bool { return c.answer }

type fakeBackend struct {
	doc     *graph.Document
	physics bool
	meta    graph.Metadata

	fetchErr   error
	replaceErr error
	deleteErr  error

	fetches  int
	replaces []*graph.Document
	deletes  []string
}

func (b *fakeBackend) FetchGraph(_ context.Context, key string) (*graph.Document, bool, graph.Metadata, error) {
	b.fetches++
	if b.fetchErr != nil {
		return nil, false, nil, b.fetchErr
	}
	return b.doc, b.physics, b.meta, nil
}

func (b *fakeBackend) ReplaceGraph(_ context.Context, key string, doc *graph.Document) error {
	if b.replaceErr != nil {
		return b.replaceErr
	}
	b.replaces = append(b.replaces, doc)
	return nil
}

func (b *fakeBackend) DeleteGraph(_ context.Context, key string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deletes = append(b.deletes, key)
	return nil
}

// triangle returns collections holding nodes {1,2,3} and edges {1→2, 2→3},
// each node carrying an explicit scalar color.
func triangle() (*DataSet[graph.Node], *DataSet[graph.Edge]) {
	nodes := NewNodeSet()
	edges := NewEdgeSet()
	nodes.Add(graph.Node{ID: "1", Label: "one", Color: graph.NewColor("#111111")})
	nodes.Add(graph.Node{ID: "2", Label: "two", Color: graph.NewColor("#222222")})
	nodes.Add(graph.Node{ID: "3", Label: "three", Color: graph.NewColor("#333333")})
	edges.Add(graph.Edge{ID: "e12", From: "1", To: "2", Color: graph.NewColor("#aaaaaa")})
	edges.Add(graph.Edge{ID: "e23", From: "2", To: "3", Color: graph.NewColor("#bbbbbb")})
	return nodes, edges
}

func newTestMachine(nodes *DataSet[graph.Node], edges *DataSet[graph.Edge]) (*Machine, *fakeSurface, *fakeLabelEditor, *fakeRenderer, *HighlightEngine) {
	surface := &fakeSurface{width: 150, height: 200}
	labelEd := &fakeLabelEditor{}
	renderer := newFakeRenderer()
	highlight := NewHighlightEngine(nodes, edges)
	menus := NewMenuController(renderer, surface)
	colors := render.NewColorAssigner()
	converter := render.NewConverter(colors, zap.NewNop())

	machine, err := NewMachine(nodes, edges, highlight, menus, labelEd, renderer, colors, converter, zap.NewNop())
	if err != nil {
		panic(err)
	}
	return machine, surface, labelEd, renderer, highlight
}
