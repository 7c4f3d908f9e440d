package editor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
)

// Mode is the editor's transient interaction mode. Exactly one is active.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAddingNode
	ModeConnecting
	ModeAwaitingLabelEdit
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAddingNode:
		return "adding-node"
	case ModeConnecting:
		return "connecting"
	case ModeAwaitingLabelEdit:
		return "awaiting-label-edit"
	}
	return "unknown"
}

// TargetKind says whether an edit targets a node or an edge.
type TargetKind int

const (
	KindNode TargetKind = iota
	KindEdge
)

// Action identifies a menu command. Dispatch is table-driven; the table is
// checked for completeness when the machine is built.
type Action string

const (
	ActionDeleteNode       Action = "delete-node"
	ActionDeleteEdge       Action = "delete-edge"
	ActionReverseEdge      Action = "reverse-edge"
	ActionConnectExisting  Action = "connect-existing"
	ActionAddNode          Action = "add-node"
	ActionAddConnectedNode Action = "add-connected-node"
	ActionCreateNode       Action = "confirm-create-node"
	ActionEditLabel        Action = "confirm-edit-label"
)

// Actions lists every menu command the machine must handle.
func Actions() []Action {
	return []Action{
		ActionDeleteNode,
		ActionDeleteEdge,
		ActionReverseEdge,
		ActionConnectExisting,
		ActionAddNode,
		ActionAddConnectedNode,
		ActionCreateNode,
		ActionEditLabel,
	}
}

// Hit is the renderer's answer to "what is under the pointer". A node hit
// takes priority over an edge hit wherever both are set.
type Hit struct {
	NodeID string
	EdgeID string
	At     Point
}

// Invocation is a menu command with its target and any text the menu's input
// field carried.
type Invocation struct {
	Action Action
	Target string
	At     Point
	Text   string
}

// LabelEditor is the surface that collects a new label from the user. The
// surface answers later through an ActionEditLabel invocation.
type LabelEditor interface {
	Open(kind TargetKind, targetID, current string)
}

// Label fallbacks applied when an edit or create confirms with an empty
// field. Edges may be blank; nodes may not.
const defaultNodeLabel = "unnamed"

// holdMenuDelay debounces hold-to-menu so short taps never flash a menu.
const holdMenuDelay = 100 * time.Millisecond

// newNodeOffset places an auto-connected node near its source.
const newNodeOffset = 80.0

// Machine routes renderer pointer events to mode-specific edits of the node
// and edge collections. It owns the interaction mode, the connect-mode
// source, and the hold-to-menu timer. A failing or panicking action handler
// is logged and never stops subsequent events.
type Machine struct {
	nodes     *DataSet[graph.Node]
	edges     *DataSet[graph.Edge]
	highlight *HighlightEngine
	menus     *MenuController
	labels    LabelEditor
	renderer  Renderer
	colors    *render.ColorAssigner
	converter *render.Converter
	logger    *zap.Logger

	mu            sync.Mutex
	mode          Mode
	connectSource string
	pendingSource string
	editTarget    string
	editKind      TargetKind
	holdTimer     *time.Timer

	dispatch map[Action]func(Invocation) error
}

// NewMachine wires the state machine. It fails when the dispatch table does
// not cover every declared action.
func NewMachine(
	nodes *DataSet[graph.Node],
	edges *DataSet[graph.Edge],
	highlight *HighlightEngine,
	menus *MenuController,
	labels LabelEditor,
	renderer Renderer,
	colors *render.ColorAssigner,
	converter *render.Converter,
	logger *zap.Logger,
) (*Machine, error) {
	m := &Machine{
		nodes:     nodes,
		edges:     edges,
		highlight: highlight,
		menus:     menus,
		labels:    labels,
		renderer:  renderer,
		colors:    colors,
		converter: converter,
		logger:    logger,
	}
	m.dispatch = map[Action]func(Invocation) error{
		ActionDeleteNode:       m.deleteNode,
		ActionDeleteEdge:       m.deleteEdge,
		ActionReverseEdge:      m.reverseEdge,
		ActionConnectExisting:  m.enterConnectMode,
		ActionAddNode:          m.enterAddMode,
		ActionAddConnectedNode: m.enterAddConnectedMode,
		ActionCreateNode:       m.createNode,
		ActionEditLabel:        m.editLabel,
	}

	var missing []string
	for _, a := range Actions() {
		if m.dispatch[a] == nil {
			missing = append(missing, string(a))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("menu dispatch table missing actions: %s", strings.Join(missing, ", "))
	}
	return m, nil
}

// Mode returns the active interaction mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// ConnectSource returns the source node of an active connect mode, or "".
func (m *Machine) ConnectSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectSource
}

// Click handles a single click. In connect mode a node hit completes (or,
// on the source node itself, abandons) the pending connection and always
// returns to idle. Otherwise a node hit toggles the highlight and a blank
// hit clears focus and menus.
func (m *Machine) Click(hit Hit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == ModeConnecting && hit.NodeID != "" {
		source := m.connectSource
		m.mode = ModeIdle
		m.connectSource = ""
		m.menus.Dismiss()
		if hit.NodeID != source {
			m.addEdge(source, hit.NodeID)
		}
		return
	}

	if hit.NodeID != "" {
		m.highlight.Toggle(hit.NodeID)
		return
	}
	if hit.EdgeID != "" {
		return
	}
	if m.highlight.FocusedNode() != "" {
		m.highlight.Reset()
	}
	m.menus.Dismiss()
}

// DoubleClick opens the label editor for the hit node or edge.
func (m *Machine) DoubleClick(hit Hit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case hit.NodeID != "":
		n, ok := m.nodes.Get(hit.NodeID)
		if !ok {
			return
		}
		m.mode = ModeAwaitingLabelEdit
		m.editTarget = n.ID
		m.editKind = KindNode
		m.labels.Open(KindNode, n.ID, n.Label)
	case hit.EdgeID != "":
		e, ok := m.edges.Get(hit.EdgeID)
		if !ok {
			return
		}
		m.mode = ModeAwaitingLabelEdit
		m.editTarget = e.ID
		m.editKind = KindEdge
		m.labels.Open(KindEdge, e.ID, e.Label)
	}
}

// ContextRequested shows the contextual menu for the pointer target: node
// over edge over blank canvas.
func (m *Machine) ContextRequested(hit Hit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showMenu(hit)
}

func (m *Machine) showMenu(hit Hit) {
	switch {
	case hit.NodeID != "":
		m.menus.Show(MenuNode, hit.NodeID, hit.At)
	case hit.EdgeID != "":
		m.menus.Show(MenuEdge, hit.EdgeID, hit.At)
	default:
		m.menus.Show(MenuCanvas, "", hit.At)
	}
}

// HoldStarted arms the hold-to-menu timer. A previous pending hold is
// replaced.
func (m *Machine) HoldStarted(hit Hit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holdTimer != nil {
		m.holdTimer.Stop()
	}
	m.holdTimer = time.AfterFunc(holdMenuDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.showMenu(hit)
	})
}

// Released cancels a pending hold menu. A release after the timer fired is a
// no-op.
func (m *Machine) Released() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holdTimer != nil {
		m.holdTimer.Stop()
		m.holdTimer = nil
	}
}

// Escape is the hard reset: dismiss menus, cancel pending holds, drop any
// mode back to idle.
func (m *Machine) Escape() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holdTimer != nil {
		m.holdTimer.Stop()
		m.holdTimer = nil
	}
	m.menus.Dismiss()
	m.mode = ModeIdle
	m.connectSource = ""
	m.pendingSource = ""
	m.editTarget = ""
}

// Invoke runs a menu command. Every command performs its mutation and then
// dismisses all menus. Errors and panics are contained here so the event
// stream keeps flowing.
func (m *Machine) Invoke(inv Invocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("menu action panicked",
				zap.String("action", string(inv.Action)), zap.Any("panic", r))
		}
	}()
	defer m.menus.Dismiss()

	handler, ok := m.dispatch[inv.Action]
	if !ok {
		m.logger.Error("unknown menu action", zap.String("action", string(inv.Action)))
		return
	}
	if err := handler(inv); err != nil {
		m.logger.Error("menu action failed",
			zap.String("action", string(inv.Action)),
			zap.String("target", inv.Target),
			zap.Error(err))
	}
}

func (m *Machine) deleteNode(inv Invocation) error {
	if _, ok := m.nodes.Get(inv.Target); !ok {
		return fmt.Errorf("node %q not found", inv.Target)
	}
	if m.highlight.FocusedNode() == inv.Target {
		m.highlight.Reset()
	}
	var removedEdges []string
	for _, e := range m.edges.All() {
		if e.From == inv.Target || e.To == inv.Target {
			m.edges.Remove(e.ID)
			removedEdges = append(removedEdges, e.ID)
		}
	}
	m.nodes.Remove(inv.Target)
	m.highlight.Forget([]string{inv.Target}, removedEdges)
	return nil
}

func (m *Machine) deleteEdge(inv Invocation) error {
	if !m.edges.Remove(inv.Target) {
		return fmt.Errorf("edge %q not found", inv.Target)
	}
	m.highlight.Forget(nil, []string{inv.Target})
	return nil
}

// reverseEdge swaps direction in place; id and label survive.
func (m *Machine) reverseEdge(inv Invocation) error {
	e, ok := m.edges.Get(inv.Target)
	if !ok {
		return fmt.Errorf("edge %q not found", inv.Target)
	}
	e.From, e.To = e.To, e.From
	m.edges.Update(e)
	return nil
}

func (m *Machine) enterConnectMode(inv Invocation) error {
	if _, ok := m.nodes.Get(inv.Target); !ok {
		return fmt.Errorf("node %q not found", inv.Target)
	}
	m.mode = ModeConnecting
	m.connectSource = inv.Target
	return nil
}

func (m *Machine) enterAddMode(Invocation) error {
	m.mode = ModeAddingNode
	m.pendingSource = ""
	return nil
}

func (m *Machine) enterAddConnectedMode(inv Invocation) error {
	if _, ok := m.nodes.Get(inv.Target); !ok {
		return fmt.Errorf("node %q not found", inv.Target)
	}
	m.mode = ModeAddingNode
	m.pendingSource = inv.Target
	return nil
}

// createNode materializes a pending add. With a pending source the node is
// placed next to it and auto-connected; otherwise it lands at the viewport
// center.
func (m *Machine) createNode(inv Invocation) error {
	label := strings.TrimSpace(inv.Text)
	if label == "" {
		label = defaultNodeLabel
	}

	node := graph.Node{
		ID:    "node_" + uuid.NewString()[:8],
		Label: label,
		Size:  render.DefaultNodeSize,
		Color: graph.NewColor(m.colors.ColorForUnknown(label, render.UnknownNodeCategory)),
	}

	if m.pendingSource != "" {
		if pos, ok := m.renderer.Positions([]string{m.pendingSource})[m.pendingSource]; ok {
			x := pos.X + newNodeOffset
			y := pos.Y + newNodeOffset
			node.X = &x
			node.Y = &y
		}
	} else {
		vw, vh := m.renderer.ViewportSize()
		x := float64(vw) / 2
		y := float64(vh) / 2
		node.X = &x
		node.Y = &y
	}

	m.nodes.Add(node)
	if m.pendingSource != "" {
		m.addEdge(m.pendingSource, node.ID)
	}
	m.mode = ModeIdle
	m.pendingSource = ""
	return nil
}

func (m *Machine) editLabel(inv Invocation) error {
	target := inv.Target
	if target == "" {
		target = m.editTarget
	}
	defer func() {
		m.mode = ModeIdle
		m.editTarget = ""
	}()

	switch m.editKind {
	case KindNode:
		n, ok := m.nodes.Get(target)
		if !ok {
			return fmt.Errorf("node %q not found", target)
		}
		label := strings.TrimSpace(inv.Text)
		if label == "" {
			label = defaultNodeLabel
		}
		n.Label = label
		m.nodes.Update(n)
	case KindEdge:
		e, ok := m.edges.Get(target)
		if !ok {
			return fmt.Errorf("edge %q not found", target)
		}
		e.Label = strings.TrimSpace(inv.Text)
		m.edges.Update(e)
	}
	return nil
}

func (m *Machine) addEdge(from, to string) {
	edge := graph.Edge{
		ID:     m.converter.SynthesizeEdgeID(from, to),
		From:   from,
		To:     to,
		Width:  render.DefaultEdgeWidth,
		Arrows: render.DefaultArrows,
		Color:  graph.NewColor(m.colors.ColorForUnknown("", render.UnknownEdgeCategory)),
	}
	m.edges.Add(edge)
}
