package editor

// MenuKind identifies which contextual menu to present.
type MenuKind int

const (
	MenuNode MenuKind = iota
	MenuEdge
	MenuCanvas
)

func (k MenuKind) String() string {
	switch k {
	case MenuNode:
		return "node"
	case MenuEdge:
		return "edge"
	case MenuCanvas:
		return "canvas"
	}
	return "unknown"
}

// MenuSurface is the widget layer that actually draws menus. Size is asked
// before Show so the controller can clamp the placement.
type MenuSurface interface {
	Size(kind MenuKind) (width, height float64)
	Show(kind MenuKind, targetID string, at Point)
	Hide()
}

// menuEdgeMargin keeps menus off the viewport edges.
const menuEdgeMargin = 10

// MenuController positions and shows contextual menus. Placement starts at
// the pointer and is clamped so the menu stays fully inside the viewport
// with a fixed margin on every edge.
type MenuController struct {
	renderer Renderer
	surface  MenuSurface

	visible bool
	kind    MenuKind
	target  string
}

// NewMenuController returns a controller drawing through the given surface.
func NewMenuController(renderer Renderer, surface MenuSurface) *MenuController {
	return &MenuController{renderer: renderer, surface: surface}
}

// Show presents the menu for the target near the pointer position.
func (m *MenuController) Show(kind MenuKind, targetID string, at Point) {
	w, h := m.surface.Size(kind)
	vw, vh := m.renderer.ViewportSize()
	m.surface.Show(kind, targetID, clampToViewport(at, w, h, float64(vw), float64(vh)))
	m.visible = true
	m.kind = kind
	m.target = targetID
}

// Dismiss hides the visible menu, if any.
func (m *MenuController) Dismiss() {
	if !m.visible {
		return
	}
	m.surface.Hide()
	m.visible = false
	m.target = ""
}

// Visible reports whether a menu is currently shown.
func (m *MenuController) Visible() bool {
	return m.visible
}

// Current returns the visible menu's kind and target.
func (m *MenuController) Current() (MenuKind, string) {
	return m.kind, m.target
}

func clampToViewport(at Point, w, h, vw, vh float64) Point {
	x := at.X
	y := at.Y
	if x+w+menuEdgeMargin > vw {
		x = vw - w - menuEdgeMargin
	}
	if y+h+menuEdgeMargin > vh {
		y = vh - h - menuEdgeMargin
	}
	if x < menuEdgeMargin {
		x = menuEdgeMargin
	}
	if y < menuEdgeMargin {
		y = menuEdgeMargin
	}
	return Point{X: x, Y: y}
}
