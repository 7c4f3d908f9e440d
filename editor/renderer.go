package editor

import "github.com/fredgeoO/novel-learning-tools/domain/graph"

// Point is a viewport coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

// Renderer is the slice of the force-directed rendering engine the editor
// depends on. The engine mirrors the DataSet collections on its own; the
// editor only needs layout queries and the physics toggle.
type Renderer interface {
	// Positions returns the current layout coordinates of the given nodes.
	Positions(ids []string) map[string]graph.Position
	// SetPhysics enables or disables the layout simulation.
	SetPhysics(enabled bool)
	// ViewportSize returns the drawing surface dimensions in pixels.
	ViewportSize() (width, height int)
}

// Alerter shows a user-visible message. Blocking or not is the surface's
// choice; the editor only guarantees the message is delivered.
type Alerter interface {
	Alert(message string)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
// Destructive operations run only on true.
type Confirmer interface {
	Confirm(question string) bool
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(string)

func (f AlertFunc) Alert(message string) { f(message) }

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(string) bool

func (f ConfirmFunc) Confirm(question string) bool { return f(question) }
