package render

import (
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorAssigner produces deterministic hex colors for graph categories.
// Known categories come from the preset palettes; everything else gets a color
// derived from a polynomial hash of the category text, remapped in HSV space
// so results land in a readable mid-saturation, mid-brightness band. Results
// are memoized, so repeated queries are map lookups.
//
// Safe for concurrent use.
type ColorAssigner struct {
	mu    sync.Mutex
	memo  map[string]string
	nodes map[string]string
	edges map[string]string
}

// NewColorAssigner returns an assigner seeded with the preset palettes.
func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{
		memo:  make(map[string]string),
		nodes: nodePalette,
		edges: edgePalette,
	}
}

// NodeColor returns the color for a node category.
func (a *ColorAssigner) NodeColor(category string) string {
	if hex, ok := a.nodes[normalizeCategory(category)]; ok {
		return hex
	}
	return a.derived(category)
}

// EdgeColor returns the color for an edge (relation) category.
func (a *ColorAssigner) EdgeColor(category string) string {
	if hex, ok := a.edges[normalizeCategory(category)]; ok {
		return hex
	}
	return a.derived(category)
}

// ColorForUnknown resolves the color of an element in the reserved unknown
// bucket: derived from the display label, falling back to the category text
// when the label is empty. Distinct labels therefore keep distinct colors
// even when their categories collapse to the same unknown bucket.
func (a *ColorAssigner) ColorForUnknown(label, category string) string {
	if label != "" {
		return a.derived(label)
	}
	return a.derived(category)
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func (a *ColorAssigner) derived(text string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if hex, ok := a.memo[text]; ok {
		return hex
	}
	hex := deriveColor(text)
	a.memo[text] = hex
	return hex
}

// deriveColor hashes the text with the classic 31-multiplier polynomial,
// masked to 31 bits, splits the hash into RGB bytes, then remaps the result
// in HSV space: saturation into [0.6, 1.0] and value into [0.4, 0.8]. The
// remap keeps arbitrary hashes away from washed-out or near-black colors.
func deriveColor(text string) string {
	var h uint32
	for _, r := range text {
		h = (h*31 + uint32(r)) & 0x7FFFFFFF
	}

	c := colorful.Color{
		R: float64((h>>16)&0xFF) / 255.0,
		G: float64((h>>8)&0xFF) / 255.0,
		B: float64(h&0xFF) / 255.0,
	}
	hue, sat, val := c.Hsv()
	sat = 0.6 + sat*0.4
	val = 0.4 + val*0.4
	return colorful.Hsv(hue, sat, val).Hex()
}
