package render

// UnknownNodeCategory and UnknownEdgeCategory are the reserved buckets for
// elements whose category cannot be resolved. They never get a preset color;
// their color is derived from the element's own text so distinct unknowns stay
// visually distinct.
const (
	UnknownNodeCategory = "unknown"
	UnknownEdgeCategory = "unknown relation"
)

// nodePalette maps the well-known narrative entity categories to fixed colors.
// Categories outside this map fall through to the hash-derived assignment.
var nodePalette = map[string]string{
	"person":       "#ff6b6b",
	"character":    "#ff6b6b",
	"location":     "#4ecdc4",
	"place":        "#4ecdc4",
	"organization": "#ffd93d",
	"faction":      "#ffd93d",
	"event":        "#a29bfe",
	"item":         "#fab1a0",
	"object":       "#fab1a0",
	"concept":      "#81ecec",
	"time":         "#fdcb6e",
}

// edgePalette maps the well-known relation categories to fixed colors.
var edgePalette = map[string]string{
	"knows":       "#848484",
	"located_in":  "#4ecdc4",
	"member_of":   "#ffd93d",
	"parent_of":   "#e17055",
	"child_of":    "#e17055",
	"owns":        "#fab1a0",
	"causes":      "#a29bfe",
	"happens_at":  "#fdcb6e",
	"related_to":  "#b2bec3",
	"mentions":    "#dfe6e9",
	"interaction": "#74b9ff",
}
