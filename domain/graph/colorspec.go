package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ColorSpec is the color attached to a node or edge. The wire format allows
// two shapes: a plain scalar ("#ff6b6b", "rgba(...)") or a structured object
// with per-part colors ({"color": "#...", "border": "#...", "highlight": ...}).
// Both shapes must survive a marshal/unmarshal round trip exactly, so the
// structured form is kept as the raw decoded object rather than a fixed
// struct.
type ColorSpec struct {
	scalar string
	object map[string]interface{}
}

// NewColor returns a scalar ColorSpec.
func NewColor(value string) *ColorSpec {
	return &ColorSpec{scalar: value}
}

// NewColorObject returns a structured ColorSpec.
func NewColorObject(fields map[string]interface{}) *ColorSpec {
	return &ColorSpec{object: fields}
}

// IsScalar reports whether the spec is a plain color string.
func (c *ColorSpec) IsScalar() bool {
	return c != nil && c.object == nil
}

// Scalar returns the scalar value, or "" for structured specs.
func (c *ColorSpec) Scalar() string {
	if c == nil {
		return ""
	}
	return c.scalar
}

// Object returns the structured fields, or nil for scalar specs.
func (c *ColorSpec) Object() map[string]interface{} {
	if c == nil {
		return nil
	}
	return c.object
}

// Field returns a named string field of a structured spec.
func (c *ColorSpec) Field(name string) (string, bool) {
	if c == nil || c.object == nil {
		return "", false
	}
	s, ok := c.object[name].(string)
	return s, ok
}

// HasExplicitColor reports whether the spec carries a recognizable,
// deliberately assigned color: a hex-prefixed scalar, or a structured spec
// with at least one hex-prefixed value anywhere inside it. Specs that fail
// this check are treated as unset and get a derived color assigned.
func (c *ColorSpec) HasExplicitColor() bool {
	if c == nil {
		return false
	}
	if c.object == nil {
		return strings.HasPrefix(c.scalar, "#")
	}
	return containsHex(c.object)
}

func containsHex(fields map[string]interface{}) bool {
	for _, v := range fields {
		switch t := v.(type) {
		case string:
			if strings.HasPrefix(t, "#") {
				return true
			}
		case map[string]interface{}:
			if containsHex(t) {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy. The highlight engine snapshots colors into its
// shadow map before dimming; the copy guarantees the snapshot cannot be
// mutated through the live element.
func (c *ColorSpec) Clone() *ColorSpec {
	if c == nil {
		return nil
	}
	if c.object == nil {
		return &ColorSpec{scalar: c.scalar}
	}
	return &ColorSpec{object: cloneFields(c.object)}
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if m, ok := v.(map[string]interface{}); ok {
			out[k] = cloneFields(m)
		} else {
			out[k] = v
		}
	}
	return out
}

// Equal compares two specs structurally.
func (c *ColorSpec) Equal(other *ColorSpec) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, err := json.Marshal(c)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// neutralDim is the fallback for color values that cannot be parsed; dimming
// must never fail, so unrecognized shapes degrade to a translucent gray.
const neutralDimRed, neutralDimGreen, neutralDimBlue = 150, 150, 150

// WithAlpha returns a spec of the same shape with every recognizable color
// value rewritten to an rgba() string at the given opacity. Non-color fields
// of a structured spec pass through unchanged. A nil spec dims to the neutral
// gray so elements without an assigned color still fade.
func (c *ColorSpec) WithAlpha(alpha float64) *ColorSpec {
	if c == nil {
		return NewColor(formatRGBA(neutralDimRed, neutralDimGreen, neutralDimBlue, alpha))
	}
	if c.object == nil {
		return NewColor(ApplyAlpha(c.scalar, alpha))
	}
	return NewColorObject(applyAlphaFields(c.object, alpha))
}

func applyAlphaFields(fields map[string]interface{}, alpha float64) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case string:
			if r, g, b, ok := parseColorValue(t); ok {
				out[k] = formatRGBA(r, g, b, alpha)
			} else {
				out[k] = t
			}
		case map[string]interface{}:
			out[k] = applyAlphaFields(t, alpha)
		default:
			out[k] = v
		}
	}
	return out
}

// ApplyAlpha rewrites a single color string to rgba() at the given opacity.
// Hex short form (#rgb), hex long form (#rrggbb) and existing rgb()/rgba()
// strings are recognized; anything else becomes the neutral gray.
func ApplyAlpha(value string, alpha float64) string {
	if r, g, b, ok := parseColorValue(value); ok {
		return formatRGBA(r, g, b, alpha)
	}
	return formatRGBA(neutralDimRed, neutralDimGreen, neutralDimBlue, alpha)
}

func formatRGBA(r, g, b int, alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %v)", r, g, b, alpha)
}

func parseColorValue(value string) (r, g, b int, ok bool) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		return parseHex(value)
	}
	if strings.HasPrefix(value, "rgb(") || strings.HasPrefix(value, "rgba(") {
		return parseRGBFunc(value)
	}
	return 0, 0, 0, false
}

func parseHex(value string) (r, g, b int, ok bool) {
	hex := value[1:]
	switch len(hex) {
	case 3:
		rv, err1 := strconv.ParseInt(strings.Repeat(hex[0:1], 2), 16, 32)
		gv, err2 := strconv.ParseInt(strings.Repeat(hex[1:2], 2), 16, 32)
		bv, err3 := strconv.ParseInt(strings.Repeat(hex[2:3], 2), 16, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, 0, 0, false
		}
		return int(rv), int(gv), int(bv), true
	case 6:
		rv, err1 := strconv.ParseInt(hex[0:2], 16, 32)
		gv, err2 := strconv.ParseInt(hex[2:4], 16, 32)
		bv, err3 := strconv.ParseInt(hex[4:6], 16, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, 0, 0, false
		}
		return int(rv), int(gv), int(bv), true
	}
	return 0, 0, 0, false
}

func parseRGBFunc(value string) (r, g, b int, ok bool) {
	open := strings.Index(value, "(")
	end := strings.LastIndex(value, ")")
	if open < 0 || end < open {
		return 0, 0, 0, false
	}
	parts := strings.Split(value[open+1:end], ",")
	if len(parts) < 3 {
		return 0, 0, 0, false
	}
	channels := [3]int{}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return 0, 0, 0, false
		}
		channels[i] = n
	}
	return channels[0], channels[1], channels[2], true
}

// MarshalJSON emits the scalar or object form, matching whatever shape was
// decoded or constructed.
func (c ColorSpec) MarshalJSON() ([]byte, error) {
	if c.object != nil {
		return json.Marshal(c.object)
	}
	return json.Marshal(c.scalar)
}

// UnmarshalJSON accepts either shape.
func (c *ColorSpec) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		fields := map[string]interface{}{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		c.object = fields
		c.scalar = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a string or an object: %w", err)
	}
	c.scalar = s
	c.object = nil
	return nil
}
