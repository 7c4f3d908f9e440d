package render

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func TestPresetCategoriesUsePaletteColors(t *testing.T) {
	a := NewColorAssigner()
	assert.Equal(t, "#ff6b6b", a.NodeColor("person"))
	assert.Equal(t, "#ff6b6b", a.NodeColor("  Person "))
	assert.Equal(t, "#4ecdc4", a.NodeColor("location"))
	assert.Equal(t, "#848484", a.EdgeColor("knows"))
}

func TestDerivedColorsAreDeterministic(t *testing.T) {
	a := NewColorAssigner()
	first := a.NodeColor("dragon")
	second := a.NodeColor("dragon")
	assert.Equal(t, first, second)

	// A fresh assigner derives the same color for the same text.
	b := NewColorAssigner()
	assert.Equal(t, first, b.NodeColor("dragon"))
}

func TestDerivedColorsAreValidHex(t *testing.T) {
	a := NewColorAssigner()
	for _, text := range []string{"dragon", "微风", "a", "", "some long category name"} {
		hex := a.NodeColor(text)
		assert.Regexp(t, hexColor, hex, "category %q", text)
	}
}

func TestDistinctTextsGetDistinctColors(t *testing.T) {
	a := NewColorAssigner()
	assert.NotEqual(t, a.NodeColor("dragon"), a.NodeColor("wyvern"))
}

func TestColorForUnknownPrefersLabel(t *testing.T) {
	a := NewColorAssigner()
	byLabel := a.ColorForUnknown("Gandalf", UnknownNodeCategory)
	assert.Equal(t, a.ColorForUnknown("Gandalf", "anything"), byLabel)
	assert.NotEqual(t, byLabel, a.ColorForUnknown("Saruman", UnknownNodeCategory))

	// Empty label falls back to the category text.
	require.Equal(t,
		a.ColorForUnknown("", UnknownEdgeCategory),
		a.ColorForUnknown("", UnknownEdgeCategory))
}

func TestAssignerIsConcurrencySafe(t *testing.T) {
	a := NewColorAssigner()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, text := range []string{"alpha", "beta", "gamma", "delta"} {
				_ = a.NodeColor(text)
				_ = a.EdgeColor(text)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, a.NodeColor("alpha"), a.EdgeColor("alpha"))
}
