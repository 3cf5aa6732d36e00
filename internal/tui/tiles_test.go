package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
)

func testTiles() dashboard.Tiles {
	return dashboard.Tiles{Buckets: "3", Usage: "5 MiB", Objects: "42"}
}

func TestRenderTiles_SingleRowWhenWide(t *testing.T) {
	opts := Options{TileWidth: 20, Spacing: 2}
	out := RenderTiles(testTiles(), 0, opts, NewStyles(BuiltinCatalog().Resolve("")))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4) // top border, label, value, bottom border
	assert.Contains(t, lines[1], labelBuckets)
	assert.Contains(t, lines[1], labelUsage)
	assert.Contains(t, lines[1], labelObjects)
	assert.Equal(t, 3*(20+tileBorderH)+2*2, lipgloss.Width(lines[0]))
}

func TestRenderTiles_WrapsWhenNarrow(t *testing.T) {
	opts := Options{TileWidth: 20, Spacing: 0}
	out := RenderTiles(testTiles(), 50, opts, NewStyles(BuiltinCatalog().Resolve("")))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 8) // two rows of four lines, no gap
	assert.Contains(t, lines[1], labelBuckets)
	assert.Contains(t, lines[1], labelUsage)
	assert.Contains(t, lines[5], labelObjects)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 50)
	}
}

func TestRenderTiles_ShrinksToTerminal(t *testing.T) {
	opts := Options{TileWidth: 40, Spacing: 2}
	out := RenderTiles(testTiles(), 16, opts, NewStyles(BuiltinCatalog().Resolve("")))

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 16)
	}
	assert.Contains(t, out, "Total Objec…")
}

func TestRenderStatic(t *testing.T) {
	opts := Options{TileWidth: 24, Spacing: 2}

	loading := RenderStatic(dashboard.ViewModel{IsLoading: true}, 80, opts)
	assert.Contains(t, loading, loadingText)

	failed := RenderStatic(dashboard.ViewModel{ErrorMessage: "Access Denied."}, 80, opts)
	assert.Contains(t, failed, "Access Denied.")
	assert.NotContains(t, failed, labelBuckets)

	tiles := testTiles()
	loaded := RenderStatic(dashboard.ViewModel{Tiles: &tiles}, 80, opts)
	assert.Contains(t, loaded, "5 MiB")

	assert.Empty(t, RenderStatic(dashboard.ViewModel{}, 80, opts))
}
