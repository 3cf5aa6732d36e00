package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
)

const (
	labelBuckets = "All Buckets"
	labelUsage   = "Usage"
	labelObjects = "Total Objects"
)

type tile struct {
	label string
	value string
}

func tilesOf(t dashboard.Tiles) []tile {
	return []tile{
		{label: labelBuckets, value: t.Buckets},
		{label: labelUsage, value: t.Usage},
		{label: labelObjects, value: t.Objects},
	}
}

// RenderTiles lays the three summary tiles out left to right, wrapping onto
// further rows when width cannot hold them all. A width of 0 means unbounded.
func RenderTiles(t dashboard.Tiles, width int, opts Options, st Styles) string {
	opts = opts.normalized()
	tiles := tilesOf(t)

	tileW := opts.TileWidth
	outerW := tileW + tileBorderH
	cols := len(tiles)
	if width > 0 {
		cols = clamp((width+opts.Spacing)/(outerW+opts.Spacing), 1, len(tiles))
		if outerW > width {
			tileW = max(width-tileBorderH, 2*tilePadH+1)
		}
	}

	rendered := lo.Map(tiles, func(tl tile, _ int) string {
		return renderTile(tl, tileW, st)
	})

	gapH := strings.Repeat(" ", opts.Spacing)
	rows := lo.Map(lo.Chunk(rendered, cols), func(row []string, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, intersperse(row, gapH)...)
	})

	sep := "\n"
	if opts.Spacing > 0 {
		sep = "\n\n"
	}
	return strings.Join(rows, sep)
}

func renderTile(t tile, tileW int, st Styles) string {
	innerW := tileW - 2*tilePadH
	lines := []string{
		st.TileLabel.Render(truncateToWidth(t.label, innerW)),
		st.TileValue.Render(truncateToWidth(t.value, innerW)),
	}
	return st.Tile.Width(tileW).Render(strings.Join(lines, "\n"))
}

func truncateToWidth(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxW, "…")
}

func intersperse(items []string, sep string) []string {
	if len(items) <= 1 || sep == "" {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

func clamp(val, minV, maxV int) int {
	if val < minV {
		return minV
	}
	if val > maxV {
		return maxV
	}
	return val
}
