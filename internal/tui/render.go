package tui

import (
	"strings"

	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
)

const loadingText = "Loading usage…"

// renderBody draws the part of the screen owned by the view model: a
// progress line while loading, the error while failed, the tiles when loaded.
// An inactive screen renders nothing.
func renderBody(vm dashboard.ViewModel, width int, opts Options, st Styles, spin string) string {
	switch {
	case vm.IsLoading:
		if spin == "" {
			return st.Loading.Render(loadingText)
		}
		return spin + " " + st.Loading.Render(loadingText)
	case vm.ErrorMessage != "":
		return renderError(vm.ErrorMessage, width, st)
	case vm.Tiles != nil:
		return RenderTiles(*vm.Tiles, width, opts, st)
	}
	return ""
}

func renderError(msg string, width int, st Styles) string {
	line := "✗ " + strings.TrimSpace(msg)
	if width > 0 {
		// border + padding on both sides
		line = truncateToWidth(line, width-tileBorderH-2*tilePadH)
	}
	return st.ErrBox.Render(st.Error.Render(line))
}

// RenderStatic renders a view model once, without animation, for
// non-interactive output.
func RenderStatic(vm dashboard.ViewModel, width int, opts Options) string {
	opts = opts.normalized()
	return renderBody(vm, width, opts, NewStyles(opts.Theme), "")
}
