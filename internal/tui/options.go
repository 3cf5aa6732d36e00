package tui

const (
	minTileWidth = 12
	tileBorderH  = 2 // left + right border
	tilePadH     = 1
)

// Options are the presentation parameters handed to the dashboard. The
// renderer reads nothing else.
type Options struct {
	Theme     Theme
	TileWidth int // inner width of one tile
	Spacing   int // columns between tiles and blank lines between rows
	Endpoint  string
}

func (o Options) normalized() Options {
	if o.Theme.Name == "" {
		o.Theme = BuiltinCatalog().Resolve(DefaultThemeName)
	}
	if o.TileWidth < minTileWidth {
		o.TileWidth = minTileWidth
	}
	if o.Spacing < 0 {
		o.Spacing = 0
	}
	return o
}
