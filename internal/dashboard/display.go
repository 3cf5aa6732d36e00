package dashboard

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// DisplayCount renders a count with thousands separators. Unknown counts
// render as "0".
func DisplayCount(n *int64) string {
	if n == nil {
		return "0"
	}
	return humanize.Comma(*n)
}

// DisplayBytes renders a byte total with binary prefixes, e.g. "5 MiB" or
// "1.5 KiB". Unknown totals render as "0".
func DisplayBytes(n *int64) string {
	if n == nil {
		return "0"
	}
	return formatBytes(*n)
}

func formatBytes(b int64) string {
	if b < 1024 {
		return strconv.FormatInt(b, 10) + " " + byteUnits[0]
	}

	v := float64(b)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	v = math.Round(v*10) / 10
	if v >= 1024 && unit < len(byteUnits)-1 {
		v = math.Round(v/1024*10) / 10
		unit++
	}

	return humanize.FtoaWithDigits(v, 1) + " " + byteUnits[unit]
}
