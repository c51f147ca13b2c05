package charts

const (
	ColorBlue       = "#3498db"
	ColorRed        = "#e74c3c"
	ColorDarkRed    = "#c0392b"
	ColorGreen      = "#2ecc71"
	ColorOrange     = "#f39c12"
	ColorDarkOrange = "#e67e22"
	ColorGrey       = "#95a5a6"
)

var rankingPalette = []string{
	"#27ae60", "#2ecc71", "#3498db", "#9b59b6", "#34495e",
	"#16a085", "#2980b9", "#8e44ad", "#2c3e50", "#f39c12",
}

// ColorForCases bands countries by absolute case count.
func ColorForCases(cases int64) string {
	switch {
	case cases < 1_000_000:
		return ColorGreen
	case cases < 10_000_000:
		return ColorOrange
	case cases < 50_000_000:
		return ColorDarkOrange
	default:
		return ColorRed
	}
}

// ColorForRanking colours the ranking bars by position; past the palette everything is grey.
func ColorForRanking(index int) string {
	if index >= 0 && index < len(rankingPalette) {
		return rankingPalette[index]
	}
	return ColorGrey
}
