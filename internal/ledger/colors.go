package ledger

import (
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	hueSpan         = 330
	defaultHue      = 210
	colorSaturation = 0.65
	colorLightness  = 0.55
)

// HueForIndex spreads n alphabetically sorted projects over the hue wheel,
// stopping short of 360 so the last colour does not wrap onto the first.
func HueForIndex(i, n int) int {
	if n <= 1 {
		return defaultHue
	}
	return int(math.Round(float64(i) / float64(n-1) * hueSpan))
}

// ColorForHue renders a hue on the fixed saturation/lightness as "#rrggbb".
func ColorForHue(hue int) string {
	return colorful.Hsl(float64(hue), colorSaturation, colorLightness).Hex()
}

// reassignColors derives every project's colour from its alphabetical rank.
func (l *Ledger) reassignColors() {
	order := make([]int, len(l.projects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		na := strings.ToLower(l.projects[order[a]].Name)
		nb := strings.ToLower(l.projects[order[b]].Name)
		if na != nb {
			return na < nb
		}
		return l.projects[order[a]].ID < l.projects[order[b]].ID
	})
	for rank, idx := range order {
		l.projects[idx].Color = ColorForHue(HueForIndex(rank, len(order)))
	}
}
