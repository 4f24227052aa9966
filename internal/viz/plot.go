package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/chemscene/internal/energy"
)

// EnergyPlot draws the energy profile with a marker row under the current
// progress.
func EnergyPlot(p energy.Profile, marker energy.Point, width, height int) string {
	if width < 8 {
		width = 8
	}
	if height < 2 {
		height = 2
	}
	series := p.Series(width - 1)
	graph := asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(p.ActivationEnergy),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("energy %.2f at progress %.2f", p.Energy(marker.X), marker.X)),
	)

	lines := strings.Split(graph, "\n")
	offset := axisColumn(lines)
	if offset < 0 {
		return graph
	}
	col := offset + 1 + int(math.Round(marker.X*float64(width-1)))
	row := strings.Repeat(" ", col) + "▲"

	// marker goes between the plot and its caption
	split := height + 1
	if split > len(lines) {
		split = len(lines)
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:split]...)
	out = append(out, row)
	out = append(out, lines[split:]...)
	return strings.Join(out, "\n")
}

// axisColumn is the rune index of the y axis in the first plot line.
func axisColumn(lines []string) int {
	if len(lines) == 0 {
		return -1
	}
	for i, r := range []rune(lines[0]) {
		if r == '┤' || r == '┼' {
			return i
		}
	}
	return -1
}
