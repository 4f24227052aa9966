package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/scene"
	"github.com/san-kum/chemscene/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fg, bg string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, bg, fg))

	dotRadius := scale * 0.4
	w, h := canvas.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SceneToSVG projects a description through cam and renders it as SVG.
func SceneToSVG(d *scene.Description, cam *viz.Camera, width, height int, scale float64) string {
	canvas := viz.NewCanvas(width, height)
	w := viz.SceneWireframe(d)
	if cam == nil {
		cam = viz.NewCamera()
		cam.Fit(w.Points())
	}
	viz.Render3D(canvas, w, cam)
	return CanvasToSVG(canvas, scale, "#7fdbff", "#0a0a0a")
}

// ProfileToSVG draws the energy background curve, the piecewise energy path
// and the marker for the current progress in normalized plot coordinates.
func ProfileToSVG(p energy.Profile, marker energy.Point, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	px := func(pt energy.Point) (float64, float64) {
		return pt.X * float64(width), float64(height) - pt.Y*float64(height)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath := func(pts []energy.Point, stroke string, strokeWidth float64) {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, stroke, strokeWidth))
		for i, pt := range pts {
			x, y := px(pt)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	writePath(p.CurveSamples(64), "#37474f", 6)
	writePath([]energy.Point{p.Marker(0), p.Marker(0.5), p.Marker(1)}, "#7fdbff", 1.5)

	mx, my := px(marker)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#ffca28"/>
`, mx, my))
	sb.WriteString("</svg>")
	return sb.String()
}
