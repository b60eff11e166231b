package ioformat

import (
	"fmt"
	"os"
	"strings"

	"github.com/rbscholtus/glspack/internal/model"
)

// WriteSVG renders problem's current layout as an SVG file — a diagnostic
// side-channel, not consumed by the separation engine or by any test.
func WriteSVG(path string, problem *model.Problem) error {
	var b strings.Builder
	w, h := problem.StripWidth(), problem.StripHeight
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f">`+"\n", w, h)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%.3f" height="%.3f" fill="none" stroke="black" stroke-width="%.4f"/>`+"\n", w, h, h*0.002)

	for _, k := range problem.AllKeys() {
		pi, ok := problem.Placement(k)
		if !ok {
			continue
		}
		item := problem.Item(pi.ItemID)
		shape := pi.TransformedShape(item)
		b.WriteString(`<polygon points="`)
		for i, pt := range shape.Points {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%.3f,%.3f", pt.X, h-pt.Y)
		}
		b.WriteString(`" fill="#8ab4f8" fill-opacity="0.5" stroke="#1a73e8" stroke-width="` + fmt.Sprintf("%.4f", h*0.001) + `"/>` + "\n")
	}
	b.WriteString("</svg>\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing svg %s: %w", path, err)
	}
	return nil
}
