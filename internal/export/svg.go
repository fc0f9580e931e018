package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Palette colours lineages in order; it wraps for larger populations.
var Palette = []string{
	"#00ffff", "#ff00ff", "#ffcc00", "#00ff88", "#ff4444",
	"#4488ff", "#ff8800", "#88ff88", "#cc88ff", "#ffffff",
}

// Bounds is the x–y extent covered by a set of histories.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundsOf returns the extent of every sample in histories, padded by 10% and
// never degenerate. ok is false when there are no samples.
func BoundsOf(histories []*dynamo.History) (b Bounds, ok bool) {
	b = Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, h := range histories {
		for i := 0; i < h.Len(); i++ {
			b.MinX = math.Min(b.MinX, h.Xs[i])
			b.MaxX = math.Max(b.MaxX, h.Xs[i])
			b.MinY = math.Min(b.MinY, h.Ys[i])
			b.MaxY = math.Max(b.MaxY, h.Ys[i])
			ok = true
		}
	}
	if !ok {
		return Bounds{}, false
	}

	rangeX := b.MaxX - b.MinX
	rangeY := b.MaxY - b.MinY
	if rangeX == 0 {
		rangeX = math.Max(math.Abs(b.MaxX), 1)
	}
	if rangeY == 0 {
		rangeY = math.Max(math.Abs(b.MaxY), 1)
	}
	b.MinX -= rangeX * 0.1
	b.MaxX += rangeX * 0.1
	b.MinY -= rangeY * 0.1
	b.MaxY += rangeY * 0.1
	return b, true
}

// Project maps a position to pixel coordinates with y pointing down.
func (b Bounds) Project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.MinX) / (b.MaxX - b.MinX) * float64(width)
	py := float64(height) - (y-b.MinY)/(b.MaxY-b.MinY)*float64(height)
	return px, py
}

// HistoriesToSVG draws the x–y projection of every lineage as a path, marks
// where consumed lineages ended, and draws the direction of l from the frame
// centre as a dashed red line.
func HistoriesToSVG(histories []*dynamo.History, l dynamo.Vec3, width, height int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	bounds, ok := BoundsOf(histories)
	if ok {
		for i, h := range histories {
			writeLineage(&sb, h, bounds, width, height, Palette[i%len(Palette)])
		}
	}

	if mag := math.Hypot(l.X, l.Y); mag > 0 {
		cx, cy := float64(width)/2, float64(height)/2
		scale := 0.4 * math.Min(cx, cy) / mag
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ff0000" stroke-dasharray="6,4"/>
`, cx, cy, cx+l.X*scale, cy-l.Y*scale)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeLineage(sb *strings.Builder, h *dynamo.History, b Bounds, width, height int, color string) {
	if h.Len() == 0 {
		return
	}

	label := h.Name
	if label == "" {
		label = fmt.Sprintf("body %d", h.ID)
	}
	fmt.Fprintf(sb, "<g stroke=%q fill=%q>\n<title>%s</title>\n", color, color, escape(label))

	if h.Len() == 1 {
		x, y := b.Project(h.Xs[0], h.Ys[0], width, height)
		fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\"/>\n", x, y)
	} else {
		sb.WriteString(`<path fill="none" stroke-width="1.5" d="M`)
		for i := 0; i < h.Len(); i++ {
			x, y := b.Project(h.Xs[i], h.Ys[i], width, height)
			if i == 0 {
				fmt.Fprintf(sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	if !h.Active() {
		last := h.Len() - 1
		x, y := b.Project(h.Xs[last], h.Ys[last], width, height)
		fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"none\"/>\n", x, y)
	}

	sb.WriteString("</g>\n")
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// WriteSVG writes HistoriesToSVG to w.
func WriteSVG(w io.Writer, histories []*dynamo.History, l dynamo.Vec3, width, height int) error {
	_, err := io.WriteString(w, HistoriesToSVG(histories, l, width, height))
	return err
}
