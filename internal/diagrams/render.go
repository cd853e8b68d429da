package diagrams

import (
	"math"
	"strings"

	"github.com/fogleman/gg"
)

const (
	canvasW = 640
	canvasH = 480
)

// render draws a diagram for kind+name to path. Unknown names fall back to a
// generic template for the kind rather than failing, since the model passes
// free-form concept names.
func render(kind Kind, name string, path string) error {
	dc := gg.NewContext(canvasW, canvasH)
	drawField(dc)

	key := strings.ToLower(name)
	switch kind {
	case KindCoverage:
		drawCoverage(dc, key)
	case KindPlay:
		drawPlay(dc, key)
	default:
		drawRoute(dc, key)
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(strings.ToUpper(name), canvasW/2, 24, 0.5, 0.5)
	return dc.SavePNG(path)
}

// drawField paints a green field with yard lines and a line of scrimmage.
func drawField(dc *gg.Context) {
	dc.SetRGB255(34, 120, 54)
	dc.Clear()

	dc.SetRGBA(1, 1, 1, 0.35)
	dc.SetLineWidth(1)
	for y := 80.0; y < canvasH; y += 60 {
		dc.DrawLine(40, y, canvasW-40, y)
		dc.Stroke()
	}

	// Line of scrimmage.
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.SetLineWidth(3)
	dc.DrawLine(40, losY, canvasW-40, losY)
	dc.Stroke()
}

const (
	losY    = 380.0 // line of scrimmage
	startX  = 200.0 // receiver alignment
	routeUp = 110.0
)

func drawPlayer(dc *gg.Context, x, y float64) {
	dc.SetRGB255(230, 60, 50)
	dc.DrawCircle(x, y, 9)
	dc.Fill()
}

func drawDefender(dc *gg.Context, x, y float64) {
	dc.SetRGB255(60, 90, 230)
	dc.SetLineWidth(3)
	dc.DrawLine(x-7, y-7, x+7, y+7)
	dc.DrawLine(x-7, y+7, x+7, y-7)
	dc.Stroke()
}

// strokePath draws a route as connected segments with an arrowhead at the end.
func strokePath(dc *gg.Context, pts [][2]float64) {
	if len(pts) < 2 {
		return
	}
	dc.SetRGB255(255, 220, 60)
	dc.SetLineWidth(4)
	dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.Stroke()

	end := pts[len(pts)-1]
	prev := pts[len(pts)-2]
	dx, dy := end[0]-prev[0], end[1]-prev[1]
	// Crude arrowhead: two short strokes back along the final segment.
	n := 12.0 / math.Max(1.0, math.Hypot(dx, dy))
	bx, by := end[0]-dx*n, end[1]-dy*n
	px, py := -dy*n, dx*n
	dc.DrawLine(end[0], end[1], bx+px*0.6, by+py*0.6)
	dc.DrawLine(end[0], end[1], bx-px*0.6, by-py*0.6)
	dc.Stroke()
}

func drawRoute(dc *gg.Context, key string) {
	drawPlayer(dc, startX, losY)
	stem := losY - routeUp

	var pts [][2]float64
	switch {
	case strings.Contains(key, "slant"):
		pts = [][2]float64{{startX, losY}, {startX, losY - 50}, {startX + 180, losY - 160}}
	case strings.Contains(key, "post"):
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX + 140, stem - 160}}
	case strings.Contains(key, "corner"):
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX - 140, stem - 160}}
	case strings.Contains(key, "out"):
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX - 160, stem}}
	case strings.Contains(key, "go"), strings.Contains(key, "fly"), strings.Contains(key, "vertical"), strings.Contains(key, "streak"):
		pts = [][2]float64{{startX, losY}, {startX, 70}}
	case strings.Contains(key, "curl"), strings.Contains(key, "hook"):
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX - 30, stem + 35}}
	case strings.Contains(key, "wheel"):
		pts = [][2]float64{{startX, losY}, {startX + 130, losY - 20}, {startX + 170, losY - 80}, {startX + 170, 90}}
	case strings.Contains(key, "screen"):
		pts = [][2]float64{{startX, losY}, {startX + 40, losY + 30}, {startX + 120, losY + 30}}
	case strings.Contains(key, "dig"), strings.Contains(key, "in"):
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX + 160, stem}}
	case strings.Contains(key, "cross"), strings.Contains(key, "drag"), strings.Contains(key, "mesh"):
		pts = [][2]float64{{startX, losY}, {startX + 60, losY - 40}, {startX + 260, losY - 90}}
	default:
		pts = [][2]float64{{startX, losY}, {startX, stem}, {startX + 100, stem - 80}}
	}
	strokePath(dc, pts)
}

func drawPlay(dc *gg.Context, key string) {
	// Offensive formation: five linemen plus QB and skill players.
	for i := 0; i < 5; i++ {
		drawPlayer(dc, 240+float64(i)*40, losY)
	}
	qbX, qbY := 320.0, losY+40
	drawPlayer(dc, qbX, qbY)
	drawPlayer(dc, 120, losY) // X receiver
	drawPlayer(dc, 520, losY) // Z receiver

	switch {
	case strings.Contains(key, "screen"):
		strokePath(dc, [][2]float64{{120, losY}, {160, losY + 30}, {260, losY + 30}, {260, losY - 120}})
	case strings.Contains(key, "draw"):
		strokePath(dc, [][2]float64{{qbX, qbY}, {qbX, qbY + 25}, {qbX, losY - 140}})
	case strings.Contains(key, "boot"):
		strokePath(dc, [][2]float64{{qbX, qbY}, {qbX - 60, qbY + 30}, {150, qbY + 20}})
		strokePath(dc, [][2]float64{{120, losY}, {120, losY - 90}, {40 + 180, losY - 130}})
	case strings.Contains(key, "vertical"), strings.Contains(key, "deep"), strings.Contains(key, "shot"):
		strokePath(dc, [][2]float64{{120, losY}, {120, 70}})
		strokePath(dc, [][2]float64{{520, losY}, {520, 70}})
	case strings.Contains(key, "rpo"), strings.Contains(key, "slant"):
		strokePath(dc, [][2]float64{{120, losY}, {120, losY - 40}, {260, losY - 130}})
		strokePath(dc, [][2]float64{{qbX, qbY}, {qbX + 20, qbY}})
	case strings.Contains(key, "mesh"), strings.Contains(key, "cross"):
		strokePath(dc, [][2]float64{{120, losY}, {180, losY - 45}, {420, losY - 70}})
		strokePath(dc, [][2]float64{{520, losY}, {460, losY - 55}, {220, losY - 85}})
	default:
		strokePath(dc, [][2]float64{{120, losY}, {120, losY - 110}, {250, losY - 180}})
		strokePath(dc, [][2]float64{{520, losY}, {520, losY - 110}})
	}
}

func drawCoverage(dc *gg.Context, key string) {
	// Offense for reference.
	for i := 0; i < 5; i++ {
		drawPlayer(dc, 240+float64(i)*40, losY)
	}
	drawPlayer(dc, 120, losY)
	drawPlayer(dc, 520, losY)

	switch {
	case strings.Contains(key, "cover 2"), strings.Contains(key, "cover2"), strings.Contains(key, "two"):
		// Two deep halves, five underneath.
		drawZone(dc, 170, 130, 130)
		drawZone(dc, 470, 130, 130)
		for i := 0; i < 5; i++ {
			drawDefender(dc, 140+float64(i)*90, losY-70)
		}
	case strings.Contains(key, "cover 3"), strings.Contains(key, "cover3"), strings.Contains(key, "three"):
		drawZone(dc, 130, 120, 95)
		drawZone(dc, 320, 120, 95)
		drawZone(dc, 510, 120, 95)
		for i := 0; i < 4; i++ {
			drawDefender(dc, 160+float64(i)*110, losY-70)
		}
	case strings.Contains(key, "man"), strings.Contains(key, "press"):
		// Defenders mirror each receiver.
		drawDefender(dc, 120, losY-30)
		drawDefender(dc, 520, losY-30)
		for i := 0; i < 5; i++ {
			drawDefender(dc, 240+float64(i)*40, losY-35)
		}
	default:
		drawZone(dc, 320, 130, 150)
		for i := 0; i < 5; i++ {
			drawDefender(dc, 140+float64(i)*90, losY-70)
		}
	}
}

func drawZone(dc *gg.Context, x, y, r float64) {
	dc.SetRGBA(0.25, 0.35, 0.9, 0.25)
	dc.DrawCircle(x, y, r)
	dc.Fill()
	dc.SetRGBA(0.25, 0.35, 0.9, 0.8)
	dc.SetLineWidth(2)
	dc.DrawCircle(x, y, r)
	dc.Stroke()
}
