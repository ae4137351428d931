package export

import (
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"PairBoard/internal/board"
)

// PNG rasterizes the drawable set at canvas resolution and writes it to path.
func PNG(path string, space board.CanvasSpace, drawables []board.Drawable) error {
	return renderPNG(space, drawables).SavePNG(path)
}

func renderPNG(space board.CanvasSpace, drawables []board.Drawable) *gg.Context {
	dc := gg.NewContext(space.Width, space.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, d := range drawables {
		switch d := d.(type) {
		case *board.Stroke:
			drawStrokePNG(dc, d)
		case *board.Shape:
			drawShapePNG(dc, d)
		case *board.TextAnnotation:
			setHex(dc, d.Color)
			dc.SetFontFace(basicfont.Face7x13)
			dc.DrawString(d.Text, float64(d.Position.X), float64(d.Position.Y))
		}
	}
	return dc
}

func drawStrokePNG(dc *gg.Context, s *board.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	setHex(dc, s.Color)
	dc.SetLineWidth(float64(s.Width))
	if s.Cap == "round" {
		dc.SetLineCapRound()
	} else {
		dc.SetLineCapButt()
	}
	if len(s.Points) == 1 {
		// A tap is rendered as a dot.
		dc.DrawCircle(float64(s.Points[0].X), float64(s.Points[0].Y), float64(s.Width)/2)
		dc.Fill()
		return
	}
	dc.MoveTo(float64(s.Points[0].X), float64(s.Points[0].Y))
	for _, p := range s.Points[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.Stroke()
}

func drawShapePNG(dc *gg.Context, s *board.Shape) {
	x, y := float64(s.Origin.X), float64(s.Origin.Y)
	w, h := float64(s.Width), float64(s.Height)
	dc.SetLineWidth(float64(s.StrokeWidth))

	switch s.Kind {
	case board.KindLine:
		setHex(dc, s.StrokeColor)
		dc.DrawLine(x, y, x+w, y+h)
		dc.Stroke()
		return
	case board.KindCircle:
		dc.DrawCircle(x, y, float64(s.Radius))
	case board.KindEllipse:
		dc.DrawEllipse(x+w/2, y+h/2, math.Abs(w)/2, math.Abs(h)/2)
	case board.KindRectangle:
		dc.DrawRectangle(math.Min(x, x+w), math.Min(y, y+h), math.Abs(w), math.Abs(h))
	case board.KindTriangle:
		dc.MoveTo(x+w/2, y)
		dc.LineTo(x, y+h)
		dc.LineTo(x+w, y+h)
		dc.ClosePath()
	}

	if s.FillColor != "" {
		setHex(dc, s.FillColor)
		dc.FillPreserve()
	}
	setHex(dc, s.StrokeColor)
	dc.Stroke()
}

func setHex(dc *gg.Context, color string) {
	r, g, b := hexRGB(color)
	dc.SetRGB255(r, g, b)
}
