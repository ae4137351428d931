// Package export renders the committed drawable set to shareable files. It
// reads snapshots only; nothing here feeds back into the sync engine.
package export

import (
	"github.com/jung-kurt/gofpdf"

	"PairBoard/internal/board"
)

const pageWidthMM = 210.0 // A4 portrait

// PDF writes the drawable set to an A4 PDF at path. Canvas units are scaled
// uniformly so the canvas width fills the page width.
func PDF(path string, space board.CanvasSpace, drawables []board.Drawable) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	scale := pageWidthMM / float64(space.Width)
	mm := func(v int) float64 { return float64(v) * scale }

	for _, d := range drawables {
		switch d := d.(type) {
		case *board.Stroke:
			r, g, b := hexRGB(d.Color)
			p.SetDrawColor(r, g, b)
			p.SetLineWidth(mm(d.Width))
			for i := 1; i < len(d.Points); i++ {
				p.Line(mm(d.Points[i-1].X), mm(d.Points[i-1].Y), mm(d.Points[i].X), mm(d.Points[i].Y))
			}
		case *board.Shape:
			drawShapePDF(p, d, mm)
		case *board.TextAnnotation:
			r, g, b := hexRGB(d.Color)
			p.SetTextColor(r, g, b)
			p.SetFont("Helvetica", "", float64(d.FontSize)*scale*2.83)
			p.Text(mm(d.Position.X), mm(d.Position.Y), d.Text)
		}
	}
	return p.OutputFileAndClose(path)
}

func drawShapePDF(p *gofpdf.Fpdf, s *board.Shape, mm func(int) float64) {
	r, g, b := hexRGB(s.StrokeColor)
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(mm(s.StrokeWidth))
	style := "D"
	if s.FillColor != "" {
		fr, fg, fb := hexRGB(s.FillColor)
		p.SetFillColor(fr, fg, fb)
		style = "FD"
	}

	x, y := mm(s.Origin.X), mm(s.Origin.Y)
	w, h := mm(s.Width), mm(s.Height)
	switch s.Kind {
	case board.KindLine:
		p.Line(x, y, x+w, y+h)
	case board.KindCircle:
		p.Circle(x, y, mm(s.Radius), style)
	case board.KindEllipse:
		p.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, style)
	case board.KindRectangle:
		p.Rect(x, y, w, h, style)
	case board.KindTriangle:
		pts := []gofpdf.PointType{
			{X: x + w/2, Y: y},
			{X: x, Y: y + h},
			{X: x + w, Y: y + h},
		}
		p.Polygon(pts, style)
	}
}
