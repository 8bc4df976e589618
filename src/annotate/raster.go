package annotate

import (
	"image"
	"image/color"
)

// Point is a pointer sample in bitmap pixel coordinates.
type Point struct {
	X int
	Y int
}

// Brush is the pen used to rasterize a stroke.
type Brush struct {
	Color color.RGBA
	Width int
}

// Segment is one straight piece of a stroke between two pointer samples.
type Segment struct {
	From  Point
	To    Point
	Brush Brush
}

// DrawSegment rasterizes seg into img: a Bresenham walk from From to To
// (both inclusive) stamping a filled disk of diameter Brush.Width at every
// step. The disk stamp gives round caps and joins. Pixels outside img are
// clipped.
func DrawSegment(img *image.RGBA, seg Segment) {
	stamp := diskOffsets(seg.Brush.Width)
	c := seg.Brush.Color
	bounds := img.Bounds()

	x0, y0 := seg.From.X, seg.From.Y
	x1, y1 := seg.To.X, seg.To.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		for _, o := range stamp {
			p := image.Pt(x0+o.X, y0+o.Y)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// diskOffsets lists the pixel offsets covered by a disk of the given diameter.
// Odd widths are centered on the origin pixel; even widths are centered on the
// corner between the origin and its upper-left neighbours, so the stamp is
// exactly width pixels across. Widths below 1 draw single pixels.
func diskOffsets(width int) []Point {
	if width < 1 {
		width = 1
	}
	// Work in doubled coordinates: pixel dx has its center at 2*dx+c.
	c := 1 - width%2
	lo, hi := -(width / 2), (width-1)/2
	limit := width * width
	offsets := make([]Point, 0, width*width)
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			ex, ey := 2*dx+c, 2*dy+c
			if ex*ex+ey*ey <= limit {
				offsets = append(offsets, Point{X: dx, Y: dy})
			}
		}
	}
	return offsets
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
