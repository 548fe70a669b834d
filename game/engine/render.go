package engine

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// DefaultBorderWidth is the default pixel width of the silhouette
	// border drawn around every object.
	DefaultBorderWidth = 2

	// DefaultPixelsPerCell is the default pixel width and height of one
	// grid cell.
	DefaultPixelsPerCell = 20
)

// neighborOffsets are the eight surrounding cells checked when deciding
// where an object's silhouette border goes. Corners are included so border
// strips meet cleanly on concave shapes.
var neighborOffsets = [8]Point{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Render draws the given state as an RGB image. Every grid cell becomes a
// pixelsPerCell square; a borderWidth strip of the object's border color is
// drawn along any cell edge not shared with the same object, so borders
// trace object silhouettes rather than the cell grid. Draw order is
// agent-walls, walls, movables in state-index order, then goals, whose
// transparent fill leaves the underlying pixels visible.
func (p *Puzzle) Render(state State, borderWidth, pixelsPerCell int) (*image.RGBA, error) {
	if borderWidth < 1 {
		return nil, fmt.Errorf("%w: border width must be >= 1, got %d", ErrInvalidRenderParams, borderWidth)
	}
	if pixelsPerCell < 1+2*borderWidth {
		return nil, fmt.Errorf("%w: pixels per cell must be >= 1 + 2*border width, got %d", ErrInvalidRenderParams, pixelsPerCell)
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width*pixelsPerCell, p.height*pixelsPerCell))
	fillRect(img, img.Bounds(), ColorBackground)

	type placed struct {
		obj *Object
		pos Point
	}
	objects := make([]placed, 0, len(p.movables)+len(p.goals)+2)
	if p.agentWalls != nil {
		objects = append(objects, placed{p.agentWalls, p.agentWalls.Position})
	}
	objects = append(objects, placed{p.walls, p.walls.Position})
	for i, obj := range p.movables {
		objects = append(objects, placed{obj, state[i]})
	}
	for _, goal := range p.goals {
		objects = append(objects, placed{goal, goal.Position})
	}

	for _, pl := range objects {
		drawObject(img, pl.obj, pl.pos, pixelsPerCell, borderWidth)
	}
	return img, nil
}

// RenderPlan renders the initial state and the state after each action of
// the plan, one frame per element of the returned slice.
func (p *Puzzle) RenderPlan(actions []Action, borderWidth, pixelsPerCell int) ([]*image.RGBA, error) {
	state := p.initial
	frame, err := p.Render(state, borderWidth, pixelsPerCell)
	if err != nil {
		return nil, err
	}
	frames := make([]*image.RGBA, 0, len(actions)+1)
	frames = append(frames, frame)

	for _, action := range actions {
		state = p.NextState(state, action)
		frame, err = p.Render(state, borderWidth, pixelsPerCell)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// drawObject paints one object anchored at pos: first the filled cell
// squares, then the border strips along silhouette edges.
func drawObject(img *image.RGBA, obj *Object, pos Point, pixelsPerCell, borderWidth int) {
	for cell := range obj.Cells {
		x0 := (pos.X + cell.X) * pixelsPerCell
		y0 := (pos.Y + cell.Y) * pixelsPerCell

		if obj.Fill != nil {
			fillRect(img, image.Rect(x0, y0, x0+pixelsPerCell, y0+pixelsPerCell), *obj.Fill)
		}

		for _, n := range neighborOffsets {
			if obj.Cells.Contains(cell.Add(n)) {
				continue // interior edge, no border
			}
			x1, x2 := x0, x0+pixelsPerCell
			if n.X != 0 {
				if n.X > 0 {
					x1 = x0 + pixelsPerCell - borderWidth
				}
				x2 = x1 + borderWidth
			}
			y1, y2 := y0, y0+pixelsPerCell
			if n.Y != 0 {
				if n.Y > 0 {
					y1 = y0 + pixelsPerCell - borderWidth
				}
				y2 = y1 + borderWidth
			}
			fillRect(img, image.Rect(x1, y1, x2, y2), obj.Border)
		}
	}
}

// fillRect paints the rectangle r with a solid color, clipped to the image.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
