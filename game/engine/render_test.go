package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestRenderDimensions(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	img, err := puzzle.Render(puzzle.InitialState(), DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("Expected a 100x100 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderParameterValidation(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)
	state := puzzle.InitialState()

	if _, err := puzzle.Render(state, 0, 20); !errors.Is(err, ErrInvalidRenderParams) {
		t.Errorf("Expected ErrInvalidRenderParams for zero border, got %v", err)
	}
	if _, err := puzzle.Render(state, 2, 4); !errors.Is(err, ErrInvalidRenderParams) {
		t.Errorf("Expected ErrInvalidRenderParams for tiny cells, got %v", err)
	}
	if _, err := puzzle.Render(state, 1, 3); err != nil {
		t.Errorf("Expected minimal parameters to be accepted, got %v", err)
	}
}

// pixelAt returns the color at the center of grid cell (cx, cy) offset by
// (dx, dy) pixels from the cell's top-left corner.
func pixelAt(t *testing.T, img *image.RGBA, cx, cy, dx, dy int) color.RGBA {
	t.Helper()
	return img.RGBAAt(cx*DefaultPixelsPerCell+dx, cy*DefaultPixelsPerCell+dy)
}

func TestRenderCellColors(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	img, err := puzzle.Render(puzzle.InitialState(), DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	center := DefaultPixelsPerCell / 2

	// Border wall cell, interior.
	if got := pixelAt(t, img, 0, 0, center, center); got != ColorWall {
		t.Errorf("Expected wall fill at (0,0), got %v", got)
	}
	// Agent cell at (1,2).
	if got := pixelAt(t, img, 1, 2, center, center); got != ColorAgent {
		t.Errorf("Expected agent fill at (1,2), got %v", got)
	}
	// Goal-tracked movable at (2,2) uses the goal-object palette.
	if got := pixelAt(t, img, 2, 2, center, center); got != ColorGoalObject {
		t.Errorf("Expected goal-object fill at (2,2), got %v", got)
	}
	// Agent-wall at (1,3).
	if got := pixelAt(t, img, 1, 3, center, center); got != ColorAgentWall {
		t.Errorf("Expected agent-wall fill at (1,3), got %v", got)
	}
	// Empty interior cell stays background.
	if got := pixelAt(t, img, 2, 3, center, center); got != ColorBackground {
		t.Errorf("Expected background at (2,3), got %v", got)
	}
}

func TestRenderGoalTransparentFill(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	img, err := puzzle.Render(puzzle.InitialState(), DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	// The goal at (3,1) draws only its border; the interior shows the
	// background beneath it.
	center := DefaultPixelsPerCell / 2
	if got := pixelAt(t, img, 3, 1, center, center); got != ColorBackground {
		t.Errorf("Expected transparent goal interior, got %v", got)
	}
	if got := pixelAt(t, img, 3, 1, 0, center); got != ColorGoalBorder {
		t.Errorf("Expected goal border on left edge, got %v", got)
	}
}

func TestRenderSilhouetteBorders(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	img, err := puzzle.Render(puzzle.InitialState(), DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	// The wall at (1,1) adjoins border walls above and to its left: those
	// edges are interior to the merged wall object, so no border strip is
	// drawn there. Its right edge faces an empty cell and gets one.
	leftEdge := pixelAt(t, img, 1, 1, 1, DefaultPixelsPerCell/2)
	if leftEdge != ColorWall {
		t.Errorf("Expected interior edge to stay filled, got %v", leftEdge)
	}
	rightEdge := pixelAt(t, img, 1, 1, DefaultPixelsPerCell-1, DefaultPixelsPerCell/2)
	if rightEdge != ColorWallBorder {
		t.Errorf("Expected silhouette border on right edge, got %v", rightEdge)
	}
}

func TestRenderUsesStatePositions(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	state := puzzle.NextState(puzzle.InitialState(), Right)
	img, err := puzzle.Render(state, DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	center := DefaultPixelsPerCell / 2
	if got := pixelAt(t, img, 2, 2, center, center); got != ColorAgent {
		t.Errorf("Expected agent rendered at its state position, got %v", got)
	}
	if got := pixelAt(t, img, 1, 2, center, center); got != ColorBackground {
		t.Errorf("Expected vacated cell to be background, got %v", got)
	}
}

func TestRenderPlanFrames(t *testing.T) {
	puzzle := mustParse(t, trivialPuzzle)

	plan, err := ParsePlan("RDRU")
	if err != nil {
		t.Fatalf("Failed to parse plan: %v", err)
	}

	frames, err := puzzle.RenderPlan(plan, DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render plan: %v", err)
	}
	if len(frames) != len(plan)+1 {
		t.Fatalf("Expected %d frames, got %d", len(plan)+1, len(frames))
	}

	initialFrame, err := puzzle.Render(puzzle.InitialState(), DefaultBorderWidth, DefaultPixelsPerCell)
	if err != nil {
		t.Fatalf("Failed to render initial state: %v", err)
	}
	if !bytes.Equal(frames[0].Pix, initialFrame.Pix) {
		t.Error("Expected first frame to equal the rendered initial state")
	}
	if bytes.Equal(frames[0].Pix, frames[1].Pix) {
		t.Error("Expected the first action to change the frame")
	}
}
