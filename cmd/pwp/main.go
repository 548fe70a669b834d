// Command pwp is a command-line companion for working with puzzle
// files: render states and plans to PNG, solve puzzles by search, and
// validate candidate plans.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/solver"
)

func main() {
	cmd := &cli.Command{
		Name:  "pwp",
		Usage: "render, solve, and validate puzzle files",
		Commands: []*cli.Command{
			renderCommand(),
			solveCommand(),
			validateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render a puzzle state, or every step of a plan, to PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "puzzle", Usage: "path to a puzzle file", Required: true},
			&cli.StringFlag{Name: "plan", Usage: "plan to animate (L/R/U/D characters)"},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory for PNG files"},
			&cli.IntFlag{Name: "border-width", Value: engine.DefaultBorderWidth, Usage: "object border width in pixels"},
			&cli.IntFlag{Name: "pixels-per-cell", Value: engine.DefaultPixelsPerCell, Usage: "size of one grid cell in pixels"},
		},
		Action: runRender,
	}
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	puzzle, err := engine.LoadPuzzle(cmd.String("puzzle"))
	if err != nil {
		return err
	}
	name := puzzleName(cmd.String("puzzle"))
	outDir := cmd.String("out")
	borderWidth := int(cmd.Int("border-width"))
	pixelsPerCell := int(cmd.Int("pixels-per-cell"))

	if planText := cmd.String("plan"); planText != "" {
		actions, err := engine.ParsePlan(planText)
		if err != nil {
			return err
		}
		frames, err := puzzle.RenderPlan(actions, borderWidth, pixelsPerCell)
		if err != nil {
			return err
		}
		for i, frame := range frames {
			path := filepath.Join(outDir, fmt.Sprintf("%s_%03d.png", name, i))
			if err := writePNG(path, frame); err != nil {
				return err
			}
		}
		fmt.Printf("Wrote %d frames to %s\n", len(frames), outDir)
		return nil
	}

	img, err := puzzle.Render(puzzle.InitialState(), borderWidth, pixelsPerCell)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, name+".png")
	if err := writePNG(path, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:  "solve",
		Usage: "find a shortest plan by breadth-first search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "puzzle", Usage: "path to a puzzle file", Required: true},
			&cli.IntFlag{Name: "max-states", Value: solver.DefaultMaxStates, Usage: "abort after exploring this many states"},
		},
		Action: runSolve,
	}
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	puzzle, err := engine.LoadPuzzle(cmd.String("puzzle"))
	if err != nil {
		return err
	}

	result, err := solver.Solve(puzzle, int(cmd.Int("max-states")))
	switch {
	case err == nil:
		if len(result.Plan) == 0 {
			fmt.Println("Puzzle is already solved in its initial state")
			return nil
		}
		fmt.Printf("%s\n", engine.FormatPlan(result.Plan))
		fmt.Printf("%d actions, %d states explored\n", len(result.Plan), result.StatesExplored)
		return nil
	case errors.Is(err, solver.ErrNoSolution):
		return fmt.Errorf("no solution exists (%d states explored)", result.StatesExplored)
	default:
		return err
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check whether a plan solves a puzzle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "puzzle", Usage: "path to a puzzle file", Required: true},
			&cli.StringFlag{Name: "plan", Usage: "plan to check (L/R/U/D characters)", Required: true},
		},
		Action: runValidate,
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	puzzle, err := engine.LoadPuzzle(cmd.String("puzzle"))
	if err != nil {
		return err
	}
	actions, err := engine.ParsePlan(cmd.String("plan"))
	if err != nil {
		return err
	}

	if !puzzle.IsValidPlan(actions) {
		return fmt.Errorf("plan %s does not solve the puzzle", engine.FormatPlan(actions))
	}
	fmt.Printf("Plan %s solves the puzzle in %d actions\n", engine.FormatPlan(actions), len(actions))
	return nil
}

// puzzleName strips the directory and extension from a puzzle path.
func puzzleName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
