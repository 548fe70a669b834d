// Command desktop is an interactive puzzle player. It drives the engine
// directly: arrow keys (or WASD) move the agent, R restarts the puzzle,
// U undoes the last move. Frames come straight from the engine renderer.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pushworld/pushworld/game/engine"
)

const (
	pixelsPerCell = 40
	borderWidth   = 3
	headerHeight  = 40 // HUD strip above the grid
	footerHeight  = 20
)

// Game holds the puzzle, the current state, and the cached frame.
type Game struct {
	puzzle  *engine.Puzzle
	name    string
	state   engine.State
	history []engine.Action
	solved  bool

	frame *ebiten.Image
	dirty bool // state changed since the last frame was drawn
}

// NewGame starts a fresh play-through of the puzzle.
func NewGame(puzzle *engine.Puzzle, name string) *Game {
	return &Game{
		puzzle: puzzle,
		name:   name,
		state:  puzzle.InitialState(),
		dirty:  true,
	}
}

// step applies one action, recording it only if it changed the state.
func (g *Game) step(action engine.Action) {
	if g.solved {
		return
	}
	next := g.puzzle.NextState(g.state, action)
	if next.Equal(g.state) {
		return
	}
	g.state = next
	g.history = append(g.history, action)
	g.dirty = true

	if g.puzzle.IsGoalState(g.state) {
		g.solved = true
	}
}

// reset returns the puzzle to its initial state.
func (g *Game) reset() {
	g.state = g.puzzle.InitialState()
	g.history = g.history[:0]
	g.solved = false
	g.dirty = true
}

// undo replays the history minus its last action. Replay is cheap because
// transitions only touch the objects that move.
func (g *Game) undo() {
	if len(g.history) == 0 {
		return
	}
	g.history = g.history[:len(g.history)-1]
	g.state = g.puzzle.InitialState()
	for _, action := range g.history {
		g.state = g.puzzle.NextState(g.state, action)
	}
	g.solved = g.puzzle.IsGoalState(g.state)
	g.dirty = true
}

// Update handles keyboard input.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.step(engine.Up)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.step(engine.Down)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.step(engine.Left)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.step(engine.Right)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		g.undo()
	}
	return nil
}

// Draw renders the HUD and the current grid frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty {
		img, err := g.puzzle.Render(g.state, borderWidth, pixelsPerCell)
		if err != nil {
			log.Printf("Render error: %v", err)
			return
		}
		g.frame = ebiten.NewImageFromImage(img)
		g.dirty = false
	}

	achieved := g.puzzle.CountAchievedGoals(g.state)
	total := len(g.puzzle.GoalState())
	hud := fmt.Sprintf("%s | Steps: %d | Goals: %d/%d", g.name, len(g.history), achieved, total)
	if g.solved {
		hud += fmt.Sprintf(" | SOLVED in %d steps!", len(g.history))
	}
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)

	if g.frame != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, headerHeight)
		screen.DrawImage(g.frame, op)
	}

	_, height := g.puzzle.Dimensions()
	footerY := headerHeight + height*pixelsPerCell + 4
	ebitenutil.DebugPrintAt(screen, "Arrows/WASD: Move | U: Undo | R: Restart", 10, footerY)
}

// Layout sizes the window to the grid plus the HUD strips.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	width, height := g.puzzle.Dimensions()
	return width * pixelsPerCell, headerHeight + height*pixelsPerCell + footerHeight
}

func main() {
	puzzlePath := flag.String("puzzle", "puzzles/level1.pwp", "puzzle file to play")
	flag.Parse()

	puzzle, err := engine.LoadPuzzle(*puzzlePath)
	if err != nil {
		log.Fatalf("Failed to load puzzle: %v", err)
	}

	game := NewGame(puzzle, *puzzlePath)

	width, height := game.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("PushWorld")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
