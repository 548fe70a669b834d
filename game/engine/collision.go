package engine

// PointSet is a set of discrete grid positions.
type PointSet map[Point]struct{}

// NewPointSet returns a set holding the given points.
func NewPointSet(points ...Point) PointSet {
	s := make(PointSet, len(points))
	for _, p := range points {
		s.Add(p)
	}
	return s
}

// Add inserts p into the set.
func (s PointSet) Add(p Point) {
	s[p] = struct{}{}
}

// Contains reports whether p is in the set.
func (s PointSet) Contains(p Point) bool {
	_, ok := s[p]
	return ok
}

// Union returns a new set holding every point of s and other.
func (s PointSet) Union(other PointSet) PointSet {
	out := make(PointSet, len(s)+len(other))
	for p := range s {
		out.Add(p)
	}
	for p := range other {
		out.Add(p)
	}
	return out
}

// bounds returns the width and height of the set's bounding box.
func (s PointSet) bounds() (w, h int) {
	first := true
	var minX, maxX, minY, maxY int
	for p := range s {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if first {
		return 0, 0
	}
	return maxX - minX + 1, maxY - minY + 1
}

// anchor returns the minimum x and minimum y over the set.
func (s PointSet) anchor() Point {
	first := true
	var min Point
	for p := range s {
		if first {
			min = p
			first = false
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
	}
	return min
}

// translate returns the set {p + offset} for all p in the set.
func (s PointSet) translate(offset Point) PointSet {
	out := make(PointSet, len(s))
	for p := range s {
		out.Add(p.Add(offset))
	}
	return out
}

// overlaps reports whether some point p in s satisfies p+offset ∈ other.
func (s PointSet) overlaps(other PointSet, offset Point) bool {
	// Probe from the smaller side.
	if len(other) < len(s) {
		for q := range other {
			if s.Contains(q.Sub(offset)) {
				return true
			}
		}
		return false
	}
	for p := range s {
		if other.Contains(p.Add(offset)) {
			return true
		}
	}
	return false
}

// staticCollisions computes the anchor positions at which moving an object
// one step in the action direction collides with a static obstacle.
//
// objectCells are in the object's local frame; obstacleCells are in the
// global frame. width and height bound the board including the border.
// A candidate anchor counts only if it lies within the movable range implied
// by the board and the object's bounding box, and if the object does not
// already overlap the obstacle there: collisions are detected prospectively,
// never from already-overlapping placements.
func staticCollisions(action Action, objectCells, obstacleCells PointSet, width, height int) PointSet {
	dis := action.Displacement()
	objW, objH := objectCells.bounds()
	maxX := width - objW
	maxY := height - objH

	positions := make(PointSet)
	for cell := range objectCells {
		for obstacle := range obstacleCells {
			d := Point{
				X: obstacle.X - cell.X - dis.X,
				Y: obstacle.Y - cell.Y - dis.Y,
			}
			if d.X < 0 || d.Y < 0 || d.X > maxX || d.Y > maxY {
				continue
			}
			if positions.Contains(d) {
				continue
			}
			if objectCells.overlaps(obstacleCells, d) {
				continue
			}
			positions.Add(d)
		}
	}
	return positions
}

// dynamicCollisions computes the relative pusher-minus-pushee positions at
// which moving the pusher one step in the action direction contacts the
// pushee. Both cell sets are in their objects' local frames. The result is
// position independent: one set answers contact queries anywhere on the
// board.
func dynamicCollisions(action Action, pusherCells, pusheeCells PointSet) PointSet {
	dis := action.Displacement()

	offsets := make(PointSet)
	for pusher := range pusherCells {
		for pushee := range pusheeCells {
			d := Point{
				X: pushee.X - pusher.X - dis.X,
				Y: pushee.Y - pusher.Y - dis.Y,
			}
			if offsets.Contains(d) {
				continue
			}
			if pusherCells.overlaps(pusheeCells, d) {
				continue
			}
			offsets.Add(d)
		}
	}
	return offsets
}

// buildCollisionMaps precomputes the three collision families for every
// action. It runs once at construction; NextState afterwards answers every
// contact query with set lookups in time proportional to the number of
// objects touched by a push chain.
func (p *Puzzle) buildCollisionMaps() {
	n := len(p.movables)

	// Everything static that stops the agent: walls plus agent-walls.
	agentObstacles := p.walls.Cells
	if p.agentWalls != nil {
		agentObstacles = agentObstacles.Union(p.agentWalls.Cells)
	}

	for _, a := range Actions {
		p.agentBlocked[a] = staticCollisions(a, p.movables[AgentIndex].Cells, agentObstacles, p.width, p.height)

		// Non-agent movables are stopped by plain walls only; agent-walls
		// do not block them. This asymmetry is part of the puzzle rules.
		p.wallBlocked[a] = make([]PointSet, n)
		for m := 1; m < n; m++ {
			p.wallBlocked[a][m] = staticCollisions(a, p.movables[m].Cells, p.walls.Cells, p.width, p.height)
		}

		// Push relationships between movables. The agent is never a pushee:
		// it is the cause of all movement.
		p.pushOffsets[a] = make([][]PointSet, n)
		for pusher := 0; pusher < n; pusher++ {
			p.pushOffsets[a][pusher] = make([]PointSet, n)
			for pushee := 1; pushee < n; pushee++ {
				if pusher == pushee {
					continue
				}
				p.pushOffsets[a][pusher][pushee] = dynamicCollisions(a, p.movables[pusher].Cells, p.movables[pushee].Cells)
			}
		}
	}
}
