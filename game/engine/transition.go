package engine

// NextState returns the state after performing one action in the given
// state. It never fails for states reachable from the initial state.
//
// Resolution is all-or-nothing: starting from the agent, a worklist sweeps
// up every movable contacted by something already moving. If any swept-up
// movable is wall-blocked, the whole step is cancelled and the input state
// is returned unchanged; otherwise the agent and every swept-up movable
// advance by the action's unit displacement. Because one blocked link
// cancels everything, the result does not depend on traversal order.
func (p *Puzzle) NextState(state State, action Action) State {
	agentPos := state[AgentIndex]
	if p.agentBlocked[action].Contains(agentPos) {
		return state // the agent cannot move
	}

	walls := p.wallBlocked[action]
	frontier := []int{AgentIndex}

	for len(frontier) > 0 {
		movableIdx := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		movablePos := state[movableIdx]
		contacts := p.pushOffsets[action][movableIdx]

		for obstacleIdx := 1; obstacleIdx < len(p.movables); obstacleIdx++ {
			if p.pushed[obstacleIdx] {
				continue // already part of the chain
			}

			obstaclePos := state[obstacleIdx]
			relative := movablePos.Sub(obstaclePos)
			if !contacts[obstacleIdx].Contains(relative) {
				continue // not in contact along this action
			}

			if walls[obstacleIdx].Contains(obstaclePos) {
				// Transitive stopping: one blocked link cancels the whole
				// push, agent included.
				p.resetPushed()
				return state
			}

			p.pushed[obstacleIdx] = true
			frontier = append(frontier, obstacleIdx)
		}
	}

	displacement := action.Displacement()
	next := make(State, len(state))
	next[AgentIndex] = state[AgentIndex].Add(displacement)
	for i := 1; i < len(state); i++ {
		if p.pushed[i] {
			next[i] = state[i].Add(displacement)
			p.pushed[i] = false
		} else {
			next[i] = state[i]
		}
	}
	return next
}

// resetPushed clears the traversal buffer so successive NextState calls are
// independent of call history.
func (p *Puzzle) resetPushed() {
	for i := 1; i < len(p.pushed); i++ {
		p.pushed[i] = false
	}
}

// CountAchievedGoals returns how many goal-tracked movables are at their
// goal positions in the given state.
func (p *Puzzle) CountAchievedGoals(state State) int {
	count := 0
	for k, goalPos := range p.goal {
		if state[k+1] == goalPos {
			count++
		}
	}
	return count
}

// IsGoalState reports whether every goal-tracked movable is at its goal
// position in the given state.
func (p *Puzzle) IsGoalState(state State) bool {
	for k, goalPos := range p.goal {
		if state[k+1] != goalPos {
			return false
		}
	}
	return true
}

// IsValidPlan replays the actions from the initial state and reports
// whether they achieve the goal. A plan whose goal is already satisfied
// before its last action is invalid: solving early and then moving on
// does not count.
func (p *Puzzle) IsValidPlan(actions []Action) bool {
	state := p.initial
	for _, action := range actions {
		if p.IsGoalState(state) {
			return false // goal achieved before the plan ended
		}
		state = p.NextState(state, action)
	}
	return p.IsGoalState(state)
}
