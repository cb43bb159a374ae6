package applanning

import (
	"math"

	"github.com/pkg/errors"
)

// GoalRegion holds the admissible terminal states of a screw planning
// problem. Every stored state sits at maximal progress; the region is
// satisfied by any state within a distance threshold of a stored state.
type GoalRegion struct {
	space     *ScrewStateSpace
	threshold float64
	states    []*State
}

// NewGoalRegion creates an empty goal region over a space.
func NewGoalRegion(space *ScrewStateSpace, threshold float64) *GoalRegion {
	if threshold <= 0 {
		threshold = defaultGoalThreshold
	}
	return &GoalRegion{space: space, threshold: threshold}
}

// AddState stores a terminal state. The state must match the space's joint
// dimensionality and must sit exactly at maximal progress.
func (g *GoalRegion) AddState(state *State) error {
	if state == nil || len(state.Q) != len(g.space.JointLimits()) {
		return errors.New("goal state dimensionality does not match the state space")
	}
	if math.Abs(state.Theta-g.space.ThetaLimit().Max) > 1e-9 {
		return errors.Errorf("goal state progress %f is not the maximal progress %f", state.Theta, g.space.ThetaLimit().Max)
	}
	g.states = append(g.states, state.Copy())
	return nil
}

// Len returns the number of stored goal states.
func (g *GoalRegion) Len() int {
	return len(g.states)
}

// States returns copies of the stored goal states.
func (g *GoalRegion) States() []*State {
	out := make([]*State, 0, len(g.states))
	for _, state := range g.states {
		out = append(out, state.Copy())
	}
	return out
}

// DistanceTo returns the space distance from the given state to the nearest
// stored goal state, or +Inf when the region is empty.
func (g *GoalRegion) DistanceTo(state *State) float64 {
	best := math.Inf(1)
	for _, goal := range g.states {
		if d := g.space.Distance(state, goal); d < best {
			best = d
		}
	}
	return best
}

// Satisfied reports whether the state lies within the goal threshold of a
// stored goal state.
func (g *GoalRegion) Satisfied(state *State) bool {
	return g.DistanceTo(state) <= g.threshold
}
