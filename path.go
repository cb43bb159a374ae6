package applanning

import "math"

// SolvedPath is an ordered sequence of states connecting a start to a goal,
// with its accumulated state-space length.
type SolvedPath struct {
	states []*State
	length float64
}

func newSolvedPath(space *ScrewStateSpace, states []*State) *SolvedPath {
	length := 0.0
	for i := 1; i < len(states); i++ {
		length += space.Distance(states[i-1], states[i])
	}
	return &SolvedPath{states: states, length: length}
}

// States returns the path's states in order.
func (p *SolvedPath) States() []*State {
	return p.states
}

// Length returns the accumulated state-space distance along the path.
func (p *SolvedPath) Length() float64 {
	return p.length
}

// Interpolate densifies the path so that consecutive states are no farther
// apart than resolution in state-space distance. The original states are
// all retained.
func (p *SolvedPath) Interpolate(space *ScrewStateSpace, resolution float64) []*State {
	if len(p.states) == 0 {
		return nil
	}
	if resolution <= 0 {
		resolution = defaultResolution
	}
	out := []*State{p.states[0].Copy()}
	for i := 1; i < len(p.states); i++ {
		from, to := p.states[i-1], p.states[i]
		steps := int(math.Ceil(space.Distance(from, to) / resolution))
		if steps < 1 {
			steps = 1
		}
		for step := 1; step <= steps; step++ {
			out = append(out, space.Interpolate(from, to, float64(step)/float64(steps)))
		}
	}
	return out
}
