package applanning

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/rdk/referenceframe"
)

// StateSampler draws states from a constrained screw space. Samplers are the
// planner's source of roadmap material and may be swapped through options.
type StateSampler interface {
	Sample(ctx context.Context) (*State, error)
}

// SamplerConstructor builds a sampler for one planning attempt. The scratch
// state and checker are shared with the rest of the attempt; constructors
// must not retain them beyond the attempt.
type SamplerConstructor func(
	space *ScrewStateSpace,
	constraint *ScrewConstraint,
	state *KinematicState,
	checker ValidityChecker,
	opts *PlannerOptions,
	rnd *rand.Rand,
) (StateSampler, error)

// screwSampler draws progress and joint values uniformly within bounds,
// without regard to the screw constraint. Useful mainly for testing search
// behavior; nearly all of its samples fail validity on real problems.
type screwSampler struct {
	space *ScrewStateSpace
	rnd   *rand.Rand
}

// NewScrewSampler creates a uniform sampler over the compound space.
func NewScrewSampler(
	space *ScrewStateSpace,
	constraint *ScrewConstraint,
	state *KinematicState,
	checker ValidityChecker,
	opts *PlannerOptions,
	rnd *rand.Rand,
) (StateSampler, error) {
	if space == nil || rnd == nil {
		return nil, errors.New("uniform sampler requires a space and a random source")
	}
	return &screwSampler{space: space, rnd: rnd}, nil
}

func (s *screwSampler) Sample(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits := s.space.JointLimits()
	q := make([]referenceframe.Input, len(limits))
	for i, limit := range limits {
		q[i] = referenceframe.Input{Value: limit.Min + s.rnd.Float64()*(limit.Max-limit.Min)}
	}
	thetaLimit := s.space.ThetaLimit()
	return &State{Theta: thetaLimit.Min + s.rnd.Float64()*(thetaLimit.Max-thetaLimit.Min), Q: q}, nil
}

// screwValidSampler draws a progress value, solves inverse kinematics for
// the constraint pose at that progress from a random seed, and keeps the
// first result the validity checker accepts. This is the default sampler:
// it produces only on-constraint states, so the search never wastes roadmap
// nodes on configurations that can never connect.
type screwValidSampler struct {
	space      *ScrewStateSpace
	constraint *ScrewConstraint
	state      *KinematicState
	checker    ValidityChecker
	attempts   int
	rnd        *rand.Rand
}

// NewScrewValidSampler creates the constraint-aware sampler.
func NewScrewValidSampler(
	space *ScrewStateSpace,
	constraint *ScrewConstraint,
	state *KinematicState,
	checker ValidityChecker,
	opts *PlannerOptions,
	rnd *rand.Rand,
) (StateSampler, error) {
	if space == nil || constraint == nil || state == nil || checker == nil || rnd == nil {
		return nil, errors.New("valid state sampler requires a space, constraint, scratch state, checker, and random source")
	}
	attempts := defaultSampleAttempts
	if opts != nil && opts.SampleAttempts > 0 {
		attempts = opts.SampleAttempts
	}
	return &screwValidSampler{
		space:      space,
		constraint: constraint,
		state:      state,
		checker:    checker,
		attempts:   attempts,
		rnd:        rnd,
	}, nil
}

func (s *screwValidSampler) Sample(ctx context.Context) (*State, error) {
	thetaLimit := s.space.ThetaLimit()
	for attempt := 0; attempt < s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		theta := thetaLimit.Min + s.rnd.Float64()*(thetaLimit.Max-thetaLimit.Min)
		target := s.constraint.PoseAt(theta)
		s.state.SetToRandomPositions()
		if !s.state.SetFromIK(ctx, target) {
			continue
		}
		candidate := &State{Theta: theta, Q: s.state.JointPositions()}
		if s.checker.Valid(ctx, candidate) {
			return candidate, nil
		}
	}
	return nil, errSamplerExhausted
}
