package applanning

import (
	"context"

	"github.com/pkg/errors"
)

// ValidityChecker is the predicate deciding whether a state may appear in a
// trajectory. Checkers reject silently; the caller only learns valid or not.
type ValidityChecker interface {
	Valid(ctx context.Context, state *State) bool
}

// ValidityCheckerConstructor builds the checker for one planning attempt.
type ValidityCheckerConstructor func(
	space *ScrewStateSpace,
	constraint *ScrewConstraint,
	collision CollisionChecker,
	opts *PlannerOptions,
) (ValidityChecker, error)

// screwValidityChecker accepts a state when it is within bounds, its forward
// kinematics match the constraint pose at its progress value within
// tolerance, and its configuration is collision free. The checks run in that
// order so the cheap ones gate the expensive ones.
type screwValidityChecker struct {
	space             *ScrewStateSpace
	constraint        *ScrewConstraint
	collision         CollisionChecker
	positionTolerance float64
	angleTolerance    float64
}

// NewScrewValidityChecker creates the default validity checker.
func NewScrewValidityChecker(
	space *ScrewStateSpace,
	constraint *ScrewConstraint,
	collision CollisionChecker,
	opts *PlannerOptions,
) (ValidityChecker, error) {
	if space == nil || constraint == nil {
		return nil, errors.New("validity checker requires a space and a constraint")
	}
	positionTolerance := defaultPositionToleranceMM
	angleTolerance := defaultAngleToleranceRad
	if opts != nil {
		if opts.PositionTolerance > 0 {
			positionTolerance = opts.PositionTolerance
		}
		if opts.AngleTolerance > 0 {
			angleTolerance = opts.AngleTolerance
		}
	}
	return &screwValidityChecker{
		space:             space,
		constraint:        constraint,
		collision:         collision,
		positionTolerance: positionTolerance,
		angleTolerance:    angleTolerance,
	}, nil
}

func (vc *screwValidityChecker) Valid(ctx context.Context, state *State) bool {
	if !vc.space.InBounds(state) {
		return false
	}
	pose, err := vc.space.Group().Transform(state.Q)
	if err != nil || pose == nil {
		return false
	}
	if !poseWithinTolerance(pose, vc.constraint.PoseAt(state.Theta), vc.positionTolerance, vc.angleTolerance) {
		return false
	}
	if vc.collision != nil && !vc.collision.CollisionFree(state.Q) {
		return false
	}
	return true
}
