package applanning

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// candidateGenerator collects pools of distinct start and goal
// configurations through repeated inverse kinematics. Attempt budgets are
// fixed multiples of the requested pool sizes so a hard pose cannot stall a
// planning attempt indefinitely.
type candidateGenerator struct {
	state              *KinematicState
	numStarts          int
	numGoals           int
	duplicateThreshold float64
	logger             logging.Logger
}

// findGoalStates collects goal configurations when the start configuration
// is supplied by the caller. The first inverse kinematics attempt is seeded
// from the given start so at least one goal tends to be reachable from it;
// later attempts are seeded randomly.
func (cg *candidateGenerator) findGoalStates(
	ctx context.Context,
	start []referenceframe.Input,
	goalPose spatialmath.Pose,
) (startConfigs, goalConfigs [][]referenceframe.Input, err error) {
	if err := cg.state.SetJointPositions(start); err != nil {
		return nil, nil, errors.Wrap(err, "unusable start configuration")
	}
	startConfigs = append(startConfigs, cg.state.JointPositions())
	budget := 2 * cg.numGoals
	for attempt := 0; len(goalConfigs) < cg.numGoals && attempt < budget; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		goalConfigs = cg.increaseStateList(ctx, goalPose, goalConfigs)
		cg.state.SetToRandomPositions()
	}
	if len(goalConfigs) == 0 {
		return nil, nil, errNoIKSolutions
	}
	cg.logger.Debugf("found %d goal configurations from the given start", len(goalConfigs))
	return startConfigs, goalConfigs, nil
}

// findStartGoalStates collects both pools when only the start pose is known,
// interleaving start and goal attempts so each goal attempt is seeded by the
// most recent start solution.
func (cg *candidateGenerator) findStartGoalStates(
	ctx context.Context,
	startPose, goalPose spatialmath.Pose,
) (startConfigs, goalConfigs [][]referenceframe.Input, err error) {
	if cg.numStarts < 1 || cg.numGoals < 1 {
		return nil, nil, errors.New("candidate pool sizes must be positive")
	}
	budget := 2 * (cg.numStarts + cg.numGoals)
	for attempt := 0; attempt < budget; attempt++ {
		if len(startConfigs) >= cg.numStarts && len(goalConfigs) >= cg.numGoals {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cg.state.SetToRandomPositions()
		if len(startConfigs) < cg.numStarts {
			startConfigs = cg.increaseStateList(ctx, startPose, startConfigs)
		}
		if len(goalConfigs) < cg.numGoals {
			goalConfigs = cg.increaseStateList(ctx, goalPose, goalConfigs)
		}
	}
	if len(startConfigs) == 0 || len(goalConfigs) == 0 {
		return nil, nil, errNoIKSolutions
	}
	cg.logger.Debugf("found %d start and %d goal configurations", len(startConfigs), len(goalConfigs))
	return startConfigs, goalConfigs, nil
}

// increaseStateList makes one inverse kinematics attempt at the given pose
// and appends the solution unless it duplicates one already in the list.
// Solver failures are swallowed; the caller's attempt budget bounds retries.
func (cg *candidateGenerator) increaseStateList(
	ctx context.Context,
	pose spatialmath.Pose,
	list [][]referenceframe.Input,
) [][]referenceframe.Input {
	if !cg.state.SetFromIK(ctx, pose) {
		return list
	}
	solution := cg.state.JointPositions()
	for _, existing := range list {
		if referenceframe.InputsL2Distance(existing, solution) < cg.duplicateThreshold {
			return list
		}
	}
	return append(list, solution)
}
