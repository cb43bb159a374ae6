package applanning

import (
	"context"
	"math"

	"go.viam.com/rdk/referenceframe"
)

// populateResponse converts a solved path into a densified, revalidated
// joint trajectory. Paths of fewer than two states leave the response in its
// empty form. When a densified state fails revalidation, the waypoints up to
// it are kept and the trajectory is marked invalid with the progress reached
// so far; callers may still execute the valid prefix.
func (sp *ScrewPlanner) populateResponse(
	ctx context.Context,
	path *SolvedPath,
	req *PlanRequest,
	space *ScrewStateSpace,
	validity ValidityChecker,
	resp *PlanResponse,
) {
	states := path.States()
	if len(states) < 2 {
		sp.logger.Warnf("solved path has %d states, no trajectory to extract", len(states))
		return
	}

	interpolated := path.Interpolate(space, sp.opts.Resolution)

	resp.JointNames = sp.group.VariableNames()
	resp.Waypoints = make([][]float64, 0, len(interpolated))
	for _, state := range interpolated {
		if !validity.Valid(ctx, state) {
			resp.TrajectoryIsValid = false
			resp.PercentageComplete = state.Theta / req.Theta
			sp.logger.Debugf("trajectory stops early at %.1f%% of the commanded angle", 100*resp.PercentageComplete)
			return
		}
		resp.Waypoints = append(resp.Waypoints, referenceframe.InputsToFloats(state.Q))
	}

	last := interpolated[len(interpolated)-1]
	resp.TrajectoryIsValid = math.Abs(req.Theta-last.Theta) <= sp.opts.GoalProgressTolerance
	resp.PercentageComplete = last.Theta / req.Theta
	resp.PathLength = path.Length()
}
