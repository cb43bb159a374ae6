package applanning

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// ScrewPlanner plans joint trajectories realizing screw motions for one
// joint group. A planner is safe to reuse across requests; each Plan call
// builds its own state space, constraint, and collaborators.
type ScrewPlanner struct {
	group     *JointGroup
	solver    InverseKinematics
	collision CollisionChecker
	opts      *PlannerOptions
	logger    logging.Logger
}

// NewScrewPlanner creates a planner for a joint group. A nil solver selects
// the default nonlinear-optimization solver; a nil collision checker treats
// every configuration as collision free; nil options select the defaults.
func NewScrewPlanner(
	group *JointGroup,
	solver InverseKinematics,
	collision CollisionChecker,
	opts *PlannerOptions,
	logger logging.Logger,
) (*ScrewPlanner, error) {
	if group == nil {
		return nil, errors.New("screw planner requires a joint group")
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	if opts.PlannerConstructor == nil || opts.SamplerConstructor == nil || opts.ValidityConstructor == nil {
		return nil, errors.New("planner options must provide planner, sampler, and validity constructors")
	}
	if logger == nil {
		logger = logging.NewLogger("applanning")
	}
	if solver == nil {
		var err error
		solver, err = NewNloptInverseKinematics(group.Model(), logger)
		if err != nil {
			return nil, err
		}
	}
	return &ScrewPlanner{group: group, solver: solver, collision: collision, opts: opts, logger: logger}, nil
}

// Plan attempts to produce a joint trajectory realizing the requested screw
// motion. The response is never nil; on any result other than Success it is
// in its empty failed form.
func (sp *ScrewPlanner) Plan(ctx context.Context, req *PlanRequest) (*PlanResponse, Result) {
	resp := &PlanResponse{}
	resp.reset()
	if req == nil {
		sp.logger.Warn("plan called with a nil request")
		return resp, InitializationFail
	}
	if req.EEFrameName != "" && req.EEFrameName != sp.group.EndEffectorFrame() {
		sp.logger.Warnf("requested end-effector frame %q does not match the group's %q", req.EEFrameName, sp.group.EndEffectorFrame())
		return resp, InitializationFail
	}

	state := NewKinematicState(sp.group, sp.solver, sp.opts.RandomSeed)

	startPose, startGiven, err := sp.resolveStartPose(state, req)
	if err != nil {
		sp.logger.Warnw("unable to resolve a start pose", "error", err)
		return resp, InitializationFail
	}

	space, err := NewScrewStateSpace(sp.group, req.Theta)
	if err != nil {
		sp.logger.Warnw("unable to construct the state space", "error", err)
		return resp, InitializationFail
	}

	axis, err := sp.resolveScrewAxis(req, startPose)
	if err != nil {
		sp.logger.Warnw("unable to resolve the screw axis", "error", err)
		return resp, InitializationFail
	}
	constraint, err := NewScrewConstraint(axis, startPose, req.Theta)
	if err != nil {
		sp.logger.Warnw("unable to construct the screw constraint", "error", err)
		return resp, InitializationFail
	}

	if err := sp.recordSpaceParameters(space, req, axis, startPose); err != nil {
		sp.logger.Warnw("unable to record space parameters", "error", err)
		return resp, InitializationFail
	}
	space.Lock()

	validity, err := sp.opts.ValidityConstructor(space, constraint, sp.collision, sp.opts)
	if err != nil {
		sp.logger.Warnw("unable to construct the validity checker", "error", err)
		return resp, InitializationFail
	}
	//nolint:gosec
	rnd := rand.New(rand.NewSource(sp.opts.RandomSeed))
	sampler, err := sp.opts.SamplerConstructor(space, constraint, state, validity, sp.opts, rnd)
	if err != nil {
		sp.logger.Warnw("unable to construct the sampler", "error", err)
		return resp, InitializationFail
	}

	generator := &candidateGenerator{
		state:              state,
		numStarts:          sp.opts.NumStarts,
		numGoals:           sp.opts.NumGoals,
		duplicateThreshold: sp.opts.DuplicateThreshold,
		logger:             sp.logger,
	}
	var startConfigs, goalConfigs [][]referenceframe.Input
	if startGiven {
		startConfigs, goalConfigs, err = generator.findGoalStates(ctx, req.StartConfiguration, constraint.GoalPose())
	} else {
		startConfigs, goalConfigs, err = generator.findStartGoalStates(ctx, startPose, constraint.GoalPose())
	}
	if err != nil {
		sp.logger.Warnw("candidate generation failed", "error", err)
		return resp, NoIKSolution
	}

	starts := make([]*State, 0, len(startConfigs))
	for _, q := range startConfigs {
		starts = append(starts, &State{Theta: 0, Q: q})
	}
	goal := NewGoalRegion(space, sp.opts.GoalThreshold)
	for _, q := range goalConfigs {
		if err := goal.AddState(&State{Theta: req.Theta, Q: q}); err != nil {
			sp.logger.Debugw("dropping goal candidate", "error", err)
		}
	}
	if goal.Len() == 0 {
		return resp, NoIKSolution
	}

	problem := &SearchProblem{Space: space, Validity: validity, Sampler: sampler, Starts: starts, Goal: goal}
	search, err := sp.opts.PlannerConstructor(problem, sp.opts, sp.logger)
	if err != nil {
		sp.logger.Warnw("unable to construct the search algorithm", "error", err)
		return resp, InitializationFail
	}

	path, err := search.Solve(ctx, sp.opts.SolveTimeout)
	if err != nil || path == nil {
		sp.logger.Debugw("search failed", "error", err)
		return resp, PlanningFail
	}
	if simplified, err := search.Simplify(ctx, path, sp.opts.SimplifyTimeout); err == nil && simplified != nil {
		path = simplified
	}

	sp.populateResponse(ctx, path, req, space, validity, resp)
	return resp, Success
}

// resolveStartPose determines the starting end-effector pose, preferring a
// supplied start configuration over a supplied pose. A wrong-sized start
// configuration still takes the configuration path; candidate generation
// rejects it there.
func (sp *ScrewPlanner) resolveStartPose(state *KinematicState, req *PlanRequest) (spatialmath.Pose, bool, error) {
	if len(req.StartConfiguration) > 0 {
		if err := state.SetJointPositions(req.StartConfiguration); err != nil {
			pose := req.StartPose
			if pose == nil {
				pose = spatialmath.NewZeroPose()
			}
			return pose, true, nil
		}
		pose, err := state.EndEffectorPose()
		if err != nil {
			return nil, false, err
		}
		return pose, true, nil
	}
	if req.StartPose == nil {
		return nil, false, errors.New("request provides neither a start configuration nor a start pose")
	}
	return req.StartPose, false, nil
}

// resolveScrewAxis expresses the requested screw in the planning frame. A
// screw given in the end-effector frame is transformed through the start
// pose; any other frame name is rejected.
func (sp *ScrewPlanner) resolveScrewAxis(req *PlanRequest, startPose spatialmath.Pose) (*ScrewAxis, error) {
	axis, err := NewScrewAxis(req.Screw.Axis, req.Screw.Origin, req.Screw.Pitch)
	if err != nil {
		return nil, err
	}
	switch req.Screw.Frame {
	case "", referenceframe.World:
		return axis, nil
	case sp.group.EndEffectorFrame():
		return axis.Transformed(startPose), nil
	default:
		return nil, errors.Errorf("screw frame %q is neither the planning frame nor the end-effector frame", req.Screw.Frame)
	}
}

// recordSpaceParameters stores the fully resolved problem on the space,
// with the screw re-expressed in the planning frame.
func (sp *ScrewPlanner) recordSpaceParameters(space *ScrewStateSpace, req *PlanRequest, axis *ScrewAxis, startPose spatialmath.Pose) error {
	screwStr, err := screwToString(ScrewSpec{
		Axis:   axis.Direction,
		Origin: axis.Origin,
		Pitch:  axis.Pitch,
		Frame:  referenceframe.World,
	})
	if err != nil {
		return err
	}
	poseStr, err := poseToString(startPose)
	if err != nil {
		return err
	}
	return space.SetParameters(SpaceParameters{
		Screw:       screwStr,
		StartPose:   poseStr,
		EEFrameName: sp.group.EndEffectorFrame(),
		MoveGroup:   sp.group.Name(),
	})
}
