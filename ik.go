package applanning

import (
	"context"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan/ik"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

const defaultNloptIterations = 5000

// nloptIK adapts the rdk nonlinear-optimization solver to the
// InverseKinematics interface, returning the first exact solution found.
type nloptIK struct {
	solver *ik.NloptIK
	logger logging.Logger
	rseed  int
}

// NewNloptInverseKinematics creates the default solver for a kinematic model.
func NewNloptInverseKinematics(model referenceframe.Frame, logger logging.Logger) (InverseKinematics, error) {
	solver, err := ik.CreateNloptIKSolver(model, logger, defaultNloptIterations, true)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create nlopt ik solver")
	}
	return &nloptIK{solver: solver, logger: logger}, nil
}

func (n *nloptIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error) {
	ctxWithCancel, cancel := context.WithCancel(ctx)
	defer cancel()

	solutionGen := make(chan *ik.Solution, 1)
	errChan := make(chan error, 1)
	n.rseed++
	rseed := n.rseed

	goutils.PanicCapturingGo(func() {
		defer close(solutionGen)
		errChan <- n.solver.Solve(ctxWithCancel, solutionGen, seed, ik.NewSquaredNormMetric(goal), rseed)
	})

	var solved []referenceframe.Input
	for solution := range solutionGen {
		if solution == nil {
			continue
		}
		if solved == nil {
			solved = solution.Configuration
			// One solution is enough; stop the solver and drain.
			cancel()
		}
	}
	err := <-errChan

	if solved == nil {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("ik produced no solution")
	}
	return solved, nil
}
