package applanning

import "github.com/pkg/errors"

var (
	errZeroAxis = errors.New("screw axis direction may not be the zero vector")

	errZeroScrew = errors.New("commanded screw angle must be positive")

	errUnboundedJoint = errors.New("active joint has no finite position bounds")

	errSpaceLocked = errors.New("state space is locked against parameter changes")

	errNoIKSolutions = errors.New("unable to find any valid start or goal configurations")

	errSamplerExhausted = errors.New("sampler exhausted its attempt budget without a valid state")

	errPlannerFailed = errors.New("planner failed to find a path between start and goal states")
)
