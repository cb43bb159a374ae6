package applanning

// Result is the outcome of a single planning attempt. It is flat rather than
// an error chain so that callers can switch on it directly; the detailed
// cause is logged by the planner.
type Result int

const (
	// Success indicates a trajectory was produced. The trajectory may still
	// be partial; the response reports validity and percentage complete.
	Success Result = iota

	// InitializationFail indicates the state space or screw constraint could
	// not be constructed from the request.
	InitializationFail

	// NoIKSolution indicates no usable start or goal configurations could be
	// found through inverse kinematics.
	NoIKSolution

	// PlanningFail indicates the search algorithm found no connecting path
	// within its time budget.
	PlanningFail
)

func (r Result) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case InitializationFail:
		return "INITIALIZATION_FAIL"
	case NoIKSolution:
		return "NO_IK_SOLUTION"
	case PlanningFail:
		return "PLANNING_FAIL"
	default:
		return "UNKNOWN"
	}
}
