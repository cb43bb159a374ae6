package applanning

import "time"

// default values for screw planning options.
const (
	// how many distinct start configurations to collect when no start
	// configuration is given.
	defaultNumStarts = 5

	// how many distinct goal configurations to collect.
	defaultNumGoals = 10

	// allowable end-effector position error from the constraint pose, mm.
	defaultPositionToleranceMM = 5.0

	// allowable end-effector orientation error from the constraint pose,
	// radians; half a degree.
	defaultAngleToleranceRad = 0.0087

	// joint-space L2 distance below which two ik solutions are duplicates.
	defaultDuplicateThreshold = 0.05

	// state-space distance below which a state satisfies the goal region.
	defaultGoalThreshold = 1e-4

	// motion validation and trajectory densification spacing, in combined
	// state-space distance.
	defaultResolution = 0.05

	// how many nearest roadmap nodes to attempt connections against.
	defaultMaxNeighbors = 10

	// retry budget for drawing a single valid sample.
	defaultSampleAttempts = 50

	// the final progress of a trajectory must be within this much of the
	// commanded angle for the trajectory to be valid, radians.
	defaultGoalProgressTolerance = 0.01

	floatEpsilon = 1e-9
)

const (
	defaultSolveTimeout    = 5 * time.Second
	defaultSimplifyTimeout = time.Second
)

// PlannerOptions configures a ScrewPlanner. Zero values fall back to the
// defaults above; the constructor fields swap the search algorithm, sampler,
// and validity checker.
type PlannerOptions struct {
	NumStarts             int     `json:"num_starts"`
	NumGoals              int     `json:"num_goals"`
	PositionTolerance     float64 `json:"position_tolerance_mm"`
	AngleTolerance        float64 `json:"angle_tolerance_rad"`
	DuplicateThreshold    float64 `json:"duplicate_threshold"`
	GoalThreshold         float64 `json:"goal_threshold"`
	Resolution            float64 `json:"resolution"`
	MaxNeighbors          int     `json:"max_neighbors"`
	SampleAttempts        int     `json:"sample_attempts"`
	GoalProgressTolerance float64 `json:"goal_progress_tolerance"`
	RandomSeed            int64   `json:"random_seed"`

	SolveTimeout    time.Duration `json:"-"`
	SimplifyTimeout time.Duration `json:"-"`

	PlannerConstructor  SearchAlgorithmConstructor `json:"-"`
	SamplerConstructor  SamplerConstructor         `json:"-"`
	ValidityConstructor ValidityCheckerConstructor `json:"-"`
}

// NewBasicPlannerOptions specifies a set of default planner options.
func NewBasicPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		NumStarts:             defaultNumStarts,
		NumGoals:              defaultNumGoals,
		PositionTolerance:     defaultPositionToleranceMM,
		AngleTolerance:        defaultAngleToleranceRad,
		DuplicateThreshold:    defaultDuplicateThreshold,
		GoalThreshold:         defaultGoalThreshold,
		Resolution:            defaultResolution,
		MaxNeighbors:          defaultMaxNeighbors,
		SampleAttempts:        defaultSampleAttempts,
		GoalProgressTolerance: defaultGoalProgressTolerance,
		SolveTimeout:          defaultSolveTimeout,
		SimplifyTimeout:       defaultSimplifyTimeout,
		PlannerConstructor:    NewRoadmapPlanner,
		SamplerConstructor:    NewScrewValidSampler,
		ValidityConstructor:   NewScrewValidityChecker,
	}
}
