package applanning

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// planarRotationProblem builds the shared test scenario: the planar arm with
// a quarter-turn screw about the base z axis, which the arm follows exactly
// by sweeping its first joint.
func planarRotationProblem(t *testing.T, startQ []float64) (*ScrewStateSpace, *ScrewConstraint, *KinematicState) {
	t.Helper()
	group := newPlanarArm(t)
	state := NewKinematicState(group, newPlanarIK(group), 1)
	test.That(t, state.SetJointPositions(referenceframe.FloatsToInputs(startQ)), test.ShouldBeNil)
	startPose, err := state.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)

	axis, err := NewScrewAxis(r3.Vector{Z: 1}, r3.Vector{}, 0)
	test.That(t, err, test.ShouldBeNil)
	constraint, err := NewScrewConstraint(axis, startPose, math.Pi/2)
	test.That(t, err, test.ShouldBeNil)
	space, err := NewScrewStateSpace(group, math.Pi/2)
	test.That(t, err, test.ShouldBeNil)
	return space, constraint, state
}

func TestScrewSampler(t *testing.T) {
	space, constraint, state := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	sampler, err := NewScrewSampler(space, constraint, state, alwaysValid{}, NewBasicPlannerOptions(), rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 20; i++ {
		sample, err := sampler.Sample(context.Background())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, space.InBounds(sample), test.ShouldBeTrue)
	}
}

func TestScrewValidSampler(t *testing.T) {
	space, constraint, state := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	opts := NewBasicPlannerOptions()
	checker, err := NewScrewValidityChecker(space, constraint, nil, opts)
	test.That(t, err, test.ShouldBeNil)
	sampler, err := NewScrewValidSampler(space, constraint, state, checker, opts, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)

	// Every sample is in bounds, on the constraint, and therefore valid.
	for i := 0; i < 10; i++ {
		sample, err := sampler.Sample(context.Background())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, space.InBounds(sample), test.ShouldBeTrue)
		test.That(t, checker.Valid(context.Background(), sample), test.ShouldBeTrue)
	}
}

func TestScrewValidSamplerExhaustion(t *testing.T) {
	space, constraint, state := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	opts := NewBasicPlannerOptions()
	opts.SampleAttempts = 3
	checker, err := NewScrewValidityChecker(space, constraint, rejectAllCollisions{}, opts)
	test.That(t, err, test.ShouldBeNil)
	sampler, err := NewScrewValidSampler(space, constraint, state, checker, opts, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)

	_, err = sampler.Sample(context.Background())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestScrewValidityChecker(t *testing.T) {
	space, constraint, state := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	checker, err := NewScrewValidityChecker(space, constraint, nil, NewBasicPlannerOptions())
	test.That(t, err, test.ShouldBeNil)
	ctx := context.Background()

	// The start configuration sits on the constraint at zero progress.
	start := &State{Theta: 0, Q: state.JointPositions()}
	test.That(t, checker.Valid(ctx, start), test.ShouldBeTrue)

	// The same configuration at a different progress is off the constraint.
	test.That(t, checker.Valid(ctx, &State{Theta: 1, Q: start.Q}), test.ShouldBeFalse)

	// Sweeping the base joint with progress stays on the constraint.
	swept := &State{Theta: 0.4, Q: referenceframe.FloatsToInputs([]float64{0.7, 0.5, -0.2})}
	test.That(t, checker.Valid(ctx, swept), test.ShouldBeTrue)

	// Out of bounds fails before anything else.
	test.That(t, checker.Valid(ctx, &State{Theta: 2, Q: start.Q}), test.ShouldBeFalse)

	// Collisions reject otherwise valid states.
	colliding, err := NewScrewValidityChecker(space, constraint, rejectAllCollisions{}, NewBasicPlannerOptions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, colliding.Valid(ctx, start), test.ShouldBeFalse)
}

func TestObstacleChecker(t *testing.T) {
	group := newPlanarArm(t)
	// A sphere riding on the end effector.
	source := func(q []referenceframe.Input) ([]spatialmath.Geometry, error) {
		pose, err := group.Transform(q)
		if err != nil {
			return nil, err
		}
		sphere, err := spatialmath.NewSphere(pose, 10, "ee")
		if err != nil {
			return nil, err
		}
		return []spatialmath.Geometry{sphere}, nil
	}
	obstacle, err := spatialmath.NewSphere(spatialmath.NewPoseFromPoint(r3.Vector{X: testLink1 + testLink2 + testLink3}), 20, "wall")
	test.That(t, err, test.ShouldBeNil)
	checker := NewObstacleChecker(source, []spatialmath.Geometry{obstacle}, logging.NewTestLogger(t))

	// Stretched out, the end effector is inside the obstacle.
	test.That(t, checker.CollisionFree(referenceframe.FloatsToInputs([]float64{0, 0, 0})), test.ShouldBeFalse)
	// Folded away, it is clear.
	test.That(t, checker.CollisionFree(referenceframe.FloatsToInputs([]float64{math.Pi / 2, math.Pi / 2, 0})), test.ShouldBeTrue)
}
