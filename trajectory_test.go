package applanning

import (
	"context"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/rdk/referenceframe"
)

func TestPopulateResponsePartialTrajectory(t *testing.T) {
	planner := newTestPlanner(t, nil, nil)
	req := quarterTurnRequest()
	space, constraint, _ := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	validity, err := NewScrewValidityChecker(space, constraint, nil, planner.opts)
	test.That(t, err, test.ShouldBeNil)

	// A path that follows the valid sweep halfway, then veers off the
	// constraint: the response keeps the valid prefix and reports how far it
	// got.
	start := &State{Theta: 0, Q: referenceframe.FloatsToInputs([]float64{0.3, 0.5, -0.2})}
	mid := &State{Theta: math.Pi / 4, Q: referenceframe.FloatsToInputs([]float64{0.3 + math.Pi/4, 0.5, -0.2})}
	stray := &State{Theta: math.Pi / 2, Q: referenceframe.FloatsToInputs([]float64{0.3, -0.5, 1.0})}
	path := newSolvedPath(space, []*State{start, mid, stray})

	resp := &PlanResponse{}
	resp.reset()
	planner.populateResponse(context.Background(), path, req, space, validity, resp)

	test.That(t, resp.TrajectoryIsValid, test.ShouldBeFalse)
	test.That(t, resp.PercentageComplete, test.ShouldBeGreaterThan, 0.4)
	test.That(t, resp.PercentageComplete, test.ShouldBeLessThan, 1)
	test.That(t, len(resp.Waypoints), test.ShouldBeGreaterThan, 0)
	test.That(t, resp.PathLength, test.ShouldAlmostEqual, 0)

	// The kept prefix covers at least the sweep up to the midpoint.
	first := resp.Waypoints[0]
	last := resp.Waypoints[len(resp.Waypoints)-1]
	test.That(t, first[0], test.ShouldAlmostEqual, 0.3, 1e-6)
	test.That(t, last[0], test.ShouldBeGreaterThan, 0.3+math.Pi/4-0.1)
}

func TestPopulateResponseShortPath(t *testing.T) {
	planner := newTestPlanner(t, nil, nil)
	req := quarterTurnRequest()
	space, constraint, _ := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	validity, err := NewScrewValidityChecker(space, constraint, nil, planner.opts)
	test.That(t, err, test.ShouldBeNil)

	single := newSolvedPath(space, []*State{{Theta: 0, Q: referenceframe.FloatsToInputs([]float64{0.3, 0.5, -0.2})}})
	resp := &PlanResponse{}
	resp.reset()
	planner.populateResponse(context.Background(), single, req, space, validity, resp)

	test.That(t, resp.Waypoints, test.ShouldBeEmpty)
	test.That(t, resp.TrajectoryIsValid, test.ShouldBeFalse)
	test.That(t, resp.PercentageComplete, test.ShouldAlmostEqual, 0)
}

func TestSolvedPathInterpolate(t *testing.T) {
	space, _, _ := planarRotationProblem(t, []float64{0.3, 0.5, -0.2})
	a := &State{Theta: 0, Q: referenceframe.FloatsToInputs([]float64{0, 0, 0})}
	b := &State{Theta: 1, Q: referenceframe.FloatsToInputs([]float64{1, 0, 0})}
	path := newSolvedPath(space, []*State{a, b})
	test.That(t, path.Length(), test.ShouldAlmostEqual, math.Sqrt2)

	dense := path.Interpolate(space, 0.1)
	minStates := int(math.Ceil(math.Sqrt2/0.1)) + 1
	test.That(t, len(dense), test.ShouldBeGreaterThanOrEqualTo, minStates)
	for i := 1; i < len(dense); i++ {
		test.That(t, space.Distance(dense[i-1], dense[i]), test.ShouldBeLessThanOrEqualTo, 0.1+1e-9)
		test.That(t, dense[i].Theta, test.ShouldBeGreaterThan, dense[i-1].Theta)
	}
	test.That(t, dense[0], test.ShouldResemble, a)
	test.That(t, dense[len(dense)-1], test.ShouldResemble, b)
}
