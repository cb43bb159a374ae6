package applanning

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// link lengths of the planar test arm, mm.
const (
	testLink1 = 100.
	testLink2 = 100.
	testLink3 = 50.
)

// newPlanarArm builds a 3R arm in the xy plane: three z-axis revolute joints
// with links along x between them.
func newPlanarArm(t *testing.T) *JointGroup {
	t.Helper()
	limit := referenceframe.Limit{Min: -math.Pi, Max: math.Pi}
	joint1, err := NewRevoluteJoint("joint1", spatialmath.R4AA{RZ: 1}, limit)
	test.That(t, err, test.ShouldBeNil)
	link1, err := NewFixedJoint("link1", spatialmath.NewPoseFromPoint(r3.Vector{X: testLink1}))
	test.That(t, err, test.ShouldBeNil)
	joint2, err := NewRevoluteJoint("joint2", spatialmath.R4AA{RZ: 1}, limit)
	test.That(t, err, test.ShouldBeNil)
	link2, err := NewFixedJoint("link2", spatialmath.NewPoseFromPoint(r3.Vector{X: testLink2}))
	test.That(t, err, test.ShouldBeNil)
	joint3, err := NewRevoluteJoint("joint3", spatialmath.R4AA{RZ: 1}, limit)
	test.That(t, err, test.ShouldBeNil)
	link3, err := NewFixedJoint("link3", spatialmath.NewPoseFromPoint(r3.Vector{X: testLink3}))
	test.That(t, err, test.ShouldBeNil)
	group, err := NewJointGroup("arm", "ee", []Joint{joint1, link1, joint2, link2, joint3, link3})
	test.That(t, err, test.ShouldBeNil)
	return group
}

// planarIK solves the 3R planar arm analytically. The elbow branch follows
// the sign of the second seed joint, so random seeds exercise both branches.
type planarIK struct {
	limits []referenceframe.Limit
}

func newPlanarIK(group *JointGroup) *planarIK {
	return &planarIK{limits: group.DoF()}
}

func (p *planarIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error) {
	if len(seed) != 3 {
		return nil, errors.Errorf("planar ik requires a 3 joint seed, got %d", len(seed))
	}
	pt := goal.Point()
	if math.Abs(pt.Z) > 1e-6 {
		return nil, errors.New("goal is out of the arm's plane")
	}
	aa := goal.Orientation().AxisAngles()
	if aa.Theta > 1e-9 && math.Abs(aa.RZ) < 1-1e-6 {
		return nil, errors.New("goal orientation is out of the arm's plane")
	}
	phi := aa.Theta * aa.RZ
	wx := pt.X - testLink3*math.Cos(phi)
	wy := pt.Y - testLink3*math.Sin(phi)
	reach := math.Hypot(wx, wy)
	if reach > testLink1+testLink2 || reach < math.Abs(testLink1-testLink2) {
		return nil, errors.New("goal is out of reach")
	}
	cosq2 := (reach*reach - testLink1*testLink1 - testLink2*testLink2) / (2 * testLink1 * testLink2)
	cosq2 = math.Max(-1, math.Min(1, cosq2))
	q2 := math.Acos(cosq2)
	if seed[1].Value < 0 {
		q2 = -q2
	}
	q1 := math.Atan2(wy, wx) - math.Atan2(testLink2*math.Sin(q2), testLink1+testLink2*math.Cos(q2))
	q3 := phi - q1 - q2
	q := referenceframe.FloatsToInputs([]float64{wrapAngle(q1), wrapAngle(q2), wrapAngle(q3)})
	for i, limit := range p.limits {
		if q[i].Value < limit.Min || q[i].Value > limit.Max {
			return nil, errors.New("solution violates joint limits")
		}
	}
	return q, nil
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// fixedIK returns a canned sequence of solutions, cycling once exhausted.
type fixedIK struct {
	solutions [][]referenceframe.Input
	calls     int
}

func (f *fixedIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error) {
	if len(f.solutions) == 0 {
		return nil, errors.New("no solution")
	}
	solution := f.solutions[f.calls%len(f.solutions)]
	f.calls++
	out := make([]referenceframe.Input, len(solution))
	copy(out, solution)
	return out, nil
}

// alwaysValid accepts every state; neverValid rejects every state.
type alwaysValid struct{}

func (alwaysValid) Valid(ctx context.Context, state *State) bool { return true }

type neverValid struct{}

func (neverValid) Valid(ctx context.Context, state *State) bool { return false }

type rejectAllCollisions struct{}

func (rejectAllCollisions) CollisionFree(q []referenceframe.Input) bool { return false }
