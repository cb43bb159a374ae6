package applanning

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/rdk/spatialmath"
)

// ScrewAxis is a geometric screw: a unit direction, a point the axis passes
// through, and a pitch coupling translation along the axis to rotation about
// it (mm per radian). A pure rotation has zero pitch.
type ScrewAxis struct {
	Direction r3.Vector
	Origin    r3.Vector
	Pitch     float64
}

// NewScrewAxis creates a ScrewAxis, normalizing the direction vector.
func NewScrewAxis(direction, origin r3.Vector, pitch float64) (*ScrewAxis, error) {
	if direction.Norm() < floatEpsilon {
		return nil, errZeroAxis
	}
	return &ScrewAxis{Direction: direction.Normalize(), Origin: origin, Pitch: pitch}, nil
}

// Displacement returns the rigid transformation produced by moving theta
// radians along the screw: a rotation of theta about the axis combined with
// the translation that keeps axis points fixed, plus pitch*theta along the
// axis direction.
func (s *ScrewAxis) Displacement(theta float64) spatialmath.Pose {
	rot := &spatialmath.R4AA{Theta: theta, RX: s.Direction.X, RY: s.Direction.Y, RZ: s.Direction.Z}
	translation := s.Origin.Sub(rotateVector(rot, s.Origin)).Add(s.Direction.Mul(s.Pitch * theta))
	return spatialmath.NewPose(translation, rot)
}

// Transformed re-expresses the screw axis in the frame the given pose maps
// into, rotating the direction and transforming the origin point.
func (s *ScrewAxis) Transformed(tf spatialmath.Pose) *ScrewAxis {
	return &ScrewAxis{
		Direction: rotateVector(tf.Orientation(), s.Direction),
		Origin:    spatialmath.Compose(tf, spatialmath.NewPoseFromPoint(s.Origin)).Point(),
		Pitch:     s.Pitch,
	}
}

// rotateVector applies only the rotation of the given orientation to a vector.
func rotateVector(o spatialmath.Orientation, v r3.Vector) r3.Vector {
	return spatialmath.Compose(spatialmath.NewPose(r3.Vector{}, o), spatialmath.NewPoseFromPoint(v)).Point()
}

// ScrewConstraint ties an end-effector start pose to a screw axis: the pose
// demanded at progress theta is the screw displacement of theta applied to
// the start pose. The constraint is immutable once built.
type ScrewConstraint struct {
	axis      *ScrewAxis
	startPose spatialmath.Pose
	maxTheta  float64
}

// NewScrewConstraint creates a constraint covering progress values in
// [0, maxTheta]. Both the axis and the start pose must be expressed in the
// planning frame.
func NewScrewConstraint(axis *ScrewAxis, startPose spatialmath.Pose, maxTheta float64) (*ScrewConstraint, error) {
	if axis == nil || startPose == nil {
		return nil, errors.New("screw constraint requires both an axis and a start pose")
	}
	if maxTheta <= 0 {
		return nil, errZeroScrew
	}
	return &ScrewConstraint{axis: axis, startPose: startPose, maxTheta: maxTheta}, nil
}

// PoseAt returns the end-effector pose the screw demands at the given
// progress value.
func (c *ScrewConstraint) PoseAt(theta float64) spatialmath.Pose {
	return spatialmath.Compose(c.axis.Displacement(theta), c.startPose)
}

// StartPose returns the pose at zero progress.
func (c *ScrewConstraint) StartPose() spatialmath.Pose {
	return c.startPose
}

// GoalPose returns the pose at maximal progress.
func (c *ScrewConstraint) GoalPose() spatialmath.Pose {
	return c.PoseAt(c.maxTheta)
}

// MaxTheta returns the commanded screw angle.
func (c *ScrewConstraint) MaxTheta() float64 {
	return c.maxTheta
}

// Axis returns the screw axis in the planning frame.
func (c *ScrewConstraint) Axis() *ScrewAxis {
	return c.axis
}

// poseWithinTolerance reports whether two poses agree to within a position
// tolerance (mm) and an orientation tolerance (radians of rotation between
// the two orientations).
func poseWithinTolerance(a, b spatialmath.Pose, posTol, angTol float64) bool {
	if a.Point().Sub(b.Point()).Norm() > posTol {
		return false
	}
	diff := spatialmath.OrientationBetween(a.Orientation(), b.Orientation()).AxisAngles()
	return math.Abs(diff.Theta) <= angTol
}
