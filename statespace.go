package applanning

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// State pairs a screw progress value with a joint configuration. Progress is
// always the first coordinate of the compound space.
type State struct {
	Theta float64
	Q     []referenceframe.Input
}

// Copy returns a deep copy of the state.
func (s *State) Copy() *State {
	q := make([]referenceframe.Input, len(s.Q))
	copy(q, s.Q)
	return &State{Theta: s.Theta, Q: q}
}

// SpaceParameters are the request-derived values recorded on a state space
// during setup so that downstream collaborators can reconstruct the problem.
// The screw and start pose are stored serialized.
type SpaceParameters struct {
	Screw       string `json:"screw_param"`
	StartPose   string `json:"pose_param"`
	EEFrameName string `json:"ee_frame_name"`
	MoveGroup   string `json:"move_group"`
}

// ScrewStateSpace is the compound planning space: progress in [0, maxTheta]
// crossed with the joint limits of a group. Construction fails if any joint
// is unbounded or the commanded angle is not positive.
type ScrewStateSpace struct {
	group       *JointGroup
	thetaLimit  referenceframe.Limit
	jointLimits []referenceframe.Limit
	params      SpaceParameters
	locked      bool
}

// NewScrewStateSpace creates the compound space for a group and a commanded
// screw angle.
func NewScrewStateSpace(group *JointGroup, maxTheta float64) (*ScrewStateSpace, error) {
	if group == nil {
		return nil, errors.New("state space requires a joint group")
	}
	if maxTheta <= 0 {
		return nil, errZeroScrew
	}
	limits := group.DoF()
	names := group.VariableNames()
	var errAll error
	for i, limit := range limits {
		if math.IsInf(limit.Min, 0) || math.IsInf(limit.Max, 0) || limit.Min > limit.Max {
			multierr.AppendInto(&errAll, errors.Wrapf(errUnboundedJoint, "variable %q", names[i]))
		}
	}
	if errAll != nil {
		return nil, errAll
	}
	return &ScrewStateSpace{
		group:       group,
		thetaLimit:  referenceframe.Limit{Min: 0, Max: maxTheta},
		jointLimits: limits,
	}, nil
}

// Group returns the joint group the space plans over.
func (s *ScrewStateSpace) Group() *JointGroup {
	return s.group
}

// ThetaLimit returns the progress bounds.
func (s *ScrewStateSpace) ThetaLimit() referenceframe.Limit {
	return s.thetaLimit
}

// JointLimits returns the joint variable bounds.
func (s *ScrewStateSpace) JointLimits() []referenceframe.Limit {
	return s.jointLimits
}

// Dimensions returns the number of coordinates in the compound space.
func (s *ScrewStateSpace) Dimensions() int {
	return 1 + len(s.jointLimits)
}

// SetParameters records problem parameters on the space. It fails once the
// space is locked.
func (s *ScrewStateSpace) SetParameters(params SpaceParameters) error {
	if s.locked {
		return errSpaceLocked
	}
	s.params = params
	return nil
}

// Parameters returns the recorded problem parameters.
func (s *ScrewStateSpace) Parameters() SpaceParameters {
	return s.params
}

// Lock freezes the space against further parameter changes. Planning locks
// the space before handing it to the search algorithm.
func (s *ScrewStateSpace) Lock() {
	s.locked = true
}

// Locked reports whether the space has been locked.
func (s *ScrewStateSpace) Locked() bool {
	return s.locked
}

// InBounds reports whether every coordinate of the state is within the
// space's limits. States of the wrong dimensionality are out of bounds.
func (s *ScrewStateSpace) InBounds(state *State) bool {
	if state == nil || len(state.Q) != len(s.jointLimits) {
		return false
	}
	if state.Theta < s.thetaLimit.Min || state.Theta > s.thetaLimit.Max {
		return false
	}
	for i, limit := range s.jointLimits {
		if state.Q[i].Value < limit.Min || state.Q[i].Value > limit.Max {
			return false
		}
	}
	return true
}

// Distance is the L2 norm over the combined progress and joint coordinates.
func (s *ScrewStateSpace) Distance(a, b *State) float64 {
	diff := make([]float64, 0, 1+len(a.Q))
	diff = append(diff, b.Theta-a.Theta)
	for i := range a.Q {
		diff = append(diff, b.Q[i].Value-a.Q[i].Value)
	}
	return floats.Norm(diff, 2)
}

// Interpolate returns the state the fraction by of the way from one state to
// another, interpolating progress and joints together.
func (s *ScrewStateSpace) Interpolate(from, to *State, by float64) *State {
	q := make([]referenceframe.Input, len(from.Q))
	for i := range from.Q {
		q[i] = referenceframe.Input{Value: from.Q[i].Value + (to.Q[i].Value-from.Q[i].Value)*by}
	}
	return &State{Theta: from.Theta + (to.Theta-from.Theta)*by, Q: q}
}

// poseConfig mirrors the JSON wire form of a pose: position in mm and an
// orientation vector in degrees.
type poseConfig struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Theta float64 `json:"theta"`
	OX    float64 `json:"ox"`
	OY    float64 `json:"oy"`
	OZ    float64 `json:"oz"`
}

func poseToConfig(p spatialmath.Pose) poseConfig {
	pt := p.Point()
	ov := p.Orientation().OrientationVectorDegrees()
	return poseConfig{X: pt.X, Y: pt.Y, Z: pt.Z, Theta: ov.Theta, OX: ov.OX, OY: ov.OY, OZ: ov.OZ}
}

func (pc poseConfig) pose() spatialmath.Pose {
	ov := &spatialmath.OrientationVectorDegrees{Theta: pc.Theta, OX: pc.OX, OY: pc.OY, OZ: pc.OZ}
	if ov.OX == 0 && ov.OY == 0 && ov.OZ == 0 {
		ov.OZ = 1
	}
	return spatialmath.NewPose(r3.Vector{X: pc.X, Y: pc.Y, Z: pc.Z}, ov)
}

func screwToString(spec ScrewSpec) (string, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func screwFromString(s string) (ScrewSpec, error) {
	var spec ScrewSpec
	if err := json.Unmarshal([]byte(s), &spec); err != nil {
		return ScrewSpec{}, err
	}
	return spec, nil
}

func poseToString(p spatialmath.Pose) (string, error) {
	b, err := json.Marshal(poseToConfig(p))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func poseFromString(s string) (spatialmath.Pose, error) {
	var pc poseConfig
	if err := json.Unmarshal([]byte(s), &pc); err != nil {
		return nil, err
	}
	return pc.pose(), nil
}
