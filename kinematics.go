package applanning

import (
	"context"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// JointType labels the kinds of joints a planning group may contain.
type JointType string

const (
	JointRevolute  JointType = "revolute"
	JointPrismatic JointType = "prismatic"
	JointPlanar    JointType = "planar"
	JointFixed     JointType = "fixed"
)

// Planar joints are given synthetic translation bounds since their x/y
// motion is otherwise unbounded.
const planarExtentMM = 1e3

// Joint couples one or more referenceframe transforms with a joint type.
// A planar joint expands to two translational frames and a yaw frame; a
// fixed joint carries a static transform and contributes no variables.
type Joint struct {
	name      string
	jointType JointType
	frames    []referenceframe.Frame
}

// NewRevoluteJoint creates a single-axis rotational joint.
func NewRevoluteJoint(name string, axis spatialmath.R4AA, limit referenceframe.Limit) (Joint, error) {
	frame, err := referenceframe.NewRotationalFrame(name, axis, limit)
	if err != nil {
		return Joint{}, err
	}
	return Joint{name: name, jointType: JointRevolute, frames: []referenceframe.Frame{frame}}, nil
}

// NewPrismaticJoint creates a single-axis translational joint. Limits are in mm.
func NewPrismaticJoint(name string, axis r3.Vector, limit referenceframe.Limit) (Joint, error) {
	frame, err := referenceframe.NewTranslationalFrame(name, axis, limit)
	if err != nil {
		return Joint{}, err
	}
	return Joint{name: name, jointType: JointPrismatic, frames: []referenceframe.Frame{frame}}, nil
}

// NewPlanarJoint creates a joint free to translate in x/y and rotate about z,
// contributing three planning variables.
func NewPlanarJoint(name string) (Joint, error) {
	x, err := referenceframe.NewTranslationalFrame(
		name+"_x", r3.Vector{X: 1}, referenceframe.Limit{Min: -planarExtentMM, Max: planarExtentMM},
	)
	if err != nil {
		return Joint{}, err
	}
	y, err := referenceframe.NewTranslationalFrame(
		name+"_y", r3.Vector{Y: 1}, referenceframe.Limit{Min: -planarExtentMM, Max: planarExtentMM},
	)
	if err != nil {
		return Joint{}, err
	}
	yaw, err := referenceframe.NewRotationalFrame(
		name+"_theta", spatialmath.R4AA{RZ: 1}, referenceframe.Limit{Min: -math.Pi, Max: math.Pi},
	)
	if err != nil {
		return Joint{}, err
	}
	return Joint{name: name, jointType: JointPlanar, frames: []referenceframe.Frame{x, y, yaw}}, nil
}

// NewFixedJoint creates a static link transform.
func NewFixedJoint(name string, pose spatialmath.Pose) (Joint, error) {
	frame, err := referenceframe.NewStaticFrame(name, pose)
	if err != nil {
		return Joint{}, err
	}
	return Joint{name: name, jointType: JointFixed, frames: []referenceframe.Frame{frame}}, nil
}

// Name returns the joint name.
func (j Joint) Name() string {
	return j.name
}

// Type returns the joint type.
func (j Joint) Type() JointType {
	return j.jointType
}

// VariableNames returns one name per planning variable the joint contributes.
func (j Joint) VariableNames() []string {
	switch j.jointType {
	case JointRevolute, JointPrismatic:
		return []string{j.name}
	case JointPlanar:
		return []string{j.name + "/x", j.name + "/y", j.name + "/theta"}
	default:
		return nil
	}
}

// JointGroup is an ordered serial kinematic chain, base to end effector,
// whose active joints form the configuration space of a planning problem.
type JointGroup struct {
	name          string
	eeFrame       string
	joints        []Joint
	model         *referenceframe.SimpleModel
	limits        []referenceframe.Limit
	variableNames []string
}

// NewJointGroup assembles a chain of joints into a group named name whose
// final frame is the end effector eeFrame. At least one active joint is
// required. Joint limits are not validated here; the state space rejects
// unbounded joints when a plan is attempted.
func NewJointGroup(name, eeFrame string, joints []Joint) (*JointGroup, error) {
	if len(joints) == 0 {
		return nil, errors.New("joint group requires at least one joint")
	}
	model := referenceframe.NewSimpleModel(name)
	var limits []referenceframe.Limit
	var variableNames []string
	var errAll error
	for _, joint := range joints {
		switch joint.jointType {
		case JointRevolute, JointPrismatic, JointPlanar, JointFixed:
		default:
			multierr.AppendInto(&errAll, errors.Errorf("joint %q has unsupported type %q", joint.name, joint.jointType))
			continue
		}
		variableNames = append(variableNames, joint.VariableNames()...)
		for _, frame := range joint.frames {
			model.OrdTransforms = append(model.OrdTransforms, frame)
			limits = append(limits, frame.DoF()...)
		}
	}
	if errAll != nil {
		return nil, errAll
	}
	if len(limits) == 0 {
		return nil, errors.New("joint group has no active joints")
	}
	return &JointGroup{
		name:          name,
		eeFrame:       eeFrame,
		joints:        joints,
		model:         model,
		limits:        limits,
		variableNames: variableNames,
	}, nil
}

// Name returns the group name.
func (jg *JointGroup) Name() string {
	return jg.name
}

// EndEffectorFrame returns the name of the frame whose pose the group plans for.
func (jg *JointGroup) EndEffectorFrame() string {
	return jg.eeFrame
}

// Model returns the underlying kinematic model.
func (jg *JointGroup) Model() referenceframe.Model {
	return jg.model
}

// Joints returns the joints in chain order.
func (jg *JointGroup) Joints() []Joint {
	return jg.joints
}

// DoF returns the position limits of the group's planning variables.
func (jg *JointGroup) DoF() []referenceframe.Limit {
	out := make([]referenceframe.Limit, len(jg.limits))
	copy(out, jg.limits)
	return out
}

// VariableCount returns the number of planning variables.
func (jg *JointGroup) VariableCount() int {
	return len(jg.limits)
}

// VariableNames returns the planning variable names in chain order.
func (jg *JointGroup) VariableNames() []string {
	out := make([]string, len(jg.variableNames))
	copy(out, jg.variableNames)
	return out
}

// Transform returns the end-effector pose for the given configuration.
func (jg *JointGroup) Transform(q []referenceframe.Input) (spatialmath.Pose, error) {
	return jg.model.Transform(q)
}

// InverseKinematics is the solver collaborator the planner draws candidate
// configurations from. Solvers are best-effort and seed-sensitive: distinct
// seeds may produce distinct solutions for the same goal, and failure to
// solve is reported as an error, not a panic.
type InverseKinematics interface {
	Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error)
}

// KinematicState is a mutable scratch configuration of a joint group, reused
// across forward and inverse kinematics calls. It is not safe for concurrent
// use; each planning attempt owns its own.
type KinematicState struct {
	group  *JointGroup
	solver InverseKinematics
	inputs []referenceframe.Input
	rnd    *rand.Rand
}

// NewKinematicState creates a scratch state at the zero configuration.
func NewKinematicState(group *JointGroup, solver InverseKinematics, seed int64) *KinematicState {
	//nolint:gosec
	return &KinematicState{
		group:  group,
		solver: solver,
		inputs: make([]referenceframe.Input, group.VariableCount()),
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Group returns the joint group the state belongs to.
func (ks *KinematicState) Group() *JointGroup {
	return ks.group
}

// JointPositions returns a copy of the current configuration.
func (ks *KinematicState) JointPositions() []referenceframe.Input {
	out := make([]referenceframe.Input, len(ks.inputs))
	copy(out, ks.inputs)
	return out
}

// SetJointPositions overwrites the current configuration. The given slice
// must match the group's variable count exactly.
func (ks *KinematicState) SetJointPositions(q []referenceframe.Input) error {
	if len(q) != len(ks.inputs) {
		return errors.Errorf("given %d joint positions for a group with %d variables", len(q), len(ks.inputs))
	}
	copy(ks.inputs, q)
	return nil
}

// SetToRandomPositions draws a uniform configuration within the joint limits.
func (ks *KinematicState) SetToRandomPositions() {
	ks.inputs = referenceframe.RandomFrameInputs(ks.group.model, ks.rnd)
}

// EndEffectorPose returns the forward kinematics of the current configuration.
func (ks *KinematicState) EndEffectorPose() (spatialmath.Pose, error) {
	return ks.group.Transform(ks.inputs)
}

// SetFromIK attempts to move the state to a configuration reaching the goal
// pose, seeding the solver with the current configuration. It reports whether
// a solution was found; on failure the configuration is left unchanged.
func (ks *KinematicState) SetFromIK(ctx context.Context, goal spatialmath.Pose) bool {
	solution, err := ks.solver.Solve(ctx, goal, ks.inputs)
	if err != nil || len(solution) != len(ks.inputs) {
		return false
	}
	copy(ks.inputs, solution)
	return true
}
