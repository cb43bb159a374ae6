// Package applanning plans robot joint-space trajectories that realize
// commanded screw motions: rigid-body rotations about, and translations
// along, a fixed axis, parameterized by a single progress angle. Higher
// level task planners use it to make an end effector follow an
// affordance-defined screw path (opening a door, turning a valve) without
// hand-specifying intermediate joint configurations.
//
// The pipeline couples a scalar progress variable to the joint variables of
// a kinematic group, constrains accepted configurations to those whose
// forward kinematics match the pose the screw demands at their progress
// value, generates pools of start and goal configurations through repeated
// inverse kinematics, and hands the resulting problem to a sampling-based
// global search algorithm. Kinematics, spatial math, and inverse kinematics
// come from go.viam.com/rdk; the search algorithm, sampler, and validity
// checker are swappable through capability interfaces.
package applanning
