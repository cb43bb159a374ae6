package applanning

import (
	"encoding/json"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// ScrewSpec describes a commanded screw motion on the wire: an axis
// direction, a point the axis passes through, a pitch in mm per radian, and
// the name of the frame the screw is expressed in. An empty frame means the
// planning frame.
type ScrewSpec struct {
	Axis   r3.Vector `json:"axis"`
	Origin r3.Vector `json:"origin"`
	Pitch  float64   `json:"pitch"`
	Frame  string    `json:"frame,omitempty"`
}

// PlanRequest is a single screw planning problem. Exactly one of
// StartConfiguration and StartPose is required; when both are present the
// configuration wins and the pose is ignored.
type PlanRequest struct {
	// Screw is the commanded motion.
	Screw ScrewSpec
	// Theta is the commanded screw angle in radians; it must be positive.
	Theta float64
	// EEFrameName optionally names the end-effector frame; when set it must
	// match the planning group's.
	EEFrameName string
	// StartConfiguration optionally fixes the starting joint configuration.
	StartConfiguration []referenceframe.Input
	// StartPose optionally gives the starting end-effector pose when the
	// configuration is not known.
	StartPose spatialmath.Pose
}

type planRequestWire struct {
	Screw       ScrewSpec   `json:"screw"`
	Theta       float64     `json:"theta"`
	EEFrameName string      `json:"ee_frame_name,omitempty"`
	StartJoints []float64   `json:"start_joint_state,omitempty"`
	StartPose   *poseConfig `json:"start_pose,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (req *PlanRequest) MarshalJSON() ([]byte, error) {
	wire := planRequestWire{
		Screw:       req.Screw,
		Theta:       req.Theta,
		EEFrameName: req.EEFrameName,
	}
	if len(req.StartConfiguration) > 0 {
		wire.StartJoints = referenceframe.InputsToFloats(req.StartConfiguration)
	}
	if req.StartPose != nil {
		pc := poseToConfig(req.StartPose)
		wire.StartPose = &pc
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (req *PlanRequest) UnmarshalJSON(data []byte) error {
	var wire planRequestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	req.Screw = wire.Screw
	req.Theta = wire.Theta
	req.EEFrameName = wire.EEFrameName
	req.StartConfiguration = nil
	if len(wire.StartJoints) > 0 {
		req.StartConfiguration = referenceframe.FloatsToInputs(wire.StartJoints)
	}
	req.StartPose = nil
	if wire.StartPose != nil {
		req.StartPose = wire.StartPose.pose()
	}
	return nil
}

// PlanResponse is the output of one planning attempt. On any failure, and
// on a trajectory that stops early, the response carries exactly the fields
// meaningful for that outcome and zero values elsewhere.
type PlanResponse struct {
	// JointNames names the columns of each waypoint, in chain order.
	JointNames []string `json:"joint_names"`
	// Waypoints are joint configurations ordered by increasing progress.
	Waypoints [][]float64 `json:"waypoints"`
	// TrajectoryIsValid is true only when every waypoint validated and the
	// final progress reached the commanded angle.
	TrajectoryIsValid bool `json:"trajectory_is_valid"`
	// PercentageComplete is the fraction of the commanded angle the
	// trajectory covers, in [0, 1].
	PercentageComplete float64 `json:"percentage_complete"`
	// PathLength is the state-space length of the solved path, before
	// densification. Only set for fully valid trajectories.
	PathLength float64 `json:"path_length"`
}

// reset returns the response to its empty failed form.
func (resp *PlanResponse) reset() {
	resp.JointNames = nil
	resp.Waypoints = nil
	resp.TrajectoryIsValid = false
	resp.PercentageComplete = 0
	resp.PathLength = 0
}
