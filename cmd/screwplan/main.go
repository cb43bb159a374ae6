// package main for exercising screw planning from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"

	applanning "github.com/UTNuclearRobotics/ap-planning"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	ctx := context.Background()
	logger := logging.NewLogger("screwplan")

	seed := flag.Int64("seed", 0, "random seed")
	timeout := flag.Duration("timeout", 5*time.Second, "search time budget")
	verbose := flag.Bool("v", false, "verbose")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logging.DEBUG)
	}

	req, err := loadRequest(logger)
	if err != nil {
		return err
	}

	group, err := demoArm()
	if err != nil {
		return err
	}

	opts := applanning.NewBasicPlannerOptions()
	opts.RandomSeed = *seed
	opts.SolveTimeout = *timeout

	planner, err := applanning.NewScrewPlanner(group, nil, nil, opts, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, result := planner.Plan(ctx, req)
	logger.Infof("planning finished in %v: %s", time.Since(start), result)

	if result != applanning.Success {
		return fmt.Errorf("planning failed: %s", result)
	}

	logger.Infof("trajectory valid: %v, completes %.1f%% of the screw, path length %.3f",
		resp.TrajectoryIsValid, 100*resp.PercentageComplete, resp.PathLength)
	logger.Infof("joints: %v", resp.JointNames)
	for i, waypoint := range resp.Waypoints {
		logger.Debugf("waypoint %3d: %v", i, waypoint)
	}
	logger.Infof("%d waypoints", len(resp.Waypoints))
	return nil
}

// loadRequest reads a request from the json file given as the positional
// argument, or falls back to a built-in quarter turn about the base.
func loadRequest(logger logging.Logger) (*applanning.PlanRequest, error) {
	if len(flag.Args()) == 0 {
		logger.Info("no request file given, using the built-in demo request")
		return &applanning.PlanRequest{
			Screw:              applanning.ScrewSpec{Axis: r3.Vector{Z: 1}},
			Theta:              math.Pi / 2,
			StartConfiguration: referenceframe.FloatsToInputs([]float64{0.3, 0.5, -0.2}),
		}, nil
	}
	logger.Infof("reading request from %s", flag.Arg(0))
	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return nil, err
	}
	req := &applanning.PlanRequest{}
	if err := json.Unmarshal(content, req); err != nil {
		return nil, err
	}
	return req, nil
}

// demoArm builds a three joint planar arm, 250mm fully extended.
func demoArm() (*applanning.JointGroup, error) {
	limit := referenceframe.Limit{Min: -math.Pi, Max: math.Pi}
	var joints []applanning.Joint
	for i, length := range []float64{100, 100, 50} {
		joint, err := applanning.NewRevoluteJoint(fmt.Sprintf("joint%d", i+1), spatialmath.R4AA{RZ: 1}, limit)
		if err != nil {
			return nil, err
		}
		link, err := applanning.NewFixedJoint(fmt.Sprintf("link%d", i+1),
			spatialmath.NewPoseFromPoint(r3.Vector{X: length}))
		if err != nil {
			return nil, err
		}
		joints = append(joints, joint, link)
	}
	return applanning.NewJointGroup("arm", "ee", joints)
}
