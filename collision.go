package applanning

import (
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// CollisionChecker is the collision collaborator of the validity pipeline.
// A nil checker means every configuration is collision free.
type CollisionChecker interface {
	// CollisionFree reports whether the configuration avoids all obstacles.
	CollisionFree(q []referenceframe.Input) bool
}

// GeometrySource produces the group's link geometries, posed in the planning
// frame, for a given configuration.
type GeometrySource func(q []referenceframe.Input) ([]spatialmath.Geometry, error)

// obstacleChecker tests link geometries against a static set of world
// obstacles.
type obstacleChecker struct {
	source    GeometrySource
	obstacles []spatialmath.Geometry
	logger    logging.Logger
}

// NewObstacleChecker creates a checker that rejects configurations whose
// link geometries intersect any of the given obstacles.
func NewObstacleChecker(source GeometrySource, obstacles []spatialmath.Geometry, logger logging.Logger) CollisionChecker {
	return &obstacleChecker{source: source, obstacles: obstacles, logger: logger}
}

func (c *obstacleChecker) CollisionFree(q []referenceframe.Input) bool {
	geometries, err := c.source(q)
	if err != nil {
		c.logger.Debugw("unable to compute link geometries", "error", err)
		return false
	}
	for _, link := range geometries {
		for _, obstacle := range c.obstacles {
			hit, err := link.CollidesWith(obstacle)
			if err != nil || hit {
				return false
			}
		}
	}
	return true
}
