package applanning

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
)

// SearchProblem bundles everything a sampling-based global planner consumes:
// the locked state space, the validity predicate, the sampler, the start
// states, and the goal region.
type SearchProblem struct {
	Space    *ScrewStateSpace
	Validity ValidityChecker
	Sampler  StateSampler
	Starts   []*State
	Goal     *GoalRegion
}

// SearchAlgorithm is the external planner contract. Solve runs until it
// finds a path or its time budget expires; Simplify is a best-effort
// post-process that must return a path no worse than its input.
type SearchAlgorithm interface {
	Solve(ctx context.Context, timeout time.Duration) (*SolvedPath, error)
	Simplify(ctx context.Context, path *SolvedPath, timeout time.Duration) (*SolvedPath, error)
}

// SearchAlgorithmConstructor builds a search algorithm for one problem.
type SearchAlgorithmConstructor func(problem *SearchProblem, opts *PlannerOptions, logger logging.Logger) (SearchAlgorithm, error)

type roadmapNode struct {
	state *State
	goal  bool
}

// roadmapPlanner grows a probabilistic roadmap over valid samples. New nodes
// are wired to their nearest neighbors whose connecting motions validate;
// a path exists once start and goal nodes share a connected component.
type roadmapPlanner struct {
	problem   *SearchProblem
	opts      *PlannerOptions
	logger    logging.Logger
	nodes     []*roadmapNode
	adjacency map[*roadmapNode][]*roadmapNode
	starts    []*roadmapNode
}

// NewRoadmapPlanner creates the default search algorithm.
func NewRoadmapPlanner(problem *SearchProblem, opts *PlannerOptions, logger logging.Logger) (SearchAlgorithm, error) {
	if problem == nil || problem.Space == nil || problem.Validity == nil || problem.Sampler == nil {
		return nil, errors.New("roadmap planner requires a space, validity checker, and sampler")
	}
	if len(problem.Starts) == 0 || problem.Goal == nil || problem.Goal.Len() == 0 {
		return nil, errors.New("roadmap planner requires at least one start state and one goal state")
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	return &roadmapPlanner{
		problem:   problem,
		opts:      opts,
		logger:    logger,
		adjacency: map[*roadmapNode][]*roadmapNode{},
	}, nil
}

func (rp *roadmapPlanner) Solve(ctx context.Context, timeout time.Duration) (*SolvedPath, error) {
	if timeout <= 0 {
		timeout = defaultSolveTimeout
	}
	deadline := time.Now().Add(timeout)

	for _, start := range rp.problem.Starts {
		rp.insert(ctx, &roadmapNode{state: start.Copy()}, true)
	}
	for _, goal := range rp.problem.Goal.States() {
		rp.insert(ctx, &roadmapNode{state: goal, goal: true}, false)
	}
	// Direct start-to-goal connections are common for short screws.
	if path := rp.extractSolution(); path != nil {
		return newSolvedPath(rp.problem.Space, path), nil
	}

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample, err := rp.problem.Sampler.Sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		rp.insert(ctx, &roadmapNode{state: sample}, false)
		if path := rp.extractSolution(); path != nil {
			rp.logger.Debugf("roadmap connected with %d nodes", len(rp.nodes))
			return newSolvedPath(rp.problem.Space, path), nil
		}
	}
	rp.logger.Debugf("roadmap exhausted its time budget with %d nodes", len(rp.nodes))
	return nil, errPlannerFailed
}

// Simplify shortcuts the path within the time budget, first over wide
// windows and then adjacent triples.
func (rp *roadmapPlanner) Simplify(ctx context.Context, path *SolvedPath, timeout time.Duration) (*SolvedPath, error) {
	if path == nil || len(path.states) < 3 {
		return path, nil
	}
	if timeout <= 0 {
		timeout = defaultSimplifyTimeout
	}
	deadline := time.Now().Add(timeout)
	states := append([]*State{}, path.states...)
	for _, window := range []int{10, 1} {
		states = rp.shortcut(ctx, deadline, states, window)
	}
	return newSolvedPath(rp.problem.Space, states), nil
}

// shortcut removes interior states in windows of the given size whenever the
// direct motion across the window validates.
func (rp *roadmapPlanner) shortcut(ctx context.Context, deadline time.Time, states []*State, window int) []*State {
	for i := window + 1; i < len(states); i += window {
		if time.Now().After(deadline) || ctx.Err() != nil {
			return states
		}
		if !rp.checkMotion(ctx, states[i-window-1], states[i]) {
			continue
		}
		states = append(states[:i-window], states[i:]...)
		i--
	}
	return states
}

// insert wires a node to its nearest validated neighbors and adds it to the
// roadmap. Sampled states that happen to satisfy the goal region become goal
// nodes too.
func (rp *roadmapPlanner) insert(ctx context.Context, node *roadmapNode, isStart bool) {
	if !node.goal && rp.problem.Goal.Satisfied(node.state) {
		node.goal = true
	}
	for _, neighbor := range rp.nearest(node, rp.opts.MaxNeighbors) {
		if rp.checkMotion(ctx, node.state, neighbor.state) {
			rp.adjacency[node] = append(rp.adjacency[node], neighbor)
			rp.adjacency[neighbor] = append(rp.adjacency[neighbor], node)
		}
	}
	rp.nodes = append(rp.nodes, node)
	if isStart {
		rp.starts = append(rp.starts, node)
	}
}

// nearest returns up to k existing nodes closest to the given node.
func (rp *roadmapPlanner) nearest(node *roadmapNode, k int) []*roadmapNode {
	candidates := append([]*roadmapNode{}, rp.nodes...)
	sort.Slice(candidates, func(i, j int) bool {
		return rp.problem.Space.Distance(node.state, candidates[i].state) <
			rp.problem.Space.Distance(node.state, candidates[j].state)
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// checkMotion validates the straight-line motion between two states at the
// planner resolution, endpoints included.
func (rp *roadmapPlanner) checkMotion(ctx context.Context, from, to *State) bool {
	steps := int(math.Ceil(rp.problem.Space.Distance(from, to) / rp.opts.Resolution))
	if steps < 1 {
		steps = 1
	}
	for step := 0; step <= steps; step++ {
		if !rp.problem.Validity.Valid(ctx, rp.problem.Space.Interpolate(from, to, float64(step)/float64(steps))) {
			return false
		}
	}
	return true
}

// extractSolution runs a multi-source linear-scan Dijkstra from the start
// nodes and returns the states of the cheapest path reaching a goal node, or
// nil when none is connected. Roadmaps stay small enough that the linear
// scan is not worth replacing with a heap.
func (rp *roadmapPlanner) extractSolution() []*State {
	dist := make(map[*roadmapNode]float64, len(rp.nodes))
	prev := make(map[*roadmapNode]*roadmapNode, len(rp.nodes))
	unvisited := make(map[*roadmapNode]bool, len(rp.nodes))
	for _, node := range rp.nodes {
		dist[node] = math.Inf(1)
		unvisited[node] = true
	}
	for _, start := range rp.starts {
		dist[start] = 0
	}
	for len(unvisited) > 0 {
		var current *roadmapNode
		best := math.Inf(1)
		for node := range unvisited {
			if dist[node] < best {
				best, current = dist[node], node
			}
		}
		if current == nil {
			return nil
		}
		delete(unvisited, current)
		if current.goal {
			var path []*State
			for node := current; node != nil; node = prev[node] {
				path = append(path, node.state)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, neighbor := range rp.adjacency[current] {
			if !unvisited[neighbor] {
				continue
			}
			if d := dist[current] + rp.problem.Space.Distance(current.state, neighbor.state); d < dist[neighbor] {
				dist[neighbor] = d
				prev[neighbor] = current
			}
		}
	}
	return nil
}
