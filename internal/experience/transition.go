// Package experience implements spec §4.I's experience buffers:
// Transition/Episode records, a circular ReplayBuffer and EpisodeBuffer,
// a Collector that turns a side's observation stream into Transitions,
// and the discounted-return helper. The backward-propagated-return shape
// is the teacher's reinforcement.alphaMonteCarloVanillaTrain estimator
// closure generalized with a configurable discount instead of a
// hardcoded full-return Monte Carlo walk.
package experience

import "vgcsim/internal/agent"

// Transition is one (obs, action, reward, next_obs, done, info) record
// (spec §4.I).
type Transition struct {
	Obs     agent.Observation
	Action  int // agent.ActionID of the Choice taken
	Reward  float64
	NextObs agent.Observation
	Done    bool
	Info    agent.Info
}

// Episode is an ordered Transition list plus the metadata spec §4.I
// names: seed, winner, turn count, final scores.
type Episode struct {
	Transitions []Transition
	Seed        uint64
	Winner      int
	Turns       int
	FinalScores [2]float64
}

// DiscountedReturns computes R_t = r_t + gamma*R_{t+1} (R_T = r_T) over
// an episode's transitions in a single backward pass, the same
// reverse-walk accumulation as the teacher's estimator closure
// (`reward += step.Reward`, walked from the last step to the first).
func DiscountedReturns(ep *Episode, gamma float64) []float64 {
	returns := make([]float64, len(ep.Transitions))
	var running float64
	for i := len(ep.Transitions) - 1; i >= 0; i-- {
		running = ep.Transitions[i].Reward + gamma*running
		returns[i] = running
	}
	return returns
}
