package experience

import (
	"vgcsim/internal/agent"
	"vgcsim/internal/protocol"
)

// Collector turns a side's per-step (observation, choice, reward) stream
// into Transitions, and flushes a completed Episode once a battle ends.
// It is the seam between internal/env (which only knows observations and
// rewards) and internal/experience's buffers; grounded on the teacher's
// reinforcement Episode-accumulation loop (Step returns are appended to a
// running []Step until the episode terminates, then handed to the
// estimator).
type Collector struct {
	side int
	seed uint64

	pending  []Transition
	lastObs  agent.Observation
	lastAct  int
	haveLast bool
}

// NewCollector constructs a Collector for one side of one battle seed.
func NewCollector(side int, seed uint64) *Collector {
	return &Collector{side: side, seed: seed}
}

// Step records one (obs, action, reward) sample. It closes out the
// Transition opened by the PRIOR Step call (whose NextObs is this
// call's obs), matching the observe-after-act ordering of an RL
// environment loop.
func (c *Collector) Step(obs agent.Observation, action protocol.Choice, reward float64, done bool, info agent.Info) {
	actID := agent.ActionID(action)
	if c.haveLast {
		c.pending[len(c.pending)-1].NextObs = obs
	}
	c.pending = append(c.pending, Transition{
		Obs: obs, Action: actID, Reward: reward, Done: done, Info: info,
	})
	c.lastObs, c.lastAct, c.haveLast = obs, actID, true
}

// Flush closes the in-progress episode and returns it, resetting the
// Collector for a new episode. winner and finalScores describe the
// battle outcome (spec §4.I Episode metadata).
func (c *Collector) Flush(winner int, finalScores [2]float64) Episode {
	ep := Episode{
		Transitions: c.pending,
		Seed:        c.seed,
		Winner:      winner,
		Turns:       len(c.pending),
		FinalScores: finalScores,
	}
	c.pending = nil
	c.haveLast = false
	return ep
}
