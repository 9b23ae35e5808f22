package agent

import (
	"math"

	"vgcsim/internal/prng"
	"vgcsim/internal/protocol"
)

// ScoreFn maps an observation to a vector of scores over the fixed
// action-space id-space (ActionSpaceSize wide).
type ScoreFn func(obs Observation) [ActionSpaceSize]float64

// SelectionMode is PolicyAgent's action-selection rule.
type SelectionMode int

const (
	SelectArgmax SelectionMode = iota
	SelectSoftmax
	SelectEpsilonGreedy
)

// PolicyAgent delegates scoring to a plugged-in ScoreFn and selects by
// argmax, softmax, or epsilon-greedy, masking illegal action ids to
// -Inf first (spec §4.G "Policy"). The epsilon-greedy explore/exploit
// split is the teacher's policyAlphaMax shape generalized: a single
// rng.NextFloat01() <= epsilon gate picks a uniform-random legal action
// instead of the best-scoring one.
type PolicyAgent struct {
	Score   ScoreFn
	Mode    SelectionMode
	Epsilon float64
	rng     *prng.Source
}

// NewPolicyAgent constructs a PolicyAgent with its own decision PRNG,
// independent of the battle engine's stream.
func NewPolicyAgent(score ScoreFn, mode SelectionMode, epsilon float64, seed uint64) *PolicyAgent {
	return &PolicyAgent{Score: score, Mode: mode, Epsilon: epsilon, rng: prng.New(seed)}
}

func (a *PolicyAgent) Act(obs Observation, legal []protocol.Choice, _ Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}

	if a.Mode == SelectEpsilonGreedy && a.rng.NextFloat01() <= a.Epsilon {
		return legal[a.rng.NextRange(len(legal))]
	}

	mask := LegalMask(legal)
	scores := a.Score(obs)
	for id := range scores {
		if !mask[id] {
			scores[id] = math.Inf(-1)
		}
	}

	var chosenID int
	switch a.Mode {
	case SelectSoftmax:
		chosenID = a.sampleSoftmax(scores)
	default: // argmax, and the non-triggering epsilon-greedy branch
		chosenID = argmax(scores)
	}

	if c, ok := firstChoiceForID(legal, chosenID); ok {
		return c
	}
	return legal[0]
}

func argmax(scores [ActionSpaceSize]float64) int {
	best := 0
	for id := 1; id < len(scores); id++ {
		if scores[id] > scores[best] {
			best = id
		}
	}
	return best
}

// sampleSoftmax draws one id from the softmax distribution over scores,
// skipping masked (-Inf) ids entirely.
func (a *PolicyAgent) sampleSoftmax(scores [ActionSpaceSize]float64) int {
	max := math.Inf(-1)
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	var weights [ActionSpaceSize]float64
	var total float64
	for id, s := range scores {
		if math.IsInf(s, -1) {
			continue
		}
		w := math.Exp(s - max)
		weights[id] = w
		total += w
	}
	if total <= 0 {
		return argmax(scores)
	}
	target := a.rng.NextFloat01() * total
	var cum float64
	for id, w := range weights {
		cum += w
		if target <= cum {
			return id
		}
	}
	return argmax(scores)
}
