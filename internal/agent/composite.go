package agent

import "vgcsim/internal/protocol"

// Scorer is satisfied by any agent that can expose its raw action-space
// scores rather than just its final Choice; CompositeAgent combines
// several Scorers by weighted sum (spec §4.G "Composite").
type Scorer interface {
	Scores(obs Observation, legal []protocol.Choice) [ActionSpaceSize]float64
}

// Scores implements Scorer for PolicyAgent, setting the score of every
// illegal id to 0 (Act instead masks illegal ids to -Inf).
func (a *PolicyAgent) Scores(obs Observation, legal []protocol.Choice) [ActionSpaceSize]float64 {
	mask := LegalMask(legal)
	scores := a.Score(obs)
	for id := range scores {
		if !mask[id] {
			scores[id] = 0
		}
	}
	return scores
}

// CompositeAgent is a weighted sum of sub-agent scores, selecting the
// highest-scoring legal action (spec §4.G "Composite").
type CompositeAgent struct {
	Sub     []Scorer
	Weights []float64
}

// NewCompositeAgent pairs each Scorer with its weight; panics if the
// slices differ in length, since a composite with an unweighted member
// is a construction error, not a runtime one.
func NewCompositeAgent(sub []Scorer, weights []float64) *CompositeAgent {
	if len(sub) != len(weights) {
		panic("agent: CompositeAgent sub/weights length mismatch")
	}
	return &CompositeAgent{Sub: sub, Weights: weights}
}

func (a *CompositeAgent) Act(obs Observation, legal []protocol.Choice, _ Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}

	var combined [ActionSpaceSize]float64
	for i, s := range a.Sub {
		scores := s.Scores(obs, legal)
		for id, v := range scores {
			combined[id] += a.Weights[i] * v
		}
	}

	mask := LegalMask(legal)
	bestID, bestScore := -1, 0.0
	for id, v := range combined {
		if !mask[id] {
			continue
		}
		if bestID == -1 || v > bestScore {
			bestID, bestScore = id, v
		}
	}
	if c, ok := firstChoiceForID(legal, bestID); ok {
		return c
	}
	return legal[0]
}
