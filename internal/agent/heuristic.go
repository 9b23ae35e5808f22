package agent

import (
	"vgcsim/internal/prng"
	"vgcsim/internal/protocol"
)

// HeuristicScoreFn scores one concrete Choice directly, unlike
// PolicyAgent's fixed action-space ScoreFn — a heuristic can see the
// full Choice (including target) rather than a collapsed id.
type HeuristicScoreFn func(obs Observation, c protocol.Choice) float64

// TieBreak selects among Choices sharing the top score.
type TieBreak int

const (
	TieBreakFirst TieBreak = iota
	TieBreakLast
	TieBreakRandom
)

// HeuristicAgent scores each legal Choice with a plug-in function and
// picks the highest, breaking ties per TieBreak (spec §4.G "Heuristic").
type HeuristicAgent struct {
	Score    HeuristicScoreFn
	TieBreak TieBreak
	rng      *prng.Source
}

// NewHeuristicAgent constructs a HeuristicAgent; rng is only consulted
// for TieBreakRandom.
func NewHeuristicAgent(score HeuristicScoreFn, tie TieBreak, seed uint64) *HeuristicAgent {
	return &HeuristicAgent{Score: score, TieBreak: tie, rng: prng.New(seed)}
}

func (a *HeuristicAgent) Act(obs Observation, legal []protocol.Choice, _ Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}

	best := legal[0]
	bestScore := a.Score(obs, best)
	var tied []protocol.Choice
	tied = append(tied, best)

	for _, c := range legal[1:] {
		s := a.Score(obs, c)
		switch {
		case s > bestScore:
			best, bestScore = c, s
			tied = tied[:0]
			tied = append(tied, c)
		case s == bestScore:
			tied = append(tied, c)
		}
	}

	switch a.TieBreak {
	case TieBreakLast:
		return tied[len(tied)-1]
	case TieBreakRandom:
		return tied[a.rng.NextRange(len(tied))]
	default:
		return tied[0]
	}
}
