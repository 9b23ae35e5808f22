package agent

import "vgcsim/internal/protocol"

// IOCapability is the injected external prompt dependency a HumanAgent
// drives; it is the caller's concern whether this reads a terminal, a
// websocket client choice, or a replay fixture (spec §4.G "Human":
// "prompts an external IO capability; waits synchronously").
type IOCapability interface {
	Prompt(obs Observation, legal []protocol.Choice) protocol.Choice
}

// HumanAgent blocks on its IOCapability for every decision.
type HumanAgent struct {
	IO IOCapability
}

func NewHumanAgent(io IOCapability) *HumanAgent {
	return &HumanAgent{IO: io}
}

func (a *HumanAgent) Act(obs Observation, legal []protocol.Choice, _ Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}
	return a.IO.Prompt(obs, legal)
}
