package agent

import (
	"vgcsim/internal/prng"
	"vgcsim/internal/protocol"
)

// RandomAgent selects uniformly over legal_actions, deterministic given
// its own owned PRNG (spec §4.G "Random"; same "PRNG is a plain owned
// value, not a global" stance as battle.State.RNG).
type RandomAgent struct {
	rng *prng.Source
}

// NewRandomAgent constructs a RandomAgent seeded independently of the
// battle's own PRNG, so agent choice and engine resolution draws never
// interleave from the same stream.
func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: prng.New(seed)}
}

func (a *RandomAgent) Act(_ Observation, legal []protocol.Choice, _ Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}
	return legal[a.rng.NextRange(len(legal))]
}
