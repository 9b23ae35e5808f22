// Package agent implements the side-agnostic decision contract of spec
// §4.G: a uniform Agent interface plus the role-tagged variants the
// environment wrapper drives each turn. Optional capabilities (Reset,
// Observe) are modeled as separate interfaces an implementation may
// additionally satisfy, per spec DESIGN NOTES "inheritance of agents ->
// capability interface" rather than a base class with overridable
// no-ops.
package agent

import (
	"vgcsim/internal/protocol"
)

// Observation is the flattened per-side feature vector spec §4.H
// describes; its exact layout is the environment wrapper's concern, not
// the agent's.
type Observation []float64

// Info carries out-of-band context (e.g. side index, turn number) an
// agent may consult but never depends on structurally.
type Info map[string]interface{}

// Agent is the one required method of spec §4.G.
type Agent interface {
	Act(obs Observation, legal []protocol.Choice, info Info) protocol.Choice
}

// Resetter is the optional reset hook, called at env reset.
type Resetter interface {
	Reset()
}

// Observer is the optional learning hook, called once per transition.
type Observer interface {
	Observe(obs Observation, action protocol.Choice, reward float64, nextObs Observation, done bool)
}
