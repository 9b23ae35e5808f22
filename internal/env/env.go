// Package env implements spec §4.H's environment wrapper: it drives a
// battle.State/battle.Engine pair through reset/step, encodes per-side
// observations, computes rewards, and exposes a legal-action mask
// alongside each observation. It is the layer between internal/agent
// (which only ever sees an Observation + legal Choice list) and
// internal/battle (which only ever sees Choices).
package env

import (
	"vgcsim/internal/agent"
	"vgcsim/internal/battle"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
)

// RewardMode selects one of spec §4.H's three reward shapings.
type RewardMode int

const (
	RewardWinLoss RewardMode = iota
	RewardShaped
	RewardDense
)

// Config fixes an Env's battle format and learning-signal shape.
type Config struct {
	ActiveSlots int // 1 singles, 2 doubles
	MaxTurns    int // 0 means spec's documented default of 1000
	RewardMode  RewardMode
	WinReward   float64 // magnitude W of the terminal win/loss signal
}

// DefaultConfig mirrors the documented spec defaults: singles, a
// generous max-turns cap, shaped reward, +/-1 terminal signal.
func DefaultConfig() Config {
	return Config{ActiveSlots: 1, MaxTurns: 1000, RewardMode: RewardShaped, WinReward: 1.0}
}

// TeamFactory builds the two sides' teams into a freshly constructed
// battle.State (e.g. installing SetTeam calls), called once per Reset.
type TeamFactory func(s *battle.State)

// Env drives one battle to completion, turn by turn, translating each
// side's Agent decision into a battle.Choice and each battle.State
// delta into a reward (spec §4.H).
type Env struct {
	gd      *data.GameData
	cfg     Config
	teams   TeamFactory
	state   *battle.State
	engine  *battle.Engine
	prevObs [2]agent.Observation
	prevHP  [2][6]int // per-team-slot HP fraction numerator snapshot, for shaped/dense reward
	done    bool
}

// New constructs an Env for the given fixture data, config, and team
// builder. Call Reset before the first Step.
func New(gd *data.GameData, cfg Config, teams TeamFactory) *Env {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 1000
	}
	return &Env{gd: gd, cfg: cfg, teams: teams}
}

// Reset rebuilds the battle state from seed, installs teams via the
// configured TeamFactory, starts the battle, and returns each side's
// initial observation (spec §4.H "reset(seed?) -> {side: observation}").
func (e *Env) Reset(seed uint64) map[int]agent.Observation {
	e.state = battle.New(e.gd, e.cfg.ActiveSlots, seed)
	e.teams(e.state)
	e.engine = battle.NewEngine(e.state)
	e.engine.Start()
	e.done = false

	for side := 0; side < 2; side++ {
		e.snapshotHP(side)
		e.prevObs[side] = e.Observe(side)
	}
	return map[int]agent.Observation{0: e.prevObs[0], 1: e.prevObs[1]}
}

// State exposes the underlying battle.State for callers (e.g.
// internal/spectate) that need direct access alongside Env's own
// bookkeeping.
func (e *Env) State() *battle.State { return e.state }

// Done reports whether the battle has ended or the max-turns cap was
// reached.
func (e *Env) Done() bool {
	return e.done || e.state.Ended || e.state.Turn >= e.cfg.MaxTurns
}

// LegalActions returns side's legal Choice set for the current turn,
// the mask spec §4.H requires alongside every observation.
func (e *Env) LegalActions(side int) []protocol.Choice {
	return e.state.LegalActions(side)
}

// ObservationShape returns the flattened vector length Observe
// produces for one side, per spec §4.H "observation_shape".
func (e *Env) ObservationShape() int {
	return len(e.Observe(0))
}

// Step polls each side's Agent for a Choice over its current
// observation and legal-action mask, advances the battle one full
// turn, computes each side's reward, and returns the actions taken
// (for the caller's Collector), the emitted events, each side's
// reward, and whether the episode has ended (spec §4.H "step() ->
// done").
func (e *Env) Step(agents [2]agent.Agent) (actions [2]protocol.Choice, events []protocol.Event, rewards [2]float64, done bool) {
	if e.Done() {
		return actions, nil, rewards, true
	}

	var choices [2][]protocol.Choice
	for side := 0; side < 2; side++ {
		legal := e.LegalActions(side)
		info := agent.Info{"turn": e.state.Turn}
		choice := agents[side].Act(e.prevObs[side], legal, info)
		if err := e.state.ValidateChoice(side, choice); err != nil {
			choice = e.defaultChoiceForSide(side)
		}
		actions[side] = choice
		choices[side] = []protocol.Choice{choice}
	}

	events = e.engine.Step(choices)

	for side := 0; side < 2; side++ {
		rewards[side] = e.reward(side, events)
		e.snapshotHP(side)
		e.prevObs[side] = e.Observe(side)
	}

	e.done = e.state.Ended || e.state.Turn >= e.cfg.MaxTurns
	if e.state.Turn >= e.cfg.MaxTurns && !e.state.Ended {
		e.state.Ended = true
		e.state.Winner = battle.WinnerTie
	}
	return actions, events, rewards, e.done
}

// defaultChoiceForSide resolves DefaultChoice across every active slot
// an agent might be asked about; Env only ever submits one Choice per
// side (spec's "team_size x per-combatant" observation is singles- and
// doubles- shaped the same way, but Step here targets the first active
// slot, matching internal/battle's own per-slot choice list shape).
func (e *Env) defaultChoiceForSide(side int) protocol.Choice {
	return e.state.DefaultChoice(side, 0)
}

func (e *Env) snapshotHP(side int) {
	sd := e.state.Sides[side]
	for i, mon := range sd.Team.Slots {
		if mon != nil {
			e.prevHP[side][i] = mon.CurrentHP
		}
	}
}
