package battle

import (
	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
)

// Engine drives State through turns, emitting the wire events of spec
// §6 as a side effect of execution rather than printing them directly
// (spec DESIGN NOTES: "the engine is a pure state transformer; I/O is
// the caller's concern").
type Engine struct {
	state *State
}

// NewEngine wraps an already-constructed State (spec battle.New) for
// turn execution.
func NewEngine(s *State) *Engine {
	return &Engine{state: s}
}

// State exposes the underlying packed battle state.
func (e *Engine) State() *State { return e.state }

func (e *Engine) data() *data.GameData { return e.state.GameData }

// Start seals the initial active mapping and emits the entry-time
// |switch| events for every starting combatant, in the fixed order of
// spec §4.D (side 0 slot 0, side 0 slot 1, side 1 slot 0, side 1 slot
// 1).
func (e *Engine) Start() []protocol.Event {
	e.state.StartBattle()
	var events []protocol.Event
	for side, sd := range e.state.Sides {
		for activeSlot := range sd.Active {
			mon := e.state.ActiveCombatant(side, activeSlot)
			if mon == nil {
				continue
			}
			events = append(events, e.switchInEvent(side, activeSlot, mon))
			events = append(events, e.entryAbilityEvents(side, activeSlot, mon)...)
		}
	}
	return events
}

// entryAbilityEvents resolves the canonical subset of switch-in ability
// effects (spec §4.D entry-ability ordering): Intimidate lowers every
// opposing active's Attack by one stage; WeatherSetter/TerrainSetter
// install the field effect named by the ability's EffectValue ordinal
// for 5 turns, replacing whatever weather/terrain is already active.
func (e *Engine) entryAbilityEvents(side, activeSlot int, mon *combatant.Combatant) []protocol.Event {
	ability, err := e.data().AbilityByID(mon.AbilityID)
	if err != nil {
		return nil
	}
	var events []protocol.Event
	switch ability.Kind {
	case data.AbilityKindIntimidate:
		oppSide := 1 - side
		for oppSlot := range e.state.Sides[oppSide].Active {
			opp := e.state.ActiveCombatant(oppSide, oppSlot)
			if opp == nil {
				continue
			}
			events = append(events, e.boostEvent(oppSide, oppSlot, opp, 0, -1)...)
		}
	case data.AbilityKindWeatherSetter:
		e.state.Field.Weather = Weather(ability.EffectValue)
		e.state.Field.WeatherTurns = 5
		events = append(events, protocol.Event{Type: protocol.EventWeather, Fields: []string{weatherWireString(e.state.Field.Weather)}})
	case data.AbilityKindTerrainSetter:
		e.state.Field.Terrain = Terrain(ability.EffectValue)
		e.state.Field.TerrainTurns = 5
		events = append(events, protocol.Event{Type: protocol.EventFieldStart, Fields: []string{terrainWireString(e.state.Field.Terrain)}})
	}
	return events
}

func weatherWireString(w Weather) string {
	switch w {
	case WeatherSun:
		return "SunnyDay"
	case WeatherRain:
		return "RainDance"
	case WeatherSand:
		return "Sandstorm"
	case WeatherHail:
		return "Hail"
	case WeatherSnow:
		return "Snow"
	case WeatherHarshSun:
		return "Desolate Land"
	case WeatherHeavyRain:
		return "Primordial Sea"
	case WeatherStrongWinds:
		return "Delta Stream"
	default:
		return "none"
	}
}

func terrainWireString(t Terrain) string {
	switch t {
	case TerrainElectric:
		return "Electric Terrain"
	case TerrainGrassy:
		return "Grassy Terrain"
	case TerrainMisty:
		return "Misty Terrain"
	case TerrainPsychic:
		return "Psychic Terrain"
	default:
		return "none"
	}
}

func (e *Engine) switchInEvent(side, activeSlot int, mon *combatant.Combatant) protocol.Event {
	species, _ := e.data().SpeciesByID(mon.SpeciesID)
	return protocol.Event{
		Type: protocol.EventSwitch,
		Fields: []string{
			protocol.Slot(side, activeSlot, mon.Nickname),
			protocol.Details(species.Name, mon.Level, ""),
			protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond)),
		},
	}
}

func statusWireString(s combatant.Status) string {
	switch s {
	case combatant.StatusBurn:
		return "brn"
	case combatant.StatusFreeze:
		return "frz"
	case combatant.StatusParalysis:
		return "par"
	case combatant.StatusPoison:
		return "psn"
	case combatant.StatusToxic:
		return "tox"
	case combatant.StatusSleep:
		return "slp"
	default:
		return ""
	}
}

// Step executes one full turn given each side's raw (pre-validation)
// choices, per spec §4.F.1's lifecycle: validate/substitute defaults,
// pre-turn resets, ordering, execution, end-of-turn residuals, faint
// resolution, turn increment. It returns the ordered event log for the
// turn. Calling Step after the battle has Ended is a no-op returning
// nil.
func (e *Engine) Step(rawChoices [2][]protocol.Choice) []protocol.Event {
	if e.state.Ended {
		return nil
	}

	var events []protocol.Event
	var resolved [2][]protocol.Choice
	for side := range rawChoices {
		resolved[side] = e.resolveChoices(side, rawChoices[side])
	}

	e.preTurnReset()

	schedule := e.buildSchedule(resolved)
	for i := range schedule {
		a := &schedule[i]
		// Re-check mid-turn fainting/recharge state: an earlier action
		// this turn may have fainted or switched out this actor.
		if !e.actionStillValid(a) {
			continue
		}
		switch a.choice.Kind {
		case protocol.ChoiceSwitch:
			events = append(events, e.executeSwitch(a)...)
		case protocol.ChoiceMove:
			events = append(events, e.executeMove(a)...)
		}
		events = append(events, e.resolveFaints()...)
		if e.state.Ended {
			return events
		}
	}

	events = append(events, e.endOfTurnResiduals()...)
	events = append(events, e.resolveFaints()...)
	// A fainted active slot is left at -1 here (spec §4.F.1 step 6):
	// resolveFaints already emptied it, and LegalActions gates the next
	// choice request to Switch-only for that slot. It is filled only by
	// an explicit Switch choice submitted in a later Step call, via
	// executeSwitch above — never auto-filled within the same turn.
	e.state.Turn++
	return events
}

// resolveChoices substitutes protocol.ChoiceDefault and invalid entries
// with State.DefaultChoice, per spec §6 "default" semantics; it does
// not otherwise validate legality (ValidateChoice is the caller's tool
// for rejecting a submission before committing to Step).
func (e *Engine) resolveChoices(side int, choices []protocol.Choice) []protocol.Choice {
	out := make([]protocol.Choice, 0, len(choices))
	for _, c := range choices {
		if c.Kind == protocol.ChoiceDefault {
			c = e.state.DefaultChoice(side, c.ActiveSlot)
		} else if err := e.state.ValidateChoice(side, c); err != nil {
			c = e.state.DefaultChoice(side, c.ActiveSlot)
		}
		out = append(out, c)
	}
	return out
}

// preTurnReset clears the single-turn volatile flags of spec §4.F.1
// "pre-turn resets": protect_active, flinch, and the per-side
// single-turn protections (wide guard / quick guard / mat block /
// crafty shield), all before this turn's actions are scheduled.
func (e *Engine) preTurnReset() {
	for _, sd := range e.state.Sides {
		sd.Conditions.WideGuard = false
		sd.Conditions.QuickGuard = false
		sd.Conditions.MatBlock = false
		sd.Conditions.CraftyShield = false
		for _, mon := range sd.Team.Slots {
			if mon == nil {
				continue
			}
			mon.Volatiles.ProtectActive = false
			mon.Volatiles.Flinch = false
		}
	}
}

// actionStillValid re-checks that a scheduled action's actor is still
// on the field and able to act; a mid-turn faint or forced switch can
// invalidate a later action in the same turn's schedule.
func (e *Engine) actionStillValid(a *scheduledAction) bool {
	if a.choice.Kind == protocol.ChoiceSwitch {
		return true
	}
	mon := e.state.ActiveCombatant(a.side, a.choice.ActiveSlot)
	return mon != nil && !mon.Fainted() && mon == a.mon
}

// executeSwitch performs a switch-in, emitting the |switch| event. Spec
// 4.D treats switches as always succeeding once legal.
func (e *Engine) executeSwitch(a *scheduledAction) []protocol.Event {
	e.state.SwapActive(a.side, a.choice.ActiveSlot, a.choice.TeamSlot)
	mon := e.state.ActiveCombatant(a.side, a.choice.ActiveSlot)
	if mon == nil {
		return nil
	}
	events := []protocol.Event{e.switchInEvent(a.side, a.choice.ActiveSlot, mon)}
	return append(events, e.entryAbilityEvents(a.side, a.choice.ActiveSlot, mon)...)
}

// faintMon records a faint for later bookkeeping and emits the
// |faint| event.
func (e *Engine) faintMon(side, activeSlot int, mon *combatant.Combatant) protocol.Event {
	teamSlot := e.state.Sides[side].Active[activeSlot]
	e.state.FaintQueue = append(e.state.FaintQueue, FaintEntry{Side: side, TeamSlot: teamSlot})
	e.state.Sides[side].Active[activeSlot] = -1
	return protocol.Event{Type: protocol.EventFaint, Fields: []string{protocol.Slot(side, activeSlot, mon.Nickname)}}
}

// resolveFaints scans every active slot for a newly-fainted combatant,
// empties its active slot, emits |faint|, and checks victory, per spec
// §4.F.1 "faint resolution" (run after every action and again at
// end-of-turn).
func (e *Engine) resolveFaints() []protocol.Event {
	var events []protocol.Event
	for side, sd := range e.state.Sides {
		for activeSlot, teamSlot := range sd.Active {
			if teamSlot < 0 {
				continue
			}
			mon := sd.Team.Slots[teamSlot]
			if mon != nil && mon.Fainted() {
				events = append(events, e.faintMon(side, activeSlot, mon))
			}
		}
	}
	e.state.checkVictory()
	return events
}
