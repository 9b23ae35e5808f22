package battle

import (
	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
	"vgcsim/internal/statmodel"
)

// scheduledAction is one side's choice annotated with the sort key of
// spec §4.F.2: (pursuit?, switch?, move_priority, effective_speed,
// tiebreak).
type scheduledAction struct {
	side     int
	choice   protocol.Choice
	mon      *combatant.Combatant
	isSwitch bool
	priority int
	speed    int
	tiebreak uint32
}

// effectiveSpeed computes spec §4.F.2 "Effective speed": base Speed x
// speed-stage multiplier x Tailwind x paralysis penalty x item/ability
// modifiers, floored at each step.
func (e *Engine) effectiveSpeed(side int, mon *combatant.Combatant) int {
	speed := float64(mon.Spe)
	speed = floorMul(speed, statStageMultiplier(mon.Stages.Spe))

	if e.state.Sides[side].Conditions.Tailwind > 0 {
		speed = floorMul(speed, 2.0)
	}
	if mon.StatusCond == combatant.StatusParalysis {
		speed = floorMul(speed, 0.5)
	}

	if ability, err := e.data().AbilityByID(mon.AbilityID); err == nil {
		if ability.Kind == data.AbilityKindSpeedBoostOnStatus && mon.StatusCond != combatant.StatusNone {
			speed = floorMul(speed, 1.5)
		}
	}
	if item, err := e.data().ItemByID(mon.ItemID); err == nil {
		if item.Kind == data.ItemKindChoiceScarfLike {
			speed = floorMul(speed, 1.5)
		}
	}

	return int(speed)
}

func floorMul(v, mult float64) float64 {
	return float64(int(v * mult))
}

func statStageMultiplier(stage int) float64 {
	return statmodel.StageMultiplier(stage)
}

// movePriority returns a move's effective priority including
// priority-modifying abilities (Prankster for status, Gale Wings for
// flying moves at full HP), per spec §4.F.2.
func (e *Engine) movePriority(mon *combatant.Combatant, md data.MoveData) int {
	priority := md.Priority
	ability, err := e.data().AbilityByID(mon.AbilityID)
	if err != nil {
		return priority
	}
	switch ability.Kind {
	case data.AbilityKindPriorityBoostStatus:
		if md.Category == data.CategoryStatus {
			priority++
		}
	case data.AbilityKindPriorityBoostFlying:
		if md.Type == data.TypeFlying && mon.CurrentHP == mon.MaxHP {
			priority++
		}
	}
	return priority
}

// buildSchedule resolves a turn's raw per-side choices into an ordered
// list of scheduledAction, per spec §4.F.2: switches (and
// pursuit-like interrupts) resolve before moves, in speed order; moves
// order by priority then effective speed (inverted under Trick Room);
// ties break via a PRNG draw. sideChoices[0] and sideChoices[1] are the
// resolved (post-validation/default-substitution) choices for each side.
func (e *Engine) buildSchedule(sideChoices [2][]protocol.Choice) []scheduledAction {
	var actions []scheduledAction
	for side, choices := range sideChoices {
		for _, c := range choices {
			a := scheduledAction{side: side, choice: c}
			switch c.Kind {
			case protocol.ChoiceSwitch:
				a.isSwitch = true
				if mon := e.state.ActiveCombatant(side, c.ActiveSlot); mon != nil {
					a.speed = e.effectiveSpeed(side, mon)
				}
			case protocol.ChoiceMove:
				mon := e.state.ActiveCombatant(side, c.ActiveSlot)
				a.mon = mon
				if mon != nil {
					a.speed = e.effectiveSpeed(side, mon)
					if md, err := e.data().MoveByID(mon.Moves[c.MoveSlot].MoveID); err == nil {
						a.priority = e.movePriority(mon, md)
					}
				}
			default:
				// pass/default: no execution step.
				continue
			}
			a.tiebreak = e.state.RNG.NextU32()
			actions = append(actions, a)
		}
	}

	trickRoom := e.state.Field.Pseudo.TrickRoom > 0

	less := func(i, j int) bool {
		ai, aj := actions[i], actions[j]
		if ai.isSwitch != aj.isSwitch {
			return ai.isSwitch // switches first
		}
		if ai.isSwitch && aj.isSwitch {
			if ai.speed != aj.speed {
				return ai.speed > aj.speed
			}
			return ai.tiebreak > aj.tiebreak
		}
		if ai.priority != aj.priority {
			return ai.priority > aj.priority
		}
		if ai.speed != aj.speed {
			if trickRoom {
				return ai.speed < aj.speed
			}
			return ai.speed > aj.speed
		}
		return ai.tiebreak > aj.tiebreak
	}
	insertionSort(actions, less)
	return actions
}

// insertionSort is a small stable sort; the action lists here are never
// larger than 4 (2v2 doubles), so an O(n^2) sort is simpler than
// reaching for sort.Slice and just as fast at this size.
func insertionSort(actions []scheduledAction, less func(i, j int) bool) {
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0; j-- {
			// Use indices relative to the (possibly already swapped) slice.
			if lessAt(actions, j, j-1, less) {
				actions[j], actions[j-1] = actions[j-1], actions[j]
			} else {
				break
			}
		}
	}
}

func lessAt(actions []scheduledAction, i, j int, less func(i, j int) bool) bool {
	return less(i, j)
}
