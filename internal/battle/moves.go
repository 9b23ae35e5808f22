package battle

import (
	"strconv"

	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
)

var effectStatNames = [5]string{"atk", "def", "spa", "spd", "spe"}

// resolveTargets converts a Choice.Target sentinel/signed-slot value
// into the concrete (side, activeSlot) pairs a move actually hits, per
// spec §4.E "double-battle targets": a positive magnitude is an
// opponent active slot, negative is an ally; TargetSelf/spread target
// kinds are resolved structurally from md.Target instead of the
// submitted Target field.
func (e *Engine) resolveTargets(side, activeSlot int, md data.MoveData, chosen int) []struct{ side, slot int } {
	var out []struct{ side, slot int }
	add := func(s, a int) {
		if e.state.ActiveCombatant(s, a) != nil {
			out = append(out, struct{ side, slot int }{s, a})
		}
	}
	switch md.Target {
	case data.TargetSelf:
		add(side, activeSlot)
	case data.TargetAllAdjacent, data.TargetAllAdjacentFoes, data.TargetAllFoes:
		for opp := range e.state.Sides[1-side].Active {
			add(1-side, opp)
		}
		if md.Target == data.TargetAllAdjacent {
			for ally := range e.state.Sides[side].Active {
				if ally != activeSlot {
					add(side, ally)
				}
			}
		}
	case data.TargetAllies:
		for ally := range e.state.Sides[side].Active {
			if ally != activeSlot {
				add(side, ally)
			}
		}
	case data.TargetAll:
		for s := 0; s < 2; s++ {
			for a := range e.state.Sides[s].Active {
				if s == side && a == activeSlot {
					continue
				}
				add(s, a)
			}
		}
	case data.TargetRandomFoe:
		var candidates []int
		for opp := range e.state.Sides[1-side].Active {
			if e.state.ActiveCombatant(1-side, opp) != nil {
				candidates = append(candidates, opp)
			}
		}
		if len(candidates) > 0 {
			add(1-side, candidates[e.state.RNG.NextRange(len(candidates))])
		}
	default: // TargetNormal, TargetAdjacentFoe, TargetAny
		if chosen == 0 {
			// No explicit target submitted (e.g. singles, or a move slot
			// that was filled in before targets were enumerable): default
			// to the first living opposing slot. This applies whatever
			// the value of Rules.RedirectFaintedTarget.
			for opp := range e.state.Sides[1-side].Active {
				if e.state.ActiveCombatant(1-side, opp) != nil {
					add(1-side, opp)
					break
				}
			}
			return out
		}
		targetSide := side
		slot := chosen
		if chosen > 0 {
			targetSide = 1 - side
			slot = chosen - 1
		} else {
			slot = -chosen - 1
		}
		if e.state.ActiveCombatant(targetSide, slot) == nil && e.state.Rules.RedirectFaintedTarget {
			for opp := range e.state.Sides[targetSide].Active {
				if e.state.ActiveCombatant(targetSide, opp) != nil {
					add(targetSide, opp)
					break
				}
			}
			return out
		}
		add(targetSide, slot)
	}
	return out
}

// executeMove resolves one scheduled move action: PP deduction,
// targeting, per-target accuracy/damage/effect application, and event
// emission, per spec §4.F.3/4.F.4/4.F.5.
func (e *Engine) executeMove(a *scheduledAction) []protocol.Event {
	attacker := a.mon
	c := a.choice
	ms := attacker.Moves[c.MoveSlot]
	md, err := e.data().MoveByID(ms.MoveID)
	attacker.UsePP(c.MoveSlot, 1)
	attacker.Volatiles.LastMoveUsed = ms.MoveID
	attacker.Volatiles.LastMoveTurn = e.state.Turn

	if item, ierr := e.data().ItemByID(attacker.ItemID); ierr == nil {
		switch item.Kind {
		case data.ItemKindChoiceBandLike, data.ItemKindChoiceSpecsLike, data.ItemKindChoiceScarfLike:
			attacker.Volatiles.ChoiceLocked = ms.MoveID
		}
	}

	events := []protocol.Event{{
		Type:   protocol.EventMove,
		Fields: []string{protocol.Slot(a.side, c.ActiveSlot, attacker.Nickname), moveDisplayName(md, err), ""},
	}}

	if err != nil {
		// Unimplemented/missing move data: PP is spent, a |move| event is
		// emitted, but there is no further effect (spec §7 "Unimplemented").
		return events
	}

	targets := e.resolveTargets(a.side, c.ActiveSlot, md, c.Target)
	if len(targets) == 0 {
		return events
	}

	for _, t := range targets {
		defender := e.state.ActiveCombatant(t.side, t.slot)
		if defender == nil || defender.Fainted() {
			continue
		}
		events = append(events, e.applyMoveToTarget(a.side, c.ActiveSlot, attacker, t.side, t.slot, defender, md, len(targets))...)
	}
	return events
}

func moveDisplayName(md data.MoveData, err error) string {
	if err != nil {
		return "Unknown Move"
	}
	return md.Name
}

// applyMoveToTarget runs the accuracy check, damage, and tagged
// secondary/status effect (spec §4.F.5) for one (attacker, target)
// pair of a single move execution.
func (e *Engine) applyMoveToTarget(atkSide, atkSlot int, attacker *combatant.Combatant, defSide, defSlot int, defender *combatant.Combatant, md data.MoveData, numTargets int) []protocol.Event {
	var events []protocol.Event

	if defender.Volatiles.ProtectActive && md.Flags&data.FlagProtectable != 0 {
		return events
	}

	if md.Category == data.CategoryStatus {
		if ability, err := e.data().AbilityByID(defender.AbilityID); err == nil && ability.Kind == data.AbilityKindGoodAsGold {
			return events
		}
	}

	if md.Category != data.CategoryStatus && md.BasePower > 0 && md.Type == data.TypeFire {
		if ability, err := e.data().AbilityByID(defender.AbilityID); err == nil && ability.Kind == data.AbilityKindFlashFire {
			defender.Volatiles.FlashFire = true
			return append(events, protocol.Event{Type: protocol.EventActivate, Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), "Flash Fire"}})
		}
	}

	if !e.accuracyCheck(attacker, defender, md) {
		return events
	}

	if md.Category != data.CategoryStatus && md.BasePower > 0 {
		amount, eff := e.damage(attacker, defender, damageContext{move: md, numTargets: numTargets, atkSide: atkSide, defSide: defSide})
		amount, sashed := e.focusSashSurvives(defender, amount)
		actual := defender.TakeDamage(amount)
		dmgEvent := protocol.Event{
			Type:   protocol.EventDamage,
			Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), protocol.HPStatus(defender.CurrentHP, defender.MaxHP, statusWireString(defender.StatusCond))},
			Spread: numTargets > 1,
		}
		events = append(events, dmgEvent)
		if sashed {
			defender.SashConsumed = true
			events = append(events, protocol.Event{Type: protocol.EventActivate, Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), "Focus Sash"}})
		}
		_ = eff

		if md.RecoilPercent > 0 {
			recoil := actual * md.RecoilPercent / 100
			if recoil > 0 {
				attacker.TakeDamage(recoil)
				events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(atkSide, atkSlot, attacker.Nickname), protocol.HPStatus(attacker.CurrentHP, attacker.MaxHP, statusWireString(attacker.StatusCond))}})
			}
		}

		if actual <= 0 {
			return events
		}
	}

	return append(events, e.applyMoveEffect(atkSide, atkSlot, attacker, defSide, defSlot, defender, md)...)
}

// applyMoveEffect applies the move's tagged secondary/status effect, if
// its chance roll (or unconditional, for a pure status move) succeeds.
func (e *Engine) applyMoveEffect(atkSide, atkSlot int, attacker *combatant.Combatant, defSide, defSlot int, defender *combatant.Combatant, md data.MoveData) []protocol.Event {
	if md.Effect == data.MoveEffectKindNone {
		return nil
	}
	if md.EffectChance > 0 && e.state.RNG.NextPercent() >= md.EffectChance {
		return nil
	}

	switch md.Effect {
	case data.MoveEffectKindStatBoostSelf:
		return e.boostEvent(atkSide, atkSlot, attacker, md.EffectStat, md.EffectStages)
	case data.MoveEffectKindStatLowerTarget:
		return e.boostEvent(defSide, defSlot, defender, md.EffectStat, -absInt(md.EffectStages))
	case data.MoveEffectKindTailwind:
		e.state.Sides[atkSide].Conditions.Tailwind = 4
		return []protocol.Event{{Type: protocol.EventSideStart, Fields: []string{protocol.Slot(atkSide, atkSlot, ""), "move: Tailwind"}}}
	case data.MoveEffectKindReflect:
		e.state.Sides[atkSide].Conditions.Reflect = e.screenDuration(attacker)
		return []protocol.Event{{Type: protocol.EventSideStart, Fields: []string{protocol.Slot(atkSide, atkSlot, ""), "move: Reflect"}}}
	case data.MoveEffectKindLightScreen:
		e.state.Sides[atkSide].Conditions.LightScreen = e.screenDuration(attacker)
		return []protocol.Event{{Type: protocol.EventSideStart, Fields: []string{protocol.Slot(atkSide, atkSlot, ""), "move: Light Screen"}}}
	case data.MoveEffectKindAuroraVeil:
		e.state.Sides[atkSide].Conditions.AuroraVeil = e.screenDuration(attacker)
		return []protocol.Event{{Type: protocol.EventSideStart, Fields: []string{protocol.Slot(atkSide, atkSlot, ""), "move: Aurora Veil"}}}
	case data.MoveEffectKindTrickRoom:
		if e.state.Field.Pseudo.TrickRoom > 0 {
			e.state.Field.Pseudo.TrickRoom = 0
			return []protocol.Event{{Type: protocol.EventFieldEnd, Fields: []string{"move: Trick Room"}}}
		}
		e.state.Field.Pseudo.TrickRoom = 5
		return []protocol.Event{{Type: protocol.EventFieldStart, Fields: []string{"move: Trick Room"}}}
	case data.MoveEffectKindBurn:
		if defender.StatusCond != combatant.StatusNone {
			return nil
		}
		defender.SetStatus(combatant.StatusBurn, 0)
		return []protocol.Event{{Type: protocol.EventStatus, Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), "brn"}}}
	case data.MoveEffectKindParalyze:
		if defender.StatusCond != combatant.StatusNone {
			return nil
		}
		defender.SetStatus(combatant.StatusParalysis, 0)
		return []protocol.Event{{Type: protocol.EventStatus, Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), "par"}}}
	case data.MoveEffectKindPoison:
		if defender.StatusCond != combatant.StatusNone {
			return nil
		}
		defender.SetStatus(combatant.StatusPoison, 0)
		return []protocol.Event{{Type: protocol.EventStatus, Fields: []string{protocol.Slot(defSide, defSlot, defender.Nickname), "psn"}}}
	case data.MoveEffectKindFlinch:
		defender.Volatiles.Flinch = true
		return nil
	case data.MoveEffectKindHeal:
		healed := attacker.Heal(attacker.MaxHP / 2)
		if healed <= 0 {
			return nil
		}
		return []protocol.Event{{Type: protocol.EventHeal, Fields: []string{protocol.Slot(atkSide, atkSlot, attacker.Nickname), protocol.HPStatus(attacker.CurrentHP, attacker.MaxHP, statusWireString(attacker.StatusCond))}}}
	default:
		return nil
	}
}

// screenDuration is 5 turns normally, extended to 8 when the setter
// holds a Light-Clay-like item.
func (e *Engine) screenDuration(setter *combatant.Combatant) int {
	if item, err := e.data().ItemByID(setter.ItemID); err == nil && item.Kind == data.ItemKindLightClayLike {
		return 8
	}
	return 5
}

func (e *Engine) boostEvent(side, slot int, mon *combatant.Combatant, statIdx, stages int) []protocol.Event {
	if statIdx < 0 || statIdx >= len(effectStatNames) {
		return nil
	}
	applied := mon.ModifyStage(effectStatNames[statIdx], stages)
	if applied == 0 {
		return nil
	}
	evType := protocol.EventBoost
	n := applied
	if n < 0 {
		evType = protocol.EventUnboost
		n = -n
	}
	return []protocol.Event{{Type: evType, Fields: []string{protocol.Slot(side, slot, mon.Nickname), effectStatNames[statIdx], strconv.Itoa(n)}}}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
