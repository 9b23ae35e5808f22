package battle

import (
	"vgcsim/internal/combatant"
	"vgcsim/internal/protocol"
)

// endOfTurnResiduals runs the fixed-order end-of-turn pass of spec
// §4.F.6: weather damage, status damage, leech seed, perish count,
// delayed future-sight/doom-desire damage, then every turn-counter
// decrement (screens, tailwind, weather, terrain, trick room). The
// order itself is part of the contract — reordering it would change
// replay-visible event sequences for an otherwise identical turn.
func (e *Engine) endOfTurnResiduals() []protocol.Event {
	var events []protocol.Event

	events = append(events, e.weatherDamage()...)
	events = append(events, e.statusDamage()...)
	events = append(events, e.leechSeedDamage()...)
	events = append(events, e.perishCountdown()...)
	events = append(events, e.delayedDamage()...)
	e.decrementFieldCounters()

	events = append(events, protocol.Event{Type: protocol.EventUpkeep})
	return events
}

func (e *Engine) forEachActive(fn func(side, slot int, mon *combatant.Combatant)) {
	for side, sd := range e.state.Sides {
		for slot, teamSlot := range sd.Active {
			if teamSlot < 0 {
				continue
			}
			mon := sd.Team.Slots[teamSlot]
			if mon == nil || mon.Fainted() {
				continue
			}
			fn(side, slot, mon)
		}
	}
}

// weatherDamage applies sandstorm/hail chip damage (1/16 max HP, at
// least 1) to every active combatant; type-based immunity (Rock/Ground/
// Steel in sand, Ice in hail) is not applied (see DESIGN.md).
func (e *Engine) weatherDamage() []protocol.Event {
	if e.state.Field.Weather != WeatherSand && e.state.Field.Weather != WeatherHail {
		return nil
	}
	var events []protocol.Event
	e.forEachActive(func(side, slot int, mon *combatant.Combatant) {
		dmg := mon.MaxHP / 16
		if dmg < 1 {
			dmg = 1
		}
		mon.TakeDamage(dmg)
		events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(side, slot, mon.Nickname), protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond))}})
	})
	return events
}

// statusDamage applies burn (1/16), poison (1/8), and toxic (n/16,
// n incrementing each turn) residual damage, per spec 3.1 GLOSSARY
// "Major status".
func (e *Engine) statusDamage() []protocol.Event {
	var events []protocol.Event
	e.forEachActive(func(side, slot int, mon *combatant.Combatant) {
		var dmg int
		switch mon.StatusCond {
		case combatant.StatusBurn:
			dmg = mon.MaxHP / 16
		case combatant.StatusPoison:
			dmg = mon.MaxHP / 8
		case combatant.StatusToxic:
			mon.StatusCounter++
			dmg = mon.MaxHP * mon.StatusCounter / 16
		default:
			return
		}
		if dmg < 1 {
			dmg = 1
		}
		mon.TakeDamage(dmg)
		events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(side, slot, mon.Nickname), protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond))}})
	})
	return events
}

// leechSeedDamage drains 1/8 max HP from a seeded combatant to the
// seeder, per spec GLOSSARY "Leech Seed".
func (e *Engine) leechSeedDamage() []protocol.Event {
	var events []protocol.Event
	e.forEachActive(func(side, slot int, mon *combatant.Combatant) {
		if !mon.Volatiles.LeechSeed {
			return
		}
		dmg := mon.MaxHP / 8
		if dmg < 1 {
			dmg = 1
		}
		actual := mon.TakeDamage(dmg)
		events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(side, slot, mon.Nickname), protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond))}})

		if seederTeamSlot := mon.Volatiles.LeechSeedTarget; seederTeamSlot >= 0 {
			oppSide := 1 - side
			for oppSlot, ts := range e.state.Sides[oppSide].Active {
				if ts != seederTeamSlot {
					continue
				}
				seeder := e.state.Sides[oppSide].Team.Slots[ts]
				if seeder != nil && !seeder.Fainted() {
					healed := seeder.Heal(actual)
					if healed > 0 {
						events = append(events, protocol.Event{Type: protocol.EventHeal, Fields: []string{protocol.Slot(oppSide, oppSlot, seeder.Nickname), protocol.HPStatus(seeder.CurrentHP, seeder.MaxHP, statusWireString(seeder.StatusCond))}})
					}
				}
			}
		}
	})
	return events
}

// perishCountdown decrements Perish Song counters, fainting a
// combatant whose count reaches zero.
func (e *Engine) perishCountdown() []protocol.Event {
	var events []protocol.Event
	e.forEachActive(func(side, slot int, mon *combatant.Combatant) {
		if mon.Volatiles.PerishCount <= 0 {
			return
		}
		mon.Volatiles.PerishCount--
		if mon.Volatiles.PerishCount == 0 {
			mon.TakeDamage(mon.CurrentHP)
		}
	})
	return events
}

// delayedDamage delivers Future Sight / Doom Desire damage whose delay
// has elapsed, per spec 3.2 SlotCondition fields.
func (e *Engine) delayedDamage() []protocol.Event {
	var events []protocol.Event
	for side, sd := range e.state.Sides {
		for slot := range sd.SlotCondition {
			sc := &sd.SlotCondition[slot]
			if sc.FutureSightDelay > 0 {
				sc.FutureSightDelay--
				if sc.FutureSightDelay == 0 && sc.FutureSightDamage > 0 {
					if mon := e.state.ActiveCombatant(side, slot); mon != nil && !mon.Fainted() {
						mon.TakeDamage(sc.FutureSightDamage)
						events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(side, slot, mon.Nickname), protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond))}})
					}
					sc.FutureSightDamage = 0
				}
			}
			if sc.DoomDesireDelay > 0 {
				sc.DoomDesireDelay--
				if sc.DoomDesireDelay == 0 && sc.DoomDesireDamage > 0 {
					if mon := e.state.ActiveCombatant(side, slot); mon != nil && !mon.Fainted() {
						mon.TakeDamage(sc.DoomDesireDamage)
						events = append(events, protocol.Event{Type: protocol.EventDamage, Fields: []string{protocol.Slot(side, slot, mon.Nickname), protocol.HPStatus(mon.CurrentHP, mon.MaxHP, statusWireString(mon.StatusCond))}})
					}
					sc.DoomDesireDamage = 0
				}
			}
		}
	}
	return events
}

// decrementFieldCounters ticks down every turn-counted field and side
// condition (weather, terrain, screens, tailwind, trick room and the
// rest of PseudoWeather), clamped at zero.
func (e *Engine) decrementFieldCounters() {
	dec := func(n *int) {
		if *n > 0 {
			*n--
		}
	}
	if e.state.Field.WeatherTurns > 0 {
		dec(&e.state.Field.WeatherTurns)
		if e.state.Field.WeatherTurns == 0 {
			e.state.Field.Weather = WeatherNone
		}
	}
	if e.state.Field.TerrainTurns > 0 {
		dec(&e.state.Field.TerrainTurns)
		if e.state.Field.TerrainTurns == 0 {
			e.state.Field.Terrain = TerrainNone
		}
	}
	dec(&e.state.Field.Pseudo.TrickRoom)
	dec(&e.state.Field.Pseudo.Gravity)
	dec(&e.state.Field.Pseudo.MagicRoom)
	dec(&e.state.Field.Pseudo.WonderRoom)
	dec(&e.state.Field.Pseudo.MudSport)
	dec(&e.state.Field.Pseudo.WaterSport)
	dec(&e.state.Field.Pseudo.IonDeluge)
	dec(&e.state.Field.Pseudo.FairyLock)

	for _, sd := range e.state.Sides {
		dec(&sd.Conditions.Reflect)
		dec(&sd.Conditions.LightScreen)
		dec(&sd.Conditions.AuroraVeil)
		dec(&sd.Conditions.Safeguard)
		dec(&sd.Conditions.Mist)
		dec(&sd.Conditions.Tailwind)
		dec(&sd.Conditions.LuckyChant)

		for _, mon := range sd.Team.Slots {
			if mon == nil {
				continue
			}
			dec(&mon.Volatiles.Encore)
			dec(&mon.Volatiles.Taunt)
			dec(&mon.Volatiles.Disable)
			dec(&mon.Volatiles.Confusion)
			dec(&mon.Volatiles.Trapped)
			dec(&mon.Volatiles.MagnetRise)
			dec(&mon.Volatiles.HealBlock)
			dec(&mon.Volatiles.Embargo)
			dec(&mon.Volatiles.Telekinesis)
		}
	}
}
