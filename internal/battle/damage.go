package battle

import (
	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/statmodel"
)

// damageContext bundles the inputs damage() needs beyond the attacker
// and defender records themselves.
type damageContext struct {
	move       data.MoveData
	numTargets int // >1 marks a spread hit (doubles multi-target move)
	atkSide    int
	defSide    int
}

// accuracyCheck rolls the move's accuracy against attacker
// accuracy-stage and defender evasion-stage multipliers, per spec
// §4.F.4. Moves with AlwaysHits() never consume a PRNG draw.
func (e *Engine) accuracyCheck(attacker, defender *combatant.Combatant, md data.MoveData) bool {
	if md.AlwaysHits() {
		return true
	}
	acc := float64(md.Accuracy)
	acc *= statmodel.AccuracyStageMultiplier(attacker.Stages.Accuracy)
	acc /= statmodel.AccuracyStageMultiplier(defender.Stages.Evasion)
	if acc > 100 {
		acc = 100
	}
	roll := e.state.RNG.NextPercent() // 0..99
	return float64(roll) < acc
}

// damage computes the spec §4.F.3 damage formula: base power, attacker
// stat (with stage + burn halving for physical), defender stat (with
// stage and the Assault-Vest-equivalent special-defense boost), level
// term, STAB, type effectiveness, attacker item multiplier, Supreme
// Overlord, terrain, screens, spread multiplier, and the fixed damage
// roll range, all floored at each multiplication step the way the
// original integer-only formula does.
func (e *Engine) damage(attacker, defender *combatant.Combatant, ctx damageContext) (amount int, effectiveness float64) {
	md := ctx.move
	if md.Category == data.CategoryStatus || md.BasePower <= 0 {
		return 0, 1.0
	}

	defItem, _ := e.data().ItemByID(defender.ItemID)

	var atkStat, defStat float64
	if md.Category == data.CategoryPhysical {
		atkStat = float64(attacker.Atk) * statmodel.StageMultiplier(attacker.Stages.Atk)
		if attacker.StatusCond == combatant.StatusBurn {
			atkStat *= 0.5
		}
		defStat = float64(defender.Def) * statmodel.StageMultiplier(defender.Stages.Def)
	} else {
		atkStat = float64(attacker.SpA) * statmodel.StageMultiplier(attacker.Stages.SpA)
		defStat = float64(defender.SpD) * statmodel.StageMultiplier(defender.Stages.SpD)
		if defItem.Kind == data.ItemKindAssaultVestLike {
			defStat *= 1.5
		}
	}

	base := float64(2*attacker.Level/5+2) * float64(md.BasePower) * atkStat / defStat
	base = float64(int(base/50)) + 2

	t1, t2 := attacker.ActiveTypes()
	if md.Type == t1 || md.Type == t2 {
		stab := 1.5
		if ability, err := e.data().AbilityByID(attacker.AbilityID); err == nil && ability.Kind == data.AbilityKindAdaptability {
			stab = 2.0
		}
		base = floorMul(base, stab)
	}

	dt1, dt2 := defender.ActiveTypes()
	eff := e.data().Types.Effectiveness(md.Type, dt1, dt2)
	base = floorMul(base, eff)

	base = floorMul(base, e.attackerItemMultiplier(attacker, md))
	base = floorMul(base, e.attackerAbilityMultiplier(attacker, md))
	base = floorMul(base, e.supremeOverlordMultiplier(attacker, ctx.atkSide, md))
	base = floorMul(base, e.terrainMultiplier(md))
	base = floorMul(base, e.screenMultiplier(ctx.defSide, md))

	if ctx.numTargets > 1 && md.Flags&data.FlagSpread != 0 {
		base = floorMul(base, e.state.Rules.SpreadDamageMultiplier)
	}

	roll := e.state.Rules.DamageRollMin
	if e.state.Rules.DamageRollMax > e.state.Rules.DamageRollMin {
		span := e.state.Rules.DamageRollMax - e.state.Rules.DamageRollMin + 1
		roll = e.state.Rules.DamageRollMin + e.state.RNG.NextRange(span)
	}
	base = float64(int(base * float64(roll) / 100.0))

	amount = int(base)
	if amount < 1 && eff > 0 {
		amount = 1
	}
	return amount, eff
}

// attackerItemMultiplier folds in the held-item damage boosts of spec
// §4.F.3's attacker_item_mult term: Life Orb 1.3, Choice Band 1.5 on
// physical moves, Choice Specs 1.5 on special moves, and a 1.2 boost
// for a type-matching boost item (EffectValue holds the boosted type).
func (e *Engine) attackerItemMultiplier(attacker *combatant.Combatant, md data.MoveData) float64 {
	item, err := e.data().ItemByID(attacker.ItemID)
	if err != nil {
		return 1.0
	}
	switch item.Kind {
	case data.ItemKindLifeOrbLike:
		return 1.3
	case data.ItemKindChoiceBandLike:
		if md.Category == data.CategoryPhysical {
			return 1.5
		}
	case data.ItemKindChoiceSpecsLike:
		if md.Category == data.CategorySpecial {
			return 1.5
		}
	case data.ItemKindTypeBoostLike:
		if md.Type == item.EffectValue {
			return 1.2
		}
	}
	return 1.0
}

// attackerAbilityMultiplier implements the Flash-Fire-equivalent boost:
// an attacker that has absorbed a Fire move this battle (Volatiles.FlashFire,
// set in applyMoveToTarget's immunity branch) deals 1.5x with its own
// Fire-type moves.
func (e *Engine) attackerAbilityMultiplier(attacker *combatant.Combatant, md data.MoveData) float64 {
	ability, err := e.data().AbilityByID(attacker.AbilityID)
	if err != nil || ability.Kind != data.AbilityKindFlashFire {
		return 1.0
	}
	if attacker.Volatiles.FlashFire && md.Type == data.TypeFire {
		return 1.5
	}
	return 1.0
}

// supremeOverlordMultiplier implements the 1 + 0.1·fainted_allies
// boost (capped at +50%, i.e. 5 fainted allies) for an attacker whose
// ability is AbilityKindSupremeOverlord.
func (e *Engine) supremeOverlordMultiplier(attacker *combatant.Combatant, atkSide int, md data.MoveData) float64 {
	ability, err := e.data().AbilityByID(attacker.AbilityID)
	if err != nil || ability.Kind != data.AbilityKindSupremeOverlord {
		return 1.0
	}
	fainted := 0
	for _, mon := range e.state.Sides[atkSide].Team.Slots {
		if mon != nil && mon != attacker && mon.Fainted() {
			fainted++
		}
	}
	if fainted > 5 {
		fainted = 5
	}
	return 1.0 + 0.1*float64(fainted)
}

// terrainMultiplier implements the grassy/electric/psychic 1.3 same-type
// boost and the misty 0.5 Dragon-move penalty. Terrain is field-wide in
// this modeled subset; grounded-only exceptions (Flying types, Levitate)
// are out of scope, matching the weather-chip-damage simplification
// already noted in DESIGN.md.
func (e *Engine) terrainMultiplier(md data.MoveData) float64 {
	switch e.state.Field.Terrain {
	case TerrainElectric:
		if md.Type == data.TypeElectric {
			return 1.3
		}
	case TerrainGrassy:
		if md.Type == data.TypeGrass {
			return 1.3
		}
	case TerrainPsychic:
		if md.Type == data.TypePsychic {
			return 1.3
		}
	case TerrainMisty:
		if md.Type == data.TypeDragon {
			return 0.5
		}
	}
	return 1.0
}

// screenMultiplier applies the defending side's active Reflect/Light
// Screen/Aurora Veil counters: 0.5 against the matching category
// (Aurora Veil covers both). Doubles use the same uniform 0.5 as
// singles rather than the real-game 2/3 ratio; the active-slot count is
// not consulted here.
func (e *Engine) screenMultiplier(defSide int, md data.MoveData) float64 {
	cond := e.state.Sides[defSide].Conditions
	switch md.Category {
	case data.CategoryPhysical:
		if cond.Reflect > 0 || cond.AuroraVeil > 0 {
			return 0.5
		}
	case data.CategorySpecial:
		if cond.LightScreen > 0 || cond.AuroraVeil > 0 {
			return 0.5
		}
	}
	return 1.0
}

// focusSashSurvives reports whether a defender at full HP holding a
// Focus-Sash-like item (and not having already consumed it this
// battle) survives a hit that would otherwise faint it, reducing the
// incoming damage to leave exactly 1 HP. This is the supplemented
// "Focus Sash activates at most once per battle" rule (SPEC_FULL.md).
func (e *Engine) focusSashSurvives(defender *combatant.Combatant, incoming int) (adjusted int, consumed bool) {
	if incoming < defender.CurrentHP {
		return incoming, false
	}
	if defender.SashConsumed || defender.CurrentHP != defender.MaxHP {
		return incoming, false
	}
	item, err := e.data().ItemByID(defender.ItemID)
	if err != nil || item.Kind != data.ItemKindFocusSashLike {
		return incoming, false
	}
	return defender.CurrentHP - 1, true
}
