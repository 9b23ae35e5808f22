package env

import (
	"vgcsim/internal/agent"
	"vgcsim/internal/battle"
	"vgcsim/internal/combatant"
)

// Per-combatant encoded widths (spec §4.H observation encoding). A
// self/opponent active combatant gets the full width; a reserve gets
// the reduced width ("species id, hp fraction, status").
const (
	activeWidth  = 1 /*species*/ + 1 /*level*/ + 1 /*hp frac*/ + 1 /*status*/ +
		7 /*stages*/ + 4*2 /*move id+pp ratio*/ + 1 /*ability*/ + 1 /*item*/ + 2 /*types*/
	reserveWidth = 1 /*species*/ + 1 /*hp frac*/ + 1 /*status*/
	fieldWidth   = 2 /*weather*/ + 2 /*terrain*/ + 8 /*pseudo-weather turns*/ + sideCondWidth*2
	sideCondWidth = 7 // reflect, lightscreen, auroraveil, safeguard, mist, tailwind, spikes
)

// Observe builds side's flat observation vector (spec §4.H): its own
// active combatant(s) at full width, its own reserves at reduced width,
// the opponent's active combatant(s) (species visible only after
// reveal — this engine reveals on switch-in, so opponent actives are
// always known once active), and field/side-condition encodings.
func (e *Env) Observe(side int) agent.Observation {
	var obs agent.Observation
	sd := e.state.Sides[side]
	oppSide := 1 - side
	od := e.state.Sides[oppSide]

	for activeSlot := range sd.Active {
		mon := e.state.ActiveCombatant(side, activeSlot)
		obs = append(obs, e.encodeActive(mon)...)
	}
	activeSet := map[int]bool{}
	for _, a := range sd.Active {
		if a >= 0 {
			activeSet[a] = true
		}
	}
	for i, mon := range sd.Team.Slots {
		if activeSet[i] {
			continue
		}
		obs = append(obs, encodeReserve(mon)...)
	}

	for activeSlot := range od.Active {
		mon := e.state.ActiveCombatant(oppSide, activeSlot)
		obs = append(obs, e.encodeActive(mon)...)
	}

	obs = append(obs, e.encodeField(side)...)
	return obs
}

func (e *Env) encodeActive(mon *combatant.Combatant) []float64 {
	out := make([]float64, 0, activeWidth)
	if mon == nil {
		return make([]float64, activeWidth)
	}
	out = append(out,
		float64(mon.SpeciesID),
		float64(mon.Level),
		hpFraction(mon),
		float64(mon.StatusCond),
	)
	out = append(out,
		float64(mon.Stages.Atk), float64(mon.Stages.Def), float64(mon.Stages.SpA),
		float64(mon.Stages.SpD), float64(mon.Stages.Spe),
		float64(mon.Stages.Accuracy), float64(mon.Stages.Evasion),
	)
	for _, ms := range mon.Moves {
		out = append(out, float64(ms.MoveID), e.ppRatio(ms))
	}
	out = append(out, float64(mon.AbilityID), float64(mon.ItemID))
	t1, t2 := mon.ActiveTypes()
	out = append(out, float64(t1), float64(t2))
	return out
}

func encodeReserve(mon *combatant.Combatant) []float64 {
	if mon == nil {
		return make([]float64, reserveWidth)
	}
	return []float64{float64(mon.SpeciesID), hpFraction(mon), float64(mon.StatusCond)}
}

func hpFraction(mon *combatant.Combatant) float64 {
	if mon.MaxHP == 0 {
		return 0
	}
	return float64(mon.CurrentHP) / float64(mon.MaxHP)
}

// ppRatio reports the move slot's remaining PP as a fraction of its
// base PP, falling back to the raw remaining count if the move's data
// is unavailable (spec §4.H "per-move id and PP ratio").
func (e *Env) ppRatio(ms combatant.MoveSlot) float64 {
	if ms.Empty() {
		return 0
	}
	md, err := e.gd.MoveByID(ms.MoveID)
	if err != nil || md.PP == 0 {
		return float64(ms.PP)
	}
	return float64(ms.PP) / float64(md.PP)
}

// encodeField appends weather/terrain/pseudo-weather and both sides'
// public conditions, with side's own conditions first (spec §4.H
// "Field:").
func (e *Env) encodeField(side int) []float64 {
	f := e.state.Field
	out := []float64{
		float64(f.Weather), float64(f.WeatherTurns),
		float64(f.Terrain), float64(f.TerrainTurns),
		float64(f.Pseudo.TrickRoom), float64(f.Pseudo.Gravity), float64(f.Pseudo.MagicRoom),
		float64(f.Pseudo.WonderRoom), float64(f.Pseudo.MudSport), float64(f.Pseudo.WaterSport),
		float64(f.Pseudo.IonDeluge), float64(f.Pseudo.FairyLock),
	}
	out = append(out, encodeSideConditions(e.state.Sides[side].Conditions)...)
	out = append(out, encodeSideConditions(e.state.Sides[1-side].Conditions)...)
	return out
}

func encodeSideConditions(c battle.SideConditions) []float64 {
	return []float64{
		float64(c.Reflect), float64(c.LightScreen), float64(c.AuroraVeil),
		float64(c.Safeguard), float64(c.Mist), float64(c.Tailwind), float64(c.Spikes),
	}
}
