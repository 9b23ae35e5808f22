// Package statmodel implements the pure stat arithmetic of spec §4.B:
// HP/stat formulas, the nature multiplier table, and the stage and
// accuracy/evasion multiplier tables. Every function here is a total,
// side-effect-free calculation over small integers, grounded on
// original_source/classes/pokemon.py's _calc_hp/_calc_other floor-division
// order (Go's integer division already floors toward zero for
// non-negative operands, so it is used directly in place of math.Floor).
package statmodel

// HP computes max HP per spec 4.B, with the Shedinja exception: a base
// HP of 1 always yields exactly 1 regardless of level/IV/EV.
func HP(base, iv, ev, level int) int {
	if base == 1 {
		return 1
	}
	return (2*base+iv+ev/4)*level/100 + level + 10
}

// Stat computes a non-HP stat (Atk/Def/SpA/SpD/Spe) per spec 4.B.
// natureMult is one of {0.9, 1.0, 1.1}.
func Stat(base, iv, ev, level int, natureMult float64) int {
	pre := (2*base+iv+ev/4)*level/100 + 5
	return int(float64(pre) * natureMult)
}

// StatIndex names the five non-HP stats a nature can boost/hinder, in the
// canonical order used throughout this package and by data.NatureData.
type StatIndex int

const (
	StatAtk StatIndex = iota
	StatDef
	StatSpA
	StatSpD
	StatSpe
	numStats
)

// NatureMultiplier returns the multiplier a nature applies to stat,
// given the nature's boosted/hindered stat indices (-1 allowed for
// neither, though no real nature needs it). Neutral natures (boosted ==
// hindered) return 1.0 for every stat, per spec: "Neutral natures map
// both boosted and hindered to the same stat, yielding 1.0 everywhere."
func NatureMultiplier(stat StatIndex, boosted, hindered StatIndex) float64 {
	switch {
	case boosted == hindered:
		return 1.0
	case stat == boosted:
		return 1.1
	case stat == hindered:
		return 0.9
	default:
		return 1.0
	}
}

// stageRatio returns the (numerator, denominator) pair for stat stage s
// (clamped to [-6, 6]) per spec 4.B: pair (max(2,2+s), max(2,2-s)).
func stageRatio(stage int) (num, den int) {
	if stage > 6 {
		stage = 6
	}
	if stage < -6 {
		stage = -6
	}
	num = 2 + stage
	if num < 2 {
		num = 2
	}
	den = 2 - stage
	if den < 2 {
		den = 2
	}
	return
}

// StageMultiplier returns the Atk/Def/SpA/SpD/Spe stage multiplier for
// stage (clamped to [-6, 6]). At stage 0 this is exactly 1.0; at +6, 4.0;
// at -6, 0.25.
func StageMultiplier(stage int) float64 {
	num, den := stageRatio(stage)
	return float64(num) / float64(den)
}

// accuracyStageRatio is the accuracy/evasion variant of stageRatio: pair
// (max(3,3+s), max(3,3-s)).
func accuracyStageRatio(stage int) (num, den int) {
	if stage > 6 {
		stage = 6
	}
	if stage < -6 {
		stage = -6
	}
	num = 3 + stage
	if num < 3 {
		num = 3
	}
	den = 3 - stage
	if den < 3 {
		den = 3
	}
	return
}

// AccuracyStageMultiplier returns the accuracy/evasion stage multiplier
// for stage (clamped to [-6, 6]). At stage 0 this is exactly 1.0; at +6,
// 3.0; at -6, 1/3.
func AccuracyStageMultiplier(stage int) float64 {
	num, den := accuracyStageRatio(stage)
	return float64(num) / float64(den)
}

// ClampStage clamps a stage value to [-6, 6] and returns both the
// clamped value and the delta actually applied relative to prior (used
// by "fail, already at +6/-6" messages per spec 3.1 invariants).
func ClampStage(prior, delta int) (newStage, appliedDelta int) {
	newStage = prior + delta
	if newStage > 6 {
		newStage = 6
	}
	if newStage < -6 {
		newStage = -6
	}
	return newStage, newStage - prior
}
