// Package data is the read-only static data surface the battle engine
// consumes: species, move, ability, item, and nature records plus the
// type-effectiveness chart, all keyed by integer id. Nothing in this
// package is mutated once loaded; a *GameData handle is shared
// read-only across as many concurrent battles as the caller likes (see
// spec "Shared-resource policy").
//
// The engine never auto-loads this data (spec DESIGN NOTES: "global
// registries -> dependency injection"); callers build a *GameData via
// LoadFrom or NewGameData and pass it into battle.New explicitly.
package data

import "fmt"

// TargetKind enumerates a move's legal target shape.
type TargetKind int

const (
	TargetNormal TargetKind = iota
	TargetAdjacentFoe
	TargetAny
	TargetSelf
	TargetAllAdjacent
	TargetAllFoes
	TargetAllies
	TargetAllAdjacentFoes
	TargetAll
	TargetRandomFoe
)

// Category is a move's damage category.
type Category int

const (
	CategoryStatus Category = iota
	CategoryPhysical
	CategorySpecial
)

// NoAccuracyCheck is the sentinel base-power/accuracy value meaning
// "always hits" (e.g. Swift, or status moves with no accuracy check).
const NoAccuracyCheck = -1

// MoveFlags is a small bitset of move tags the engine consults (contact,
// sound, etc.) rather than special-casing move ids throughout the engine.
type MoveFlags uint32

const (
	FlagContact MoveFlags = 1 << iota
	FlagSound
	FlagPunch
	FlagBite
	FlagBallistic
	FlagProtectable
	FlagSpread
)

// MoveData is the read-only description of a move.
type MoveData struct {
	ID       int
	Name     string
	Type     int
	Category Category
	BasePower int
	Accuracy int // 1..100, or NoAccuracyCheck
	PP       int
	Priority int
	Target   TargetKind
	Flags    MoveFlags

	// Secondary/status effect, tagged per the same "canonical subset"
	// taxonomy as AbilityKind/ItemKind: effects outside this set are
	// MoveEffectKindNone and the move is damage-only (or, for status
	// moves outside the subset, a no-op beyond PP consumption), per spec
	// 4.F.5 "unlisted status moves are no-ops".
	Effect        MoveEffectKind
	EffectStat    int // statmodel.StatIndex ordinal (Atk..Spe); meaningful only for stat-boost/lower effects
	EffectStages  int
	EffectChance  int // 0-100; 0 means "always" for a status move's own effect, or "never" as a damaging move's secondary
	RecoilPercent int // percent of damage dealt returned to the attacker as recoil
}

// MoveEffectKind tags the canonical subset of move secondary/status
// effects the engine implements natively.
type MoveEffectKind int

const (
	MoveEffectKindNone MoveEffectKind = iota
	MoveEffectKindStatBoostSelf
	MoveEffectKindStatLowerTarget
	MoveEffectKindTailwind
	MoveEffectKindReflect
	MoveEffectKindLightScreen
	MoveEffectKindAuroraVeil
	MoveEffectKindTrickRoom
	MoveEffectKindRecoil
	MoveEffectKindBurn
	MoveEffectKindParalyze
	MoveEffectKindPoison
	MoveEffectKindFlinch
	MoveEffectKindHeal
)

// AlwaysHits reports whether this move skips the accuracy roll entirely.
func (m MoveData) AlwaysHits() bool {
	return m.Accuracy == NoAccuracyCheck
}

// SpeciesData is the read-only description of a species.
type SpeciesData struct {
	ID               int
	Name             string
	BaseStats        BaseStats
	Type1            int
	Type2            int // -1 if the species is single-typed
	DefaultAbilities []int
}

// BaseStats holds a species' base stat spread.
type BaseStats struct {
	HP, Atk, Def, SpA, SpD, Spe int
}

// AbilityData is the read-only description of an ability. The engine
// only models the canonical subset named in the spec; abilities outside
// that subset still have a record here (for team validation and display)
// but the turn engine treats their Kind as AbilityKindUnimplemented.
type AbilityData struct {
	ID   int
	Name string
	Kind AbilityKind
	// EffectValue disambiguates a Kind that needs a parameter: for
	// AbilityKindWeatherSetter it is a battle.Weather ordinal, for
	// AbilityKindTerrainSetter a battle.Terrain ordinal. Unused by every
	// other Kind.
	EffectValue int
}

// AbilityKind tags the (small) canonical subset of ability effects the
// engine implements natively. Anything else is AbilityKindUnimplemented
// and is a no-op by taxonomy (spec 7: "Unimplemented ... not fatal").
type AbilityKind int

const (
	AbilityKindUnimplemented AbilityKind = iota
	AbilityKindIntimidate
	AbilityKindWeatherSetter
	AbilityKindTerrainSetter
	AbilityKindAdaptability
	AbilityKindSpeedBoostOnStatus // e.g. Quick Feet
	AbilityKindPriorityBoostStatus // e.g. Prankster
	AbilityKindPriorityBoostFlying // e.g. Gale Wings
	AbilityKindSupremeOverlord
	AbilityKindGoodAsGold
	AbilityKindFlashFire
)

// ItemData is the read-only description of a held item.
type ItemData struct {
	ID   int
	Name string
	Kind ItemKind
	// EffectValue disambiguates a Kind that needs a parameter: for
	// ItemKindTypeBoostLike it is the boosted move-type id. Unused by
	// every other Kind.
	EffectValue int
}

// Canonical type ids, in the conventional Pokemon type order; the
// 18x18 TypeChart and every MoveData/SpeciesData Type field are indices
// into this same ordering.
const (
	TypeNormal = iota
	TypeFire
	TypeWater
	TypeElectric
	TypeGrass
	TypeIce
	TypeFighting
	TypePoison
	TypeGround
	TypeFlying
	TypePsychic
	TypeBug
	TypeRock
	TypeGhost
	TypeDragon
	TypeDark
	TypeSteel
	TypeFairy
)

// ItemKind tags the canonical subset of held-item effects modeled.
type ItemKind int

const (
	ItemKindNone ItemKind = iota
	ItemKindFocusSashLike
	ItemKindLifeOrbLike
	ItemKindChoiceBandLike
	ItemKindChoiceScarfLike
	ItemKindChoiceSpecsLike
	ItemKindLightClayLike
	ItemKindTypeBoostLike
	ItemKindAssaultVestLike
)

// NatureData returns the (boosted, hindered) stat indices for a nature.
// Stat indices follow the order Atk, Def, SpA, SpD, Spe (0..4); -1 means
// "no stat in this slot", used only defensively (every real nature has both).
type NatureData struct {
	ID       int
	Name     string
	Boosted  int
	Hindered int
}

// Neutral reports whether this nature has no net effect (boosted == hindered).
func (n NatureData) Neutral() bool {
	return n.Boosted == n.Hindered
}

// TypeChart is an 18x18 effectiveness matrix; TypeChart[attackType][defendType]
// is one of {0, 0.25, 0.5, 1, 2, 4}.
type TypeChart [][]float64

// Effectiveness multiplies the chart entries for a move's type against
// each of the defender's (one or two) types.
func (tc TypeChart) Effectiveness(moveType int, defenderTypes ...int) float64 {
	mult := 1.0
	for _, dt := range defenderTypes {
		if dt < 0 {
			continue
		}
		mult *= tc[moveType][dt]
	}
	return mult
}

// GameData is the full read-only registry passed into battle.New.
type GameData struct {
	Species   map[int]SpeciesData
	Moves     map[int]MoveData
	Abilities map[int]AbilityData
	Items     map[int]ItemData
	Natures   map[int]NatureData
	Types     TypeChart
}

// NewGameData returns an empty registry, intended to be populated by a
// caller (tests, fixtures, or LoadFrom) before use.
func NewGameData() *GameData {
	return &GameData{
		Species:   map[int]SpeciesData{},
		Moves:     map[int]MoveData{},
		Abilities: map[int]AbilityData{},
		Items:     map[int]ItemData{},
		Natures:   map[int]NatureData{},
		Types:     NewNeutralTypeChart(),
	}
}

// NewNeutralTypeChart returns an 18x18 chart with every entry 1.0; callers
// overwrite entries with DataMissing-checked real effectiveness values.
func NewNeutralTypeChart() TypeChart {
	const numTypes = 18
	tc := make(TypeChart, numTypes)
	for i := range tc {
		tc[i] = make([]float64, numTypes)
		for j := range tc[i] {
			tc[i][j] = 1.0
		}
	}
	return tc
}

// ErrDataMissing is the DataMissing error kind from spec §7: a referenced
// species/move/ability/item/nature id is absent from the static surface.
type ErrDataMissing struct {
	Kind string
	ID   int
}

func (e *ErrDataMissing) Error() string {
	return fmt.Sprintf("data: %s id %d not found in static data surface", e.Kind, e.ID)
}

// SpeciesByID looks up a species by id, returning ErrDataMissing if absent.
func (g *GameData) SpeciesByID(id int) (SpeciesData, error) {
	s, ok := g.Species[id]
	if !ok {
		return SpeciesData{}, &ErrDataMissing{Kind: "species", ID: id}
	}
	return s, nil
}

// MoveByID looks up a move by id, returning ErrDataMissing if absent. Move
// id 0 is reserved for "empty slot" and is never a valid lookup.
func (g *GameData) MoveByID(id int) (MoveData, error) {
	if id == 0 {
		return MoveData{}, &ErrDataMissing{Kind: "move", ID: id}
	}
	m, ok := g.Moves[id]
	if !ok {
		return MoveData{}, &ErrDataMissing{Kind: "move", ID: id}
	}
	return m, nil
}

// AbilityByID looks up an ability by id, returning ErrDataMissing if absent.
func (g *GameData) AbilityByID(id int) (AbilityData, error) {
	a, ok := g.Abilities[id]
	if !ok {
		return AbilityData{}, &ErrDataMissing{Kind: "ability", ID: id}
	}
	return a, nil
}

// ItemByID looks up an item by id. Item id 0 means "no item held" and
// always resolves to the zero ItemData without error.
func (g *GameData) ItemByID(id int) (ItemData, error) {
	if id == 0 {
		return ItemData{}, nil
	}
	it, ok := g.Items[id]
	if !ok {
		return ItemData{}, &ErrDataMissing{Kind: "item", ID: id}
	}
	return it, nil
}

// NatureByID looks up a nature by id, returning ErrDataMissing if absent.
func (g *GameData) NatureByID(id int) (NatureData, error) {
	n, ok := g.Natures[id]
	if !ok {
		return NatureData{}, &ErrDataMissing{Kind: "nature", ID: id}
	}
	return n, nil
}
