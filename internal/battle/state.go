// Package battle implements the packed battle state (spec §3.2/4.D), the
// choice/action protocol (§3.3/4.E), and the turn engine (§4.F) — the
// centerpiece of the simulator. The engine is single-threaded and fully
// deterministic given (seed, choices): every random draw goes through
// the State's owned PRNG in a fixed order (spec §5).
package battle

import (
	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/prng"
)

// Weather ids (spec 3.2).
type Weather int

const (
	WeatherNone Weather = iota
	WeatherSun
	WeatherRain
	WeatherSand
	WeatherHail
	WeatherSnow
	WeatherHarshSun
	WeatherHeavyRain
	WeatherStrongWinds
)

// Terrain ids (spec 3.2).
type Terrain int

const (
	TerrainNone Terrain = iota
	TerrainElectric
	TerrainGrassy
	TerrainMisty
	TerrainPsychic
)

// Winner enumerates the battle's terminal outcome.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerSide0
	WinnerSide1
	WinnerTie
)

// PseudoWeather holds the field-wide toggles of spec 3.2, each with an
// independent turn counter (0 means inactive).
type PseudoWeather struct {
	TrickRoom  int
	Gravity    int
	MagicRoom  int
	WonderRoom int
	MudSport   int
	WaterSport int
	IonDeluge  int
	FairyLock  int
}

// FieldState is the whole-battle (not per-side) environment.
type FieldState struct {
	Weather      Weather
	WeatherTurns int
	Terrain      Terrain
	TerrainTurns int
	Pseudo       PseudoWeather
}

// SideConditions holds the per-side effects of spec 3.2.
type SideConditions struct {
	Reflect        int
	LightScreen    int
	AuroraVeil     int
	Safeguard      int
	Mist           int
	Tailwind       int
	LuckyChant     int
	Spikes         int
	ToxicSpikes    int
	StealthRock    bool
	StickyWeb      bool
	WideGuard      bool
	QuickGuard     bool
	MatBlock       bool
	CraftyShield   bool
	WishAmount     int
	WishDelay      int
	HealingWish    bool
	LunarDance     bool
}

// SlotCondition holds the per-active-slot delayed effects of spec 3.2.
type SlotCondition struct {
	FutureSightDamage int
	FutureSightUserID int
	FutureSightDelay  int
	DoomDesireDamage  int
	DoomDesireUserID  int
	DoomDesireDelay   int
}

// FaintEntry is one (side, team slot) pair awaiting bookkeeping.
type FaintEntry struct {
	Side     int
	TeamSlot int
}

// Team is one side's up-to-6 combatants in fixed slots.
type Team struct {
	Slots [6]*combatant.Combatant
	Size  int // number of non-nil slots actually in play
}

// Side bundles one player's team, active mapping, conditions.
type Side struct {
	Team          Team
	Active        []int // len 1 (singles) or 2 (doubles); -1 means empty slot pending forced switch
	Conditions    SideConditions
	SlotCondition []SlotCondition // len == len(Active)
}

// State is the full packed battle state of spec 3.2.
type State struct {
	Sides      [2]*Side
	Field      FieldState
	FaintQueue []FaintEntry
	RNG        *prng.Source
	Turn       int
	Ended      bool
	Winner     Winner

	GameData    *data.GameData
	ActiveSlots int // 1 (singles) or 2 (doubles)

	// Rule toggles resolving spec Open Questions; see SPEC_FULL.md.
	Rules Rules
}

// Rules holds the configurable rule toggles from the spec's Open
// Questions (damage roll variance, spread factor, fainted-target
// redirect).
type Rules struct {
	DamageRollMin          int // default 100 (fixed roll)
	DamageRollMax          int // default 100
	SpreadDamageMultiplier float64 // default 0.75
	RedirectFaintedTarget  bool    // default true
}

// DefaultRules returns the spec's documented canonical defaults.
func DefaultRules() Rules {
	return Rules{
		DamageRollMin:          100,
		DamageRollMax:          100,
		SpreadDamageMultiplier: 0.75,
		RedirectFaintedTarget:  true,
	}
}

// New constructs a battle State with the given active slot count (1
// singles, 2 doubles; any other value falls back to 1) and PRNG seed.
// Each side has six team slots; teams may leave trailing slots nil.
func New(gd *data.GameData, activeSlots int, seed uint64) *State {
	if activeSlots != 1 && activeSlots != 2 {
		activeSlots = 1
	}
	mkSide := func() *Side {
		active := make([]int, activeSlots)
		for i := range active {
			active[i] = -1
		}
		return &Side{
			Active:        active,
			SlotCondition: make([]SlotCondition, activeSlots),
		}
	}
	return &State{
		Sides:       [2]*Side{mkSide(), mkSide()},
		RNG:         prng.New(seed),
		GameData:    gd,
		ActiveSlots: activeSlots,
		Rules:       DefaultRules(),
	}
}

// SetTeam installs mon at teamSlot (0-5) for side.
func (s *State) SetTeam(side, teamSlot int, mon *combatant.Combatant) {
	sd := s.Sides[side]
	if sd.Team.Slots[teamSlot] == nil {
		sd.Team.Size++
	}
	sd.Team.Slots[teamSlot] = mon
}

// GetPokemon returns an unmutated view of the combatant in teamSlot.
func (s *State) GetPokemon(side, teamSlot int) *combatant.Combatant {
	return s.Sides[side].Team.Slots[teamSlot]
}

// ActiveCombatant returns the combatant currently in activeSlot for
// side, or nil if that slot is empty (fainted, awaiting forced switch).
func (s *State) ActiveCombatant(side, activeSlot int) *combatant.Combatant {
	teamSlot := s.Sides[side].Active[activeSlot]
	if teamSlot < 0 {
		return nil
	}
	return s.Sides[side].Team.Slots[teamSlot]
}

// firstNonFaintedReserve returns the lowest team slot index not already
// active and not fainted, or -1 if none remain.
func (s *Side) firstNonFaintedReserve(excludeActive bool) int {
	activeSet := map[int]bool{}
	if excludeActive {
		for _, a := range s.Active {
			if a >= 0 {
				activeSet[a] = true
			}
		}
	}
	for i, mon := range s.Team.Slots {
		if mon == nil || mon.Fainted() || activeSet[i] {
			continue
		}
		return i
	}
	return -1
}

// HasReserve reports whether side has any non-fainted, non-active team
// slot remaining.
func (s *State) HasReserve(side int) bool {
	return s.Sides[side].firstNonFaintedReserve(true) >= 0
}

// AllFainted reports whether every team slot for side is nil or fainted.
func (s *State) AllFainted(side int) bool {
	sd := s.Sides[side]
	for _, mon := range sd.Team.Slots {
		if mon != nil && !mon.Fainted() {
			return false
		}
	}
	return true
}

// StartBattle seals teams and places initial actives (team slots 0 and 1
// for doubles; slot 0 for singles). Entry-time effects are resolved
// afterwards by Engine.Start (it needs event emission) in the order
// side 0 slot 0, side 0 slot 1, side 1 slot 0, side 1 slot 1;
// StartBattle only establishes the initial active mapping and checks
// victory.
func (s *State) StartBattle() {
	for sideIdx, sd := range s.Sides {
		_ = sideIdx
		for activeSlot := range sd.Active {
			if activeSlot < len(sd.Team.Slots) && sd.Team.Slots[activeSlot] != nil && !sd.Team.Slots[activeSlot].Fainted() {
				sd.Active[activeSlot] = activeSlot
			}
		}
	}
	s.checkVictory()
}

// SwapActive changes the active mapping for (side, activeSlot) to
// teamSlot, resetting the outgoing combatant's volatile/stage state
// (spec 4.D: "treat all volatile/stage state as cleared on switch").
func (s *State) SwapActive(side, activeSlot, teamSlot int) {
	sd := s.Sides[side]
	if outTeamSlot := sd.Active[activeSlot]; outTeamSlot >= 0 {
		if out := sd.Team.Slots[outTeamSlot]; out != nil {
			out.ResetStages()
			out.ResetVolatiles()
		}
	}
	sd.Active[activeSlot] = teamSlot
	sd.SlotCondition[activeSlot] = SlotCondition{}
}

// checkVictory updates Ended/Winner per spec 4.D: a side with no
// remaining non-fainted team slots loses; both simultaneously empty is
// a tie. Once Ended, this is a no-op (spec §8 "Victory monotonicity").
func (s *State) checkVictory() {
	if s.Ended {
		return
	}
	side0Dead := s.AllFainted(0)
	side1Dead := s.AllFainted(1)
	switch {
	case side0Dead && side1Dead:
		s.Ended = true
		s.Winner = WinnerTie
	case side0Dead:
		s.Ended = true
		s.Winner = WinnerSide1
	case side1Dead:
		s.Ended = true
		s.Winner = WinnerSide0
	}
}
