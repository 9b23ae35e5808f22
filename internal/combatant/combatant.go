// Package combatant implements the packed per-battler record of spec
// §3.1/4.C: a plain Go struct (per spec DESIGN NOTES, "packed arrays ->
// strongly-typed struct" — memory layout is an implementation detail,
// not a contract) mutated only through the total operations below.
package combatant

import (
	"vgcsim/internal/data"
	"vgcsim/internal/statmodel"
)

// Status is a combatant's major status condition. At most one is held
// at a time (spec GLOSSARY: "Major status").
type Status int

const (
	StatusNone Status = iota
	StatusBurn
	StatusFreeze
	StatusParalysis
	StatusPoison
	StatusToxic
	StatusSleep
)

// MoveSlot is one of a combatant's four move slots.
type MoveSlot struct {
	MoveID int // 0 means empty
	PP     int
}

// Empty reports whether this slot holds no move.
func (m MoveSlot) Empty() bool { return m.MoveID == 0 }

// Stages holds the seven clampable [-6,+6] stat stages (spec 3.1).
type Stages struct {
	Atk, Def, SpA, SpD, Spe int
	Accuracy, Evasion       int
}

// Volatiles holds the per-combatant boolean/counter fields that reset on
// switch-out (spec 3.1 "Volatile flags", GLOSSARY "Volatile flag"). Only
// the canonical subset the turn engine actually drives is modeled as
// more than a bare flag; fields beyond the engine's canonical subset
// still exist here for completeness of the data model but are set/read
// only by the no-op status-move handlers (spec 4.F.5 "Unlisted status
// moves are no-ops").
type Volatiles struct {
	ProtectActive     bool
	Substitute        bool
	SubstituteHP      int
	Encore            int
	Taunt             int
	Torment           bool
	Disable           int
	Confusion         int
	Attract           bool
	Flinch            bool
	FocusEnergy       bool
	LeechSeed         bool
	LeechSeedTarget   int // team slot of the seeder's active position; read only while LeechSeed is set
	Curse             bool
	PerishCount       int
	Trapped           int
	MustRecharge      bool
	Bide              int
	Charging          int // move id being charged, 0 if none
	ChoiceLocked      int // move id locked to, 0 if none
	LastMoveUsed      int
	LastMoveTurn      int
	TimesAttacked     int
	Stockpile         int
	FlashFire         bool
	AbilitySuppressed bool
	Transform         bool
	Minimize          bool
	DefenseCurl       bool
	DestinyBond       bool
	Grudge            bool
	Ingrain           bool
	MagnetRise        int
	AquaRing          bool
	HealBlock         int
	Embargo           int
	PowerTrick        bool
	AddedType         int // -1 if none
	SmackedDown       bool
	Telekinesis       int
}

// Combatant is one battler's full packed state.
type Combatant struct {
	// Identity
	SpeciesID   int
	Level       int
	NatureID    int
	AbilityID   int
	ItemID      int
	Type1       int
	Type2       int // -1 if none
	TeraType    int // -1 if not terastallized or no tera type assigned
	Terastallized bool

	// Calculated stats
	MaxHP, Atk, Def, SpA, SpD, Spe int

	// Battle state
	CurrentHP     int
	StatusCond    Status
	StatusCounter int

	Stages Stages

	Moves [4]MoveSlot

	IVs [6]int // hp, atk, def, spa, spd, spe
	EVs [6]int

	SashConsumed bool // item-consumption flag; does NOT reset on switch

	Volatiles Volatiles

	Nickname string
}

// statIndex positions within IVs/EVs.
const (
	ivEvHP = iota
	ivEvAtk
	ivEvDef
	ivEvSpA
	ivEvSpD
	ivEvSpe
)

// ErrInvalidTeam is the InvalidTeam error kind of spec §7.
type ErrInvalidTeam struct {
	Reason string
}

func (e *ErrInvalidTeam) Error() string { return "combatant: invalid team: " + e.Reason }

// BuildOptions configures New. A zero Level becomes 100, a zero MovePP
// entry becomes the move's base PP, and a zero TeraType becomes -1; zero
// IVs become 31 only when Defaults is set, and EVs have no default.
type BuildOptions struct {
	Level    int
	NatureID int
	Ability  int
	Item     int
	MoveIDs  [4]int
	MovePP   [4]int // 0 means "use the move's base PP"
	IVs      [6]int // 0 means "default to 31" only when Defaults is true
	EVs      [6]int
	TeraType int // -1 for none
	Nickname string
	Defaults bool // when true, IVs not explicitly given default to 31
}

// New constructs a Combatant from species data and options, computing and
// storing stats once, and initializing current HP to max, all stages to
// zero, status to none, and all volatile flags false, per spec 4.C.
func New(gd *data.GameData, speciesID int, opts BuildOptions) (*Combatant, error) {
	species, err := gd.SpeciesByID(speciesID)
	if err != nil {
		return nil, err
	}

	level := opts.Level
	if level <= 0 {
		level = 100
	}
	if level > 100 {
		level = 100
	}

	ivs := opts.IVs
	if opts.Defaults {
		for i, v := range ivs {
			if v == 0 {
				ivs[i] = 31
			}
		}
	}

	evSum := 0
	for _, v := range opts.EVs {
		evSum += v
	}
	if evSum > 510 {
		return nil, &ErrInvalidTeam{Reason: "sum of EVs exceeds 510"}
	}
	for _, v := range opts.EVs {
		if v < 0 || v > 252 {
			return nil, &ErrInvalidTeam{Reason: "EV out of range [0, 252]"}
		}
	}
	for _, v := range ivs {
		if v < 0 || v > 31 {
			return nil, &ErrInvalidTeam{Reason: "IV out of range [0, 31]"}
		}
	}

	nature, ok := statmodel.NatureByID(opts.NatureID)
	if !ok {
		return nil, &ErrInvalidTeam{Reason: "unknown nature id"}
	}

	evs := opts.EVs
	maxHP := statmodel.HP(species.BaseStats.HP, ivs[ivEvHP], evs[ivEvHP], level)
	mk := func(stat statmodel.StatIndex, base, iv, ev int) int {
		mult := statmodel.NatureMultiplier(stat, nature.Boosted, nature.Hindered)
		return statmodel.Stat(base, iv, ev, level, mult)
	}

	c := &Combatant{
		SpeciesID: speciesID,
		Level:     level,
		NatureID:  opts.NatureID,
		AbilityID: opts.Ability,
		ItemID:    opts.Item,
		Type1:     species.Type1,
		Type2:     species.Type2,
		TeraType:  opts.TeraType,
		MaxHP:     maxHP,
		Atk:       mk(statmodel.StatAtk, species.BaseStats.Atk, ivs[ivEvAtk], evs[ivEvAtk]),
		Def:       mk(statmodel.StatDef, species.BaseStats.Def, ivs[ivEvDef], evs[ivEvDef]),
		SpA:       mk(statmodel.StatSpA, species.BaseStats.SpA, ivs[ivEvSpA], evs[ivEvSpA]),
		SpD:       mk(statmodel.StatSpD, species.BaseStats.SpD, ivs[ivEvSpD], evs[ivEvSpD]),
		Spe:       mk(statmodel.StatSpe, species.BaseStats.Spe, ivs[ivEvSpe], evs[ivEvSpe]),
		CurrentHP: maxHP,
		IVs:       ivs,
		EVs:       evs,
		Nickname:  opts.Nickname,
	}
	c.Volatiles.AddedType = -1
	if c.TeraType == 0 {
		c.TeraType = -1
	}

	for i := 0; i < 4; i++ {
		if opts.MoveIDs[i] == 0 {
			continue
		}
		md, err := gd.MoveByID(opts.MoveIDs[i])
		if err != nil {
			return nil, err
		}
		pp := opts.MovePP[i]
		if pp <= 0 {
			pp = md.PP
		}
		c.Moves[i] = MoveSlot{MoveID: opts.MoveIDs[i], PP: pp}
	}

	return c, nil
}

// Fainted reports whether current HP has reached zero.
func (c *Combatant) Fainted() bool { return c.CurrentHP <= 0 }

// TakeDamage reduces current HP by amount, clamped at 0, and returns the
// actual damage applied. A Combatant whose max HP is 1 (Shedinja-like)
// faints on any nonzero damage, which falls out naturally since any
// damage >= 1 takes it to 0.
func (c *Combatant) TakeDamage(amount int) (actual int) {
	if amount < 0 {
		amount = 0
	}
	if amount > c.CurrentHP {
		amount = c.CurrentHP
	}
	c.CurrentHP -= amount
	if c.CurrentHP == 0 {
		c.StatusCond = StatusNone
		c.StatusCounter = 0
	}
	return amount
}

// Heal increases current HP by amount, clamped at MaxHP, and returns the
// actual amount healed. Healing a fainted combatant is the caller's
// responsibility to disallow; Heal itself is total and does not check.
func (c *Combatant) Heal(amount int) (actual int) {
	if amount < 0 {
		amount = 0
	}
	room := c.MaxHP - c.CurrentHP
	if amount > room {
		amount = room
	}
	c.CurrentHP += amount
	return amount
}

// stagePtr returns a pointer to the named stage field.
func (c *Combatant) stagePtr(stat string) *int {
	switch stat {
	case "atk":
		return &c.Stages.Atk
	case "def":
		return &c.Stages.Def
	case "spa":
		return &c.Stages.SpA
	case "spd":
		return &c.Stages.SpD
	case "spe":
		return &c.Stages.Spe
	case "accuracy":
		return &c.Stages.Accuracy
	case "evasion":
		return &c.Stages.Evasion
	default:
		return nil
	}
}

// ModifyStage applies delta to the named stage ("atk","def","spa","spd",
// "spe","accuracy","evasion"), clamping to [-6, 6], and returns the
// actual delta applied (0 if the stage was already at the relevant
// bound), per spec 4.C.
func (c *Combatant) ModifyStage(stat string, delta int) (actualDelta int) {
	p := c.stagePtr(stat)
	if p == nil {
		return 0
	}
	newVal, applied := statmodel.ClampStage(*p, delta)
	*p = newVal
	return applied
}

// ResetStages zeros every stat stage, used on switch-out (spec 4.D
// swap_active).
func (c *Combatant) ResetStages() {
	c.Stages = Stages{}
}

// ResetVolatiles clears all volatile flags, used on switch-out. Fields
// the spec calls out as persisting (none, in this core: "treat all
// volatile/stage state as cleared on switch" per spec 4.D) are all
// zeroed; SashConsumed is untouched since it is item consumption, not a
// volatile.
func (c *Combatant) ResetVolatiles() {
	c.Volatiles = Volatiles{AddedType: -1}
}

// UsePP deducts cost PP from the given move slot (0-3). Fails (returning
// false, state unchanged) if remaining PP < cost, per spec 4.C.
func (c *Combatant) UsePP(slot int, cost int) (success bool) {
	if slot < 0 || slot > 3 {
		return false
	}
	if c.Moves[slot].Empty() || c.Moves[slot].PP < cost {
		return false
	}
	c.Moves[slot].PP -= cost
	return true
}

// SetStatus sets the major status condition and its counter. Per
// spec invariant, status is irrelevant once fainted; callers should not
// call SetStatus on a fainted combatant, but SetStatus itself is total
// and does not check.
func (c *Combatant) SetStatus(status Status, counter int) {
	c.StatusCond = status
	c.StatusCounter = counter
}

// CureStatus clears the major status condition.
func (c *Combatant) CureStatus() {
	c.StatusCond = StatusNone
	c.StatusCounter = 0
}

// ActiveTypes returns the combatant's current types for STAB and
// type-chart purposes: the tera type alone when Terastallized (spec
// GLOSSARY "Tera-type"), else Type1/Type2 (Type2 may be -1).
func (c *Combatant) ActiveTypes() (t1, t2 int) {
	if c.Terastallized && c.TeraType >= 0 {
		return c.TeraType, -1
	}
	return c.Type1, c.Type2
}
