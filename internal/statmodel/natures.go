package statmodel

// NatureSpec names a nature's boosted/hindered stat by index (StatAtk..
// StatSpe); a neutral nature names the same stat for both.
type NatureSpec struct {
	Name     string
	Boosted  StatIndex
	Hindered StatIndex
}

// Natures is the canonical 25-nature table (spec §8 "Nature coverage":
// exactly 25 natures, 5 neutral, every non-HP stat boosted by exactly 4
// and hindered by exactly 4). Index order is stable and used as the
// nature id elsewhere in the engine.
var Natures = [25]NatureSpec{
	{"Hardy", StatAtk, StatAtk},
	{"Lonely", StatAtk, StatDef},
	{"Adamant", StatAtk, StatSpA},
	{"Naughty", StatAtk, StatSpD},
	{"Brave", StatAtk, StatSpe},

	{"Bold", StatDef, StatAtk},
	{"Docile", StatDef, StatDef},
	{"Impish", StatDef, StatSpA},
	{"Lax", StatDef, StatSpD},
	{"Relaxed", StatDef, StatSpe},

	{"Modest", StatSpA, StatAtk},
	{"Mild", StatSpA, StatDef},
	{"Bashful", StatSpA, StatSpA},
	{"Rash", StatSpA, StatSpD},
	{"Quiet", StatSpA, StatSpe},

	{"Calm", StatSpD, StatAtk},
	{"Gentle", StatSpD, StatDef},
	{"Careful", StatSpD, StatSpA},
	{"Quirky", StatSpD, StatSpD},
	{"Sassy", StatSpD, StatSpe},

	{"Timid", StatSpe, StatAtk},
	{"Hasty", StatSpe, StatDef},
	{"Jolly", StatSpe, StatSpA},
	{"Naive", StatSpe, StatSpD},
	{"Serious", StatSpe, StatSpe},
}

// NatureByID returns the nature at index id (0..24), or the zero value
// and false if id is out of range.
func NatureByID(id int) (NatureSpec, bool) {
	if id < 0 || id >= len(Natures) {
		return NatureSpec{}, false
	}
	return Natures[id], true
}
