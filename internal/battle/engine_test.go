package battle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
)

func fixtureData() *data.GameData {
	gd := data.NewGameData()
	gd.Species[1] = data.SpeciesData{
		ID: 1, Name: "Alpha",
		BaseStats: data.BaseStats{HP: 100, Atk: 100, Def: 60, SpA: 60, SpD: 60, Spe: 100},
		Type1:     0, Type2: -1,
	}
	gd.Species[2] = data.SpeciesData{
		ID: 2, Name: "Beta",
		BaseStats: data.BaseStats{HP: 100, Atk: 60, Def: 60, SpA: 60, SpD: 60, Spe: 40},
		Type1:     0, Type2: -1,
	}
	gd.Species[3] = data.SpeciesData{
		ID: 3, Name: "Fainter",
		BaseStats: data.BaseStats{HP: 1, Atk: 30, Def: 30, SpA: 30, SpD: 30, Spe: 30},
		Type1:     0, Type2: -1,
	}
	gd.Moves[10] = data.MoveData{ID: 10, Name: "Tackle", Category: data.CategoryPhysical, BasePower: 40, Accuracy: 100, PP: 35, Target: data.TargetNormal}
	gd.Moves[11] = data.MoveData{ID: 11, Name: "Growl", Category: data.CategoryStatus, Accuracy: 100, PP: 40, Target: data.TargetAllAdjacentFoes, Effect: data.MoveEffectKindStatLowerTarget, EffectStat: 0, EffectStages: 1}
	gd.Natures[0] = data.NatureData{ID: 0, Name: "Hardy", Boosted: 0, Hindered: 0}
	return gd
}

func buildMon(gd *data.GameData, species int, moveIDs [4]int) *combatant.Combatant {
	c, err := combatant.New(gd, species, combatant.BuildOptions{
		Level: 100, NatureID: 0, Defaults: true, MoveIDs: moveIDs,
	})
	if err != nil {
		panic(err)
	}
	return c
}

func newSinglesState(gd *data.GameData) *State {
	s := New(gd, 1, 42)
	s.SetTeam(0, 0, buildMon(gd, 1, [4]int{10, 0, 0, 0}))
	s.SetTeam(1, 0, buildMon(gd, 2, [4]int{10, 0, 0, 0}))
	return s
}

func TestTurnOneDamage(t *testing.T) {
	Convey("Given two active combatants in a singles battle", t, func() {
		gd := fixtureData()
		s := newSinglesState(gd)
		e := NewEngine(s)
		e.Start()

		Convey("a Tackle from side 0 deals nonzero damage to side 1", func() {
			events := e.Step([2][]protocol.Choice{
				{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
				{{Kind: protocol.ChoicePass, ActiveSlot: 0}},
			})
			target := s.ActiveCombatant(1, 0)
			So(target.CurrentHP, ShouldBeLessThan, target.MaxHP)

			var sawDamage bool
			for _, ev := range events {
				if ev.Type == protocol.EventDamage {
					sawDamage = true
				}
			}
			So(sawDamage, ShouldBeTrue)
		})
	})
}

func TestQuickWinSweep(t *testing.T) {
	Convey("Given a side facing a combatant with 1 max HP", t, func() {
		gd := fixtureData()
		s := New(gd, 1, 7)
		s.SetTeam(0, 0, buildMon(gd, 1, [4]int{10, 0, 0, 0}))
		s.SetTeam(1, 0, buildMon(gd, 3, [4]int{10, 0, 0, 0}))
		e := NewEngine(s)
		e.Start()

		Convey("one Tackle faints it and ends the battle", func() {
			events := e.Step([2][]protocol.Choice{
				{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
				{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
			})
			So(s.Ended, ShouldBeTrue)
			So(s.Winner, ShouldEqual, WinnerSide0)

			var sawWinAffectingFaint bool
			for _, ev := range events {
				if ev.Type == protocol.EventFaint {
					sawWinAffectingFaint = true
				}
			}
			So(sawWinAffectingFaint, ShouldBeTrue)
		})
	})
}

func TestDeterministicReplay(t *testing.T) {
	Convey("Given the same seed and choice sequence run twice", t, func() {
		gd := fixtureData()
		choices := [2][]protocol.Choice{
			{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
			{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
		}

		run := func() []protocol.Event {
			s := newSinglesState(gd)
			e := NewEngine(s)
			e.Start()
			var all []protocol.Event
			for i := 0; i < 3 && !s.Ended; i++ {
				all = append(all, e.Step(choices)...)
			}
			return all
		}

		a := run()
		b := run()

		Convey("the rendered event logs are byte-identical", func() {
			So(len(a), ShouldEqual, len(b))
			for i := range a {
				So(a[i].Render(), ShouldEqual, b[i].Render())
			}
		})
	})
}

func TestForcedSwitchGating(t *testing.T) {
	Convey("Given a side whose active faints but has a healthy reserve", t, func() {
		gd := fixtureData()
		s := New(gd, 1, 7)
		s.SetTeam(0, 0, buildMon(gd, 1, [4]int{10, 0, 0, 0}))
		s.SetTeam(1, 0, buildMon(gd, 3, [4]int{10, 0, 0, 0}))
		s.SetTeam(1, 1, buildMon(gd, 2, [4]int{10, 0, 0, 0}))
		e := NewEngine(s)
		e.Start()

		events := e.Step([2][]protocol.Choice{
			{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
			{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
		})

		Convey("the battle continues (the surviving side still has a reserve)", func() {
			So(s.Ended, ShouldBeFalse)
		})

		Convey("the fainted slot is left empty rather than auto-filled", func() {
			So(s.ActiveCombatant(1, 0), ShouldBeNil)
			var sawAutoFillSwitch bool
			for _, ev := range events {
				if ev.Type == protocol.EventSwitch {
					sawAutoFillSwitch = true
				}
			}
			So(sawAutoFillSwitch, ShouldBeFalse)
		})

		Convey("legal_actions for that slot offers only Switch choices", func() {
			legal := s.LegalActions(1)
			So(len(legal), ShouldBeGreaterThan, 0)
			for _, c := range legal {
				So(c.Kind, ShouldEqual, protocol.ChoiceSwitch)
			}
		})

		Convey("submitting the Switch choice in a later Step fills the slot", func() {
			e.Step([2][]protocol.Choice{
				{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0, Target: 1}},
				{{Kind: protocol.ChoiceSwitch, ActiveSlot: 0, TeamSlot: 1}},
			})
			mon := s.ActiveCombatant(1, 0)
			So(mon, ShouldNotBeNil)
			So(mon.SpeciesID, ShouldEqual, 2)
		})
	})
}

func TestStatLowerMoveAppliesBoostEvent(t *testing.T) {
	Convey("Given Growl used against an opponent", t, func() {
		gd := fixtureData()
		s := New(gd, 1, 3)
		s.SetTeam(0, 0, buildMon(gd, 1, [4]int{11, 0, 0, 0}))
		s.SetTeam(1, 0, buildMon(gd, 2, [4]int{10, 0, 0, 0}))
		e := NewEngine(s)
		e.Start()

		Convey("the target's Attack stage drops by one", func() {
			e.Step([2][]protocol.Choice{
				{{Kind: protocol.ChoiceMove, ActiveSlot: 0, MoveSlot: 0}},
				{{Kind: protocol.ChoicePass, ActiveSlot: 0}},
			})
			target := s.ActiveCombatant(1, 0)
			So(target.Stages.Atk, ShouldEqual, -1)
		})
	})
}
