package env

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/agent"
	"vgcsim/internal/battle"
	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
)

func envFixtureData() *data.GameData {
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
	gd.Moves[10] = data.MoveData{ID: 10, Name: "Tackle", Category: data.CategoryPhysical, BasePower: 40, Accuracy: 100, PP: 35, Target: data.TargetNormal}
	gd.Natures[0] = data.NatureData{ID: 0, Name: "Hardy", Boosted: 0, Hindered: 0}
	return gd
}

func buildEnvMon(gd *data.GameData, species int) *combatant.Combatant {
	c, err := combatant.New(gd, species, combatant.BuildOptions{
		Level: 100, NatureID: 0, Defaults: true, MoveIDs: [4]int{10, 0, 0, 0},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func singlesTeams(gd *data.GameData) TeamFactory {
	return func(s *battle.State) {
		s.SetTeam(0, 0, buildEnvMon(gd, 1))
		s.SetTeam(1, 0, buildEnvMon(gd, 2))
	}
}

func TestEnvResetProducesObservationPerSide(t *testing.T) {
	Convey("Given a fresh Env over a one-on-one singles matchup", t, func() {
		gd := envFixtureData()
		cfg := DefaultConfig()
		e := New(gd, cfg, singlesTeams(gd))

		obs := e.Reset(123)

		Convey("Reset returns an observation keyed by side", func() {
			So(obs, ShouldContainKey, 0)
			So(obs, ShouldContainKey, 1)
			So(len(obs[0]), ShouldEqual, e.ObservationShape())
		})

		Convey("the battle is not yet done", func() {
			So(e.Done(), ShouldBeFalse)
		})

		Convey("LegalActions returns at least one choice per side", func() {
			So(len(e.LegalActions(0)), ShouldBeGreaterThan, 0)
			So(len(e.LegalActions(1)), ShouldBeGreaterThan, 0)
		})
	})
}

func TestEnvStepAdvancesAndRewards(t *testing.T) {
	Convey("Given an Env stepped once with two RandomAgents", t, func() {
		gd := envFixtureData()
		cfg := DefaultConfig()
		cfg.RewardMode = RewardDense
		e := New(gd, cfg, singlesTeams(gd))
		e.Reset(7)

		agents := [2]agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
		actions, events, _, done := e.Step(agents)

		Convey("the turn counter advances", func() {
			So(e.State().Turn, ShouldBeGreaterThan, 0)
			_ = actions
		})

		Convey("at least one event was emitted", func() {
			So(len(events), ShouldBeGreaterThan, 0)
		})

		Convey("the battle has not ended after one turn of full-HP mons", func() {
			So(done, ShouldBeFalse)
		})
	})
}

func TestEnvStepIsNoOpOnceDone(t *testing.T) {
	Convey("Given an Env already at its max-turns cap", t, func() {
		gd := envFixtureData()
		cfg := DefaultConfig()
		cfg.MaxTurns = 1
		e := New(gd, cfg, singlesTeams(gd))
		e.Reset(7)

		agents := [2]agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
		_, _, _, done := e.Step(agents)
		So(done, ShouldBeTrue)

		Convey("a further Step returns done with no events", func() {
			_, events, _, doneAgain := e.Step(agents)
			So(doneAgain, ShouldBeTrue)
			So(events, ShouldBeNil)
		})
	})
}
