package env

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/battle"
)

func TestRewardTerminalDominatesShaping(t *testing.T) {
	Convey("Given an Env whose battle has just ended", t, func() {
		gd := envFixtureData()
		cfg := DefaultConfig()
		cfg.RewardMode = RewardShaped
		cfg.WinReward = 1.0
		e := New(gd, cfg, singlesTeams(gd))
		e.Reset(1)
		e.state.Ended = true

		Convey("the winning side gets +WinReward regardless of shaping", func() {
			e.state.Winner = battle.WinnerSide0
			So(e.reward(0, nil), ShouldEqual, 1.0)
			So(e.reward(1, nil), ShouldEqual, -1.0)
		})

		Convey("a tie yields zero for both sides", func() {
			e.state.Winner = battle.WinnerTie
			So(e.reward(0, nil), ShouldEqual, 0.0)
			So(e.reward(1, nil), ShouldEqual, 0.0)
		})
	})
}

func TestHPFractionDeltaTracksDamageSinceSnapshot(t *testing.T) {
	Convey("Given an Env right after Reset", t, func() {
		gd := envFixtureData()
		cfg := DefaultConfig()
		e := New(gd, cfg, singlesTeams(gd))
		e.Reset(1)

		Convey("no damage yet means zero delta", func() {
			So(e.hpFractionDelta(0), ShouldEqual, 0.0)
		})

		Convey("damaging the opponent's active mon raises side 0's delta", func() {
			opp := e.state.ActiveCombatant(1, 0)
			opp.TakeDamage(opp.MaxHP / 2)
			delta := e.hpFractionDelta(0)
			So(delta, ShouldBeGreaterThan, 0)
		})
	})
}
