package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/config"
	"vgcsim/internal/env"
)

func TestRewardModeFromString(t *testing.T) {
	Convey("Given each recognized reward mode string", t, func() {
		So(rewardModeFromString("win_loss"), ShouldEqual, env.RewardWinLoss)
		So(rewardModeFromString("dense"), ShouldEqual, env.RewardDense)

		Convey("an unrecognized string defaults to shaped", func() {
			So(rewardModeFromString("whatever"), ShouldEqual, env.RewardShaped)
			So(rewardModeFromString(""), ShouldEqual, env.RewardShaped)
		})
	})
}

func TestSpectateAddr(t *testing.T) {
	Convey("Given a config with an explicit spectate address", t, func() {
		cfg := &config.Config{Spectate: config.SpectateConfig{Addr: ":9999"}}
		So(spectateAddr(cfg), ShouldEqual, ":9999")
	})

	Convey("Given a config with no spectate address set", t, func() {
		cfg := &config.Config{}
		addr = ":8080"
		So(spectateAddr(cfg), ShouldEqual, ":8080")
	})
}

func TestFirstFourMoves(t *testing.T) {
	Convey("Given fewer than four available move ids", t, func() {
		out := firstFourMoves([]int{10, 20})
		So(out, ShouldResemble, [4]int{10, 20, 0, 0})
	})

	Convey("Given more than four available move ids", t, func() {
		out := firstFourMoves([]int{10, 20, 30, 40, 50})
		So(out, ShouldResemble, [4]int{10, 20, 30, 40})
	})
}
