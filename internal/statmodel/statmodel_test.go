package statmodel

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStatFormulas(t *testing.T) {
	Convey("Given base 100, IV 31, EV 0, level 100", t, func() {
		base, iv, ev, level := 100, 31, 0, 100

		Convey("HP is 341", func() {
			So(HP(base, iv, ev, level), ShouldEqual, 341)
		})

		Convey("a neutral-nature stat is 236", func() {
			So(Stat(base, iv, ev, level, 1.0), ShouldEqual, 236)
		})

		Convey("a boosted-nature stat is 259", func() {
			So(Stat(base, iv, ev, level, 1.1), ShouldEqual, 259)
		})

		Convey("a hindered-nature stat is 212", func() {
			So(Stat(base, iv, ev, level, 0.9), ShouldEqual, 212)
		})
	})

	Convey("Given Shedinja's base HP of 1", t, func() {
		Convey("HP is always exactly 1", func() {
			So(HP(1, 31, 252, 100), ShouldEqual, 1)
			So(HP(1, 0, 0, 1), ShouldEqual, 1)
		})
	})
}

func TestStageMultiplier(t *testing.T) {
	cases := []struct {
		stage int
		want  float64
	}{
		{0, 1.0},
		{6, 4.0},
		{-6, 0.25},
		{1, 1.5},
		{-1, 2.0 / 3.0},
		{12, 4.0},  // clamps above +6
		{-12, 0.25}, // clamps below -6
	}
	for _, c := range cases {
		if got := StageMultiplier(c.stage); got != c.want {
			t.Errorf("StageMultiplier(%d) = %v, want %v", c.stage, got, c.want)
		}
	}
}

func TestAccuracyStageMultiplier(t *testing.T) {
	cases := []struct {
		stage int
		want  float64
	}{
		{0, 1.0},
		{6, 3.0},
		{-6, 1.0 / 3.0},
	}
	for _, c := range cases {
		if got := AccuracyStageMultiplier(c.stage); got != c.want {
			t.Errorf("AccuracyStageMultiplier(%d) = %v, want %v", c.stage, got, c.want)
		}
	}
}

func TestClampStage(t *testing.T) {
	newStage, delta := ClampStage(5, 3)
	if newStage != 6 || delta != 1 {
		t.Errorf("ClampStage(5, 3) = (%d, %d), want (6, 1)", newStage, delta)
	}

	newStage, delta = ClampStage(6, 1)
	if newStage != 6 || delta != 0 {
		t.Errorf("ClampStage(6, 1) = (%d, %d), want (6, 0) — already at bound", newStage, delta)
	}
}

func TestNatureCoverage(t *testing.T) {
	if len(Natures) != 25 {
		t.Fatalf("expected exactly 25 natures, got %d", len(Natures))
	}

	neutral := 0
	boostCount := map[StatIndex]int{}
	hinderCount := map[StatIndex]int{}
	for _, n := range Natures {
		if n.Boosted == n.Hindered {
			neutral++
			continue
		}
		boostCount[n.Boosted]++
		hinderCount[n.Hindered]++
	}

	if neutral != 5 {
		t.Errorf("expected exactly 5 neutral natures, got %d", neutral)
	}
	for _, stat := range []StatIndex{StatAtk, StatDef, StatSpA, StatSpD, StatSpe} {
		if boostCount[stat] != 4 {
			t.Errorf("stat %d boosted by %d natures, want 4", stat, boostCount[stat])
		}
		if hinderCount[stat] != 4 {
			t.Errorf("stat %d hindered by %d natures, want 4", stat, hinderCount[stat])
		}
	}
}
