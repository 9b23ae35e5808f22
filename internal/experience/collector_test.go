package experience

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/agent"
	"vgcsim/internal/protocol"
)

func TestCollectorPairsPriorObsWithNextObs(t *testing.T) {
	Convey("Given a Collector fed a 3-step episode", t, func() {
		c := NewCollector(0, 42)
		obs0 := agent.Observation{0}
		obs1 := agent.Observation{1}
		obs2 := agent.Observation{2}
		move := protocol.Choice{Kind: protocol.ChoiceMove, MoveSlot: 0}

		c.Step(obs0, move, 0.1, false, nil)
		c.Step(obs1, move, 0.2, false, nil)
		c.Step(obs2, move, 1.0, true, nil)

		ep := c.Flush(0, [2]float64{1, -1})

		Convey("every Transition's NextObs is the following call's Obs", func() {
			So(ep.Transitions, ShouldHaveLength, 3)
			So(ep.Transitions[0].Obs, ShouldResemble, obs0)
			So(ep.Transitions[0].NextObs, ShouldResemble, obs1)
			So(ep.Transitions[1].NextObs, ShouldResemble, obs2)
		})

		Convey("only the final Transition is marked done", func() {
			So(ep.Transitions[0].Done, ShouldBeFalse)
			So(ep.Transitions[1].Done, ShouldBeFalse)
			So(ep.Transitions[2].Done, ShouldBeTrue)
		})

		Convey("Episode metadata carries winner, seed, and turn count", func() {
			So(ep.Winner, ShouldEqual, 0)
			So(ep.Seed, ShouldEqual, uint64(42))
			So(ep.Turns, ShouldEqual, 3)
			So(ep.FinalScores, ShouldResemble, [2]float64{1, -1})
		})

		Convey("Flush resets the Collector for a fresh episode", func() {
			c.Step(obs0, move, 0, true, nil)
			next := c.Flush(1, [2]float64{})
			So(next.Transitions, ShouldHaveLength, 1)
		})
	})
}
