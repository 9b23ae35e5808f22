package experience

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleEpisode(winner, turns int) Episode {
	ts := make([]Transition, turns)
	for i := range ts {
		ts[i] = sampleTransition(i)
	}
	return Episode{Transitions: ts, Winner: winner, Turns: turns}
}

func TestEpisodeBufferRingOverwrite(t *testing.T) {
	Convey("Given a capacity-2 EpisodeBuffer", t, func() {
		b := NewEpisodeBuffer(2, 3)
		b.Add(sampleEpisode(0, 5))
		b.Add(sampleEpisode(1, 7))
		b.Add(sampleEpisode(0, 9))

		Convey("the oldest episode is evicted on overflow", func() {
			So(b.Len(), ShouldEqual, 2)
			ordered := b.ordered()
			So(ordered[0].Winner, ShouldEqual, 1)
			So(ordered[1].Turns, ShouldEqual, 9)
		})

		Convey("FilterByOutcome returns only the matching side's episodes", func() {
			won := b.FilterByOutcome(0)
			So(won, ShouldHaveLength, 1)
			So(won[0].Turns, ShouldEqual, 9)
		})

		Convey("SampleTransitions flattens sampled episodes", func() {
			flat := b.SampleTransitions(3)
			So(len(flat), ShouldBeGreaterThan, 0)
		})
	})
}

func TestDiscountedReturns(t *testing.T) {
	Convey("Given a 3-step episode with rewards 1, 1, 1", t, func() {
		ep := &Episode{Transitions: []Transition{
			{Reward: 1}, {Reward: 1}, {Reward: 1},
		}}

		Convey("gamma=1 gives the undiscounted backward sum", func() {
			returns := DiscountedReturns(ep, 1.0)
			So(returns, ShouldResemble, []float64{3, 2, 1})
		})

		Convey("gamma=0 gives the immediate reward only", func() {
			returns := DiscountedReturns(ep, 0.0)
			So(returns, ShouldResemble, []float64{1, 1, 1})
		})
	})
}
