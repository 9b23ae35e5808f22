package experience

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/agent"
)

func sampleTransition(i int) Transition {
	return Transition{
		Obs:     agent.Observation{float64(i)},
		Action:  i % 3,
		Reward:  float64(i) * 0.5,
		NextObs: agent.Observation{float64(i) + 1},
		Done:    i%4 == 0,
	}
}

func TestReplayBufferRingOverwrite(t *testing.T) {
	Convey("Given a capacity-3 ReplayBuffer", t, func() {
		b := NewReplayBuffer(3, 1)

		Convey("Len grows until capacity, then saturates", func() {
			So(b.Len(), ShouldEqual, 0)
			b.Add(sampleTransition(0))
			So(b.Len(), ShouldEqual, 1)
			b.Add(sampleTransition(1))
			b.Add(sampleTransition(2))
			So(b.Len(), ShouldEqual, 3)
			b.Add(sampleTransition(3))
			So(b.Len(), ShouldEqual, 3)
		})

		Convey("overflow overwrites the oldest entry, not the newest", func() {
			for i := 0; i < 4; i++ {
				b.Add(sampleTransition(i))
			}
			snap := b.snapshot()
			So(snap.Transitions, ShouldHaveLength, 3)
			// entry 0 was evicted; 1,2,3 remain in insertion order.
			So(snap.Transitions[0].Action, ShouldEqual, sampleTransition(1).Action)
			So(snap.Transitions[2].Action, ShouldEqual, sampleTransition(3).Action)
		})

		Convey("Sample draws only from occupied entries", func() {
			b.Add(sampleTransition(0))
			out := b.Sample(10)
			So(out, ShouldHaveLength, 10)
			for _, t := range out {
				So(t.Action, ShouldEqual, 0)
			}
		})

		Convey("GetBatchArrays stacks fields column-wise", func() {
			b.Add(sampleTransition(5))
			arr := b.GetBatchArrays(4)
			So(arr.Actions, ShouldHaveLength, 4)
			So(arr.Rewards, ShouldHaveLength, 4)
			So(arr.Rewards[0], ShouldEqual, 2.5)
		})
	})
}

func TestReplayBufferSaveLoadRoundTrip(t *testing.T) {
	Convey("Given a ReplayBuffer with a few Transitions", t, func() {
		b := NewReplayBuffer(5, 7)
		for i := 0; i < 3; i++ {
			b.Add(sampleTransition(i))
		}

		formats := []SaveFormat{FormatBinary, FormatJSON, FormatColumnar}
		for _, format := range formats {
			format := format
			Convey("Save then Load round-trips through a fresh buffer", func() {
				dir := t.TempDir()
				path := filepath.Join(dir, "replay.bin")
				So(b.Save(path, format), ShouldBeNil)

				loaded := NewReplayBuffer(1, 9)
				So(loaded.Load(path, format), ShouldBeNil)
				So(loaded.Len(), ShouldEqual, b.Len())

				got := loaded.snapshot()
				want := b.snapshot()
				for i := range want.Transitions {
					So(got.Transitions[i].Action, ShouldEqual, want.Transitions[i].Action)
					So(got.Transitions[i].Reward, ShouldEqual, want.Transitions[i].Reward)
					So(got.Transitions[i].Done, ShouldEqual, want.Transitions[i].Done)
				}
			})
		}
	})
}
