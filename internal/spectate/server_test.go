package spectate

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/protocol"
)

func TestHubPublishSubscribeReplay(t *testing.T) {
	Convey("Given a Hub publishing one battle's event stream", t, func() {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		source := make(chan EventBatch)
		hub.Publish(ctx, "b1", source)

		batch := EventBatch{BattleID: "b1", Turn: 1, Events: []protocol.Event{{Type: protocol.EventFaint}}}

		Convey("a subscriber receives a batch sent after it subscribes", func() {
			sub, err := hub.subscribe("b1")
			So(err, ShouldBeNil)

			source <- batch

			select {
			case got := <-sub:
				So(got.Turn, ShouldEqual, 1)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for broadcast batch")
			}
		})

		Convey("subscribing to an unknown battle id errors", func() {
			_, err := hub.subscribe("no-such-battle")
			So(err, ShouldEqual, ErrUnknownBattle)
		})

		Convey("replayLog accumulates every published batch in order", func() {
			source <- batch
			source <- EventBatch{BattleID: "b1", Turn: 2}

			So(func() bool {
				for i := 0; i < 50; i++ {
					log, err := hub.replayLog("b1")
					if err == nil && len(log) == 2 {
						return log[0].Turn == 1 && log[1].Turn == 2
					}
					time.Sleep(10 * time.Millisecond)
				}
				return false
			}(), ShouldBeTrue)
		})

		Convey("Stop tears down the feed so further subscribes fail", func() {
			hub.Stop("b1")
			_, err := hub.subscribe("b1")
			So(err, ShouldEqual, ErrUnknownBattle)
		})
	})
}

func TestHubSubscribeEnforcesCapacity(t *testing.T) {
	Convey("Given a Hub with a battle already at max spectator capacity", t, func() {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		source := make(chan EventBatch)
		hub.Publish(ctx, "full", source)

		for i := 0; i < maxSpectatorsPerBattle; i++ {
			_, err := hub.subscribe("full")
			So(err, ShouldBeNil)
		}

		Convey("one more subscribe is rejected", func() {
			_, err := hub.subscribe("full")
			So(err, ShouldEqual, ErrBattleFull)
		})
	})
}
