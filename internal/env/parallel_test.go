package env

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/agent"
	"vgcsim/internal/protocol"
)

func TestRunParallelCompletesAllEpisodes(t *testing.T) {
	Convey("Given a RunParallelConfig for 6 episodes across 3 workers", t, func() {
		gd := envFixtureData()
		runCfg := RunParallelConfig{
			Workers:  3,
			Episodes: 6,
			Cfg:      DefaultConfig(),
			Teams:    singlesTeams(gd),
			AgentsFor: func(workerID int) [2]agent.Agent {
				return [2]agent.Agent{
					agent.NewRandomAgent(uint64(workerID)*2 + 1),
					agent.NewRandomAgent(uint64(workerID)*2 + 2),
				}
			},
			SeedFor: func(workerID, episodeIndex int) uint64 {
				return uint64(workerID)*1000 + uint64(episodeIndex) + 1
			},
		}

		episodes, stats := RunParallel(gd, runCfg)

		Convey("every requested episode is returned", func() {
			So(episodes, ShouldHaveLength, 6)
		})

		Convey("RunStats reflects the same episode count", func() {
			So(stats.Episodes(), ShouldEqual, 6)
		})

		Convey("each episode records at least one transition", func() {
			for _, ep := range episodes {
				So(len(ep.Transitions), ShouldBeGreaterThan, 0)
			}
		})
	})
}

func TestRunParallelOnStepFiresPerTurn(t *testing.T) {
	Convey("Given a RunParallelConfig with an OnStep hook", t, func() {
		gd := envFixtureData()
		var calls int
		var sawWorkerEpisode bool
		runCfg := RunParallelConfig{
			Workers:  1,
			Episodes: 1,
			Cfg:      DefaultConfig(),
			Teams:    singlesTeams(gd),
			AgentsFor: func(workerID int) [2]agent.Agent {
				return [2]agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
			},
			SeedFor: func(workerID, episodeIndex int) uint64 { return 1 },
			OnStep: func(workerID, episodeIndex, turn int, events []protocol.Event) {
				calls++
				if workerID == 0 && episodeIndex == 0 {
					sawWorkerEpisode = true
				}
			},
		}

		episodes, _ := RunParallel(gd, runCfg)

		Convey("OnStep fires once per turn of the single episode run", func() {
			So(calls, ShouldBeGreaterThan, 0)
			So(calls, ShouldEqual, len(episodes[0].Transitions))
			So(sawWorkerEpisode, ShouldBeTrue)
		})
	})
}
