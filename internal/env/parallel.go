package env

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"vgcsim/internal/agent"
	"vgcsim/internal/battle"
	"vgcsim/internal/data"
	"vgcsim/internal/experience"
	"vgcsim/internal/experience/atomicfloat"
	"vgcsim/internal/protocol"
)

// RunParallelConfig configures a parallel batch of independent battles,
// one goroutine ("worker") per concurrent Env (spec §4.H/§5: "many
// independent (State, Engine) instances may run concurrently on
// separate threads/workers, each with its own PRNG. No cross-battle
// state is shared by the engine.").
type RunParallelConfig struct {
	Workers   int
	Episodes  int // total episodes across all workers
	Cfg       Config
	Teams     TeamFactory
	AgentsFor func(workerID int) [2]agent.Agent
	SeedFor   func(workerID, episodeIndex int) uint64

	// OnStep, if set, is called after every turn of every episode with
	// the worker/episode/turn index and that turn's emitted events — the
	// same callback shape as the teacher's exportStates(ctx,
	// episodeCount), generalized from "periodically push the whole state
	// grid" to "push one turn's event batch". A caller that only wants to
	// spectate one battle (e.g. cmd/vgcsim) checks workerID/episodeIndex
	// itself and ignores the rest.
	OnStep func(workerID, episodeIndex, turn int, events []protocol.Event)
}

// RunStats is the aggregate, lock-free running statistics across every
// worker, read safely from any goroutine while workers are still
// producing (teacher `fastview` viewer-count pattern, repurposed as a
// training-loop running statistic instead of a connected-client count).
type RunStats struct {
	totalReward atomicfloat.Float64
	totalTurns  atomicfloat.Float64
	episodes    atomicfloat.Float64
}

// MeanReward returns the running mean of side-0's total episode reward
// across every episode completed so far.
func (s *RunStats) MeanReward() float64 {
	n := s.episodes.Load()
	if n == 0 {
		return 0
	}
	return s.totalReward.Load() / n
}

// MeanTurns returns the running mean episode length across every
// episode completed so far.
func (s *RunStats) MeanTurns() float64 {
	n := s.episodes.Load()
	if n == 0 {
		return 0
	}
	return s.totalTurns.Load() / n
}

// Episodes returns the count of completed episodes observed so far.
func (s *RunStats) Episodes() int { return int(s.episodes.Load()) }

// RunParallel runs cfg.Workers independent battle-generating goroutines
// (the teacher's `agent_worker` pattern from reinforcement/learning.go,
// generalized from "one worker per Monte Carlo episode" to "one worker
// per concurrent battle"), fans their completed Episodes into a single
// channel via channerics.Merge, and returns every Episode once
// cfg.Episodes total have been produced (or early, if the errgroup
// context is cancelled). The aggregate RunStats updates as episodes
// arrive, safe to poll concurrently.
func RunParallel(gd *data.GameData, cfg RunParallelConfig) ([]experience.Episode, *RunStats) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	stats := &RunStats{}
	group, gctx := errgroup.WithContext(context.Background())
	done := gctx.Done()

	workers := make([]<-chan *experience.Episode, 0, cfg.Workers)
	perWorker, extra := cfg.Episodes/cfg.Workers, cfg.Episodes%cfg.Workers

	for w := 0; w < cfg.Workers; w++ {
		workerID := w
		count := perWorker
		if workerID < extra {
			count++
		}
		episodes := make(chan *experience.Episode)
		group.Go(func() error {
			defer close(episodes)
			agents := cfg.AgentsFor(workerID)
			e := New(gd, cfg.Cfg, cfg.Teams)
			for i := 0; i < count; i++ {
				select {
				case <-done:
					return nil
				default:
				}

				var onStep func(turn int, events []protocol.Event)
				if cfg.OnStep != nil {
					episodeIndex := i
					onStep = func(turn int, events []protocol.Event) {
						cfg.OnStep(workerID, episodeIndex, turn, events)
					}
				}
				ep, turns := runOneEpisode(e, agents, cfg.SeedFor(workerID, i), onStep)

				stats.totalReward.Add(sumRewards(ep))
				stats.totalTurns.Add(float64(turns))
				stats.episodes.Add(1)

				select {
				case episodes <- &ep:
				case <-done:
					return nil
				}
			}
			return nil
		})
		workers = append(workers, episodes)
	}

	merged := channerics.Merge(done, workers...)

	var results []experience.Episode
	for ep := range merged {
		results = append(results, *ep)
	}
	_ = group.Wait()
	return results, stats
}

// runOneEpisode resets e to seed and plays it to completion, stitching
// each side's (obs, action, reward, next_obs, done) stream through an
// experience.Collector (spec §4.I "Collector"). Side 0's transition
// stream is the one flushed to the returned Episode; side 1's is
// discarded here, available to a caller that wants to collect both
// sides by running runOneEpisode per perspective instead.
func runOneEpisode(e *Env, agents [2]agent.Agent, seed uint64, onStep func(turn int, events []protocol.Event)) (experience.Episode, int) {
	e.Reset(seed)
	collectors := [2]*experience.Collector{
		experience.NewCollector(0, seed),
		experience.NewCollector(1, seed),
	}

	turns := 0
	for !e.Done() {
		preStepObs := e.prevObs
		actions, events, rewards, doneNow := e.Step(agents)
		for side := 0; side < 2; side++ {
			collectors[side].Step(preStepObs[side], actions[side], rewards[side], doneNow, nil)
		}
		if onStep != nil {
			onStep(turns, events)
		}
		turns++
	}

	finalScores := [2]float64{0, 0}
	winner := -1 // tie or no winner
	switch e.state.Winner {
	case battle.WinnerSide0:
		winner = 0
	case battle.WinnerSide1:
		winner = 1
	}
	ep := collectors[0].Flush(winner, finalScores)
	return ep, turns
}

func sumRewards(ep experience.Episode) float64 {
	var total float64
	for _, t := range ep.Transitions {
		total += t.Reward
	}
	return total
}
