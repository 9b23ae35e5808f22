// Command vgcsim runs batches of deterministic VGC-style battles,
// optionally serving a live spectator websocket feed of the first
// battle for the run's duration. Adapted from the teacher's
// tabular/main.go: the same init()-driven flag wiring and
// config.FromYaml bootstrap, generalized from "train one racetrack
// policy, visualize its value function" to "run N parallel battles,
// spectate the first one".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"

	"vgcsim/internal/agent"
	"vgcsim/internal/battle"
	"vgcsim/internal/combatant"
	"vgcsim/internal/config"
	"vgcsim/internal/data"
	"vgcsim/internal/env"
	"vgcsim/internal/protocol"
	"vgcsim/internal/spectate"
)

// liveBattleID names the one battle (worker 0's first episode) that the
// spectator server publishes, matching the teacher's exportStates,
// which likewise only ever pushes the one shared state grid rather than
// a feed per worker.
const liveBattleID = "live"

var (
	dbg      *bool
	workers  *int
	host     *string
	port     *string
	dataDir  *string
	episodes *int
	addr     string
)

// TODO: flags belong in config.yaml per 12-factor conventions; kept as
// flags for now, matching the teacher's own init()-is-not-ideal TODO.
func init() {
	dbg = flag.Bool("debug", false, "debug mode")
	workers = flag.Int("workers", runtime.NumCPU(), "number of parallel battle workers")
	host = flag.String("host", "", "spectator server host")
	port = flag.String("port", "8080", "spectator server port")
	dataDir = flag.String("datadir", "./fixtures", "path to species/moves/abilities/items/natures/typechart YAML fixtures")
	episodes = flag.Int("episodes", 100, "total battles to run across all workers")
	flag.Parse()
	addr = *host + ":" + *port
}

func main() {
	if err := runApp(); err != nil {
		log.Fatal(err)
	}
}

func runApp() error {
	cfg, err := config.FromYaml("./config.yaml")
	if err != nil {
		return fmt.Errorf("vgcsim: loading config: %w", err)
	}

	gd, err := data.LoadFrom(*dataDir)
	if err != nil {
		return fmt.Errorf("vgcsim: loading fixture data: %w", err)
	}

	envCfg := env.Config{
		ActiveSlots: cfg.ActiveSlots,
		MaxTurns:    cfg.MaxTurns,
		RewardMode:  rewardModeFromString(cfg.RewardMode),
		WinReward:   1.0,
	}
	if envCfg.ActiveSlots == 0 {
		envCfg.ActiveSlots = 1
	}

	runCfg := env.RunParallelConfig{
		Workers:  *workers,
		Episodes: *episodes,
		Cfg:      envCfg,
		Teams:    sampleTeamFactory(gd),
		AgentsFor: func(workerID int) [2]agent.Agent {
			return [2]agent.Agent{
				agent.NewRandomAgent(uint64(workerID)*2 + 1),
				agent.NewRandomAgent(uint64(workerID)*2 + 2),
			}
		},
		SeedFor: func(workerID, episodeIndex int) uint64 {
			return uint64(workerID)*1_000_003 + uint64(episodeIndex) + 1
		},
	}

	if cfg.Spectate.Enabled {
		hub := spectate.NewHub()
		srv := spectate.NewServer(spectateAddr(cfg), hub)

		// live is unbuffered: worker 0's episode 0 blocks on this send
		// until Hub.Publish's internal loop drains it, same caveat the
		// teacher's own publishEleUpdates notes about its stateUpdates
		// chan ("taking too long here could block senders on the state
		// chan") — Hub.Publish always runs its drain goroutine, so the
		// worker stalls only as long as that goroutine is scheduled, not
		// on a spectator actually being connected.
		live := make(chan spectate.EventBatch)
		hub.Publish(context.Background(), liveBattleID, live)
		runCfg.OnStep = func(workerID, episodeIndex, turn int, events []protocol.Event) {
			if workerID != 0 || episodeIndex != 0 {
				return
			}
			live <- spectate.EventBatch{BattleID: liveBattleID, Turn: turn, Events: events}
		}

		go func() {
			if err := srv.Serve(); err != nil {
				log.Println("vgcsim: spectate server:", err)
			}
		}()
	}

	results, stats := env.RunParallel(gd, runCfg)
	fmt.Printf("vgcsim: ran %d episodes across %d workers; mean reward %.3f, mean turns %.1f\n",
		len(results), *workers, stats.MeanReward(), stats.MeanTurns())
	return nil
}

func rewardModeFromString(s string) env.RewardMode {
	switch s {
	case "win_loss":
		return env.RewardWinLoss
	case "dense":
		return env.RewardDense
	default:
		return env.RewardShaped
	}
}

func spectateAddr(cfg *config.Config) string {
	if cfg.Spectate.Addr != "" {
		return cfg.Spectate.Addr
	}
	return addr
}

// sampleTeamFactory builds a TeamFactory that fills both sides with up
// to six combatants drawn from gd's loaded species, in ascending
// species-id order, each a fixed level-100 Hardy build carrying the four
// lowest-id moves loaded in gd, whatever its species (teams authored
// from real movesets belong in config/fixtures, not this entrypoint).
func sampleTeamFactory(gd *data.GameData) env.TeamFactory {
	ids := make([]int, 0, len(gd.Species))
	for id := range gd.Species {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) > 6 {
		ids = ids[:6]
	}

	moveIDs := make([]int, 0, len(gd.Moves))
	for id := range gd.Moves {
		moveIDs = append(moveIDs, id)
	}
	sort.Ints(moveIDs)

	return func(s *battle.State) {
		for side := 0; side < 2; side++ {
			for slot, speciesID := range ids {
				mon, err := combatant.New(gd, speciesID, combatant.BuildOptions{
					Level: 100, NatureID: 0, TeraType: -1, Defaults: true,
					MoveIDs: firstFourMoves(moveIDs),
				})
				if err != nil {
					log.Printf("vgcsim: skipping species %d: %v", speciesID, err)
					continue
				}
				s.SetTeam(side, slot, mon)
			}
		}
	}
}

func firstFourMoves(moveIDs []int) [4]int {
	var out [4]int
	for i := 0; i < 4 && i < len(moveIDs); i++ {
		out[i] = moveIDs[i]
	}
	return out
}
