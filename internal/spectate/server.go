package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"

	"vgcsim/internal/protocol"
)

// EventBatch is one turn's worth of protocol.Event published to
// spectators, tagged with the battle it came from (spec §4.F "Engine
// accumulates protocol.Event values into a slice per Step").
type EventBatch struct {
	BattleID string           `json:"battleId"`
	Turn     int              `json:"turn"`
	Events   []protocol.Event `json:"events"`
}

// maxSpectatorsPerBattle bounds the fixed fan-out width passed to
// channerics.Broadcast at Publish time (Broadcast fans to a fixed
// number of consumers decided up front, mirroring the teacher's
// ViewBuilder.Build, which sizes Broadcast by its registered view
// count; here the "view count" is the spectator capacity for one
// battle instead).
const maxSpectatorsPerBattle = 8

// battleFeed holds one battle's broadcast fan-out and a replay log of
// every batch seen so far, so a late-connecting spectator (or the
// /replay/{id} route) can catch up.
type battleFeed struct {
	mu      sync.Mutex
	log     []EventBatch
	chans   []<-chan EventBatch
	claimed int
	cancel  context.CancelFunc
}

// Hub multiplexes battle event streams to websocket spectators and
// serves replay logs by battle id.
type Hub struct {
	mu      sync.Mutex
	battles map[string]*battleFeed
}

// NewHub constructs an empty spectator Hub.
func NewHub() *Hub {
	return &Hub{battles: make(map[string]*battleFeed)}
}

// ErrBattleFull is returned when all maxSpectatorsPerBattle fan-out
// channels of a battle have been claimed; a claimed channel is not
// released when its spectator disconnects.
var ErrBattleFull = errors.New("spectate: battle has no free spectator slots")

// ErrUnknownBattle is returned for a battle id the Hub never saw
// Published.
var ErrUnknownBattle = errors.New("spectate: unknown battle id")

// Publish registers battleID's live event source with the Hub, fanning
// it out to up to maxSpectatorsPerBattle websocket subscribers via
// channerics.Broadcast and appending every batch to the replay log.
// ctx cancellation tears down the fan-out.
func (h *Hub) Publish(ctx context.Context, battleID string, source <-chan EventBatch) {
	ctx, cancel := context.WithCancel(ctx)
	logged := make(chan EventBatch)
	go func() {
		defer close(logged)
		for batch := range channerics.OrDone(ctx.Done(), source) {
			h.appendLog(battleID, batch)
			select {
			case logged <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	fanout := channerics.Broadcast(ctx.Done(), logged, maxSpectatorsPerBattle)

	h.mu.Lock()
	h.battles[battleID] = &battleFeed{chans: fanout, cancel: cancel}
	h.mu.Unlock()
}

func (h *Hub) appendLog(battleID string, batch EventBatch) {
	h.mu.Lock()
	feed := h.battles[battleID]
	h.mu.Unlock()
	if feed == nil {
		return
	}
	feed.mu.Lock()
	feed.log = append(feed.log, batch)
	feed.mu.Unlock()
}

// subscribe claims the next free fan-out channel for battleID.
func (h *Hub) subscribe(battleID string) (<-chan EventBatch, error) {
	h.mu.Lock()
	feed := h.battles[battleID]
	h.mu.Unlock()
	if feed == nil {
		return nil, ErrUnknownBattle
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.claimed >= len(feed.chans) {
		return nil, ErrBattleFull
	}
	ch := feed.chans[feed.claimed]
	feed.claimed++
	return ch, nil
}

// replayLog returns battleID's accumulated event batches.
func (h *Hub) replayLog(battleID string) ([]EventBatch, error) {
	h.mu.Lock()
	feed := h.battles[battleID]
	h.mu.Unlock()
	if feed == nil {
		return nil, ErrUnknownBattle
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	out := make([]EventBatch, len(feed.log))
	copy(out, feed.log)
	return out, nil
}

// Stop tears down battleID's fan-out, releasing its goroutines.
func (h *Hub) Stop(battleID string) {
	h.mu.Lock()
	feed := h.battles[battleID]
	delete(h.battles, battleID)
	h.mu.Unlock()
	if feed != nil {
		feed.cancel()
	}
}

// Server exposes the Hub over HTTP/websocket via gorilla/mux (spec
// "Spectator server"): `/ws/{id}` streams live EventBatches for battle
// id, `/replay/{id}` dumps its accumulated log as JSON, `/healthz`
// reports liveness, matching the teacher's serveIndex/serveWebsocket
// route shape but mux-routed instead of bare http.HandleFunc so the
// battle id is a real path parameter.
type Server struct {
	addr   string
	router *mux.Router
	hub    *Hub
}

// NewServer builds a Server bound to addr, serving hub's battles.
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{addr: addr, router: mux.NewRouter(), hub: hub}
	s.router.HandleFunc("/ws/{id}", s.serveWebsocket)
	s.router.HandleFunc("/replay/{id}", s.serveReplay)
	s.router.HandleFunc("/healthz", s.serveHealthz)
	return s
}

// Serve blocks, listening on addr until the process exits or
// ListenAndServe errors.
func (s *Server) Serve() error {
	if err := http.ListenAndServe(s.addr, s.router); err != nil {
		return fmt.Errorf("spectate: serve: %w", err)
	}
	return nil
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	updates, err := s.hub.subscribe(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	cli, err := newClient(updates, w, r)
	if err != nil {
		return
	}
	_ = cli.Sync()
}

func (s *Server) serveReplay(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log, err := s.hub.replayLog(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(log)
}

func (s *Server) serveHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
