package experience

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vgcsim/internal/agent"
	"vgcsim/internal/prng"
)

// ReplayBuffer is a fixed-capacity ring buffer of Transitions with
// circular overwrite on overflow (spec §4.I).
type ReplayBuffer struct {
	data   []Transition
	cap    int
	next   int
	filled bool
	rng    *prng.Source
}

// NewReplayBuffer constructs a ReplayBuffer of the given capacity,
// sampling via its own PRNG so Sample calls are reproducible given a seed.
func NewReplayBuffer(capacity int, seed uint64) *ReplayBuffer {
	return &ReplayBuffer{data: make([]Transition, capacity), cap: capacity, rng: prng.New(seed)}
}

// Add appends t, overwriting the oldest entry once at capacity.
func (b *ReplayBuffer) Add(t Transition) {
	if b.cap == 0 {
		return
	}
	b.data[b.next] = t
	b.next = (b.next + 1) % b.cap
	if b.next == 0 {
		b.filled = true
	}
}

// Len returns the number of Transitions currently held.
func (b *ReplayBuffer) Len() int {
	if b.filled {
		return b.cap
	}
	return b.next
}

// Sample draws n Transitions uniformly with replacement.
func (b *ReplayBuffer) Sample(n int) []Transition {
	size := b.Len()
	if size == 0 {
		return nil
	}
	out := make([]Transition, n)
	for i := range out {
		out[i] = b.data[b.rng.NextRange(size)]
	}
	return out
}

// BatchArrays is the stacked-array form of a sampled batch, spec §4.I
// "get_batch_arrays(n)".
type BatchArrays struct {
	Obs     []agent.Observation
	Actions []int
	Rewards []float64
	NextObs []agent.Observation
	Dones   []bool
}

// GetBatchArrays samples n Transitions and stacks each field into its
// own array.
func (b *ReplayBuffer) GetBatchArrays(n int) BatchArrays {
	batch := b.Sample(n)
	arr := BatchArrays{
		Obs:     make([]agent.Observation, len(batch)),
		Actions: make([]int, len(batch)),
		Rewards: make([]float64, len(batch)),
		NextObs: make([]agent.Observation, len(batch)),
		Dones:   make([]bool, len(batch)),
	}
	for i, t := range batch {
		arr.Obs[i] = t.Obs
		arr.Actions[i] = t.Action
		arr.Rewards[i] = t.Reward
		arr.NextObs[i] = t.NextObs
		arr.Dones[i] = t.Done
	}
	return arr
}

// SaveFormat selects one of the three on-disk encodings spec §4.I asks
// for: a compact binary format (fastest), a portable JSON text format,
// and a dense column-wise numeric archive.
type SaveFormat int

const (
	FormatBinary SaveFormat = iota
	FormatJSON
	FormatColumnar
)

// replayBufferSnapshot is the serializable view of a ReplayBuffer: the
// occupied entries in insertion order, not the raw ring layout.
type replayBufferSnapshot struct {
	Capacity    int
	Transitions []Transition
}

func (b *ReplayBuffer) snapshot() replayBufferSnapshot {
	size := b.Len()
	ordered := make([]Transition, size)
	if b.filled {
		for i := 0; i < size; i++ {
			ordered[i] = b.data[(b.next+i)%b.cap]
		}
	} else {
		copy(ordered, b.data[:size])
	}
	return replayBufferSnapshot{Capacity: b.cap, Transitions: ordered}
}

// columnarArchive is the dense, column-wise encoding FormatColumnar
// produces: each Transition field as its own parallel slice, the way a
// numeric archive (e.g. a sequence of .npy-style arrays) would lay
// things out, here expressed through yaml.v3 since no numeric-array
// library appears anywhere in the retrieval pack.
type columnarArchive struct {
	Capacity int                  `yaml:"capacity"`
	Obs      []agent.Observation  `yaml:"obs"`
	Actions  []int                `yaml:"actions"`
	Rewards  []float64            `yaml:"rewards"`
	NextObs  []agent.Observation  `yaml:"nextObs"`
	Dones    []bool               `yaml:"dones"`
}

// Save writes the buffer's occupied entries to path in the given format.
func (b *ReplayBuffer) Save(path string, format SaveFormat) error {
	snap := b.snapshot()
	var raw []byte
	var err error
	switch format {
	case FormatBinary:
		var buf bytes.Buffer
		if err = gob.NewEncoder(&buf).Encode(snap); err != nil {
			return fmt.Errorf("experience: gob-encoding replay buffer: %w", err)
		}
		raw = buf.Bytes()
	case FormatJSON:
		if raw, err = json.Marshal(snap); err != nil {
			return fmt.Errorf("experience: json-encoding replay buffer: %w", err)
		}
	case FormatColumnar:
		arc := columnarArchive{Capacity: snap.Capacity}
		for _, t := range snap.Transitions {
			arc.Obs = append(arc.Obs, t.Obs)
			arc.Actions = append(arc.Actions, t.Action)
			arc.Rewards = append(arc.Rewards, t.Reward)
			arc.NextObs = append(arc.NextObs, t.NextObs)
			arc.Dones = append(arc.Dones, t.Done)
		}
		if raw, err = yaml.Marshal(arc); err != nil {
			return fmt.Errorf("experience: yaml-encoding replay buffer: %w", err)
		}
	default:
		return fmt.Errorf("experience: unknown SaveFormat %d", format)
	}
	return os.WriteFile(path, raw, 0o644)
}

// Load replaces the buffer's contents from path, previously written by
// Save in the same format. The buffer's capacity is reset to whatever
// was saved.
func (b *ReplayBuffer) Load(path string, format SaveFormat) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("experience: reading %s: %w", path, err)
	}

	var transitions []Transition
	var capacity int
	switch format {
	case FormatBinary:
		var snap replayBufferSnapshot
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
			return fmt.Errorf("experience: gob-decoding replay buffer: %w", err)
		}
		transitions, capacity = snap.Transitions, snap.Capacity
	case FormatJSON:
		var snap replayBufferSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return fmt.Errorf("experience: json-decoding replay buffer: %w", err)
		}
		transitions, capacity = snap.Transitions, snap.Capacity
	case FormatColumnar:
		var arc columnarArchive
		if err := yaml.Unmarshal(raw, &arc); err != nil {
			return fmt.Errorf("experience: yaml-decoding replay buffer: %w", err)
		}
		capacity = arc.Capacity
		for i := range arc.Actions {
			transitions = append(transitions, Transition{
				Obs: arc.Obs[i], Action: arc.Actions[i], Reward: arc.Rewards[i],
				NextObs: arc.NextObs[i], Done: arc.Dones[i],
			})
		}
	default:
		return fmt.Errorf("experience: unknown SaveFormat %d", format)
	}

	if capacity <= 0 {
		capacity = len(transitions)
	}
	b.cap = capacity
	b.data = make([]Transition, capacity)
	b.next = 0
	b.filled = false
	for _, t := range transitions {
		b.Add(t)
	}
	return nil
}
