package experience

import "vgcsim/internal/prng"

// EpisodeBuffer is a fixed-capacity ring buffer of whole Episodes, the
// episode-granularity counterpart to ReplayBuffer's transition-granularity
// storage (spec §4.I).
type EpisodeBuffer struct {
	data   []Episode
	cap    int
	next   int
	filled bool
	rng    *prng.Source
}

func NewEpisodeBuffer(capacity int, seed uint64) *EpisodeBuffer {
	return &EpisodeBuffer{data: make([]Episode, capacity), cap: capacity, rng: prng.New(seed)}
}

// Add appends ep, overwriting the oldest episode once at capacity.
func (b *EpisodeBuffer) Add(ep Episode) {
	if b.cap == 0 {
		return
	}
	b.data[b.next] = ep
	b.next = (b.next + 1) % b.cap
	if b.next == 0 {
		b.filled = true
	}
}

// Len returns the number of episodes currently held.
func (b *EpisodeBuffer) Len() int {
	if b.filled {
		return b.cap
	}
	return b.next
}

func (b *EpisodeBuffer) ordered() []Episode {
	size := b.Len()
	out := make([]Episode, size)
	if b.filled {
		for i := 0; i < size; i++ {
			out[i] = b.data[(b.next+i)%b.cap]
		}
	} else {
		copy(out, b.data[:size])
	}
	return out
}

// SampleEpisodes draws n whole Episodes uniformly with replacement.
func (b *EpisodeBuffer) SampleEpisodes(n int) []Episode {
	size := b.Len()
	if size == 0 {
		return nil
	}
	out := make([]Episode, n)
	for i := range out {
		out[i] = b.data[b.rng.NextRange(size)]
	}
	return out
}

// SampleTransitions flattens n sampled episodes' transitions into a
// single slice, for a caller that wants transition-level batches without
// maintaining a separate ReplayBuffer.
func (b *EpisodeBuffer) SampleTransitions(n int) []Transition {
	var out []Transition
	for _, ep := range b.SampleEpisodes(n) {
		out = append(out, ep.Transitions...)
	}
	return out
}

// FilterByOutcome returns the stored episodes whose Winner matches side,
// e.g. for inspecting only the episodes a given side won.
func (b *EpisodeBuffer) FilterByOutcome(side int) []Episode {
	var out []Episode
	for _, ep := range b.ordered() {
		if ep.Winner == side {
			out = append(out, ep)
		}
	}
	return out
}
