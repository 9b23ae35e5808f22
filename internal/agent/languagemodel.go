package agent

import (
	"fmt"
	"strconv"
	"strings"

	"vgcsim/internal/prng"
	"vgcsim/internal/protocol"
)

// TextCapability is the injected external text-completion dependency a
// LanguageModelAgent drives; no HTTP/LLM client library is imported by
// this package itself (spec §4.G "Language-model": "issues a text
// request to an external capability").
type TextCapability interface {
	Request(prompt string) (string, error)
}

// LanguageModelAgent formats the observation and legal actions into a
// text prompt, asks its TextCapability for a reply, parses an action
// index out of it, retries up to MaxRetries on parse failure, and falls
// back to a uniform-random legal choice beyond that (spec §4.G).
type LanguageModelAgent struct {
	Text       TextCapability
	MaxRetries int
	rng        *prng.Source
}

// NewLanguageModelAgent constructs a LanguageModelAgent; fallback
// randomness is seeded independently of any battle PRNG stream.
func NewLanguageModelAgent(text TextCapability, maxRetries int, seed uint64) *LanguageModelAgent {
	return &LanguageModelAgent{Text: text, MaxRetries: maxRetries, rng: prng.New(seed)}
}

func (a *LanguageModelAgent) Act(obs Observation, legal []protocol.Choice, info Info) protocol.Choice {
	if len(legal) == 0 {
		return protocol.Choice{Kind: protocol.ChoicePass}
	}

	prompt := formatPrompt(obs, legal, info)
	for attempt := 0; attempt <= a.MaxRetries; attempt++ {
		reply, err := a.Text.Request(prompt)
		if err != nil {
			continue
		}
		if idx, ok := parseActionIndex(reply, len(legal)); ok {
			return legal[idx]
		}
	}
	return legal[a.rng.NextRange(len(legal))]
}

func formatPrompt(_ Observation, legal []protocol.Choice, _ Info) string {
	var b strings.Builder
	b.WriteString("Choose an action by its index:\n")
	for i, c := range legal {
		fmt.Fprintf(&b, "%d: %s\n", i, c.Render())
	}
	return b.String()
}

// parseActionIndex extracts the first integer token in reply and
// validates it against [0, n).
func parseActionIndex(reply string, n int) (int, bool) {
	for _, field := range strings.Fields(reply) {
		field = strings.Trim(field, ".,:;")
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if idx >= 0 && idx < n {
			return idx, true
		}
	}
	return 0, false
}

// MockLanguageModelAgent cycles a fixed response list, used in testing
// in place of a real TextCapability (spec §4.G "Mock language-model").
type MockLanguageModelAgent struct {
	inner *LanguageModelAgent
}

// NewMockLanguageModelAgent wraps a fixed cyclic response list as a
// TextCapability feeding an ordinary LanguageModelAgent.
func NewMockLanguageModelAgent(responses []string) *MockLanguageModelAgent {
	return &MockLanguageModelAgent{inner: NewLanguageModelAgent(&cyclicText{responses: responses}, 1, 1)}
}

func (a *MockLanguageModelAgent) Act(obs Observation, legal []protocol.Choice, info Info) protocol.Choice {
	return a.inner.Act(obs, legal, info)
}

type cyclicText struct {
	responses []string
	next      int
}

func (c *cyclicText) Request(string) (string, error) {
	if len(c.responses) == 0 {
		return "", fmt.Errorf("agent: mock language model has no responses configured")
	}
	r := c.responses[c.next%len(c.responses)]
	c.next++
	return r, nil
}
