package agent

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"vgcsim/internal/protocol"
)

func legalMoveAndSwitch() []protocol.Choice {
	return []protocol.Choice{
		{Kind: protocol.ChoiceMove, MoveSlot: 0},
		{Kind: protocol.ChoiceMove, MoveSlot: 1},
		{Kind: protocol.ChoiceSwitch, TeamSlot: 2},
	}
}

func TestRandomAgentPicksOnlyLegalChoices(t *testing.T) {
	Convey("Given a RandomAgent and a legal choice set", t, func() {
		a := NewRandomAgent(99)
		legal := legalMoveAndSwitch()

		Convey("Act always returns one of the legal choices", func() {
			for i := 0; i < 20; i++ {
				c := a.Act(nil, legal, nil)
				So(legal, ShouldContain, c)
			}
		})

		Convey("Act returns Pass when nothing is legal", func() {
			c := a.Act(nil, nil, nil)
			So(c.Kind, ShouldEqual, protocol.ChoicePass)
		})
	})
}

func TestActionIDAndLegalMask(t *testing.T) {
	Convey("Given a mixed legal set of moves and a switch", t, func() {
		legal := legalMoveAndSwitch()
		mask := LegalMask(legal)

		Convey("move slot 0 and 1 and switch-to-2 are set", func() {
			So(mask[0], ShouldBeTrue)
			So(mask[1], ShouldBeTrue)
			So(mask[actionSpaceSwitchBase+2], ShouldBeTrue)
		})

		Convey("unreferenced ids stay false", func() {
			So(mask[2], ShouldBeFalse)
			So(mask[actionSpacePass], ShouldBeFalse)
		})
	})
}

func TestPolicyAgentArgmaxRespectsMask(t *testing.T) {
	Convey("Given a PolicyAgent scoring switch-to-2 highest", t, func() {
		score := func(Observation) [ActionSpaceSize]float64 {
			var s [ActionSpaceSize]float64
			s[0] = 1
			s[actionSpaceSwitchBase+2] = 100 // highest, and legal
			s[actionSpaceSwitchBase+3] = 1000 // highest overall, but illegal
			return s
		}
		a := NewPolicyAgent(score, SelectArgmax, 0, 1)
		legal := legalMoveAndSwitch()

		Convey("Act selects the highest-scoring legal action, ignoring illegal ones", func() {
			c := a.Act(nil, legal, nil)
			So(c.Kind, ShouldEqual, protocol.ChoiceSwitch)
			So(c.TeamSlot, ShouldEqual, 2)
		})
	})
}

func TestPolicyAgentEpsilonGreedyAlwaysExplores(t *testing.T) {
	Convey("Given a PolicyAgent with epsilon=1", t, func() {
		score := func(Observation) [ActionSpaceSize]float64 {
			var s [ActionSpaceSize]float64
			return s
		}
		a := NewPolicyAgent(score, SelectEpsilonGreedy, 1.0, 5)
		legal := legalMoveAndSwitch()

		Convey("every Act call returns a legal choice via the explore branch", func() {
			for i := 0; i < 10; i++ {
				c := a.Act(nil, legal, nil)
				So(legal, ShouldContain, c)
			}
		})
	})
}

func TestHeuristicAgentTieBreak(t *testing.T) {
	Convey("Given a HeuristicAgent scoring every choice equally", t, func() {
		legal := legalMoveAndSwitch()
		flat := func(Observation, protocol.Choice) float64 { return 0 }

		Convey("TieBreakFirst returns the first legal choice", func() {
			a := NewHeuristicAgent(flat, TieBreakFirst, 1)
			So(a.Act(nil, legal, nil), ShouldResemble, legal[0])
		})

		Convey("TieBreakLast returns the last legal choice", func() {
			a := NewHeuristicAgent(flat, TieBreakLast, 1)
			So(a.Act(nil, legal, nil), ShouldResemble, legal[len(legal)-1])
		})
	})

	Convey("Given a HeuristicAgent preferring switches", t, func() {
		legal := legalMoveAndSwitch()
		preferSwitch := func(_ Observation, c protocol.Choice) float64 {
			if c.Kind == protocol.ChoiceSwitch {
				return 1
			}
			return 0
		}
		a := NewHeuristicAgent(preferSwitch, TieBreakFirst, 1)

		Convey("Act picks the switch over any move", func() {
			c := a.Act(nil, legal, nil)
			So(c.Kind, ShouldEqual, protocol.ChoiceSwitch)
		})
	})
}

func TestCompositeAgentWeightedSum(t *testing.T) {
	Convey("Given two PolicyAgent Scorers with opposing preferences", t, func() {
		preferMove := NewPolicyAgent(func(Observation) [ActionSpaceSize]float64 {
			var s [ActionSpaceSize]float64
			s[0] = 10
			return s
		}, SelectArgmax, 0, 1)
		preferSwitch := NewPolicyAgent(func(Observation) [ActionSpaceSize]float64 {
			var s [ActionSpaceSize]float64
			s[actionSpaceSwitchBase+2] = 10
			return s
		}, SelectArgmax, 0, 1)

		legal := legalMoveAndSwitch()

		Convey("a dominant weight on one sub-agent determines the outcome", func() {
			composite := NewCompositeAgent([]Scorer{preferMove, preferSwitch}, []float64{0.1, 1.0})
			c := composite.Act(nil, legal, nil)
			So(c.Kind, ShouldEqual, protocol.ChoiceSwitch)
		})

		Convey("mismatched sub/weight lengths panic at construction", func() {
			So(func() { NewCompositeAgent([]Scorer{preferMove}, []float64{1, 2}) }, ShouldPanic)
		})
	})
}

func TestHumanAgentDelegatesToIOCapability(t *testing.T) {
	Convey("Given a HumanAgent wrapping a fixed-response IOCapability", t, func() {
		legal := legalMoveAndSwitch()
		io := fixedPrompt{choice: legal[1]}
		a := NewHumanAgent(io)

		Convey("Act returns exactly what the capability prompts", func() {
			So(a.Act(nil, legal, nil), ShouldResemble, legal[1])
		})

		Convey("Act returns Pass without consulting IO when nothing is legal", func() {
			c := a.Act(nil, nil, nil)
			So(c.Kind, ShouldEqual, protocol.ChoicePass)
		})
	})
}

type fixedPrompt struct{ choice protocol.Choice }

func (f fixedPrompt) Prompt(Observation, []protocol.Choice) protocol.Choice { return f.choice }

func TestLanguageModelAgentParsesReplyIndex(t *testing.T) {
	Convey("Given a LanguageModelAgent whose TextCapability replies '1'", t, func() {
		a := NewLanguageModelAgent(&cyclicText{responses: []string{"I'll pick 1."}}, 2, 1)
		legal := legalMoveAndSwitch()

		Convey("Act returns legal[1]", func() {
			So(a.Act(nil, legal, nil), ShouldResemble, legal[1])
		})
	})

	Convey("Given a TextCapability that never returns a parseable index", t, func() {
		a := NewLanguageModelAgent(&cyclicText{responses: []string{"no idea"}}, 2, 3)
		legal := legalMoveAndSwitch()

		Convey("Act falls back to a uniform-random legal choice", func() {
			c := a.Act(nil, legal, nil)
			So(legal, ShouldContain, c)
		})
	})
}

func TestMockLanguageModelAgentCyclesResponses(t *testing.T) {
	Convey("Given a MockLanguageModelAgent with responses 0 then 2", t, func() {
		a := NewMockLanguageModelAgent([]string{"0", "2"})
		legal := legalMoveAndSwitch()

		Convey("successive Act calls follow the configured cycle", func() {
			So(a.Act(nil, legal, nil), ShouldResemble, legal[0])
			So(a.Act(nil, legal, nil), ShouldResemble, legal[2])
			So(a.Act(nil, legal, nil), ShouldResemble, legal[0])
		})
	})
}
