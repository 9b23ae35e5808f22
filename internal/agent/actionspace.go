package agent

import "vgcsim/internal/protocol"

// Action-space id layout (spec §4.G): a fixed-width id-space a
// Policy-style agent scores, independent of how many choices happen to
// be legal this turn.
//   0..3   move slot (default target)
//   4..9   switch to team slot 0..5
//   10     pass
const (
	actionSpaceMoveBase   = 0
	actionSpaceMoveCount  = 4
	actionSpaceSwitchBase = actionSpaceMoveCount
	actionSpaceSwitchCount = 6
	actionSpacePass       = actionSpaceSwitchBase + actionSpaceSwitchCount
	ActionSpaceSize       = actionSpacePass + 1
)

// ActionID maps a legal Choice onto its action-space slot. Target
// adjuncts collapse onto the same id as their base move/switch (the
// mask operates at move/switch granularity; a Policy agent that needs
// per-target selection should prefer Heuristic/Composite instead).
func ActionID(c protocol.Choice) int {
	switch c.Kind {
	case protocol.ChoiceMove:
		if c.MoveSlot >= 0 && c.MoveSlot < actionSpaceMoveCount {
			return actionSpaceMoveBase + c.MoveSlot
		}
	case protocol.ChoiceSwitch:
		if c.TeamSlot >= 0 && c.TeamSlot < actionSpaceSwitchCount {
			return actionSpaceSwitchBase + c.TeamSlot
		}
	case protocol.ChoicePass, protocol.ChoiceDefault:
		return actionSpacePass
	}
	return -1
}

// LegalMask returns a boolean mask over the action space, true where at
// least one legal choice maps to that id.
func LegalMask(legal []protocol.Choice) [ActionSpaceSize]bool {
	var mask [ActionSpaceSize]bool
	for _, c := range legal {
		if id := ActionID(c); id >= 0 {
			mask[id] = true
		}
	}
	return mask
}

// firstChoiceForID returns the first legal choice mapping to id, or
// false if none does.
func firstChoiceForID(legal []protocol.Choice, id int) (protocol.Choice, bool) {
	for _, c := range legal {
		if ActionID(c) == id {
			return c, true
		}
	}
	return protocol.Choice{}, false
}
