package battle

import (
	"fmt"

	"vgcsim/internal/combatant"
	"vgcsim/internal/data"
	"vgcsim/internal/protocol"
)

// LegalActions enumerates every Choice side may submit this turn for
// its active slots, per spec §4.E.
func (s *State) LegalActions(side int) []protocol.Choice {
	sd := s.Sides[side]
	var choices []protocol.Choice

	for activeSlot := range sd.Active {
		mon := s.ActiveCombatant(side, activeSlot)

		if mon == nil {
			if s.HasReserve(side) {
				choices = append(choices, s.legalSwitches(side, activeSlot)...)
			} else {
				choices = append(choices, protocol.Choice{Kind: protocol.ChoicePass, ActiveSlot: activeSlot})
			}
			continue
		}

		if mon.Volatiles.MustRecharge || mon.Volatiles.Charging > 0 {
			// Locked into recharging/charging: only Pass is legal.
			choices = append(choices, protocol.Choice{Kind: protocol.ChoicePass, ActiveSlot: activeSlot})
			continue
		}

		choices = append(choices, s.legalMoves(side, activeSlot, mon)...)
		choices = append(choices, s.legalSwitches(side, activeSlot)...)
	}

	return choices
}

func (s *State) legalMoves(side, activeSlot int, mon *combatant.Combatant) []protocol.Choice {
	var choices []protocol.Choice
	for slotIdx, ms := range mon.Moves {
		if ms.Empty() || ms.PP <= 0 {
			continue
		}
		if !s.moveSlotUsable(mon, slotIdx) {
			continue
		}
		md, err := s.GameData.MoveByID(ms.MoveID)
		if err != nil {
			// Unimplemented/missing move data: still selectable, the
			// engine's execution step treats it as a no-op (spec §7
			// "Unimplemented").
			choices = append(choices, protocol.Choice{Kind: protocol.ChoiceMove, ActiveSlot: activeSlot, MoveSlot: slotIdx, Target: protocol.TargetSelf})
			continue
		}

		targets := s.resolveTargetChoices(side, activeSlot, md.Target)
		if len(targets) == 0 {
			choices = append(choices, protocol.Choice{Kind: protocol.ChoiceMove, ActiveSlot: activeSlot, MoveSlot: slotIdx, Target: protocol.TargetSelf})
			continue
		}
		for _, t := range targets {
			choices = append(choices, protocol.Choice{Kind: protocol.ChoiceMove, ActiveSlot: activeSlot, MoveSlot: slotIdx, Target: t})
		}
	}
	return choices
}

// moveSlotUsable reports whether volatile state (disable, taunt,
// encore, choice-lock) permits selecting this move slot.
func (s *State) moveSlotUsable(mon *combatant.Combatant, slotIdx int) bool {
	ms := mon.Moves[slotIdx]
	if mon.Volatiles.Disable > 0 && mon.Volatiles.LastMoveUsed == ms.MoveID {
		return false
	}
	if mon.Volatiles.ChoiceLocked != 0 && mon.Volatiles.ChoiceLocked != ms.MoveID {
		return false
	}
	if mon.Volatiles.Encore > 0 && mon.Volatiles.LastMoveUsed != ms.MoveID {
		return false
	}
	if mon.Volatiles.Taunt > 0 {
		md, err := s.GameData.MoveByID(ms.MoveID)
		if err == nil && md.Category == data.CategoryStatus {
			return false
		}
	}
	return true
}

// resolveTargetChoices returns the sentinel or enumerated target values
// legal for a move's target kind, per spec §4.E "Double-battle targets".
func (s *State) resolveTargetChoices(side, activeSlot int, kind data.TargetKind) []int {
	switch kind {
	case data.TargetNormal, data.TargetAdjacentFoe, data.TargetAny:
		var targets []int
		oppSide := 1 - side
		for oppActive := range s.Sides[oppSide].Active {
			if s.ActiveCombatant(oppSide, oppActive) != nil {
				targets = append(targets, oppActive+1) // positive = opponent
			}
		}
		if kind == data.TargetAny { // "any" also permits allies
			for allyActive := range s.Sides[side].Active {
				if allyActive == activeSlot {
					continue
				}
				if s.ActiveCombatant(side, allyActive) != nil {
					targets = append(targets, -(allyActive + 1))
				}
			}
		}
		return targets
	default:
		// self, all, all-foes, allies, spread, random-foe: single
		// sentinel choice.
		return nil
	}
}

func (s *State) legalSwitches(side, activeSlot int) []protocol.Choice {
	var choices []protocol.Choice
	sd := s.Sides[side]
	activeSet := map[int]bool{}
	for _, a := range sd.Active {
		if a >= 0 {
			activeSet[a] = true
		}
	}
	mon := s.ActiveCombatant(side, activeSlot)
	trapped := mon != nil && mon.Volatiles.Trapped > 0
	if trapped {
		return nil
	}
	for teamSlot, reserve := range sd.Team.Slots {
		if reserve == nil || reserve.Fainted() || activeSet[teamSlot] {
			continue
		}
		choices = append(choices, protocol.Choice{Kind: protocol.ChoiceSwitch, ActiveSlot: activeSlot, TeamSlot: teamSlot})
	}
	return choices
}

// ErrIllegalChoice is the IllegalChoice error kind of spec §4.E/§7.
type ErrIllegalChoice struct {
	Side   int
	Slot   int
	Reason string
}

func (e *ErrIllegalChoice) Error() string {
	return fmt.Sprintf("battle: illegal choice for side %d slot %d: %s", e.Side, e.Slot, e.Reason)
}

// ValidateChoice reports whether c is present in side's legal-action set
// for its ActiveSlot, returning ErrIllegalChoice if not (spec §4.E
// "Validation").
func (s *State) ValidateChoice(side int, c protocol.Choice) error {
	legal := s.LegalActions(side)
	for _, l := range legal {
		if l.ActiveSlot != c.ActiveSlot || l.Kind != c.Kind {
			continue
		}
		switch c.Kind {
		case protocol.ChoiceMove:
			if l.MoveSlot == c.MoveSlot && l.Target == c.Target {
				return nil
			}
		case protocol.ChoiceSwitch:
			if l.TeamSlot == c.TeamSlot {
				return nil
			}
		case protocol.ChoicePass, protocol.ChoiceDefault:
			return nil
		}
	}
	return &ErrIllegalChoice{Side: side, Slot: c.ActiveSlot, Reason: "not in legal-action set"}
}

// DefaultChoice resolves spec §6 "default": prefer first available
// move, else switch, else pass.
func (s *State) DefaultChoice(side, activeSlot int) protocol.Choice {
	legal := s.LegalActions(side)
	var firstSwitch *protocol.Choice
	for i := range legal {
		c := legal[i]
		if c.ActiveSlot != activeSlot {
			continue
		}
		if c.Kind == protocol.ChoiceMove {
			return c
		}
		if c.Kind == protocol.ChoiceSwitch && firstSwitch == nil {
			firstSwitch = &c
		}
	}
	if firstSwitch != nil {
		return *firstSwitch
	}
	return protocol.Choice{Kind: protocol.ChoicePass, ActiveSlot: activeSlot}
}
