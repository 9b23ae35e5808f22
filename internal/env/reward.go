package env

import (
	"vgcsim/internal/battle"
	"vgcsim/internal/protocol"
)

// sideWinner maps a side index to the battle.Winner value representing
// that side's victory.
func sideWinner(side int) battle.Winner {
	if side == 0 {
		return battle.WinnerSide0
	}
	return battle.WinnerSide1
}

// reward computes side's per-step signal under the configured
// RewardMode (spec §4.H). Terminal win/loss dominates every mode; the
// shaped and dense modes additionally fold in this step's HP deltas,
// per-side faint counts, and newly-applied status.
func (e *Env) reward(side int, events []protocol.Event) float64 {
	if e.state.Ended {
		switch e.state.Winner {
		case sideWinner(side):
			return e.cfg.WinReward
		case sideWinner(1 - side):
			return -e.cfg.WinReward
		default: // tie
			return 0
		}
	}

	switch e.cfg.RewardMode {
	case RewardShaped:
		return e.shapedStepReward(side, events)
	case RewardDense:
		return e.denseStepReward(side)
	default: // RewardWinLoss
		return 0
	}
}

// shapedStepReward gives a small signal for HP swung in side's favor
// and for opposing faints caused this step, per spec §4.H "shaped".
func (e *Env) shapedStepReward(side int, events []protocol.Event) float64 {
	const (
		hpFractionWeight = 1.0
		faintWeight       = 0.5
		statusWeight      = 0.1
	)
	r := hpFractionWeight * e.hpFractionDelta(side)

	for _, ev := range events {
		if ev.Type != protocol.EventFaint || len(ev.Fields) == 0 {
			continue
		}
		faintedSide, _, _, err := protocol.ParseSlot(ev.Fields[0])
		if err != nil {
			continue
		}
		if faintedSide == 1-side {
			r += faintWeight
		} else {
			r -= faintWeight
		}
	}
	for _, ev := range events {
		if ev.Type != protocol.EventStatus || len(ev.Fields) == 0 {
			continue
		}
		statusedSide, _, _, err := protocol.ParseSlot(ev.Fields[0])
		if err != nil {
			continue
		}
		if statusedSide == 1-side {
			r += statusWeight
		} else {
			r -= statusWeight
		}
	}
	return r
}

// denseStepReward scores every point of damage dealt or taken this
// step, per spec §4.H "dense".
func (e *Env) denseStepReward(side int) float64 {
	return e.hpFractionDelta(side)
}

// hpFractionDelta sums (opponent HP lost - own HP lost) as a fraction
// of each combatant's max HP since the last snapshot.
func (e *Env) hpFractionDelta(side int) float64 {
	own := e.teamHPFractionDelta(side)
	opp := e.teamHPFractionDelta(1 - side)
	return opp - own
}

func (e *Env) teamHPFractionDelta(side int) float64 {
	sd := e.state.Sides[side]
	var total float64
	for i, mon := range sd.Team.Slots {
		if mon == nil || mon.MaxHP == 0 {
			continue
		}
		lost := e.prevHP[side][i] - mon.CurrentHP
		if lost > 0 {
			total += float64(lost) / float64(mon.MaxHP)
		}
	}
	return total
}
