// Package protocol implements the external wire format of spec §6: the
// pipe-delimited Showdown-compatible event log the engine emits, and the
// Choice wire format it accepts. Emission and parsing are each other's
// inverse on the supported message set (spec DESIGN NOTES), grounded in
// original_source/parsers/showdown_log_parser.py's LogEventType
// vocabulary — kept here as a closed Go sum type (spec DESIGN NOTES:
// "dynamic typing -> tagged variants") rather than bare strings.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType is the closed set of message types the engine emits, per
// spec §6.
type EventType string

const (
	EventPlayer       EventType = "player"
	EventTeamSize     EventType = "teamsize"
	EventGameType     EventType = "gametype"
	EventGen          EventType = "gen"
	EventTier         EventType = "tier"
	EventRule         EventType = "rule"
	EventPoke         EventType = "poke"
	EventTeamPreview  EventType = "teampreview"
	EventStart        EventType = "start"
	EventTurn         EventType = "turn"
	EventUpkeep       EventType = "upkeep"
	EventSwitch       EventType = "switch"
	EventMove         EventType = "move"
	EventDamage       EventType = "-damage"
	EventHeal         EventType = "-heal"
	EventStatus       EventType = "-status"
	EventCureStatus   EventType = "-curestatus"
	EventBoost        EventType = "-boost"
	EventUnboost      EventType = "-unboost"
	EventWeather      EventType = "-weather"
	EventFieldStart   EventType = "-fieldstart"
	EventFieldEnd     EventType = "-fieldend"
	EventSideStart    EventType = "-sidestart"
	EventSideEnd      EventType = "-sideend"
	EventTerastallize EventType = "-terastallize"
	EventActivate     EventType = "-activate"
	EventSingleTurn   EventType = "-singleturn"
	EventFaint        EventType = "faint"
	EventWin          EventType = "win"
	EventTie          EventType = "tie"
)

// Event is one emitted message. Fields is the ordered list of
// pipe-separated arguments following the message type; Spread marks a
// -damage/-heal event hitting multiple targets in one doubles action
// (spec scenario 5, Tera Starstorm).
type Event struct {
	Type   EventType
	Fields []string
	Spread bool
}

// Render formats the event in the canonical pipe-delimited wire form.
func (e Event) Render() string {
	var b strings.Builder
	b.WriteString("|")
	b.WriteString(string(e.Type))
	for _, f := range e.Fields {
		b.WriteString("|")
		b.WriteString(f)
	}
	if e.Spread {
		b.WriteString("|[spread]")
	}
	return b.String()
}

// Slot formats a side/active-slot pair in the pNa/pNb wire form (spec
// §6 "Slot format": p{1|2}{a|b}[: nickname]).
func Slot(side, activeSlot int, nickname string) string {
	letter := "a"
	if activeSlot == 1 {
		letter = "b"
	}
	s := fmt.Sprintf("p%d%s", side+1, letter)
	if nickname != "" {
		s += ": " + nickname
	}
	return s
}

// ParseSlot parses a "p1a" or "p1a: Nickname" token into (side,
// activeSlot, nickname).
func ParseSlot(token string) (side, activeSlot int, nickname string, err error) {
	token = strings.TrimSpace(token)
	var head string
	if idx := strings.Index(token, ":"); idx >= 0 {
		head = strings.TrimSpace(token[:idx])
		nickname = strings.TrimSpace(token[idx+1:])
	} else {
		head = token
	}
	if len(head) != 3 || head[0] != 'p' {
		return 0, 0, "", fmt.Errorf("protocol: malformed slot %q", token)
	}
	sideDigit := head[1]
	if sideDigit != '1' && sideDigit != '2' {
		return 0, 0, "", fmt.Errorf("protocol: malformed slot %q", token)
	}
	side = int(sideDigit - '1')
	switch head[2] {
	case 'a':
		activeSlot = 0
	case 'b':
		activeSlot = 1
	default:
		return 0, 0, "", fmt.Errorf("protocol: malformed slot %q", token)
	}
	return side, activeSlot, nickname, nil
}

// HPStatus formats the "CUR/MAX [status]" or "0 fnt" HPSTATUS token.
func HPStatus(cur, max int, status string) string {
	if cur <= 0 {
		return "0 fnt"
	}
	if status == "" {
		return fmt.Sprintf("%d/%d", cur, max)
	}
	return fmt.Sprintf("%d/%d %s", cur, max, status)
}

// ParseHPStatus parses a "CUR/MAX [status]" or "0 fnt" token.
func ParseHPStatus(token string) (cur, max int, status string, fainted bool, err error) {
	token = strings.TrimSpace(token)
	if strings.HasSuffix(token, "fnt") {
		return 0, 0, "", true, nil
	}
	parts := strings.SplitN(token, " ", 2)
	hpPart := parts[0]
	if len(parts) == 2 {
		status = strings.TrimSpace(parts[1])
	}
	slashParts := strings.SplitN(hpPart, "/", 2)
	if len(slashParts) != 2 {
		return 0, 0, "", false, fmt.Errorf("protocol: malformed HPSTATUS %q", token)
	}
	if cur, err = strconv.Atoi(slashParts[0]); err != nil {
		return 0, 0, "", false, fmt.Errorf("protocol: malformed HPSTATUS %q: %w", token, err)
	}
	if max, err = strconv.Atoi(slashParts[1]); err != nil {
		return 0, 0, "", false, fmt.Errorf("protocol: malformed HPSTATUS %q: %w", token, err)
	}
	return cur, max, status, false, nil
}

// Details formats the "Species, L<level>, <gender>" details token.
func Details(species string, level int, gender string) string {
	s := fmt.Sprintf("%s, L%d", species, level)
	if gender != "" {
		s += ", " + gender
	}
	return s
}
