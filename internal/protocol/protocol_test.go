package protocol

import "testing"

func TestEventRoundTrip(t *testing.T) {
	ev := Event{Type: EventDamage, Fields: []string{"p2a", "50/100"}}
	line := ev.Render()
	if line != "|-damage|p2a|50/100" {
		t.Fatalf("Render() = %q", line)
	}

	parsed, ok := ParseLine(line)
	if !ok {
		t.Fatal("ParseLine returned ok=false")
	}
	if parsed.Type != ev.Type || len(parsed.Fields) != 2 || parsed.Fields[0] != "p2a" || parsed.Fields[1] != "50/100" {
		t.Fatalf("round-trip mismatch: %+v", parsed)
	}
}

func TestSpreadEvent(t *testing.T) {
	ev := Event{Type: EventDamage, Fields: []string{"p2a", "50/100"}, Spread: true}
	line := ev.Render()
	parsed, ok := ParseLine(line)
	if !ok || !parsed.Spread {
		t.Fatalf("expected spread flag to round-trip, got %+v (ok=%v)", parsed, ok)
	}
}

func TestParseSlot(t *testing.T) {
	side, active, nick, err := ParseSlot("p2a: Froslass")
	if err != nil || side != 1 || active != 0 || nick != "Froslass" {
		t.Fatalf("ParseSlot = (%d,%d,%q,%v)", side, active, nick, err)
	}
}

func TestHPStatusRoundTrip(t *testing.T) {
	s := HPStatus(89, 100, "tox")
	cur, max, status, fainted, err := ParseHPStatus(s)
	if err != nil || cur != 89 || max != 100 || status != "tox" || fainted {
		t.Fatalf("round-trip = (%d,%d,%q,%v,%v)", cur, max, status, fainted, err)
	}

	faintStr := HPStatus(0, 100, "")
	if faintStr != "0 fnt" {
		t.Fatalf("HPStatus(0,...) = %q", faintStr)
	}
	_, _, _, fainted, err = ParseHPStatus(faintStr)
	if err != nil || !fainted {
		t.Fatalf("expected fainted=true, got %v (%v)", fainted, err)
	}
}

func TestParseChoice(t *testing.T) {
	c, err := ParseChoice(0, "move 2 +1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != ChoiceMove || c.MoveSlot != 1 || c.Target != 1 {
		t.Fatalf("ParseChoice = %+v", c)
	}
	if got := c.Render(); got != "move 2 +1" {
		t.Fatalf("Render() = %q", got)
	}

	c2, err := ParseChoice(1, "switch 3")
	if err != nil || c2.Kind != ChoiceSwitch || c2.TeamSlot != 2 {
		t.Fatalf("ParseChoice(switch) = %+v (%v)", c2, err)
	}

	c3, err := ParseChoice(0, "pass")
	if err != nil || c3.Kind != ChoicePass {
		t.Fatalf("ParseChoice(pass) = %+v (%v)", c3, err)
	}
}

func TestParseChoiceStream(t *testing.T) {
	choices, err := ParseChoiceStream("move 1, switch 2")
	if err != nil {
		t.Fatal(err)
	}
	if len(choices) != 2 || choices[0].ActiveSlot != 0 || choices[1].ActiveSlot != 1 {
		t.Fatalf("ParseChoiceStream = %+v", choices)
	}
}

func TestReplayWinner(t *testing.T) {
	log := "|faint|p2a\n|win|Alice\n"
	events := ParseLog(log)
	rs := Replay(events)
	if rs.Winner != "Alice" {
		t.Fatalf("Winner = %q", rs.Winner)
	}
	if rs.HP["p2a"] != 0 {
		t.Fatalf("expected fainted slot HP 0, got %d", rs.HP["p2a"])
	}
}
