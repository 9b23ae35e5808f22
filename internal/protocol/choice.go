package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ChoiceKind is the closed set of choice variants from spec §3.3.
type ChoiceKind int

const (
	ChoiceMove ChoiceKind = iota
	ChoiceSwitch
	ChoicePass
	ChoiceDefault
)

// TargetSelf is the sentinel Target value for self/spread/all-target
// moves (spec 3.3: "for spread/self/all targets the field is a
// distinguished sentinel").
const TargetSelf = 0

// Choice is one parsed per-slot action (spec §3.3). Target's sign
// distinguishes ally (negative) from opponent (positive); magnitude
// minus one is the active slot on that side.
type Choice struct {
	Kind        ChoiceKind
	ActiveSlot  int
	MoveSlot    int // 0-indexed move slot (wire format is 1-indexed)
	Target      int
	TeamSlot    int // 0-indexed team slot (wire format is 1-indexed), for Switch
	TeamName    string
	Mega        bool
	ZMove       bool
	Max         bool
	Terastallize bool
}

// ParseChoice parses one comma-separated wire entry (spec §6 "Choice
// wire format"). activeSlot is supplied by the caller since the wire
// format itself does not encode which active slot a bare "move N" token
// refers to (the caller tracks entry order per side).
func ParseChoice(activeSlot int, token string) (Choice, error) {
	token = strings.TrimSpace(token)
	fields := strings.Fields(token)
	if len(fields) == 0 {
		return Choice{}, fmt.Errorf("protocol: empty choice token")
	}

	switch fields[0] {
	case "pass":
		return Choice{Kind: ChoicePass, ActiveSlot: activeSlot}, nil
	case "default":
		return Choice{Kind: ChoiceDefault, ActiveSlot: activeSlot}, nil
	case "switch":
		if len(fields) < 2 {
			return Choice{}, fmt.Errorf("protocol: malformed switch choice %q", token)
		}
		c := Choice{Kind: ChoiceSwitch, ActiveSlot: activeSlot}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			c.TeamSlot = n - 1
		} else {
			c.TeamName = strings.Join(fields[1:], " ")
			c.TeamSlot = -1
		}
		return c, nil
	case "move":
		if len(fields) < 2 {
			return Choice{}, fmt.Errorf("protocol: malformed move choice %q", token)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Choice{}, fmt.Errorf("protocol: malformed move slot in %q: %w", token, err)
		}
		c := Choice{Kind: ChoiceMove, ActiveSlot: activeSlot, MoveSlot: n - 1, Target: TargetSelf}
		for _, adjunct := range fields[2:] {
			switch {
			case adjunct == "mega":
				c.Mega = true
			case adjunct == "zmove":
				c.ZMove = true
			case adjunct == "max":
				c.Max = true
			case adjunct == "terastallize":
				c.Terastallize = true
			case strings.HasPrefix(adjunct, "+"):
				k, err := strconv.Atoi(adjunct[1:])
				if err != nil {
					return Choice{}, fmt.Errorf("protocol: malformed target in %q: %w", token, err)
				}
				c.Target = k
			case strings.HasPrefix(adjunct, "-"):
				k, err := strconv.Atoi(adjunct[1:])
				if err != nil {
					return Choice{}, fmt.Errorf("protocol: malformed target in %q: %w", token, err)
				}
				c.Target = -k
			default:
				return Choice{}, fmt.Errorf("protocol: unrecognized move adjunct %q in %q", adjunct, token)
			}
		}
		return c, nil
	default:
		return Choice{}, fmt.Errorf("protocol: unrecognized choice %q", token)
	}
}

// ParseChoiceStream parses a ", "-separated list of per-slot entries,
// assigning activeSlot 0, 1, 2, ... in order.
func ParseChoiceStream(stream string) ([]Choice, error) {
	var choices []Choice
	for i, tok := range strings.Split(stream, ",") {
		c, err := ParseChoice(i, tok)
		if err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, nil
}

// Render formats a Choice back into its wire form.
func (c Choice) Render() string {
	switch c.Kind {
	case ChoicePass:
		return "pass"
	case ChoiceDefault:
		return "default"
	case ChoiceSwitch:
		if c.TeamName != "" {
			return "switch " + c.TeamName
		}
		return fmt.Sprintf("switch %d", c.TeamSlot+1)
	case ChoiceMove:
		s := fmt.Sprintf("move %d", c.MoveSlot+1)
		if c.Target > 0 {
			s += fmt.Sprintf(" +%d", c.Target)
		} else if c.Target < 0 {
			s += fmt.Sprintf(" -%d", -c.Target)
		}
		if c.Mega {
			s += " mega"
		}
		if c.ZMove {
			s += " zmove"
		}
		if c.Max {
			s += " max"
		}
		if c.Terastallize {
			s += " terastallize"
		}
		return s
	default:
		return ""
	}
}
