package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/slrsim/internal/dynamo"
)

type EventKind int

const (
	Move EventKind = iota
	Touch
	Leave
	TouchEnd
	Wait
)

var kindNames = map[EventKind]string{
	Move:     "move",
	Touch:    "touch",
	Leave:    "leave",
	TouchEnd: "touch-end",
	Wait:     "wait",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is one scripted input. X is a fraction of the chart width for Move
// and Touch; Frames is the pause length for Wait.
type Event struct {
	Kind   EventKind
	X      float64
	Frames int
}

func (e Event) String() string {
	switch e.Kind {
	case Move, Touch:
		return e.Kind.String() + ":" + strconv.FormatFloat(e.X, 'g', -1, 64)
	case Wait:
		return e.Kind.String() + ":" + strconv.Itoa(e.Frames)
	}
	return e.Kind.String()
}

// Script is an ordered list of input events. Consecutive events without a
// Wait between them land in the same frame.
type Script []Event

func (s Script) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// Frames is the number of frames the script waits in total.
func (s Script) Frames() int {
	n := 0
	for _, e := range s {
		if e.Kind == Wait {
			n += e.Frames
		}
	}
	return n
}

// Parse reads a comma separated script such as "move:0.5,wait:30,leave".
func Parse(text string) (Script, error) {
	var script Script
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		verb, arg, hasArg := strings.Cut(tok, ":")
		switch verb {
		case "move", "touch":
			if !hasArg {
				return nil, fmt.Errorf("experiment: %s needs a position: %q", verb, tok)
			}
			x, err := strconv.ParseFloat(arg, 64)
			if err != nil || !dynamo.Finite(x) {
				return nil, fmt.Errorf("experiment: bad position in %q", tok)
			}
			kind := Move
			if verb == "touch" {
				kind = Touch
			}
			script = append(script, Event{Kind: kind, X: x})
		case "wait":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("experiment: bad frame count in %q", tok)
			}
			script = append(script, Event{Kind: Wait, Frames: n})
		case "leave":
			script = append(script, Event{Kind: Leave})
		case "touch-end":
			script = append(script, Event{Kind: TouchEnd})
		default:
			return nil, fmt.Errorf("experiment: unknown event %q", tok)
		}
	}
	if len(script) == 0 {
		return nil, dynamo.ErrEmptyScript
	}
	return script, nil
}

// Sweep moves the pointer from one fraction to another in steps moves, one
// frame apart, holds for hold frames and leaves.
func Sweep(from, to float64, steps, hold int) Script {
	steps = max(steps, 1)
	script := make(Script, 0, 2*steps+3)
	for i := 0; i <= steps; i++ {
		x := dynamo.Lerp(from, to, float64(i)/float64(steps))
		script = append(script, Event{Kind: Move, X: x}, Event{Kind: Wait, Frames: 1})
	}
	if hold > 0 {
		script = append(script, Event{Kind: Wait, Frames: hold})
	}
	return append(script, Event{Kind: Leave})
}
