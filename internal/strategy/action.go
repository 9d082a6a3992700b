package strategy

import (
	"fmt"
	"strings"
)

// Action is a player decision.
type Action int

const (
	Stand Action = iota
	Hit
	Double
	Split
)

func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether a is one of the four known actions.
func (a Action) Valid() bool {
	return a >= Stand && a <= Split
}

// ParseAction accepts action names and the chart letters S, H, D and P.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stand", "s":
		return Stand, nil
	case "hit", "h":
		return Hit, nil
	case "double", "d":
		return Double, nil
	case "split", "p":
		return Split, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
