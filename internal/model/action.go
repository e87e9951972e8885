package model

import "strings"

// Action is the side of a recorded trade.
// Keep these values stable; they are stored in the trades table.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// ParseAction normalizes a stored action string. Unknown values are kept
// verbatim so the trade log never drops a row it cannot classify.
func ParseAction(s string) Action {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return ActionBuy
	case "SELL":
		return ActionSell
	default:
		return Action(s)
	}
}
