package disclosure

import "fmt"

// Mode selects which field subset a recommendation response may contain.
// Closed set: dispatching happens in exactly one place (Apply), so the
// no-restricted-field-leakage invariant is enforceable at a single choke
// point instead of scattered branches.
type Mode string

const (
	ModeUser  Mode = "user"
	ModeAdmin Mode = "admin"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUser, ModeAdmin:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown disclosure mode: %q", s)
	}
}
