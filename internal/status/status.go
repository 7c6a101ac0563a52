// Package status defines the job processing lifecycle state machine.
//
// Valid status graph:
//
//	new ──► enhanced ──► role-match ──► eu-remote | non-eu
//	             └─────► role-nomatch  (terminal, skips EU classification)
//
// Any state may move to error. eu-remote, non-eu, role-nomatch and error are
// terminal; re-classification is driven externally and is not modeled here.
package status

import "fmt"

// Status values mirror the hyphenated status column in PostgreSQL.
type Status string

const (
	New         Status = "new"          // ingested, needs ATS enhancement
	Enhanced    Status = "enhanced"     // ATS data fetched, ready for role tagging
	RoleMatch   Status = "role-match"   // target role confirmed, proceed to EU classification
	RoleNomatch Status = "role-nomatch" // not a target role
	EURemote    Status = "eu-remote"    // classified as fully remote EU position
	NonEU       Status = "non-eu"       // classified as NOT remote EU
	Error       Status = "error"        // processing failed
)

// All lists every valid status in pipeline order.
var All = []Status{New, Enhanced, RoleMatch, RoleNomatch, EURemote, NonEU, Error}

// validTransitions lists every allowed (from → to) pair apart from the
// universal fall-through to Error.
var validTransitions = map[Status][]Status{
	New:       {Enhanced},
	Enhanced:  {RoleMatch, RoleNomatch},
	RoleMatch: {EURemote, NonEU},
	// role-nomatch, eu-remote, non-eu and error are terminal
}

// Parse converts a raw persisted string to a Status, returning an error for
// unknown values so a new status cannot slip through the mapping unnoticed.
func Parse(s string) (Status, error) {
	st := Status(s)
	switch st {
	case New, Enhanced, RoleMatch, RoleNomatch, EURemote, NonEU, Error:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// enumNames is the boundary representation used by the API layer, which
// speaks underscored enums rather than the hyphenated persisted form.
var enumNames = map[Status]string{
	New:         "NEW",
	Enhanced:    "ENHANCED",
	RoleMatch:   "ROLE_MATCH",
	RoleNomatch: "ROLE_NOMATCH",
	EURemote:    "EU_REMOTE",
	NonEU:       "NON_EU",
	Error:       "ERROR",
}

// Enum returns the underscored boundary form ("eu-remote" → "EU_REMOTE").
// Unknown values pass through unchanged so callers can still see what the
// store actually holds.
func (s Status) Enum() string {
	if name, ok := enumNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseEnum converts the underscored boundary form back to a Status.
func ParseEnum(s string) (Status, error) {
	for st, name := range enumNames {
		if name == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown job status enum %q", s)
}

// CanTransition returns true when moving from → to is permitted. Every
// non-error state may move to Error.
func CanTransition(from, to Status) bool {
	if to == Error {
		return from != Error
	}
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further pipeline transition applies.
func IsTerminal(s Status) bool {
	return len(validTransitions[s]) == 0
}

// IsRemoteEU derives the remote-EU flag. It is never stored independently:
// a job is remote-EU iff its status is eu-remote.
func IsRemoteEU(s Status) bool { return s == EURemote }
