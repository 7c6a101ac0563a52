package status_test

import (
	"testing"

	"github.com/remoteeu/jobboard/internal/status"
)

// ── Parse ──────────────────────────────────────────────────────────────────

func TestParse_ValidValues(t *testing.T) {
	valid := []string{"new", "enhanced", "role-match", "role-nomatch", "eu-remote", "non-eu", "error"}
	for _, s := range valid {
		got, err := status.Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("Parse(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParse_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "NEW", "eu_remote", "done"} {
		if _, err := status.Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", s)
		}
	}
}

// ── Enum round trip ────────────────────────────────────────────────────────

func TestEnum_RoundTrip(t *testing.T) {
	for _, s := range status.All {
		got, err := status.ParseEnum(s.Enum())
		if err != nil {
			t.Fatalf("ParseEnum(%q) returned error: %v", s.Enum(), err)
		}
		if got != s {
			t.Errorf("ParseEnum(Enum(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestEnum_CoversEveryStatus(t *testing.T) {
	// An unmapped status would leak its raw hyphenated form to the API.
	for _, s := range status.All {
		if s.Enum() == string(s) && s != status.New {
			t.Errorf("Enum(%q) fell back to the raw persisted form", s)
		}
	}
}

func TestEnum_SpecificForms(t *testing.T) {
	cases := map[status.Status]string{
		status.EURemote:    "EU_REMOTE",
		status.RoleMatch:   "ROLE_MATCH",
		status.RoleNomatch: "ROLE_NOMATCH",
		status.NonEU:       "NON_EU",
	}
	for st, want := range cases {
		if got := st.Enum(); got != want {
			t.Errorf("Enum(%q) = %q, want %q", st, got, want)
		}
	}
}

// ── Transitions ────────────────────────────────────────────────────────────

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to status.Status
		want     bool
	}{
		{status.New, status.Enhanced, true},
		{status.Enhanced, status.RoleMatch, true},
		{status.Enhanced, status.RoleNomatch, true},
		{status.RoleMatch, status.EURemote, true},
		{status.RoleMatch, status.NonEU, true},
		{status.New, status.RoleMatch, false},    // must be enhanced first
		{status.New, status.EURemote, false},     // skipping two phases
		{status.Enhanced, status.EURemote, false},
		{status.RoleNomatch, status.EURemote, false}, // terminal
		{status.EURemote, status.NonEU, false},       // terminal
		{status.NonEU, status.EURemote, false},       // no re-classification here
		{status.Enhanced, status.New, false},         // no going back
	}
	for _, tt := range tests {
		if got := status.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransition_AnyStateToError(t *testing.T) {
	for _, s := range status.All {
		want := s != status.Error
		if got := status.CanTransition(s, status.Error); got != want {
			t.Errorf("CanTransition(%q, error) = %v, want %v", s, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[status.Status]bool{
		status.New:         false,
		status.Enhanced:    false,
		status.RoleMatch:   false,
		status.RoleNomatch: true,
		status.EURemote:    true,
		status.NonEU:       true,
		status.Error:       true,
	}
	for s, want := range terminal {
		if got := status.IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%q) = %v, want %v", s, got, want)
		}
	}
}

// ── Derived remote-EU flag ─────────────────────────────────────────────────

func TestIsRemoteEU_OnlyEURemote(t *testing.T) {
	for _, s := range status.All {
		want := s == status.EURemote
		if got := status.IsRemoteEU(s); got != want {
			t.Errorf("IsRemoteEU(%q) = %v, want %v", s, got, want)
		}
	}
}
