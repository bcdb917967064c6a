package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},
		{" user@example.com", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - display name format
		{"User Name <user@example.com>", false},

		// Invalid emails - spaces
		{"user @example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"newmember1", true},
		{"abc", true},
		{"Under_Score_9", true},

		// banned substrings, any case
		{"admin1", false},
		{"xyzadmin", false},
		{"AdMiNistrator", false},
		{"terragon", false},
		{"myTerragonAcct", false},

		// too short
		{"", false},
		{"a", false},
		{"ab", false},

		// characters outside [A-Za-z0-9_]
		{"new member", false},
		{"new-member", false},
		{"new.member", false},
		{"newmember!", false},
		{"naïve_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidUsername(tt.name, "terragon"); got != tt.want {
				t.Errorf("ValidUsername(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidUsername_NoProduct(t *testing.T) {
	if !ValidUsername("terragon_fan", "") {
		t.Error("empty product name should not ban anything extra")
	}
	if ValidUsername("superadmin", "") {
		t.Error("admin is banned regardless of product name")
	}
}

func TestCanonicalPhone(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"(650) 253-0000", "+1 650-253-0000", true},
		{"650-253-0000", "+1 650-253-0000", true},
		{"+1 650-253-0000", "+1 650-253-0000", true},
		{"+44 20 7031 3000", "+44 20 7031 3000", true},
		{"12", "", false},
		{"not a phone", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalPhone(tt.in, DefaultRegion)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CanonicalPhone(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCanonicalPhone_Idempotent(t *testing.T) {
	inputs := []string{"(650) 253-0000", "6502530000", "+44 20 7031 3000"}
	for _, in := range inputs {
		once, ok := CanonicalPhone(in, DefaultRegion)
		if !ok {
			t.Fatalf("CanonicalPhone(%q) rejected", in)
		}
		twice, ok := CanonicalPhone(once, DefaultRegion)
		if !ok || twice != once {
			t.Errorf("CanonicalPhone(%q) = %q, re-validated = %q (ok=%v)", in, once, twice, ok)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		pw, confirm string
		want        string
	}{
		{"", "", MsgRequired},
		{"short", "short", MsgShort},
		{"longenough", "different1", MsgMismatch},
		{"longenough", "longenough", ""},
	}
	for _, tt := range tests {
		got := checkPassword(tt.pw, tt.confirm)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("checkPassword(%q,%q) = %v, want nil", tt.pw, tt.confirm, got)
		case tt.want != "" && (got == nil || got.Message != tt.want):
			t.Errorf("checkPassword(%q,%q) = %v, want %s", tt.pw, tt.confirm, got, tt.want)
		}
	}
}
