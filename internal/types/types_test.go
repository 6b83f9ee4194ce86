package types

import "testing"

func TestVerdictOrdering(t *testing.T) {
	verdicts := Verdicts()

	for i := 1; i < len(verdicts); i++ {
		if verdicts[i-1].Rank() <= verdicts[i].Rank() {
			t.Errorf("%s should outrank %s", verdicts[i-1], verdicts[i])
		}
	}

	if !VerdictConfirmed.AtLeast(VerdictLikely) {
		t.Error("CONFIRMED should be at least LIKELY")
	}

	if VerdictPossible.AtLeast(VerdictLikely) {
		t.Error("POSSIBLE should not be at least LIKELY")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in    string
		want  Verdict
		valid bool
	}{
		{in: "likely", want: VerdictLikely, valid: true},
		{in: " highly-likely ", want: VerdictHighlyLikely, valid: true},
		{in: "CONFIRMED", want: VerdictConfirmed, valid: true},
		{in: "maybe", want: Verdict("MAYBE"), valid: false},
	}

	for _, tc := range tests {
		got := ParseVerdict(tc.in)
		if got != tc.want {
			t.Errorf("ParseVerdict(%q) = %q, want %q", tc.in, got, tc.want)
		}

		if got.Valid() != tc.valid {
			t.Errorf("ParseVerdict(%q).Valid() = %v, want %v", tc.in, got.Valid(), tc.valid)
		}
	}
}

func TestFindingProviderName(t *testing.T) {
	var f Finding
	if got := f.ProviderName(); got != "" {
		t.Errorf("expected empty provider name, got %q", got)
	}

	heroku := "heroku"
	f.Provider = &heroku

	if got := f.ProviderName(); got != "heroku" {
		t.Errorf("expected heroku, got %q", got)
	}
}
