package eval

import "testing"

func TestExtractChoice(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "A", want: "A", ok: true},
		{in: "b", want: "B", ok: true},
		{in: "The answer is C.", want: "C", ok: true},
		{in: "B) ", want: "B", ok: true},
		{in: "Answer: C", want: "C", ok: true},
		{in: "(D)", want: "D", ok: true},
		{in: "E.", want: "E", ok: true},
		{in: "  c  ", want: "C", ok: true},
		{in: "unable to determine", ok: false},
		{in: "", ok: false},
		{in: "F", ok: false},
		{in: "CAT scan required", ok: false},
		{in: "<error: no provider configured>", ok: false},
	}

	for _, tc := range tests {
		got, ok := ExtractChoice(tc.in)
		if ok != tc.ok {
			t.Fatalf("ExtractChoice(%q): ok=%v want %v", tc.in, ok, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ExtractChoice(%q): got %q want %q", tc.in, got, tc.want)
		}
		if !tc.ok && got != "" {
			t.Fatalf("ExtractChoice(%q): unresolved but got %q", tc.in, got)
		}
	}
}

func TestExtractChoice_FirstStandaloneWins(t *testing.T) {
	got, ok := ExtractChoice("Either B or D")
	if !ok || got != "B" {
		t.Fatalf("got %q ok=%v, want B true", got, ok)
	}
}
