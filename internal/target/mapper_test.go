package target

import "testing"

func TestFromPath_ExactKeyword(t *testing.T) {
	m := NewMapper(nil)

	target := m.FromPath("src/payment/checkout_flow.js")
	if target.Feature != "payment" {
		t.Fatalf("feature = %q, want payment", target.Feature)
	}
	if target.TestName != "checkoutFlow" {
		t.Fatalf("test name = %q, want checkoutFlow", target.TestName)
	}
}

func TestFromPath_CustomVocabulary(t *testing.T) {
	m := NewMapper([]string{"inventory", "shipping"})

	target := m.FromPath("app/shipping/rates.ts")
	if target.Feature != "shipping" {
		t.Fatalf("feature = %q, want shipping", target.Feature)
	}
	if target.TestName != "rates" {
		t.Fatalf("test name = %q", target.TestName)
	}
}

func TestFromPath_FuzzyFallback(t *testing.T) {
	m := NewMapper([]string{"payment"})

	// No exact substring, but "pymnt" shares ordered characters with the
	// keyword through the fuzzy match.
	target := m.FromPath("src/pay_men_t/handler.js")
	if target.Feature != "payment" {
		t.Fatalf("feature = %q, want payment via fuzzy match", target.Feature)
	}
}

func TestFromPath_NoMatch(t *testing.T) {
	m := NewMapper([]string{"zzzz"})

	target := m.FromPath("src/misc/xy.js")
	if target.Feature != "" {
		t.Fatalf("feature = %q, want empty for unmatched path", target.Feature)
	}
}

func TestFromPath_SpecSuffixStripped(t *testing.T) {
	m := NewMapper(nil)

	target := m.FromPath("tests/user-login.spec.js")
	if target.TestName != "userLogin" {
		t.Fatalf("test name = %q, want userLogin", target.TestName)
	}
}

func TestLowerCamel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"checkout_flow", "checkoutFlow"},
		{"user-login", "userLogin"},
		{"simple", "simple"},
		{"ALREADY_UPPER", "alreadyUpper"},
		{"multi_word_name_here", "multiWordNameHere"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lowerCamel(tt.in); got != tt.want {
			t.Fatalf("lowerCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
