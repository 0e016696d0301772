package token

import "testing"

func TestVariantPairs(t *testing.T) {
	pairs := map[Kind]Kind{
		DIV:   DIV_U,
		MOD:   MOD_U,
		SHR:   SHR_U,
		LT:    LT_U,
		LT_EQ: LT_EQ_U,
		GT:    GT_U,
		GT_EQ: GT_EQ_U,
	}

	for base, alt := range pairs {
		if got := base.Variant(1); got != alt {
			t.Errorf("%s.Variant(1) = %s, want %s", base, got, alt)
		}
		if got := base.Variant(0); got != base {
			t.Errorf("%s.Variant(0) = %s, want %s", base, got, base)
		}
		// Odd selectors beyond 1 behave like 1
		if got := base.Variant(3); got != alt {
			t.Errorf("%s.Variant(3) = %s, want %s", base, got, alt)
		}
	}
}

func TestVariantUnpairedIsIdentity(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		even := k.Variant(2)
		if even != k {
			t.Errorf("%s.Variant(2) = %s, want identity", k, even)
		}
	}

	// A sample of kinds with no alternate form
	for _, k := range []Kind{PLUS, MINUS, STAR, SHL, ROL, ROR, EQ_EQ, EOS, IDENT} {
		if got := k.Variant(1); got != k {
			t.Errorf("%s.Variant(1) = %s, want identity", k, got)
		}
	}
}

func TestKindFitsMemoEncoding(t *testing.T) {
	if KindCount > 128 {
		t.Fatalf("KindCount = %d, must stay below 128 for one-byte memo items", KindCount)
	}
}

func TestKindStringsAreDistinct(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Kind(0); k < KindCount; k++ {
		s := k.String()
		if s == "UNKNOWN" {
			t.Errorf("kind %d has no String case", k)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("kinds %d and %d share the name %q", prev, k, s)
		}
		seen[s] = k
	}
}

func TestScopeSigils(t *testing.T) {
	want := map[LabelScope]string{
		ScopeLocal:   ".",
		ScopeHidden:  "..",
		ScopePrivate: "$",
		ScopeWeak:    "$$",
		ScopePublic:  "@",
	}
	for scope, sigil := range want {
		if got := scope.Sigil(); got != sigil {
			t.Errorf("%s.Sigil() = %q, want %q", scope, got, sigil)
		}
	}
}
