package textnorm_test

import (
	"testing"

	"github.com/zintix-labs/puzzlelab/sdk/textnorm"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"eureka", "eureka"},
		{"ÉuréKa", "eureka"},
		{"  Hello,   World! ", "helloworld"},
		{"Crème brûlée", "cremebrulee"},
		{"4-8 15", "4815"},
		{"", ""},
		{"!!!", ""},
		{"straße", "strae"}, // ß 不在 [a-z]，照規則移除
	}
	for _, c := range cases {
		if got := textnorm.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"ÉuréKa", "  a  b  c ", "Ωμέγα", "número-1", "ça va?"}
	for _, s := range inputs {
		once := textnorm.Normalize(s)
		twice := textnorm.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !textnorm.Equal("ÉuréKa", "eureka") {
		t.Fatal("diacritic/case variants must compare equal")
	}
	if textnorm.Equal("eureka", "eurekb") {
		t.Fatal("distinct strings must not compare equal")
	}
}
