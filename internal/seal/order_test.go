package seal

import (
	"math"
	"strings"
	"testing"
)

type blankSet map[string]bool

func (b blankSet) DataColumnBlank(name string) bool { return b[name] }

func intPtr(n int) *int { return &n }

func names(list []Descriptor) string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return strings.Join(out, ",")
}

func TestNumericToken(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"10_S":                   10,
		"8/4":                    8.004,
		"R 12/3":                 12.003,
		"O-Ring":                 NoNumber,
		"x7y9":                   7,
		"x12345678901234567890":  12345678901234567890,
		"99999999999999999999_S": 99999999999999999999,
	}
	for in, want := range cases {
		if got := NumericToken(in); math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Fatalf("NumericToken(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestNumericToken_LongDigitRunsStayOrdered(t *testing.T) {
	t.Parallel()

	ordered := []string{"R-5", "9223372036854775807", "12345678901234567890", "99999999999999999999"}
	for i := 1; i < len(ordered); i++ {
		prev, cur := NumericToken(ordered[i-1]), NumericToken(ordered[i])
		if cur == NoNumber || cur <= prev {
			t.Fatalf("NumericToken(%q)=%v not above NumericToken(%q)=%v", ordered[i], cur, ordered[i-1], prev)
		}
	}
}

func TestSuffixPriority(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"10_S": 0, "10_s ": 0, "4_W": 1, "4_g": 2, "4_X": 99, "4": 99, "a_b_W": 1, "4_": 99,
	}
	for in, want := range cases {
		if got := SuffixPriority(in); got != want {
			t.Fatalf("SuffixPriority(%q)=%d, want %d", in, got, want)
		}
	}
}

func TestSort_TieBreakChain(t *testing.T) {
	t.Parallel()

	list := []Descriptor{
		{Name: "B"},
		{Name: "12_G"},
		{Name: "3_W"},
		{Name: "20_S"},
		{Name: "5_S"},
		{Name: "Std 9", AlwaysShow: true},
		{Name: "Std 2", AlwaysShow: true},
		{Name: "Manual late", AlwaysShow: true, Order: intPtr(7)},
		{Name: "Manual early", AlwaysShow: true, Order: intPtr(1)},
		{Name: "a"},
	}
	got := names(Sort(list))
	want := "Manual early,Manual late,Std 2,Std 9,5_S,20_S,3_W,12_G,a,B"
	if got != want {
		t.Fatalf("order=%s\nwant  %s", got, want)
	}
}

func TestSort_Idempotent(t *testing.T) {
	t.Parallel()

	list := []Descriptor{
		{Name: "8/4"}, {Name: "8/10"}, {Name: "8"}, {Name: "x_S", AlwaysShow: true},
		{Name: "dup"}, {Name: "dup"}, {Name: "Y", AlwaysShow: true, Order: intPtr(0)},
	}
	once := Sort(list)
	twice := Sort(once)
	if names(once) != names(twice) {
		t.Fatalf("sort not idempotent: %s vs %s", names(once), names(twice))
	}
	if names(once) != "Y,x_S,8,8/4,8/10,dup,dup" {
		t.Fatalf("order=%s", names(once))
	}
	if names(list) != "8/4,8/10,8,x_S,dup,dup,Y" {
		t.Fatalf("input must not be reordered")
	}
}

func TestPlan_Filtering(t *testing.T) {
	t.Parallel()

	src := blankSet{"empty": true, "std-empty": true, "missing": true}
	list := []Descriptor{
		{Name: "empty"},
		{Name: "std-empty", AlwaysShow: true},
		{Name: "filled"},
		{Name: "TAG"},
		{Name: "  "},
		{Name: "missing"},
	}
	got := names(Plan(list, src))
	if got != "std-empty,filled" {
		t.Fatalf("plan=%s", got)
	}
}

func TestPlan_SpecScenario(t *testing.T) {
	t.Parallel()

	list := []Descriptor{
		{Name: "8/4"},
		{Name: "10_S", AlwaysShow: true, DefaultValue: 5},
	}
	got := names(Plan(list, blankSet{}))
	if got != "10_S,8/4" {
		t.Fatalf("plan=%s, want 10_S,8/4", got)
	}
}
