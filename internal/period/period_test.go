package period

import (
	"testing"
	"time"
)

func TestTransform_Monday(t *testing.T) {
	t.Parallel()

	head, rest, ok := Transform("24.11.2025 08:00 - 09:00")
	if !ok {
		t.Fatalf("expected transform to succeed")
	}
	if head != "MO 24.11.25" {
		t.Fatalf("head=%q, want %q", head, "MO 24.11.25")
	}
	if rest != " 08:00 - 09:00" {
		t.Fatalf("rest=%q, want %q", rest, " 08:00 - 09:00")
	}
	if got := Format("24.11.2025 08:00 - 09:00"); got != "MO 24.11.25 08:00 - 09:00" {
		t.Fatalf("Format=%q", got)
	}
}

func TestTransform_PadsShortDates(t *testing.T) {
	t.Parallel()

	// 2025-03-21 is a Friday.
	if got := Format("21.3.2025"); got != "FR 21.03.25" {
		t.Fatalf("Format=%q, want %q", got, "FR 21.03.25")
	}
}

func TestTransform_Unparseable(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "morgen", "31.02.2025 08:00", "2025-11-24"} {
		if _, _, ok := Transform(in); ok {
			t.Fatalf("Transform(%q) should fail", in)
		}
		if got := Format(in); got != in {
			t.Fatalf("Format(%q)=%q, want unchanged", in, got)
		}
	}
}

func TestParseInstant(t *testing.T) {
	t.Parallel()

	got, ok := ParseInstant("5.1.2025 9:30 - 10:00")
	if !ok {
		t.Fatalf("expected instant")
	}
	want := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("instant=%v, want %v", got, want)
	}

	got, ok = ParseInstant("05.01.2025 ganztags")
	if !ok || !got.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only instant=%v ok=%v", got, ok)
	}

	if _, ok := ParseInstant("05.01.2025 25:00"); ok {
		t.Fatalf("out of range time must not parse")
	}
	if _, ok := ParseInstant("Termin offen"); ok {
		t.Fatalf("free text must not parse")
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	got := Range([]string{"", "24.11.2025 08:00", "x", "3.11.2025 10:00 - 11:00", "28.11.2025"})
	if got != "03.11.2025 - 28.11.2025" {
		t.Fatalf("Range=%q", got)
	}
	if got := Range([]string{"", "offen"}); got != "" {
		t.Fatalf("Range without dates=%q, want empty", got)
	}
}
