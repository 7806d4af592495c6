package schedule

import (
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestCombineZeroesSeconds(t *testing.T) {
	date := time.Date(2025, time.June, 1, 9, 45, 33, 123, time.Local)
	combined, err := Combine(date, "18:05")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if combined.Hour() != 18 || combined.Minute() != 5 {
		t.Fatalf("unexpected wall clock %v", combined)
	}
	if combined.Second() != 0 || combined.Nanosecond() != 0 {
		t.Fatalf("expected zeroed seconds, got %v", combined)
	}
}

func TestCombineSplitRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "09:05", "12:30", "23:59"} {
		combined, err := Combine(*datePtr(2025, time.March, 14), clock)
		if err != nil {
			t.Fatalf("combine %q: %v", clock, err)
		}
		parts := Split(combined)
		if parts.Time != clock {
			t.Fatalf("round trip %q -> %q", clock, parts.Time)
		}
		if !parts.Date.Equal(*datePtr(2025, time.March, 14)) {
			t.Fatalf("unexpected date %v", parts.Date)
		}
	}
}

func TestCombineInvalidClock(t *testing.T) {
	for _, clock := range []string{"", "25:00", "12:60", "noon", "12", "aa:bb"} {
		if _, err := Combine(time.Now(), clock); err == nil {
			t.Fatalf("expected error for %q", clock)
		}
	}
}

func TestValidRangeStrictOrder(t *testing.T) {
	day := datePtr(2025, time.July, 10)

	// end after start
	if !ValidRange(Parts{Date: day, Time: "10:00"}, Parts{Date: day, Time: "11:00"}) {
		t.Fatalf("expected valid range")
	}
	// equal instants are allowed
	if !ValidRange(Parts{Date: day, Time: "10:00"}, Parts{Date: day, Time: "10:00"}) {
		t.Fatalf("expected equal instants valid")
	}
	// end strictly before start
	if ValidRange(Parts{Date: day, Time: "10:00"}, Parts{Date: day, Time: "09:59"}) {
		t.Fatalf("expected invalid range")
	}
	// crossing days
	if ValidRange(Parts{Date: datePtr(2025, time.July, 11), Time: "00:00"}, Parts{Date: day, Time: "23:59"}) {
		t.Fatalf("expected invalid range across days")
	}
}

func TestValidRangeMissingComponentsDefer(t *testing.T) {
	day := datePtr(2025, time.July, 10)
	cases := []struct{ start, end Parts }{
		{Parts{}, Parts{Date: day, Time: "10:00"}},
		{Parts{Date: day}, Parts{Date: day, Time: "10:00"}},
		{Parts{Date: day, Time: "10:00"}, Parts{}},
		{Parts{Date: day, Time: "10:00"}, Parts{Time: "09:00"}},
	}
	for i, tc := range cases {
		if !ValidRange(tc.start, tc.end) {
			t.Fatalf("case %d: incomplete parts must defer to required validation", i)
		}
	}
}

func TestFormatTimePads(t *testing.T) {
	if got := FormatTime(time.Date(2025, time.January, 2, 3, 4, 0, 0, time.Local)); got != "03:04" {
		t.Fatalf("unexpected format %q", got)
	}
}
